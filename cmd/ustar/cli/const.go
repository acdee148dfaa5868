// Package cli provides ustar commands: create, manifest, list, and cat.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cli

import (
	"github.com/NVIDIA/ustar/cmn/archive"
	"github.com/NVIDIA/ustar/cmn/cos"

	"github.com/urfave/cli"
)

// command names
const (
	cmdCreate   = "create"
	cmdManifest = "manifest"
	cmdList     = "ls"
	cmdCat      = "cat"
)

// argument placeholders
const (
	archiveArgument  = "ARCHIVE"
	dirArgument      = "DIRECTORY"
	manifestArgument = "MANIFEST"
	nameArgument     = "ARCHIVED_NAME"
)

var (
	noColorFlag = cli.BoolFlag{Name: "no-color", Usage: "disable colored output"}

	cksumFlag = cli.StringFlag{
		Name:  "checksum",
		Usage: "compute checksum of the (uncompressed) archive stream, one of: " + cos.ChecksumXXHash + ", " + cos.ChecksumMD5 + ", " + cos.ChecksumCRC32C + ", " + cos.ChecksumSHA256,
	}
	mimeFlag = cli.StringFlag{
		Name:  "mime",
		Usage: "archive format (" + archive.ExtTar + ", " + archive.ExtTarGz + ", " + archive.ExtTarLz4 + "), if not implied by the filename extension",
	}
	verifyFlag = cli.BoolFlag{Name: "verify", Usage: "verify header checksums"}
	allFlag    = cli.BoolFlag{Name: "all,a", Usage: "include directories, links, and other header-only entries"}
	jsonFlag   = cli.BoolFlag{Name: "json,j", Usage: "json output"}
	yamlFlag   = cli.BoolFlag{Name: "yaml,y", Usage: "yaml output"}
	noHdrFlag  = cli.BoolFlag{Name: "no-headers,H", Usage: "display tables without headers"}
	appendFlag = cli.BoolFlag{Name: "append", Usage: "add to an existing (uncompressed) archive"}

	matchFlag = cli.StringFlag{Name: "match", Usage: "select archived files that match, see also --match-mode"}
	mmodeFlag = cli.StringFlag{
		Name:  "match-mode",
		Usage: "how to interpret --match: regexp, prefix, suffix, substr, wdskey",
		Value: archive.MatchMode[1],
	}
)
