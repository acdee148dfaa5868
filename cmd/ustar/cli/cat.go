// Package cli provides ustar commands: create, manifest, list, and cat.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cli

import (
	"io"
	"os"

	"github.com/NVIDIA/ustar/cmn/archive"
	"github.com/NVIDIA/ustar/cmn/cos"

	"github.com/urfave/cli"
)

var catCmd = cli.Command{
	Name:  cmdCat,
	Usage: "write archived file(s) to standard output",
	Description: `With ARCHIVED_NAME, writes out that single file (the name must match exactly);
   otherwise, all files selected by --match (and --match-mode), in archive order.`,
	ArgsUsage: archiveArgument + " [" + nameArgument + "]",
	Flags:     []cli.Flag{mimeFlag, verifyFlag, matchFlag, mmodeFlag},
	Action:    catHandler,
}

func catHandler(c *cli.Context) error {
	if c.NArg() < 1 {
		return missingArgumentsError(c, archiveArgument)
	}
	archName := cos.ExpandPath(c.Args().Get(0))
	fh, err := os.Open(archName)
	if err != nil {
		return err
	}
	defer cos.Close(fh)
	mime, err := archive.MimeFile(fh, parseStrFlag(c, mimeFlag), archName)
	if err != nil {
		return err
	}
	rc, err := archive.NewDecompressReader(mime, fh)
	if err != nil {
		return err
	}
	defer rc.Close()

	tr := archive.NewReader(rc, archive.ReaderOpts{VerifyCksum: flagIsSet(c, verifyFlag)})
	if c.NArg() > 1 {
		r, err := tr.ReadOne(c.Args().Get(1))
		if err != nil {
			return err
		}
		_, err = io.Copy(c.App.Writer, r)
		return err
	}
	mmode, err := archive.ValidateMatchMode(parseStrFlag(c, mmodeFlag))
	if err != nil {
		return err
	}
	rcb := archive.RCBFunc(func(_ string, r cos.ReadCloseSizer, _ *archive.Header) (bool, error) {
		_, err := io.Copy(c.App.Writer, r)
		return false, err
	})
	return tr.ReadUntil(rcb, parseStrFlag(c, matchFlag), mmode)
}
