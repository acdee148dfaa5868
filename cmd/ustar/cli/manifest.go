// Package cli provides ustar commands: create, manifest, list, and cat.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/NVIDIA/ustar/cmn/archive"
	"github.com/NVIDIA/ustar/cmn/cos"
	"github.com/NVIDIA/ustar/cmn/nlog"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

var manifestCmd = cli.Command{
	Name:  cmdManifest,
	Usage: "create archive from a JSON manifest that spells out each header",
	Description: `MANIFEST is a JSON array, e.g.:
   [
     {"header": {"name": "hello.txt", "prefix": "", "mode": 420, "size": 5}, "data": "world"},
     {"header": {"name": "dir/", "prefix": "", "mode": 493, "size": 0, "typeflag": "5"}},
     {"header": {"name": "big.bin", "prefix": "data", "mode": 420}, "source": "/tmp/big.bin"}
   ]
   Header fields name, prefix, and mode are required; size defaults to the length of "data"
   or the size of "source".`,
	ArgsUsage: archiveArgument + " " + manifestArgument,
	Flags:     []cli.Flag{cksumFlag, mimeFlag},
	Action:    manifestHandler,
}

type manifestEntry struct {
	Header archive.HeaderArgs `json:"header"`
	Source string             `json:"source,omitempty"` // file to read the payload from
	Data   string             `json:"data,omitempty"`   // inline payload
}

func manifestHandler(c *cli.Context) error {
	if c.NArg() < 2 {
		return missingArgumentsError(c, archiveArgument, manifestArgument)
	}
	archName, manName := cos.ExpandPath(c.Args().Get(0)), cos.ExpandPath(c.Args().Get(1))
	var entries []*manifestEntry
	if err := cos.LoadJSON(manName, &entries); err != nil {
		return errors.Wrapf(err, "failed to load manifest %q", manName)
	}
	cksum, err := newCksum(c)
	if err != nil {
		return err
	}
	mime, err := archive.Strict(parseStrFlag(c, mimeFlag), archName)
	if err != nil {
		return err
	}
	fh, err := cos.CreateFile(archName)
	if err != nil {
		return err
	}
	cw, err := archive.NewCompressWriter(mime, fh) // closes fh
	if err != nil {
		cos.Close(fh)
		return err
	}
	err = archive.Use(cw, cksum, func(aw *archive.Writer) error {
		for i, e := range entries {
			if err := e.add(aw); err != nil {
				return errors.WithMessagef(err, "manifest entry #%d", i)
			}
		}
		return nil
	})
	if err != nil {
		os.Remove(archName)
		return err
	}
	nlog.Infof("%s: %d entries from %s", archName, len(entries), manName)
	fmt.Fprintf(c.App.Writer, "%s: %d entries\n", fblue(archName), len(entries))
	if cksum != nil {
		fmt.Fprintln(c.App.Writer, cksum.String())
	}
	return nil
}

func (e *manifestEntry) add(aw *archive.Writer) error {
	var r io.Reader
	switch {
	case e.Source != "":
		fh, err := os.Open(cos.ExpandPath(e.Source))
		if err != nil {
			return err
		}
		defer cos.Close(fh)
		if e.Header.Size == nil {
			finfo, err := fh.Stat()
			if err != nil {
				return err
			}
			e.Header.Size = archive.I64(finfo.Size())
		}
		r = fh
	case e.Data != "":
		if e.Header.Size == nil {
			e.Header.Size = archive.I64(int64(len(e.Data)))
		}
		r = strings.NewReader(e.Data)
	}
	hdr, err := archive.NewHeader(&e.Header)
	if err != nil {
		return err
	}
	return aw.Add(hdr, r)
}
