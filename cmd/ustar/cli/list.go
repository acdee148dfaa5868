// Package cli provides ustar commands: create, manifest, list, and cat.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/NVIDIA/ustar/cmn/archive"
	"github.com/NVIDIA/ustar/cmn/cos"

	"github.com/urfave/cli"
	"gopkg.in/yaml.v3"
)

var listCmd = cli.Command{
	Name:      cmdList,
	Usage:     "list archived entries (sorted by name)",
	ArgsUsage: archiveArgument,
	Flags:     []cli.Flag{mimeFlag, verifyFlag, allFlag, jsonFlag, yamlFlag, noHdrFlag},
	Action:    listHandler,
}

func listHandler(c *cli.Context) error {
	if c.NArg() < 1 {
		return missingArgumentsError(c, archiveArgument)
	}
	if flagIsSet(c, jsonFlag) && flagIsSet(c, yamlFlag) {
		return fmt.Errorf("flags %s and %s are mutually exclusive", jsonFlag.Name, yamlFlag.Name)
	}
	archName := cos.ExpandPath(c.Args().Get(0))
	lst, err := archive.List(archName, archive.ListOpts{
		Mime:        parseStrFlag(c, mimeFlag),
		VerifyCksum: flagIsSet(c, verifyFlag),
		Dirs:        flagIsSet(c, allFlag),
	})
	if err != nil {
		return err
	}
	switch {
	case flagIsSet(c, jsonFlag):
		b, err := cos.JSON.MarshalIndent(lst, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.App.Writer, string(b))
		return err
	case flagIsSet(c, yamlFlag):
		b, err := yaml.Marshal(lst)
		if err != nil {
			return err
		}
		_, err = c.App.Writer.Write(b)
		return err
	default:
		return listTable(c.App.Writer, lst, !flagIsSet(c, noHdrFlag))
	}
}

func listTable(w io.Writer, lst []*archive.ListEntry, hdr bool) error {
	var (
		total, ondisk int64
		tw            = tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	)
	if hdr {
		fmt.Fprintln(tw, fcyan("NAME")+"\t"+fcyan("KIND")+"\t"+fcyan("SIZE")+"\t"+fcyan("MODE")+"\t"+
			fcyan("OWNER")+"\t"+fcyan("MODIFIED"))
	}
	for _, e := range lst {
		name := e.Name
		switch e.Kind {
		case "dir":
			name = fblue(name)
		case "symlink", "hardlink":
			name += " -> " + e.Linkname
		}
		var mtime string
		if e.Mtime > 0 {
			mtime = time.Unix(e.Mtime, 0).Format(time.DateTime)
		}
		fmt.Fprintln(tw, name+"\t"+e.Kind+"\t"+cos.ToSizeIEC(e.Size, 2)+"\t"+
			"0"+strconv.FormatInt(e.Mode, 8)+"\t"+cos.Either(e.Uname, "-")+":"+cos.Either(e.Gname, "-")+"\t"+mtime)
		if e.HasPayload() {
			total += e.Size
		}
		ondisk += e.ArchSize()
	}
	if hdr {
		fmt.Fprintf(tw, "%d entries, payload %s (%s in archive blocks)\n", len(lst),
			cos.ToSizeIEC(total, 2), cos.ToSizeIEC(ondisk, 2))
	}
	return tw.Flush()
}
