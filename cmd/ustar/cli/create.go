// Package cli provides ustar commands: create, manifest, list, and cat.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/NVIDIA/ustar/cmn/archive"
	"github.com/NVIDIA/ustar/cmn/cos"
	"github.com/NVIDIA/ustar/cmn/nlog"

	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"golang.org/x/sys/unix"
)

var createCmd = cli.Command{
	Name:      cmdCreate,
	Usage:     "archive a directory (recursively)",
	ArgsUsage: archiveArgument + " " + dirArgument,
	Flags:     []cli.Flag{cksumFlag, mimeFlag, appendFlag},
	Action:    createHandler,
}

// walks the source directory and adds each visited node
type archiver struct {
	aw      *archive.Writer
	root    string
	exclude string // the archive itself, when created inside root
	cnt     int
	size    int64 // payload
}

func createHandler(c *cli.Context) error {
	if c.NArg() < 2 {
		return missingArgumentsError(c, archiveArgument, dirArgument)
	}
	archName, srcDir := cos.ExpandPath(c.Args().Get(0)), cos.ExpandPath(c.Args().Get(1))
	finfo, err := os.Stat(srcDir)
	if err != nil {
		return err
	}
	if !finfo.IsDir() {
		return fmt.Errorf("%q is not a directory", srcDir)
	}
	cksum, err := newCksum(c)
	if err != nil {
		return err
	}
	a := &archiver{root: srcDir}
	if abs, err := filepath.Abs(archName); err == nil {
		a.exclude = abs
	}

	var ondisk int64
	if flagIsSet(c, appendFlag) {
		ondisk, err = a.append(archName, cksum)
	} else {
		ondisk, err = a.create(c, archName, cksum)
	}
	if err != nil {
		return err
	}
	nlog.Infof("%s: %d entries, %d bytes (payload %d)", archName, a.cnt, ondisk, a.size)
	fmt.Fprintf(c.App.Writer, "%s: %d entries, payload %s, archive %s\n",
		fblue(archName), a.cnt, cos.ToSizeIEC(a.size, 2), cos.ToSizeIEC(ondisk, 2))
	if cksum != nil {
		fmt.Fprintln(c.App.Writer, cksum.String())
	}
	return nil
}

func newCksum(c *cli.Context) (*cos.CksumHashSize, error) {
	ty := cfg.Cksum
	if flagIsSet(c, cksumFlag) {
		ty = parseStrFlag(c, cksumFlag)
	}
	if err := cos.ValidateCksumType(ty, true /*empty OK*/); err != nil {
		return nil, err
	}
	if ty == "" || ty == cos.ChecksumNone {
		return nil, nil
	}
	return cos.NewCksumHashSize(ty), nil
}

func (a *archiver) create(c *cli.Context, archName string, cksum *cos.CksumHashSize) (int64, error) {
	mime, err := archive.Strict(parseStrFlag(c, mimeFlag), archName)
	if err != nil {
		return 0, err
	}
	fh, err := cos.CreateFile(archName)
	if err != nil {
		return 0, err
	}
	wc := &cos.WriterCounter{Writer: fh}
	cw, err := archive.NewCompressWriter(mime, wc)
	if err != nil {
		cos.Close(fh)
		return 0, err
	}
	err = archive.Use(cw, cksum, a.walk)
	if errC := fh.Close(); err == nil {
		err = errC
	}
	if err != nil {
		os.Remove(archName)
	}
	return wc.N, err
}

// (compressed archives cannot be appended to)
func (a *archiver) append(archName string, cksum *cos.CksumHashSize) (int64, error) {
	if mime, err := archive.Mime("", archName); err != nil || mime != archive.ExtTar {
		return 0, fmt.Errorf("cannot append to %q: expecting uncompressed %s", archName, archive.ExtTar)
	}
	if cksum != nil {
		return 0, fmt.Errorf("flags %s and %s are mutually exclusive", cksumFlag.Name, appendFlag.Name)
	}
	aw, err := archive.OpenSeekEnd(archName, nil)
	if err != nil {
		return 0, err
	}
	err = a.walk(aw)
	if errC := aw.Close(); err == nil {
		err = errC
	}
	if err != nil {
		return 0, err
	}
	finfo, err := os.Stat(archName)
	if err != nil {
		return 0, err
	}
	return finfo.Size(), nil
}

func (a *archiver) walk(aw *archive.Writer) error {
	a.aw = aw
	err := godirwalk.Walk(a.root, &godirwalk.Options{
		Unsorted:      false,
		Callback:      a.callback,
		ErrorCallback: a.errCallback,
	})
	return errors.Wrapf(err, "failed to archive %q", a.root)
}

func (a *archiver) callback(fqn string, de *godirwalk.Dirent) error {
	if fqn == a.root {
		return nil
	}
	if abs, err := filepath.Abs(fqn); err == nil && abs == a.exclude {
		return nil
	}
	rel, err := filepath.Rel(a.root, fqn)
	if err != nil {
		return err
	}
	rel = filepath.ToSlash(rel)
	finfo, err := os.Lstat(fqn)
	if err != nil {
		return err
	}

	var (
		args = archive.HeaderArgs{
			Size:  archive.I64(0),
			Mode:  archive.I64(cfg.Header.FileMode),
			Uid:   archive.I64(cfg.Header.UID),
			Gid:   archive.I64(cfg.Header.GID),
			Uname: cfg.Header.Uname,
			Gname: cfg.Header.Gname,
		}
		r io.Reader
	)
	if mtime := finfo.ModTime().Unix(); mtime >= 0 {
		args.Mtime = archive.I64(mtime)
	}
	if cfg.Header.KeepOwner {
		var st unix.Stat_t
		if err := unix.Lstat(fqn, &st); err != nil {
			return err
		}
		args.Uid, args.Gid = archive.I64(int64(st.Uid)), archive.I64(int64(st.Gid))
	}
	switch {
	case de.IsDir():
		rel += "/"
		args.Typeflag = string(rune(archive.TypeDir))
		args.Mode = archive.I64(cfg.Header.DirMode)
	case de.IsSymlink():
		if args.Linkname, err = os.Readlink(fqn); err != nil {
			return err
		}
		args.Typeflag = string(rune(archive.TypeSymlink))
	case de.IsRegular():
		fh, err := os.Open(fqn)
		if err != nil {
			return err
		}
		defer cos.Close(fh)
		args.Size = archive.I64(finfo.Size())
		r = fh
	default:
		nlog.Warningf("%s: skipping %s (not a regular file, directory, or symlink)", rel, finfo.Mode().Type())
		return nil
	}

	prefix, name, err := archive.SplitName(rel)
	if err != nil {
		return errors.WithMessage(err, rel)
	}
	args.Prefix, args.Name = &prefix, &name
	hdr, err := archive.NewHeader(&args)
	if err != nil {
		return errors.WithMessage(err, rel)
	}
	if err := a.aw.Add(hdr, r); err != nil {
		return err
	}
	a.cnt++
	a.size += hdr.Size
	return nil
}

func (*archiver) errCallback(fqn string, err error) godirwalk.ErrorAction {
	nlog.Errorf("error accessing %s: %v", fqn, err)
	if strings.Contains(err.Error(), "permission denied") {
		return godirwalk.SkipNode
	}
	return godirwalk.Halt
}
