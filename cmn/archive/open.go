// Package archive: ustar header codec, sequential writer and reader,
// plus the compression and listing primitives layered on top
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package archive

import (
	"io"
	"os"

	"github.com/NVIDIA/ustar/cmn/cos"
	"github.com/NVIDIA/ustar/cmn/debug"
)

// Create creates (or truncates) the file; the returned writer owns it.
func Create(fqn string, cksum *cos.CksumHashSize) (*Writer, error) {
	fh, err := cos.CreateFile(fqn)
	if err != nil {
		return nil, err
	}
	return NewWriter(fh, cksum), nil
}

// Use runs cb with a writer over w and makes sure the writer gets closed
// exactly once on every exit path, panics included.
func Use(w io.Writer, cksum *cos.CksumHashSize, cb func(aw *Writer) error) error {
	return NewWriter(w, cksum).use(cb)
}

// UseFile is Use for a file pathname (see Create).
func UseFile(fqn string, cksum *cos.CksumHashSize, cb func(aw *Writer) error) error {
	aw, err := Create(fqn, cksum)
	if err != nil {
		return err
	}
	return aw.use(cb)
}

func (aw *Writer) use(cb func(aw *Writer) error) (err error) {
	defer func() {
		if aw.state == stateClosed {
			return // closed by cb
		}
		if errC := aw.Close(); err == nil {
			err = errC
		}
	}()
	return cb(aw)
}

// OpenSeekEnd opens an existing archive for appending. It uses Reader.Next
// to skip to the position right _after_ the last entry (padding included)
// and truncates the rest, so that the end-of-archive marker gets overwritten
// by newly added entries (and rewritten by Close).
func OpenSeekEnd(fqn string, cksum *cos.CksumHashSize) (*Writer, error) {
	fh, err := os.OpenFile(fqn, os.O_RDWR, cos.PermRWR)
	if err != nil {
		return nil, err
	}
	if err = seekTarEnd(fh); err != nil {
		fh.Close() // always close on err
		return nil, err
	}
	return NewWriter(fh, cksum), nil
}

func seekTarEnd(fh *os.File) error {
	var (
		end int64
		tr  = NewReader(fh, ReaderOpts{})
	)
	for {
		_, err := tr.Next()
		if err != nil {
			if err != io.EOF {
				return err
			}
			break
		}
		end = tr.entryEnd()
	}
	debug.Infof("%s: appending at offset %d", fh.Name(), end)
	if _, err := fh.Seek(end, io.SeekStart); err != nil {
		return err
	}
	return fh.Truncate(end)
}
