// Package cos provides common low-level types and utilities for all ustar projects
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"errors"
	"io"
	"os"
	"os/user"
	"path/filepath"

	"github.com/NVIDIA/ustar/cmn/debug"
)

// POSIX permissions
const (
	PermRWR     os.FileMode = 0o640
	PermRWRR    os.FileMode = 0o644 // (archived)
	PermRWXRX   os.FileMode = 0o750
	PermRWXRXRX os.FileMode = 0o755 // (archived directories)

	configDirMode = PermRWXRX | os.ModeDir
)

// readers
type (
	// ReadCloseSizer is the interface that adds Size method to io.ReadCloser.
	ReadCloseSizer interface {
		io.ReadCloser
		Size() int64
	}
)

// writers
type (
	WriterMulti struct{ writers []io.Writer }

	// WriterOnly is a helper struct to hide `io.ReaderFrom` interface implementation
	// (e.g., to prevent io.Copy from recursing into the ReadFrom of the very same writer)
	WriterOnly struct{ io.Writer }

	// counts bytes that went through
	WriterCounter struct {
		io.Writer
		N int64
	}
)

// interface guard
var (
	_ io.Writer = (*WriterMulti)(nil)
	_ io.Writer = (*WriterCounter)(nil)
)

// including "unexpecting EOF" to accommodate unsized streaming and
// early termination of the other side (prior to sending the first byte)
func IsEOF(err error) bool {
	return err == io.EOF || err == io.ErrUnexpectedEOF ||
		errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
}

/////////////////
// WriterMulti //
/////////////////

func NewWriterMulti(w ...io.Writer) *WriterMulti { return &WriterMulti{w} }

func (mw *WriterMulti) Write(b []byte) (n int, err error) {
	l := len(b)
	for _, w := range mw.writers {
		n, err = w.Write(b)
		if err == nil && n == l {
			continue
		}
		if err == nil {
			err = io.ErrShortWrite
		}
		return
	}
	n = l
	return
}

///////////////////
// WriterCounter //
///////////////////

func (wc *WriterCounter) Write(b []byte) (n int, err error) {
	n, err = wc.Writer.Write(b)
	wc.N += int64(n)
	return
}

//
// files
//

// ExpandPath replaces common abbreviations in file path (eg. `~` with absolute
// path to the current user home directory) and cleans the path.
func ExpandPath(path string) string {
	if path == "" || path[0] != '~' {
		return filepath.Clean(path)
	}
	if len(path) > 1 && path[1] != '/' {
		return filepath.Clean(path)
	}

	currentUser, err := user.Current()
	if err != nil {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(currentUser.HomeDir, path[1:]))
}

// CreateDir creates directory if does not exist.
// If the directory already exists returns nil.
func CreateDir(dir string) error {
	return os.MkdirAll(dir, configDirMode)
}

// CreateFile creates a new write-only (O_WRONLY) file with default cos.PermRWR permissions.
// NOTE: if the file pathname doesn't exist it'll be created.
// NOTE: if the file already exists it'll be also silently truncated.
func CreateFile(fqn string) (*os.File, error) {
	if err := CreateDir(filepath.Dir(fqn)); err != nil {
		return nil, err
	}
	return os.OpenFile(fqn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, PermRWR)
}

func Close(closer io.Closer) {
	err := closer.Close()
	debug.AssertNoErr(err)
}
