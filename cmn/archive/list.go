// Package archive: ustar header codec, sequential writer and reader,
// plus the compression and listing primitives layered on top
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package archive

import (
	"io"
	"os"
	"sort"

	"github.com/NVIDIA/ustar/cmn/cos"
)

type (
	// archived entry, as listed
	ListEntry struct {
		Name     string `json:"name" yaml:"name"`
		Kind     string `json:"kind" yaml:"kind"`
		Linkname string `json:"linkname,omitempty" yaml:"linkname,omitempty"`
		Uname    string `json:"uname,omitempty" yaml:"uname,omitempty"`
		Gname    string `json:"gname,omitempty" yaml:"gname,omitempty"`
		Size     int64  `json:"size" yaml:"size"`
		Mode     int64  `json:"mode" yaml:"mode"`
		Mtime    int64  `json:"mtime,omitempty" yaml:"mtime,omitempty"`
	}
	ListOpts struct {
		Mime        string // empty: by extension, or else by file signature
		VerifyCksum bool
		Dirs        bool // include header-only entries (directories, links, etc.)
	}
)

// List returns archived entries sorted by name.
func List(fqn string, opts ListOpts) ([]*ListEntry, error) {
	fh, err := os.Open(fqn)
	if err != nil {
		return nil, err
	}
	defer cos.Close(fh)

	mime, err := MimeFile(fh, opts.Mime, fqn)
	if err != nil {
		return nil, err
	}
	rc, err := NewDecompressReader(mime, fh)
	if err != nil {
		return nil, err
	}
	lst, err := ls(rc, opts)
	if errC := rc.Close(); err == nil {
		err = errC
	}
	if err != nil {
		return nil, err
	}
	// paging requires them sorted
	sort.Slice(lst, func(i, j int) bool { return lst[i].Name < lst[j].Name })
	return lst, nil
}

func ls(r io.Reader, opts ListOpts) (lst []*ListEntry, _ error) {
	tr := NewReader(r, ReaderOpts{VerifyCksum: opts.VerifyCksum})
	for {
		hdr, err := tr.Next()
		if err != nil {
			if err == io.EOF {
				return lst, nil // ok
			}
			return nil, err
		}
		if !hdr.HasPayload() && !opts.Dirs {
			continue
		}
		lst = append(lst, newListEntry(hdr))
	}
}

// header-only entries (links, devices, etc.) may still carry a size
func (e *ListEntry) HasPayload() bool { return e.Kind == kindNameFile || e.Kind == kindNameCont }

// ArchSize returns the number of bytes the entry occupies in the (uncompressed)
// archive: header block plus padded payload, if any.
func (e *ListEntry) ArchSize() int64 {
	size := int64(TarBlockSize)
	if e.HasPayload() {
		size += cos.CeilAlignI64(e.Size, TarBlockSize)
	}
	return size
}

func newListEntry(hdr *Header) *ListEntry {
	return &ListEntry{
		Name:     hdr.FullName(),
		Kind:     hdr.KindName(),
		Linkname: hdr.Linkname,
		Uname:    hdr.Uname,
		Gname:    hdr.Gname,
		Size:     hdr.Size,
		Mode:     hdr.Mode,
		Mtime:    hdr.Mtime.Val,
	}
}
