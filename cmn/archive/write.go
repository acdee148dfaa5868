// Package archive: ustar header codec, sequential writer and reader,
// plus the compression and listing primitives layered on top
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package archive

import (
	"io"

	"github.com/NVIDIA/ustar/cmn/cos"
	"github.com/NVIDIA/ustar/cmn/debug"
	"github.com/NVIDIA/ustar/cmn/nlog"

	"github.com/pkg/errors"
)

// writer states
const (
	stateOpen = iota
	stateEntry
	stateClosed
)

var stateText = [...]string{
	stateOpen:   "archive open",
	stateEntry:  "entry in progress",
	stateClosed: "archive closed",
}

// Writer sequences ustar blocks onto a sink:
//
//	NewWriter -> { AddEntry -> Entry.Write* -> Entry.Close }* -> Close
//
// One entry at a time; not safe for concurrent use.
type Writer struct {
	w     io.Writer // sink, or sink + checksum
	sink  io.Writer // closed (when io.Closer) by Close
	cksum *cos.CksumHashSize
	entry *Entry
	err   error // sticky: a failed write makes the writer unusable
	nw    int64 // total bytes written
	state int
}

// NewWriter wraps an already open sink. Close delegates to the sink's own
// Close if it has one. Optional `cksum` accumulates every written byte.
func NewWriter(w io.Writer, cksum *cos.CksumHashSize) *Writer {
	aw := &Writer{w: w, sink: w, cksum: cksum}
	if cksum != nil {
		aw.w = cos.NewWriterMulti(w, cksum)
	}
	return aw
}

// AddEntry writes the header block and returns the entry's payload stream
// bounded by hdr.Size. Numeric fields that do not fit their octal width
// (see NewHeader) fail with *ErrValidation, and nothing gets written.
func (aw *Writer) AddEntry(hdr *Header) (*Entry, error) {
	debug.Assert(hdr != nil)
	if aw.err != nil {
		return nil, aw.err
	}
	if aw.state != stateOpen {
		return nil, NewErrState("add entry "+hdr.FullName(), stateText[aw.state])
	}
	if err := hdr.validate(true); err != nil {
		return nil, err
	}
	if _, err := aw.write(Encode(hdr)); err != nil {
		return nil, err
	}
	aw.entry = &Entry{aw: aw, name: hdr.FullName(), size: hdr.Size}
	aw.state = stateEntry
	return aw.entry, nil
}

// Add is AddEntry + payload + Entry.Close, all in one.
// Unlike Entry.Close, it fails when r runs out before hdr.Size bytes;
// the error is sticky since the archive cannot be continued.
func (aw *Writer) Add(hdr *Header, r io.Reader) error {
	e, err := aw.AddEntry(hdr)
	if err != nil {
		return err
	}
	if r != nil {
		if _, err := e.ReadFrom(r); err != nil {
			return err
		}
	}
	if e.Remaining() > 0 {
		aw.err = errors.Wrapf(io.ErrUnexpectedEOF, "%s: short payload (%d of %d bytes)", e.name, e.nw, e.size)
		return aw.err
	}
	return e.Close()
}

// Close writes the end-of-archive marker (two zero blocks) and releases the sink.
// An entry that is still open gets finalized (padded) first.
func (aw *Writer) Close() (err error) {
	switch aw.state {
	case stateClosed:
		return NewErrState("close", stateText[stateClosed])
	case stateEntry:
		e := aw.entry
		nlog.Warningf("closing archive with entry %q still open (%d of %d bytes written)", e.name, e.nw, e.size)
		err = e.finish()
	}
	if err == nil {
		err = aw.err
	}
	if err == nil {
		if _, err = aw.write(zeroBlock[:]); err == nil {
			_, err = aw.write(zeroBlock[:])
		}
	}
	aw.state = stateClosed
	if closer, ok := aw.sink.(io.Closer); ok {
		if errC := closer.Close(); err == nil {
			err = errC
		}
	}
	if aw.cksum != nil {
		aw.cksum.Finalize()
	}
	return err
}

// total bytes written so far
func (aw *Writer) Size() int64 { return aw.nw }

func (aw *Writer) Cksum() *cos.CksumHashSize { return aw.cksum }

func (aw *Writer) write(b []byte) (n int, err error) {
	n, err = aw.w.Write(b)
	aw.nw += int64(n)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	if err != nil {
		aw.err = err
	}
	return
}
