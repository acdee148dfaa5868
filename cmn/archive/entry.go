// Package archive: ustar header codec, sequential writer and reader,
// plus the compression and listing primitives layered on top
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package archive

import (
	"io"
	"sync"

	"github.com/NVIDIA/ustar/cmn/cos"
	"github.com/NVIDIA/ustar/cmn/debug"
	"github.com/NVIDIA/ustar/cmn/nlog"
)

const copyBufSize = 32 * cos.KiB

// Entry is the payload stream of the entry most recently added to a Writer.
// Writes beyond the declared size are rejected; Close pads the last
// partial block with NULs but never zero-fills a shortfall.
type Entry struct {
	aw     *Writer
	name   string
	size   int64 // declared
	nw     int64 // written
	closed bool
}

// interface guard
var (
	_ io.WriteCloser = (*Entry)(nil)
	_ io.ReaderFrom  = (*Entry)(nil)
)

var bufPool = sync.Pool{
	New: func() any {
		buf := make([]byte, copyBufSize)
		return &buf
	},
}

func (e *Entry) Name() string     { return e.name }
func (e *Entry) Size() int64      { return e.size }
func (e *Entry) Written() int64   { return e.nw }
func (e *Entry) Remaining() int64 { return e.size - e.nw }

// Write fails fast: a chunk that does not fit entirely is rejected as a whole.
func (e *Entry) Write(p []byte) (n int, err error) {
	if e.closed {
		return 0, NewErrState("write "+e.name, "entry closed")
	}
	if err = e.aw.err; err != nil {
		return 0, err
	}
	if e.nw+int64(len(p)) > e.size {
		return 0, NewErrOverflow(e.name, e.size, e.nw, len(p))
	}
	n, err = e.aw.write(p)
	e.nw += int64(n)
	return
}

// ReadFrom copies up to the remaining size from r. If r still has data after
// that, the copy fails with *ErrOverflow (note: one extra byte gets consumed).
func (e *Entry) ReadFrom(r io.Reader) (n int64, err error) {
	if e.closed {
		return 0, NewErrState("write "+e.name, "entry closed")
	}
	bufp := bufPool.Get().(*[]byte)
	n, err = io.CopyBuffer(cos.WriterOnly{Writer: e}, io.LimitReader(r, e.Remaining()), *bufp)
	bufPool.Put(bufp)
	if err != nil {
		return n, err
	}
	var extra [1]byte
	if m, _ := io.ReadFull(r, extra[:]); m > 0 {
		err = NewErrOverflow(e.name, e.size, e.nw, m)
	}
	return n, err
}

func (e *Entry) Close() error {
	if e.closed {
		return NewErrState("close entry "+e.name, "entry closed")
	}
	if e.nw < e.size {
		nlog.Warningf("%s: short payload, %d of %d bytes written", e.name, e.nw, e.size)
	}
	return e.finish()
}

func (e *Entry) finish() (err error) {
	aw := e.aw
	debug.Assertf(aw.entry == e && aw.state == stateEntry, "%s: not the active entry (state %q)", e.name, stateText[aw.state])
	e.closed = true
	aw.entry, aw.state = nil, stateOpen
	if aw.err != nil {
		return aw.err
	}
	if pad := blockPadding(e.nw); pad > 0 {
		_, err = aw.write(zeroBlock[:pad])
	}
	return err
}
