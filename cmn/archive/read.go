// Package archive: ustar header codec, sequential writer and reader,
// plus the compression and listing primitives layered on top
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package archive

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/NVIDIA/ustar/cmn/cos"
	"github.com/NVIDIA/ustar/cmn/debug"

	"github.com/pkg/errors"
)

const (
	_regexp = iota // default (and slow)
	_prefix
	_suffix
	_substr
	_wdskey
)

var MatchMode = [...]string{
	"regexp",
	"prefix",
	"suffix",
	"substr",
	"wdskey", // WebDataset convention - pathname without extension
}

type (
	ReaderOpts struct {
		VerifyCksum bool // fail Next with *ErrBadChecksum on mismatch
	}

	// Reader iterates a ustar stream: Next positions at the next header,
	// Read returns the current entry's payload.
	Reader struct {
		r    io.Reader
		hdr  *Header
		err  error // sticky
		opts ReaderOpts
		blk  [TarBlockSize]byte
		nb   int64 // unread payload bytes of the current entry
		pad  int64 // block padding that follows the payload
		pos  int64 // bytes consumed from r
		end  int64 // offset right after the current entry (padding included)
	}

	// reader's callback
	ArchRCB interface {
		Call(filename string, reader cos.ReadCloseSizer, hdr *Header) (bool /*stop*/, error)
	}
	RCBFunc func(filename string, reader cos.ReadCloseSizer, hdr *Header) (bool, error)

	ErrMatchMode struct{ mmode string }

	matcher struct {
		re    *regexp.Regexp // when (and if) compiled
		regex string
		mmode string
	}

	cslLimited struct {
		io.LimitedReader
	}
)

// interface guard
var (
	_ io.Reader          = (*Reader)(nil)
	_ ArchRCB            = RCBFunc(nil)
	_ cos.ReadCloseSizer = (*cslLimited)(nil)
)

func NewReader(r io.Reader, opts ReaderOpts) *Reader { return &Reader{r: r, opts: opts} }

func (f RCBFunc) Call(filename string, reader cos.ReadCloseSizer, hdr *Header) (bool, error) {
	return f(filename, reader, hdr)
}

// Next skips the remainder of the current entry and decodes the following header.
// Returns io.EOF at the end of the archive: an all-zero block or a clean EOF
// at the block boundary.
func (tr *Reader) Next() (*Header, error) {
	if tr.err != nil {
		return nil, tr.err
	}
	if err := tr.skip(tr.nb + tr.pad); err != nil {
		tr.err = err
		return nil, err
	}
	tr.nb, tr.pad, tr.hdr = 0, 0, nil

	n, err := io.ReadFull(tr.r, tr.blk[:])
	tr.pos += int64(n)
	switch {
	case err == io.EOF:
		tr.err = io.EOF
		return nil, io.EOF
	case err != nil:
		tr.err = errors.Wrapf(err, "truncated header at offset %d", tr.pos-int64(n))
		return nil, tr.err
	}
	hdr := Decode(tr.blk[:])
	if hdr.Empty() {
		tr.err = io.EOF // (the second zero block, if any, is not consumed)
		return nil, io.EOF
	}
	if tr.opts.VerifyCksum {
		if err := VerifyChecksum(tr.blk[:]); err != nil {
			tr.err = errors.WithMessagef(err, "header at offset %d", tr.pos-TarBlockSize)
			return nil, tr.err
		}
	}
	if hdr.HasPayload() {
		tr.nb = hdr.Size
	}
	tr.pad = blockPadding(tr.nb)
	tr.end = tr.pos + tr.nb + tr.pad
	tr.hdr = hdr
	return hdr, nil
}

// Read reads the current entry's payload; io.EOF at the end of it.
func (tr *Reader) Read(b []byte) (n int, err error) {
	if tr.hdr == nil {
		if tr.err != nil {
			return 0, tr.err
		}
		return 0, io.EOF
	}
	if tr.nb <= 0 {
		return 0, io.EOF
	}
	if int64(len(b)) > tr.nb {
		b = b[:tr.nb]
	}
	n, err = tr.r.Read(b)
	tr.nb -= int64(n)
	tr.pos += int64(n)
	if err == io.EOF && tr.nb > 0 {
		err = errors.Wrapf(io.ErrUnexpectedEOF, "%s: truncated payload", tr.hdr.FullName())
		tr.err = err
	}
	return n, err
}

// offset right after the current entry
func (tr *Reader) entryEnd() int64 { return tr.end }

func (tr *Reader) skip(n int64) error {
	if n <= 0 {
		return nil
	}
	m, err := io.CopyN(io.Discard, tr.r, n)
	tr.pos += m
	if err == io.EOF {
		return errors.Wrapf(io.ErrUnexpectedEOF, "truncated archive at offset %d", tr.pos)
	}
	return err
}

// ReadUntil calls rcb with each matching regular file, where:
//   - `regex` is the matching string interpreted according to one of the
//     enumerated "matching modes" (see MatchMode)
//   - an empty `regex` (or "*") matches all archived files
//
// Stops upon EOF, or when rcb returns true (ie., stop) or any error.
func (tr *Reader) ReadUntil(rcb ArchRCB, regex, mmode string) error {
	matcher := matcher{regex: regex, mmode: mmode}
	if err := matcher.init(); err != nil {
		return err
	}
	for {
		hdr, err := tr.Next()
		if err != nil {
			if err == io.EOF {
				err = nil
			}
			return err
		}
		if !hdr.HasPayload() {
			continue
		}
		name := hdr.FullName()
		if !matcher.do(name) {
			continue
		}
		csl := &cslLimited{LimitedReader: io.LimitedReader{R: tr, N: hdr.Size}}
		if stop, err := rcb.Call(name, csl, hdr); stop || err != nil {
			return err
		}
	}
}

// ReadOne selects a single archived file by its full pathname.
func (tr *Reader) ReadOne(filename string) (cos.ReadCloseSizer, error) {
	debug.Assert(filename != "", "missing archived filename (pathname)")
	for {
		hdr, err := tr.Next()
		if err != nil {
			if err == io.EOF {
				return nil, cos.NewErrNotFound("archive", filename)
			}
			return nil, err
		}
		if !hdr.HasPayload() {
			continue
		}
		if name := hdr.FullName(); name == filename || namesEq(name, filename) {
			return &cslLimited{LimitedReader: io.LimitedReader{R: tr, N: hdr.Size}}, nil
		}
	}
}

/////////////
// matcher //
/////////////

func (m *matcher) init() (err error) {
	// making exception for match-all("", "*")
	if cos.MatchAll(m.regex) {
		m.mmode = MatchMode[_prefix]
	}
	switch m.mmode {
	case MatchMode[_regexp]:
		m.re, err = regexp.Compile(m.regex)
	case MatchMode[_prefix], MatchMode[_suffix], MatchMode[_substr], MatchMode[_wdskey]:
	default:
		err = &ErrMatchMode{m.mmode}
	}
	return err
}

func (m *matcher) do(filename string) bool {
	if cos.MatchAll(m.regex) {
		return true
	}
	if m.re != nil {
		return m.re.MatchString(filename)
	}
	switch m.mmode {
	case MatchMode[_prefix]:
		return strings.HasPrefix(filename, m.regex)
	case MatchMode[_suffix]:
		return strings.HasSuffix(filename, m.regex)
	case MatchMode[_substr]:
		return strings.Contains(filename, m.regex)
	default:
		debug.Assert(m.mmode == MatchMode[_wdskey], m.mmode)
		return m.regex == cos.WdsKey(filename)
	}
}

func (csl *cslLimited) Size() int64 { return csl.N }
func (*cslLimited) Close() error    { return nil }

// in re `--absolute-names` (simplified)
func namesEq(n1, n2 string) bool {
	n1 = strings.TrimPrefix(n1, string(filepath.Separator))
	n2 = strings.TrimPrefix(n2, string(filepath.Separator))
	return n1 == n2
}

//////////////////
// ErrMatchMode //
//////////////////

func (e *ErrMatchMode) Error() string {
	return fmt.Sprintf("invalid matching mode %q, expecting one of: %v", e.mmode, MatchMode)
}

func ValidateMatchMode(mmode string) (_ string, err error) {
	if cos.MatchAll(mmode) {
		return MatchMode[_prefix], nil
	}
	for i := range MatchMode {
		if MatchMode[i] == mmode {
			return mmode, nil
		}
	}
	return "", &ErrMatchMode{mmode}
}
