// Package archive: ustar header codec, sequential writer and reader,
// plus the compression and listing primitives layered on top
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package archive

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/NVIDIA/ustar/cmn/cos"
	"github.com/NVIDIA/ustar/cmn/debug"
)

const chksumSpaces = "        " // checksum field while computing the checksum

////////////
// Encode //
////////////

// Encode renders the header as a single 512-byte block. The checksum
// is always recomputed; hdr.Checksum is ignored.
func Encode(hdr *Header) []byte {
	blk := make([]byte, 0, TarBlockSize)
	for i := range layout {
		f := &layout[i]
		debug.Assert(len(blk) == f.off, f.name)
		switch i {
		case fName:
			blk = appendString(blk, f, hdr.Name)
		case fMode:
			blk = appendOctal(blk, f, NumOf(hdr.Mode))
		case fUID:
			blk = appendOctal(blk, f, hdr.Uid)
		case fGID:
			blk = appendOctal(blk, f, hdr.Gid)
		case fSize:
			blk = appendOctal(blk, f, NumOf(hdr.Size))
		case fMtime:
			blk = appendOctal(blk, f, hdr.Mtime)
		case fChksum:
			blk = append(blk, chksumSpaces...)
		case fTypeflag:
			blk = append(blk, hdr.Typeflag)
		case fLinkname:
			blk = appendString(blk, f, hdr.Linkname)
		case fMagic:
			blk = appendString(blk, f, MagicUSTAR)
		case fVersion:
			blk = appendString(blk, f, VersionUSTAR)
		case fUname:
			blk = appendString(blk, f, hdr.Uname)
		case fGname:
			blk = appendString(blk, f, hdr.Gname)
		case fDevmajor:
			blk = appendOctal(blk, f, hdr.Devmajor)
		case fDevminor:
			blk = appendOctal(blk, f, hdr.Devminor)
		case fPrefix:
			blk = appendString(blk, f, hdr.Prefix)
		}
	}
	// pad to the block boundary
	blk = append(blk, zeroBlock[:blockPadding(int64(len(blk)))]...)
	debug.Assert(len(blk) == TarBlockSize, len(blk))

	putChksum(blk, Checksum(blk))
	return blk
}

// NUL-padded; truncated when longer than the field (caller's contract)
func appendString(blk []byte, f *field, s string) []byte {
	if len(s) > f.width {
		s = s[:f.width]
	}
	blk = append(blk, s...)
	return append(blk, zeroBlock[:f.width-len(s)]...)
}

// zero-padded octal digits followed by NUL; unset renders as NULs
func appendOctal(blk []byte, f *field, n Num) []byte {
	if !n.Set {
		return append(blk, zeroBlock[:f.width]...)
	}
	debug.Assert(n.Val >= 0, f.name, n.Val)
	s := strconv.FormatInt(n.Val, 8)
	switch {
	case len(s) < f.width:
		blk = append(blk, strings.Repeat("0", f.width-1-len(s))...)
		blk = append(blk, s...)
		return append(blk, 0)
	default:
		// full width, no room for the terminator (the writer rejects anything longer);
		// otherwise, keeps the low-order digits
		debug.Assert(len(s) == f.width, f.name, n.Val)
		return append(blk, s[len(s)-f.width:]...)
	}
}

// 6 octal digits, NUL, space
func putChksum(blk []byte, sum int64) {
	f := &layout[fChksum]
	dst := f.slice(blk)
	s := strconv.FormatInt(sum, 8)
	if len(s) < 6 {
		s = strings.Repeat("0", 6-len(s)) + s
	}
	copy(dst, s)
	dst[6] = 0
	dst[7] = ' '
}

// Checksum computes the unsigned sum of all header bytes with the
// checksum field itself taken as eight ASCII spaces.
func Checksum(blk []byte) int64 {
	debug.Assert(len(blk) >= TarBlockSize, len(blk))
	f := &layout[fChksum]
	var sum int64
	for i, c := range blk[:TarBlockSize] {
		if i >= f.off && i < f.end() {
			c = ' '
		}
		sum += int64(c)
	}
	return sum
}

// VerifyChecksum compares the embedded checksum with the recomputed one.
// An all-zero block is accepted as is.
func VerifyChecksum(blk []byte) error {
	if len(blk) < TarBlockSize {
		return NewErrValidation("checksum", "short block: "+strconv.Itoa(len(blk))+" bytes")
	}
	if isZero(blk[:TarBlockSize]) {
		return nil
	}
	var (
		f           = &layout[fChksum]
		embedded, _ = parseOctal(f.slice(blk))
		computed    = Checksum(blk)
	)
	if embedded != computed {
		return NewErrBadChecksum(cos.CStr(layout[fName].slice(blk)), embedded, computed)
	}
	return nil
}

////////////
// Decode //
////////////

// Decode parses a header block. It never fails: blank octal fields come back
// unset, malformed octal text parses to zero, strings are cut at the first NUL.
// A short input is zero-extended; only the first 512 bytes are considered.
func Decode(b []byte) *Header {
	var blk []byte
	if len(b) >= TarBlockSize {
		blk = b[:TarBlockSize]
	} else {
		blk = make([]byte, TarBlockSize)
		copy(blk, b)
	}
	hdr := &Header{}
	for i := range layout {
		f := &layout[i]
		raw := f.slice(blk)
		switch i {
		case fName:
			hdr.Name = cos.CStr(raw)
		case fMode:
			hdr.Mode, _ = parseOctal(raw)
		case fUID:
			hdr.Uid = parseNum(raw)
		case fGID:
			hdr.Gid = parseNum(raw)
		case fSize:
			hdr.Size, _ = parseOctal(raw)
		case fMtime:
			hdr.Mtime = parseNum(raw)
		case fChksum:
			hdr.Checksum, _ = parseOctal(raw)
		case fTypeflag:
			hdr.Typeflag = raw[0]
		case fLinkname:
			hdr.Linkname = cos.CStr(raw)
		case fMagic:
			hdr.Magic = cos.CStr(raw)
		case fVersion:
			hdr.Version = cos.CStr(raw)
		case fUname:
			hdr.Uname = cos.CStr(raw)
		case fGname:
			hdr.Gname = cos.CStr(raw)
		case fDevmajor:
			hdr.Devmajor = parseNum(raw)
		case fDevminor:
			hdr.Devminor = parseNum(raw)
		case fPrefix:
			hdr.Prefix = cos.CStr(raw)
		}
	}
	hdr.empty = isZero(blk)
	return hdr
}

func parseNum(raw []byte) (n Num) {
	n.Val, n.Set = parseOctal(raw)
	return
}

// parseOctal returns (value, set). Blank (NULs and/or spaces) is unset.
// Anything else that is not a valid octal number is tolerated as zero:
// archives written by non-conforming tools must still be readable.
func parseOctal(raw []byte) (int64, bool) {
	s := strings.TrimLeft(string(raw), " ")
	s = strings.TrimRight(cos.CStr([]byte(s)), " ")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 8, 63)
	if err != nil {
		return 0, true // lenient
	}
	return int64(v), true
}

func isZero(blk []byte) bool { return bytes.Equal(blk, zeroBlock[:len(blk)]) }
