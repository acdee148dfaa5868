// Package archive: ustar header codec, sequential writer and reader,
// plus the compression and listing primitives layered on top
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package archive

// ustar header block (POSIX.1-1988), see also:
// * https://pubs.opengroup.org/onlinepubs/9699919799/utilities/pax.html#tag_20_92_13_06
//
//	offset  width  field
//	     0    100  name
//	   100      8  mode
//	   108      8  uid
//	   116      8  gid
//	   124     12  size
//	   136     12  mtime
//	   148      8  checksum
//	   156      1  typeflag
//	   157    100  linkname
//	   257      6  magic
//	   263      2  version
//	   265     32  uname
//	   297     32  gname
//	   329      8  devmajor
//	   337      8  devminor
//	   345    155  prefix
//	   500     12  (NUL padding to the block size)

const (
	TarBlockSize = 512 // Size of each block in a tar stream

	NameSize     = 100
	PrefixSize   = 155
	LinknameSize = 100
	UnameSize    = 32
	GnameSize    = 32

	MagicUSTAR   = "ustar" // (NUL-terminated on the wire)
	VersionUSTAR = "00"
)

type fieldKind uint8

const (
	kindString fieldKind = iota // ASCII, NUL-padded, truncated when too long
	kindOctal                   // zero-padded octal digits + NUL; all NULs when unset
	kindChksum                  // 6 octal digits + NUL + space
	kindByte                    // single character
)

type field struct {
	name  string
	off   int
	width int
	kind  fieldKind
}

// field indices (header order)
const (
	fName = iota
	fMode
	fUID
	fGID
	fSize
	fMtime
	fChksum
	fTypeflag
	fLinkname
	fMagic
	fVersion
	fUname
	fGname
	fDevmajor
	fDevminor
	fPrefix

	numFields
)

// consulted by both Encode and Decode
var layout = [numFields]field{
	fName:     {"name", 0, NameSize, kindString},
	fMode:     {"mode", 100, 8, kindOctal},
	fUID:      {"uid", 108, 8, kindOctal},
	fGID:      {"gid", 116, 8, kindOctal},
	fSize:     {"size", 124, 12, kindOctal},
	fMtime:    {"mtime", 136, 12, kindOctal},
	fChksum:   {"checksum", 148, 8, kindChksum},
	fTypeflag: {"typeflag", 156, 1, kindByte},
	fLinkname: {"linkname", 157, LinknameSize, kindString},
	fMagic:    {"magic", 257, 6, kindString},
	fVersion:  {"version", 263, 2, kindString},
	fUname:    {"uname", 265, UnameSize, kindString},
	fGname:    {"gname", 297, GnameSize, kindString},
	fDevmajor: {"devmajor", 329, 8, kindOctal},
	fDevminor: {"devminor", 337, 8, kindOctal},
	fPrefix:   {"prefix", 345, PrefixSize, kindString},
}

func (f *field) end() int              { return f.off + f.width }
func (f *field) slice(b []byte) []byte { return b[f.off:f.end()] }

// largest value that renders as (width-1) octal digits followed by NUL
func (f *field) maxOctal() int64 { return 1<<(3*(f.width-1)) - 1 }

// same, when the value takes up the entire field (no NUL)
func (f *field) maxFull() int64 { return 1<<(3*f.width) - 1 }

var zeroBlock [TarBlockSize]byte

// the number of bytes needed to pad offset up to the next block edge
func blockPadding(offset int64) int64 { return -offset & (TarBlockSize - 1) }
