// Package archive: ustar header codec, sequential writer and reader,
// plus the compression and listing primitives layered on top
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package archive

import (
	"strconv"
	"strings"
)

// typeflag values
const (
	TypeReg     = '0'    // regular file
	TypeRegA    = '\x00' // regular file (pre-POSIX synonym)
	TypeLink    = '1'    // hard link
	TypeSymlink = '2'    // symbolic link
	TypeChar    = '3'    // character device
	TypeBlock   = '4'    // block device
	TypeDir     = '5'    // directory
	TypeFifo    = '6'    // FIFO
	TypeCont    = '7'    // reserved (contiguous file)
)

// see KindName
const (
	kindNameFile = "file"
	kindNameCont = "contiguous"
)

type (
	// optional numeric header field; unset renders as a run of NULs
	Num struct {
		Val int64
		Set bool
	}

	// Header is one ustar header block, decoded or ready to be encoded.
	// Construct it with NewHeader (validates) or obtain it via Decode.
	Header struct {
		Name     string
		Prefix   string
		Linkname string
		Uname    string
		Gname    string
		Magic    string
		Version  string
		Size     int64
		Mode     int64
		Checksum int64 // decoded only; Encode always recomputes
		Uid      Num
		Gid      Num
		Mtime    Num // seconds since epoch
		Devmajor Num
		Devminor Num
		Typeflag byte
		empty    bool // decoded from an all-zero block
	}

	// HeaderArgs carries caller-supplied field values; nil means "absent".
	// Name, Size, Prefix, and Mode are required.
	HeaderArgs struct {
		Name     *string `json:"name"`
		Size     *int64  `json:"size"`
		Prefix   *string `json:"prefix"`
		Mode     *int64  `json:"mode"`
		Uid      *int64  `json:"uid,omitempty"`
		Gid      *int64  `json:"gid,omitempty"`
		Mtime    *int64  `json:"mtime,omitempty"`
		Checksum *int64  `json:"checksum,omitempty"` // ignored
		Typeflag string  `json:"typeflag,omitempty"`
		Linkname string  `json:"linkname,omitempty"`
		Uname    string  `json:"uname,omitempty"`
		Gname    string  `json:"gname,omitempty"`
		Devmajor *int64  `json:"devmajor,omitempty"`
		Devminor *int64  `json:"devminor,omitempty"`
	}
)

func NumOf(v int64) Num { return Num{Val: v, Set: true} }

func (n Num) String() string {
	if !n.Set {
		return "-"
	}
	return strconv.FormatInt(n.Val, 10)
}

func Str(s string) *string { return &s }
func I64(v int64) *int64   { return &v }

///////////////
// NewHeader //
///////////////

func NewHeader(args *HeaderArgs) (*Header, error) {
	switch {
	case args.Name == nil:
		return nil, NewErrValidation("name", "is required")
	case args.Size == nil:
		return nil, NewErrValidation("size", "is required")
	case args.Prefix == nil:
		return nil, NewErrValidation("prefix", "is required")
	case args.Mode == nil:
		return nil, NewErrValidation("mode", "is required")
	}
	hdr := &Header{
		Name:     *args.Name,
		Prefix:   *args.Prefix,
		Size:     *args.Size,
		Mode:     *args.Mode,
		Typeflag: TypeReg,
		Linkname: args.Linkname,
		Uname:    args.Uname,
		Gname:    args.Gname,
		Magic:    MagicUSTAR,
		Version:  VersionUSTAR,
	}
	switch len(args.Typeflag) {
	case 0:
	case 1:
		hdr.Typeflag = args.Typeflag[0]
	default:
		return nil, NewErrValidation("typeflag", "must be a single character, got \""+args.Typeflag+"\"")
	}
	opts := [...]struct {
		v   *int64
		dst *Num
	}{
		{args.Uid, &hdr.Uid},
		{args.Gid, &hdr.Gid},
		{args.Mtime, &hdr.Mtime},
		{args.Devmajor, &hdr.Devmajor},
		{args.Devminor, &hdr.Devminor},
	}
	for _, o := range opts {
		if o.v != nil {
			*o.dst = NumOf(*o.v)
		}
	}
	if err := hdr.validate(false); err != nil {
		return nil, err
	}
	return hdr, nil
}

// validate checks numeric fields against their octal widths; with `full`,
// a value may occupy the entire field with no room for the NUL
// (the way some tools write, and Decode reads, large values)
func (hdr *Header) validate(full bool) error {
	nums := [...]struct {
		idx int
		n   Num
	}{
		{fSize, NumOf(hdr.Size)},
		{fMode, NumOf(hdr.Mode)},
		{fUID, hdr.Uid},
		{fGID, hdr.Gid},
		{fMtime, hdr.Mtime},
		{fDevmajor, hdr.Devmajor},
		{fDevminor, hdr.Devminor},
	}
	for _, num := range nums {
		if !num.n.Set {
			continue
		}
		if err := checkOctal(num.idx, num.n.Val, full); err != nil {
			return err
		}
	}
	return nil
}

func checkOctal(idx int, v int64, full bool) error {
	f := &layout[idx]
	if v < 0 {
		return NewErrValidation(f.name, "must be non-negative, got "+strconv.FormatInt(v, 10))
	}
	digits, maxv := f.width-1, f.maxOctal()
	if full {
		digits, maxv = f.width, f.maxFull()
	}
	if v > maxv {
		return NewErrValidation(f.name, "does not fit "+strconv.Itoa(digits)+" octal digits: "+
			strconv.FormatInt(v, 10))
	}
	return nil
}

////////////
// Header //
////////////

// true only for headers decoded from an all-zero block (end-of-archive sentinel)
func (hdr *Header) Empty() bool { return hdr.empty }

// Kind normalizes the typeflag: values outside '1'..'7' are regular files.
func (hdr *Header) Kind() byte {
	switch hdr.Typeflag {
	case TypeLink, TypeSymlink, TypeChar, TypeBlock, TypeDir, TypeFifo, TypeCont:
		return hdr.Typeflag
	default:
		return TypeReg
	}
}

func (hdr *Header) IsRegular() bool {
	k := hdr.Kind()
	return k == TypeReg || k == TypeCont
}

func (hdr *Header) IsDir() bool     { return hdr.Kind() == TypeDir }
func (hdr *Header) IsSymlink() bool { return hdr.Kind() == TypeSymlink }

// whether payload blocks follow the header
func (hdr *Header) HasPayload() bool { return hdr.IsRegular() }

func (hdr *Header) IsUSTAR() bool { return hdr.Magic == MagicUSTAR }

func (hdr *Header) KindName() string {
	switch hdr.Kind() {
	case TypeLink:
		return "hardlink"
	case TypeSymlink:
		return "symlink"
	case TypeChar:
		return "char"
	case TypeBlock:
		return "block"
	case TypeDir:
		return "dir"
	case TypeFifo:
		return "fifo"
	case TypeCont:
		return kindNameCont
	default:
		return kindNameFile
	}
}

// full pathname: prefix + "/" + name
func (hdr *Header) FullName() string {
	if hdr.Prefix == "" {
		return hdr.Name
	}
	return hdr.Prefix + "/" + hdr.Name
}

func (hdr *Header) String() string {
	return "hdr[" + hdr.FullName() + ", " + hdr.KindName() + ", size=" + strconv.FormatInt(hdr.Size, 10) + "]"
}

// SplitName splits a pathname into ustar prefix and name, so that
// the name fits 100 bytes and the prefix 155 bytes.
func SplitName(path string) (prefix, name string, err error) {
	if len(path) <= NameSize {
		return "", path, nil
	}
	l := min(len(path), PrefixSize+1)
	i := strings.LastIndexByte(path[:l], '/')
	nlen := len(path) - i - 1
	if i <= 0 || nlen > NameSize || nlen == 0 {
		return "", "", NewErrValidation("name", "path too long to split: "+strconv.Itoa(len(path))+" bytes")
	}
	return path[:i], path[i+1:], nil
}
