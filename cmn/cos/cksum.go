// Package cos provides common low-level types and utilities for all ustar projects
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"sort"

	"github.com/OneOfOne/xxhash"
	jsoniter "github.com/json-iterator/go"
)

// checksums
const (
	ChecksumNone   = "none"
	ChecksumXXHash = "xxhash"
	ChecksumMD5    = "md5"
	ChecksumCRC32C = "crc32c"
	ChecksumSHA256 = "sha256" // crypto.SHA512_256 (SHA-2)
)

type (
	noopHash struct{}

	Cksum struct {
		ty    string
		value string
	}
	CksumHash struct {
		Cksum
		H   hash.Hash
		sum []byte
	}
	// (archive writer tees every written byte into it)
	CksumHashSize struct {
		CksumHash
		Size int64
	}
)

var checksums = StrSet{
	ChecksumNone:   {},
	ChecksumXXHash: {},
	ChecksumMD5:    {},
	ChecksumCRC32C: {},
	ChecksumSHA256: {},
}

// interface guard
var (
	_ hash.Hash = (*noopHash)(nil)
	_ io.Writer = (*CksumHashSize)(nil)
)

///////////////
// CksumHash //
///////////////

func NewCksumHash(ty string) (ck *CksumHash) {
	ck = &CksumHash{}
	ck.Init(ty)
	return
}

func (ck *CksumHash) Init(ty string) {
	Assert(ck.H == nil)
	ck.ty = ty
	switch ty {
	case ChecksumNone, "":
		ck.ty, ck.H = ChecksumNone, newNoopHash()
	case ChecksumXXHash:
		ck.H = xxhash.New64()
	case ChecksumMD5:
		ck.H = md5.New()
	case ChecksumCRC32C:
		ck.H = NewCRC32C()
	case ChecksumSHA256:
		ck.H = sha256.New()
	default:
		AssertMsg(false, "unknown checksum type: "+ty)
	}
}

func (ck *CksumHash) Sum() []byte { return ck.sum }

func (ck *CksumHash) Finalize() {
	ck.sum = ck.H.Sum(nil)
	ck.value = hex.EncodeToString(ck.sum)
}

///////////////////
// CksumHashSize //
///////////////////

func NewCksumHashSize(ty string) (ck *CksumHashSize) {
	ck = &CksumHashSize{}
	ck.Init(ty)
	return
}

func (ck *CksumHashSize) Write(b []byte) (n int, err error) {
	n, err = ck.H.Write(b)
	ck.Size += int64(n)
	return
}

///////////
// Cksum //
///////////

func (ck *Cksum) IsEmpty() bool { return ck == nil || ck.ty == "" || ck.ty == ChecksumNone }

func (ck *Cksum) Type() string {
	if ck == nil {
		return ChecksumNone
	}
	return ck.ty
}

func (ck *Cksum) Value() string {
	if ck == nil {
		return ""
	}
	return ck.value
}

func (ck *Cksum) String() string {
	if ck == nil {
		return "checksum <nil>"
	}
	if ck.ty == "" || ck.ty == ChecksumNone {
		return "checksum <none>"
	}
	return ck.ty + "[" + SHead(ck.value) + "]"
}

func (ck *Cksum) MarshalJSON() ([]byte, error) {
	if ck == nil {
		return nil, nil
	}
	return jsoniter.Marshal(struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}{Type: ck.ty, Value: ck.value})
}

//
// helpers
//

func NewCRC32C() hash.Hash {
	return crc32.New(crc32.MakeTable(crc32.Castagnoli))
}

func SupportedChecksums() (types []string) {
	types = make([]string, 0, len(checksums))
	for ty := range checksums {
		if ty != ChecksumNone {
			types = append(types, ty)
		}
	}
	sort.Strings(types)
	types = append(types, ChecksumNone)
	return
}

func ValidateCksumType(ty string, emptyOK ...bool) (err error) {
	if ty == "" && len(emptyOK) > 0 && emptyOK[0] {
		return
	}
	if !checksums.Contains(ty) {
		err = fmt.Errorf("invalid checksum type %q (expecting %v)", ty, SupportedChecksums())
	}
	return
}

//
// noopHash
//

func newNoopHash() hash.Hash                  { return &noopHash{} }
func (*noopHash) Write(b []byte) (int, error) { return len(b), nil }
func (*noopHash) Sum([]byte) []byte           { return nil }
func (*noopHash) Reset()                      {}
func (*noopHash) Size() int                   { return 0 }
func (*noopHash) BlockSize() int              { return KiB }
