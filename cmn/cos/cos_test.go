// Package cos_test: unit tests
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cos_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/NVIDIA/ustar/cmn/cos"
	"github.com/NVIDIA/ustar/tools/tassert"
)

func TestCksumHashSize(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	for _, ty := range cos.SupportedChecksums() {
		ck := cos.NewCksumHashSize(ty)
		n, err := ck.Write(data)
		tassert.CheckFatal(t, err)
		tassert.Errorf(t, n == len(data) && ck.Size == int64(len(data)), "%s: wrote %d, size %d", ty, n, ck.Size)
		ck.Finalize()
		if ty == cos.ChecksumNone {
			tassert.Errorf(t, ck.IsEmpty() && ck.Value() == "", "%s: expecting empty, got %s", ty, ck)
			continue
		}
		tassert.Errorf(t, !ck.IsEmpty() && ck.Type() == ty, "%s: got %s", ty, ck)

		again := cos.NewCksumHash(ty)
		again.H.Write(data)
		again.Finalize()
		tassert.Errorf(t, again.Value() == ck.Value(), "%s: %s vs %s", ty, again.Value(), ck.Value())
	}
}

func TestValidateCksumType(t *testing.T) {
	tassert.CheckError(t, cos.ValidateCksumType(cos.ChecksumXXHash))
	tassert.CheckError(t, cos.ValidateCksumType("", true /*emptyOK*/))
	tassert.Error(t, cos.ValidateCksumType("") != nil, "empty checksum type must fail")
	tassert.Error(t, cos.ValidateCksumType("md4") != nil, "md4 must fail")
}

func TestWriterMulti(t *testing.T) {
	var (
		b1, b2 bytes.Buffer
		mw     = cos.NewWriterMulti(&b1, &b2)
	)
	n, err := mw.Write([]byte("abc"))
	tassert.CheckFatal(t, err)
	tassert.Errorf(t, n == 3 && b1.String() == "abc" && b2.String() == "abc", "%d %q %q", n, b1.String(), b2.String())

	errFail := errors.New("fail")
	mw = cos.NewWriterMulti(&b1, failWriter{errFail})
	_, err = mw.Write([]byte("x"))
	tassert.Errorf(t, err == errFail, "expected %v, got %v", errFail, err)
}

type failWriter struct{ err error }

func (w failWriter) Write([]byte) (int, error) { return 0, w.err }

func TestCeilAlign(t *testing.T) {
	tests := []struct{ val, align, expected int64 }{
		{0, 512, 0},
		{1, 512, 512},
		{512, 512, 512},
		{513, 512, 1024},
		{5, 8, 8},
	}
	for _, test := range tests {
		got := cos.CeilAlignI64(test.val, test.align)
		tassert.Errorf(t, got == test.expected, "CeilAlignI64(%d, %d) = %d, expected %d", test.val, test.align, got, test.expected)
	}
}

func TestCStr(t *testing.T) {
	tassert.Errorf(t, cos.CStr([]byte("abc\x00def")) == "abc", "cut at NUL")
	tassert.Errorf(t, cos.CStr([]byte("abc")) == "abc", "no NUL")
	tassert.Errorf(t, cos.CStr([]byte("\x00\x00")) == "", "blank")
}

func TestCreateFile(t *testing.T) {
	fqn := filepath.Join(t.TempDir(), "x", "y", "z.tar")
	fh, err := cos.CreateFile(fqn)
	tassert.CheckFatal(t, err)
	_, err = io.WriteString(fh, "hello")
	tassert.CheckFatal(t, err)
	cos.Close(fh)

	finfo, err := os.Stat(fqn)
	tassert.CheckFatal(t, err)
	tassert.Errorf(t, finfo.Size() == 5 && finfo.Mode().Perm() == cos.PermRWR, "%d %v", finfo.Size(), finfo.Mode())

	_, err = os.Stat(filepath.Join(t.TempDir(), "nope"))
	tassert.Error(t, cos.IsNotExist(err), "expecting not-exist")
	tassert.Error(t, cos.IsErrNotFound(cos.NewErrNotFound("archive", "x.bin")), "expecting not-found")
}

func TestToSizeIEC(t *testing.T) {
	tassert.Errorf(t, cos.ToSizeIEC(100, 0) == "100B", "got %s", cos.ToSizeIEC(100, 0))
	tassert.Errorf(t, cos.ToSizeIEC(1536, 1) == "1.5KiB", "got %s", cos.ToSizeIEC(1536, 1))
	tassert.Errorf(t, cos.ToSizeIEC(3*cos.MiB, 2) == "3.00MiB", "got %s", cos.ToSizeIEC(3*cos.MiB, 2))
}
