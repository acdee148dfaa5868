// Package archive: ustar header codec, sequential writer and reader,
// plus the compression and listing primitives layered on top
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package archive

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// supported archive types (file extensions)
const (
	ExtTar    = ".tar"
	ExtTgz    = ".tgz"
	ExtTarGz  = ".tar.gz"
	ExtTarLz4 = ".tar.lz4"
)

// - here and elsewhere, mime (string) is a "." + IANA mime
// - references:
//   * https://en.wikipedia.org/wiki/List_of_file_signatures

type detect struct {
	mime   string // '.' + IANA mime
	sig    []byte
	offset int
}

// when adding/removing update `allMagics` below
var FileExtensions = []string{ExtTar, ExtTgz, ExtTarGz, ExtTarLz4}

// standard file signatures
var (
	magicTar  = detect{offset: 257, sig: []byte(MagicUSTAR), mime: ExtTar}
	magicGzip = detect{sig: []byte{0x1f, 0x8b}, mime: ExtTarGz}
	magicLz4  = detect{sig: []byte{0x04, 0x22, 0x4d, 0x18}, mime: ExtTarLz4}

	allMagics = []detect{magicTar, magicGzip, magicLz4} // NOTE: must contain all
)

type (
	// compressor stacked on top of the archive's sink: closes both
	compressWriter struct {
		io.WriteCloser
		sink io.Writer
	}
	decompressReader struct {
		io.Reader
		gzr *gzip.Reader
	}
)

// motivation: prevent from creating archives with non-standard extensions
func Strict(mime, filename string) (m string, err error) {
	if mime != "" {
		if m, err = normalize(mime); err != nil {
			return
		}
	}
	m, err = byExt(filename)
	if err != nil || mime == "" {
		return
	}
	if mime != m {
		// user-defined (non-empty) MIME must correspond
		err = fmt.Errorf("mime mismatch %q vs %q", mime, m)
	}
	return
}

func Mime(mime, filename string) (string, error) {
	if mime != "" {
		return normalize(mime)
	}
	return byExt(filename)
}

func normalize(mime string) (string, error) {
	switch {
	case strings.Contains(mime, ExtTarGz[1:]): // ExtTarGz contains ExtTar
		return ExtTarGz, nil
	case strings.Contains(mime, ExtTarLz4[1:]): // ditto
		return ExtTarLz4, nil
	default:
		for _, ext := range FileExtensions {
			if strings.Contains(mime, ext[1:]) {
				return ext, nil
			}
		}
	}
	return "", NewErrUnknownMime(mime)
}

// by filename extension
func byExt(filename string) (string, error) {
	for _, ext := range FileExtensions {
		if strings.HasSuffix(filename, ext) {
			return ext, nil
		}
	}
	return "", NewErrUnknownFileExt(filename)
}

// MimeFile resolves by mime or extension and, failing that, by file signature.
// The file is left positioned at offset zero.
func MimeFile(file *os.File, mime, archname string) (m string, err error) {
	m, err = Mime(mime, archname)
	if err == nil || IsErrUnknownMime(err) {
		return
	}
	var (
		n   int
		buf [TarBlockSize]byte
	)
	m, n, err = _detect(file, archname, buf[:])
	if n > 0 {
		if _, errS := file.Seek(0, io.SeekStart); err == nil {
			err = errS
		}
	}
	return
}

func _detect(file io.Reader, archname string, buf []byte) (m string, n int, err error) {
	n, err = io.ReadFull(file, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return
	}
	err = nil
	for _, magic := range allMagics {
		if n > magic.offset && bytes.HasPrefix(buf[magic.offset:n], magic.sig) {
			m = magic.mime
			return // ok
		}
	}
	err = fmt.Errorf("failed to detect file signature in %q", archname)
	return
}

//
// compression
//

// NewCompressWriter returns the stream to hand over to NewWriter.
// Closing it flushes the compressor and then closes `w` if it is an io.Closer.
func NewCompressWriter(mime string, w io.Writer) (io.WriteCloser, error) {
	switch mime {
	case ExtTar:
		return &compressWriter{WriteCloser: nopWriteCloser{w}, sink: w}, nil
	case ExtTgz, ExtTarGz:
		return &compressWriter{WriteCloser: gzip.NewWriter(w), sink: w}, nil
	case ExtTarLz4:
		return &compressWriter{WriteCloser: lz4.NewWriter(w), sink: w}, nil
	default:
		return nil, NewErrUnknownMime(mime)
	}
}

// NewDecompressReader returns the stream to hand over to NewReader.
func NewDecompressReader(mime string, r io.Reader) (io.ReadCloser, error) {
	switch mime {
	case ExtTar:
		return io.NopCloser(r), nil
	case ExtTgz, ExtTarGz:
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return &decompressReader{Reader: gzr, gzr: gzr}, nil
	case ExtTarLz4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, NewErrUnknownMime(mime)
	}
}

func (cw *compressWriter) Close() (err error) {
	err = cw.WriteCloser.Close()
	if closer, ok := cw.sink.(io.Closer); ok {
		if errC := closer.Close(); err == nil {
			err = errC
		}
	}
	return
}

func (dr *decompressReader) Close() error { return dr.gzr.Close() }

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
