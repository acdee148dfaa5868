// Package archive_test: unit tests
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package archive_test

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/NVIDIA/ustar/cmn/archive"
	"github.com/NVIDIA/ustar/cmn/cos"
	"github.com/NVIDIA/ustar/tools/trand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type testFile struct {
	name    string
	payload []byte
	flag    string
}

func mkHdr(name string, size int64, flag string) *archive.Header {
	prefix, base, err := archive.SplitName(name)
	Expect(err).NotTo(HaveOccurred())
	hdr, err := archive.NewHeader(&archive.HeaderArgs{
		Name:     archive.Str(base),
		Size:     archive.I64(size),
		Prefix:   archive.Str(prefix),
		Mode:     archive.I64(int64(cos.PermRWRR)),
		Uid:      archive.I64(0),
		Gid:      archive.I64(0),
		Mtime:    archive.I64(1600000000),
		Typeflag: flag,
		Uname:    "root",
		Gname:    "root",
	})
	Expect(err).NotTo(HaveOccurred())
	return hdr
}

func writeAll(w io.Writer, files []testFile) {
	err := archive.Use(w, nil, func(aw *archive.Writer) error {
		for _, f := range files {
			if err := aw.Add(mkHdr(f.name, int64(len(f.payload)), f.flag), bytes.NewReader(f.payload)); err != nil {
				return err
			}
		}
		return nil
	})
	Expect(err).NotTo(HaveOccurred())
}

func genFiles() []testFile {
	return []testFile{
		{name: "a/1.txt", payload: []byte("one")},
		{name: "a/", flag: "5"},
		{name: "a/2.jpg", payload: trand.Bytes(1024)},
		{name: "b/2.cls", payload: []byte("7")},
		{name: "b/" + strings.Repeat("long", 30) + "/3.bin", payload: trand.Bytes(513)},
		{name: "empty.txt"},
	}
}

var _ = Describe("Reader", func() {
	var (
		files []testFile
		buf   *bytes.Buffer
	)
	BeforeEach(func() {
		files = genFiles()
		buf = &bytes.Buffer{}
		writeAll(buf, files)
	})

	It("should iterate all entries", func() {
		tr := archive.NewReader(bytes.NewReader(buf.Bytes()), archive.ReaderOpts{VerifyCksum: true})
		for _, f := range files {
			hdr, err := tr.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(hdr.FullName()).To(Equal(f.name))
			if f.flag == "5" {
				Expect(hdr.IsDir()).To(BeTrue())
				continue
			}
			b, err := io.ReadAll(tr)
			Expect(err).NotTo(HaveOccurred())
			Expect(len(b)).To(Equal(len(f.payload)))
			Expect(bytes.Equal(b, f.payload)).To(BeTrue())
		}
		_, err := tr.Next()
		Expect(err).To(Equal(io.EOF))
		_, err = tr.Next()
		Expect(err).To(Equal(io.EOF))
	})

	It("should skip unread payloads", func() {
		tr := archive.NewReader(buf, archive.ReaderOpts{})
		var names []string
		for {
			hdr, err := tr.Next()
			if err == io.EOF {
				break
			}
			Expect(err).NotTo(HaveOccurred())
			names = append(names, hdr.FullName())
		}
		Expect(names).To(HaveLen(len(files)))
	})

	It("should fail on bad checksum only when asked to", func() {
		b := buf.Bytes()
		b[0] ^= 0x20 // "a/1.txt" => "A/1.txt"
		tr := archive.NewReader(bytes.NewReader(b), archive.ReaderOpts{VerifyCksum: true})
		_, err := tr.Next()
		Expect(archive.IsErrBadChecksum(err)).To(BeTrue())
		_, err = tr.Next()
		Expect(archive.IsErrBadChecksum(err)).To(BeTrue()) // sticky

		tr = archive.NewReader(bytes.NewReader(b), archive.ReaderOpts{})
		hdr, err := tr.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(hdr.Name).To(HavePrefix("A/"))
	})

	It("should report truncated archives", func() {
		b := buf.Bytes()[:archive.TarBlockSize+100]
		tr := archive.NewReader(bytes.NewReader(b), archive.ReaderOpts{})
		_, err := tr.Next()
		Expect(err).NotTo(HaveOccurred())
		_, err = tr.Next()
		Expect(err).To(HaveOccurred())
		Expect(cos.IsEOF(err)).To(BeTrue())

		tr = archive.NewReader(bytes.NewReader(buf.Bytes()[:300]), archive.ReaderOpts{})
		_, err = tr.Next()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("truncated header"))
	})

	DescribeTable("ReadUntil",
		func(regex, mmode string, expected []string) {
			var names []string
			rcb := archive.RCBFunc(func(name string, r cos.ReadCloseSizer, hdr *archive.Header) (bool, error) {
				b, err := io.ReadAll(r)
				Expect(err).NotTo(HaveOccurred())
				Expect(int64(len(b))).To(Equal(hdr.Size))
				names = append(names, name)
				return false, r.Close()
			})
			tr := archive.NewReader(buf, archive.ReaderOpts{})
			Expect(tr.ReadUntil(rcb, regex, mmode)).NotTo(HaveOccurred())
			Expect(names).To(ConsistOf(expected))
		},
		Entry("match all", "", "", []string{"a/1.txt", "a/2.jpg", "b/2.cls", longName(), "empty.txt"}),
		Entry("prefix", "a/", "prefix", []string{"a/1.txt", "a/2.jpg"}),
		Entry("suffix", ".txt", "suffix", []string{"a/1.txt", "empty.txt"}),
		Entry("substr", "2", "substr", []string{"a/2.jpg", "b/2.cls"}),
		Entry("regexp", `^b/.*\.(cls|bin)$`, "regexp", []string{"b/2.cls", longName()}),
		Entry("wdskey", "a/2", "wdskey", []string{"a/2.jpg"}),
	)

	It("should stop when told to", func() {
		var cnt int
		rcb := archive.RCBFunc(func(string, cos.ReadCloseSizer, *archive.Header) (bool, error) {
			cnt++
			return true, nil
		})
		tr := archive.NewReader(buf, archive.ReaderOpts{})
		Expect(tr.ReadUntil(rcb, "*", "")).NotTo(HaveOccurred())
		Expect(cnt).To(Equal(1))
	})

	It("should reject invalid match mode", func() {
		tr := archive.NewReader(buf, archive.ReaderOpts{})
		err := tr.ReadUntil(archive.RCBFunc(nil), "x", "glob")
		Expect(err).To(HaveOccurred())
		_, err = archive.ValidateMatchMode("glob")
		Expect(err).To(HaveOccurred())
		mmode, err := archive.ValidateMatchMode("")
		Expect(err).NotTo(HaveOccurred())
		Expect(mmode).To(Equal("prefix"))
	})

	It("should read one", func() {
		r, err := archive.NewReader(bytes.NewReader(buf.Bytes()), archive.ReaderOpts{}).ReadOne("/b/2.cls")
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Size()).To(BeEquivalentTo(1))
		b, err := io.ReadAll(r)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(b)).To(Equal("7"))

		_, err = archive.NewReader(bytes.NewReader(buf.Bytes()), archive.ReaderOpts{}).ReadOne("nope")
		Expect(cos.IsErrNotFound(err)).To(BeTrue())
	})
})

var _ = Describe("Interop", func() {
	It("should be readable by archive/tar", func() {
		files := genFiles()
		buf := &bytes.Buffer{}
		writeAll(buf, files)

		tr := tar.NewReader(buf)
		for _, f := range files {
			hdr, err := tr.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(hdr.Name).To(Equal(f.name))
			Expect(hdr.Uname).To(Equal("root"))
			Expect(hdr.ModTime.Unix()).To(BeEquivalentTo(1600000000))
			if f.flag == "5" {
				Expect(hdr.Typeflag).To(BeEquivalentTo(tar.TypeDir))
				continue
			}
			Expect(hdr.Mode).To(BeEquivalentTo(cos.PermRWRR))
			b, err := io.ReadAll(tr)
			Expect(err).NotTo(HaveOccurred())
			Expect(bytes.Equal(b, f.payload)).To(BeTrue())
		}
		_, err := tr.Next()
		Expect(err).To(Equal(io.EOF))
	})

	It("should read what archive/tar writes", func() {
		var (
			buf   = &bytes.Buffer{}
			tw    = tar.NewWriter(buf)
			mtime = time.Unix(1600000000, 0)
		)
		Expect(tw.WriteHeader(&tar.Header{Name: "x/", Typeflag: tar.TypeDir, Mode: 0o755, ModTime: mtime, Format: tar.FormatUSTAR})).To(Succeed())
		payload := trand.Bytes(1500)
		Expect(tw.WriteHeader(&tar.Header{
			Name: "x/data.bin", Typeflag: tar.TypeReg, Mode: 0o600, Size: int64(len(payload)), Uid: 42, ModTime: mtime, Format: tar.FormatUSTAR,
		})).To(Succeed())
		_, err := tw.Write(payload)
		Expect(err).NotTo(HaveOccurred())
		Expect(tw.Close()).To(Succeed())

		tr := archive.NewReader(buf, archive.ReaderOpts{VerifyCksum: true})
		hdr, err := tr.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(hdr.IsDir()).To(BeTrue())
		Expect(hdr.Mode).To(BeEquivalentTo(0o755))

		hdr, err = tr.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(hdr.FullName()).To(Equal("x/data.bin"))
		Expect(hdr.Mtime.Val).To(BeEquivalentTo(1600000000))
		Expect(hdr.Uid).To(Equal(archive.NumOf(42)))
		b, err := io.ReadAll(tr)
		Expect(err).NotTo(HaveOccurred())
		Expect(bytes.Equal(b, payload)).To(BeTrue())

		_, err = tr.Next()
		Expect(err).To(Equal(io.EOF))
	})
})

var _ = Describe("Compression", func() {
	var dir string
	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	DescribeTable("write, detect, list",
		func(ext string) {
			var (
				files = genFiles()
				fqn   = filepath.Join(dir, "shard"+ext)
			)
			mime, err := archive.Strict("", fqn)
			Expect(err).NotTo(HaveOccurred())
			fh, err := cos.CreateFile(fqn)
			Expect(err).NotTo(HaveOccurred())
			cw, err := archive.NewCompressWriter(mime, fh)
			Expect(err).NotTo(HaveOccurred())
			writeAll(cw, files) // closes cw and, in turn, fh

			lst, err := archive.List(fqn, archive.ListOpts{VerifyCksum: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(lst).To(HaveLen(len(files) - 1)) // minus the directory
			for i := 1; i < len(lst); i++ {
				Expect(lst[i-1].Name < lst[i].Name).To(BeTrue())
			}

			lst, err = archive.List(fqn, archive.ListOpts{Dirs: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(lst).To(HaveLen(len(files)))

			// by file signature
			renamed := filepath.Join(dir, "noext")
			Expect(os.Rename(fqn, renamed)).To(Succeed())
			fh, err = os.Open(renamed)
			Expect(err).NotTo(HaveOccurred())
			defer fh.Close()
			detected, err := archive.MimeFile(fh, "", renamed)
			Expect(err).NotTo(HaveOccurred())
			if mime == archive.ExtTgz {
				mime = archive.ExtTarGz // same signature
			}
			Expect(detected).To(Equal(mime))

			rc, err := archive.NewDecompressReader(detected, fh)
			Expect(err).NotTo(HaveOccurred())
			r, err := archive.NewReader(rc, archive.ReaderOpts{}).ReadOne("b/2.cls")
			Expect(err).NotTo(HaveOccurred())
			b, err := io.ReadAll(r)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(b)).To(Equal("7"))
			Expect(rc.Close()).To(Succeed())
		},
		Entry("tar", archive.ExtTar),
		Entry("tar.gz", archive.ExtTarGz),
		Entry("tgz", archive.ExtTgz),
		Entry("tar.lz4", archive.ExtTarLz4),
	)

	It("should reject unknown extensions", func() {
		_, err := archive.Strict("", "file.zip")
		Expect(archive.IsErrUnknownFileExt(err)).To(BeTrue())
		_, err = archive.Mime("application/x-rar", "file.rar")
		Expect(archive.IsErrUnknownMime(err)).To(BeTrue())
		_, err = archive.Strict("tar", "file.tar.gz")
		Expect(err).To(HaveOccurred())
	})
})

func longName() string { return "b/" + strings.Repeat("long", 30) + "/3.bin" }
