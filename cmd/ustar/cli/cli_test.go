// Package cli provides ustar commands: create, manifest, list, and cat.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NVIDIA/ustar/cmd/ustar/config"
	"github.com/NVIDIA/ustar/cmn/archive"
	"github.com/NVIDIA/ustar/cmn/cos"
	"github.com/NVIDIA/ustar/tools/tassert"

	"github.com/urfave/cli"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, args ...string) (string, error) {
	var (
		out bytes.Buffer
		a   = acli{app: cli.NewApp(), outWriter: &out, errWriter: &out}
	)
	a.init("test")
	err := a.runOnce(append([]string{cliName, "--no-color"}, args...))
	return out.String(), err
}

func setup(t *testing.T) (src, dst string) {
	tmp := t.TempDir()
	t.Setenv(config.EnvConfig, filepath.Join(tmp, "config.json"))
	src, dst = filepath.Join(tmp, "src"), filepath.Join(tmp, "dst")
	for name, content := range map[string]string{
		"a.txt":          "alpha",
		"sub/b.txt":      "bravo-bravo",
		"sub/deep/c.bin": strings.Repeat("c", 1000),
		"empty":          "",
	} {
		fqn := filepath.Join(src, name)
		tassert.CheckFatal(t, os.MkdirAll(filepath.Dir(fqn), 0o755))
		tassert.CheckFatal(t, os.WriteFile(fqn, []byte(content), 0o644))
	}
	tassert.CheckFatal(t, os.MkdirAll(dst, 0o755))
	return src, dst
}

func TestCreateListCat(t *testing.T) {
	src, dst := setup(t)
	for _, ext := range archive.FileExtensions {
		arch := filepath.Join(dst, "out"+ext)
		out, err := run(t, cmdCreate, "--checksum", cos.ChecksumMD5, arch, src)
		tassert.CheckFatal(t, err)
		tassert.Errorf(t, strings.Contains(out, "md5"), "%s: expecting checksum in %q", ext, out)

		out, err = run(t, cmdList, "--verify", "--no-headers", arch)
		tassert.CheckFatal(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		tassert.Fatalf(t, len(lines) == 4, "%s: expecting 4 files, got %q", ext, out)
		tassert.Errorf(t, strings.HasPrefix(lines[0], "a.txt"), "%s: first line %q", ext, lines[0])

		out, err = run(t, cmdCat, arch, "sub/b.txt")
		tassert.CheckFatal(t, err)
		tassert.Errorf(t, out == "bravo-bravo", "%s: cat returned %q", ext, out)

		out, err = run(t, cmdCat, "--match", ".txt", "--match-mode", "suffix", arch)
		tassert.CheckFatal(t, err)
		tassert.Errorf(t, len(out) == len("alpha")+len("bravo-bravo"), "%s: cat --match returned %q", ext, out)
	}
}

func TestListFormats(t *testing.T) {
	src, dst := setup(t)
	arch := filepath.Join(dst, "out.tar")
	_, err := run(t, cmdCreate, arch, src)
	tassert.CheckFatal(t, err)

	out, err := run(t, cmdList, "--json", "--all", arch)
	tassert.CheckFatal(t, err)
	var lst []*archive.ListEntry
	tassert.CheckFatal(t, cos.JSON.Unmarshal([]byte(out), &lst))
	tassert.Fatalf(t, len(lst) == 6, "expecting 4 files and 2 directories, got %d", len(lst))

	dirs := 0
	for _, e := range lst {
		if e.Kind == "dir" {
			dirs++
			tassert.Errorf(t, strings.HasSuffix(e.Name, "/"), "directory %q", e.Name)
		}
	}
	tassert.Errorf(t, dirs == 2, "expecting 2 directories, got %d", dirs)

	out, err = run(t, cmdList, "--yaml", arch)
	tassert.CheckFatal(t, err)
	lst = nil
	tassert.CheckFatal(t, yaml.Unmarshal([]byte(out), &lst))
	tassert.Errorf(t, len(lst) == 4, "expecting 4 files, got %d", len(lst))

	_, err = run(t, cmdList, "--yaml", "--json", arch)
	tassert.Errorf(t, err != nil, "expecting mutually exclusive flags")
}

func TestAppend(t *testing.T) {
	src, dst := setup(t)
	arch := filepath.Join(dst, "out.tar")
	_, err := run(t, cmdCreate, arch, src)
	tassert.CheckFatal(t, err)
	_, err = run(t, cmdCreate, "--append", arch, filepath.Join(src, "sub"))
	tassert.CheckFatal(t, err)

	lst, err := archive.List(arch, archive.ListOpts{VerifyCksum: true})
	tassert.CheckFatal(t, err)
	tassert.Errorf(t, len(lst) == 6, "expecting 4+2 files, got %d", len(lst))

	_, err = run(t, cmdCreate, "--append", filepath.Join(dst, "out.tar.gz"), src)
	tassert.Errorf(t, err != nil, "expecting append to compressed archive to fail")
}

func TestManifest(t *testing.T) {
	src, dst := setup(t)
	var (
		arch = filepath.Join(dst, "man.tar.lz4")
		man  = filepath.Join(dst, "manifest.json")
	)
	entries := []*manifestEntry{
		{Header: archive.HeaderArgs{Name: archive.Str("inline.txt"), Prefix: archive.Str("x"), Mode: archive.I64(0o600)}, Data: "inline"},
		{Header: archive.HeaderArgs{Name: archive.Str("d/"), Prefix: archive.Str(""), Mode: archive.I64(0o755), Size: archive.I64(0), Typeflag: "5"}},
		{Header: archive.HeaderArgs{Name: archive.Str("c.bin"), Prefix: archive.Str(""), Mode: archive.I64(0o644)}, Source: filepath.Join(src, "sub", "deep", "c.bin")},
	}
	tassert.CheckFatal(t, cos.SaveJSON(man, entries))

	out, err := run(t, cmdManifest, arch, man)
	tassert.CheckFatal(t, err)
	tassert.Errorf(t, strings.Contains(out, "3 entries"), "unexpected output %q", out)

	lst, err := archive.List(arch, archive.ListOpts{Dirs: true})
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, len(lst) == 3, "expecting 3 entries, got %d", len(lst))
	tassert.Errorf(t, lst[0].Name == "c.bin" && lst[0].Size == 1000, "%+v", lst[0])
	tassert.Errorf(t, lst[2].Name == "x/inline.txt" && lst[2].Mode == 0o600, "%+v", lst[2])

	// missing required header field
	bad := []*manifestEntry{{Header: archive.HeaderArgs{Name: archive.Str("n"), Mode: archive.I64(0)}, Data: "abc"}}
	tassert.CheckFatal(t, cos.SaveJSON(man, bad))
	_, err = run(t, cmdManifest, arch, man)
	tassert.Errorf(t, err != nil && strings.Contains(err.Error(), "prefix"), "expecting prefix validation error, got %v", err)
	_, err = os.Stat(arch)
	tassert.Errorf(t, os.IsNotExist(err), "failed archive must be removed")

	// declared size exceeds the inline payload
	short := []*manifestEntry{
		{Header: archive.HeaderArgs{Name: archive.Str("short.txt"), Prefix: archive.Str(""), Mode: archive.I64(0o644), Size: archive.I64(10)}, Data: "abc"},
	}
	tassert.CheckFatal(t, cos.SaveJSON(man, short))
	_, err = run(t, cmdManifest, arch, man)
	tassert.Errorf(t, err != nil && strings.Contains(err.Error(), "short payload"), "expecting short payload error, got %v", err)
	_, err = os.Stat(arch)
	tassert.Errorf(t, os.IsNotExist(err), "failed archive must be removed")
}

func TestUsage(t *testing.T) {
	setup(t)
	_, err := run(t, cmdCat)
	_, ok := err.(*errUsage)
	tassert.Errorf(t, ok, "expecting usage error, got %v", err)
}

func TestKeepOwner(t *testing.T) {
	src, dst := setup(t)
	c := config.Default()
	c.Header.KeepOwner = true
	c.Header.FileModeStr = "0600"
	tassert.CheckFatal(t, config.Save(c))

	arch := filepath.Join(dst, "owned.tar")
	_, err := run(t, cmdCreate, arch, src)
	tassert.CheckFatal(t, err)

	fh, err := os.Open(arch)
	tassert.CheckFatal(t, err)
	defer fh.Close()
	hdr, err := archive.NewReader(fh, archive.ReaderOpts{VerifyCksum: true}).Next()
	tassert.CheckFatal(t, err)
	tassert.Errorf(t, hdr.Uid == archive.NumOf(int64(os.Getuid())), "uid %v, expected %d", hdr.Uid, os.Getuid())
	tassert.Errorf(t, hdr.Gid == archive.NumOf(int64(os.Getgid())), "gid %v, expected %d", hdr.Gid, os.Getgid())
	tassert.Errorf(t, hdr.Mode == 0o600, "mode %o", hdr.Mode)
}
