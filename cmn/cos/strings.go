// Package cos provides common low-level types and utilities for all ustar projects
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"bytes"
	"path/filepath"
	"strings"
)

const maxl = 16

type StrSet map[string]struct{}

func (ss StrSet) Contains(key string) (yes bool) {
	_, yes = ss[key]
	return
}

func SHead(s string) string {
	if len(s) > maxl {
		return s[:maxl] + "..."
	}
	return s
}

// return non-empty
func Either(lhs, rhs string) string {
	if lhs != "" {
		return lhs
	}
	return rhs
}

// empty and "*" match everything
func MatchAll(s string) bool { return s == "" || s == "*" }

// WebDataset convention: pathname without extension
func WdsKey(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext)
}

// the C-string (NUL-terminated) portion of a fixed-size field
func CStr(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
