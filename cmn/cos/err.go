// Package cos provides common low-level types and utilities for all ustar projects
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"os"
	"strings"
)

type ErrNotFound struct {
	where string
	what  string
}

func NewErrNotFound(where, what string) *ErrNotFound {
	return &ErrNotFound{where: where, what: what}
}

func (e *ErrNotFound) Error() string {
	s := e.what
	if !strings.Contains(s, "not exist") && !strings.Contains(s, "not found") {
		s += " does not exist"
	}
	if e.where == "" {
		return s
	}
	return e.where + ": " + s
}

func IsErrNotFound(err error) bool {
	if _, ok := err.(*ErrNotFound); ok {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "does not exist")
}

func IsNotExist(err error) bool {
	return IsErrNotFound(err) || os.IsNotExist(err) /*unwraps for fs.ErrNotExist*/
}
