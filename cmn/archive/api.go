// Package archive: ustar header codec, sequential writer and reader,
// plus the compression and listing primitives layered on top
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package archive

import (
	"errors"
	"fmt"
)

// assorted errors
type (
	// missing or out-of-range header field (at construction time)
	ErrValidation struct {
		field  string
		detail string
	}
	// operation invoked in the wrong writer (or entry) state
	ErrState struct {
		op    string
		state string
	}
	// entry payload would exceed the size declared in its header
	ErrOverflow struct {
		name     string
		size     int64
		written  int64
		attempts int
	}
	// opt-in header checksum verification
	ErrBadChecksum struct {
		name     string
		embedded int64
		computed int64
	}
	ErrUnknownMime    struct{ detail string }
	ErrUnknownFileExt struct{ detail string }
)

func NewErrValidation(field, detail string) *ErrValidation {
	return &ErrValidation{field: field, detail: detail}
}

func (e *ErrValidation) Error() string {
	return "invalid header: field \"" + e.field + "\" " + e.detail
}

func (e *ErrValidation) Field() string { return e.field }

func IsErrValidation(err error) bool {
	var e *ErrValidation
	return errors.As(err, &e)
}

func NewErrState(op, state string) *ErrState { return &ErrState{op: op, state: state} }

func (e *ErrState) Error() string {
	return "cannot " + e.op + ": " + e.state
}

func IsErrState(err error) bool {
	var e *ErrState
	return errors.As(err, &e)
}

func NewErrOverflow(name string, size, written int64, attempts int) *ErrOverflow {
	return &ErrOverflow{name: name, size: size, written: written, attempts: attempts}
}

func (e *ErrOverflow) Error() string {
	return fmt.Sprintf("%s: write too long (declared size %d, written %d, attempted %d more)",
		e.name, e.size, e.written, e.attempts)
}

func IsErrOverflow(err error) bool {
	var e *ErrOverflow
	return errors.As(err, &e)
}

func NewErrBadChecksum(name string, embedded, computed int64) *ErrBadChecksum {
	return &ErrBadChecksum{name: name, embedded: embedded, computed: computed}
}

func (e *ErrBadChecksum) Error() string {
	return fmt.Sprintf("%q: bad header checksum (%06o != %06o)", e.name, e.embedded, e.computed)
}

func IsErrBadChecksum(err error) bool {
	var e *ErrBadChecksum
	return errors.As(err, &e)
}

func NewErrUnknownMime(d string) *ErrUnknownMime { return &ErrUnknownMime{d} }
func (e *ErrUnknownMime) Error() string          { return "unknown mime type \"" + e.detail + "\"" }

func IsErrUnknownMime(err error) bool {
	_, ok := err.(*ErrUnknownMime)
	return ok
}

func NewErrUnknownFileExt(d string) *ErrUnknownFileExt { return &ErrUnknownFileExt{d} }
func (e *ErrUnknownFileExt) Error() string             { return "unknown file extension \"" + e.detail + "\"" }

func IsErrUnknownFileExt(err error) bool {
	_, ok := err.(*ErrUnknownFileExt)
	return ok
}
