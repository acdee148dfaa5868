// Package cos provides common low-level types and utilities for all ustar projects.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"github.com/NVIDIA/ustar/cmn/nlog"
)

const assertMsg = "assertion failed"

// NOTE: Not to be used in the datapath - consider instead cmn/debug.
func Assert(cond bool) {
	if !cond {
		nlog.Flush()
		panic(assertMsg)
	}
}

// NOTE: when using Sprintf and such, `if (!cond) { AssertMsg(false, msg) }` is the preferable usage.
func AssertMsg(cond bool, msg string) {
	if !cond {
		nlog.Flush()
		panic(assertMsg + ": " + msg)
	}
}
