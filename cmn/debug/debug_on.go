//go:build debug

// Package debug provides debug utilities
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package debug

import (
	"fmt"

	"github.com/NVIDIA/ustar/cmn/nlog"
)

func Infof(f string, a ...any) {
	nlog.InfoDepth(1, fmt.Sprintf("[DEBUG] "+f, a...))
}

func Assert(cond bool, a ...any) {
	if !cond {
		nlog.Flush()
		if len(a) > 0 {
			panic("DEBUG PANIC: " + fmt.Sprint(a...))
		}
		panic("DEBUG PANIC")
	}
}

func AssertNoErr(err error) {
	if err != nil {
		nlog.Flush()
		panic(err)
	}
}

func Assertf(cond bool, f string, a ...any) {
	if !cond {
		nlog.Flush()
		panic("DEBUG PANIC: " + fmt.Sprintf(f, a...))
	}
}
