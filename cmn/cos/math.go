// Package cos provides common low-level types and utilities for all ustar projects
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cos

// returns smallest number divisible by `align` that is greater or equal `val`
func CeilAlignI64(val, align int64) int64 {
	mod := val % align
	if mod != 0 {
		val += align - mod
	}
	return val
}
