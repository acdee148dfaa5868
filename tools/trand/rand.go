// Package trand provides random strings and payloads for tests
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package trand

import (
	"math/rand/v2"
)

const letterRunes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

func String(n int) string {
	b := make([]byte, n)
	for i := range n {
		b[i] = letterRunes[rand.IntN(len(letterRunes))]
	}
	return string(b)
}

// random payload of a given size
func Bytes(n int) []byte {
	b := make([]byte, n)
	for i := range n {
		b[i] = byte(rand.Uint32())
	}
	return b
}
