// Package nlog - ustar logger, provides buffering, timestamping, and writing
// to stderr or to a per-role log file
/*
 * Copyright (c) 2023-2026, NVIDIA CORPORATION. All rights reserved.
 */
package nlog

func InfoDepth(depth int, args ...any)    { log(sevInfo, depth, "", args...) }
func Infof(format string, args ...any)    { log(sevInfo, 0, format, args...) }
func Warningf(format string, args ...any) { log(sevWarn, 0, format, args...) }
func Errorln(args ...any)                 { log(sevErr, 0, "", args...) }
func Errorf(format string, args ...any)   { log(sevErr, 0, format, args...) }

// when dir is non-empty, subsequent records go to <dir>/<role>.log
// (and to stderr as well, see SetAlsoToStderr)
func SetLogDirRole(dir, role string) {
	mu.Lock()
	logDir, ustarRole = dir, role
	toStderr = dir == ""
	closeFile()
	mu.Unlock()
}

// info records to stderr (warnings and errors always go there)
func SetAlsoToStderr(v bool) {
	mu.Lock()
	alsoToStderr = v
	mu.Unlock()
}

// first line of each newly created log file
func SetTitle(s string) { title = s }

func Flush() {
	mu.Lock()
	if file != nil {
		file.Sync()
	}
	mu.Unlock()
}
