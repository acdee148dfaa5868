// Package nlog - ustar logger, provides buffering, timestamping, and writing
// to stderr or to a per-role log file
/*
 * Copyright (c) 2023-2026, NVIDIA CORPORATION. All rights reserved.
 */
package nlog

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

const nlogLineSize = 4 * 1024

type severity int

const (
	sevInfo severity = iota
	sevWarn
	sevErr
)

var (
	toStderr     = true
	alsoToStderr bool

	logDir    string
	ustarRole string
	title     string
	arg0      string
	pid       int

	file *os.File
	mu   sync.Mutex

	// of `fixed` bufs
	pool = sync.Pool{
		New: func() any {
			return &fixed{buf: make([]byte, nlogLineSize)}
		},
	}
)

func init() {
	pid = os.Getpid()
	arg0 = filepath.Base(os.Args[0])
}

// main function
func log(sev severity, depth int, format string, args ...any) {
	fb := alloc()
	sprintf(sev, depth, format, fb, args...)

	mu.Lock()
	if toStderr || logDir == "" {
		// no log file: info records only when asked for
		if alsoToStderr || sev >= sevWarn {
			os.Stderr.Write(fb.buf[:fb.woff])
		}
	} else {
		if alsoToStderr || sev >= sevErr {
			os.Stderr.Write(fb.buf[:fb.woff])
		}
		if file == nil {
			if err := fcreate(); err != nil {
				os.Stderr.WriteString("Error: [nlog] " + err.Error() + "\n")
			}
		}
		if file != nil {
			fb.flush(file)
		}
	}
	mu.Unlock()
	free(fb)
}

// under lock
func fcreate() (err error) {
	if err = os.MkdirAll(logDir, 0o750); err != nil {
		return
	}
	name := arg0
	if ustarRole != "" {
		name = ustarRole
	}
	fname := filepath.Join(logDir, name+".log")
	if file, err = os.OpenFile(fname, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640); err != nil {
		return
	}
	snow := time.Now().Format("2006/01/02 15:04:05")
	file.WriteString("Started up at " + snow + ", " +
		fmt.Sprintf("pid %d, %s for %s/%s\n", pid, runtime.Version(), runtime.GOOS, runtime.GOARCH))
	if title != "" {
		file.WriteString(title)
	}
	return nil
}

// under lock
func closeFile() {
	if file != nil {
		file.Close()
		file = nil
	}
}

func formatHdr(s severity, depth int, fb *fixed) {
	const char = "IWE"
	_, fn, ln, ok := runtime.Caller(3 + depth)
	fb.writeByte(char[s])
	fb.writeByte(' ')
	fb.writeStamp()
	fb.writeByte(' ')
	if !ok {
		return
	}
	idx := strings.LastIndexByte(fn, filepath.Separator)
	if idx > 0 {
		fn = fn[idx+1:]
	}
	if l := len(fn); l > 3 {
		fn = fn[:l-3]
	}
	fb.writeString(fn)
	fb.writeByte(':')
	fb.writeString(strconv.Itoa(ln))
	fb.writeByte(' ')
}

func sprintf(sev severity, depth int, format string, fb *fixed, args ...any) {
	formatHdr(sev, depth+1, fb)
	if format == "" {
		fmt.Fprint(fb, args...)
	} else {
		fmt.Fprintf(fb, format, args...)
	}
	fb.eol()
}

//
// buffer pool
//

func alloc() (fb *fixed) {
	fb = pool.Get().(*fixed)
	fb.reset()
	return
}

func free(fb *fixed) { pool.Put(fb) }
