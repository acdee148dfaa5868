// Package cos provides common low-level types and utilities for all ustar projects.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// JSON is used to marshal/unmarshal configs and listings and is initialized in init function.
var JSON jsoniter.API

func init() {
	jsonConf := jsoniter.Config{
		EscapeHTML:             false,
		ValidateJsonRawMessage: false,
		DisallowUnknownFields:  true, // make sure we have exactly the struct user requested.
		SortMapKeys:            true,
	}
	JSON = jsonConf.Froze()
}

// LoadJSON decodes the file into v.
func LoadJSON(fqn string, v any) error {
	fh, err := os.Open(fqn)
	if err != nil {
		return err
	}
	err = JSON.NewDecoder(fh).Decode(v)
	Close(fh)
	return err
}

// SaveJSON writes v (indented) into a temp file and then renames it into place.
func SaveJSON(fqn string, v any) (err error) {
	tmp := fqn + ".tmp." + strconv.FormatInt(time.Now().UnixNano(), 36)
	fh, err := CreateFile(tmp)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()
	enc := JSON.NewEncoder(fh)
	enc.SetIndent("", "  ")
	if err = enc.Encode(v); err != nil {
		Close(fh)
		return err
	}
	if err = fh.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Clean(fqn))
}
