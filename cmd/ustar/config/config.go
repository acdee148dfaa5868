// Package config provides types and functions to configure the ustar CLI.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/NVIDIA/ustar/cmn/cos"
)

// default pathname: $HOME/.config/ustar/config.json (override: USTAR_CONFIG)

const (
	appName  = "ustar"
	fileName = "config.json"

	EnvConfig = "USTAR_CONFIG"
)

type (
	// header defaults for archived entries
	HeaderConfig struct {
		Uname       string `json:"uname"`
		Gname       string `json:"gname"`
		UID         int64  `json:"uid"`
		GID         int64  `json:"gid"`
		FileModeStr string `json:"file_mode"` // octal, e.g. "0644"
		FileMode    int64  `json:"-"`
		DirModeStr  string `json:"dir_mode"`
		DirMode     int64  `json:"-"`
		KeepOwner   bool   `json:"keep_owner"` // archive the source file's uid/gid instead
	}
	LogConfig struct {
		Dir          string `json:"dir"` // empty: stderr
		AlsoToStderr bool   `json:"also_to_stderr"`
	}

	// all of the above
	Config struct {
		Header  HeaderConfig `json:"header"`
		Log     LogConfig    `json:"log"`
		Cksum   string       `json:"checksum"` // default checksum type (see cos.SupportedChecksums)
		NoColor bool         `json:"no_color"`
	}
)

var defaultConfig = Config{
	Header: HeaderConfig{
		Uname:       "root",
		Gname:       "root",
		FileModeStr: "0644",
		FileMode:    int64(cos.PermRWRR),
		DirModeStr:  "0755",
		DirMode:     int64(cos.PermRWXRXRX),
	},
	Cksum: cos.ChecksumNone,
}

func Default() *Config {
	cfg := defaultConfig
	return &cfg
}

func Path() string {
	dflt := filepath.Join(cos.HomeConfigDir(appName), fileName)
	return cos.ExpandPath(cos.GetEnvOrDefault(EnvConfig, dflt))
}

// Load reads the config; a missing config gets created with defaults.
func Load() (*Config, error) {
	var (
		cfg = &Config{}
		fqn = Path()
	)
	if err := cos.LoadJSON(fqn, cfg); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config %q: %v", fqn, err)
		}
		cfg = Default()
		return cfg, Save(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %v", fqn, err)
	}
	return cfg, nil
}

func Save(cfg *Config) error {
	if err := cos.SaveJSON(Path(), cfg); err != nil {
		return fmt.Errorf("failed to save config file: %v", err)
	}
	return nil
}

func (c *Config) Validate() (err error) {
	if c.Header.FileMode, err = parseMode(c.Header.FileModeStr); err != nil {
		return fmt.Errorf("invalid header.file_mode %q: %v", c.Header.FileModeStr, err)
	}
	if c.Header.DirMode, err = parseMode(c.Header.DirModeStr); err != nil {
		return fmt.Errorf("invalid header.dir_mode %q: %v", c.Header.DirModeStr, err)
	}
	if c.Header.UID < 0 || c.Header.GID < 0 {
		return fmt.Errorf("invalid header uid/gid (%d, %d)", c.Header.UID, c.Header.GID)
	}
	if c.Cksum == "" {
		c.Cksum = cos.ChecksumNone
	}
	return cos.ValidateCksumType(c.Cksum)
}

func parseMode(s string) (int64, error) {
	mode, err := strconv.ParseInt(s, 8, 64)
	if err != nil {
		return 0, err
	}
	if mode < 0 || mode > 0o7777 {
		return 0, fmt.Errorf("out of range %o", mode)
	}
	return mode, nil
}
