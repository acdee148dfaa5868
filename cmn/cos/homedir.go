// Package cos provides common low-level types and utilities for all ustar projects.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"os"
	"os/user"
	"path/filepath"

	"github.com/NVIDIA/ustar/cmn/nlog"
)

const homeConfigsDir = ".config"

func HomeDir() (string, error) {
	currentUser, err := user.Current()
	if err != nil {
		nlog.Errorln(err)
		return os.UserHomeDir()
	}
	return currentUser.HomeDir, nil
}

// $HOME/.config/<app>
func HomeConfigDir(app string) (configDir string) {
	home, err := HomeDir()
	if err != nil {
		nlog.Errorln(err)
	}
	return filepath.Join(home, homeConfigsDir, app)
}
