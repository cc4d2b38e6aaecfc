// Package config locates the mddiff configuration file. The file is YAML,
// its top level keys are flag names, eg:
//
//	loose: true
//	output: pretty
//	epsilon: 1e-9
//
// Values from the file are used when neither the command line nor the
// environment sets a flag.
package config

import (
	"os"
	"path/filepath"

	"github.com/apex/log"
)

// EnvFile is the environment variable that overrides the config file path
const EnvFile = "MDDIFF_CONFIG"

// File returns the path of the config file. MDDIFF_CONFIG wins, otherwise
// the file is config.yaml inside the mddiff folder of the user config
// directory. The file doesn't need to exist.
func File() string {
	if path := os.Getenv(EnvFile); path != "" {
		return path
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		log.Debugf("no user config dir: %v", err)
		return ""
	}
	return filepath.Join(dir, "mddiff", "config.yaml")
}

// Exists reports whether path names a regular file
func Exists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
