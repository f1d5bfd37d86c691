// Package utils provides small helpers shared by the emorand commands.
package utils

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// ExpandPath expands tilde and all environment variables from the given path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	s, err := homedir.Expand(path)
	if err == nil {
		return os.ExpandEnv(s)
	}
	return os.ExpandEnv(path)
}

// AbsPath expands path and makes it absolute. It returns the expanded path
// unchanged if it cannot be made absolute.
func AbsPath(path string) string {
	path = ExpandPath(path)
	if path == "" {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
