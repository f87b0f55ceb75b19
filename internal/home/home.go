// Package home provides utilities for dealing with the user's home directory.
package home

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Dir returns the users home directory, or if it fails, a temporary
// directory created in its place.
var Dir = sync.OnceValue(func() string {
	home, err := os.UserHomeDir()
	if err == nil {
		return home
	}
	tmp, err := os.MkdirTemp("", "lazylist-home-")
	if err != nil {
		slog.Error("Could not find the user home directory")
		return ""
	}
	slog.Warn("Could not find the user home directory, using a temporary one", "home", tmp)
	return tmp
})

// Short replaces the home path from [Dir] with `~`.
func Short(p string) string {
	return short(Dir(), p)
}

// Long replaces a leading `~` with the home path from [Dir].
func Long(p string) string {
	return long(Dir(), p)
}

func short(home, p string) string {
	if home == "" || !strings.HasPrefix(p, home) {
		return p
	}
	return filepath.Join("~", strings.TrimPrefix(p, home))
}

func long(home, p string) string {
	if home == "" || !strings.HasPrefix(p, "~") {
		return p
	}
	return strings.Replace(p, "~", home, 1)
}
