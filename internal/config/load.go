package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/charmbracelet/lazylist/internal/home"
	"github.com/qjebbs/go-jsons"
)

var projectConfigNames = []string{
	fmt.Sprintf("%s.json", appName),
	fmt.Sprintf(".%s.json", appName),
}

// GlobalConfig returns the global configuration file path.
func GlobalConfig() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, appName, fmt.Sprintf("%s.json", appName))
	}
	// for windows, it should be in `%LOCALAPPDATA%/lazylist/`
	if runtime.GOOS == "windows" {
		return filepath.Join(localAppData(), appName, fmt.Sprintf("%s.json", appName))
	}
	return filepath.Join(home.Dir(), ".config", appName, fmt.Sprintf("%s.json", appName))
}

// GlobalConfigData returns the writable configuration file, kept in the
// data directory.
func GlobalConfigData() string {
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, appName, fmt.Sprintf("%s.json", appName))
	}
	// for linux and macOS, it should be in `$HOME/.local/share/lazylist/`
	if runtime.GOOS == "windows" {
		return filepath.Join(localAppData(), appName, fmt.Sprintf("%s.json", appName))
	}
	return filepath.Join(home.Dir(), ".local", "share", appName, fmt.Sprintf("%s.json", appName))
}

func localAppData() string {
	if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
		return dir
	}
	return filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
}

// ConfigPaths returns the config files Load reads, in merge order. Later
// files override earlier ones.
func ConfigPaths(workingDir string) []string {
	paths := []string{GlobalConfig(), GlobalConfigData()}
	for _, name := range projectConfigNames {
		paths = append(paths, filepath.Join(workingDir, name))
	}
	return paths
}

// Load reads and merges the global and project configuration of
// workingDir. dataDir, when set, overrides the data directory.
func Load(workingDir, dataDir string, debug bool) (*Config, error) {
	var readers []io.Reader
	for _, path := range ConfigPaths(workingDir) {
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		slog.Debug("Loading config file", "path", path)
		readers = append(readers, bytes.NewReader(data))
	}

	cfg := &Config{}
	if len(readers) > 0 {
		merged, err := jsons.Merge(readers)
		if err != nil {
			return nil, fmt.Errorf("failed to merge config files: %w", err)
		}
		if err := json.Unmarshal([]byte(merged), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.setDefaults(workingDir, dataDir)
	cfg.dataConfigDir = GlobalConfigData()
	if v, _ := strconv.ParseBool(os.Getenv("LAZYLIST_DEBUG")); v {
		debug = true
	}
	if debug {
		cfg.Options.Debug = true
	}

	if _, err := cfg.Layout.ListOptions(); err != nil {
		return nil, err
	}
	return cfg, nil
}
