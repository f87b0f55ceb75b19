package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceTime = 100 * time.Millisecond

// HotReloaderCallback is called with a freshly loaded configuration. An
// error rolls the reload back.
type HotReloaderCallback func(*Config) error

// HotReloader reloads the configuration when one of its files changes.
type HotReloader struct {
	mu        sync.RWMutex
	config    *Config
	paths     []string
	load      func() (*Config, error)
	watcher   *fsnotify.Watcher
	callbacks []HotReloaderCallback
	ctx       context.Context
	cancel    context.CancelFunc
	timer     *time.Timer
}

// NewHotReloader watches paths and calls load to rebuild the
// configuration.
func NewHotReloader(paths []string, load func() (*Config, error)) (*HotReloader, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	hr := &HotReloader{
		paths:   paths,
		load:    load,
		watcher: watcher,
		ctx:     ctx,
		cancel:  cancel,
	}
	return hr, nil
}

// ForWorkingDir returns a reloader over the files [Load] reads for
// workingDir.
func ForWorkingDir(workingDir, dataDir string, debug bool) (*HotReloader, error) {
	return NewHotReloader(ConfigPaths(workingDir), func() (*Config, error) {
		return Load(workingDir, dataDir, debug)
	})
}

// Start begins watching for configuration changes.
func (hr *HotReloader) Start() error {
	var dirs []string
	for _, p := range hr.paths {
		dir := filepath.Dir(p)
		if slices.Contains(dirs, dir) {
			continue
		}
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := hr.watcher.Add(dir); err != nil {
			return err
		}
		dirs = append(dirs, dir)
	}

	go hr.watchLoop()
	slog.Info("Configuration hot reloader started", "dirs", dirs)
	return nil
}

// AddCallback adds a callback to be called when configuration changes.
func (hr *HotReloader) AddCallback(callback HotReloaderCallback) {
	hr.mu.Lock()
	defer hr.mu.Unlock()
	hr.callbacks = append(hr.callbacks, callback)
}

// SetConfig sets the current configuration.
func (hr *HotReloader) SetConfig(config *Config) {
	hr.mu.Lock()
	defer hr.mu.Unlock()
	hr.config = config
}

// GetConfig returns the current configuration.
func (hr *HotReloader) GetConfig() *Config {
	hr.mu.RLock()
	defer hr.mu.RUnlock()
	return hr.config
}

func (hr *HotReloader) watchLoop() {
	reload := make(chan struct{}, 1)
	for {
		select {
		case <-hr.ctx.Done():
			if hr.timer != nil {
				hr.timer.Stop()
			}
			return
		case event, ok := <-hr.watcher.Events:
			if !ok {
				return
			}
			if !hr.isConfigFile(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			// Editors write in bursts; reload once they settle.
			if hr.timer != nil {
				hr.timer.Stop()
			}
			hr.timer = time.AfterFunc(debounceTime, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case <-reload:
			slog.Debug("Configuration file changed, reloading")
			if err := hr.reloadConfig(); err != nil {
				slog.Error("Failed to reload configuration", "error", err)
			}
		case err, ok := <-hr.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", "error", err)
		}
	}
}

func (hr *HotReloader) isConfigFile(filename string) bool {
	return slices.ContainsFunc(hr.paths, func(p string) bool {
		return filepath.Clean(filename) == filepath.Clean(p)
	})
}

// Reload loads the configuration now and runs the callbacks.
func (hr *HotReloader) Reload() error {
	return hr.reloadConfig()
}

func (hr *HotReloader) reloadConfig() error {
	newConfig, err := hr.load()
	if err != nil {
		return err
	}

	hr.mu.Lock()
	oldConfig := hr.config
	hr.config = newConfig
	callbacks := slices.Clone(hr.callbacks)
	hr.mu.Unlock()

	for i, callback := range callbacks {
		if err := callback(newConfig); err != nil {
			slog.Error("Configuration reload callback failed", "callback", i, "error", err)
			hr.mu.Lock()
			hr.config = oldConfig
			hr.mu.Unlock()
			return err
		}
	}

	slog.Info("Configuration reloaded successfully")
	return nil
}

// Stop stops watching. It is safe to call before Start.
func (hr *HotReloader) Stop() error {
	hr.cancel()
	return hr.watcher.Close()
}
