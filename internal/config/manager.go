package config

import (
	"errors"
	"sync/atomic"
)

var ErrConfigNotLoaded = errors.New("config not loaded")

// Manager holds the active configuration.
type Manager struct {
	config atomic.Pointer[Config]
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// SetConfig sets the configuration atomically.
func (m *Manager) SetConfig(cfg *Config) {
	m.config.Store(cfg)
}

// GetConfig returns the current configuration.
func (m *Manager) GetConfig() *Config {
	return m.config.Load()
}

// InitConfig loads the configuration and makes it current.
func (m *Manager) InitConfig(workingDir, dataDir string, debug bool) (*Config, error) {
	cfg, err := Load(workingDir, dataDir, debug)
	if err != nil {
		return nil, err
	}
	m.SetConfig(cfg)
	return cfg, nil
}

// Reset clears the configuration (useful for testing).
func (m *Manager) Reset() {
	m.config.Store(nil)
}

var defaultManager = NewManager()

// Init loads the process configuration.
func Init(workingDir, dataDir string, debug bool) (*Config, error) {
	return defaultManager.InitConfig(workingDir, dataDir, debug)
}

// Get returns the process configuration.
func Get() *Config {
	return defaultManager.GetConfig()
}

// Set replaces the process configuration, e.g. after a reload.
func Set(cfg *Config) {
	defaultManager.SetConfig(cfg)
}
