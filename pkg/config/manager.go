package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/tomatitito/atuin-bar/pkg/logging"
)

// DefaultConfigPath is used when EnvConfigPath is unset.
const DefaultConfigPath = "~/.config/atuin-bar/config.toml"

const fileHeader = "# Atuin Bar Configuration\n\n"

// Manager loads, caches and persists the TOML configuration file.
type Manager struct {
	path   string
	env    Env
	logger logging.Logger

	mu     sync.RWMutex
	file   *Config // values as stored on disk
	loaded bool
}

// DefaultPath resolves the config path from the environment or the default
// location under the user's home directory.
func DefaultPath(env Env) (string, error) {
	path := env.GetStringWithDefault(EnvConfigPath, DefaultConfigPath)
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("resolving config path %s: %w", path, err)
	}
	return expanded, nil
}

// NewManager creates a manager for the file at path.
func NewManager(path string, env Env, logger logging.Logger) *Manager {
	if env == nil {
		env = NewEnv()
	}
	if logger == nil {
		logger = logging.NewDisabledLogger()
	}
	return &Manager{
		path:   path,
		env:    env,
		logger: logger.With("component", "config"),
	}
}

// NewDefaultManager creates a manager for DefaultPath.
func NewDefaultManager(logger logging.Logger) (*Manager, error) {
	env := NewEnv()
	path, err := DefaultPath(env)
	if err != nil {
		return nil, err
	}
	return NewManager(path, env, logger), nil
}

// Path returns the config file location.
func (m *Manager) Path() string {
	return m.path
}

// Load reads the file from disk. A missing file is created with defaults; a
// file that cannot be read or parsed is logged and replaced by defaults in
// memory only. Load never fails.
func (m *Manager) Load() *Config {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.file = m.readFile()
	m.loaded = true
	return m.effective()
}

// Get returns the effective configuration, loading it on first use.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	if m.loaded {
		defer m.mu.RUnlock()
		return m.effective()
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		m.file = m.readFile()
		m.loaded = true
	}
	return m.effective()
}

// Update merges u onto the stored configuration, validates and writes it.
// Environment overrides are applied to the returned value but never
// persisted.
func (m *Manager) Update(u ConfigUpdate) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loaded {
		m.file = m.readFile()
		m.loaded = true
	}

	next := m.file.clone()
	next.Apply(u)
	if err := next.Validate(); err != nil {
		return nil, err
	}
	if err := m.write(next); err != nil {
		return nil, err
	}

	m.file = next
	m.logger.Info("configuration updated", "path", m.path)
	return m.effective(), nil
}

// effective must be called with the lock held.
func (m *Manager) effective() *Config {
	cfg := m.file.clone()
	applyEnv(m.env, cfg)
	return cfg
}

func (m *Manager) readFile() *Config {
	cfg := Default()

	data, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := m.write(cfg); err != nil {
			m.logger.Warn("failed to write default config", "path", m.path, "error", err)
		}
		return cfg
	}
	if err != nil {
		m.logger.Error("failed to read config file", "path", m.path, "error", err)
		return cfg
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		m.logger.Error("failed to parse config file", "path", m.path, "error", err)
		return Default()
	}
	if err := cfg.Sanitize(); err != nil {
		m.logger.Warn("invalid config values replaced by defaults", "path", m.path, "error", err)
	}
	return cfg
}

func (m *Manager) write(cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Marshal renders cfg as a commented TOML document.
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(fileHeader)

	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return buf.Bytes(), nil
}
