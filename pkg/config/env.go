package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables that override values from the config file.
const (
	EnvConfigPath = "ATUIN_BAR_CONFIG"
	EnvAtuinPath  = "ATUIN_BAR_ATUIN_PATH"
	EnvTheme      = "ATUIN_BAR_THEME"
	EnvMaxResults = "ATUIN_BAR_MAX_RESULTS"
)

// Env reads configuration values from environment variables.
type Env interface {
	GetString(key string) (string, error)
	GetStringWithDefault(key, defaultValue string) string
	GetIntWithDefault(key string, defaultValue int) int
}

// OSEnv implements Env on top of os.Getenv.
type OSEnv struct{}

// NewEnv creates an Env backed by the process environment.
func NewEnv() Env {
	return OSEnv{}
}

// GetString gets a value by key, returns error if not set
func (OSEnv) GetString(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("configuration key %s not found", key)
	}
	return value, nil
}

// GetStringWithDefault gets a value by key, returns default if not set
func (OSEnv) GetStringWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetIntWithDefault gets an integer value by key, returns default if not set
// or not an integer
func (OSEnv) GetIntWithDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// applyEnv overlays environment overrides onto cfg.
func applyEnv(env Env, cfg *Config) {
	cfg.AtuinPath = env.GetStringWithDefault(EnvAtuinPath, cfg.AtuinPath)
	cfg.Theme = env.GetStringWithDefault(EnvTheme, cfg.Theme)
	cfg.MaxResults = env.GetIntWithDefault(EnvMaxResults, cfg.MaxResults)
}
