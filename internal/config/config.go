// Package config loads repodeck settings from a TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/johanforsgren/repodeck/internal/storage"
	"github.com/pelletier/go-toml/v2"
)

const (
	FileName = "config.toml"
	appDir   = "repodeck"

	DefaultAPIBaseURL = "https://api.github.com/"
)

type Config struct {
	APIBaseURL string        `toml:"api_base_url"`
	Storage    StorageConfig `toml:"storage"`
	Log        LogConfig     `toml:"log"`

	// Warnings lists keys present in the file that repodeck does not know.
	Warnings []string `toml:"-"`
}

type StorageConfig struct {
	Backend string `toml:"backend"` // "json" (default) or "bolt"
	Dir     string `toml:"dir"`
}

type LogConfig struct {
	File string `toml:"file,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		APIBaseURL: DefaultAPIBaseURL,
		Storage: StorageConfig{
			Backend: storage.BackendJSON,
			Dir:     defaultDataDir(),
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/repodeck/config.toml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, appDir, FileName)
}

func defaultDataDir() string {
	dir, err := storage.DefaultDataDir()
	if err != nil {
		return ".repodeck"
	}
	return dir
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Warnings = unknownKeys(data)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func unknownKeys(data []byte) []string {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var probe Config
	err := dec.Decode(&probe)

	var strict *toml.StrictMissingError
	if !errors.As(err, &strict) {
		return nil
	}

	warnings := make([]string, 0, len(strict.Errors))
	for _, e := range strict.Errors {
		warnings = append(warnings, fmt.Sprintf("unknown config key: %s", strings.Join(e.Key(), ".")))
	}
	return warnings
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case storage.BackendJSON, storage.BackendBolt:
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", storage.BackendJSON, storage.BackendBolt, c.Storage.Backend)
	}
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return errors.New("api_base_url must not be empty")
	}
	if strings.TrimSpace(c.Storage.Dir) == "" {
		return errors.New("storage.dir must not be empty")
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
