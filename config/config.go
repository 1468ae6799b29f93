// Package config loads server settings from an optional TOML file and the
// environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"pin-editor/storage"
)

// sqliteFile is the database name used when DataPath names a directory.
const sqliteFile = "pin-editor.db"

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	Port       string `toml:"port"`
	Backend    string `toml:"backend"`
	DataPath   string `toml:"data_path"`
	StorageKey string `toml:"storage_key"`
	StaticDir  string `toml:"static_dir"`
}

func defaults() Config {
	return Config{
		Port:       "8080",
		Backend:    BackendFile,
		DataPath:   "/data",
		StorageKey: storage.DefaultKey,
	}
}

// Load reads path (if non-empty and present) and then applies environment
// overrides. A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Backend = getEnv("PIN_EDITOR_BACKEND", cfg.Backend)
	cfg.DataPath = getEnv("PIN_EDITOR_DATA", cfg.DataPath)
	cfg.StorageKey = getEnv("PIN_EDITOR_KEY", cfg.StorageKey)
	cfg.StaticDir = getEnv("PIN_EDITOR_STATIC", cfg.StaticDir)

	switch cfg.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return nil, fmt.Errorf("config: unknown backend %q", cfg.Backend)
	}
	if cfg.Backend == BackendSQLite && isDir(cfg.DataPath) {
		cfg.DataPath = filepath.Join(cfg.DataPath, sqliteFile)
	}
	return &cfg, nil
}

// isDir reports whether path is an existing directory or, when it does not
// exist yet, has no file extension.
func isDir(path string) bool {
	if info, err := os.Stat(path); err == nil {
		return info.IsDir()
	}
	return filepath.Ext(path) == ""
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}
