/*
Package config implements TOML config file handling for transdex.

Pass a config file name to Load to obtain a Config struct; a missing file
yields the defaults.
*/
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config represents the parsed configuration.
type Config struct {
	DB     DbConfig     `toml:"database"`
	Server ServerConfig `toml:"server"`
	Export ExportConfig `toml:"export"`
}

// DbConfig holds database settings.
type DbConfig struct {
	// Path to the SQLite database file.
	File string `toml:"file"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `toml:"port"`
}

// ExportConfig holds export defaults.
type ExportConfig struct {
	// When true, untranslated entries are omitted from exports.
	TranslatedOnly bool `toml:"translated_only"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		DB:     DbConfig{File: "data/transdex.db"},
		Server: ServerConfig{Port: 8181},
		Export: ExportConfig{TranslatedOnly: true},
	}
}

func (c *Config) valid() error {
	if len(c.DB.File) == 0 {
		return fmt.Errorf("config: missing database.file value")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server.port value %d", c.Server.Port)
	}
	return nil
}

// Load reads the config file at path. A nonexistent path is not an error;
// the defaults are returned instead.
func Load(path string) (Config, error) {
	c := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return c, nil
	}
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := c.valid(); err != nil {
		return Config{}, err
	}
	return c, nil
}
