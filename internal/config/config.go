// Package config handles the optional smallbasic.toml runner configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const FileName = "smallbasic.toml"

type Config struct {
	Runtime Runtime `toml:"runtime"`
	Log     Log     `toml:"log"`
	Input   Input   `toml:"input"`

	// Path is the file the configuration was read from, empty for defaults
	Path string `toml:"-"`
}

type Runtime struct {
	MaxSteps int  `toml:"max-steps"` // 0 = unlimited
	Desktop  bool `toml:"desktop"`   // allow desktop-only library members
}

type Log struct {
	Level string `toml:"level"` // debug, info, warn, error
	Color bool   `toml:"color"`
}

type Input struct {
	History string `toml:"history"` // line editor history file, empty disables it
}

// Default returns the configuration used when no file is found
func Default() *Config {
	return &Config{
		Log: Log{Level: "warn", Color: true},
	}
}

// Load parses the configuration file at path on top of the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Path = path
	if c.Runtime.MaxSteps < 0 {
		return nil, fmt.Errorf("%s: max-steps must not be negative", path)
	}

	return c, nil
}

// FindAndLoad walks up from startDir looking for smallbasic.toml and
// returns the defaults when there is none
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}
