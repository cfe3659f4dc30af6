// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings that may come from ~/.chef.yaml. Flags set on
// the command line take precedence.
type Config struct {
	DB        string        `yaml:"db"`
	Trace     bool          `yaml:"trace"`
	Timeout   time.Duration `yaml:"timeout"`
	Seed      *int64        `yaml:"seed"`
	StepLimit int           `yaml:"step_limit"`
	History   bool          `yaml:"history"`
}

const defaultDB = "chef.db"

// defaultConfigPath returns $HOME/.chef.yaml, or "" without a home
// directory.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".chef.yaml")
}

// LoadConfig reads the config file at path. A missing file is only an
// error when the path was given explicitly.
func LoadConfig(path string, explicit bool) (Config, error) {
	cfg := Config{DB: defaultDB}
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if cfg.DB == "" {
		cfg.DB = defaultDB
	}
	if cfg.Timeout < 0 || cfg.StepLimit < 0 {
		return cfg, fmt.Errorf("config file %s: timeout and step_limit must not be negative", path)
	}
	return cfg, nil
}
