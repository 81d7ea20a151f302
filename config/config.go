// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the tasks service configuration from an optional
// YAML file with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Sweep   SweepConfig   `yaml:"sweep"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	// Port is the HTTP listen port.
	Port int `yaml:"port"`
}

type StorageConfig struct {
	// Backend selects the store implementation: "memory" or "badger".
	Backend string `yaml:"backend"`

	// Path is the BadgerDB directory. Ignored for the memory backend.
	Path string `yaml:"path"`

	// SyncWrites enables synchronous writes on the badger backend.
	SyncWrites bool `yaml:"sync_writes"`
}

type SweepConfig struct {
	// Interval is the background sweep period as a Go duration string
	// (e.g. "5m"). Empty or "0" disables the background scheduler; the
	// pre-listing sweep always runs regardless.
	Interval string `yaml:"interval"`
}

type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file and no overrides
// are present: memory backend, port 12280, no background sweep.
func Default() Config {
	return Config{
		Server:  ServerConfig{Port: 12280},
		Storage: StorageConfig{Backend: "memory", Path: "./data/tasks", SyncWrites: true},
		Sweep:   SweepConfig{Interval: ""},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads the configuration.
//
// # Description
//
// Starts from Default(), merges the YAML file at path when it exists
// (a missing file is not an error), then applies TASKS_* environment
// overrides: TASKS_PORT, TASKS_STORAGE_BACKEND, TASKS_STORAGE_PATH,
// TASKS_SWEEP_INTERVAL, TASKS_LOG_LEVEL.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if v := os.Getenv("TASKS_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("TASKS_PORT must be an integer: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("TASKS_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("TASKS_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("TASKS_SWEEP_INTERVAL"); v != "" {
		cfg.Sweep.Interval = v
	}
	if v := os.Getenv("TASKS_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Storage.Backend {
	case "memory", "badger":
	default:
		return fmt.Errorf("unknown storage backend %q (want memory or badger)", c.Storage.Backend)
	}
	if c.Storage.Backend == "badger" && c.Storage.Path == "" {
		return fmt.Errorf("storage path is required for the badger backend")
	}
	if _, err := c.SweepInterval(); err != nil {
		return err
	}
	return nil
}

// SweepInterval parses the background sweep interval. Zero means the
// scheduler is disabled.
func (c Config) SweepInterval() (time.Duration, error) {
	if c.Sweep.Interval == "" || c.Sweep.Interval == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Sweep.Interval)
	if err != nil {
		return 0, fmt.Errorf("invalid sweep interval %q: %w", c.Sweep.Interval, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("sweep interval must not be negative, got %v", d)
	}
	return d, nil
}
