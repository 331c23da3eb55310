// Package config loads the companion driver's optional defaults file. The
// format is TOML, decoded with BurntSushi/toml the way internal/tqw decodes
// game-data files, even though this is a different file shape entirely.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config holds the companion CLI's configurable defaults. Every field has a
// default (see Default), so running without a config file is fine; a config
// file path that cannot be read or decoded is an error.
type Config struct {
	// Color turns colorized pterm output on or off for the CLI's summary and
	// diagnostics. Defaults to true.
	Color bool `toml:"color"`

	// OutputFormat is the default table rendering format for `run` when no
	// --format flag is given: "text" or "html".
	OutputFormat string `toml:"output_format"`

	// DataDir is the directory the session store's SQLite database lives in.
	DataDir string `toml:"data_dir"`

	// ListenAddr is the default bind address for `serve`.
	ListenAddr string `toml:"listen_addr"`
}

// Default returns the configuration used when no file is loaded.
func Default() Config {
	return Config{
		Color:        true,
		OutputFormat: "text",
		DataDir:      ".",
		ListenAddr:   ":8080",
	}
}

// Load reads and decodes a TOML config file at path, merging it over
// Default() so that a config file only needs to set the fields it wants to
// override. An empty path returns Default() unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %q: %w", path, err)
	}
	return cfg, nil
}
