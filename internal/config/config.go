// Package config holds the engine's tunables and loads them from TOML
// files and environment variables. Defaults always produce a valid
// configuration; files and the environment override them in that
// order.
package config

import (
	"fmt"
	"strings"
)

// Config is the full engine configuration.
type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Log     LogConfig     `toml:"log"`
	Watch   WatchConfig   `toml:"watch"`
	Session SessionConfig `toml:"session"`
}

// EngineConfig tunes the buffer engine itself.
type EngineConfig struct {
	// PageLines is the number of rows a page movement spans.
	PageLines int `toml:"page_lines"`
	// DefaultCapacity is the initial character capacity of
	// pool-created buffers.
	DefaultCapacity int `toml:"default_capacity"`
	// BulkThreshold is the slice length above which bulk insertion
	// switches to the one-pass copy path.
	BulkThreshold int `toml:"bulk_threshold"`
}

// LogConfig tunes logging.
type LogConfig struct {
	// Level is the minimum level to output: debug, info, warn, error.
	Level string `toml:"level"`
	// File is the log destination; empty means stderr.
	File string `toml:"file"`
}

// WatchConfig tunes the external-modification watcher.
type WatchConfig struct {
	// DebounceMS is the window, in milliseconds, within which rapid
	// events on the same path coalesce into one.
	DebounceMS int `toml:"debounce_ms"`
	// Ignore lists path components whose events are dropped.
	Ignore []string `toml:"ignore"`
}

// SessionConfig tunes session snapshot persistence.
type SessionConfig struct {
	// Path is where the session file lives; empty disables sessions.
	Path string `toml:"path"`
	// Autosave writes a snapshot after every buffer save.
	Autosave bool `toml:"autosave"`
}

// Default returns the documented default configuration.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			PageLines:       40,
			DefaultCapacity: 1024,
			BulkThreshold:   128,
		},
		Log: LogConfig{
			Level: "info",
		},
		Watch: WatchConfig{
			DebounceMS: 100,
			Ignore:     []string{".git", "node_modules"},
		},
		Session: SessionConfig{},
	}
}

// validLogLevels are the accepted log level names.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Engine.PageLines < 1 {
		return fmt.Errorf("engine.page_lines must be at least 1, got %d", c.Engine.PageLines)
	}
	if c.Engine.DefaultCapacity < 0 {
		return fmt.Errorf("engine.default_capacity must not be negative, got %d", c.Engine.DefaultCapacity)
	}
	if c.Engine.BulkThreshold < 1 {
		return fmt.Errorf("engine.bulk_threshold must be at least 1, got %d", c.Engine.BulkThreshold)
	}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("watch.debounce_ms must not be negative, got %d", c.Watch.DebounceMS)
	}
	return nil
}
