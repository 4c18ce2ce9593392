package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvPrefix is the prefix of every environment variable the engine
// reads.
const EnvPrefix = "TEXTSTORM_"

// FromEnv applies TEXTSTORM_* environment overrides to cfg. Variables
// that are unset leave the current value in place; variables that are
// set but unparseable are errors rather than silent fallbacks.
func FromEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_FILE"); ok {
		cfg.Log.File = v
	}
	if err := intFromEnv(EnvPrefix+"PAGE_LINES", &cfg.Engine.PageLines); err != nil {
		return err
	}
	if err := intFromEnv(EnvPrefix+"DEFAULT_CAPACITY", &cfg.Engine.DefaultCapacity); err != nil {
		return err
	}
	if err := intFromEnv(EnvPrefix+"BULK_THRESHOLD", &cfg.Engine.BulkThreshold); err != nil {
		return err
	}
	if err := intFromEnv(EnvPrefix+"WATCH_DEBOUNCE_MS", &cfg.Watch.DebounceMS); err != nil {
		return err
	}
	if v, ok := os.LookupEnv(EnvPrefix + "WATCH_IGNORE"); ok {
		cfg.Watch.Ignore = splitList(v)
	}
	if v, ok := os.LookupEnv(EnvPrefix + "SESSION_PATH"); ok {
		cfg.Session.Path = v
	}
	if err := boolFromEnv(EnvPrefix+"SESSION_AUTOSAVE", &cfg.Session.Autosave); err != nil {
		return err
	}
	return nil
}

// intFromEnv parses an integer override into dst when the variable is
// set.
func intFromEnv(name string, dst *int) error {
	v, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %q is not an integer", name, v)
	}
	*dst = n
	return nil
}

// boolFromEnv parses a boolean override into dst when the variable is
// set. Accepts the usual spellings: true/false, yes/no, on/off, 1/0.
func boolFromEnv(name string, dst *bool) error {
	v, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	switch strings.ToLower(v) {
	case "true", "yes", "on", "1":
		*dst = true
	case "false", "no", "off", "0":
		*dst = false
	default:
		return fmt.Errorf("%s: %q is not a boolean", name, v)
	}
	return nil
}

// splitList splits a comma-separated list, dropping empty entries.
func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
