package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ParseError describes a configuration file that could not be parsed.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load reads the TOML file at path over the defaults. A missing file
// is not an error; the defaults are returned as-is. Unknown keys are
// rejected, so typos never silently configure nothing.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := parse(path, data, &cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Parse decodes TOML data over the defaults, for callers that already
// hold the bytes.
func Parse(source string, data []byte) (Config, error) {
	cfg := Default()
	if err := parse(source, data, &cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// parse strictly decodes data into cfg, translating decoder errors
// into ParseError with position information when available.
func parse(source string, data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	err := dec.Decode(cfg)
	if err == nil {
		return nil
	}

	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		line, col := derr.Position()
		return &ParseError{
			Path:    source,
			Line:    line,
			Column:  col,
			Message: derr.Error(),
			Err:     err,
		}
	}

	var serr *toml.StrictMissingError
	if errors.As(err, &serr) {
		return &ParseError{
			Path:    source,
			Message: "unknown configuration keys: " + serr.String(),
			Err:     err,
		}
	}

	return &ParseError{
		Path:    source,
		Message: err.Error(),
		Err:     err,
	}
}
