package script

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest describes a set of scripts a shell may offer to run.
type Manifest struct {
	Name    string  `yaml:"name"`
	Scripts []Entry `yaml:"scripts"`
}

// Entry is one script in a manifest.
type Entry struct {
	Name        string `yaml:"name"`
	Path        string `yaml:"path"`
	Description string `yaml:"description"`
}

// LoadManifest reads and validates a YAML script manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}

	seen := make(map[string]bool, len(m.Scripts))
	for i, s := range m.Scripts {
		if s.Name == "" {
			return nil, fmt.Errorf("manifest %s: script %d has no name", path, i)
		}
		if s.Path == "" {
			return nil, fmt.Errorf("manifest %s: script %q has no path", path, s.Name)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("manifest %s: duplicate script name %q", path, s.Name)
		}
		seen[s.Name] = true
	}
	return &m, nil
}

// Find returns the entry with the given name.
func (m *Manifest) Find(name string) (Entry, bool) {
	for _, s := range m.Scripts {
		if s.Name == name {
			return s, true
		}
	}
	return Entry{}, false
}
