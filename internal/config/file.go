package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// File is the shared TOML config document pointed at by SYMFORGE_CONFIG.
type File struct {
	// Prefix feeds the config source of the priority chain.
	Prefix string `toml:"prefix"`

	// Sep overrides the symbol separator.
	Sep string `toml:"sep"`

	// Priority is an ordered list of source tags.
	Priority []string `toml:"priority"`

	// Overrides maps crate names to explicit prefixes. An override always
	// wins over the priority chain for that crate.
	Overrides map[string]string `toml:"overrides"`
}

// LoadFile parses the TOML config document at path. A missing or unreadable
// file is not a hard error here (the require-config flag decides that); a
// document that exists but does not parse always is.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("malformed config document %s: %w", path, err)
	}
	return &f, nil
}

// LoadConfigFile loads the config document named by the snapshot.
// The boolean reports whether the config source was reachable: false when
// no path is set or the file cannot be read. A reachable but malformed
// document returns an error.
func (s *Snapshot) LoadConfigFile() (*File, bool, error) {
	if s.ConfigPath == "" {
		return nil, false, nil
	}
	data, err := os.ReadFile(s.ConfigPath)
	if err != nil {
		return nil, false, nil
	}
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		// Readable but not parseable: hard configuration error.
		return nil, true, fmt.Errorf("malformed config document %s: %w", s.ConfigPath, err)
	}
	return &f, true, nil
}
