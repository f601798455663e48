package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/symforge/symforge/internal/constants"
)

// Metadata is the reserved metadata table read from crate and workspace
// manifests ([package.metadata.symforge] / [workspace.metadata.symforge]).
type Metadata struct {
	// Prefix feeds the package or workspace source of the priority chain.
	Prefix string `toml:"prefix"`

	// PreferPackagePrefix opts this crate out of inheriting a parent's
	// prefix; the package source then wins immediately when present.
	PreferPackagePrefix bool `toml:"prefer_package_prefix"`
}

// Manifest is the subset of a crate manifest this tool consults.
type Manifest struct {
	// Name is the declared package name, empty for pure workspace manifests.
	Name string

	// Package holds the package-level metadata table, if any.
	Package *Metadata

	// Workspace holds the workspace-level metadata table, if any.
	Workspace *Metadata

	// HasWorkspace reports whether the manifest declares a [workspace] table.
	HasWorkspace bool
}

type manifestDoc struct {
	Package *struct {
		Name     string        `toml:"name"`
		Metadata metadataTable `toml:"metadata"`
	} `toml:"package"`
	Workspace *struct {
		Metadata metadataTable `toml:"metadata"`
	} `toml:"workspace"`
}

type metadataTable struct {
	Symforge *Metadata `toml:"symforge"`
}

// LoadManifest parses the manifest at path. Manifests that fail to parse
// are treated like manifests with no metadata: the aggregator reports the
// source as absent rather than failing the crate.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc manifestDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	m := &Manifest{}
	if doc.Package != nil {
		m.Name = doc.Package.Name
		m.Package = doc.Package.Metadata.Symforge
	}
	if doc.Workspace != nil {
		m.HasWorkspace = true
		m.Workspace = doc.Workspace.Metadata.Symforge
	}
	return m, nil
}

// PackageMeta reads the package-level metadata table from the manifest in
// dir. Returns nil when the manifest or table is absent or unparseable.
func PackageMeta(dir string) *Metadata {
	if dir == "" {
		return nil
	}
	m, err := LoadManifest(filepath.Join(dir, constants.ManifestFileName))
	if err != nil {
		return nil
	}
	return m.Package
}

// WorkspaceMeta walks from dir toward the filesystem root looking for a
// manifest that declares a [workspace] table carrying the reserved metadata
// namespace. Only works for crates located under their consuming workspace.
func WorkspaceMeta(dir string) *Metadata {
	if dir == "" {
		return nil
	}
	cur := filepath.Clean(dir)
	for {
		m, err := LoadManifest(filepath.Join(cur, constants.ManifestFileName))
		if err == nil && m.HasWorkspace && m.Workspace != nil {
			return m.Workspace
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return nil
		}
		cur = parent
	}
}
