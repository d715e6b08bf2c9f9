// Package tree holds the pre-extracted dependency tree a load order is computed from.
package tree

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lddtopo/internal/shared/util"

	"gopkg.in/yaml.v3"
)

// Library is one transitively discovered shared object.
type Library struct {
	Name         string   `json:"name,omitempty" yaml:"name,omitempty"`
	Needed       []string `json:"needed" yaml:"needed"`
	ResolvedPath *string  `json:"resolved_path" yaml:"resolved_path"`
}

// DependencyTree never contains the library under analysis in Libraries.
type DependencyTree struct {
	MainNeeded []string           `json:"main_needed" yaml:"main_needed"`
	Libraries  map[string]Library `json:"libraries" yaml:"libraries"`
}

// Main identifies the library under analysis.
type Main struct {
	Name string
	Path string
}

// MainIdentity derives the main library's name from its file name.
func MainIdentity(path string) Main {
	return Main{Name: filepath.Base(path), Path: path}
}

// Path returns the resolved path or "" when the library was never resolved.
func (l Library) Path() string {
	if l.ResolvedPath == nil {
		return ""
	}
	return *l.ResolvedPath
}

func StringPtr(s string) *string {
	return &s
}

// Load decodes a tree document; .yaml/.yml files are YAML, everything else JSON.
func Load(path string) (*DependencyTree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var t DependencyTree
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("decode yaml tree %q: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("decode json tree %q: %w", path, err)
		}
	}

	t.normalize()
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tree %q: %w", path, err)
	}
	return &t, nil
}

func (t *DependencyTree) normalize() {
	if t.MainNeeded == nil {
		t.MainNeeded = []string{}
	}
	if t.Libraries == nil {
		t.Libraries = make(map[string]Library)
	}
	for name, lib := range t.Libraries {
		if lib.Name == "" {
			lib.Name = name
			t.Libraries[name] = lib
		}
	}
}

// Validate rejects documents the builder cannot key on.
func (t *DependencyTree) Validate() error {
	for _, name := range t.MainNeeded {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("main_needed contains an empty library name")
		}
	}
	for key, lib := range t.Libraries {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("libraries contains an empty key")
		}
		if lib.Name != "" && lib.Name != key {
			return fmt.Errorf("library key %q does not match name %q", key, lib.Name)
		}
		for _, needed := range lib.Needed {
			if strings.TrimSpace(needed) == "" {
				return fmt.Errorf("library %q needs an empty library name", key)
			}
		}
	}
	return nil
}

// Names returns the library keys in lexical order.
func (t *DependencyTree) Names() []string {
	return util.SortedStringKeys(t.Libraries)
}
