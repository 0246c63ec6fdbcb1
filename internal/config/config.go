// Package config reads dispatch.yaml, which tells dispatchgen which types of
// a package to bind and how.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultOutput is the file written next to the package when the config
// names none.
const DefaultOutput = "zz_dispatch.go"

// Config is the top-level dispatch.yaml document.
type Config struct {
	// Output is the generated file name, relative to the package directory.
	Output string `yaml:"output,omitempty"`

	// Types lists the types to register.
	Types []TypeSpec `yaml:"types"`
}

// TypeSpec describes one type to register.
type TypeSpec struct {
	// Type is the Go type name in the package (e.g. "Account").
	Type string `yaml:"type"`

	// Name overrides the registry name. Defaults to the package-qualified
	// Go name, e.g. "bank.Account".
	Name string `yaml:"name,omitempty"`

	// Constructors lists constructor functions explicitly. When empty,
	// functions named New<Type>, New<Type>__N and new<Type> are used.
	Constructors []string `yaml:"constructors,omitempty"`

	// Methods is an optional whitelist of method names, compared after
	// overload suffixes are stripped.
	Methods []string `yaml:"methods,omitempty"`

	// ExcludeMethods is an optional blacklist of method names.
	ExcludeMethods []string `yaml:"exclude_methods,omitempty"`

	// Unexported includes unexported methods.
	Unexported bool `yaml:"unexported,omitempty"`
}

// Load reads and parses a dispatch.yaml file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses dispatch.yaml content. path is only used in error messages.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// Find looks for dispatch.yaml or dispatch.yml in dir and its parents. It
// returns an empty path and no error when there is none.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range []string{"dispatch.yaml", "dispatch.yml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Type returns the spec of the Go type name, if configured.
func (c *Config) Type(name string) (TypeSpec, bool) {
	for _, spec := range c.Types {
		if spec.Type == name {
			return spec, true
		}
	}
	return TypeSpec{}, false
}

func (c *Config) validate(path string) error {
	if len(c.Types) == 0 {
		return fmt.Errorf("%s: no types defined", path)
	}
	if c.Output != "" && filepath.Base(c.Output) != c.Output {
		return fmt.Errorf("%s: output %q must be a file name in the package directory", path, c.Output)
	}

	seenTypes := make(map[string]bool)
	seenNames := make(map[string]string)
	for i, spec := range c.Types {
		if spec.Type == "" {
			return fmt.Errorf("%s: types[%d]: type is required", path, i)
		}
		if seenTypes[spec.Type] {
			return fmt.Errorf("%s: types[%d]: type %s is listed twice", path, i, spec.Type)
		}
		seenTypes[spec.Type] = true

		if spec.Name != "" {
			if other, dup := seenNames[spec.Name]; dup {
				return fmt.Errorf("%s: types[%d] (%s): name %q is already used by %s", path, i, spec.Type, spec.Name, other)
			}
			seenNames[spec.Name] = spec.Type
		}

		excluded := make(map[string]bool, len(spec.ExcludeMethods))
		for _, m := range spec.ExcludeMethods {
			excluded[m] = true
		}
		for _, m := range spec.Methods {
			if excluded[m] {
				return fmt.Errorf("%s: types[%d] (%s): method %s is both listed and excluded", path, i, spec.Type, m)
			}
		}
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Output == "" {
		c.Output = DefaultOutput
	}
}

// Includes reports whether the method group name passes the whitelist and
// blacklist of s. Unexported names additionally require Unexported.
func (s TypeSpec) Includes(name string, exported bool) bool {
	if !exported && !s.Unexported {
		return false
	}
	for _, m := range s.ExcludeMethods {
		if m == name {
			return false
		}
	}
	if len(s.Methods) == 0 {
		return true
	}
	for _, m := range s.Methods {
		if m == name {
			return true
		}
	}
	return false
}
