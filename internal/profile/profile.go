/*
 * Profile - named driver credentials stored in a YAML file.
 *
 * Copyright 2026 Marco Confalonieri.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package profile stores the credentials of the drivers under a name, so
// that the command line tool can switch between accounts.
package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.yaml.in/yaml/v3"
)

// EnvPath is the environment variable overriding the default file path.
const EnvPath = "NODECTL_CONFIG"

// ErrNoProfile is returned when no profile is selected.
var ErrNoProfile = errors.New("no profile selected")

// Compute contains the settings of a node driver.
type Compute struct {
	Driver   string `yaml:"driver"`
	APIKey   string `yaml:"apiKey"`
	Endpoint string `yaml:"endpoint,omitempty"`
}

// DNS contains the settings of the CloudFlare driver.
type DNS struct {
	Email    string `yaml:"email"`
	APIKey   string `yaml:"apiKey"`
	Endpoint string `yaml:"endpoint,omitempty"`
}

// Profile groups the settings used by a command.
type Profile struct {
	Compute *Compute `yaml:"compute,omitempty"`
	DNS     *DNS     `yaml:"dns,omitempty"`
}

// File is the content of the profiles file.
type File struct {
	Current  string             `yaml:"current,omitempty"`
	Profiles map[string]Profile `yaml:"profiles"`
}

// DefaultPath returns the path of the profiles file.
func DefaultPath() string {
	if path := os.Getenv(EnvPath); path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "nodectl", "profiles.yaml")
}

// Load reads the profiles file. A missing file yields an empty set. Keys are
// kept as written, so that saving the file preserves references to
// environment variables.
func Load(path string) (*File, error) {
	f := &File{Profiles: map[string]Profile{}}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading profiles file: %w", err)
	}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parsing profiles file: %w", err)
	}
	if f.Profiles == nil {
		f.Profiles = map[string]Profile{}
	}
	return f, nil
}

// Resolved returns a copy of p with the environment variables referenced by
// the keys expanded.
func (p Profile) Resolved() Profile {
	var r Profile
	if p.Compute != nil {
		c := *p.Compute
		c.APIKey = os.ExpandEnv(c.APIKey)
		r.Compute = &c
	}
	if p.DNS != nil {
		d := *p.DNS
		d.APIKey = os.ExpandEnv(d.APIKey)
		r.DNS = &d
	}
	return r
}

// Save writes the profiles file, creating its directory.
func (f *File) Save(path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding profiles: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating profiles directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing profiles file: %w", err)
	}
	return nil
}

// Get returns the named profile, or the current one when name is empty, with
// its keys resolved.
func (f *File) Get(name string) (Profile, error) {
	if name == "" {
		name = f.Current
	}
	if name == "" {
		return Profile{}, ErrNoProfile
	}
	p, ok := f.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile '%s' does not exist", name)
	}
	return p.Resolved(), nil
}

// Use makes the named profile the current one.
func (f *File) Use(name string) error {
	if _, ok := f.Profiles[name]; !ok {
		return fmt.Errorf("profile '%s' does not exist", name)
	}
	f.Current = name
	return nil
}

// Names returns the sorted profile names.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Profiles))
	for name := range f.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
