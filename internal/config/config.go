// Package config loads the client's timeouts and filesystem roots.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given. A missing file is not
// an error.
const DefaultPath = "/etc/vmc/config.yaml"

// Timeouts bound each kind of bus interaction.
type Timeouts struct {
	Default      time.Duration `yaml:"default"`
	Export       time.Duration `yaml:"export"`
	Component    time.Duration `yaml:"component"`
	ServiceStart time.Duration `yaml:"service_start"`
}

// Roots are the filesystem locations the client reads or reports.
type Roots struct {
	// Cryptohome is the filesystem whose free space sizes new disk images.
	Cryptohome string `yaml:"cryptohome"`
	// UserHome holds {hash}/Downloads for default exports.
	UserHome string `yaml:"user_home"`
	// RemovableMedia holds mounted external drives.
	RemovableMedia string `yaml:"removable_media"`
	// SharedMount prefixes paths shared into the VM.
	SharedMount string `yaml:"shared_mount"`
}

type Config struct {
	Timeouts  Timeouts `yaml:"timeouts"`
	Roots     Roots    `yaml:"roots"`
	Component string   `yaml:"component"`
}

func Default() Config {
	return Config{
		Timeouts: Timeouts{
			Default:      80 * time.Second,
			Export:       15 * time.Minute,
			Component:    2 * time.Minute,
			ServiceStart: 30 * time.Second,
		},
		Roots: Roots{
			Cryptohome:     "/home",
			UserHome:       "/home/user",
			RemovableMedia: "/media/removable",
			SharedMount:    "/mnt/shared",
		},
		Component: "cros-termina",
	}
}

// Load reads path over the defaults. Keys absent from the file keep their
// default value; unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	if err := Decode(f, &cfg); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML from r into cfg and validates the result.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error

	timeouts := map[string]time.Duration{
		"timeouts.default":       c.Timeouts.Default,
		"timeouts.export":        c.Timeouts.Export,
		"timeouts.component":     c.Timeouts.Component,
		"timeouts.service_start": c.Timeouts.ServiceStart,
	}
	for _, key := range []string{"timeouts.default", "timeouts.export", "timeouts.component", "timeouts.service_start"} {
		if timeouts[key] <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", key, timeouts[key]))
		}
	}

	roots := []struct {
		key, value string
	}{
		{"roots.cryptohome", c.Roots.Cryptohome},
		{"roots.user_home", c.Roots.UserHome},
		{"roots.removable_media", c.Roots.RemovableMedia},
		{"roots.shared_mount", c.Roots.SharedMount},
	}
	for _, root := range roots {
		if !filepath.IsAbs(root.value) {
			errs = append(errs, fmt.Errorf("%s must be an absolute path, got %q", root.key, root.value))
		}
	}

	if c.Component == "" {
		errs = append(errs, errors.New("component must not be empty"))
	}
	return errors.Join(errs...)
}

// Marshal renders c as YAML, for `vmc config`.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
