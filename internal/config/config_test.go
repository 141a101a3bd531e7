package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != Default() {
		t.Fatalf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
timeouts:
  export: 30m
roots:
  removable_media: /media/external
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Timeouts.Export != 30*time.Minute {
		t.Fatalf("export timeout = %s, want 30m", cfg.Timeouts.Export)
	}
	if cfg.Roots.RemovableMedia != "/media/external" {
		t.Fatalf("removable media = %q", cfg.Roots.RemovableMedia)
	}
	if cfg.Timeouts.Default != 80*time.Second || cfg.Roots.SharedMount != "/mnt/shared" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != Default() {
		t.Fatalf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "timeout:\n  default: 1s\n", "timeout"},
		{"negative timeout", "timeouts:\n  default: -1s\n", "timeouts.default"},
		{"relative root", "roots:\n  shared_mount: mnt/shared\n", "roots.shared_mount"},
		{"empty component", "component: \"\"\n", "component"},
		{"malformed duration", "timeouts:\n  export: soon\n", "soon"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("Load() error = nil, want non-nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestMarshalRoundTripsThroughLoad(t *testing.T) {
	t.Parallel()

	want := Default()
	want.Timeouts.Default = 5 * time.Second

	data, err := want.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	got, err := Load(writeConfig(t, string(data)))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Fatalf("Load(Marshal()) = %+v, want %+v", got, want)
	}
}
