package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/cochaviz/vmc/internal/backend"
	"github.com/cochaviz/vmc/internal/config"
)

// recorder is a backend that succeeds and remembers what it was asked.
type recorder struct {
	backend.Default

	sessions  []backend.Session
	calls     []string
	vm        backend.VM
	container backend.Container
	args      []string
	removable *string
}

func (r *recorder) record(call string, args ...string) {
	r.calls = append(r.calls, call)
	r.args = append(r.args, args...)
}

func (r *recorder) MetricsSendSample(_ context.Context, name string) error {
	r.record("MetricsSendSample", name)
	return nil
}

func (r *recorder) SessionsList(context.Context) ([]backend.Session, error) {
	r.record("SessionsList")
	return r.sessions, nil
}

func (r *recorder) VMStart(_ context.Context, vm backend.VM) error {
	r.record("VMStart")
	r.vm = vm
	return nil
}

func (r *recorder) VMExport(_ context.Context, vm backend.VM, name string, removable *string) error {
	r.record("VMExport", name)
	r.vm = vm
	r.removable = removable
	return nil
}

func (r *recorder) VMSharePath(_ context.Context, vm backend.VM, path string) (string, error) {
	r.record("VMSharePath", path)
	r.vm = vm
	return "/mnt/shared/" + path, nil
}

func (r *recorder) DiskList(_ context.Context, owner string) (backend.DiskList, error) {
	r.record("DiskList", owner)
	return backend.DiskList{Images: []string{"termina"}, TotalSize: 1024}, nil
}

func (r *recorder) ContainerCreate(_ context.Context, c backend.Container, server, alias string) error {
	r.record("ContainerCreate", server, alias)
	r.container = c
	return nil
}

func (r *recorder) ContainerSetupUser(_ context.Context, c backend.Container, username string) error {
	r.record("ContainerSetupUser", username)
	r.container = c
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func execute(t *testing.T, b backend.Backend, args ...string) (string, error) {
	t.Helper()

	var levelVar slog.LevelVar
	a := &app{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		levelVar: &levelVar,
		open: func(config.Config, *slog.Logger) (backend.Backend, io.Closer, error) {
			return b, nopCloser{}, nil
		},
	}

	var stdout, stderr bytes.Buffer
	root := a.rootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, args...))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestVMStartUsesOwnerFlag(t *testing.T) {
	t.Setenv(ownerEnv, "")

	r := &recorder{}
	if _, err := execute(t, r, "vm", "start", "--owner", "abc", "--vm", "work"); err != nil {
		t.Fatalf("vm start error = %v", err)
	}
	if want := (backend.VM{Name: "work", OwnerHash: "abc"}); r.vm != want {
		t.Fatalf("vm = %+v, want %+v", r.vm, want)
	}
	if want := []string{"MetricsSendSample", "VMStart"}; !reflect.DeepEqual(r.calls, want) {
		t.Fatalf("calls = %v, want %v", r.calls, want)
	}
}

func TestOwnerResolution(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		sessions []backend.Session
		want     string
		wantErr  string
	}{
		{name: "environment", env: "fromenv", want: "fromenv"},
		{name: "single session", sessions: []backend.Session{{Account: "a@example.com", OwnerHash: "aaa"}}, want: "aaa"},
		{name: "no session", wantErr: "no active user session"},
		{
			name: "several sessions",
			sessions: []backend.Session{
				{Account: "a@example.com", OwnerHash: "aaa"},
				{Account: "b@example.com", OwnerHash: "bbb"},
			},
			wantErr: "2 active user sessions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(ownerEnv, tt.env)

			r := &recorder{sessions: tt.sessions}
			_, err := execute(t, r, "vm", "start")
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("vm start error = %v", err)
			}
			if r.vm.OwnerHash != tt.want || r.vm.Name != defaultVM {
				t.Fatalf("vm = %+v, want owner %q", r.vm, tt.want)
			}
		})
	}
}

func TestVMExportRemovableFlag(t *testing.T) {
	t.Setenv(ownerEnv, "abc")

	r := &recorder{}
	if _, err := execute(t, r, "vm", "export", "backup"); err != nil {
		t.Fatalf("vm export error = %v", err)
	}
	if r.removable != nil {
		t.Fatalf("removable = %q, want nil without --removable", *r.removable)
	}

	r = &recorder{}
	if _, err := execute(t, r, "vm", "export", "backup", "--removable", "USB"); err != nil {
		t.Fatalf("vm export error = %v", err)
	}
	if r.removable == nil || *r.removable != "USB" {
		t.Fatalf("removable = %v, want USB", r.removable)
	}
}

func TestVMSharePrintsPath(t *testing.T) {
	t.Setenv(ownerEnv, "abc")

	out, err := execute(t, &recorder{}, "vm", "share", "photos")
	if err != nil {
		t.Fatalf("vm share error = %v", err)
	}
	if out != "/mnt/shared/photos\n" {
		t.Fatalf("output = %q", out)
	}
}

func TestContainerCommands(t *testing.T) {
	t.Setenv(ownerEnv, "abc")

	r := &recorder{}
	if _, err := execute(t, r, "container", "create", "--container", "box", "--image-alias", "debian/bookworm"); err != nil {
		t.Fatalf("container create error = %v", err)
	}
	want := backend.Container{VM: backend.VM{Name: defaultVM, OwnerHash: "abc"}, Name: "box"}
	if r.container != want {
		t.Fatalf("container = %+v, want %+v", r.container, want)
	}

	r = &recorder{}
	if _, err := execute(t, r, "container", "setup-user", "alice"); err != nil {
		t.Fatalf("container setup-user error = %v", err)
	}
	if r.container.Name != defaultContainer || r.args[len(r.args)-1] != "alice" {
		t.Fatalf("setup-user recorded container %+v args %v", r.container, r.args)
	}
}

func TestDiskListOutput(t *testing.T) {
	t.Setenv(ownerEnv, "abc")

	out, err := execute(t, &recorder{}, "disk", "list")
	if err != nil {
		t.Fatalf("disk list error = %v", err)
	}
	if out != "termina\ntotal size: 1024 bytes\n" {
		t.Fatalf("output = %q", out)
	}
}

func TestSessionsOutput(t *testing.T) {
	out, err := execute(t, &recorder{sessions: []backend.Session{{Account: "a@example.com", OwnerHash: "aaa"}}}, "sessions")
	if err != nil {
		t.Fatalf("sessions error = %v", err)
	}
	if out != "a@example.com\taaa\n" {
		t.Fatalf("output = %q", out)
	}
}

func TestUnimplementedBackendErrorsSurface(t *testing.T) {
	t.Setenv(ownerEnv, "abc")

	_, err := execute(t, backend.Unimplemented{}, "vm", "stop")
	var unimplemented *backend.UnimplementedError
	if !errors.As(err, &unimplemented) || unimplemented.Function != "VMStop" {
		t.Fatalf("vm stop error = %v, want *UnimplementedError for VMStop", err)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	if _, err := execute(t, &recorder{}, "--log-level", "loud", "sessions"); err == nil {
		t.Fatal("invalid log level accepted")
	}
}

func TestConfigCommandPrintsDefaults(t *testing.T) {
	out, err := execute(t, &recorder{}, "config")
	if err != nil {
		t.Fatalf("config error = %v", err)
	}
	for _, want := range []string{"export: 15m0s", "component: cros-termina", "shared_mount: /mnt/shared"} {
		if !strings.Contains(out, want) {
			t.Fatalf("config output missing %q:\n%s", want, out)
		}
	}
}
