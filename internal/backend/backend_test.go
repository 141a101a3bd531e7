package backend

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// calls invokes every operation of b with zero arguments and returns the
// errors keyed by operation name.
func calls(b Backend) map[string]error {
	ctx := context.Background()
	errs := map[string]error{}

	errs["MetricsSendSample"] = b.MetricsSendSample(ctx, "")
	_, errs["SessionsList"] = b.SessionsList(ctx)
	errs["VMStart"] = b.VMStart(ctx, VM{})
	errs["VMStop"] = b.VMStop(ctx, VM{})
	errs["VMExport"] = b.VMExport(ctx, VM{}, "", nil)
	_, errs["VMSharePath"] = b.VMSharePath(ctx, VM{}, "")
	errs["DiskDestroy"] = b.DiskDestroy(ctx, VM{})
	_, errs["DiskList"] = b.DiskList(ctx, "")
	errs["ContainerCreate"] = b.ContainerCreate(ctx, Container{}, "", "")
	errs["ContainerStart"] = b.ContainerStart(ctx, Container{})
	errs["ContainerSetupUser"] = b.ContainerSetupUser(ctx, Container{}, "")
	return errs
}

func TestUnimplementedFailsEveryOperation(t *testing.T) {
	t.Parallel()

	for function, err := range calls(Unimplemented{}) {
		var unimplemented *UnimplementedError
		if !errors.As(err, &unimplemented) {
			t.Fatalf("%s error = %v, want *UnimplementedError", function, err)
		}
		if unimplemented.Function != function || unimplemented.Backend != "Dummy Unimplemented" {
			t.Fatalf("%s error = %+v", function, unimplemented)
		}
		if !strings.Contains(err.Error(), function) {
			t.Fatalf("%s error message %q does not name the operation", function, err)
		}
	}
}

func TestDefaultSucceedsEveryOperation(t *testing.T) {
	t.Parallel()

	for function, err := range calls(Default{}) {
		if err != nil {
			t.Fatalf("%s error = %v, want nil", function, err)
		}
	}
}

func TestIdentityStrings(t *testing.T) {
	t.Parallel()

	c := Container{VM: VM{Name: "termina", OwnerHash: "abc"}, Name: "penguin"}
	if got := c.String(); got != "termina/penguin" {
		t.Fatalf("Container.String() = %q", got)
	}
	if got := c.VM.String(); got != "termina" {
		t.Fatalf("VM.String() = %q", got)
	}
}
