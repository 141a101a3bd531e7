package lifecycle

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cochaviz/vmc/internal/bus"
	"github.com/cochaviz/vmc/internal/wire"
)

// replyThenSignal answers method with resp and emits the payloads on signal
// as the service would once the work it started finishes.
func (h *harness) replyThenSignal(method string, resp wire.Message, signal string, payloads ...wire.Message) {
	h.conn.Handle(cicerone, method, func(context.Context, []any) ([]any, error) {
		for _, payload := range payloads {
			h.conn.Emit(cicerone.Interface, signal, payload)
		}
		return []any{resp.Marshal()}, nil
	})
}

func createdSignal(c Container, s wire.LxdContainerCreatedStatus, reason string) *wire.LxdContainerCreatedSignal {
	return &wire.LxdContainerCreatedSignal{
		VmName:        c.VM.Name,
		ContainerName: c.Name,
		OwnerID:       c.VM.OwnerHash,
		Status:        s,
		FailureReason: reason,
	}
}

func startedSignal(c Container) *wire.ContainerStartedSignal {
	return &wire.ContainerStartedSignal{VmName: c.VM.Name, ContainerName: c.Name, OwnerID: c.VM.OwnerHash}
}

func (h *harness) assertNoWait(t *testing.T) {
	t.Helper()
	if n := h.conn.MatchAdds(); n != 0 {
		t.Fatalf("signal matches added = %d, want none", n)
	}
}

func (h *harness) assertWaitCleanedUp(t *testing.T) {
	t.Helper()
	if n := h.conn.MatchAdds(); n != 1 {
		t.Fatalf("signal matches added = %d, want 1", n)
	}
	if n := h.conn.ActiveMatches(); n != 0 {
		t.Fatalf("signal matches left registered = %d", n)
	}
}

func TestContainerCreateExistsDoesNotWait(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.conn.ReplyMessage(cicerone, methodCreateLxdContainer, &wire.CreateLxdContainerResponse{Status: wire.CreateContainerExists})

	if err := h.orchestrator.ContainerCreate(context.Background(), testContainer, "https://images.example.com", "debian/stretch"); err != nil {
		t.Fatalf("ContainerCreate() error = %v", err)
	}
	h.assertNoWait(t)

	var req wire.CreateLxdContainerRequest
	h.payload(t, methodCreateLxdContainer, &req)
	want := wire.CreateLxdContainerRequest{
		VmName:        testVM.Name,
		ContainerName: testContainer.Name,
		OwnerID:       testVM.OwnerHash,
		ImageServer:   "https://images.example.com",
		ImageAlias:    "debian/stretch",
	}
	if req != want {
		t.Fatalf("CreateLxdContainer request = %+v, want %+v", req, want)
	}
}

func TestContainerCreateWaitsForSignal(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.replyThenSignal(methodCreateLxdContainer,
		&wire.CreateLxdContainerResponse{Status: wire.CreateContainerCreating},
		signalLxdContainerCreated,
		createdSignal(testContainer, wire.ContainerCreatedCreated, ""),
	)

	if err := h.orchestrator.ContainerCreate(context.Background(), testContainer, "", ""); err != nil {
		t.Fatalf("ContainerCreate() error = %v", err)
	}
	h.assertWaitCleanedUp(t)
}

func TestContainerCreateSignalFailure(t *testing.T) {
	t.Parallel()

	for _, s := range []wire.LxdContainerCreatedStatus{
		wire.ContainerCreatedFailed,
		wire.ContainerCreatedDownloadTimedOut,
		wire.ContainerCreatedCancelled,
		wire.ContainerCreatedUnknown,
	} {
		h := newHarness(t)
		h.replyThenSignal(methodCreateLxdContainer,
			&wire.CreateLxdContainerResponse{Status: wire.CreateContainerCreating},
			signalLxdContainerCreated,
			createdSignal(testContainer, s, "image download failed"),
		)

		err := h.orchestrator.ContainerCreate(context.Background(), testContainer, "", "")
		wantStatusError(t, err, int32(s), "image download failed")
		if !strings.Contains(err.Error(), "termina/penguin") {
			t.Fatalf("Error() = %q does not name the container", err)
		}
		h.assertWaitCleanedUp(t)
	}
}

func TestContainerCreateImmediateFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.conn.ReplyMessage(cicerone, methodCreateLxdContainer, &wire.CreateLxdContainerResponse{
		Status:        wire.CreateContainerFailed,
		FailureReason: "vm is not running",
	})

	err := h.orchestrator.ContainerCreate(context.Background(), testContainer, "", "")
	wantStatusError(t, err, int32(wire.CreateContainerFailed), "vm is not running")
	h.assertNoWait(t)
}

func TestContainerCreateSignalTimeout(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.conn.ReplyMessage(cicerone, methodCreateLxdContainer, &wire.CreateLxdContainerResponse{Status: wire.CreateContainerCreating})

	err := h.orchestrator.ContainerCreate(context.Background(), testContainer, "", "")
	var timeoutErr *bus.TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("ContainerCreate() error = %T %v, want *bus.TimeoutError", err, err)
	}
	h.assertWaitCleanedUp(t)
}

func TestContainerWaitsSkipOtherContainers(t *testing.T) {
	t.Parallel()

	others := []Container{
		{VM: testVM, Name: "other"},
		{VM: VM{Name: "borealis", OwnerHash: testVM.OwnerHash}, Name: testContainer.Name},
		{VM: VM{Name: testVM.Name, OwnerHash: "ffff0000"}, Name: testContainer.Name},
	}

	t.Run("create settles on its own signal", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		var payloads []wire.Message
		for _, other := range others {
			payloads = append(payloads, createdSignal(other, wire.ContainerCreatedFailed, "not this one"))
		}
		payloads = append(payloads, createdSignal(testContainer, wire.ContainerCreatedCreated, ""))
		h.replyThenSignal(methodCreateLxdContainer,
			&wire.CreateLxdContainerResponse{Status: wire.CreateContainerCreating},
			signalLxdContainerCreated,
			payloads...,
		)

		if err := h.orchestrator.ContainerCreate(context.Background(), testContainer, "", ""); err != nil {
			t.Fatalf("ContainerCreate() error = %v", err)
		}
		h.assertWaitCleanedUp(t)
	})

	t.Run("create times out on foreign signals only", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		h.replyThenSignal(methodCreateLxdContainer,
			&wire.CreateLxdContainerResponse{Status: wire.CreateContainerCreating},
			signalLxdContainerCreated,
			createdSignal(others[0], wire.ContainerCreatedCreated, ""),
		)

		err := h.orchestrator.ContainerCreate(context.Background(), testContainer, "", "")
		var timeoutErr *bus.TimeoutError
		if !errors.As(err, &timeoutErr) {
			t.Fatalf("ContainerCreate() error = %T %v, want *bus.TimeoutError", err, err)
		}
		h.assertWaitCleanedUp(t)
	})

	t.Run("start times out on foreign signals only", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		var payloads []wire.Message
		for _, other := range others {
			payloads = append(payloads, startedSignal(other))
		}
		h.replyThenSignal(methodStartLxdContainer,
			&wire.StartLxdContainerResponse{Status: wire.StartContainerStarted},
			signalContainerStarted,
			payloads...,
		)

		err := h.orchestrator.ContainerStart(context.Background(), testContainer)
		var timeoutErr *bus.TimeoutError
		if !errors.As(err, &timeoutErr) {
			t.Fatalf("ContainerStart() error = %T %v, want *bus.TimeoutError", err, err)
		}
		h.assertWaitCleanedUp(t)
	})
}

func TestContainerStart(t *testing.T) {
	t.Parallel()

	t.Run("running does not wait", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		h.conn.ReplyMessage(cicerone, methodStartLxdContainer, &wire.StartLxdContainerResponse{Status: wire.StartContainerRunning})
		if err := h.orchestrator.ContainerStart(context.Background(), testContainer); err != nil {
			t.Fatalf("ContainerStart() error = %v", err)
		}
		h.assertNoWait(t)
	})

	t.Run("started waits for signal arrival", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		h.replyThenSignal(methodStartLxdContainer,
			&wire.StartLxdContainerResponse{Status: wire.StartContainerStarted},
			signalContainerStarted,
			startedSignal(testContainer),
		)
		if err := h.orchestrator.ContainerStart(context.Background(), testContainer); err != nil {
			t.Fatalf("ContainerStart() error = %v", err)
		}
		h.assertWaitCleanedUp(t)

		var req wire.StartLxdContainerRequest
		h.payload(t, methodStartLxdContainer, &req)
		if req.VmName != testVM.Name || req.ContainerName != testContainer.Name || req.OwnerID != testVM.OwnerHash {
			t.Fatalf("StartLxdContainer request = %+v", req)
		}
	})

	t.Run("failed status", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		h.conn.ReplyMessage(cicerone, methodStartLxdContainer, &wire.StartLxdContainerResponse{
			Status:        wire.StartContainerFailed,
			FailureReason: "no such container",
		})
		err := h.orchestrator.ContainerStart(context.Background(), testContainer)
		wantStatusError(t, err, int32(wire.StartContainerFailed), "no such container")
		h.assertNoWait(t)
	})

	t.Run("signal never arrives", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		h.conn.ReplyMessage(cicerone, methodStartLxdContainer, &wire.StartLxdContainerResponse{Status: wire.StartContainerStarted})
		err := h.orchestrator.ContainerStart(context.Background(), testContainer)
		var timeoutErr *bus.TimeoutError
		if !errors.As(err, &timeoutErr) {
			t.Fatalf("ContainerStart() error = %T %v, want *bus.TimeoutError", err, err)
		}
		h.assertWaitCleanedUp(t)
	})
}

func TestContainerSetupUser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status  wire.SetUpLxdContainerUserStatus
		wantErr bool
	}{
		{wire.SetUpUserSuccess, false},
		{wire.SetUpUserExists, false},
		{wire.SetUpUserFailed, true},
		{wire.SetUpUserUnknown, true},
	}

	for _, tt := range tests {
		h := newHarness(t)
		h.conn.ReplyMessage(cicerone, methodSetUpLxdContainerUser, &wire.SetUpLxdContainerUserResponse{
			Status:        tt.status,
			FailureReason: "useradd failed",
		})

		err := h.orchestrator.ContainerSetupUser(context.Background(), testContainer, "alice")
		if tt.wantErr {
			wantStatusError(t, err, int32(tt.status), "useradd failed")
			continue
		}
		if err != nil {
			t.Fatalf("ContainerSetupUser() with %s error = %v", tt.status, err)
		}

		var req wire.SetUpLxdContainerUserRequest
		h.payload(t, methodSetUpLxdContainerUser, &req)
		if req.ContainerUsername != "alice" || req.ContainerName != testContainer.Name {
			t.Fatalf("SetUpLxdContainerUser request = %+v", req)
		}
	}
}

func TestContainerOperationsAreRepeatable(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.replyThenSignal(methodCreateLxdContainer,
		&wire.CreateLxdContainerResponse{Status: wire.CreateContainerCreating},
		signalLxdContainerCreated,
		createdSignal(testContainer, wire.ContainerCreatedCreated, ""),
	)

	for i := 0; i < 3; i++ {
		if err := h.orchestrator.ContainerCreate(context.Background(), testContainer, "", ""); err != nil {
			t.Fatalf("ContainerCreate() #%d error = %v", i, err)
		}
	}
	if got := h.conn.PeakMatches(); got != 1 {
		t.Fatalf("peak signal matches = %d, want 1", got)
	}
	if got := h.conn.ActiveMatches(); got != 0 {
		t.Fatalf("signal matches left registered = %d", got)
	}
}
