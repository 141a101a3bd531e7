// Package lifecycle drives VMs, their disks and their containers by
// sequencing calls to the VM host services. Every operation is a fixed,
// non-retrying sequence; the first failing step aborts it and leaves remote
// state as that step left it.
package lifecycle

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cochaviz/vmc/internal/backend"
	"github.com/cochaviz/vmc/internal/bus"
	"github.com/cochaviz/vmc/internal/config"
	"github.com/cochaviz/vmc/internal/exportguard"
	"github.com/cochaviz/vmc/internal/logging"
)

type (
	VM        = backend.VM
	Container = backend.Container
	Session   = backend.Session
	DiskList  = backend.DiskList
)

var _ backend.Backend = (*Orchestrator)(nil)

// Orchestrator implements backend.Backend on top of the system bus services.
// It holds one connection for its lifetime and runs one operation at a time;
// callers sharing it across goroutines must serialise their calls.
type Orchestrator struct {
	channel *bus.Channel
	waiter  *bus.Waiter
	config  config.Config
	logger  *slog.Logger

	// FreeSpace reports the bytes available on the filesystem holding path.
	// It defaults to StatfsFreeSpace.
	FreeSpace func(path string) (uint64, error)
}

// New returns an Orchestrator issuing every call over conn.
func New(conn bus.Conn, cfg config.Config, logger *slog.Logger) *Orchestrator {
	logger = logging.Ensure(logger)
	busLogger := logger.With("component", "bus")
	return &Orchestrator{
		channel:   &bus.Channel{Conn: conn, Logger: busLogger},
		waiter:    &bus.Waiter{Conn: conn, Logger: busLogger},
		config:    cfg,
		logger:    logger.With("component", "lifecycle"),
		FreeSpace: StatfsFreeSpace,
	}
}

func (o *Orchestrator) Name() string {
	return "ChromeOS"
}

// run executes one public operation, logging its start and end under a
// fresh operation id and wrapping any failure in *OpError.
func (o *Orchestrator) run(ctx context.Context, op, vm, container string, fn func(ctx context.Context, logger *slog.Logger) error) error {
	attrs := []any{"op", op, "op_id", uuid.NewString()}
	if vm != "" {
		attrs = append(attrs, "vm", vm)
	}
	if container != "" {
		attrs = append(attrs, "container", container)
	}
	logger := o.logger.With(attrs...)

	started := time.Now()
	logger.Debug("operation started")
	if err := fn(ctx, logger); err != nil {
		logger.Debug("operation failed", "elapsed", time.Since(started), "error", err)
		return &OpError{Op: op, VM: vm, Container: container, Err: err}
	}
	logger.Info("operation completed", "elapsed", time.Since(started))
	return nil
}

// ensureService mounts the VM component and asks debugd to start the VM
// management service. Both steps are idempotent on the service side.
func (o *Orchestrator) ensureService(ctx context.Context, logger *slog.Logger) error {
	component := o.config.Component

	body, err := o.channel.CallArgs(ctx, componentUpdater, methodLoadComponent, o.config.Timeouts.Component, component)
	if err != nil {
		return err
	}
	mount, _ := firstArg[string](body)
	if mount == "" {
		return &ServiceStartError{
			Step:   "load component " + component,
			Reason: "component updater returned no mount point",
		}
	}
	logger.Debug("component loaded", "component", component, "mount", mount)

	body, err = o.channel.CallArgs(ctx, debugd, methodStartVmConcierge, o.config.Timeouts.ServiceStart)
	if err != nil {
		return err
	}
	if started, _ := firstArg[bool](body); !started {
		return &ServiceStartError{
			Step:   "start concierge",
			Reason: "debugd did not report success",
		}
	}
	return nil
}

func (o *Orchestrator) exportRoots() exportguard.Roots {
	return exportguard.Roots{
		RemovableMedia: o.config.Roots.RemovableMedia,
		UserHome:       o.config.Roots.UserHome,
	}
}

func (o *Orchestrator) freeSpace(path string) (uint64, error) {
	if o.FreeSpace != nil {
		return o.FreeSpace(path)
	}
	return StatfsFreeSpace(path)
}

func firstArg[T any](body []any) (T, bool) {
	var zero T
	if len(body) == 0 {
		return zero, false
	}
	v, ok := body[0].(T)
	return v, ok
}
