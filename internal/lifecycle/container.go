package lifecycle

import (
	"context"
	"log/slog"

	"github.com/cochaviz/vmc/internal/status"
	"github.com/cochaviz/vmc/internal/wire"
)

// ContainerCreate creates container c from imageAlias on imageServer. If the
// service starts a download, it blocks until the service reports the result.
func (o *Orchestrator) ContainerCreate(ctx context.Context, c Container, imageServer, imageAlias string) error {
	return o.run(ctx, "container create", c.VM.Name, c.Name, func(ctx context.Context, logger *slog.Logger) error {
		if err := o.ensureService(ctx, logger); err != nil {
			return err
		}

		req := &wire.CreateLxdContainerRequest{
			VmName:        c.VM.Name,
			ContainerName: c.Name,
			OwnerID:       c.VM.OwnerHash,
			ImageServer:   imageServer,
			ImageAlias:    imageAlias,
		}
		var resp wire.CreateLxdContainerResponse
		if err := o.channel.Call(ctx, cicerone, methodCreateLxdContainer, req, &resp, o.config.Timeouts.Default); err != nil {
			return err
		}
		outcome, err := status.CreateLxdContainer.Classify(resp.Status, resp.FailureReason)
		if status.Resolve(outcome) != status.AwaitingSignal {
			return err
		}

		logger.Info("waiting for container creation", "image_server", imageServer, "image_alias", imageAlias)
		var sig wire.LxdContainerCreatedSignal
		if err := o.waiter.WaitMatching(ctx, cicerone.Interface, signalLxdContainerCreated, o.config.Timeouts.Default, &sig, func() bool {
			return signalFor(c, sig.VmName, sig.ContainerName, sig.OwnerID)
		}); err != nil {
			return err
		}
		outcome, err = status.LxdContainerCreated.Classify(sig.Status, sig.FailureReason)
		if status.Settle(outcome) != status.StateCompleted {
			return err
		}
		return nil
	})
}

// ContainerStart starts container c and blocks until it is up.
func (o *Orchestrator) ContainerStart(ctx context.Context, c Container) error {
	return o.run(ctx, "container start", c.VM.Name, c.Name, func(ctx context.Context, logger *slog.Logger) error {
		if err := o.ensureService(ctx, logger); err != nil {
			return err
		}

		req := &wire.StartLxdContainerRequest{ContainerRequest: wire.ContainerRequest{
			VmName:        c.VM.Name,
			ContainerName: c.Name,
			OwnerID:       c.VM.OwnerHash,
		}}
		var resp wire.StartLxdContainerResponse
		if err := o.channel.Call(ctx, cicerone, methodStartLxdContainer, req, &resp, o.config.Timeouts.Default); err != nil {
			return err
		}
		outcome, err := status.StartLxdContainer.Classify(resp.Status, resp.FailureReason)
		if status.Resolve(outcome) != status.AwaitingSignal {
			return err
		}

		// The signal carries no status: its arrival means the container is up.
		logger.Info("waiting for container start")
		var sig wire.ContainerStartedSignal
		return o.waiter.WaitMatching(ctx, cicerone.Interface, signalContainerStarted, o.config.Timeouts.Default, &sig, func() bool {
			return signalFor(c, sig.VmName, sig.ContainerName, sig.OwnerID)
		})
	})
}

// ContainerSetupUser creates username inside container c. An existing user
// counts as success.
func (o *Orchestrator) ContainerSetupUser(ctx context.Context, c Container, username string) error {
	return o.run(ctx, "container setup-user", c.VM.Name, c.Name, func(ctx context.Context, logger *slog.Logger) error {
		if err := o.ensureService(ctx, logger); err != nil {
			return err
		}

		req := &wire.SetUpLxdContainerUserRequest{
			VmName:            c.VM.Name,
			ContainerName:     c.Name,
			OwnerID:           c.VM.OwnerHash,
			ContainerUsername: username,
		}
		var resp wire.SetUpLxdContainerUserResponse
		if err := o.channel.Call(ctx, cicerone, methodSetUpLxdContainerUser, req, &resp, o.config.Timeouts.Default); err != nil {
			return err
		}
		if err := status.SetUpLxdContainerUser.Require(resp.Status, resp.FailureReason); err != nil {
			return err
		}
		logger.Debug("container user ready", "username", username, "status", resp.Status)
		return nil
	})
}

// signalFor reports whether a broadcast container signal names c. Cicerone
// signals every container's progress on the same member.
func signalFor(c Container, vmName, containerName, ownerID string) bool {
	return vmName == c.VM.Name && containerName == c.Name && ownerID == c.VM.OwnerHash
}
