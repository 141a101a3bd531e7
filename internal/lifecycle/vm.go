package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"path"

	"github.com/godbus/dbus/v5"

	"github.com/cochaviz/vmc/internal/exportguard"
	"github.com/cochaviz/vmc/internal/status"
	"github.com/cochaviz/vmc/internal/wire"
)

// VMStart creates the VM's disk image if needed and boots the VM from it.
// Starting a VM that is already running or starting succeeds.
func (o *Orchestrator) VMStart(ctx context.Context, vm VM) error {
	return o.run(ctx, "vm start", vm.Name, "", func(ctx context.Context, logger *slog.Logger) error {
		if err := o.ensureService(ctx, logger); err != nil {
			return err
		}

		root := o.config.Roots.Cryptohome
		free, err := o.freeSpace(root)
		if err != nil {
			return fmt.Errorf("reading free space of %s: %w", root, err)
		}
		size := DiskSize(free)
		logger.Debug("sized disk image", "free_bytes", free, "disk_bytes", size)

		diskPath, err := o.createDiskImage(ctx, logger, vm, size)
		if err != nil {
			return err
		}
		return o.startVM(ctx, logger, vm, diskPath)
	})
}

func (o *Orchestrator) createDiskImage(ctx context.Context, logger *slog.Logger, vm VM, size uint64) (string, error) {
	req := &wire.CreateDiskImageRequest{
		CryptohomeID:    vm.OwnerHash,
		DiskPath:        vm.Name,
		DiskSize:        size,
		ImageType:       wire.DiskImageAuto,
		StorageLocation: wire.StorageCryptohomeRoot,
	}
	var resp wire.CreateDiskImageResponse
	if err := o.channel.Call(ctx, concierge, methodCreateDiskImage, req, &resp, o.config.Timeouts.Default); err != nil {
		return "", err
	}
	outcome, err := status.CreateDiskImage.Classify(resp.Status, resp.FailureReason)
	if err != nil {
		return "", err
	}
	logger.Debug("disk image ready", "path", resp.DiskPath, "outcome", outcome)
	return resp.DiskPath, nil
}

func (o *Orchestrator) startVM(ctx context.Context, logger *slog.Logger, vm VM, diskPath string) error {
	req := &wire.StartVmRequest{
		Name:         vm.Name,
		OwnerID:      vm.OwnerHash,
		StartTermina: true,
		Disks: []wire.DiskImage{{
			Path:     diskPath,
			Writable: true,
			DoMount:  false,
		}},
	}
	var resp wire.StartVmResponse
	if err := o.channel.Call(ctx, concierge, methodStartVm, req, &resp, o.config.Timeouts.Default); err != nil {
		return err
	}
	if resp.Success {
		return nil
	}
	outcome, err := status.StartVm.Classify(resp.Status, resp.FailureReason)
	if err != nil {
		return err
	}
	logger.Debug("vm was already up", "status", resp.Status, "outcome", outcome)
	return nil
}

// VMStop shuts the VM down.
func (o *Orchestrator) VMStop(ctx context.Context, vm VM) error {
	return o.run(ctx, "vm stop", vm.Name, "", func(ctx context.Context, logger *slog.Logger) error {
		if err := o.ensureService(ctx, logger); err != nil {
			return err
		}

		req := &wire.StopVmRequest{VmRequest: wire.VmRequest{OwnerID: vm.OwnerHash, Name: vm.Name}}
		var resp wire.StopVmResponse
		if err := o.channel.Call(ctx, concierge, methodStopVm, req, &resp, o.config.Timeouts.Default); err != nil {
			return err
		}
		if !resp.Success {
			return status.Failure("stop vm", resp.FailureReason)
		}
		return nil
	})
}

// VMExport writes the VM's disk image to a new file. The destination is
// validated before anything is sent, created owner-only, and handed to the
// service as a descriptor.
func (o *Orchestrator) VMExport(ctx context.Context, vm VM, exportName string, removable *string) error {
	return o.run(ctx, "vm export", vm.Name, "", func(ctx context.Context, logger *slog.Logger) error {
		target, err := exportguard.Destination(o.exportRoots(), vm.OwnerHash, exportName, removable)
		if err != nil {
			return err
		}
		defer target.Close()

		if err := o.ensureService(ctx, logger); err != nil {
			return err
		}

		file, err := target.Create()
		if err != nil {
			return err
		}
		logger.Debug("created export file", "path", target.Path)

		req := &wire.ExportDiskImageRequest{CryptohomeID: vm.OwnerHash, DiskPath: vm.Name}
		var resp wire.ExportDiskImageResponse
		callErr := o.channel.Call(ctx, concierge, methodExportDiskImage, req, &resp, o.config.Timeouts.Export,
			dbus.UnixFD(file.Fd()))
		// The service holds its own copy of the descriptor once the call is sent.
		if err := file.Close(); err != nil {
			logger.Warn("failed to close export file", "path", target.Path, "error", err)
		}
		if callErr != nil {
			return callErr
		}

		if _, err := status.ExportDiskImage.Classify(resp.Status, resp.FailureReason); err != nil {
			return err
		}
		logger.Info("disk exported", "path", target.Path)
		return nil
	})
}

// VMSharePath shares p, relative to the owner's Downloads directory, with
// the VM and returns the path under which the VM sees it.
func (o *Orchestrator) VMSharePath(ctx context.Context, vm VM, p string) (string, error) {
	var shared string
	err := o.run(ctx, "vm share", vm.Name, "", func(ctx context.Context, logger *slog.Logger) error {
		if err := o.ensureService(ctx, logger); err != nil {
			return err
		}

		handle, err := o.fileServerHandle(ctx, vm)
		if err != nil {
			return err
		}

		req := &wire.SharePathRequest{
			Handle:          handle,
			SharedPath:      wire.SharedPath{Path: p},
			StorageLocation: wire.ShareDownloads,
			OwnerID:         vm.OwnerHash,
		}
		var resp wire.SharePathResponse
		if err := o.channel.Call(ctx, seneschal, methodSharePath, req, &resp, o.config.Timeouts.Default); err != nil {
			return err
		}
		if !resp.Success {
			return status.Failure("share path", resp.FailureReason)
		}

		shared = path.Join(o.config.Roots.SharedMount, resp.Path)
		logger.Debug("path shared", "path", p, "vm_path", shared)
		return nil
	})
	return shared, err
}

// fileServerHandle looks up the handle of the VM's file server and narrows it
// to the width the share request carries.
func (o *Orchestrator) fileServerHandle(ctx context.Context, vm VM) (uint32, error) {
	req := &wire.GetVmInfoRequest{VmRequest: wire.VmRequest{OwnerID: vm.OwnerHash, Name: vm.Name}}
	var resp wire.GetVmInfoResponse
	if err := o.channel.Call(ctx, concierge, methodGetVmInfo, req, &resp, o.config.Timeouts.Default); err != nil {
		return 0, err
	}
	if !resp.Success {
		return 0, status.Failure("get vm info", "")
	}

	var handle uint64
	if resp.VmInfo != nil {
		handle = resp.VmInfo.SeneschalServerHandle
	}
	if handle > math.MaxUint32 {
		return 0, &HandleOverflowError{Handle: handle}
	}
	return uint32(handle), nil
}
