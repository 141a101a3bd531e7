package lifecycle

import (
	"context"
	"log/slog"

	"github.com/cochaviz/vmc/internal/status"
	"github.com/cochaviz/vmc/internal/wire"
)

// DiskDestroy deletes the VM's disk image. A missing image counts as destroyed.
func (o *Orchestrator) DiskDestroy(ctx context.Context, vm VM) error {
	return o.run(ctx, "disk destroy", vm.Name, "", func(ctx context.Context, logger *slog.Logger) error {
		if err := o.ensureService(ctx, logger); err != nil {
			return err
		}

		req := &wire.DestroyDiskImageRequest{
			CryptohomeID:    vm.OwnerHash,
			DiskPath:        vm.Name,
			StorageLocation: wire.StorageCryptohomeRoot,
		}
		var resp wire.DestroyDiskImageResponse
		if err := o.channel.Call(ctx, concierge, methodDestroyDiskImage, req, &resp, o.config.Timeouts.Default); err != nil {
			return err
		}
		outcome, err := status.DestroyDiskImage.Classify(resp.Status, resp.FailureReason)
		if err != nil {
			return err
		}
		logger.Debug("disk image removed", "outcome", outcome)
		return nil
	})
}

// DiskList returns the disk images owned by ownerHash and their total size.
func (o *Orchestrator) DiskList(ctx context.Context, ownerHash string) (DiskList, error) {
	var list DiskList
	err := o.run(ctx, "disk list", "", "", func(ctx context.Context, logger *slog.Logger) error {
		if err := o.ensureService(ctx, logger); err != nil {
			return err
		}

		req := &wire.ListVmDisksRequest{
			CryptohomeID:    ownerHash,
			StorageLocation: wire.StorageCryptohomeRoot,
		}
		var resp wire.ListVmDisksResponse
		if err := o.channel.Call(ctx, concierge, methodListVmDisks, req, &resp, o.config.Timeouts.Default); err != nil {
			return err
		}
		if !resp.Success {
			return status.Failure("list disk images", resp.FailureReason)
		}
		list = DiskList{Images: resp.Images, TotalSize: resp.TotalSize}
		return nil
	})
	return list, err
}
