package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cochaviz/vmc/internal/backend"
	"github.com/cochaviz/vmc/internal/config"
)

// vmCommandFunc runs an operation against the VM selected by --vm and --owner.
type vmCommandFunc func(ctx context.Context, cmd *cobra.Command, b backend.Backend, vm backend.VM, args []string) error

func (a *app) vmRunE(fn vmCommandFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return a.withBackend(cmd, func(ctx context.Context, b backend.Backend) error {
			vm, err := a.resolveVM(ctx, b)
			if err != nil {
				return err
			}
			return fn(ctx, cmd, b, vm, args)
		})
	}
}

func (a *app) vmCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vm",
		Short: "Start, stop, export and share files with the VM",
	}

	var removable string
	export := &cobra.Command{
		Use:   "export <name>",
		Args:  cobra.ExactArgs(1),
		Short: "Export the VM disk to <name>.qcow2 in Downloads or on a removable drive",
		RunE: a.vmRunE(func(ctx context.Context, cmd *cobra.Command, b backend.Backend, vm backend.VM, args []string) error {
			var media *string
			if cmd.Flags().Changed("removable") {
				media = &removable
			}
			return b.VMExport(ctx, vm, args[0], media)
		}),
	}
	export.Flags().StringVar(&removable, "removable", "", "Removable drive (relative to the removable media root) to export to")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "start",
			Args:  cobra.NoArgs,
			Short: "Start the VM, creating its disk if needed",
			RunE: a.vmRunE(func(ctx context.Context, _ *cobra.Command, b backend.Backend, vm backend.VM, _ []string) error {
				return b.VMStart(ctx, vm)
			}),
		},
		&cobra.Command{
			Use:   "stop",
			Args:  cobra.NoArgs,
			Short: "Stop the VM",
			RunE: a.vmRunE(func(ctx context.Context, _ *cobra.Command, b backend.Backend, vm backend.VM, _ []string) error {
				return b.VMStop(ctx, vm)
			}),
		},
		export,
		&cobra.Command{
			Use:   "share <path>",
			Args:  cobra.ExactArgs(1),
			Short: "Share a path from Downloads with the VM and print where it is mounted",
			RunE: a.vmRunE(func(ctx context.Context, cmd *cobra.Command, b backend.Backend, vm backend.VM, args []string) error {
				shared, err := b.VMSharePath(ctx, vm, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), shared)
				return nil
			}),
		},
	)
	return cmd
}

func (a *app) diskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "disk",
		Short: "Manage VM disk images",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Args:  cobra.NoArgs,
			Short: "List the owner's VM disk images",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withBackend(cmd, func(ctx context.Context, b backend.Backend) error {
					owner, err := a.resolveOwner(ctx, b)
					if err != nil {
						return err
					}
					list, err := b.DiskList(ctx, owner)
					if err != nil {
						return err
					}
					out := cmd.OutOrStdout()
					for _, image := range list.Images {
						fmt.Fprintln(out, image)
					}
					fmt.Fprintf(out, "total size: %d bytes\n", list.TotalSize)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "destroy",
			Args:  cobra.NoArgs,
			Short: "Delete the VM's disk image",
			RunE: a.vmRunE(func(ctx context.Context, _ *cobra.Command, b backend.Backend, vm backend.VM, _ []string) error {
				return b.DiskDestroy(ctx, vm)
			}),
		},
	)
	return cmd
}

func (a *app) containerCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "container",
		Short: "Create, start and set up containers inside the VM",
	}
	cmd.PersistentFlags().StringVar(&name, "container", defaultContainer, "Name of the container to act on")

	containerRunE := func(fn func(ctx context.Context, b backend.Backend, c backend.Container, args []string) error) func(*cobra.Command, []string) error {
		return a.vmRunE(func(ctx context.Context, _ *cobra.Command, b backend.Backend, vm backend.VM, args []string) error {
			return fn(ctx, b, backend.Container{VM: vm, Name: name}, args)
		})
	}

	var imageServer, imageAlias string
	create := &cobra.Command{
		Use:   "create",
		Args:  cobra.NoArgs,
		Short: "Create the container, waiting for its image to download",
		RunE: containerRunE(func(ctx context.Context, b backend.Backend, c backend.Container, _ []string) error {
			return b.ContainerCreate(ctx, c, imageServer, imageAlias)
		}),
	}
	create.Flags().StringVar(&imageServer, "image-server", "", "Image server to download from (service default when empty)")
	create.Flags().StringVar(&imageAlias, "image-alias", "", "Image alias to create the container from (service default when empty)")

	cmd.AddCommand(
		create,
		&cobra.Command{
			Use:   "start",
			Args:  cobra.NoArgs,
			Short: "Start the container and wait until it is up",
			RunE: containerRunE(func(ctx context.Context, b backend.Backend, c backend.Container, _ []string) error {
				return b.ContainerStart(ctx, c)
			}),
		},
		&cobra.Command{
			Use:   "setup-user <username>",
			Args:  cobra.ExactArgs(1),
			Short: "Create the default user inside the container",
			RunE: containerRunE(func(ctx context.Context, b backend.Backend, c backend.Container, args []string) error {
				return b.ContainerSetupUser(ctx, c, args[0])
			}),
		},
	)
	return cmd
}

func (a *app) sessionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Args:  cobra.NoArgs,
		Short: "List active user sessions and their owner hashes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackend(cmd, func(ctx context.Context, b backend.Backend) error {
				sessions, err := b.SessionsList(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(sessions) == 0 {
					fmt.Fprintln(out, "no active sessions")
					return nil
				}
				for _, s := range sessions {
					fmt.Fprintf(out, "%s\t%s\n", s.Account, s.OwnerHash)
				}
				return nil
			})
		},
	}
}

func (a *app) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Args:  cobra.NoArgs,
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
