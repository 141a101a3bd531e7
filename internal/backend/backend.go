// Package backend defines the operations a VM backend offers, and two inert
// implementations used where no real VM host is available.
package backend

import (
	"context"
	"fmt"
)

// VM identifies a virtual machine by name within one user's session.
type VM struct {
	Name      string
	OwnerHash string
}

func (v VM) String() string {
	return v.Name
}

// Container identifies a container inside a VM.
type Container struct {
	VM   VM
	Name string
}

func (c Container) String() string {
	return c.VM.Name + "/" + c.Name
}

// Session is an active user session: the account and its cryptohome hash.
type Session struct {
	Account   string
	OwnerHash string
}

// DiskList is the set of VM disk images owned by one user.
type DiskList struct {
	Images    []string
	TotalSize uint64
}

// Backend is everything the command line can ask a VM host to do.
type Backend interface {
	// Name identifies the implementation in diagnostics.
	Name() string

	// MetricsSendSample records a usage event.
	MetricsSendSample(ctx context.Context, name string) error

	SessionsList(ctx context.Context) ([]Session, error)

	VMStart(ctx context.Context, vm VM) error
	VMStop(ctx context.Context, vm VM) error
	// VMExport writes the VM's disk to a new file named exportName, either in
	// the owner's Downloads directory or, with removable set, on that
	// removable drive.
	VMExport(ctx context.Context, vm VM, exportName string, removable *string) error
	// VMSharePath shares path from the owner's Downloads directory with the
	// VM and returns where it is visible inside the VM.
	VMSharePath(ctx context.Context, vm VM, path string) (string, error)

	DiskDestroy(ctx context.Context, vm VM) error
	DiskList(ctx context.Context, ownerHash string) (DiskList, error)

	ContainerCreate(ctx context.Context, c Container, imageServer, imageAlias string) error
	ContainerStart(ctx context.Context, c Container) error
	ContainerSetupUser(ctx context.Context, c Container, username string) error
}

// UnimplementedError is returned by a backend for an operation it does not support.
type UnimplementedError struct {
	Backend  string
	Function string
}

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("backend %q does not implement %s", e.Backend, e.Function)
}
