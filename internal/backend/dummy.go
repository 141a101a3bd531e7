package backend

import "context"

var (
	_ Backend = Unimplemented{}
	_ Backend = Default{}
)

// Unimplemented fails every operation with *UnimplementedError and has no
// side effects.
type Unimplemented struct{}

func (Unimplemented) Name() string { return "Dummy Unimplemented" }

func (b Unimplemented) fail(function string) error {
	return &UnimplementedError{Backend: b.Name(), Function: function}
}

func (b Unimplemented) MetricsSendSample(context.Context, string) error {
	return b.fail("MetricsSendSample")
}

func (b Unimplemented) SessionsList(context.Context) ([]Session, error) {
	return nil, b.fail("SessionsList")
}

func (b Unimplemented) VMStart(context.Context, VM) error {
	return b.fail("VMStart")
}

func (b Unimplemented) VMStop(context.Context, VM) error {
	return b.fail("VMStop")
}

func (b Unimplemented) VMExport(context.Context, VM, string, *string) error {
	return b.fail("VMExport")
}

func (b Unimplemented) VMSharePath(context.Context, VM, string) (string, error) {
	return "", b.fail("VMSharePath")
}

func (b Unimplemented) DiskDestroy(context.Context, VM) error {
	return b.fail("DiskDestroy")
}

func (b Unimplemented) DiskList(context.Context, string) (DiskList, error) {
	return DiskList{}, b.fail("DiskList")
}

func (b Unimplemented) ContainerCreate(context.Context, Container, string, string) error {
	return b.fail("ContainerCreate")
}

func (b Unimplemented) ContainerStart(context.Context, Container) error {
	return b.fail("ContainerStart")
}

func (b Unimplemented) ContainerSetupUser(context.Context, Container, string) error {
	return b.fail("ContainerSetupUser")
}

// Default succeeds at every operation with zero results and has no side effects.
type Default struct{}

func (Default) Name() string { return "Dummy Default" }

func (Default) MetricsSendSample(context.Context, string) error             { return nil }
func (Default) SessionsList(context.Context) ([]Session, error)             { return nil, nil }
func (Default) VMStart(context.Context, VM) error                           { return nil }
func (Default) VMStop(context.Context, VM) error                            { return nil }
func (Default) VMExport(context.Context, VM, string, *string) error         { return nil }
func (Default) VMSharePath(context.Context, VM, string) (string, error)     { return "", nil }
func (Default) DiskDestroy(context.Context, VM) error                       { return nil }
func (Default) DiskList(context.Context, string) (DiskList, error)          { return DiskList{}, nil }
func (Default) ContainerStart(context.Context, Container) error             { return nil }
func (Default) ContainerSetupUser(context.Context, Container, string) error { return nil }
func (Default) ContainerCreate(context.Context, Container, string, string) error {
	return nil
}
