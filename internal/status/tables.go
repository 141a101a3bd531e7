package status

import "github.com/cochaviz/vmc/internal/wire"

var (
	CreateDiskImage = Table[wire.DiskImageStatus]{
		Operation:   "create disk image",
		Completed:   []wire.DiskImageStatus{wire.DiskStatusCreated},
		AlreadyDone: []wire.DiskImageStatus{wire.DiskStatusExists},
	}

	DestroyDiskImage = Table[wire.DiskImageStatus]{
		Operation:   "destroy disk image",
		Completed:   []wire.DiskImageStatus{wire.DiskStatusDestroyed},
		AlreadyDone: []wire.DiskImageStatus{wire.DiskStatusDoesNotExist},
	}

	// ExportDiskImage accepts nothing but CREATED: an existing image at the
	// destination is a failure.
	ExportDiskImage = Table[wire.DiskImageStatus]{
		Operation: "export disk image",
		Completed: []wire.DiskImageStatus{wire.DiskStatusCreated},
	}

	// StartVm is consulted only when the reply's success flag is false.
	StartVm = Table[wire.VmStatus]{
		Operation:   "start vm",
		AlreadyDone: []wire.VmStatus{wire.VmStatusRunning, wire.VmStatusStarting},
	}

	CreateLxdContainer = Table[wire.CreateLxdContainerStatus]{
		Operation:   "create container",
		AlreadyDone: []wire.CreateLxdContainerStatus{wire.CreateContainerExists},
		InProgress:  []wire.CreateLxdContainerStatus{wire.CreateContainerCreating},
	}

	LxdContainerCreated = Table[wire.LxdContainerCreatedStatus]{
		Operation: "create container",
		Completed: []wire.LxdContainerCreatedStatus{wire.ContainerCreatedCreated},
	}

	StartLxdContainer = Table[wire.StartLxdContainerStatus]{
		Operation:   "start container",
		AlreadyDone: []wire.StartLxdContainerStatus{wire.StartContainerRunning},
		InProgress:  []wire.StartLxdContainerStatus{wire.StartContainerStarted},
	}

	SetUpLxdContainerUser = Table[wire.SetUpLxdContainerUserStatus]{
		Operation:   "set up container user",
		Completed:   []wire.SetUpLxdContainerUserStatus{wire.SetUpUserSuccess},
		AlreadyDone: []wire.SetUpLxdContainerUserStatus{wire.SetUpUserExists},
	}
)
