package wire

type CreateLxdContainerStatus int32

const (
	CreateContainerUnknown  CreateLxdContainerStatus = 0
	CreateContainerCreating CreateLxdContainerStatus = 1
	CreateContainerExists   CreateLxdContainerStatus = 2
	CreateContainerFailed   CreateLxdContainerStatus = 3
)

var createContainerNames = map[int32]string{
	0: "UNKNOWN",
	1: "CREATING",
	2: "EXISTS",
	3: "FAILED",
}

func (s CreateLxdContainerStatus) String() string {
	return enumName(createContainerNames, "CREATE_STATUS", int32(s))
}

type LxdContainerCreatedStatus int32

const (
	ContainerCreatedUnknown          LxdContainerCreatedStatus = 0
	ContainerCreatedCreated          LxdContainerCreatedStatus = 1
	ContainerCreatedDownloadTimedOut LxdContainerCreatedStatus = 2
	ContainerCreatedCancelled        LxdContainerCreatedStatus = 3
	ContainerCreatedFailed           LxdContainerCreatedStatus = 4
)

var containerCreatedNames = map[int32]string{
	0: "UNKNOWN",
	1: "CREATED",
	2: "DOWNLOAD_TIMED_OUT",
	3: "CANCELLED",
	4: "FAILED",
}

func (s LxdContainerCreatedStatus) String() string {
	return enumName(containerCreatedNames, "CREATED_STATUS", int32(s))
}

type StartLxdContainerStatus int32

const (
	StartContainerUnknown StartLxdContainerStatus = 0
	StartContainerStarted StartLxdContainerStatus = 1
	StartContainerRunning StartLxdContainerStatus = 2
	StartContainerFailed  StartLxdContainerStatus = 3
)

var startContainerNames = map[int32]string{
	0: "UNKNOWN",
	1: "STARTED",
	2: "RUNNING",
	3: "FAILED",
}

func (s StartLxdContainerStatus) String() string {
	return enumName(startContainerNames, "START_STATUS", int32(s))
}

type SetUpLxdContainerUserStatus int32

const (
	SetUpUserUnknown SetUpLxdContainerUserStatus = 0
	SetUpUserSuccess SetUpLxdContainerUserStatus = 1
	SetUpUserExists  SetUpLxdContainerUserStatus = 2
	SetUpUserFailed  SetUpLxdContainerUserStatus = 3
)

var setUpUserNames = map[int32]string{
	0: "UNKNOWN",
	1: "SUCCESS",
	2: "EXISTS",
	3: "FAILED",
}

func (s SetUpLxdContainerUserStatus) String() string {
	return enumName(setUpUserNames, "SETUP_STATUS", int32(s))
}

type CreateLxdContainerRequest struct {
	VmName        string
	ContainerName string
	OwnerID       string
	ImageServer   string
	ImageAlias    string
}

func (m *CreateLxdContainerRequest) Marshal() []byte {
	var e encoder
	e.string(1, m.VmName)
	e.string(2, m.ContainerName)
	e.string(3, m.OwnerID)
	e.string(4, m.ImageServer)
	e.string(5, m.ImageAlias)
	return e.buf
}

func (m *CreateLxdContainerRequest) Unmarshal(data []byte) error {
	*m = CreateLxdContainerRequest{}
	return unmarshal("CreateLxdContainerRequest", data, func(f *field) error {
		switch f.num {
		case 1:
			return f.string(&m.VmName)
		case 2:
			return f.string(&m.ContainerName)
		case 3:
			return f.string(&m.OwnerID)
		case 4:
			return f.string(&m.ImageServer)
		case 5:
			return f.string(&m.ImageAlias)
		}
		return nil
	})
}

type CreateLxdContainerResponse struct {
	Status        CreateLxdContainerStatus
	FailureReason string
}

func (m *CreateLxdContainerResponse) Marshal() []byte {
	var e encoder
	e.int32(1, int32(m.Status))
	e.string(2, m.FailureReason)
	return e.buf
}

func (m *CreateLxdContainerResponse) Unmarshal(data []byte) error {
	*m = CreateLxdContainerResponse{}
	return unmarshal("CreateLxdContainerResponse", data, func(f *field) error {
		switch f.num {
		case 1:
			return enum(f, &m.Status)
		case 2:
			return f.string(&m.FailureReason)
		}
		return nil
	})
}

// LxdContainerCreatedSignal reports the outcome of a CREATING container.
type LxdContainerCreatedSignal struct {
	VmName        string
	ContainerName string
	OwnerID       string
	Status        LxdContainerCreatedStatus
	FailureReason string
}

func (m *LxdContainerCreatedSignal) Marshal() []byte {
	var e encoder
	e.string(1, m.VmName)
	e.string(2, m.ContainerName)
	e.string(3, m.OwnerID)
	e.int32(4, int32(m.Status))
	e.string(5, m.FailureReason)
	return e.buf
}

func (m *LxdContainerCreatedSignal) Unmarshal(data []byte) error {
	*m = LxdContainerCreatedSignal{}
	return unmarshal("LxdContainerCreatedSignal", data, func(f *field) error {
		switch f.num {
		case 1:
			return f.string(&m.VmName)
		case 2:
			return f.string(&m.ContainerName)
		case 3:
			return f.string(&m.OwnerID)
		case 4:
			return enum(f, &m.Status)
		case 5:
			return f.string(&m.FailureReason)
		}
		return nil
	})
}

// ContainerRequest addresses a container; StartLxdContainer uses it as is.
type ContainerRequest struct {
	VmName        string
	ContainerName string
	OwnerID       string
}

func (m *ContainerRequest) Marshal() []byte {
	var e encoder
	e.string(1, m.VmName)
	e.string(2, m.ContainerName)
	e.string(3, m.OwnerID)
	return e.buf
}

func (m *ContainerRequest) Unmarshal(data []byte) error {
	*m = ContainerRequest{}
	return unmarshal("ContainerRequest", data, func(f *field) error {
		switch f.num {
		case 1:
			return f.string(&m.VmName)
		case 2:
			return f.string(&m.ContainerName)
		case 3:
			return f.string(&m.OwnerID)
		}
		return nil
	})
}

type StartLxdContainerRequest struct{ ContainerRequest }

type StartLxdContainerResponse struct {
	Status        StartLxdContainerStatus
	FailureReason string
}

func (m *StartLxdContainerResponse) Marshal() []byte {
	var e encoder
	e.int32(1, int32(m.Status))
	e.string(2, m.FailureReason)
	return e.buf
}

func (m *StartLxdContainerResponse) Unmarshal(data []byte) error {
	*m = StartLxdContainerResponse{}
	return unmarshal("StartLxdContainerResponse", data, func(f *field) error {
		switch f.num {
		case 1:
			return enum(f, &m.Status)
		case 2:
			return f.string(&m.FailureReason)
		}
		return nil
	})
}

// ContainerStartedSignal only announces arrival; its fields are informational.
type ContainerStartedSignal struct {
	VmName            string
	ContainerName     string
	OwnerID           string
	ContainerUsername string
}

func (m *ContainerStartedSignal) Marshal() []byte {
	var e encoder
	e.string(1, m.VmName)
	e.string(2, m.ContainerName)
	e.string(3, m.OwnerID)
	e.string(4, m.ContainerUsername)
	return e.buf
}

func (m *ContainerStartedSignal) Unmarshal(data []byte) error {
	*m = ContainerStartedSignal{}
	return unmarshal("ContainerStartedSignal", data, func(f *field) error {
		switch f.num {
		case 1:
			return f.string(&m.VmName)
		case 2:
			return f.string(&m.ContainerName)
		case 3:
			return f.string(&m.OwnerID)
		case 4:
			return f.string(&m.ContainerUsername)
		}
		return nil
	})
}

type SetUpLxdContainerUserRequest struct {
	VmName            string
	ContainerName     string
	OwnerID           string
	ContainerUsername string
}

func (m *SetUpLxdContainerUserRequest) Marshal() []byte {
	var e encoder
	e.string(1, m.VmName)
	e.string(2, m.ContainerName)
	e.string(3, m.OwnerID)
	e.string(4, m.ContainerUsername)
	return e.buf
}

func (m *SetUpLxdContainerUserRequest) Unmarshal(data []byte) error {
	*m = SetUpLxdContainerUserRequest{}
	return unmarshal("SetUpLxdContainerUserRequest", data, func(f *field) error {
		switch f.num {
		case 1:
			return f.string(&m.VmName)
		case 2:
			return f.string(&m.ContainerName)
		case 3:
			return f.string(&m.OwnerID)
		case 4:
			return f.string(&m.ContainerUsername)
		}
		return nil
	})
}

type SetUpLxdContainerUserResponse struct {
	Status        SetUpLxdContainerUserStatus
	FailureReason string
}

func (m *SetUpLxdContainerUserResponse) Marshal() []byte {
	var e encoder
	e.int32(1, int32(m.Status))
	e.string(2, m.FailureReason)
	return e.buf
}

func (m *SetUpLxdContainerUserResponse) Unmarshal(data []byte) error {
	*m = SetUpLxdContainerUserResponse{}
	return unmarshal("SetUpLxdContainerUserResponse", data, func(f *field) error {
		switch f.num {
		case 1:
			return enum(f, &m.Status)
		case 2:
			return f.string(&m.FailureReason)
		}
		return nil
	})
}
