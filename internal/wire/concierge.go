package wire

// DiskImageStatus is the result of a disk image operation on the management service.
type DiskImageStatus int32

const (
	DiskStatusUnknown      DiskImageStatus = 0
	DiskStatusCreated      DiskImageStatus = 1
	DiskStatusExists       DiskImageStatus = 2
	DiskStatusFailed       DiskImageStatus = 3
	DiskStatusDoesNotExist DiskImageStatus = 4
	DiskStatusDestroyed    DiskImageStatus = 5
)

var diskImageStatusNames = map[int32]string{
	0: "DISK_STATUS_UNKNOWN",
	1: "DISK_STATUS_CREATED",
	2: "DISK_STATUS_EXISTS",
	3: "DISK_STATUS_FAILED",
	4: "DISK_STATUS_DOES_NOT_EXIST",
	5: "DISK_STATUS_DESTROYED",
}

func (s DiskImageStatus) String() string {
	return enumName(diskImageStatusNames, "DISK_STATUS", int32(s))
}

// VmStatus is the state reported by StartVm when it does not simply succeed.
type VmStatus int32

const (
	VmStatusUnknown  VmStatus = 0
	VmStatusStarting VmStatus = 1
	VmStatusRunning  VmStatus = 2
	VmStatusFailure  VmStatus = 3
)

var vmStatusNames = map[int32]string{
	0: "VM_STATUS_UNKNOWN",
	1: "VM_STATUS_STARTING",
	2: "VM_STATUS_RUNNING",
	3: "VM_STATUS_FAILURE",
}

func (s VmStatus) String() string {
	return enumName(vmStatusNames, "VM_STATUS", int32(s))
}

type DiskImageType int32

const (
	DiskImageRaw   DiskImageType = 0
	DiskImageQcow2 DiskImageType = 1
	DiskImageAuto  DiskImageType = 2
)

type StorageLocation int32

const (
	StorageCryptohomeRoot      StorageLocation = 0
	StorageCryptohomeDownloads StorageLocation = 1
)

// DiskImage is one disk attached to a VM at start. Fields 2 to 5 describe an
// in-guest mount and are left empty for the stateful disk.
type DiskImage struct {
	Path       string
	MountPoint string
	Fstype     string
	Flags      uint64
	Data       string
	Writable   bool
	DoMount    bool
	ImageType  DiskImageType
}

func (m *DiskImage) Marshal() []byte {
	var e encoder
	e.string(1, m.Path)
	e.string(2, m.MountPoint)
	e.string(3, m.Fstype)
	e.uint64(4, m.Flags)
	e.string(5, m.Data)
	e.bool(6, m.Writable)
	e.bool(7, m.DoMount)
	e.int32(8, int32(m.ImageType))
	return e.buf
}

func (m *DiskImage) Unmarshal(data []byte) error {
	*m = DiskImage{}
	return unmarshal("DiskImage", data, func(f *field) error {
		switch f.num {
		case 1:
			return f.string(&m.Path)
		case 2:
			return f.string(&m.MountPoint)
		case 3:
			return f.string(&m.Fstype)
		case 4:
			return f.uint64(&m.Flags)
		case 5:
			return f.string(&m.Data)
		case 6:
			return f.bool(&m.Writable)
		case 7:
			return f.bool(&m.DoMount)
		case 8:
			return enum(f, &m.ImageType)
		}
		return nil
	})
}

type VmInfo struct {
	// Ipv4Address is in network byte order.
	Ipv4Address           uint32
	Pid                   int64
	Cid                   int64
	SeneschalServerHandle uint64
}

func (m *VmInfo) Marshal() []byte {
	var e encoder
	e.fixed32(1, m.Ipv4Address)
	e.int64(2, m.Pid)
	e.int64(3, m.Cid)
	e.uint64(4, m.SeneschalServerHandle)
	return e.buf
}

func (m *VmInfo) Unmarshal(data []byte) error {
	*m = VmInfo{}
	return unmarshal("VmInfo", data, func(f *field) error {
		switch f.num {
		case 1:
			return f.fixed32(&m.Ipv4Address)
		case 2:
			return f.int64(&m.Pid)
		case 3:
			return f.int64(&m.Cid)
		case 4:
			return f.uint64(&m.SeneschalServerHandle)
		}
		return nil
	})
}

// StartVmRequest omits field 1, the custom kernel spec; termina is started
// from the component instead.
type StartVmRequest struct {
	Disks        []DiskImage
	Name         string
	StartTermina bool
	OwnerID      string
}

func (m *StartVmRequest) Marshal() []byte {
	var e encoder
	for i := range m.Disks {
		e.message(2, &m.Disks[i])
	}
	e.string(3, m.Name)
	e.bool(4, m.StartTermina)
	e.string(5, m.OwnerID)
	return e.buf
}

func (m *StartVmRequest) Unmarshal(data []byte) error {
	*m = StartVmRequest{}
	return unmarshal("StartVmRequest", data, func(f *field) error {
		switch f.num {
		case 2:
			var disk DiskImage
			if err := f.message(&disk); err != nil {
				return err
			}
			m.Disks = append(m.Disks, disk)
		case 3:
			return f.string(&m.Name)
		case 4:
			return f.bool(&m.StartTermina)
		case 5:
			return f.string(&m.OwnerID)
		}
		return nil
	})
}

type StartVmResponse struct {
	Success       bool
	FailureReason string
	VmInfo        *VmInfo
	Status        VmStatus
}

func (m *StartVmResponse) Marshal() []byte {
	var e encoder
	e.bool(1, m.Success)
	e.string(2, m.FailureReason)
	if m.VmInfo != nil {
		e.message(3, m.VmInfo)
	}
	e.int32(4, int32(m.Status))
	return e.buf
}

func (m *StartVmResponse) Unmarshal(data []byte) error {
	*m = StartVmResponse{}
	return unmarshal("StartVmResponse", data, func(f *field) error {
		switch f.num {
		case 1:
			return f.bool(&m.Success)
		case 2:
			return f.string(&m.FailureReason)
		case 3:
			var info VmInfo
			if err := f.message(&info); err != nil {
				return err
			}
			m.VmInfo = &info
		case 4:
			return enum(f, &m.Status)
		}
		return nil
	})
}

// VmRequest addresses a VM by name and owner. StopVm and GetVmInfo share the layout.
type VmRequest struct {
	Name    string
	OwnerID string
}

func (m *VmRequest) Marshal() []byte {
	var e encoder
	e.string(1, m.Name)
	e.string(2, m.OwnerID)
	return e.buf
}

func (m *VmRequest) Unmarshal(data []byte) error {
	*m = VmRequest{}
	return unmarshal("VmRequest", data, func(f *field) error {
		switch f.num {
		case 1:
			return f.string(&m.Name)
		case 2:
			return f.string(&m.OwnerID)
		}
		return nil
	})
}

type (
	StopVmRequest    struct{ VmRequest }
	GetVmInfoRequest struct{ VmRequest }
)

type StopVmResponse struct {
	Success       bool
	FailureReason string
}

func (m *StopVmResponse) Marshal() []byte {
	var e encoder
	e.bool(1, m.Success)
	e.string(2, m.FailureReason)
	return e.buf
}

func (m *StopVmResponse) Unmarshal(data []byte) error {
	*m = StopVmResponse{}
	return unmarshal("StopVmResponse", data, func(f *field) error {
		switch f.num {
		case 1:
			return f.bool(&m.Success)
		case 2:
			return f.string(&m.FailureReason)
		}
		return nil
	})
}

type GetVmInfoResponse struct {
	Success bool
	VmInfo  *VmInfo
}

func (m *GetVmInfoResponse) Marshal() []byte {
	var e encoder
	e.bool(1, m.Success)
	if m.VmInfo != nil {
		e.message(2, m.VmInfo)
	}
	return e.buf
}

func (m *GetVmInfoResponse) Unmarshal(data []byte) error {
	*m = GetVmInfoResponse{}
	return unmarshal("GetVmInfoResponse", data, func(f *field) error {
		switch f.num {
		case 1:
			return f.bool(&m.Success)
		case 2:
			var info VmInfo
			if err := f.message(&info); err != nil {
				return err
			}
			m.VmInfo = &info
		}
		return nil
	})
}

type CreateDiskImageRequest struct {
	CryptohomeID    string
	DiskPath        string
	DiskSize        uint64
	ImageType       DiskImageType
	StorageLocation StorageLocation
}

func (m *CreateDiskImageRequest) Marshal() []byte {
	var e encoder
	e.string(1, m.CryptohomeID)
	e.string(2, m.DiskPath)
	e.uint64(3, m.DiskSize)
	e.int32(4, int32(m.ImageType))
	e.int32(5, int32(m.StorageLocation))
	return e.buf
}

func (m *CreateDiskImageRequest) Unmarshal(data []byte) error {
	*m = CreateDiskImageRequest{}
	return unmarshal("CreateDiskImageRequest", data, func(f *field) error {
		switch f.num {
		case 1:
			return f.string(&m.CryptohomeID)
		case 2:
			return f.string(&m.DiskPath)
		case 3:
			return f.uint64(&m.DiskSize)
		case 4:
			return enum(f, &m.ImageType)
		case 5:
			return enum(f, &m.StorageLocation)
		}
		return nil
	})
}

type CreateDiskImageResponse struct {
	Status        DiskImageStatus
	DiskPath      string
	FailureReason string
}

func (m *CreateDiskImageResponse) Marshal() []byte {
	var e encoder
	e.int32(1, int32(m.Status))
	e.string(2, m.DiskPath)
	e.string(3, m.FailureReason)
	return e.buf
}

func (m *CreateDiskImageResponse) Unmarshal(data []byte) error {
	*m = CreateDiskImageResponse{}
	return unmarshal("CreateDiskImageResponse", data, func(f *field) error {
		switch f.num {
		case 1:
			return enum(f, &m.Status)
		case 2:
			return f.string(&m.DiskPath)
		case 3:
			return f.string(&m.FailureReason)
		}
		return nil
	})
}

type DestroyDiskImageRequest struct {
	CryptohomeID    string
	DiskPath        string
	StorageLocation StorageLocation
}

func (m *DestroyDiskImageRequest) Marshal() []byte {
	var e encoder
	e.string(1, m.CryptohomeID)
	e.string(2, m.DiskPath)
	e.int32(3, int32(m.StorageLocation))
	return e.buf
}

func (m *DestroyDiskImageRequest) Unmarshal(data []byte) error {
	*m = DestroyDiskImageRequest{}
	return unmarshal("DestroyDiskImageRequest", data, func(f *field) error {
		switch f.num {
		case 1:
			return f.string(&m.CryptohomeID)
		case 2:
			return f.string(&m.DiskPath)
		case 3:
			return enum(f, &m.StorageLocation)
		}
		return nil
	})
}

// DiskImageResponse is the status/reason pair returned by DestroyDiskImage and ExportDiskImage.
type DiskImageResponse struct {
	Status        DiskImageStatus
	FailureReason string
}

func (m *DiskImageResponse) Marshal() []byte {
	var e encoder
	e.int32(1, int32(m.Status))
	e.string(2, m.FailureReason)
	return e.buf
}

func (m *DiskImageResponse) Unmarshal(data []byte) error {
	*m = DiskImageResponse{}
	return unmarshal("DiskImageResponse", data, func(f *field) error {
		switch f.num {
		case 1:
			return enum(f, &m.Status)
		case 2:
			return f.string(&m.FailureReason)
		}
		return nil
	})
}

type (
	DestroyDiskImageResponse struct{ DiskImageResponse }
	ExportDiskImageResponse  struct{ DiskImageResponse }
)

type ExportDiskImageRequest struct {
	CryptohomeID string
	DiskPath     string
}

func (m *ExportDiskImageRequest) Marshal() []byte {
	var e encoder
	e.string(1, m.CryptohomeID)
	e.string(2, m.DiskPath)
	return e.buf
}

func (m *ExportDiskImageRequest) Unmarshal(data []byte) error {
	*m = ExportDiskImageRequest{}
	return unmarshal("ExportDiskImageRequest", data, func(f *field) error {
		switch f.num {
		case 1:
			return f.string(&m.CryptohomeID)
		case 2:
			return f.string(&m.DiskPath)
		}
		return nil
	})
}

type ListVmDisksRequest struct {
	CryptohomeID    string
	StorageLocation StorageLocation
}

func (m *ListVmDisksRequest) Marshal() []byte {
	var e encoder
	e.string(1, m.CryptohomeID)
	e.int32(2, int32(m.StorageLocation))
	return e.buf
}

func (m *ListVmDisksRequest) Unmarshal(data []byte) error {
	*m = ListVmDisksRequest{}
	return unmarshal("ListVmDisksRequest", data, func(f *field) error {
		switch f.num {
		case 1:
			return f.string(&m.CryptohomeID)
		case 2:
			return enum(f, &m.StorageLocation)
		}
		return nil
	})
}

type ListVmDisksResponse struct {
	Success       bool
	FailureReason string
	Images        []string
	TotalSize     uint64
}

func (m *ListVmDisksResponse) Marshal() []byte {
	var e encoder
	e.bool(1, m.Success)
	e.string(2, m.FailureReason)
	e.repeatedString(3, m.Images)
	e.uint64(4, m.TotalSize)
	return e.buf
}

func (m *ListVmDisksResponse) Unmarshal(data []byte) error {
	*m = ListVmDisksResponse{}
	return unmarshal("ListVmDisksResponse", data, func(f *field) error {
		switch f.num {
		case 1:
			return f.bool(&m.Success)
		case 2:
			return f.string(&m.FailureReason)
		case 3:
			var image string
			if err := f.string(&image); err != nil {
				return err
			}
			m.Images = append(m.Images, image)
		case 4:
			return f.uint64(&m.TotalSize)
		}
		return nil
	})
}
