package wire

type SharePathStorageLocation int32

const (
	ShareDownloads SharePathStorageLocation = 0
)

type SharedPath struct {
	Path     string
	Writable bool
}

func (m *SharedPath) Marshal() []byte {
	var e encoder
	e.string(1, m.Path)
	e.bool(2, m.Writable)
	return e.buf
}

func (m *SharedPath) Unmarshal(data []byte) error {
	*m = SharedPath{}
	return unmarshal("SharedPath", data, func(f *field) error {
		switch f.num {
		case 1:
			return f.string(&m.Path)
		case 2:
			return f.bool(&m.Writable)
		}
		return nil
	})
}

// SharePathRequest carries the 32-bit server handle; VmInfo reports it as 64 bits.
type SharePathRequest struct {
	Handle          uint32
	SharedPath      SharedPath
	StorageLocation SharePathStorageLocation
	OwnerID         string
}

func (m *SharePathRequest) Marshal() []byte {
	var e encoder
	e.uint64(1, uint64(m.Handle))
	e.message(2, &m.SharedPath)
	e.int32(3, int32(m.StorageLocation))
	e.string(4, m.OwnerID)
	return e.buf
}

func (m *SharePathRequest) Unmarshal(data []byte) error {
	*m = SharePathRequest{}
	return unmarshal("SharePathRequest", data, func(f *field) error {
		switch f.num {
		case 1:
			return f.uint32(&m.Handle)
		case 2:
			return f.message(&m.SharedPath)
		case 3:
			return enum(f, &m.StorageLocation)
		case 4:
			return f.string(&m.OwnerID)
		}
		return nil
	})
}

type SharePathResponse struct {
	Success       bool
	Path          string
	FailureReason string
}

func (m *SharePathResponse) Marshal() []byte {
	var e encoder
	e.bool(1, m.Success)
	e.string(2, m.Path)
	e.string(3, m.FailureReason)
	return e.buf
}

func (m *SharePathResponse) Unmarshal(data []byte) error {
	*m = SharePathResponse{}
	return unmarshal("SharePathResponse", data, func(f *field) error {
		switch f.num {
		case 1:
			return f.bool(&m.Success)
		case 2:
			return f.string(&m.Path)
		case 3:
			return f.string(&m.FailureReason)
		}
		return nil
	})
}
