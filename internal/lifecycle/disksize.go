package lifecycle

import (
	"fmt"
	"math"
	"math/bits"

	"golang.org/x/sys/unix"
)

// diskBlock is the alignment of every disk image size.
const diskBlock = 512

// DiskSize returns 90% of free, rounded down to a multiple of 512 bytes.
// The product is computed in 128 bits so no input overflows.
func DiskSize(free uint64) uint64 {
	hi, lo := bits.Mul64(free, 9)
	tenths, _ := bits.Div64(hi, lo, 10)
	return tenths &^ (diskBlock - 1)
}

// StatfsFreeSpace returns the bytes available to unprivileged users on the
// filesystem holding path.
func StatfsFreeSpace(path string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", path, err)
	}
	hi, lo := bits.Mul64(uint64(st.Bavail), uint64(st.Bsize))
	if hi != 0 {
		return math.MaxUint64, nil
	}
	return lo, nil
}
