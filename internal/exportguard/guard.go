// Package exportguard validates and creates the destination file of a disk
// export. A destination must live under one of two roots and must not exist
// yet. The validated directory is held open and the file is created in it
// owner-only with an exclusive open, so nothing can be substituted between
// validation and creation.
package exportguard

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

const (
	// ImageExtension is appended to every export name.
	ImageExtension = ".qcow2"
	// DownloadsDir is the per-user directory exports land in by default.
	DownloadsDir = "Downloads"
	// FileMode is the permission of a created export file.
	FileMode = 0o600
)

// Roots are the two directories exports may be written under.
type Roots struct {
	RemovableMedia string
	UserHome       string
}

// PathValidationError reports a destination that must not be used.
type PathValidationError struct {
	Path   string
	Reason string
	Err    error
}

func (e *PathValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid export path %q: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid export path %q: %s", e.Path, e.Reason)
}

func (e *PathValidationError) Unwrap() error {
	return e.Err
}

// Target is a validated export destination. It holds the destination's
// parent directory open, so the file is created in the directory that was
// checked even if a path component is replaced afterwards. Close releases it.
type Target struct {
	// Path is the destination as seen at validation time.
	Path string

	dirfd int
	name  string
}

// Destination builds and validates the export target for name. With
// removable set, the file goes to {RemovableMedia}/{removable}/{name}.qcow2;
// otherwise to {UserHome}/{ownerHash}/Downloads/{name}.qcow2.
//
// Components are checked for ".." before joining, since joining would clean
// them away. The root is resolved once; every directory below it is opened
// relative to its parent without following symlinks, and the final directory
// stays open in the returned Target. The file itself must not exist yet.
func Destination(roots Roots, ownerHash, name string, removable *string) (*Target, error) {
	fileName := name + ImageExtension

	var root string
	var dirs []string
	if removable != nil {
		root = roots.RemovableMedia
		dirs = []string{*removable}
	} else {
		root = roots.UserHome
		dirs = []string{ownerHash, DownloadsDir}
	}

	raw := strings.Join(append(append([]string{root}, dirs...), fileName), string(filepath.Separator))
	if root == "" {
		return nil, &PathValidationError{Path: raw, Reason: "export root is not configured"}
	}
	if name == "" || strings.ContainsRune(name, filepath.Separator) {
		return nil, &PathValidationError{Path: raw, Reason: "export name must be a single path component"}
	}
	var components []string
	for _, dir := range dirs {
		for _, component := range strings.Split(dir, string(filepath.Separator)) {
			switch component {
			case "..":
				return nil, &PathValidationError{Path: raw, Reason: "path contains a parent directory reference"}
			case "", ".":
				continue
			}
			components = append(components, component)
		}
	}

	target := filepath.Join(append(append([]string{root}, components...), fileName)...)
	dirfd, err := openBeneath(root, components, target)
	if err != nil {
		return nil, err
	}
	if err := checkAbsent(dirfd, fileName, target); err != nil {
		_ = unix.Close(dirfd)
		return nil, err
	}
	return &Target{Path: target, dirfd: dirfd, name: fileName}, nil
}

// openBeneath opens root and walks components one directory at a time. A
// component that is a symlink or not a directory fails the walk.
func openBeneath(root string, components []string, target string) (int, error) {
	resolvedRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return -1, &PathValidationError{Path: target, Reason: "cannot resolve export root", Err: err}
	}
	dirfd, err := unix.Open(resolvedRoot, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return -1, &PathValidationError{Path: target, Reason: "cannot open export root", Err: err}
	}

	for _, component := range components {
		next, err := unix.Openat(dirfd, component, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_NOFOLLOW|unix.O_CLOEXEC, 0)
		_ = unix.Close(dirfd)
		switch {
		case err == nil:
			dirfd = next
		case errors.Is(err, unix.ENOENT):
			return -1, &PathValidationError{Path: target, Reason: "destination directory does not exist", Err: err}
		case errors.Is(err, unix.ELOOP), errors.Is(err, unix.ENOTDIR):
			return -1, &PathValidationError{Path: target, Reason: "destination directory " + component + " is a symlink or not a directory", Err: err}
		default:
			return -1, &PathValidationError{Path: target, Reason: "cannot open destination directory", Err: err}
		}
	}
	return dirfd, nil
}

// checkAbsent fails if anything, including a dangling symlink, is named name in dirfd.
func checkAbsent(dirfd int, name, target string) error {
	var st unix.Stat_t
	err := unix.Fstatat(dirfd, name, &st, unix.AT_SYMLINK_NOFOLLOW)
	switch {
	case err == nil:
		return &PathValidationError{Path: target, Reason: "destination already exists"}
	case errors.Is(err, unix.ENOENT):
		return nil
	default:
		return &PathValidationError{Path: target, Reason: "cannot inspect destination", Err: err}
	}
}

// Create opens the destination for writing inside the validated directory,
// failing if anything already exists there. The returned file is readable
// and writable by the owner only.
func (t *Target) Create() (*os.File, error) {
	if t.dirfd < 0 {
		return nil, fmt.Errorf("create export file %s: %w", t.Path, os.ErrClosed)
	}
	fd, err := unix.Openat(t.dirfd, t.name, unix.O_CREAT|unix.O_EXCL|unix.O_RDWR|unix.O_NOFOLLOW|unix.O_CLOEXEC, FileMode)
	if err != nil {
		if errors.Is(err, unix.EEXIST) || errors.Is(err, unix.ELOOP) {
			return nil, &PathValidationError{Path: t.Path, Reason: "destination already exists", Err: err}
		}
		return nil, fmt.Errorf("create export file %s: %w", t.Path, err)
	}
	// Restore any bits the umask cleared.
	if err := unix.Fchmod(fd, FileMode); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("set mode on export file %s: %w", t.Path, err)
	}
	return os.NewFile(uintptr(fd), t.Path), nil
}

// Close releases the held directory. It is safe to call more than once.
func (t *Target) Close() error {
	if t.dirfd < 0 {
		return nil
	}
	err := unix.Close(t.dirfd)
	t.dirfd = -1
	return err
}
