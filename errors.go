package wfs

import (
	"errors"
	"syscall"
)

// Package-specific error variables, usable with errors.Is(). Mirrors the
// teacher's errors.go: one exported sentinel per failure mode, mapped at
// the FUSE boundary in fsnode.go to a syscall.Errno.
var (
	// ErrNoEntry is returned when the resolver finds no live entry for a path.
	ErrNoEntry = errors.New("wfs: no such entry")

	// ErrExists is returned when mknod/mkdir's target already resolves.
	ErrExists = errors.New("wfs: entry already exists")

	// ErrNotDirectory is returned when a non-terminal path component
	// resolves to a non-directory, or readdir is called on a file.
	ErrNotDirectory = errors.New("wfs: not a directory")

	// ErrIsDirectory is returned when read/write is attempted on a directory.
	ErrIsDirectory = errors.New("wfs: is a directory")

	// ErrNoSpace is returned when an append would overflow the image's DiskSize.
	ErrNoSpace = errors.New("wfs: no space left on device")

	// ErrNameTooLong is returned when a basename exceeds MaxNameLen-1 bytes.
	ErrNameTooLong = errors.New("wfs: name too long")

	// ErrInvalidSuper is returned when the superblock magic doesn't match
	// at mount time. Fatal: mount must exit.
	ErrInvalidSuper = errors.New("wfs: invalid or foreign disk image")
)

// errno maps a wfs sentinel error to the POSIX error code (a positive
// syscall.Errno, as go-fuse node methods return) of the vnode-operation
// surface. Unrecognized errors map to EIO,
// matching §7's "I/O error" catch-all.
func errno(err error) syscall.Errno {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrNoEntry):
		return syscall.ENOENT
	case errors.Is(err, ErrExists):
		return syscall.EEXIST
	case errors.Is(err, ErrNotDirectory):
		return syscall.ENOTDIR
	case errors.Is(err, ErrIsDirectory):
		return syscall.EISDIR
	case errors.Is(err, ErrNoSpace):
		return syscall.ENOSPC
	case errors.Is(err, ErrNameTooLong):
		return syscall.ENAMETOOLONG
	default:
		return syscall.EIO
	}
}
