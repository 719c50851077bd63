// Package fs defines the filesystem abstraction used by the reconciliation
// engine. All local mutation (writes, deletes, read-only marking) goes
// through this interface so operations work against both on-disk and
// in-memory filesystems.
package fs

import (
	"io/fs"
	"os"
)

// File represents an open file handle supporting basic I/O operations.
// Implementations should behave consistently with the standard library.
type File interface {
	Close() error
	Name() string
	Read(p []byte) (n int, err error)
	Seek(offset int64, whence int) (int64, error)
	Stat() (fs.FileInfo, error)
	Write(p []byte) (n int, err error)
}

// Filesystem is the local storage collaborator. Paths are interpreted the
// way the backing implementation defines them (absolute OS paths for the
// OS-backed implementation, rooted paths for the in-memory one).
//
// TFVC keeps files read-only unless checked out, so the abstraction carries
// read-only marking alongside the usual file operations.
type Filesystem interface {
	Create(name string) (File, error)
	Exists(path string) (bool, error)
	MkdirAll(path string, perm os.FileMode) error
	Open(name string) (File, error)
	ReadDir(dirname string) ([]os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	Remove(name string) error
	Rename(oldpath, newpath string) error
	Stat(name string) (os.FileInfo, error)
	WriteFile(filename string, data []byte, perm os.FileMode) error

	// SetReadOnly marks a file read-only or writable.
	SetReadOnly(path string, readOnly bool) error

	// IsReadOnly reports whether the file is currently marked read-only.
	IsReadOnly(path string) (bool, error)
}
