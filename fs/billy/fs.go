// Package billy implements the fs.Filesystem interface on top of go-billy,
// providing both OS-backed and in-memory filesystems.
package billy

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	parentfs "github.com/fidelfly/tfsIntegration/fs"
)

// FS implements the Filesystem interface using go-billy.
type FS struct {
	fs billy.Filesystem

	// Read-only marks for backends without chmod support (memfs).
	mu sync.Mutex
	ro map[string]bool
}

// NewFS creates a new FS using the given go-billy filesystem.
func NewFS(fsys billy.Filesystem) *FS {
	return &FS{fs: fsys}
}

// NewInMemoryFS creates a new in-memory filesystem.
func NewInMemoryFS() *FS {
	return &FS{fs: memfs.New()}
}

// NewOSFS creates a new OS filesystem rooted at the given path.
func NewOSFS(path string) *FS {
	return &FS{fs: osfs.New(path)}
}

// Create implements Filesystem.Create.
//
//nolint:ireturn // API returns the fs.File interface for flexibility.
func (b *FS) Create(name string) (parentfs.File, error) {
	f, err := b.fs.Create(name)
	if err != nil {
		return nil, fmt.Errorf("billy: create %q: %w", name, err)
	}
	return &File{file: f, fs: b}, nil
}

// Exists implements Filesystem.Exists.
func (b *FS) Exists(path string) (bool, error) {
	_, err := b.fs.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("billy: stat %q: %w", path, err)
	}
}

// MkdirAll implements Filesystem.MkdirAll.
func (b *FS) MkdirAll(path string, perm os.FileMode) error {
	if err := b.fs.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("billy: mkdirall %q: %w", path, err)
	}
	return nil
}

// Open implements Filesystem.Open.
//
//nolint:ireturn // API returns the fs.File interface for flexibility.
func (b *FS) Open(name string) (parentfs.File, error) {
	f, err := b.fs.Open(name)
	if err != nil {
		return nil, fmt.Errorf("billy: open %q: %w", name, err)
	}
	return &File{file: f, fs: b}, nil
}

// ReadDir implements Filesystem.ReadDir.
func (b *FS) ReadDir(dirname string) ([]os.FileInfo, error) {
	list, err := b.fs.ReadDir(dirname)
	if err != nil {
		return nil, fmt.Errorf("billy: readdir %q: %w", dirname, err)
	}
	return list, nil
}

// ReadFile implements Filesystem.ReadFile.
func (b *FS) ReadFile(path string) ([]byte, error) {
	bts, err := util.ReadFile(b.fs, path)
	if err != nil {
		return nil, fmt.Errorf("billy: readfile %q: %w", path, err)
	}
	return bts, nil
}

// Remove implements Filesystem.Remove.
func (b *FS) Remove(name string) error {
	if err := b.fs.Remove(name); err != nil {
		return fmt.Errorf("billy: remove %q: %w", name, err)
	}
	b.mu.Lock()
	delete(b.ro, name)
	b.mu.Unlock()
	return nil
}

// Rename implements Filesystem.Rename.
func (b *FS) Rename(oldpath, newpath string) error {
	if err := b.fs.Rename(oldpath, newpath); err != nil {
		return fmt.Errorf("billy: rename %q -> %q: %w", oldpath, newpath, err)
	}
	b.mu.Lock()
	if b.ro[oldpath] {
		b.ro[newpath] = true
		delete(b.ro, oldpath)
	}
	b.mu.Unlock()
	return nil
}

// Stat implements Filesystem.Stat.
func (b *FS) Stat(name string) (os.FileInfo, error) {
	info, err := b.fs.Stat(name)
	if err != nil {
		return nil, fmt.Errorf("billy: stat %q: %w", name, err)
	}
	return info, nil
}

// WriteFile implements Filesystem.WriteFile.
func (b *FS) WriteFile(filename string, data []byte, perm os.FileMode) error {
	if err := util.WriteFile(b.fs, filename, data, perm); err != nil {
		return fmt.Errorf("billy: writefile %q: %w", filename, err)
	}
	return nil
}

// SetReadOnly implements Filesystem.SetReadOnly. Backends that support
// chmod get a real permission change; others get an in-process mark so
// read-only semantics stay observable in tests.
func (b *FS) SetReadOnly(path string, readOnly bool) error {
	info, err := b.fs.Stat(path)
	if err != nil {
		return fmt.Errorf("billy: stat %q: %w", path, err)
	}

	if ch, ok := b.fs.(billy.Change); ok {
		mode := info.Mode()
		if readOnly {
			mode &^= 0o222
		} else {
			mode |= 0o200
		}
		if err := ch.Chmod(path, mode); err != nil {
			return fmt.Errorf("billy: chmod %q: %w", path, err)
		}
		return nil
	}

	b.mu.Lock()
	if b.ro == nil {
		b.ro = map[string]bool{}
	}
	b.ro[path] = readOnly
	b.mu.Unlock()
	return nil
}

// IsReadOnly implements Filesystem.IsReadOnly.
func (b *FS) IsReadOnly(path string) (bool, error) {
	info, err := b.fs.Stat(path)
	if err != nil {
		return false, fmt.Errorf("billy: stat %q: %w", path, err)
	}

	if _, ok := b.fs.(billy.Change); ok {
		return info.Mode()&0o200 == 0, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ro[path], nil
}

// Raw returns the underlying go-billy filesystem.
//
//nolint:ireturn // returning the interface exposes the adapter target.
func (b *FS) Raw() billy.Filesystem {
	return b.fs
}
