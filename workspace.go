package tfs

import (
	"path/filepath"
	"strings"

	"github.com/fidelfly/tfsIntegration/internal/vpath"
)

// WorkingFolder maps a server folder to a local directory.
type WorkingFolder struct {
	ServerPath string `yaml:"serverPath"`
	LocalPath  string `yaml:"localPath"`
}

// WorkspaceInfo is a named, owner-scoped mapping of server paths to local
// paths plus a version baseline. Multiple workspaces may exist per user;
// their local mappings never overlap.
type WorkspaceInfo struct {
	// Name identifies the workspace on the server.
	Name string `yaml:"name"`

	// Owner is the user the workspace belongs to.
	Owner string `yaml:"owner"`

	// Version is the baseline changeset the workspace was last synced to.
	Version int `yaml:"version"`

	// Folders are the working folder mappings.
	Folders []WorkingFolder `yaml:"folders"`
}

// ServerPathOf resolves a local path to its server path using the
// longest-prefix working folder match. The second return is false when no
// mapping covers the path.
func (w *WorkspaceInfo) ServerPathOf(local string) (string, bool) {
	folder, ok := w.folderOf(local)
	if !ok {
		return "", false
	}
	rel, err := filepath.Rel(folder.LocalPath, local)
	if err != nil {
		return "", false
	}
	if rel == "." {
		return folder.ServerPath, true
	}
	return vpath.Join(folder.ServerPath, filepath.ToSlash(rel)), true
}

// LocalPathOf resolves a server path to its local path. The second return
// is false when no mapping covers the path.
func (w *WorkspaceInfo) LocalPathOf(server string) (string, bool) {
	var best *WorkingFolder
	for i := range w.Folders {
		f := &w.Folders[i]
		if !vpath.IsUnder(server, f.ServerPath) {
			continue
		}
		if best == nil || len(f.ServerPath) > len(best.ServerPath) {
			best = f
		}
	}
	if best == nil {
		return "", false
	}
	rel, ok := vpath.RelativeTo(server, best.ServerPath)
	if !ok {
		return "", false
	}
	if rel == "" {
		return best.LocalPath, true
	}
	return filepath.Join(best.LocalPath, filepath.FromSlash(rel)), true
}

// MappingRootOf returns the local root of the working folder that covers
// the given local path. Used when refreshes must walk ancestors up to the
// nearest version-control root.
func (w *WorkspaceInfo) MappingRootOf(local string) (string, bool) {
	folder, ok := w.folderOf(local)
	if !ok {
		return "", false
	}
	return folder.LocalPath, true
}

// Covers reports whether any working folder maps the given local path.
func (w *WorkspaceInfo) Covers(local string) bool {
	_, ok := w.folderOf(local)
	return ok
}

func (w *WorkspaceInfo) folderOf(local string) (*WorkingFolder, bool) {
	var best *WorkingFolder
	for i := range w.Folders {
		f := &w.Folders[i]
		if !isLocalUnder(local, f.LocalPath) {
			continue
		}
		if best == nil || len(f.LocalPath) > len(best.LocalPath) {
			best = f
		}
	}
	return best, best != nil
}

// isLocalUnder reports whether child equals parent or lives below it,
// comparing whole path elements.
func isLocalUnder(child, parent string) bool {
	child = filepath.Clean(child)
	parent = filepath.Clean(parent)
	if child == parent {
		return true
	}
	return strings.HasPrefix(child, parent+string(filepath.Separator))
}
