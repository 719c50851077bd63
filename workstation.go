package tfs

import (
	"sort"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/fidelfly/tfsIntegration/fs"
)

// Workstation is the local registry of configured workspaces. It is the
// pure-local half of the engine: partitioning never talks to the server and
// never fails — paths without a mapping are reported as orphans.
type Workstation struct {
	workspaces []*WorkspaceInfo
}

// NewWorkstation creates a Workstation over the given workspaces.
func NewWorkstation(workspaces ...*WorkspaceInfo) *Workstation {
	return &Workstation{workspaces: workspaces}
}

// Workspaces returns the configured workspaces.
func (s *Workstation) Workspaces() []*WorkspaceInfo {
	return s.workspaces
}

// WorkspaceGroup is one workspace together with the input items it owns,
// in input order.
type WorkspaceGroup struct {
	Workspace *WorkspaceInfo
	Items     []ItemPath
}

// PartitionOptions tunes Partition behavior.
type PartitionOptions struct {
	// RequireLocal treats paths missing from disk as orphans. The callers
	// in this engine tolerate missing paths (pending deletes have no local
	// file), so the zero value maps them normally.
	RequireLocal bool

	// FS is consulted only when RequireLocal is set.
	FS fs.Filesystem
}

// Partition maps every input path to the single workspace that owns it.
// It returns the groups sorted by workspace name (items keep input order)
// plus the orphan list for paths no working folder covers. Every input path
// appears exactly once across groups and orphans.
func (s *Workstation) Partition(paths []string, opts PartitionOptions) ([]WorkspaceGroup, []string) {
	groups := make(map[string]*WorkspaceGroup)
	var orphans []string

	for _, p := range paths {
		if opts.RequireLocal && opts.FS != nil {
			if ok, err := opts.FS.Exists(p); err != nil || !ok {
				orphans = append(orphans, p)
				continue
			}
		}

		ws, server, ok := s.resolve(p)
		if !ok {
			orphans = append(orphans, p)
			continue
		}

		g := groups[ws.Name]
		if g == nil {
			g = &WorkspaceGroup{Workspace: ws}
			groups[ws.Name] = g
		}
		g.Items = append(g.Items, ItemPath{Local: p, Server: server})
	}

	out := make([]WorkspaceGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Workspace.Name < out[j].Workspace.Name
	})
	return out, orphans
}

// resolve finds the owning workspace for a local path. Mappings of distinct
// workspaces never overlap, so the first workspace that covers the path wins.
func (s *Workstation) resolve(local string) (*WorkspaceInfo, string, bool) {
	for _, ws := range s.workspaces {
		if server, ok := ws.ServerPathOf(local); ok {
			return ws, server, true
		}
	}
	return nil, "", false
}

// workstationCache is the on-disk shape of the workspace registry.
type workstationCache struct {
	Workspaces []*WorkspaceInfo `yaml:"workspaces"`
}

// DefaultCachePath returns the per-user location of the workstation cache
// file.
func DefaultCachePath() (string, error) {
	path, err := xdg.CacheFile("tfsIntegration/workspaces.yaml")
	if err != nil {
		return "", WrapError(err, "cannot resolve workstation cache path")
	}
	return path, nil
}

// LoadWorkstation reads the workspace registry from a YAML cache file.
func LoadWorkstation(fsys fs.Filesystem, path string) (*Workstation, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, WrapErrorf(err, "cannot read workstation cache %q", path)
	}

	var cache workstationCache
	if err := yaml.Unmarshal(data, &cache); err != nil {
		return nil, WrapErrorf(err, "cannot parse workstation cache %q", path)
	}
	return NewWorkstation(cache.Workspaces...), nil
}

// Save writes the workspace registry to a YAML cache file.
func (s *Workstation) Save(fsys fs.Filesystem, path string) error {
	data, err := yaml.Marshal(workstationCache{Workspaces: s.workspaces})
	if err != nil {
		return WrapError(err, "cannot encode workstation cache")
	}
	if err := fsys.WriteFile(path, data, 0o644); err != nil {
		return WrapErrorf(err, "cannot write workstation cache %q", path)
	}
	return nil
}
