package tfs

import (
	"context"

	"github.com/fidelfly/tfsIntegration/fs"
)

// StatusKind is the closed set of mutually exclusive relationships an item
// can have to server state. Exactly one kind is computed per item per
// operation; results are never cached across operations.
type StatusKind int8

const (
	// StatusUnversioned means the server does not know the item.
	StatusUnversioned StatusKind = iota

	// StatusCheckedOutForEdit means the item has a pending edit.
	StatusCheckedOutForEdit

	// StatusScheduledForAddition means the item has a pending add.
	StatusScheduledForAddition

	// StatusScheduledForDeletion means the item has a pending delete.
	StatusScheduledForDeletion

	// StatusOutOfDate means the workspace version is behind the server.
	StatusOutOfDate

	// StatusDeleted means the item was deleted on the server.
	StatusDeleted

	// StatusUpToDate means the workspace version matches the server.
	StatusUpToDate

	// StatusRenamed means the item has a pending rename without edit.
	StatusRenamed

	// StatusRenamedCheckedOut means the item has pending rename and edit.
	StatusRenamedCheckedOut

	// StatusUndeleted means the item has a pending undelete.
	StatusUndeleted
)

// String returns a human-readable representation of the StatusKind.
func (k StatusKind) String() string {
	switch k {
	case StatusUnversioned:
		return "Unversioned"
	case StatusCheckedOutForEdit:
		return "CheckedOutForEdit"
	case StatusScheduledForAddition:
		return "ScheduledForAddition"
	case StatusScheduledForDeletion:
		return "ScheduledForDeletion"
	case StatusOutOfDate:
		return "OutOfDate"
	case StatusDeleted:
		return "Deleted"
	case StatusUpToDate:
		return "UpToDate"
	case StatusRenamed:
		return "Renamed"
	case StatusRenamedCheckedOut:
		return "RenamedCheckedOut"
	case StatusUndeleted:
		return "Undeleted"
	default:
		return "unknown"
	}
}

// ServerStatus is the ephemeral per-item classification result. It is
// recomputed for every operation.
type ServerStatus struct {
	// Kind is the classification.
	Kind StatusKind

	// TargetItem is the current server path of the item.
	TargetItem string

	// LocalVersion is the changeset recorded for the item in the workspace.
	LocalVersion int

	// LocalExists reports whether the local path exists on disk.
	LocalExists bool
}

// ItemStatus pairs an item with its classification.
type ItemStatus struct {
	Path   ItemPath
	Status ServerStatus
}

// StatusVisitor receives exactly one callback per classified item. Having
// one method per kind makes dispatch exhaustive at compile time: a new kind
// cannot be added without every flow taking a position on it.
//
// Flows that consider a kind impossible must return a
// *ProtocolViolationError from that method, never skip it silently.
type StatusVisitor interface {
	Unversioned(path ItemPath, status ServerStatus) error
	CheckedOutForEdit(path ItemPath, status ServerStatus) error
	ScheduledForAddition(path ItemPath, status ServerStatus) error
	ScheduledForDeletion(path ItemPath, status ServerStatus) error
	OutOfDate(path ItemPath, status ServerStatus) error
	Deleted(path ItemPath, status ServerStatus) error
	UpToDate(path ItemPath, status ServerStatus) error
	Renamed(path ItemPath, status ServerStatus) error
	RenamedCheckedOut(path ItemPath, status ServerStatus) error
	Undeleted(path ItemPath, status ServerStatus) error
}

// VisitByStatus dispatches one item to the visitor method matching its
// classification.
func VisitByStatus(path ItemPath, status ServerStatus, v StatusVisitor) error {
	switch status.Kind {
	case StatusUnversioned:
		return v.Unversioned(path, status)
	case StatusCheckedOutForEdit:
		return v.CheckedOutForEdit(path, status)
	case StatusScheduledForAddition:
		return v.ScheduledForAddition(path, status)
	case StatusScheduledForDeletion:
		return v.ScheduledForDeletion(path, status)
	case StatusOutOfDate:
		return v.OutOfDate(path, status)
	case StatusDeleted:
		return v.Deleted(path, status)
	case StatusUpToDate:
		return v.UpToDate(path, status)
	case StatusRenamed:
		return v.Renamed(path, status)
	case StatusRenamedCheckedOut:
		return v.RenamedCheckedOut(path, status)
	case StatusUndeleted:
		return v.Undeleted(path, status)
	default:
		return WrapErrorf(ErrProtocolViolation, "unknown status kind %d for %s", status.Kind, path.Local)
	}
}

// Classifier computes ServerStatus for batches of items within one
// workspace. Classification of the whole batch completes before any caller
// issues a mutating network call.
type Classifier struct {
	gw   Gateway
	fsys fs.Filesystem
}

// NewClassifier creates a Classifier backed by the given gateway and
// filesystem.
func NewClassifier(gw Gateway, fsys fs.Filesystem) *Classifier {
	return &Classifier{gw: gw, fsys: fsys}
}

// Classify queries server state for all paths in one batch and returns one
// ItemStatus per input path, in input order. Transport errors from the
// gateway are returned as-is; the caller attributes them to the workspace.
func (c *Classifier) Classify(ctx context.Context, ws *WorkspaceInfo, paths []ItemPath) ([]ItemStatus, error) {
	items, err := c.gw.QueryExtendedItems(ctx, ws, paths)
	if err != nil {
		return nil, err
	}

	byServer := make(map[string]*ExtendedItem, len(items))
	for i := range items {
		it := items[i]
		byServer[it.SourceItem] = &it
		byServer[it.TargetItem] = &it
	}

	out := make([]ItemStatus, 0, len(paths))
	for _, p := range paths {
		ext := byServer[p.Server]

		exists, err := c.fsys.Exists(p.Local)
		if err != nil {
			return nil, WrapErrorf(err, "cannot stat %q", p.Local)
		}

		status := ServerStatus{
			Kind:        classifyItem(ext),
			TargetItem:  p.Server,
			LocalExists: exists,
		}
		if ext != nil {
			status.TargetItem = ext.TargetItem
			status.LocalVersion = ext.LocalVersion
		}
		out = append(out, ItemStatus{Path: p, Status: status})
	}
	return out, nil
}

// classifyItem derives the status kind from the server record. Pending
// changes win over version comparison; a server-side deletion is only
// visible once no pending change masks it.
func classifyItem(ext *ExtendedItem) StatusKind {
	if ext == nil {
		return StatusUnversioned
	}

	switch {
	case ext.Change.Contains(ChangeAdd):
		return StatusScheduledForAddition
	case ext.Change.Contains(ChangeDelete):
		return StatusScheduledForDeletion
	case ext.Change.Contains(ChangeUndelete):
		return StatusUndeleted
	case ext.Change.Contains(ChangeRename) && ext.Change.Contains(ChangeEdit):
		return StatusRenamedCheckedOut
	case ext.Change.Contains(ChangeRename):
		return StatusRenamed
	case ext.Change.Contains(ChangeEdit):
		return StatusCheckedOutForEdit
	}

	if ext.DeletionID != 0 {
		return StatusDeleted
	}
	if ext.LocalVersion < ext.LatestVersion {
		return StatusOutOfDate
	}
	return StatusUpToDate
}
