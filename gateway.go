package tfs

import (
	"context"
	"fmt"
	"io"
)

// RecursionType scopes server queries.
type RecursionType int8

const (
	// RecursionNone queries exactly the given paths.
	RecursionNone RecursionType = iota

	// RecursionOneLevel includes direct children.
	RecursionOneLevel

	// RecursionFull includes the whole subtree.
	RecursionFull
)

// String returns a human-readable representation of the RecursionType.
func (r RecursionType) String() string {
	switch r {
	case RecursionNone:
		return "none"
	case RecursionOneLevel:
		return "one-level"
	case RecursionFull:
		return "full"
	default:
		return "unknown"
	}
}

// VersionSpec names the version a GetRequest asks for.
type VersionSpec interface {
	versionSpec()
	String() string
}

// ChangesetVersion pins a request to a specific changeset number.
type ChangesetVersion int

func (ChangesetVersion) versionSpec() {}

// String returns the changeset in "C<number>" form.
func (v ChangesetVersion) String() string {
	return fmt.Sprintf("C%d", int(v))
}

// WorkspaceVersion pins a request to the current baseline of a workspace.
type WorkspaceVersion struct {
	Name  string
	Owner string
}

func (WorkspaceVersion) versionSpec() {}

// String returns the workspace spec in "W<name>;<owner>" form.
func (v WorkspaceVersion) String() string {
	return fmt.Sprintf("W%s;%s", v.Name, v.Owner)
}

// GetRequest asks the server which operations are needed to bring an item
// to the requested version.
type GetRequest struct {
	// Item is the server path of the item.
	Item string

	// Recursion scopes the request.
	Recursion RecursionType

	// Version is the requested version.
	Version VersionSpec
}

// GetOperation is a resolved download/placement instruction. The server
// only returns operations for items that actually need local changes.
type GetOperation struct {
	// ServerPath is the current server path of the item.
	ServerPath string

	// SourceLocal is the current local location; differs from TargetLocal
	// when the operation moves the item.
	SourceLocal string

	// TargetLocal is the local location the item must end up at.
	TargetLocal string

	// Version is the changeset to fetch.
	Version int

	// Type tags the item as file or folder.
	Type ItemType

	// Deleted means the item must be removed locally instead of fetched.
	Deleted bool
}

// Failure is a per-item failure reported inside an otherwise successful
// gateway call.
type Failure struct {
	// Item is the server path of the failed item.
	Item string

	// Message is the server-provided failure text.
	Message string
}

// CheckinResult is the outcome of one commit call: the changeset id on
// success plus per-item failures. Failed items retain their pending state.
type CheckinResult struct {
	// Changeset is the id assigned by the server; zero when nothing was
	// committed.
	Changeset int

	// Failures lists items the server rejected.
	Failures []Failure
}

// UndoOutcome is the outcome of one undo call.
type UndoOutcome struct {
	// Operations restore local content for the undone items.
	Operations []GetOperation

	// Remap maps the original local path to the reverted local path. It is
	// populated only for items undone from a rename; callers must use the
	// remapped path for any subsequent refresh.
	Remap map[string]string

	// Failures lists items the server could not undo.
	Failures []Failure
}

// WorkItemActionKind says how a checkin affects a linked work item.
type WorkItemActionKind int8

const (
	// WorkItemAssociate links the changeset to the work item.
	WorkItemAssociate WorkItemActionKind = iota

	// WorkItemResolve links the changeset and resolves the work item.
	WorkItemResolve
)

// String returns a human-readable representation of the action kind.
func (k WorkItemActionKind) String() string {
	switch k {
	case WorkItemAssociate:
		return "associate"
	case WorkItemResolve:
		return "resolve"
	default:
		return "unknown"
	}
}

// WorkItemAction links one work item to a checkin.
type WorkItemAction struct {
	// ID is the work item id.
	ID int

	// Action says whether to associate or resolve.
	Action WorkItemActionKind
}

// CheckinNote is one named checkin note value.
type CheckinNote struct {
	Name  string
	Value string
}

// PolicyOverride justifies committing despite failed checkin policies.
type PolicyOverride struct {
	// Comment is the override justification.
	Comment string

	// Failures are the policy failures being overridden.
	Failures []PolicyFailure
}

// CheckinSession is the explicit per-commit configuration. It is passed
// into each checkin call; there is no ambient mutable checkin state.
type CheckinSession struct {
	// Comment is the commit message.
	Comment string

	// WorkItems are the linked work-item actions.
	WorkItems []WorkItemAction

	// Notes are the checkin notes.
	Notes []CheckinNote

	// Override, when set, justifies committing despite policy failures.
	Override *PolicyOverride
}

// Gateway is the server collaborator. All calls are blocking; the engine
// performs no retries itself — retry policy belongs to the implementation.
//
// Implementations handle the wire protocol, credentials and transfer
// mechanics; the engine only interprets results.
type Gateway interface {
	// QueryPendingChanges returns the pending changes for exactly the given
	// paths, scoped by recursion.
	QueryPendingChanges(ctx context.Context, ws *WorkspaceInfo, paths []ItemPath, recursion RecursionType) ([]PendingChange, error)

	// QueryExtendedItems returns per-item server state for classification.
	// Items unknown to the server are simply absent from the result.
	QueryExtendedItems(ctx context.Context, ws *WorkspaceInfo, paths []ItemPath) ([]ExtendedItem, error)

	// Upload transfers the content of one pending file change.
	Upload(ctx context.Context, ws *WorkspaceInfo, change PendingChange) error

	// Checkin submits one commit call for the given server paths.
	Checkin(ctx context.Context, ws *WorkspaceInfo, items []string, session CheckinSession) (CheckinResult, error)

	// Get resolves download instructions for the given requests.
	Get(ctx context.Context, ws *WorkspaceInfo, requests []GetRequest) ([]GetOperation, error)

	// Undo reverts pending changes for the given server paths.
	Undo(ctx context.Context, ws *WorkspaceInfo, items []string) (UndoOutcome, error)

	// PendAdd schedules the given items for addition.
	PendAdd(ctx context.Context, ws *WorkspaceInfo, paths []ItemPath) ([]Failure, error)

	// PendDelete schedules the given items for deletion.
	PendDelete(ctx context.Context, ws *WorkspaceInfo, paths []ItemPath) ([]Failure, error)

	// UpdateWorkItems records the changeset id on linked work items.
	UpdateWorkItems(ctx context.Context, owner string, actions []WorkItemAction, changeset int) error

	// Download fetches the content named by a resolved get operation.
	Download(ctx context.Context, ws *WorkspaceInfo, op GetOperation) (io.ReadCloser, error)
}
