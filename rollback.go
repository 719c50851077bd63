package tfs

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/google/uuid"
)

// RollbackOutcome is the result of one rollback operation.
type RollbackOutcome struct {
	// Remap maps the original local path to the reverted local path for
	// items undone from a rename. Callers must consult it before refreshing
	// a path.
	Remap map[string]string

	// Refresh lists the local paths the caller should refresh.
	Refresh []RefreshInstruction

	// Errors aggregates per-item and per-workspace failures.
	Errors []error
}

// ItemReverted is the per-item completion notification invoked by generic
// undo with the (possibly remapped) local path of each processed item.
type ItemReverted func(localPath string)

// RollbackModifiedWithoutCheckout force-downloads every input item at the
// workspace's current version, without classification. Per-item apply
// failures are aggregated; one failure never blocks siblings.
func (c *Client) RollbackModifiedWithoutCheckout(ctx context.Context, paths []string, progress Progress) *RollbackOutcome {
	out := newRollbackOutcome()

	log := c.log.With().
		Str("op", uuid.NewString()).
		Str("kind", "rollback-modified-without-checkout").
		Logger()

	groups, orphans := c.station.Partition(paths, PartitionOptions{})
	if len(orphans) > 0 {
		out.Errors = append(out.Errors, orphanError(orphans))
	}

	for _, g := range groups {
		if progress.Cancelled() {
			out.Errors = append(out.Errors, ErrCancelled)
			break
		}
		ws := g.Workspace
		log.Debug().Str("workspace", ws.Name).Int("items", len(g.Items)).Msg("forced redownload")

		requests := make([]GetRequest, 0, len(g.Items))
		for _, item := range g.Items {
			requests = append(requests, GetRequest{
				Item:      item.Server,
				Recursion: RecursionNone,
				Version:   WorkspaceVersion{Name: ws.Name, Owner: ws.Owner},
			})
		}

		progress.Phase("Preparing for download")
		ops, err := c.gw.Get(ctx, ws, requests)
		if err != nil {
			out.Errors = append(out.Errors, &TransportError{Workspace: ws.Name, Phase: "get", Err: err})
			continue
		}
		out.Errors = append(out.Errors, c.apply.Apply(ctx, ws, ops, ModeForce, progress)...)
	}
	return out
}

// RollbackMissingFileDeletion restores items whose local file disappeared
// without the deletion being scheduled. Every item is classified first and
// routed to either a server-side undo or a forced download at its recorded
// local version. A classification that contradicts the operation is a fatal
// protocol violation and aborts immediately.
func (c *Client) RollbackMissingFileDeletion(ctx context.Context, paths []string, progress Progress) (*RollbackOutcome, error) {
	out := newRollbackOutcome()

	log := c.log.With().
		Str("op", uuid.NewString()).
		Str("kind", "rollback-missing-file-deletion").
		Logger()

	groups, orphans := c.station.Partition(paths, PartitionOptions{})
	if len(orphans) > 0 {
		out.Errors = append(out.Errors, orphanError(orphans))
	}

	for _, g := range groups {
		if progress.Cancelled() {
			out.Errors = append(out.Errors, ErrCancelled)
			break
		}
		ws := g.Workspace

		progress.Phase("Querying server status")
		statuses, err := c.classifier.Classify(ctx, ws, g.Items)
		if err != nil {
			out.Errors = append(out.Errors, &TransportError{Workspace: ws.Name, Phase: "classify", Err: err})
			continue
		}

		visitor := &missingDeletionVisitor{}
		for _, is := range statuses {
			if err := VisitByStatus(is.Path, is.Status, visitor); err != nil {
				// Server state contradicts the operation. Fatal, never
				// downgraded to a per-item failure.
				log.Error().Str("item", is.Path.Local).Str("status", is.Status.Kind.String()).Msg("protocol violation")
				out.Errors = append(out.Errors, err)
				return out, err
			}
		}

		// Downloads run before undo so restored baselines are in place when
		// pending state is reverted.
		if len(visitor.download) > 0 {
			progress.Phase("Preparing for download")
			ops, err := c.gw.Get(ctx, ws, visitor.download)
			if err != nil {
				out.Errors = append(out.Errors, &TransportError{Workspace: ws.Name, Phase: "get", Err: err})
				continue
			}
			out.Errors = append(out.Errors, c.apply.Apply(ctx, ws, ops, ModeForce, progress)...)
		}

		if len(visitor.undo) > 0 {
			progress.Phase("Undoing pending changes")
			c.undoItems(ctx, ws, visitor.undo, progress, out)
		}
	}
	return out, nil
}

// RollbackChanges reverts pending changes for the given local paths: one
// undo call per workspace, baseline content restored, and for each affected
// item a completion notification with the possibly remapped local path. The
// parent directory of every reverted item that still exists on disk is
// collected for refresh. A single item's undo failure never aborts the
// batch.
func (c *Client) RollbackChanges(ctx context.Context, paths []string, reverted ItemReverted, progress Progress) *RollbackOutcome {
	out := newRollbackOutcome()

	log := c.log.With().
		Str("op", uuid.NewString()).
		Str("kind", "rollback-changes").
		Logger()

	groups, orphans := c.station.Partition(paths, PartitionOptions{})
	if len(orphans) > 0 {
		out.Errors = append(out.Errors, orphanError(orphans))
	}

	progress.Determinate(true)
	for _, g := range groups {
		if progress.Cancelled() {
			out.Errors = append(out.Errors, ErrCancelled)
			break
		}
		ws := g.Workspace
		log.Debug().Str("workspace", ws.Name).Int("items", len(g.Items)).Msg("undo pending changes")

		serverPaths := make([]string, 0, len(g.Items))
		for _, item := range g.Items {
			serverPaths = append(serverPaths, item.Server)
		}

		progress.Phase("Undoing pending changes")
		outcome := c.undoItems(ctx, ws, serverPaths, progress, out)
		if outcome == nil {
			continue
		}

		for _, item := range g.Items {
			local := item.Local
			if mapped, ok := outcome.Remap[item.Local]; ok {
				local = mapped
			}
			if reverted != nil {
				reverted(local)
			}

			parent := filepath.Dir(local)
			if exists, err := c.fsys.Exists(parent); err == nil && exists {
				out.Refresh = append(out.Refresh, RefreshInstruction{Path: parent, Recursive: true})
			}
		}
	}
	return out
}

// undoItems issues one undo call, applies the returned restore operations,
// merges failures into the outcome, and records rename remap entries.
// Returns nil when the undo call itself failed.
func (c *Client) undoItems(ctx context.Context, ws *WorkspaceInfo, items []string, progress Progress, out *RollbackOutcome) *UndoOutcome {
	outcome, err := c.gw.Undo(ctx, ws, items)
	if err != nil {
		out.Errors = append(out.Errors, &TransportError{Workspace: ws.Name, Phase: "undo", Err: err})
		return nil
	}

	for _, f := range outcome.Failures {
		local := f.Item
		if l, ok := ws.LocalPathOf(f.Item); ok {
			local = l
		}
		out.Errors = append(out.Errors, &ItemError{Path: local, Op: "undo", Err: errors.New(f.Message)})
	}

	out.Errors = append(out.Errors, c.apply.Apply(ctx, ws, outcome.Operations, ModeUndo, progress)...)

	for original, restored := range outcome.Remap {
		out.Remap[original] = restored
	}
	return &outcome
}

func newRollbackOutcome() *RollbackOutcome {
	return &RollbackOutcome{Remap: map[string]string{}}
}

// missingDeletionVisitor routes classifications for the missing-file
// deletion rollback. Items still pending locally are undone; synced items
// are re-downloaded at their recorded local version; the remaining
// classifications contradict a missing tracked file and are fatal.
type missingDeletionVisitor struct {
	download []GetRequest
	undo     []string
}

func (v *missingDeletionVisitor) Unversioned(path ItemPath, status ServerStatus) error {
	return &ProtocolViolationError{Operation: "missing file deletion rollback", LocalPath: path.Local, Status: status.Kind}
}

func (v *missingDeletionVisitor) CheckedOutForEdit(path ItemPath, status ServerStatus) error {
	v.undo = append(v.undo, status.TargetItem)
	return nil
}

func (v *missingDeletionVisitor) ScheduledForAddition(path ItemPath, status ServerStatus) error {
	v.undo = append(v.undo, status.TargetItem)
	return nil
}

func (v *missingDeletionVisitor) ScheduledForDeletion(path ItemPath, status ServerStatus) error {
	return &ProtocolViolationError{Operation: "missing file deletion rollback", LocalPath: path.Local, Status: status.Kind}
}

func (v *missingDeletionVisitor) OutOfDate(path ItemPath, status ServerStatus) error {
	v.addForDownload(status)
	return nil
}

func (v *missingDeletionVisitor) Deleted(path ItemPath, status ServerStatus) error {
	return &ProtocolViolationError{Operation: "missing file deletion rollback", LocalPath: path.Local, Status: status.Kind}
}

func (v *missingDeletionVisitor) UpToDate(path ItemPath, status ServerStatus) error {
	v.addForDownload(status)
	return nil
}

func (v *missingDeletionVisitor) Renamed(path ItemPath, status ServerStatus) error {
	v.undo = append(v.undo, status.TargetItem)
	return nil
}

func (v *missingDeletionVisitor) RenamedCheckedOut(path ItemPath, status ServerStatus) error {
	v.undo = append(v.undo, status.TargetItem)
	return nil
}

func (v *missingDeletionVisitor) Undeleted(path ItemPath, status ServerStatus) error {
	v.addForDownload(status)
	return nil
}

func (v *missingDeletionVisitor) addForDownload(status ServerStatus) {
	v.download = append(v.download, GetRequest{
		Item:      status.TargetItem,
		Recursion: RecursionNone,
		Version:   ChangesetVersion(status.LocalVersion),
	})
}
