package tfs

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/google/uuid"
)

// CheckinOutcome is the result of one checkin operation.
type CheckinOutcome struct {
	// Changesets maps workspace name to the changeset id it produced.
	// Workspaces with nothing to commit or a failed commit are absent.
	Changesets map[string]int

	// Refresh lists the local paths the caller should refresh, including —
	// for added and renamed items — ancestor directories up to the mapping
	// root, because the server may implicitly check in ancestor folders.
	Refresh []RefreshInstruction

	// Errors aggregates every per-item and per-workspace failure. Nothing
	// is thrown past the orchestrator.
	Errors []error
}

// Checkin runs the commit pipeline for the given local paths: partition by
// workspace, query pending changes, upload file content, submit one commit
// call per workspace, then apply post-commit side effects for committed
// items only. A failure in one workspace never blocks the others.
func (c *Client) Checkin(ctx context.Context, paths []string, session CheckinSession, progress Progress) *CheckinOutcome {
	out := &CheckinOutcome{Changesets: map[string]int{}}

	log := c.log.With().
		Str("op", uuid.NewString()).
		Str("kind", "checkin").
		Logger()

	groups, orphans := c.station.Partition(paths, PartitionOptions{})
	if len(orphans) > 0 {
		out.Errors = append(out.Errors, orphanError(orphans))
	}

	progress.Determinate(false)
	for _, g := range groups {
		if progress.Cancelled() {
			out.Errors = append(out.Errors, ErrCancelled)
			break
		}
		log.Debug().Str("workspace", g.Workspace.Name).Int("items", len(g.Items)).Msg("checkin workspace")
		c.checkinWorkspace(ctx, g, session, progress, out)
	}
	return out
}

func (c *Client) checkinWorkspace(ctx context.Context, g WorkspaceGroup, session CheckinSession, progress Progress, out *CheckinOutcome) {
	ws := g.Workspace

	progress.Phase("Loading pending changes")
	pending, err := c.gw.QueryPendingChanges(ctx, ws, g.Items, RecursionNone)
	if err != nil {
		out.Errors = append(out.Errors, &TransportError{Workspace: ws.Name, Phase: "query pending changes", Err: err})
		return
	}
	if len(pending) == 0 {
		return
	}

	if err := c.evaluatePolicies(&session, pending); err != nil {
		out.Errors = append(out.Errors, err)
		return
	}

	// Upload phase. An item that fails upload drops out of the checkin
	// batch; its siblings proceed.
	progress.Phase("Uploading files")
	uploadFailed := make(map[string]bool)
	checkin := make([]string, 0, len(pending))
	for _, pc := range pending {
		if progress.Cancelled() {
			out.Errors = append(out.Errors, ErrCancelled)
			return
		}
		if pc.Type == ItemFile && pc.Change.Contains(ChangeEdit|ChangeAdd) {
			progress.Item(pc.Item.Local)
			if err := c.gw.Upload(ctx, ws, pc); err != nil {
				out.Errors = append(out.Errors, &ItemError{Path: pc.Item.Local, Op: "upload", Err: err})
				uploadFailed[pc.Item.Server] = true
				continue
			}
		}
		checkin = append(checkin, pc.Item.Server)
	}
	progress.Item("")

	if len(checkin) == 0 {
		return
	}

	progress.Phase("Checking in")
	result, err := c.gw.Checkin(ctx, ws, checkin, session)
	if err != nil {
		out.Errors = append(out.Errors, &TransportError{Workspace: ws.Name, Phase: "checkin", Err: err})
		return
	}

	commitFailed := make(map[string]bool, len(result.Failures))
	for _, f := range result.Failures {
		commitFailed[f.Item] = true
		local := f.Item
		if l, ok := ws.LocalPathOf(f.Item); ok {
			local = l
		}
		out.Errors = append(out.Errors, &ItemError{Path: local, Op: "checkin", Err: errors.New(f.Message)})
	}

	// Post-commit side effects touch committed items only; failed items
	// keep their pending state and stay writable.
	for _, pc := range pending {
		if uploadFailed[pc.Item.Server] || commitFailed[pc.Item.Server] {
			continue
		}

		if pc.Type == ItemFile && pc.Change.Contains(ChangeEdit|ChangeAdd|ChangeRename) {
			if exists, exErr := c.fsys.Exists(pc.Item.Local); exErr == nil && exists {
				if err := c.fsys.SetReadOnly(pc.Item.Local, true); err != nil {
					out.Errors = append(out.Errors, &ItemError{Path: pc.Item.Local, Op: "set read-only", Err: err})
				}
			}
		}

		out.Refresh = append(out.Refresh, RefreshInstruction{Path: pc.Item.Local, Recursive: pc.Type == ItemFolder})

		// The server may implicitly check in ancestor folders of added and
		// renamed items, so their ancestors need refreshing too.
		if pc.Change.Contains(ChangeAdd | ChangeRename) {
			if root, ok := ws.MappingRootOf(pc.Item.Local); ok {
				for parent := filepath.Dir(pc.Item.Local); isLocalUnder(parent, root); parent = filepath.Dir(parent) {
					out.Refresh = append(out.Refresh, RefreshInstruction{Path: parent})
				}
			}
		}
	}

	if result.Changeset != 0 {
		out.Changesets[ws.Name] = result.Changeset
		progress.Phase("Updating work items")
		if err := c.gw.UpdateWorkItems(ctx, ws.Owner, session.WorkItems, result.Changeset); err != nil {
			out.Errors = append(out.Errors, &TransportError{Workspace: ws.Name, Phase: "update work items", Err: err})
		}
	}
}

// evaluatePolicies runs the configured checkin policies. Failures abort the
// workspace's checkin unless the session carries an override.
func (c *Client) evaluatePolicies(session *CheckinSession, pending []PendingChange) error {
	var failures []PolicyFailure
	for _, p := range c.policies {
		failures = append(failures, p.Evaluate(session, pending)...)
	}
	if len(failures) == 0 || session.Override != nil {
		return nil
	}

	msg := failures[0].Policy + ": " + failures[0].Message
	for _, f := range failures[1:] {
		msg += "; " + f.Policy + ": " + f.Message
	}
	return WrapErrorf(ErrPolicyNotSatisfied, "%s", msg)
}
