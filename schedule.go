package tfs

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ScheduleForAddition pends the given unversioned local paths for addition.
// Paths matching no workspace are reported together as one error.
func (c *Client) ScheduleForAddition(ctx context.Context, paths []string, progress Progress) []error {
	return c.schedule(ctx, paths, progress, "schedule-for-addition", true, c.gw.PendAdd)
}

// ScheduleMissingFileForDeletion pends locally missing tracked files for
// deletion. Unmapped paths are skipped silently.
func (c *Client) ScheduleMissingFileForDeletion(ctx context.Context, paths []string, progress Progress) []error {
	return c.schedule(ctx, paths, progress, "schedule-for-deletion", false, c.gw.PendDelete)
}

func (c *Client) schedule(
	ctx context.Context,
	paths []string,
	progress Progress,
	kind string,
	reportOrphans bool,
	pend func(context.Context, *WorkspaceInfo, []ItemPath) ([]Failure, error),
) []error {
	var errs []error

	log := c.log.With().
		Str("op", uuid.NewString()).
		Str("kind", kind).
		Logger()

	groups, orphans := c.station.Partition(paths, PartitionOptions{})
	if reportOrphans && len(orphans) > 0 {
		errs = append(errs, orphanError(orphans))
	}

	for _, g := range groups {
		if progress.Cancelled() {
			errs = append(errs, ErrCancelled)
			break
		}
		ws := g.Workspace
		log.Debug().Str("workspace", ws.Name).Int("items", len(g.Items)).Msg("pending change schedule")

		failures, err := pend(ctx, ws, g.Items)
		if err != nil {
			errs = append(errs, &TransportError{Workspace: ws.Name, Phase: kind, Err: err})
			continue
		}
		for _, f := range failures {
			local := f.Item
			if l, ok := ws.LocalPathOf(f.Item); ok {
				local = l
			}
			errs = append(errs, &ItemError{Path: local, Op: kind, Err: errors.New(f.Message)})
		}
	}
	return errs
}
