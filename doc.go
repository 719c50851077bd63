// Package tfs implements the client-side reconciliation core for Team
// Foundation style centralized version control. It keeps a local file tree
// consistent with the server: arbitrary sets of local paths are partitioned
// by the workspace that owns them, each item is classified against server
// state, and the classification drives either the checkin pipeline or one
// of the rollback pipelines.
//
// # Design Principles
//
//   - Classification before mutation - the whole batch is classified before
//     any mutating network call, and a local mutation is applied only after
//     the server confirmed the corresponding item
//   - Partial failure is per item - one item's failure never blocks its
//     siblings, one workspace's failure never blocks other workspaces
//   - Fatal inconsistencies stay fatal - a classification that contradicts
//     the running operation is a protocol violation, never a recoverable
//     per-item error
//
// # Basic Usage
//
// Wire the collaborators and create a client:
//
//	import (
//	    tfs "github.com/fidelfly/tfsIntegration"
//	    billyfs "github.com/fidelfly/tfsIntegration/fs/billy"
//	)
//
//	station := tfs.NewWorkstation(&tfs.WorkspaceInfo{
//	    Name:  "ws1",
//	    Owner: "alice",
//	    Folders: []tfs.WorkingFolder{
//	        {ServerPath: "$/proj", LocalPath: "/work/proj"},
//	    },
//	})
//
//	client, err := tfs.New(&tfs.Options{
//	    Workstation: station,
//	    Gateway:     gateway, // your server transport
//	    FS:          billyfs.NewOSFS("/"),
//	})
//
// Commit local changes:
//
//	outcome := client.Checkin(ctx, paths, tfs.CheckinSession{
//	    Comment: "fix: align offsets",
//	}, tfs.NopProgress{})
//
// Revert pending changes:
//
//	result := client.RollbackChanges(ctx, paths, nil, tfs.NopProgress{})
//
// Both return every per-item and per-workspace failure in the outcome's
// error list; use errors.Is with the package sentinels to branch on kinds.
package tfs
