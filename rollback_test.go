package tfs

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollbackModifiedWithoutCheckout(t *testing.T) {
	tc := setupTestClient(t)
	tc.writeLocal(t, "/work/proj/a.txt", "locally modified")

	tc.gw.getFn = func(ws *WorkspaceInfo, requests []GetRequest) ([]GetOperation, error) {
		require.Len(t, requests, 1)
		assert.Equal(t, "$/proj/a.txt", requests[0].Item)
		// Forced redownload pins to the workspace baseline.
		spec, ok := requests[0].Version.(WorkspaceVersion)
		require.True(t, ok)
		assert.Equal(t, "ws1", spec.Name)
		assert.Equal(t, "alice", spec.Owner)

		return []GetOperation{{
			ServerPath:  "$/proj/a.txt",
			TargetLocal: "/work/proj/a.txt",
			Version:     10,
			Type:        ItemFile,
		}}, nil
	}
	tc.gw.downloadFn = func(_ *WorkspaceInfo, _ GetOperation) (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader([]byte("server content"))), nil
	}

	out := tc.client.RollbackModifiedWithoutCheckout(tc.ctx, []string{"/work/proj/a.txt"}, NopProgress{})
	assert.Empty(t, out.Errors)

	data, err := tc.fs.ReadFile("/work/proj/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "server content", string(data))

	ro, err := tc.fs.IsReadOnly("/work/proj/a.txt")
	require.NoError(t, err)
	assert.True(t, ro, "restored file is read-only")
}

func TestRollbackModifiedWithoutCheckoutIdempotent(t *testing.T) {
	tc := setupTestClient(t)
	tc.writeLocal(t, "/work/proj/a.txt", "server content")

	// An up-to-date unmodified file resolves to no operations.
	tc.gw.getFn = func(_ *WorkspaceInfo, _ []GetRequest) ([]GetOperation, error) {
		return nil, nil
	}

	out := tc.client.RollbackModifiedWithoutCheckout(tc.ctx, []string{"/work/proj/a.txt"}, NopProgress{})
	assert.Empty(t, out.Errors)
	assert.Empty(t, tc.gw.downloads, "nothing downloaded for an up-to-date file")

	data, err := tc.fs.ReadFile("/work/proj/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "server content", string(data))
}

func TestMissingFileDeletionRouting(t *testing.T) {
	tests := []struct {
		name          string
		kind          StatusKind
		wantUndo      bool
		wantDownload  bool
		wantViolation bool
	}{
		{name: "checked out for edit", kind: StatusCheckedOutForEdit, wantUndo: true},
		{name: "scheduled for addition", kind: StatusScheduledForAddition, wantUndo: true},
		{name: "renamed", kind: StatusRenamed, wantUndo: true},
		{name: "renamed checked out", kind: StatusRenamedCheckedOut, wantUndo: true},
		{name: "out of date", kind: StatusOutOfDate, wantDownload: true},
		{name: "up to date", kind: StatusUpToDate, wantDownload: true},
		{name: "undeleted", kind: StatusUndeleted, wantDownload: true},
		{name: "unversioned is a violation", kind: StatusUnversioned, wantViolation: true},
		{name: "scheduled for deletion is a violation", kind: StatusScheduledForDeletion, wantViolation: true},
		{name: "deleted is a violation", kind: StatusDeleted, wantViolation: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &missingDeletionVisitor{}
			path := ItemPath{Local: "/work/proj/c.txt", Server: "$/proj/c.txt"}
			status := ServerStatus{Kind: tt.kind, TargetItem: "$/proj/c.txt", LocalVersion: 8}

			err := VisitByStatus(path, status, v)

			if tt.wantViolation {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrProtocolViolation))
				var pv *ProtocolViolationError
				require.True(t, errors.As(err, &pv))
				assert.Equal(t, tt.kind, pv.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUndo, len(v.undo) == 1, "undo routing")
			assert.Equal(t, tt.wantDownload, len(v.download) == 1, "download routing")
			if tt.wantDownload {
				assert.Equal(t, ChangesetVersion(8), v.download[0].Version, "download pinned to recorded local version")
			}
		})
	}
}

func TestMissingFileDeletionRestoresTrackedFile(t *testing.T) {
	tc := setupTestClient(t)
	// C is tracked but missing locally.

	tc.gw.queryExtendedItemsFn = func(_ *WorkspaceInfo, _ []ItemPath) ([]ExtendedItem, error) {
		return []ExtendedItem{{
			TargetItem:    "$/proj/c.txt",
			SourceItem:    "$/proj/c.txt",
			LocalVersion:  10,
			LatestVersion: 10,
		}}, nil
	}
	tc.gw.getFn = func(_ *WorkspaceInfo, requests []GetRequest) ([]GetOperation, error) {
		require.Len(t, requests, 1)
		assert.Equal(t, ChangesetVersion(10), requests[0].Version)
		return []GetOperation{{
			ServerPath:  "$/proj/c.txt",
			TargetLocal: "/work/proj/c.txt",
			Version:     10,
			Type:        ItemFile,
		}}, nil
	}
	tc.gw.downloadFn = func(_ *WorkspaceInfo, _ GetOperation) (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader([]byte("restored"))), nil
	}

	out, err := tc.client.RollbackMissingFileDeletion(tc.ctx, []string{"/work/proj/c.txt"}, NopProgress{})
	require.NoError(t, err)
	assert.Empty(t, out.Errors)

	// A download ran, never an undo.
	assert.Empty(t, tc.gw.undoCalls)
	data, readErr := tc.fs.ReadFile("/work/proj/c.txt")
	require.NoError(t, readErr)
	assert.Equal(t, "restored", string(data))
}

func TestMissingFileDeletionUndoesPendingEdit(t *testing.T) {
	tc := setupTestClient(t)

	tc.gw.queryExtendedItemsFn = func(_ *WorkspaceInfo, _ []ItemPath) ([]ExtendedItem, error) {
		return []ExtendedItem{{
			TargetItem:    "$/proj/c.txt",
			SourceItem:    "$/proj/c.txt",
			Change:        ChangeEdit,
			LocalVersion:  10,
			LatestVersion: 10,
		}}, nil
	}

	out, err := tc.client.RollbackMissingFileDeletion(tc.ctx, []string{"/work/proj/c.txt"}, NopProgress{})
	require.NoError(t, err)
	assert.Empty(t, out.Errors)

	require.Len(t, tc.gw.undoCalls, 1)
	assert.Equal(t, []string{"$/proj/c.txt"}, tc.gw.undoCalls[0])
	assert.Empty(t, tc.gw.getCalls, "no download for an item routed to undo")
}

func TestMissingFileDeletionViolationIsFatal(t *testing.T) {
	tc := setupTestClient(t)

	tc.gw.queryExtendedItemsFn = func(_ *WorkspaceInfo, _ []ItemPath) ([]ExtendedItem, error) {
		// Server does not know the item at all.
		return nil, nil
	}

	out, err := tc.client.RollbackMissingFileDeletion(tc.ctx, []string{"/work/proj/c.txt"}, NopProgress{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProtocolViolation))

	// Fatal: no mutating call was made.
	assert.Empty(t, tc.gw.undoCalls)
	assert.Empty(t, tc.gw.getCalls)
	assert.NotEmpty(t, out.Errors)
}

func TestMissingFileDeletionDownloadsBeforeUndo(t *testing.T) {
	tc := setupTestClient(t)

	var order []string
	tc.gw.queryExtendedItemsFn = func(_ *WorkspaceInfo, _ []ItemPath) ([]ExtendedItem, error) {
		return []ExtendedItem{
			{TargetItem: "$/proj/edit.txt", SourceItem: "$/proj/edit.txt", Change: ChangeEdit, LocalVersion: 10, LatestVersion: 10},
			{TargetItem: "$/proj/sync.txt", SourceItem: "$/proj/sync.txt", LocalVersion: 10, LatestVersion: 10},
		}, nil
	}
	tc.gw.getFn = func(_ *WorkspaceInfo, _ []GetRequest) ([]GetOperation, error) {
		order = append(order, "get")
		return nil, nil
	}
	tc.gw.undoFn = func(_ *WorkspaceInfo, _ []string) (UndoOutcome, error) {
		order = append(order, "undo")
		return UndoOutcome{}, nil
	}

	_, err := tc.client.RollbackMissingFileDeletion(tc.ctx, []string{"/work/proj/edit.txt", "/work/proj/sync.txt"}, NopProgress{})
	require.NoError(t, err)
	assert.Equal(t, []string{"get", "undo"}, order)
}

func TestRollbackChangesRemapUsedForRefresh(t *testing.T) {
	tc := setupTestClient(t)
	require.NoError(t, tc.fs.MkdirAll("/work/proj/newdir", 0o755))
	require.NoError(t, tc.fs.MkdirAll("/work/proj/olddir", 0o755))
	tc.writeLocal(t, "/work/proj/newdir/renamed.txt", "x")

	tc.gw.undoFn = func(_ *WorkspaceInfo, items []string) (UndoOutcome, error) {
		return UndoOutcome{
			Remap: map[string]string{
				"/work/proj/newdir/renamed.txt": "/work/proj/olddir/orig.txt",
			},
		}, nil
	}

	var notified []string
	out := tc.client.RollbackChanges(tc.ctx, []string{"/work/proj/newdir/renamed.txt"}, func(local string) {
		notified = append(notified, local)
	}, NopProgress{})

	assert.Empty(t, out.Errors)

	// The completion notification and the refresh use the remapped path.
	assert.Equal(t, []string{"/work/proj/olddir/orig.txt"}, notified)
	require.Len(t, out.Refresh, 1)
	assert.Equal(t, "/work/proj/olddir", out.Refresh[0].Path)
	assert.Equal(t, "/work/proj/olddir/orig.txt", out.Remap["/work/proj/newdir/renamed.txt"])
}

func TestRollbackChangesPerItemFailureDoesNotAbort(t *testing.T) {
	tc := setupTestClient(t)
	require.NoError(t, tc.fs.MkdirAll("/work/proj", 0o755))
	tc.writeLocal(t, "/work/proj/a.txt", "a")
	tc.writeLocal(t, "/work/proj/b.txt", "b")

	tc.gw.undoFn = func(_ *WorkspaceInfo, items []string) (UndoOutcome, error) {
		return UndoOutcome{
			Failures: []Failure{{Item: "$/proj/a.txt", Message: "item locked"}},
		}, nil
	}

	var notified []string
	out := tc.client.RollbackChanges(tc.ctx, []string{"/work/proj/a.txt", "/work/proj/b.txt"}, func(local string) {
		notified = append(notified, local)
	}, NopProgress{})

	require.Len(t, out.Errors, 1)
	var itemErr *ItemError
	require.True(t, errors.As(out.Errors[0], &itemErr))
	assert.Equal(t, "/work/proj/a.txt", itemErr.Path)

	// Both items were still processed.
	assert.Len(t, notified, 2)
}

func TestRollbackChangesAppliesRestoreOperations(t *testing.T) {
	tc := setupTestClient(t)
	require.NoError(t, tc.fs.MkdirAll("/work/proj", 0o755))
	tc.writeLocal(t, "/work/proj/a.txt", "edited")

	tc.gw.undoFn = func(_ *WorkspaceInfo, _ []string) (UndoOutcome, error) {
		return UndoOutcome{
			Operations: []GetOperation{{
				ServerPath:  "$/proj/a.txt",
				TargetLocal: "/work/proj/a.txt",
				Version:     10,
				Type:        ItemFile,
			}},
		}, nil
	}
	tc.gw.downloadFn = func(_ *WorkspaceInfo, _ GetOperation) (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader([]byte("baseline"))), nil
	}

	out := tc.client.RollbackChanges(tc.ctx, []string{"/work/proj/a.txt"}, nil, NopProgress{})
	assert.Empty(t, out.Errors)

	data, err := tc.fs.ReadFile("/work/proj/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "baseline", string(data))
}

func TestRollbackTransportFailureIsolatesWorkspace(t *testing.T) {
	tc := setupTestClientWith(t, twoWorkspaceStation())
	require.NoError(t, tc.fs.MkdirAll("/work/tools", 0o755))
	tc.writeLocal(t, "/work/tools/t.txt", "t")

	tc.gw.undoFn = func(ws *WorkspaceInfo, _ []string) (UndoOutcome, error) {
		if ws.Name == "ws1" {
			return UndoOutcome{}, errors.New("server unavailable")
		}
		return UndoOutcome{}, nil
	}

	out := tc.client.RollbackChanges(tc.ctx, []string{"/work/proj/a.txt", "/work/tools/t.txt"}, nil, NopProgress{})

	require.Len(t, out.Errors, 1)
	var transportErr *TransportError
	require.True(t, errors.As(out.Errors[0], &transportErr))
	assert.Equal(t, "ws1", transportErr.Workspace)

	// ws2 was still undone.
	require.Len(t, tc.gw.undoCalls, 2)
}
