package tfs

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDeleteOperation(t *testing.T) {
	tc := setupTestClient(t)
	tc.writeLocal(t, "/work/proj/gone.txt", "x")

	errs := tc.client.apply.Apply(tc.ctx, tc.station.Workspaces()[0], []GetOperation{
		{ServerPath: "$/proj/gone.txt", TargetLocal: "/work/proj/gone.txt", Deleted: true, Type: ItemFile},
	}, ModeForce, NopProgress{})
	assert.Empty(t, errs)

	exists, err := tc.fs.Exists("/work/proj/gone.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestApplyDeleteMissingLocalIsNoop(t *testing.T) {
	tc := setupTestClient(t)

	errs := tc.client.apply.Apply(tc.ctx, tc.station.Workspaces()[0], []GetOperation{
		{ServerPath: "$/proj/gone.txt", TargetLocal: "/work/proj/gone.txt", Deleted: true, Type: ItemFile},
	}, ModeForce, NopProgress{})
	assert.Empty(t, errs)
}

func TestApplyPreserveLocalSkipsWritableFile(t *testing.T) {
	tc := setupTestClient(t)
	tc.writeLocal(t, "/work/proj/a.txt", "local edits")

	errs := tc.client.apply.Apply(tc.ctx, tc.station.Workspaces()[0], []GetOperation{
		{ServerPath: "$/proj/a.txt", TargetLocal: "/work/proj/a.txt", Version: 9, Type: ItemFile},
	}, ModePreserveLocal, NopProgress{})
	assert.Empty(t, errs)
	assert.Empty(t, tc.gw.downloads, "writable local file is preserved")

	data, err := tc.fs.ReadFile("/work/proj/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "local edits", string(data))
}

func TestApplyPreserveLocalOverwritesReadOnlyFile(t *testing.T) {
	tc := setupTestClient(t)
	tc.writeLocal(t, "/work/proj/a.txt", "stale")
	require.NoError(t, tc.fs.SetReadOnly("/work/proj/a.txt", true))

	tc.gw.downloadFn = func(_ *WorkspaceInfo, _ GetOperation) (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader([]byte("fresh"))), nil
	}

	errs := tc.client.apply.Apply(tc.ctx, tc.station.Workspaces()[0], []GetOperation{
		{ServerPath: "$/proj/a.txt", TargetLocal: "/work/proj/a.txt", Version: 9, Type: ItemFile},
	}, ModePreserveLocal, NopProgress{})
	assert.Empty(t, errs)

	data, err := tc.fs.ReadFile("/work/proj/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))
}

func TestApplyRenameMovesThenWrites(t *testing.T) {
	tc := setupTestClient(t)
	tc.writeLocal(t, "/work/proj/old.txt", "content")

	tc.gw.downloadFn = func(_ *WorkspaceInfo, _ GetOperation) (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader([]byte("content"))), nil
	}

	errs := tc.client.apply.Apply(tc.ctx, tc.station.Workspaces()[0], []GetOperation{
		{
			ServerPath:  "$/proj/new.txt",
			SourceLocal: "/work/proj/old.txt",
			TargetLocal: "/work/proj/new.txt",
			Version:     9,
			Type:        ItemFile,
		},
	}, ModeUndo, NopProgress{})
	assert.Empty(t, errs)

	exists, err := tc.fs.Exists("/work/proj/old.txt")
	require.NoError(t, err)
	assert.False(t, exists, "source moved away")

	data, err := tc.fs.ReadFile("/work/proj/new.txt")
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestApplyFolderOperationCreatesDirectory(t *testing.T) {
	tc := setupTestClient(t)

	errs := tc.client.apply.Apply(tc.ctx, tc.station.Workspaces()[0], []GetOperation{
		{ServerPath: "$/proj/dir", TargetLocal: "/work/proj/dir", Type: ItemFolder},
	}, ModeForce, NopProgress{})
	assert.Empty(t, errs)

	exists, err := tc.fs.Exists("/work/proj/dir")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Empty(t, tc.gw.downloads, "folders are not downloaded")
}

func TestApplyPerItemFailureDoesNotAbortBatch(t *testing.T) {
	tc := setupTestClient(t)

	tc.gw.downloadFn = func(_ *WorkspaceInfo, op GetOperation) (io.ReadCloser, error) {
		if op.ServerPath == "$/proj/bad.txt" {
			return nil, errors.New("stream reset")
		}
		return io.NopCloser(bytes.NewReader([]byte("ok"))), nil
	}

	errs := tc.client.apply.Apply(tc.ctx, tc.station.Workspaces()[0], []GetOperation{
		{ServerPath: "$/proj/bad.txt", TargetLocal: "/work/proj/bad.txt", Type: ItemFile},
		{ServerPath: "$/proj/good.txt", TargetLocal: "/work/proj/good.txt", Type: ItemFile},
	}, ModeForce, NopProgress{})

	require.Len(t, errs, 1)
	var itemErr *ItemError
	require.True(t, errors.As(errs[0], &itemErr))
	assert.Equal(t, "/work/proj/bad.txt", itemErr.Path)

	// The sibling still landed.
	data, err := tc.fs.ReadFile("/work/proj/good.txt")
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
}

func TestApplyCancellationSkipsRemainingItems(t *testing.T) {
	tc := setupTestClient(t)

	progress := &cancellingProgress{after: 1}
	errs := tc.client.apply.Apply(tc.ctx, tc.station.Workspaces()[0], []GetOperation{
		{ServerPath: "$/proj/a.txt", TargetLocal: "/work/proj/a.txt", Type: ItemFile},
		{ServerPath: "$/proj/b.txt", TargetLocal: "/work/proj/b.txt", Type: ItemFile},
	}, ModeForce, progress)

	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], ErrCancelled))
	assert.Len(t, tc.gw.downloads, 1, "second item skipped")
}
