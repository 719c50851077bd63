package tfs

import (
	"bytes"
	"context"
	"io"
)

// mockGateway implements Gateway for testing. Each method delegates to an
// optional function field and records its invocations; unset fields return
// zero values.
type mockGateway struct {
	queryPendingChangesFn func(ws *WorkspaceInfo, paths []ItemPath, recursion RecursionType) ([]PendingChange, error)
	queryExtendedItemsFn  func(ws *WorkspaceInfo, paths []ItemPath) ([]ExtendedItem, error)
	uploadFn              func(ws *WorkspaceInfo, change PendingChange) error
	checkinFn             func(ws *WorkspaceInfo, items []string, session CheckinSession) (CheckinResult, error)
	getFn                 func(ws *WorkspaceInfo, requests []GetRequest) ([]GetOperation, error)
	undoFn                func(ws *WorkspaceInfo, items []string) (UndoOutcome, error)
	pendAddFn             func(ws *WorkspaceInfo, paths []ItemPath) ([]Failure, error)
	pendDeleteFn          func(ws *WorkspaceInfo, paths []ItemPath) ([]Failure, error)
	updateWorkItemsFn     func(owner string, actions []WorkItemAction, changeset int) error
	downloadFn            func(ws *WorkspaceInfo, op GetOperation) (io.ReadCloser, error)

	uploaded        []PendingChange
	checkinCalls    [][]string
	getCalls        [][]GetRequest
	undoCalls       [][]string
	workItemUpdates []int
	downloads       []GetOperation
}

func (m *mockGateway) QueryPendingChanges(_ context.Context, ws *WorkspaceInfo, paths []ItemPath, recursion RecursionType) ([]PendingChange, error) {
	if m.queryPendingChangesFn != nil {
		return m.queryPendingChangesFn(ws, paths, recursion)
	}
	return nil, nil
}

func (m *mockGateway) QueryExtendedItems(_ context.Context, ws *WorkspaceInfo, paths []ItemPath) ([]ExtendedItem, error) {
	if m.queryExtendedItemsFn != nil {
		return m.queryExtendedItemsFn(ws, paths)
	}
	return nil, nil
}

func (m *mockGateway) Upload(_ context.Context, ws *WorkspaceInfo, change PendingChange) error {
	m.uploaded = append(m.uploaded, change)
	if m.uploadFn != nil {
		return m.uploadFn(ws, change)
	}
	return nil
}

func (m *mockGateway) Checkin(_ context.Context, ws *WorkspaceInfo, items []string, session CheckinSession) (CheckinResult, error) {
	m.checkinCalls = append(m.checkinCalls, items)
	if m.checkinFn != nil {
		return m.checkinFn(ws, items, session)
	}
	return CheckinResult{}, nil
}

func (m *mockGateway) Get(_ context.Context, ws *WorkspaceInfo, requests []GetRequest) ([]GetOperation, error) {
	m.getCalls = append(m.getCalls, requests)
	if m.getFn != nil {
		return m.getFn(ws, requests)
	}
	return nil, nil
}

func (m *mockGateway) Undo(_ context.Context, ws *WorkspaceInfo, items []string) (UndoOutcome, error) {
	m.undoCalls = append(m.undoCalls, items)
	if m.undoFn != nil {
		return m.undoFn(ws, items)
	}
	return UndoOutcome{}, nil
}

func (m *mockGateway) PendAdd(_ context.Context, ws *WorkspaceInfo, paths []ItemPath) ([]Failure, error) {
	if m.pendAddFn != nil {
		return m.pendAddFn(ws, paths)
	}
	return nil, nil
}

func (m *mockGateway) PendDelete(_ context.Context, ws *WorkspaceInfo, paths []ItemPath) ([]Failure, error) {
	if m.pendDeleteFn != nil {
		return m.pendDeleteFn(ws, paths)
	}
	return nil, nil
}

func (m *mockGateway) UpdateWorkItems(_ context.Context, owner string, actions []WorkItemAction, changeset int) error {
	m.workItemUpdates = append(m.workItemUpdates, changeset)
	if m.updateWorkItemsFn != nil {
		return m.updateWorkItemsFn(owner, actions, changeset)
	}
	return nil
}

func (m *mockGateway) Download(_ context.Context, ws *WorkspaceInfo, op GetOperation) (io.ReadCloser, error) {
	m.downloads = append(m.downloads, op)
	if m.downloadFn != nil {
		return m.downloadFn(ws, op)
	}
	return io.NopCloser(bytes.NewReader(nil)), nil
}

// cancellingProgress cancels after a fixed number of Cancelled checks.
type cancellingProgress struct {
	after int
	calls int
}

func (p *cancellingProgress) Phase(string)     {}
func (p *cancellingProgress) Item(string)      {}
func (p *cancellingProgress) Determinate(bool) {}

func (p *cancellingProgress) Cancelled() bool {
	p.calls++
	return p.calls > p.after
}
