package tfs

import (
	"context"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/fidelfly/tfsIntegration/fs"
)

// DownloadMode controls how resolved get operations treat existing local
// files.
type DownloadMode int8

const (
	// ModeForce overwrites local content unconditionally.
	ModeForce DownloadMode = iota

	// ModePreserveLocal skips items whose local file exists and is
	// writable, keeping local edits.
	ModePreserveLocal

	// ModeUndo restores baseline content after a server-side undo.
	ModeUndo
)

// String returns a human-readable representation of the DownloadMode.
func (m DownloadMode) String() string {
	switch m {
	case ModeForce:
		return "force"
	case ModePreserveLocal:
		return "preserve-local"
	case ModeUndo:
		return "undo"
	default:
		return "unknown"
	}
}

// ApplyEngine executes resolved get operations against local storage.
// Transfer and retry mechanics live in the gateway; the engine only orders
// the local mutations and aggregates per-item errors.
type ApplyEngine struct {
	gw   Gateway
	fsys fs.Filesystem
	log  zerolog.Logger
}

// NewApplyEngine creates an ApplyEngine.
func NewApplyEngine(gw Gateway, fsys fs.Filesystem, log zerolog.Logger) *ApplyEngine {
	return &ApplyEngine{gw: gw, fsys: fsys, log: log}
}

// Apply executes the operations in order. A single item's failure is
// recorded and never blocks siblings; cancellation skips the remaining
// items. Only operations the server returned are applied, so every local
// mutation is backed by a server confirmation for that item.
func (e *ApplyEngine) Apply(ctx context.Context, ws *WorkspaceInfo, ops []GetOperation, mode DownloadMode, progress Progress) []error {
	var errs []error

	for _, op := range ops {
		if progress.Cancelled() {
			errs = append(errs, ErrCancelled)
			break
		}
		progress.Item(op.TargetLocal)

		if err := e.applyOne(ctx, ws, op, mode); err != nil {
			e.log.Debug().Str("item", op.TargetLocal).Err(err).Msg("apply failed")
			errs = append(errs, &ItemError{Path: op.TargetLocal, Op: "apply", Err: err})
		}
	}
	progress.Item("")
	return errs
}

func (e *ApplyEngine) applyOne(ctx context.Context, ws *WorkspaceInfo, op GetOperation, mode DownloadMode) error {
	if op.Deleted {
		return e.removeLocal(op.TargetLocal)
	}

	// A move is applied before content so partially failed downloads still
	// leave the item at its server-confirmed location.
	if op.SourceLocal != "" && op.SourceLocal != op.TargetLocal {
		if exists, err := e.fsys.Exists(op.SourceLocal); err == nil && exists {
			if err := e.fsys.MkdirAll(filepath.Dir(op.TargetLocal), 0o755); err != nil {
				return err
			}
			if err := e.fsys.Rename(op.SourceLocal, op.TargetLocal); err != nil {
				return err
			}
		}
	}

	if op.Type == ItemFolder {
		return e.fsys.MkdirAll(op.TargetLocal, 0o755)
	}

	exists, err := e.fsys.Exists(op.TargetLocal)
	if err != nil {
		return err
	}

	if mode == ModePreserveLocal && exists {
		readOnly, roErr := e.fsys.IsReadOnly(op.TargetLocal)
		if roErr == nil && !readOnly {
			return nil
		}
	}

	rc, err := e.gw.Download(ctx, ws, op)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(rc)
	closeErr := rc.Close()
	if err != nil {
		return err
	}
	if closeErr != nil {
		return closeErr
	}

	if exists {
		if err := e.fsys.SetReadOnly(op.TargetLocal, false); err != nil {
			return err
		}
	} else if err := e.fsys.MkdirAll(filepath.Dir(op.TargetLocal), 0o755); err != nil {
		return err
	}

	if err := e.fsys.WriteFile(op.TargetLocal, data, 0o644); err != nil {
		return err
	}

	// Files stay read-only under TFVC unless checked out.
	return e.fsys.SetReadOnly(op.TargetLocal, true)
}

func (e *ApplyEngine) removeLocal(path string) error {
	exists, err := e.fsys.Exists(path)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	return e.fsys.Remove(path)
}
