package tfs

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/fidelfly/tfsIntegration/fs"
)

// Options configures a Client.
type Options struct {
	// Workstation is the REQUIRED local workspace registry.
	Workstation *Workstation

	// Gateway is the REQUIRED server collaborator.
	Gateway Gateway

	// FS is the REQUIRED local filesystem collaborator.
	FS fs.Filesystem

	// Logger is an optional structured logger. Defaults to a nop logger.
	Logger *zerolog.Logger

	// Policies are evaluated before every checkin. Optional.
	Policies []CheckinPolicy
}

// Validate checks that the Options are properly configured.
func (o *Options) Validate() error {
	if o.Workstation == nil {
		return WrapError(ErrInvalidOptions, "Workstation is required")
	}
	if o.Gateway == nil {
		return WrapError(ErrInvalidOptions, "Gateway is required")
	}
	if o.FS == nil {
		return WrapError(ErrInvalidOptions, "FS is required")
	}
	return nil
}

// applyDefaults sets default values for any unset fields in Options.
func (o *Options) applyDefaults() {
	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}
}

// Client drives checkin and rollback reconciliation between a local file
// tree and the version-control server. One logical operation runs
// synchronously on the invoking goroutine; workspaces are processed
// strictly sequentially because commits are not atomic across workspaces.
type Client struct {
	station    *Workstation
	gw         Gateway
	fsys       fs.Filesystem
	log        zerolog.Logger
	policies   []CheckinPolicy
	classifier *Classifier
	apply      *ApplyEngine
}

// New creates a Client from the given options.
func New(opts *Options) (*Client, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.applyDefaults()

	return &Client{
		station:    opts.Workstation,
		gw:         opts.Gateway,
		fsys:       opts.FS,
		log:        *opts.Logger,
		policies:   opts.Policies,
		classifier: NewClassifier(opts.Gateway, opts.FS),
		apply:      NewApplyEngine(opts.Gateway, opts.FS, *opts.Logger),
	}, nil
}

// RefreshInstruction tells the caller which local path to refresh after an
// operation returns. The engine returns these instead of calling back into
// the embedding environment.
type RefreshInstruction struct {
	// Path is the local path to refresh.
	Path string

	// Recursive asks for a subtree refresh instead of a single entry.
	Recursive bool
}

// orphanError builds the single error reported for unmapped input paths.
func orphanError(orphans []string) error {
	return WrapErrorf(ErrNoMapping, "no workspace mapping found for: %s", strings.Join(orphans, ", "))
}
