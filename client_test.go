package tfs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billyfs "github.com/fidelfly/tfsIntegration/fs/billy"
)

func TestOptionsValidation(t *testing.T) {
	station := NewWorkstation(&WorkspaceInfo{
		Name:    "ws1",
		Owner:   "alice",
		Folders: []WorkingFolder{{ServerPath: "$/proj", LocalPath: "/work/proj"}},
	})

	tests := []struct {
		name    string
		opts    *Options
		wantErr string
	}{
		{
			name: "valid options",
			opts: &Options{
				Workstation: station,
				Gateway:     &mockGateway{},
				FS:          billyfs.NewInMemoryFS(),
			},
		},
		{
			name: "missing workstation",
			opts: &Options{
				Gateway: &mockGateway{},
				FS:      billyfs.NewInMemoryFS(),
			},
			wantErr: "Workstation is required",
		},
		{
			name: "missing gateway",
			opts: &Options{
				Workstation: station,
				FS:          billyfs.NewInMemoryFS(),
			},
			wantErr: "Gateway is required",
		},
		{
			name: "missing filesystem",
			opts: &Options{
				Workstation: station,
				Gateway:     &mockGateway{},
			},
			wantErr: "FS is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.opts)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.NotNil(t, client)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidOptions))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewDefaultsLogger(t *testing.T) {
	client, err := New(&Options{
		Workstation: NewWorkstation(),
		Gateway:     &mockGateway{},
		FS:          billyfs.NewInMemoryFS(),
	})
	require.NoError(t, err)
	assert.NotNil(t, client)
}
