package tfs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	billyfs "github.com/fidelfly/tfsIntegration/fs/billy"
)

// testClient bundles a client with its collaborators for tests.
type testClient struct {
	client  *Client
	gw      *mockGateway
	fs      *billyfs.FS
	station *Workstation
	ctx     context.Context
}

// setupTestClient creates a client over an in-memory filesystem, a mock
// gateway and a single workspace mapping $/proj to /work/proj.
func setupTestClient(t *testing.T, policies ...CheckinPolicy) *testClient {
	t.Helper()

	ws := &WorkspaceInfo{
		Name:    "ws1",
		Owner:   "alice",
		Version: 10,
		Folders: []WorkingFolder{
			{ServerPath: "$/proj", LocalPath: "/work/proj"},
		},
	}
	return setupTestClientWith(t, NewWorkstation(ws), policies...)
}

// setupTestClientWith creates a client over the given workstation.
func setupTestClientWith(t *testing.T, station *Workstation, policies ...CheckinPolicy) *testClient {
	t.Helper()

	gw := &mockGateway{}
	memFS := billyfs.NewInMemoryFS()

	client, err := New(&Options{
		Workstation: station,
		Gateway:     gw,
		FS:          memFS,
		Policies:    policies,
	})
	require.NoError(t, err, "failed to create test client")

	return &testClient{
		client:  client,
		gw:      gw,
		fs:      memFS,
		station: station,
		ctx:     context.Background(),
	}
}

// writeLocal creates a local file with content.
func (tc *testClient) writeLocal(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, tc.fs.WriteFile(path, []byte(content), 0o644))
}
