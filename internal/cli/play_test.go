package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/flowcanvas/internal/testutils"
	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const connectScript = `
name: connect demo
events:
  - type: connect
    node_id: reply
  - type: connect
    node_id: ask
  - type: select
    node_id: ask
`

func TestPlay_JSON(t *testing.T) {
	path := testutils.WriteFile(t, "connect.yaml", connectScript)

	var out bytes.Buffer
	err := Play(context.Background(), testEnv(true), PlayOptions{ScriptPath: path, Format: FormatJSON}, &out)
	require.NoError(t, err)

	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(out.Bytes(), &snap))
	assert.Equal(t, "connect demo", snap.SessionID)
	assert.Equal(t, "ask", snap.SelectedNodeID)
	assert.Contains(t, snap.Connections, domain.NewConnection("reply", "ask"))
}

func TestPlay_Trace(t *testing.T) {
	path := testutils.WriteFile(t, "connect.yaml", connectScript)

	var out bytes.Buffer
	err := Play(context.Background(), testEnv(true), PlayOptions{ScriptPath: path, Format: FormatMermaid, Trace: true}, &out)
	require.NoError(t, err)

	lines := strings.Split(out.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[0], `"event":"connect"`)
	assert.Contains(t, lines[0], `"connecting_from":"reply"`)
	assert.Contains(t, lines[1], `"added_connections"`)
	assert.Contains(t, lines[2], `"event":"select"`)
	assert.Contains(t, out.String(), "graph LR")
}

func TestPlay_MissingScript(t *testing.T) {
	err := Play(context.Background(), testEnv(false), PlayOptions{ScriptPath: filepath.Join(t.TempDir(), "nope.yaml")}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestPlay_Cancelled(t *testing.T) {
	path := testutils.WriteFile(t, "connect.yaml", connectScript)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Play(ctx, testEnv(true), PlayOptions{ScriptPath: path}, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, handleExecutionError(err))
}
