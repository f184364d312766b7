package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/flowcanvas/internal/editor"
	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/aretw0/flowcanvas/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addNode(ctx context.Context, ed *editor.Editor, tmpl string, x float64) string {
	ed.Dispatch(ctx, editor.TemplatePicked{Type: tmpl})
	ed.Dispatch(ctx, editor.TemplateDropped{Pointer: domain.Point{X: x}})
	nodes := ed.Snapshot().Nodes
	return nodes[len(nodes)-1].ID
}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	ctx := context.Background()
	ed := editor.New(editor.WithLifecycleHooks(m.Hooks()))
	m.SessionOpened()

	a := addNode(ctx, ed, "message", 0)
	b := addNode(ctx, ed, "condition", 300)
	c := addNode(ctx, ed, "message", 600)
	ed.Dispatch(ctx, editor.ConnectToggled{NodeID: a})
	ed.Dispatch(ctx, editor.ConnectToggled{NodeID: b})
	ed.Dispatch(ctx, editor.ConnectToggled{NodeID: a})
	ed.Dispatch(ctx, editor.ConnectToggled{NodeID: c}) // replaces a-b

	assert.Equal(t, 2.0, testutil.ToFloat64(m.NodeGauge("message")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NodeGauge("condition")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConnectionGauge()))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.EventCounter(domain.EventConnectionAdded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventCounter(domain.EventConnectionRemoved)))

	ed.Dispatch(ctx, editor.NodeDeleted{NodeID: c})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NodeGauge("message")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ConnectionGauge()), "cascade removal is counted")

	m.Forget(ed.Snapshot())
	m.SessionClosed()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.NodeGauge("message")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.NodeGauge("condition")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SessionGauge()))
}

func TestMetrics_DoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestMetrics_AdoptForget(t *testing.T) {
	m, err := observability.NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	snap := domain.Snapshot{
		Nodes: []domain.Node{
			{ID: "a", Type: domain.NodeTypeStart},
			{ID: "b", Type: domain.NodeTypeMessage},
		},
		Connections: []domain.Connection{{ID: "e", Source: "a", Target: "b"}},
	}
	m.Adopt(snap)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NodeGauge(domain.NodeTypeStart)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConnectionGauge()))

	m.Forget(snap)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.NodeGauge(domain.NodeTypeStart)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ConnectionGauge()))
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx := context.Background()
	ed := editor.New(editor.WithSessionID("s1"), editor.WithLifecycleHooks(observability.LoggingHooks(logger)))
	id := addNode(ctx, ed, "message", 0)
	ed.Dispatch(ctx, editor.PointerDown{NodeID: id})
	ed.Dispatch(ctx, editor.PointerMoved{Pointer: domain.Point{X: 5, Y: 5}})

	out := buf.String()
	assert.Contains(t, out, `"msg":"node_added"`)
	assert.Contains(t, out, `"session_id":"s1"`)
	assert.NotContains(t, out, "node_moved", "moves log at debug")
}
