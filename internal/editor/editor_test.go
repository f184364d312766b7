package editor_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/flowcanvas/internal/editor"
	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pt(x, y float64) domain.Point { return domain.Point{X: x, Y: y} }

func newEditor(opts ...editor.Option) *editor.Editor {
	t := time.UnixMilli(1_700_000_000_000)
	clock := func() time.Time {
		t = t.Add(time.Millisecond)
		return t
	}
	return editor.New(append([]editor.Option{editor.WithClock(clock), editor.WithSessionID("test")}, opts...)...)
}

// drop places a message node the way the toolbar does and returns its id.
func drop(t *testing.T, ed *editor.Editor, x, y float64) string {
	t.Helper()
	ctx := context.Background()
	before := len(ed.Snapshot().Nodes)
	ed.Dispatch(ctx, editor.TemplatePicked{Type: "message"})
	ed.Dispatch(ctx, editor.TemplateDropped{Pointer: pt(x, y)})
	nodes := ed.Snapshot().Nodes
	require.Len(t, nodes, before+1)
	return nodes[len(nodes)-1].ID
}

func TestEditor_ConnectScenario(t *testing.T) {
	ctx := context.Background()
	ed := newEditor()
	a := drop(t, ed, 0, 0)
	b := drop(t, ed, 300, 0)

	ed.Dispatch(ctx, editor.ConnectToggled{NodeID: a})
	assert.Equal(t, a, ed.State().ConnectingFrom)
	ed.Dispatch(ctx, editor.ConnectToggled{NodeID: b})

	snap := ed.Snapshot()
	assert.Equal(t, []domain.Connection{{ID: a + "-" + b, Source: a, Target: b}}, snap.Connections)
	assert.Equal(t, "", snap.ConnectingFrom)

	c := drop(t, ed, 600, 0)
	ed.Dispatch(ctx, editor.ConnectToggled{NodeID: a})
	ed.Dispatch(ctx, editor.ConnectToggled{NodeID: c})

	assert.Equal(t, []domain.Connection{domain.NewConnection(a, c)}, ed.Snapshot().Connections)
}

func TestEditor_ConnectTwiceSelfCancels(t *testing.T) {
	ctx := context.Background()
	ed := newEditor()
	a := drop(t, ed, 0, 0)

	ed.Dispatch(ctx, editor.ConnectToggled{NodeID: a})
	ed.Dispatch(ctx, editor.ConnectToggled{NodeID: a})

	assert.Empty(t, ed.Snapshot().Connections)
	assert.Equal(t, "", ed.State().ConnectingFrom)
}

func TestEditor_PanelSaveScenario(t *testing.T) {
	ctx := context.Background()
	ed := newEditor()
	a := drop(t, ed, 0, 0)

	ed.Dispatch(ctx, editor.NodeClicked{NodeID: a})
	require.NotNil(t, ed.Panel())
	assert.Equal(t, "Text Message", ed.Panel().Draft)

	ed.Dispatch(ctx, editor.PanelEdited{Text: "Hello"})
	ed.Dispatch(ctx, editor.PanelSaved{})

	n, _ := ed.Node(a)
	assert.Equal(t, "Hello", n.Message())
	assert.Nil(t, ed.Panel(), "panel closes after saving")
	assert.Equal(t, "", ed.State().SelectedNodeID)
}

func TestEditor_PanelEnterKey(t *testing.T) {
	ctx := context.Background()
	ed := newEditor()
	a := drop(t, ed, 0, 0)
	ed.Dispatch(ctx, editor.NodeClicked{NodeID: a})

	ed.Dispatch(ctx, editor.PanelEdited{Text: "line one"})
	ed.Dispatch(ctx, editor.PanelKey{Key: "Enter", Shift: true})
	require.NotNil(t, ed.Panel())
	assert.Equal(t, "line one\n", ed.Panel().Draft)

	ed.Dispatch(ctx, editor.PanelKey{Key: "Enter"})
	n, _ := ed.Node(a)
	assert.Equal(t, "line one\n", n.Message())
	assert.Nil(t, ed.Panel())
}

func TestEditor_PanelRemountsOnSelectionChange(t *testing.T) {
	ctx := context.Background()
	ed := newEditor()
	a := drop(t, ed, 0, 0)
	b := drop(t, ed, 300, 0)

	ed.Dispatch(ctx, editor.NodeClicked{NodeID: a})
	ed.Dispatch(ctx, editor.PanelEdited{Text: "draft for a"})
	ed.Dispatch(ctx, editor.NodeClicked{NodeID: b})

	require.NotNil(t, ed.Panel())
	assert.Equal(t, b, ed.Panel().NodeID)
	assert.Equal(t, "Text Message", ed.Panel().Draft, "unsaved draft is discarded")

	ed.Dispatch(ctx, editor.PanelClosed{})
	assert.Nil(t, ed.Panel())
	assert.Equal(t, "", ed.State().SelectedNodeID)
	n, _ := ed.Node(a)
	assert.Equal(t, "Text Message", n.Message())
}

func TestEditor_DragLifecycle(t *testing.T) {
	ctx := context.Background()
	ed := newEditor()
	a := drop(t, ed, 100, 50)

	ed.Dispatch(ctx, editor.PointerMoved{Pointer: pt(999, 999)})
	n, _ := ed.Node(a)
	assert.Equal(t, pt(100, 50), n.Position, "no drag, no move")
	assert.False(t, ed.DragSubscribed())

	ed.Dispatch(ctx, editor.PointerDown{NodeID: a, Pointer: pt(110, 60), NodePosition: n.Position})
	assert.True(t, ed.DragSubscribed())
	assert.Equal(t, a, ed.State().SelectedNodeID)

	ed.Dispatch(ctx, editor.PointerMoved{Pointer: pt(210, 160)})
	ed.Dispatch(ctx, editor.PointerMoved{Pointer: pt(310, 260)})
	n, _ = ed.Node(a)
	assert.Equal(t, pt(300, 250), n.Position)
	assert.Equal(t, a, ed.Snapshot().DraggingNodeID)

	ed.Dispatch(ctx, editor.PointerUp{})
	assert.False(t, ed.DragSubscribed())
	assert.Equal(t, "", ed.Snapshot().DraggingNodeID)

	ed.Dispatch(ctx, editor.PointerMoved{Pointer: pt(0, 0)})
	n, _ = ed.Node(a)
	assert.Equal(t, pt(300, 250), n.Position)
}

func TestEditor_DragUsesStoredNodePosition(t *testing.T) {
	ctx := context.Background()
	for name, given := range map[string]domain.Point{
		"omitted": {},
		"stale":   pt(500, 500),
	} {
		t.Run(name, func(t *testing.T) {
			ed := newEditor()
			a := drop(t, ed, 100, 100)

			ed.Dispatch(ctx, editor.PointerDown{NodeID: a, Pointer: pt(110, 110), NodePosition: given})
			ed.Dispatch(ctx, editor.PointerMoved{Pointer: pt(111, 111)})

			n, _ := ed.Node(a)
			assert.Equal(t, pt(101, 101), n.Position)
		})
	}
}

func TestEditor_DeleteWhileDraggingReleasesSubscription(t *testing.T) {
	ctx := context.Background()
	ed := newEditor()
	a := drop(t, ed, 0, 0)
	b := drop(t, ed, 300, 0)
	ed.Dispatch(ctx, editor.ConnectToggled{NodeID: a})
	ed.Dispatch(ctx, editor.ConnectToggled{NodeID: b})

	ed.Dispatch(ctx, editor.PointerDown{NodeID: a, Pointer: pt(5, 5)})
	require.True(t, ed.DragSubscribed())

	ed.Dispatch(ctx, editor.NodeDeleted{NodeID: a})
	assert.False(t, ed.DragSubscribed())
	snap := ed.Snapshot()
	assert.Len(t, snap.Nodes, 1)
	assert.Empty(t, snap.Connections)
	assert.Equal(t, "", snap.SelectedNodeID)
	assert.Nil(t, snap.Panel)
}

func TestEditor_CloseReleasesSubscription(t *testing.T) {
	ctx := context.Background()
	ed := newEditor()
	a := drop(t, ed, 0, 0)
	ed.Dispatch(ctx, editor.PointerDown{NodeID: a, Pointer: pt(5, 5)})
	require.True(t, ed.DragSubscribed())

	ed.Close()
	ed.Close()
	assert.False(t, ed.DragSubscribed())

	ed.Dispatch(ctx, editor.TemplatePicked{Type: "message"})
	ed.Dispatch(ctx, editor.TemplateDropped{Pointer: pt(1, 1)})
	assert.Len(t, ed.Snapshot().Nodes, 1, "closed editors ignore events")
}

func TestEditor_TemplateDropWithoutPickIsNoop(t *testing.T) {
	ctx := context.Background()
	ed := newEditor()
	ed.Dispatch(ctx, editor.TemplateDropped{Pointer: pt(10, 10)})
	assert.Empty(t, ed.Snapshot().Nodes)
}

func TestEditor_UnknownTemplateFallsBackToMessage(t *testing.T) {
	ctx := context.Background()
	ed := newEditor()
	ed.Dispatch(ctx, editor.TemplatePicked{Type: "webhook"})
	ed.Dispatch(ctx, editor.TemplateDropped{Pointer: pt(300, 100), CanvasOrigin: pt(256, 0)})

	nodes := ed.Snapshot().Nodes
	require.Len(t, nodes, 1)
	assert.Equal(t, domain.NodeTypeMessage, nodes[0].Type)
	assert.Equal(t, "Text Message", nodes[0].Message())
	assert.Equal(t, pt(44, 100), nodes[0].Position)
}

func TestEditor_GesturesForUnknownNodesAreIgnored(t *testing.T) {
	ctx := context.Background()
	ed := newEditor()
	a := drop(t, ed, 0, 0)

	ed.Dispatch(ctx, editor.NodeClicked{NodeID: "ghost"})
	ed.Dispatch(ctx, editor.ConnectToggled{NodeID: a})
	ed.Dispatch(ctx, editor.ConnectToggled{NodeID: "ghost"})

	assert.Equal(t, "", ed.State().SelectedNodeID)
	assert.Equal(t, a, ed.State().ConnectingFrom)
	assert.Empty(t, ed.Snapshot().Connections)
}

func TestEditor_Hooks(t *testing.T) {
	ctx := context.Background()
	var log []string
	hooks := domain.LifecycleHooks{
		OnNodeAdded:   func(_ context.Context, e *domain.NodeEvent) { log = append(log, "add:"+e.NodeID) },
		OnNodeUpdated: func(_ context.Context, e *domain.NodeEvent) { log = append(log, "update:"+e.NodeID) },
		OnNodeDeleted: func(_ context.Context, e *domain.NodeEvent) { log = append(log, "delete:"+e.NodeID) },
		OnConnectionAdded: func(_ context.Context, e *domain.ConnectionEvent) {
			log = append(log, "link:"+e.Connection.ID)
		},
		OnConnectionRemoved: func(_ context.Context, e *domain.ConnectionEvent) {
			if e.Replaced {
				log = append(log, "replace:"+e.Connection.ID)
				return
			}
			log = append(log, "unlink:"+e.Connection.ID)
		},
	}
	ed := newEditor(editor.WithLifecycleHooks(hooks))
	a := drop(t, ed, 0, 0)
	b := drop(t, ed, 300, 0)
	c := drop(t, ed, 600, 0)

	ed.Dispatch(ctx, editor.ConnectToggled{NodeID: a})
	ed.Dispatch(ctx, editor.ConnectToggled{NodeID: b})
	ed.Dispatch(ctx, editor.ConnectToggled{NodeID: a})
	ed.Dispatch(ctx, editor.ConnectToggled{NodeID: c})
	ed.Dispatch(ctx, editor.NodeClicked{NodeID: a})
	ed.Dispatch(ctx, editor.PanelSaved{})
	ed.Dispatch(ctx, editor.NodeDeleted{NodeID: c})

	assert.Equal(t, []string{
		"add:" + a, "add:" + b, "add:" + c,
		"link:" + a + "-" + b,
		"replace:" + a + "-" + b, "link:" + a + "-" + c,
		"update:" + a,
		"unlink:" + a + "-" + c, "delete:" + c,
	}, log)
}

func TestEditor_ApplyReconcilesState(t *testing.T) {
	ctx := context.Background()
	ed := newEditor()
	a := drop(t, ed, 0, 0)
	ed.Dispatch(ctx, editor.NodeClicked{NodeID: a})
	ed.Dispatch(ctx, editor.ConnectToggled{NodeID: a})

	ed.Apply(ctx, editor.DeleteNode{NodeID: a})

	assert.True(t, ed.State().Idle())
	assert.Nil(t, ed.Panel())
}

func TestEditor_SinkDispatchesGestures(t *testing.T) {
	ctx := context.Background()
	ed := newEditor()
	a := drop(t, ed, 0, 0)
	b := drop(t, ed, 300, 0)
	sink := ed.Sink(ctx)

	sink.Select(b)
	assert.Equal(t, b, ed.State().SelectedNodeID)

	sink.ToggleConnect(a)
	sink.ToggleConnect(b)
	assert.Len(t, ed.Snapshot().Connections, 1)

	sink.BeginDrag(a, pt(1, 1), pt(0, 0))
	assert.True(t, ed.DragSubscribed())
	ed.Dispatch(ctx, editor.PointerUp{})

	sink.Delete(b)
	assert.Len(t, ed.Snapshot().Nodes, 1)
}
