package graph_test

import (
	"testing"
	"time"

	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/aretw0/flowcanvas/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tickingClock returns a clock that advances one second per call.
func tickingClock() func() time.Time {
	t := time.UnixMilli(1_700_000_000_000)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newGraph() *graph.Graph {
	return graph.New(graph.WithClock(tickingClock()))
}

func TestAddNode(t *testing.T) {
	g := newGraph()

	n := g.AddNode("message", domain.Point{X: 10, Y: 20})
	assert.Equal(t, "message-1700000001000", n.ID)
	assert.Equal(t, domain.NodeTypeMessage, n.Type)
	assert.Equal(t, domain.Point{X: 10, Y: 20}, n.Position)
	assert.Equal(t, "Text Message", n.Message())
	assert.Equal(t, 1, g.Len())
}

func TestAddNode_UnknownTypeFallsBack(t *testing.T) {
	for _, tag := range []string{"webhook", "", "MESSAGE"} {
		g := newGraph()
		n := g.AddNode(tag, domain.Point{})
		assert.Equal(t, domain.NodeTypeMessage, n.Type, tag)
		assert.Equal(t, "Text Message", n.Message(), tag)
		_, ok := n.Data.(*domain.MessageData)
		assert.True(t, ok)
	}
}

func TestAddNode_KnownTypesGetTheirVariant(t *testing.T) {
	g := newGraph()
	start := g.AddNode("start", domain.Point{})
	cond := g.AddNode("condition", domain.Point{})
	act := g.AddNode("action", domain.Point{})

	assert.Equal(t, "Welcome Message", start.Message())
	assert.IsType(t, &domain.ConditionData{}, cond.Data)
	assert.IsType(t, &domain.ActionData{}, act.Data)
}

func TestAddNode_SameMillisecondGetsDistinctIDs(t *testing.T) {
	frozen := time.UnixMilli(42)
	g := graph.New(graph.WithClock(func() time.Time { return frozen }))

	a := g.AddNode("message", domain.Point{})
	b := g.AddNode("message", domain.Point{})
	c := g.AddNode("message", domain.Point{})

	assert.Equal(t, "message-42", a.ID)
	assert.Equal(t, "message-43", b.ID)
	assert.Equal(t, "message-44", c.ID)
}

func TestMoveNode(t *testing.T) {
	g := newGraph()
	a := g.AddNode("message", domain.Point{})
	b := g.AddNode("message", domain.Point{X: 300})
	g.AddConnection(a.ID, b.ID)

	assert.True(t, g.MoveNode(a.ID, domain.Point{X: 5, Y: 6}))
	once := g.Clone()
	assert.True(t, g.MoveNode(a.ID, domain.Point{X: 5, Y: 6}))

	assert.Equal(t, once.Nodes(), g.Nodes(), "moving twice to the same point is idempotent")
	assert.Equal(t, once.Connections(), g.Connections())
	assert.Len(t, g.Connections(), 1, "connections survive moves")

	assert.False(t, g.MoveNode("ghost", domain.Point{X: 1}))
}

func TestDeleteNode_Cascades(t *testing.T) {
	g := newGraph()
	a := g.AddNode("message", domain.Point{})
	b := g.AddNode("message", domain.Point{})
	c := g.AddNode("message", domain.Point{})
	g.AddConnection(a.ID, b.ID)
	g.AddConnection(b.ID, c.ID)
	g.AddConnection(c.ID, a.ID)

	removed := g.DeleteNode(b.ID)
	assert.Len(t, removed, 2)

	for _, conn := range g.Connections() {
		assert.NotEqual(t, b.ID, conn.Source)
		assert.NotEqual(t, b.ID, conn.Target)
	}
	assert.Len(t, g.Connections(), 1)
	_, ok := g.Node(b.ID)
	assert.False(t, ok)

	assert.Nil(t, g.DeleteNode("ghost"))
	assert.Equal(t, 2, g.Len())
}

func TestAddConnection_SingleOutgoingEdge(t *testing.T) {
	g := newGraph()
	a := g.AddNode("message", domain.Point{X: 0, Y: 0})
	b := g.AddNode("message", domain.Point{X: 300, Y: 0})

	added, replaced := g.AddConnection(a.ID, b.ID)
	assert.Nil(t, replaced)
	require.Equal(t, []domain.Connection{{ID: a.ID + "-" + b.ID, Source: a.ID, Target: b.ID}}, g.Connections())
	assert.Equal(t, a.ID+"-"+b.ID, added.ID)

	c := g.AddNode("message", domain.Point{X: 600, Y: 0})
	_, replaced = g.AddConnection(a.ID, c.ID)
	require.NotNil(t, replaced)
	assert.Equal(t, b.ID, replaced.Target)
	assert.Equal(t, []domain.Connection{domain.NewConnection(a.ID, c.ID)}, g.Connections())
}

func TestAddConnection_LastCallWinsForSource(t *testing.T) {
	g := newGraph()
	src := g.AddNode("message", domain.Point{})
	var targets []string
	for i := 0; i < 5; i++ {
		targets = append(targets, g.AddNode("message", domain.Point{}).ID)
	}
	for _, target := range targets {
		g.AddConnection(src.ID, target)
	}

	out, ok := g.Outgoing(src.ID)
	require.True(t, ok)
	assert.Equal(t, targets[len(targets)-1], out.Target)
	assert.Len(t, g.Connections(), 1)
}

func TestAddConnection_Permissive(t *testing.T) {
	g := newGraph()
	a := g.AddNode("message", domain.Point{})
	b := g.AddNode("message", domain.Point{})
	c := g.AddNode("message", domain.Point{})

	g.AddConnection(a.ID, b.ID)
	g.AddConnection(b.ID, a.ID)
	g.AddConnection(c.ID, c.ID)

	assert.Len(t, g.Connections(), 3, "reverse edges and self-loops are kept")
	assert.Len(t, g.Incoming(a.ID), 1)

	g.AddConnection(c.ID, b.ID)
	assert.Len(t, g.Incoming(b.ID), 2, "fan-in is unlimited")
}

func TestUpdateNodeData(t *testing.T) {
	g := newGraph()
	a := g.AddNode("message", domain.Point{})
	cond := g.AddNode("condition", domain.Point{})

	ok, err := g.UpdateNodeData(a.ID, map[string]any{"message": "Hello", "condition": "ignored"})
	require.NoError(t, err)
	assert.True(t, ok)
	got, _ := g.Node(a.ID)
	assert.Equal(t, "Hello", got.Message())

	ok, err = g.UpdateNodeData(cond.ID, map[string]any{"condition": "x > 1"})
	require.NoError(t, err)
	assert.True(t, ok)
	gotCond, _ := g.Node(cond.ID)
	data := gotCond.Data.(*domain.ConditionData)
	assert.Equal(t, "Condition", data.Message, "fields missing from the patch are kept")
	assert.Equal(t, "x > 1", data.Condition)

	ok, err = g.UpdateNodeData("ghost", map[string]any{"message": "x"})
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestNodesAreDetachedCopies(t *testing.T) {
	g := newGraph()
	a := g.AddNode("message", domain.Point{})

	nodes := g.Nodes()
	nodes[0].Data.(*domain.MessageData).Message = "mutated"
	nodes[0].Position = domain.Point{X: 99}

	got, _ := g.Node(a.ID)
	assert.Equal(t, "Text Message", got.Message())
	assert.Equal(t, domain.Point{}, got.Position)
}

func TestAddNode_DefaultMessagesOverride(t *testing.T) {
	g := graph.New(
		graph.WithClock(tickingClock()),
		graph.WithDefaultMessages(map[domain.NodeType]string{domain.NodeTypeMessage: "Hello"}),
	)

	assert.Equal(t, "Hello", g.AddNode("message", domain.Point{}).Message())
	assert.Equal(t, "Condition", g.AddNode("condition", domain.Point{}).Message())
	assert.Equal(t, "Hello", g.Clone().AddNode("", domain.Point{}).Message())
}
