package editor

import (
	"testing"

	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func pt(x, y float64) domain.Point { return domain.Point{X: x, Y: y} }

func TestReduce_Selection(t *testing.T) {
	s, cmds := Reduce(State{}, NodeClicked{NodeID: "a"})
	assert.Equal(t, "a", s.SelectedNodeID)
	assert.Empty(t, cmds)

	s, _ = Reduce(s, NodeClicked{NodeID: "b"})
	assert.Equal(t, "b", s.SelectedNodeID, "switching selection is direct")

	s.ConnectingFrom = "b"
	s, cmds = Reduce(s, CanvasClicked{})
	assert.True(t, s.Idle())
	assert.Empty(t, cmds, "canvas click never commits a pending connection")
}

func TestReduce_ConnectToggle(t *testing.T) {
	tests := []struct {
		name        string
		pending     string
		target      string
		wantPending string
		wantCmds    []Command
	}{
		{name: "Start Connecting", pending: "", target: "a", wantPending: "a"},
		{name: "Same Node Cancels", pending: "a", target: "a", wantPending: ""},
		{name: "Other Node Commits", pending: "a", target: "b", wantPending: "", wantCmds: []Command{AddConnection{Source: "a", Target: "b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, cmds := Reduce(State{ConnectingFrom: tt.pending, SelectedNodeID: "x"}, ConnectToggled{NodeID: tt.target})
			assert.Equal(t, tt.wantPending, s.ConnectingFrom)
			assert.Equal(t, tt.wantCmds, cmds)
			assert.Equal(t, "x", s.SelectedNodeID, "selection is an independent axis")
		})
	}
}

func TestReduce_TemplateDrop(t *testing.T) {
	s, _ := Reduce(State{}, TemplatePicked{Type: "message"})
	assert.Equal(t, "message", s.DraggedTemplate)

	s, cmds := Reduce(s, TemplateDropped{Pointer: pt(500, 300), CanvasOrigin: pt(256, 0), GrabOffset: pt(20, 10)})
	assert.Equal(t, "", s.DraggedTemplate)
	assert.Equal(t, []Command{AddNode{Type: "message", Position: pt(224, 290)}}, cmds)
}

func TestReduce_TemplateDropGuards(t *testing.T) {
	s, cmds := Reduce(State{}, TemplateDropped{Pointer: pt(1, 1)})
	assert.Empty(t, cmds, "no pending template")
	assert.Equal(t, "", s.DraggedTemplate)

	s, cmds = Reduce(State{DraggedTemplate: "message"}, TemplateDropped{Pointer: pt(1, 1), OffCanvas: true})
	assert.Empty(t, cmds, "no canvas under the drop")
	assert.Equal(t, "", s.DraggedTemplate, "template always cleared")

	s, _ = Reduce(State{DraggedTemplate: "message"}, TemplateDragEnded{})
	assert.Equal(t, "", s.DraggedTemplate)
}

func TestReduce_NodeDrag(t *testing.T) {
	s, cmds := Reduce(State{DraggedTemplate: "message"}, PointerDown{NodeID: "a", Pointer: pt(110, 60), NodePosition: pt(100, 50)})
	assert.Empty(t, cmds)
	assert.Equal(t, "a", s.SelectedNodeID, "pressing a node selects it")
	assert.Equal(t, "", s.DraggedTemplate, "only one drag style at a time")
	assert.Equal(t, &Drag{NodeID: "a", Offset: pt(10, 10)}, s.ActiveDrag)

	s, cmds = Reduce(s, PointerMoved{Pointer: pt(210, 160)})
	assert.Equal(t, []Command{MoveNode{NodeID: "a", Position: pt(200, 150)}}, cmds)

	s, cmds = Reduce(s, PointerMoved{Pointer: pt(15, 5)})
	assert.Equal(t, []Command{MoveNode{NodeID: "a", Position: pt(5, -5)}}, cmds)

	s, cmds = Reduce(s, PointerUp{})
	assert.Nil(t, s.ActiveDrag)
	assert.Empty(t, cmds, "moves are continuous, release commits nothing")
	assert.Equal(t, "a", s.SelectedNodeID)

	_, cmds = Reduce(s, PointerMoved{Pointer: pt(1, 1)})
	assert.Empty(t, cmds, "moves without a drag are ignored")
}

func TestReduce_TemplatePickAbandonsNodeDrag(t *testing.T) {
	s := State{ActiveDrag: &Drag{NodeID: "a"}}
	s, _ = Reduce(s, TemplatePicked{Type: "message"})
	assert.Nil(t, s.ActiveDrag)
	assert.Equal(t, "message", s.DraggedTemplate)
}

func TestReduce_DeleteClearsReferences(t *testing.T) {
	s := State{SelectedNodeID: "a", ConnectingFrom: "a", ActiveDrag: &Drag{NodeID: "a"}}
	s, cmds := Reduce(s, NodeDeleted{NodeID: "a"})
	assert.True(t, s.Idle())
	assert.Equal(t, []Command{DeleteNode{NodeID: "a"}}, cmds)

	s = State{SelectedNodeID: "b", ConnectingFrom: "c"}
	s, _ = Reduce(s, NodeDeleted{NodeID: "a"})
	assert.Equal(t, "b", s.SelectedNodeID)
	assert.Equal(t, "c", s.ConnectingFrom)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	in := State{ActiveDrag: &Drag{NodeID: "a", Offset: pt(1, 1)}}
	_, _ = Reduce(in, PointerDown{NodeID: "b", Pointer: pt(9, 9)})
	assert.Equal(t, &Drag{NodeID: "a", Offset: pt(1, 1)}, in.ActiveDrag)
}
