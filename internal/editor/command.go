package editor

import "github.com/aretw0/flowcanvas/pkg/domain"

// Command is a graph mutation emitted by Reduce. The Editor applies commands
// in order after the transition.
type Command interface {
	command()
}

// AddNode creates a node of Type at Position.
type AddNode struct {
	Type     string
	Position domain.Point
}

// MoveNode repositions a node.
type MoveNode struct {
	NodeID   string
	Position domain.Point
}

// DeleteNode removes a node and its connections.
type DeleteNode struct {
	NodeID string
}

// AddConnection links Source to Target, replacing Source's previous edge.
type AddConnection struct {
	Source string
	Target string
}

// UpdateNodeData merges Patch into the node payload.
type UpdateNodeData struct {
	NodeID string
	Patch  map[string]any
}

func (AddNode) command()        {}
func (MoveNode) command()       {}
func (DeleteNode) command()     {}
func (AddConnection) command()  {}
func (UpdateNodeData) command() {}
