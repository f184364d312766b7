package dsl

import "github.com/aretw0/flowcanvas/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node    domain.Node
	next    string
	builder *Builder
}

// Message makes the node a message node with the given text.
func (n *NodeBuilder) Message(text string) *NodeBuilder {
	n.node.Type = domain.NodeTypeMessage
	n.node.Data = &domain.MessageData{Message: text}
	return n
}

// Start makes the node the flow entry point.
func (n *NodeBuilder) Start(text string) *NodeBuilder {
	n.node.Type = domain.NodeTypeStart
	n.node.Data = &domain.StartData{Message: text}
	return n
}

// Condition makes the node a branching step.
func (n *NodeBuilder) Condition(label, expr string) *NodeBuilder {
	n.node.Type = domain.NodeTypeCondition
	n.node.Data = &domain.ConditionData{Message: label, Condition: expr}
	return n
}

// Action makes the node trigger the named side-effect.
func (n *NodeBuilder) Action(label, action string) *NodeBuilder {
	n.node.Type = domain.NodeTypeAction
	n.node.Data = &domain.ActionData{Message: label, Action: action}
	return n
}

// At places the node on the canvas.
func (n *NodeBuilder) At(x, y float64) *NodeBuilder {
	n.node.Position = domain.Point{X: x, Y: y}
	return n
}

// Go sets the outgoing connection. Calling it again replaces the target.
func (n *NodeBuilder) Go(target string) *NodeBuilder {
	n.next = target
	return n
}

// Add is a shortcut back to the parent builder, for chaining.
func (n *NodeBuilder) Add(id string) *NodeBuilder {
	return n.builder.Add(id)
}
