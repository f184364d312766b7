package dsl

import (
	"fmt"

	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/aretw0/flowcanvas/pkg/graph"
)

// Builder manages the graph construction.
type Builder struct {
	nodes map[string]*NodeBuilder
	order []string
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
	}
}

// Add creates a new message node in the graph.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node: domain.Node{
			ID:   id,
			Type: domain.NodeTypeMessage,
			Data: domain.NewNodeData(domain.NodeTypeMessage, domain.NodeTypeMessage.DefaultMessage()),
		},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Build compiles the nodes into a Graph. Connections are added in node
// declaration order, so the single-outgoing-edge rule applies as usual.
func (b *Builder) Build(opts ...graph.Option) (*graph.Graph, error) {
	nodes := make([]domain.Node, 0, len(b.order))
	for _, id := range b.order {
		nodes = append(nodes, b.nodes[id].node)
	}

	g := graph.FromSnapshot(nodes, nil, opts...)
	for _, id := range b.order {
		target := b.nodes[id].next
		if target == "" {
			continue
		}
		if _, ok := b.nodes[target]; !ok {
			return nil, fmt.Errorf("node %q connects to unknown node %q", id, target)
		}
		g.AddConnection(id, target)
	}
	return g, nil
}
