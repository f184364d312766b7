package graph

import (
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Graph is the in-memory flow: an ordered set of nodes and connections.
//
// Every operation is total. Unknown ids are silent no-ops so that the
// interaction layer never has to handle errors. A Graph is not safe for
// concurrent use.
type Graph struct {
	nodes       []domain.Node
	connections []domain.Connection
	now         func() time.Time
	defaults    map[domain.NodeType]string
}

// Option configures a Graph.
type Option func(*Graph)

// WithClock overrides the time source used to mint node ids.
func WithClock(now func() time.Time) Option {
	return func(g *Graph) {
		g.now = now
	}
}

// WithDefaultMessages overrides the message new nodes start with, per type.
// Types missing from the map keep their built-in default.
func WithDefaultMessages(defaults map[domain.NodeType]string) Option {
	return func(g *Graph) {
		g.defaults = defaults
	}
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FromSnapshot rebuilds a graph from detached nodes and connections.
// Input slices are copied.
func FromSnapshot(nodes []domain.Node, connections []domain.Connection, opts ...Option) *Graph {
	g := New(opts...)
	g.nodes = cloneNodes(nodes)
	g.connections = append([]domain.Connection(nil), connections...)
	return g
}

// AddNode creates a node of the given type at pos and appends it.
// Unknown types fall back to domain.DefaultNodeType. Positions are not bounded.
func (g *Graph) AddNode(nodeType string, pos domain.Point) domain.Node {
	t := domain.ParseNodeType(nodeType)
	n := domain.Node{
		ID:       g.nextID(t),
		Type:     t,
		Position: pos,
		Data:     domain.NewNodeData(t, g.defaultMessage(t)),
	}
	g.nodes = append(g.nodes, n)
	return cloneNode(n)
}

func (g *Graph) defaultMessage(t domain.NodeType) string {
	if msg, ok := g.defaults[t]; ok {
		return msg
	}
	return t.DefaultMessage()
}

// nextID mints "{type}-{unix millis}". On collision the timestamp is advanced
// one millisecond at a time, keeping ids unique inside the graph.
func (g *Graph) nextID(t domain.NodeType) string {
	ms := g.now().UnixMilli()
	for {
		id := string(t) + "-" + strconv.FormatInt(ms, 10)
		if g.index(id) < 0 {
			return id
		}
		ms++
	}
}

// MoveNode replaces the position of node id. Connections follow implicitly
// because their endpoints are derived from node positions.
func (g *Graph) MoveNode(id string, pos domain.Point) bool {
	i := g.index(id)
	if i < 0 {
		return false
	}
	g.nodes[i].Position = pos
	return true
}

// DeleteNode removes node id and every connection touching it.
// It returns the cascaded connections, or nil if the node was unknown.
func (g *Graph) DeleteNode(id string) []domain.Connection {
	i := g.index(id)
	if i < 0 {
		return nil
	}
	g.nodes = append(g.nodes[:i:i], g.nodes[i+1:]...)

	var removed []domain.Connection
	kept := g.connections[:0:0]
	for _, c := range g.connections {
		if c.Touches(id) {
			removed = append(removed, c)
			continue
		}
		kept = append(kept, c)
	}
	g.connections = kept
	return removed
}

// AddConnection links source to target. Any connection already leaving
// source is removed first, so a node never has more than one outgoing edge.
// Self-loops and reverse edges are accepted. The replaced connection, if any,
// is returned alongside the new one.
func (g *Graph) AddConnection(source, target string) (added domain.Connection, replaced *domain.Connection) {
	kept := g.connections[:0:0]
	for _, c := range g.connections {
		if c.Source == source {
			prev := c
			replaced = &prev
			continue
		}
		kept = append(kept, c)
	}
	added = domain.NewConnection(source, target)
	g.connections = append(kept, added)
	return added, replaced
}

// UpdateNodeData merges patch into the data of node id. Keys the node's data
// variant does not define are ignored. It reports whether a node was found.
func (g *Graph) UpdateNodeData(id string, patch map[string]any) (bool, error) {
	i := g.index(id)
	if i < 0 {
		return false, nil
	}
	n := &g.nodes[i]
	data := n.Data
	if data == nil {
		data = domain.NewNodeData(n.Type, "")
	} else {
		data = data.Clone()
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           data,
		WeaklyTypedInput: true,
		ZeroFields:       false,
	})
	if err != nil {
		return true, fmt.Errorf("failed to create data decoder: %w", err)
	}
	if err := dec.Decode(patch); err != nil {
		return true, fmt.Errorf("invalid data patch for node %q: %w", id, err)
	}
	n.Data = data
	return true, nil
}

// SetMessage is UpdateNodeData restricted to the message field.
func (g *Graph) SetMessage(id, message string) bool {
	ok, _ := g.UpdateNodeData(id, map[string]any{domain.KeyMessage: message})
	return ok
}

// Node returns a copy of node id.
func (g *Graph) Node(id string) (domain.Node, bool) {
	i := g.index(id)
	if i < 0 {
		return domain.Node{}, false
	}
	return cloneNode(g.nodes[i]), true
}

// Nodes returns copies of all nodes in insertion order.
func (g *Graph) Nodes() []domain.Node {
	return cloneNodes(g.nodes)
}

// Connections returns all connections in insertion order.
func (g *Graph) Connections() []domain.Connection {
	return append([]domain.Connection(nil), g.connections...)
}

// Outgoing returns the single connection leaving id, if any.
func (g *Graph) Outgoing(id string) (domain.Connection, bool) {
	for _, c := range g.connections {
		if c.Source == id {
			return c, true
		}
	}
	return domain.Connection{}, false
}

// Incoming returns every connection arriving at id.
func (g *Graph) Incoming(id string) []domain.Connection {
	var in []domain.Connection
	for _, c := range g.connections {
		if c.Target == id {
			in = append(in, c)
		}
	}
	return in
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Clone returns an independent deep copy sharing the clock.
func (g *Graph) Clone() *Graph {
	return &Graph{
		nodes:       cloneNodes(g.nodes),
		connections: g.Connections(),
		now:         g.now,
		defaults:    g.defaults,
	}
}

func (g *Graph) index(id string) int {
	for i, n := range g.nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func cloneNode(n domain.Node) domain.Node {
	if n.Data != nil {
		n.Data = n.Data.Clone()
	}
	return n
}

func cloneNodes(nodes []domain.Node) []domain.Node {
	if nodes == nil {
		return nil
	}
	out := make([]domain.Node, len(nodes))
	for i, n := range nodes {
		out[i] = cloneNode(n)
	}
	return out
}
