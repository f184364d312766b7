package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeAdded         EventType = "node_added"
	EventNodeMoved         EventType = "node_moved"
	EventNodeUpdated       EventType = "node_updated"
	EventNodeDeleted       EventType = "node_deleted"
	EventConnectionAdded   EventType = "connection_added"
	EventConnectionRemoved EventType = "connection_removed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// NodeEvent reports a change to a single node.
type NodeEvent struct {
	EventBase
	NodeID   string   `json:"node_id"`
	NodeType NodeType `json:"node_type"`
	Position Point    `json:"position"`
}

// ConnectionEvent reports a connection entering or leaving the graph.
type ConnectionEvent struct {
	EventBase
	Connection Connection `json:"connection"`
	// Replaced is set when the connection was dropped to make room for a new
	// outgoing edge from the same source.
	Replaced bool `json:"replaced,omitempty"`
}

// LifecycleHooks defines callbacks for editor observability.
// Any hook may be nil.
type LifecycleHooks struct {
	OnNodeAdded         func(context.Context, *NodeEvent)
	OnNodeMoved         func(context.Context, *NodeEvent)
	OnNodeUpdated       func(context.Context, *NodeEvent)
	OnNodeDeleted       func(context.Context, *NodeEvent)
	OnConnectionAdded   func(context.Context, *ConnectionEvent)
	OnConnectionRemoved func(context.Context, *ConnectionEvent)
}

// Merge chains two hook sets; h runs before other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnNodeAdded:         chainNode(h.OnNodeAdded, other.OnNodeAdded),
		OnNodeMoved:         chainNode(h.OnNodeMoved, other.OnNodeMoved),
		OnNodeUpdated:       chainNode(h.OnNodeUpdated, other.OnNodeUpdated),
		OnNodeDeleted:       chainNode(h.OnNodeDeleted, other.OnNodeDeleted),
		OnConnectionAdded:   chainConn(h.OnConnectionAdded, other.OnConnectionAdded),
		OnConnectionRemoved: chainConn(h.OnConnectionRemoved, other.OnConnectionRemoved),
	}
}

func chainNode(a, b func(context.Context, *NodeEvent)) func(context.Context, *NodeEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *NodeEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainConn(a, b func(context.Context, *ConnectionEvent)) func(context.Context, *ConnectionEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *ConnectionEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
