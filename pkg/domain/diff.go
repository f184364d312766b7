package domain

import (
	"reflect"
)

// SnapshotDiff represents the changes between two snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type SnapshotDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	// UpsertedNodes holds new nodes and nodes whose type, position or data changed.
	UpsertedNodes []Node `json:"upserted_nodes,omitempty"`
	// RemovedNodes holds the ids of deleted nodes.
	RemovedNodes []string `json:"removed_nodes,omitempty"`

	AddedConnections   []Connection `json:"added_connections,omitempty"`
	RemovedConnections []string     `json:"removed_connections,omitempty"`

	// Interaction fields use pointers so "cleared" (empty string) differs from "unchanged" (nil).
	SelectedNodeID *string    `json:"selected_node_id,omitempty"`
	ConnectingFrom *string    `json:"connecting_from,omitempty"`
	DraggingNodeID *string    `json:"dragging_node_id,omitempty"`
	Panel          *PanelView `json:"panel,omitempty"`
	PanelClosed    bool       `json:"panel_closed,omitempty"`
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, it returns a diff representing the entire newSnap (initial load).
// Returns nil when nothing changed.
func Diff(oldSnap, newSnap *Snapshot) *SnapshotDiff {
	if newSnap == nil {
		return nil
	}
	if oldSnap == nil {
		oldSnap = &Snapshot{}
	}

	diff := &SnapshotDiff{SessionID: newSnap.SessionID}

	// 1. Nodes
	oldNodes := make(map[string]Node, len(oldSnap.Nodes))
	for _, n := range oldSnap.Nodes {
		oldNodes[n.ID] = n
	}
	seen := make(map[string]bool, len(newSnap.Nodes))
	for _, n := range newSnap.Nodes {
		seen[n.ID] = true
		prev, exists := oldNodes[n.ID]
		if !exists || !sameNode(prev, n) {
			diff.UpsertedNodes = append(diff.UpsertedNodes, n)
		}
	}
	for _, n := range oldSnap.Nodes {
		if !seen[n.ID] {
			diff.RemovedNodes = append(diff.RemovedNodes, n.ID)
		}
	}

	// 2. Connections (ids are derived from endpoints, so identity is enough)
	oldConns := make(map[string]bool, len(oldSnap.Connections))
	for _, c := range oldSnap.Connections {
		oldConns[c.ID] = true
	}
	newConns := make(map[string]bool, len(newSnap.Connections))
	for _, c := range newSnap.Connections {
		newConns[c.ID] = true
		if !oldConns[c.ID] {
			diff.AddedConnections = append(diff.AddedConnections, c)
		}
	}
	for _, c := range oldSnap.Connections {
		if !newConns[c.ID] {
			diff.RemovedConnections = append(diff.RemovedConnections, c.ID)
		}
	}

	// 3. Interaction
	diff.SelectedNodeID = changed(oldSnap.SelectedNodeID, newSnap.SelectedNodeID)
	diff.ConnectingFrom = changed(oldSnap.ConnectingFrom, newSnap.ConnectingFrom)
	diff.DraggingNodeID = changed(oldSnap.DraggingNodeID, newSnap.DraggingNodeID)

	switch {
	case newSnap.Panel == nil && oldSnap.Panel != nil:
		diff.PanelClosed = true
	case newSnap.Panel != nil && (oldSnap.Panel == nil || *oldSnap.Panel != *newSnap.Panel):
		p := *newSnap.Panel
		diff.Panel = &p
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func sameNode(a, b Node) bool {
	return a.Type == b.Type && a.Position == b.Position && reflect.DeepEqual(a.Data, b.Data)
}

func changed(old, new string) *string {
	if old == new {
		return nil
	}
	return &new
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return len(d.UpsertedNodes) == 0 &&
		len(d.RemovedNodes) == 0 &&
		len(d.AddedConnections) == 0 &&
		len(d.RemovedConnections) == 0 &&
		d.SelectedNodeID == nil &&
		d.ConnectingFrom == nil &&
		d.DraggingNodeID == nil &&
		d.Panel == nil &&
		!d.PanelClosed
}
