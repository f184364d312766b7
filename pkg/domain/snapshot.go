package domain

// Snapshot is a detached copy of an editor session: the graph plus the
// interaction fields a front-end needs to redraw.
type Snapshot struct {
	SessionID      string       `json:"session_id,omitempty"`
	Nodes          []Node       `json:"nodes"`
	Connections    []Connection `json:"connections"`
	SelectedNodeID string       `json:"selected_node_id,omitempty"`
	ConnectingFrom string       `json:"connecting_from,omitempty"`
	DraggingNodeID string       `json:"dragging_node_id,omitempty"`
	Panel          *PanelView   `json:"panel,omitempty"`
}

// PanelView is the visible part of the side panel.
type PanelView struct {
	NodeID string `json:"node_id"`
	Draft  string `json:"draft"`
}

// Node returns the node with the given id from the snapshot.
func (s *Snapshot) Node(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}
