package editor

import "github.com/aretw0/flowcanvas/pkg/domain"

// State is the ephemeral interaction state of one canvas. It is never part
// of the graph. Empty strings mean "none".
//
// Selection and the pending connection are independent axes. At most one
// drag style is active: either a template is being dragged in from the
// toolbar (DraggedTemplate) or an existing node is being moved (ActiveDrag).
type State struct {
	SelectedNodeID  string `json:"selected_node_id,omitempty"`
	ConnectingFrom  string `json:"connecting_from,omitempty"`
	DraggedTemplate string `json:"dragged_template,omitempty"`
	ActiveDrag      *Drag  `json:"active_drag,omitempty"`
}

// Drag tracks an existing node following the pointer.
// Offset is the initial pointer position minus the initial node position.
type Drag struct {
	NodeID string       `json:"node_id"`
	Offset domain.Point `json:"offset"`
}

// Idle reports whether nothing is selected, pending or being dragged.
func (s State) Idle() bool {
	return s.SelectedNodeID == "" && s.ConnectingFrom == "" && s.DraggedTemplate == "" && s.ActiveDrag == nil
}

// Connecting reports whether a connection source is waiting for its target.
func (s State) Connecting() bool {
	return s.ConnectingFrom != ""
}

// Dragging reports whether a node drag is in progress.
func (s State) Dragging() bool {
	return s.ActiveDrag != nil
}
