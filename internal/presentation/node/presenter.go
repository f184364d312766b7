// Package node renders the chrome of a single canvas node and forwards the
// user's gestures on it. It never touches the graph.
package node

import (
	"github.com/aretw0/flowcanvas/pkg/domain"
)

// Placeholder is shown when a node has no message yet.
const Placeholder = "Click to edit message"

const (
	hintConnect = "Connect to another node"
	hintPending = "Click another node to connect"
)

// Gestures receives what the user does to a node.
type Gestures interface {
	Select(nodeID string)
	BeginDrag(nodeID string, pointer, nodePosition domain.Point)
	Delete(nodeID string)
	ToggleConnect(nodeID string)
}

// View is everything needed to draw one node.
type View struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Body   string      `json:"body"`
	Bounds domain.Rect `json:"bounds"`

	SourceHandle domain.Point `json:"source_handle"`
	TargetHandle domain.Point `json:"target_handle"`

	Selected   bool `json:"selected"`
	Connecting bool `json:"connecting"`
	Hovering   bool `json:"hovering"`
	Dragging   bool `json:"dragging"`

	// ConnectHint is the link button tooltip.
	ConnectHint string `json:"connect_hint"`
	// Badge is shown above the node while it is the pending connection source.
	Badge string `json:"badge,omitempty"`
}

// Presenter is bound to one node. Its hover and drag flags are local visual
// state and never reach the graph.
type Presenter struct {
	node     domain.Node
	gestures Gestures
	hovering bool
	dragging bool
}

// New binds a presenter to node.
func New(n domain.Node, g Gestures) *Presenter {
	return &Presenter{node: n, gestures: g}
}

// Bind refreshes the node after a re-render, keeping the local flags.
func (p *Presenter) Bind(n domain.Node) {
	p.node = n
}

// MouseDown starts dragging the node (the controller also selects it).
func (p *Presenter) MouseDown(pointer domain.Point) {
	p.dragging = true
	p.gestures.BeginDrag(p.node.ID, pointer, p.node.Position)
}

// MouseUp clears the local drag flag.
func (p *Presenter) MouseUp() {
	p.dragging = false
}

// Click selects the node.
func (p *Presenter) Click() {
	p.gestures.Select(p.node.ID)
}

// ConnectClick is the link button in the header.
func (p *Presenter) ConnectClick() {
	p.gestures.ToggleConnect(p.node.ID)
}

// SourceHandleClick is the dot on the right edge; it behaves like ConnectClick.
func (p *Presenter) SourceHandleClick() {
	p.gestures.ToggleConnect(p.node.ID)
}

// DeleteClick is the trash button in the header.
func (p *Presenter) DeleteClick() {
	p.gestures.Delete(p.node.ID)
}

func (p *Presenter) MouseEnter() { p.hovering = true }
func (p *Presenter) MouseLeave() { p.hovering = false }

// View renders the node given the controller's selection and connection state.
func (p *Presenter) View(selected, connecting bool) View {
	v := Render(p.node, selected, connecting)
	v.Hovering = p.hovering
	v.Dragging = p.dragging
	return v
}

// Render builds a View without any local flags.
func Render(n domain.Node, selected, connecting bool) View {
	body := n.Message()
	if body == "" {
		body = Placeholder
	}
	v := View{
		ID:           n.ID,
		Title:        "Message",
		Body:         body,
		Bounds:       n.Bounds(),
		SourceHandle: n.SourceAnchor(),
		TargetHandle: n.TargetAnchor(),
		Selected:     selected,
		Connecting:   connecting,
		ConnectHint:  hintConnect,
	}
	if connecting {
		v.ConnectHint = hintPending
		v.Badge = hintPending
	}
	return v
}
