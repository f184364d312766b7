// Package panel implements the side panel that edits the message of the
// selected node.
package panel

import (
	"github.com/aretw0/flowcanvas/pkg/domain"
)

// KeyEnter is the single-line confirm key.
const KeyEnter = "Enter"

// Updater commits a partial data patch into the graph.
type Updater interface {
	UpdateNodeData(nodeID string, patch map[string]any)
}

// Panel holds a local draft of one node's message. The draft is only
// committed on Save. It is keyed to the node id: the host mounts a new
// Panel when the selection moves, and a mounted panel does not pick up
// external changes to the node.
type Panel struct {
	nodeID  string
	draft   string
	open    bool
	updater Updater
	onClose func()
}

// Open mounts a panel for node, seeding the draft with its current message.
// onClose runs once when the panel closes (after save or on Close).
func Open(node domain.Node, updater Updater, onClose func()) *Panel {
	return &Panel{
		nodeID:  node.ID,
		draft:   node.Message(),
		open:    true,
		updater: updater,
		onClose: onClose,
	}
}

// NodeID returns the id the panel is bound to.
func (p *Panel) NodeID() string { return p.nodeID }

// Draft returns the uncommitted text.
func (p *Panel) Draft() string { return p.draft }

// IsOpen reports whether the panel is still mounted.
func (p *Panel) IsOpen() bool { return p.open }

// SetDraft replaces the draft text.
func (p *Panel) SetDraft(text string) {
	if !p.open {
		return
	}
	p.draft = text
}

// Key handles a key press in the text area. Enter alone saves, Enter with
// shift inserts a line break. It reports whether the press saved.
func (p *Panel) Key(key string, shift bool) bool {
	if !p.open || key != KeyEnter {
		return false
	}
	if shift {
		p.draft += "\n"
		return false
	}
	p.Save()
	return true
}

// Save commits the draft as the node message and closes the panel.
func (p *Panel) Save() {
	if !p.open {
		return
	}
	p.updater.UpdateNodeData(p.nodeID, map[string]any{domain.KeyMessage: p.draft})
	p.Close()
}

// Close unmounts the panel without committing.
func (p *Panel) Close() {
	if !p.open {
		return
	}
	p.open = false
	if p.onClose != nil {
		p.onClose()
	}
}

// View returns the visible panel state, or nil once closed.
func (p *Panel) View() *domain.PanelView {
	if p == nil || !p.open {
		return nil
	}
	return &domain.PanelView{NodeID: p.nodeID, Draft: p.draft}
}
