package flowcanvas

import (
	"fmt"

	"github.com/aretw0/flowcanvas/internal/editor"
	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/aretw0/flowcanvas/pkg/dsl"
	"github.com/aretw0/flowcanvas/pkg/graph"
)

// Version is the release of this module. Overridden at build time with
// -ldflags "-X github.com/aretw0/flowcanvas.Version=...".
var Version = "0.1.0"

type (
	// Editor is one canvas session.
	Editor = editor.Editor
	// Option configures an Editor.
	Option = editor.Option
	// Event is a user gesture.
	Event = editor.Event
	// Point is a canvas coordinate.
	Point = domain.Point
	// Snapshot is a detached copy of a session.
	Snapshot = domain.Snapshot

	NodeClicked       = editor.NodeClicked
	CanvasClicked     = editor.CanvasClicked
	ConnectToggled    = editor.ConnectToggled
	NodeDeleted       = editor.NodeDeleted
	TemplatePicked    = editor.TemplatePicked
	TemplateDropped   = editor.TemplateDropped
	TemplateDragEnded = editor.TemplateDragEnded
	PointerDown       = editor.PointerDown
	PointerMoved      = editor.PointerMoved
	PointerUp         = editor.PointerUp
	PanelEdited       = editor.PanelEdited
	PanelKey          = editor.PanelKey
	PanelSaved        = editor.PanelSaved
	PanelClosed       = editor.PanelClosed
)

var (
	WithSessionID      = editor.WithSessionID
	WithGraph          = editor.WithGraph
	WithLifecycleHooks = editor.WithLifecycleHooks
	WithLogger         = editor.WithLogger
	WithClock          = editor.WithClock
)

// New creates an idle editor on an empty canvas.
func New(opts ...Option) *Editor {
	return editor.New(opts...)
}

// FromBuilder starts an editor on a graph assembled with the dsl package.
func FromBuilder(b *dsl.Builder, opts ...Option) (*Editor, error) {
	g, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build canvas: %w", err)
	}
	return editor.New(append([]Option{editor.WithGraph(g)}, opts...)...), nil
}

// Demo is a small welcome flow for trying the editor out.
func Demo(opts ...graph.Option) (*graph.Graph, error) {
	b := dsl.New()
	b.Add("start").Start("Welcome! What can I help you with?").At(40, 120).Go("ask")
	b.Add("ask").Condition("Has an order?", "order_id != ''").At(360, 120).Go("lookup")
	b.Add("lookup").Action("Look up the order", "orders.fetch").At(680, 120).Go("reply")
	b.Add("reply").Message("Here is what I found.").At(1000, 120)
	return b.Build(opts...)
}
