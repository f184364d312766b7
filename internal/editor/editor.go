package editor

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/flowcanvas/internal/logging"
	"github.com/aretw0/flowcanvas/internal/panel"
	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/aretw0/flowcanvas/pkg/graph"
)

// Editor is one canvas session: the graph, the interaction state, the side
// panel and the pointer surface. It runs every event synchronously and is
// not safe for concurrent use; hosts serialize calls per session.
type Editor struct {
	id      string
	graph   *graph.Graph
	state   State
	panel   *panel.Panel
	outbox  *outbox
	surface *Surface
	release func()
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	now     func() time.Time
	closed  bool
}

// Option configures an Editor.
type Option func(*Editor)

// WithSessionID labels hook events and logs.
func WithSessionID(id string) Option {
	return func(e *Editor) {
		e.id = id
	}
}

// WithGraph starts the editor on an existing graph instead of an empty one.
func WithGraph(g *graph.Graph) Option {
	return func(e *Editor) {
		e.graph = g
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Editor) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithClock overrides the time source for node ids and event timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) {
		e.now = now
	}
}

// New creates an idle editor.
func New(opts ...Option) *Editor {
	e := &Editor{
		logger: logging.NewNop(),
		now:    time.Now,
		outbox: &outbox{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.id != "" {
		e.logger = e.logger.With("session_id", e.id)
	}
	if e.graph == nil {
		e.graph = graph.New(graph.WithClock(e.now))
	}
	e.surface = NewSurface(e.logger)
	return e
}

// ID returns the session id the editor was created with.
func (e *Editor) ID() string { return e.id }

// State returns the current interaction state.
func (e *Editor) State() State { return e.state }

// Node returns a copy of a node in the graph.
func (e *Editor) Node(id string) (domain.Node, bool) { return e.graph.Node(id) }

// Graph returns a detached copy of the graph.
func (e *Editor) Graph() *graph.Graph { return e.graph.Clone() }

// Panel returns the mounted side panel view, or nil.
func (e *Editor) Panel() *domain.PanelView { return e.panel.View() }

// Dispatch feeds one gesture through the controller.
func (e *Editor) Dispatch(ctx context.Context, ev Event) {
	if e.closed {
		e.logger.Debug("editor: event after close ignored", "event", ev.Name())
		return
	}
	if id := referencedNode(ev); id != "" {
		if _, ok := e.graph.Node(id); !ok {
			e.logger.Debug("editor: event for unknown node ignored", "event", ev.Name(), "node_id", id)
			return
		}
	}
	e.logger.Debug("editor: event", "event", ev.Name())

	// The drag offset is taken against the stored position, not the caller's.
	if pd, ok := ev.(PointerDown); ok {
		n, _ := e.graph.Node(pd.NodeID)
		pd.NodePosition = n.Position
		ev = pd
	}

	switch ev := ev.(type) {
	case PointerMoved, PointerUp:
		// Only delivered while a node drag holds the surface.
		if !e.surface.Emit(ctx, ev) {
			e.logger.Debug("editor: pointer event without subscriber", "event", ev.Name())
		}
	case PanelEdited:
		if e.panel != nil {
			e.panel.SetDraft(ev.Text)
		}
	case PanelKey:
		if e.panel != nil {
			e.panel.Key(ev.Key, ev.Shift)
			e.flush(ctx)
		}
	case PanelSaved:
		if e.panel != nil {
			e.panel.Save()
			e.flush(ctx)
		}
	case PanelClosed:
		if e.panel != nil {
			e.panel.Close()
			e.flush(ctx)
			return
		}
		e.step(ctx, ev)
	default:
		e.step(ctx, ev)
	}
}

// Apply runs graph commands directly, bypassing the gesture state machine.
// Interaction state referencing removed nodes is cleared afterwards.
func (e *Editor) Apply(ctx context.Context, cmds ...Command) {
	if e.closed {
		return
	}
	e.apply(ctx, cmds)
	e.reconcile()
	e.syncDrag()
	e.syncPanel()
}

// Snapshot returns a detached copy of the session.
func (e *Editor) Snapshot() domain.Snapshot {
	snap := domain.Snapshot{
		SessionID:      e.id,
		Nodes:          e.graph.Nodes(),
		Connections:    e.graph.Connections(),
		SelectedNodeID: e.state.SelectedNodeID,
		ConnectingFrom: e.state.ConnectingFrom,
		Panel:          e.panel.View(),
	}
	if e.state.ActiveDrag != nil {
		snap.DraggingNodeID = e.state.ActiveDrag.NodeID
	}
	if snap.Nodes == nil {
		snap.Nodes = []domain.Node{}
	}
	if snap.Connections == nil {
		snap.Connections = []domain.Connection{}
	}
	return snap
}

// Close tears the session down. Any pointer subscription is released and
// further events are ignored. Close is idempotent.
func (e *Editor) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.state.ActiveDrag = nil
	e.syncDrag()
	e.panel = nil
	e.logger.Debug("editor: closed")
}

// DragSubscribed reports whether the editor currently holds the pointer surface.
func (e *Editor) DragSubscribed() bool {
	return e.surface.Subscribed()
}

func (e *Editor) step(ctx context.Context, ev Event) {
	next, cmds := Reduce(e.state, ev)
	e.state = next
	e.apply(ctx, cmds)
	e.reconcile()
	e.syncDrag()
	e.syncPanel()
}

func (e *Editor) apply(ctx context.Context, cmds []Command) {
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case AddNode:
			n := e.graph.AddNode(c.Type, c.Position)
			e.logger.Debug("editor: node added", "node_id", n.ID, "type", n.Type)
			if e.hooks.OnNodeAdded != nil {
				e.hooks.OnNodeAdded(ctx, e.nodeEvent(domain.EventNodeAdded, n))
			}

		case MoveNode:
			if !e.graph.MoveNode(c.NodeID, c.Position) {
				continue
			}
			if e.hooks.OnNodeMoved != nil {
				n, _ := e.graph.Node(c.NodeID)
				e.hooks.OnNodeMoved(ctx, e.nodeEvent(domain.EventNodeMoved, n))
			}

		case DeleteNode:
			n, ok := e.graph.Node(c.NodeID)
			if !ok {
				continue
			}
			removed := e.graph.DeleteNode(c.NodeID)
			e.logger.Debug("editor: node deleted", "node_id", n.ID, "cascaded", len(removed))
			for _, conn := range removed {
				if e.hooks.OnConnectionRemoved != nil {
					e.hooks.OnConnectionRemoved(ctx, e.connEvent(domain.EventConnectionRemoved, conn, false))
				}
			}
			if e.hooks.OnNodeDeleted != nil {
				e.hooks.OnNodeDeleted(ctx, e.nodeEvent(domain.EventNodeDeleted, n))
			}

		case AddConnection:
			if !e.exists(c.Source) || !e.exists(c.Target) {
				e.logger.Debug("editor: connection to unknown node ignored", "source", c.Source, "target", c.Target)
				continue
			}
			added, replaced := e.graph.AddConnection(c.Source, c.Target)
			e.logger.Debug("editor: connection added", "connection_id", added.ID, "replaced", replaced != nil)
			if replaced != nil && e.hooks.OnConnectionRemoved != nil {
				e.hooks.OnConnectionRemoved(ctx, e.connEvent(domain.EventConnectionRemoved, *replaced, true))
			}
			if e.hooks.OnConnectionAdded != nil {
				e.hooks.OnConnectionAdded(ctx, e.connEvent(domain.EventConnectionAdded, added, false))
			}

		case UpdateNodeData:
			ok, err := e.graph.UpdateNodeData(c.NodeID, c.Patch)
			if err != nil {
				e.logger.Warn("editor: data patch rejected", "node_id", c.NodeID, "error", err)
				continue
			}
			if ok && e.hooks.OnNodeUpdated != nil {
				n, _ := e.graph.Node(c.NodeID)
				e.hooks.OnNodeUpdated(ctx, e.nodeEvent(domain.EventNodeUpdated, n))
			}
		}
	}
}

// reconcile drops interaction references to nodes that no longer exist.
func (e *Editor) reconcile() {
	if e.state.SelectedNodeID != "" && !e.exists(e.state.SelectedNodeID) {
		e.state.SelectedNodeID = ""
	}
	if e.state.ConnectingFrom != "" && !e.exists(e.state.ConnectingFrom) {
		e.state.ConnectingFrom = ""
	}
	if e.state.ActiveDrag != nil && !e.exists(e.state.ActiveDrag.NodeID) {
		e.state.ActiveDrag = nil
	}
}

// syncDrag holds the pointer surface exactly while a node drag is active.
func (e *Editor) syncDrag() {
	switch {
	case e.state.ActiveDrag != nil && e.release == nil:
		e.release = e.surface.Acquire(dragListener{e: e})
	case e.state.ActiveDrag == nil && e.release != nil:
		e.release()
		e.release = nil
	}
}

// syncPanel mounts the panel for the selected node and remounts it when
// the selection moves to another node.
func (e *Editor) syncPanel() {
	sel := e.state.SelectedNodeID
	if sel == "" {
		e.panel = nil
		return
	}
	if e.panel != nil && e.panel.IsOpen() && e.panel.NodeID() == sel {
		return
	}
	n, ok := e.graph.Node(sel)
	if !ok {
		e.panel = nil
		return
	}
	e.outbox.reset()
	e.panel = panel.Open(n, e.outbox, e.outbox.markClosed)
}

// flush applies what the panel queued and reacts to it closing.
func (e *Editor) flush(ctx context.Context) {
	cmds, closed := e.outbox.drain()
	e.apply(ctx, cmds)
	if closed {
		e.step(ctx, PanelClosed{})
		return
	}
	e.syncPanel()
}

func (e *Editor) exists(id string) bool {
	_, ok := e.graph.Node(id)
	return ok
}

func (e *Editor) nodeEvent(t domain.EventType, n domain.Node) *domain.NodeEvent {
	return &domain.NodeEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: t, SessionID: e.id},
		NodeID:    n.ID,
		NodeType:  n.Type,
		Position:  n.Position,
	}
}

func (e *Editor) connEvent(t domain.EventType, c domain.Connection, replaced bool) *domain.ConnectionEvent {
	return &domain.ConnectionEvent{
		EventBase:  domain.EventBase{Timestamp: e.now(), Type: t, SessionID: e.id},
		Connection: c,
		Replaced:   replaced,
	}
}

// referencedNode returns the node id a gesture targets, if any.
func referencedNode(ev Event) string {
	switch e := ev.(type) {
	case NodeClicked:
		return e.NodeID
	case ConnectToggled:
		return e.NodeID
	case NodeDeleted:
		return e.NodeID
	case PointerDown:
		return e.NodeID
	}
	return ""
}

type dragListener struct {
	e *Editor
}

func (l dragListener) PointerMoved(ctx context.Context, ev PointerMoved) { l.e.step(ctx, ev) }
func (l dragListener) PointerUp(ctx context.Context, ev PointerUp)       { l.e.step(ctx, ev) }

// outbox collects what the side panel commits so the editor can apply it
// with the caller's context.
type outbox struct {
	cmds   []Command
	closed bool
}

func (o *outbox) UpdateNodeData(nodeID string, patch map[string]any) {
	o.cmds = append(o.cmds, UpdateNodeData{NodeID: nodeID, Patch: patch})
}

func (o *outbox) markClosed() { o.closed = true }

func (o *outbox) reset() {
	o.cmds = nil
	o.closed = false
}

func (o *outbox) drain() ([]Command, bool) {
	cmds, closed := o.cmds, o.closed
	o.reset()
	return cmds, closed
}
