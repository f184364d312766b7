package editor

import (
	"context"

	"github.com/aretw0/flowcanvas/pkg/domain"
)

// GestureSink turns presenter callbacks into editor events.
type GestureSink struct {
	ctx context.Context
	e   *Editor
}

// Sink returns a gesture sink bound to ctx.
func (e *Editor) Sink(ctx context.Context) GestureSink {
	return GestureSink{ctx: ctx, e: e}
}

func (s GestureSink) Select(nodeID string) {
	s.e.Dispatch(s.ctx, NodeClicked{NodeID: nodeID})
}

func (s GestureSink) BeginDrag(nodeID string, pointer, nodePosition domain.Point) {
	s.e.Dispatch(s.ctx, PointerDown{NodeID: nodeID, Pointer: pointer, NodePosition: nodePosition})
}

func (s GestureSink) Delete(nodeID string) {
	s.e.Dispatch(s.ctx, NodeDeleted{NodeID: nodeID})
}

func (s GestureSink) ToggleConnect(nodeID string) {
	s.e.Dispatch(s.ctx, ConnectToggled{NodeID: nodeID})
}
