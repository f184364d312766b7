package editor

import (
	"context"
	"log/slog"

	"github.com/aretw0/flowcanvas/internal/logging"
)

// PointerHandler receives surface-wide pointer events while subscribed.
type PointerHandler interface {
	PointerMoved(ctx context.Context, ev PointerMoved)
	PointerUp(ctx context.Context, ev PointerUp)
}

// Surface is the whole interaction area. Pointer moves and releases reach a
// handler only while it holds a subscription, and at most one subscription
// exists at a time.
type Surface struct {
	active *subscription
	logger *slog.Logger
}

type subscription struct {
	handler PointerHandler
}

// NewSurface creates a surface with no subscriber.
func NewSurface(logger *slog.Logger) *Surface {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Surface{logger: logger}
}

// Acquire subscribes h and returns its release function. A previous
// subscription, if any, is released first. Release is idempotent and never
// touches a newer subscription.
func (s *Surface) Acquire(h PointerHandler) (release func()) {
	if s.active != nil {
		s.logger.Debug("surface: replacing active pointer subscription")
	}
	sub := &subscription{handler: h}
	s.active = sub
	return func() {
		if s.active == sub {
			s.active = nil
			s.logger.Debug("surface: pointer subscription released")
		}
	}
}

// Subscribed reports whether a handler currently holds the surface.
func (s *Surface) Subscribed() bool {
	return s.active != nil
}

// Emit delivers a pointer event to the current subscriber.
// It reports whether anyone was listening.
func (s *Surface) Emit(ctx context.Context, ev Event) bool {
	if s.active == nil {
		return false
	}
	h := s.active.handler
	switch e := ev.(type) {
	case PointerMoved:
		h.PointerMoved(ctx, e)
	case PointerUp:
		h.PointerUp(ctx, e)
	default:
		return false
	}
	return true
}
