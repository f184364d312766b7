package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/flowcanvas/pkg/domain"
)

// LoggingHooks writes one structured record per graph mutation.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	node := func(ctx context.Context, e *domain.NodeEvent) {
		logger.InfoContext(ctx, string(e.Type),
			"session_id", e.SessionID,
			"node_id", e.NodeID,
			"type", e.NodeType,
			"x", e.Position.X,
			"y", e.Position.Y,
		)
	}
	conn := func(ctx context.Context, e *domain.ConnectionEvent) {
		logger.InfoContext(ctx, string(e.Type),
			"session_id", e.SessionID,
			"connection_id", e.Connection.ID,
			"source", e.Connection.Source,
			"target", e.Connection.Target,
			"replaced", e.Replaced,
		)
	}
	return domain.LifecycleHooks{
		OnNodeAdded:         node,
		OnNodeUpdated:       node,
		OnNodeDeleted:       node,
		OnConnectionAdded:   conn,
		OnConnectionRemoved: conn,
		// Moves fire on every pointer move; keep them at debug.
		OnNodeMoved: func(ctx context.Context, e *domain.NodeEvent) {
			logger.DebugContext(ctx, string(e.Type), "session_id", e.SessionID, "node_id", e.NodeID, "x", e.Position.X, "y", e.Position.Y)
		},
	}
}
