package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/flowcanvas"
	"github.com/aretw0/flowcanvas/internal/editor"
	"github.com/aretw0/flowcanvas/internal/logging"
	"github.com/aretw0/flowcanvas/internal/panel"
	"github.com/aretw0/flowcanvas/internal/presentation/graph"
	"github.com/aretw0/flowcanvas/internal/script"
	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/aretw0/flowcanvas/pkg/session"
	"github.com/go-chi/cors"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SnapshotResponse is the structured result of every mutating tool.
type SnapshotResponse struct {
	Snapshot domain.Snapshot      `json:"snapshot" jsonschema_description:"The session after the call"`
	Diff     *domain.SnapshotDiff `json:"diff,omitempty" jsonschema_description:"What the call changed, omitted when nothing did"`
}

// SessionArgs names the target session.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// EventArgs carries one editor event as a JSON object string.
type EventArgs struct {
	SessionID string `json:"session_id"`
	Event     string `json:"event"`
}

// AddNodeArgs places a new node.
type AddNodeArgs struct {
	SessionID string  `json:"session_id"`
	Type      string  `json:"type"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// MoveNodeArgs repositions a node.
type MoveNodeArgs struct {
	SessionID string  `json:"session_id"`
	NodeID    string  `json:"node_id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// NodeArgs targets one node.
type NodeArgs struct {
	SessionID string `json:"session_id"`
	NodeID    string `json:"node_id"`
}

// ConnectArgs links source to target.
type ConnectArgs struct {
	SessionID string `json:"session_id"`
	Source    string `json:"source"`
	Target    string `json:"target"`
}

// MessageArgs replaces a node's message.
type MessageArgs struct {
	SessionID string `json:"session_id"`
	NodeID    string `json:"node_id"`
	Message   string `json:"message"`
}

// Server exposes editor sessions as MCP tools.
type Server struct {
	sessions  *session.Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		sessions:  sessions,
		mcpServer: server.NewMCPServer("flowcanvas-mcp", strings.TrimSpace(flowcanvas.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx ends.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))
	withCORS := cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Requested-With"},
	})

	mux := http.NewServeMux()
	mux.Handle("/sse", withCORS(sseServer.SSEHandler()))
	mux.Handle("/message", withCORS(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("create_session",
		mcp.WithDescription("Open a new, empty canvas and return its snapshot."),
		mcp.WithOutputSchema[SnapshotResponse](),
	), mcp.NewStructuredToolHandler(s.handleCreateSession))

	s.mcpServer.AddTool(mcp.NewTool("dispatch_event",
		mcp.WithDescription("Feed one gesture to the canvas, exactly as the UI would."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Target session")),
		mcp.WithString("event", mcp.Required(), mcp.Description(`JSON event object, e.g. {"type":"connect","node_id":"message-1"}`)),
		mcp.WithOutputSchema[SnapshotResponse](),
	), mcp.NewStructuredToolHandler(s.handleDispatchEvent))

	s.mcpServer.AddTool(mcp.NewTool("add_node",
		mcp.WithDescription("Add a node at a canvas position. Unknown types become message nodes."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Target session")),
		mcp.WithString("type", mcp.Description("start, message, condition or action")),
		mcp.WithNumber("x", mcp.Required(), mcp.Description("Left edge in canvas coordinates")),
		mcp.WithNumber("y", mcp.Required(), mcp.Description("Top edge in canvas coordinates")),
		mcp.WithOutputSchema[SnapshotResponse](),
	), mcp.NewStructuredToolHandler(s.handleAddNode))

	s.mcpServer.AddTool(mcp.NewTool("move_node",
		mcp.WithDescription("Move a node. Its connections follow."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Target session")),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Node to move")),
		mcp.WithNumber("x", mcp.Required(), mcp.Description("New left edge")),
		mcp.WithNumber("y", mcp.Required(), mcp.Description("New top edge")),
		mcp.WithOutputSchema[SnapshotResponse](),
	), mcp.NewStructuredToolHandler(s.handleMoveNode))

	s.mcpServer.AddTool(mcp.NewTool("delete_node",
		mcp.WithDescription("Delete a node and every connection touching it."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Target session")),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Node to delete")),
		mcp.WithOutputSchema[SnapshotResponse](),
	), mcp.NewStructuredToolHandler(s.handleDeleteNode))

	s.mcpServer.AddTool(mcp.NewTool("connect",
		mcp.WithDescription("Connect source to target, replacing the source's previous outgoing connection."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Target session")),
		mcp.WithString("source", mcp.Required(), mcp.Description("Node the connection leaves")),
		mcp.WithString("target", mcp.Required(), mcp.Description("Node the connection enters")),
		mcp.WithOutputSchema[SnapshotResponse](),
	), mcp.NewStructuredToolHandler(s.handleConnect))

	s.mcpServer.AddTool(mcp.NewTool("update_message",
		mcp.WithDescription("Replace the message text of a node."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Target session")),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Node to edit")),
		mcp.WithString("message", mcp.Required(), mcp.Description("New message text")),
		mcp.WithOutputSchema[SnapshotResponse](),
	), mcp.NewStructuredToolHandler(s.handleUpdateMessage))

	s.mcpServer.AddTool(mcp.NewTool("get_snapshot",
		mcp.WithDescription("Read the current nodes, connections and interaction state."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Target session")),
		mcp.WithOutputSchema[SnapshotResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetSnapshot))

	s.mcpServer.AddTool(mcp.NewTool("get_mermaid",
		mcp.WithDescription("Render the canvas as a Mermaid flowchart."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Target session")),
	), s.handleGetMermaid)
}

func (s *Server) handleCreateSession(ctx context.Context, _ mcp.CallToolRequest, _ map[string]any) (SnapshotResponse, error) {
	id, err := s.sessions.Create(ctx)
	if err != nil {
		return SnapshotResponse{}, fmt.Errorf("create failed: %w", err)
	}
	snap, err := s.sessions.Snapshot(ctx, id)
	if err != nil {
		return SnapshotResponse{}, err
	}
	return SnapshotResponse{Snapshot: snap}, nil
}

func (s *Server) handleDispatchEvent(ctx context.Context, _ mcp.CallToolRequest, args EventArgs) (SnapshotResponse, error) {
	ev, err := editor.ParseEvent([]byte(args.Event))
	if err != nil {
		return SnapshotResponse{}, err
	}
	if err := script.Validate(ev); err != nil {
		return SnapshotResponse{}, err
	}
	if edit, ok := ev.(editor.PanelEdited); ok {
		clean, err := panel.Sanitize(edit.Text)
		if err != nil {
			s.logger.Warn("MCP dispatch_event: text rejected", "error", err, "size", len(edit.Text))
			return SnapshotResponse{}, fmt.Errorf("text rejected: %w", err)
		}
		ev = editor.PanelEdited{Text: clean}
	}
	return s.mutate(ctx, args.SessionID, func(ctx context.Context, ed *editor.Editor) {
		ed.Dispatch(ctx, ev)
	})
}

func (s *Server) handleAddNode(ctx context.Context, _ mcp.CallToolRequest, args AddNodeArgs) (SnapshotResponse, error) {
	return s.apply(ctx, args.SessionID, editor.AddNode{Type: args.Type, Position: domain.Point{X: args.X, Y: args.Y}})
}

func (s *Server) handleMoveNode(ctx context.Context, _ mcp.CallToolRequest, args MoveNodeArgs) (SnapshotResponse, error) {
	return s.apply(ctx, args.SessionID, editor.MoveNode{NodeID: args.NodeID, Position: domain.Point{X: args.X, Y: args.Y}})
}

func (s *Server) handleDeleteNode(ctx context.Context, _ mcp.CallToolRequest, args NodeArgs) (SnapshotResponse, error) {
	return s.apply(ctx, args.SessionID, editor.DeleteNode{NodeID: args.NodeID})
}

func (s *Server) handleConnect(ctx context.Context, _ mcp.CallToolRequest, args ConnectArgs) (SnapshotResponse, error) {
	return s.apply(ctx, args.SessionID, editor.AddConnection{Source: args.Source, Target: args.Target})
}

func (s *Server) handleUpdateMessage(ctx context.Context, _ mcp.CallToolRequest, args MessageArgs) (SnapshotResponse, error) {
	clean, err := panel.Sanitize(args.Message)
	if err != nil {
		s.logger.Warn("MCP update_message: text rejected", "error", err, "size", len(args.Message))
		return SnapshotResponse{}, fmt.Errorf("message rejected: %w", err)
	}
	return s.apply(ctx, args.SessionID, editor.UpdateNodeData{
		NodeID: args.NodeID,
		Patch:  map[string]any{domain.KeyMessage: clean},
	})
}

func (s *Server) handleGetSnapshot(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (SnapshotResponse, error) {
	snap, err := s.sessions.Snapshot(ctx, args.SessionID)
	if err != nil {
		return SnapshotResponse{}, err
	}
	return SnapshotResponse{Snapshot: snap}, nil
}

func (s *Server) handleGetMermaid(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap, err := s.sessions.Snapshot(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("snapshot failed: %v", err)), nil
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(snap.Nodes, snap.Connections, graph.OverlayOf(snap))), nil
}

func (s *Server) apply(ctx context.Context, sessionID string, cmd editor.Command) (SnapshotResponse, error) {
	return s.mutate(ctx, sessionID, func(ctx context.Context, ed *editor.Editor) {
		ed.Apply(ctx, cmd)
	})
}

// mutate runs fn under the session lock and reports what changed.
func (s *Server) mutate(ctx context.Context, sessionID string, fn func(context.Context, *editor.Editor)) (SnapshotResponse, error) {
	var resp SnapshotResponse
	err := s.sessions.WithEditor(ctx, sessionID, func(ctx context.Context, ed *editor.Editor) error {
		before := ed.Snapshot()
		fn(ctx, ed)
		resp.Snapshot = ed.Snapshot()
		resp.Diff = domain.Diff(&before, &resp.Snapshot)
		return nil
	})
	if err != nil {
		return SnapshotResponse{}, err
	}
	return resp, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("flowcanvas://sessions", "Open Canvas Sessions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.sessions.List(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "flowcanvas://sessions",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
