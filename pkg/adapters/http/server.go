package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/flowcanvas"
	"github.com/aretw0/flowcanvas/internal/editor"
	"github.com/aretw0/flowcanvas/internal/panel"
	"github.com/aretw0/flowcanvas/internal/presentation/canvas"
	"github.com/aretw0/flowcanvas/internal/presentation/graph"
	"github.com/aretw0/flowcanvas/internal/script"
	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/aretw0/flowcanvas/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// maxEventBody bounds a single event request body.
const maxEventBody = 64 << 10

// Server exposes editor sessions over HTTP.
type Server struct {
	Sessions *session.Manager
	Streams  *StreamManager

	origins  []string
	metrics  http.Handler
	viewport domain.Point
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithAllowedOrigins sets the CORS origins. The default allows any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithViewport sets the minimum SVG drawing size.
func WithViewport(p domain.Point) Option {
	return func(s *Server) {
		s.viewport = p
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler for a session manager.
func NewHandler(sessions *session.Manager, opts ...Option) (http.Handler, error) {
	s := &Server{
		Sessions: sessions,
		origins:  []string{"*"},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)

	doc, err := loadSpec(context.Background())
	if err != nil {
		return nil, err
	}
	validateRequests, err := requestValidator(doc, s.logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo(doc.Info.Version))
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Use(validateRequests)
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/events", s.DispatchEvent)
			r.Get("/scene", s.GetScene)
			r.Get("/svg", s.GetSVG)
			r.Get("/mermaid", s.GetMermaid)
			r.Get("/stream", s.StreamSession)
		})
	})

	return r, nil
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>flowcanvas API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(apiVersion string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"app":         "flowcanvas-http",
			"version":     strings.TrimSpace(flowcanvas.Version),
			"api_version": apiVersion,
		}, s.logger)
	}
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Sessions.List(r.Context()), s.logger)
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, err := s.Sessions.Create(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Create error: %v", err), http.StatusInternalServerError)
		s.logger.Error("CreateSession failed", "error", err)
		return
	}
	snap, err := s.Sessions.Snapshot(r.Context(), id)
	if err != nil {
		s.sessionError(w, "CreateSession", err)
		return
	}
	w.Header().Set("Location", "/sessions/"+id)
	writeJSON(w, http.StatusCreated, snap, s.logger)
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Sessions.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.sessionError(w, "GetSession", err)
		return
	}
	writeJSON(w, http.StatusOK, snap, s.logger)
}

// DeleteSession handles DELETE /sessions/{id}. Open streams of the session end.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.sessionError(w, "DeleteSession", err)
		return
	}
	s.Streams.Close(id)
	w.WriteHeader(http.StatusNoContent)
}

// DispatchEvent handles POST /sessions/{id}/events.
func (s *Server) DispatchEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBody))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("DispatchEvent: Invalid request body", "error", err)
		return
	}
	ev, err := decodeEvent(body)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid event: %v", err), http.StatusBadRequest)
		s.logger.Warn("DispatchEvent: Event rejected", "error", err, "session_id", id)
		return
	}

	var snap domain.Snapshot
	err = s.Sessions.WithEditor(r.Context(), id, func(ctx context.Context, ed *editor.Editor) error {
		before := ed.Snapshot()
		ed.Dispatch(ctx, ev)
		snap = ed.Snapshot()
		// Broadcast under the session lock so streams see diffs in dispatch order.
		if diff := domain.Diff(&before, &snap); diff != nil {
			if bytes, err := json.Marshal(diff); err == nil {
				s.Streams.Broadcast(id, string(bytes))
			}
		} else {
			s.logger.Debug("DispatchEvent: No diff calculated", "session_id", id, "event", ev.Name())
		}
		return nil
	})
	if err != nil {
		s.sessionError(w, "DispatchEvent", err)
		return
	}

	writeJSON(w, http.StatusOK, snap, s.logger)
}

// GetScene handles GET /sessions/{id}/scene.
func (s *Server) GetScene(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Sessions.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.sessionError(w, "GetScene", err)
		return
	}
	writeJSON(w, http.StatusOK, s.scene(snap), s.logger)
}

// GetSVG handles GET /sessions/{id}/svg.
func (s *Server) GetSVG(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Sessions.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.sessionError(w, "GetSVG", err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := canvas.WriteSVG(w, s.scene(snap)); err != nil {
		s.logger.Error("GetSVG write failed", "error", err)
	}
}

// GetMermaid handles GET /sessions/{id}/mermaid.
func (s *Server) GetMermaid(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Sessions.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.sessionError(w, "GetMermaid", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(snap.Nodes, snap.Connections, graph.OverlayOf(snap)))
}

// StreamSession handles GET /sessions/{id}/stream (SSE).
// The optional watch parameter keeps only diffs touching the listed parts.
func (s *Server) StreamSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.Sessions.Snapshot(r.Context(), id); err != nil {
		s.sessionError(w, "StreamSession", err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("StreamSession: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var watchList []string
	if watch := r.URL.Query().Get("watch"); watch != "" {
		watchList = strings.Split(watch, ",")
	}

	s.logger.Info("SSE: Subscribing to Session Updates", "session_id", id)
	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "session_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				fmt.Fprintf(w, "event: closed\ndata: %s\n\n", id)
				flusher.Flush()
				return
			}
			if len(watchList) > 0 && !watched(msg, watchList) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) scene(snap domain.Snapshot) canvas.Scene {
	scene := canvas.Layout(snap)
	scene.Viewport = s.viewport
	return scene
}

func (s *Server) sessionError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, "Session not found", http.StatusNotFound)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		http.Error(w, "Request canceled", http.StatusServiceUnavailable)
	default:
		http.Error(w, fmt.Sprintf("%s error: %v", op, err), http.StatusInternalServerError)
		s.logger.Error(op+" failed", "error", err)
	}
}

// decodeEvent parses, validates and sanitizes an event body.
func decodeEvent(body []byte) (editor.Event, error) {
	ev, err := editor.ParseEvent(body)
	if err != nil {
		return nil, err
	}
	if err := script.Validate(ev); err != nil {
		return nil, err
	}
	if edit, ok := ev.(editor.PanelEdited); ok {
		clean, err := panel.Sanitize(edit.Text)
		if err != nil {
			return nil, err
		}
		ev = editor.PanelEdited{Text: clean}
	}
	return ev, nil
}

// watched reports whether a serialized diff touches any watched part.
func watched(msg string, watchList []string) bool {
	var diff domain.SnapshotDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, field := range watchList {
		switch strings.TrimSpace(field) {
		case "nodes":
			if len(diff.UpsertedNodes) > 0 || len(diff.RemovedNodes) > 0 {
				return true
			}
		case "connections":
			if len(diff.AddedConnections) > 0 || len(diff.RemovedConnections) > 0 {
				return true
			}
		case "interaction":
			if diff.SelectedNodeID != nil || diff.ConnectingFrom != nil || diff.DraggingNodeID != nil {
				return true
			}
		case "panel":
			if diff.Panel != nil || diff.PanelClosed {
				return true
			}
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}
