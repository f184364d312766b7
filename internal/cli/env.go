package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/flowcanvas"
	"github.com/aretw0/flowcanvas/internal/config"
	"github.com/aretw0/flowcanvas/internal/editor"
	"github.com/aretw0/flowcanvas/internal/logging"
	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/aretw0/flowcanvas/pkg/graph"
	"github.com/aretw0/flowcanvas/pkg/observability"
	"github.com/aretw0/flowcanvas/pkg/session"
)

// Options are the persistent flags shared by every command.
type Options struct {
	ConfigPath string
	LogLevel   string // Overrides log.level when set
	LogFormat  string // Overrides log.format when set
	Demo       bool   // Seed new canvases with the welcome flow
}

// Env is the loaded configuration plus the logger built from it.
type Env struct {
	Config config.Config
	Logger *slog.Logger
	Demo   bool
}

// Bootstrap loads the config file and applies flag overrides.
func Bootstrap(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.LogFormat != "" {
		cfg.Log.Format = opts.LogFormat
	}

	logger, err := createLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	return &Env{Config: cfg, Logger: logger, Demo: opts.Demo}, nil
}

// createLogger configures the application logger.
// It writes to Stderr (to separate from Stdout canvas output).
func createLogger(c config.Log) (*slog.Logger, error) {
	level, err := logging.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(c.Format)
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormat(os.Stderr, level, format), nil
}

// NewGraph returns the starting graph for a new canvas.
func (e *Env) NewGraph(extra ...graph.Option) (*graph.Graph, error) {
	opts := append([]graph.Option{graph.WithDefaultMessages(e.Config.DefaultMessages())}, extra...)
	if !e.Demo {
		return graph.New(opts...), nil
	}
	g, err := flowcanvas.Demo(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to seed demo canvas: %w", err)
	}
	return g, nil
}

// NewEditor creates a standalone editor with debug hooks attached.
func (e *Env) NewEditor(extra ...editor.Option) (*editor.Editor, error) {
	return e.newEditor(nil, extra...)
}

// newEditor is NewEditor with a custom id clock for the graph. A nil clock
// keeps wall-clock ids.
func (e *Env) newEditor(clock func() time.Time, extra ...editor.Option) (*editor.Editor, error) {
	var graphOpts []graph.Option
	if clock != nil {
		graphOpts = append(graphOpts, graph.WithClock(clock))
	}
	g, err := e.NewGraph(graphOpts...)
	if err != nil {
		return nil, err
	}
	opts := []editor.Option{
		editor.WithGraph(g),
		editor.WithLogger(e.Logger),
		editor.WithLifecycleHooks(createDebugHooks(e.Logger)),
	}
	return editor.New(append(opts, extra...)...), nil
}

// NewManager creates a session manager whose editors report to metrics.
// metrics may be nil.
func (e *Env) NewManager(metrics *observability.Metrics) *session.Manager {
	hooks := createDebugHooks(e.Logger)
	var sessionHooks session.Hooks
	if metrics != nil {
		hooks = hooks.Merge(metrics.Hooks())
		sessionHooks = session.Hooks{
			OnCreated: func(ctx context.Context, _ string) { metrics.SessionOpened() },
			OnDeleted: func(ctx context.Context, last domain.Snapshot) {
				metrics.Forget(last)
				metrics.SessionClosed()
			},
		}
	}

	return session.NewManager(
		session.WithLogger(e.Logger),
		session.WithHooks(sessionHooks),
		session.WithEditorOptions(func(id string) []editor.Option {
			g, err := e.NewGraph()
			if err != nil {
				e.Logger.Warn("Falling back to empty canvas", "session_id", id, "error", err)
				g = graph.New(graph.WithDefaultMessages(e.Config.DefaultMessages()))
			}
			if metrics != nil {
				metrics.Adopt(domain.Snapshot{Nodes: g.Nodes(), Connections: g.Connections()})
			}
			return []editor.Option{editor.WithGraph(g), editor.WithLifecycleHooks(hooks)}
		}),
	)
}

// createDebugHooks logs every graph mutation; the logger level decides
// whether anything is written.
func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return observability.LoggingHooks(logger)
}
