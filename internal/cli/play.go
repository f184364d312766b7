package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/flowcanvas/internal/editor"
	"github.com/aretw0/flowcanvas/internal/presentation/tui"
	"github.com/aretw0/flowcanvas/internal/script"
	"golang.org/x/term"
)

// PlayOptions configures a scripted replay.
type PlayOptions struct {
	ScriptPath string
	Format     Format
	Trace      bool // Print every non-empty diff as a JSON line
	Quiet      bool // No system messages
}

// Play replays a script on a fresh canvas and prints the final state to w.
func Play(ctx context.Context, env *Env, opts PlayOptions, w io.Writer) error {
	s, err := script.Load(opts.ScriptPath)
	if err != nil {
		return err
	}
	name := s.Name
	if name == "" {
		name = "play"
	}

	ed, err := env.newEditor(s.Clock(), editor.WithSessionID(name))
	if err != nil {
		return err
	}
	defer ed.Close()

	env.Logger.Info("Replaying script", "path", opts.ScriptPath, "events", len(s.Events))

	var traceErr error
	observe := func(step script.Step) {
		if !opts.Trace || step.Diff == nil || traceErr != nil {
			return
		}
		line, err := json.Marshal(struct {
			Step  int    `json:"step"`
			Event string `json:"event"`
			Diff  any    `json:"diff"`
		}{step.Index, step.Event.Name(), step.Diff})
		if err != nil {
			traceErr = fmt.Errorf("failed to encode step %d: %w", step.Index, err)
			return
		}
		_, traceErr = fmt.Fprintf(w, "%s\n", line)
	}

	if err := script.Play(ctx, ed, s, observe); err != nil {
		return err
	}
	if traceErr != nil {
		return traceErr
	}

	p := Printer{Format: opts.Format, Viewport: env.Config.Viewport()}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.Markdown = tui.NewRenderer()
	}
	return p.Print(w, ed.Snapshot())
}

// RunPlay is Play bound to the process: stdout, signals and exit status.
func RunPlay(env *Env, opts PlayOptions) error {
	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	err := Play(sigCtx, env, opts, os.Stdout)
	if sigCtx.Err() != nil && err == nil {
		err = sigCtx.Err()
	}
	if !opts.Quiet {
		logCompletion(os.Stderr, "replaying "+opts.ScriptPath, err, sigCtx.Signal())
	}
	return handleExecutionError(err)
}
