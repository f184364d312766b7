package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/flowcanvas/internal/editor"
	"github.com/aretw0/flowcanvas/internal/presentation/tui"
	"github.com/aretw0/flowcanvas/internal/script"
	"github.com/aretw0/flowcanvas/pkg/domain"
	"golang.org/x/term"
)

const replHelp = `Gestures:
  select <node>                    click a node
  canvas_click                     click empty canvas
  connect <node>                   toggle connection mode on a node
  delete <node>                    delete a node
  template_pick [type]             start dragging a toolbar template
  template_drop <x> <y> [ox oy]    drop it at x,y (canvas origin ox,oy)
  template_cancel                  abandon the template drag
  pointer_down <node> <x> <y>      press on a node
  pointer_move <x> <y>             move the pointer
  pointer_up                       release the pointer
  panel_edit <text>                replace the panel draft (\n for newlines)
  panel_key <key> [shift]          key press in the panel
  panel_save | panel_close
  {"type": ...}                    any event as JSON
Commands:
  show | mermaid | svg | json      print the canvas
  record <file>                    write the events so far as a script
  help | quit
`

// ReplOptions configures the interactive console.
type ReplOptions struct {
	In  io.Reader
	Out io.Writer
	// Interactive shows the banner, prompt and styled summaries.
	Interactive bool
	// Epoch seeds node ids (unix millis) and is written to recorded
	// scripts so play recreates the same ids. Zero means now.
	Epoch int64
}

// Repl reads one gesture or command per line and applies it to a fresh
// canvas until quit, EOF or ctx is done.
func Repl(ctx context.Context, env *Env, opts ReplOptions) error {
	epoch := opts.Epoch
	if epoch == 0 {
		epoch = time.Now().UnixMilli()
	}
	ed, err := env.newEditor(script.Clock(epoch), editor.WithSessionID("repl"))
	if err != nil {
		return err
	}
	defer ed.Close()

	c := &console{
		ed:  ed,
		out: opts.Out,
		printer: Printer{
			Format:   FormatSummary,
			Viewport: env.Config.Viewport(),
		},
		interactive: opts.Interactive,
		recorded:    &script.Script{Name: "repl", Epoch: epoch},
	}
	if opts.Interactive {
		c.printer.Markdown = tui.NewRenderer()
		tui.PrintBanner(opts.Out)
		printSystemMessage(opts.Out, "Type 'help' for gestures, 'quit' to leave.")
	}

	scanner := bufio.NewScanner(NewInterruptibleReader(opts.In, ctx.Done()))
	for {
		c.prompt()
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return io.EOF
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		done, err := c.handle(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
			env.Logger.Debug("Console line rejected", "error", err)
		}
		if done {
			return nil
		}
	}
}

// RunRepl is Repl bound to the process terminal.
func RunRepl(env *Env) error {
	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	interactive := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	err := Repl(sigCtx, env, ReplOptions{In: os.Stdin, Out: os.Stdout, Interactive: interactive})
	if sigCtx.Err() != nil && err == nil {
		err = sigCtx.Err()
	}
	if interactive {
		logCompletion(os.Stdout, "console session", err, sigCtx.Signal())
	}
	return handleExecutionError(err)
}

type console struct {
	ed          *editor.Editor
	out         io.Writer
	printer     Printer
	interactive bool
	recorded    *script.Script
}

func (c *console) prompt() {
	if c.interactive {
		fmt.Fprint(c.out, "> ")
	}
}

// handle runs one input line. It reports whether the console should stop.
func (c *console) handle(ctx context.Context, line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false, nil
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "q", "quit", "exit":
		return true, nil
	case "help":
		_, err := io.WriteString(c.out, replHelp)
		return false, err
	case "show":
		return false, c.print(FormatSummary)
	case "mermaid":
		return false, c.print(FormatMermaid)
	case "svg":
		return false, c.print(FormatSVG)
	case "json":
		return false, c.print(FormatJSON)
	case "record":
		if len(fields) < 2 {
			return false, fmt.Errorf("usage: record <file>")
		}
		return false, c.record(fields[1])
	}

	ev, err := c.parse(line)
	if err != nil {
		return false, err
	}
	before := c.ed.Snapshot()
	c.ed.Dispatch(ctx, ev)
	after := c.ed.Snapshot()
	c.recorded.Events = append(c.recorded.Events, ev)

	if c.interactive {
		printSystemMessage(c.out, "%s", describe(domain.Diff(&before, &after)))
	}
	return false, nil
}

func (c *console) print(f Format) error {
	p := c.printer
	p.Format = f
	return p.Print(c.out, c.ed.Snapshot())
}

func (c *console) record(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create script: %w", err)
	}
	if err := script.Encode(f, c.recorded); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	printSystemMessage(c.out, "Recorded %d events to %s", len(c.recorded.Events), path)
	return nil
}

// parse turns a JSON object or a shorthand gesture into an event.
func (c *console) parse(line string) (editor.Event, error) {
	if strings.HasPrefix(line, "{") {
		ev, err := editor.ParseEvent([]byte(line))
		if err != nil {
			return nil, err
		}
		return ev, script.Validate(ev)
	}

	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]
	raw := map[string]any{"type": name}

	switch name {
	case "select", "connect", "delete":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: %s <node>", name)
		}
		raw["node_id"] = args[0]

	case "template_pick":
		raw["template"] = string(domain.DefaultNodeType)
		if len(args) > 0 {
			raw["template"] = args[0]
		}

	case "template_drop":
		if len(args) != 2 && len(args) != 4 {
			return nil, fmt.Errorf("usage: template_drop <x> <y> [origin_x origin_y]")
		}
		p, err := point(args[0], args[1])
		if err != nil {
			return nil, err
		}
		raw["pointer"] = p
		if len(args) == 4 {
			o, err := point(args[2], args[3])
			if err != nil {
				return nil, err
			}
			raw["canvas_origin"] = o
		}

	case "pointer_down":
		if len(args) != 3 {
			return nil, fmt.Errorf("usage: pointer_down <node> <x> <y>")
		}
		p, err := point(args[1], args[2])
		if err != nil {
			return nil, err
		}
		raw["node_id"] = args[0]
		raw["pointer"] = p

	case "pointer_move":
		if len(args) != 2 {
			return nil, fmt.Errorf("usage: pointer_move <x> <y>")
		}
		p, err := point(args[0], args[1])
		if err != nil {
			return nil, err
		}
		raw["pointer"] = p

	case "panel_edit":
		text := strings.TrimSpace(strings.TrimPrefix(line, name))
		raw["text"] = strings.ReplaceAll(text, `\n`, "\n")

	case "panel_key":
		if len(args) < 1 {
			return nil, fmt.Errorf("usage: panel_key <key> [shift]")
		}
		raw["key"] = args[0]
		raw["shift"] = len(args) > 1 && args[1] == "shift"
	}

	return script.Decode(raw)
}

func point(xs, ys string) (map[string]any, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid x %q", xs)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid y %q", ys)
	}
	return map[string]any{"x": x, "y": y}, nil
}

// describe summarises a diff on one line.
func describe(d *domain.SnapshotDiff) string {
	if d == nil {
		return "no change"
	}
	var parts []string
	for _, n := range d.UpsertedNodes {
		parts = append(parts, "node "+n.ID)
	}
	for _, id := range d.RemovedNodes {
		parts = append(parts, "removed "+id)
	}
	for _, conn := range d.AddedConnections {
		parts = append(parts, fmt.Sprintf("edge %s -> %s", conn.Source, conn.Target))
	}
	for _, id := range d.RemovedConnections {
		parts = append(parts, "removed edge "+id)
	}
	if d.SelectedNodeID != nil {
		parts = append(parts, "selected="+quoteOrNone(*d.SelectedNodeID))
	}
	if d.ConnectingFrom != nil {
		parts = append(parts, "connecting="+quoteOrNone(*d.ConnectingFrom))
	}
	if d.DraggingNodeID != nil {
		parts = append(parts, "dragging="+quoteOrNone(*d.DraggingNodeID))
	}
	if d.Panel != nil {
		parts = append(parts, "panel="+d.Panel.NodeID)
	}
	if d.PanelClosed {
		parts = append(parts, "panel closed")
	}
	if len(parts) == 0 {
		return "no change"
	}
	return strings.Join(parts, ", ")
}

func quoteOrNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
