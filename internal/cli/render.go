package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/flowcanvas/internal/presentation/canvas"
	"github.com/aretw0/flowcanvas/internal/presentation/graph"
	"github.com/aretw0/flowcanvas/internal/presentation/tui"
	"github.com/aretw0/flowcanvas/pkg/domain"
)

// Format selects how a canvas is printed.
type Format string

const (
	FormatSummary Format = "summary"
	FormatMermaid Format = "mermaid"
	FormatSVG     Format = "svg"
	FormatJSON    Format = "json"
)

// ParseFormat accepts summary, mermaid, svg or json. Empty means summary.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatSummary, FormatMermaid, FormatSVG, FormatJSON:
		return f, nil
	case "":
		return FormatSummary, nil
	default:
		return "", fmt.Errorf("unknown output format %q (summary, mermaid, svg, json)", s)
	}
}

// Printer writes snapshots in one format.
type Printer struct {
	Format   Format
	Viewport domain.Point
	// Markdown renders the summary for a terminal. Nil prints raw markdown.
	Markdown func(string) (string, error)
}

// Print writes snap to w.
func (p Printer) Print(w io.Writer, snap domain.Snapshot) error {
	switch p.Format {
	case FormatMermaid:
		_, err := io.WriteString(w, graph.GenerateMermaid(snap.Nodes, snap.Connections, graph.OverlayOf(snap)))
		return err
	case FormatSVG:
		scene := canvas.Layout(snap)
		if p.Viewport != (domain.Point{}) {
			scene.Viewport = p.Viewport
		}
		if err := canvas.WriteSVG(w, scene); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	default:
		md := tui.Summary(snap)
		if p.Markdown != nil {
			out, err := p.Markdown(md)
			if err != nil {
				return fmt.Errorf("failed to render summary: %w", err)
			}
			md = out
		}
		_, err := io.WriteString(w, md)
		return err
	}
}
