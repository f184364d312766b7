package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// When the terminal renderer cannot be built the markdown passes through.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// Summary describes a snapshot as markdown: a node table, the connection
// list and the interaction state.
func Summary(snap domain.Snapshot) string {
	var sb strings.Builder
	title := "Canvas"
	if snap.SessionID != "" {
		title = "Canvas `" + snap.SessionID + "`"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)

	if len(snap.Nodes) == 0 {
		sb.WriteString("_No nodes yet._\n\n")
	} else {
		sb.WriteString("| Node | Type | Position | Message |\n")
		sb.WriteString("|---|---|---|---|\n")
		for _, n := range snap.Nodes {
			mark := ""
			if n.ID == snap.SelectedNodeID {
				mark = " *"
			}
			fmt.Fprintf(&sb, "| `%s`%s | %s | (%g, %g) | %s |\n",
				n.ID, mark, n.Type, n.Position.X, n.Position.Y, cell(n.Message()))
		}
		sb.WriteString("\n")
	}

	if len(snap.Connections) > 0 {
		sb.WriteString("## Connections\n\n")
		for _, c := range snap.Connections {
			fmt.Fprintf(&sb, "- `%s` → `%s`\n", c.Source, c.Target)
		}
		sb.WriteString("\n")
	}

	var status []string
	if snap.SelectedNodeID != "" {
		status = append(status, fmt.Sprintf("selected `%s`", snap.SelectedNodeID))
	}
	if snap.ConnectingFrom != "" {
		status = append(status, fmt.Sprintf("**Connection Mode Active** from `%s`", snap.ConnectingFrom))
	}
	if snap.DraggingNodeID != "" {
		status = append(status, fmt.Sprintf("dragging `%s`", snap.DraggingNodeID))
	}
	if snap.Panel != nil {
		status = append(status, fmt.Sprintf("editing `%s`: %q", snap.Panel.NodeID, snap.Panel.Draft))
	}
	if len(status) > 0 {
		sb.WriteString("> " + strings.Join(status, "; ") + "\n")
	}
	return sb.String()
}

func cell(s string) string {
	if s == "" {
		return "_empty_"
	}
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", "<br>")
}
