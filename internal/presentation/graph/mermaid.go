package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/flowcanvas/pkg/domain"
)

// GraphOverlay contains interaction state to highlight on the chart.
type GraphOverlay struct {
	SelectedNode   string
	ConnectingFrom string
}

// OverlayOf extracts the highlight state from a snapshot.
func OverlayOf(snap domain.Snapshot) *GraphOverlay {
	if snap.SelectedNodeID == "" && snap.ConnectingFrom == "" {
		return nil
	}
	return &GraphOverlay{SelectedNode: snap.SelectedNodeID, ConnectingFrom: snap.ConnectingFrom}
}

// GenerateMermaid produces a Mermaid flowchart of the canvas.
// Shapes follow the node type:
// - Start: ((Circle))
// - Condition: {Rhombus}
// - Action: [[Subroutine]]
// - Message: [Rectangle]
// Connections whose endpoints are missing are left out.
func GenerateMermaid(nodes []domain.Node, conns []domain.Connection, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	known := make(map[string]bool, len(nodes))
	for _, node := range nodes {
		known[node.ID] = true
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch node.Type {
		case domain.NodeTypeStart:
			opener, closer = "((", "))"
		case domain.NodeTypeCondition:
			opener, closer = "{", "}"
		case domain.NodeTypeAction:
			opener, closer = "[[", "]]"
		}

		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label(node), closer))
	}

	for _, c := range conns {
		if !known[c.Source] || !known[c.Target] {
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", sanitizeMermaidID(c.Source), sanitizeMermaidID(c.Target)))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on light fills in both themes.
		sb.WriteString("    classDef selected fill:#dbeafe,stroke:#3b82f6,stroke-width:3px,color:#000;\n")
		sb.WriteString("    classDef connecting fill:#ffedd5,stroke:#fb923c,stroke-width:4px,color:#000;\n")
		if overlay.SelectedNode != "" && known[overlay.SelectedNode] {
			sb.WriteString(fmt.Sprintf("    class %s selected;\n", sanitizeMermaidID(overlay.SelectedNode)))
		}
		if overlay.ConnectingFrom != "" && known[overlay.ConnectingFrom] {
			sb.WriteString(fmt.Sprintf("    class %s connecting;\n", sanitizeMermaidID(overlay.ConnectingFrom)))
		}
	}

	return sb.String()
}

// label is the node's text, first line only, with quotes made Mermaid-safe.
func label(n domain.Node) string {
	text := n.Message()
	if text == "" {
		text = n.ID
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i] + "…"
	}
	return strings.ReplaceAll(text, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
