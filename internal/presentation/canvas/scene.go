// Package canvas lays out a whole editor snapshot: node chrome, connection
// curves and the connection-mode banner.
package canvas

import (
	"strconv"

	"github.com/aretw0/flowcanvas/internal/presentation/node"
	"github.com/aretw0/flowcanvas/pkg/domain"
)

// Banner texts shown while a connection is pending.
const (
	BannerTitle = "Connection Mode Active"
	BannerHint  = "Click another node to connect, or click the same node to cancel"
)

// Edge is one drawable connection.
type Edge struct {
	ID   string       `json:"id"`
	From domain.Point `json:"from"`
	To   domain.Point `json:"to"`
	// D is the SVG path data of the curve.
	D string `json:"d"`
}

// DefaultViewport is the smallest drawing area when none is configured.
var DefaultViewport = domain.Point{X: 800, Y: 600}

// Scene is a snapshot ready to draw.
type Scene struct {
	Nodes  []node.View `json:"nodes"`
	Edges  []Edge      `json:"edges"`
	Banner bool        `json:"banner"`
	// Viewport is the minimum drawing size. Zero means DefaultViewport.
	Viewport domain.Point `json:"viewport"`
}

// Layout turns a snapshot into a scene. Connections whose endpoints are
// missing are skipped.
func Layout(snap domain.Snapshot) Scene {
	scene := Scene{
		Nodes:  make([]node.View, 0, len(snap.Nodes)),
		Edges:  make([]Edge, 0, len(snap.Connections)),
		Banner: snap.ConnectingFrom != "",
	}
	for _, n := range snap.Nodes {
		v := node.Render(n, n.ID == snap.SelectedNodeID, n.ID == snap.ConnectingFrom)
		v.Dragging = n.ID == snap.DraggingNodeID
		scene.Nodes = append(scene.Nodes, v)
	}
	for _, c := range snap.Connections {
		src, ok := snap.Node(c.Source)
		if !ok {
			continue
		}
		dst, ok := snap.Node(c.Target)
		if !ok {
			continue
		}
		from, to := src.SourceAnchor(), dst.TargetAnchor()
		scene.Edges = append(scene.Edges, Edge{ID: c.ID, From: from, To: to, D: Path(from, to)})
	}
	return scene
}

// Path is a horizontal cubic Bézier from one handle to another: both control
// points sit on the vertical line halfway between the endpoints.
func Path(from, to domain.Point) string {
	midX := (from.X + to.X) / 2
	return "M " + num(from.X) + " " + num(from.Y) +
		" C " + num(midX) + " " + num(from.Y) +
		", " + num(midX) + " " + num(to.Y) +
		", " + num(to.X) + " " + num(to.Y)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
