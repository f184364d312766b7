package canvas

import (
	"fmt"
	"html"
	"io"
	"strings"
)

const (
	colorEdge     = "#6b7280"
	colorBorder   = "#e5e7eb"
	colorSelected = "#3b82f6"
	colorPending  = "#fb923c"
	colorHeader   = "#3b82f6"
)

// WriteSVG draws the scene as a standalone SVG document.
func WriteSVG(w io.Writer, scene Scene) error {
	var sb strings.Builder
	width, height := extent(scene)

	fmt.Fprintf(&sb, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%s\" height=\"%s\" font-family=\"sans-serif\">\n", num(width), num(height))
	sb.WriteString("  <defs>\n")
	fmt.Fprintf(&sb, "    <marker id=\"arrowhead\" markerWidth=\"10\" markerHeight=\"7\" refX=\"9\" refY=\"3.5\" orient=\"auto\"><polygon points=\"0 0, 10 3.5, 0 7\" fill=\"%s\"/></marker>\n", colorEdge)
	sb.WriteString("  </defs>\n")

	for _, e := range scene.Edges {
		fmt.Fprintf(&sb, "  <path id=%q d=%q stroke=\"%s\" stroke-width=\"2\" fill=\"none\" marker-end=\"url(#arrowhead)\"/>\n",
			html.EscapeString(e.ID), e.D, colorEdge)
	}

	for _, v := range scene.Nodes {
		stroke := colorBorder
		switch {
		case v.Connecting:
			stroke = colorPending
		case v.Selected:
			stroke = colorSelected
		}
		x, y := num(v.Bounds.Min.X), num(v.Bounds.Min.Y)
		fmt.Fprintf(&sb, "  <g id=%q>\n", html.EscapeString(v.ID))
		fmt.Fprintf(&sb, "    <rect x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\" rx=\"8\" fill=\"#fff\" stroke=\"%s\" stroke-width=\"2\"/>\n",
			x, y, num(v.Bounds.Width()), num(v.Bounds.Height()), stroke)
		fmt.Fprintf(&sb, "    <rect x=\"%s\" y=\"%s\" width=\"%s\" height=\"28\" rx=\"8\" fill=\"%s\"/>\n",
			x, y, num(v.Bounds.Width()), colorHeader)
		fmt.Fprintf(&sb, "    <text x=\"%s\" y=\"%s\" fill=\"#fff\" font-size=\"13\">%s</text>\n",
			num(v.Bounds.Min.X+12), num(v.Bounds.Min.Y+19), html.EscapeString(v.Title))
		fmt.Fprintf(&sb, "    <text x=\"%s\" y=\"%s\" fill=\"#374151\" font-size=\"13\">%s</text>\n",
			num(v.Bounds.Min.X+12), num(v.Bounds.Min.Y+54), html.EscapeString(firstLine(v.Body)))
		fmt.Fprintf(&sb, "    <circle cx=\"%s\" cy=\"%s\" r=\"8\" fill=\"%s\" stroke=\"#fff\" stroke-width=\"2\"/>\n",
			num(v.SourceHandle.X), num(v.SourceHandle.Y), colorHeader)
		fmt.Fprintf(&sb, "    <circle cx=\"%s\" cy=\"%s\" r=\"8\" fill=\"#9ca3af\" stroke=\"#fff\" stroke-width=\"2\"/>\n",
			num(v.TargetHandle.X), num(v.TargetHandle.Y))
		sb.WriteString("  </g>\n")
	}

	if scene.Banner {
		fmt.Fprintf(&sb, "  <g id=\"connection-banner\"><text x=\"%s\" y=\"24\" text-anchor=\"middle\" fill=\"%s\" font-size=\"14\">%s</text><text x=\"%s\" y=\"42\" text-anchor=\"middle\" fill=\"%s\" font-size=\"11\">%s</text></g>\n",
			num(width/2), colorPending, BannerTitle, num(width/2), colorPending, BannerHint)
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// extent is the drawing size: every node plus a margin, never smaller than
// the viewport.
func extent(scene Scene) (float64, float64) {
	vp := scene.Viewport
	if vp.X <= 0 || vp.Y <= 0 {
		vp = DefaultViewport
	}
	width, height := vp.X, vp.Y
	for _, v := range scene.Nodes {
		if v.Bounds.Max.X+40 > width {
			width = v.Bounds.Max.X + 40
		}
		if v.Bounds.Max.Y+40 > height {
			height = v.Bounds.Max.Y + 40
		}
	}
	return width, height
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + "…"
	}
	return s
}
