// Package render draws an engine frame as a standalone SVG document.
package render

import (
	"bytes"
	"fmt"
	"html"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/roach88/nodemap/internal/engine"
	"github.com/roach88/nodemap/internal/graph"
	"github.com/roach88/nodemap/internal/interact"
)

// Options configures SVG generation.
type Options struct {
	Width  float64
	Height float64
	Radius float64
}

// DefaultOptions returns the standard 800x600 canvas with radius 20 nodes.
func DefaultOptions() Options {
	return Options{Width: 800, Height: 600, Radius: 20}
}

// ContextMenuItems are the entries drawn in an open context menu.
var ContextMenuItems = []string{"Add/Edit Info", "Change Color"}

const (
	tooltipCharW   = 7
	tooltipPadding = 8
	tooltipHeight  = 24
	menuItemHeight = 22
	menuWidth      = 120
	ringGap        = 4
)

const (
	labelStyle   = "font-family:sans-serif;font-size:10px;text-anchor:middle;dominant-baseline:central"
	tooltipStyle = "font-family:sans-serif;font-size:12px;text-anchor:middle;dominant-baseline:central;fill:#fff"
	menuStyle    = "font-family:sans-serif;font-size:12px;dominant-baseline:central"
)

// SVG renders f. Coordinates are rounded to whole pixels. Links stop at the
// target's rim so the arrowhead stays visible.
func SVG(f engine.Frame, opts Options) (string, error) {
	if opts.Width <= 0 || opts.Height <= 0 || opts.Radius <= 0 {
		return "", fmt.Errorf("invalid render options: %+v", opts)
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	w, h := px(opts.Width), px(opts.Height)
	canvas.Start(w, h, fmt.Sprintf(`viewBox="0 0 %d %d"`, w, h))

	defs(canvas)

	canvasClass := `class="canvas"`
	if f.LinkMode {
		canvasClass = `class="canvas link-mode"`
	}
	canvas.Rect(0, 0, w, h, canvasClass, "fill:#fafafa")

	for _, l := range f.Links {
		drawLink(canvas, l.From, l.To, opts.Radius)
	}
	if rb := f.RubberBand; rb != nil {
		canvas.Line(px(rb.From.X), px(rb.From.Y), px(rb.To.X), px(rb.To.Y),
			`class="rubber-band"`, "stroke:#666;stroke-width:1.5;stroke-dasharray:4 4")
	}
	for _, n := range f.Nodes {
		drawNode(canvas, n, opts.Radius)
	}
	if tip := f.Tooltip; tip != nil {
		drawTooltip(canvas, tip.Content, tip.Anchor)
	}
	if o := f.Overlay; o != nil && o.Kind == interact.OverlayContextMenu.String() {
		drawContextMenu(canvas, o.Anchor)
	}

	canvas.End()
	return buf.String(), nil
}

// defs declares the arrowhead marker and the node drop shadow.
func defs(canvas *svg.SVG) {
	canvas.Def()
	canvas.Marker("arrow", 10, 5, 6, 6, `viewBox="0 0 10 10"`, `orient="auto"`)
	canvas.Path("M 0 0 L 10 5 L 0 10 z", "fill:#999")
	canvas.MarkerEnd()

	canvas.Filter("shadow")
	canvas.FeGaussianBlur(svg.Filterspec{In: "SourceAlpha", Result: "blur"}, 2, 2)
	canvas.FeOffset(svg.Filterspec{In: "blur", Result: "offsetBlur"}, 2, 2)
	canvas.FeMerge([]string{"offsetBlur", "SourceGraphic"})
	canvas.Fend()
	canvas.DefEnd()
}

// drawLink draws from..to shortened by r at the target end. Links whose
// endpoints overlap are not drawn.
func drawLink(canvas *svg.SVG, from, to graph.Vec2, r float64) {
	end, ok := rimPoint(from, to, r)
	if !ok {
		return
	}
	canvas.Line(px(from.X), px(from.Y), px(end.X), px(end.Y),
		`class="link"`, "stroke:#999;stroke-width:1.5", `marker-end="url(#arrow)"`)
}

// rimPoint returns the point r short of to along from..to.
func rimPoint(from, to graph.Vec2, r float64) (graph.Vec2, bool) {
	d := to.Sub(from)
	dist := d.Len()
	if dist <= r {
		return graph.Vec2{}, false
	}
	return to.Sub(d.Scale(r / dist)), true
}

func drawNode(canvas *svg.SVG, n engine.FrameNode, r float64) {
	x, y := px(n.Pos.X), px(n.Pos.Y)
	canvas.Group(`class="node"`, attr("data-id", n.ID))
	if n.Selected {
		canvas.Circle(x, y, px(r+ringGap), `class="selection"`, "fill:none;stroke:#333;stroke-width:2")
	}
	canvas.Circle(x, y, px(r), attr("fill", n.Color), "stroke:#555;stroke-width:1;filter:url(#shadow)")
	canvas.Text(x, y, n.Label, labelStyle)
	canvas.Gend()
}

// drawTooltip centres a dark box above anchor, sized to the content.
func drawTooltip(canvas *svg.SVG, content string, anchor graph.Vec2) {
	w := float64(len([]rune(content))*tooltipCharW + 2*tooltipPadding)
	canvas.Group(`class="tooltip"`)
	canvas.Roundrect(px(anchor.X-w/2), px(anchor.Y-tooltipHeight), px(w), tooltipHeight, 4, 4,
		"fill:#333;fill-opacity:0.9")
	canvas.Text(px(anchor.X), px(anchor.Y-tooltipHeight/2), content, tooltipStyle)
	canvas.Gend()
}

func drawContextMenu(canvas *svg.SVG, anchor graph.Vec2) {
	x, y := px(anchor.X), px(anchor.Y)
	canvas.Group(`class="context-menu"`)
	canvas.Rect(x, y, menuWidth, len(ContextMenuItems)*menuItemHeight, "fill:#fff;stroke:#ccc")
	for i, item := range ContextMenuItems {
		canvas.Text(x+8, y+i*menuItemHeight+menuItemHeight/2, item, menuStyle)
	}
	canvas.Gend()
}

// attr formats an attribute with an escaped value.
func attr(name, value string) string {
	return fmt.Sprintf(`%s="%s"`, name, html.EscapeString(value))
}

func px(v float64) int {
	return int(math.Round(v))
}
