package graph

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec2 is a 2D point or vector in canvas coordinates (origin top-left). It
// converts directly to and from r2.Vec; the struct exists for its JSON tags.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// R2 returns v as an r2.Vec.
func (v Vec2) R2() r2.Vec { return r2.Vec(v) }

// FromR2 converts an r2.Vec.
func FromR2(p r2.Vec) Vec2 { return Vec2(p) }

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2(r2.Add(r2.Vec(v), r2.Vec(o))) }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2(r2.Sub(r2.Vec(v), r2.Vec(o))) }

// Scale returns v*k.
func (v Vec2) Scale(k float64) Vec2 { return Vec2(r2.Scale(k, r2.Vec(v))) }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return r2.Norm(r2.Vec(v)) }

// Dist returns the distance between v and o.
func (v Vec2) Dist(o Vec2) float64 { return r2.Norm(r2.Sub(r2.Vec(v), r2.Vec(o))) }

// Rect is an axis-aligned rectangle with inclusive bounds.
type Rect struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinY float64 `json:"min_y"`
	MaxY float64 `json:"max_y"`
}

// Clamp returns p limited to r.
func (r Rect) Clamp(p Vec2) Vec2 {
	return Vec2{
		X: math.Max(r.MinX, math.Min(r.MaxX, p.X)),
		Y: math.Max(r.MinY, math.Min(r.MaxY, p.Y)),
	}
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Node is a labeled circle on the map. ID doubles as the visible label.
type Node struct {
	ID    string
	Pos   Vec2
	Vel   Vec2 // transient simulation state, never persisted
	Color string
	Info  string
}

// Link is an undirected connection between two node ids.
//
// The stored order is kept only as a stable rendering direction
// (arrowhead toward B); equality and lookups ignore it.
type Link struct {
	A string `json:"source"`
	B string `json:"target"`
}

// Has reports whether id is one of the link's endpoints.
func (l Link) Has(id string) bool { return l.A == id || l.B == id }

// Other returns the endpoint opposite id.
func (l Link) Other(id string) string {
	if l.A == id {
		return l.B
	}
	return l.A
}

// Same reports whether l and o join the same unordered pair.
func (l Link) Same(o Link) bool {
	return (l.A == o.A && l.B == o.B) || (l.A == o.B && l.B == o.A)
}

// key returns an order-independent identity for the pair.
func (l Link) key() pairKey {
	if l.A < l.B {
		return pairKey{l.A, l.B}
	}
	return pairKey{l.B, l.A}
}

type pairKey struct{ lo, hi string }

// ResolvedLink is a link whose endpoints both exist, with their positions.
type ResolvedLink struct {
	Link
	From Vec2
	To   Vec2
}

// Palette is the fixed set of pastel node colors.
var Palette = []string{
	"#FFB3BA",
	"#BAFFC9",
	"#BAE1FF",
	"#FFFFBA",
	"#FFDFBA",
	"#E0BBE4",
	"#C4A5DE",
	"#B5EAD7",
	"#FF9AA2",
	"#C7CEEA",
	"#FFD1DC",
	"#A5DEE5",
	"#DCEDC1",
	"#FFD3B6",
	"#D0EFB5",
	"#B5D8EB",
	"#F0B5D4",
	"#D8BFD8",
}

// IsPaletteColor reports whether c is one of the palette values.
func IsPaletteColor(c string) bool {
	for _, p := range Palette {
		if p == c {
			return true
		}
	}
	return false
}

// DefaultSpawn is the rectangle new nodes are dropped into.
var DefaultSpawn = Rect{MinX: 50, MaxX: 750, MinY: 50, MaxY: 550}
