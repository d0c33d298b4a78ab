package geom

import "math"

// Vertex is an integer point in layer coordinates.
type Vertex struct {
	X int
	Y int
}

// Add returns the vertex moved by (dx, dy).
func (v Vertex) Add(dx, dy int) Vertex {
	return Vertex{X: v.X + dx, Y: v.Y + dy}
}

// Dist returns the Euclidean distance to w rounded to the nearest integer.
func (v Vertex) Dist(w Vertex) int {
	dx := float64(w.X - v.X)
	dy := float64(w.Y - v.Y)
	return int(math.Round(math.Hypot(dx, dy)))
}

// Rect is an axis-aligned bounding rectangle. Bounds are inclusive.
type Rect struct {
	XMin, YMin int
	XMax, YMax int
}

// Disjoint reports whether r and o cannot share any point.
// The test is symmetric: r.Disjoint(o) == o.Disjoint(r).
func (r Rect) Disjoint(o Rect) bool {
	return r.XMin > o.XMax || o.XMin > r.XMax || r.YMin > o.YMax || o.YMin > r.YMax
}

// Width returns the horizontal extent of r.
func (r Rect) Width() int { return r.XMax - r.XMin }

// Height returns the vertical extent of r.
func (r Rect) Height() int { return r.YMax - r.YMin }
