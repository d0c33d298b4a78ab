package geom

import (
	"math"
	"strconv"
	"strings"
)

// rayDX and rayDY place the far end of the containment ray. The offset is
// large enough to leave any realistic layer and sloped so the ray does not run
// along grid lines or through vertices at integer coordinates.
const (
	rayDX = 100000
	rayDY = 100
)

// Polygon is a closed ring of vertices. The first vertex is repeated at the
// end so that edge i runs from vertex i to vertex i+1.
//
// The zero value is an empty polygon with no edges.
type Polygon struct {
	verts []Vertex
}

// NewPolygon builds a closed polygon from an open vertex list. If the last
// vertex already equals the first, it is not duplicated again.
func NewPolygon(vs ...Vertex) Polygon {
	if len(vs) == 0 {
		return Polygon{}
	}
	ring := make([]Vertex, 0, len(vs)+1)
	ring = append(ring, vs...)
	if len(vs) == 1 || vs[len(vs)-1] != vs[0] {
		ring = append(ring, vs[0])
	}
	return Polygon{verts: ring}
}

// Vertices returns the closed ring. The slice must not be modified.
func (p Polygon) Vertices() []Vertex { return p.verts }

// Edges returns the number of edges in the ring.
func (p Polygon) Edges() int {
	if len(p.verts) < 2 {
		return 0
	}
	return len(p.verts) - 1
}

// Edge returns the endpoints of edge i.
func (p Polygon) Edge(i int) (Vertex, Vertex) {
	return p.verts[i], p.verts[i+1]
}

// Distinct returns the number of distinct vertices in the ring.
func (p Polygon) Distinct() int {
	seen := make(map[Vertex]struct{}, len(p.verts))
	for _, v := range p.verts {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// Bounds returns the bounding rectangle of the polygon.
func (p Polygon) Bounds() Rect {
	r := Rect{XMin: math.MaxInt, YMin: math.MaxInt, XMax: math.MinInt, YMax: math.MinInt}
	for _, v := range p.verts {
		r.XMin = min(r.XMin, v.X)
		r.YMin = min(r.YMin, v.Y)
		r.XMax = max(r.XMax, v.X)
		r.YMax = max(r.YMax, v.Y)
	}
	return r
}

// Contains reports whether v lies inside the polygon by counting crossings of
// a ray from v toward a distant point.
func (p Polygon) Contains(v Vertex) bool {
	far := v.Add(rayDX, rayDY)
	crossings := 0
	for i := 1; i < len(p.verts); i++ {
		if Intersects(v, far, p.verts[i-1], p.verts[i]) {
			crossings++
		}
	}
	return crossings&1 == 1
}

// Overlaps reports whether probe overlaps p. It is true when any vertex of
// probe lies inside p or any edge of p crosses an edge of probe.
//
// The test is asymmetric. p should be the reference (larger) shape: a probe
// enclosed by p is caught by the vertex test, while a probe that encloses p
// is only caught when edges cross. Callers that cannot order the shapes test
// both directions.
func (p Polygon) Overlaps(probe Polygon) bool {
	for i := 1; i < len(probe.verts); i++ {
		if p.Contains(probe.verts[i]) {
			return true
		}
	}
	for i := 1; i < len(p.verts); i++ {
		p1, p2 := p.verts[i-1], p.verts[i]
		for j := 1; j < len(probe.verts); j++ {
			if Intersects(p1, p2, probe.verts[j-1], probe.verts[j]) {
				return true
			}
		}
	}
	return false
}

// Translate returns a copy of p moved by (dx, dy).
func (p Polygon) Translate(dx, dy int) Polygon {
	moved := make([]Vertex, len(p.verts))
	for i, v := range p.verts {
		moved[i] = v.Add(dx, dy)
	}
	return Polygon{verts: moved}
}

// Area returns the absolute shoelace area, truncated to an integer.
func (p Polygon) Area() int {
	var sum int64
	for i := 1; i < len(p.verts); i++ {
		a, b := p.verts[i-1], p.verts[i]
		sum += int64(a.X)*int64(b.Y) - int64(b.X)*int64(a.Y)
	}
	if sum < 0 {
		sum = -sum
	}
	return int(sum / 2)
}

// EdgeSample returns a point dist units away from the midpoint of edge i,
// perpendicular to the edge and on the outside of the polygon, together with
// the rounded length of the edge. The outside is found by testing a 1-unit
// offset with Contains and taking the opposite side when it lands inside.
//
// A degenerate (zero-length) edge yields its midpoint and length 0.
func (p Polygon) EdgeSample(i, dist int) (Vertex, int) {
	a, b := p.Edge(i)
	mid := Vertex{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	length := a.Dist(b)

	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	norm := math.Hypot(dx, dy)
	if norm == 0 {
		return mid, 0
	}
	nx, ny := -dy/norm, dx/norm

	side := 1
	if p.Contains(mid.Add(roundi(nx), roundi(ny))) {
		side = -1
	}
	off := float64(side * dist)
	return mid.Add(roundi(nx*off), roundi(ny*off)), length
}

// String renders the ring as a flat comma-separated coordinate list, starting
// at the second stored vertex and ending with the repeated closing vertex.
func (p Polygon) String() string {
	if len(p.verts) < 2 {
		return ""
	}
	var b strings.Builder
	for i, v := range p.verts[1:] {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v.X))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(v.Y))
	}
	return b.String()
}

// Collide reports whether probe overlaps ref, rejecting early when the
// bounding rectangles are disjoint. Pass precomputed bounds to avoid
// recomputing them for every pair.
func Collide(ref Polygon, refBox Rect, probe Polygon, probeBox Rect) bool {
	if refBox.Disjoint(probeBox) {
		return false
	}
	return ref.Overlaps(probe)
}

func roundi(f float64) int {
	return int(math.Round(f))
}
