// Package geom is the exact-integer geometry kernel used by the extractor.
//
// All coordinates are integers in the post-scaling coordinate space produced by
// the layer loader. Every predicate in this package is a pure function: nothing
// allocates state, nothing returns an error, and no floating-point epsilon is
// involved in a decision.
//
// # Polygons
//
// A [Polygon] stores one closed ring with the first vertex repeated at the end,
// so consecutive pairs enumerate every edge including the closing one:
//
//	p := geom.NewPolygon(geom.Vertex{0, 0}, geom.Vertex{10, 0}, geom.Vertex{10, 20}, geom.Vertex{0, 20})
//	p.Area()     // 200
//	p.Bounds()   // {XMin:0 YMin:0 XMax:10 YMax:20}
//
// # Predicates
//
//   - [Intersects]: open segment crossing; shared endpoints and collinear
//     overlaps never count.
//   - [Polygon.Contains]: ray-cast parity test toward a distant, slightly
//     sloped point.
//   - [Polygon.Overlaps]: asymmetric overlap; the receiver is the reference
//     (larger) shape and the argument is the probe.
//   - [Collide]: bounding-box rejection followed by [Polygon.Overlaps].
package geom
