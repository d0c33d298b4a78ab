package geom

// Intersects reports whether the open segments p1-p2 and q1-q2 cross.
//
// Both segments are treated as open: a crossing that lands exactly on an
// endpoint of either segment is not reported, and parallel or collinear
// segments never cross. Intermediates are widened to int64 and the parameter
// range checks stay in integers, so the result is exact for any coordinates
// that fit in 32 bits.
func Intersects(p1, p2, q1, q2 Vertex) bool {
	px, py := int64(p2.X-p1.X), int64(p2.Y-p1.Y)
	qx, qy := int64(q2.X-q1.X), int64(q2.Y-q1.Y)
	rx, ry := int64(p1.X-q1.X), int64(p1.Y-q1.Y)

	d := qy*px - qx*py
	if d == 0 {
		return false
	}
	ua := qx*ry - qy*rx
	ub := px*ry - py*rx

	// ua/d and ub/d are the crossing parameters along p and q.
	if d < 0 {
		d, ua, ub = -d, -ua, -ub
	}

	if (ua == 0 || ua == d) && ub >= 0 && ub <= d {
		return false
	}
	if (ub == 0 || ub == d) && ua >= 0 && ua <= d {
		return false
	}
	return ua > 0 && ua < d && ub > 0 && ub < d
}
