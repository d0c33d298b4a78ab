package netlist

import "github.com/dieshot/dienet/pkg/geom"

// Node is one physical conductive shape on one layer.
type Node struct {
	ID    int
	Pull  Pull
	Layer Layer
	Poly  geom.Polygon
	Box   geom.Rect
}

// NewNode creates an unassigned node for poly on layer.
func NewNode(poly geom.Polygon, layer Layer) Node {
	return Node{Pull: PullNone, Layer: layer, Poly: poly, Box: poly.Bounds()}
}

// Collide reports whether other overlaps n, with n as the reference shape.
func (n *Node) Collide(other *Node) bool {
	return geom.Collide(n.Poly, n.Box, other.Poly, other.Box)
}

// Assigned reports whether the node carries an electrical id.
func (n *Node) Assigned() bool { return n.ID != 0 }

// Connector is a transient shape that bridges two layers: a via, a buried
// contact. It is consumed by the connectivity engine and never emitted.
type Connector struct {
	Node
	// Hit is set once the connector has bridged an outer node to an inner one.
	Hit bool
}

// NewConnector wraps poly as a connector shape.
func NewConnector(poly geom.Polygon) Connector {
	return Connector{Node: NewNode(poly, LayerSpecial)}
}
