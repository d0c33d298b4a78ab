package netlist

import (
	"slices"

	"github.com/dieshot/dienet/pkg/geom"
)

// Arena indices of the two power planes.
const (
	PowerPlane  = 0
	GroundPlane = 1
)

// Span is a half-open index range [Start, End) into the node arena.
type Span struct {
	Start, End int
}

// Len returns the number of nodes in the span.
func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether index i falls inside the span.
func (s Span) Contains(i int) bool { return i >= s.Start && i < s.End }

// Overlaps reports whether two spans share an index.
func (s Span) Overlaps(o Span) bool { return s.Start < o.End && o.Start < s.End }

// Union returns the smallest span covering s and o. The spans must be
// adjacent or overlapping.
func (s Span) Union(o Span) Span {
	return Span{Start: min(s.Start, o.Start), End: max(s.End, o.End)}
}

// Netlist is the node arena for one extraction run plus the transistor list.
//
// Layout of Nodes: the power plane at index 0, the ground plane at index 1,
// the remaining metal, then polysilicon, then diffusion. Metal covers the
// planes as well.
type Netlist struct {
	Nodes       []Node
	Transistors []Transistor

	Metal     Span
	Poly      Span
	Diffusion Span

	Rails Rails
}

// New builds the arena in canonical order. All nodes start unassigned.
func New(rails Rails, power, ground geom.Polygon, metal, poly, diff []geom.Polygon) *Netlist {
	nl := &Netlist{
		Nodes: make([]Node, 0, 2+len(metal)+len(poly)+len(diff)),
		Rails: rails,
	}
	nl.Nodes = append(nl.Nodes, NewNode(power, LayerMetal), NewNode(ground, LayerMetal))
	nl.Metal = nl.appendLayer(metal, LayerMetal)
	nl.Metal.Start = 0
	nl.Poly = nl.appendLayer(poly, LayerPoly)
	nl.Diffusion = nl.appendLayer(diff, LayerDiffusion)
	return nl
}

func (nl *Netlist) appendLayer(polys []geom.Polygon, layer Layer) Span {
	start := len(nl.Nodes)
	for _, p := range polys {
		nl.Nodes = append(nl.Nodes, NewNode(p, layer))
	}
	return Span{Start: start, End: len(nl.Nodes)}
}

// Node returns the node at arena index i.
func (nl *Netlist) Node(i int) *Node { return &nl.Nodes[i] }

// Relabel moves every node holding id from onto id to and returns how many
// nodes changed.
func (nl *Netlist) Relabel(from, to int) int {
	n := 0
	for i := range nl.Nodes {
		if nl.Nodes[i].ID == from {
			nl.Nodes[i].ID = to
			n++
		}
	}
	return n
}

// SetPull marks every node holding id with pull state p. The power and
// ground planes are never marked.
func (nl *Netlist) SetPull(id int, p Pull) int {
	n := 0
	for i := GroundPlane + 1; i < len(nl.Nodes); i++ {
		if nl.Nodes[i].ID == id {
			nl.Nodes[i].Pull = p
			n++
		}
	}
	return n
}

// Nets groups arena indices by id. Unassigned nodes are left out.
func (nl *Netlist) Nets() map[int][]int {
	nets := make(map[int][]int)
	for i, n := range nl.Nodes {
		if n.ID != Unassigned {
			nets[n.ID] = append(nets[n.ID], i)
		}
	}
	return nets
}

// Partition returns the nets as sorted groups of arena indices, ordered by
// their smallest index. Two arenas with the same partition compare equal
// regardless of which ids the nets ended up with.
func (nl *Netlist) Partition() [][]int {
	nets := nl.Nets()
	groups := make([][]int, 0, len(nets))
	for _, idx := range nets {
		g := slices.Clone(idx)
		slices.Sort(g)
		groups = append(groups, g)
	}
	slices.SortFunc(groups, func(a, b []int) int { return a[0] - b[0] })
	return groups
}

// NetCount returns the number of distinct assigned ids.
func (nl *Netlist) NetCount() int { return len(nl.Nets()) }

// CountLayer returns how many nodes carry layer l.
func (nl *Netlist) CountLayer(l Layer) int {
	n := 0
	for i := range nl.Nodes {
		if nl.Nodes[i].Layer == l {
			n++
		}
	}
	return n
}

// MaxID returns the largest id held by any node, or Unassigned.
func (nl *Netlist) MaxID() int {
	maxID := Unassigned
	for i := range nl.Nodes {
		maxID = max(maxID, nl.Nodes[i].ID)
	}
	return maxID
}
