package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/dieshot/dienet/pkg/errors"
	"github.com/dieshot/dienet/pkg/geom"
	"github.com/dieshot/dienet/pkg/netlist"
)

// ReadJSON decodes a netlist document from r.
//
// It returns an INVALID_INPUT error if the JSON is malformed, the spans do
// not tile the node list, a pull state is unknown, or a vertex list is odd or
// shorter than three vertices. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*netlist.Netlist, Meta, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, Meta{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode netlist")
	}

	nl := &netlist.Netlist{
		Rails:     netlist.Rails{Power: data.Rails.Power, Ground: data.Rails.Ground},
		Metal:     netlist.Span{Start: data.Spans.Metal[0], End: data.Spans.Metal[1]},
		Poly:      netlist.Span{Start: data.Spans.Poly[0], End: data.Spans.Poly[1]},
		Diffusion: netlist.Span{Start: data.Spans.Diffusion[0], End: data.Spans.Diffusion[1]},
		Nodes:     make([]netlist.Node, len(data.Nodes)),
	}
	if nl.Metal.Start != 0 || nl.Metal.End != nl.Poly.Start ||
		nl.Poly.End != nl.Diffusion.Start || nl.Diffusion.End != len(data.Nodes) ||
		nl.Metal.Len() < 2 || nl.Poly.Len() < 0 || nl.Diffusion.Len() < 0 {
		return nil, Meta{}, errors.New(errors.ErrCodeInvalidInput,
			"spans %v do not cover %d nodes", data.Spans, len(data.Nodes))
	}

	for i, n := range data.Nodes {
		poly, err := unflatten(n.Vertices)
		if err != nil {
			return nil, Meta{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "node %d", i)
		}
		layer := netlist.Layer(n.Layer)
		if layer < netlist.LayerMetal || layer > netlist.LayerSpecial {
			return nil, Meta{}, errors.New(errors.ErrCodeInvalidInput, "node %d: unknown layer %d", i, n.Layer)
		}
		nd := netlist.NewNode(poly, layer)
		nd.ID = n.ID
		switch n.Pull {
		case "", netlist.PullNone.String():
		case netlist.PullUp.String():
			nd.Pull = netlist.PullUp
		default:
			return nil, Meta{}, errors.New(errors.ErrCodeInvalidInput, "node %d: unknown pull state %q", i, n.Pull)
		}
		nl.Nodes[i] = nd
	}

	for i, t := range data.Transistors {
		poly, err := unflatten(t.Vertices)
		if err != nil {
			return nil, Meta{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "transistor %d", i)
		}
		pol := netlist.NChannel
		if t.PType {
			pol = netlist.PChannel
		}
		tr := netlist.NewTransistor(poly, pol)
		tr.ID, tr.Gate, tr.C1, tr.C2 = t.ID, t.Gate, t.C1, t.C2
		tr.Width1, tr.Width2, tr.Length, tr.Segments, tr.Area = t.Width1, t.Width2, t.Length, t.Segments, t.Area
		tr.Depletion, tr.Disabled = t.Depletion, t.Disabled
		nl.Transistors = append(nl.Transistors, tr)
	}

	return nl, data.Meta, nil
}

// ImportJSON reads the JSON netlist at path.
func ImportJSON(path string) (*netlist.Netlist, Meta, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Meta{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, Meta{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}

// flatten turns a closed ring into flat x,y pairs without the closing vertex.
func flatten(vs []geom.Vertex) []int {
	if len(vs) < 2 {
		return []int{}
	}
	out := make([]int, 0, 2*(len(vs)-1))
	for _, v := range vs[:len(vs)-1] {
		out = append(out, v.X, v.Y)
	}
	return out
}

func unflatten(flat []int) (geom.Polygon, error) {
	if len(flat)%2 != 0 || len(flat) < 6 {
		return geom.Polygon{}, errors.New(errors.ErrCodeInvalidInput, "vertex list of length %d", len(flat))
	}
	vs := make([]geom.Vertex, len(flat)/2)
	for j := range vs {
		vs[j] = geom.Vertex{X: flat[2*j], Y: flat[2*j+1]}
	}
	return geom.NewPolygon(vs...), nil
}
