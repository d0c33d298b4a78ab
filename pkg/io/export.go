package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/dieshot/dienet/pkg/errors"
	"github.com/dieshot/dienet/pkg/netlist"
)

// Meta is the run information stored alongside a netlist.
type Meta struct {
	RunID    string            `json:"run_id"`
	Version  string            `json:"version,omitempty"`
	Process  string            `json:"process,omitempty"`
	Warnings []netlist.Warning `json:"warnings,omitempty"`
}

type document struct {
	Meta
	Rails       rails        `json:"rails"`
	Spans       spans        `json:"spans"`
	Nodes       []node       `json:"nodes"`
	Transistors []transistor `json:"transistors"`
}

type rails struct {
	Power  int `json:"power"`
	Ground int `json:"ground"`
}

type spans struct {
	Metal     [2]int `json:"metal"`
	Poly      [2]int `json:"poly"`
	Diffusion [2]int `json:"diffusion"`
}

type node struct {
	ID       int    `json:"id"`
	Pull     string `json:"pull"`
	Layer    int    `json:"layer"`
	Vertices []int  `json:"vertices"`
}

type transistor struct {
	ID        int    `json:"id"`
	Gate      int    `json:"gate"`
	C1        int    `json:"c1"`
	C2        int    `json:"c2"`
	Box       [4]int `json:"box"`
	Vertices  []int  `json:"vertices"`
	Width1    int    `json:"width1"`
	Width2    int    `json:"width2"`
	Length    int    `json:"length"`
	Segments  int    `json:"segments"`
	Area      int    `json:"area"`
	PType     bool   `json:"ptype,omitempty"`
	Depletion bool   `json:"depletion,omitempty"`
	Disabled  bool   `json:"disabled,omitempty"`
}

// WriteJSON encodes nl and meta as JSON and writes it to w.
func WriteJSON(nl *netlist.Netlist, meta Meta, w io.Writer) error {
	out := document{
		Meta:  meta,
		Rails: rails{Power: nl.Rails.Power, Ground: nl.Rails.Ground},
		Spans: spans{
			Metal:     [2]int{nl.Metal.Start, nl.Metal.End},
			Poly:      [2]int{nl.Poly.Start, nl.Poly.End},
			Diffusion: [2]int{nl.Diffusion.Start, nl.Diffusion.End},
		},
		Nodes:       make([]node, len(nl.Nodes)),
		Transistors: make([]transistor, len(nl.Transistors)),
	}

	for i, n := range nl.Nodes {
		out.Nodes[i] = node{
			ID:       n.ID,
			Pull:     n.Pull.String(),
			Layer:    int(n.Layer),
			Vertices: flatten(n.Poly.Vertices()),
		}
	}
	for i, t := range nl.Transistors {
		out.Transistors[i] = transistor{
			ID: t.ID, Gate: t.Gate, C1: t.C1, C2: t.C2,
			Box:      [4]int{t.Box.XMin, t.Box.XMax, t.Box.YMin, t.Box.YMax},
			Vertices: flatten(t.Poly.Vertices()),
			Width1:   t.Width1, Width2: t.Width2, Length: t.Length,
			Segments: t.Segments, Area: t.Area,
			PType: t.PType(), Depletion: t.Depletion, Disabled: t.Disabled,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(errors.ErrCodeOutput, err, "encode netlist")
	}
	return nil
}

// ExportJSON writes nl to a JSON file at path.
func ExportJSON(nl *netlist.Netlist, meta Meta, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeOutput, err, "create %s", path)
	}
	defer f.Close()
	return WriteJSON(nl, meta, f)
}
