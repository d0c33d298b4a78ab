// Package io provides JSON import and export for extracted netlists.
//
// # Overview
//
// The JSON document is an inspection format. It carries everything the
// segment and transistor tables do plus the arena layout, the rails, the run
// id and the warnings of the run, so that a netlist can be re-rendered with
// `dienet render` without repeating extraction.
//
// # JSON Format
//
//	{
//	  "run_id": "5c0b...",
//	  "rails": {"power": 1, "ground": 2},
//	  "spans": {"metal": [0, 120], "poly": [120, 300], "diffusion": [300, 512]},
//	  "nodes": [
//	    {"id": 3, "pull": "-", "layer": 0, "vertices": [4,0, 4,4, 0,4, 0,0]}
//	  ],
//	  "transistors": [
//	    {"id": 1, "gate": 4, "c1": 3, "c2": 2, "box": [20,30,0,20],
//	     "width1": 20, "width2": 20, "length": 10, "segments": 1, "area": 200}
//	  ],
//	  "warnings": [{"kind": "NOT_HIT", "subject": "via 12", "message": "..."}]
//	}
//
// Vertex lists are flat x,y pairs of the open ring; the closing vertex is
// implied.
//
// # Import and Export
//
// Use [WriteJSON] / [ExportJSON] to write a netlist and [ReadJSON] /
// [ImportJSON] to read one back. Import validates ids and spans and returns
// an INVALID_INPUT error naming the offending entry.
package io
