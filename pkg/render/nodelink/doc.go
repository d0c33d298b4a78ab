// Package nodelink renders extracted netlists as node-link diagrams.
//
// # Overview
//
// Nets become ellipses and transistors become boxes. Each transistor is tied
// to its gate net by a dashed arrow and to its two terminal nets by plain
// lines. Nets pulled up by a depletion load are filled, and the power and
// ground rails are drawn in their own colours.
//
// # Usage
//
// Convert a netlist to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(nl, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: net labels include shape counts per layer
//   - Rails: include the power and ground nets (they connect to most of the
//     chip and usually dominate the layout)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. The DOT source can also be fed to external Graphviz tools.
package nodelink
