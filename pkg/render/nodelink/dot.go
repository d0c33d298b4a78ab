package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/dieshot/dienet/pkg/netlist"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes per-layer shape counts in net labels.
	// When false, only the net id is shown.
	Detailed bool
	// Rails includes the power and ground nets.
	Rails bool
}

// ToDOT converts a netlist to Graphviz DOT format. Only transistors that
// appear in the transistor table are drawn, together with the nets they
// touch.
func ToDOT(nl *netlist.Netlist, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=ellipse, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	nets := nl.Nets()
	used := make(map[int]bool)
	var edges []string
	for i := range nl.Transistors {
		t := &nl.Transistors[i]
		if t.Excluded() {
			continue
		}
		name := fmt.Sprintf("t%d", t.ID)
		fmt.Fprintf(&buf, "  %q [%s];\n", name, strings.Join(transistorAttrs(t), ", "))

		if t.Gate != netlist.Unassigned && opts.include(nl.Rails, t.Gate) {
			used[t.Gate] = true
			edges = append(edges, fmt.Sprintf("  %q -> %q [style=dashed];\n", netName(t.Gate), name))
		}
		for _, c := range []int{t.C1, t.C2} {
			if opts.include(nl.Rails, c) {
				used[c] = true
				edges = append(edges, fmt.Sprintf("  %q -> %q [dir=none];\n", name, netName(c)))
			}
		}
	}

	for _, id := range slices.Sorted(maps.Keys(used)) {
		label := fmtLabel(nl, id, nets[id], opts.Detailed)
		fmt.Fprintf(&buf, "  %q [%s];\n", netName(id), strings.Join(netAttrs(nl, id, nets[id], label), ", "))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func (o Options) include(r netlist.Rails, id int) bool {
	return o.Rails || !r.IsRail(id)
}

func netName(id int) string { return "n" + strconv.Itoa(id) }

func fmtLabel(nl *netlist.Netlist, id int, idx []int, detailed bool) string {
	label := netName(id)
	switch id {
	case nl.Rails.Power:
		label = "vcc"
	case nl.Rails.Ground:
		label = "gnd"
	}
	if !detailed {
		return label
	}

	counts := make(map[netlist.Layer]int)
	for _, i := range idx {
		counts[nl.Nodes[i].Layer]++
	}
	parts := []string{label}
	for _, l := range slices.Sorted(maps.Keys(counts)) {
		parts = append(parts, fmt.Sprintf("%s: %d", l, counts[l]))
	}
	return strings.Join(parts, "\n")
}

func netAttrs(nl *netlist.Netlist, id int, idx []int, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case id == nl.Rails.Power:
		attrs = append(attrs, "fillcolor=\"#d62728\"", "fontcolor=white")
	case id == nl.Rails.Ground:
		attrs = append(attrs, "fillcolor=black", "fontcolor=white")
	case pulledUp(nl, idx):
		attrs = append(attrs, "fillcolor=lightgrey", "peripheries=2")
	}
	return attrs
}

func pulledUp(nl *netlist.Netlist, idx []int) bool {
	for _, i := range idx {
		if nl.Nodes[i].Pull == netlist.PullUp {
			return true
		}
	}
	return false
}

func transistorAttrs(t *netlist.Transistor) []string {
	label := fmt.Sprintf("t%d\n%d/%d", t.ID, max(t.Width1, t.Width2), t.Length)
	attrs := []string{fmt.Sprintf("label=%q", label), "shape=box", "style=\"rounded,filled\""}
	if t.PType() {
		attrs = append(attrs, "fillcolor=\"#aec7e8\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
