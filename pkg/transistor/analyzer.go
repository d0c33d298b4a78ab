package transistor

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/dieshot/dienet/pkg/errors"
	"github.com/dieshot/dienet/pkg/geom"
	"github.com/dieshot/dienet/pkg/netlist"
)

// Process selects the fabrication process rules.
type Process string

const (
	NMOS Process = "nmos"
	CMOS Process = "cmos"
)

// ParseProcess validates a process name. The empty string selects NMOS.
func ParseProcess(s string) (Process, error) {
	switch Process(s) {
	case "", NMOS:
		return NMOS, nil
	case CMOS:
		return CMOS, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "unknown process %q (want nmos or cmos)", s)
}

// SampleDistance is how far outside an outline edge its sample point lies.
const SampleDistance = 2

// probeOffsets nudge the outline toward each side to find the diffusion it
// abuts.
var probeOffsets = [4]geom.Vertex{{X: -4, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: -4}, {X: 0, Y: 2}}

// Stats summarizes one analysis run.
type Stats struct {
	Transistors int `json:"transistors"`
	Emitted     int `json:"emitted"`
	PullUps     int `json:"pull_ups"`
	Disabled    int `json:"disabled"`
	PType       int `json:"p_type"`
}

// Analyzer fills in the derived fields of every transistor in a netlist.
type Analyzer struct {
	process Process
	logger  *log.Logger
}

// New creates an analyzer for process. A nil logger discards output.
func New(process Process, logger *log.Logger) *Analyzer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if process == "" {
		process = NMOS
	}
	return &Analyzer{process: process, logger: logger}
}

// Analyze processes nl.Transistors in order. Every metal, polysilicon and
// diffusion node must already carry an id. On return each outline has been
// moved back by (-1,-1) into plane coordinates with its bounds recomputed.
func (a *Analyzer) Analyze(ctx context.Context, nl *netlist.Netlist) (*Stats, *netlist.Report, error) {
	stats := &Stats{Transistors: len(nl.Transistors)}
	report := &netlist.Report{}
	a.logger.Debug("analyzing transistors", "count", len(nl.Transistors), "process", a.process)

	next := 1
	for i := range nl.Transistors {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		t := &nl.Transistors[i]
		t.ID = next
		next++

		a.analyze(nl, t, report)

		switch {
		case t.Depletion:
			nl.SetPull(t.Gate, netlist.PullUp)
			t.ID = 0
			next--
			stats.PullUps++
		case t.Disabled:
			stats.Disabled++
		default:
			stats.Emitted++
		}
		if t.PType() {
			stats.PType++
		}
	}

	for i := range nl.Transistors {
		t := &nl.Transistors[i]
		t.Poly = t.Poly.Translate(-1, -1)
		t.Box = t.Poly.Bounds()
	}

	a.logger.Info("transistors analyzed", "total", stats.Transistors,
		"pullups", stats.PullUps, "disabled", stats.Disabled)
	return stats, report, nil
}

// terminal is one diffusion net abutting a transistor.
type terminal struct {
	id    int
	polys []geom.Polygon
}

func (a *Analyzer) analyze(nl *netlist.Netlist, t *netlist.Transistor, report *netlist.Report) {
	name := fmt.Sprintf("t%d", t.ID)
	off := nl.Rails.OffRail(t.Polarity)

	t.Gate = a.gate(nl, t)
	if t.Gate == netlist.Unassigned {
		report.Warn(netlist.WarnNoGate, name, "no polysilicon overlaps the outline")
	}
	t.Disabled = t.Gate == off

	terms, extra := a.terminals(nl, t)
	if len(terms) < 2 || extra {
		n := len(terms)
		if extra {
			n = 3
		}
		report.Warn(netlist.WarnTerminalCount, name, "found %s diffusion terminals, want 2", countWord(n))
		t.C1, t.C2 = off, off
		terms = nil
	} else {
		if a.swap(nl, t, terms[0].id, terms[1].id) {
			terms[0], terms[1] = terms[1], terms[0]
		}
		t.C1, t.C2 = terms[0].id, terms[1].id
	}

	for len(terms) < 2 {
		terms = append(terms, terminal{})
	}
	a.measure(t, terms[0], terms[1], name, report)
	t.Area = t.Poly.Area()

	if a.process == NMOS && t.C1 == t.Gate && t.C2 == nl.Rails.Power && t.C1 != nl.Rails.Ground {
		t.Depletion = true
	}
}

func countWord(n int) string {
	if n > 2 {
		return "more than 2"
	}
	return fmt.Sprint(n)
}

// gate returns the id of the first polysilicon node overlapping t.
func (a *Analyzer) gate(nl *netlist.Netlist, t *netlist.Transistor) int {
	for j := nl.Poly.Start; j < nl.Poly.End; j++ {
		if nl.Node(j).Collide(&t.Node) {
			return nl.Node(j).ID
		}
	}
	return netlist.Unassigned
}

// terminals returns up to two distinct diffusion nets abutting t in arena
// order. extra reports a third distinct net.
func (a *Analyzer) terminals(nl *netlist.Netlist, t *netlist.Transistor) ([]terminal, bool) {
	var probes [len(probeOffsets)]netlist.Node
	for k, d := range probeOffsets {
		probes[k] = netlist.NewNode(t.Poly.Translate(d.X, d.Y), netlist.LayerSpecial)
	}

	var terms []terminal
	extra := false
	for j := nl.Diffusion.Start; j < nl.Diffusion.End; j++ {
		sub := nl.Node(j)
		if !slices.ContainsFunc(probes[:], func(p netlist.Node) bool { return sub.Collide(&p) }) {
			continue
		}
		k := slices.IndexFunc(terms, func(tm terminal) bool { return tm.id == sub.ID })
		switch {
		case k >= 0:
			terms[k].polys = append(terms[k].polys, sub.Poly)
		case len(terms) < 2:
			terms = append(terms, terminal{id: sub.ID, polys: []geom.Polygon{sub.Poly}})
		default:
			extra = true
		}
	}
	return terms, extra
}

// swap reports whether the terminals c1, c2 should trade places.
func (a *Analyzer) swap(nl *netlist.Netlist, t *netlist.Transistor, c1, c2 int) bool {
	if a.process == CMOS {
		return nl.Rails.IsRail(c2) && !nl.Rails.IsRail(c1)
	}
	return c2 == t.Gate
}

// measure walks the outline edges and fills in widths, length and segments.
func (a *Analyzer) measure(t *netlist.Transistor, t1, t2 terminal, name string, report *netlist.Report) {
	var seg1, seg2, channel, channelSum int
	for i := 0; i < t.Poly.Edges(); i++ {
		sample, length := t.Poly.EdgeSample(i, SampleDistance)
		switch {
		case inside(t1.polys, sample):
			t.Width1 += length
			seg1++
		case inside(t2.polys, sample):
			t.Width2 += length
			seg2++
		default:
			channelSum += length
			channel++
		}
	}

	t.Segments = seg1
	if seg1 != seg2 {
		report.Warn(netlist.WarnSegmentMismatch, name, "terminal segments differ (%d vs %d)", seg1, seg2)
		t.Segments = max(seg1, seg2)
	}
	if channel == 0 {
		report.Warn(netlist.WarnNoChannel, name, "no outline edge borders the gate")
		t.Length = 0
		return
	}
	t.Length = channelSum / channel
}

func inside(polys []geom.Polygon, v geom.Vertex) bool {
	for _, p := range polys {
		if p.Contains(v) {
			return true
		}
	}
	return false
}
