package transistor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dieshot/dienet/pkg/errors"
	"github.com/dieshot/dienet/pkg/geom"
	"github.com/dieshot/dienet/pkg/netlist"
)

func rect(x0, y0, x1, y1 int) geom.Polygon {
	return geom.NewPolygon(
		geom.Vertex{X: x0, Y: y0}, geom.Vertex{X: x1, Y: y0},
		geom.Vertex{X: x1, Y: y1}, geom.Vertex{X: x0, Y: y1},
	)
}

// cell is one transistor site: a vertical gate strip over a horizontal
// diffusion run split into a left and a right terminal. Outlines carry the
// +1 connector offset.
type cell struct {
	dx                int
	gate, left, right int
	pol               netlist.Polarity
}

func (c cell) poly() geom.Polygon  { return rect(c.dx+18, -10, c.dx+32, 30) }
func (c cell) leftD() geom.Polygon { return rect(c.dx, 0, c.dx+20, 20) }
func (c cell) rightD() geom.Polygon {
	return rect(c.dx+30, 0, c.dx+50, 20)
}
func (c cell) outline() geom.Polygon { return rect(c.dx+21, 1, c.dx+31, 21) }

// build lays out the cells and stamps the given net ids on their nodes.
func build(cells ...cell) *netlist.Netlist {
	var poly, diff []geom.Polygon
	for _, c := range cells {
		if c.gate != 0 {
			poly = append(poly, c.poly())
		}
		if c.left != 0 {
			diff = append(diff, c.leftD())
		}
		if c.right != 0 {
			diff = append(diff, c.rightD())
		}
	}
	nl := netlist.New(netlist.DefaultRails(), rect(-1000, -1000, -900, -900), rect(-2000, -2000, -1900, -1900), nil, poly, diff)
	nl.Nodes[0].ID, nl.Nodes[1].ID = netlist.PowerID, netlist.GroundID

	p, d := nl.Poly.Start, nl.Diffusion.Start
	for _, c := range cells {
		if c.gate != 0 {
			nl.Nodes[p].ID = c.gate
			p++
		}
		for _, id := range []int{c.left, c.right} {
			if id != 0 {
				nl.Nodes[d].ID = id
				d++
			}
		}
		nl.Transistors = append(nl.Transistors, netlist.NewTransistor(c.outline(), c.pol))
	}
	return nl
}

func analyze(t *testing.T, process Process, nl *netlist.Netlist) (*Stats, *netlist.Report) {
	t.Helper()
	stats, report, err := New(process, nil).Analyze(context.Background(), nl)
	require.NoError(t, err)
	return stats, report
}

func TestEnhancementDevice(t *testing.T) {
	nl := build(cell{gate: 5, left: 6, right: 7})
	stats, report := analyze(t, NMOS, nl)

	tr := nl.Transistors[0]
	assert.Empty(t, report.Warnings)
	assert.Equal(t, 1, tr.ID)
	assert.Equal(t, [3]int{5, 6, 7}, [3]int{tr.Gate, tr.C1, tr.C2})
	assert.Equal(t, 20, tr.Width1)
	assert.Equal(t, 20, tr.Width2)
	assert.Equal(t, 10, tr.Length)
	assert.Equal(t, 1, tr.Segments)
	assert.Equal(t, 200, tr.Area)
	assert.False(t, tr.Excluded())
	assert.Equal(t, 1, stats.Emitted)

	// Outline restored to plane coordinates.
	assert.Equal(t, geom.Rect{XMin: 20, YMin: 0, XMax: 30, YMax: 20}, tr.Box)
}

func TestGateOnSecondTerminalSwaps(t *testing.T) {
	nl := build(cell{gate: 5, left: 7, right: 5})
	analyze(t, NMOS, nl)

	tr := nl.Transistors[0]
	assert.Equal(t, 5, tr.C1)
	assert.Equal(t, 7, tr.C2)
	assert.False(t, tr.Depletion)
}

func TestDepletionPullUp(t *testing.T) {
	nl := build(
		cell{gate: 5, left: 5, right: netlist.PowerID},
		cell{dx: 100, gate: 8, left: 9, right: 10},
	)
	stats, _ := analyze(t, NMOS, nl)

	load, next := nl.Transistors[0], nl.Transistors[1]
	assert.True(t, load.Depletion)
	assert.Zero(t, load.ID)
	assert.True(t, load.Excluded())
	assert.Equal(t, 1, next.ID, "reclaimed id is reused")
	assert.Equal(t, 1, stats.PullUps)
	assert.Equal(t, 1, stats.Emitted)

	for i, n := range nl.Nodes {
		want := netlist.PullNone
		if n.ID == 5 {
			want = netlist.PullUp
		}
		assert.Equal(t, want, n.Pull, "node %d", i)
	}
}

func TestDepletionIgnoredInCMOS(t *testing.T) {
	nl := build(cell{gate: 5, left: 5, right: netlist.PowerID})
	stats, _ := analyze(t, CMOS, nl)
	assert.False(t, nl.Transistors[0].Depletion)
	assert.Zero(t, stats.PullUps)
}

func TestDisabledDevice(t *testing.T) {
	nl := build(
		cell{gate: netlist.GroundID, left: 6, right: 7},
		cell{dx: 100, gate: 8, left: 9, right: 10},
	)
	stats, _ := analyze(t, NMOS, nl)

	off := nl.Transistors[0]
	assert.True(t, off.Disabled)
	assert.True(t, off.Excluded())
	assert.Equal(t, 1, off.ID)
	assert.Equal(t, 2, nl.Transistors[1].ID)
	assert.Equal(t, 1, stats.Disabled)
	assert.Equal(t, 10, off.Length, "disabled devices are still measured")
}

func TestPChannelRules(t *testing.T) {
	nl := build(
		cell{gate: 5, left: 6, right: netlist.PowerID, pol: netlist.PChannel},
		cell{dx: 100, gate: netlist.PowerID, left: 9, right: 10, pol: netlist.PChannel},
	)
	stats, _ := analyze(t, CMOS, nl)

	tr := nl.Transistors[0]
	assert.True(t, tr.PType())
	assert.Equal(t, netlist.PowerID, tr.C1, "rail moves to the first terminal")
	assert.Equal(t, 6, tr.C2)
	assert.True(t, nl.Transistors[1].Disabled, "p-channel is off with its gate on power")
	assert.Equal(t, 2, stats.PType)
}

func TestTerminalCount(t *testing.T) {
	t.Run("one terminal", func(t *testing.T) {
		nl := build(cell{gate: 5, left: 6})
		_, report := analyze(t, NMOS, nl)
		assert.Equal(t, 1, report.Count(netlist.WarnTerminalCount))
		tr := nl.Transistors[0]
		assert.Equal(t, netlist.GroundID, tr.C1)
		assert.Equal(t, netlist.GroundID, tr.C2)
		// Every outline edge counts as channel: (10+20+10+20)/4.
		assert.Zero(t, tr.Width1)
		assert.Zero(t, tr.Width2)
		assert.Zero(t, tr.Segments)
		assert.Equal(t, 15, tr.Length)
	})

	t.Run("three terminals", func(t *testing.T) {
		nl := build(cell{gate: 5, left: 6, right: 7})
		extra := netlist.NewNode(rect(20, 20, 30, 40), netlist.LayerDiffusion)
		extra.ID = 8
		nl.Nodes = append(nl.Nodes, extra)
		nl.Diffusion.End++

		_, report := analyze(t, NMOS, nl)
		require.Equal(t, 1, report.Count(netlist.WarnTerminalCount))
		assert.Equal(t, "t1", report.Warnings[0].Subject)
		tr := nl.Transistors[0]
		assert.Equal(t, netlist.GroundID, tr.C1)
		assert.Zero(t, tr.Width1)
		assert.Zero(t, tr.Width2)
		assert.Equal(t, 15, tr.Length)
		assert.Zero(t, report.Count(netlist.WarnSegmentMismatch))
	})
}

func TestNoGate(t *testing.T) {
	nl := build(cell{left: 6, right: 7})
	_, report := analyze(t, NMOS, nl)
	assert.Equal(t, 1, report.Count(netlist.WarnNoGate))
	assert.Zero(t, nl.Transistors[0].Gate)
	assert.False(t, nl.Transistors[0].Disabled)
}

func TestSegmentMismatchAndNoChannel(t *testing.T) {
	nl := build(cell{gate: 5, left: 6, right: 7})
	// Widen the left terminal so it wraps the top and bottom of the outline.
	nl.Nodes[nl.Diffusion.Start] = netlist.NewNode(rect(0, -10, 28, 40), netlist.LayerDiffusion)
	nl.Nodes[nl.Diffusion.Start].ID = 6

	_, report := analyze(t, NMOS, nl)

	tr := nl.Transistors[0]
	assert.Equal(t, 1, report.Count(netlist.WarnSegmentMismatch))
	assert.Equal(t, 1, report.Count(netlist.WarnNoChannel))
	assert.Equal(t, 3, tr.Segments)
	assert.Equal(t, 40, tr.Width1)
	assert.Zero(t, tr.Length)
}

func TestParseProcess(t *testing.T) {
	for in, want := range map[string]Process{"": NMOS, "nmos": NMOS, "cmos": CMOS} {
		got, err := ParseProcess(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseProcess("bipolar")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestAnalyzeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	nl := build(cell{gate: 5, left: 6, right: 7})
	_, _, err := New(NMOS, nil).Analyze(ctx, nl)
	assert.ErrorIs(t, err, context.Canceled)
}
