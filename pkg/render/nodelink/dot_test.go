package nodelink

import (
	"strings"
	"testing"

	"github.com/dieshot/dienet/pkg/geom"
	"github.com/dieshot/dienet/pkg/netlist"
)

func rect(x0, y0, x1, y1 int) geom.Polygon {
	return geom.NewPolygon(
		geom.Vertex{X: x0, Y: y0}, geom.Vertex{X: x1, Y: y0},
		geom.Vertex{X: x1, Y: y1}, geom.Vertex{X: x0, Y: y1},
	)
}

func inverter() *netlist.Netlist {
	nl := netlist.New(netlist.DefaultRails(), rect(0, 0, 10, 10), rect(20, 0, 30, 10), nil,
		[]geom.Polygon{rect(40, 0, 44, 4)},
		[]geom.Polygon{rect(50, 0, 54, 4), rect(60, 0, 64, 4)})
	for i, id := range []int{1, 2, 3, 4, 2} {
		nl.Nodes[i].ID = id
	}
	nl.Nodes[3].Pull = netlist.PullUp

	pull := netlist.NewTransistor(rect(0, 0, 4, 4), netlist.NChannel)
	pull.Depletion = true
	sw := netlist.NewTransistor(rect(0, 0, 4, 4), netlist.NChannel)
	sw.ID, sw.Gate, sw.C1, sw.C2 = 1, 3, 4, 2
	sw.Width1, sw.Width2, sw.Length = 20, 20, 10
	nl.Transistors = []netlist.Transistor{pull, sw}
	return nl
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(inverter(), Options{})

	for _, want := range []string{
		`"t1" [label="t1\n20/10", shape=box`,
		`"n3" -> "t1" [style=dashed];`,
		`"t1" -> "n4" [dir=none];`,
		`"n4" [label="n4", fillcolor=lightgrey, peripheries=2];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `"n2"`) {
		t.Error("ground rail drawn without Options.Rails")
	}
	if strings.Count(dot, "shape=box") != 1 {
		t.Error("depletion load should not be drawn")
	}
}

func TestToDOTDetailedWithRails(t *testing.T) {
	dot := ToDOT(inverter(), Options{Detailed: true, Rails: true})

	if !strings.Contains(dot, `"n2" [label="gnd\nmetal: 1\ndiffusion: 1", fillcolor=black`) {
		t.Errorf("ground net label wrong:\n%s", dot)
	}
	if !strings.Contains(dot, `"t1" -> "n2" [dir=none];`) {
		t.Errorf("ground terminal edge missing:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 10.00 20.00" width="10" height="20"`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}
