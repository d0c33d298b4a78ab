package connect

import (
	"context"
	"math/rand"
	"slices"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dieshot/dienet/pkg/geom"
	"github.com/dieshot/dienet/pkg/netlist"
)

// fixture is a small layout with several nets, rails and merges.
type fixture struct {
	metal, poly, diff []geom.Polygon
	vias, contacts    []netlist.Connector
}

func chainFixture() fixture {
	return fixture{
		metal: polys(
			rect(5, 5, 15, 15), rect(25, 45, 35, 55), rect(25, 87, 35, 95),
			rect(300, 0, 320, 20), rect(310, 0, 330, 20),
		),
		poly: polys(
			rect(6, 6, 40, 14), rect(20, 80, 40, 100), rect(312, 6, 318, 14),
			rect(1040, 1040, 1060, 1200),
		),
		diff: polys(
			rect(25, 5, 35, 85), rect(500, 500, 510, 510), rect(1045, 1150, 1055, 1170),
		),
		vias: []netlist.Connector{
			spot(10, 10), spot(30, 50), spot(30, 90), spot(315, 10), spot(1050, 1050),
		},
		contacts: []netlist.Connector{spot(30, 10), spot(30, 82), spot(1050, 1160)},
	}
}

func shuffled[T any](r *rand.Rand, in []T) []T {
	out := slices.Clone(in)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// shapePartition describes the nets by polygon text so that arenas with
// different node orders can be compared.
func shapePartition(nl *netlist.Netlist) []string {
	var groups []string
	for _, idx := range nl.Nets() {
		names := make([]string, len(idx))
		for k, i := range idx {
			names[k] = nl.Nodes[i].Poly.String()
		}
		slices.Sort(names)
		groups = append(groups, strings.Join(names, "|"))
	}
	slices.Sort(groups)
	return groups
}

func (f fixture) run(seed int64) ([]string, error) {
	r := rand.New(rand.NewSource(seed))
	vias := shuffled(r, f.vias)
	contacts := shuffled(r, f.contacts)
	nl := netlist.New(netlist.DefaultRails(), powerPlane, groundPlane,
		shuffled(r, f.metal), shuffled(r, f.poly), shuffled(r, f.diff))
	if _, _, err := New(nil).Connect(context.Background(), nl, vias, contacts); err != nil {
		return nil, err
	}
	return shapePartition(nl), nil
}

func TestPartitionOrderInvariant(t *testing.T) {
	f := chainFixture()
	nl := netlist.New(netlist.DefaultRails(), powerPlane, groundPlane, f.metal, f.poly, f.diff)
	if _, _, err := New(nil).Connect(context.Background(), nl,
		slices.Clone(f.vias), slices.Clone(f.contacts)); err != nil {
		t.Fatal(err)
	}
	want := shapePartition(nl)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("shuffling nodes and connectors keeps the nets", prop.ForAll(
		func(seed int64) bool {
			got, err := f.run(seed)
			return err == nil && slices.Equal(got, want)
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}
