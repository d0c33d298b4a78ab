package connect

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/dieshot/dienet/pkg/errors"
	"github.com/dieshot/dienet/pkg/netlist"
)

// Connector kinds, used in log lines and reports.
const (
	KindVia    = "via"
	KindBuried = "buried contact"
)

// Stats summarizes one connectivity run.
type Stats struct {
	Vias            int `json:"vias"`
	ViasHit         int `json:"vias_hit"`
	Contacts        int `json:"buried_contacts"`
	ContactsHit     int `json:"buried_contacts_hit"`
	Merges          int `json:"merges"`
	Nets            int `json:"nets"`
	ProtectNodes    int `json:"protect_nodes"`
	PowerDiffusion  int `json:"power_diffusion"`
	GroundDiffusion int `json:"ground_diffusion"`
}

// NotHit returns the number of connectors that never bridged two nodes.
func (s Stats) NotHit() int {
	return (s.Vias - s.ViasHit) + (s.Contacts - s.ContactsHit)
}

// Engine runs the connectivity passes. It is not safe for concurrent use;
// create one per run.
type Engine struct {
	logger *log.Logger
	next   int
	stats  Stats
}

// New creates an engine. A nil logger discards output.
func New(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{logger: logger}
}

// pass bridges one outer span to one inner span through a connector set.
type pass struct {
	kind  string
	outer netlist.Span
	inner netlist.Span
	conns []netlist.Connector
}

// Connect assigns ids to every node in nl. vias bridge metal (planes
// included) to polysilicon and diffusion; contacts bridge polysilicon to
// diffusion. The Hit flag of every connector is updated.
//
// Unhit connectors are recorded in the returned report. A short circuit or a
// cancelled context aborts with an error and leaves nl partially assigned.
func (e *Engine) Connect(ctx context.Context, nl *netlist.Netlist, vias, contacts []netlist.Connector) (*Stats, *netlist.Report, error) {
	e.stats = Stats{Vias: len(vias), Contacts: len(contacts)}
	report := &netlist.Report{}

	if nl.Metal.Len() < 2 {
		return nil, nil, errors.New(errors.ErrCodeInternal, "arena has no power and ground planes")
	}
	nl.Node(netlist.PowerPlane).ID = nl.Rails.Power
	nl.Node(netlist.GroundPlane).ID = nl.Rails.Ground
	e.next = max(netlist.FirstFreeID, nl.MaxID()+1)

	passes := []pass{
		{kind: KindVia, outer: nl.Metal, inner: nl.Poly.Union(nl.Diffusion), conns: vias},
		{kind: KindBuried, outer: nl.Poly, inner: nl.Diffusion, conns: contacts},
	}
	for i, p := range passes {
		if err := e.run(ctx, nl, p); err != nil {
			return nil, nil, err
		}
		missed := e.notHit(report, p)
		if i == 0 {
			e.stats.ViasHit = len(p.conns) - missed
		} else {
			e.stats.ContactsHit = len(p.conns) - missed
			e.retagProtect(nl)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	e.logger.Debug("connectivity pass", "layer", netlist.LayerDiffusion,
		"first", nl.Diffusion.Start, "last", nl.Diffusion.End-1)
	for i := nl.Diffusion.Start; i < nl.Diffusion.End; i++ {
		e.assign(nl.Node(i))
	}
	e.retagDiffusion(nl)

	e.stats.Nets = nl.NetCount()
	e.logger.Info("connectivity complete", "nets", e.stats.Nets,
		"merges", e.stats.Merges, "unmatched", e.stats.NotHit())
	stats := e.stats
	return &stats, report, nil
}

func (e *Engine) run(ctx context.Context, nl *netlist.Netlist, p pass) error {
	e.logger.Debug("connectivity pass", "kind", p.kind,
		"first", p.outer.Start, "last", p.outer.End-1, "connectors", len(p.conns))

	for i := p.outer.Start; i < p.outer.End; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		cur := nl.Node(i)
		e.assign(cur)

		for c := range p.conns {
			conn := &p.conns[c]
			if !cur.Collide(&conn.Node) {
				continue
			}
			j := e.firstInner(nl, p.inner, i, conn)
			if j < 0 {
				continue
			}
			conn.Hit = true
			if err := e.bridge(nl, cur, nl.Node(j), p.kind, c, conn); err != nil {
				return err
			}
		}
	}
	return nil
}

// assign hands n a fresh id unless it already has one.
func (e *Engine) assign(n *netlist.Node) {
	if !n.Assigned() {
		n.ID = e.next
		e.next++
	}
}

// firstInner returns the arena index of the first inner node overlapping
// conn, or -1. The outer node itself is skipped.
func (e *Engine) firstInner(nl *netlist.Netlist, inner netlist.Span, self int, conn *netlist.Connector) int {
	for j := inner.Start; j < inner.End; j++ {
		if j == self {
			continue
		}
		if nl.Node(j).Collide(&conn.Node) {
			return j
		}
	}
	return -1
}

// bridge joins sub to the net of cur.
func (e *Engine) bridge(nl *netlist.Netlist, cur, sub *netlist.Node, kind string, index int, conn *netlist.Connector) error {
	switch {
	case !sub.Assigned():
		sub.ID = cur.ID
		return nil
	case sub.ID == cur.ID:
		return nil
	}

	if nl.Rails.Shorts(cur.ID, sub.ID) {
		return errors.New(errors.ErrCodeShortCircuit,
			"%s %d (%s) joins power and ground", kind, index, conn.Poly)
	}
	oldID, newID := max(cur.ID, sub.ID), min(cur.ID, sub.ID)
	n := nl.Relabel(oldID, newID)
	e.stats.Merges++
	e.logger.Debug("merged nets", "kind", kind, "connector", index, "from", oldID, "to", newID, "nodes", n)
	return nil
}

// notHit reports every connector in p that was never bridged and returns
// how many there were.
func (e *Engine) notHit(report *netlist.Report, p pass) int {
	n := 0
	for c := range p.conns {
		if p.conns[c].Hit {
			continue
		}
		n++
		report.Warn(netlist.WarnNotHit, fmt.Sprintf("%s %d", p.kind, c),
			"%s (%s) was not hit", p.kind, p.conns[c].Poly)
	}
	if n > 0 {
		e.logger.Warn("connectors were not matched", "kind", p.kind, "count", n)
	}
	return n
}

func (e *Engine) retagProtect(nl *netlist.Netlist) {
	for i := nl.Poly.Start; i < nl.Poly.End; i++ {
		if n := nl.Node(i); n.ID == nl.Rails.Ground {
			n.Layer = netlist.LayerProtect
			e.stats.ProtectNodes++
		}
	}
}

func (e *Engine) retagDiffusion(nl *netlist.Netlist) {
	for i := nl.Diffusion.Start; i < nl.Diffusion.End; i++ {
		n := nl.Node(i)
		switch n.ID {
		case nl.Rails.Power:
			n.Layer = netlist.LayerDiffusionPwr
			e.stats.PowerDiffusion++
		case nl.Rails.Ground:
			n.Layer = netlist.LayerDiffusionGnd
			e.stats.GroundDiffusion++
		}
	}
}
