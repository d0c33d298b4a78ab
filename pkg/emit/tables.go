package emit

import (
	"bufio"
	"bytes"
	"io"
	"strconv"

	"github.com/dieshot/dienet/pkg/netlist"
)

// Default file names of the two tables.
const (
	SegmentsFile    = "segdefs.js"
	TransistorsFile = "transdefs.js"
)

// WriteSegments writes one row per arena node, skipping the power and
// ground planes.
func WriteSegments(w io.Writer, nl *netlist.Netlist) error {
	bw := bufio.NewWriter(w)
	for i := range nl.Nodes {
		if i == netlist.PowerPlane || i == netlist.GroundPlane {
			continue
		}
		n := &nl.Nodes[i]
		bw.WriteByte('[')
		bw.WriteString(strconv.Itoa(n.ID))
		bw.WriteString(",'")
		bw.WriteByte(byte(n.Pull))
		bw.WriteString("',")
		bw.WriteString(strconv.Itoa(int(n.Layer)))
		bw.WriteByte(',')
		bw.WriteString(n.Poly.String())
		bw.WriteString("],\n")
	}
	return bw.Flush()
}

// WriteTransistors writes one row per transistor that is not excluded.
func WriteTransistors(w io.Writer, nl *netlist.Netlist) error {
	bw := bufio.NewWriter(w)
	for i := range nl.Transistors {
		t := &nl.Transistors[i]
		if t.Excluded() {
			continue
		}
		bw.WriteString("['t")
		bw.WriteString(strconv.Itoa(t.ID))
		bw.WriteByte('\'')
		writeInts(bw, ',', t.Gate, t.C1, t.C2)
		bw.WriteString(",[")
		writeInts(bw, 0, t.Box.XMin, t.Box.XMax, t.Box.YMin, t.Box.YMax)
		bw.WriteString("],[")
		writeInts(bw, 0, t.Width1, t.Width2, t.Length, t.Segments, t.Area)
		bw.WriteString("],")
		bw.WriteString(strconv.FormatBool(t.PType()))
		bw.WriteString("],\n")
	}
	return bw.Flush()
}

// writeInts writes vs comma-separated, preceded by lead when non-zero.
func writeInts(bw *bufio.Writer, lead byte, vs ...int) {
	for k, v := range vs {
		if k > 0 {
			bw.WriteByte(',')
		} else if lead != 0 {
			bw.WriteByte(lead)
		}
		bw.WriteString(strconv.Itoa(v))
	}
}

// Tables renders both tables into memory, keyed by file name.
func Tables(nl *netlist.Netlist) (map[string][]byte, error) {
	var seg, trans bytes.Buffer
	if err := WriteSegments(&seg, nl); err != nil {
		return nil, err
	}
	if err := WriteTransistors(&trans, nl); err != nil {
		return nil, err
	}
	return map[string][]byte{
		SegmentsFile:    seg.Bytes(),
		TransistorsFile: trans.Bytes(),
	}, nil
}
