package netlist

import "github.com/dieshot/dienet/pkg/geom"

// Polarity is the channel type of a transistor.
type Polarity int

const (
	NChannel Polarity = iota
	PChannel
)

func (p Polarity) String() string {
	if p == PChannel {
		return "p"
	}
	return "n"
}

// Transistor is a transistor outline plus everything the analyzer derives
// from it. Terminal and gate fields hold net ids.
type Transistor struct {
	Node

	Gate int
	C1   int
	C2   int

	Width1   int
	Width2   int
	Length   int
	Segments int
	Area     int

	Polarity Polarity
	// Depletion marks a pull-up device. Its id is reclaimed and it is not
	// written to the transistor table.
	Depletion bool
	// Disabled marks a device whose gate sits on its off rail.
	Disabled bool
}

// NewTransistor wraps an outline polygon as an unanalyzed transistor.
func NewTransistor(poly geom.Polygon, pol Polarity) Transistor {
	return Transistor{Node: NewNode(poly, LayerSpecial), Polarity: pol}
}

// PType reports whether the device is P-channel.
func (t *Transistor) PType() bool { return t.Polarity == PChannel }

// Excluded reports whether the transistor is left out of the transistor table.
func (t *Transistor) Excluded() bool {
	return t.ID == 0 || t.Depletion || t.Disabled
}
