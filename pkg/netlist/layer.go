package netlist

import "fmt"

// Layer tags a node with the mask level it came from, or with the role the
// connectivity engine assigned to it. The integer values are written to the
// segment table and must not change.
type Layer int

const (
	LayerMetal Layer = iota
	LayerDiffusion
	LayerProtect
	LayerDiffusionGnd
	LayerDiffusionPwr
	LayerPoly
	LayerSpecial
)

var layerNames = map[Layer]string{
	LayerMetal:        "metal",
	LayerDiffusion:    "diffusion",
	LayerProtect:      "protect",
	LayerDiffusionGnd: "diffusion-gnd",
	LayerDiffusionPwr: "diffusion-pwr",
	LayerPoly:         "polysilicon",
	LayerSpecial:      "special",
}

func (l Layer) String() string {
	if s, ok := layerNames[l]; ok {
		return s
	}
	return fmt.Sprintf("layer(%d)", int(l))
}

// Pull is the pull state of a net driven by a depletion pull-up.
type Pull byte

const (
	PullNone Pull = '-'
	PullUp   Pull = '+'
)

func (p Pull) String() string { return string(p) }
