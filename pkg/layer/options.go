package layer

import "github.com/dieshot/dienet/pkg/geom"

const (
	// DefaultScale doubles pixel coordinates so edge midpoints stay integral.
	DefaultScale = 2
	// DefaultChipHeight is the die image height in pixels.
	DefaultChipHeight = 6256
	// ConnectorOffset is added to both axes of connector layer vertices.
	ConnectorOffset = 1
)

// Kind selects how a file's vertices are placed.
type Kind int

const (
	// Plane layers (metal, polysilicon, diffusion) are scaled and flipped.
	Plane Kind = iota
	// Connector layers (vias, buried contacts, transistor outlines) are
	// additionally offset by ConnectorOffset.
	Connector
)

func (k Kind) String() string {
	if k == Connector {
		return "connector"
	}
	return "plane"
}

// Options controls the coordinate transform applied while loading.
type Options struct {
	Scale      int  `json:"scale"`
	ChipHeight int  `json:"chip_height"`
	Kind       Kind `json:"kind"`
}

// WithDefaults fills zero fields with the package defaults.
func (o Options) WithDefaults() Options {
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.ChipHeight == 0 {
		o.ChipHeight = DefaultChipHeight
	}
	return o
}

// Transform maps a pixel coordinate into layer space.
func (o Options) Transform(x, y int) geom.Vertex {
	v := geom.Vertex{X: x * o.Scale, Y: (o.ChipHeight - y) * o.Scale}
	if o.Kind == Connector {
		v = v.Add(ConnectorOffset, ConnectorOffset)
	}
	return v
}
