package pipeline

import (
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/dieshot/dienet/pkg/netlist"
)

// Geometry summarizes the channel dimensions of the emitted transistors.
// Width is the mean of a device's two terminal widths.
type Geometry struct {
	Devices      int     `json:"devices"`
	MeanWidth    float64 `json:"mean_width"`
	StdDevWidth  float64 `json:"stddev_width"`
	MedianWidth  float64 `json:"median_width"`
	MeanLength   float64 `json:"mean_length"`
	StdDevLength float64 `json:"stddev_length"`
	MedianLength float64 `json:"median_length"`
}

// Summarize computes channel statistics over the transistors that appear in
// the transistor table.
func Summarize(nl *netlist.Netlist) Geometry {
	var widths, lengths []float64
	for i := range nl.Transistors {
		t := &nl.Transistors[i]
		if t.Excluded() {
			continue
		}
		widths = append(widths, float64(t.Width1+t.Width2)/2)
		lengths = append(lengths, float64(t.Length))
	}

	g := Geometry{Devices: len(widths)}
	if g.Devices == 0 {
		return g
	}
	g.MeanWidth, g.StdDevWidth = meanStdDev(widths)
	g.MeanLength, g.StdDevLength = meanStdDev(lengths)
	g.MedianWidth = median(widths)
	g.MedianLength = median(lengths)
	return g
}

// meanStdDev returns the mean and the sample standard deviation, which is 0
// for a single value.
func meanStdDev(x []float64) (float64, float64) {
	if len(x) == 1 {
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}

func median(x []float64) float64 {
	sorted := slices.Clone(x)
	slices.Sort(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}
