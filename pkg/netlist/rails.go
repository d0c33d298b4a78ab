package netlist

// Reserved ids. Power is always the lower of the two.
const (
	Unassigned = 0
	PowerID    = 1
	GroundID   = 2
	// FirstFreeID is the first id handed out to ordinary nets.
	FirstFreeID = 3
)

// Rails names the reserved power and ground ids for one run.
type Rails struct {
	Power  int
	Ground int
}

// DefaultRails returns the standard reserved ids.
func DefaultRails() Rails {
	return Rails{Power: PowerID, Ground: GroundID}
}

// IsRail reports whether id is power or ground.
func (r Rails) IsRail(id int) bool {
	return id == r.Power || id == r.Ground
}

// Shorts reports whether joining a and b would tie power to ground.
func (r Rails) Shorts(a, b int) bool {
	return (a == r.Power && b == r.Ground) || (a == r.Ground && b == r.Power)
}

// OffRail returns the rail that turns a device of the given polarity off:
// ground for N-channel, power for P-channel.
func (r Rails) OffRail(p Polarity) int {
	if p == PChannel {
		return r.Power
	}
	return r.Ground
}
