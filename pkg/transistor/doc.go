// Package transistor derives gate, terminals and channel geometry for every
// transistor outline of a connected netlist.
//
// The gate is the first polysilicon node overlapping the outline. Terminals
// are found by nudging the outline a few units in each direction and
// collecting the diffusion nodes the nudged copies overlap; the first two
// distinct ids win. This rule depends on arena order when an outline touches
// more than two diffusion nets, which is reported as a TERMINAL_COUNT warning.
//
// Channel geometry comes from walking the outline edges: an edge whose
// outside sample point lies in a terminal's diffusion adds to that side's
// width, any other edge borders the gate and adds to the channel length.
//
// In the nmos process a device whose gate is tied to one terminal and whose
// other terminal is power is a depletion load. Its gate net is marked pulled
// up and the device is dropped from the transistor table.
package transistor
