// Package connect assigns electrical ids to the nodes of a netlist arena.
//
// Shapes on different layers are joined only through connector shapes: vias
// bridge metal to polysilicon or diffusion, buried contacts bridge
// polysilicon to diffusion. The engine walks each outer layer in arena order,
// hands every unassigned node a fresh id, and for every connector the node
// overlaps it stamps or merges the first inner node that also overlaps that
// connector.
//
// # Ids
//
// The power plane carries [netlist.Rails.Power] and the ground plane carries
// [netlist.Rails.Ground]. Fresh ids start at [netlist.FirstFreeID], or past the
// largest id already in the arena. A merge always keeps the smaller id, so a
// net touching a rail ends up on that rail.
// Merging power with ground is a fatal SHORT_CIRCUIT error.
//
// # Retagging
//
// After the polysilicon pass, polysilicon tied to ground is retagged
// [netlist.LayerProtect]. After diffusion receives its ids, diffusion on a
// rail is retagged [netlist.LayerDiffusionPwr] or [netlist.LayerDiffusionGnd].
//
// The final partition into nets does not depend on the order of nodes within
// a layer or on connector order. The numeric ids do.
package connect
