// Package netlist holds the data model shared by every extraction stage.
//
// Nodes live in a single flat arena ([Netlist]) in load order. Layers occupy
// contiguous index spans inside it, so connectivity passes and global merges
// are plain index scans. Transistors are kept in their own slice and embed a
// [Node] for the shared geometry.
//
// Electrical identity is an integer id. Id 0 means "unassigned"; [Rails]
// names the two reserved ids for power and ground, with power always the
// lower of the two.
package netlist
