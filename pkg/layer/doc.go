// Package layer reads per-layer vertex-list files into polygons.
//
// A vertex-list file holds one "x,y" pair per line. The sentinel pair -1,-1
// closes the current polygon and starts the next one:
//
//	10,10
//	20,10
//	20,30
//	-1,-1
//
// Coordinates are image pixels with y growing downward. [Options.Transform]
// scales them, flips the vertical axis against the chip height and, for
// connector layers, adds a one-unit offset so connector edges never coincide
// with plane edges.
//
// Files are tokenized and parsed with participle; a line that is not two
// comma-separated integers aborts the load with a MALFORMED_LAYER error that
// names the file and line.
package layer
