// Package emit writes the segment and transistor tables consumed by the
// chip visualizer.
//
// Both tables are array-literal rows, one per line, with no spaces:
//
//	segdefs.js:   [id,'pull',layer,x1,y1,x2,y2,...],
//	transdefs.js: ['t<id>',gate,c1,c2,[xmin,xmax,ymin,ymax],[w1,w2,length,segments,area],ptype],
//
// The power and ground planes are never written to the segment table; their
// nets are reconstructible from every other node carrying the rail ids.
// Excluded transistors (depletion loads and devices held off) are skipped.
//
// [WriteFiles] stages every output next to its destination and renames them
// only after all have been written, so a failed run leaves no partial tables.
package emit
