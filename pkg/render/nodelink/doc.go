// Package nodelink draws the conflict graph of a roster as a node-link
// diagram.
//
// # Overview
//
// Every act is a box and every pair of acts sharing a performer is joined by
// an undirected edge labelled with the shared names. Given a finished
// running order, boxes are prefixed with their show position, pinned acts
// are highlighted, and edges are coloured by how much rest the order leaves
// between the two acts:
//
//   - red: back to back (no act between them)
//   - orange: a quick change (one act between them)
//   - grey, dashed: two or more acts between them
//
// # Usage
//
//	dot := nodelink.ToDOT(r, conflict.Build(r.Acts), nodelink.Options{Result: res})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The DOT source uses the neato layout, since conflict graphs have no
// natural top-to-bottom direction.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering; no Graphviz install is needed.
package nodelink
