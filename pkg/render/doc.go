// Package render groups the visual renderers for rosters and running
// orders.
//
// The [nodelink] subpackage draws the conflict graph with Graphviz. Text
// reports live in package report.
package render
