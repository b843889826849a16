// Package conflict maintains the undirected "shares a performer" graph over
// the acts of a roster.
//
// Vertices are act IDs (see roster.Act.ID). Adjacency is stored centrally as
// sets of IDs, so acts never hold references to each other and removing an
// act is an O(degree) update of its neighbours' sets.
//
// The graph is built once with [Build] and pruned with [Graph.Remove] as the
// scheduler places acts. At any point it holds only the acts still waiting
// to be placed.
package conflict

import (
	"errors"
	"maps"
	"slices"

	"github.com/matzehuels/lineup/pkg/roster"
)

var (
	// ErrUnknownVertex is returned by [Graph.Validate] when an edge points
	// at a vertex that is not in the graph.
	ErrUnknownVertex = errors.New("unknown vertex")

	// ErrSelfLoop is returned by [Graph.Validate] for an edge from a vertex
	// to itself.
	ErrSelfLoop = errors.New("self loop")

	// ErrAsymmetric is returned by [Graph.Validate] when u lists v as a
	// neighbour but v does not list u.
	ErrAsymmetric = errors.New("asymmetric adjacency")
)

// Edge is an unordered pair of act IDs with U < V.
type Edge struct {
	U, V int
}

// Graph is an undirected simple graph keyed by act ID.
//
// The zero value is not usable - use New or Build.
type Graph struct {
	adj map[int]map[int]struct{}
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{adj: make(map[int]map[int]struct{})}
}

// Build creates the conflict graph for acts: one vertex per act and an edge
// between every pair sharing at least one performer.
//
// Every unordered pair is tested, so Build is O(n² · p) for n acts with up
// to p performers each. Rosters hold tens of acts, not thousands.
func Build(acts []*roster.Act) *Graph {
	g := New()
	for _, a := range acts {
		g.AddVertex(a.ID)
	}
	for i, a := range acts {
		for _, b := range acts[i+1:] {
			if a.Shares(b) {
				g.link(a.ID, b.ID)
			}
		}
	}
	return g
}

// AddVertex adds an isolated vertex. Adding an existing vertex is a no-op.
func (g *Graph) AddVertex(id int) {
	if _, ok := g.adj[id]; !ok {
		g.adj[id] = make(map[int]struct{})
	}
}

func (g *Graph) link(u, v int) {
	g.adj[u][v] = struct{}{}
	g.adj[v][u] = struct{}{}
}

// Remove deletes id and every edge touching it, returning its former
// neighbours in ascending order. Removing a missing vertex returns nil.
// Runs in O(degree).
func (g *Graph) Remove(id int) []int {
	nbrs, ok := g.adj[id]
	if !ok {
		return nil
	}
	for n := range nbrs {
		delete(g.adj[n], id)
	}
	delete(g.adj, id)
	return slices.Sorted(maps.Keys(nbrs))
}

// Has reports whether id is a vertex of the graph.
func (g *Graph) Has(id int) bool {
	_, ok := g.adj[id]
	return ok
}

// Neighbors returns the IDs adjacent to id in ascending order.
func (g *Graph) Neighbors(id int) []int {
	return slices.Sorted(maps.Keys(g.adj[id]))
}

// Degree returns the number of neighbours of id, or 0 if id is absent.
func (g *Graph) Degree(id int) int { return len(g.adj[id]) }

// Adjacent reports whether u and v share an edge.
func (g *Graph) Adjacent(u, v int) bool {
	_, ok := g.adj[u][v]
	return ok
}

// Len returns the number of vertices.
func (g *Graph) Len() int { return len(g.adj) }

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, nbrs := range g.adj {
		n += len(nbrs)
	}
	return n / 2
}

// Vertices returns all vertex IDs in ascending order.
func (g *Graph) Vertices() []int {
	return slices.Sorted(maps.Keys(g.adj))
}

// Edges returns every edge once, ordered by (U, V).
func (g *Graph) Edges() []Edge {
	var out []Edge
	for _, u := range g.Vertices() {
		for _, v := range g.Neighbors(u) {
			if u < v {
				out = append(out, Edge{U: u, V: v})
			}
		}
	}
	return out
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := &Graph{adj: make(map[int]map[int]struct{}, len(g.adj))}
	for id, nbrs := range g.adj {
		c.adj[id] = maps.Clone(nbrs)
	}
	return c
}

// Validate checks that adjacency is symmetric, has no self loops and only
// refers to existing vertices.
func (g *Graph) Validate() error {
	for u, nbrs := range g.adj {
		for v := range nbrs {
			if u == v {
				return ErrSelfLoop
			}
			if !g.Has(v) {
				return ErrUnknownVertex
			}
			if !g.Adjacent(v, u) {
				return ErrAsymmetric
			}
		}
	}
	return nil
}
