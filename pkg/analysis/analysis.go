// Package analysis computes centrality measures over the undirected
// projection of a curriculum map. The directed relation graph stays the
// source of truth; the projection is rebuilt on every call rather than
// maintained incrementally, since the graphs are small.
package analysis

import (
	"sort"

	"github.com/minhlq/curmap/pkg/dataset"
)

// NodeKind distinguishes the entity classes participating in analysis.
type NodeKind string

// Node kinds.
const (
	KindOutcome NodeKind = "outcome"
	KindCourse  NodeKind = "course"
	KindDetail  NodeKind = "detail"
)

// Node is one vertex of the undirected projection.
type Node struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Kind  NodeKind `json:"kind"`
}

// Options control which entities enter the projection. Course details are
// excluded by default: only outcome and course nodes carry leveled edges,
// and detail fan-out would dominate every measure.
type Options struct {
	IncludeDetails bool
}

// Graph is an undirected simple graph with index-based adjacency. Multi-edges
// collapse during construction, so degree counts distinct neighbors.
type Graph struct {
	nodes []Node
	index map[string]int
	adj   [][]int
}

func nodeKey(kind NodeKind, id string) string { return string(kind) + ":" + id }

// Project builds the undirected projection of the dataset's relation graph.
// Node order is deterministic: outcomes sorted by label, then courses sorted
// by display label, then details grouped under their course.
func Project(ds *dataset.Dataset, opts Options) *Graph {
	g := &Graph{index: make(map[string]int)}

	for _, label := range ds.SortedOutcomeLabels() {
		g.addNode(Node{ID: label, Label: label, Kind: KindOutcome})
	}
	courseIDs := ds.SortedCourseIDs()
	for _, id := range courseIDs {
		c, _ := ds.Courses.Get(id)
		g.addNode(Node{ID: id, Label: c.Label, Kind: KindCourse})
	}
	if opts.IncludeDetails {
		for _, id := range courseIDs {
			for _, d := range ds.Details.ForCourse(id) {
				g.addNode(Node{ID: d.CourseID + "/" + d.Code, Label: d.Code, Kind: KindDetail})
			}
		}
	}

	sets := make([]map[int]struct{}, len(g.nodes))
	for i := range sets {
		sets[i] = make(map[int]struct{})
	}
	link := func(a, b string) {
		i, ok := g.index[a]
		j, ok2 := g.index[b]
		if !ok || !ok2 || i == j {
			return
		}
		sets[i][j] = struct{}{}
		sets[j][i] = struct{}{}
	}

	for _, r := range ds.Relations() {
		link(nodeKey(KindOutcome, r.Outcome), nodeKey(KindCourse, r.CourseID))
	}
	if opts.IncludeDetails {
		for _, id := range courseIDs {
			for _, d := range ds.Details.ForCourse(id) {
				link(nodeKey(KindCourse, d.CourseID), nodeKey(KindDetail, d.CourseID+"/"+d.Code))
			}
		}
	}

	g.adj = make([][]int, len(g.nodes))
	for i, set := range sets {
		neighbors := make([]int, 0, len(set))
		for j := range set {
			neighbors = append(neighbors, j)
		}
		sort.Ints(neighbors)
		g.adj[i] = neighbors
	}
	return g
}

func (g *Graph) addNode(n Node) {
	key := nodeKey(n.Kind, n.ID)
	if _, exists := g.index[key]; exists {
		return
	}
	g.index[key] = len(g.nodes)
	g.nodes = append(g.nodes, n)
}

// Len returns the node count.
func (g *Graph) Len() int { return len(g.nodes) }

// Nodes returns the projection's nodes in construction order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Score is the full centrality record of one node.
type Score struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Kind        NodeKind `json:"kind"`
	Degree      int      `json:"degree"`
	Betweenness float64  `json:"betweenness"`
	Closeness   float64  `json:"closeness"`
	Eigenvector float64  `json:"eigenvector"`
}

// Compute projects the dataset and evaluates all four measures. An empty
// dataset yields an empty slice.
func Compute(ds *dataset.Dataset, opts Options) []Score {
	g := Project(ds, opts)
	deg := g.Degrees()
	bet := g.Betweenness()
	clo := g.HarmonicCloseness()
	eig := g.Eigenvector()

	scores := make([]Score, len(g.nodes))
	for i, n := range g.nodes {
		scores[i] = Score{
			ID:          n.ID,
			Label:       n.Label,
			Kind:        n.Kind,
			Degree:      deg[i],
			Betweenness: bet[i],
			Closeness:   clo[i],
			Eigenvector: eig[i],
		}
	}
	return scores
}
