// Package graph defines the canonical serialization format for curriculum
// maps. Used for API responses, storage, caching, and CSV interchange.
//
// The format is designed for round-trip fidelity: export, re-import, and
// export again produces an identical relation set.
package graph

import (
	"github.com/minhlq/curmap/pkg/dataset"
)

// Node kinds.
const (
	KindOutcome   = "outcome"   // Program learning outcome (PLO)
	KindIndicator = "indicator" // Performance indicator (PI)
	KindCourse    = "course"
	KindDetail    = "detail" // Course learning outcome (CLO)
)

// Edge kinds.
const (
	EdgeRelation = "relation" // outcome → course, carries a proficiency level
	EdgeDetail   = "detail"   // course → detail
	EdgeLink     = "link"     // outcome → indicator
)

// Graph is the serialized curriculum map.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is the unified node type for all serialization contexts.
type Node struct {
	ID       string  `json:"id" bson:"id"`
	Label    string  `json:"label,omitempty" bson:"label,omitempty"` // Display label (defaults to ID)
	Kind     string  `json:"kind" bson:"kind"`
	Text     string  `json:"text,omitempty" bson:"text,omitempty"`         // Outcome content or detail text
	FullName string  `json:"fullname,omitempty" bson:"fullname,omitempty"` // Course full name
	Group    string  `json:"group,omitempty" bson:"group,omitempty"`
	Credit   float64 `json:"credit,omitempty" bson:"credit,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is one typed connection of the curriculum map.
type Edge struct {
	From  string        `json:"from" bson:"from"`
	To    string        `json:"to" bson:"to"`
	Kind  string        `json:"kind" bson:"kind"`
	Level dataset.Level `json:"level,omitempty" bson:"level,omitempty"` // Relation edges only
}

// detailNodeID namespaces detail ids under their course so codes reused
// across courses stay distinct.
func detailNodeID(courseID, code string) string { return courseID + "/" + code }

// FromDataset converts a dataset to its serialization format. Nodes and
// edges are emitted in deterministic order: outcomes and indicators sorted
// by label, courses by display label, details grouped under their course.
func FromDataset(ds *dataset.Dataset) Graph {
	var g Graph

	for _, label := range ds.SortedOutcomeLabels() {
		text, _ := ds.Outcomes.Text(label)
		g.Nodes = append(g.Nodes, Node{ID: label, Label: label, Kind: KindOutcome, Text: text})
	}
	indicators := ds.Indicators.Labels()
	sortStrings(indicators)
	for _, label := range indicators {
		text, _ := ds.Indicators.Text(label)
		g.Nodes = append(g.Nodes, Node{ID: label, Label: label, Kind: KindIndicator, Text: text})
	}

	courseIDs := ds.SortedCourseIDs()
	for _, id := range courseIDs {
		c, _ := ds.Courses.Get(id)
		g.Nodes = append(g.Nodes, Node{
			ID:       c.ID,
			Label:    c.Label,
			Kind:     KindCourse,
			FullName: c.FullName,
			Group:    c.Group,
			Credit:   c.Credit,
		})
	}
	for _, id := range courseIDs {
		for _, d := range ds.Details.ForCourse(id) {
			g.Nodes = append(g.Nodes, Node{
				ID:    detailNodeID(d.CourseID, d.Code),
				Label: d.Code,
				Kind:  KindDetail,
				Text:  d.Text,
			})
		}
	}

	for _, r := range sortedRelations(ds.Relations()) {
		g.Edges = append(g.Edges, Edge{From: r.Outcome, To: r.CourseID, Kind: EdgeRelation, Level: r.Level})
	}
	for _, id := range courseIDs {
		for _, d := range ds.Details.ForCourse(id) {
			g.Edges = append(g.Edges, Edge{From: d.CourseID, To: detailNodeID(d.CourseID, d.Code), Kind: EdgeDetail})
		}
	}
	for _, l := range ds.Links() {
		g.Edges = append(g.Edges, Edge{From: l.PLO, To: l.PI, Kind: EdgeLink})
	}

	return g
}

// ToSources converts a serialized graph back into load rows, so a stored or
// imported graph goes through the same build pipeline (and the same skip
// policy) as raw CSV input.
func ToSources(g Graph) dataset.Sources {
	var src dataset.Sources
	detailCourse := make(map[string]Node)

	for _, n := range g.Nodes {
		switch n.Kind {
		case KindOutcome:
			src.Outcomes = append(src.Outcomes, dataset.Row{"label": n.ID, "content": n.Text})
		case KindIndicator:
			src.Indicators = append(src.Indicators, dataset.Row{"label": n.ID, "content": n.Text})
		case KindCourse:
			src.Courses = append(src.Courses, dataset.Row{
				"id":       n.ID,
				"label":    n.Label,
				"fullname": n.FullName,
				"group":    n.Group,
				"tong":     formatCredit(n.Credit),
			})
			detailCourse[n.ID] = n
		}
	}

	for _, n := range g.Nodes {
		if n.Kind == KindDetail {
			detailCourse[n.ID] = n
		}
	}

	for _, e := range g.Edges {
		switch e.Kind {
		case EdgeRelation:
			src.Relations = append(src.Relations, dataset.Row{
				"plo":    e.From,
				"course": e.To,
				"level":  string(e.Level),
			})
		case EdgeDetail:
			detail, ok := detailCourse[e.To]
			if !ok {
				continue
			}
			src.Details = append(src.Details, dataset.Row{
				"label":   e.From,
				"clo":     detail.Label,
				"content": detail.Text,
			})
		case EdgeLink:
			src.Links = append(src.Links, dataset.Row{"plo": e.From, "pi": e.To})
		}
	}

	return src
}
