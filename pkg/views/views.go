// Package views derives presentation-ready read models from a curriculum
// dataset: filter option lists, the per-course proficiency pivot, the
// course by outcome matrix, level distribution totals, and per-outcome
// flow stages. Everything here is a pure read of the dataset; recomputing
// is idempotent.
package views

import (
	"sort"

	"github.com/minhlq/curmap/pkg/analysis"
	"github.com/minhlq/curmap/pkg/dataset"
)

// CourseOption is one entry of the course filter dropdown.
type CourseOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Filters holds the sorted distinct-value lists backing the filter controls.
type Filters struct {
	Outcomes    []string       `json:"outcomes"`
	Courses     []CourseOption `json:"courses"`
	DetailCodes []string       `json:"detail_codes"`
}

// LevelTally counts relations per proficiency level.
type LevelTally struct {
	I int `json:"I"`
	R int `json:"R"`
	M int `json:"M"`
	A int `json:"A"`
}

// Add increments the bucket for the given level. Unknown levels are ignored.
func (t *LevelTally) Add(level dataset.Level) {
	switch level {
	case dataset.LevelIntroduce:
		t.I++
	case dataset.LevelReinforce:
		t.R++
	case dataset.LevelMaster:
		t.M++
	case dataset.LevelAssess:
		t.A++
	}
}

// Total returns the sum of all buckets.
func (t LevelTally) Total() int { return t.I + t.R + t.M + t.A }

// CoursePivot is one row of the per-course proficiency summary.
type CoursePivot struct {
	CourseID string     `json:"course_id"`
	Label    string     `json:"label"`
	FullName string     `json:"fullname"`
	Levels   LevelTally `json:"levels"`
}

// MatrixRow is one course row of the matrix view. Cells align with the
// matrix's outcome column order; a cell is empty when no relation exists.
type MatrixRow struct {
	CourseID string          `json:"course_id"`
	Label    string          `json:"label"`
	FullName string          `json:"fullname"`
	Cells    []dataset.Level `json:"cells"`
}

// Matrix is the course by outcome grid, cell = proficiency level or blank.
type Matrix struct {
	Outcomes []string    `json:"outcomes"`
	Rows     []MatrixRow `json:"rows"`
}

// FlowStages groups the courses attached to one outcome by level, in the
// order introduce, reinforce, master, assess. Entries are course full names
// falling back to label, then id.
type FlowStages struct {
	Outcome string   `json:"outcome"`
	I       []string `json:"I"`
	R       []string `json:"R"`
	M       []string `json:"M"`
	A       []string `json:"A"`
}

// Model bundles every derived view of one recomputation pass.
type Model struct {
	Filters      Filters          `json:"filters"`
	Pivot        []CoursePivot    `json:"pivot"`
	Matrix       Matrix           `json:"matrix"`
	Distribution LevelTally       `json:"distribution"`
	Centrality   []analysis.Score `json:"centrality"`
}

// BuildFilters computes the sorted filter option lists.
func BuildFilters(ds *dataset.Dataset) Filters {
	f := Filters{Outcomes: ds.SortedOutcomeLabels()}

	for _, id := range ds.SortedCourseIDs() {
		c, _ := ds.Courses.Get(id)
		f.Courses = append(f.Courses, CourseOption{ID: c.ID, Label: c.Label})
	}

	seen := make(map[string]struct{})
	for _, d := range ds.Details.All() {
		if _, dup := seen[d.Code]; !dup {
			seen[d.Code] = struct{}{}
			f.DetailCodes = append(f.DetailCodes, d.Code)
		}
	}
	sort.Strings(f.DetailCodes)
	return f
}

// BuildPivot computes the per-course level tallies. Courses without any
// relation still get a row of zeros.
func BuildPivot(ds *dataset.Dataset) []CoursePivot {
	tallies := make(map[string]*LevelTally)
	for _, r := range ds.Relations() {
		t := tallies[r.CourseID]
		if t == nil {
			t = &LevelTally{}
			tallies[r.CourseID] = t
		}
		t.Add(r.Level)
	}

	var rows []CoursePivot
	for _, id := range ds.SortedCourseIDs() {
		c, _ := ds.Courses.Get(id)
		row := CoursePivot{CourseID: c.ID, Label: c.Label, FullName: c.FullName}
		if t := tallies[id]; t != nil {
			row.Levels = *t
		}
		rows = append(rows, row)
	}
	return rows
}

// BuildMatrix computes the course by outcome grid.
func BuildMatrix(ds *dataset.Dataset) Matrix {
	m := Matrix{Outcomes: ds.SortedOutcomeLabels()}
	col := make(map[string]int, len(m.Outcomes))
	for i, label := range m.Outcomes {
		col[label] = i
	}

	cells := make(map[string][]dataset.Level)
	for _, r := range ds.Relations() {
		row := cells[r.CourseID]
		if row == nil {
			row = make([]dataset.Level, len(m.Outcomes))
			cells[r.CourseID] = row
		}
		if i, ok := col[r.Outcome]; ok {
			row[i] = r.Level
		}
	}

	for _, id := range ds.SortedCourseIDs() {
		c, _ := ds.Courses.Get(id)
		row := cells[id]
		if row == nil {
			row = make([]dataset.Level, len(m.Outcomes))
		}
		m.Rows = append(m.Rows, MatrixRow{CourseID: c.ID, Label: c.Label, FullName: c.FullName, Cells: row})
	}
	return m
}

// BuildDistribution tallies all relations by level.
func BuildDistribution(ds *dataset.Dataset) LevelTally {
	var t LevelTally
	for _, r := range ds.Relations() {
		t.Add(r.Level)
	}
	return t
}

// BuildFlow groups one outcome's courses into level stages.
func BuildFlow(ds *dataset.Dataset, outcome string) FlowStages {
	f := FlowStages{Outcome: outcome}
	for _, r := range ds.Relations() {
		if r.Outcome != outcome {
			continue
		}
		name := r.CourseID
		if c, ok := ds.Courses.Get(r.CourseID); ok {
			switch {
			case c.FullName != "":
				name = c.FullName
			case c.Label != "":
				name = c.Label
			}
		}
		switch r.Level {
		case dataset.LevelIntroduce:
			f.I = append(f.I, name)
		case dataset.LevelReinforce:
			f.R = append(f.R, name)
		case dataset.LevelMaster:
			f.M = append(f.M, name)
		case dataset.LevelAssess:
			f.A = append(f.A, name)
		}
	}
	return f
}

// Recompute derives every view from the current graph and marks the dataset
// fresh. Called after load and after every structural mutation.
func Recompute(ds *dataset.Dataset) *Model {
	m := &Model{
		Filters:      BuildFilters(ds),
		Pivot:        BuildPivot(ds),
		Matrix:       BuildMatrix(ds),
		Distribution: BuildDistribution(ds),
		Centrality:   analysis.Compute(ds, analysis.Options{}),
	}
	ds.MarkFresh()
	return m
}
