package views

import (
	"reflect"
	"testing"

	"github.com/minhlq/curmap/pkg/dataset"
)

func sampleDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds := dataset.New(nil)
	ds.Load(dataset.Sources{
		Outcomes: []dataset.Row{
			{"label": "PLO2", "content": "Design"},
			{"label": "PLO1", "content": "Analyze"},
		},
		Courses: []dataset.Row{
			{"id": "C2", "label": "CS201", "fullname": "Data Structures"},
			{"id": "C1", "label": "CS101", "fullname": "Intro"},
		},
		Relations: []dataset.Row{
			{"plo": "PLO1", "course": "C1", "level": "I"},
			{"plo": "PLO2", "course": "C1", "level": "M"},
			{"plo": "PLO1", "course": "C2", "level": "A"},
		},
		Details: []dataset.Row{
			{"label": "CS101", "clo": "CLO2", "content": "b"},
			{"label": "CS101", "clo": "CLO1", "content": "a"},
		},
	}, dataset.BuildOptions{})
	return ds
}

func TestBuildFilters(t *testing.T) {
	f := BuildFilters(sampleDataset(t))

	if !reflect.DeepEqual(f.Outcomes, []string{"PLO1", "PLO2"}) {
		t.Errorf("Outcomes = %v, want sorted labels", f.Outcomes)
	}
	wantCourses := []CourseOption{{ID: "C1", Label: "CS101"}, {ID: "C2", Label: "CS201"}}
	if !reflect.DeepEqual(f.Courses, wantCourses) {
		t.Errorf("Courses = %v, want %v", f.Courses, wantCourses)
	}
	if !reflect.DeepEqual(f.DetailCodes, []string{"CLO1", "CLO2"}) {
		t.Errorf("DetailCodes = %v, want sorted distinct codes", f.DetailCodes)
	}
}

func TestBuildPivot(t *testing.T) {
	rows := BuildPivot(sampleDataset(t))
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	c1 := rows[0]
	if c1.CourseID != "C1" {
		t.Fatalf("rows not ordered by label, first = %s", c1.CourseID)
	}
	if c1.Levels != (LevelTally{I: 1, M: 1}) {
		t.Errorf("C1 tally = %+v, want I:1 M:1", c1.Levels)
	}
	if rows[1].Levels != (LevelTally{A: 1}) {
		t.Errorf("C2 tally = %+v, want A:1", rows[1].Levels)
	}
}

func TestBuildMatrix(t *testing.T) {
	m := BuildMatrix(sampleDataset(t))

	if !reflect.DeepEqual(m.Outcomes, []string{"PLO1", "PLO2"}) {
		t.Fatalf("Outcomes = %v", m.Outcomes)
	}
	wantC1 := []dataset.Level{dataset.LevelIntroduce, dataset.LevelMaster}
	if !reflect.DeepEqual(m.Rows[0].Cells, wantC1) {
		t.Errorf("C1 cells = %v, want %v", m.Rows[0].Cells, wantC1)
	}
	wantC2 := []dataset.Level{dataset.LevelAssess, ""}
	if !reflect.DeepEqual(m.Rows[1].Cells, wantC2) {
		t.Errorf("C2 cells = %v, want blank for missing relation", m.Rows[1].Cells)
	}
}

func TestBuildDistribution(t *testing.T) {
	d := BuildDistribution(sampleDataset(t))
	if d != (LevelTally{I: 1, M: 1, A: 1}) {
		t.Errorf("distribution = %+v, want I:1 M:1 A:1", d)
	}
	if d.Total() != 3 {
		t.Errorf("Total = %d, want 3", d.Total())
	}
}

func TestBuildFlow(t *testing.T) {
	f := BuildFlow(sampleDataset(t), "PLO1")

	if !reflect.DeepEqual(f.I, []string{"Intro"}) {
		t.Errorf("I stage = %v, want course full names", f.I)
	}
	if !reflect.DeepEqual(f.A, []string{"Data Structures"}) {
		t.Errorf("A stage = %v", f.A)
	}
	if len(f.R) != 0 || len(f.M) != 0 {
		t.Errorf("empty stages should stay empty: %+v", f)
	}
}

func TestRecomputeMarksFresh(t *testing.T) {
	ds := sampleDataset(t)
	if !ds.Stale() {
		t.Fatal("fresh load should be stale before first recompute")
	}

	m := Recompute(ds)
	if ds.Stale() {
		t.Error("Recompute must clear the stale flag")
	}
	if len(m.Centrality) != 4 {
		t.Errorf("Centrality covers %d nodes, want 4 (details excluded)", len(m.Centrality))
	}

	// Idempotent pure read: a second pass yields the same model.
	if !reflect.DeepEqual(m, Recompute(ds)) {
		t.Error("Recompute is not idempotent")
	}
}
