package plan

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/minhlq/curmap/pkg/dataset"
)

func testPlan(t *testing.T) *Plan {
	t.Helper()
	ds := dataset.New(nil)
	ds.Load(dataset.Sources{
		Courses: []dataset.Row{
			{"id": "C1", "label": "CS101", "fullname": "Intro to Computing", "tong": "3"},
			{"id": "C2", "label": "CS201", "fullname": "Data Structures", "lt": "2", "th": "1"},
			{"id": "C3", "label": "CS301", "fullname": "Algorithms", "tong": "4"},
		},
	}, dataset.BuildOptions{})
	return New(ds)
}

func TestAssignAndSummary(t *testing.T) {
	p := testPlan(t)
	for ref, sem := range map[string]int{"C1": 1, "CS201": 1, "C3": 3} {
		if err := p.Assign(ref, sem); err != nil {
			t.Fatalf("Assign(%s, %d): %v", ref, sem, err)
		}
	}

	sum := p.Summary()
	if len(sum) != Semesters {
		t.Fatalf("Summary length = %d, want all %d semesters", len(sum), Semesters)
	}
	if sum[0].Credits != 6 {
		t.Errorf("semester 1 credits = %v, want 3 + (2 lt + 1 th) = 6", sum[0].Credits)
	}
	if !reflect.DeepEqual(sum[0].Courses, []string{"CS101", "CS201"}) {
		t.Errorf("semester 1 courses = %v", sum[0].Courses)
	}
	if sum[2].Credits != 4 || sum[1].Credits != 0 {
		t.Errorf("semesters 2-3 = %v %v", sum[1], sum[2])
	}
	if got := p.Unassigned(); len(got) != 0 {
		t.Errorf("Unassigned = %v, want none", got)
	}
}

func TestAssignValidation(t *testing.T) {
	p := testPlan(t)

	if err := p.Assign("ghost", 1); err == nil {
		t.Error("unknown course must be rejected")
	}
	if err := p.Assign("C1", Semesters+1); err == nil {
		t.Error("semester past the last slot must be rejected")
	}
	if err := p.Assign("C1", -1); err == nil {
		t.Error("negative semester must be rejected")
	}

	// Semester 0 unassigns
	if err := p.Assign("C1", 2); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if err := p.Assign("C1", 0); err != nil {
		t.Fatalf("Assign(0): %v", err)
	}
	if p.Semester("C1") != 0 || p.Assigned() != 0 {
		t.Error("assigning semester 0 should return the course to the bank")
	}
}

func TestPrerequisiteViolations(t *testing.T) {
	p := testPlan(t)
	if err := p.AddPrerequisite("CS101", "CS201"); err != nil {
		t.Fatalf("AddPrerequisite: %v", err)
	}

	// Only one endpoint placed: no violation yet
	p.Assign("C2", 1)
	if v := p.Violations(); len(v) != 0 {
		t.Fatalf("unplaced prerequisite should not fire, got %v", v)
	}

	// Prerequisite in a later semester
	p.Assign("C1", 2)
	v := p.Violations()
	if len(v) != 1 {
		t.Fatalf("Violations = %v, want 1", v)
	}
	want := Violation{Kind: "prerequisite", From: "CS101", To: "CS201", FromSemester: 2, ToSemester: 1}
	if v[0] != want {
		t.Errorf("violation = %+v, want %+v", v[0], want)
	}

	// Same semester still violates a strict ordering
	p.Assign("C1", 1)
	if v := p.Violations(); len(v) != 1 {
		t.Errorf("same-semester prerequisite should violate, got %v", v)
	}

	// Strictly earlier is fine
	p.Assign("C2", 3)
	if v := p.Violations(); len(v) != 0 {
		t.Errorf("satisfied prerequisite should not fire, got %v", v)
	}
}

func TestCorequisiteSymmetricDedup(t *testing.T) {
	p := testPlan(t)
	if err := p.AddCorequisite("CS101", "CS201"); err != nil {
		t.Fatalf("AddCorequisite: %v", err)
	}
	if err := p.AddCorequisite("CS201", "CS101"); err != nil {
		t.Fatalf("AddCorequisite reversed: %v", err)
	}
	if got := p.Corequisites(); len(got) != 1 {
		t.Fatalf("Corequisites = %v, want symmetric pair deduplicated", got)
	}

	p.Assign("C1", 1)
	p.Assign("C2", 2)
	if v := p.Violations(); len(v) != 1 || v[0].Kind != "corequisite" {
		t.Errorf("split corequisite should violate once, got %v", v)
	}

	p.Assign("C2", 1)
	if v := p.Violations(); len(v) != 0 {
		t.Errorf("co-located corequisite should not fire, got %v", v)
	}
}

func TestConstraintValidation(t *testing.T) {
	p := testPlan(t)
	if err := p.AddPrerequisite("CS101", "ghost"); err == nil {
		t.Error("unknown course in constraint must be rejected")
	}
	if err := p.AddCorequisite("CS101", "C1"); err == nil {
		t.Error("self-constraint must be rejected, C1 and CS101 are the same course")
	}
}

func TestAssignmentRoundTrip(t *testing.T) {
	p := testPlan(t)
	p.Assign("C1", 1)
	p.Assign("C2", 4)
	// C3 stays in the bank

	var buf bytes.Buffer
	if err := Write(p, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "\ufeff") {
		t.Error("export must carry a byte-order mark")
	}
	if !strings.Contains(out, "\r\n") {
		t.Error("export must use CRLF line endings")
	}

	p2 := testPlan(t)
	rep, err := Import(p2, strings.NewReader(out))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if rep.Placed != 2 || rep.Skipped != 0 {
		t.Errorf("report = %+v, want 2 placed, blank semesters not skipped", rep)
	}
	if p2.Semester("C1") != 1 || p2.Semester("C2") != 4 || p2.Semester("C3") != 0 {
		t.Errorf("round trip lost placements: C1=%d C2=%d C3=%d",
			p2.Semester("C1"), p2.Semester("C2"), p2.Semester("C3"))
	}
}

func TestImportClearsAndSkips(t *testing.T) {
	p := testPlan(t)
	p.Assign("C3", 2) // stale placement, cleared by import

	csv := "label,semester\n" +
		"CS101,1\n" +
		"CS201,1,5\n" + // ragged row, extra field ignored
		"Ghost,3\n" + // unknown course
		"CS301,99\n" // out of range
	rep, err := Import(p, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if rep.Placed != 2 || rep.Skipped != 2 {
		t.Errorf("report = %+v, want 2 placed and 2 skipped", rep)
	}
	if p.Semester("C3") != 0 {
		t.Error("import must clear placements not present in the file")
	}
}

func TestImportResolvesByFullName(t *testing.T) {
	p := testPlan(t)
	csv := "label,semester,fullname\n" +
		",2,intro to computing\n"
	rep, err := Import(p, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if rep.Placed != 1 || p.Semester("C1") != 2 {
		t.Errorf("full-name fallback failed: %+v, C1=%d", rep, p.Semester("C1"))
	}
}

func TestImportRoundsFractionalSemesters(t *testing.T) {
	p := testPlan(t)
	csv := "label,semester\nCS101,\"1,6\"\n"
	if _, err := Import(p, strings.NewReader(csv)); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if p.Semester("C1") != 2 {
		t.Errorf("Semester = %d, want comma-decimal 1,6 rounded to 2", p.Semester("C1"))
	}
}

func TestLoadConstraints(t *testing.T) {
	p := testPlan(t)
	csv := "kind,from,to\n" +
		"prereq,CS101,CS201\n" +
		"coreq,CS201,CS301\n" +
		"sometime,CS101,CS301\n" + // unknown kind
		"prereq,Ghost,CS201\n" // unknown course
	rep, err := LoadConstraints(p, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadConstraints: %v", err)
	}
	if rep.Added != 2 || rep.Skipped != 2 {
		t.Errorf("report = %+v, want 2 added and 2 skipped", rep)
	}
	if len(p.Prerequisites()) != 1 || len(p.Corequisites()) != 1 {
		t.Errorf("constraints = %v %v", p.Prerequisites(), p.Corequisites())
	}
}
