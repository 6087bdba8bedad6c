// Package plan assigns the courses of a built dataset to semesters and
// validates ordering constraints: prerequisites must land in an earlier
// semester, corequisites in the same one. Assignments round-trip through
// CSV so a plan can be edited in a spreadsheet and checked here.
package plan

import (
	"sort"

	"github.com/minhlq/curmap/pkg/dataset"
	"github.com/minhlq/curmap/pkg/errors"
)

// Semesters is the number of slots in a program plan: four years of two
// main semesters plus summer terms.
const Semesters = 12

// Constraint ties two courses by id. For a prerequisite From must be
// completed before To; for a corequisite the direction is ignored.
type Constraint struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Violation is one broken constraint, reported with display labels and the
// offending semesters.
type Violation struct {
	Kind         string `json:"kind"` // "prerequisite" or "corequisite"
	From         string `json:"from"`
	To           string `json:"to"`
	FromSemester int    `json:"from_semester"`
	ToSemester   int    `json:"to_semester"`
}

// SemesterLoad is the per-semester summary: assigned courses by label and
// their combined credit load.
type SemesterLoad struct {
	Semester int      `json:"semester"`
	Credits  float64  `json:"credits"`
	Courses  []string `json:"courses"`
}

// Plan is a course-to-semester assignment over one dataset. Courses left
// unassigned stay in the bank; constraints only fire once both endpoints
// are placed.
type Plan struct {
	ds      *dataset.Dataset
	assigns map[string]int // course id -> semester, 1..Semesters
	prereqs []Constraint
	coreqs  []Constraint
}

// New creates an empty plan over the dataset. The dataset is read, never
// mutated.
func New(ds *dataset.Dataset) *Plan {
	return &Plan{ds: ds, assigns: make(map[string]int)}
}

// Assign places a course (referenced by id or label) into a semester.
// Semester 0 unassigns; anything outside 0..Semesters is rejected.
func (p *Plan) Assign(courseRef string, semester int) error {
	if semester < 0 || semester > Semesters {
		return errors.New(errors.ErrCodeInvalidInput, "semester %d out of range 1..%d", semester, Semesters)
	}
	id, ok := p.ds.Courses.Resolve(courseRef)
	if !ok {
		return errors.New(errors.ErrCodeCourseNotFound, "unknown course: %s", courseRef)
	}
	if semester == 0 {
		delete(p.assigns, id)
		return nil
	}
	p.assigns[id] = semester
	return nil
}

// Unassign returns a course to the bank. Unknown references are ignored.
func (p *Plan) Unassign(courseRef string) {
	if id, ok := p.ds.Courses.Resolve(courseRef); ok {
		delete(p.assigns, id)
	}
}

// Clear removes every placement but keeps the constraints.
func (p *Plan) Clear() {
	p.assigns = make(map[string]int)
}

// Semester returns the semester a course is placed in, 0 when unassigned.
func (p *Plan) Semester(courseID string) int {
	return p.assigns[courseID]
}

// Assigned returns the number of placed courses.
func (p *Plan) Assigned() int { return len(p.assigns) }

// AddPrerequisite records that before must be completed in an earlier
// semester than after. Both references must resolve and differ; duplicates
// are dropped.
func (p *Plan) AddPrerequisite(beforeRef, afterRef string) error {
	c, err := p.constraint(beforeRef, afterRef)
	if err != nil {
		return err
	}
	for _, have := range p.prereqs {
		if have == c {
			return nil
		}
	}
	p.prereqs = append(p.prereqs, c)
	return nil
}

// AddCorequisite records that the two courses must share a semester.
// The pair is symmetric: (a, b) and (b, a) are the same constraint.
func (p *Plan) AddCorequisite(aRef, bRef string) error {
	c, err := p.constraint(aRef, bRef)
	if err != nil {
		return err
	}
	if c.To < c.From {
		c.From, c.To = c.To, c.From
	}
	for _, have := range p.coreqs {
		if have == c {
			return nil
		}
	}
	p.coreqs = append(p.coreqs, c)
	return nil
}

func (p *Plan) constraint(fromRef, toRef string) (Constraint, error) {
	from, ok := p.ds.Courses.Resolve(fromRef)
	if !ok {
		return Constraint{}, errors.New(errors.ErrCodeCourseNotFound, "unknown course: %s", fromRef)
	}
	to, ok := p.ds.Courses.Resolve(toRef)
	if !ok {
		return Constraint{}, errors.New(errors.ErrCodeCourseNotFound, "unknown course: %s", toRef)
	}
	if from == to {
		return Constraint{}, errors.New(errors.ErrCodeInvalidInput, "constraint needs two distinct courses, got %s twice", fromRef)
	}
	return Constraint{From: from, To: to}, nil
}

// Prerequisites returns the recorded prerequisite constraints.
func (p *Plan) Prerequisites() []Constraint {
	out := make([]Constraint, len(p.prereqs))
	copy(out, p.prereqs)
	return out
}

// Corequisites returns the recorded corequisite constraints.
func (p *Plan) Corequisites() []Constraint {
	out := make([]Constraint, len(p.coreqs))
	copy(out, p.coreqs)
	return out
}

// Violations checks every constraint against the current placements.
// Constraints with an unassigned endpoint are not violations; the course
// may still be placed later. The result is sorted for stable output.
func (p *Plan) Violations() []Violation {
	var out []Violation
	for _, c := range p.prereqs {
		from, to := p.assigns[c.From], p.assigns[c.To]
		if from == 0 || to == 0 || from < to {
			continue
		}
		out = append(out, p.violation("prerequisite", c, from, to))
	}
	for _, c := range p.coreqs {
		from, to := p.assigns[c.From], p.assigns[c.To]
		if from == 0 || to == 0 || from == to {
			continue
		}
		out = append(out, p.violation("corequisite", c, from, to))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.From != b.From {
			return a.From < b.From
		}
		return a.To < b.To
	})
	return out
}

func (p *Plan) violation(kind string, c Constraint, from, to int) Violation {
	return Violation{
		Kind:         kind,
		From:         p.label(c.From),
		To:           p.label(c.To),
		FromSemester: from,
		ToSemester:   to,
	}
}

func (p *Plan) label(courseID string) string {
	if c, ok := p.ds.Courses.Get(courseID); ok {
		return c.Label
	}
	return courseID
}

// Summary builds the per-semester loads for all Semesters slots, empty
// ones included so the caller can render a full grid. Courses are listed
// by label in sorted order.
func (p *Plan) Summary() []SemesterLoad {
	out := make([]SemesterLoad, Semesters)
	for i := range out {
		out[i].Semester = i + 1
	}
	for id, sem := range p.assigns {
		c, ok := p.ds.Courses.Get(id)
		if !ok {
			continue
		}
		load := &out[sem-1]
		load.Credits += c.Credit
		load.Courses = append(load.Courses, c.Label)
	}
	for i := range out {
		sort.Strings(out[i].Courses)
	}
	return out
}

// Unassigned returns the labels of courses still in the bank, sorted.
func (p *Plan) Unassigned() []string {
	var out []string
	for _, id := range p.ds.Courses.IDs() {
		if p.assigns[id] != 0 {
			continue
		}
		out = append(out, p.label(id))
	}
	sort.Strings(out)
	return out
}
