package plan

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/minhlq/curmap/pkg/dataset"
)

// bom is prepended to every CSV export for spreadsheet compatibility.
const bom = "\ufeff"

var assignmentHeader = []string{"label", "semester", "fullname", "lt", "th", "tong", "group"}

// Write exports the assignment CSV: one row per course with its current
// semester (blank when unassigned) and the course metadata for reference.
// Only the label and semester columns matter on re-import.
func Write(p *Plan, w io.Writer) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(assignmentHeader); err != nil {
		return err
	}
	for _, id := range p.ds.SortedCourseIDs() {
		c, _ := p.ds.Courses.Get(id)
		sem := ""
		if n := p.assigns[id]; n > 0 {
			sem = strconv.Itoa(n)
		}
		rec := []string{
			c.Label, sem, c.FullName,
			formatCredit(c.Theory), formatCredit(c.Practice), formatCredit(c.Credit),
			c.Group,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCredit(n float64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// ImportReport summarizes one assignment import.
type ImportReport struct {
	Placed  int `json:"placed"`
	Skipped int `json:"skipped"`
}

// Import replaces the plan's placements from an assignment CSV. Courses
// resolve by id or label, then by folded full name. A blank semester cell
// leaves the course in the bank; an unresolvable course or a semester
// outside 1..Semesters counts as skipped. Existing placements are cleared
// first so the file is the single source of truth.
func Import(p *Plan, r io.Reader) (ImportReport, error) {
	rows, err := dataset.ReadRows(r)
	if err != nil {
		return ImportReport{}, err
	}

	byFullName := p.ds.Courses.FullNameIndex()
	p.Clear()

	var rep ImportReport
	for _, row := range rows {
		id, ok := p.ds.Courses.Resolve(row.Get("label", "id", "course"))
		if !ok {
			if found, hit := byFullName[dataset.FoldKey(row.Get("fullname", "name"))]; hit {
				id, ok = found, true
			}
		}
		if !ok {
			rep.Skipped++
			continue
		}

		cell := row.Get("semester", "sem", "hocky", "hk")
		if cell == "" {
			continue
		}
		sem := int(math.Round(dataset.ParseNumber(cell)))
		if sem < 1 || sem > Semesters {
			rep.Skipped++
			continue
		}
		p.assigns[id] = sem
		rep.Placed++
	}
	return rep, nil
}

// ConstraintReport summarizes one constraint import.
type ConstraintReport struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// LoadConstraints reads a kind,from,to CSV into the plan. Kind accepts
// "prereq"/"prerequisite" and "coreq"/"corequisite"; rows with an unknown
// kind or an unresolvable course are skipped.
func LoadConstraints(p *Plan, r io.Reader) (ConstraintReport, error) {
	rows, err := dataset.ReadRows(r)
	if err != nil {
		return ConstraintReport{}, err
	}

	var rep ConstraintReport
	for _, row := range rows {
		from := row.Get("from", "before", "a")
		to := row.Get("to", "after", "b")

		var aerr error
		switch row.Get("kind", "type") {
		case "prereq", "prerequisite", "pre":
			aerr = p.AddPrerequisite(from, to)
		case "coreq", "corequisite", "co":
			aerr = p.AddCorequisite(from, to)
		default:
			rep.Skipped++
			continue
		}
		if aerr != nil {
			rep.Skipped++
			continue
		}
		rep.Added++
	}
	return rep, nil
}
