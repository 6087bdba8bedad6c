package graph

import (
	"encoding/csv"
	"io"

	"github.com/minhlq/curmap/pkg/dataset"
)

// bom is prepended to every CSV export for spreadsheet compatibility.
const bom = "\ufeff"

var connectionHeader = []string{"plo", "course", "level"}

var relationTableHeader = []string{"plo", "plo_content", "label", "fullname", "level", "clo", "clo_content"}

// WriteConnections exports the raw outcome to course connection CSV,
// mirroring the relation input schema so the file can be re-imported.
func WriteConnections(ds *dataset.Dataset, w io.Writer) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(connectionHeader); err != nil {
		return err
	}
	for _, r := range sortedRelations(ds.Relations()) {
		if err := cw.Write([]string{r.Outcome, r.CourseID, string(r.Level)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRelationTable exports the denormalized relation table: one row per
// relation and detail pair, with blank detail columns for courses that have
// no details.
func WriteRelationTable(ds *dataset.Dataset, w io.Writer) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(relationTableHeader); err != nil {
		return err
	}
	for _, r := range sortedRelations(ds.Relations()) {
		text, _ := ds.Outcomes.Text(r.Outcome)
		c, _ := ds.Courses.Get(r.CourseID)
		details := ds.Details.ForCourse(r.CourseID)
		if len(details) == 0 {
			details = []dataset.Detail{{}}
		}
		for _, d := range details {
			rec := []string{r.Outcome, text, c.Label, c.FullName, string(r.Level), d.Code, d.Text}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportReport summarizes one connection import.
type ImportReport struct {
	Imported int
	Skipped  int
}

// ImportConnections replaces the dataset's relation set from a connection
// CSV. Course references resolve by id or label first, then by folded full
// name. Rows referencing unknown entities are skipped, and duplicate keys
// deduplicate first wins. The previous relation set is discarded.
func ImportConnections(ds *dataset.Dataset, r io.Reader) (ImportReport, error) {
	rows, err := dataset.ReadRows(r)
	if err != nil {
		return ImportReport{}, err
	}

	byFullName := ds.Courses.FullNameIndex()
	var rels []dataset.Relation
	var rep ImportReport
	seen := make(map[dataset.RelationKey]struct{})

	for _, row := range rows {
		outcome := row.Get("plo", "plo_label")
		courseID, ok := ds.Courses.Resolve(row.Get("course", "course_id", "id"))
		if !ok {
			if id, found := byFullName[dataset.FoldKey(row.Get("fullname", "course_name"))]; found {
				courseID, ok = id, true
			}
		}
		if outcome == "" || !ok || !ds.Outcomes.Has(outcome) {
			rep.Skipped++
			continue
		}

		rel := dataset.Relation{
			Outcome:  outcome,
			CourseID: courseID,
			Level:    dataset.NormalizeLevel(row.Get("level")),
		}
		if _, dup := seen[rel.Key()]; dup {
			continue
		}
		seen[rel.Key()] = struct{}{}
		rels = append(rels, rel)
	}

	rep.Imported = ds.ReplaceRelations(rels)
	return rep, nil
}
