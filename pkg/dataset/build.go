package dataset

// Column header aliases accepted per semantic field. Legacy exports from
// several spreadsheet templates disagree on spelling, so extraction always
// tries each alias in order.
var (
	aliasOutcome     = []string{"plo", "plo_label"}
	aliasOutcomeText = []string{"content", "desc", "description"}
	aliasCourseID    = []string{"id", "code", "courseid"}
	aliasCourseRef   = []string{"course", "course_id", "id"}
	aliasDetailRef   = []string{"label", "course_id", "id", "code"}
	aliasGroup       = []string{"group", "khoi", "type"}
	aliasCredit      = []string{"tong", "tc", "credit"}
)

// skipSampleLimit bounds how many offending rows a SkipReport retains for
// user-facing diagnostics.
const skipSampleLimit = 10

// SkipReport accumulates rows dropped during a build, for diagnostics.
// Skipping never aborts a build.
type SkipReport struct {
	Skipped int   // Total rows dropped
	Samples []Row // Up to skipSampleLimit offending rows, in input order
}

func (r *SkipReport) add(row Row) {
	r.Skipped++
	if len(r.Samples) < skipSampleLimit {
		r.Samples = append(r.Samples, row)
	}
}

// BuildOptions controls reference-resolution policy during builds.
type BuildOptions struct {
	// AllowPlaceholders enables the lenient mode for detail rows: a detail
	// referencing a course absent from the registry synthesizes a minimal
	// placeholder course from the row itself instead of being skipped.
	// Later rows with non-empty fields overwrite placeholder fields.
	// The default (strict) mode drops such rows.
	AllowPlaceholders bool
}

// loadOutcomes populates an outcome registry from normalized rows.
// Rows without a label are ignored; duplicate labels overwrite (last wins).
func loadOutcomes(set *OutcomeSet, rows []Row) {
	for _, r := range rows {
		label := r.Get("label", "plo", "pi")
		if label == "" {
			continue
		}
		set.Upsert(label, r.Get(aliasOutcomeText...))
	}
}

// loadCourses populates the course registry from normalized rows.
func loadCourses(set *CourseSet, rows []Row) {
	for _, r := range rows {
		id := r.Get(aliasCourseID...)
		if id == "" {
			continue
		}
		set.Upsert(Course{
			ID:       id,
			Label:    r.Get("label"),
			FullName: r.Get("fullname", "name"),
			Group:    r.Get(aliasGroup...),
			Credit:   ParseNumber(r.Get(aliasCredit...)),
			Theory:   ParseNumber(r.Get("lt")),
			Practice: ParseNumber(r.Get("th")),
		})
	}
}

// buildOutcomeCourseEdges constructs deduplicated outcome→course relations.
// Outcome references require an exact label match (no fuzzy matching);
// course references go through the resolver. Rows failing either resolution
// are skipped silently and counted. Duplicate composite keys keep the first
// occurrence in input order.
func buildOutcomeCourseEdges(outcomes *OutcomeSet, courses *CourseSet, rows []Row) ([]Relation, SkipReport) {
	var (
		rels   []Relation
		report SkipReport
		seen   = make(map[RelationKey]bool)
	)
	for _, r := range rows {
		outcome := r.Get(aliasOutcome...)
		if outcome == "" || !outcomes.Has(outcome) {
			report.add(r)
			continue
		}
		courseID, ok := courses.Resolve(r.Get(aliasCourseRef...))
		if !ok {
			report.add(r)
			continue
		}
		key := RelationKey{Outcome: outcome, CourseID: courseID}
		if seen[key] {
			continue
		}
		seen[key] = true
		rels = append(rels, Relation{
			Outcome:  outcome,
			CourseID: courseID,
			Level:    NormalizeLevel(r.Get("level")),
		})
	}
	return rels, report
}

// buildCourseDetailEdges populates the detail registry from normalized rows,
// resolving the owning course per row. In strict mode, rows whose course
// cannot be resolved are skipped; with opts.AllowPlaceholders a minimal
// course is synthesized from the row itself and merged into the registry.
func buildCourseDetailEdges(courses *CourseSet, details *DetailSet, rows []Row, opts BuildOptions) SkipReport {
	var report SkipReport
	for _, r := range rows {
		ref := r.Get(aliasDetailRef...)
		if ref == "" {
			report.add(r)
			continue
		}
		courseID, ok := courses.Resolve(ref)
		if !ok {
			if !opts.AllowPlaceholders {
				report.add(r)
				continue
			}
			courseID = ref
			courses.Upsert(Course{
				ID:          courseID,
				Label:       ref,
				FullName:    r.Get("fullname"),
				Credit:      ParseNumber(r.Get(aliasCredit...)),
				Placeholder: true,
			})
		} else if opts.AllowPlaceholders {
			// Detail rows may carry fresher metadata than a placeholder.
			if c, _ := courses.Get(courseID); c.Placeholder {
				courses.Merge(Course{
					ID:          courseID,
					FullName:    r.Get("fullname"),
					Credit:      ParseNumber(r.Get(aliasCredit...)),
					Placeholder: true,
				})
			}
		}

		code := r.Get("clo")
		if code == "" {
			report.add(r)
			continue
		}
		course, _ := courses.Get(courseID)
		details.Upsert(Detail{
			CourseID:       courseID,
			Code:           code,
			Text:           r.Get("content"),
			CourseLabel:    course.Label,
			CourseFullName: course.FullName,
			Credit:         course.Credit,
		})
	}
	return report
}

// buildOutcomeLinks constructs deduplicated PLO↔PI links. Both endpoints
// must exist in their respective registries by exact label.
func buildOutcomeLinks(plos, pis *OutcomeSet, rows []Row) ([]OutcomeLink, SkipReport) {
	var (
		links  []OutcomeLink
		report SkipReport
		seen   = make(map[OutcomeLink]bool)
	)
	for _, r := range rows {
		link := OutcomeLink{
			PLO: r.Get("plo", "plo_label"),
			PI:  r.Get("pi", "pi_label"),
		}
		if link.PLO == "" || link.PI == "" || !plos.Has(link.PLO) || !pis.Has(link.PI) {
			report.add(r)
			continue
		}
		if seen[link] {
			continue
		}
		seen[link] = true
		links = append(links, link)
	}
	return links, report
}
