package dataset

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Course is one entry in the course registry.
type Course struct {
	ID       string  // Canonical identifier, never empty
	Label    string  // Short display code, defaults to ID
	FullName string  // Human-readable name
	Group    string  // Free-text category used for bucketing/coloring
	Credit   float64 // Credit load; 0 or Theory+Practice when absent
	Theory   float64 // Theory hours (optional)
	Practice float64 // Practice hours (optional)

	// Placeholder marks courses synthesized from detail rows in lenient
	// builds; later rows with real data overwrite their empty fields.
	Placeholder bool
}

// OutcomeSet is a keyed store of outcome statements (PLO or PI).
// Labels are user-assigned and stable; re-upserting a label overwrites the
// text (last write wins within a load).
type OutcomeSet struct {
	texts map[string]string
}

// NewOutcomeSet creates an empty outcome registry.
func NewOutcomeSet() *OutcomeSet {
	return &OutcomeSet{texts: make(map[string]string)}
}

// Upsert inserts or overwrites an outcome by label.
// Labels that are empty after trimming are ignored.
func (s *OutcomeSet) Upsert(label, text string) {
	label = strings.TrimSpace(label)
	if label == "" {
		return
	}
	s.texts[label] = strings.TrimSpace(text)
}

// Text returns the descriptive text for a label.
func (s *OutcomeSet) Text(label string) (string, bool) {
	t, ok := s.texts[label]
	return t, ok
}

// Has reports whether the label exists in the registry.
func (s *OutcomeSet) Has(label string) bool {
	_, ok := s.texts[label]
	return ok
}

// Labels returns all outcome labels in unspecified order.
// Consumers sort before display.
func (s *OutcomeSet) Labels() []string {
	out := make([]string, 0, len(s.texts))
	for l := range s.texts {
		out = append(out, l)
	}
	return out
}

// Len returns the number of outcomes.
func (s *OutcomeSet) Len() int { return len(s.texts) }

// CourseSet is the course registry with a dual index: by canonical id and by
// display label. The label index is not required to be injective; on
// collision the last-loaded mapping wins and the collision is counted.
type CourseSet struct {
	byID       map[string]Course
	idByLabel  map[string]string
	collisions int
}

// NewCourseSet creates an empty course registry.
func NewCourseSet() *CourseSet {
	return &CourseSet{
		byID:      make(map[string]Course),
		idByLabel: make(map[string]string),
	}
}

// Upsert inserts or overwrites a course by id and rebuilds its label index
// entry. Courses with an empty id are ignored. An empty label defaults to
// the id; a zero credit defaults to Theory+Practice when either is set.
func (s *CourseSet) Upsert(c Course) {
	c.ID = strings.TrimSpace(c.ID)
	if c.ID == "" {
		return
	}
	c.Label = strings.TrimSpace(c.Label)
	if c.Label == "" {
		c.Label = c.ID
	}
	if c.Credit == 0 {
		c.Credit = c.Theory + c.Practice
	}
	if prev, ok := s.idByLabel[c.Label]; ok && prev != c.ID {
		s.collisions++
	}
	s.byID[c.ID] = c
	s.idByLabel[c.Label] = c.ID
}

// Merge overwrites the non-empty fields of an existing course, used by the
// lenient build mode when detail rows carry fresher data than a placeholder.
// Unknown ids are inserted as-is.
func (s *CourseSet) Merge(c Course) {
	c.ID = strings.TrimSpace(c.ID)
	if c.ID == "" {
		return
	}
	cur, ok := s.byID[c.ID]
	if !ok {
		s.Upsert(c)
		return
	}
	if c.Label != "" {
		cur.Label = c.Label
	}
	if c.FullName != "" {
		cur.FullName = c.FullName
	}
	if c.Group != "" {
		cur.Group = c.Group
	}
	if c.Credit != 0 {
		cur.Credit = c.Credit
	}
	cur.Placeholder = cur.Placeholder && c.Placeholder
	s.Upsert(cur)
}

// Get returns a course by canonical id.
func (s *CourseSet) Get(id string) (Course, bool) {
	c, ok := s.byID[id]
	return c, ok
}

// GetByLabel returns a course via the label index.
func (s *CourseSet) GetByLabel(label string) (Course, bool) {
	id, ok := s.idByLabel[label]
	if !ok {
		return Course{}, false
	}
	return s.Get(id)
}

// Resolve maps a raw reference (id or label) to a canonical course id.
// The id index takes priority over the label index so that a label colliding
// with another course's id never wins. Resolution never creates entities;
// callers decide whether a miss is a skip or triggers placeholder synthesis.
func (s *CourseSet) Resolve(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if _, ok := s.byID[raw]; ok {
		return raw, true
	}
	if id, ok := s.idByLabel[raw]; ok {
		return id, true
	}
	return "", false
}

// IDs returns all course ids in unspecified order.
func (s *CourseSet) IDs() []string {
	out := make([]string, 0, len(s.byID))
	for id := range s.byID {
		out = append(out, id)
	}
	return out
}

// Len returns the number of courses.
func (s *CourseSet) Len() int { return len(s.byID) }

// LabelCollisions returns how many label index entries were overwritten by a
// different course during loading. Surfaced as a load warning, not an error.
func (s *CourseSet) LabelCollisions() int { return s.collisions }

// FullNameIndex builds a folded-fullname to id lookup. Imports accept a full
// name where an id or label is missing; the index is built fresh per call
// since imports are rare.
func (s *CourseSet) FullNameIndex() map[string]string {
	idx := make(map[string]string, len(s.byID))
	for id, c := range s.byID {
		if key := FoldKey(c.FullName); key != "" {
			idx[key] = id
		}
	}
	return idx
}

// Detail is a course learning outcome (CLO), identified by the pair
// (owning course id, code). The owning course's label, fullname, and credit
// are denormalized for export convenience.
type Detail struct {
	CourseID       string
	Code           string
	Text           string
	CourseLabel    string
	CourseFullName string
	Credit         float64
}

// DetailSet stores CLOs grouped by owning course.
type DetailSet struct {
	byCourse map[string]map[string]Detail
	count    int
}

// NewDetailSet creates an empty detail registry.
func NewDetailSet() *DetailSet {
	return &DetailSet{byCourse: make(map[string]map[string]Detail)}
}

// Upsert inserts or overwrites a detail. Details with an empty course id or
// empty code are ignored; the caller is responsible for having resolved the
// course first.
func (s *DetailSet) Upsert(d Detail) {
	d.CourseID = strings.TrimSpace(d.CourseID)
	d.Code = strings.TrimSpace(d.Code)
	if d.CourseID == "" || d.Code == "" {
		return
	}
	m := s.byCourse[d.CourseID]
	if m == nil {
		m = make(map[string]Detail)
		s.byCourse[d.CourseID] = m
	}
	if _, exists := m[d.Code]; !exists {
		s.count++
	}
	m[d.Code] = d
}

// Get returns a detail by (course id, code).
func (s *DetailSet) Get(courseID, code string) (Detail, bool) {
	d, ok := s.byCourse[courseID][code]
	return d, ok
}

// ForCourse returns all details of one course sorted by code.
func (s *DetailSet) ForCourse(courseID string) []Detail {
	m := s.byCourse[courseID]
	if len(m) == 0 {
		return nil
	}
	out := make([]Detail, 0, len(m))
	for _, d := range m {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// All returns every detail in unspecified order.
func (s *DetailSet) All() []Detail {
	out := make([]Detail, 0, s.count)
	for _, m := range s.byCourse {
		for _, d := range m {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of details.
func (s *DetailSet) Len() int { return s.count }

var codeSuffixRE = regexp.MustCompile(`(?i)CLO\s*0*(\d+)`)

// NextCode generates the next sequential detail code for a course in the
// well-known "CLO<N>" pattern, by scanning existing codes for the maximal
// integer suffix and incrementing. A course with no numeric codes yields
// "CLO1".
func (s *DetailSet) NextCode(courseID string) string {
	maxN := 0
	for code := range s.byCourse[courseID] {
		m := codeSuffixRE.FindStringSubmatch(code)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > maxN {
			maxN = n
		}
	}
	return "CLO" + strconv.Itoa(maxN+1)
}
