package dataset

import (
	"sort"

	"github.com/charmbracelet/log"
)

// State tracks the dataset lifecycle across a load cycle.
type State int

// Lifecycle states.
const (
	StateEmpty    State = iota // No data loaded
	StateLoading              // Entities partially loaded, graph not built
	StateBuilt                // Full graph ready for queries and edits
	StateMutating             // Edit applied, derived views stale
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateBuilt:
		return "built"
	case StateMutating:
		return "mutating"
	default:
		return "unknown"
	}
}

// LoadReport summarizes one full load: entity counts, relation counts, and
// per-source skip diagnostics.
type LoadReport struct {
	Outcomes        int
	Indicators      int
	Courses         int
	Relations       int
	Details         int
	Links           int
	LabelCollisions int
	RelationSkips   SkipReport
	DetailSkips     SkipReport
	LinkSkips       SkipReport
}

// Dataset is the owned aggregate for one curriculum map: the three entity
// registries, the typed relation graph, and the edit log's undo stack.
// It is constructed empty, populated by Load, mutated through the edit
// operations, and replaced wholesale on the next load.
type Dataset struct {
	Outcomes   *OutcomeSet // PLO registry
	Indicators *OutcomeSet // PI registry, modeled identically
	Courses    *CourseSet
	Details    *DetailSet

	relations []Relation
	relIndex  map[RelationKey]int
	links     []OutcomeLink

	undo   []Relation // Snapshots of deleted relations, most recent last
	state  State
	stale  bool
	logger *log.Logger
}

// New creates an empty dataset. A nil logger falls back to log.Default.
func New(logger *log.Logger) *Dataset {
	if logger == nil {
		logger = log.Default()
	}
	d := &Dataset{logger: logger}
	d.reset()
	return d
}

func (d *Dataset) reset() {
	d.Outcomes = NewOutcomeSet()
	d.Indicators = NewOutcomeSet()
	d.Courses = NewCourseSet()
	d.Details = NewDetailSet()
	d.relations = nil
	d.relIndex = make(map[RelationKey]int)
	d.links = nil
	d.undo = nil
	d.state = StateEmpty
	d.stale = false
}

// Reset discards all entities, relations, and undo history, returning the
// dataset to the Empty state. Called at the start of every full reload.
func (d *Dataset) Reset() {
	d.reset()
	d.logger.Debug("dataset reset")
}

// Sources carries the normalized rows of one load cycle. Nil slices mean
// the corresponding file was not provided.
type Sources struct {
	Outcomes   []Row // PLO.csv: label, content
	Indicators []Row // PI.csv: label, content
	Courses    []Row // COURSE.csv: id/code, label, fullname, tong/tc, lt, th, group...
	Relations  []Row // PLO-COURSE.csv: plo, course, level
	Details    []Row // COURSE-CLO.csv: label, fullname, tong, clo, content
	Links      []Row // PLO-PI.csv: plo, pi
}

// Load replaces the dataset contents from the given sources and transitions
// to Built. Malformed and unresolvable rows are skipped, never fatal; the
// report carries the diagnostics.
func (d *Dataset) Load(src Sources, opts BuildOptions) LoadReport {
	d.reset()
	d.state = StateLoading

	var rep LoadReport
	loadOutcomes(d.Outcomes, src.Outcomes)
	loadOutcomes(d.Indicators, src.Indicators)
	loadCourses(d.Courses, src.Courses)

	// Counts come from the registries so duplicate labels, which overwrite
	// in place, do not inflate the report.
	rep.Outcomes = d.Outcomes.Len()
	rep.Indicators = d.Indicators.Len()
	rep.Courses = d.Courses.Len()

	rep.DetailSkips = buildCourseDetailEdges(d.Courses, d.Details, src.Details, opts)
	rep.Details = d.Details.Len()

	rels, relSkips := buildOutcomeCourseEdges(d.Outcomes, d.Courses, src.Relations)
	for _, r := range rels {
		d.relIndex[r.Key()] = len(d.relations)
		d.relations = append(d.relations, r)
	}
	rep.Relations = len(d.relations)
	rep.RelationSkips = relSkips

	d.links, rep.LinkSkips = buildOutcomeLinks(d.Outcomes, d.Indicators, src.Links)
	rep.Links = len(d.links)
	rep.LabelCollisions = d.Courses.LabelCollisions()

	d.state = StateBuilt
	d.stale = true
	d.logger.Info("dataset loaded",
		"outcomes", rep.Outcomes,
		"courses", rep.Courses,
		"relations", rep.Relations,
		"details", rep.Details,
		"skipped", rep.RelationSkips.Skipped+rep.DetailSkips.Skipped+rep.LinkSkips.Skipped)
	return rep
}

// State returns the current lifecycle state.
func (d *Dataset) State() State { return d.state }

// Stale reports whether derived views must be recomputed before their next
// read is trusted. Every successful structural mutation sets it.
func (d *Dataset) Stale() bool { return d.stale }

// MarkFresh clears the stale flag after derived views were recomputed and
// returns a mutating dataset to Built.
func (d *Dataset) MarkFresh() {
	d.stale = false
	if d.state == StateMutating {
		d.state = StateBuilt
	}
}

// Relations returns a copy of the current relation list in insertion order.
func (d *Dataset) Relations() []Relation {
	out := make([]Relation, len(d.relations))
	copy(out, d.relations)
	return out
}

// Relation returns the relation with the given composite key.
func (d *Dataset) Relation(key RelationKey) (Relation, bool) {
	i, ok := d.relIndex[key]
	if !ok {
		return Relation{}, false
	}
	return d.relations[i], true
}

// Links returns a copy of the PLO↔PI link list.
func (d *Dataset) Links() []OutcomeLink {
	out := make([]OutcomeLink, len(d.links))
	copy(out, d.links)
	return out
}

// SortedOutcomeLabels returns PLO labels in lexicographic order.
func (d *Dataset) SortedOutcomeLabels() []string {
	labels := d.Outcomes.Labels()
	sort.Strings(labels)
	return labels
}

// SortedCourseIDs returns course ids ordered lexicographically by display
// label, then id.
func (d *Dataset) SortedCourseIDs() []string {
	ids := d.Courses.IDs()
	sort.Slice(ids, func(i, j int) bool {
		a, _ := d.Courses.Get(ids[i])
		b, _ := d.Courses.Get(ids[j])
		if a.Label != b.Label {
			return a.Label < b.Label
		}
		return ids[i] < ids[j]
	})
	return ids
}
