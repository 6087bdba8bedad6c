package dataset

import "github.com/minhlq/curmap/pkg/errors"

// Edit operations on individual relations after a build. Unlike load-time
// deduplication (silent, first wins), interactive adds reject duplicates
// explicitly. Every successful mutation marks derived views stale.

// AddRelation inserts a new outcome→course relation. The outcome must exist
// by exact label; the course reference may be an id or a label and goes
// through the resolver. Duplicate composite keys are rejected.
func (d *Dataset) AddRelation(outcome, courseRef string, level Level) (Relation, error) {
	if d.state == StateEmpty {
		return Relation{}, errors.New(errors.ErrCodePrecondition, "no dataset loaded; build the graph before adding relations")
	}
	if !d.Outcomes.Has(outcome) {
		return Relation{}, errors.New(errors.ErrCodeOutcomeNotFound, "unknown outcome %q", outcome)
	}
	courseID, ok := d.Courses.Resolve(courseRef)
	if !ok {
		return Relation{}, errors.New(errors.ErrCodeCourseNotFound, "unknown course %q", courseRef)
	}
	if !level.Valid() {
		level = LevelIntroduce
	}

	rel := Relation{Outcome: outcome, CourseID: courseID, Level: level}
	if _, exists := d.relIndex[rel.Key()]; exists {
		return Relation{}, errors.New(errors.ErrCodeDuplicateRelation, "relation %s→%s already exists", outcome, courseID)
	}

	d.relIndex[rel.Key()] = len(d.relations)
	d.relations = append(d.relations, rel)
	d.markMutated()
	return rel, nil
}

// UpdateRelationLevel overwrites the level attribute of an existing relation
// in place. The composite key is unchanged.
func (d *Dataset) UpdateRelationLevel(key RelationKey, level Level) error {
	i, ok := d.relIndex[key]
	if !ok {
		return errors.New(errors.ErrCodeRelationNotFound, "no relation %s→%s", key.Outcome, key.CourseID)
	}
	if !level.Valid() {
		level = LevelIntroduce
	}
	d.relations[i].Level = level
	d.markMutated()
	return nil
}

// DeleteRelation removes a relation and pushes a full snapshot onto the undo
// stack. The stack is unbounded; only the most recent entry is ever popped.
func (d *Dataset) DeleteRelation(key RelationKey) error {
	i, ok := d.relIndex[key]
	if !ok {
		return errors.New(errors.ErrCodeRelationNotFound, "no relation %s→%s", key.Outcome, key.CourseID)
	}
	d.undo = append(d.undo, d.relations[i])
	d.relations = append(d.relations[:i], d.relations[i+1:]...)
	d.reindex()
	d.markMutated()
	return nil
}

// UndoDelete pops the most recent delete snapshot and re-inserts it verbatim,
// original composite key included. If an identical key was independently
// re-added in the interim, the snapshot overwrites it.
func (d *Dataset) UndoDelete() (Relation, error) {
	if len(d.undo) == 0 {
		return Relation{}, errors.New(errors.ErrCodeNothingToUndo, "nothing to undo")
	}
	rel := d.undo[len(d.undo)-1]
	d.undo = d.undo[:len(d.undo)-1]

	if i, exists := d.relIndex[rel.Key()]; exists {
		d.relations[i] = rel
	} else {
		d.relIndex[rel.Key()] = len(d.relations)
		d.relations = append(d.relations, rel)
	}
	d.markMutated()
	return rel, nil
}

// UndoDepth returns the number of delete snapshots available.
func (d *Dataset) UndoDepth() int { return len(d.undo) }

// AddDetail inserts a CLO for a course already present in the registry.
// An empty code auto-generates the next sequential "CLO<N>" code.
func (d *Dataset) AddDetail(courseRef, code, text string) (Detail, error) {
	if d.state == StateEmpty {
		return Detail{}, errors.New(errors.ErrCodePrecondition, "no dataset loaded; build the graph before adding details")
	}
	courseID, ok := d.Courses.Resolve(courseRef)
	if !ok {
		return Detail{}, errors.New(errors.ErrCodeCourseNotFound, "unknown course %q", courseRef)
	}
	if code == "" {
		code = d.Details.NextCode(courseID)
	}
	course, _ := d.Courses.Get(courseID)
	det := Detail{
		CourseID:       courseID,
		Code:           code,
		Text:           text,
		CourseLabel:    course.Label,
		CourseFullName: course.FullName,
		Credit:         course.Credit,
	}
	d.Details.Upsert(det)
	d.markMutated()
	return det, nil
}

// AddLink inserts an outcome→indicator link. Both endpoints must exist by
// exact label in their registries. Duplicate pairs are rejected.
func (d *Dataset) AddLink(outcome, indicator string) (OutcomeLink, error) {
	if d.state == StateEmpty {
		return OutcomeLink{}, errors.New(errors.ErrCodePrecondition, "no dataset loaded; build the graph before adding links")
	}
	if !d.Outcomes.Has(outcome) {
		return OutcomeLink{}, errors.New(errors.ErrCodeOutcomeNotFound, "unknown outcome %q", outcome)
	}
	if !d.Indicators.Has(indicator) {
		return OutcomeLink{}, errors.New(errors.ErrCodeOutcomeNotFound, "unknown indicator %q", indicator)
	}
	for _, l := range d.links {
		if l.PLO == outcome && l.PI == indicator {
			return OutcomeLink{}, errors.New(errors.ErrCodeDuplicateRelation, "link %s→%s already exists", outcome, indicator)
		}
	}
	link := OutcomeLink{PLO: outcome, PI: indicator}
	d.links = append(d.links, link)
	d.markMutated()
	return link, nil
}

// DeleteLink removes an outcome→indicator link. Link deletions do not join
// the relation undo stack.
func (d *Dataset) DeleteLink(outcome, indicator string) error {
	for i, l := range d.links {
		if l.PLO == outcome && l.PI == indicator {
			d.links = append(d.links[:i], d.links[i+1:]...)
			d.markMutated()
			return nil
		}
	}
	return errors.New(errors.ErrCodeRelationNotFound, "no link %s→%s", outcome, indicator)
}

// ReplaceRelations swaps the entire relation set, as a connection-CSV import
// does. Duplicate composite keys deduplicate first wins, mirroring load-time
// policy. Undo history survives the swap. Returns the kept count.
func (d *Dataset) ReplaceRelations(rels []Relation) int {
	d.relations = nil
	d.relIndex = make(map[RelationKey]int, len(rels))
	for _, r := range rels {
		if _, dup := d.relIndex[r.Key()]; dup {
			continue
		}
		if !r.Level.Valid() {
			r.Level = LevelIntroduce
		}
		d.relIndex[r.Key()] = len(d.relations)
		d.relations = append(d.relations, r)
	}
	d.markMutated()
	return len(d.relations)
}

// markMutated moves the dataset to Mutating until derived views are
// recomputed; MarkFresh returns it to Built.
func (d *Dataset) markMutated() {
	d.state = StateMutating
	d.stale = true
}

func (d *Dataset) reindex() {
	d.relIndex = make(map[RelationKey]int, len(d.relations))
	for i, r := range d.relations {
		d.relIndex[r.Key()] = i
	}
}
