// Package dataset implements the in-memory relational model for curriculum
// maps: program learning outcomes (PLO), program indicators (PI), courses,
// and course learning outcomes (CLO), plus the typed relations among them.
//
// A [Dataset] is the owned aggregate for one load cycle. It is populated from
// normalized CSV rows, resolves loose references (surrogate id or
// human-readable label) against the course registry, silently skips rows it
// cannot resolve, and supports incremental edits with single-level undo.
//
// # Lifecycle
//
// A dataset moves through Empty → Loading → Built → Mutating → Built. A full
// reload via [Dataset.Reset] returns to Empty and discards all entities,
// relations, and undo history.
//
// # Reference resolution
//
// Relation rows may name a course by id or by label. [CourseSet.Resolve]
// tries the id index first, then the label index, and reports failure
// explicitly; builders drop unresolvable rows and count them in a
// [SkipReport] instead of guessing.
//
// Dataset is not safe for concurrent use without external synchronization;
// all mutations are expected to run to completion on a single goroutine
// before dependent reads.
package dataset
