package dataset

import (
	"testing"

	"github.com/minhlq/curmap/pkg/errors"
)

func builtDataset(t *testing.T) *Dataset {
	t.Helper()
	src := testSources()
	src.Relations = []Row{{"plo": "PLO1", "course": "C1", "level": "I"}}
	ds := New(nil)
	ds.Load(src, BuildOptions{})
	ds.MarkFresh()
	return ds
}

func TestAddRelation(t *testing.T) {
	ds := builtDataset(t)

	rel, err := ds.AddRelation("PLO2", "CS201", LevelMaster)
	if err != nil {
		t.Fatalf("AddRelation: %v", err)
	}
	if rel.CourseID != "C2" {
		t.Errorf("CourseID = %q, want label resolved to C2", rel.CourseID)
	}
	if !ds.Stale() {
		t.Error("successful add must mark views stale")
	}
}

func TestAddRelationRejections(t *testing.T) {
	ds := builtDataset(t)

	tests := []struct {
		name     string
		outcome  string
		course   string
		wantCode errors.Code
	}{
		{"duplicate key", "PLO1", "C1", errors.ErrCodeDuplicateRelation},
		{"unknown outcome", "PLO9", "C1", errors.ErrCodeOutcomeNotFound},
		{"unknown course", "PLO1", "C9", errors.ErrCodeCourseNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ds.AddRelation(tt.outcome, tt.course, LevelIntroduce)
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("error = %v, want code %s", err, tt.wantCode)
			}
		})
	}

	_, err := New(nil).AddRelation("PLO1", "C1", LevelIntroduce)
	if !errors.Is(err, errors.ErrCodePrecondition) {
		t.Errorf("empty dataset add = %v, want precondition failure", err)
	}
}

func TestUpdateRelationLevel(t *testing.T) {
	ds := builtDataset(t)
	key := RelationKey{Outcome: "PLO1", CourseID: "C1"}

	if err := ds.UpdateRelationLevel(key, LevelAssess); err != nil {
		t.Fatalf("UpdateRelationLevel: %v", err)
	}
	rel, _ := ds.Relation(key)
	if rel.Level != LevelAssess {
		t.Errorf("Level = %s, want A", rel.Level)
	}

	err := ds.UpdateRelationLevel(RelationKey{Outcome: "PLO1", CourseID: "C9"}, LevelAssess)
	if !errors.Is(err, errors.ErrCodeRelationNotFound) {
		t.Errorf("error = %v, want NOT_FOUND_RELATION", err)
	}
}

func TestDeleteUndoRoundTrip(t *testing.T) {
	ds := builtDataset(t)

	added, err := ds.AddRelation("PLO2", "C2", LevelReinforce)
	if err != nil {
		t.Fatalf("AddRelation: %v", err)
	}
	if err := ds.DeleteRelation(added.Key()); err != nil {
		t.Fatalf("DeleteRelation: %v", err)
	}
	if _, ok := ds.Relation(added.Key()); ok {
		t.Fatal("relation still present after delete")
	}

	restored, err := ds.UndoDelete()
	if err != nil {
		t.Fatalf("UndoDelete: %v", err)
	}
	if restored != added {
		t.Errorf("restored = %+v, want identical snapshot %+v", restored, added)
	}
	if got, _ := ds.Relation(added.Key()); got != added {
		t.Errorf("relation after undo = %+v, want %+v", got, added)
	}
}

func TestUndoOverwritesReAddedRelation(t *testing.T) {
	ds := builtDataset(t)
	key := RelationKey{Outcome: "PLO1", CourseID: "C1"}

	if err := ds.DeleteRelation(key); err != nil {
		t.Fatalf("DeleteRelation: %v", err)
	}
	// Independently re-add the same key with a different level.
	if _, err := ds.AddRelation("PLO1", "C1", LevelAssess); err != nil {
		t.Fatalf("AddRelation: %v", err)
	}

	if _, err := ds.UndoDelete(); err != nil {
		t.Fatalf("UndoDelete: %v", err)
	}
	rel, _ := ds.Relation(key)
	if rel.Level != LevelIntroduce {
		t.Errorf("Level = %s, want snapshot to overwrite the re-added relation", rel.Level)
	}
}

func TestUndoEmptyStack(t *testing.T) {
	ds := builtDataset(t)
	if _, err := ds.UndoDelete(); !errors.Is(err, errors.ErrCodeNothingToUndo) {
		t.Errorf("error = %v, want NOTHING_TO_UNDO", err)
	}
}

func TestDeleteMissingRelation(t *testing.T) {
	ds := builtDataset(t)
	err := ds.DeleteRelation(RelationKey{Outcome: "PLO1", CourseID: "C9"})
	if !errors.Is(err, errors.ErrCodeRelationNotFound) {
		t.Errorf("error = %v, want NOT_FOUND_RELATION", err)
	}
}

func TestAddDetailAutoCode(t *testing.T) {
	ds := builtDataset(t)
	ds.Details.Upsert(Detail{CourseID: "C1", Code: "CLO1"})
	ds.Details.Upsert(Detail{CourseID: "C1", Code: "CLO2"})

	det, err := ds.AddDetail("CS101", "", "Apply basics")
	if err != nil {
		t.Fatalf("AddDetail: %v", err)
	}
	if det.Code != "CLO3" {
		t.Errorf("Code = %q, want auto-generated CLO3", det.Code)
	}
	if det.CourseID != "C1" {
		t.Errorf("CourseID = %q, want label resolved to C1", det.CourseID)
	}

	_, err = ds.AddDetail("Ghost", "", "x")
	if !errors.Is(err, errors.ErrCodeCourseNotFound) {
		t.Errorf("error = %v, want NOT_FOUND_COURSE", err)
	}
}

func TestMutatingStateAndMarkFresh(t *testing.T) {
	ds := builtDataset(t)
	if _, err := ds.AddRelation("PLO2", "C2", LevelIntroduce); err != nil {
		t.Fatalf("AddRelation: %v", err)
	}
	if ds.State() != StateMutating {
		t.Errorf("State = %s, want mutating until views recompute", ds.State())
	}
	ds.MarkFresh()
	if ds.State() != StateBuilt || ds.Stale() {
		t.Error("MarkFresh should return dataset to built and clear stale")
	}
}

func TestAddAndDeleteLink(t *testing.T) {
	src := testSources()
	src.Indicators = []Row{{"label": "PI1.1", "content": "Model a problem"}}
	ds := New(nil)
	ds.Load(src, BuildOptions{})
	ds.MarkFresh()

	link, err := ds.AddLink("PLO1", "PI1.1")
	if err != nil {
		t.Fatalf("AddLink: %v", err)
	}
	if link.PLO != "PLO1" || link.PI != "PI1.1" {
		t.Errorf("link = %+v", link)
	}
	if !ds.Stale() {
		t.Error("successful link add must mark views stale")
	}

	if _, err := ds.AddLink("PLO1", "PI1.1"); !errors.Is(err, errors.ErrCodeDuplicateRelation) {
		t.Errorf("duplicate link error = %v, want DUPLICATE_RELATION", err)
	}
	if _, err := ds.AddLink("Ghost", "PI1.1"); !errors.Is(err, errors.ErrCodeOutcomeNotFound) {
		t.Errorf("unknown outcome error = %v, want NOT_FOUND_OUTCOME", err)
	}
	if _, err := ds.AddLink("PLO1", "Ghost"); !errors.Is(err, errors.ErrCodeOutcomeNotFound) {
		t.Errorf("unknown indicator error = %v, want NOT_FOUND_OUTCOME", err)
	}

	if err := ds.DeleteLink("PLO1", "PI1.1"); err != nil {
		t.Fatalf("DeleteLink: %v", err)
	}
	if len(ds.Links()) != 0 {
		t.Errorf("links = %d after delete, want 0", len(ds.Links()))
	}
	if err := ds.DeleteLink("PLO1", "PI1.1"); !errors.Is(err, errors.ErrCodeRelationNotFound) {
		t.Errorf("missing link error = %v, want NOT_FOUND_RELATION", err)
	}
}
