package dataset

import "strings"

// Level is the proficiency attribute of an outcome→course relation.
// It is a closed enumeration serialized as a single letter.
type Level string

// Proficiency levels.
const (
	LevelIntroduce Level = "I"
	LevelReinforce Level = "R"
	LevelMaster    Level = "M"
	LevelAssess    Level = "A"
)

// Levels lists all proficiency levels in canonical display order.
var Levels = []Level{LevelIntroduce, LevelReinforce, LevelMaster, LevelAssess}

// NormalizeLevel upper-cases a raw level cell and validates it against the
// enumeration. Absent or unrecognized values default to Introduce.
func NormalizeLevel(raw string) Level {
	switch Level(strings.ToUpper(strings.TrimSpace(raw))) {
	case LevelIntroduce:
		return LevelIntroduce
	case LevelReinforce:
		return LevelReinforce
	case LevelMaster:
		return LevelMaster
	case LevelAssess:
		return LevelAssess
	default:
		return LevelIntroduce
	}
}

// Valid reports whether the level is one of the closed enumeration.
func (l Level) Valid() bool {
	switch l {
	case LevelIntroduce, LevelReinforce, LevelMaster, LevelAssess:
		return true
	}
	return false
}

// Relation is a typed outcome→course edge. Its identity is the composite key
// (Outcome, CourseID); Level is a mutable attribute.
type Relation struct {
	Outcome  string `json:"outcome" bson:"outcome"`
	CourseID string `json:"course" bson:"course"`
	Level    Level  `json:"level" bson:"level"`
}

// Key returns the composite key identifying the relation.
func (r Relation) Key() RelationKey {
	return RelationKey{Outcome: r.Outcome, CourseID: r.CourseID}
}

// RelationKey identifies a relation independent of its attributes.
type RelationKey struct {
	Outcome  string
	CourseID string
}

// OutcomeLink is an attribute-free PLO↔PI edge, identified by the pair of
// outcome labels.
type OutcomeLink struct {
	PLO string `json:"plo" bson:"plo"`
	PI  string `json:"pi" bson:"pi"`
}
