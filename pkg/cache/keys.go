package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash returns the SHA-256 of data as a 64-character hex string. The
// pipeline uses it to fingerprint source rows and serialized graphs.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey builds a "kind:hash" cache key from the kind and the JSON-encoded
// parts. The full hash is kept; truncating would trade collisions for
// nothing on a keyspace this small.
func hashKey(kind string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", kind, hex.EncodeToString(sum[:]))
}

// Keyer generates cache keys for the domain's cacheable artifacts. All
// option structs are hashed into the key, so any change in parameters is a
// cache miss rather than a stale hit.
type Keyer interface {
	// DatasetKey generates a key for a built dataset, derived from the
	// hash of its source rows and the build options.
	DatasetKey(sourceHash string, opts DatasetKeyOpts) string
	// SuggestKey generates a key for one suggestion request.
	SuggestKey(outcome, course, level string, count int) string
	// EvaluateKey generates a key for one evaluation request.
	EvaluateKey(outcome, detailText string) string
	// RenderKey generates a key for a rendered graph artifact.
	RenderKey(graphHash string, opts RenderKeyOpts) string
}

// DatasetKeyOpts are the build parameters that affect a dataset's contents.
type DatasetKeyOpts struct {
	AllowPlaceholders bool `json:"allow_placeholders"`
}

// RenderKeyOpts are the render parameters that affect an artifact's bytes.
type RenderKeyOpts struct {
	Format string `json:"format"` // "svg", "png", "dot"
	Detail bool   `json:"detail"` // Include detail nodes
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// DatasetKey generates a key for a built dataset.
func (k *DefaultKeyer) DatasetKey(sourceHash string, opts DatasetKeyOpts) string {
	return hashKey("dataset", sourceHash, opts)
}

// SuggestKey generates a key for one suggestion request.
func (k *DefaultKeyer) SuggestKey(outcome, course, level string, count int) string {
	return hashKey("suggest", outcome, course, level, count)
}

// EvaluateKey generates a key for one evaluation request.
func (k *DefaultKeyer) EvaluateKey(outcome, detailText string) string {
	return hashKey("evaluate", outcome, detailText)
}

// RenderKey generates a key for a rendered graph artifact.
func (k *DefaultKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return hashKey("render", graphHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
