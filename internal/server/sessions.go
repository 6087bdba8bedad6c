package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/minhlq/curmap/pkg/dataset"
	"github.com/minhlq/curmap/pkg/errors"
	"github.com/minhlq/curmap/pkg/views"
)

// Session holds one loaded dataset and its derived views. Edits and reads
// are serialized per session; different sessions never contend.
type Session struct {
	ID string

	mu    sync.Mutex
	ds    *dataset.Dataset
	model *views.Model
}

// Do runs fn with exclusive access to the session's dataset.
func (s *Session) Do(fn func(ds *dataset.Dataset) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.ds)
}

// Model returns the derived views, recomputing them if edits made the
// current ones stale.
func (s *Session) Model() *views.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.model == nil || s.ds.Stale() {
		s.model = views.Recompute(s.ds)
	}
	return s.model
}

// Sessions is the in-memory session registry.
type Sessions struct {
	mu   sync.RWMutex
	byID map[string]*Session
}

// NewSessions creates an empty registry.
func NewSessions() *Sessions {
	return &Sessions{byID: make(map[string]*Session)}
}

// Add registers a dataset under a fresh id.
func (r *Sessions) Add(ds *dataset.Dataset) *Session {
	s := &Session{ID: uuid.NewString(), ds: ds}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[s.ID] = s
	return s
}

// Get returns the session or a NOT_FOUND_DATASET error.
func (r *Sessions) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeDatasetNotFound, "unknown dataset: %s", id)
	}
	return s, nil
}

// Delete removes a session. Removing an unknown id is a no-op.
func (r *Sessions) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

// Len returns the number of live sessions.
func (r *Sessions) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
