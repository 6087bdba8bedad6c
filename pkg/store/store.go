// Package store persists named curriculum snapshots: a serialized graph
// plus bookkeeping metadata. Two backends exist, an in-memory map for
// single-process and test use, and mongo for shared deployments.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/minhlq/curmap/pkg/graph"
)

// ErrNotFound is returned by operations that require an existing snapshot.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is one saved curriculum map.
type Snapshot struct {
	ID        string      `json:"id" bson:"_id"`
	Name      string      `json:"name" bson:"name"`
	Graph     graph.Graph `json:"graph" bson:"graph"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" bson:"updated_at"`
}

// New creates a snapshot with a fresh id and timestamps.
func New(name string, g graph.Graph) *Snapshot {
	now := time.Now().UTC()
	return &Snapshot{
		ID:        uuid.NewString(),
		Name:      name,
		Graph:     g,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Store is the interface for snapshot storage backends.
type Store interface {
	// Get retrieves a snapshot by id. Returns nil, nil if it doesn't exist.
	Get(ctx context.Context, id string) (*Snapshot, error)

	// List returns all snapshots sorted by name.
	List(ctx context.Context) ([]*Snapshot, error)

	// Set stores a snapshot, overwriting any previous version and bumping
	// its UpdatedAt.
	Set(ctx context.Context, snap *Snapshot) error

	// Delete removes a snapshot. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
