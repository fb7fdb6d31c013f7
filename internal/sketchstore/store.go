// Package sketchstore keeps the snapshots produced by saved sketches so the
// report side can fetch them after the editing session is gone.
package sketchstore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var ErrNotFound = errors.New("sketch not found")

// Sketch is one saved snapshot. DataURI is the exact string handed to the
// host on save.
type Sketch struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	DataURI   string    `json:"dataUri"`
	CreatedAt time.Time `json:"createdAt"`
}

type Store interface {
	Save(ctx context.Context, sk Sketch) error
	Get(ctx context.Context, id string) (Sketch, error)
	// Latest returns the most recent sketch saved by a session.
	Latest(ctx context.Context, sessionID string) (Sketch, error)
}

// MemoryStore is used when no database is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	sketches map[string]Sketch
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sketches: make(map[string]Sketch)}
}

func (m *MemoryStore) Save(_ context.Context, sk Sketch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sketches[sk.ID] = sk
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Sketch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sk, ok := m.sketches[id]
	if !ok {
		return Sketch{}, ErrNotFound
	}
	return sk, nil
}

func (m *MemoryStore) Latest(_ context.Context, sessionID string) (Sketch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var found []Sketch
	for _, sk := range m.sketches {
		if sk.SessionID == sessionID {
			found = append(found, sk)
		}
	}
	if len(found) == 0 {
		return Sketch{}, ErrNotFound
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].CreatedAt.Equal(found[j].CreatedAt) {
			return found[i].ID > found[j].ID
		}
		return found[i].CreatedAt.After(found[j].CreatedAt)
	})
	return found[0], nil
}
