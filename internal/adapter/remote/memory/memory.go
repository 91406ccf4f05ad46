// Package memory implements the remote document store in process memory.
// It backs the "memory" database driver for local development and gives
// tests an offline/failure-injectable collaborator.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ovenlight/prepstock-backend/internal/adapter/remote"
	"github.com/ovenlight/prepstock-backend/internal/domain"
)

// ErrOffline is returned by Save and Ping while the store is offline.
// It wraps remote.ErrUnavailable so the synchronizer sees a connectivity
// failure, not a write error.
var ErrOffline = fmt.Errorf("%w: offline", remote.ErrUnavailable)

// Store is an in-memory remote document store.
type Store struct {
	mu      sync.RWMutex
	docs    map[string]remote.Document
	offline bool
	saveErr error
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{docs: make(map[string]remote.Document)}
}

// SetOffline toggles the simulated connectivity state.
func (s *Store) SetOffline(offline bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offline = offline
}

// FailWith makes every subsequent Save return err. Pass nil to heal.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

// Save marshals value and stores it under path.
func (s *Store) Save(ctx context.Context, path string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.offline {
		return ErrOffline
	}
	if s.saveErr != nil {
		return s.saveErr
	}
	s.docs[path] = remote.Document{Path: path, Value: raw, UpdatedAt: time.Now().UTC()}
	return nil
}

// Load unmarshals the document at path into dest.
func (s *Store) Load(ctx context.Context, path string, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	doc, ok := s.docs[path]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("load %s: %w", path, domain.ErrNotFound)
	}
	if err := json.Unmarshal(doc.Value, dest); err != nil {
		return fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return nil
}

// List returns all documents under prefix, ordered by path.
func (s *Store) List(ctx context.Context, prefix string) ([]remote.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []remote.Document
	for path, doc := range s.docs {
		if strings.HasPrefix(path, prefix) {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

// Ping reports the simulated connectivity state.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.offline {
		return ErrOffline
	}
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() {}

// Len reports the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
