// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package votes

import (
	"context"
	"sync"
)

// Store persists one Record per article.
//
// Get returns NewRecord(articleID) when nothing is stored yet.
// Put replaces the stored record only if its version still equals
// rec.Version, then bumps the stored version. Otherwise it returns
// ErrVersionConflict and changes nothing.
type Store interface {
	Get(ctx context.Context, articleID int64) (Record, error)
	Put(ctx context.Context, rec Record) error
}

// MemoryStore is a process-local Store
type MemoryStore struct {
	mu      sync.Mutex
	records map[int64]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[int64]Record)}
}

func (s *MemoryStore) Get(ctx context.Context, articleID int64) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[articleID]
	if !ok {
		return NewRecord(articleID), nil
	}
	return rec.Clone(), nil
}

func (s *MemoryStore) Put(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.records[rec.ArticleID].Version != rec.Version {
		return ErrVersionConflict
	}
	stored := rec.Clone()
	stored.Version++
	s.records[rec.ArticleID] = stored
	return nil
}
