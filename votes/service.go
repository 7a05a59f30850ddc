// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package votes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// DefaultMaxAttempts bounds SubmitVote retries on version conflicts
const DefaultMaxAttempts = 5

type Service struct {
	store       Store
	maxAttempts int
}

type Option func(*Service)

// WithMaxAttempts sets how many times SubmitVote tries to persist a vote
// before giving up on version conflicts
func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, maxAttempts: DefaultMaxAttempts}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitVote records the voter's choice for an article and returns the
// updated percentages. The choice is validated before the store is touched.
func (s *Service) SubmitVote(ctx context.Context, articleID int64, voter string, choice string) (Results, error) {
	c, err := ParseChoice(choice)
	if err != nil {
		return Results{}, err
	}

	for attempt := 1; ; attempt++ {
		rec, err := s.store.Get(ctx, articleID)
		if err != nil {
			return Results{}, fmt.Errorf("failed to load votes for article %d: %w", articleID, err)
		}

		if err := rec.Cast(voter, c); err != nil {
			return Results{}, err
		}

		err = s.store.Put(ctx, rec)
		if err == nil {
			return resultsFor(rec.Tally), nil
		}
		if !errors.Is(err, ErrVersionConflict) || attempt >= s.maxAttempts {
			return Results{}, fmt.Errorf("failed to save vote for article %d: %w", articleID, err)
		}
		slog.Debug("vote write conflict, retrying", "article_id", articleID, "attempt", attempt)
	}
}

// GetResults returns the current percentages and the voter's own choice.
// It never writes to the store.
func (s *Service) GetResults(ctx context.Context, articleID int64, voter string) (Results, error) {
	rec, err := s.store.Get(ctx, articleID)
	if err != nil {
		return Results{}, fmt.Errorf("failed to load votes for article %d: %w", articleID, err)
	}

	res := resultsFor(rec.Tally)
	if c, ok := rec.VoteOf(voter); ok {
		res.UserVote = &c
	}
	return res, nil
}
