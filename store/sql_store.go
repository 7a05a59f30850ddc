// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/article-voting/votes"
)

// SQLStore keeps votes in the article_tally and article_vote tables.
// The queries run unchanged on SQLite and PostgreSQL.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Get loads the tally and every vote in a single statement so both come
// from the same snapshot
func (s *SQLStore) Get(ctx context.Context, articleID int64) (votes.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.yes_count, t.no_count, t.version, v.voter, v.choice
		FROM article_tally t
		LEFT JOIN article_vote v ON v.article_id = t.article_id
		WHERE t.article_id = $1
	`, articleID)
	if err != nil {
		return votes.Record{}, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	rec := votes.NewRecord(articleID)
	for rows.Next() {
		var voter, choice sql.NullString
		if err := rows.Scan(&rec.Tally.Yes, &rec.Tally.No, &rec.Version, &voter, &choice); err != nil {
			return votes.Record{}, fmt.Errorf("failed to scan vote: %w", err)
		}
		if !voter.Valid {
			continue
		}
		c, err := votes.ParseChoice(choice.String)
		if err != nil {
			return votes.Record{}, fmt.Errorf("stored vote for article %d has bad choice %q: %w", articleID, choice.String, err)
		}
		rec.Votes[voter.String] = c
	}
	if err := rows.Err(); err != nil {
		return votes.Record{}, fmt.Errorf("failed to read votes: %w", err)
	}

	return rec, nil
}

// Put writes the tally with a version check, then inserts any votes not
// yet stored. Existing vote rows are never changed.
func (s *SQLStore) Put(ctx context.Context, rec votes.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var res sql.Result
	if rec.Version == 0 {
		res, err = tx.ExecContext(ctx, `
			INSERT INTO article_tally (article_id, yes_count, no_count, version)
			VALUES ($1, $2, $3, 1)
			ON CONFLICT (article_id) DO NOTHING
		`, rec.ArticleID, rec.Tally.Yes, rec.Tally.No)
	} else {
		res, err = tx.ExecContext(ctx, `
			UPDATE article_tally
			SET yes_count = $1, no_count = $2, version = version + 1
			WHERE article_id = $3 AND version = $4
		`, rec.Tally.Yes, rec.Tally.No, rec.ArticleID, rec.Version)
	}
	if err != nil {
		return fmt.Errorf("failed to write tally: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check tally write: %w", err)
	}
	if n == 0 {
		return votes.ErrVersionConflict
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO article_vote (article_id, voter, choice)
		VALUES ($1, $2, $3)
		ON CONFLICT (article_id, voter) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare vote insert: %w", err)
	}
	defer stmt.Close()

	for voter, choice := range rec.Votes {
		if _, err := stmt.ExecContext(ctx, rec.ArticleID, voter, string(choice)); err != nil {
			return fmt.Errorf("failed to insert vote: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit votes: %w", err)
	}
	return nil
}
