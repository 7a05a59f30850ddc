// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/danielhkuo/article-voting/testutil"
	"github.com/danielhkuo/article-voting/votes"
)

func TestSQLStoreContract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) votes.Store {
		return NewSQLStore(testutil.SetupTestDB(t))
	})
}

func TestSQLStoreConcurrentWriters(t *testing.T) {
	const numVoters = 10
	db := testutil.SetupTestDB(t)

	// Two stores over one database behave like two server processes
	stores := []votes.Store{NewSQLStore(db), NewSQLStore(db)}

	var wg sync.WaitGroup
	errs := make(chan error, numVoters)
	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			svc := votes.NewService(stores[i%2], votes.WithMaxAttempts(numVoters+1))
			if _, err := svc.SubmitVote(context.Background(), 77, fmt.Sprintf("voter-%d", i), "yes"); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent vote failed: %v", err)
	}

	var yes, version int
	if err := db.QueryRow(`SELECT yes_count, version FROM article_tally WHERE article_id = 77`).Scan(&yes, &version); err != nil {
		t.Fatal(err)
	}
	if yes != numVoters || version != numVoters {
		t.Errorf("yes_count = %d, version = %d, want %d each", yes, version, numVoters)
	}

	var rows int
	if err := db.QueryRow(`SELECT COUNT(*) FROM article_vote WHERE article_id = 77`).Scan(&rows); err != nil {
		t.Fatal(err)
	}
	if rows != numVoters {
		t.Errorf("vote rows = %d, want %d", rows, numVoters)
	}
}

func TestSQLStoreClosedDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := NewSQLStore(db)
	db.Close()

	_, err := s.Get(context.Background(), 1)
	if err == nil || !strings.Contains(err.Error(), "failed to query votes") {
		t.Errorf("Get() on closed db error = %v", err)
	}

	rec := votes.NewRecord(1)
	rec.Cast("v", votes.ChoiceYes)
	if err := s.Put(context.Background(), rec); err == nil {
		t.Error("Put() on closed db should fail")
	}
}
