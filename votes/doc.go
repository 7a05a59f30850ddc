// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package votes implements "was this article helpful?" voting.

# Records

Each article has one Record: the voters who answered, their choice, and a
running Tally. Tally.Yes + Tally.No always equals len(Votes).

	rec := votes.NewRecord(42)
	err := rec.Cast(voter, votes.ChoiceYes)

# Service

Service exposes the two operations used by the HTTP layer:

	svc := votes.NewService(store)
	res, err := svc.SubmitVote(ctx, articleID, voter, "yes")
	res, err := svc.GetResults(ctx, articleID, voter)

SubmitVote fails with ErrInvalidChoice or ErrDuplicateVote without writing
anything. GetResults never writes.

# Percentages

	yes = round(Yes / total * 100)
	no  = 100 - yes

Both are 0 when nobody has voted.

# Stores

Store implementations use Record.Version for compare-and-swap writes.
SubmitVote reloads and retries when Put returns ErrVersionConflict.
MemoryStore lives here; SQL and Redis stores are in package store.
*/
package votes
