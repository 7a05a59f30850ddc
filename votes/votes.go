// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package votes

import (
	"errors"
)

// Choice is the answer a voter gave to "was this article helpful?"
type Choice string

const (
	ChoiceYes Choice = "yes"
	ChoiceNo  Choice = "no"
)

var (
	ErrInvalidChoice   = errors.New("invalid vote")
	ErrDuplicateVote   = errors.New("already voted")
	ErrVersionConflict = errors.New("record modified concurrently")
)

// ParseChoice validates a raw choice string
func ParseChoice(s string) (Choice, error) {
	switch Choice(s) {
	case ChoiceYes, ChoiceNo:
		return Choice(s), nil
	}
	return "", ErrInvalidChoice
}

// Tally holds vote counts per choice for one article
type Tally struct {
	Yes int `json:"yes"`
	No  int `json:"no"`
}

func (t Tally) Total() int {
	return t.Yes + t.No
}

// Percentages returns the yes/no split as whole percentages.
// The no share is the complement of the rounded yes share so the pair
// always sums to 100. With no votes both are 0.
// Halves round up; integer math keeps 57.5 from landing on 57.4999.
func (t Tally) Percentages() (yes, no int) {
	total := t.Total()
	if total == 0 {
		return 0, 0
	}
	yes = (200*t.Yes + total) / (2 * total)
	return yes, 100 - yes
}

// Record is everything stored for one article.
// Version is 0 for a record that has never been persisted.
type Record struct {
	ArticleID int64
	Votes     map[string]Choice
	Tally     Tally
	Version   int64
}

// NewRecord returns the empty record for an article
func NewRecord(articleID int64) Record {
	return Record{
		ArticleID: articleID,
		Votes:     make(map[string]Choice),
	}
}

// VoteOf reports the voter's choice, if any
func (r Record) VoteOf(voter string) (Choice, bool) {
	c, ok := r.Votes[voter]
	return c, ok
}

// Cast records a vote. The receiver's Votes map is copied first so a
// record handed out by a store is never mutated in place.
func (r *Record) Cast(voter string, choice Choice) error {
	if _, err := ParseChoice(string(choice)); err != nil {
		return err
	}
	if _, ok := r.Votes[voter]; ok {
		return ErrDuplicateVote
	}

	votes := make(map[string]Choice, len(r.Votes)+1)
	for k, v := range r.Votes {
		votes[k] = v
	}
	votes[voter] = choice
	r.Votes = votes

	switch choice {
	case ChoiceYes:
		r.Tally.Yes++
	case ChoiceNo:
		r.Tally.No++
	}
	return nil
}

// Clone returns a deep copy
func (r Record) Clone() Record {
	c := r
	c.Votes = make(map[string]Choice, len(r.Votes))
	for k, v := range r.Votes {
		c.Votes[k] = v
	}
	return c
}

// Results is what callers see after a vote or a results lookup
type Results struct {
	YesPercentage int
	NoPercentage  int
	UserVote      *Choice
}

func resultsFor(t Tally) Results {
	yes, no := t.Percentages()
	return Results{YesPercentage: yes, NoPercentage: no}
}
