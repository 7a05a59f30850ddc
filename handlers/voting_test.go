// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/danielhkuo/article-voting/auth"
	"github.com/danielhkuo/article-voting/metrics"
	"github.com/danielhkuo/article-voting/models"
	"github.com/danielhkuo/article-voting/testutil"
	"github.com/danielhkuo/article-voting/votes"
)

// spyStore records whether the handler reached the store
type spyStore struct {
	votes.Store
	calls int
}

func (s *spyStore) Get(ctx context.Context, articleID int64) (votes.Record, error) {
	s.calls++
	return s.Store.Get(ctx, articleID)
}

func (s *spyStore) Put(ctx context.Context, rec votes.Record) error {
	s.calls++
	return s.Store.Put(ctx, rec)
}

type failingStore struct{}

func (failingStore) Get(ctx context.Context, articleID int64) (votes.Record, error) {
	return votes.Record{}, errors.New("connection refused")
}

func (failingStore) Put(ctx context.Context, rec votes.Record) error {
	return errors.New("connection refused")
}

func newTestHandler(t *testing.T, store votes.Store) (*VotingHandler, *metrics.VoteMetrics) {
	t.Helper()
	m := metrics.NewVoteMetrics(prometheus.NewRegistry(), "test")
	return NewVotingHandler(votes.NewService(store), testutil.GetTestConfig(), m), m
}

func voteRequest(articleID, choice, token, remoteAddr string) *http.Request {
	req := testutil.MakeRequest("POST", "/articles/"+articleID+"/votes",
		models.SubmitVoteRequest{Choice: choice},
		map[string]string{tokenHeader: token})
	req.SetPathValue("id", articleID)
	req.RemoteAddr = remoteAddr
	return req
}

func resultsRequest(articleID, token, remoteAddr string) *http.Request {
	req := testutil.MakeRequest("GET", "/articles/"+articleID+"/votes", nil,
		map[string]string{tokenHeader: token})
	req.SetPathValue("id", articleID)
	req.RemoteAddr = remoteAddr
	return req
}

func TestSubmitVote(t *testing.T) {
	token := testutil.ValidToken(testutil.GetTestConfig())

	tests := []struct {
		name           string
		articleID      string
		choice         string
		token          string
		expectedStatus int
		expectedMsg    string
	}{
		{"yes vote", "1", "yes", token, http.StatusCreated, ""},
		{"no vote", "2", "no", token, http.StatusCreated, ""},
		{"invalid choice", "3", "maybe", token, http.StatusBadRequest, "invalid vote"},
		{"empty choice", "3", "", token, http.StatusBadRequest, "invalid vote"},
		{"missing token", "4", "yes", "", http.StatusForbidden, "invalid request origin"},
		{"bad token", "4", "yes", "forged", http.StatusForbidden, "invalid request origin"},
		{"non-numeric article id", "abc", "yes", token, http.StatusBadRequest, "invalid article id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newTestHandler(t, votes.NewMemoryStore())

			w := httptest.NewRecorder()
			handler.SubmitVote(w, voteRequest(tt.articleID, tt.choice, tt.token, "192.0.2.1:1234"))

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var resp models.VoteResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.YesPercentage+resp.NoPercentage != 100 {
					t.Errorf("percentages sum to %d, want 100", resp.YesPercentage+resp.NoPercentage)
				}
				return
			}

			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Message != tt.expectedMsg {
				t.Errorf("Expected message %q, got %q", tt.expectedMsg, resp.Message)
			}
		})
	}
}

func TestSubmitVoteScenario(t *testing.T) {
	handler, m := newTestHandler(t, votes.NewMemoryStore())
	token := testutil.ValidToken(handler.cfg)
	const voterA, voterB = "198.51.100.10:5000", "198.51.100.20:5000"

	// Voter A votes yes
	w := httptest.NewRecorder()
	handler.SubmitVote(w, voteRequest("42", "yes", token, voterA))
	testutil.AssertStatus(t, w, http.StatusCreated)
	var resp models.VoteResponse
	testutil.AssertJSON(t, w, &resp)
	if resp != (models.VoteResponse{YesPercentage: 100, NoPercentage: 0}) {
		t.Errorf("after A: got %+v, want 100/0", resp)
	}

	// Voter B votes no
	w = httptest.NewRecorder()
	handler.SubmitVote(w, voteRequest("42", "no", token, voterB))
	testutil.AssertStatus(t, w, http.StatusCreated)
	testutil.AssertJSON(t, w, &resp)
	if resp != (models.VoteResponse{YesPercentage: 50, NoPercentage: 50}) {
		t.Errorf("after B: got %+v, want 50/50", resp)
	}

	// Voter A again, from another port on the same address
	w = httptest.NewRecorder()
	handler.SubmitVote(w, voteRequest("42", "no", token, "198.51.100.10:6000"))
	testutil.AssertStatus(t, w, http.StatusConflict)
	var errResp models.ErrorResponse
	testutil.AssertJSON(t, w, &errResp)
	if errResp.Message != "already voted" {
		t.Errorf("Expected 'already voted', got %q", errResp.Message)
	}

	// Results for voter A
	w = httptest.NewRecorder()
	handler.GetResults(w, resultsRequest("42", token, voterA))
	testutil.AssertStatus(t, w, http.StatusOK)
	var results models.ResultsResponse
	testutil.AssertJSON(t, w, &results)
	if results.YesPercentage != 50 || results.NoPercentage != 50 {
		t.Errorf("results: got %d/%d, want 50/50", results.YesPercentage, results.NoPercentage)
	}
	if results.UserVote == nil || *results.UserVote != "yes" {
		t.Errorf("results: user_vote = %v, want yes", results.UserVote)
	}

	if got := promtest.ToFloat64(m.VotesRecorded.WithLabelValues("yes")); got != 1 {
		t.Errorf("votes_recorded_total{choice=yes} = %v, want 1", got)
	}
	if got := promtest.ToFloat64(m.VotesRejected.WithLabelValues(metrics.ReasonDuplicate)); got != 1 {
		t.Errorf("votes_rejected_total{reason=duplicate} = %v, want 1", got)
	}
}

func TestGetResultsNoVotes(t *testing.T) {
	handler, _ := newTestHandler(t, votes.NewMemoryStore())

	w := httptest.NewRecorder()
	handler.GetResults(w, resultsRequest("7", testutil.ValidToken(handler.cfg), "192.0.2.1:1234"))

	testutil.AssertStatus(t, w, http.StatusOK)
	body := w.Body.String()
	expected := `{"yes_percentage":0,"no_percentage":0,"user_vote":null}` + "\n"
	if body != expected {
		t.Errorf("Expected body %s, got %s", expected, body)
	}
}

func TestInvalidOriginNeverTouchesStore(t *testing.T) {
	store := &spyStore{Store: votes.NewMemoryStore()}
	handler, m := newTestHandler(t, store)

	w := httptest.NewRecorder()
	handler.SubmitVote(w, voteRequest("1", "yes", "bogus", "192.0.2.1:1234"))
	testutil.AssertStatus(t, w, http.StatusForbidden)

	w = httptest.NewRecorder()
	handler.GetResults(w, resultsRequest("1", "", "192.0.2.1:1234"))
	testutil.AssertStatus(t, w, http.StatusForbidden)

	if store.calls != 0 {
		t.Errorf("store was called %d times, want 0", store.calls)
	}
	if got := promtest.ToFloat64(m.VotesRejected.WithLabelValues(metrics.ReasonInvalidOrigin)); got != 1 {
		t.Errorf("votes_rejected_total{reason=invalid_origin} = %v, want 1", got)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	handler, _ := newTestHandler(t, votes.NewMemoryStore())
	cfg := handler.cfg
	old := auth.GenerateVerificationToken(auth.VoteAction, cfg.TokenSecret, cfg.TokenLifetime, time.Now().Add(-2*cfg.TokenLifetime))

	w := httptest.NewRecorder()
	handler.SubmitVote(w, voteRequest("1", "yes", old, "192.0.2.1:1234"))
	testutil.AssertStatus(t, w, http.StatusForbidden)
}

func TestMalformedBodyIsInvalidVote(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"not JSON", "choice=yes"},
		{"truncated", `{"choice":"ye`},
		{"wrong type", `{"choice":1}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			spy := &spyStore{Store: votes.NewMemoryStore()}
			handler, m := newTestHandler(t, spy)

			req := httptest.NewRequest("POST", "/articles/1/votes", strings.NewReader(tc.body))
			req.SetPathValue("id", "1")
			req.Header.Set(tokenHeader, testutil.ValidToken(handler.cfg))
			w := httptest.NewRecorder()

			handler.SubmitVote(w, req)
			testutil.AssertStatus(t, w, http.StatusBadRequest)

			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Message != votes.ErrInvalidChoice.Error() {
				t.Errorf("Message = %q, want %q", resp.Message, votes.ErrInvalidChoice.Error())
			}
			if spy.calls != 0 {
				t.Errorf("store called %d times, want 0", spy.calls)
			}
			if got := promtest.ToFloat64(m.VotesRejected.WithLabelValues(metrics.ReasonInvalidChoice)); got != 1 {
				t.Errorf("invalid choice rejections = %v, want 1", got)
			}
		})
	}
}

func TestStoreFailureIsServerError(t *testing.T) {
	handler, m := newTestHandler(t, failingStore{})
	token := testutil.ValidToken(handler.cfg)

	w := httptest.NewRecorder()
	handler.SubmitVote(w, voteRequest("1", "yes", token, "192.0.2.1:1234"))
	testutil.AssertStatus(t, w, http.StatusInternalServerError)
	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != "internal error" {
		t.Errorf("Expected generic message, got %q", resp.Message)
	}

	w = httptest.NewRecorder()
	handler.GetResults(w, resultsRequest("1", token, "192.0.2.1:1234"))
	testutil.AssertStatus(t, w, http.StatusInternalServerError)

	if got := promtest.ToFloat64(m.VotesRejected.WithLabelValues(metrics.ReasonError)); got != 1 {
		t.Errorf("votes_rejected_total{reason=error} = %v, want 1", got)
	}
}

func TestTrustProxyVoterIdentity(t *testing.T) {
	store := votes.NewMemoryStore()
	handler, _ := newTestHandler(t, store)
	handler.cfg.TrustProxy = true
	token := testutil.ValidToken(handler.cfg)

	// Same proxy address, different forwarded clients
	for _, client := range []string{"203.0.113.1", "203.0.113.2"} {
		req := voteRequest("5", "yes", token, "10.0.0.1:443")
		req.Header.Set("X-Forwarded-For", client)
		w := httptest.NewRecorder()
		handler.SubmitVote(w, req)
		testutil.AssertStatus(t, w, http.StatusCreated)
	}

	rec, _ := store.Get(context.Background(), 5)
	if len(rec.Votes) != 2 {
		t.Errorf("recorded %d voters, want 2", len(rec.Votes))
	}
	if _, ok := rec.Votes["203.0.113.1"]; ok {
		t.Error("raw IP address stored as voter identity")
	}
	if _, ok := rec.Votes[auth.HashIP("203.0.113.1", handler.cfg.IPHashSalt)]; !ok {
		t.Error("expected hashed client address as voter identity")
	}
}

func TestIssueToken(t *testing.T) {
	handler, _ := newTestHandler(t, votes.NewMemoryStore())

	req := httptest.NewRequest("GET", "/verification-token", nil)
	w := httptest.NewRecorder()
	handler.IssueToken(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Error("Expected Cache-Control: no-store")
	}

	var resp models.TokenResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.ExpiresIn != int64((12 * time.Hour).Seconds()) {
		t.Errorf("expires_in = %d, want 43200", resp.ExpiresIn)
	}

	// The issued token is accepted by the vote endpoint
	w = httptest.NewRecorder()
	handler.SubmitVote(w, voteRequest("1", "yes", resp.Token, "192.0.2.1:1234"))
	testutil.AssertStatus(t, w, http.StatusCreated)
}
