// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/article-voting/auth"
	"github.com/danielhkuo/article-voting/cliparse"
	"github.com/danielhkuo/article-voting/metrics"
	"github.com/danielhkuo/article-voting/middleware"
	"github.com/danielhkuo/article-voting/models"
	"github.com/danielhkuo/article-voting/votes"
)

const tokenHeader = "X-Verification-Token"

type VotingHandler struct {
	svc     *votes.Service
	cfg     cliparse.Config
	metrics *metrics.VoteMetrics
	now     func() time.Time
}

func NewVotingHandler(svc *votes.Service, cfg cliparse.Config, m *metrics.VoteMetrics) *VotingHandler {
	return &VotingHandler{svc: svc, cfg: cfg, metrics: m, now: time.Now}
}

// SubmitVote handles POST /articles/{id}/votes
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	// Origin check comes before anything touches the store
	if !h.verifyOrigin(r.Header.Get(tokenHeader)) {
		h.metrics.VotesRejected.WithLabelValues(metrics.ReasonInvalidOrigin).Inc()
		middleware.ErrorResponse(w, http.StatusForbidden, auth.ErrInvalidVerificationToken.Error())
		return
	}

	articleID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid article id")
		return
	}

	// An unreadable body carries no valid choice either
	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		status, message := h.voteFailure(r, articleID, fmt.Errorf("%w: %v", votes.ErrInvalidChoice, err))
		middleware.ErrorResponse(w, status, message)
		return
	}

	res, err := h.svc.SubmitVote(r.Context(), articleID, h.voterIdentity(r), req.Choice)
	if err != nil {
		status, message := h.voteFailure(r, articleID, err)
		middleware.ErrorResponse(w, status, message)
		return
	}

	h.metrics.VotesRecorded.WithLabelValues(req.Choice).Inc()
	slog.Info("vote recorded", "article_id", articleID, "choice", req.Choice)

	middleware.JSONResponse(w, http.StatusCreated, models.NewVoteResponse(res))
}

// GetResults handles GET /articles/{id}/votes
func (h *VotingHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	if !h.verifyOrigin(r.Header.Get(tokenHeader)) {
		middleware.ErrorResponse(w, http.StatusForbidden, auth.ErrInvalidVerificationToken.Error())
		return
	}

	articleID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid article id")
		return
	}

	res, err := h.svc.GetResults(r.Context(), articleID, h.voterIdentity(r))
	if err != nil {
		slog.Error("failed to load results", "error", err, "article_id", articleID,
			"request_id", middleware.RequestID(r.Context()))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.metrics.ResultsServed.Inc()
	middleware.JSONResponse(w, http.StatusOK, models.NewResultsResponse(res))
}

// IssueToken handles GET /verification-token
// The widget calls this on page load and sends the token with every request
func (h *VotingHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	token := auth.GenerateVerificationToken(auth.VoteAction, h.cfg.TokenSecret, h.cfg.TokenLifetime, h.now())

	w.Header().Set("Cache-Control", "no-store")
	middleware.JSONResponse(w, http.StatusOK, models.TokenResponse{
		Token:     token,
		ExpiresIn: int64(h.cfg.TokenLifetime / 2 / time.Second),
	})
}

func (h *VotingHandler) verifyOrigin(token string) bool {
	err := auth.ValidateVerificationToken(token, auth.VoteAction, h.cfg.TokenSecret, h.cfg.TokenLifetime, h.now())
	return err == nil
}

// voterIdentity is the hashed client address; raw addresses are never stored
func (h *VotingHandler) voterIdentity(r *http.Request) string {
	return auth.HashIP(middleware.GetClientIP(r, h.cfg.TrustProxy), h.cfg.IPHashSalt)
}

// voteFailure maps a SubmitVote error to a status and client message and
// records it. Domain rejections are not server errors.
func (h *VotingHandler) voteFailure(r *http.Request, articleID int64, err error) (int, string) {
	switch {
	case errors.Is(err, votes.ErrDuplicateVote):
		h.metrics.VotesRejected.WithLabelValues(metrics.ReasonDuplicate).Inc()
		slog.Info("vote rejected", "article_id", articleID, "reason", metrics.ReasonDuplicate)
		return http.StatusConflict, votes.ErrDuplicateVote.Error()
	case errors.Is(err, votes.ErrInvalidChoice):
		h.metrics.VotesRejected.WithLabelValues(metrics.ReasonInvalidChoice).Inc()
		slog.Info("vote rejected", "article_id", articleID, "reason", metrics.ReasonInvalidChoice)
		return http.StatusBadRequest, votes.ErrInvalidChoice.Error()
	default:
		h.metrics.VotesRejected.WithLabelValues(metrics.ReasonError).Inc()
		slog.Error("failed to record vote", "error", err, "article_id", articleID,
			"request_id", middleware.RequestID(r.Context()))
		return http.StatusInternalServerError, "internal error"
	}
}
