// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielhkuo/article-voting/auth"
	"github.com/danielhkuo/article-voting/metrics"
	"github.com/danielhkuo/article-voting/middleware"
	"github.com/danielhkuo/article-voting/models"
)

const maxFormBytes = 4 << 10

// Ajax handles POST /ajax, the form-encoded endpoint the original widget
// script talks to. Fields: action, post_id, vote, security.
func (h *VotingHandler) Ajax(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		ajaxError(w, http.StatusBadRequest, "invalid form")
		return
	}

	action := r.PostFormValue("action")
	if action != models.ActionVote && action != models.ActionFetchResults {
		ajaxError(w, http.StatusBadRequest, "unknown action")
		return
	}

	if !h.verifyOrigin(r.PostFormValue("security")) {
		if action == models.ActionVote {
			h.metrics.VotesRejected.WithLabelValues(metrics.ReasonInvalidOrigin).Inc()
		}
		ajaxError(w, http.StatusForbidden, auth.ErrInvalidVerificationToken.Error())
		return
	}

	articleID := leadingInt(r.PostFormValue("post_id"))
	voter := h.voterIdentity(r)

	if action == models.ActionFetchResults {
		res, err := h.svc.GetResults(r.Context(), articleID, voter)
		if err != nil {
			slog.Error("failed to load results", "error", err, "article_id", articleID,
				"request_id", middleware.RequestID(r.Context()))
			ajaxError(w, http.StatusInternalServerError, "internal error")
			return
		}
		h.metrics.ResultsServed.Inc()
		middleware.JSONResponse(w, http.StatusOK, models.AjaxResponse{
			Success: true,
			Data:    models.NewResultsResponse(res),
		})
		return
	}

	choice := r.PostFormValue("vote")
	res, err := h.svc.SubmitVote(r.Context(), articleID, voter, choice)
	if err != nil {
		status, message := h.voteFailure(r, articleID, err)
		ajaxError(w, status, message)
		return
	}

	h.metrics.VotesRecorded.WithLabelValues(choice).Inc()
	slog.Info("vote recorded", "article_id", articleID, "choice", choice)

	middleware.JSONResponse(w, http.StatusOK, models.AjaxResponse{
		Success: true,
		Data: models.AjaxVoteData{
			Message:       "Vote recorded",
			YesPercentage: res.YesPercentage,
			NoPercentage:  res.NoPercentage,
		},
	})
}

func ajaxError(w http.ResponseWriter, status int, message string) {
	middleware.JSONResponse(w, status, models.AjaxResponse{Success: false, Data: message})
}

// leadingInt parses an optional sign and leading digits, ignoring the rest.
// Anything unparseable is 0, matching how the original script read post_id.
func leadingInt(s string) int64 {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
