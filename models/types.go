// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "github.com/danielhkuo/article-voting/votes"

// Legacy ajax actions
const (
	ActionVote         = "article_vote"
	ActionFetchResults = "fetch_vote_results"
)

// Request types

type SubmitVoteRequest struct {
	Choice string `json:"choice"`
}

// Response types

type VoteResponse struct {
	YesPercentage int `json:"yes_percentage"`
	NoPercentage  int `json:"no_percentage"`
}

// user_vote is null when the caller has not voted
type ResultsResponse struct {
	YesPercentage int     `json:"yes_percentage"`
	NoPercentage  int     `json:"no_percentage"`
	UserVote      *string `json:"user_vote"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"` // seconds the token is guaranteed valid
}

// AjaxResponse is the {success, data} envelope of the legacy endpoint.
// Data is a results object on success and a message string on failure.
type AjaxResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type AjaxVoteData struct {
	Message       string `json:"message"`
	YesPercentage int    `json:"yes_percentage"`
	NoPercentage  int    `json:"no_percentage"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func NewVoteResponse(r votes.Results) VoteResponse {
	return VoteResponse{YesPercentage: r.YesPercentage, NoPercentage: r.NoPercentage}
}

func NewResultsResponse(r votes.Results) ResultsResponse {
	resp := ResultsResponse{YesPercentage: r.YesPercentage, NoPercentage: r.NoPercentage}
	if r.UserVote != nil {
		s := string(*r.UserVote)
		resp.UserVote = &s
	}
	return resp
}
