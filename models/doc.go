// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request and response types for the API.

# Request Types

  - SubmitVoteRequest: choice ("yes" or "no")

# Response Types

  - VoteResponse: yes_percentage, no_percentage
  - ResultsResponse: yes_percentage, no_percentage, user_vote (null if not voted)
  - TokenResponse: token, expires_in
  - ErrorResponse: error, message

# Legacy Envelope

The form-encoded /ajax endpoint answers with

	{"success": true,  "data": {...}}
	{"success": false, "data": "already voted"}

See AjaxResponse and AjaxVoteData.
*/
package models
