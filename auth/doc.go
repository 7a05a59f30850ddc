// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides request verification and voter identity hashing.

# Verification Tokens

The voting widget fetches a token when the page loads and sends it with
every vote and results request:

	token := auth.GenerateVerificationToken(auth.VoteAction, secret, lifetime, time.Now())
	err := auth.ValidateVerificationToken(token, auth.VoteAction, secret, lifetime, time.Now())

Tokens are an HMAC-SHA256 over the action and a time tick. A tick is half
the configured lifetime, and the current and previous ticks are accepted,
so a token is valid for between half and the whole lifetime. Nothing is
stored server side.

# IP Hashing

Voter identity is derived from the client address, but addresses are never
stored in the clear:

	voter := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
