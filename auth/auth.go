// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// VoteAction scopes verification tokens issued for the voting widget
const VoteAction = "article-voting"

// DefaultTokenLifetime is used when no lifetime is configured
const DefaultTokenLifetime = 24 * time.Hour

var ErrInvalidVerificationToken = errors.New("invalid request origin")

// tick splits time into windows of half the token lifetime
func tick(now time.Time, lifetime time.Duration) int64 {
	if lifetime <= 0 {
		lifetime = DefaultTokenLifetime
	}
	half := int64(lifetime / 2 / time.Second)
	if half < 1 {
		half = 1
	}
	// ceil(now / half)
	return (now.Unix() + half - 1) / half
}

func tokenForTick(t int64, action, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(strconv.FormatInt(t, 10)))
	h.Write([]byte{'|'})
	h.Write([]byte(action))
	sum := h.Sum(nil)
	// 12 bytes is plenty for a short-lived token
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum[:12]), "=")
}

// GenerateVerificationToken creates a token proving a request came from a
// page we served. Tokens stay valid for between half and all of lifetime.
func GenerateVerificationToken(action, secret string, lifetime time.Duration, now time.Time) string {
	return tokenForTick(tick(now, lifetime), action, secret)
}

// ValidateVerificationToken accepts tokens from the current or previous tick
func ValidateVerificationToken(token, action, secret string, lifetime time.Duration, now time.Time) error {
	if token == "" {
		return ErrInvalidVerificationToken
	}

	current := tick(now, lifetime)
	for _, t := range []int64{current, current - 1} {
		expected := tokenForTick(t, action, secret)
		if hmac.Equal([]byte(token), []byte(expected)) {
			return nil
		}
	}
	return ErrInvalidVerificationToken
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
