package domain

import "errors"

// Challenge errors. An expired challenge is reported as not found so
// callers never distinguish the two cases
var (
	ErrChallengeNotFound = errors.New("login challenge not found")
	ErrNoUsername        = errors.New("telegram account has no username")
)

// Identity errors
var (
	ErrIdentityNotFound = errors.New("authenticated identity not found")
)

// Client errors
var (
	ErrClientNotFound = errors.New("portal client not found")
	ErrClientExists   = errors.New("portal client already exists")
)

// Session errors. Expired sessions surface as not found
var (
	ErrSessionNotFound = errors.New("session not found")
)

// Configuration errors
var (
	ErrMessengerNotConfigured = errors.New("telegram bot token not configured")
)
