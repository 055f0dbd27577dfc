package domain

import "time"

// PortalClient status values
const (
	ClientActive    = "active"
	ClientInactive  = "inactive"
	ClientSuspended = "suspended"
)

// LoginChallenge links a requested telegram username to a short-lived login
// code awaiting confirmation from the real owner of that account
type LoginChallenge struct {
	Username   string
	Code       string
	ChatID     int64
	TelegramID int64
	FirstName  string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	Verified   bool
}

// Expired reports whether the challenge is past its expiry window
func (c *LoginChallenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// AuthenticatedIdentity records a completed confirmation. It is a side
// record used for status lookups and never itself grants portal access
type AuthenticatedIdentity struct {
	Username   string
	TelegramID int64
	FirstName  string
	AuthDate   time.Time
}

// PortalClient represents a customer account in the portal
type PortalClient struct {
	ID               uint
	Name             string
	AccessCode       string
	TelegramUsername string // empty for accounts provisioned by access code only
	Status           string
	LastLogin        *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PortalSession is an opaque, time-bounded session bound to one client.
// At most one live session exists per client at any time
type PortalSession struct {
	Token     string
	ClientID  uint
	ExpiresAt time.Time
	CreatedAt time.Time
}

// ProvisionResult is the outcome of a find-or-create portal provisioning
type ProvisionResult struct {
	Client     *PortalClient
	AccessCode string
	IsNew      bool
}
