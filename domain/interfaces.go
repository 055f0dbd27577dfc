package domain

import (
	"context"
	"time"
)

// ChallengeStore holds outstanding login challenges keyed by telegram
// username (case-insensitive). Expiry is enforced at read time: an expired
// challenge is reported as not found even if it was never purged. Saving a
// new challenge for a username supersedes the old one
type ChallengeStore interface {
	Save(ctx context.Context, challenge *LoginChallenge) error
	FindByUsername(ctx context.Context, username string) (*LoginChallenge, error)
	FindByCode(ctx context.Context, code string) (*LoginChallenge, error)
	MarkVerified(ctx context.Context, username string) error
	Delete(ctx context.Context, username string) error
}

// IdentityStore records messaging identities that completed a confirmation
type IdentityStore interface {
	Save(ctx context.Context, identity *AuthenticatedIdentity) error
	Find(ctx context.Context, username string) (*AuthenticatedIdentity, error)
}

// ClientRepository defines portal client data access operations
type ClientRepository interface {
	Create(ctx context.Context, client *PortalClient) error
	FindByID(ctx context.Context, id uint) (*PortalClient, error)
	FindByAccessCode(ctx context.Context, code string) (*PortalClient, error)
	FindByTelegramUsername(ctx context.Context, username string) (*PortalClient, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
}

// SessionRepository defines portal session data access operations
type SessionRepository interface {
	Create(ctx context.Context, session *PortalSession) error
	FindByToken(ctx context.Context, token string) (*PortalSession, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByClient(ctx context.Context, clientID uint) error
}

// CodeService generates login and access codes
type CodeService interface {
	GenerateLoginCode() (string, error)
	GenerateAccessCode() (string, error)
}

// MessengerService is the messaging transport. SendMessage is one-way and
// fire-and-forget; GetUpdates is the pull-mode event source
type MessengerService interface {
	SendMessage(chatID int64, text string) error
	GetUpdates(ctx context.Context, afterID int64) ([]Update, error)
	Configured() bool
}

// ProvisionService finds or creates the portal account for a verified
// messaging identity
type ProvisionService interface {
	Provision(ctx context.Context, username, firstName string, telegramID int64) (*ProvisionResult, error)
}

// SessionService issues, validates and revokes portal sessions
type SessionService interface {
	ValidateAccessCode(ctx context.Context, code string) (*PortalClient, error)
	CreateSession(ctx context.Context, clientID uint) (string, error)
	ValidateSession(ctx context.Context, token string) (*PortalClient, error)
	DeleteSession(ctx context.Context, token string) error
}

// UpdateHandler consumes one inbound messaging event. Both ingestion modes
// funnel into a single implementation
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update *Update) error
}
