package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/you/portalauth/domain"
)

// SessionServiceImpl implements domain.SessionService
type SessionServiceImpl struct {
	clientRepo  domain.ClientRepository
	sessionRepo domain.SessionRepository
	ttl         time.Duration
	now         func() time.Time
}

// NewSessionService creates a new session authority
func NewSessionService(clientRepo domain.ClientRepository, sessionRepo domain.SessionRepository, ttl time.Duration) domain.SessionService {
	return &SessionServiceImpl{
		clientRepo:  clientRepo,
		sessionRepo: sessionRepo,
		ttl:         ttl,
		now:         time.Now,
	}
}

// ValidateAccessCode implements domain.SessionService. Unknown codes and
// codes belonging to non-active clients fail identically
func (s *SessionServiceImpl) ValidateAccessCode(ctx context.Context, code string) (*domain.PortalClient, error) {
	code = strings.ToUpper(strings.Join(strings.Fields(code), ""))
	if code == "" {
		return nil, domain.ErrClientNotFound
	}

	client, err := s.clientRepo.FindByAccessCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to look up access code: %w", err)
	}
	if client.Status != domain.ClientActive {
		log.Printf("ACCESS_CODE_REJECTED: client_id=%d status=%s", client.ID, client.Status)
		return nil, domain.ErrClientNotFound
	}
	return client, nil
}

// CreateSession implements domain.SessionService. The delete strictly
// precedes the insert so the new session can never be destroyed by its own
// call's cleanup; this is what enforces single-active-session
func (s *SessionServiceImpl) CreateSession(ctx context.Context, clientID uint) (string, error) {
	if err := s.sessionRepo.DeleteByClient(ctx, clientID); err != nil {
		return "", fmt.Errorf("failed to revoke prior sessions: %w", err)
	}

	token, err := generateToken()
	if err != nil {
		return "", err
	}

	session := &domain.PortalSession{
		Token:     token,
		ClientID:  clientID,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	// last_login is informational; its failure must not revoke the session
	if err := s.clientRepo.UpdateLastLogin(ctx, clientID, s.now()); err != nil {
		log.Printf("failed to update last_login for client %d: %v", clientID, err)
	}

	return token, nil
}

// ValidateSession implements domain.SessionService. The repository deletes
// expired rows on read; a client that is no longer active fails closed
func (s *SessionServiceImpl) ValidateSession(ctx context.Context, token string) (*domain.PortalClient, error) {
	if token == "" {
		return nil, domain.ErrSessionNotFound
	}

	session, err := s.sessionRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	client, err := s.clientRepo.FindByID(ctx, session.ClientID)
	if err != nil {
		return nil, domain.ErrSessionNotFound
	}
	if client.Status != domain.ClientActive {
		return nil, domain.ErrSessionNotFound
	}
	return client, nil
}

// DeleteSession implements domain.SessionService, idempotently
func (s *SessionServiceImpl) DeleteSession(ctx context.Context, token string) error {
	return s.sessionRepo.DeleteByToken(ctx, token)
}

// generateToken produces an opaque 256-bit session token
func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
