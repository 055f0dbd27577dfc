package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/you/portalauth/domain"
)

// maxAccessCodeRetries bounds the retry loop when a freshly generated
// access code collides with an existing one
const maxAccessCodeRetries = 5

// ProvisionServiceImpl implements domain.ProvisionService
type ProvisionServiceImpl struct {
	clientRepo domain.ClientRepository
	codeSvc    domain.CodeService
}

// NewProvisionService creates a new portal account provisioner
func NewProvisionService(clientRepo domain.ClientRepository, codeSvc domain.CodeService) domain.ProvisionService {
	return &ProvisionServiceImpl{clientRepo: clientRepo, codeSvc: codeSvc}
}

// Provision implements domain.ProvisionService. The lookup-then-insert is
// guarded by the unique constraint on telegram_username: a concurrent
// duplicate insert fails and the loser re-reads the winner's row, so two
// near-simultaneous calls for the same username return the same access code
func (s *ProvisionServiceImpl) Provision(ctx context.Context, username, firstName string, telegramID int64) (*domain.ProvisionResult, error) {
	username = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))
	if username == "" {
		return nil, domain.ErrNoUsername
	}

	existing, err := s.clientRepo.FindByTelegramUsername(ctx, username)
	if err == nil {
		return &domain.ProvisionResult{Client: existing, AccessCode: existing.AccessCode, IsNew: false}, nil
	}
	if !errors.Is(err, domain.ErrClientNotFound) {
		return nil, fmt.Errorf("failed to look up client: %w", err)
	}

	name := strings.TrimSpace(firstName)
	if name == "" {
		name = username
	}

	for attempt := 0; attempt < maxAccessCodeRetries; attempt++ {
		accessCode, err := s.codeSvc.GenerateAccessCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate access code: %w", err)
		}

		client := &domain.PortalClient{
			Name:             name,
			AccessCode:       accessCode,
			TelegramUsername: username,
			Status:           domain.ClientActive,
		}

		err = s.clientRepo.Create(ctx, client)
		if err == nil {
			return &domain.ProvisionResult{Client: client, AccessCode: accessCode, IsNew: true}, nil
		}
		if !errors.Is(err, domain.ErrClientExists) {
			return nil, fmt.Errorf("failed to create client: %w", err)
		}

		// Either the username raced with another insert or the access code
		// collided. The username case wins: use the existing row.
		if existing, ferr := s.clientRepo.FindByTelegramUsername(ctx, username); ferr == nil {
			return &domain.ProvisionResult{Client: existing, AccessCode: existing.AccessCode, IsNew: false}, nil
		}
	}

	return nil, fmt.Errorf("exhausted access code retries for %s", username)
}
