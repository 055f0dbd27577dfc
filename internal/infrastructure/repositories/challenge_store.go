package repositories

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/you/portalauth/domain"
)

// MemoryChallengeStore implements domain.ChallengeStore with a process-wide
// map. Lifetime is process uptime: a restart clears every pending
// challenge, which is the accepted single-instance behavior. Expired
// entries are rejected at read time; no background sweep runs
type MemoryChallengeStore struct {
	mu         sync.RWMutex
	challenges map[string]*domain.LoginChallenge
	ttl        time.Duration
	now        func() time.Time
}

// NewMemoryChallengeStore creates an in-process challenge store
func NewMemoryChallengeStore(ttl time.Duration) *MemoryChallengeStore {
	return &MemoryChallengeStore{
		challenges: make(map[string]*domain.LoginChallenge),
		ttl:        ttl,
		now:        time.Now,
	}
}

// Save implements domain.ChallengeStore. It stamps CreatedAt and ExpiresAt
// and overwrites any previous challenge for the same username
func (s *MemoryChallengeStore) Save(ctx context.Context, challenge *domain.LoginChallenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	stored := *challenge
	stored.Username = normalizeUsername(challenge.Username)
	stored.CreatedAt = now
	stored.ExpiresAt = now.Add(s.ttl)
	stored.Verified = false
	s.challenges[stored.Username] = &stored

	*challenge = stored
	return nil
}

// FindByUsername implements domain.ChallengeStore
func (s *MemoryChallengeStore) FindByUsername(ctx context.Context, username string) (*domain.LoginChallenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	challenge, ok := s.challenges[normalizeUsername(username)]
	if !ok || challenge.Expired(s.now()) {
		return nil, domain.ErrChallengeNotFound
	}
	copied := *challenge
	return &copied, nil
}

// FindByCode implements domain.ChallengeStore. The map is small enough
// that a scan beats keeping a second index in sync
func (s *MemoryChallengeStore) FindByCode(ctx context.Context, code string) (*domain.LoginChallenge, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, domain.ErrChallengeNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	for _, challenge := range s.challenges {
		if challenge.Code == code && !challenge.Expired(now) {
			copied := *challenge
			return &copied, nil
		}
	}
	return nil, domain.ErrChallengeNotFound
}

// MarkVerified implements domain.ChallengeStore. An expired challenge can
// never flip to verified
func (s *MemoryChallengeStore) MarkVerified(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	challenge, ok := s.challenges[normalizeUsername(username)]
	if !ok || challenge.Expired(s.now()) {
		return domain.ErrChallengeNotFound
	}
	challenge.Verified = true
	return nil
}

// Delete implements domain.ChallengeStore, idempotently
func (s *MemoryChallengeStore) Delete(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.challenges, normalizeUsername(username))
	return nil
}

// MemoryIdentityStore implements domain.IdentityStore with a process-wide
// map, same lifetime contract as MemoryChallengeStore
type MemoryIdentityStore struct {
	mu         sync.RWMutex
	identities map[string]*domain.AuthenticatedIdentity
}

// NewMemoryIdentityStore creates an in-process identity store
func NewMemoryIdentityStore() *MemoryIdentityStore {
	return &MemoryIdentityStore{identities: make(map[string]*domain.AuthenticatedIdentity)}
}

// Save implements domain.IdentityStore
func (s *MemoryIdentityStore) Save(ctx context.Context, identity *domain.AuthenticatedIdentity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *identity
	stored.Username = normalizeUsername(identity.Username)
	s.identities[stored.Username] = &stored
	return nil
}

// Find implements domain.IdentityStore
func (s *MemoryIdentityStore) Find(ctx context.Context, username string) (*domain.AuthenticatedIdentity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	identity, ok := s.identities[normalizeUsername(username)]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	copied := *identity
	return &copied, nil
}

// normalizeUsername lowercases a telegram handle and strips the @ prefix
func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))
}

// Compile-time interface compliance verification
var _ domain.ChallengeStore = (*MemoryChallengeStore)(nil)
var _ domain.IdentityStore = (*MemoryIdentityStore)(nil)
