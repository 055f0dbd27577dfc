package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/portalauth/domain"
)

// RedisChallengeStore implements domain.ChallengeStore on Redis, for
// deployments where more than one instance must see the same pending
// challenges. Redis TTL evicts stale keys, but expiry is still checked
// against the stored timestamp on every read; eviction is an optimization,
// not what correctness rests on
type RedisChallengeStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

const (
	challengePrefix     = "challenge:"
	challengeCodePrefix = "challenge:code:"
	identityPrefix      = "identity:"
)

// NewRedisChallengeStore creates a Redis-backed challenge store
func NewRedisChallengeStore(client *redis.Client, ttl time.Duration) *RedisChallengeStore {
	return &RedisChallengeStore{client: client, ttl: ttl, now: time.Now}
}

// Save implements domain.ChallengeStore. The code index key shares the
// challenge TTL so a stale code can never resolve
func (s *RedisChallengeStore) Save(ctx context.Context, challenge *domain.LoginChallenge) error {
	now := s.now()
	stored := *challenge
	stored.Username = normalizeUsername(challenge.Username)
	stored.CreatedAt = now
	stored.ExpiresAt = now.Add(s.ttl)
	stored.Verified = false

	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("failed to marshal challenge: %w", err)
	}

	if err := s.client.Set(ctx, challengePrefix+stored.Username, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store challenge: %w", err)
	}
	if err := s.client.Set(ctx, challengeCodePrefix+stored.Code, stored.Username, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store challenge code index: %w", err)
	}

	*challenge = stored
	return nil
}

// FindByUsername implements domain.ChallengeStore
func (s *RedisChallengeStore) FindByUsername(ctx context.Context, username string) (*domain.LoginChallenge, error) {
	return s.get(ctx, normalizeUsername(username))
}

// FindByCode implements domain.ChallengeStore
func (s *RedisChallengeStore) FindByCode(ctx context.Context, code string) (*domain.LoginChallenge, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, domain.ErrChallengeNotFound
	}

	username, err := s.client.Get(ctx, challengeCodePrefix+code).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrChallengeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve challenge code: %w", err)
	}

	challenge, err := s.get(ctx, username)
	if err != nil {
		return nil, err
	}
	// the username key may have been superseded by a newer code
	if challenge.Code != code {
		return nil, domain.ErrChallengeNotFound
	}
	return challenge, nil
}

// MarkVerified implements domain.ChallengeStore. KeepTTL preserves the
// remaining expiry window across the rewrite
func (s *RedisChallengeStore) MarkVerified(ctx context.Context, username string) error {
	key := challengePrefix + normalizeUsername(username)

	challenge, err := s.get(ctx, normalizeUsername(username))
	if err != nil {
		return err
	}

	challenge.Verified = true
	data, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("failed to marshal challenge: %w", err)
	}
	return s.client.Set(ctx, key, data, redis.KeepTTL).Err()
}

// Delete implements domain.ChallengeStore, idempotently
func (s *RedisChallengeStore) Delete(ctx context.Context, username string) error {
	challenge, err := s.get(ctx, normalizeUsername(username))
	if errors.Is(err, domain.ErrChallengeNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.client.Del(ctx, challengePrefix+challenge.Username, challengeCodePrefix+challenge.Code).Err()
}

func (s *RedisChallengeStore) get(ctx context.Context, username string) (*domain.LoginChallenge, error) {
	data, err := s.client.Get(ctx, challengePrefix+username).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrChallengeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}

	var challenge domain.LoginChallenge
	if err := json.Unmarshal([]byte(data), &challenge); err != nil {
		return nil, fmt.Errorf("failed to unmarshal challenge: %w", err)
	}
	if challenge.Expired(s.now()) {
		return nil, domain.ErrChallengeNotFound
	}
	return &challenge, nil
}

// RedisIdentityStore implements domain.IdentityStore on Redis
type RedisIdentityStore struct {
	client *redis.Client
}

// NewRedisIdentityStore creates a Redis-backed identity store
func NewRedisIdentityStore(client *redis.Client) *RedisIdentityStore {
	return &RedisIdentityStore{client: client}
}

// Save implements domain.IdentityStore
func (s *RedisIdentityStore) Save(ctx context.Context, identity *domain.AuthenticatedIdentity) error {
	stored := *identity
	stored.Username = normalizeUsername(identity.Username)

	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("failed to marshal identity: %w", err)
	}
	return s.client.Set(ctx, identityPrefix+stored.Username, data, 0).Err()
}

// Find implements domain.IdentityStore
func (s *RedisIdentityStore) Find(ctx context.Context, username string) (*domain.AuthenticatedIdentity, error) {
	data, err := s.client.Get(ctx, identityPrefix+normalizeUsername(username)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrIdentityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}

	var identity domain.AuthenticatedIdentity
	if err := json.Unmarshal([]byte(data), &identity); err != nil {
		return nil, fmt.Errorf("failed to unmarshal identity: %w", err)
	}
	return &identity, nil
}

// Compile-time interface compliance verification
var _ domain.ChallengeStore = (*RedisChallengeStore)(nil)
var _ domain.IdentityStore = (*RedisIdentityStore)(nil)
