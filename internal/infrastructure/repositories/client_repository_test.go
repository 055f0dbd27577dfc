package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/you/portalauth/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&DBPortalClient{}, &DBPortalSession{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestClientRepositoryImpl_CreateAndFind(t *testing.T) {
	repo := NewClientRepository(newTestDB(t))
	ctx := context.Background()

	client := &domain.PortalClient{
		Name:             "Bob",
		AccessCode:       "ABCD-1234",
		TelegramUsername: "Bob",
		Status:           domain.ClientActive,
	}
	if err := repo.Create(ctx, client); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if client.ID == 0 {
		t.Fatal("Create should backfill the id")
	}

	byCode, err := repo.FindByAccessCode(ctx, "ABCD-1234")
	if err != nil {
		t.Fatalf("FindByAccessCode failed: %v", err)
	}
	if byCode.Name != "Bob" {
		t.Errorf("unexpected client %+v", byCode)
	}

	// usernames are stored lowercased, so mixed-case lookups hit
	byUsername, err := repo.FindByTelegramUsername(ctx, "BOB")
	if err != nil {
		t.Fatalf("FindByTelegramUsername failed: %v", err)
	}
	if byUsername.ID != client.ID {
		t.Errorf("expected client %d, got %d", client.ID, byUsername.ID)
	}
	if byUsername.TelegramUsername != "bob" {
		t.Errorf("expected stored username bob, got %q", byUsername.TelegramUsername)
	}
}

func TestClientRepositoryImpl_DuplicateTelegramUsername(t *testing.T) {
	repo := NewClientRepository(newTestDB(t))
	ctx := context.Background()

	first := &domain.PortalClient{Name: "Bob", AccessCode: "AAAA-1111", TelegramUsername: "bob", Status: domain.ClientActive}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	second := &domain.PortalClient{Name: "Impostor", AccessCode: "BBBB-2222", TelegramUsername: "bob", Status: domain.ClientActive}
	if err := repo.Create(ctx, second); !errors.Is(err, domain.ErrClientExists) {
		t.Errorf("expected ErrClientExists on duplicate username, got %v", err)
	}
}

func TestClientRepositoryImpl_DuplicateAccessCode(t *testing.T) {
	repo := NewClientRepository(newTestDB(t))
	ctx := context.Background()

	first := &domain.PortalClient{Name: "Bob", AccessCode: "AAAA-1111", TelegramUsername: "bob", Status: domain.ClientActive}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	second := &domain.PortalClient{Name: "Alice", AccessCode: "AAAA-1111", TelegramUsername: "alice", Status: domain.ClientActive}
	if err := repo.Create(ctx, second); !errors.Is(err, domain.ErrClientExists) {
		t.Errorf("expected ErrClientExists on duplicate access code, got %v", err)
	}
}

func TestClientRepositoryImpl_NullUsernamesDoNotConflict(t *testing.T) {
	repo := NewClientRepository(newTestDB(t))
	ctx := context.Background()

	// access-code-only clients have no telegram username; several of them
	// must be able to coexist under the nullable unique index
	first := &domain.PortalClient{Name: "Manual A", AccessCode: "AAAA-1111", Status: domain.ClientActive}
	second := &domain.PortalClient{Name: "Manual B", AccessCode: "BBBB-2222", Status: domain.ClientActive}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create of second unlinked client failed: %v", err)
	}
}

func TestClientRepositoryImpl_UpdateLastLogin(t *testing.T) {
	repo := NewClientRepository(newTestDB(t))
	ctx := context.Background()

	client := &domain.PortalClient{Name: "Bob", AccessCode: "AAAA-1111", TelegramUsername: "bob", Status: domain.ClientActive}
	if err := repo.Create(ctx, client); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := repo.UpdateLastLogin(ctx, client.ID, at); err != nil {
		t.Fatalf("UpdateLastLogin failed: %v", err)
	}

	found, err := repo.FindByID(ctx, client.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.LastLogin == nil || !found.LastLogin.Equal(at) {
		t.Errorf("expected last login %v, got %v", at, found.LastLogin)
	}
}

func TestClientRepositoryImpl_NotFound(t *testing.T) {
	repo := NewClientRepository(newTestDB(t))
	ctx := context.Background()

	if _, err := repo.FindByID(ctx, 999); !errors.Is(err, domain.ErrClientNotFound) {
		t.Errorf("FindByID: expected ErrClientNotFound, got %v", err)
	}
	if _, err := repo.FindByAccessCode(ctx, "ZZZZ-9999"); !errors.Is(err, domain.ErrClientNotFound) {
		t.Errorf("FindByAccessCode: expected ErrClientNotFound, got %v", err)
	}
	if _, err := repo.FindByTelegramUsername(ctx, "nobody"); !errors.Is(err, domain.ErrClientNotFound) {
		t.Errorf("FindByTelegramUsername: expected ErrClientNotFound, got %v", err)
	}
}
