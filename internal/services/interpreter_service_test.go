package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/you/portalauth/domain"
	"github.com/you/portalauth/internal/infrastructure/repositories"
	"github.com/you/portalauth/internal/mocks"
)

func telegramMessage(chatID, userID int64, username, firstName, text string) *domain.Update {
	return &domain.Update{
		UpdateID: 1,
		Message: &domain.Message{
			Chat: domain.Chat{ID: chatID},
			From: &domain.TelegramUser{ID: userID, Username: username, FirstName: firstName},
			Text: text,
		},
	}
}

func lastSent(t *testing.T, messenger *mocks.MockMessengerService) mocks.SentMessage {
	t.Helper()
	sent := messenger.Sent()
	if len(sent) == 0 {
		t.Fatal("expected a reply to be sent")
	}
	return sent[len(sent)-1]
}

func TestInterpreterServiceImpl_StartIssuesCode(t *testing.T) {
	challenges := repositories.NewMemoryChallengeStore(5 * time.Minute)
	messenger := mocks.NewMockMessengerService()
	svc := NewInterpreterService(challenges, repositories.NewMemoryIdentityStore(),
		mocks.NewMockCodeService(), messenger, mocks.NewMockProvisionService(), 5*time.Minute)
	ctx := context.Background()

	if err := svc.HandleUpdate(ctx, telegramMessage(100, 1001, "Bob", "Bob", "/start")); err != nil {
		t.Fatalf("HandleUpdate failed: %v", err)
	}

	challenge, err := challenges.FindByUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("expected a pending challenge: %v", err)
	}
	if challenge.Code != "K7M2PQ" {
		t.Errorf("expected code K7M2PQ, got %q", challenge.Code)
	}
	if challenge.ChatID != 100 || challenge.TelegramID != 1001 {
		t.Errorf("challenge not bound to sender: %+v", challenge)
	}

	reply := lastSent(t, messenger)
	if reply.ChatID != 100 {
		t.Errorf("reply went to chat %d", reply.ChatID)
	}
	if !strings.Contains(reply.Text, "K7M2PQ") || !strings.Contains(reply.Text, "5 minutes") {
		t.Errorf("unexpected reply: %q", reply.Text)
	}
}

func TestInterpreterServiceImpl_StartWithoutUsername(t *testing.T) {
	challenges := repositories.NewMemoryChallengeStore(5 * time.Minute)
	messenger := mocks.NewMockMessengerService()
	svc := NewInterpreterService(challenges, repositories.NewMemoryIdentityStore(),
		mocks.NewMockCodeService(), messenger, mocks.NewMockProvisionService(), 5*time.Minute)
	ctx := context.Background()

	if err := svc.HandleUpdate(ctx, telegramMessage(100, 1001, "", "Bob", "/start")); err != nil {
		t.Fatalf("HandleUpdate failed: %v", err)
	}

	if !strings.Contains(lastSent(t, messenger).Text, "no username") {
		t.Errorf("expected instructional reply, got %q", lastSent(t, messenger).Text)
	}
	if _, err := challenges.FindByUsername(ctx, ""); !errors.Is(err, domain.ErrChallengeNotFound) {
		t.Error("no challenge must be stored for a sender without a username")
	}
}

func TestInterpreterServiceImpl_ConfirmProvisionsAccount(t *testing.T) {
	challenges := repositories.NewMemoryChallengeStore(5 * time.Minute)
	identities := repositories.NewMemoryIdentityStore()
	messenger := mocks.NewMockMessengerService()
	clients := newFakeClientRepo()
	provision := NewProvisionService(clients, mocks.NewMockCodeService())
	svc := NewInterpreterService(challenges, identities, mocks.NewMockCodeService(),
		messenger, provision, 5*time.Minute)
	ctx := context.Background()

	if err := svc.HandleUpdate(ctx, telegramMessage(100, 1001, "Bob", "Bob", "/start")); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if err := svc.HandleUpdate(ctx, telegramMessage(100, 1001, "Bob", "Bob", "/start login_bob")); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	challenge, err := challenges.FindByUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("challenge lookup failed: %v", err)
	}
	if !challenge.Verified {
		t.Error("expected challenge to be verified")
	}

	identity, err := identities.Find(ctx, "bob")
	if err != nil {
		t.Fatalf("expected identity record: %v", err)
	}
	if identity.TelegramID != 1001 {
		t.Errorf("expected telegram id 1001, got %d", identity.TelegramID)
	}

	client, err := clients.FindByTelegramUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("expected provisioned client: %v", err)
	}

	reply := lastSent(t, messenger)
	if !strings.Contains(reply.Text, client.AccessCode) {
		t.Errorf("expected reply to carry the access code, got %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "Your portal account is ready") {
		t.Errorf("expected first-time wording, got %q", reply.Text)
	}
}

func TestInterpreterServiceImpl_DuplicateConfirmDelivery(t *testing.T) {
	challenges := repositories.NewMemoryChallengeStore(5 * time.Minute)
	messenger := mocks.NewMockMessengerService()
	clients := newFakeClientRepo()
	provision := NewProvisionService(clients, mocks.NewMockCodeService())
	svc := NewInterpreterService(challenges, repositories.NewMemoryIdentityStore(),
		mocks.NewMockCodeService(), messenger, provision, 5*time.Minute)
	ctx := context.Background()

	if err := svc.HandleUpdate(ctx, telegramMessage(100, 1001, "Bob", "Bob", "/start")); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	// the same confirmation delivered twice must not duplicate the account
	// or surface an error to the user
	for i := 0; i < 2; i++ {
		if err := svc.HandleUpdate(ctx, telegramMessage(100, 1001, "Bob", "Bob", "/start login_bob")); err != nil {
			t.Fatalf("confirm delivery %d failed: %v", i+1, err)
		}
	}

	if got := len(clients.byUsername); got != 1 {
		t.Fatalf("expected one client, got %d", got)
	}
	if !strings.Contains(lastSent(t, messenger).Text, "already exists") {
		t.Errorf("expected returning-account wording, got %q", lastSent(t, messenger).Text)
	}
}

func TestInterpreterServiceImpl_ConfirmMismatchedOwner(t *testing.T) {
	challenges := repositories.NewMemoryChallengeStore(5 * time.Minute)
	messenger := mocks.NewMockMessengerService()
	provisioned := false
	provision := mocks.NewMockProvisionService()
	provision.ProvisionFunc = func(ctx context.Context, username, firstName string, telegramID int64) (*domain.ProvisionResult, error) {
		provisioned = true
		return nil, errors.New("must not be reached")
	}
	svc := NewInterpreterService(challenges, repositories.NewMemoryIdentityStore(),
		mocks.NewMockCodeService(), messenger, provision, 5*time.Minute)
	ctx := context.Background()

	if err := svc.HandleUpdate(ctx, telegramMessage(200, 2002, "Mallory", "Mallory", "/start login_bob")); err != nil {
		t.Fatalf("HandleUpdate failed: %v", err)
	}

	if provisioned {
		t.Error("mismatched confirmation must not provision anything")
	}
	reply := lastSent(t, messenger)
	if !strings.Contains(reply.Text, "@bob") || !strings.Contains(reply.Text, "@mallory") {
		t.Errorf("expected explanatory reply naming both handles, got %q", reply.Text)
	}
}

func TestInterpreterServiceImpl_ConfirmExpiredChallenge(t *testing.T) {
	challenges := mocks.NewMockChallengeStore()
	challenges.MarkVerifiedFunc = func(ctx context.Context, username string) error {
		return domain.ErrChallengeNotFound
	}
	messenger := mocks.NewMockMessengerService()
	provisioned := false
	provision := mocks.NewMockProvisionService()
	provision.ProvisionFunc = func(ctx context.Context, username, firstName string, telegramID int64) (*domain.ProvisionResult, error) {
		provisioned = true
		return nil, errors.New("must not be reached")
	}
	identities := mocks.NewMockIdentityStore()
	saved := false
	identities.SaveFunc = func(ctx context.Context, identity *domain.AuthenticatedIdentity) error {
		saved = true
		return nil
	}
	svc := NewInterpreterService(challenges, identities,
		mocks.NewMockCodeService(), messenger, provision, 5*time.Minute)

	if err := svc.HandleUpdate(context.Background(), telegramMessage(100, 1001, "Bob", "Bob", "/start login_bob")); err != nil {
		t.Fatalf("HandleUpdate failed: %v", err)
	}

	if provisioned || saved {
		t.Error("an expired confirmation must leave no trace")
	}
	if !strings.Contains(lastSent(t, messenger).Text, "No active login request") {
		t.Errorf("unexpected reply: %q", lastSent(t, messenger).Text)
	}
}

func TestInterpreterServiceImpl_StatusReplies(t *testing.T) {
	identities := repositories.NewMemoryIdentityStore()
	messenger := mocks.NewMockMessengerService()
	svc := NewInterpreterService(repositories.NewMemoryChallengeStore(5*time.Minute), identities,
		mocks.NewMockCodeService(), messenger, mocks.NewMockProvisionService(), 5*time.Minute)
	ctx := context.Background()

	if err := svc.HandleUpdate(ctx, telegramMessage(100, 1001, "Bob", "Bob", "/status")); err != nil {
		t.Fatalf("HandleUpdate failed: %v", err)
	}
	if !strings.Contains(lastSent(t, messenger).Text, "not verified") {
		t.Errorf("expected unverified reply, got %q", lastSent(t, messenger).Text)
	}

	authDate := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := identities.Save(ctx, &domain.AuthenticatedIdentity{Username: "bob", TelegramID: 1001, AuthDate: authDate}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := svc.HandleUpdate(ctx, telegramMessage(100, 1001, "Bob", "Bob", "/status")); err != nil {
		t.Fatalf("HandleUpdate failed: %v", err)
	}
	if !strings.Contains(lastSent(t, messenger).Text, "verified as @bob") {
		t.Errorf("expected verified reply, got %q", lastSent(t, messenger).Text)
	}
}

func TestInterpreterServiceImpl_IgnoresNoise(t *testing.T) {
	messenger := mocks.NewMockMessengerService()
	svc := NewInterpreterService(repositories.NewMemoryChallengeStore(5*time.Minute),
		repositories.NewMemoryIdentityStore(), mocks.NewMockCodeService(),
		messenger, mocks.NewMockProvisionService(), 5*time.Minute)
	ctx := context.Background()

	updates := []*domain.Update{
		nil,
		{UpdateID: 1},
		telegramMessage(100, 1001, "Bob", "Bob", "hello there"),
		telegramMessage(100, 1001, "Bob", "Bob", ""),
		{UpdateID: 2, Message: &domain.Message{Chat: domain.Chat{ID: 100}, Text: "/start"}},
	}
	for _, update := range updates {
		if err := svc.HandleUpdate(ctx, update); err != nil {
			t.Fatalf("noise must be ignored, got %v", err)
		}
	}
	if got := len(messenger.Sent()); got != 0 {
		t.Errorf("expected silence, got %d replies", got)
	}
}

func TestInterpreterServiceImpl_HelpReply(t *testing.T) {
	messenger := mocks.NewMockMessengerService()
	svc := NewInterpreterService(repositories.NewMemoryChallengeStore(5*time.Minute),
		repositories.NewMemoryIdentityStore(), mocks.NewMockCodeService(),
		messenger, mocks.NewMockProvisionService(), 5*time.Minute)

	if err := svc.HandleUpdate(context.Background(), telegramMessage(100, 1001, "Bob", "Bob", "/help")); err != nil {
		t.Fatalf("HandleUpdate failed: %v", err)
	}
	if !strings.Contains(lastSent(t, messenger).Text, "/status") {
		t.Errorf("expected command list, got %q", lastSent(t, messenger).Text)
	}
}

func TestInterpreterServiceImpl_ReplyFailureNonFatal(t *testing.T) {
	challenges := repositories.NewMemoryChallengeStore(5 * time.Minute)
	messenger := mocks.NewMockMessengerService()
	messenger.SendMessageFunc = func(chatID int64, text string) error {
		return errors.New("telegram unreachable")
	}
	svc := NewInterpreterService(challenges, repositories.NewMemoryIdentityStore(),
		mocks.NewMockCodeService(), messenger, mocks.NewMockProvisionService(), 5*time.Minute)
	ctx := context.Background()

	if err := svc.HandleUpdate(ctx, telegramMessage(100, 1001, "Bob", "Bob", "/start")); err != nil {
		t.Fatalf("delivery failure must not fail the pipeline: %v", err)
	}
	// the challenge still exists, so the user can retry the confirmation
	if _, err := challenges.FindByUsername(ctx, "bob"); err != nil {
		t.Errorf("expected challenge despite failed reply: %v", err)
	}
}
