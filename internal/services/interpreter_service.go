package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/you/portalauth/domain"
)

const loginPayloadPrefix = "/start login_"

const helpReply = "Available commands:\n" +
	"/start — request a portal login code\n" +
	"/status — check whether this account is verified\n" +
	"/help — show this message"

// InterpreterServiceImpl implements domain.UpdateHandler. It is the single
// command interpreter both ingestion modes funnel into: it parses inbound
// text, drives challenge verification and triggers provisioning. Replies
// are best-effort and never fail the pipeline
type InterpreterServiceImpl struct {
	challenges   domain.ChallengeStore
	identities   domain.IdentityStore
	codeSvc      domain.CodeService
	messenger    domain.MessengerService
	provisionSvc domain.ProvisionService
	challengeTTL time.Duration
	now          func() time.Time
}

// NewInterpreterService creates a new command interpreter
func NewInterpreterService(
	challenges domain.ChallengeStore,
	identities domain.IdentityStore,
	codeSvc domain.CodeService,
	messenger domain.MessengerService,
	provisionSvc domain.ProvisionService,
	challengeTTL time.Duration,
) domain.UpdateHandler {
	return &InterpreterServiceImpl{
		challenges:   challenges,
		identities:   identities,
		codeSvc:      codeSvc,
		messenger:    messenger,
		provisionSvc: provisionSvc,
		challengeTTL: challengeTTL,
		now:          time.Now,
	}
}

// HandleUpdate implements domain.UpdateHandler. Unrecognized text is
// silently ignored
func (s *InterpreterServiceImpl) HandleUpdate(ctx context.Context, update *domain.Update) error {
	if update == nil || update.Message == nil || update.Message.From == nil {
		return nil
	}
	msg := update.Message
	text := strings.TrimSpace(msg.Text)

	switch {
	case strings.HasPrefix(text, loginPayloadPrefix):
		return s.confirm(ctx, msg, strings.TrimPrefix(text, loginPayloadPrefix))
	case text == "/start", text == "/login":
		return s.requestCode(ctx, msg)
	case text == "/status":
		return s.status(ctx, msg)
	case text == "/help":
		s.reply(msg.Chat.ID, helpReply)
		return nil
	default:
		return nil
	}
}

// requestCode issues a fresh login challenge for the sender. A new request
// supersedes any previous unverified challenge for the same username
func (s *InterpreterServiceImpl) requestCode(ctx context.Context, msg *domain.Message) error {
	sender := msg.From
	if sender.Username == "" {
		s.reply(msg.Chat.ID, "Your Telegram account has no username. Set one in Telegram settings, then send /start again.")
		return nil
	}

	code, err := s.codeSvc.GenerateLoginCode()
	if err != nil {
		return fmt.Errorf("failed to generate login code: %w", err)
	}

	challenge := &domain.LoginChallenge{
		Username:   sender.Username,
		Code:       code,
		ChatID:     msg.Chat.ID,
		TelegramID: sender.ID,
		FirstName:  sender.FirstName,
	}
	if err := s.challenges.Save(ctx, challenge); err != nil {
		return fmt.Errorf("failed to save login challenge: %w", err)
	}

	minutes := int(s.challengeTTL.Minutes())
	s.reply(msg.Chat.ID, fmt.Sprintf("Your login code is *%s*. It is valid for %d minutes.", code, minutes))
	return nil
}

// confirm proves ownership of the requested username. Only the real owner
// of the messaging identity can complete it, and only while an unexpired
// challenge is pending
func (s *InterpreterServiceImpl) confirm(ctx context.Context, msg *domain.Message, requested string) error {
	sender := msg.From
	if sender.Username == "" {
		s.reply(msg.Chat.ID, "Your Telegram account has no username, so it cannot be linked to a portal account.")
		return nil
	}

	requestedNorm := normalizeHandle(requested)
	senderNorm := normalizeHandle(sender.Username)
	if requestedNorm != senderNorm {
		s.reply(msg.Chat.ID, fmt.Sprintf(
			"This login request is for @%s, but you are @%s. Only the owner of @%s can confirm it.",
			requestedNorm, senderNorm, requestedNorm))
		return nil
	}

	if err := s.challenges.MarkVerified(ctx, senderNorm); err != nil {
		if errors.Is(err, domain.ErrChallengeNotFound) {
			s.reply(msg.Chat.ID, "No active login request found for your account. It may have expired — send /start to begin again.")
			return nil
		}
		return fmt.Errorf("failed to mark challenge verified: %w", err)
	}

	identity := &domain.AuthenticatedIdentity{
		Username:   senderNorm,
		TelegramID: sender.ID,
		FirstName:  sender.FirstName,
		AuthDate:   s.now(),
	}
	if err := s.identities.Save(ctx, identity); err != nil {
		return fmt.Errorf("failed to save authenticated identity: %w", err)
	}

	result, err := s.provisionSvc.Provision(ctx, senderNorm, sender.FirstName, sender.ID)
	if err != nil {
		s.reply(msg.Chat.ID, "Something went wrong while setting up your portal account. Please try again later.")
		return fmt.Errorf("failed to provision client: %w", err)
	}

	log.Printf("IDENTITY_CONFIRMED: username=%s telegram_id=%d client_id=%d new=%t timestamp=%s",
		senderNorm, sender.ID, result.Client.ID, result.IsNew, s.now().UTC().Format(time.RFC3339))

	if result.IsNew {
		s.reply(msg.Chat.ID, fmt.Sprintf(
			"You are verified! Your portal account is ready.\nYour access code is *%s* — keep it safe, it is your permanent portal login.",
			result.AccessCode))
	} else {
		s.reply(msg.Chat.ID, fmt.Sprintf(
			"Welcome back! Your portal account already exists.\nYour access code is *%s*.",
			result.AccessCode))
	}
	return nil
}

// status is a read-only lookup against the identity store
func (s *InterpreterServiceImpl) status(ctx context.Context, msg *domain.Message) error {
	sender := msg.From
	if sender.Username == "" {
		s.reply(msg.Chat.ID, "Your Telegram account has no username and is not verified.")
		return nil
	}

	identity, err := s.identities.Find(ctx, sender.Username)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			s.reply(msg.Chat.ID, "You are not verified yet. Send /start to request a login code.")
			return nil
		}
		return fmt.Errorf("failed to look up identity: %w", err)
	}

	s.reply(msg.Chat.ID, fmt.Sprintf("You are verified as @%s since %s.",
		identity.Username, identity.AuthDate.UTC().Format("2 Jan 2006 15:04 MST")))
	return nil
}

// reply delivers a message best-effort. Delivery failure is logged and
// swallowed: an undeliverable reply must never stop event processing
func (s *InterpreterServiceImpl) reply(chatID int64, text string) {
	if err := s.messenger.SendMessage(chatID, text); err != nil {
		log.Printf("telegram reply to chat %d failed: %v", chatID, err)
	}
}

// normalizeHandle lowercases a telegram handle and strips the @ prefix
func normalizeHandle(handle string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(handle), "@"))
}
