package app

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/portalauth/domain"
	"github.com/you/portalauth/internal/bot"
	"github.com/you/portalauth/internal/config"
	httpx "github.com/you/portalauth/internal/http"
	"github.com/you/portalauth/internal/http/handlers"
	"github.com/you/portalauth/internal/http/middleware"
	"github.com/you/portalauth/internal/infrastructure/database"
	"github.com/you/portalauth/internal/infrastructure/notifications"
	"github.com/you/portalauth/internal/infrastructure/repositories"
	"github.com/you/portalauth/internal/services"
)

func Run(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	gdb, err := database.Open(cfg.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(gdb); err != nil {
		return err
	}

	// The challenge and identity stores are process-wide maps by default.
	// With a Redis address configured they move to the shared cache so a
	// multi-instance deployment sees one set of pending challenges.
	var challengeStore domain.ChallengeStore
	var identityStore domain.IdentityStore
	if cfg.RedisAddr != "" {
		rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rdb.Ping(context.Background()); err != nil {
			return err
		}
		challengeStore = repositories.NewRedisChallengeStore(rdb.Client, cfg.ChallengeTTL)
		identityStore = repositories.NewRedisIdentityStore(rdb.Client)
	} else {
		challengeStore = repositories.NewMemoryChallengeStore(cfg.ChallengeTTL)
		identityStore = repositories.NewMemoryIdentityStore()
	}

	// Initialize infrastructure services
	messenger := notifications.NewTelegramService(cfg.BotToken)
	codeSvc := services.NewCodeService(cfg.LoginCodeLength)

	// Initialize repositories
	clientRepo := repositories.NewClientRepository(gdb)
	sessionRepo := repositories.NewSessionRepository(gdb)

	// Initialize services
	provisionSvc := services.NewProvisionService(clientRepo, codeSvc)
	sessionSvc := services.NewSessionService(clientRepo, sessionRepo, cfg.SessionTTL)
	interpreter := services.NewInterpreterService(challengeStore, identityStore, codeSvc, messenger, provisionSvc, cfg.ChallengeTTL)

	// Initialize handlers and middleware
	portalH := handlers.NewPortalHandlers(sessionSvc, challengeStore, provisionSvc, cfg.SessionCookie, cfg.SessionTTL)
	webhookH := handlers.NewWebhookHandlers(interpreter, messenger)
	gate := middleware.NewAccessGate(cfg.SessionCookie, cfg.PortalEntryPath)

	webhookMode := cfg.TelegramMode == config.ModeWebhook
	r := httpx.BuildRouter(portalH, webhookH, gate, webhookMode)

	if cfg.TelegramMode == config.ModePoll {
		if !messenger.Configured() {
			// fatal for ingestion only; portal logins keep working
			log.Printf("poll mode: %v, pull ingestion disabled", domain.ErrMessengerNotConfigured)
		} else {
			poller := bot.NewPoller(messenger, interpreter, cfg.PollInterval)
			go poller.Run(context.Background())
			log.Printf("telegram poller started, interval %s", cfg.PollInterval)
		}
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (%s mode)", addr, cfg.TelegramMode)
	return http.ListenAndServe(addr, r)
}
