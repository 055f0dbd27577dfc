package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/you/portalauth/domain"
)

const defaultBaseURL = "https://api.telegram.org"

// TelegramServiceImpl implements domain.MessengerService against the
// Telegram Bot API. Only two methods are needed: sendMessage for replies
// and getUpdates for pull-mode ingestion
type TelegramServiceImpl struct {
	client  *http.Client
	token   string
	baseURL string
}

// NewTelegramService creates a new Telegram messenger service
func NewTelegramService(token string) domain.MessengerService {
	return &TelegramServiceImpl{
		client:  &http.Client{Timeout: 30 * time.Second},
		token:   token,
		baseURL: defaultBaseURL,
	}
}

// NewTelegramServiceWithClient creates a messenger service against a custom
// endpoint, used by tests
func NewTelegramServiceWithClient(token, baseURL string, client *http.Client) domain.MessengerService {
	return &TelegramServiceImpl{client: client, token: token, baseURL: baseURL}
}

// Configured reports whether a bot token is present
func (t *TelegramServiceImpl) Configured() bool {
	return t.token != ""
}

type sendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

// SendMessage implements domain.MessengerService. If no token is
// configured, the message is logged instead of sent
func (t *TelegramServiceImpl) SendMessage(chatID int64, text string) error {
	if !t.Configured() {
		log.Printf("[MOCK TELEGRAM] chat_id=%d text=%q", chatID, text)
		return nil
	}

	body, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text, ParseMode: "Markdown"})
	if err != nil {
		return fmt.Errorf("failed to marshal sendMessage request: %w", err)
	}

	resp, err := t.client.Post(t.methodURL("sendMessage"), "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to call sendMessage: %w", err)
	}
	defer resp.Body.Close()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("failed to decode sendMessage response: %w", err)
	}
	if !apiResp.OK {
		return fmt.Errorf("sendMessage rejected: %s", apiResp.Description)
	}
	return nil
}

type getUpdatesRequest struct {
	Offset  int64 `json:"offset"`
	Timeout int   `json:"timeout"`
}

// GetUpdates implements domain.MessengerService. afterID is the last
// processed update id; the API returns everything after it
func (t *TelegramServiceImpl) GetUpdates(ctx context.Context, afterID int64) ([]domain.Update, error) {
	if !t.Configured() {
		return nil, domain.ErrMessengerNotConfigured
	}

	body, err := json.Marshal(getUpdatesRequest{Offset: afterID + 1})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal getUpdates request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.methodURL("getUpdates"), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build getUpdates request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call getUpdates: %w", err)
	}
	defer resp.Body.Close()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode getUpdates response: %w", err)
	}
	if !apiResp.OK {
		return nil, fmt.Errorf("getUpdates rejected: %s", apiResp.Description)
	}

	var updates []domain.Update
	if err := json.Unmarshal(apiResp.Result, &updates); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updates: %w", err)
	}
	return updates, nil
}

func (t *TelegramServiceImpl) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", t.baseURL, t.token, method)
}
