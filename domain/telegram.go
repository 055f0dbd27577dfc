package domain

// Telegram Bot API wire shapes, trimmed to the fields this service reads.
// The same shapes arrive via getUpdates polling and via the webhook.

// Update is one inbound event from the bot API
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is an inbound chat message
type Message struct {
	Chat Chat          `json:"chat"`
	From *TelegramUser `json:"from"`
	Text string        `json:"text"`
}

// Chat identifies the conversation a message belongs to
type Chat struct {
	ID int64 `json:"id"`
}

// TelegramUser is the identity snapshot attached to a message
type TelegramUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}
