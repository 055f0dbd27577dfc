package bot

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/you/portalauth/domain"
)

// Poller drives pull-mode ingestion: on every tick it fetches the updates
// after the last processed id and feeds them, in order, to the handler.
// The offset lives in memory only, so a restart reprocesses from wherever
// the bot API resumes: delivery is at-least-once and every command must
// tolerate duplicates
type Poller struct {
	messenger domain.MessengerService
	handler   domain.UpdateHandler
	interval  time.Duration

	mu           sync.Mutex
	lastUpdateID int64
}

// NewPoller creates a new pull-mode ingestion loop
func NewPoller(messenger domain.MessengerService, handler domain.UpdateHandler, interval time.Duration) *Poller {
	return &Poller{messenger: messenger, handler: handler, interval: interval}
}

// Run polls until the context is cancelled
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll fetches and processes one batch. A tick that fires while a previous
// poll is still running is skipped, never queued: two concurrent polls
// against the same offset would double-process the batch
func (p *Poller) Poll(ctx context.Context) {
	if !p.mu.TryLock() {
		return
	}
	defer p.mu.Unlock()

	updates, err := p.messenger.GetUpdates(ctx, p.lastUpdateID)
	if err != nil {
		log.Printf("poll: getUpdates failed: %v", err)
		return
	}

	for i := range updates {
		update := &updates[i]
		if err := p.handler.HandleUpdate(ctx, update); err != nil {
			log.Printf("poll: update %d failed: %v", update.UpdateID, err)
		}
		// advance only after the event was handled
		if update.UpdateID > p.lastUpdateID {
			p.lastUpdateID = update.UpdateID
		}
	}
}

// LastUpdateID returns the current offset checkpoint
func (p *Poller) LastUpdateID() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastUpdateID
}
