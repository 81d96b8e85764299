// ABOUTME: Refresh controller for the console's two conversation queues
// ABOUTME: Applies fetched lists, deferring replacement when the selected chat vanished

package refresh

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/2389/console-state/internal/chat"
)

// DefaultReplaceDelay is the grace window a selected conversation gets
// before a fetched list that no longer contains it replaces the display.
const DefaultReplaceDelay = 3 * time.Second

// ChatLister is what the controller needs from the listing service client.
type ChatLister interface {
	ActiveChats(ctx context.Context) ([]chat.Chat, error)
	PendingChats(ctx context.Context) ([]chat.Chat, error)
}

// StateStore is what the controller needs from the state store.
type StateStore interface {
	SelectedChatID() string
	ActiveChats() []chat.Chat
	PendingChats() []chat.Chat
	SetActiveChats([]chat.Chat)
	SetPendingChats([]chat.Chat)
}

type queue int

const (
	queueActive queue = iota
	queuePending
)

func (q queue) String() string {
	if q == queueActive {
		return "active"
	}
	return "pending"
}

// Controller fetches the conversation queues and decides when a fetched
// list may replace the displayed one. When the currently selected
// conversation is missing from a fresh fetch and the displayed list is
// non-empty, the replacement is deferred by a fixed delay so a momentarily
// stale list does not make the selection vanish mid-conversation.
//
// Only the commit policy lives here; fetch errors propagate untouched and
// leave state unchanged. A completed fetch cancels the same queue's
// still-pending deferred commit, so a newer result is never overwritten by
// an older delayed one.
type Controller struct {
	store  StateStore
	lister ChatLister
	delay  time.Duration
	logger *slog.Logger

	mu       sync.Mutex
	deferred map[queue]*time.Timer
}

// NewController creates a refresh controller. delay <= 0 selects
// DefaultReplaceDelay.
func NewController(store StateStore, lister ChatLister, delay time.Duration, logger *slog.Logger) *Controller {
	if delay <= 0 {
		delay = DefaultReplaceDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		store:    store,
		lister:   lister,
		delay:    delay,
		logger:   logger.With("component", "refresh"),
		deferred: make(map[queue]*time.Timer),
	}
}

// LoadActiveChats fetches the active queue and commits it per the
// deferred-replacement policy.
func (c *Controller) LoadActiveChats(ctx context.Context) error {
	chats, err := c.lister.ActiveChats(ctx)
	if err != nil {
		return err
	}
	c.commit(queueActive, chats)
	return nil
}

// LoadPendingChats fetches the pending queue and commits it per the
// deferred-replacement policy.
func (c *Controller) LoadPendingChats(ctx context.Context) error {
	chats, err := c.lister.PendingChats(ctx)
	if err != nil {
		return err
	}
	c.commit(queuePending, chats)
	return nil
}

// Close cancels any still-pending deferred commits.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for q, timer := range c.deferred {
		timer.Stop()
		delete(c.deferred, q)
	}
}

// commit applies a fetched list now, or after the grace delay when the
// selected conversation disappeared from a non-empty displayed queue.
func (c *Controller) commit(q queue, chats []chat.Chat) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// This fetch supersedes any commit still waiting for the same queue.
	if timer, ok := c.deferred[q]; ok {
		timer.Stop()
		delete(c.deferred, q)
	}

	if c.selectionVanished(q, chats) {
		c.logger.Debug("selected chat missing from fetch, deferring replacement",
			"queue", q.String(),
			"chat_id", c.store.SelectedChatID(),
			"delay", c.delay)

		var timer *time.Timer
		timer = time.AfterFunc(c.delay, func() {
			c.mu.Lock()
			// A later fetch may have superseded this commit while it waited.
			if c.deferred[q] != timer {
				c.mu.Unlock()
				return
			}
			delete(c.deferred, q)
			c.mu.Unlock()
			c.apply(q, chats)
		})
		c.deferred[q] = timer
		return
	}

	c.apply(q, chats)
}

// selectionVanished reports whether committing chats right now would make
// the current selection reference nothing: something is selected, the
// displayed queue is non-empty, and the fetch no longer contains it.
func (c *Controller) selectionVanished(q queue, chats []chat.Chat) bool {
	selected := c.store.SelectedChatID()
	if selected == "" {
		return false
	}
	for _, ch := range chats {
		if ch.ID == selected {
			return false
		}
	}
	if q == queueActive {
		return len(c.store.ActiveChats()) > 0
	}
	return len(c.store.PendingChats()) > 0
}

func (c *Controller) apply(q queue, chats []chat.Chat) {
	if q == queueActive {
		c.store.SetActiveChats(chats)
	} else {
		c.store.SetPendingChats(chats)
	}
}
