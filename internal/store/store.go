// ABOUTME: In-memory state container for the support console
// ABOUTME: Holds identity, queue lists, selection, mode flags; derives views on read

package store

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/2389/console-state/internal/chat"
	"github.com/2389/console-state/internal/grouping"
	"github.com/2389/console-state/internal/identity"
)

// Presence is the operator's own availability state.
type Presence string

// Presence values.
const (
	PresenceIdle    Presence = "idle"
	PresenceOffline Presence = "offline"
	PresenceOnline  Presence = "online"
)

// Settings is the operator's preference bag. It has no bearing on
// classification; the console only stores and returns it.
type Settings struct {
	ForwardedChatPopupNotifications bool `json:"forwardedChatPopupNotifications"`
	ForwardedChatSoundNotifications bool `json:"forwardedChatSoundNotifications"`
	ForwardedChatEmailNotifications bool `json:"forwardedChatEmailNotifications"`
	NewChatPopupNotifications       bool `json:"newChatPopupNotifications"`
	NewChatSoundNotifications       bool `json:"newChatSoundNotifications"`
	NewChatEmailNotifications       bool `json:"newChatEmailNotifications"`
	UseAutocorrect                  bool `json:"useAutocorrect"`
}

// DefaultSettings returns the preference defaults for a fresh session.
func DefaultSettings() Settings {
	return Settings{
		ForwardedChatPopupNotifications: true,
		ForwardedChatSoundNotifications: true,
		NewChatSoundNotifications:       true,
		UseAutocorrect:                  true,
	}
}

// Refresher triggers queue refreshes. The store calls it when toggling
// team mode, which must immediately reload both queues.
type Refresher interface {
	LoadActiveChats(ctx context.Context) error
	LoadPendingChats(ctx context.Context) error
}

// Store is the process-wide holder of console state. All mutation goes
// through its methods; derived views are recomputed from current state on
// every read and never cached.
//
// Mutators never fail (SetTeamMode reports errors only from the refreshes
// it triggers, the flag itself always lands).
type Store struct {
	mu sync.RWMutex

	operator   identity.Identity
	operatorID string

	activeChats  []chat.Chat
	pendingChats []chat.Chat

	// selectedChatID references an entry of whichever queue is displayed;
	// empty means no selection.
	selectedChatID string

	teamMode bool
	presence Presence
	settings Settings

	grouper   *grouping.Grouper
	refresher Refresher
	logger    *slog.Logger
}

// New creates an empty store deriving its views through grouper.
func New(grouper *grouping.Grouper, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		activeChats:  []chat.Chat{},
		pendingChats: []chat.Chat{},
		presence:     PresenceOnline,
		settings:     DefaultSettings(),
		grouper:      grouper,
		logger:       logger.With("component", "store"),
	}
}

// SetRefresher wires the refresh controller in at composition time. Must be
// called before the first SetTeamMode; not safe to swap mid-session.
func (s *Store) SetRefresher(r Refresher) {
	s.refresher = r
}

// SetOperator records the operator identity and derives the display
// operator id from its idCode.
func (s *Store) SetOperator(op identity.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.operator = op
	s.operatorID = op.IDCode
}

// SetActiveChats replaces the active queue wholesale.
func (s *Store) SetActiveChats(chats []chat.Chat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeChats = chats
}

// SetPendingChats replaces the pending queue wholesale.
func (s *Store) SetPendingChats(chats []chat.Chat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingChats = chats
}

// SetSelectedChatID sets the current selection; empty clears it.
func (s *Store) SetSelectedChatID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedChatID = id
}

// SetPresence sets the operator's availability state.
func (s *Store) SetPresence(p Presence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presence = p
}

// SetSettings replaces the preference bag.
func (s *Store) SetSettings(settings Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

// SetTeamMode toggles the shared-queue display mode and immediately
// refreshes both queues through the wired Refresher. The flag is applied
// unconditionally; the returned error only reports refresh failures, which
// the caller handles the way it handles any fetch failure.
func (s *Store) SetTeamMode(ctx context.Context, active bool) error {
	s.mu.Lock()
	s.teamMode = active
	r := s.refresher
	s.mu.Unlock()

	if r == nil {
		return nil
	}
	return errors.Join(r.LoadActiveChats(ctx), r.LoadPendingChats(ctx))
}

// Operator returns the current operator identity.
func (s *Store) Operator() identity.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.operator
}

// OperatorID returns the display operator id derived from the identity.
func (s *Store) OperatorID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.operatorID
}

// ActiveChats returns a copy of the active queue.
func (s *Store) ActiveChats() []chat.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.activeChats)
}

// PendingChats returns a copy of the pending queue.
func (s *Store) PendingChats() []chat.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.pendingChats)
}

// SelectedChatID returns the current selection, empty if none.
func (s *Store) SelectedChatID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedChatID
}

// TeamMode reports whether the operator is viewing the shared queue.
func (s *Store) TeamMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.teamMode
}

// Presence returns the operator's availability state.
func (s *Store) Presence() Presence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.presence
}

// Settings returns the current preference bag.
func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SelectedActiveChat returns the selected conversation from the active
// queue, if the selection references one.
func (s *Store) SelectedActiveChat() (chat.Chat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findByID(s.activeChats, s.selectedChatID)
}

// SelectedPendingChat returns the selected conversation from the pending
// queue, if the selection references one.
func (s *Store) SelectedPendingChat() (chat.Chat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findByID(s.pendingChats, s.selectedChatID)
}

// UnansweredChats returns the active conversations nobody owns yet.
func (s *Store) UnansweredChats() []chat.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []chat.Chat{}
	for _, c := range s.activeChats {
		if c.CustomerSupportID == "" {
			out = append(out, c)
		}
	}
	return out
}

// ForwardedChats returns the active conversations redirected to the
// current operator.
func (s *Store) ForwardedChats() []chat.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []chat.Chat{}
	for _, c := range s.activeChats {
		if c.Status == chat.StatusRedirected && c.CustomerSupportID == s.operatorID {
			out = append(out, c)
		}
	}
	return out
}

// UnansweredChatsLength returns the unanswered-queue size.
func (s *Store) UnansweredChatsLength() int {
	return len(s.UnansweredChats())
}

// ForwardedChatsLength returns the forwarded-queue size.
func (s *Store) ForwardedChatsLength() int {
	return len(s.ForwardedChats())
}

// PendingChatsLength returns the pending-queue size.
func (s *Store) PendingChatsLength() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pendingChats)
}

// MessagesMap maps conversation id to customer message count for every
// active conversation that reports both.
func (s *Store) MessagesMap() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m := make(map[string]int)
	for _, c := range s.activeChats {
		if c.ID != "" && c.CustomerMessages != nil {
			m[c.ID] = *c.CustomerMessages
		}
	}
	return m
}

// GroupedActiveChats returns the operator-scoped view of the active queue.
//
// This is the one accessor with a side effect: when the operator is not
// authorized to see the queue (no team mode, no administrator authority),
// a current selection would reference an invisible conversation, so it is
// cleared here.
func (s *Store) GroupedActiveChats() chat.Grouped {
	s.mu.Lock()
	defer s.mu.Unlock()

	grouped, clearSelection := s.grouper.Active(s.activeChats, s.operator, s.teamMode)
	if clearSelection && s.selectedChatID != "" {
		s.logger.Debug("clearing selection on unauthorized active view",
			"chat_id", s.selectedChatID)
		s.selectedChatID = ""
	}
	return grouped
}

// GroupedUnansweredChats returns the unanswered view of the active queue.
func (s *Store) GroupedUnansweredChats() chat.Grouped {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grouper.Unanswered(s.activeChats, s.operator, s.teamMode)
}

// GroupedPendingChats returns the triage view of the pending queue.
func (s *Store) GroupedPendingChats() chat.GroupedPending {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grouper.Pending(s.pendingChats, s.operator, s.teamMode)
}

func findByID(chats []chat.Chat, id string) (chat.Chat, bool) {
	if id == "" {
		return chat.Chat{}, false
	}
	for _, c := range chats {
		if c.ID == id {
			return c, true
		}
	}
	return chat.Chat{}, false
}
