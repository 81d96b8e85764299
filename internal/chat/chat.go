// ABOUTME: Conversation record and grouped-view types for the support console
// ABOUTME: Wire shape is fixed by the external listing service and must not change

package chat

// Status tags a conversation's lifecycle state. The set of values is owned
// by the listing service; this module only compares tags, it never
// interprets them beyond equality.
type Status string

// Status values observed on the wire.
const (
	StatusNew        Status = "NEW"
	StatusAssigned   Status = "ASSIGNED"
	StatusRedirected Status = "REDIRECTED"
)

// DefaultBotID is the sentinel owner id the chat system assigns to
// conversations no operator has picked up yet.
const DefaultBotID = "chatbot"

// Chat is one support conversation as reported by the listing service.
// Records are created and mutated externally; this module only observes
// them and replaces whole lists on refresh.
type Chat struct {
	ID string `json:"id"`

	Status Status `json:"status"`

	// CustomerSupportID identifies the owning operator. Empty means
	// unassigned; DefaultBotID means the conversation is still bot-owned.
	CustomerSupportID          string `json:"customerSupportId"`
	CustomerSupportDisplayName string `json:"customerSupportDisplayName"`

	// Created is an ISO-8601 timestamp string. Lexicographic order is
	// chronological order, so it is compared as-is.
	Created string `json:"created"`

	// CustomerMessages counts unread customer messages. Nil when the
	// service did not report one.
	CustomerMessages *int `json:"customerMessages,omitempty"`
}

// Group collects the conversations owned by one operator other than the
// current one. Name is display-only and comes from the first record that
// created the group.
type Group struct {
	GroupID string `json:"groupId"`
	Name    string `json:"name"`
	Chats   []Chat `json:"chats"`
}

// Grouped is the operator-scoped view of the active or unanswered queue.
type Grouped struct {
	MyChats    []Chat  `json:"myChats"`
	OtherChats []Group `json:"otherChats"`
}

// GroupedPending is the triage view of the pending queue. NewChats holds
// bot-owned conversations; InProcessChats holds everything else, further
// split into MyChats and OtherChats.
type GroupedPending struct {
	NewChats       []Chat  `json:"newChats"`
	InProcessChats []Chat  `json:"inProcessChats"`
	MyChats        []Chat  `json:"myChats"`
	OtherChats     []Group `json:"otherChats"`
}

// ListResponse is the envelope both listing endpoints return. A missing
// response field means an empty queue, not an error.
type ListResponse struct {
	Response []Chat `json:"response"`
}
