// ABOUTME: Tests for the chat classification engine
// ABOUTME: Covers partitioning, grouping keys, ordering and the authorization gate

package grouping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/console-state/internal/chat"
	"github.com/2389/console-state/internal/identity"
)

var op1 = identity.Identity{
	IDCode:      "op1",
	DisplayName: "Operator One",
	Authorities: []string{"ROLE_CUSTOMER_SUPPORT_AGENT"},
}

var admin = identity.Identity{
	IDCode:      "adm",
	Authorities: []string{identity.RoleAdministrator},
}

func TestActive_TeamMode_Partition(t *testing.T) {
	g := New("", "")

	chats := []chat.Chat{
		{ID: "a", CustomerSupportID: ""},
		{ID: "b", CustomerSupportID: "op1"},
		{ID: "c", CustomerSupportID: "op2", CustomerSupportDisplayName: "Bob"},
	}

	grouped, clear := g.Active(chats, op1, true)

	assert.False(t, clear)
	require.Len(t, grouped.MyChats, 1)
	assert.Equal(t, "b", grouped.MyChats[0].ID)

	require.Len(t, grouped.OtherChats, 1)
	assert.Equal(t, "op2", grouped.OtherChats[0].GroupID)
	assert.Equal(t, "Bob", grouped.OtherChats[0].Name)
	require.Len(t, grouped.OtherChats[0].Chats, 1)
	assert.Equal(t, "c", grouped.OtherChats[0].Chats[0].ID)
}

func TestActive_UnassignedDropped(t *testing.T) {
	g := New("", "")

	chats := []chat.Chat{
		{ID: "a", CustomerSupportID: ""},
		{ID: "b", CustomerSupportID: ""},
	}

	grouped, _ := g.Active(chats, op1, true)

	assert.Empty(t, grouped.MyChats)
	assert.Empty(t, grouped.OtherChats, "unassigned chats must never form a group")
}

func TestActive_UnauthorizedGate(t *testing.T) {
	g := New("", "")

	chats := []chat.Chat{
		{ID: "a", CustomerSupportID: "op1"},
		{ID: "b", CustomerSupportID: "op2"},
	}

	// No team mode, no administrator authority: empty view regardless of
	// input, and the caller must clear its selection.
	grouped, clear := g.Active(chats, op1, false)

	assert.True(t, clear)
	assert.Empty(t, grouped.MyChats)
	assert.Empty(t, grouped.OtherChats)
}

func TestActive_AdminBypassesGate(t *testing.T) {
	g := New("", "")

	chats := []chat.Chat{
		{ID: "a", CustomerSupportID: "adm"},
		{ID: "b", CustomerSupportID: "op2", CustomerSupportDisplayName: "Bob"},
	}

	grouped, clear := g.Active(chats, admin, false)

	assert.False(t, clear)
	require.Len(t, grouped.MyChats, 1)
	assert.Equal(t, "a", grouped.MyChats[0].ID)
	require.Len(t, grouped.OtherChats, 1)
}

func TestActive_GroupNameFirstSeenWins(t *testing.T) {
	g := New("", "")

	chats := []chat.Chat{
		{ID: "a", CustomerSupportID: "op2", CustomerSupportDisplayName: "Bob"},
		{ID: "b", CustomerSupportID: "op2", CustomerSupportDisplayName: "Robert"},
	}

	grouped, _ := g.Active(chats, op1, true)

	require.Len(t, grouped.OtherChats, 1)
	assert.Equal(t, "Bob", grouped.OtherChats[0].Name,
		"the first record creating a group fixes its display name")
	assert.Len(t, grouped.OtherChats[0].Chats, 2)
}

func TestActive_GroupsSortedByNameCaseInsensitive(t *testing.T) {
	g := New("", "")

	chats := []chat.Chat{
		{ID: "a", CustomerSupportID: "op2", CustomerSupportDisplayName: "Carol"},
		{ID: "b", CustomerSupportID: "op3", CustomerSupportDisplayName: "bob"},
		{ID: "c", CustomerSupportID: "op4", CustomerSupportDisplayName: "alice"},
	}

	grouped, _ := g.Active(chats, op1, true)

	require.Len(t, grouped.OtherChats, 3)
	assert.Equal(t, "alice", grouped.OtherChats[0].Name)
	assert.Equal(t, "bob", grouped.OtherChats[1].Name, "collation ignores case")
	assert.Equal(t, "Carol", grouped.OtherChats[2].Name)
}

func TestActive_PartitionCompleteness(t *testing.T) {
	g := New("", "")

	chats := []chat.Chat{
		{ID: "a", CustomerSupportID: "op1"},
		{ID: "b", CustomerSupportID: "op2"},
		{ID: "c", CustomerSupportID: ""},
		{ID: "d", CustomerSupportID: "op3"},
		{ID: "e", CustomerSupportID: "op2"},
	}

	grouped, _ := g.Active(chats, op1, true)

	seen := map[string]int{}
	for _, c := range grouped.MyChats {
		seen[c.ID]++
	}
	for _, grp := range grouped.OtherChats {
		for _, c := range grp.Chats {
			seen[c.ID]++
		}
	}

	// Every assigned record appears exactly once, the unassigned one nowhere.
	assert.Equal(t, map[string]int{"a": 1, "b": 1, "d": 1, "e": 1}, seen)
}

func TestUnanswered_TeamMode(t *testing.T) {
	g := New("", "")

	chats := []chat.Chat{
		{ID: "a", CustomerSupportID: "", Created: "2024-03-02T10:00:00Z"},
		{ID: "b", CustomerSupportID: "op2"},
		{ID: "c", CustomerSupportID: "", Created: "2024-03-01T10:00:00Z"},
	}

	grouped := g.Unanswered(chats, op1, true)

	// Single pass, list order kept, owned records ignored, no grouping.
	require.Len(t, grouped.MyChats, 2)
	assert.Equal(t, "a", grouped.MyChats[0].ID)
	assert.Equal(t, "c", grouped.MyChats[1].ID)
	assert.Empty(t, grouped.OtherChats)
}

func TestUnanswered_PersonalMode(t *testing.T) {
	g := New("", "")

	chats := []chat.Chat{
		{ID: "a", CustomerSupportID: "op1", Created: "2024-03-03T10:00:00Z"},
		{ID: "b", CustomerSupportID: "op2", CustomerSupportDisplayName: "Bob", Created: "2024-03-01T09:00:00Z"},
		{ID: "c", CustomerSupportID: "", Created: "2024-03-01T10:00:00Z"},
		{ID: "d", CustomerSupportID: "op1", Created: "2024-03-02T10:00:00Z"},
	}

	grouped := g.Unanswered(chats, op1, false)

	// Mine and unassigned together, chronological.
	require.Len(t, grouped.MyChats, 3)
	assert.Equal(t, "c", grouped.MyChats[0].ID)
	assert.Equal(t, "d", grouped.MyChats[1].ID)
	assert.Equal(t, "a", grouped.MyChats[2].ID)

	require.Len(t, grouped.OtherChats, 1)
	assert.Equal(t, "op2", grouped.OtherChats[0].GroupID)
}

func TestUnanswered_MyChatsOrderedByCreated(t *testing.T) {
	g := New("", "")

	chats := []chat.Chat{
		{ID: "late", CustomerSupportID: "", Created: "2024-06-01T12:00:00Z"},
		{ID: "grp", CustomerSupportID: "op9", Created: "2024-06-01T11:00:00Z"},
		{ID: "early", CustomerSupportID: "op1", Created: "2024-06-01T08:00:00Z"},
		{ID: "mid", CustomerSupportID: "", Created: "2024-06-01T10:00:00Z"},
	}

	grouped := g.Unanswered(chats, op1, false)

	require.Len(t, grouped.MyChats, 3)
	for i := 1; i < len(grouped.MyChats); i++ {
		assert.LessOrEqual(t, grouped.MyChats[i-1].Created, grouped.MyChats[i].Created)
	}
}

func TestPending_PersonalModeEmpty(t *testing.T) {
	g := New("", "")

	chats := []chat.Chat{
		{ID: "a", CustomerSupportID: chat.DefaultBotID},
		{ID: "b", CustomerSupportID: "op1"},
	}

	grouped := g.Pending(chats, op1, false)

	assert.Empty(t, grouped.NewChats)
	assert.Empty(t, grouped.InProcessChats)
	assert.Empty(t, grouped.MyChats)
	assert.Empty(t, grouped.OtherChats)
}

func TestPending_TeamModeSplit(t *testing.T) {
	g := New("", "")

	chats := []chat.Chat{
		{ID: "new1", CustomerSupportID: chat.DefaultBotID},
		{ID: "mine", CustomerSupportID: "op1"},
		{ID: "other", CustomerSupportID: "op2", CustomerSupportDisplayName: "Bob"},
		{ID: "new2", CustomerSupportID: chat.DefaultBotID},
	}

	grouped := g.Pending(chats, op1, true)

	require.Len(t, grouped.NewChats, 2)
	assert.Equal(t, "new1", grouped.NewChats[0].ID)
	assert.Equal(t, "new2", grouped.NewChats[1].ID)

	require.Len(t, grouped.InProcessChats, 2)
	require.Len(t, grouped.MyChats, 1)
	assert.Equal(t, "mine", grouped.MyChats[0].ID)
	require.Len(t, grouped.OtherChats, 1)
	assert.Equal(t, "op2", grouped.OtherChats[0].GroupID)
}

func TestPending_CustomBotSentinel(t *testing.T) {
	g := New("", "triage-bot")

	chats := []chat.Chat{
		{ID: "a", CustomerSupportID: "triage-bot"},
		{ID: "b", CustomerSupportID: chat.DefaultBotID},
	}

	grouped := g.Pending(chats, op1, true)

	require.Len(t, grouped.NewChats, 1)
	assert.Equal(t, "a", grouped.NewChats[0].ID)
	// The default sentinel is just another owner id under a custom one.
	require.Len(t, grouped.InProcessChats, 1)
	assert.Equal(t, "b", grouped.InProcessChats[0].ID)
}

func TestPending_EmptyOwnerDroppedFromSplit(t *testing.T) {
	g := New("", "")

	chats := []chat.Chat{
		{ID: "a", CustomerSupportID: ""},
	}

	grouped := g.Pending(chats, op1, true)

	// Not bot-owned, so in process; but an empty owner never groups.
	require.Len(t, grouped.InProcessChats, 1)
	assert.Empty(t, grouped.MyChats)
	assert.Empty(t, grouped.OtherChats)
}

func TestEmptyListsAreTotal(t *testing.T) {
	g := New("", "")

	grouped, clear := g.Active(nil, op1, true)
	assert.False(t, clear)
	assert.Empty(t, grouped.MyChats)
	assert.Empty(t, grouped.OtherChats)

	assert.Empty(t, g.Unanswered(nil, op1, false).MyChats)
	assert.Empty(t, g.Pending(nil, op1, true).NewChats)
}

func TestNew_BadLocaleFallsBack(t *testing.T) {
	g := New("not-a-locale", "")

	chats := []chat.Chat{
		{ID: "a", CustomerSupportID: "op2", CustomerSupportDisplayName: "b"},
		{ID: "b", CustomerSupportID: "op3", CustomerSupportDisplayName: "a"},
	}

	grouped, _ := g.Active(chats, op1, true)
	require.Len(t, grouped.OtherChats, 2)
	assert.Equal(t, "a", grouped.OtherChats[0].Name)
}
