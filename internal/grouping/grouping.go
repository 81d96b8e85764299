// ABOUTME: Classification engine partitioning conversation lists into console views
// ABOUTME: Pure grouping rules - no I/O, no mutation of the incoming records

package grouping

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/2389/console-state/internal/chat"
	"github.com/2389/console-state/internal/identity"
)

// Grouper derives the operator-scoped queue views from flat conversation
// lists. It is stateless apart from its collation locale and the bot
// sentinel id, so a single instance is shared by all readers.
type Grouper struct {
	coll  *collate.Collator
	botID string
}

// New creates a Grouper. locale selects the collation used for group-name
// ordering ("" falls back to the undetermined locale); botID is the owner
// sentinel marking conversations no operator has picked up yet ("" falls
// back to chat.DefaultBotID).
func New(locale, botID string) *Grouper {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	if botID == "" {
		botID = chat.DefaultBotID
	}
	return &Grouper{
		// Loose comparison ignores case, width and diacritics so display
		// names sort the way an operator expects.
		coll:  collate.New(tag, collate.Loose),
		botID: botID,
	}
}

// Active partitions the active queue into the operator's own conversations
// and per-owner groups for everyone else. Unassigned conversations belong
// to the unanswered view only and are dropped here.
//
// Outside team mode a non-administrator is not authorized to see this
// queue: the result is empty and clearSelection reports that any current
// selection no longer references a visible conversation.
func (g *Grouper) Active(chats []chat.Chat, op identity.Identity, teamMode bool) (grouped chat.Grouped, clearSelection bool) {
	grouped = chat.Grouped{MyChats: []chat.Chat{}, OtherChats: []chat.Group{}}

	if !teamMode && !op.IsAdministrator() {
		return grouped, true
	}

	for _, c := range chats {
		switch {
		case c.CustomerSupportID == "":
			// unanswered view only
		case c.CustomerSupportID == op.IDCode:
			grouped.MyChats = append(grouped.MyChats, c)
		default:
			grouped.OtherChats = appendToOwnerGroup(grouped.OtherChats, c)
		}
	}

	g.sortGroupsByName(grouped.OtherChats)
	return grouped, false
}

// Unanswered derives the unanswered queue from the active list. In team
// mode it is simply every unassigned conversation, in list order. Outside
// team mode the operator's own conversations join the unassigned ones in
// MyChats (sorted by creation time) and the rest are grouped by owner.
func (g *Grouper) Unanswered(chats []chat.Chat, op identity.Identity, teamMode bool) chat.Grouped {
	grouped := chat.Grouped{MyChats: []chat.Chat{}, OtherChats: []chat.Group{}}

	if teamMode {
		for _, c := range chats {
			if c.CustomerSupportID == "" {
				grouped.MyChats = append(grouped.MyChats, c)
			}
		}
		return grouped
	}

	for _, c := range chats {
		if c.CustomerSupportID == op.IDCode || c.CustomerSupportID == "" {
			grouped.MyChats = append(grouped.MyChats, c)
			continue
		}
		grouped.OtherChats = appendToOwnerGroup(grouped.OtherChats, c)
	}

	sortByCreated(grouped.MyChats)
	g.sortGroupsByName(grouped.OtherChats)
	return grouped
}

// Pending derives the triage view of the pending queue. Triage is a
// team-mode-only surface, so outside team mode every bucket is empty.
// Bot-owned conversations land in NewChats; the rest are InProcessChats,
// split again into the operator's own and per-owner groups.
func (g *Grouper) Pending(chats []chat.Chat, op identity.Identity, teamMode bool) chat.GroupedPending {
	grouped := chat.GroupedPending{
		NewChats:       []chat.Chat{},
		InProcessChats: []chat.Chat{},
		MyChats:        []chat.Chat{},
		OtherChats:     []chat.Group{},
	}

	if !teamMode {
		return grouped
	}

	for _, c := range chats {
		if c.CustomerSupportID == g.botID {
			grouped.NewChats = append(grouped.NewChats, c)
		} else {
			grouped.InProcessChats = append(grouped.InProcessChats, c)
		}
	}

	for _, c := range grouped.InProcessChats {
		if c.CustomerSupportID == op.IDCode {
			grouped.MyChats = append(grouped.MyChats, c)
			continue
		}
		if c.CustomerSupportID != "" {
			grouped.OtherChats = appendToOwnerGroup(grouped.OtherChats, c)
		}
	}

	sortByCreated(grouped.MyChats)
	g.sortGroupsByName(grouped.OtherChats)
	return grouped
}

// appendToOwnerGroup adds c to the group keyed by its owner id, creating
// the group on first sight. The display name is frozen at creation; later
// records never update it even if their display names differ.
func appendToOwnerGroup(groups []chat.Group, c chat.Chat) []chat.Group {
	for i := range groups {
		if groups[i].GroupID == c.CustomerSupportID {
			groups[i].Chats = append(groups[i].Chats, c)
			return groups
		}
	}
	return append(groups, chat.Group{
		GroupID: c.CustomerSupportID,
		Name:    c.CustomerSupportDisplayName,
		Chats:   []chat.Chat{c},
	})
}

// sortGroupsByName orders groups by display name under the configured
// collation. Ties keep their first-seen relative order.
func (g *Grouper) sortGroupsByName(groups []chat.Group) {
	sort.SliceStable(groups, func(i, j int) bool {
		return g.coll.CompareString(groups[i].Name, groups[j].Name) < 0
	})
}

// sortByCreated orders chats chronologically. Created is an ISO timestamp,
// so lexicographic comparison is chronological comparison.
func sortByCreated(chats []chat.Chat) {
	sort.SliceStable(chats, func(i, j int) bool {
		return strings.Compare(chats[i].Created, chats[j].Created) < 0
	})
}
