// Package grouping implements the console's chat classification engine.
//
// # Overview
//
// The listing service reports each queue as a flat list of conversation
// records. This package partitions those lists into the views the console
// surfaces render, keyed on three inputs: the record's owner id
// (customerSupportId), the current operator identity, and whether the
// operator is viewing the shared team queue.
//
// # Views
//
// A Grouper derives three views:
//
//   - Active: the operator's own conversations plus one group per other
//     owner. Unassigned conversations are excluded (they belong to the
//     unanswered view). Outside team mode the view requires the
//     administrator authority; without it the result is empty and the
//     caller is told to drop any current selection.
//   - Unanswered: in team mode, every unassigned conversation; otherwise
//     the operator's own and unassigned conversations together, with the
//     remainder grouped by owner.
//   - Pending: team-mode only. Bot-owned conversations are "new"; the
//     rest are "in process" and split again into mine/others.
//
// # Ordering
//
// Groups are ordered by display name under a locale-aware, case-insensitive
// collation. The operator's own conversations in the unanswered and pending
// views are ordered by creation time (ISO timestamps, compared
// lexicographically). Both sorts are stable: ties keep their prior relative
// order.
//
// # Grouping rules
//
// The group key is the raw owner id and is never empty. The display name is
// taken from the first record that creates a group and never updated, even
// when later records disagree. Group creation order is first-seen order;
// the name sort runs once after the full pass.
//
// All functions are pure with respect to their inputs: records are never
// mutated and every call recomputes from scratch.
package grouping
