// Package store holds the console's authoritative in-memory state.
//
// The Store is the single shared container for operator identity, the
// active and pending conversation lists, the current selection, the
// team-mode flag, presence and settings. Components interact with state
// only through its mutators and accessors.
//
// Derived views (selected chat, unanswered/forwarded subsets, message
// counts, the grouped views from the grouping package) are recomputed from
// current state on every read; nothing is cached or invalidated. The lists
// are small and refreshed at second-scale intervals, so recomputation is
// cheaper than cache bookkeeping.
//
// GroupedActiveChats is the one read with a side effect: an unauthorized
// view clears an incompatible selection. Every other accessor is a pure
// function of current state.
package store
