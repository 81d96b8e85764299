// Package refresh fetches the conversation queues and commits them into
// the state store.
//
// The Controller owns the replacement policy: a fetched list normally
// replaces the displayed one immediately, but when the selected
// conversation is missing from the fetch and the displayed list is
// non-empty, the commit waits out a fixed grace delay first. Overlapping
// refreshes for one queue are serialized by cancellation: a completed
// fetch stops the queue's still-pending deferred commit, so an older
// delayed result can never overwrite a newer one.
//
// The Poller is the pull-only refresh driver: both queues, every tick,
// errors retried on the next tick.
package refresh
