// Package eventstore implements the board and card repositories on top of
// the relay event log. Every multi-record read runs through the conflict
// resolver so callers only ever see the winning revision.
package eventstore

import (
	"github.com/kanbanstr/board-sync-service/internal/nostr"
)

type revisionKey struct {
	kind   int
	pubKey string
	d      string
}

// Latest collapses a fetched batch to one event per replaceable address.
// The highest created_at wins; on equal timestamps the first event seen
// stays, so resolution is deterministic for a given input order. Output
// preserves first-seen order of the surviving addresses.
func Latest(events []*nostr.Event) []*nostr.Event {
	if len(events) <= 1 {
		return events
	}

	winners := make(map[revisionKey]*nostr.Event, len(events))
	order := make([]revisionKey, 0, len(events))

	for _, ev := range events {
		key := revisionKey{kind: ev.Kind, pubKey: ev.PubKey, d: ev.D()}
		cur, ok := winners[key]
		if !ok {
			winners[key] = ev
			order = append(order, key)
			continue
		}
		if ev.CreatedAt > cur.CreatedAt {
			winners[key] = ev
		}
	}

	out := make([]*nostr.Event, 0, len(order))
	for _, key := range order {
		out = append(out, winners[key])
	}
	return out
}

// LatestOne picks the winning revision of a single address from a point
// fetch. Returns nil for an empty batch.
func LatestOne(events []*nostr.Event) *nostr.Event {
	var winner *nostr.Event
	for _, ev := range events {
		if winner == nil || ev.CreatedAt > winner.CreatedAt {
			winner = ev
		}
	}
	return winner
}
