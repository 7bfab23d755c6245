package eventstore

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanbanstr/board-sync-service/internal/domain"
	"github.com/kanbanstr/board-sync-service/internal/nostr"
)

func boardEv(id, pubKey, d string, createdAt int64) *nostr.Event {
	return &nostr.Event{
		ID:        id,
		PubKey:    pubKey,
		Kind:      domain.KindBoard,
		CreatedAt: createdAt,
		Tags:      nostr.Tags{{"d", d}},
	}
}

func TestLatestKeepsNewestPerAddress(t *testing.T) {
	events := []*nostr.Event{
		boardEv("e1", "alice", "b1", 100),
		boardEv("e2", "alice", "b1", 300),
		boardEv("e3", "alice", "b1", 200),
		boardEv("e4", "bob", "b1", 50),
	}

	got := Latest(events)
	require.Len(t, got, 2)
	assert.Equal(t, "e2", got[0].ID)
	assert.Equal(t, "e4", got[1].ID)
}

func TestLatestEqualTimestampsKeepFirstSeen(t *testing.T) {
	events := []*nostr.Event{
		boardEv("e1", "alice", "b1", 100),
		boardEv("e2", "alice", "b1", 100),
	}

	got := Latest(events)
	require.Len(t, got, 1)
	assert.Equal(t, "e1", got[0].ID)
}

func TestLatestSeparatesKinds(t *testing.T) {
	card := boardEv("e2", "alice", "b1", 200)
	card.Kind = domain.KindCard
	events := []*nostr.Event{
		boardEv("e1", "alice", "b1", 100),
		card,
	}

	got := Latest(events)
	assert.Len(t, got, 2)
}

func TestLatestOne(t *testing.T) {
	assert.Nil(t, LatestOne(nil))

	got := LatestOne([]*nostr.Event{
		boardEv("e1", "alice", "b1", 100),
		boardEv("e2", "alice", "b1", 300),
		boardEv("e3", "alice", "b1", 200),
	})
	assert.Equal(t, "e2", got.ID)
}

func TestLatestProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	genEvent := gopter.CombineGens(
		gen.RegexMatch(`[a-f0-9]{8}`),
		gen.OneConstOf("alice", "bob", "carol"),
		gen.OneConstOf("b1", "b2", "b3"),
		gen.Int64Range(0, 1000),
	).Map(func(vs []interface{}) *nostr.Event {
		return boardEv(vs[0].(string), vs[1].(string), vs[2].(string), vs[3].(int64))
	})
	genEvents := gen.SliceOf(genEvent)

	properties.Property("resolution is idempotent", prop.ForAll(
		func(events []*nostr.Event) bool {
			once := Latest(events)
			twice := Latest(once)
			if len(once) != len(twice) {
				return false
			}
			for i := range once {
				if once[i] != twice[i] {
					return false
				}
			}
			return true
		},
		genEvents,
	))

	properties.Property("one event per address, each with the max timestamp", prop.ForAll(
		func(events []*nostr.Event) bool {
			maxAt := map[revisionKey]int64{}
			for _, ev := range events {
				key := revisionKey{kind: ev.Kind, pubKey: ev.PubKey, d: ev.D()}
				if at, ok := maxAt[key]; !ok || ev.CreatedAt > at {
					maxAt[key] = ev.CreatedAt
				}
			}

			got := Latest(events)
			seen := map[revisionKey]bool{}
			for _, ev := range got {
				key := revisionKey{kind: ev.Kind, pubKey: ev.PubKey, d: ev.D()}
				if seen[key] {
					return false
				}
				seen[key] = true
				if ev.CreatedAt != maxAt[key] {
					return false
				}
			}
			return len(got) == len(maxAt)
		},
		genEvents,
	))

	properties.TestingRun(t)
}
