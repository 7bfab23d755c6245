package eventstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kanbanstr/board-sync-service/internal/domain"
	"github.com/kanbanstr/board-sync-service/internal/nostr"
)

func cardEv(id, pubKey, d string, createdAt int64, title, status string) *nostr.Event {
	return &nostr.Event{
		ID:        id,
		PubKey:    pubKey,
		Kind:      domain.KindCard,
		CreatedAt: createdAt,
		Tags: nostr.Tags{
			{"d", d},
			{"title", title},
			{"s", status},
			{"rank", "10"},
		},
	}
}

func sourceBoardEv() *nostr.Event {
	return &nostr.Event{
		ID:        "board-ev",
		PubKey:    "owner",
		Kind:      domain.KindBoard,
		CreatedAt: 100,
		Tags: nostr.Tags{
			{"d", "src-board"},
			{"title", "Source"},
			{"col", "c1", "To Do", "0"},
			{"p", "maintainer"},
		},
	}
}

func trackingStub() *domain.Card {
	return &domain.Card{
		ID:        "stub-1",
		PubKey:    "me",
		BoardRefs: []string{"30301:me:my-board"},
		Tracking: &domain.Tracking{
			Kind:   domain.KindCard,
			Ref:    "30301:owner:src-board",
			CardID: "tracked-card",
		},
	}
}

func TestResolveTrackedCardIgnoresForeignRevisions(t *testing.T) {
	client := newFakeClient("me",
		sourceBoardEv(),
		cardEv("e1", "owner", "tracked-card", 100, "Real title", "Doing"),
		cardEv("e2", "maintainer", "tracked-card", 200, "Maintainer update", "Done"),
		// newer revision from a stranger must lose
		cardEv("e3", "stranger", "tracked-card", 900, "Spoofed", "Hacked"),
	)
	resolver := NewTrackingResolver(client, zap.NewNop())

	got, err := resolver.Resolve(context.Background(), trackingStub())
	require.NoError(t, err)
	assert.Equal(t, "Maintainer update", got.Title)
	assert.Equal(t, "Done", got.Status)
	// identity and placement stay the stub's own
	assert.Equal(t, "stub-1", got.ID)
	assert.Equal(t, "me", got.PubKey)
	assert.Equal(t, []string{"30301:me:my-board"}, got.BoardRefs)
}

func TestResolveTrackedCardOnlyForeignRevisions(t *testing.T) {
	client := newFakeClient("me",
		sourceBoardEv(),
		cardEv("e1", "stranger", "tracked-card", 100, "Spoofed", "Open"),
	)
	resolver := NewTrackingResolver(client, zap.NewNop())

	_, err := resolver.Resolve(context.Background(), trackingStub())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolveTrackedCardMissingBoard(t *testing.T) {
	client := newFakeClient("me",
		cardEv("e1", "owner", "tracked-card", 100, "Title", "Open"),
	)
	resolver := NewTrackingResolver(client, zap.NewNop())

	_, err := resolver.Resolve(context.Background(), trackingStub())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func externalStub(kind int) *domain.Card {
	return &domain.Card{
		ID:     "stub-2",
		PubKey: "me",
		Tracking: &domain.Tracking{
			Kind: kind,
			Ref:  "item-1",
		},
	}
}

func TestResolveExternalIssueStatusTrail(t *testing.T) {
	issue := &nostr.Event{
		ID:      "item-1",
		PubKey:  "reporter",
		Kind:    domain.KindTrackedIssue,
		Content: "Crash on startup\n\nstack trace follows",
		Tags:    nostr.Tags{{"subject", "Crash on startup"}},
	}
	statusOld := &nostr.Event{
		ID: "s1", Kind: domain.KindStatusClosed, CreatedAt: 100,
		Tags: nostr.Tags{{"e", "item-1"}},
	}
	statusNew := &nostr.Event{
		ID: "s2", Kind: domain.KindStatusResolved, CreatedAt: 200,
		Tags: nostr.Tags{{"e", "item-1"}},
	}

	client := newFakeClient("me", issue, statusOld, statusNew)
	resolver := NewTrackingResolver(client, zap.NewNop())

	got, err := resolver.Resolve(context.Background(), externalStub(domain.KindTrackedIssue))
	require.NoError(t, err)
	assert.Equal(t, "Crash on startup", got.Title)
	assert.Equal(t, domain.StatusResolved, got.Status)
}

func TestResolveExternalPatchResolvedReadsMerged(t *testing.T) {
	patch := &nostr.Event{
		ID: "item-1", Kind: domain.KindTrackedPatch,
		Content: "patch body",
		Tags:    nostr.Tags{{"subject", "Fix ranking"}},
	}
	status := &nostr.Event{
		ID: "s1", Kind: domain.KindStatusResolved, CreatedAt: 100,
		Tags: nostr.Tags{{"e", "item-1"}},
	}

	client := newFakeClient("me", patch, status)
	resolver := NewTrackingResolver(client, zap.NewNop())

	got, err := resolver.Resolve(context.Background(), externalStub(domain.KindTrackedPatch))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusMerged, got.Status)
}

func TestResolveExternalNoTrailDefaultsOpen(t *testing.T) {
	issue := &nostr.Event{
		ID: "item-1", Kind: domain.KindTrackedIssue,
		Content: "first line is the title\nrest of the body",
	}
	client := newFakeClient("me", issue)
	resolver := NewTrackingResolver(client, zap.NewNop())

	got, err := resolver.Resolve(context.Background(), externalStub(domain.KindTrackedIssue))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, got.Status)
	assert.Equal(t, "first line is the title", got.Title)
}

func TestResolveExternalMissingItem(t *testing.T) {
	client := newFakeClient("me")
	resolver := NewTrackingResolver(client, zap.NewNop())

	_, err := resolver.Resolve(context.Background(), externalStub(domain.KindTrackedIssue))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListByBoardOmitsUnresolvableStubs(t *testing.T) {
	board := &domain.Board{ID: "my-board", PubKey: "me"}

	plain := cardEv("e1", "me", "card-a", 100, "Plain card", "To Do")
	plain.Tags = append(plain.Tags, nostr.Tag{"a", "30302:" + "x" + ":y"})
	plain.Tags = append(plain.Tags, nostr.Tag{"a", board.Address()})

	stub := &nostr.Event{
		ID: "e2", PubKey: "me", Kind: domain.KindCard, CreatedAt: 100,
		Tags: nostr.Tags{
			{"d", "card-b"},
			{"k", "1621"},
			{"tracking", "missing-item"},
			{"a", board.Address()},
		},
	}

	client := newFakeClient("me", plain, stub)
	resolver := NewTrackingResolver(client, zap.NewNop())
	repo := NewCardRepository(client, resolver, nil, zap.NewNop())

	cards, err := repo.ListByBoard(context.Background(), board)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "card-a", cards[0].ID)
}

func TestListByBoardLegacyFollowsCardRefs(t *testing.T) {
	board := &domain.Board{
		ID: "legacy-board", PubKey: "owner",
		NeedsMigration: true,
		LegacyCardRefs: []string{"30302:owner:card-a", "30302:other:card-b"},
	}

	legacyCard := &nostr.Event{
		ID: "e1", PubKey: "owner", Kind: domain.KindCard, CreatedAt: 100,
		Content: `{"description":"d","status":"To Do","order":5}`,
		Tags:    nostr.Tags{{"d", "card-a"}, {"title", "Legacy"}},
	}
	otherCard := cardEv("e2", "other", "card-b", 100, "Other", "Done")

	client := newFakeClient("me", legacyCard, otherCard)
	repo := NewCardRepository(client, nil, nil, zap.NewNop())

	cards, err := repo.ListByBoard(context.Background(), board)
	require.NoError(t, err)
	assert.Len(t, cards, 2)
}
