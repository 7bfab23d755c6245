package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanbanstr/board-sync-service/internal/domain"
	"github.com/kanbanstr/board-sync-service/internal/dto"
	"github.com/kanbanstr/board-sync-service/internal/nostr"
	"github.com/kanbanstr/board-sync-service/pkg/code"
)

func legacyBoardEv() *nostr.Event {
	return &nostr.Event{
		ID: "e1", PubKey: "owner", Kind: domain.KindBoard, CreatedAt: 100,
		Content: `{"description":"old desc","columns":[{"id":"c1","name":"To Do","order":0},{"id":"c2","name":"Done","order":1}]}`,
		Tags: nostr.Tags{
			{"d", "b1"},
			{"title", "Legacy board"},
			{"a", "30302:owner:card-a"},
			{"a", "30302:other:card-b"},
		},
	}
}

func legacyCardEvs() []*nostr.Event {
	return []*nostr.Event{
		{
			ID: "e2", PubKey: "owner", Kind: domain.KindCard, CreatedAt: 100,
			Content: `{"description":"first","status":"To Do","order":1}`,
			Tags:    nostr.Tags{{"d", "card-a"}, {"title", "Card A"}},
		},
		{
			ID: "e3", PubKey: "other", Kind: domain.KindCard, CreatedAt: 100,
			Content: `{"description":"second","status":"Done","order":2}`,
			Tags:    nostr.Tags{{"d", "card-b"}, {"title", "Card B"}},
		},
	}
}

func TestMigrateLegacyBoard(t *testing.T) {
	events := append([]*nostr.Event{legacyBoardEv()}, legacyCardEvs()...)
	client := newFakeClient("owner", events...)
	svc := NewMigrationService(newTestOptions(client))

	got, err := svc.Migrate(context.Background(), &dto.MigrateRequest{PubKey: "owner", ID: "b1"})
	require.NoError(t, err)
	assert.Equal(t, StateReloaded, got.State)

	// the reloaded board is in the current format
	assert.False(t, got.Board.NeedsMigration)
	assert.Equal(t, "Legacy board", got.Board.Title)
	assert.Equal(t, "old desc", got.Board.Description)
	require.Len(t, got.Board.Columns, 2)
	assert.Equal(t, "To Do", got.Board.Columns[0].Name)

	// board plus both cards republished
	require.Equal(t, 3, client.publishedCount())
	rewritten := client.published[0]
	assert.Equal(t, domain.KindBoard, rewritten.Kind)
	assert.Empty(t, rewritten.Content)
	assert.Equal(t, "b1", rewritten.D())
	assert.Len(t, rewritten.Tags.FindAll("col"), 2)
	assert.Empty(t, rewritten.Tags.FindAll("a"))

	// cards keep their identifiers, move under the owner's key, and point
	// back at the board by address instead of being listed on it
	require.Len(t, got.Cards, 2)
	for _, ev := range client.published[1:] {
		assert.Equal(t, domain.KindCard, ev.Kind)
		assert.Equal(t, "owner", ev.PubKey)
		assert.Empty(t, ev.Content)
		assert.Equal(t, "30301:owner:b1", ev.Tags.Value("a"))
	}
	ids := []string{client.published[1].D(), client.published[2].D()}
	assert.ElementsMatch(t, []string{"card-a", "card-b"}, ids)
}

func TestMigrateRestoresZapAssignees(t *testing.T) {
	board := &nostr.Event{
		ID: "e1", PubKey: "owner", Kind: domain.KindBoard, CreatedAt: 100,
		Content: `{"description":"old","columns":[{"id":"c1","name":"To Do","order":0}]}`,
		Tags: nostr.Tags{
			{"d", "b1"},
			{"title", "Legacy board"},
			{"a", "30302:owner:card-a"},
		},
	}
	// the retired format stored the assignee as a bare zap tag
	card := &nostr.Event{
		ID: "e2", PubKey: "owner", Kind: domain.KindCard, CreatedAt: 100,
		Content: `{"description":"first","status":"To Do","order":1}`,
		Tags:    nostr.Tags{{"d", "card-a"}, {"title", "Card A"}, {"zap", "assignee-pubkey"}},
	}
	client := newFakeClient("owner", board, card)
	svc := NewMigrationService(newTestOptions(client))

	_, err := svc.Migrate(context.Background(), &dto.MigrateRequest{PubKey: "owner", ID: "b1"})
	require.NoError(t, err)

	require.Equal(t, 2, client.publishedCount())
	rewritten := client.published[1]
	assert.Equal(t, "assignee-pubkey", rewritten.Tags.Value("p"))
	assert.Equal(t, "assignee-pubkey", rewritten.Tags.Value("zap"))
}

func TestMigrateKeepsNoZapPolicy(t *testing.T) {
	board := legacyBoardEv()
	board.Content = `{"description":"old desc","isNoZapBoard":true,"columns":[{"id":"c1","name":"To Do","order":0}]}`
	events := append([]*nostr.Event{board}, legacyCardEvs()...)
	client := newFakeClient("owner", events...)
	svc := NewMigrationService(newTestOptions(client))

	got, err := svc.Migrate(context.Background(), &dto.MigrateRequest{PubKey: "owner", ID: "b1"})
	require.NoError(t, err)

	rewritten := client.published[0]
	assert.Equal(t, "none", rewritten.Tags.Value("zap"))
	assert.True(t, got.Board.IsNoZapBoard)
}

func TestMigrateBoardWithoutDTagMintsIdentifier(t *testing.T) {
	board := &nostr.Event{
		ID: "raw-event-id", PubKey: "owner", Kind: domain.KindBoard, CreatedAt: 100,
		Content: `{"description":"old","columns":[{"id":"c1","name":"To Do","order":0}]}`,
		Tags:    nostr.Tags{{"title", "Ancient board"}},
	}
	client := newFakeClient("owner", board)
	svc := NewMigrationService(newTestOptions(client))

	got, err := svc.Migrate(context.Background(), &dto.MigrateRequest{PubKey: "owner", ID: "raw-event-id"})
	require.NoError(t, err)
	assert.Equal(t, StateReloaded, got.State)

	rewritten := client.published[0]
	newID := rewritten.D()
	assert.NotEmpty(t, newID)
	assert.NotEqual(t, "raw-event-id", newID)
	assert.Equal(t, newID, got.Board.ID)
	assert.False(t, got.Board.NeedsMigration)
}

func TestMigrateTwiceReportsNotLegacy(t *testing.T) {
	events := append([]*nostr.Event{legacyBoardEv()}, legacyCardEvs()...)
	client := newFakeClient("owner", events...)
	svc := NewMigrationService(newTestOptions(client))
	ctx := context.Background()

	_, err := svc.Migrate(ctx, &dto.MigrateRequest{PubKey: "owner", ID: "b1"})
	require.NoError(t, err)
	published := client.publishedCount()

	// once the rewritten revision wins, the board no longer decodes as legacy
	_, err = svc.Migrate(ctx, &dto.MigrateRequest{PubKey: "owner", ID: "b1"})
	assertCode(t, err, code.ErrorNotLegacy)
	assert.Equal(t, published, client.publishedCount())
}

func TestMigrateByNonOwnerDenied(t *testing.T) {
	events := append([]*nostr.Event{legacyBoardEv()}, legacyCardEvs()...)
	client := newFakeClient("other", events...)
	svc := NewMigrationService(newTestOptions(client))

	_, err := svc.Migrate(context.Background(), &dto.MigrateRequest{PubKey: "owner", ID: "b1"})
	assertCode(t, err, code.ErrorPermissionDenied)
	assert.Equal(t, 0, client.publishedCount())
}

func TestMigrateCurrentFormatBoardRejected(t *testing.T) {
	client := newFakeClient("owner", boardEv("e1", "owner", "b1", "Board", 100))
	svc := NewMigrationService(newTestOptions(client))

	_, err := svc.Migrate(context.Background(), &dto.MigrateRequest{PubKey: "owner", ID: "b1"})
	assertCode(t, err, code.ErrorNotLegacy)
	assert.Equal(t, 0, client.publishedCount())
}
