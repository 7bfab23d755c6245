package service

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanbanstr/board-sync-service/internal/domain"
	"github.com/kanbanstr/board-sync-service/internal/dto"
	"github.com/kanbanstr/board-sync-service/internal/nostr"
	"github.com/kanbanstr/board-sync-service/pkg/code"
)

func assertCode(t *testing.T, err error, want *code.Code) {
	t.Helper()
	require.Error(t, err)
	var c *code.Code
	require.True(t, errors.As(err, &c), "error is %v", err)
	assert.Equal(t, want.Code(), c.Code())
}

func boardEv(id, pubKey, d, title string, createdAt int64, maintainers ...string) *nostr.Event {
	tags := nostr.Tags{
		{"d", d},
		{"title", title},
		{"col", "c1", "To Do", "0"},
		{"col", "c2", "Done", "1"},
	}
	for _, m := range maintainers {
		tags = append(tags, nostr.Tag{"p", m})
	}
	return &nostr.Event{
		ID: id, PubKey: pubKey, Kind: domain.KindBoard,
		CreatedAt: createdAt, Tags: tags,
	}
}

func TestBoardCreatePublishesCurrentFormat(t *testing.T) {
	client := newFakeClient("me")
	svc := NewBoardService(newTestOptions(client))

	got, err := svc.Create(context.Background(), &dto.BoardCreateRequest{
		Title:   "Release",
		Columns: []dto.Column{{ID: "c2", Name: "Done", Order: 1}, {ID: "c1", Name: "To Do", Order: 0}},
	})
	require.NoError(t, err)
	assert.Equal(t, "me", got.PubKey)
	assert.NotEmpty(t, got.ID)
	// columns come back ordered
	require.Len(t, got.Columns, 2)
	assert.Equal(t, "To Do", got.Columns[0].Name)

	require.Equal(t, 1, client.publishedCount())
	ev := client.published[0]
	assert.Equal(t, domain.KindBoard, ev.Kind)
	assert.Empty(t, ev.Content)
	assert.Equal(t, got.ID, ev.D())
}

func TestBoardUpdateByOwner(t *testing.T) {
	client := newFakeClient("me", boardEv("e1", "me", "b1", "Old", 100))
	svc := NewBoardService(newTestOptions(client))

	got, err := svc.Update(context.Background(), &dto.BoardUpdateRequest{
		ID: "b1", PubKey: "me", Title: "New",
		Columns: []dto.Column{{ID: "c1", Name: "To Do", Order: 0}},
	})
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, 1, client.publishedCount())
}

func TestBoardUpdateByStrangerDenied(t *testing.T) {
	client := newFakeClient("stranger", boardEv("e1", "owner", "b1", "Board", 100))
	svc := NewBoardService(newTestOptions(client))

	_, err := svc.Update(context.Background(), &dto.BoardUpdateRequest{
		ID: "b1", PubKey: "owner", Title: "Hijack",
		Columns: []dto.Column{{ID: "c1", Name: "To Do", Order: 0}},
	})
	assertCode(t, err, code.ErrorPermissionDenied)
	assert.Equal(t, 0, client.publishedCount())
}

func TestBoardUpdateByMaintainerDenied(t *testing.T) {
	// maintainers can add cards but a board revision needs the owner's key
	client := newFakeClient("helper", boardEv("e1", "owner", "b1", "Board", 100, "helper"))
	svc := NewBoardService(newTestOptions(client))

	_, err := svc.Update(context.Background(), &dto.BoardUpdateRequest{
		ID: "b1", PubKey: "owner", Title: "Renamed",
		Columns: []dto.Column{{ID: "c1", Name: "To Do", Order: 0}},
	})
	assertCode(t, err, code.ErrorPermissionDenied)
	assert.Equal(t, 0, client.publishedCount())
}

func TestBoardListScopes(t *testing.T) {
	client := newFakeClient("me",
		boardEv("e1", "me", "b1", "Mine", 100),
		boardEv("e2", "other", "b2", "Theirs", 200),
		boardEv("e3", "other", "b3", "Shared", 300, "me"),
	)
	svc := NewBoardService(newTestOptions(client))
	ctx := context.Background()

	all, err := svc.List(ctx, "all")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := svc.List(ctx, "mine")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Mine", mine[0].Title)

	maintained, err := svc.List(ctx, "maintained")
	require.NoError(t, err)
	require.Len(t, maintained, 1)
	assert.Equal(t, "Shared", maintained[0].Title)
}

func TestBoardGetReturnsCards(t *testing.T) {
	board := boardEv("e1", "me", "b1", "Board", 100)
	card := &nostr.Event{
		ID: "e2", PubKey: "me", Kind: domain.KindCard, CreatedAt: 100,
		Tags: nostr.Tags{
			{"d", "card-1"},
			{"title", "Task"},
			{"s", "To Do"},
			{"rank", "10"},
			{"a", "30301:me:b1"},
		},
	}
	client := newFakeClient("me", board, card)
	svc := NewBoardService(newTestOptions(client))

	got, err := svc.Get(context.Background(), "me", "b1")
	require.NoError(t, err)
	assert.Equal(t, "Board", got.Board.Title)
	require.Len(t, got.Cards, 1)
	assert.Equal(t, "Task", got.Cards[0].Title)
}

func TestBoardGetNotFound(t *testing.T) {
	svc := NewBoardService(newTestOptions(newFakeClient("me")))

	_, err := svc.Get(context.Background(), "me", "missing")
	assertCode(t, err, code.ErrorNotFound)
}
