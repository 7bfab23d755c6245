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

func cardOnBoard(id, pubKey, d, title, status, rank string) *nostr.Event {
	return &nostr.Event{
		ID: id, PubKey: pubKey, Kind: domain.KindCard, CreatedAt: 100,
		Tags: nostr.Tags{
			{"d", d},
			{"title", title},
			{"s", status},
			{"rank", rank},
			{"a", "30301:owner:b1"},
		},
	}
}

func TestCardCreateByMaintainer(t *testing.T) {
	client := newFakeClient("helper", boardEv("e1", "owner", "b1", "Board", 100, "helper"))
	svc := NewCardService(newTestOptions(client))

	got, err := svc.Create(context.Background(), &dto.CardCreateRequest{
		BoardPubKey: "owner", BoardID: "b1",
		Title: "New task", Status: "To Do",
	})
	require.NoError(t, err)
	assert.Equal(t, "helper", got.PubKey)
	assert.Equal(t, float64(10), got.Rank)

	require.Equal(t, 1, client.publishedCount())
	ev := client.published[0]
	assert.Equal(t, domain.KindCard, ev.Kind)
	assert.Equal(t, "30301:owner:b1", ev.Tags.Value("a"))
}

func TestCardCreateAppendsAfterLastRank(t *testing.T) {
	client := newFakeClient("owner",
		boardEv("e1", "owner", "b1", "Board", 100),
		cardOnBoard("e2", "owner", "c1", "First", "To Do", "10"),
		cardOnBoard("e3", "owner", "c2", "Second", "To Do", "20"),
	)
	svc := NewCardService(newTestOptions(client))

	got, err := svc.Create(context.Background(), &dto.CardCreateRequest{
		BoardPubKey: "owner", BoardID: "b1",
		Title: "Third", Status: "To Do",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(30), got.Rank)
}

func TestCardCreateByStrangerDenied(t *testing.T) {
	client := newFakeClient("stranger", boardEv("e1", "owner", "b1", "Board", 100, "helper"))
	svc := NewCardService(newTestOptions(client))

	_, err := svc.Create(context.Background(), &dto.CardCreateRequest{
		BoardPubKey: "owner", BoardID: "b1", Title: "Spam",
	})
	assertCode(t, err, code.ErrorPermissionDenied)
	assert.Equal(t, 0, client.publishedCount())
}

func TestCardUpdateByAuthor(t *testing.T) {
	client := newFakeClient("owner",
		boardEv("e1", "owner", "b1", "Board", 100),
		cardOnBoard("e2", "owner", "c1", "Old title", "To Do", "10"),
	)
	svc := NewCardService(newTestOptions(client))

	got, err := svc.Update(context.Background(), &dto.CardUpdateRequest{
		ID: "c1", PubKey: "owner",
		BoardPubKey: "owner", BoardID: "b1",
		Title: "New title", Status: "Done",
	})
	require.NoError(t, err)
	assert.Equal(t, "New title", got.Title)
	assert.Equal(t, "Done", got.Status)
	// a revision keeps the replaceable address
	require.Equal(t, 1, client.publishedCount())
	assert.Equal(t, "c1", client.published[0].D())
	assert.Equal(t, "owner", client.published[0].PubKey)
}

func TestCardUpdateByNonAuthorDenied(t *testing.T) {
	// even a maintainer cannot revise another key's record: a record under a
	// different key is a different replaceable address
	client := newFakeClient("helper",
		boardEv("e1", "owner", "b1", "Board", 100, "helper"),
		cardOnBoard("e2", "owner", "c1", "Title", "To Do", "10"),
	)
	svc := NewCardService(newTestOptions(client))

	_, err := svc.Update(context.Background(), &dto.CardUpdateRequest{
		ID: "c1", PubKey: "owner",
		BoardPubKey: "owner", BoardID: "b1",
		Title: "Edited",
	})
	assertCode(t, err, code.ErrorPermissionDenied)
	assert.Equal(t, 0, client.publishedCount())
}

func TestCardMoveBetweenNeighbors(t *testing.T) {
	client := newFakeClient("owner",
		boardEv("e1", "owner", "b1", "Board", 100),
		cardOnBoard("e2", "owner", "c1", "First", "To Do", "10"),
		cardOnBoard("e3", "owner", "c2", "Second", "To Do", "20"),
		cardOnBoard("e4", "owner", "c3", "Third", "To Do", "30"),
	)
	svc := NewCardService(newTestOptions(client))

	got, err := svc.Move(context.Background(), &dto.CardMoveRequest{
		ID: "c3", PubKey: "owner",
		BoardPubKey: "owner", BoardID: "b1",
		Status: "To Do", Index: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(15), got.Rank)
	assert.Equal(t, "To Do", got.Status)
}

func TestCardMoveToOtherColumn(t *testing.T) {
	client := newFakeClient("owner",
		boardEv("e1", "owner", "b1", "Board", 100),
		cardOnBoard("e2", "owner", "c1", "First", "To Do", "10"),
		cardOnBoard("e3", "owner", "c2", "Done already", "Done", "10"),
	)
	svc := NewCardService(newTestOptions(client))

	got, err := svc.Move(context.Background(), &dto.CardMoveRequest{
		ID: "c1", PubKey: "owner",
		BoardPubKey: "owner", BoardID: "b1",
		Status: "Done", Index: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, "Done", got.Status)
	assert.Equal(t, float64(0), got.Rank)
}

func TestCardMoveByNonAuthorDenied(t *testing.T) {
	client := newFakeClient("stranger",
		boardEv("e1", "owner", "b1", "Board", 100),
		cardOnBoard("e2", "owner", "c1", "First", "To Do", "10"),
	)
	svc := NewCardService(newTestOptions(client))

	_, err := svc.Move(context.Background(), &dto.CardMoveRequest{
		ID: "c1", PubKey: "owner",
		BoardPubKey: "owner", BoardID: "b1",
		Status: "To Do", Index: 0,
	})
	assertCode(t, err, code.ErrorPermissionDenied)
	assert.Equal(t, 0, client.publishedCount())
}
