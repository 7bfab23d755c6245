package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanbanstr/board-sync-service/internal/domain"
	"github.com/kanbanstr/board-sync-service/internal/nostr"
)

func legacyBoardEvent() *nostr.Event {
	return &nostr.Event{
		ID:      "ev-legacy",
		Kind:    domain.KindBoard,
		PubKey:  "owner",
		Content: `{"description":"old style","columnMapping":"EXACT","columns":[{"id":"c1","name":"To Do","order":0},{"id":"c2","name":"Done","order":1}],"isNoZapBoard":true}`,
		Tags: nostr.Tags{
			{"d", "legacy-board"},
			{"title", "Old Board"},
			{"a", "30302:owner:card-1"},
			{"a", "30302:other:card-2"},
		},
	}
}

func TestLegacyBoardDetectionByContent(t *testing.T) {
	ev := legacyBoardEvent()
	ev.Tags = nostr.Tags{{"d", "legacy-board"}, {"title", "Old Board"}}

	got, err := DecodeBoard(ev)
	require.NoError(t, err)
	assert.True(t, got.NeedsMigration)
	assert.Equal(t, "old style", got.Description)
	assert.True(t, got.IsNoZapBoard)
	require.Len(t, got.Columns, 2)
	assert.Equal(t, "To Do", got.Columns[0].Name)
}

func TestLegacyBoardDetectionByCardRefs(t *testing.T) {
	ev := &nostr.Event{
		Kind:   domain.KindBoard,
		PubKey: "owner",
		Tags: nostr.Tags{
			{"d", "b1"},
			{"title", "Half migrated"},
			{"col", "c1", "To Do", "0"},
			{"a", "30302:owner:card-1"},
		},
	}

	got, err := DecodeBoard(ev)
	require.NoError(t, err)
	assert.True(t, got.NeedsMigration)
	assert.Equal(t, []string{"30302:owner:card-1"}, got.LegacyCardRefs)
	// the col tags still decode
	require.Len(t, got.Columns, 1)
}

func TestLegacyBoardWithoutDTagUsesEventID(t *testing.T) {
	ev := legacyBoardEvent()
	ev.Tags = nostr.Tags{{"title", "Old Board"}}

	got, err := DecodeBoard(ev)
	require.NoError(t, err)
	assert.Equal(t, "ev-legacy", got.ID)
	assert.True(t, got.NeedsMigration)
	assert.True(t, got.NeedsNewID)
}

func TestCurrentBoardNotFlaggedLegacy(t *testing.T) {
	b := &domain.Board{ID: "b1", PubKey: "owner", Title: "New", Columns: []domain.Column{{ID: "c1", Name: "To Do"}}}

	got, err := DecodeBoard(EncodeBoard(b))
	require.NoError(t, err)
	assert.False(t, got.NeedsMigration)
	assert.Empty(t, got.LegacyCardRefs)
}

func TestBoardRefsDoNotTriggerLegacyOnCards(t *testing.T) {
	// board address references on a card are the current linkage format
	ev := &nostr.Event{
		Kind:   domain.KindBoard,
		PubKey: "owner",
		Tags: nostr.Tags{
			{"d", "b1"},
			{"a", "30301:owner:another-board"},
		},
	}

	got, err := DecodeBoard(ev)
	require.NoError(t, err)
	assert.False(t, got.NeedsMigration)
}

func TestMalformedContentIsNotLegacy(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"plain text", "just a note"},
		{"json without columns", `{"description":"x"}`},
		{"json array", `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := &nostr.Event{
				Kind:    domain.KindBoard,
				PubKey:  "owner",
				Content: tt.content,
				Tags:    nostr.Tags{{"d", "b1"}},
			}
			got, err := DecodeBoard(ev)
			require.NoError(t, err)
			assert.False(t, got.NeedsMigration)
		})
	}
}

func TestLegacyCardDecode(t *testing.T) {
	ev := &nostr.Event{
		Kind:    domain.KindCard,
		PubKey:  "owner",
		Content: `{"description":"from content","status":"In Progress","order":12.5,"attachments":["https://files.example.com/a.png"]}`,
		Tags: nostr.Tags{
			{"d", "card-1"},
			{"title", "Legacy card"},
		},
	}

	got, err := DecodeCard(ev)
	require.NoError(t, err)
	assert.Equal(t, "from content", got.Description)
	assert.Equal(t, "In Progress", got.Status)
	assert.Equal(t, 12.5, got.Rank)
	assert.Equal(t, []string{"https://files.example.com/a.png"}, got.Attachments)
}

func TestLegacyZapOnlyAssigneesDecode(t *testing.T) {
	// the retired format carried assignees as zap tags without a p twin
	ev := &nostr.Event{
		Kind:    domain.KindCard,
		PubKey:  "owner",
		Content: `{"description":"x","order":1}`,
		Tags: nostr.Tags{
			{"d", "card-1"},
			{"title", "Card"},
			{"zap", "assignee-pubkey"},
		},
	}

	got, err := DecodeCard(ev)
	require.NoError(t, err)
	assert.Equal(t, []string{"assignee-pubkey"}, got.Assignees)
}

func TestTagValuesWinOverLegacyContent(t *testing.T) {
	ev := &nostr.Event{
		Kind:    domain.KindCard,
		PubKey:  "owner",
		Content: `{"description":"old","status":"Old Status","order":1}`,
		Tags: nostr.Tags{
			{"d", "card-1"},
			{"title", "Card"},
			{"description", "new"},
			{"s", "Doing"},
			{"rank", "42"},
		},
	}

	got, err := DecodeCard(ev)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Description)
	assert.Equal(t, "Doing", got.Status)
	assert.Equal(t, float64(42), got.Rank)
}
