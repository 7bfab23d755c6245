package codec

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

func TestCardRoundTrip(t *testing.T) {
	c := &domain.Card{
		ID:          "card-1",
		PubKey:      "pk1",
		Title:       "Fix login flow",
		Description: "Session cookie expires too early",
		Status:      "Doing",
		Rank:        17.5,
		Attachments: []string{"https://files.example.com/trace.png"},
		Assignees:   []string{"pk2"},
		Topics:      []string{"auth"},
		BoardRefs:   []string{"30301:owner:board-1"},
		Links: []domain.CardLink{
			{BoardAddress: "30301:owner:board-2", CardID: "card-9", ForwardLabel: "blocks", BackwardLabel: "blocked by"},
		},
	}

	ev := EncodeCard(c)
	assert.Equal(t, domain.KindCard, ev.Kind)
	assert.Empty(t, ev.Content)

	got, err := DecodeCard(ev)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, c.Title, got.Title)
	assert.Equal(t, c.Status, got.Status)
	assert.Equal(t, c.Rank, got.Rank)
	assert.Equal(t, c.Attachments, got.Attachments)
	assert.Equal(t, c.Assignees, got.Assignees)
	assert.Equal(t, c.Topics, got.Topics)
	assert.Equal(t, c.BoardRefs, got.BoardRefs)
	assert.Equal(t, c.Links, got.Links)
	assert.Nil(t, got.Tracking)
}

func TestCardEncodeEmitsZapDuplicates(t *testing.T) {
	c := &domain.Card{ID: "c1", Assignees: []string{"pk2", "pk3"}}
	ev := EncodeCard(c)

	assert.Len(t, ev.Tags.FindAll(TagZap), 2)
	assert.Len(t, ev.Tags.FindAll(TagPubKey), 2)

	// the zap twins must not double the assignees on the way back
	got, err := DecodeCard(ev)
	require.NoError(t, err)
	assert.Equal(t, c.Assignees, got.Assignees)
}

func TestCardDecodeDefaults(t *testing.T) {
	ev := &nostr.Event{
		Kind:   domain.KindCard,
		PubKey: "pk",
		Tags: nostr.Tags{
			{"d", "c1"},
			{"rank", "not-a-number"},
		},
	}

	got, err := DecodeCard(ev)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCardTitle, got.Title)
	assert.Equal(t, float64(0), got.Rank)
	assert.Empty(t, got.Status)
}

func TestCardTrackingStubRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		tracking *domain.Tracking
	}{
		{"card mirror", &domain.Tracking{Kind: domain.KindCard, Ref: "30301:owner:board-1", CardID: "card-7"}},
		{"external issue", &domain.Tracking{Kind: domain.KindTrackedIssue, Ref: "eventid123"}},
		{"external patch", &domain.Tracking{Kind: domain.KindTrackedPatch, Ref: "eventid456"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &domain.Card{
				ID:        "stub-1",
				PubKey:    "pk",
				Rank:      25,
				BoardRefs: []string{"30301:me:my-board"},
				Tracking:  tt.tracking,
			}
			got, err := DecodeCard(EncodeCard(c))
			require.NoError(t, err)
			require.NotNil(t, got.Tracking)
			assert.Equal(t, tt.tracking, got.Tracking)
			assert.Equal(t, c.Rank, got.Rank)
			assert.Equal(t, c.BoardRefs, got.BoardRefs)
		})
	}
}

func TestCardTrackingIgnoresUnknownKind(t *testing.T) {
	ev := &nostr.Event{
		Kind:   domain.KindCard,
		PubKey: "pk",
		Tags: nostr.Tags{
			{"d", "c1"},
			{"k", "9999"},
			{"tracking", "something"},
		},
	}

	got, err := DecodeCard(ev)
	require.NoError(t, err)
	assert.Nil(t, got.Tracking)
}

func TestCardRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	genIdent := gen.RegexMatch(`[a-z0-9-]{1,16}`)

	properties.Property("encode then decode preserves card fields", prop.ForAll(
		func(id, title, status string, rank float64) bool {
			c := &domain.Card{ID: id, PubKey: "pk", Title: title, Status: status, Rank: rank}
			got, err := DecodeCard(EncodeCard(c))
			if err != nil {
				return false
			}
			if got.ID != c.ID || got.Status != c.Status || got.Rank != c.Rank {
				return false
			}
			if c.Title == "" {
				return got.Title == domain.DefaultCardTitle
			}
			return got.Title == c.Title
		},
		genIdent,
		gen.AlphaString(),
		gen.AlphaString(),
		gen.Float64Range(-1e9, 1e9),
	))

	properties.TestingRun(t)
}
