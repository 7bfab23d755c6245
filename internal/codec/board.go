package codec

import (
	"strconv"

	"github.com/kanbanstr/board-sync-service/internal/domain"
	"github.com/kanbanstr/board-sync-service/internal/nostr"
)

// EncodeBoard builds a board event in the current tag format. Content stays
// empty; every field lives in tags. The caller stamps timestamp and signature.
func EncodeBoard(b *domain.Board) *nostr.Event {
	title := b.Title
	if title == "" {
		title = domain.DefaultBoardTitle
	}

	tags := nostr.Tags{
		{TagD, b.ID},
		{TagTitle, title},
		{TagDescription, b.Description},
		{TagAlt, "A board titled " + title},
	}
	for _, col := range b.Columns {
		tags = append(tags, nostr.Tag{TagColumn, col.ID, col.Name, strconv.Itoa(col.Order)})
	}
	for _, m := range b.Maintainers {
		tags = append(tags, nostr.Tag{TagPubKey, m})
	}
	if b.IsNoZapBoard {
		tags = append(tags, nostr.Tag{TagZap, ZapPolicyNone})
	}

	return &nostr.Event{
		PubKey: b.PubKey,
		Kind:   domain.KindBoard,
		Tags:   tags,
	}
}

// DecodeBoard turns a board event into the entity. Legacy records are
// detected here: a JSON content payload with columns, or card linkage via a
// tags, marks the board as needing migration.
func DecodeBoard(ev *nostr.Event) (*domain.Board, error) {
	if ev.Kind != domain.KindBoard {
		return nil, decodeErr(ev, "not a board record")
	}

	lc, isLegacyContent := parseLegacyBoardContent(ev.Content)
	cardRefs := cardAddrRefs(ev.Tags)
	isLegacy := isLegacyContent || len(cardRefs) > 0

	id := ev.D()
	needsNewID := false
	if id == "" {
		// boards from before the d tag are addressed by their event id
		// until migration mints a stable identifier
		if !isLegacy {
			return nil, decodeErr(ev, "missing d tag")
		}
		id = ev.ID
		needsNewID = true
	}

	b := &domain.Board{
		ID:          id,
		PubKey:      ev.PubKey,
		Title:       ev.Tags.ValueDefault(TagTitle, domain.DefaultBoardTitle),
		Description: ev.Tags.Value(TagDescription),
		CreatedAt:   ev.CreatedAt,
		NeedsNewID:  needsNewID,
	}

	for _, t := range ev.Tags.FindAll(TagPubKey) {
		if t.Value() != "" {
			b.Maintainers = append(b.Maintainers, t.Value())
		}
	}
	b.IsNoZapBoard = ev.Tags.Value(TagZap) == ZapPolicyNone

	if isLegacy {
		b.NeedsMigration = true
		b.LegacyCardRefs = cardRefs
		if lc != nil {
			if b.Description == "" {
				b.Description = lc.Description
			}
			if lc.IsNoZapBoard {
				b.IsNoZapBoard = true
			}
			for _, col := range lc.Columns {
				b.Columns = append(b.Columns, domain.Column{ID: col.ID, Name: col.Name, Order: col.Order})
			}
		}
	}

	for _, t := range ev.Tags.FindAll(TagColumn) {
		if len(t) < 3 {
			continue
		}
		order := 0
		if len(t) > 3 {
			order, _ = strconv.Atoi(t[3])
		}
		b.Columns = append(b.Columns, domain.Column{ID: t[1], Name: t[2], Order: order})
	}

	b.SortColumns()
	return b, nil
}

// cardAddrRefs collects a-tag references pointing at card records. Their
// presence on a board is the legacy card-linkage schema.
func cardAddrRefs(tags nostr.Tags) []string {
	var refs []string
	for _, t := range tags.FindAll(TagAddr) {
		addr, err := nostr.ParseAddr(t.Value())
		if err != nil {
			continue
		}
		if addr.Kind == domain.KindCard {
			refs = append(refs, t.Value())
		}
	}
	return refs
}
