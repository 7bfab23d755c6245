package codec

import (
	"strconv"

	"github.com/kanbanstr/board-sync-service/internal/domain"
	"github.com/kanbanstr/board-sync-service/internal/nostr"
	"github.com/kanbanstr/board-sync-service/pkg/convert"
	"github.com/kanbanstr/board-sync-service/pkg/util"
)

// EncodeCard builds a card event in the current tag format. Assignees are
// emitted as p plus a duplicate zap tag for payment routing. Tracking stubs
// carry identity, board refs, rank and the tracking coordinates.
func EncodeCard(c *domain.Card) *nostr.Event {
	tags := nostr.Tags{
		{TagD, c.ID},
	}

	if c.IsTracking() {
		tags = append(tags, nostr.Tag{TagKind, strconv.Itoa(c.Tracking.Kind)})
		if c.Tracking.Kind == domain.KindCard {
			tags = append(tags, nostr.Tag{TagTracking, c.Tracking.Ref, c.Tracking.CardID})
		} else {
			tags = append(tags, nostr.Tag{TagTracking, c.Tracking.Ref})
		}
		// position in the hosting column is stub-local state; title and
		// status stay projections of the tracked record
		tags = append(tags, nostr.Tag{TagRank, strconv.FormatFloat(c.Rank, 'f', -1, 64)})
	} else {
		title := c.Title
		if title == "" {
			title = domain.DefaultCardTitle
		}
		tags = append(tags,
			nostr.Tag{TagTitle, title},
			nostr.Tag{TagDescription, c.Description},
			nostr.Tag{TagAlt, "A card titled " + title},
			nostr.Tag{TagStatus, c.Status},
			nostr.Tag{TagRank, strconv.FormatFloat(c.Rank, 'f', -1, 64)},
		)
		for _, u := range c.Attachments {
			tags = append(tags, nostr.Tag{TagURL, u})
		}
		for _, p := range c.Assignees {
			tags = append(tags, nostr.Tag{TagPubKey, p})
			tags = append(tags, nostr.Tag{TagZap, p})
		}
		for _, t := range c.Topics {
			tags = append(tags, nostr.Tag{TagTopic, t})
		}
	}

	for _, ref := range c.BoardRefs {
		tags = append(tags, nostr.Tag{TagAddr, ref})
	}
	for _, l := range c.Links {
		tags = append(tags, nostr.Tag{TagLink, l.BoardAddress, l.CardID, l.ForwardLabel, l.BackwardLabel})
	}

	return &nostr.Event{
		PubKey: c.PubKey,
		Kind:   domain.KindCard,
		Tags:   tags,
	}
}

// DecodeCard turns a card event into the entity. Legacy records keep their
// fields in a JSON content payload; both formats decode here. Malformed rank
// values fall back to 0.
func DecodeCard(ev *nostr.Event) (*domain.Card, error) {
	if ev.Kind != domain.KindCard {
		return nil, decodeErr(ev, "not a card record")
	}
	id := ev.D()
	if id == "" {
		return nil, decodeErr(ev, "missing d tag")
	}

	c := &domain.Card{
		ID:          id,
		PubKey:      ev.PubKey,
		Title:       ev.Tags.ValueDefault(TagTitle, domain.DefaultCardTitle),
		Description: ev.Tags.Value(TagDescription),
		Status:      ev.Tags.Value(TagStatus),
		Rank:        convert.StrTo(ev.Tags.Value(TagRank)).MustFloat64(),
		CreatedAt:   ev.CreatedAt,
	}

	if tr := decodeTracking(ev.Tags); tr != nil {
		c.Tracking = tr
	}

	for _, t := range ev.Tags.FindAll(TagURL) {
		if t.Value() != "" {
			c.Attachments = append(c.Attachments, t.Value())
		}
	}
	// p is authoritative; zap values with no matching p are the retired
	// assignee form and fold in
	for _, t := range ev.Tags.FindAll(TagPubKey) {
		if t.Value() != "" {
			c.Assignees = append(c.Assignees, t.Value())
		}
	}
	for _, t := range ev.Tags.FindAll(TagZap) {
		if v := t.Value(); v != "" && !util.Inarray(c.Assignees, v) {
			c.Assignees = append(c.Assignees, v)
		}
	}
	for _, t := range ev.Tags.FindAll(TagTopic) {
		if t.Value() != "" {
			c.Topics = append(c.Topics, t.Value())
		}
	}
	for _, t := range ev.Tags.FindAll(TagAddr) {
		addr, err := nostr.ParseAddr(t.Value())
		if err != nil {
			continue
		}
		if addr.Kind == domain.KindBoard {
			c.BoardRefs = append(c.BoardRefs, t.Value())
		}
	}
	for _, t := range ev.Tags.FindAll(TagLink) {
		if len(t) < 3 {
			continue
		}
		l := domain.CardLink{BoardAddress: t[1], CardID: t[2]}
		if len(t) > 3 {
			l.ForwardLabel = t[3]
		}
		if len(t) > 4 {
			l.BackwardLabel = t[4]
		}
		c.Links = append(c.Links, l)
	}

	// legacy payload fills whatever the tags did not provide
	if ev.Content != "" {
		var lc legacyCardContent
		if err := decodeLegacyCardContent(ev.Content, &lc); err == nil {
			if c.Description == "" {
				c.Description = lc.Description
			}
			if c.Status == "" {
				c.Status = lc.Status
			}
			if ev.Tags.Find(TagRank) == nil {
				c.Rank = lc.Order
			}
			if len(c.Attachments) == 0 {
				c.Attachments = append(c.Attachments, lc.Attachments...)
			}
		}
	}

	return c, nil
}

func decodeTracking(tags nostr.Tags) *domain.Tracking {
	kindStr := tags.Value(TagKind)
	trackTag := tags.Find(TagTracking)
	if kindStr == "" || trackTag == nil {
		return nil
	}
	kind, err := strconv.Atoi(kindStr)
	if err != nil || !domain.IsTrackableKind(kind) {
		return nil
	}
	tr := &domain.Tracking{Kind: kind, Ref: trackTag.Value()}
	if kind == domain.KindCard && len(trackTag) > 2 {
		tr.CardID = trackTag[2]
	}
	if tr.Ref == "" {
		return nil
	}
	if kind == domain.KindCard && tr.CardID == "" {
		return nil
	}
	return tr
}
