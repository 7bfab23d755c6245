package domain

import (
	"sort"
)

// CardLink is a cross-board reference carried on a card.
type CardLink struct {
	// BoardAddress is the replaceable address of the linked board.
	BoardAddress string
	// CardID is the d tag of the linked card.
	CardID string
	// ForwardLabel and BackwardLabel name the relation in both directions.
	ForwardLabel  string
	BackwardLabel string
}

// Tracking points a stub card at the record it mirrors. For tracked cards the
// reference is the source board address plus the card's d tag; for external
// items it is the raw event id.
type Tracking struct {
	// Kind of the mirrored record: KindCard, KindTrackedIssue, KindTrackedPatch.
	Kind int
	// Ref is the board address (card tracking) or event id (external tracking).
	Ref string
	// CardID is the mirrored card's d tag, card tracking only.
	CardID string
}

// Card is a kanban card record. A card with Tracking set is a stub whose
// title/description/status are projected from the mirrored record at load
// time and never stored.
type Card struct {
	// ID is the stable identifier (the d tag).
	ID     string
	PubKey string

	Title       string
	Description string
	// Status names the column the card sits in.
	Status string
	// Rank is the fractional position inside the column.
	Rank float64

	Attachments []string
	Assignees   []string
	Topics      []string
	// BoardRefs are addresses of the boards the card appears on.
	BoardRefs []string
	Links     []CardLink

	Tracking *Tracking

	// CreatedAt is the revision timestamp of the backing event.
	CreatedAt int64
}

// Address returns the replaceable address of the card record.
func (c *Card) Address() string {
	return addr(KindCard, c.PubKey, c.ID)
}

// IsTracking reports whether the card is a stub mirroring another record.
func (c *Card) IsTracking() bool {
	return c.Tracking != nil
}

// OnBoard reports whether the card references the given board address.
func (c *Card) OnBoard(boardAddress string) bool {
	for _, ref := range c.BoardRefs {
		if ref == boardAddress {
			return true
		}
	}
	return false
}

// SortCards orders cards by rank, d tag as the stable tiebreak.
func SortCards(cards []*Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Rank != cards[j].Rank {
			return cards[i].Rank < cards[j].Rank
		}
		return cards[i].ID < cards[j].ID
	})
}

// CardsInStatus filters cards to one column, preserving order.
func CardsInStatus(cards []*Card, status string) []*Card {
	var out []*Card
	for _, c := range cards {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out
}
