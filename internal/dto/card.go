package dto

import (
	"github.com/kanbanstr/board-sync-service/internal/domain"
	"github.com/kanbanstr/board-sync-service/pkg/convert"
)

type CardLink struct {
	BoardAddress  string `json:"boardAddress" binding:"required"`
	CardID        string `json:"cardId" binding:"required"`
	ForwardLabel  string `json:"forwardLabel"`
	BackwardLabel string `json:"backwardLabel"`
}

type CardTracking struct {
	Kind   int    `json:"kind" binding:"required"`
	Ref    string `json:"ref" binding:"required"`
	CardID string `json:"cardId"`
}

// Card is the API projection of a card record, tracking already resolved.
type Card struct {
	ID          string        `json:"id"`
	PubKey      string        `json:"pubkey"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      string        `json:"status"`
	Rank        float64       `json:"rank"`
	Attachments []string      `json:"attachments,omitempty"`
	Assignees   []string      `json:"assignees,omitempty"`
	Topics      []string      `json:"topics,omitempty"`
	Links       []CardLink    `json:"links,omitempty"`
	Tracking    *CardTracking `json:"tracking,omitempty"`
	UpdatedAt   int64         `json:"updatedAt"`
}

type CardCreateRequest struct {
	BoardPubKey string        `json:"boardPubkey" binding:"required"`
	BoardID     string        `json:"boardId" binding:"required"`
	Title       string        `json:"title" binding:"omitempty,max=256"`
	Description string        `json:"description" binding:"omitempty,max=65536"`
	Status      string        `json:"status" binding:"required"`
	Attachments []string      `json:"attachments" binding:"omitempty,dive,url"`
	Assignees   []string      `json:"assignees" binding:"omitempty,dive,hexpubkey"`
	Topics      []string      `json:"topics"`
	Links       []CardLink    `json:"links" binding:"omitempty,dive"`
	Tracking    *CardTracking `json:"tracking"`
}

type CardUpdateRequest struct {
	ID          string     `json:"id" binding:"required"`
	PubKey      string     `json:"pubkey" binding:"required"`
	BoardPubKey string     `json:"boardPubkey" binding:"required"`
	BoardID     string     `json:"boardId" binding:"required"`
	Title       string     `json:"title" binding:"omitempty,max=256"`
	Description string     `json:"description" binding:"omitempty,max=65536"`
	Status      string     `json:"status" binding:"required"`
	Attachments []string   `json:"attachments" binding:"omitempty,dive,url"`
	Assignees   []string   `json:"assignees" binding:"omitempty,dive,hexpubkey"`
	Topics      []string   `json:"topics"`
	Links       []CardLink `json:"links" binding:"omitempty,dive"`
}

type CardMoveRequest struct {
	ID          string `json:"id" binding:"required"`
	PubKey      string `json:"pubkey" binding:"required"`
	BoardPubKey string `json:"boardPubkey" binding:"required"`
	BoardID     string `json:"boardId" binding:"required"`
	// Status is the target column.
	Status string `json:"status" binding:"required"`
	// Index is the target position inside the column.
	Index int `json:"index" binding:"min=0"`
}

// ToCard maps the entity to its API projection.
func ToCard(c *domain.Card) *Card {
	out := &Card{}
	convert.StructAssign(c, out)
	out.UpdatedAt = c.CreatedAt
	out.Links = make([]CardLink, 0, len(c.Links))
	for _, l := range c.Links {
		out.Links = append(out.Links, CardLink(l))
	}
	if c.Tracking != nil {
		out.Tracking = &CardTracking{Kind: c.Tracking.Kind, Ref: c.Tracking.Ref, CardID: c.Tracking.CardID}
	}
	return out
}

// ToCards maps a listing.
func ToCards(cards []*domain.Card) []*Card {
	out := make([]*Card, 0, len(cards))
	for _, c := range cards {
		out = append(out, ToCard(c))
	}
	return out
}

// ToDomainLinks converts request links to entities.
func ToDomainLinks(links []CardLink) []domain.CardLink {
	out := make([]domain.CardLink, 0, len(links))
	for _, l := range links {
		out = append(out, domain.CardLink(l))
	}
	return out
}
