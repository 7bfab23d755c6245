package dto

import (
	"github.com/kanbanstr/board-sync-service/internal/domain"
	"github.com/kanbanstr/board-sync-service/pkg/convert"
)

type Column struct {
	ID    string `json:"id" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Order int    `json:"order"`
}

// Board is the API projection of a board record.
type Board struct {
	ID             string   `json:"id"`
	PubKey         string   `json:"pubkey"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Columns        []Column `json:"columns"`
	Maintainers    []string `json:"maintainers,omitempty"`
	IsNoZapBoard   bool     `json:"isNoZapBoard,omitempty"`
	NeedsMigration bool     `json:"needsMigration"`
	UpdatedAt      int64    `json:"updatedAt"`
}

// BoardWithCards is the detail view: the board plus its resolved cards.
type BoardWithCards struct {
	Board *Board  `json:"board"`
	Cards []*Card `json:"cards"`
}

type BoardListRequest struct {
	Scope string `form:"scope" binding:"omitempty,oneof=all mine maintained"`
}

type BoardGetRequest struct {
	PubKey string `form:"pubkey" binding:"required"`
	ID     string `form:"id" binding:"required"`
}

type BoardCreateRequest struct {
	Title       string   `json:"title" binding:"omitempty,max=256"`
	Description string   `json:"description" binding:"omitempty,max=4096"`
	Columns     []Column `json:"columns" binding:"required,min=1,dive"`
	Maintainers []string `json:"maintainers" binding:"omitempty,dive,hexpubkey"`
}

type BoardUpdateRequest struct {
	ID          string   `json:"id" binding:"required"`
	PubKey      string   `json:"pubkey" binding:"required"`
	Title       string   `json:"title" binding:"omitempty,max=256"`
	Description string   `json:"description" binding:"omitempty,max=4096"`
	Columns     []Column `json:"columns" binding:"required,min=1,dive"`
	Maintainers []string `json:"maintainers" binding:"omitempty,dive,hexpubkey"`
}

// ToBoard maps the entity to its API projection.
func ToBoard(b *domain.Board) *Board {
	out := &Board{}
	convert.StructAssign(b, out)
	out.UpdatedAt = b.CreatedAt
	out.Columns = make([]Column, 0, len(b.Columns))
	for _, col := range b.Columns {
		out.Columns = append(out.Columns, Column{ID: col.ID, Name: col.Name, Order: col.Order})
	}
	return out
}

// ToBoards maps a listing.
func ToBoards(boards []*domain.Board) []*Board {
	out := make([]*Board, 0, len(boards))
	for _, b := range boards {
		out = append(out, ToBoard(b))
	}
	return out
}

// Columns converts request columns to entities.
func ToDomainColumns(cols []Column) []domain.Column {
	out := make([]domain.Column, 0, len(cols))
	for _, col := range cols {
		out = append(out, domain.Column{ID: col.ID, Name: col.Name, Order: col.Order})
	}
	return out
}
