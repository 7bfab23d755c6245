package domain

import (
	"sort"
	"strconv"

	"github.com/kanbanstr/board-sync-service/pkg/util"
)

// Default titles for records published without one.
const (
	DefaultBoardTitle = "Untitled Board"
	DefaultCardTitle  = "Untitled Card"
)

// Column is a lane on a board, ordered by Order.
type Column struct {
	ID    string
	Name  string
	Order int
}

// Board is a kanban board record.
type Board struct {
	// ID is the stable identifier (the d tag), not the event id.
	ID     string
	PubKey string

	Title       string
	Description string
	Columns     []Column
	// Maintainers are public keys allowed to contribute cards.
	Maintainers  []string
	IsNoZapBoard bool

	// CreatedAt is the revision timestamp of the backing event.
	CreatedAt int64

	// NeedsMigration marks a board still stored in the legacy format.
	NeedsMigration bool
	// NeedsNewID marks a legacy board whose record carried no d tag; the
	// event id stands in and migration mints a fresh identifier.
	NeedsNewID bool
	// LegacyCardRefs holds the card addresses a legacy board links to.
	LegacyCardRefs []string
}

// Address returns the replaceable address of the board record.
func (b *Board) Address() string {
	return addr(KindBoard, b.PubKey, b.ID)
}

// IsOwner reports whether pubKey owns the board.
func (b *Board) IsOwner(pubKey string) bool {
	return pubKey != "" && pubKey == b.PubKey
}

// CanContribute reports whether pubKey is the owner or a listed maintainer.
func (b *Board) CanContribute(pubKey string) bool {
	return b.IsOwner(pubKey) || util.Inarray(b.Maintainers, pubKey)
}

// SortColumns orders columns by Order, then ID for equal orders.
func (b *Board) SortColumns() {
	sort.SliceStable(b.Columns, func(i, j int) bool {
		if b.Columns[i].Order != b.Columns[j].Order {
			return b.Columns[i].Order < b.Columns[j].Order
		}
		return b.Columns[i].ID < b.Columns[j].ID
	})
}

// SortBoards orders boards newest revision first, ID as tiebreak.
func SortBoards(boards []*Board) {
	sort.SliceStable(boards, func(i, j int) bool {
		if boards[i].CreatedAt != boards[j].CreatedAt {
			return boards[i].CreatedAt > boards[j].CreatedAt
		}
		return boards[i].ID < boards[j].ID
	})
}

func addr(kind int, pubKey, id string) string {
	return strconv.Itoa(kind) + ":" + pubKey + ":" + id
}
