package domain

import (
	"context"

	"github.com/pkg/errors"
)

// BoardScope narrows a board listing.
type BoardScope int

const (
	// ScopeAll lists every board the relays return.
	ScopeAll BoardScope = iota
	// ScopeOwned lists boards authored by the acting identity.
	ScopeOwned
	// ScopeMaintained lists boards naming the acting identity as maintainer.
	ScopeMaintained
)

// ErrNotFound marks a missing record. Repositories return it wrapped.
var ErrNotFound = errors.New("record not found")

// BoardRepository reads and writes board records in the event log.
type BoardRepository interface {
	// List returns the newest revision of every board in scope.
	List(ctx context.Context, scope BoardScope) ([]*Board, error)
	// Get loads one board by owner and identifier, legacy-aware.
	Get(ctx context.Context, pubKey, id string) (*Board, error)
	// Publish writes the board as a new revision.
	Publish(ctx context.Context, b *Board) error
}

// CardRepository reads and writes card records in the event log.
type CardRepository interface {
	// ListByBoard returns the board's cards with tracking stubs resolved
	// and unresolvable stubs omitted. Handles legacy boards.
	ListByBoard(ctx context.Context, b *Board) ([]*Card, error)
	// Get loads one card by author and identifier.
	Get(ctx context.Context, pubKey, id string) (*Card, error)
	// Publish writes the card as a new revision.
	Publish(ctx context.Context, c *Card) error
}
