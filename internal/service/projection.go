package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/kanbanstr/board-sync-service/internal/domain"
	"github.com/kanbanstr/board-sync-service/pkg/logger"
)

// Projection is the in-memory snapshot of the relay state: the board list
// and the resolved card list per board. Writes go straight to the event log;
// the projection converges by wholesale replacement after each successful
// write and on the periodic refresh task.
type Projection struct {
	boards domain.BoardRepository
	cards  domain.CardRepository
	logger *zap.Logger

	sf singleflight.Group

	mu          sync.RWMutex
	boardList   []*domain.Board
	cardsByAddr map[string][]*domain.Card
	refreshedAt time.Time
}

func NewProjection(boards domain.BoardRepository, cards domain.CardRepository, lg *zap.Logger) *Projection {
	return &Projection{
		boards:      boards,
		cards:       cards,
		logger:      lg,
		cardsByAddr: make(map[string][]*domain.Card),
	}
}

// RefreshBoards re-fetches the full board list. Concurrent callers collapse
// into one fetch.
func (p *Projection) RefreshBoards(ctx context.Context) error {
	_, err, _ := p.sf.Do("boards", func() (interface{}, error) {
		list, err := p.boards.List(ctx, domain.ScopeAll)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.boardList = list
		p.refreshedAt = time.Now()
		p.mu.Unlock()
		return nil, nil
	})
	return err
}

// RefreshBoard re-fetches one board's card list.
func (p *Projection) RefreshBoard(ctx context.Context, b *domain.Board) error {
	addr := b.Address()
	_, err, _ := p.sf.Do("cards:"+addr, func() (interface{}, error) {
		cards, err := p.cards.ListByBoard(ctx, b)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.cardsByAddr[addr] = cards
		p.mu.Unlock()
		return nil, nil
	})
	return err
}

// RefreshAll rebuilds the whole snapshot: the board list, then every
// board's cards with bounded concurrency.
func (p *Projection) RefreshAll(ctx context.Context) error {
	if err := p.RefreshBoards(ctx); err != nil {
		return err
	}

	p.mu.RLock()
	boards := append([]*domain.Board(nil), p.boardList...)
	p.mu.RUnlock()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, b := range boards {
		b := b
		g.Go(func() error {
			if err := p.RefreshBoard(gctx, b); err != nil {
				// one board failing must not abort the sweep
				p.logger.Warn("projection refresh failed for board",
					zap.String(logger.FieldBoard, b.ID),
					zap.Error(err))
			}
			return nil
		})
	}
	return g.Wait()
}

// Boards returns the cached board list and its age.
func (p *Projection) Boards() ([]*domain.Board, time.Time) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.boardList, p.refreshedAt
}

// Cards returns the cached card list for a board address.
func (p *Projection) Cards(boardAddr string) ([]*domain.Card, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	cards, ok := p.cardsByAddr[boardAddr]
	return cards, ok
}
