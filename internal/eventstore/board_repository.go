package eventstore

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/kanbanstr/board-sync-service/internal/codec"
	"github.com/kanbanstr/board-sync-service/internal/domain"
	"github.com/kanbanstr/board-sync-service/internal/nostr"
	"github.com/kanbanstr/board-sync-service/pkg/logger"
)

type boardRepository struct {
	client nostr.Client
	logger *zap.Logger
}

var _ domain.BoardRepository = (*boardRepository)(nil)

// NewBoardRepository builds the board repository over the event client.
func NewBoardRepository(client nostr.Client, lg *zap.Logger) domain.BoardRepository {
	return &boardRepository{client: client, logger: lg}
}

func (r *boardRepository) List(ctx context.Context, scope domain.BoardScope) ([]*domain.Board, error) {
	f := nostr.Filter{Kinds: []int{domain.KindBoard}}

	switch scope {
	case domain.ScopeOwned:
		me, err := r.client.CurrentUser()
		if err != nil {
			return nil, err
		}
		f.Authors = []string{me}
	case domain.ScopeMaintained:
		me, err := r.client.CurrentUser()
		if err != nil {
			return nil, err
		}
		f.PTags = []string{me}
	}

	events, err := r.client.Fetch(ctx, f)
	if err != nil {
		return nil, errors.Wrap(err, "fetch boards")
	}

	boards := make([]*domain.Board, 0, len(events))
	for _, ev := range Latest(events) {
		b, err := codec.DecodeBoard(ev)
		if err != nil {
			// a single broken record must not take the listing down
			r.logger.Warn("skipping undecodable board",
				zap.String(logger.FieldEventID, ev.ID),
				zap.String(logger.FieldPubKey, ev.PubKey),
				zap.Error(err))
			continue
		}
		boards = append(boards, b)
	}

	domain.SortBoards(boards)
	return boards, nil
}

func (r *boardRepository) Get(ctx context.Context, pubKey, id string) (*domain.Board, error) {
	events, err := r.client.Fetch(ctx, nostr.Filter{
		Kinds:   []int{domain.KindBoard},
		Authors: []string{pubKey},
		DTags:   []string{id},
	})
	if err != nil {
		return nil, errors.Wrap(err, "fetch board")
	}

	ev := LatestOne(events)
	if ev == nil {
		// legacy boards may predate the d tag; their identifier is the
		// event id
		events, err = r.client.Fetch(ctx, nostr.Filter{
			Kinds:   []int{domain.KindBoard},
			Authors: []string{pubKey},
			IDs:     []string{id},
		})
		if err != nil {
			return nil, errors.Wrap(err, "fetch board")
		}
		ev = LatestOne(events)
	}
	if ev == nil {
		return nil, errors.Wrapf(domain.ErrNotFound, "board %s:%s", pubKey, id)
	}
	return codec.DecodeBoard(ev)
}

func (r *boardRepository) Publish(ctx context.Context, b *domain.Board) error {
	ev := codec.EncodeBoard(b)
	if err := r.client.Publish(ctx, ev); err != nil {
		return errors.Wrapf(err, "publish board %s", b.ID)
	}
	r.logger.Info("board published",
		zap.String(logger.FieldBoard, b.ID),
		zap.String(logger.FieldPubKey, b.PubKey))
	return nil
}
