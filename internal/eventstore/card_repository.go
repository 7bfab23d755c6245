package eventstore

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/kanbanstr/board-sync-service/internal/codec"
	"github.com/kanbanstr/board-sync-service/internal/domain"
	"github.com/kanbanstr/board-sync-service/internal/nostr"
	"github.com/kanbanstr/board-sync-service/pkg/logger"
	"github.com/kanbanstr/board-sync-service/pkg/workerpool"
)

type cardRepository struct {
	client   nostr.Client
	resolver *TrackingResolver
	pool     *workerpool.Pool
	logger   *zap.Logger
}

var _ domain.CardRepository = (*cardRepository)(nil)

// NewCardRepository builds the card repository. The worker pool bounds
// concurrent tracking resolution; nil disables concurrency.
func NewCardRepository(client nostr.Client, resolver *TrackingResolver, pool *workerpool.Pool, lg *zap.Logger) domain.CardRepository {
	return &cardRepository{client: client, resolver: resolver, pool: pool, logger: lg}
}

func (r *cardRepository) ListByBoard(ctx context.Context, b *domain.Board) ([]*domain.Card, error) {
	var events []*nostr.Event
	var err error

	if b.NeedsMigration && len(b.LegacyCardRefs) > 0 {
		events, err = r.fetchLegacyCards(ctx, b)
	} else {
		events, err = r.client.Fetch(ctx, nostr.Filter{
			Kinds:    []int{domain.KindCard},
			AddrRefs: []string{b.Address()},
		})
	}
	if err != nil {
		return nil, errors.Wrap(err, "fetch cards")
	}

	var cards []*domain.Card
	for _, ev := range Latest(events) {
		c, err := codec.DecodeCard(ev)
		if err != nil {
			r.logger.Warn("skipping undecodable card",
				zap.String(logger.FieldEventID, ev.ID),
				zap.String(logger.FieldBoard, b.ID),
				zap.Error(err))
			continue
		}
		cards = append(cards, c)
	}

	cards = r.resolveStubs(ctx, cards)
	domain.SortCards(cards)
	return cards, nil
}

// fetchLegacyCards follows the board's a-tag card references by author and
// identifier, the way the retired schema linked cards.
func (r *cardRepository) fetchLegacyCards(ctx context.Context, b *domain.Board) ([]*nostr.Event, error) {
	var authors, ids []string
	for _, ref := range b.LegacyCardRefs {
		addr, err := nostr.ParseAddr(ref)
		if err != nil {
			r.logger.Warn("skipping malformed card reference",
				zap.String(logger.FieldBoard, b.ID),
				zap.Error(err))
			continue
		}
		authors = append(authors, addr.PubKey)
		ids = append(ids, addr.Identifier)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return r.client.Fetch(ctx, nostr.Filter{
		Kinds:   []int{domain.KindCard},
		Authors: authors,
		DTags:   ids,
	})
}

// resolveStubs projects mirrored records into tracking stubs. Unresolvable
// stubs are dropped from the listing.
func (r *cardRepository) resolveStubs(ctx context.Context, cards []*domain.Card) []*domain.Card {
	if r.resolver == nil {
		return cards
	}

	resolved := make([]*domain.Card, len(cards))
	var wg sync.WaitGroup

	for i, c := range cards {
		if !c.IsTracking() {
			resolved[i] = c
			continue
		}
		i, c := i, c
		run := func(ctx context.Context) error {
			out, err := r.resolver.Resolve(ctx, c)
			if err != nil {
				r.logger.Debug("dropping unresolvable tracking stub",
					zap.String(logger.FieldCard, c.ID),
					zap.Error(err))
				return nil
			}
			resolved[i] = out
			return nil
		}

		if r.pool != nil {
			wg.Add(1)
			submitted := r.pool.SubmitAsync(ctx, func(ctx context.Context) error {
				defer wg.Done()
				return run(ctx)
			})
			if submitted != nil {
				wg.Done()
				_ = run(ctx)
			}
		} else {
			_ = run(ctx)
		}
	}
	wg.Wait()

	out := make([]*domain.Card, 0, len(resolved))
	for _, c := range resolved {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (r *cardRepository) Get(ctx context.Context, pubKey, id string) (*domain.Card, error) {
	events, err := r.client.Fetch(ctx, nostr.Filter{
		Kinds:   []int{domain.KindCard},
		Authors: []string{pubKey},
		DTags:   []string{id},
	})
	if err != nil {
		return nil, errors.Wrap(err, "fetch card")
	}

	ev := LatestOne(events)
	if ev == nil {
		return nil, errors.Wrapf(domain.ErrNotFound, "card %s:%s", pubKey, id)
	}
	return codec.DecodeCard(ev)
}

func (r *cardRepository) Publish(ctx context.Context, c *domain.Card) error {
	ev := codec.EncodeCard(c)
	if err := r.client.Publish(ctx, ev); err != nil {
		return errors.Wrapf(err, "publish card %s", c.ID)
	}
	r.logger.Info("card published",
		zap.String(logger.FieldCard, c.ID),
		zap.String(logger.FieldPubKey, c.PubKey))
	return nil
}
