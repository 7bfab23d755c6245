package nostr

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kanbanstr/board-sync-service/pkg/logger"
)

// PoolConfig configures the relay pool.
type PoolConfig struct {
	// Relays are websocket URLs, e.g. wss://relay.example.com.
	Relays []string
	// FetchTimeout bounds a single fetch when a relay never sends EOSE.
	FetchTimeout time.Duration
	// PublishTimeout bounds the wait for a relay OK.
	PublishTimeout time.Duration
}

// Pool fans fetches and publishes out to every configured relay and merges
// the results. It is the production Client implementation.
type Pool struct {
	cfg    PoolConfig
	relays []*relay
	signer Signer
	logger *zap.Logger
}

var _ Client = (*Pool)(nil)

func NewPool(cfg PoolConfig, signer Signer, lg *zap.Logger) *Pool {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Second
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 10 * time.Second
	}
	p := &Pool{
		cfg:    cfg,
		signer: signer,
		logger: lg,
	}
	for _, url := range cfg.Relays {
		p.relays = append(p.relays, newRelay(url, lg))
	}
	return p
}

// Fetch queries every relay and returns the union of results, deduplicated
// by event id. Byte-identical events on several relays collapse here;
// superseded revisions do not, that is the conflict resolver's job.
func (p *Pool) Fetch(ctx context.Context, f Filter) ([]*Event, error) {
	if len(p.relays) == 0 {
		return nil, errors.New("no relays configured")
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, p.cfg.FetchTimeout)
	defer cancel()

	results := make(chan *Event, 256)
	g, gctx := errgroup.WithContext(ctx)
	failures := make([]error, len(p.relays))

	for i, r := range p.relays {
		i, r := i, r
		g.Go(func() error {
			subID := uuid.New().String()
			sub, err := r.subscribe(subID, f)
			if err != nil {
				// a dead relay must not fail the whole fetch
				failures[i] = err
				return nil
			}
			defer r.unsubscribe(subID)

			for {
				select {
				case ev := <-sub.events:
					select {
					case results <- ev:
					case <-gctx.Done():
						return nil
					}
				case <-sub.eose:
					return nil
				case <-gctx.Done():
					return nil
				}
			}
		})
	}

	done := make(chan struct{})
	var merged []*Event
	seen := make(map[string]struct{})
	go func() {
		defer close(done)
		for ev := range results {
			if !f.Matches(ev) {
				continue
			}
			if _, ok := seen[ev.ID]; ok {
				continue
			}
			seen[ev.ID] = struct{}{}
			merged = append(merged, ev)
		}
	}()

	_ = g.Wait()
	close(results)
	<-done

	var failed int
	for _, err := range failures {
		if err != nil {
			failed++
		}
	}
	if failed == len(p.relays) {
		fetchErrors.Inc()
		return nil, errors.Errorf("all %d relays unreachable", failed)
	}

	fetchTotal.Inc()
	fetchDuration.Observe(time.Since(start).Seconds())
	p.logger.Debug("fetch merged",
		zap.Int(logger.FieldCount, len(merged)),
		zap.Duration(logger.FieldDuration, time.Since(start)))
	return merged, nil
}

// Publish stamps, signs and broadcasts the event. It succeeds once any relay
// acknowledges; other relays get the write best-effort.
func (p *Pool) Publish(ctx context.Context, e *Event) error {
	if p.signer == nil {
		return ErrReadOnly
	}
	if e.PubKey == "" {
		e.PubKey = p.signer.PubKey()
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}
	if err := p.signer.Sign(e); err != nil {
		return errors.Wrap(err, "sign event")
	}

	acked := make(chan struct{}, len(p.relays))
	g, _ := errgroup.WithContext(ctx)
	for _, r := range p.relays {
		r := r
		g.Go(func() error {
			if err := r.publish(e, p.cfg.PublishTimeout); err != nil {
				p.logger.Debug("publish not acknowledged",
					zap.String(logger.FieldRelay, r.url),
					zap.Error(err))
				return err
			}
			acked <- struct{}{}
			return nil
		})
	}
	err := g.Wait()
	close(acked)

	if len(acked) == 0 {
		publishErrors.Inc()
		return errors.Wrap(err, "no relay acknowledged the event")
	}
	publishTotal.Inc()
	return nil
}

// CurrentUser returns the signer's public key.
func (p *Pool) CurrentUser() (string, error) {
	if p.signer == nil {
		return "", ErrReadOnly
	}
	return p.signer.PubKey(), nil
}

// Close tears down every relay connection.
func (p *Pool) Close() {
	for _, r := range p.relays {
		r.close()
	}
}
