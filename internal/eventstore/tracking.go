package eventstore

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/kanbanstr/board-sync-service/internal/codec"
	"github.com/kanbanstr/board-sync-service/internal/domain"
	"github.com/kanbanstr/board-sync-service/internal/nostr"
	"github.com/kanbanstr/board-sync-service/pkg/logger"
	"github.com/kanbanstr/board-sync-service/pkg/util"
)

const externalTitleMax = 80

// TrackingResolver projects mirrored records into tracking stubs. The stub
// keeps its own identity and board references; title, description and status
// come from the tracked record at load time.
type TrackingResolver struct {
	client nostr.Client
	logger *zap.Logger
}

func NewTrackingResolver(client nostr.Client, lg *zap.Logger) *TrackingResolver {
	return &TrackingResolver{client: client, logger: lg}
}

// Resolve returns a copy of the stub with projected fields, or an error when
// the mirrored record cannot be loaded. Callers omit unresolvable stubs.
func (t *TrackingResolver) Resolve(ctx context.Context, stub *domain.Card) (*domain.Card, error) {
	if !stub.IsTracking() {
		return stub, nil
	}
	switch stub.Tracking.Kind {
	case domain.KindCard:
		return t.resolveCard(ctx, stub)
	case domain.KindTrackedIssue, domain.KindTrackedPatch:
		return t.resolveExternal(ctx, stub)
	default:
		return nil, errors.Errorf("untrackable kind %d", stub.Tracking.Kind)
	}
}

// resolveCard mirrors a card from another board. Only revisions authored by
// that board's owner or maintainers count; anyone can publish an event with
// someone else's d tag, so authorship is the trust boundary.
func (t *TrackingResolver) resolveCard(ctx context.Context, stub *domain.Card) (*domain.Card, error) {
	boardAddr, err := nostr.ParseAddr(stub.Tracking.Ref)
	if err != nil {
		return nil, errors.Wrap(err, "tracking reference")
	}

	boardEvents, err := t.client.Fetch(ctx, nostr.Filter{
		Kinds:   []int{domain.KindBoard},
		Authors: []string{boardAddr.PubKey},
		DTags:   []string{boardAddr.Identifier},
	})
	if err != nil {
		return nil, errors.Wrap(err, "fetch source board")
	}
	boardEv := LatestOne(boardEvents)
	if boardEv == nil {
		return nil, errors.Wrapf(domain.ErrNotFound, "source board %s", stub.Tracking.Ref)
	}
	board, err := codec.DecodeBoard(boardEv)
	if err != nil {
		return nil, err
	}

	// fetch by d tag without an author filter, then gate on authorship
	revisions, err := t.client.Fetch(ctx, nostr.Filter{
		Kinds: []int{domain.KindCard},
		DTags: []string{stub.Tracking.CardID},
	})
	if err != nil {
		return nil, errors.Wrap(err, "fetch tracked card")
	}

	allowed := append([]string{board.PubKey}, board.Maintainers...)
	var trusted []*nostr.Event
	for _, ev := range revisions {
		if util.Inarray(allowed, ev.PubKey) {
			trusted = append(trusted, ev)
			continue
		}
		t.logger.Debug("ignoring tracked card revision from non-maintainer",
			zap.String(logger.FieldCard, stub.Tracking.CardID),
			zap.String(logger.FieldPubKey, ev.PubKey))
	}

	winner := LatestOne(trusted)
	if winner == nil {
		return nil, errors.Wrapf(domain.ErrNotFound, "tracked card %s", stub.Tracking.CardID)
	}
	source, err := codec.DecodeCard(winner)
	if err != nil {
		return nil, err
	}

	out := *stub
	out.Title = source.Title
	out.Description = source.Description
	out.Status = source.Status
	out.Assignees = source.Assignees
	out.Attachments = source.Attachments
	return &out, nil
}

// resolveExternal mirrors an issue or patch event. Status comes from the
// newest status-trail event referencing the item; no trail means Open.
func (t *TrackingResolver) resolveExternal(ctx context.Context, stub *domain.Card) (*domain.Card, error) {
	items, err := t.client.Fetch(ctx, nostr.Filter{
		IDs:   []string{stub.Tracking.Ref},
		Kinds: []int{stub.Tracking.Kind},
	})
	if err != nil {
		return nil, errors.Wrap(err, "fetch tracked item")
	}
	if len(items) == 0 {
		return nil, errors.Wrapf(domain.ErrNotFound, "tracked item %s", stub.Tracking.Ref)
	}
	item := items[0]

	statusEvents, err := t.client.Fetch(ctx, nostr.Filter{
		Kinds: []int{
			domain.KindStatusOpen,
			domain.KindStatusResolved,
			domain.KindStatusClosed,
			domain.KindStatusDraft,
		},
		EventRefs: []string{item.ID},
	})
	if err != nil {
		return nil, errors.Wrap(err, "fetch status trail")
	}

	status := domain.StatusOpen
	if newest := LatestOne(statusEvents); newest != nil {
		status = domain.StatusLabel(newest.Kind, stub.Tracking.Kind)
	}

	title := item.Tags.Value("subject")
	if title == "" {
		title = util.FirstLine(item.Content, externalTitleMax)
	}
	if title == "" {
		title = domain.DefaultCardTitle
	}

	out := *stub
	out.Title = title
	out.Description = item.Content
	out.Status = status
	return &out, nil
}
