package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/kanbanstr/board-sync-service/internal/domain"
	"github.com/kanbanstr/board-sync-service/internal/dto"
	"github.com/kanbanstr/board-sync-service/internal/nostr"
	"github.com/kanbanstr/board-sync-service/pkg/code"
	"github.com/kanbanstr/board-sync-service/pkg/logger"
	"github.com/kanbanstr/board-sync-service/pkg/util"
)

// CardService creates, edits and moves cards.
type CardService interface {
	Create(ctx context.Context, req *dto.CardCreateRequest) (*dto.Card, error)
	Update(ctx context.Context, req *dto.CardUpdateRequest) (*dto.Card, error)
	Move(ctx context.Context, req *dto.CardMoveRequest) (*dto.Card, error)
}

type cardService struct {
	client     nostr.Client
	boards     domain.BoardRepository
	cards      domain.CardRepository
	projection *Projection
	logger     *zap.Logger
}

var _ CardService = (*cardService)(nil)

func NewCardService(opts Options) CardService {
	return &cardService{
		client:     opts.Client,
		boards:     opts.Boards,
		cards:      opts.Cards,
		projection: opts.Projection,
		logger:     opts.Logger,
	}
}

// Create publishes a new card on the board. The owner and listed maintainers
// may contribute; everyone else is rejected before anything is published.
func (s *cardService) Create(ctx context.Context, req *dto.CardCreateRequest) (*dto.Card, error) {
	me, err := currentUser(s.client)
	if err != nil {
		return nil, err
	}

	board, err := s.boards.Get(ctx, req.BoardPubKey, req.BoardID)
	if err != nil {
		return nil, asCodeError(err)
	}
	if !board.CanContribute(me) {
		return nil, code.ErrorPermissionDenied.Clone().WithBoard(board.Address())
	}

	card := &domain.Card{
		ID:          util.NewIdentifier(),
		PubKey:      me,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Attachments: req.Attachments,
		Assignees:   util.ArrayUnique(req.Assignees),
		Topics:      req.Topics,
		BoardRefs:   []string{board.Address()},
		Links:       dto.ToDomainLinks(req.Links),
	}
	if card.Title == "" && req.Tracking == nil {
		card.Title = domain.DefaultCardTitle
	}
	if req.Tracking != nil {
		card.Tracking = &domain.Tracking{
			Kind:   req.Tracking.Kind,
			Ref:    req.Tracking.Ref,
			CardID: req.Tracking.CardID,
		}
	}

	rank, err := s.rankAtEnd(ctx, board, req.Status)
	if err != nil {
		return nil, asCodeError(err)
	}
	card.Rank = rank

	if err := s.cards.Publish(ctx, card); err != nil {
		return nil, asCodeError(err)
	}

	s.refresh(ctx, board)
	return dto.ToCard(card), nil
}

// Update rewrites a card's stored fields. Only the author can revise a card:
// a record published under a different key is a different replaceable
// address, not a new revision of this one.
func (s *cardService) Update(ctx context.Context, req *dto.CardUpdateRequest) (*dto.Card, error) {
	me, err := currentUser(s.client)
	if err != nil {
		return nil, err
	}

	existing, err := s.cards.Get(ctx, req.PubKey, req.ID)
	if err != nil {
		return nil, asCodeError(err)
	}
	if existing.PubKey != me {
		return nil, code.ErrorPermissionDenied.Clone()
	}

	board, err := s.boards.Get(ctx, req.BoardPubKey, req.BoardID)
	if err != nil {
		return nil, asCodeError(err)
	}

	card := &domain.Card{
		ID:          existing.ID,
		PubKey:      existing.PubKey,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Rank:        existing.Rank,
		Attachments: req.Attachments,
		Assignees:   util.ArrayUnique(req.Assignees),
		Topics:      req.Topics,
		BoardRefs:   existing.BoardRefs,
		Links:       dto.ToDomainLinks(req.Links),
		Tracking:    existing.Tracking,
	}
	if card.Title == "" && !card.IsTracking() {
		card.Title = existing.Title
	}

	if err := s.cards.Publish(ctx, card); err != nil {
		return nil, asCodeError(err)
	}

	s.refresh(ctx, board)
	return dto.ToCard(card), nil
}

// Move recomputes the card's rank for the target column position and
// publishes the revision.
func (s *cardService) Move(ctx context.Context, req *dto.CardMoveRequest) (*dto.Card, error) {
	me, err := currentUser(s.client)
	if err != nil {
		return nil, err
	}

	card, err := s.cards.Get(ctx, req.PubKey, req.ID)
	if err != nil {
		return nil, asCodeError(err)
	}
	if card.PubKey != me {
		return nil, code.ErrorPermissionDenied.Clone()
	}

	board, err := s.boards.Get(ctx, req.BoardPubKey, req.BoardID)
	if err != nil {
		return nil, asCodeError(err)
	}

	all, err := s.cards.ListByBoard(ctx, board)
	if err != nil {
		return nil, asCodeError(err)
	}

	// the moved card must not count as its own neighbor
	column := make([]*domain.Card, 0, len(all))
	for _, c := range domain.CardsInStatus(all, req.Status) {
		if c.ID == card.ID && c.PubKey == card.PubKey {
			continue
		}
		column = append(column, c)
	}
	domain.SortCards(column)

	card.Status = req.Status
	card.Rank = domain.RankForIndex(domain.RanksOf(column), req.Index)

	if err := s.cards.Publish(ctx, card); err != nil {
		return nil, asCodeError(err)
	}

	s.logger.Info("card moved",
		zap.String(logger.FieldCard, card.ID),
		zap.String(logger.FieldBoard, board.ID),
		zap.Float64("rank", card.Rank))

	s.refresh(ctx, board)
	return dto.ToCard(card), nil
}

// rankAtEnd computes the rank for appending to the given column.
func (s *cardService) rankAtEnd(ctx context.Context, board *domain.Board, status string) (float64, error) {
	all, err := s.cards.ListByBoard(ctx, board)
	if err != nil {
		return 0, err
	}
	column := domain.CardsInStatus(all, status)
	domain.SortCards(column)
	return domain.RankForIndex(domain.RanksOf(column), len(column)), nil
}

func (s *cardService) refresh(ctx context.Context, board *domain.Board) {
	if s.projection == nil {
		return
	}
	if err := s.projection.RefreshBoard(ctx, board); err != nil {
		s.logger.Warn("card list refresh failed after write",
			zap.String(logger.FieldBoard, board.ID),
			zap.Error(err))
	}
}
