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

// BoardService lists and edits boards.
type BoardService interface {
	List(ctx context.Context, scope string) ([]*dto.Board, error)
	Get(ctx context.Context, pubKey, id string) (*dto.BoardWithCards, error)
	Create(ctx context.Context, req *dto.BoardCreateRequest) (*dto.Board, error)
	Update(ctx context.Context, req *dto.BoardUpdateRequest) (*dto.Board, error)
}

type boardService struct {
	client     nostr.Client
	boards     domain.BoardRepository
	cards      domain.CardRepository
	projection *Projection
	logger     *zap.Logger
}

var _ BoardService = (*boardService)(nil)

func NewBoardService(opts Options) BoardService {
	return &boardService{
		client:     opts.Client,
		boards:     opts.Boards,
		cards:      opts.Cards,
		projection: opts.Projection,
		logger:     opts.Logger,
	}
}

func (s *boardService) List(ctx context.Context, scope string) ([]*dto.Board, error) {
	boards, err := s.boards.List(ctx, parseScope(scope))
	if err != nil {
		return nil, asCodeError(err)
	}
	return dto.ToBoards(boards), nil
}

func (s *boardService) Get(ctx context.Context, pubKey, id string) (*dto.BoardWithCards, error) {
	board, err := s.boards.Get(ctx, pubKey, id)
	if err != nil {
		return nil, asCodeError(err)
	}
	cards, err := s.cards.ListByBoard(ctx, board)
	if err != nil {
		return nil, asCodeError(err)
	}
	return &dto.BoardWithCards{
		Board: dto.ToBoard(board),
		Cards: dto.ToCards(cards),
	}, nil
}

func (s *boardService) Create(ctx context.Context, req *dto.BoardCreateRequest) (*dto.Board, error) {
	me, err := currentUser(s.client)
	if err != nil {
		return nil, err
	}

	board := &domain.Board{
		ID:          util.NewIdentifier(),
		PubKey:      me,
		Title:       req.Title,
		Description: req.Description,
		Columns:     dto.ToDomainColumns(req.Columns),
		Maintainers: util.ArrayUnique(req.Maintainers),
	}
	if board.Title == "" {
		board.Title = domain.DefaultBoardTitle
	}
	board.SortColumns()

	if err := s.boards.Publish(ctx, board); err != nil {
		return nil, asCodeError(err)
	}

	s.refresh(ctx, board)
	return dto.ToBoard(board), nil
}

func (s *boardService) Update(ctx context.Context, req *dto.BoardUpdateRequest) (*dto.Board, error) {
	me, err := currentUser(s.client)
	if err != nil {
		return nil, err
	}

	existing, err := s.boards.Get(ctx, req.PubKey, req.ID)
	if err != nil {
		return nil, asCodeError(err)
	}
	if !existing.IsOwner(me) {
		return nil, code.ErrorPermissionDenied.Clone().WithBoard(existing.Address())
	}

	board := &domain.Board{
		ID:           existing.ID,
		PubKey:       existing.PubKey,
		Title:        req.Title,
		Description:  req.Description,
		Columns:      dto.ToDomainColumns(req.Columns),
		Maintainers:  util.ArrayUnique(req.Maintainers),
		IsNoZapBoard: existing.IsNoZapBoard,
	}
	if board.Title == "" {
		board.Title = existing.Title
	}
	board.SortColumns()

	if err := s.boards.Publish(ctx, board); err != nil {
		return nil, asCodeError(err)
	}

	s.refresh(ctx, board)
	return dto.ToBoard(board), nil
}

// refresh converges the in-memory view after a successful write. Failures
// only age the snapshot, so they are logged and swallowed.
func (s *boardService) refresh(ctx context.Context, board *domain.Board) {
	if s.projection == nil {
		return
	}
	if err := s.projection.RefreshBoards(ctx); err != nil {
		s.logger.Warn("board list refresh failed after write",
			zap.String(logger.FieldBoard, board.ID),
			zap.Error(err))
	}
	if err := s.projection.RefreshBoard(ctx, board); err != nil {
		s.logger.Warn("card list refresh failed after write",
			zap.String(logger.FieldBoard, board.ID),
			zap.Error(err))
	}
}
