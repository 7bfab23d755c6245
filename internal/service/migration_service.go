package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kanbanstr/board-sync-service/internal/domain"
	"github.com/kanbanstr/board-sync-service/internal/dto"
	"github.com/kanbanstr/board-sync-service/internal/nostr"
	"github.com/kanbanstr/board-sync-service/pkg/code"
	"github.com/kanbanstr/board-sync-service/pkg/logger"
	"github.com/kanbanstr/board-sync-service/pkg/util"
)

// Migration states, in order. A failed run reports the state it reached.
const (
	StateNotMigrated    = "NotMigrated"
	StateBoardRewritten = "BoardRewritten"
	StateCardsRewritten = "CardsRewritten"
	StatePublished      = "Published"
	StateReloaded       = "Reloaded"
)

// MigrationService rewrites legacy boards into the current tag format.
type MigrationService interface {
	Migrate(ctx context.Context, req *dto.MigrateRequest) (*dto.MigrationResult, error)
}

type migrationService struct {
	client     nostr.Client
	boards     domain.BoardRepository
	cards      domain.CardRepository
	projection *Projection
	logger     *zap.Logger
}

var _ MigrationService = (*migrationService)(nil)

func NewMigrationService(opts Options) MigrationService {
	return &migrationService{
		client:     opts.Client,
		boards:     opts.Boards,
		cards:      opts.Cards,
		projection: opts.Projection,
		logger:     opts.Logger,
	}
}

// Migrate walks NotMigrated -> BoardRewritten -> CardsRewritten ->
// Published -> Reloaded. Any failure aborts with the reached state in the
// error details; already-published records are not rolled back, a re-run
// starts over from whatever the relays return.
func (s *migrationService) Migrate(ctx context.Context, req *dto.MigrateRequest) (*dto.MigrationResult, error) {
	me, err := currentUser(s.client)
	if err != nil {
		return nil, err
	}

	board, err := s.boards.Get(ctx, req.PubKey, req.ID)
	if err != nil {
		return nil, asCodeError(err)
	}
	if !board.IsOwner(me) {
		return nil, code.ErrorPermissionDenied.Clone().WithBoard(board.Address())
	}
	if !board.NeedsMigration {
		return nil, code.ErrorNotLegacy.Clone().WithBoard(board.Address())
	}

	state := StateNotMigrated

	// rewrite the board: columns and description came out of the JSON
	// payload at decode time, the new record carries them as tags only
	migrated := &domain.Board{
		ID:           board.ID,
		PubKey:       board.PubKey,
		Title:        board.Title,
		Description:  board.Description,
		Columns:      board.Columns,
		Maintainers:  board.Maintainers,
		IsNoZapBoard: board.IsNoZapBoard,
	}
	if board.NeedsNewID {
		// records from before the d tag get a stable identifier now
		migrated.ID = util.NewIdentifier()
	}
	migrated.SortColumns()
	state = StateBoardRewritten

	// rewrite every referenced card under the owner's key, preserving the
	// stable identifier and re-linking to the board by address
	legacyCards, err := s.cards.ListByBoard(ctx, board)
	if err != nil {
		return nil, s.fail(state, board, err)
	}
	migratedCards := make([]*domain.Card, 0, len(legacyCards))
	for _, c := range legacyCards {
		mc := &domain.Card{
			ID:          c.ID,
			PubKey:      me,
			Title:       c.Title,
			Description: c.Description,
			Status:      c.Status,
			Rank:        c.Rank,
			Attachments: c.Attachments,
			Assignees:   c.Assignees,
			Topics:      c.Topics,
			BoardRefs:   []string{migrated.Address()},
			Links:       c.Links,
			Tracking:    c.Tracking,
		}
		if mc.Status == "" {
			mc.Status = defaultStatus(migrated)
		}
		migratedCards = append(migratedCards, mc)
	}
	state = StateCardsRewritten

	// board first, then cards; a card failure leaves the board published
	if err := s.boards.Publish(ctx, migrated); err != nil {
		return nil, s.fail(state, board, err)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, mc := range migratedCards {
		mc := mc
		g.Go(func() error {
			return s.cards.Publish(gctx, mc)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, s.fail(state, board, err)
	}
	state = StatePublished

	// force reload so the caller sees the converged state
	reloaded, err := s.boards.Get(ctx, migrated.PubKey, migrated.ID)
	if err != nil {
		return nil, s.fail(state, board, err)
	}
	reloadedCards, err := s.cards.ListByBoard(ctx, reloaded)
	if err != nil {
		return nil, s.fail(state, board, err)
	}
	if s.projection != nil {
		if err := s.projection.RefreshBoards(ctx); err != nil {
			s.logger.Warn("board list refresh failed after migration", zap.Error(err))
		}
		if err := s.projection.RefreshBoard(ctx, reloaded); err != nil {
			s.logger.Warn("card list refresh failed after migration", zap.Error(err))
		}
	}
	state = StateReloaded

	s.logger.Info("board migrated",
		zap.String(logger.FieldBoard, board.ID),
		zap.String(logger.FieldPubKey, board.PubKey),
		zap.Int(logger.FieldCount, len(reloadedCards)))

	return &dto.MigrationResult{
		State: state,
		Board: dto.ToBoard(reloaded),
		Cards: dto.ToCards(reloadedCards),
	}, nil
}

func (s *migrationService) fail(state string, board *domain.Board, err error) error {
	s.logger.Error("migration aborted",
		zap.String(logger.FieldBoard, board.ID),
		zap.String("state", state),
		zap.Error(err))
	return code.ErrorMigrationFailed.Clone().
		WithBoard(board.Address()).
		WithDetails(state, err.Error())
}

// defaultStatus picks the first column name for cards that carried none.
func defaultStatus(b *domain.Board) string {
	if len(b.Columns) > 0 {
		return b.Columns[0].Name
	}
	return "To Do"
}
