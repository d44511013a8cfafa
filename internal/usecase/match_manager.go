package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/entity"
)

type scoreRepo interface {
	CreateOrUpdate(ctx context.Context, score *entity.Score) error
	DeleteByID(ctx context.Context, id string) error
}

type movePolicy interface {
	ChooseMove(ctx context.Context, board entity.Board) (int, error)
}

type replayAsker interface {
	AskReplay(ctx context.Context, score entity.Score) (bool, error)
}

// Seat pairs a player with the policy choosing its moves. Both are owned by the caller.
type Seat struct {
	Player *entity.Player
	Policy movePolicy
}

// Turn describes one applied move.
type Turn struct {
	Player  *entity.Player
	Cell    int
	Outcome entity.Outcome
}

// MatchManager plays repeated matches between one pairing of seats and keeps their tally.
// The first seat moves on odd move numbers, the second on even ones.
type MatchManager struct {
	logger    *slog.Logger
	scoreRepo scoreRepo

	seats [2]Seat
	board entity.Board
	score *entity.Score
}

// NewMatchManager starts a new pairing with a fresh board and all tallies at zero.
func NewMatchManager(logger *slog.Logger, first, second Seat, scoreRepo scoreRepo) (*MatchManager, error) {
	if first.Player.Mark == second.Player.Mark || !first.Player.Mark.IsPlayer() || !second.Player.Mark.IsPlayer() {
		return nil, fmt.Errorf("%w: %q and %q", apperror.ErrSameMark, first.Player.Mark, second.Player.Mark)
	}

	sessionID := uuid.NewString()

	return &MatchManager{
		logger:    logger.With("component", "match", "session", sessionID),
		scoreRepo: scoreRepo,
		seats:     [2]Seat{first, second},
		board:     entity.NewBoard(),
		score:     entity.NewScore(sessionID, first.Player, second.Player),
	}, nil
}

// PlayTurn asks the seat on move for a cell and applies it. When a policy fails the board is left as it was,
// so the same seat is asked again on the next call.
func (that *MatchManager) PlayTurn(ctx context.Context) (*Turn, error) {
	if that.board.Winner().IsTerminal() {
		return nil, apperror.ErrGameFinished
	}

	seat := that.seats[that.board.Moves()%2]

	cell, err := seat.Policy.ChooseMove(ctx, that.board)
	if err != nil {
		return nil, fmt.Errorf("failed to choose move for %s: %w", seat.Player.Name, err)
	}

	if err = that.board.Mark(cell, seat.Player.Mark); err != nil {
		return nil, fmt.Errorf("failed to mark cell: %w", err)
	}

	outcome := that.board.Winner()

	that.logger.Debug("move played", "player", seat.Player.Name, "mark", seat.Player.Mark.String(), "cell", cell)

	if outcome.IsTerminal() {
		that.recordResult(ctx, outcome)
	}

	return &Turn{
		Player:  seat.Player,
		Cell:    cell,
		Outcome: outcome,
	}, nil
}

// Play runs turns until the board is terminal.
func (that *MatchManager) Play(ctx context.Context) (entity.Outcome, error) {
	for !that.board.Winner().IsTerminal() {
		if _, err := that.PlayTurn(ctx); err != nil {
			return entity.OutcomeOngoing, err
		}
	}

	return that.board.Winner(), nil
}

// OfferReplay asks whether the same players go again. On yes the board is reset and the tally kept.
func (that *MatchManager) OfferReplay(ctx context.Context, asker replayAsker) (bool, error) {
	if !that.board.Winner().IsTerminal() {
		return false, apperror.ErrGameInProgress
	}

	again, err := asker.AskReplay(ctx, *that.score)
	if err != nil {
		return false, fmt.Errorf("failed to ask for replay: %w", err)
	}

	if again {
		that.Reset()
	}

	return again, nil
}

// Reset puts the board back to its labels. Seats and tallies are kept.
func (that *MatchManager) Reset() {
	that.board = entity.NewBoard()
}

// Close ends the pairing and drops its published score. Nothing was published before the first finished match.
func (that *MatchManager) Close(ctx context.Context) {
	if that.score.Matches == 0 {
		return
	}

	if err := that.scoreRepo.DeleteByID(ctx, that.score.SessionID); err != nil {
		that.logger.Error("failed to delete score", "method", "Close", "error", err)
	}
}

func (that *MatchManager) Board() entity.Board {
	return that.board
}

func (that *MatchManager) Outcome() entity.Outcome {
	return that.board.Winner()
}

func (that *MatchManager) Score() entity.Score {
	return *that.score
}

func (that *MatchManager) Seats() [2]Seat {
	return that.seats
}

// Current returns the player on move.
func (that *MatchManager) Current() *entity.Player {
	return that.seats[that.board.Moves()%2].Player
}

func (that *MatchManager) recordResult(ctx context.Context, outcome entity.Outcome) {
	log := that.logger.With("method", "recordResult")

	that.score.Record(outcome)

	if err := that.scoreRepo.CreateOrUpdate(ctx, that.score); err != nil {
		log.Error("failed to publish score", "error", err)
	}

	log.Info("match finished", "outcome", outcome.String(), "wins", that.score.Wins, "draws", that.score.Draws)
}
