package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/rocketscienceinc/tictactoe-terminal/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/config"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/entity"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/service"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/transport/console"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/usecase"
)

type shell interface {
	service.MoveReader

	ChooseMode(ctx context.Context) (console.Mode, error)
	AskName(ctx context.Context, prompt string) (string, error)
	AskMark(ctx context.Context, name string) (entity.Mark, error)
	AskDifficulty(ctx context.Context) (string, error)
	AskReplay(ctx context.Context, score entity.Score) (bool, error)

	ShowBoard(score entity.Score, board entity.Board)
	ShowResult(outcome entity.Outcome, players [2]*entity.Player)
	ShowError(err error)
	Goodbye()
}

type scoreRepo interface {
	CreateOrUpdate(ctx context.Context, score *entity.Score) error
	DeleteByID(ctx context.Context, id string) error
}

// App runs the main menu and the sessions started from it.
type App struct {
	logger    *slog.Logger
	shell     shell
	scoreRepo scoreRepo
	rng       *rand.Rand

	moveDelay       time.Duration
	cpuDifficulties [2]string
}

func New(logger *slog.Logger, shell shell, scoreRepo scoreRepo, rng *rand.Rand, conf config.Game) (*App, error) {
	if len(conf.CPUDifficulties) != 2 {
		return nil, fmt.Errorf("%w: %v", config.ErrCPUDifficulties, conf.CPUDifficulties)
	}

	for _, difficulty := range conf.CPUDifficulties {
		if !service.ValidDifficulty(difficulty) {
			return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownDifficulty, difficulty)
		}
	}

	return &App{
		logger:          logger.With("component", "session"),
		shell:           shell,
		scoreRepo:       scoreRepo,
		rng:             rng,
		moveDelay:       conf.MoveDelay,
		cpuDifficulties: [2]string{conf.CPUDifficulties[0], conf.CPUDifficulties[1]},
	}, nil
}

// Run shows the menu until the player quits or the terminal is closed.
func (that *App) Run(ctx context.Context) error {
	for {
		mode, err := that.shell.ChooseMode(ctx)
		if err != nil {
			return that.stopped(err)
		}

		if mode == console.ModeQuit {
			that.shell.Goodbye()
			return nil
		}

		first, second, err := that.seatPlayers(ctx, mode)
		if err != nil {
			return that.stopped(err)
		}

		if err = that.playSession(ctx, first, second); err != nil {
			return that.stopped(err)
		}
	}
}

// stopped turns the ways a player can leave (closing the terminal, Ctrl-C, a signal) into a clean exit.
func (that *App) stopped(err error) error {
	if errors.Is(err, console.ErrClosed) || errors.Is(err, context.Canceled) {
		that.logger.Info("session stopped", "reason", err.Error())
		return nil
	}
	return err
}

func (that *App) seatPlayers(ctx context.Context, mode console.Mode) (usecase.Seat, usecase.Seat, error) {
	var first, second *entity.Player

	switch mode {
	case console.ModeHumanVsHuman:
		name, mark, err := that.askHuman(ctx, "Player 1 name")
		if err != nil {
			return usecase.Seat{}, usecase.Seat{}, err
		}

		otherName, err := that.shell.AskName(ctx, "Player 2 name")
		if err != nil {
			return usecase.Seat{}, usecase.Seat{}, err
		}

		first = entity.NewHumanPlayer(name, mark)
		second = entity.NewHumanPlayer(otherName, mark.Opponent())

	case console.ModeHumanVsComputer:
		name, mark, err := that.askHuman(ctx, "Player name")
		if err != nil {
			return usecase.Seat{}, usecase.Seat{}, err
		}

		difficulty, err := that.shell.AskDifficulty(ctx)
		if err != nil {
			return usecase.Seat{}, usecase.Seat{}, err
		}

		first = entity.NewHumanPlayer(name, mark)
		second = entity.NewComputerPlayer(fmt.Sprintf("Computer (%s)", difficulty), mark.Opponent(), difficulty)

	case console.ModeComputerVsComputer:
		first = entity.NewComputerPlayer("Computer 1", entity.MarkX, that.cpuDifficulties[0])
		second = entity.NewComputerPlayer("Computer 2", entity.MarkO, that.cpuDifficulties[1])

	default:
		return usecase.Seat{}, usecase.Seat{}, fmt.Errorf("unknown mode %d", mode)
	}

	firstSeat, err := that.newSeat(first)
	if err != nil {
		return usecase.Seat{}, usecase.Seat{}, err
	}

	secondSeat, err := that.newSeat(second)
	if err != nil {
		return usecase.Seat{}, usecase.Seat{}, err
	}

	return firstSeat, secondSeat, nil
}

func (that *App) askHuman(ctx context.Context, prompt string) (string, entity.Mark, error) {
	name, err := that.shell.AskName(ctx, prompt)
	if err != nil {
		return "", entity.MarkNone, err
	}

	mark, err := that.shell.AskMark(ctx, name)
	if err != nil {
		return "", entity.MarkNone, err
	}

	return name, mark, nil
}

func (that *App) newSeat(player *entity.Player) (usecase.Seat, error) {
	policy, err := service.NewPolicy(player, that.shell, that.rng)
	if err != nil {
		return usecase.Seat{}, fmt.Errorf("failed to create policy for %s: %w", player.Name, err)
	}

	return usecase.Seat{Player: player, Policy: policy}, nil
}

// playSession repeats matches between the same two seats until the players decline a replay.
func (that *App) playSession(ctx context.Context, first, second usecase.Seat) error {
	manager, err := usecase.NewMatchManager(that.logger, first, second, that.scoreRepo)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer manager.Close(context.WithoutCancel(ctx))

	withComputer := first.Player.IsComputer() || second.Player.IsComputer()

	for {
		if err = that.playMatch(ctx, manager, withComputer); err != nil {
			return err
		}

		that.shell.ShowResult(manager.Outcome(), [2]*entity.Player{first.Player, second.Player})

		again, err := manager.OfferReplay(ctx, that.shell)
		if err != nil {
			return fmt.Errorf("failed to offer replay: %w", err)
		}

		if !again {
			return nil
		}
	}
}

func (that *App) playMatch(ctx context.Context, manager *usecase.MatchManager, withComputer bool) error {
	that.shell.ShowBoard(manager.Score(), manager.Board())

	for !manager.Outcome().IsTerminal() {
		if _, err := manager.PlayTurn(ctx); err != nil {
			if errors.Is(err, apperror.ErrInvalidMove) {
				that.shell.ShowError(err)
				continue
			}
			return fmt.Errorf("failed to play turn: %w", err)
		}

		that.shell.ShowBoard(manager.Score(), manager.Board())

		if withComputer {
			if err := sleep(ctx, that.moveDelay); err != nil {
				return err
			}
		}
	}

	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
