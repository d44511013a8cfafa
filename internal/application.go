package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/tictactoe-terminal/internal/config"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/repository"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/transport/console"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopSignals := cancelOnSignal(ctx, cancel, log, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	scoreRepo, closeRepo, err := newScoreRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err := closeRepo(); err != nil {
			log.Error("could not close scoreboard storage", "error", err)
		}
	}()

	shell := console.New(nil, conf.Game.ColoredBoard)

	app, err := New(logger, shell, scoreRepo, newRand(conf.Game.Seed), conf.Game)
	if err != nil {
		return fmt.Errorf("could not create game: %w", err)
	}

	shell.Start()
	defer func() {
		if err := shell.Stop(); err != nil {
			log.Error("terminal failed", "error", err)
		}
	}()

	// Ctrl-C inside the terminal ends the event loop, so the game has to stop with it.
	go func() {
		select {
		case <-shell.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	log.Info("Starting game", "scoreboard", conf.Scoreboard.Backend)

	return app.Run(ctx)
}

// cancelOnSignal calls cancel when one of sigs arrives. The returned func unregisters the
// signals and waits for the watcher to exit.
func cancelOnSignal(ctx context.Context, cancel context.CancelFunc, log *slog.Logger, sigs ...os.Signal) func() {
	received := make(chan os.Signal, 1)
	signal.Notify(received, sigs...)

	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)

		select {
		case sig := <-received:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		case <-stop:
		}
	}()

	return func() {
		signal.Stop(received)
		close(stop)
		<-done
	}
}

func newScoreRepository(ctx context.Context, conf *config.Config) (repository.ScoreRepository, func() error, error) {
	if conf.Scoreboard.Backend != config.BackendRedis {
		return repository.NewMemoryScoreRepository(), func() error { return nil }, nil
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return nil, nil, ErrAddrNotFound
	}

	client, err := storage.NewRedis(ctx, redisAddrString)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return repository.NewScoreRepository(client, conf.Scoreboard.TTL), client.Close, nil
}

// newRand seeds the random policies once per process. A zero seed means the clock.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
