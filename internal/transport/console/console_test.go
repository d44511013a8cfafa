package console

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/entity"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConsole(t *testing.T, colored bool) (*Console, tcell.SimulationScreen) {
	t.Helper()

	screen := tcell.NewSimulationScreen("")
	shell := New(screen, colored)
	shell.Start()

	t.Cleanup(func() {
		require.NoError(t, shell.Stop())
	})

	return shell, screen
}

func typeText(screen tcell.SimulationScreen, text string) {
	for _, r := range text {
		screen.InjectKey(tcell.KeyRune, r, tcell.ModNone)
	}
}

func press(screen tcell.SimulationScreen, key tcell.Key) {
	screen.InjectKey(key, 0, tcell.ModNone)
}

func post(t *testing.T, screen tcell.SimulationScreen, event tcell.Event) {
	t.Helper()

	require.Eventually(t, func() bool {
		return !errors.Is(screen.PostEvent(event), tcell.ErrEventQFull)
	}, 5*time.Second, time.Millisecond)
}

// paste delivers text the way a terminal in bracketed paste mode does.
func paste(t *testing.T, screen tcell.SimulationScreen, text string) {
	t.Helper()

	post(t, screen, tcell.NewEventPaste(true))
	for _, r := range text {
		if r == '\n' {
			press(screen, tcell.KeyEnter)
			continue
		}
		screen.InjectKey(tcell.KeyRune, r, tcell.ModNone)
	}
	post(t, screen, tcell.NewEventPaste(false))
}

func readText(t *testing.T, shell *Console, view func() string) string {
	t.Helper()

	var text string
	require.NoError(t, shell.update(func() { text = view() }))

	return text
}

func TestConsole_ChooseMode(t *testing.T) {
	ctx := context.Background()

	t.Run("Picks the entry by its number", func(t *testing.T) {
		// Given: the player presses keys that are not menu entries before 3
		shell, screen := newTestConsole(t, false)
		shell.shown = func(string) { typeText(screen, "9x3") }

		// When: the menu is shown
		mode, err := shell.ChooseMode(ctx)

		// Then: only the entry key counts
		require.NoError(t, err)
		assert.Equal(t, ModeComputerVsComputer, mode)
	})

	t.Run("Survives an oversized line", func(t *testing.T) {
		// Given: 70 KiB of junk is pasted into the menu before a valid choice
		shell, screen := newTestConsole(t, false)
		shell.shown = func(string) {
			paste(t, screen, strings.Repeat("a", 70*1024)+"\n")
			typeText(screen, "4")
		}

		// When: the menu is shown
		mode, err := shell.ChooseMode(ctx)

		// Then: the junk is dropped and the menu still answers
		require.NoError(t, err)
		assert.Equal(t, ModeQuit, mode)
	})

	t.Run("Ctrl-C closes the terminal", func(t *testing.T) {
		shell, screen := newTestConsole(t, false)
		shell.shown = func(string) { press(screen, tcell.KeyCtrlC) }

		_, err := shell.ChooseMode(ctx)

		require.ErrorIs(t, err, ErrClosed)
		<-shell.Done()
	})
}

func TestConsole_AskName(t *testing.T) {
	ctx := context.Background()

	t.Run("Ignores a blank answer", func(t *testing.T) {
		// Given: the player confirms an empty field, then types a padded name
		shell, screen := newTestConsole(t, false)
		shell.shown = func(string) {
			press(screen, tcell.KeyEnter)
			typeText(screen, "  bob ")
			press(screen, tcell.KeyEnter)
		}

		// When: the name is asked
		name, err := shell.AskName(ctx, "Player 2 name")

		// Then: the trimmed name is returned
		require.NoError(t, err)
		assert.Equal(t, "bob", name)
	})

	t.Run("Rejects an oversized paste", func(t *testing.T) {
		// Given: a 70 KiB line is pasted before the real name is typed
		shell, screen := newTestConsole(t, false)
		shell.shown = func(string) {
			paste(t, screen, strings.Repeat("a", 70*1024)+"\n")
			typeText(screen, "alice")
			press(screen, tcell.KeyEnter)
		}

		// When: the name is asked
		name, err := shell.AskName(ctx, "Player 1 name")

		// Then: the paste never reached the field
		require.NoError(t, err)
		assert.Equal(t, "alice", name)
	})

	t.Run("Caps the name length", func(t *testing.T) {
		shell, screen := newTestConsole(t, false)
		shell.shown = func(string) {
			typeText(screen, strings.Repeat("z", maxNameLength+5))
			press(screen, tcell.KeyEnter)
		}

		name, err := shell.AskName(ctx, "Player name")

		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("z", maxNameLength), name)
	})
}

func TestConsole_AskMark(t *testing.T) {
	// Given: the player types o and confirms
	shell, screen := newTestConsole(t, false)
	shell.shown = func(string) {
		typeText(screen, "o")
		press(screen, tcell.KeyEnter)
	}

	// When: the mark is asked
	mark, err := shell.AskMark(context.Background(), "alice")

	// Then: O is chosen
	require.NoError(t, err)
	assert.Equal(t, entity.MarkO, mark)
}

func TestConsole_AskDifficulty(t *testing.T) {
	shell, screen := newTestConsole(t, false)
	shell.shown = func(string) {
		typeText(screen, "m")
		press(screen, tcell.KeyEnter)
	}

	difficulty, err := shell.AskDifficulty(context.Background())

	require.NoError(t, err)
	assert.Equal(t, service.DifficultyMedium, difficulty)
}

func TestConsole_ReadMove(t *testing.T) {
	ctx := context.Background()
	player := entity.NewHumanPlayer("alice", entity.MarkX)

	t.Run("Keeps asking until an empty cell is named", func(t *testing.T) {
		// Given: cell 5 is taken and the player names it first
		board := entity.NewBoard()
		require.NoError(t, board.Mark(5, entity.MarkO))

		shell, screen := newTestConsole(t, false)
		shell.shown = func(string) {
			typeText(screen, "5")
			press(screen, tcell.KeyEnter)
			assert.Eventually(t, func() bool {
				var status string
				_ = shell.update(func() { status = shell.status.GetText(true) })
				return strings.Contains(status, "Cell 5 is taken")
			}, 5*time.Second, 10*time.Millisecond)
			typeText(screen, "7")
			press(screen, tcell.KeyEnter)
		}

		// When: the move is read
		cell, err := shell.ReadMove(ctx, board, player)

		// Then: the taken cell is refused with a complaint and the next one is returned
		require.NoError(t, err)
		assert.Equal(t, 7, cell)
	})

	t.Run("Only single cell numbers reach the field", func(t *testing.T) {
		// Given: the player types letters, a zero and a second digit around a valid cell
		shell, screen := newTestConsole(t, false)
		shell.shown = func(string) {
			press(screen, tcell.KeyEnter)
			typeText(screen, "a0")
			typeText(screen, "31")
			press(screen, tcell.KeyEnter)
		}

		// When: the move is read
		cell, err := shell.ReadMove(ctx, entity.NewBoard(), player)

		// Then: only the first playable digit was kept
		require.NoError(t, err)
		assert.Equal(t, 3, cell)
	})

	t.Run("Stops on a canceled context", func(t *testing.T) {
		shell, _ := newTestConsole(t, false)
		canceled, cancel := context.WithCancel(ctx)
		shell.shown = func(string) { cancel() }

		cell, err := shell.ReadMove(canceled, entity.NewBoard(), player)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, service.NoMove, cell)
	})

	t.Run("Stops once the terminal is closed", func(t *testing.T) {
		shell, _ := newTestConsole(t, false)
		shell.ShowBoard(entity.Score{}, entity.NewBoard())
		require.NoError(t, shell.Stop())

		cell, err := shell.ReadMove(ctx, entity.NewBoard(), player)

		require.ErrorIs(t, err, ErrClosed)
		assert.Equal(t, service.NoMove, cell)
	})
}

func TestAcceptCell(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{text: "", want: true},
		{text: "1", want: true},
		{text: "9", want: true},
		{text: "0", want: false},
		{text: "10", want: false},
		{text: "a", want: false},
		{text: "-1", want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, acceptCell(tt.text, 0), tt.text)
	}
}

func TestConsole_AskReplay(t *testing.T) {
	ctx := context.Background()

	t.Run("Yes is the default button", func(t *testing.T) {
		shell, screen := newTestConsole(t, false)
		shell.shown = func(string) { press(screen, tcell.KeyEnter) }

		again, err := shell.AskReplay(ctx, entity.Score{})

		require.NoError(t, err)
		assert.True(t, again)
	})

	t.Run("No after moving to it", func(t *testing.T) {
		shell, screen := newTestConsole(t, false)
		shell.shown = func(string) {
			press(screen, tcell.KeyTab)
			press(screen, tcell.KeyEnter)
		}

		again, err := shell.AskReplay(ctx, entity.Score{})

		require.NoError(t, err)
		assert.False(t, again)
	})
}

func TestConsole_ShowBoard(t *testing.T) {
	score := entity.Score{Players: [2]string{"alice", "bob"}, Wins: [2]int{2, 1}, Draws: 3}
	board := entity.NewBoard()
	require.NoError(t, board.Mark(1, entity.MarkX))
	require.NoError(t, board.Mark(9, entity.MarkO))

	t.Run("Plain", func(t *testing.T) {
		// Given: a plain shell
		shell, _ := newTestConsole(t, false)

		// When: the board is shown
		shell.ShowBoard(score, board)

		// Then: the tally and the grid are on screen
		text := readText(t, shell, func() string { return shell.board.GetText(true) })
		assert.Contains(t, text, "alice: 2   bob: 1   draws: 3")
		assert.Contains(t, text, "|  X  |  2  |  3  |")
		assert.Contains(t, text, "|  7  |  8  |  O  |")
		assert.Contains(t, text, rowSeparator)
	})

	t.Run("Colored", func(t *testing.T) {
		shell, _ := newTestConsole(t, true)

		shell.ShowBoard(score, board)

		text := readText(t, shell, func() string { return shell.board.GetText(false) })
		assert.Contains(t, text, "[green]X[-]")
		assert.Contains(t, text, "[red]O[-]")
		assert.Contains(t, text, "[magenta]"+rowSeparator+"[-]")
	})
}

func TestConsole_ShowResult(t *testing.T) {
	players := [2]*entity.Player{
		entity.NewHumanPlayer("alice", entity.MarkO),
		entity.NewHumanPlayer("bob", entity.MarkX),
	}

	tests := []struct {
		name    string
		outcome entity.Outcome
		want    string
	}{
		{name: "Winner by mark", outcome: entity.OutcomeXWins, want: "bob wins!"},
		{name: "First seat wins", outcome: entity.OutcomeOWins, want: "alice wins!"},
		{name: "Draw", outcome: entity.OutcomeDraw, want: "It's a draw!"},
		{name: "Ongoing board", outcome: entity.OutcomeOngoing, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shell, _ := newTestConsole(t, false)

			shell.ShowResult(tt.outcome, players)

			status := readText(t, shell, func() string { return shell.status.GetText(true) })
			if tt.want == "" {
				assert.Empty(t, status)
				return
			}
			assert.Contains(t, status, tt.want)
		})
	}
}

func TestConsole_Goodbye(t *testing.T) {
	shell, _ := newTestConsole(t, false)

	shell.Goodbye()

	status := readText(t, shell, func() string { return shell.status.GetText(true) })
	assert.Equal(t, "Leaving the game...", status)
}
