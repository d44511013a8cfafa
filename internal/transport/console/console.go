package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/entity"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/service"
)

// Mode is an entry of the main menu.
type Mode int

const (
	ModeHumanVsHuman Mode = iota + 1
	ModeHumanVsComputer
	ModeComputerVsComputer
	ModeQuit
)

const (
	promptHeight  = 8
	maxNameLength = 20

	rowSeparator = "+-----+-----+-----+"
)

var ErrClosed = errors.New("terminal closed")

// Console is the terminal shell: a board view, a status line and one active prompt at a time.
// Prompts block the calling goroutine until the widget on screen is answered.
type Console struct {
	app     *tview.Application
	layout  *tview.Flex
	board   *tview.TextView
	status  *tview.TextView
	prompt  tview.Primitive
	colored bool

	done   chan struct{}
	runErr error

	// shown is called with the prompt name once the prompt is on screen.
	shown func(name string)
}

// New builds the shell on screen. A nil screen means the real terminal.
func New(screen tcell.Screen, colored bool) *Console {
	board := tview.NewTextView().SetDynamicColors(colored)
	board.SetBorder(true).SetTitle(" Tic-Tac-Toe ").SetTitleAlign(tview.AlignCenter)

	status := tview.NewTextView().SetDynamicColors(colored)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(board, 0, 1, false).
		AddItem(status, 2, 0, false)

	app := tview.NewApplication().EnablePaste(true)
	if screen != nil {
		app.SetScreen(screen)
	}
	app.SetRoot(layout, true)

	return &Console{
		app:     app,
		layout:  layout,
		board:   board,
		status:  status,
		colored: colored,
		done:    make(chan struct{}),
	}
}

// Start runs the terminal event loop in the background. Ctrl-C stops it.
func (that *Console) Start() {
	go func() {
		defer close(that.done)
		that.runErr = that.app.Run()
	}()
}

// Stop restores the terminal and waits for the event loop to end.
func (that *Console) Stop() error {
	that.app.Stop()
	<-that.done
	return that.runErr
}

// Done is closed once the event loop has ended.
func (that *Console) Done() <-chan struct{} {
	return that.done
}

// update runs f on the event loop and redraws. It gives up once the loop is gone.
func (that *Console) update(f func()) error {
	select {
	case <-that.done:
		return ErrClosed
	default:
	}

	queued := make(chan struct{})
	go func() {
		that.app.QueueUpdateDraw(f)
		close(queued)
	}()

	select {
	case <-queued:
		return nil
	case <-that.done:
		return ErrClosed
	}
}

// setPrompt swaps the active prompt. Must run on the event loop.
func (that *Console) setPrompt(prompt tview.Primitive) {
	if that.prompt != nil {
		that.layout.RemoveItem(that.prompt)
	}

	that.prompt = prompt
	if prompt == nil {
		that.app.SetFocus(that.board)
		return
	}

	that.layout.AddItem(prompt, promptHeight, 0, true)
	that.app.SetFocus(prompt)
}

// ask puts the widget built by build on screen and waits for it to be answered.
func ask[T any](ctx context.Context, that *Console, name string, build func(answer func(T)) tview.Primitive) (T, error) {
	var zero T

	answers := make(chan T, 1)
	answer := func(value T) {
		that.setPrompt(nil)
		select {
		case answers <- value:
		default:
		}
	}

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	if err := that.update(func() { that.setPrompt(build(answer)) }); err != nil {
		return zero, err
	}

	if that.shown != nil {
		that.shown(name)
	}

	select {
	case value := <-answers:
		return value, nil
	case <-ctx.Done():
		_ = that.update(func() { that.setPrompt(nil) })
		return zero, ctx.Err()
	case <-that.done:
		return zero, ErrClosed
	}
}

func (that *Console) paint(color, text string) string {
	if !that.colored {
		return text
	}
	return "[" + color + "]" + text + "[-]"
}

func (that *Console) paintMark(mark entity.Mark) string {
	switch mark {
	case entity.MarkX:
		return that.paint("green", mark.String())
	case entity.MarkO:
		return that.paint("red", mark.String())
	default:
		return mark.String()
	}
}

func (that *Console) escape(text string) string {
	if !that.colored {
		return text
	}
	return tview.Escape(text)
}

func (that *Console) setStatus(text string) {
	that.status.SetText(text)
}

func (that *Console) ChooseMode(ctx context.Context) (Mode, error) {
	return ask(ctx, that, "mode", func(answer func(Mode)) tview.Primitive {
		menu := tview.NewList().ShowSecondaryText(false).
			AddItem("Human vs Human", "", '1', func() { answer(ModeHumanVsHuman) }).
			AddItem("Human vs Computer", "", '2', func() { answer(ModeHumanVsComputer) }).
			AddItem("Computer vs Computer", "", '3', func() { answer(ModeComputerVsComputer) }).
			AddItem("Quit", "", '4', func() { answer(ModeQuit) })
		menu.SetBorder(true).SetTitle(" Main menu ")

		return menu
	})
}

func (that *Console) AskName(ctx context.Context, prompt string) (string, error) {
	return ask(ctx, that, "name", func(answer func(string)) tview.Primitive {
		field := tview.NewInputField().
			SetLabel(tview.Escape(prompt) + ": ").
			SetFieldWidth(maxNameLength + 1).
			SetAcceptanceFunc(tview.InputFieldMaxLength(maxNameLength))

		field.SetDoneFunc(func(key tcell.Key) {
			name := strings.TrimSpace(field.GetText())
			if key != tcell.KeyEnter || name == "" {
				return
			}
			answer(name)
		})
		field.SetBorder(true)

		return field
	})
}

func (that *Console) AskMark(ctx context.Context, name string) (entity.Mark, error) {
	return ask(ctx, that, "mark", func(answer func(entity.Mark)) tview.Primitive {
		choice := tview.NewDropDown().
			SetLabel(fmt.Sprintf("Choose X or O, %s: ", tview.Escape(name))).
			SetOptions([]string{entity.MarkX.String(), entity.MarkO.String()}, nil)

		choice.SetSelectedFunc(func(text string, _ int) {
			mark, err := entity.ParseMark(text)
			if err != nil {
				return
			}
			answer(mark)
		})
		choice.SetBorder(true)

		return choice
	})
}

func (that *Console) AskDifficulty(ctx context.Context) (string, error) {
	return ask(ctx, that, "difficulty", func(answer func(string)) tview.Primitive {
		choice := tview.NewDropDown().
			SetLabel("Computer difficulty: ").
			SetOptions([]string{service.DifficultyEasy, service.DifficultyMedium, service.DifficultyHard}, nil)

		choice.SetSelectedFunc(func(text string, index int) {
			if index < 0 {
				return
			}
			answer(text)
		})
		choice.SetBorder(true)

		return choice
	})
}

// acceptCell lets through at most one digit naming a cell.
func acceptCell(text string, _ rune) bool {
	if text == "" {
		return true
	}
	cell, err := strconv.Atoi(text)
	return err == nil && len(text) == 1 && cell >= entity.FirstCell && cell <= entity.LastCell
}

// ReadMove keeps the cell prompt open until the player names an empty cell.
func (that *Console) ReadMove(ctx context.Context, board entity.Board, player *entity.Player) (int, error) {
	cell, err := ask(ctx, that, "move", func(answer func(int)) tview.Primitive {
		field := tview.NewInputField().
			SetLabel(fmt.Sprintf("%s (%s), choose a cell: ", tview.Escape(player.Name), that.paintMark(player.Mark))).
			SetFieldWidth(2).
			SetAcceptanceFunc(acceptCell)

		field.SetDoneFunc(func(key tcell.Key) {
			if key != tcell.KeyEnter {
				return
			}

			cell, err := strconv.Atoi(field.GetText())
			switch {
			case err != nil:
				that.setStatus(that.paint("red", "Enter a number from 1 to 9."))
			case !board.IsEmpty(cell):
				that.setStatus(that.paint("red", fmt.Sprintf("Cell %d is taken, choose another one.", cell)))
				field.SetText("")
			default:
				answer(cell)
			}
		})
		field.SetBorder(true)

		return field
	})
	if err != nil {
		return service.NoMove, err
	}

	return cell, nil
}

func (that *Console) AskReplay(ctx context.Context, _ entity.Score) (bool, error) {
	return ask(ctx, that, "replay", func(answer func(bool)) tview.Primitive {
		return tview.NewModal().
			SetText("Play again with the same players?").
			AddButtons([]string{"Yes", "No"}).
			SetDoneFunc(func(_ int, label string) {
				answer(label == "Yes")
			})
	})
}

// ShowBoard redraws the tally and the grid in place and clears the status line.
func (that *Console) ShowBoard(score entity.Score, board entity.Board) {
	_ = that.update(func() {
		that.board.SetText(that.renderBoard(score, board))
		that.setStatus("")
	})
}

func (that *Console) renderBoard(score entity.Score, board entity.Board) string {
	var text strings.Builder

	fmt.Fprintf(&text, "%s: %d   %s: %d   draws: %d\n\n",
		that.escape(score.Players[0]), score.Wins[0], that.escape(score.Players[1]), score.Wins[1], score.Draws)

	grid := that.paint("magenta", "|")
	separator := that.paint("magenta", rowSeparator)

	fmt.Fprintf(&text, "%s\n", separator)
	for _, row := range board.Rows() {
		text.WriteString(grid)
		for _, cell := range row {
			mark, err := entity.ParseMark(cell)
			if err != nil {
				fmt.Fprintf(&text, "  %s  %s", cell, grid)
				continue
			}
			fmt.Fprintf(&text, "  %s  %s", that.paintMark(mark), grid)
		}
		fmt.Fprintf(&text, "\n%s\n", separator)
	}

	return text.String()
}

// ShowResult puts the winner banner of a finished board on the status line.
func (that *Console) ShowResult(outcome entity.Outcome, players [2]*entity.Player) {
	winner := outcome.Winner()

	var banner string
	switch {
	case !outcome.IsTerminal():
		return
	case winner == entity.MarkNone:
		banner = "************* It's a draw! *************"
	case winner == players[0].Mark:
		banner = fmt.Sprintf("************* %s wins! *************", that.escape(players[0].Name))
	default:
		banner = fmt.Sprintf("************* %s wins! *************", that.escape(players[1].Name))
	}

	_ = that.update(func() {
		that.setStatus(that.paint("blue", banner))
	})
}

func (that *Console) ShowError(err error) {
	_ = that.update(func() {
		that.setStatus(that.paint("red", that.escape(err.Error())))
	})
}

func (that *Console) Goodbye() {
	_ = that.update(func() {
		that.setPrompt(nil)
		that.setStatus("Leaving the game...")
	})
}
