// internal/cli/cli.go
package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jason-s-yu/unobot/internal/game"
	"github.com/jason-s-yu/unobot/internal/models"
	"github.com/peterh/liner"
)

// LineReader is the part of *liner.State the loop uses.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// errQuit ends the loop without an error.
var errQuit = errors.New("quit")

// ParseCommand turns user input into a game action. Card numbers are 1-based for
// the user and 0-based in the action.
func ParseCommand(input string) (models.GameAction, error) {
	parts := strings.Fields(strings.ToLower(input))
	if len(parts) == 0 {
		return models.GameAction{}, errors.New("empty command")
	}
	switch parts[0] {
	case "p", "play":
		if len(parts) != 2 {
			return models.GameAction{}, errors.New("usage: p <card number>")
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			return models.GameAction{}, fmt.Errorf("not a card number: %q", parts[1])
		}
		return models.GameAction{ActionType: models.ActionPlay, Index: n - 1}, nil
	case "d", "draw":
		return models.GameAction{ActionType: models.ActionDraw}, nil
	case "n", "new":
		return models.GameAction{ActionType: models.ActionStart}, nil
	case "s", "state":
		return models.GameAction{ActionType: models.ActionState}, nil
	case "q", "quit", "exit":
		return models.GameAction{}, errQuit
	case "h", "help", "?":
		return models.GameAction{ActionType: "help"}, nil
	default:
		return models.GameAction{}, fmt.Errorf("unknown command %q, try 'help'", parts[0])
	}
}

// Run plays games for one session until the user quits or input ends.
func Run(in LineReader, out io.Writer, ctrl *game.Controller, key string) error {
	RenderGame(out, ctrl.StartGame(key))

	for {
		input, err := in.Prompt("uno> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				C.Info.Fprintln(out, "Goodbye!")
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		in.AppendHistory(input)

		action, err := ParseCommand(input)
		if errors.Is(err, errQuit) {
			C.Info.Fprintln(out, "Goodbye!")
			return nil
		}
		if err != nil {
			C.Warn.Fprintln(out, err)
			continue
		}
		if action.ActionType == "help" {
			RenderHelp(out)
			continue
		}

		rs, err := ctrl.Apply(key, action)
		if errors.Is(err, game.ErrNoActiveGame) {
			C.Warn.Fprintln(out, "No game running. Type 'n' for a new one.")
			continue
		}
		if err != nil {
			return err
		}
		RenderGame(out, rs)
		if rs.Finished {
			C.Header.Fprintln(out, "Type 'n' to play again or 'q' to quit.")
		}
	}
}
