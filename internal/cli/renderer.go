// internal/cli/renderer.go
package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jason-s-yu/unobot/internal/game"
	"github.com/jason-s-yu/unobot/internal/models"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// C holds pre-configured color objects for printing to the console.
var C = struct {
	Info, Warn, Win, Lose, Header, Dim *color.Color
}{
	Info:   color.New(color.FgCyan),
	Warn:   color.New(color.FgHiYellow),
	Win:    color.New(color.FgGreen, color.Bold),
	Lose:   color.New(color.FgRed, color.Bold),
	Header: color.New(color.FgWhite, color.Bold),
	Dim:    color.New(color.FgHiBlack),
}

var cardColors = map[models.Color]*color.Color{
	models.Red:    color.New(color.FgRed),
	models.Yellow: color.New(color.FgYellow),
	models.Green:  color.New(color.FgGreen),
	models.Blue:   color.New(color.FgBlue),
}

// ColorizeCard renders a card as colored text, e.g. "green 7".
func ColorizeCard(c models.Card) string {
	label := fmt.Sprintf("%s %s", c.Color, c.Value)
	if cc, ok := cardColors[c.Color]; ok {
		return cc.Sprint(label)
	}
	return label
}

// RenderGame writes the board: status line, table summary, then the numbered hand.
func RenderGame(w io.Writer, rs game.RenderState) {
	switch {
	case rs.Finished && rs.HumanWon():
		C.Win.Fprintln(w, rs.Status)
	case rs.Finished:
		C.Lose.Fprintln(w, rs.Status)
	case rs.Rejected:
		C.Warn.Fprintln(w, rs.Status)
	default:
		C.Info.Fprintln(w, rs.Status)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("UNO")
	t.AppendRow(table.Row{"Top card", ColorizeCard(rs.Top)})
	t.AppendRow(table.Row{"Bot cards", rs.OpponentCards})
	t.AppendRow(table.Row{"Deck", rs.DeckSize})
	t.SetStyle(table.StyleRounded)
	t.Style().Title.Align = text.AlignCenter
	t.Render()

	if rs.Finished {
		return
	}

	h := table.NewWriter()
	h.SetOutputMirror(w)
	h.AppendHeader(table.Row{"#", "Card", "Playable"})
	for i, c := range rs.Hand {
		mark := C.Dim.Sprint("-")
		if i < len(rs.Playable) && rs.Playable[i] {
			mark = C.Win.Sprint("✔")
		}
		h.AppendRow(table.Row{i + 1, ColorizeCard(c), mark})
	}
	h.SetStyle(table.StyleLight)
	h.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Align: text.AlignRight}})
	h.Render()
}

// RenderHelp prints the command table.
func RenderHelp(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Command", "Alias", "Description"})
	t.AppendRows([]table.Row{
		{"play <n>", "p", "Play card number n of your hand"},
		{"draw", "d", "Draw a card"},
		{"new", "n", "Start a new game"},
		{"help", "h", "Show this table"},
		{"quit", "q", "Leave"},
	})
	t.SetStyle(table.StyleLight)
	t.Render()
}
