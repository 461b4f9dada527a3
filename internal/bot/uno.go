// internal/bot/uno.go
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jason-s-yu/unobot/internal/game"
)

const (
	cbUnoNew  = "uno_new"
	cbUnoDraw = "uno_draw"
	cbUnoPlay = "uno_play_"

	cardsPerRow = 4
)

const noGameText = "😴 No active game. Start a new game first."

func (b *Bot) startGame(chatID int64) {
	rs := b.ctrl.StartGame(SessionKey(chatID))
	msg := tgbotapi.NewMessage(chatID, renderGame(rs))
	msg.ReplyMarkup = gameKeyboard(rs)
	b.send(msg)
}

func (b *Bot) handleUnoCallback(ctx context.Context, cq *tgbotapi.CallbackQuery, chatID int64, msgID int) {
	key := SessionKey(chatID)

	var (
		rs  game.RenderState
		err error
	)
	switch {
	case cq.Data == cbUnoNew:
		rs = b.ctrl.StartGame(key)
	case cq.Data == cbUnoDraw:
		rs, err = b.ctrl.DrawCard(key)
	case strings.HasPrefix(cq.Data, cbUnoPlay):
		idx, convErr := strconv.Atoi(strings.TrimPrefix(cq.Data, cbUnoPlay))
		if convErr != nil {
			b.answer(cq.ID, "🤔 I don't know that card.")
			return
		}
		rs, err = b.ctrl.PlayCard(key, idx)
	default:
		b.answer(cq.ID, "🤔 I don't know that button.")
		return
	}

	if errors.Is(err, game.ErrNoActiveGame) {
		b.answer(cq.ID, "")
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, noGameText, newGameKeyboard("🃏 New game")))
		return
	}
	if err != nil {
		b.log.WithError(err).WithField("chat", chatID).Error("UNO action failed.")
		b.answer(cq.ID, "Something went wrong.")
		return
	}
	if rs.Rejected {
		// the board did not change, so only the toast tells the player why
		b.answer(cq.ID, rs.Status)
		return
	}
	b.answer(cq.ID, "")

	if rs.OpponentAction != game.OpponentNone && b.ThinkingDelay > 0 {
		b.send(tgbotapi.NewEditMessageText(chatID, msgID, "🤖 Bot is thinking..."))
		// cut short on cancel, the board still has to replace the thinking message
		sleepCtx(ctx, b.ThinkingDelay)
	}
	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, renderGame(rs), gameKeyboard(rs)))
}

// sleepCtx waits for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// renderGame formats the board for a chat message.
func renderGame(rs game.RenderState) string {
	var sb strings.Builder
	sb.WriteString(rs.Status)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Top card: %s\n", rs.Top)
	fmt.Fprintf(&sb, "🤖 Bot: %d card(s) | 🂠 Deck: %d\n", rs.OpponentCards, rs.DeckSize)
	if rs.Finished {
		return sb.String()
	}

	cards := make([]string, len(rs.Hand))
	for i, c := range rs.Hand {
		cards[i] = c.String()
	}
	fmt.Fprintf(&sb, "🫵 Your hand: %s", strings.Join(cards, " "))
	return sb.String()
}

// gameKeyboard has one button per card in hand, then draw and restart.
// Cards that cannot be played are marked but stay clickable.
func gameKeyboard(rs game.RenderState) tgbotapi.InlineKeyboardMarkup {
	if rs.Finished {
		return newGameKeyboard("🔁 Play again")
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for i, c := range rs.Hand {
		label := c.String()
		if i < len(rs.Playable) && !rs.Playable[i] {
			label = "✖" + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, cbUnoPlay+strconv.Itoa(i)))
		if len(row) == cardsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🂠 Draw", cbUnoDraw),
		tgbotapi.NewInlineKeyboardButtonData("🔄 New game", cbUnoNew),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func newGameKeyboard(label string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, cbUnoNew)),
	)
}
