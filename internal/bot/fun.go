// internal/bot/fun.go
package bot

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jason-s-yu/unobot/internal/minigames"
)

const cbRPSMenu = "rps_menu"

func (b *Bot) cmdCat(ctx context.Context, chatID int64) {
	if b.Cats == nil {
		b.send(tgbotapi.NewMessage(chatID, "😿 No cats today."))
		return
	}
	url, err := b.Cats.RandomImageURL(ctx)
	if err != nil {
		b.log.WithError(err).Warn("Cat API failed.")
		b.send(tgbotapi.NewMessage(chatID, "😿 Couldn't fetch a cat right now."))
		return
	}
	b.send(tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(url)))
}

func (b *Bot) cmdJoke(ctx context.Context, chatID int64) {
	if b.Jokes == nil {
		b.send(tgbotapi.NewMessage(chatID, "😶 I'm out of jokes."))
		return
	}
	j, err := b.Jokes.Random(ctx)
	if err != nil {
		b.log.WithError(err).Warn("Joke API failed.")
		b.send(tgbotapi.NewMessage(chatID, "😶 Couldn't think of a joke right now."))
		return
	}
	msg := tgbotapi.NewMessage(chatID, j.Setup)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("😂 Reveal", callbackData("joke_", j.Punchline)),
		),
	)
	b.send(msg)
}

func (b *Bot) cmdRPS(chatID int64) {
	var row []tgbotapi.InlineKeyboardButton
	for _, m := range minigames.Moves {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(m.Emoji(), "rps_"+string(m)))
	}
	msg := tgbotapi.NewMessage(chatID, "Rock, paper or scissors?")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(row)
	b.send(msg)
}

func (b *Bot) playRPS(chatID int64, msgID int, choice string) {
	user, err := minigames.ParseMove(choice)
	if err != nil {
		b.log.WithError(err).Debug("Bad rps callback.")
		return
	}
	b.rngMu.Lock()
	mine := minigames.RandomRPS(b.rng)
	b.rngMu.Unlock()

	var verdict string
	switch minigames.RPSWinner(user, mine) {
	case minigames.UserWins:
		verdict = "You win! 🎉"
	case minigames.BotWins:
		verdict = "I win! 😈"
	default:
		verdict = "It's a tie! 🤝"
	}
	text := fmt.Sprintf("You: %s  Me: %s\n%s", user.Emoji(), mine.Emoji(), verdict)
	b.send(tgbotapi.NewEditMessageText(chatID, msgID, text))
}

func (b *Bot) cmdMath(chatID int64) {
	b.rngMu.Lock()
	q := minigames.NewMathQuiz(b.rng)
	b.rngMu.Unlock()

	var row []tgbotapi.InlineKeyboardButton
	for _, c := range q.Choices {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(strconv.Itoa(c), q.CallbackData(c)))
	}
	msg := tgbotapi.NewMessage(chatID, "🧮 "+q.Question)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(row)
	b.send(msg)
}

func (b *Bot) checkMath(chatID int64, msgID int, data string) {
	choice, answer, err := minigames.ParseMathCallback(data)
	if err != nil {
		b.log.WithError(err).Debug("Bad math callback.")
		return
	}
	text := fmt.Sprintf("✅ Correct, it's %d!", answer)
	if choice != answer {
		text = fmt.Sprintf("❌ Not quite, %d is wrong. The answer is %d.", choice, answer)
	}
	b.send(tgbotapi.NewEditMessageText(chatID, msgID, text))
}

func (b *Bot) cmdStats(ctx context.Context, chatID int64) {
	if b.Stats == nil {
		b.send(tgbotapi.NewMessage(chatID, "📊 Stats are not available."))
		return
	}
	st, err := b.Stats.Stats(ctx, b.label(SessionKey(chatID)))
	if err != nil {
		b.log.WithError(err).Warn("Failed to load stats.")
		b.send(tgbotapi.NewMessage(chatID, "📊 Couldn't load your stats right now."))
		return
	}
	if st.Games == 0 {
		b.send(tgbotapi.NewMessage(chatID, "📊 No finished games yet. Try /uno!"))
		return
	}
	text := fmt.Sprintf("📊 Games: %d\n🏆 Wins: %d\n💀 Losses: %d\nWin rate: %.0f%%",
		st.Games, st.Wins, st.Losses, st.WinRate()*100)
	b.send(tgbotapi.NewMessage(chatID, text))
}
