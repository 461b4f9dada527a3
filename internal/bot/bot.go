// internal/bot/bot.go
package bot

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jason-s-yu/unobot/internal/fetch"
	"github.com/jason-s-yu/unobot/internal/game"
	"github.com/jason-s-yu/unobot/internal/models"
	"github.com/sirupsen/logrus"
)

// maxCallbackData is Telegram's limit for inline button payloads, in bytes.
const maxCallbackData = 64

// Sender is the part of *tgbotapi.BotAPI the dispatcher needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// CatSource returns the url of a random cat picture.
type CatSource interface {
	RandomImageURL(ctx context.Context) (string, error)
}

// JokeSource returns a random two-part joke.
type JokeSource interface {
	Random(ctx context.Context) (fetch.Joke, error)
}

// StatsSource reports finished-game totals for a session label.
type StatsSource interface {
	Stats(ctx context.Context, sessionKey string) (models.PlayerStats, error)
}

// Bot turns Telegram updates into game and mini-game actions.
type Bot struct {
	api  Sender
	ctrl *game.Controller

	// Optional collaborators; a nil source makes its command reply with an apology.
	Cats  CatSource
	Jokes JokeSource
	Stats StatsSource

	// SessionLabel maps a session key to the label results are stored under.
	SessionLabel func(key string) string

	// ThinkingDelay is how long "Bot is thinking..." stays up before the
	// opponent's move is shown. Zero edits the result in directly.
	ThinkingDelay time.Duration

	rngMu sync.Mutex
	rng   *rand.Rand

	log *logrus.Entry
}

// New builds a dispatcher for api that plays games through ctrl.
func New(api Sender, ctrl *game.Controller, logger *logrus.Logger) *Bot {
	return &Bot{
		api:  api,
		ctrl: ctrl,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
		log:  logger.WithField("component", "bot"),
	}
}

// SessionKey returns the engine key of a Telegram chat.
func SessionKey(chatID int64) string {
	return fmt.Sprintf("tg:%d", chatID)
}

// HandleUpdate dispatches one update. It is safe to call from many goroutines.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID
	if !msg.IsCommand() {
		if msg.Text != "" {
			b.send(tgbotapi.NewMessage(chatID, msg.Text))
		}
		return
	}

	b.log.WithFields(logrus.Fields{"chat": chatID, "command": msg.Command()}).Debug("Command received.")
	switch msg.Command() {
	case "start":
		b.cmdStart(msg)
	case "help":
		b.send(tgbotapi.NewMessage(chatID, helpText))
	case "uno":
		b.startGame(chatID)
	case "cat":
		b.cmdCat(ctx, chatID)
	case "joke":
		b.cmdJoke(ctx, chatID)
	case "rps":
		b.cmdRPS(chatID)
	case "dice":
		b.send(tgbotapi.NewDice(chatID))
	case "math":
		b.cmdMath(chatID)
	case "stats":
		b.cmdStats(ctx, chatID)
	default:
		b.send(tgbotapi.NewMessage(chatID, "🤷 Unknown command. Try /help."))
	}
}

const helpText = `Here is what I can do:
/uno - play UNO against me
/stats - your UNO wins and losses
/cat - a random cat
/joke - a random joke
/rps - rock, paper, scissors
/dice - roll a die
/math - a quick math quiz`

func (b *Bot) cmdStart(msg *tgbotapi.Message) {
	name := "there"
	if msg.From != nil && msg.From.FirstName != "" {
		name = msg.From.FirstName
	}
	reply := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf("Hi %s! 👋 Want to play a game? Send /help for everything I know.", name))
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🃏 Play UNO", cbUnoNew),
			tgbotapi.NewInlineKeyboardButtonData("✊ Rock paper scissors", cbRPSMenu),
		),
	)
	b.send(reply)
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil || cq.Message.Chat == nil {
		b.answer(cq.ID, "")
		return
	}
	chatID, msgID := cq.Message.Chat.ID, cq.Message.MessageID
	data := cq.Data

	switch {
	case strings.HasPrefix(data, "uno_"):
		b.handleUnoCallback(ctx, cq, chatID, msgID)
	case strings.HasPrefix(data, "joke_"):
		b.answer(cq.ID, "")
		text := strings.TrimPrefix(data, "joke_")
		if cq.Message.Text != "" {
			text = cq.Message.Text + "\n\n" + text
		}
		b.send(tgbotapi.NewEditMessageText(chatID, msgID, text))
	case data == cbRPSMenu:
		b.answer(cq.ID, "")
		b.cmdRPS(chatID)
	case strings.HasPrefix(data, "rps_"):
		b.answer(cq.ID, "")
		b.playRPS(chatID, msgID, strings.TrimPrefix(data, "rps_"))
	case strings.HasPrefix(data, "math_"):
		b.answer(cq.ID, "")
		b.checkMath(chatID, msgID, data)
	default:
		b.answer(cq.ID, "🤔 I don't know that button.")
	}
}

// send delivers c and logs failures. Telegram answers edits that change nothing with
// an error, so those only reach debug level.
func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		if strings.Contains(err.Error(), "message is not modified") {
			b.log.WithError(err).Debug("Edit skipped.")
			return
		}
		b.log.WithError(err).Warn("Failed to send to Telegram.")
	}
}

func (b *Bot) answer(callbackID, text string) {
	cb := tgbotapi.NewCallback(callbackID, text)
	if _, err := b.api.Request(cb); err != nil {
		b.log.WithError(err).Debug("Failed to answer callback query.")
	}
}

func (b *Bot) label(key string) string {
	if b.SessionLabel == nil {
		return key
	}
	return b.SessionLabel(key)
}

// callbackData joins prefix and payload, cutting the payload on a rune boundary so the
// result fits Telegram's limit.
func callbackData(prefix, payload string) string {
	room := maxCallbackData - len(prefix)
	if len(payload) <= room {
		return prefix + payload
	}
	const ellipsis = "…"
	room -= len(ellipsis)
	cut := 0
	for i := range payload {
		if i > room {
			break
		}
		cut = i
	}
	return prefix + payload[:cut] + ellipsis
}
