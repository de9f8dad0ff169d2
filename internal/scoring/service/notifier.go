package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dotball/dotball/internal/pkg/models"
	"github.com/dotball/dotball/internal/scoring/engine"
)

// Min interval between any two Telegram messages to the same chat to avoid 429 Too Many Requests (~30/min limit).
const telegramSendInterval = 2 * time.Second

// Notifier pushes scoring alerts (wickets, innings breaks, results) to
// a Telegram chat. Messages go through a buffered queue drained by a
// background sender with a fixed rate limit. All Queue methods are
// nil-safe so the service can run without Telegram configured.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64

	queue  chan string
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewNotifier creates a notifier and verifies the bot token. Returns
// nil (and logs) when Telegram is unreachable, so callers degrade to
// running without alerts.
func NewNotifier(token string, chatID int64) *Notifier {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		slog.Error("Failed to create telegram bot", "error", err)
		return nil
	}
	bot.Debug = false

	if _, err := bot.GetMe(); err != nil {
		slog.Error("Failed to get bot info", "error", err)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	n := &Notifier{
		bot:    bot,
		chatID: chatID,
		queue:  make(chan string, 100),
		ctx:    ctx,
		cancel: cancel,
	}

	n.wg.Add(1)
	go n.messageSender()

	slog.Info("Telegram notifier initialized", "chat_id", chatID)
	return n
}

func (n *Notifier) messageSender() {
	defer n.wg.Done()
	for {
		select {
		case <-n.ctx.Done():
			return
		case text := <-n.queue:
			msg := tgbotapi.NewMessage(n.chatID, text)
			msg.ParseMode = tgbotapi.ModeHTML
			if _, err := n.bot.Send(msg); err != nil {
				slog.Error("Failed to send telegram message", "error", err)
			}
			select {
			case <-n.ctx.Done():
				return
			case <-time.After(telegramSendInterval):
			}
		}
	}
}

func (n *Notifier) enqueue(text string) {
	if n == nil {
		return
	}
	select {
	case n.queue <- text:
	default:
		slog.Warn("Telegram queue full, dropping alert")
	}
}

// QueueWicket announces a dismissal with the current score.
func (n *Notifier) QueueWicket(match *models.Match, live *LiveScore, event models.BallEvent) {
	if n == nil || event.Wicket == nil {
		return
	}
	n.enqueue(fmt.Sprintf(
		"🏏 <b>WICKET</b> %s (%s)\n%s: %d/%d after %s overs",
		event.Wicket.BatterOutID, event.Wicket.Kind,
		live.BattingTeamID, live.Summary.Runs, live.Summary.Wickets, live.Overs))
}

// QueueInningsEnd announces the innings break.
func (n *Notifier) QueueInningsEnd(match *models.Match, live *LiveScore) {
	if n == nil {
		return
	}
	n.enqueue(fmt.Sprintf(
		"🔔 Innings over (%s)\n%s finished %d/%d in %s overs (run rate %.2f)",
		live.EndReason,
		live.BattingTeamID, live.Summary.Runs, live.Summary.Wickets, live.Overs, live.Summary.RunRate))
}

// QueueResult announces a decided match or a tie heading to a Super Over.
func (n *Notifier) QueueResult(match *models.Match, result *engine.MatchResult) {
	if n == nil || result == nil {
		return
	}
	if result.IsTie {
		n.enqueue(fmt.Sprintf("⚖️ %s. %s bat first in the super over", result.Message, result.NextBattingTeamID))
		return
	}
	n.enqueue(fmt.Sprintf("🏆 <b>%s</b>", result.Message))
}

// QueueLen returns the number of queued alerts (for logging).
func (n *Notifier) QueueLen() int {
	if n == nil || n.queue == nil {
		return 0
	}
	return len(n.queue)
}

// Stop shuts the sender down. Queued but unsent alerts are dropped.
func (n *Notifier) Stop() {
	if n == nil {
		return
	}
	n.cancel()
	n.wg.Wait()
}
