package calc

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Min interval between two Telegram messages to the same chat, to stay under
// the ~30 messages/minute API limit.
const telegramSendInterval = 2 * time.Second

// botSender is the slice of tgbotapi.BotAPI the notifier uses.
type botSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier pushes value-bet alerts to one chat, rate limited.
type TelegramNotifier struct {
	bot    botSender
	chatID int64

	mu       sync.Mutex
	lastSend time.Time
}

// NewTelegramNotifier creates the notifier and verifies the bot token.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	bot.Debug = false
	if _, err := bot.GetMe(); err != nil {
		return nil, fmt.Errorf("verify telegram bot: %w", err)
	}
	slog.Info("Telegram notifier initialized", "chat_id", chatID)
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// NotifyValueBets sends one message per bet. Failures are logged and counted;
// the rest of the batch still goes out.
func (n *TelegramNotifier) NotifyValueBets(bets []ValueBet) int {
	sent := 0
	for _, bet := range bets {
		n.throttle()
		msg := tgbotapi.NewMessage(n.chatID, FormatValueBet(bet))
		if _, err := n.bot.Send(msg); err != nil {
			slog.Error("Failed to send value bet alert", "error", err,
				"market_id", bet.Market.MarketID)
			continue
		}
		sent++
	}
	return sent
}

func (n *TelegramNotifier) throttle() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if wait := telegramSendInterval - time.Since(n.lastSend); wait > 0 {
		time.Sleep(wait)
	}
	n.lastSend = time.Now()
}

// FormatValueBet renders one alert message.
func FormatValueBet(bet ValueBet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "+EV bet found: %.2f%%\n", bet.EV*100)
	fmt.Fprintf(&b, "%s\n", bet.Game.Description())
	fmt.Fprintf(&b, "Market: %s", bet.Market.MarketType)
	if bet.Market.Line != nil {
		fmt.Fprintf(&b, " %s", bet.Market.Line.String())
	}
	fmt.Fprintf(&b, "\nSide: %s @ %s (%s)\n",
		bet.Odds.Side, bet.Odds.DecimalOdds.StringFixed(2), bet.Odds.Bookmaker)
	fmt.Fprintf(&b, "Fair: %s\n", bet.FairOdds.StringFixed(2))
	fmt.Fprintf(&b, "Starts: %s", bet.Game.StartTimeUTC.Format("2006-01-02 15:04 UTC"))
	return b.String()
}
