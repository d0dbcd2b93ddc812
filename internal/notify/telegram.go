package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"signal-scanner/models"
)

// Notifier delivers signals to a Telegram chat.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger zerolog.Logger
}

// New creates a Telegram notifier. An empty token yields a disabled
// notifier that drops messages, so the scanner can run without Telegram.
func New(token string, chatID int64) (*Notifier, error) {
	logger := log.With().Str("component", "notify").Logger()
	if token == "" {
		logger.Warn().Msg("No Telegram token configured, notifications disabled")
		return &Notifier{logger: logger}, nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("initializing Telegram bot: %w", err)
	}

	return &Notifier{bot: bot, chatID: chatID, logger: logger}, nil
}

var _ models.SignalNotifier = (*Notifier)(nil)

// SendSignal formats and sends one signal. A disabled notifier logs the
// drop and returns nil.
func (n *Notifier) SendSignal(ctx context.Context, signal *models.Signal) error {
	if n.bot == nil {
		n.logger.Debug().Str("instrument", signal.Instrument).Msg("Notifier disabled, dropping signal")
		return nil
	}

	msg := tgbotapi.NewMessage(n.chatID, FormatSignal(signal))
	msg.ParseMode = "Markdown"

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("sending Telegram message: %w", err)
	}

	n.logger.Info().Str("id", signal.ID).Str("instrument", signal.Instrument).Msg("Signal sent")
	return nil
}

func entryTypeLabel(t models.EntryType) string {
	switch t {
	case models.EntryCHoCH:
		return "Change of Character"
	case models.EntryZoneFlip:
		return "Zone Flip"
	case models.EntryContinuation:
		return "Trend Continuation"
	}
	return string(t)
}

// FormatSignal renders one signal as a Markdown message.
func FormatSignal(signal *models.Signal) string {
	directionEmoji := "🔼"
	if signal.Direction == models.DirectionSell {
		directionEmoji = "🔽"
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("*Signal for %s*\n\n", signal.Instrument))
	text.WriteString(fmt.Sprintf("*Direction:* %s %s\n", directionEmoji, strings.ToUpper(string(signal.Direction))))
	text.WriteString(fmt.Sprintf("*Setup:* %s\n", entryTypeLabel(signal.EntryType)))
	text.WriteString(fmt.Sprintf("*Confidence:* %d%%\n\n", signal.Confidence))

	text.WriteString(fmt.Sprintf("Entry Price: %.5f\n", signal.EntryPrice))
	text.WriteString(fmt.Sprintf("Stop Loss: %.5f\n", signal.StopLoss))
	text.WriteString(fmt.Sprintf("Take Profit: %.5f\n", signal.TakeProfit))
	text.WriteString(fmt.Sprintf("Risk/Reward Ratio: %.1f\n", signal.RiskRewardRatio))

	if len(signal.Confirmations) > 0 {
		text.WriteString("\n*Confirmations:*\n")
		for i, c := range signal.Confirmations {
			text.WriteString(fmt.Sprintf("%d. %s\n", i+1, c))
		}
	}

	text.WriteString(fmt.Sprintf("\nTimeframes: %s / %s / %s\n",
		signal.Timeframes.Context, signal.Timeframes.Entry, signal.Timeframes.Refine))
	text.WriteString(fmt.Sprintf("Expires: %s", signal.ExpiresAt.UTC().Format("2006-01-02 15:04 MST")))

	return text.String()
}
