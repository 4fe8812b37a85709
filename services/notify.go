package services

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier relays order summaries to the café owner's chat.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &TelegramNotifier{api: api, chatID: chatID}, nil
}

// OrderPlaced sends the summary to the owner. Fire-and-forget: the customer
// already has their order persisted, so a relay failure is only logged.
func (n *TelegramNotifier) OrderPlaced(orderID int64, message string) {
	go func() {
		msg := tgbotapi.NewMessage(n.chatID, message)
		msg.ParseMode = tgbotapi.ModeMarkdown
		if _, err := n.api.Send(msg); err != nil {
			slog.Error("telegram: send order notification", "order_id", orderID, "err", err)
		}
	}()
}
