package telegram

import (
	retry "github.com/avast/retry-go/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const sendAttempts = 3

// send delivers a message with retries. Telegram's API is flaky enough that
// a couple of retries cover most transient failures.
func (b *Bot) send(msg tgbotapi.Chattable) {
	err := retry.Do(
		func() error {
			_, err := b.api.Send(msg)
			return err
		},
		retry.Attempts(sendAttempts),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		b.logger.Error("failed to send telegram message", zap.Error(err))
	}
}

func (b *Bot) sendText(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}
