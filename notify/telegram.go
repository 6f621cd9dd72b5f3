package notify

import (
	"context"
	"net/http"

	"github.com/barnybug/announcer/config"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

// Telegram messages the configured chat.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(conf config.TelegramConf, hc *http.Client) (*Telegram, error) {
	return newTelegram(conf, tgbotapi.APIEndpoint, hc)
}

func newTelegram(conf config.TelegramConf, endpoint string, hc *http.Client) (*Telegram, error) {
	if conf.Chat_id == 0 {
		return nil, errors.New("telegram chat_id is not configured")
	}
	bot, err := tgbotapi.NewBotAPIWithClient(conf.Token, endpoint, hc)
	if err != nil {
		return nil, errors.Wrap(err, "telegram")
	}
	return &Telegram{bot: bot, chatID: conf.Chat_id}, nil
}

func (self *Telegram) ID() string {
	return "telegram"
}

func (self *Telegram) Notify(ctx context.Context, message string) error {
	msg := tgbotapi.NewMessage(self.chatID, message)
	_, err := self.bot.Send(msg)
	return errors.Wrap(err, "telegram")
}
