package telegram

import (
	"context"

	"gopkg.in/telebot.v3"

	"github.com/nikmy/agenda/internal/checker"
	"github.com/nikmy/agenda/pkg/errors"
	"github.com/nikmy/agenda/pkg/logger"
)

func New(log logger.Logger, conf Config, check checker.API) (*Bot, error) {
	b, err := telebot.NewBot(telebot.Settings{
		Token:   conf.Token,
		Updates: 256,
		Poller: &telebot.LongPoller{
			Timeout: conf.PollInterval,
		},
	})
	if err != nil {
		return nil, errors.WrapFail(err, "create telegram bot")
	}

	return &Bot{
		bot:   b,
		check: check,
		log:   log.With("telegram_bot"),
	}, nil
}

type Bot struct {
	bot *telebot.Bot
	ctx context.Context

	check checker.API

	log logger.Logger
}

func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx
	b.setupHandlers()
	go b.bot.Start()
	return nil
}

func (b *Bot) Stop() {
	b.bot.Stop()
}
