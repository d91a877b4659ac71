package telegram

import (
	"context"
	"errors"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"support-chat/internal/adapter/memory"
	"support-chat/internal/config"
	"support-chat/internal/transcript"
	"support-chat/internal/usecase/chat"
)

const (
	greeting    = "Hi, I'm here to listen. Tell me what's on your mind."
	sweepPeriod = time.Minute
)

// botAPI is the part of tgbotapi.BotAPI the bot relies on.
type botAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Bot struct {
	api      botAPI
	cfg      config.Config
	sessions *memory.Store
	logger   zerolog.Logger
}

func NewBot(cfg config.Config, chatSvc *chat.Service) (*Bot, error) {
	if cfg.TelegramToken == "" {
		return nil, errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, err
	}
	return newBot(api, cfg, chatSvc), nil
}

func newBot(api botAPI, cfg config.Config, chatSvc *chat.Service) *Bot {
	b := &Bot{
		api:    api,
		cfg:    cfg,
		logger: log.With().Str("component", "telegram").Logger(),
	}
	b.sessions = memory.NewStore(cfg.SessionTTL, func(chatID int64) *chat.Session {
		pub := newEntryPublisher(api, chatID, cfg.TelegramEditEvery)
		return chat.NewSession(chatSvc, transcript.New(pub))
	})
	return b
}

func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	sweep := time.NewTicker(sweepPeriod)
	defer sweep.Stop()

	b.logger.Info().Msg("polling for updates")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-sweep.C:
			if n := b.sessions.Sweep(); n > 0 {
				b.logger.Debug().Int("removed", n).Msg("dropped idle sessions")
			}
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			msg := update.Message
			if msg.From == nil {
				continue
			}
			go b.handleMessage(ctx, msg)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	logger := b.logger.With().Int64("chat_id", msg.Chat.ID).Int64("user_id", msg.From.ID).Logger()

	if !isAllowedUser(msg.From.ID, b.cfg) {
		logger.Warn().Msg("access denied")
		b.reply(msg, "access denied")
		return
	}

	if msg.IsCommand() && msg.Command() == "start" {
		b.reply(msg, greeting)
		return
	}

	session := b.sessions.Get(msg.Chat.ID)
	if session.Busy() {
		b.reply(msg, "I'm still answering your previous message, one moment.")
		return
	}

	if _, err := b.api.Request(tgbotapi.NewChatAction(msg.Chat.ID, tgbotapi.ChatTyping)); err != nil {
		logger.Debug().Err(err).Msg("failed to send chat action")
	}

	switch err := session.Submit(ctx, msg.Text); {
	case errors.Is(err, chat.ErrEmptyMessage):
		b.reply(msg, "I need some text to work with.")
	case errors.Is(err, chat.ErrBusy):
		b.reply(msg, "I'm still answering your previous message, one moment.")
	case err != nil:
		logger.Error().Err(err).Msg("submit failed")
	}
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ReplyToMessageID = msg.MessageID
	if _, err := b.api.Send(out); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("failed to send reply")
	}
}

func isAllowedUser(userID int64, cfg config.Config) bool {
	for _, id := range cfg.AdminUserIDs {
		if id == userID {
			return true
		}
	}

	if len(cfg.AllowedUserIDs) == 0 {
		return true
	}

	for _, id := range cfg.AllowedUserIDs {
		if id == userID {
			return true
		}
	}

	return false
}
