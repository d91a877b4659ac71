package telegram

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"support-chat/internal/domain"
	"support-chat/internal/transcript"
)

const (
	// Telegram rejects messages longer than 4096 characters.
	maxMessageRunes = 4096
	placeholder     = "…"
)

// entryPublisher mirrors the bot entries of one chat's transcript as a
// Telegram message that is edited while the response streams in.
type entryPublisher struct {
	api    botAPI
	chatID int64
	every  time.Duration
	now    func() time.Time

	messageID int
	shown     string
	lastEdit  time.Time
}

func newEntryPublisher(api botAPI, chatID int64, every time.Duration) *entryPublisher {
	return &entryPublisher{
		api:    api,
		chatID: chatID,
		every:  every,
		now:    time.Now,
	}
}

// EntryChanged ignores user entries: the user's own message is already in
// the chat.
func (p *entryPublisher) EntryChanged(ev transcript.Event) {
	if ev.Entry.Sender != domain.SenderBot {
		return
	}

	switch ev.Kind {
	case transcript.EventBegun:
		p.messageID = 0
		p.shown = ""
		p.send(placeholder)
	case transcript.EventUpdated:
		if p.now().Sub(p.lastEdit) < p.every {
			return
		}
		p.edit(firstChunk(ev.Entry.Text))
	case transcript.EventFinalized:
		chunks := splitText(ev.Entry.Text, maxMessageRunes)
		p.edit(chunks[0])
		for _, chunk := range chunks[1:] {
			p.send(chunk)
		}
		p.messageID = 0
	}
}

func (p *entryPublisher) send(text string) {
	sent, err := p.api.Send(tgbotapi.NewMessage(p.chatID, text))
	if err != nil {
		log.Error().Err(err).Str("component", "telegram").Int64("chat_id", p.chatID).Msg("failed to send message")
		return
	}
	p.messageID = sent.MessageID
	p.shown = text
	p.lastEdit = p.now()
}

func (p *entryPublisher) edit(text string) {
	if text == "" {
		text = placeholder
	}
	if text == p.shown {
		return
	}
	if p.messageID == 0 {
		p.send(text)
		return
	}
	if _, err := p.api.Request(tgbotapi.NewEditMessageText(p.chatID, p.messageID, text)); err != nil {
		log.Warn().Err(err).Str("component", "telegram").Int64("chat_id", p.chatID).Msg("failed to edit message")
		return
	}
	p.shown = text
	p.lastEdit = p.now()
}

func firstChunk(text string) string {
	return splitText(text, maxMessageRunes)[0]
}

func splitText(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		return []string{text}
	}

	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	chunks := make([]string, 0, len(runes)/chunkSize+1)
	for start := 0; start < len(runes); start += chunkSize {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks
}
