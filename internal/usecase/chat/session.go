package chat

//go:generate mockgen -destination=./session_mock_test.go -package=chat -source=session.go

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"support-chat/internal/domain"
)

var ErrBusy = errors.New("a response is still streaming")

// View is the transcript a session writes to.
type View interface {
	Append(sender domain.Sender, text string)
	BeginBotEntry() domain.EntryID
	UpdateBotEntry(id domain.EntryID, fullText string) error
	FinalizeBotEntry(id domain.EntryID, fullText string) error
}

// Session handles submissions for one transcript. At most one response
// streams at a time; a submission made meanwhile is rejected with ErrBusy.
type Session struct {
	svc     *Service
	view    View
	apology string
	busy    atomic.Bool
}

func NewSession(svc *Service, view View) *Session {
	return &Session{
		svc:     svc,
		view:    view,
		apology: svc.cfg.ApologyText,
	}
}

func (s *Session) Busy() bool {
	return s.busy.Load()
}

// Submit runs one turn. Stream failures end up in the transcript as the
// apology text and are not returned.
func (s *Session) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	if !s.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer s.busy.Store(false)

	s.view.Append(domain.SenderUser, text)
	id := s.view.BeginBotEntry()

	final := s.stream(ctx, id, text)
	if err := s.view.FinalizeBotEntry(id, final); err != nil {
		log.Error().Err(err).Str("entry_id", string(id)).Msg("failed to finalize bot entry")
	}
	return nil
}

func (s *Session) stream(ctx context.Context, id domain.EntryID, text string) string {
	completion, err := s.svc.Complete(ctx, text)
	if err != nil {
		log.Error().Err(err).Msg("completion request failed")
		return s.apology
	}
	defer completion.Close()

	for completion.Next() {
		if err := s.view.UpdateBotEntry(id, completion.Text()); err != nil {
			log.Warn().Err(err).Str("entry_id", string(id)).Msg("dropping update for bot entry")
		}
	}
	if err := completion.Err(); err != nil {
		log.Error().Err(err).Int("received", len(completion.Text())).Msg("completion stream failed")
		return s.apology
	}
	return completion.Text()
}
