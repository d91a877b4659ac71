package web

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"support-chat/internal/transcript"
	"support-chat/internal/usecase/chat"
)

const (
	writeWait = 10 * time.Second
	busyText  = "Still answering your previous message, one moment."
)

// frame is a server to browser message. Type is one of append, begin,
// update, finalize or busy.
type frame struct {
	Type   string `json:"type"`
	ID     string `json:"id,omitempty"`
	Sender string `json:"sender,omitempty"`
	Text   string `json:"text"`
}

type submitFrame struct {
	Text string `json:"text"`
}

// socket forwards transcript changes to the browser.
type socket struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	logger zerolog.Logger
}

func (s *socket) EntryChanged(ev transcript.Event) {
	s.write(frame{
		Type:   ev.Kind.String(),
		ID:     string(ev.Entry.ID),
		Sender: string(ev.Entry.Sender),
		Text:   ev.Entry.Text,
	})
}

func (s *socket) write(f frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(f); err != nil {
		s.logger.Debug().Err(err).Str("type", f.Type).Msg("ws write failed")
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	logger := s.logger.With().Str("conn_id", uuid.NewString()).Logger()
	sock := &socket{conn: conn, logger: logger}
	session := chat.NewSession(s.chat, transcript.New(sock))

	// The worker only receives while idle, so a submission that arrives
	// while a response streams is turned away instead of queued.
	turns := make(chan string)
	done := make(chan struct{})
	defer func() {
		close(turns)
		<-done
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	go func() {
		defer close(done)
		for text := range turns {
			if err := session.Submit(ctx, text); errors.Is(err, chat.ErrBusy) {
				sock.write(frame{Type: "busy", Text: busyText})
			}
		}
	}()

	logger.Info().Msg("chat connected")
	for {
		var in submitFrame
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn().Err(err).Msg("chat connection lost")
			} else {
				logger.Info().Msg("chat disconnected")
			}
			return
		}
		if strings.TrimSpace(in.Text) == "" {
			continue
		}

		select {
		case turns <- in.Text:
		default:
			sock.write(frame{Type: "busy", Text: busyText})
		}
	}
}
