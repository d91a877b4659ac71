package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"support-chat/internal/transcript"
	"support-chat/internal/usecase/chat"
)

// Relay hands transcript events to a running bubbletea program.
type Relay struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (r *Relay) Attach(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.send = p.Send
}

func (r *Relay) EntryChanged(ev transcript.Event) {
	r.mu.Lock()
	send := r.send
	r.mu.Unlock()
	if send != nil {
		send(entryMsg{ev: ev})
	}
}

// Run shows the terminal chat until the user quits or ctx ends.
func Run(ctx context.Context, svc *chat.Service) error {
	relay := &Relay{}
	session := chat.NewSession(svc, transcript.New(relay))

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
	if err != nil {
		log.Warn().Err(err).Msg("markdown rendering disabled")
		renderer = nil
	}

	p := tea.NewProgram(NewModel(ctx, session, renderer), tea.WithAltScreen(), tea.WithContext(ctx))
	relay.Attach(p)

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return errors.Wrap(err, "run terminal ui")
	}
	return nil
}
