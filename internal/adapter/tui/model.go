package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"support-chat/internal/domain"
	"support-chat/internal/transcript"
	"support-chat/internal/usecase/chat"
)

const busyText = "Still answering your previous message, one moment."

var (
	userStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	botStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type entryMsg struct {
	ev transcript.Event
}

type submitDoneMsg struct {
	err error
}

// Model keeps its own copy of the transcript, rebuilt from events, so that
// rendering never has to lock the transcript that is publishing to it.
type Model struct {
	ctx      context.Context
	session  *chat.Session
	renderer *glamour.TermRenderer

	input    textinput.Model
	viewport viewport.Model
	entries  []domain.Entry
	status   string
	width    int
}

// NewModel builds the chat screen. renderer may be nil, in which case bot
// replies are shown as plain text.
func NewModel(ctx context.Context, session *chat.Session, renderer *glamour.TermRenderer) Model {
	in := textinput.New()
	in.Placeholder = "Type a message and press Enter"
	in.Prompt = "> "
	in.Focus()

	return Model{
		ctx:      ctx,
		session:  session,
		renderer: renderer,
		input:    in,
		viewport: viewport.New(80, 20),
		width:    80,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-3, 1)
		m.input.Width = max(msg.Width-4, 1)
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
	case entryMsg:
		m.apply(msg.ev)
		m.refresh()
		return m, nil
	case submitDoneMsg:
		if errors.Is(msg.err, chat.ErrBusy) {
			m.status = busyText
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	return m.viewport.View() + "\n" + statusStyle.Render(m.status) + "\n" + m.input.View()
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}
	if m.session.Busy() {
		m.status = busyText
		return m, nil
	}

	m.input.Reset()
	m.status = ""
	ctx, session := m.ctx, m.session
	return m, func() tea.Msg {
		return submitDoneMsg{err: session.Submit(ctx, text)}
	}
}

func (m *Model) apply(ev transcript.Event) {
	switch {
	case ev.Index == len(m.entries):
		m.entries = append(m.entries, ev.Entry)
	case ev.Index < len(m.entries):
		m.entries[ev.Index] = ev.Entry
	default:
		log.Warn().Int("index", ev.Index).Int("have", len(m.entries)).Msg("transcript event out of range")
	}
}

// refresh re-renders the transcript and keeps the newest entry in view.
func (m *Model) refresh() {
	parts := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		parts = append(parts, m.renderEntry(e))
	}
	m.viewport.SetContent(strings.Join(parts, "\n\n"))
	m.viewport.GotoBottom()
}

func (m *Model) renderEntry(e domain.Entry) string {
	if e.Sender == domain.SenderUser {
		return userStyle.Render("You") + "\n" + wrap(e.Text, m.width)
	}

	body := wrap(e.Text, m.width)
	if e.Final && m.renderer != nil && e.Text != "" {
		out, err := m.renderer.Render(e.Text)
		if err == nil {
			body = strings.TrimRight(out, "\n")
		} else {
			log.Debug().Err(err).Msg("markdown render failed")
		}
	}
	return botStyle.Render("Bot") + "\n" + body
}

func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
