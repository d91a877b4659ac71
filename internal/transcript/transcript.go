package transcript

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"support-chat/internal/domain"
)

var ErrNotOpen = errors.New("entry is not the open bot entry")

type EventKind int

const (
	EventAppended EventKind = iota
	EventBegun
	EventUpdated
	EventFinalized
)

func (k EventKind) String() string {
	switch k {
	case EventAppended:
		return "append"
	case EventBegun:
		return "begin"
	case EventUpdated:
		return "update"
	case EventFinalized:
		return "finalize"
	default:
		return "unknown"
	}
}

// Event describes one change to the transcript. Index is the position of
// the entry, which is also where the view is scrolled to after the change.
type Event struct {
	Kind  EventKind
	Index int
	Entry domain.Entry
}

// Listener realises transcript changes on a concrete surface.
type Listener interface {
	EntryChanged(ev Event)
}

type Transcript struct {
	mu       sync.Mutex
	entries  []domain.Entry
	open     int
	scroll   int
	listener Listener
	newID    func() domain.EntryID
}

func New(listener Listener) *Transcript {
	return &Transcript{
		open:     -1,
		scroll:   -1,
		listener: listener,
		newID: func() domain.EntryID {
			return domain.EntryID(uuid.NewString())
		},
	}
}

func (t *Transcript) Append(sender domain.Sender, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = append(t.entries, domain.Entry{
		ID:     t.newID(),
		Sender: sender,
		Text:   text,
		Final:  true,
	})
	t.publish(EventAppended, len(t.entries)-1)
}

func (t *Transcript) BeginBotEntry() domain.EntryID {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.newID()
	t.entries = append(t.entries, domain.Entry{
		ID:     id,
		Sender: domain.SenderBot,
	})
	t.open = len(t.entries) - 1
	t.publish(EventBegun, t.open)
	return id
}

// UpdateBotEntry replaces the text of the open bot entry with fullText.
func (t *Transcript) UpdateBotEntry(id domain.EntryID, fullText string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.isOpen(id) {
		return ErrNotOpen
	}
	t.entries[t.open].Text = fullText
	t.publish(EventUpdated, t.open)
	return nil
}

// FinalizeBotEntry sets the terminal text of the open bot entry and closes it.
func (t *Transcript) FinalizeBotEntry(id domain.EntryID, fullText string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.isOpen(id) {
		return ErrNotOpen
	}
	idx := t.open
	t.entries[idx].Text = fullText
	t.entries[idx].Final = true
	t.open = -1
	t.publish(EventFinalized, idx)
	return nil
}

func (t *Transcript) Entries() []domain.Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]domain.Entry(nil), t.entries...)
}

func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// ScrollIndex is the index of the most recently added or updated entry,
// or -1 while the transcript is empty.
func (t *Transcript) ScrollIndex() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scroll
}

func (t *Transcript) isOpen(id domain.EntryID) bool {
	return t.open >= 0 && t.entries[t.open].ID == id
}

// publish runs under t.mu so listeners observe events in mutation order.
func (t *Transcript) publish(kind EventKind, idx int) {
	t.scroll = idx
	if t.listener == nil {
		return
	}
	t.listener.EntryChanged(Event{
		Kind:  kind,
		Index: idx,
		Entry: t.entries[idx],
	})
}
