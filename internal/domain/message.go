package domain

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one element of a completion request.
type Message struct {
	Role    string
	Content string
}

// Sender tags a transcript entry with who produced it.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// EntryID addresses a single transcript entry.
type EntryID string

type Entry struct {
	ID     EntryID
	Sender Sender
	Text   string
	// Final is set on user entries at creation and on bot entries once
	// their stream has ended.
	Final bool
}
