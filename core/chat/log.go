package chat

import (
	"github.com/kabili207/socnet-go/core"
)

// Log is the ordered message sequence of one conversation. Insertion order
// is preserved. Log is not safe for concurrent use; the owning store
// serializes access.
type Log struct {
	key      Key
	messages []*Message
}

func newLog(key Key) *Log {
	return &Log{key: key}
}

// Key returns the canonical key the log is filed under.
func (l *Log) Key() Key {
	return l.key
}

// Len returns the number of messages in the log.
func (l *Log) Len() int {
	return len(l.messages)
}

// Append adds a message at the end of the log. The message is copied.
func (l *Log) Append(m Message) {
	stored := m
	l.messages = append(l.messages, &stored)
}

// Remove deletes the message with the given ID. Returns false if no such
// message exists.
func (l *Log) Remove(id int) bool {
	for i, m := range l.messages {
		if m.ID == id {
			copy(l.messages[i:], l.messages[i+1:])
			l.messages[len(l.messages)-1] = nil
			l.messages = l.messages[:len(l.messages)-1]
			return true
		}
	}
	return false
}

// Edit replaces the text of the message with the given ID, keeping its
// sender, read state and date. Returns false if no such message exists.
func (l *Log) Edit(id int, text string) bool {
	for _, m := range l.messages {
		if m.ID == id {
			m.Text = text
			return true
		}
	}
	return false
}

// Messages returns a copy of every message, oldest first.
func (l *Log) Messages() []Message {
	out := make([]Message, len(l.messages))
	for i, m := range l.messages {
		out[i] = *m
	}
	return out
}

// HasUnreadFor returns true if the log holds an unread message that owner
// did not write.
func (l *Log) HasUnreadFor(owner core.UserID) bool {
	for _, m := range l.messages {
		if !m.Read && m.SenderID != owner {
			return true
		}
	}
	return false
}

// LastUnreadFor returns the most recent unread message not written by
// owner.
func (l *Log) LastUnreadFor(owner core.UserID) (Message, bool) {
	for i := len(l.messages) - 1; i >= 0; i-- {
		m := l.messages[i]
		if !m.Read && m.SenderID != owner {
			return *m, true
		}
	}
	return Message{}, false
}

// TakeUnread selects up to limit unread messages written by from, starting
// at the first message whose ID is not below fromID, and marks each
// selected message read. Messages from other senders and already-read
// messages are skipped without counting toward limit. An offset that matches
// no message is not an error: the scan simply starts at the next higher ID
// and may return nothing.
func (l *Log) TakeUnread(from core.UserID, fromID, limit int) []Message {
	if limit <= 0 {
		return nil
	}

	var out []Message
	for _, m := range l.messages {
		if m.ID < fromID {
			continue
		}
		if m.Read || m.SenderID != from {
			continue
		}
		m.Read = true
		out = append(out, *m)
		if len(out) == limit {
			break
		}
	}
	return out
}
