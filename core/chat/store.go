package chat

import (
	"errors"

	"github.com/kabili207/socnet-go/core"
)

var (
	// ErrConversationNotFound is returned when no conversation exists for
	// a participant pair in either ordering.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrMessageNotFound is reserved for callers that need to treat an
	// unknown message ID as a hard failure. The store itself reports a
	// missing message inside an existing conversation as a false result.
	ErrMessageNotFound = errors.New("message not found")

	// ErrSameParticipant is returned when a message is addressed to its
	// own sender. A conversation always has two distinct participants.
	ErrSameParticipant = errors.New("sender and recipient must differ")
)

// Store is the interface for conversation storage backends.
// The default in-memory implementation is MemoryStore.
//
// A missing conversation is a hard failure reported as
// ErrConversationNotFound. A missing message inside an existing
// conversation is a soft failure reported as a false result.
type Store interface {
	// CreateMessage appends an unread message from -> to, opening the
	// conversation if needed, and returns the new message ID.
	CreateMessage(from, to core.UserID, text string) (int, error)

	// EditMessage replaces the text of a message. Returns false if the
	// conversation exists but holds no such message.
	EditMessage(from, to core.UserID, id int, text string) (bool, error)

	// DeleteMessage removes a message. Returns false if the conversation
	// exists but holds no such message. A conversation left empty is
	// removed.
	DeleteMessage(from, to core.UserID, id int) (bool, error)

	// DeleteConversation removes the whole conversation for both
	// participants.
	DeleteConversation(from, to core.UserID) error

	// UnreadConversationCount counts conversations involving owner that
	// hold at least one unread message owner did not write.
	UnreadConversationCount(owner core.UserID) int

	// ConversationSummaries maps each interlocutor of owner to the text of
	// the most recent unread incoming message, or NoMessages.
	ConversationSummaries(owner core.UserID) map[core.UserID]string

	// UnreadMessages returns up to limit unread messages written by
	// interlocutor with IDs not below fromID, and marks them read.
	UnreadMessages(owner, interlocutor core.UserID, fromID, limit int) ([]Message, error)

	// History returns every message of a conversation, oldest first,
	// without changing read state.
	History(a, b core.UserID) ([]Message, error)

	// Count returns the number of live conversations.
	Count() int

	// Clear removes every conversation and rewinds the message ID sequence.
	Clear()
}
