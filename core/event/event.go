// Package event describes the change notifications emitted by the stores.
//
// Stores publish one Event per successful mutation to an optional Sink.
// Sinks run synchronously on the caller's goroutine after the store has
// released its lock, so a Sink may read back from the store that emitted
// the event.
package event

import (
	"github.com/kabili207/socnet-go/core"
)

// Kind identifies what changed.
type Kind int

const (
	// MessageCreated is emitted by CreateMessage.
	MessageCreated Kind = iota
	// MessageEdited is emitted by EditMessage.
	MessageEdited
	// MessageDeleted is emitted by DeleteMessage when a message was removed.
	MessageDeleted
	// ConversationDeleted is emitted by DeleteConversation and when the
	// last message of a conversation is deleted.
	ConversationDeleted
	// MessagesRead is emitted by UnreadMessages when at least one message
	// changed state. Count holds the number of messages marked read.
	MessagesRead
	// NoteCreated is emitted by AddNote.
	NoteCreated
	// NoteEdited is emitted by EditNote.
	NoteEdited
	// NoteDeleted is emitted by DeleteNote.
	NoteDeleted
	// CommentCreated is emitted by CreateComment.
	CommentCreated
	// CommentEdited is emitted by EditComment.
	CommentEdited
	// CommentTrashed is emitted by a recoverable DeleteComment.
	CommentTrashed
	// CommentErased is emitted by an unrecoverable DeleteComment and by
	// PurgeComment.
	CommentErased
	// CommentRestored is emitted by RestoreComment.
	CommentRestored
	// PostCreated is emitted when a post is added to the wall.
	PostCreated
	// PostUpdated is emitted when a post or its attachments change.
	PostUpdated
	// PostViewed is emitted when a post view is counted.
	PostViewed
	// PostCommented is emitted when a comment is added to a post.
	PostCommented
)

var kindNames = [...]string{
	MessageCreated:      "message.created",
	MessageEdited:       "message.edited",
	MessageDeleted:      "message.deleted",
	ConversationDeleted: "conversation.deleted",
	MessagesRead:        "messages.read",
	NoteCreated:         "note.created",
	NoteEdited:          "note.edited",
	NoteDeleted:         "note.deleted",
	CommentCreated:      "comment.created",
	CommentEdited:       "comment.edited",
	CommentTrashed:      "comment.trashed",
	CommentErased:       "comment.erased",
	CommentRestored:     "comment.restored",
	PostCreated:         "post.created",
	PostUpdated:         "post.updated",
	PostViewed:          "post.viewed",
	PostCommented:       "post.commented",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is a single change notification.
type Event struct {
	Kind Kind `json:"kind"`

	// Actor performed the change: the sender, note owner, commenter or
	// post author.
	Actor core.UserID `json:"actor,omitempty"`

	// Target is the other participant of a conversation, or the owner of
	// the note a comment belongs to. Zero when not applicable.
	Target core.UserID `json:"target,omitempty"`

	// ID is the identifier of the affected message, note, comment or post.
	ID int `json:"id,omitempty"`

	// Parent is the note or post a comment belongs to.
	Parent int `json:"parent,omitempty"`

	// Count carries a quantity for aggregate events (MessagesRead,
	// NoteDeleted cascades).
	Count int `json:"count,omitempty"`

	// Text is the new text for create and edit events.
	Text string `json:"text,omitempty"`

	// Time is the UNIX time (seconds) at which the store recorded the change.
	Time int64 `json:"time"`
}

// Sink receives events.
type Sink interface {
	Publish(e Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(e Event)

// Publish calls f(e).
func (f SinkFunc) Publish(e Event) {
	f(e)
}

// Discard is a Sink that drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Fanout delivers each event to every non-nil sink in order.
type Fanout []Sink

// Publish forwards e to every sink.
func (f Fanout) Publish(e Event) {
	for _, s := range f {
		if s != nil {
			s.Publish(e)
		}
	}
}

// OrDiscard returns s, or Discard if s is nil.
func OrDiscard(s Sink) Sink {
	if s == nil {
		return Discard
	}
	return s
}
