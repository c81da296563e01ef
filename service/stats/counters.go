// Package stats counts store activity and console commands and exposes
// the totals to Prometheus.
package stats

import (
	"sync/atomic"

	"github.com/kabili207/socnet-go/core/event"
)

// Compile-time assertion that Counters can be fed by the stores.
var _ event.Sink = (*Counters)(nil)

// Counters tracks activity using atomic counters.
// All fields are safe for concurrent access.
type Counters struct {
	MessagesCreated      atomic.Uint64 // Messages sent
	MessagesEdited       atomic.Uint64 // Messages edited
	MessagesDeleted      atomic.Uint64 // Single messages deleted
	MessagesRead         atomic.Uint64 // Messages marked read by a fetch
	ConversationsDeleted atomic.Uint64 // Conversations dropped or emptied
	NotesCreated         atomic.Uint64 // Notes added
	NotesEdited          atomic.Uint64 // Notes edited
	NotesDeleted         atomic.Uint64 // Notes deleted
	CommentsCreated      atomic.Uint64 // Note comments added
	CommentsEdited       atomic.Uint64 // Note comments edited
	CommentsTrashed      atomic.Uint64 // Note comments moved to trash
	CommentsErased       atomic.Uint64 // Note comments removed for good
	CommentsRestored     atomic.Uint64 // Note comments restored from trash
	PostsCreated         atomic.Uint64 // Wall posts added
	PostsUpdated         atomic.Uint64 // Wall posts updated or given attachments
	PostsViewed          atomic.Uint64 // Wall post views
	PostsCommented       atomic.Uint64 // Wall post comments
	CommandsExecuted     atomic.Uint64 // Console commands that succeeded
	CommandsFailed       atomic.Uint64 // Console commands that were rejected
}

// Snapshot is a plain-value copy of Counters for reading.
type Snapshot struct {
	MessagesCreated      uint64
	MessagesEdited       uint64
	MessagesDeleted      uint64
	MessagesRead         uint64
	ConversationsDeleted uint64
	NotesCreated         uint64
	NotesEdited          uint64
	NotesDeleted         uint64
	CommentsCreated      uint64
	CommentsEdited       uint64
	CommentsTrashed      uint64
	CommentsErased       uint64
	CommentsRestored     uint64
	PostsCreated         uint64
	PostsUpdated         uint64
	PostsViewed          uint64
	PostsCommented       uint64
	CommandsExecuted     uint64
	CommandsFailed       uint64
}

// Publish counts a store event. Aggregate events such as MessagesRead add
// their Count.
func (c *Counters) Publish(e event.Event) {
	switch e.Kind {
	case event.MessageCreated:
		c.MessagesCreated.Add(1)
	case event.MessageEdited:
		c.MessagesEdited.Add(1)
	case event.MessageDeleted:
		c.MessagesDeleted.Add(1)
	case event.MessagesRead:
		c.MessagesRead.Add(uint64(max(e.Count, 0)))
	case event.ConversationDeleted:
		c.ConversationsDeleted.Add(1)
	case event.NoteCreated:
		c.NotesCreated.Add(1)
	case event.NoteEdited:
		c.NotesEdited.Add(1)
	case event.NoteDeleted:
		c.NotesDeleted.Add(1)
	case event.CommentCreated:
		c.CommentsCreated.Add(1)
	case event.CommentEdited:
		c.CommentsEdited.Add(1)
	case event.CommentTrashed:
		c.CommentsTrashed.Add(1)
	case event.CommentErased:
		c.CommentsErased.Add(1)
	case event.CommentRestored:
		c.CommentsRestored.Add(1)
	case event.PostCreated:
		c.PostsCreated.Add(1)
	case event.PostUpdated:
		c.PostsUpdated.Add(1)
	case event.PostViewed:
		c.PostsViewed.Add(1)
	case event.PostCommented:
		c.PostsCommented.Add(1)
	}
}

// CommandDone records the outcome of one console command.
func (c *Counters) CommandDone(ok bool) {
	if ok {
		c.CommandsExecuted.Add(1)
	} else {
		c.CommandsFailed.Add(1)
	}
}

// Snapshot returns a point-in-time copy of all counters.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		MessagesCreated:      c.MessagesCreated.Load(),
		MessagesEdited:       c.MessagesEdited.Load(),
		MessagesDeleted:      c.MessagesDeleted.Load(),
		MessagesRead:         c.MessagesRead.Load(),
		ConversationsDeleted: c.ConversationsDeleted.Load(),
		NotesCreated:         c.NotesCreated.Load(),
		NotesEdited:          c.NotesEdited.Load(),
		NotesDeleted:         c.NotesDeleted.Load(),
		CommentsCreated:      c.CommentsCreated.Load(),
		CommentsEdited:       c.CommentsEdited.Load(),
		CommentsTrashed:      c.CommentsTrashed.Load(),
		CommentsErased:       c.CommentsErased.Load(),
		CommentsRestored:     c.CommentsRestored.Load(),
		PostsCreated:         c.PostsCreated.Load(),
		PostsUpdated:         c.PostsUpdated.Load(),
		PostsViewed:          c.PostsViewed.Load(),
		PostsCommented:       c.PostsCommented.Load(),
		CommandsExecuted:     c.CommandsExecuted.Load(),
		CommandsFailed:       c.CommandsFailed.Load(),
	}
}

// Reset zeroes all counters.
func (c *Counters) Reset() {
	c.MessagesCreated.Store(0)
	c.MessagesEdited.Store(0)
	c.MessagesDeleted.Store(0)
	c.MessagesRead.Store(0)
	c.ConversationsDeleted.Store(0)
	c.NotesCreated.Store(0)
	c.NotesEdited.Store(0)
	c.NotesDeleted.Store(0)
	c.CommentsCreated.Store(0)
	c.CommentsEdited.Store(0)
	c.CommentsTrashed.Store(0)
	c.CommentsErased.Store(0)
	c.CommentsRestored.Store(0)
	c.PostsCreated.Store(0)
	c.PostsUpdated.Store(0)
	c.PostsViewed.Store(0)
	c.PostsCommented.Store(0)
	c.CommandsExecuted.Store(0)
	c.CommandsFailed.Store(0)
}
