package notes

import (
	"errors"

	"github.com/kabili207/socnet-go/core"
)

// ErrNoteNotFound is returned by enumerating operations when the owner or
// note they need does not exist.
var ErrNoteNotFound = errors.New("note not found")

// Store is the interface for note storage backends.
// The default in-memory implementation is MemoryStore.
//
// Operations that enumerate (Notes, Comments, TrashedComments) or that need
// an existing note to attach to (CreateComment) fail with ErrNoteNotFound.
// Mutations whose target may simply be gone return a Result instead.
type Store interface {
	// AddNote creates a note and returns its ID.
	AddNote(owner core.UserID, title, text string) int

	// DeleteNote removes a note together with all of its active and
	// trashed comments.
	DeleteNote(owner core.UserID, noteID int) Result

	// EditNote replaces a note's title and text.
	EditNote(owner core.UserID, noteID int, title, text string) Result

	// Notes returns all of owner's notes, or exactly the requested ones.
	// Any unknown ID fails the whole call.
	Notes(owner core.UserID, noteIDs ...int) ([]Note, error)

	// NoteByID returns a note, or false if the owner or note is unknown.
	NoteByID(owner core.UserID, noteID int) (Note, bool)

	// CreateComment attaches a comment from fromID to one of owner's notes
	// and returns the comment ID.
	CreateComment(owner core.UserID, noteID int, fromID core.UserID, text string) (int, error)

	// DeleteComment removes an active comment. Unless unrecoverable is set
	// the comment is moved to the note's trash and can be restored.
	DeleteComment(owner core.UserID, commentID int, unrecoverable bool) Result

	// EditComment replaces the text of an active comment.
	EditComment(owner core.UserID, commentID int, text string) Result

	// Comments returns the active comments of a note.
	Comments(owner core.UserID, noteID int) ([]Comment, error)

	// TrashedComments returns the soft-deleted comments of a note.
	TrashedComments(owner core.UserID, noteID int) ([]Comment, error)

	// RestoreComment moves a trashed comment back to its note.
	RestoreComment(owner core.UserID, commentID int) Result

	// PurgeComment permanently removes a trashed comment.
	PurgeComment(owner core.UserID, commentID int) Result

	// Count returns the number of notes across all owners.
	Count() int

	// Clear removes every note and comment and rewinds both ID sequences.
	Clear()
}
