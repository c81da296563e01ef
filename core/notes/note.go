// Package notes implements owner-scoped notes with comments.
//
// Comments live in a Ledger that tracks, per note, the active comments and a
// trash of soft-deleted ones, plus a reverse index from comment ID to note
// ID so a comment can be found without scanning every note. A comment is in
// exactly one of three states: active, trashed, or erased. The reverse
// index holds an entry for as long as the comment is active or trashed.
package notes

import (
	"github.com/kabili207/socnet-go/core"
)

// Result reports the outcome of a note or comment mutation whose target
// may legitimately be missing.
type Result int

const (
	// OK means the mutation was applied.
	OK Result = iota
	// NotFound means the owner, note or comment does not exist, or the
	// operation does not apply to it in its current state.
	NotFound
)

func (r Result) String() string {
	switch r {
	case OK:
		return "OK"
	case NotFound:
		return "NOT_FOUND"
	default:
		return "unknown"
	}
}

// Note is a titled text owned by one participant.
type Note struct {
	ID      int
	OwnerID core.UserID
	Title   string
	Text    string

	// Comments is the number of active comments. It is maintained
	// incrementally as comments are created, deleted and restored.
	Comments int

	// Date is the creation time in UNIX seconds.
	Date int64
}

// Comment is a reply attached to a note.
type Comment struct {
	ID     int
	NoteID int
	FromID core.UserID
	Text   string
	Date   int64
}
