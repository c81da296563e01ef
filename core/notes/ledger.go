package notes

import (
	"maps"
	"slices"
)

// commentSet holds the comments of one note in one state, keyed by ID.
type commentSet map[int]*Comment

// Ledger tracks every comment by note and state. Ledger is not safe for
// concurrent use; the owning store serializes access.
type Ledger struct {
	active map[int]commentSet // note ID -> active comments
	trash  map[int]commentSet // note ID -> soft-deleted comments
	noteOf map[int]int        // comment ID -> note ID, active or trashed
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		active: make(map[int]commentSet),
		trash:  make(map[int]commentSet),
		noteOf: make(map[int]int),
	}
}

// Add files c as an active comment of c.NoteID and records its reverse
// index entry. The comment is copied.
func (l *Ledger) Add(c Comment) {
	stored := c
	put(l.active, &stored)
	l.noteOf[c.ID] = c.NoteID
}

// NoteOf returns the note a comment belongs to, whether the comment is
// active or trashed.
func (l *Ledger) NoteOf(id int) (int, bool) {
	noteID, ok := l.noteOf[id]
	return noteID, ok
}

// Active returns copies of a note's active comments in creation order.
func (l *Ledger) Active(noteID int) []Comment {
	return snapshot(l.active[noteID])
}

// Trashed returns copies of a note's soft-deleted comments in creation
// order.
func (l *Ledger) Trashed(noteID int) []Comment {
	return snapshot(l.trash[noteID])
}

// Trash moves an active comment into its note's trash. The reverse index
// entry is kept so the comment can be restored.
func (l *Ledger) Trash(id int) (Comment, bool) {
	c, ok := take(l.active, l.noteOf, id)
	if !ok {
		return Comment{}, false
	}
	put(l.trash, c)
	return *c, true
}

// Erase permanently removes an active comment and its reverse index entry.
func (l *Ledger) Erase(id int) (Comment, bool) {
	c, ok := take(l.active, l.noteOf, id)
	if !ok {
		return Comment{}, false
	}
	delete(l.noteOf, id)
	return *c, true
}

// Restore moves a trashed comment back into its note's active set.
func (l *Ledger) Restore(id int) (Comment, bool) {
	c, ok := take(l.trash, l.noteOf, id)
	if !ok {
		return Comment{}, false
	}
	put(l.active, c)
	return *c, true
}

// Purge permanently removes a trashed comment and its reverse index entry.
func (l *Ledger) Purge(id int) (Comment, bool) {
	c, ok := take(l.trash, l.noteOf, id)
	if !ok {
		return Comment{}, false
	}
	delete(l.noteOf, id)
	return *c, true
}

// Edit replaces the text of an active comment, keeping its ID, author,
// note and date. Trashed comments cannot be edited.
func (l *Ledger) Edit(id int, text string) bool {
	noteID, ok := l.noteOf[id]
	if !ok {
		return false
	}
	c, ok := l.active[noteID][id]
	if !ok {
		return false
	}
	c.Text = text
	return true
}

// DropNote removes every active and trashed comment of a note together
// with their reverse index entries. Returns how many comments were removed
// from each state.
func (l *Ledger) DropNote(noteID int) (active, trashed int) {
	for id := range l.active[noteID] {
		delete(l.noteOf, id)
	}
	for id := range l.trash[noteID] {
		delete(l.noteOf, id)
	}
	active, trashed = len(l.active[noteID]), len(l.trash[noteID])
	delete(l.active, noteID)
	delete(l.trash, noteID)
	return active, trashed
}

// Len returns the number of comments that are active or trashed.
func (l *Ledger) Len() int {
	return len(l.noteOf)
}

// Clear forgets every comment.
func (l *Ledger) Clear() {
	clear(l.active)
	clear(l.trash)
	clear(l.noteOf)
}

func put(sets map[int]commentSet, c *Comment) {
	set, ok := sets[c.NoteID]
	if !ok {
		set = make(commentSet)
		sets[c.NoteID] = set
	}
	set[c.ID] = c
}

// take removes comment id from sets using the reverse index to locate its
// note. Empty per-note sets are dropped.
func take(sets map[int]commentSet, noteOf map[int]int, id int) (*Comment, bool) {
	noteID, ok := noteOf[id]
	if !ok {
		return nil, false
	}
	set := sets[noteID]
	c, ok := set[id]
	if !ok {
		return nil, false
	}
	delete(set, id)
	if len(set) == 0 {
		delete(sets, noteID)
	}
	return c, true
}

func snapshot(set commentSet) []Comment {
	out := make([]Comment, 0, len(set))
	for _, id := range slices.Sorted(maps.Keys(set)) {
		out = append(out, *set[id])
	}
	return out
}
