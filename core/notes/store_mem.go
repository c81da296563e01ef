package notes

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/kabili207/socnet-go/core"
	"github.com/kabili207/socnet-go/core/clock"
	"github.com/kabili207/socnet-go/core/event"
	"github.com/kabili207/socnet-go/core/seq"
)

// Compile-time assertion that MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// StoreConfig configures a MemoryStore.
type StoreConfig struct {
	// Clock supplies note and comment dates. Defaults to the system clock.
	Clock clock.Source

	// Events receives a notification after every successful mutation.
	// May be nil.
	Events event.Sink

	// Logger for store events. Falls back to slog.Default() if nil.
	Logger *slog.Logger
}

// MemoryStore is an in-memory Store guarded by a single RWMutex.
type MemoryStore struct {
	mu         sync.RWMutex
	owners     *OwnerIndex
	comments   *Ledger
	noteIDs    seq.Sequence
	commentIDs seq.Sequence
	clock      clock.Source
	events     event.Sink
	log        *slog.Logger
}

// NewMemoryStore creates an empty note store.
func NewMemoryStore(cfg StoreConfig) *MemoryStore {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryStore{
		owners:   NewOwnerIndex(),
		comments: NewLedger(),
		clock:    cfg.Clock,
		events:   event.OrDiscard(cfg.Events),
		log:      logger.WithGroup("notes"),
	}
}

// AddNote creates a note with no comments.
func (s *MemoryStore) AddNote(owner core.UserID, title, text string) int {
	now := s.clock.Now()

	s.mu.Lock()
	n := &Note{
		ID:      s.noteIDs.Next(),
		OwnerID: owner,
		Title:   title,
		Text:    text,
		Date:    now,
	}
	s.owners.Insert(n)
	s.mu.Unlock()

	s.log.Debug("note created", "id", n.ID, "owner", owner)
	s.events.Publish(event.Event{
		Kind:  event.NoteCreated,
		Actor: owner,
		ID:    n.ID,
		Text:  title,
		Time:  now,
	})
	return n.ID
}

// DeleteNote removes a note and cascades to all of its comments.
func (s *MemoryStore) DeleteNote(owner core.UserID, noteID int) Result {
	s.mu.Lock()
	if !s.owners.Remove(owner, noteID) {
		s.mu.Unlock()
		return NotFound
	}
	active, trashed := s.comments.DropNote(noteID)
	s.mu.Unlock()

	s.log.Debug("note deleted",
		"id", noteID,
		"owner", owner,
		"comments", active,
		"trashed", trashed)
	s.events.Publish(event.Event{
		Kind:  event.NoteDeleted,
		Actor: owner,
		ID:    noteID,
		Count: active + trashed,
		Time:  s.clock.Now(),
	})
	return OK
}

// EditNote replaces title and text, keeping ID, owner, comment count and
// date.
func (s *MemoryStore) EditNote(owner core.UserID, noteID int, title, text string) Result {
	s.mu.Lock()
	n := s.owners.Get(owner, noteID)
	if n == nil {
		s.mu.Unlock()
		return NotFound
	}
	n.Title = title
	n.Text = text
	s.mu.Unlock()

	s.events.Publish(event.Event{
		Kind:  event.NoteEdited,
		Actor: owner,
		ID:    noteID,
		Text:  title,
		Time:  s.clock.Now(),
	})
	return OK
}

// Notes returns owner's notes. With no IDs every note is returned in
// creation order; otherwise the requested notes are returned in request
// order and any miss fails the call.
func (s *MemoryStore) Notes(owner core.UserID, noteIDs ...int) ([]Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.owners.HasOwner(owner) {
		return nil, fmt.Errorf("owner %s: %w", owner, ErrNoteNotFound)
	}

	if len(noteIDs) == 0 {
		all := s.owners.All(owner)
		out := make([]Note, len(all))
		for i, n := range all {
			out[i] = *n
		}
		return out, nil
	}

	out := make([]Note, 0, len(noteIDs))
	for _, id := range noteIDs {
		n := s.owners.Get(owner, id)
		if n == nil {
			return nil, fmt.Errorf("note %d of owner %s: %w", id, owner, ErrNoteNotFound)
		}
		out = append(out, *n)
	}
	return out, nil
}

// NoteByID returns a copy of a note. It never fails: an unknown owner or
// note yields false.
func (s *MemoryStore) NoteByID(owner core.UserID, noteID int) (Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := s.owners.Get(owner, noteID)
	if n == nil {
		return Note{}, false
	}
	return *n, true
}

// CreateComment adds an active comment and bumps the note's comment count.
func (s *MemoryStore) CreateComment(owner core.UserID, noteID int, fromID core.UserID, text string) (int, error) {
	now := s.clock.Now()

	s.mu.Lock()
	n := s.owners.Get(owner, noteID)
	if n == nil {
		s.mu.Unlock()
		return 0, fmt.Errorf("note %d of owner %s: %w", noteID, owner, ErrNoteNotFound)
	}
	c := Comment{
		ID:     s.commentIDs.Next(),
		NoteID: noteID,
		FromID: fromID,
		Text:   text,
		Date:   now,
	}
	s.comments.Add(c)
	n.Comments++
	s.mu.Unlock()

	s.log.Debug("comment created", "id", c.ID, "note", noteID, "from", fromID)
	s.events.Publish(event.Event{
		Kind:   event.CommentCreated,
		Actor:  fromID,
		Target: owner,
		ID:     c.ID,
		Parent: noteID,
		Text:   text,
		Time:   now,
	})
	return c.ID, nil
}

// DeleteComment removes an active comment, either into the trash or, when
// unrecoverable is set, permanently.
func (s *MemoryStore) DeleteComment(owner core.UserID, commentID int, unrecoverable bool) Result {
	s.mu.Lock()
	n := s.noteOfComment(owner, commentID)
	if n == nil {
		s.mu.Unlock()
		return NotFound
	}
	var ok bool
	if unrecoverable {
		_, ok = s.comments.Erase(commentID)
	} else {
		_, ok = s.comments.Trash(commentID)
	}
	if ok {
		n.Comments--
	}
	s.mu.Unlock()

	if !ok {
		return NotFound
	}

	kind := event.CommentTrashed
	if unrecoverable {
		kind = event.CommentErased
	}
	s.log.Debug("comment deleted", "id", commentID, "note", n.ID, "unrecoverable", unrecoverable)
	s.events.Publish(event.Event{
		Kind:   kind,
		Actor:  owner,
		Target: owner,
		ID:     commentID,
		Parent: n.ID,
		Time:   s.clock.Now(),
	})
	return OK
}

// EditComment replaces the text of an active comment.
func (s *MemoryStore) EditComment(owner core.UserID, commentID int, text string) Result {
	s.mu.Lock()
	if s.owners.Count(owner) == 0 {
		s.mu.Unlock()
		return NotFound
	}
	n := s.noteOfComment(owner, commentID)
	if n == nil || !s.comments.Edit(commentID, text) {
		s.mu.Unlock()
		return NotFound
	}
	s.mu.Unlock()

	s.events.Publish(event.Event{
		Kind:   event.CommentEdited,
		Actor:  owner,
		Target: owner,
		ID:     commentID,
		Parent: n.ID,
		Text:   text,
		Time:   s.clock.Now(),
	})
	return OK
}

// Comments returns a note's active comments in creation order.
func (s *MemoryStore) Comments(owner core.UserID, noteID int) ([]Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.requireNote(owner, noteID); err != nil {
		return nil, err
	}
	return s.comments.Active(noteID), nil
}

// TrashedComments returns a note's soft-deleted comments in creation order.
func (s *MemoryStore) TrashedComments(owner core.UserID, noteID int) ([]Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.requireNote(owner, noteID); err != nil {
		return nil, err
	}
	return s.comments.Trashed(noteID), nil
}

// RestoreComment moves a trashed comment back to the active set and bumps
// the note's comment count.
func (s *MemoryStore) RestoreComment(owner core.UserID, commentID int) Result {
	s.mu.Lock()
	n := s.noteOfComment(owner, commentID)
	if n == nil {
		s.mu.Unlock()
		return NotFound
	}
	if _, ok := s.comments.Restore(commentID); !ok {
		s.mu.Unlock()
		return NotFound
	}
	n.Comments++
	s.mu.Unlock()

	s.log.Debug("comment restored", "id", commentID, "note", n.ID)
	s.events.Publish(event.Event{
		Kind:   event.CommentRestored,
		Actor:  owner,
		Target: owner,
		ID:     commentID,
		Parent: n.ID,
		Time:   s.clock.Now(),
	})
	return OK
}

// PurgeComment permanently removes a trashed comment. The note's comment
// count is unchanged since trashed comments are not counted.
func (s *MemoryStore) PurgeComment(owner core.UserID, commentID int) Result {
	s.mu.Lock()
	n := s.noteOfComment(owner, commentID)
	if n == nil {
		s.mu.Unlock()
		return NotFound
	}
	if _, ok := s.comments.Purge(commentID); !ok {
		s.mu.Unlock()
		return NotFound
	}
	s.mu.Unlock()

	s.events.Publish(event.Event{
		Kind:   event.CommentErased,
		Actor:  owner,
		Target: owner,
		ID:     commentID,
		Parent: n.ID,
		Time:   s.clock.Now(),
	})
	return OK
}

// Count returns the number of notes across all owners.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owners.Total()
}

// Clear removes all notes and comments and rewinds both ID sequences.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners.Clear()
	s.comments.Clear()
	s.noteIDs.Reset()
	s.commentIDs.Reset()
}

// noteOfComment resolves a comment to its note through the reverse index
// and checks that the note belongs to owner. Returns nil otherwise.
// Must be called with s.mu held.
func (s *MemoryStore) noteOfComment(owner core.UserID, commentID int) *Note {
	noteID, ok := s.comments.NoteOf(commentID)
	if !ok {
		return nil
	}
	return s.owners.Get(owner, noteID)
}

// requireNote reports ErrNoteNotFound for an unknown owner or note.
// Must be called with s.mu held.
func (s *MemoryStore) requireNote(owner core.UserID, noteID int) error {
	if !s.owners.HasOwner(owner) {
		return fmt.Errorf("owner %s: %w", owner, ErrNoteNotFound)
	}
	if s.owners.Get(owner, noteID) == nil {
		return fmt.Errorf("note %d of owner %s: %w", noteID, owner, ErrNoteNotFound)
	}
	return nil
}
