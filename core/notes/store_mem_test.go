package notes

import (
	"errors"
	"testing"

	"github.com/kabili207/socnet-go/core"
	"github.com/kabili207/socnet-go/core/clock"
	"github.com/kabili207/socnet-go/core/event"
)

const (
	owner1       = 1
	owner2       = 2
	ownerUnknown = 1 << 30
	commenter    = 9
	unknownID    = 1 << 30
)

type recorder struct {
	events []event.Event
}

func (r *recorder) Publish(e event.Event) {
	r.events = append(r.events, e)
}

func (r *recorder) last() event.Event {
	if len(r.events) == 0 {
		return event.Event{Kind: -1}
	}
	return r.events[len(r.events)-1]
}

func newTestStore() (*MemoryStore, *recorder) {
	rec := &recorder{}
	s := NewMemoryStore(StoreConfig{
		Clock:  clock.Fixed(1700000000),
		Events: rec,
	})
	return s, rec
}

func mustComment(t *testing.T, s *MemoryStore, owner, noteID int, text string) int {
	t.Helper()
	id, err := s.CreateComment(uid(owner), noteID, commenter, text)
	if err != nil {
		t.Fatalf("CreateComment(%d, %d) failed: %v", owner, noteID, err)
	}
	return id
}

func commentCount(t *testing.T, s *MemoryStore, owner, noteID int) int {
	t.Helper()
	n, ok := s.NoteByID(uid(owner), noteID)
	if !ok {
		t.Fatalf("note %d of owner %d not found", noteID, owner)
	}
	return n.Comments
}

func TestMemoryStore_AddNote(t *testing.T) {
	s, rec := newTestStore()
	id1 := s.AddNote(owner1, "t1", "x1")
	id2 := s.AddNote(owner2, "t2", "x2")
	if id1 != 1 || id2 != 2 {
		t.Errorf("ids = %d, %d; want 1, 2 (shared across owners)", id1, id2)
	}

	n, ok := s.NoteByID(owner1, id1)
	if !ok {
		t.Fatal("NoteByID failed")
	}
	if n.OwnerID != owner1 || n.Title != "t1" || n.Text != "x1" || n.Comments != 0 || n.Date != 1700000000 {
		t.Errorf("note = %+v", n)
	}
	if rec.last().Kind != event.NoteCreated {
		t.Errorf("last event = %v, want note.created", rec.last().Kind)
	}
	if s.Count() != 2 {
		t.Errorf("Count() = %d, want 2", s.Count())
	}
}

func TestMemoryStore_DeleteNote_NotFound(t *testing.T) {
	s, _ := newTestStore()
	if got := s.DeleteNote(ownerUnknown, 1); got != NotFound {
		t.Errorf("DeleteNote(unknown owner) = %v, want NOT_FOUND", got)
	}
	s.AddNote(owner1, "t", "x")
	if got := s.DeleteNote(owner1, unknownID); got != NotFound {
		t.Errorf("DeleteNote(unknown note) = %v, want NOT_FOUND", got)
	}
	if got := s.DeleteNote(owner2, 1); got != NotFound {
		t.Errorf("DeleteNote(other owner's note) = %v, want NOT_FOUND", got)
	}
}

func TestMemoryStore_DeleteNote_Cascades(t *testing.T) {
	s, rec := newTestStore()
	noteID := s.AddNote(owner1, "t", "x")
	c1 := mustComment(t, s, owner1, noteID, "a")
	c2 := mustComment(t, s, owner1, noteID, "b")
	s.DeleteComment(owner1, c2, false)

	if got := s.DeleteNote(owner1, noteID); got != OK {
		t.Fatalf("DeleteNote = %v, want OK", got)
	}
	if _, ok := s.NoteByID(owner1, noteID); ok {
		t.Error("deleted note still reachable")
	}
	if _, err := s.Comments(owner1, noteID); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("Comments after delete err = %v, want ErrNoteNotFound", err)
	}
	if got := s.RestoreComment(owner1, c2); got != NotFound {
		t.Errorf("RestoreComment of cascaded comment = %v, want NOT_FOUND", got)
	}
	if got := s.EditComment(owner1, c1, "x"); got != NotFound {
		t.Errorf("EditComment of cascaded comment = %v, want NOT_FOUND", got)
	}
	if s.comments.Len() != 0 {
		t.Errorf("reverse index still holds %d entries", s.comments.Len())
	}
	if e := rec.last(); e.Kind != event.NoteDeleted || e.Count != 2 {
		t.Errorf("last event = %+v, want note.deleted count 2", e)
	}
}

func TestMemoryStore_EditNote(t *testing.T) {
	s, _ := newTestStore()
	if got := s.EditNote(ownerUnknown, 1, "a", "b"); got != NotFound {
		t.Errorf("EditNote(unknown owner) = %v", got)
	}
	noteID := s.AddNote(owner1, "t", "x")
	mustComment(t, s, owner1, noteID, "c")
	if got := s.EditNote(owner1, unknownID, "a", "b"); got != NotFound {
		t.Errorf("EditNote(unknown note) = %v", got)
	}

	if got := s.EditNote(owner1, noteID, "new title", "new text"); got != OK {
		t.Fatalf("EditNote = %v, want OK", got)
	}
	n, _ := s.NoteByID(owner1, noteID)
	if n.ID != noteID || n.OwnerID != owner1 || n.Title != "new title" || n.Text != "new text" || n.Comments != 1 || n.Date != 1700000000 {
		t.Errorf("edited note = %+v", n)
	}
}

func TestMemoryStore_Notes(t *testing.T) {
	s, _ := newTestStore()
	if _, err := s.Notes(ownerUnknown); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("Notes(unknown owner) err = %v, want ErrNoteNotFound", err)
	}

	titles := []string{"a", "b", "c"}
	var ids []int
	for _, title := range titles {
		ids = append(ids, s.AddNote(owner1, title, title+" text"))
	}
	s.AddNote(owner2, "other", "x")

	all, err := s.Notes(owner1)
	if err != nil {
		t.Fatalf("Notes(owner1) failed: %v", err)
	}
	if len(all) != len(titles) {
		t.Fatalf("Notes(owner1) = %d notes, want %d", len(all), len(titles))
	}
	for i, n := range all {
		if n.Title != titles[i] || n.Text != titles[i]+" text" {
			t.Errorf("note %d = %+v", i, n)
		}
	}

	some, err := s.Notes(owner1, ids[2], ids[0])
	if err != nil {
		t.Fatalf("Notes(owner1, ids...) failed: %v", err)
	}
	if len(some) != 2 || some[0].ID != ids[2] || some[1].ID != ids[0] {
		t.Errorf("Notes(owner1, %d, %d) = %+v", ids[2], ids[0], some)
	}

	if _, err := s.Notes(owner1, ids[0], unknownID); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("Notes with unknown id err = %v, want ErrNoteNotFound", err)
	}
}

func TestMemoryStore_NotesAfterDeletingAll(t *testing.T) {
	s, _ := newTestStore()
	id := s.AddNote(owner1, "t", "x")
	s.DeleteNote(owner1, id)

	notes, err := s.Notes(owner1)
	if err != nil {
		t.Fatalf("known owner without notes should not fail: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("Notes = %+v, want empty", notes)
	}
}

func TestMemoryStore_NoteByID(t *testing.T) {
	s, _ := newTestStore()
	if _, ok := s.NoteByID(ownerUnknown, 1); ok {
		t.Error("NoteByID(unknown owner) = true")
	}
	id := s.AddNote(owner1, "t", "x")
	if _, ok := s.NoteByID(owner1, unknownID); ok {
		t.Error("NoteByID(unknown note) = true")
	}
	if _, ok := s.NoteByID(owner2, id); ok {
		t.Error("NoteByID(other owner) = true")
	}
}

func TestMemoryStore_CreateComment(t *testing.T) {
	s, rec := newTestStore()
	if _, err := s.CreateComment(ownerUnknown, 1, commenter, "x"); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("CreateComment(unknown owner) err = %v", err)
	}
	noteID := s.AddNote(owner1, "t", "x")
	if _, err := s.CreateComment(owner1, unknownID, commenter, "x"); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("CreateComment(unknown note) err = %v", err)
	}

	c1 := mustComment(t, s, owner1, noteID, "first")
	if c1 != 1 || commentCount(t, s, owner1, noteID) != 1 {
		t.Errorf("after first comment: id %d, count %d", c1, commentCount(t, s, owner1, noteID))
	}
	c2 := mustComment(t, s, owner1, noteID, "second")
	if c2 != 2 || commentCount(t, s, owner1, noteID) != 2 {
		t.Errorf("after second comment: id %d, count %d", c2, commentCount(t, s, owner1, noteID))
	}
	if e := rec.last(); e.Kind != event.CommentCreated || e.Actor != commenter || e.Parent != noteID {
		t.Errorf("last event = %+v", e)
	}
}

func TestMemoryStore_DeleteComment_NotFound(t *testing.T) {
	s, _ := newTestStore()
	noteID := s.AddNote(owner1, "t", "x")
	c := mustComment(t, s, owner1, noteID, "x")

	if got := s.DeleteComment(ownerUnknown, c, false); got != NotFound {
		t.Errorf("DeleteComment(unknown owner) = %v", got)
	}
	if got := s.DeleteComment(owner2, c, false); got != NotFound {
		t.Errorf("DeleteComment(note not reachable from owner) = %v", got)
	}
	if got := s.DeleteComment(owner1, unknownID, false); got != NotFound {
		t.Errorf("DeleteComment(unknown comment) = %v", got)
	}
	if commentCount(t, s, owner1, noteID) != 1 {
		t.Error("failed deletes must not change the count")
	}
}

func TestMemoryStore_DeleteComment_ToTrash(t *testing.T) {
	s, rec := newTestStore()
	noteID := s.AddNote(owner1, "t", "x")
	c1 := mustComment(t, s, owner1, noteID, "a")
	c2 := mustComment(t, s, owner1, noteID, "b")

	if got := s.DeleteComment(owner1, c1, false); got != OK {
		t.Fatalf("DeleteComment(c1) = %v", got)
	}
	if commentCount(t, s, owner1, noteID) != 1 {
		t.Errorf("count = %d, want 1", commentCount(t, s, owner1, noteID))
	}
	active, _ := s.Comments(owner1, noteID)
	if len(active) != 1 || active[0].ID != c2 {
		t.Errorf("Comments = %+v, want [c2]", active)
	}
	trashed, _ := s.TrashedComments(owner1, noteID)
	if len(trashed) != 1 || trashed[0].ID != c1 {
		t.Errorf("TrashedComments = %+v, want [c1]", trashed)
	}
	if rec.last().Kind != event.CommentTrashed {
		t.Errorf("last event = %v, want comment.trashed", rec.last().Kind)
	}

	if got := s.DeleteComment(owner1, c2, false); got != OK {
		t.Fatalf("DeleteComment(c2) = %v", got)
	}
	if commentCount(t, s, owner1, noteID) != 0 {
		t.Errorf("count = %d, want 0", commentCount(t, s, owner1, noteID))
	}
	active, _ = s.Comments(owner1, noteID)
	if len(active) != 0 {
		t.Errorf("Comments = %+v, want empty", active)
	}

	// A trashed comment is no longer active, so deleting it again fails.
	if got := s.DeleteComment(owner1, c1, true); got != NotFound {
		t.Errorf("DeleteComment(trashed) = %v, want NOT_FOUND", got)
	}
}

func TestMemoryStore_DeleteComment_Unrecoverable(t *testing.T) {
	s, rec := newTestStore()
	noteID := s.AddNote(owner1, "t", "x")
	c := mustComment(t, s, owner1, noteID, "a")

	if got := s.DeleteComment(owner1, c, true); got != OK {
		t.Fatalf("DeleteComment(unrecoverable) = %v", got)
	}
	if commentCount(t, s, owner1, noteID) != 0 {
		t.Error("count not decremented")
	}
	if got := s.RestoreComment(owner1, c); got != NotFound {
		t.Errorf("RestoreComment after unrecoverable delete = %v, want NOT_FOUND", got)
	}
	if got := s.DeleteComment(owner1, c, true); got != NotFound {
		t.Errorf("second delete = %v, want NOT_FOUND", got)
	}
	if rec.last().Kind != event.CommentErased {
		t.Errorf("last event = %v, want comment.erased", rec.last().Kind)
	}
}

func TestMemoryStore_EditComment(t *testing.T) {
	s, _ := newTestStore()
	if got := s.EditComment(ownerUnknown, 1, "x"); got != NotFound {
		t.Errorf("EditComment(unknown owner) = %v", got)
	}
	noteID := s.AddNote(owner1, "t", "x")
	if got := s.EditComment(owner1, unknownID, "x"); got != NotFound {
		t.Errorf("EditComment(unknown comment) = %v", got)
	}
	c := mustComment(t, s, owner1, noteID, "old")

	if got := s.EditComment(owner1, c, "new"); got != OK {
		t.Fatalf("EditComment = %v", got)
	}
	comments, _ := s.Comments(owner1, noteID)
	if len(comments) != 1 || comments[0].Text != "new" || comments[0].ID != c || comments[0].FromID != commenter {
		t.Errorf("Comments = %+v", comments)
	}

	s.AddNote(owner2, "t", "x")
	if got := s.EditComment(owner2, c, "hijack"); got != NotFound {
		t.Errorf("EditComment from another owner = %v, want NOT_FOUND", got)
	}

	s.DeleteComment(owner1, c, false)
	if got := s.EditComment(owner1, c, "trashed"); got != NotFound {
		t.Errorf("EditComment(trashed) = %v, want NOT_FOUND", got)
	}
}

func TestMemoryStore_Comments(t *testing.T) {
	s, _ := newTestStore()
	if _, err := s.Comments(ownerUnknown, 1); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("Comments(unknown owner) err = %v", err)
	}
	noteID := s.AddNote(owner1, "t", "x")
	if _, err := s.Comments(owner1, unknownID); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("Comments(unknown note) err = %v", err)
	}

	comments, err := s.Comments(owner1, noteID)
	if err != nil || len(comments) != 0 {
		t.Fatalf("Comments(empty note) = %+v, %v", comments, err)
	}

	c1 := mustComment(t, s, owner1, noteID, "a")
	c2 := mustComment(t, s, owner1, noteID, "b")
	comments, _ = s.Comments(owner1, noteID)
	if len(comments) != 2 || comments[0].ID != c1 || comments[1].ID != c2 {
		t.Errorf("Comments = %+v", comments)
	}
}

func TestMemoryStore_RestoreComment(t *testing.T) {
	s, rec := newTestStore()
	noteID := s.AddNote(owner1, "t", "x")
	c := mustComment(t, s, owner1, noteID, "a")

	if got := s.RestoreComment(owner1, c); got != NotFound {
		t.Errorf("RestoreComment(active) = %v, want NOT_FOUND", got)
	}

	s.DeleteComment(owner1, c, false)
	if got := s.RestoreComment(owner2, c); got != NotFound {
		t.Errorf("RestoreComment from another owner = %v, want NOT_FOUND", got)
	}
	if got := s.RestoreComment(owner1, c); got != OK {
		t.Fatalf("RestoreComment = %v, want OK", got)
	}
	if commentCount(t, s, owner1, noteID) != 1 {
		t.Error("count not incremented on restore")
	}
	if got := s.RestoreComment(owner1, c); got != NotFound {
		t.Errorf("second RestoreComment = %v, want NOT_FOUND", got)
	}
	if rec.last().Kind != event.CommentRestored {
		t.Errorf("last event = %v, want comment.restored", rec.last().Kind)
	}
}

func TestMemoryStore_PurgeComment(t *testing.T) {
	s, _ := newTestStore()
	noteID := s.AddNote(owner1, "t", "x")
	c := mustComment(t, s, owner1, noteID, "a")

	if got := s.PurgeComment(owner1, c); got != NotFound {
		t.Errorf("PurgeComment(active) = %v, want NOT_FOUND", got)
	}
	s.DeleteComment(owner1, c, false)
	if got := s.PurgeComment(owner1, c); got != OK {
		t.Fatalf("PurgeComment = %v", got)
	}
	if commentCount(t, s, owner1, noteID) != 0 {
		t.Error("purging a trashed comment must not change the count")
	}
	if got := s.RestoreComment(owner1, c); got != NotFound {
		t.Errorf("RestoreComment after purge = %v, want NOT_FOUND", got)
	}
	trashed, _ := s.TrashedComments(owner1, noteID)
	if len(trashed) != 0 {
		t.Errorf("TrashedComments = %+v, want empty", trashed)
	}
}

func TestMemoryStore_CountInvariant(t *testing.T) {
	s, _ := newTestStore()
	noteID := s.AddNote(owner1, "t", "x")

	const n, m = 6, 4
	var ids []int
	for range n {
		ids = append(ids, mustComment(t, s, owner1, noteID, "c"))
	}
	for _, id := range ids[:m] {
		if got := s.DeleteComment(owner1, id, false); got != OK {
			t.Fatalf("DeleteComment(%d) = %v", id, got)
		}
	}
	if got := commentCount(t, s, owner1, noteID); got != n-m {
		t.Errorf("count = %d, want %d", got, n-m)
	}
	s.RestoreComment(owner1, ids[0])
	if got := commentCount(t, s, owner1, noteID); got != n-m+1 {
		t.Errorf("count after restore = %d, want %d", got, n-m+1)
	}
	active, _ := s.Comments(owner1, noteID)
	if len(active) != n-m+1 {
		t.Errorf("active comments = %d, want %d", len(active), n-m+1)
	}
}

func TestMemoryStore_Scenario(t *testing.T) {
	s, _ := newTestStore()

	a := s.AddNote(owner1, "A", "a")
	b := s.AddNote(owner1, "B", "b")
	if a != 1 || b != 2 {
		t.Fatalf("note ids = %d, %d; want 1, 2", a, b)
	}

	c, err := s.CreateComment(owner1, 1, commenter, "x")
	if err != nil || c != 1 {
		t.Fatalf("CreateComment = %d, %v; want 1, nil", c, err)
	}
	if got := commentCount(t, s, owner1, 1); got != 1 {
		t.Errorf("count = %d, want 1", got)
	}

	if got := s.DeleteComment(owner1, 1, false); got != OK {
		t.Fatalf("DeleteComment = %v", got)
	}
	if got := commentCount(t, s, owner1, 1); got != 0 {
		t.Errorf("count after soft delete = %d, want 0", got)
	}
	if comments, _ := s.Comments(owner1, 1); len(comments) != 0 {
		t.Errorf("Comments = %+v, want []", comments)
	}

	if got := s.RestoreComment(owner1, 1); got != OK {
		t.Fatalf("RestoreComment = %v", got)
	}
	if got := commentCount(t, s, owner1, 1); got != 1 {
		t.Errorf("count after restore = %d, want 1", got)
	}
	comments, _ := s.Comments(owner1, 1)
	if len(comments) != 1 || comments[0].ID != 1 || comments[0].Text != "x" {
		t.Errorf("Comments = %+v, want [comment 1 text x]", comments)
	}
}

func TestMemoryStore_Clear(t *testing.T) {
	s, _ := newTestStore()
	noteID := s.AddNote(owner1, "t", "x")
	mustComment(t, s, owner1, noteID, "a")

	s.Clear()

	if s.Count() != 0 {
		t.Errorf("Count() = %d, want 0", s.Count())
	}
	if _, err := s.Notes(owner1); !errors.Is(err, ErrNoteNotFound) {
		t.Error("owners should be forgotten by Clear")
	}
	if id := s.AddNote(owner1, "t", "x"); id != 1 {
		t.Errorf("first note id after Clear = %d, want 1", id)
	}
	if id := mustComment(t, s, owner1, 1, "a"); id != 1 {
		t.Errorf("first comment id after Clear = %d, want 1", id)
	}
}

func TestResultString(t *testing.T) {
	if OK.String() != "OK" || NotFound.String() != "NOT_FOUND" || Result(7).String() != "unknown" {
		t.Error("unexpected Result names")
	}
}

func uid(n int) core.UserID {
	return core.UserID(n)
}
