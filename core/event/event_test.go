package event

import (
	"encoding/json"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{MessageCreated, "message.created"},
		{ConversationDeleted, "conversation.deleted"},
		{CommentTrashed, "comment.trashed"},
		{PostCommented, "post.commented"},
		{Kind(-1), "unknown"},
		{Kind(999), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKindNames_Complete(t *testing.T) {
	for k := MessageCreated; k <= PostCommented; k++ {
		if k.String() == "" || k.String() == "unknown" {
			t.Errorf("Kind(%d) has no name", k)
		}
	}
}

func TestEvent_JSONUsesKindName(t *testing.T) {
	data, err := json.Marshal(Event{Kind: NoteCreated, ID: 3, Time: 10})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded["kind"] != "note.created" {
		t.Errorf("kind = %v, want note.created", decoded["kind"])
	}
	if _, ok := decoded["text"]; ok {
		t.Error("empty text should be omitted")
	}
}

func TestFanout(t *testing.T) {
	var a, b []Event
	f := Fanout{
		SinkFunc(func(e Event) { a = append(a, e) }),
		nil,
		SinkFunc(func(e Event) { b = append(b, e) }),
	}

	f.Publish(Event{Kind: PostCreated, ID: 1})

	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("deliveries = %d/%d, want 1/1", len(a), len(b))
	}
	if a[0].ID != 1 || b[0].Kind != PostCreated {
		t.Errorf("unexpected events: %+v %+v", a[0], b[0])
	}
}

func TestOrDiscard(t *testing.T) {
	if OrDiscard(nil) == nil {
		t.Fatal("OrDiscard(nil) returned nil")
	}
	OrDiscard(nil).Publish(Event{})

	called := false
	s := SinkFunc(func(Event) { called = true })
	OrDiscard(s).Publish(Event{})
	if !called {
		t.Error("OrDiscard should return the given sink")
	}
}
