package chat

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
	// Clock supplies message dates. Defaults to the system clock.
	Clock clock.Source

	// Events receives a notification after every successful mutation.
	// May be nil.
	Events event.Sink

	// Logger for store events. Falls back to slog.Default() if nil.
	Logger *slog.Logger
}

// MemoryStore is an in-memory Store. A single RWMutex serializes all
// mutations; read-only queries share the read lock. UnreadMessages takes
// the write lock because it changes read state.
type MemoryStore struct {
	mu     sync.RWMutex
	index  *Index
	ids    seq.Sequence
	clock  clock.Source
	events event.Sink
	log    *slog.Logger
}

// NewMemoryStore creates an empty conversation store.
func NewMemoryStore(cfg StoreConfig) *MemoryStore {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryStore{
		index:  NewIndex(),
		clock:  cfg.Clock,
		events: event.OrDiscard(cfg.Events),
		log:    logger.WithGroup("chat"),
	}
}

// CreateMessage appends a new unread message and returns its ID.
func (s *MemoryStore) CreateMessage(from, to core.UserID, text string) (int, error) {
	if from == to {
		return 0, fmt.Errorf("message from %s to %s: %w", from, to, ErrSameParticipant)
	}

	now := s.clock.Now()

	s.mu.Lock()
	l, created := s.index.Open(from, to)
	id := s.ids.Next()
	l.Append(Message{ID: id, SenderID: from, Text: text, Date: now})
	s.mu.Unlock()

	if created {
		s.log.Debug("conversation opened", "key", l.Key().String())
	}
	s.log.Debug("message created", "id", id, "from", from, "to", to)
	s.events.Publish(event.Event{
		Kind:   event.MessageCreated,
		Actor:  from,
		Target: to,
		ID:     id,
		Text:   text,
		Time:   now,
	})
	return id, nil
}

// EditMessage replaces a message's text.
func (s *MemoryStore) EditMessage(from, to core.UserID, id int, text string) (bool, error) {
	s.mu.Lock()
	l := s.index.Lookup(from, to)
	if l == nil {
		s.mu.Unlock()
		return false, notFound(from, to)
	}
	ok := l.Edit(id, text)
	s.mu.Unlock()

	if ok {
		s.events.Publish(event.Event{
			Kind:   event.MessageEdited,
			Actor:  from,
			Target: to,
			ID:     id,
			Text:   text,
			Time:   s.clock.Now(),
		})
	}
	return ok, nil
}

// DeleteMessage removes a message, pruning the conversation if it becomes
// empty.
func (s *MemoryStore) DeleteMessage(from, to core.UserID, id int) (bool, error) {
	s.mu.Lock()
	k, found := s.index.Resolve(from, to)
	if !found {
		s.mu.Unlock()
		return false, notFound(from, to)
	}
	l := s.index.Get(k)
	removed := l.Remove(id)
	pruned := l.Len() == 0
	if pruned {
		s.index.Remove(k)
	}
	s.mu.Unlock()

	if !removed {
		s.log.Debug("message not found", "id", id, "key", k.String())
		return false, nil
	}

	now := s.clock.Now()
	s.events.Publish(event.Event{
		Kind:   event.MessageDeleted,
		Actor:  from,
		Target: to,
		ID:     id,
		Time:   now,
	})
	if pruned {
		s.log.Debug("conversation pruned", "key", k.String())
		s.events.Publish(event.Event{
			Kind:   event.ConversationDeleted,
			Actor:  from,
			Target: to,
			Time:   now,
		})
	}
	return true, nil
}

// DeleteConversation removes a conversation and all of its messages.
func (s *MemoryStore) DeleteConversation(from, to core.UserID) error {
	s.mu.Lock()
	k, found := s.index.Resolve(from, to)
	if !found {
		s.mu.Unlock()
		return notFound(from, to)
	}
	n := s.index.Get(k).Len()
	s.index.Remove(k)
	s.mu.Unlock()

	s.log.Debug("conversation deleted", "key", k.String(), "messages", n)
	s.events.Publish(event.Event{
		Kind:   event.ConversationDeleted,
		Actor:  from,
		Target: to,
		Count:  n,
		Time:   s.clock.Now(),
	})
	return nil
}

// UnreadConversationCount counts conversations with unread incoming
// messages for owner. An unknown owner yields 0.
func (s *MemoryStore) UnreadConversationCount(owner core.UserID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, k := range s.index.Related(owner) {
		if s.index.Get(k).HasUnreadFor(owner) {
			count++
		}
	}
	return count
}

// ConversationSummaries returns, per interlocutor, the latest unread
// incoming message text or NoMessages. An unknown owner yields an empty map.
func (s *MemoryStore) ConversationSummaries(owner core.UserID) map[core.UserID]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[core.UserID]string)
	for _, k := range s.index.Related(owner) {
		summary := NoMessages
		if m, ok := s.index.Get(k).LastUnreadFor(owner); ok {
			summary = m.Text
		}
		out[k.Other(owner)] = summary
	}
	return out
}

// UnreadMessages fetches and marks read up to limit messages written by
// interlocutor, starting at fromID.
func (s *MemoryStore) UnreadMessages(owner, interlocutor core.UserID, fromID, limit int) ([]Message, error) {
	s.mu.Lock()
	l := s.index.Lookup(owner, interlocutor)
	if l == nil {
		s.mu.Unlock()
		return nil, notFound(owner, interlocutor)
	}
	msgs := l.TakeUnread(interlocutor, fromID, limit)
	s.mu.Unlock()

	if len(msgs) > 0 {
		s.events.Publish(event.Event{
			Kind:   event.MessagesRead,
			Actor:  owner,
			Target: interlocutor,
			ID:     msgs[len(msgs)-1].ID,
			Count:  len(msgs),
			Time:   s.clock.Now(),
		})
	}
	return msgs, nil
}

// History lists a conversation without marking anything read.
func (s *MemoryStore) History(a, b core.UserID) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l := s.index.Lookup(a, b)
	if l == nil {
		return nil, notFound(a, b)
	}
	return l.Messages(), nil
}

// Count returns the number of live conversations.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Len()
}

// Clear removes every conversation and rewinds the message ID sequence.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index.Clear()
	s.ids.Reset()
}

func notFound(a, b core.UserID) error {
	return fmt.Errorf("conversation %s/%s: %w", a, b, ErrConversationNotFound)
}
