package wall

import (
	"fmt"
	"log/slog"
	"slices"
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
	// Clock supplies post and comment dates. Defaults to the system clock.
	Clock clock.Source

	// Events receives a notification after every successful mutation.
	// May be nil.
	Events event.Sink

	// Logger for store events. Falls back to slog.Default() if nil.
	Logger *slog.Logger
}

// MemoryStore is an in-memory Store. Posts are kept in creation order.
type MemoryStore struct {
	mu         sync.RWMutex
	posts      []*Post
	comments   map[int][]PostComment
	postIDs    seq.Sequence
	commentIDs seq.Sequence
	clock      clock.Source
	events     event.Sink
	log        *slog.Logger
}

// NewMemoryStore creates an empty wall.
func NewMemoryStore(cfg StoreConfig) *MemoryStore {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryStore{
		comments: make(map[int][]PostComment),
		clock:    cfg.Clock,
		events:   event.OrDiscard(cfg.Events),
		log:      logger.WithGroup("wall"),
	}
}

// Add stores p under a new ID. The caller's ID is ignored.
func (s *MemoryStore) Add(p Post) Post {
	stored := p.clone()
	if stored.Date == 0 {
		stored.Date = s.clock.Now()
	}

	s.mu.Lock()
	stored.ID = s.postIDs.Next()
	s.posts = append(s.posts, &stored)
	out := stored.clone()
	s.mu.Unlock()

	s.log.Debug("post created", "id", out.ID, "owner", out.OwnerID)
	s.events.Publish(event.Event{
		Kind:   event.PostCreated,
		Actor:  out.FromID,
		Target: out.OwnerID,
		ID:     out.ID,
		Text:   out.Text,
		Time:   out.Date,
	})
	return out
}

// Update replaces every field of the stored post except ID, owner and date.
func (s *MemoryStore) Update(p Post) bool {
	s.mu.Lock()
	cur := s.find(p.ID)
	if cur == nil {
		s.mu.Unlock()
		return false
	}
	next := p.clone()
	next.OwnerID = cur.OwnerID
	next.Date = cur.Date
	*cur = next
	s.mu.Unlock()

	s.events.Publish(event.Event{
		Kind:   event.PostUpdated,
		Actor:  next.FromID,
		Target: next.OwnerID,
		ID:     next.ID,
		Text:   next.Text,
		Time:   s.clock.Now(),
	})
	return true
}

// AddAttachment appends a to the post's attachments.
func (s *MemoryStore) AddAttachment(postID int, a Attachment) bool {
	s.mu.Lock()
	p := s.find(postID)
	if p == nil {
		s.mu.Unlock()
		return false
	}
	p.Attachments = append(p.Attachments, a)
	owner := p.OwnerID
	s.mu.Unlock()

	s.events.Publish(event.Event{
		Kind:   event.PostUpdated,
		Target: owner,
		ID:     postID,
		Text:   a.Kind.String(),
		Time:   s.clock.Now(),
	})
	return true
}

// View counts one view of a post.
func (s *MemoryStore) View(postID int) bool {
	s.mu.Lock()
	p := s.find(postID)
	if p == nil {
		s.mu.Unlock()
		return false
	}
	p.Views++
	views, owner := p.Views, p.OwnerID
	s.mu.Unlock()

	s.events.Publish(event.Event{
		Kind:   event.PostViewed,
		Target: owner,
		ID:     postID,
		Count:  views,
		Time:   s.clock.Now(),
	})
	return true
}

func (s *MemoryStore) Get(postID int) (Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.find(postID)
	if p == nil {
		return Post{}, false
	}
	return p.clone(), true
}

func (s *MemoryStore) Posts() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Post, len(s.posts))
	for i, p := range s.posts {
		out[i] = p.clone()
	}
	return out
}

// CreateComment attaches a comment to a post. Comment IDs are shared by
// every post on the wall.
func (s *MemoryStore) CreateComment(postID int, fromID core.UserID, text string) (PostComment, error) {
	now := s.clock.Now()

	s.mu.Lock()
	p := s.find(postID)
	if p == nil {
		s.mu.Unlock()
		return PostComment{}, fmt.Errorf("comment on post %d: %w", postID, ErrPostNotFound)
	}
	c := PostComment{
		ID:     s.commentIDs.Next(),
		PostID: postID,
		FromID: fromID,
		Text:   text,
		Date:   now,
	}
	s.comments[postID] = append(s.comments[postID], c)
	owner := p.OwnerID
	s.mu.Unlock()

	s.log.Debug("post commented", "post", postID, "comment", c.ID, "from", fromID)
	s.events.Publish(event.Event{
		Kind:   event.PostCommented,
		Actor:  fromID,
		Target: owner,
		ID:     c.ID,
		Parent: postID,
		Text:   text,
		Time:   now,
	})
	return c, nil
}

func (s *MemoryStore) Comments(postID int) ([]PostComment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.find(postID) == nil {
		return nil, fmt.Errorf("post %d: %w", postID, ErrPostNotFound)
	}
	return slices.Clone(s.comments[postID]), nil
}

func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

// Clear removes all posts and comments.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = nil
	clear(s.comments)
	s.postIDs.Reset()
	s.commentIDs.Reset()
}

// find returns the stored post with the given ID, or nil.
// Must be called with s.mu held.
func (s *MemoryStore) find(id int) *Post {
	i := slices.IndexFunc(s.posts, func(p *Post) bool { return p.ID == id })
	if i < 0 {
		return nil
	}
	return s.posts[i]
}
