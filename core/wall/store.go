package wall

import (
	"errors"

	"github.com/kabili207/socnet-go/core"
)

// ErrPostNotFound is returned when a comment targets a post that does not
// exist.
var ErrPostNotFound = errors.New("post not found")

// Store is the interface for wall storage backends.
type Store interface {
	// Add stores a copy of p under a freshly assigned ID and returns it.
	// A zero Date is replaced with the current time.
	Add(p Post) Post

	// Update replaces the post with p.ID, keeping its owner and date.
	Update(p Post) bool

	// AddAttachment appends an attachment to a post.
	AddAttachment(postID int, a Attachment) bool

	// View increments a post's view counter.
	View(postID int) bool

	// Get returns a copy of a post.
	Get(postID int) (Post, bool)

	// Posts returns every post in creation order.
	Posts() []Post

	// CreateComment attaches a comment to an existing post.
	CreateComment(postID int, fromID core.UserID, text string) (PostComment, error)

	// Comments returns a post's comments in creation order.
	Comments(postID int) ([]PostComment, error)

	// Count returns the number of posts.
	Count() int

	// Clear removes all posts and comments and rewinds both ID sequences.
	Clear()
}
