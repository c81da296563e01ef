// Package wall implements a participant's wall: posts with attachments,
// view counters and comments.
package wall

import (
	"fmt"
	"strings"

	"github.com/kabili207/socnet-go/core"
)

// AttachmentKind tags the payload carried by an Attachment.
type AttachmentKind int

const (
	AttachmentAudio AttachmentKind = iota
	AttachmentFile
	AttachmentGeo
	AttachmentPicture
	AttachmentVideo
)

var attachmentNames = [...]string{"audio", "file", "geo", "picture", "video"}

func (k AttachmentKind) String() string {
	if k < 0 || int(k) >= len(attachmentNames) {
		return "unknown"
	}
	return attachmentNames[k]
}

// ParseAttachmentKind maps a lower-case kind name to its AttachmentKind.
func ParseAttachmentKind(s string) (AttachmentKind, error) {
	for i, name := range attachmentNames {
		if strings.EqualFold(s, name) {
			return AttachmentKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown attachment kind %q", s)
}

// Attachment is a media item pinned to a post. Which fields are meaningful
// depends on Kind: Artist only for audio, Latitude and Longitude only for
// geo, Text only for pictures.
type Attachment struct {
	Kind      AttachmentKind
	ID        int
	OwnerID   core.UserID
	Title     string
	Text      string
	Artist    string
	URL       string
	Latitude  int
	Longitude int
}

// Post is an entry on a wall.
type Post struct {
	ID          int
	OwnerID     core.UserID
	FromID      core.UserID
	Text        string
	Date        int64 // zero means "now" when the post is added
	FriendsOnly bool
	Pinned      bool
	Views       int
	Attachments []Attachment
}

// PostComment is a comment left on a post.
type PostComment struct {
	ID     int
	PostID int
	FromID core.UserID
	Text   string
	Date   int64
}

// clone returns a deep copy so callers never alias stored attachments.
func (p Post) clone() Post {
	if p.Attachments != nil {
		p.Attachments = append([]Attachment(nil), p.Attachments...)
	}
	return p
}
