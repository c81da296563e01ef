// Package chat implements pairwise conversations between participants.
//
// Each unordered pair of participants shares exactly one message log. The
// log is filed under the ordering of the pair that created it (its
// canonical Key), and every lookup resolves through Index.Resolve, which
// tries both orderings. Logs that lose their last message are pruned.
package chat

import (
	"github.com/kabili207/socnet-go/core"
)

// NoMessages is the summary reported for a conversation that has no unread
// incoming messages.
const NoMessages = "no messages"

// Message is a single entry in a conversation log.
type Message struct {
	// ID is unique across all conversations and never reused.
	ID int

	// SenderID is the participant who wrote the message.
	SenderID core.UserID

	// Text is the message body. It can be edited by its sender.
	Text string

	// Read is set once the recipient has fetched the message through
	// UnreadMessages. It never goes back to false.
	Read bool

	// Date is the creation time in UNIX seconds.
	Date int64
}

// Key is the canonical representation of an unordered participant pair:
// whichever ordering was first used to open the conversation.
type Key struct {
	First  core.UserID
	Second core.UserID
}

// Reversed returns the key with its participants swapped.
func (k Key) Reversed() Key {
	return Key{First: k.Second, Second: k.First}
}

// Involves returns true if u is one of the two participants.
func (k Key) Involves(u core.UserID) bool {
	return k.First == u || k.Second == u
}

// Other returns the participant that is not u. If u is not part of the
// conversation, the zero UserID is returned.
func (k Key) Other(u core.UserID) core.UserID {
	switch u {
	case k.First:
		return k.Second
	case k.Second:
		return k.First
	default:
		return 0
	}
}

func (k Key) String() string {
	return k.First.String() + ":" + k.Second.String()
}
