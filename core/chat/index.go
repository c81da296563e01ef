package chat

import (
	"cmp"
	"slices"

	"github.com/kabili207/socnet-go/core"
)

// Index maps canonical conversation keys to their logs. Index is not safe
// for concurrent use; the owning store serializes access.
type Index struct {
	logs map[Key]*Log
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{logs: make(map[Key]*Log)}
}

// Resolve returns the canonical key for the pair {a, b}: (a, b) if a log is
// filed under it, otherwise (b, a) if that one exists. The second return
// value is false when neither ordering is present.
//
// Every lookup in this package goes through Resolve so that reads and
// writes can never disagree about which ordering is canonical.
func (ix *Index) Resolve(a, b core.UserID) (Key, bool) {
	k := Key{First: a, Second: b}
	if _, ok := ix.logs[k]; ok {
		return k, true
	}
	if _, ok := ix.logs[k.Reversed()]; ok {
		return k.Reversed(), true
	}
	return Key{}, false
}

// Lookup returns the log shared by a and b, or nil.
func (ix *Index) Lookup(a, b core.UserID) *Log {
	k, ok := ix.Resolve(a, b)
	if !ok {
		return nil
	}
	return ix.logs[k]
}

// Open returns the log shared by a and b, creating it under the key (a, b)
// if neither ordering exists yet. The second return value reports whether
// a new log was created.
func (ix *Index) Open(a, b core.UserID) (*Log, bool) {
	if l := ix.Lookup(a, b); l != nil {
		return l, false
	}
	k := Key{First: a, Second: b}
	l := newLog(k)
	ix.logs[k] = l
	return l, true
}

// Remove drops the log filed under k.
func (ix *Index) Remove(k Key) {
	delete(ix.logs, k)
}

// Get returns the log filed under exactly k, or nil.
func (ix *Index) Get(k Key) *Log {
	return ix.logs[k]
}

// Related returns the keys of every conversation involving owner, ordered
// by First then Second so results are deterministic.
func (ix *Index) Related(owner core.UserID) []Key {
	var keys []Key
	for k := range ix.logs {
		if k.Involves(owner) {
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, func(x, y Key) int {
		if c := cmp.Compare(x.First, y.First); c != 0 {
			return c
		}
		return cmp.Compare(x.Second, y.Second)
	})
	return keys
}

// Len returns the number of live conversations.
func (ix *Index) Len() int {
	return len(ix.logs)
}

// Clear drops every conversation.
func (ix *Index) Clear() {
	clear(ix.logs)
}
