package notes

import (
	"maps"
	"slices"

	"github.com/kabili207/socnet-go/core"
)

// OwnerIndex maps owners to their notes. OwnerIndex is not safe for
// concurrent use; the owning store serializes access.
type OwnerIndex struct {
	owners map[core.UserID]map[int]*Note
}

// NewOwnerIndex creates an empty index.
func NewOwnerIndex() *OwnerIndex {
	return &OwnerIndex{owners: make(map[core.UserID]map[int]*Note)}
}

// Insert files n under its owner.
func (ix *OwnerIndex) Insert(n *Note) {
	notes, ok := ix.owners[n.OwnerID]
	if !ok {
		notes = make(map[int]*Note)
		ix.owners[n.OwnerID] = notes
	}
	notes[n.ID] = n
}

// Get returns the note owned by owner with the given ID, or nil.
func (ix *OwnerIndex) Get(owner core.UserID, id int) *Note {
	return ix.owners[owner][id]
}

// Remove deletes a note. Returns false if it was not present.
// The owner stays known even after its last note is removed.
func (ix *OwnerIndex) Remove(owner core.UserID, id int) bool {
	notes, ok := ix.owners[owner]
	if !ok {
		return false
	}
	if _, ok := notes[id]; !ok {
		return false
	}
	delete(notes, id)
	return true
}

// HasOwner returns true if owner has ever created a note.
func (ix *OwnerIndex) HasOwner(owner core.UserID) bool {
	_, ok := ix.owners[owner]
	return ok
}

// Count returns the number of notes owner currently has.
func (ix *OwnerIndex) Count(owner core.UserID) int {
	return len(ix.owners[owner])
}

// Total returns the number of notes across all owners.
func (ix *OwnerIndex) Total() int {
	n := 0
	for _, notes := range ix.owners {
		n += len(notes)
	}
	return n
}

// All returns owner's notes in creation order.
func (ix *OwnerIndex) All(owner core.UserID) []*Note {
	notes := ix.owners[owner]
	ids := slices.Sorted(maps.Keys(notes))
	out := make([]*Note, len(ids))
	for i, id := range ids {
		out[i] = notes[id]
	}
	return out
}

// Clear forgets every owner and note.
func (ix *OwnerIndex) Clear() {
	clear(ix.owners)
}
