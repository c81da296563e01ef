// Package dedupe remembers recently seen command payloads so a transport
// can drop redeliveries.
//
// Payloads are identified by an 8-byte truncated SHA256 hash of the source
// they arrived from and their content. Hashes are kept in a fixed-size
// circular buffer, so only the most recent entries are remembered.
package dedupe

import (
	"bytes"
	"crypto/sha256"
	"sync"
)

const (
	// DefaultCapacity is the default number of remembered payloads.
	DefaultCapacity = 128
	// HashSize is the truncated SHA256 hash size.
	HashSize = 8
)

// Deduplicator tracks recently seen payloads. It is safe for concurrent use.
type Deduplicator struct {
	mu       sync.Mutex
	hashes   []byte // circular buffer of HashSize-byte hashes
	used     int
	capacity int
	next     int
}

// New creates a Deduplicator with DefaultCapacity.
func New() *Deduplicator {
	return NewWithCapacity(DefaultCapacity)
}

// NewWithCapacity creates a Deduplicator remembering up to capacity
// payloads. A non-positive capacity selects DefaultCapacity.
func NewWithCapacity(capacity int) *Deduplicator {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Deduplicator{
		hashes:   make([]byte, capacity*HashSize),
		capacity: capacity,
	}
}

// HasSeen reports whether payload from source has been seen before. If not,
// it records it and returns false.
func (d *Deduplicator) HasSeen(source string, payload []byte) bool {
	hash := Hash(source, payload)

	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.used {
		offset := i * HashSize
		if bytes.Equal(hash[:], d.hashes[offset:offset+HashSize]) {
			return true
		}
	}

	offset := d.next * HashSize
	copy(d.hashes[offset:offset+HashSize], hash[:])
	d.next = (d.next + 1) % d.capacity
	if d.used < d.capacity {
		d.used++
	}
	return false
}

// Clear forgets every remembered payload.
func (d *Deduplicator) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	clear(d.hashes)
	d.used = 0
	d.next = 0
}

// Hash computes the 8-byte deduplication hash of a payload.
// The hash is SHA256(len(source), source, payload) truncated to 8 bytes.
func Hash(source string, payload []byte) [HashSize]byte {
	h := sha256.New()
	h.Write([]byte{byte(len(source))})
	h.Write([]byte(source))
	h.Write(payload)
	sum := h.Sum(nil)
	var result [HashSize]byte
	copy(result[:], sum[:HashSize])
	return result
}
