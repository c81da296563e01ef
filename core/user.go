// Package core holds the identifier types shared by every store.
package core

import (
	"fmt"
	"strconv"
)

// UserID identifies a participant: a message author, note owner or
// commenter. The zero value is not a valid participant.
type UserID int

// String returns the decimal representation of the user ID.
func (u UserID) String() string {
	return strconv.Itoa(int(u))
}

// IsZero returns true if the ID is unset.
func (u UserID) IsZero() bool {
	return u == 0
}

// ParseUserID parses a decimal string into a UserID.
func ParseUserID(s string) (UserID, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid user id %q: %w", s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid user id %q: must be positive", s)
	}
	return UserID(n), nil
}

// ParseID parses a decimal entity identifier (message, note, comment, post).
// Unlike ParseUserID, zero is accepted since it is a valid pagination offset.
func ParseID(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid id %q: must not be negative", s)
	}
	return n, nil
}
