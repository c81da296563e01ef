package console

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kabili207/socnet-go/core"
)

// args are the words following a command.
type args []string

func usageError(usage string) error {
	return errors.New("usage: " + usage)
}

// need fails with the usage text unless at least n words are present.
func (a args) need(n int, usage string) error {
	if len(a) < n {
		return usageError(usage)
	}
	return nil
}

func (a args) user(i int) (core.UserID, error) {
	return core.ParseUserID(a[i])
}

func (a args) id(i int) (int, error) {
	return core.ParseID(a[i])
}

// users parses two participant IDs starting at i.
func (a args) users(i int) (core.UserID, core.UserID, error) {
	first, err := a.user(i)
	if err != nil {
		return 0, 0, err
	}
	second, err := a.user(i + 1)
	if err != nil {
		return 0, 0, err
	}
	return first, second, nil
}

// rest joins every word from i on. Missing text is an error.
func (a args) rest(i int) (string, error) {
	if i >= len(a) {
		return "", errors.New("missing text")
	}
	return strings.Join(a[i:], " "), nil
}

// optID parses an optional ID at i, returning def if absent.
func (a args) optID(i, def int) (int, error) {
	if i >= len(a) {
		return def, nil
	}
	n, err := a.id(i)
	if err != nil {
		return 0, fmt.Errorf("bad argument %d: %w", i+1, err)
	}
	return n, nil
}
