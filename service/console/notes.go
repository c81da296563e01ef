package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kabili207/socnet-go/core/notes"
)

const (
	noteUsage    = "note add|delete|edit|get|list ..."
	commentUsage = "comment add|delete|erase|edit|list|trash|restore|purge ..."
)

func (c *Console) note(a args) (string, error) {
	verb, a, err := sub(a, noteUsage)
	if err != nil {
		return "", err
	}
	store := c.cfg.Notes

	switch verb {
	case "add":
		const usage = "note add <owner> <title> <text>"
		if err := a.need(3, usage); err != nil {
			return "", err
		}
		owner, err := a.user(0)
		if err != nil {
			return "", err
		}
		text, _ := a.rest(2)
		id := store.AddNote(owner, a[1], text)
		return "OK - id " + strconv.Itoa(id), nil

	case "delete":
		if err := a.need(2, "note delete <owner> <id>"); err != nil {
			return "", err
		}
		owner, err := a.user(0)
		if err != nil {
			return "", err
		}
		id, err := a.id(1)
		if err != nil {
			return "", err
		}
		return result(store.DeleteNote(owner, id))

	case "edit":
		const usage = "note edit <owner> <id> <title> <text>"
		if err := a.need(4, usage); err != nil {
			return "", err
		}
		owner, err := a.user(0)
		if err != nil {
			return "", err
		}
		id, err := a.id(1)
		if err != nil {
			return "", err
		}
		text, _ := a.rest(3)
		return result(store.EditNote(owner, id, a[2], text))

	case "get":
		if err := a.need(2, "note get <owner> <id>"); err != nil {
			return "", err
		}
		owner, err := a.user(0)
		if err != nil {
			return "", err
		}
		id, err := a.id(1)
		if err != nil {
			return "", err
		}
		n, ok := store.NoteByID(owner, id)
		if !ok {
			return "", errors.New("note not found")
		}
		return formatNote(n), nil

	case "list":
		if err := a.need(1, "note list <owner> [id...]"); err != nil {
			return "", err
		}
		owner, err := a.user(0)
		if err != nil {
			return "", err
		}
		ids := make([]int, 0, len(a)-1)
		for i := 1; i < len(a); i++ {
			id, err := a.id(i)
			if err != nil {
				return "", err
			}
			ids = append(ids, id)
		}
		list, err := store.Notes(owner, ids...)
		if err != nil {
			return "", err
		}
		if len(list) == 0 {
			return "no notes", nil
		}
		lines := make([]string, len(list))
		for i, n := range list {
			lines[i] = formatNote(n)
		}
		return strings.Join(lines, "\n"), nil

	default:
		return "", usageError(noteUsage)
	}
}

func (c *Console) comment(a args) (string, error) {
	verb, a, err := sub(a, commentUsage)
	if err != nil {
		return "", err
	}
	store := c.cfg.Notes

	switch verb {
	case "add":
		const usage = "comment add <owner> <note-id> <from> <text>"
		if err := a.need(4, usage); err != nil {
			return "", err
		}
		owner, err := a.user(0)
		if err != nil {
			return "", err
		}
		noteID, err := a.id(1)
		if err != nil {
			return "", err
		}
		from, err := a.user(2)
		if err != nil {
			return "", err
		}
		text, _ := a.rest(3)
		id, err := store.CreateComment(owner, noteID, from, text)
		if err != nil {
			return "", err
		}
		return "OK - id " + strconv.Itoa(id), nil

	case "delete", "erase", "restore", "purge":
		usage := "comment " + verb + " <owner> <comment-id>"
		if err := a.need(2, usage); err != nil {
			return "", err
		}
		owner, err := a.user(0)
		if err != nil {
			return "", err
		}
		id, err := a.id(1)
		if err != nil {
			return "", err
		}
		switch verb {
		case "delete":
			return result(store.DeleteComment(owner, id, false))
		case "erase":
			return result(store.DeleteComment(owner, id, true))
		case "restore":
			return result(store.RestoreComment(owner, id))
		default:
			return result(store.PurgeComment(owner, id))
		}

	case "edit":
		const usage = "comment edit <owner> <comment-id> <text>"
		if err := a.need(3, usage); err != nil {
			return "", err
		}
		owner, err := a.user(0)
		if err != nil {
			return "", err
		}
		id, err := a.id(1)
		if err != nil {
			return "", err
		}
		text, _ := a.rest(2)
		return result(store.EditComment(owner, id, text))

	case "list", "trash":
		usage := "comment " + verb + " <owner> <note-id>"
		if err := a.need(2, usage); err != nil {
			return "", err
		}
		owner, err := a.user(0)
		if err != nil {
			return "", err
		}
		noteID, err := a.id(1)
		if err != nil {
			return "", err
		}
		var list []notes.Comment
		if verb == "list" {
			list, err = store.Comments(owner, noteID)
		} else {
			list, err = store.TrashedComments(owner, noteID)
		}
		if err != nil {
			return "", err
		}
		if len(list) == 0 {
			return "no comments", nil
		}
		lines := make([]string, len(list))
		for i, cm := range list {
			lines[i] = fmt.Sprintf("#%d %s: %s", cm.ID, cm.FromID, cm.Text)
		}
		return strings.Join(lines, "\n"), nil

	default:
		return "", usageError(commentUsage)
	}
}

// result maps a store Result to a reply. NotFound is reported verbatim so
// callers can tell it apart from usage errors.
func result(r notes.Result) (string, error) {
	if r != notes.OK {
		return "", errors.New(r.String())
	}
	return r.String(), nil
}

func formatNote(n notes.Note) string {
	return fmt.Sprintf("#%d %s: %s (%d comments)", n.ID, n.Title, n.Text, n.Comments)
}
