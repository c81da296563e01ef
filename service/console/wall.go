package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kabili207/socnet-go/core/wall"
)

const postUsage = "post add|update|view|get|list|comment|attach ..."

var errPostNotFound = errors.New("post not found")

func (c *Console) post(a args) (string, error) {
	verb, a, err := sub(a, postUsage)
	if err != nil {
		return "", err
	}
	store := c.cfg.Wall

	switch verb {
	case "add":
		const usage = "post add <owner> <from> <text>"
		if err := a.need(3, usage); err != nil {
			return "", err
		}
		owner, from, err := a.users(0)
		if err != nil {
			return "", err
		}
		text, _ := a.rest(2)
		p := store.Add(wall.Post{OwnerID: owner, FromID: from, Text: text})
		return "OK - id " + strconv.Itoa(p.ID), nil

	case "update":
		const usage = "post update <id> <from> <text>"
		if err := a.need(3, usage); err != nil {
			return "", err
		}
		id, err := a.id(0)
		if err != nil {
			return "", err
		}
		from, err := a.user(1)
		if err != nil {
			return "", err
		}
		text, _ := a.rest(2)
		cur, ok := store.Get(id)
		if !ok {
			return "", errPostNotFound
		}
		cur.FromID = from
		cur.Text = text
		if !store.Update(cur) {
			return "", errPostNotFound
		}
		return "OK", nil

	case "view":
		if err := a.need(1, "post view <id>"); err != nil {
			return "", err
		}
		id, err := a.id(0)
		if err != nil {
			return "", err
		}
		if !store.View(id) {
			return "", errPostNotFound
		}
		return "OK", nil

	case "get":
		if err := a.need(1, "post get <id>"); err != nil {
			return "", err
		}
		id, err := a.id(0)
		if err != nil {
			return "", err
		}
		p, ok := store.Get(id)
		if !ok {
			return "", errPostNotFound
		}
		return formatPost(p), nil

	case "list":
		posts := store.Posts()
		if len(posts) == 0 {
			return "no posts", nil
		}
		lines := make([]string, len(posts))
		for i, p := range posts {
			lines[i] = formatPost(p)
		}
		return strings.Join(lines, "\n"), nil

	case "comment":
		const usage = "post comment <id> <from> <text>"
		if err := a.need(3, usage); err != nil {
			return "", err
		}
		id, err := a.id(0)
		if err != nil {
			return "", err
		}
		from, err := a.user(1)
		if err != nil {
			return "", err
		}
		text, _ := a.rest(2)
		cm, err := store.CreateComment(id, from, text)
		if err != nil {
			return "", err
		}
		return "OK - id " + strconv.Itoa(cm.ID), nil

	case "attach":
		const usage = "post attach <id> <audio|file|geo|picture|video> <url> [title]"
		if err := a.need(3, usage); err != nil {
			return "", err
		}
		id, err := a.id(0)
		if err != nil {
			return "", err
		}
		kind, err := wall.ParseAttachmentKind(a[1])
		if err != nil {
			return "", err
		}
		att := wall.Attachment{Kind: kind, URL: a[2]}
		if title, err := a.rest(3); err == nil {
			att.Title = title
		}
		if !store.AddAttachment(id, att) {
			return "", errPostNotFound
		}
		return "OK", nil

	default:
		return "", usageError(postUsage)
	}
}

func formatPost(p wall.Post) string {
	return fmt.Sprintf("#%d %s->%s: %s (%d views, %d attachments)",
		p.ID, p.FromID, p.OwnerID, p.Text, p.Views, len(p.Attachments))
}
