package console

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

const helpText = `msg send <from> <to> <text>
msg edit <from> <to> <id> <text>
msg delete <from> <to> <id>
msg drop <from> <to>
msg unread <owner>
msg count
msg chats <owner>
msg read <owner> <interlocutor> [from-id] [limit]
msg history <a> <b>
note add <owner> <title> <text>
note delete <owner> <id>
note edit <owner> <id> <title> <text>
note get <owner> <id>
note list <owner> [id...]
comment add <owner> <note-id> <from> <text>
comment delete|erase|restore|purge <owner> <comment-id>
comment edit <owner> <comment-id> <text>
comment list|trash <owner> <note-id>
post add <owner> <from> <text>
post update <id> <from> <text>
post view|get <id>
post list
post comment <id> <from> <text>
post attach <id> <kind> <url> [title]
clock [set <unix-time>]
stats
clear stats
reset
ver`

// clockSetter is implemented by adjustable clocks.
type clockSetter interface {
	Set(t int64)
}

func (c *Console) clock(a args) (string, error) {
	if len(a) > 0 && a[0] == "set" {
		if err := a.need(2, "clock set <unix-time>"); err != nil {
			return "", err
		}
		setter, ok := c.cfg.Clock.(clockSetter)
		if !ok {
			return "", errors.New("clock is not adjustable")
		}
		t, err := strconv.ParseInt(a[1], 10, 64)
		if err != nil {
			return "", fmt.Errorf("bad time %q", a[1])
		}
		setter.Set(t)
		return "OK", nil
	}
	// Return current time as "HH:MM - DD/MM/YYYY UTC"
	t := time.Unix(c.cfg.Clock.Now(), 0).UTC()
	return fmt.Sprintf("%02d:%02d - %02d/%02d/%04d UTC",
		t.Hour(), t.Minute(), t.Day(), t.Month(), t.Year()), nil
}

func (c *Console) stats() string {
	if c.cfg.Stats == nil {
		return "stats disabled"
	}
	s := c.cfg.Stats.Snapshot()
	return fmt.Sprintf("msgs: %d sent, %d edited, %d deleted, %d read; chats: %d deleted\n"+
		"notes: %d added, %d edited, %d deleted; comments: %d added, %d edited, %d trashed, %d erased, %d restored\n"+
		"posts: %d added, %d updated, %d views, %d comments\n"+
		"commands: %d ok, %d failed",
		s.MessagesCreated, s.MessagesEdited, s.MessagesDeleted, s.MessagesRead, s.ConversationsDeleted,
		s.NotesCreated, s.NotesEdited, s.NotesDeleted,
		s.CommentsCreated, s.CommentsEdited, s.CommentsTrashed, s.CommentsErased, s.CommentsRestored,
		s.PostsCreated, s.PostsUpdated, s.PostsViewed, s.PostsCommented,
		s.CommandsExecuted, s.CommandsFailed)
}

func (c *Console) clearStats() string {
	if c.cfg.Stats != nil {
		c.cfg.Stats.Reset()
	}
	return "OK"
}

// reset empties every configured store.
func (c *Console) reset() string {
	if c.cfg.Chat != nil {
		c.cfg.Chat.Clear()
	}
	if c.cfg.Notes != nil {
		c.cfg.Notes.Clear()
	}
	if c.cfg.Wall != nil {
		c.cfg.Wall.Clear()
	}
	c.log.Info("stores reset")
	return "OK"
}
