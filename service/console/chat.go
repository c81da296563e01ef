package console

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/kabili207/socnet-go/core/chat"
)

const msgUsage = "msg send|edit|delete|drop|unread|count|chats|read|history ..."

func (c *Console) msg(a args) (string, error) {
	verb, a, err := sub(a, msgUsage)
	if err != nil {
		return "", err
	}
	store := c.cfg.Chat

	switch verb {
	case "send":
		const usage = "msg send <from> <to> <text>"
		if err := a.need(3, usage); err != nil {
			return "", err
		}
		from, to, err := a.users(0)
		if err != nil {
			return "", err
		}
		text, _ := a.rest(2)
		id, err := store.CreateMessage(from, to, text)
		if err != nil {
			return "", err
		}
		return "OK - id " + strconv.Itoa(id), nil

	case "edit":
		const usage = "msg edit <from> <to> <id> <text>"
		if err := a.need(4, usage); err != nil {
			return "", err
		}
		from, to, err := a.users(0)
		if err != nil {
			return "", err
		}
		id, err := a.id(2)
		if err != nil {
			return "", err
		}
		text, _ := a.rest(3)
		return okOrMissing(store.EditMessage(from, to, id, text))

	case "delete":
		const usage = "msg delete <from> <to> <id>"
		if err := a.need(3, usage); err != nil {
			return "", err
		}
		from, to, err := a.users(0)
		if err != nil {
			return "", err
		}
		id, err := a.id(2)
		if err != nil {
			return "", err
		}
		return okOrMissing(store.DeleteMessage(from, to, id))

	case "drop":
		if err := a.need(2, "msg drop <from> <to>"); err != nil {
			return "", err
		}
		from, to, err := a.users(0)
		if err != nil {
			return "", err
		}
		if err := store.DeleteConversation(from, to); err != nil {
			return "", err
		}
		return "OK", nil

	case "unread":
		if err := a.need(1, "msg unread <owner>"); err != nil {
			return "", err
		}
		owner, err := a.user(0)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(store.UnreadConversationCount(owner)), nil

	case "count":
		return strconv.Itoa(store.Count()), nil

	case "chats":
		if err := a.need(1, "msg chats <owner>"); err != nil {
			return "", err
		}
		owner, err := a.user(0)
		if err != nil {
			return "", err
		}
		summaries := store.ConversationSummaries(owner)
		if len(summaries) == 0 {
			return chat.NoMessages, nil
		}
		lines := make([]string, 0, len(summaries))
		for _, other := range slices.Sorted(maps.Keys(summaries)) {
			lines = append(lines, fmt.Sprintf("%s: %s", other, summaries[other]))
		}
		return strings.Join(lines, "\n"), nil

	case "read":
		const usage = "msg read <owner> <interlocutor> [from-id] [limit]"
		if err := a.need(2, usage); err != nil {
			return "", err
		}
		owner, other, err := a.users(0)
		if err != nil {
			return "", err
		}
		fromID, err := a.optID(2, 0)
		if err != nil {
			return "", err
		}
		limit, err := a.optID(3, DefaultReadLimit)
		if err != nil {
			return "", err
		}
		msgs, err := store.UnreadMessages(owner, other, fromID, limit)
		if err != nil {
			return "", err
		}
		return formatMessages(msgs), nil

	case "history":
		if err := a.need(2, "msg history <a> <b>"); err != nil {
			return "", err
		}
		first, second, err := a.users(0)
		if err != nil {
			return "", err
		}
		msgs, err := store.History(first, second)
		if err != nil {
			return "", err
		}
		return formatMessages(msgs), nil

	default:
		return "", usageError(msgUsage)
	}
}

// DefaultReadLimit caps "msg read" when no limit is given.
const DefaultReadLimit = 20

func okOrMissing(ok bool, err error) (string, error) {
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New("message not found")
	}
	return "OK", nil
}

func formatMessages(msgs []chat.Message) string {
	if len(msgs) == 0 {
		return chat.NoMessages
	}
	lines := make([]string, len(msgs))
	for i, m := range msgs {
		mark := ""
		if !m.Read {
			mark = " *"
		}
		lines[i] = fmt.Sprintf("#%d %s: %s%s", m.ID, m.SenderID, m.Text, mark)
	}
	return strings.Join(lines, "\n")
}
