// Package console implements the text command interface to the stores.
//
// Each command is one line of whitespace-separated words and produces one
// reply, which may span several lines for listings. Replies starting with
// "Error:" report a rejected command; "Unknown command" is returned for
// anything not recognized.
package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kabili207/socnet-go/core/chat"
	"github.com/kabili207/socnet-go/core/clock"
	"github.com/kabili207/socnet-go/core/notes"
	"github.com/kabili207/socnet-go/core/wall"
	"github.com/kabili207/socnet-go/service/stats"
	"github.com/kabili207/socnet-go/transport"
)

const defaultVersion = "socnet-go"

// errUnknown marks input that matches no command.
var errUnknown = errors.New("unknown command")

// Config configures a Console. Any store left nil disables its commands.
type Config struct {
	Chat  chat.Store
	Notes notes.Store
	Wall  wall.Store

	// Clock is reported by "clock". If it also has a Set(int64) method,
	// "clock set" adjusts it.
	Clock clock.Source

	// Stats backs "stats" and "clear stats" and counts executed commands.
	// May be nil.
	Stats *stats.Counters

	// Version is reported by "ver".
	Version string

	// Logger for console events. Falls back to slog.Default() if nil.
	Logger *slog.Logger
}

// Console dispatches command lines to the configured stores.
type Console struct {
	cfg Config
	log *slog.Logger
}

// New creates a console.
func New(cfg Config) *Console {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Version == "" {
		cfg.Version = defaultVersion
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Console{
		cfg: cfg,
		log: logger.WithGroup("console"),
	}
}

// Execute runs one command line and returns the reply text.
// Returns "" for blank input.
func (c *Console) Execute(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}

	reply, err := c.dispatch(fields)
	if c.cfg.Stats != nil {
		c.cfg.Stats.CommandDone(err == nil)
	}
	switch {
	case err == nil:
		return reply
	case errors.Is(err, errUnknown):
		c.log.Debug("unknown command", "cmd", fields[0])
		return "Unknown command"
	default:
		c.log.Debug("command rejected", "cmd", fields[0], "error", err)
		return "Error: " + err.Error()
	}
}

// Serve starts t, answers every line it receives, and blocks until ctx is
// done. The transport is stopped before Serve returns.
func (c *Console) Serve(ctx context.Context, t transport.Transport) error {
	t.SetLineHandler(func(line string, source transport.LineSource) {
		c.log.Debug("command", "source", source, "cmd", line)
		reply := c.Execute(line)
		if reply == "" {
			return
		}
		if err := t.SendLine(reply); err != nil {
			c.log.Warn("failed to send reply", "source", source, "error", err)
		}
	})

	if err := t.Start(ctx); err != nil {
		return fmt.Errorf("starting transport: %w", err)
	}
	<-ctx.Done()
	return t.Stop()
}

func (c *Console) dispatch(fields []string) (string, error) {
	cmd, rest := fields[0], args(fields[1:])

	switch cmd {
	case "msg":
		if c.cfg.Chat == nil {
			return "", errUnknown
		}
		return c.msg(rest)
	case "note":
		if c.cfg.Notes == nil {
			return "", errUnknown
		}
		return c.note(rest)
	case "comment":
		if c.cfg.Notes == nil {
			return "", errUnknown
		}
		return c.comment(rest)
	case "post":
		if c.cfg.Wall == nil {
			return "", errUnknown
		}
		return c.post(rest)
	case "clock":
		return c.clock(rest)
	case "ver":
		return c.cfg.Version, nil
	case "stats":
		return c.stats(), nil
	case "clear":
		if len(rest) >= 1 && rest[0] == "stats" {
			return c.clearStats(), nil
		}
		return "", errUnknown
	case "reset":
		return c.reset(), nil
	case "help":
		return helpText, nil
	default:
		return "", errUnknown
	}
}

// sub splits off a subcommand, reporting usage when it is missing.
func sub(a args, usage string) (string, args, error) {
	if len(a) == 0 {
		return "", nil, usageError(usage)
	}
	return a[0], a[1:], nil
}
