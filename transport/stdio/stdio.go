// Package stdio provides a transport over any reader/writer pair, usually
// the process's standard input and output.
package stdio

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/kabili207/socnet-go/transport"
)

// Compile-time interface check.
var _ transport.Transport = (*Transport)(nil)

// Config holds the configuration for a stdio transport.
type Config struct {
	// In is read line by line. Defaults to os.Stdin.
	In io.Reader
	// Out receives replies. Defaults to os.Stdout.
	Out io.Writer
	// Prompt, if set, is written before each line is read.
	Prompt string
	// Logger is the logger to use. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Transport implements transport.Transport over a reader/writer pair.
//
// Reading stops at end of input. Done is closed at that point so the
// caller can exit once stdin is exhausted.
type Transport struct {
	cfg          Config
	log          *slog.Logger
	mu           sync.RWMutex
	writeMu      sync.Mutex
	connected    bool
	done         chan struct{}
	lineHandler  transport.LineHandler
	stateHandler transport.StateHandler
}

// New creates a new stdio transport with the given configuration.
func New(cfg Config) *Transport {
	if cfg.In == nil {
		cfg.In = os.Stdin
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Transport{
		cfg:  cfg,
		log:  cfg.Logger.WithGroup("stdio"),
		done: make(chan struct{}),
	}
}

// Start begins reading lines in the background.
func (t *Transport) Start(ctx context.Context) error {
	select {
	case <-t.done:
		return errors.New("transport already closed")
	default:
	}

	t.mu.Lock()
	if t.connected {
		t.mu.Unlock()
		return errors.New("already started")
	}
	t.connected = true
	handler := t.stateHandler
	t.mu.Unlock()

	go t.readLoop(ctx)

	if handler != nil {
		handler(t, transport.EventConnected)
	}
	return nil
}

// Stop marks the transport disconnected. A read blocked on the underlying
// reader is abandoned and its line, if any, is dropped.
func (t *Transport) Stop() error {
	t.disconnect(nil)
	return nil
}

// Done is closed once the transport has stopped reading.
func (t *Transport) Done() <-chan struct{} {
	return t.done
}

// IsConnected returns true while input is being read.
func (t *Transport) IsConnected() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.connected
}

// SetLineHandler sets the callback for incoming lines.
func (t *Transport) SetLineHandler(fn transport.LineHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lineHandler = fn
}

// SetStateHandler sets the callback for transport state changes.
func (t *Transport) SetStateHandler(fn transport.StateHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stateHandler = fn
}

// SendLine writes line followed by a newline to Out.
func (t *Transport) SendLine(line string) error {
	if !t.IsConnected() {
		return transport.ErrNotConnected
	}
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if _, err := io.WriteString(t.cfg.Out, line+"\n"); err != nil {
		return fmt.Errorf("writing reply: %w", err)
	}
	return nil
}

func (t *Transport) readLoop(ctx context.Context) {
	scanner := bufio.NewScanner(t.cfg.In)
	for {
		t.prompt()
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil || !t.IsConnected() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		t.mu.RLock()
		handler := t.lineHandler
		t.mu.RUnlock()

		if handler != nil {
			handler(line, transport.LineSourceStdio)
		}
	}
	t.disconnect(scanner.Err())
}

func (t *Transport) prompt() {
	if t.cfg.Prompt == "" {
		return
	}
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	io.WriteString(t.cfg.Out, t.cfg.Prompt)
}

func (t *Transport) disconnect(err error) {
	t.mu.Lock()
	if !t.connected {
		t.mu.Unlock()
		return
	}
	t.connected = false
	handler := t.stateHandler
	close(t.done)
	t.mu.Unlock()

	if err != nil {
		t.log.Error("input closed", "error", err)
	} else {
		t.log.Debug("input closed")
	}

	if handler != nil {
		handler(t, transport.EventDisconnected)
	}
}
