// Package transport provides the line-oriented links a console is served
// over: standard streams, serial ports and MQTT.
package transport

import (
	"context"
	"errors"
)

// ErrNotConnected is returned by SendLine when the link is down.
var ErrNotConnected = errors.New("not connected")

// Transport is the base interface for all transport implementations.
type Transport interface {
	// Start begins the transport's connection and line handling.
	// The provided context controls the transport's lifetime.
	Start(ctx context.Context) error
	// Stop gracefully shuts down the transport.
	Stop() error
	// IsConnected returns true if the transport is currently connected.
	IsConnected() bool
	// SetLineHandler sets the callback for incoming command lines.
	SetLineHandler(fn LineHandler)
	// SetStateHandler sets the callback for transport state changes.
	SetStateHandler(fn StateHandler)
	// SendLine transmits one reply line. A trailing newline is added by the
	// transport where its framing needs one.
	SendLine(line string) error
}

// LineHandler is called for every complete line received.
type LineHandler func(line string, source LineSource)

// StateHandler is called when the transport state changes.
type StateHandler func(transport Transport, event Event)

// Event represents transport state change events.
type Event int

const (
	// EventConnected is fired when the transport connects.
	EventConnected Event = iota
	// EventDisconnected is fired when the transport disconnects.
	EventDisconnected
	// EventReconnecting is fired when the transport is attempting to reconnect.
	EventReconnecting
	// EventError is fired when an error occurs.
	EventError
)

func (e Event) String() string {
	switch e {
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	case EventReconnecting:
		return "reconnecting"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// LineSource indicates where a line originated from.
type LineSource int

const (
	// LineSourceStdio indicates the line came from standard input or
	// another local stream.
	LineSourceStdio LineSource = iota
	// LineSourceSerial indicates the line came from a serial connection.
	LineSourceSerial
	// LineSourceMQTT indicates the line came from MQTT.
	LineSourceMQTT
)

func (s LineSource) String() string {
	switch s {
	case LineSourceStdio:
		return "stdio"
	case LineSourceSerial:
		return "serial"
	case LineSourceMQTT:
		return "mqtt"
	default:
		return "unknown"
	}
}
