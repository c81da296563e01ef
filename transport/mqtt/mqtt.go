// Package mqtt provides an MQTT transport for driving the console remotely.
//
// Commands are read from "{prefix}/{node}/cmd", one command per message.
// Replies are published to "{prefix}/{node}/reply". The transport is also
// an event.Sink: store events are published as JSON to
// "{prefix}/{node}/events/{kind}".
package mqtt

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/kabili207/socnet-go/core/dedupe"
	"github.com/kabili207/socnet-go/core/event"
	"github.com/kabili207/socnet-go/transport"
)

// Compile-time interface checks.
var (
	_ transport.Transport = (*Transport)(nil)
	_ event.Sink          = (*Transport)(nil)
)

const (
	// DefaultTopicPrefix is the default MQTT topic prefix.
	DefaultTopicPrefix = "socnet"
)

// Config holds the configuration for an MQTT transport.
type Config struct {
	// Broker is the MQTT broker URL (e.g., "tcp://broker.example.com:1883").
	Broker string
	// Username for MQTT authentication. Leave empty if not required.
	Username string
	// Password for MQTT authentication. Leave empty if not required.
	Password string
	// UseTLS enables TLS for the MQTT connection.
	UseTLS bool
	// ClientID is the MQTT client identifier. If empty, a random one is generated.
	ClientID string
	// TopicPrefix is the MQTT topic prefix (default: "socnet").
	TopicPrefix string
	// NodeID identifies this instance (e.g., "node1"). All topics live
	// under "{TopicPrefix}/{NodeID}".
	NodeID string
	// QoS for command subscription and reply publication. Defaults to 0.
	QoS byte
	// Logger is the logger to use. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Transport implements transport.Transport over MQTT.
type Transport struct {
	cfg          Config
	client       paho.Client
	log          *slog.Logger
	seen         *dedupe.Deduplicator
	mu           sync.RWMutex
	connected    bool
	lineHandler  transport.LineHandler
	stateHandler transport.StateHandler
}

// New creates a new MQTT transport with the given configuration.
func New(cfg Config) *Transport {
	if cfg.TopicPrefix == "" {
		cfg.TopicPrefix = DefaultTopicPrefix
	}
	if cfg.QoS > 2 {
		cfg.QoS = 2
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Transport{
		cfg:  cfg,
		log:  cfg.Logger.WithGroup("mqtt"),
		seen: dedupe.New(),
	}
}

// Start connects to the MQTT broker and begins listening for commands.
func (t *Transport) Start(ctx context.Context) error {
	if t.cfg.Broker == "" {
		return errors.New("broker URL is required")
	}
	if t.cfg.NodeID == "" {
		return errors.New("node ID is required")
	}

	clientID := t.cfg.ClientID
	if clientID == "" {
		clientID = "socnet-" + uuid.NewString()
	}

	opts := paho.NewClientOptions().
		AddBroker(t.cfg.Broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetMaxReconnectInterval(2 * time.Minute).
		SetKeepAlive(60 * time.Second).
		SetPingTimeout(10 * time.Second).
		SetCleanSession(true).
		SetOrderMatters(true).
		SetOnConnectHandler(t.onConnected).
		SetConnectionLostHandler(t.onConnectionLost).
		SetReconnectingHandler(t.onReconnecting)

	if t.cfg.Username != "" {
		opts.SetUsername(t.cfg.Username)
	}
	if t.cfg.Password != "" {
		opts.SetPassword(t.cfg.Password)
	}
	if t.cfg.UseTLS {
		opts.SetTLSConfig(&tls.Config{
			MinVersion: tls.VersionTLS12,
		})
	}

	client := paho.NewClient(opts)
	t.mu.Lock()
	t.client = client
	t.mu.Unlock()

	token := client.Connect()
	select {
	case <-token.Done():
	case <-time.After(30 * time.Second):
		return errors.New("connection timeout")
	case <-ctx.Done():
		return ctx.Err()
	}
	if token.Error() != nil {
		return fmt.Errorf("connecting to broker: %w", token.Error())
	}

	return nil
}

// Stop gracefully disconnects from the MQTT broker.
func (t *Transport) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.client != nil {
		t.client.Disconnect(1000)
		t.connected = false
	}
	return nil
}

// IsConnected returns true if the transport is connected to the broker.
func (t *Transport) IsConnected() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.connected && t.client != nil && t.client.IsConnected()
}

// SetLineHandler sets the callback for incoming commands.
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

// SendLine publishes a reply to the reply topic.
func (t *Transport) SendLine(line string) error {
	if !t.IsConnected() {
		return transport.ErrNotConnected
	}

	token := t.client.Publish(t.ReplyTopic(), t.cfg.QoS, false, line)
	if !token.WaitTimeout(10 * time.Second) {
		return errors.New("timeout publishing to MQTT")
	}
	return token.Error()
}

// Publish sends a store event to its events topic. It never blocks on the
// broker; events raised while disconnected are dropped.
func (t *Transport) Publish(e event.Event) {
	if !t.IsConnected() {
		return
	}
	payload, err := json.Marshal(e)
	if err != nil {
		t.log.Debug("failed to encode event", "kind", e.Kind, "error", err)
		return
	}
	t.client.Publish(t.EventTopic(e.Kind), 0, false, payload)
}

// CommandTopic is the topic commands are read from.
func (t *Transport) CommandTopic() string {
	return t.base() + "/cmd"
}

// ReplyTopic is the topic replies are published to.
func (t *Transport) ReplyTopic() string {
	return t.base() + "/reply"
}

// EventTopic is the topic events of the given kind are published to.
func (t *Transport) EventTopic(kind event.Kind) string {
	return t.base() + "/events/" + kind.String()
}

func (t *Transport) base() string {
	return t.cfg.TopicPrefix + "/" + t.cfg.NodeID
}

func (t *Transport) subscribe() {
	topic := t.CommandTopic()
	t.client.Subscribe(topic, t.cfg.QoS, t.handleMessage)
	t.log.Debug("subscribed to command topic", "topic", topic)
}

func (t *Transport) handleMessage(_ paho.Client, message paho.Message) {
	t.dispatch(message.Topic(), message.Payload(), message.Duplicate())
}

// dispatch hands a command payload to the line handler. Every payload is
// remembered, but only messages the broker flags as redeliveries are
// dropped when seen before, so a user can repeat a command on purpose.
func (t *Transport) dispatch(topic string, payload []byte, duplicate bool) {
	seen := t.seen.HasSeen(topic, payload)
	if duplicate && seen {
		t.log.Debug("dropping redelivered command", "topic", topic)
		return
	}

	t.mu.RLock()
	handler := t.lineHandler
	t.mu.RUnlock()

	if handler == nil {
		return
	}

	line := strings.TrimSpace(string(payload))
	if line == "" {
		return
	}
	handler(line, transport.LineSourceMQTT)
}

func (t *Transport) onConnected(_ paho.Client) {
	t.mu.Lock()
	t.connected = true
	handler := t.stateHandler
	t.mu.Unlock()

	t.subscribe()
	t.log.Info("connected to MQTT broker", "broker", t.cfg.Broker)

	if handler != nil {
		handler(t, transport.EventConnected)
	}
}

func (t *Transport) onConnectionLost(_ paho.Client, err error) {
	t.mu.Lock()
	t.connected = false
	handler := t.stateHandler
	t.mu.Unlock()

	t.log.Error("MQTT connection lost", "error", err)

	if handler != nil {
		handler(t, transport.EventDisconnected)
	}
}

func (t *Transport) onReconnecting(_ paho.Client, _ *paho.ClientOptions) {
	t.mu.RLock()
	handler := t.stateHandler
	t.mu.RUnlock()

	t.log.Info("reconnecting to MQTT broker")

	if handler != nil {
		handler(t, transport.EventReconnecting)
	}
}
