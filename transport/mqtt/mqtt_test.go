package mqtt

import (
	"context"
	"errors"
	"testing"

	"github.com/kabili207/socnet-go/core/event"
	"github.com/kabili207/socnet-go/transport"
)

func TestNew_Defaults(t *testing.T) {
	tr := New(Config{
		Broker: "tcp://localhost:1883",
		NodeID: "test",
	})

	if tr.cfg.TopicPrefix != DefaultTopicPrefix {
		t.Errorf("expected default topic prefix %q, got %q", DefaultTopicPrefix, tr.cfg.TopicPrefix)
	}
	if tr.log == nil {
		t.Error("expected logger to be set")
	}
	if tr.seen == nil {
		t.Error("expected deduplicator to be set")
	}
}

func TestNew_CustomConfig(t *testing.T) {
	tr := New(Config{
		Broker:      "tcp://broker.example.com:1883",
		Username:    "user",
		Password:    "pass",
		TopicPrefix: "custom",
		NodeID:      "my-node",
		QoS:         7,
	})

	if tr.cfg.TopicPrefix != "custom" {
		t.Errorf("expected topic prefix %q, got %q", "custom", tr.cfg.TopicPrefix)
	}
	if tr.cfg.QoS != 2 {
		t.Errorf("expected QoS clamped to 2, got %d", tr.cfg.QoS)
	}
}

func TestTopics(t *testing.T) {
	tr := New(Config{NodeID: "node1"})

	if got := tr.CommandTopic(); got != "socnet/node1/cmd" {
		t.Errorf("CommandTopic() = %q", got)
	}
	if got := tr.ReplyTopic(); got != "socnet/node1/reply" {
		t.Errorf("ReplyTopic() = %q", got)
	}
	if got := tr.EventTopic(event.CommentRestored); got != "socnet/node1/events/comment.restored" {
		t.Errorf("EventTopic() = %q", got)
	}
}

func TestStart_MissingBroker(t *testing.T) {
	tr := New(Config{NodeID: "test"})
	err := tr.Start(context.Background())
	if err == nil {
		t.Fatal("expected error with empty broker")
	}
}

func TestStart_MissingNodeID(t *testing.T) {
	tr := New(Config{Broker: "tcp://localhost:1883"})
	err := tr.Start(context.Background())
	if err == nil {
		t.Fatal("expected error with empty node ID")
	}
}

func TestSendLine_NotConnected(t *testing.T) {
	tr := New(Config{
		Broker: "tcp://localhost:1883",
		NodeID: "test",
	})

	if err := tr.SendLine("OK"); !errors.Is(err, transport.ErrNotConnected) {
		t.Fatalf("SendLine err = %v, want ErrNotConnected", err)
	}
}

func TestPublish_NotConnected(t *testing.T) {
	tr := New(Config{NodeID: "test"})
	// Must not panic without a client.
	tr.Publish(event.Event{Kind: event.MessageCreated})
}

func TestIsConnected_Default(t *testing.T) {
	tr := New(Config{
		Broker: "tcp://localhost:1883",
		NodeID: "test",
	})

	if tr.IsConnected() {
		t.Error("expected not connected initially")
	}
}

func TestDispatch(t *testing.T) {
	tr := New(Config{NodeID: "test"})
	var lines []string
	tr.SetLineHandler(func(line string, source transport.LineSource) {
		if source != transport.LineSourceMQTT {
			t.Errorf("expected LineSourceMQTT, got %v", source)
		}
		lines = append(lines, line)
	})

	topic := tr.CommandTopic()
	tr.dispatch(topic, []byte("msg count 1\n"), false)
	// Redelivery of a seen payload is dropped.
	tr.dispatch(topic, []byte("msg count 1\n"), true)
	// A deliberate repeat is not.
	tr.dispatch(topic, []byte("msg count 1\n"), false)
	// Flagged but never seen.
	tr.dispatch(topic, []byte("help"), true)
	tr.dispatch(topic, []byte("   "), false)

	want := []string{"msg count 1", "msg count 1", "help"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}
