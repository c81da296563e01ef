package stats

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Compile-time assertion that Collector implements prometheus.Collector.
var _ prometheus.Collector = (*Collector)(nil)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "socnet"

// CollectorConfig configures a Collector.
type CollectorConfig struct {
	// Namespace for metric names. Defaults to DefaultNamespace.
	Namespace string

	// Counters to export. Required.
	Counters *Counters

	// Gauges maps a metric name (without namespace) to a callback that
	// reports the current size of some store, e.g. "conversations".
	Gauges map[string]func() int
}

// Collector exports Counters as Prometheus counters plus any number of
// size gauges read at scrape time.
type Collector struct {
	counters *Counters
	totals   []counterMetric
	gauges   []gaugeMetric
}

type counterMetric struct {
	desc *prometheus.Desc
	read func(Snapshot) uint64
}

type gaugeMetric struct {
	desc *prometheus.Desc
	read func() int
}

// NewCollector builds a Collector. Register it with a prometheus.Registerer.
func NewCollector(cfg CollectorConfig) *Collector {
	ns := cfg.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	counter := func(name, help string, read func(Snapshot) uint64) counterMetric {
		return counterMetric{
			desc: prometheus.NewDesc(prometheus.BuildFQName(ns, "", name+"_total"), help, nil, nil),
			read: read,
		}
	}

	c := &Collector{
		counters: cfg.Counters,
		totals: []counterMetric{
			counter("messages_created", "Messages sent.", func(s Snapshot) uint64 { return s.MessagesCreated }),
			counter("messages_edited", "Messages edited.", func(s Snapshot) uint64 { return s.MessagesEdited }),
			counter("messages_deleted", "Single messages deleted.", func(s Snapshot) uint64 { return s.MessagesDeleted }),
			counter("messages_read", "Messages marked read.", func(s Snapshot) uint64 { return s.MessagesRead }),
			counter("conversations_deleted", "Conversations removed.", func(s Snapshot) uint64 { return s.ConversationsDeleted }),
			counter("notes_created", "Notes added.", func(s Snapshot) uint64 { return s.NotesCreated }),
			counter("notes_edited", "Notes edited.", func(s Snapshot) uint64 { return s.NotesEdited }),
			counter("notes_deleted", "Notes deleted.", func(s Snapshot) uint64 { return s.NotesDeleted }),
			counter("comments_created", "Note comments added.", func(s Snapshot) uint64 { return s.CommentsCreated }),
			counter("comments_edited", "Note comments edited.", func(s Snapshot) uint64 { return s.CommentsEdited }),
			counter("comments_trashed", "Note comments moved to trash.", func(s Snapshot) uint64 { return s.CommentsTrashed }),
			counter("comments_erased", "Note comments removed permanently.", func(s Snapshot) uint64 { return s.CommentsErased }),
			counter("comments_restored", "Note comments restored from trash.", func(s Snapshot) uint64 { return s.CommentsRestored }),
			counter("posts_created", "Wall posts added.", func(s Snapshot) uint64 { return s.PostsCreated }),
			counter("posts_updated", "Wall posts updated.", func(s Snapshot) uint64 { return s.PostsUpdated }),
			counter("posts_viewed", "Wall post views.", func(s Snapshot) uint64 { return s.PostsViewed }),
			counter("posts_commented", "Wall post comments.", func(s Snapshot) uint64 { return s.PostsCommented }),
			counter("commands_executed", "Console commands executed.", func(s Snapshot) uint64 { return s.CommandsExecuted }),
			counter("commands_failed", "Console commands rejected.", func(s Snapshot) uint64 { return s.CommandsFailed }),
		},
	}
	for name, read := range cfg.Gauges {
		c.gauges = append(c.gauges, gaugeMetric{
			desc: prometheus.NewDesc(prometheus.BuildFQName(ns, "", name), "Current number of "+name+".", nil, nil),
			read: read,
		})
	}
	return c
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.totals {
		ch <- m.desc
	}
	for _, g := range c.gauges {
		ch <- g.desc
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.counters.Snapshot()
	for _, m := range c.totals {
		ch <- prometheus.MustNewConstMetric(m.desc, prometheus.CounterValue, float64(m.read(snap)))
	}
	for _, g := range c.gauges {
		ch <- prometheus.MustNewConstMetric(g.desc, prometheus.GaugeValue, float64(g.read()))
	}
}
