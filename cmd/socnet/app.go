package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/kabili207/socnet-go/config"
	"github.com/kabili207/socnet-go/core/chat"
	"github.com/kabili207/socnet-go/core/clock"
	"github.com/kabili207/socnet-go/core/event"
	"github.com/kabili207/socnet-go/core/notes"
	"github.com/kabili207/socnet-go/core/wall"
	"github.com/kabili207/socnet-go/service/console"
	"github.com/kabili207/socnet-go/service/stats"
	"github.com/kabili207/socnet-go/transport"
	"github.com/kabili207/socnet-go/transport/mqtt"
	"github.com/kabili207/socnet-go/transport/serial"
	"github.com/kabili207/socnet-go/transport/stdio"
)

// app wires the stores, the console and its transports together.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	counters *stats.Counters
	chat     *chat.MemoryStore
	notes    *notes.MemoryStore
	wall     *wall.MemoryStore
	console  *console.Console

	stdin      *stdio.Transport
	transports []transport.Transport
}

func newApp(cfg *config.Config, logger *slog.Logger) *app {
	a := &app{
		cfg:      cfg,
		log:      logger,
		counters: &stats.Counters{},
	}

	clk := clock.New()
	if cfg.Console.StartTime != 0 {
		clk = clock.Fixed(cfg.Console.StartTime)
	}

	sinks := event.Fanout{a.counters}

	if !cfg.Console.NoStdin {
		a.stdin = stdio.New(stdio.Config{Prompt: cfg.Console.Prompt, Logger: logger})
		a.transports = append(a.transports, a.stdin)
	}
	if cfg.Serial.Port != "" {
		a.transports = append(a.transports, serial.New(serial.Config{
			Port:     cfg.Serial.Port,
			BaudRate: cfg.Serial.Baud,
			Logger:   logger,
		}))
	}
	if cfg.MQTT.Broker != "" {
		m := mqtt.New(mqtt.Config{
			Broker:      cfg.MQTT.Broker,
			Username:    cfg.MQTT.Username,
			Password:    cfg.MQTT.Password,
			UseTLS:      cfg.MQTT.TLS,
			ClientID:    cfg.MQTT.ClientID,
			TopicPrefix: cfg.MQTT.TopicPrefix,
			NodeID:      cfg.MQTT.NodeID,
			QoS:         byte(cfg.MQTT.QoS),
			Logger:      logger,
		})
		a.transports = append(a.transports, m)
		if cfg.MQTT.Events {
			sinks = append(sinks, m)
		}
	}

	a.chat = chat.NewMemoryStore(chat.StoreConfig{Clock: clk, Events: sinks, Logger: logger})
	a.notes = notes.NewMemoryStore(notes.StoreConfig{Clock: clk, Events: sinks, Logger: logger})
	a.wall = wall.NewMemoryStore(wall.StoreConfig{Clock: clk, Events: sinks, Logger: logger})

	a.console = console.New(console.Config{
		Chat:   a.chat,
		Notes:  a.notes,
		Wall:   a.wall,
		Clock:  clk,
		Stats:  a.counters,
		Logger: logger,
	})
	return a
}

// Run serves the console on every configured transport until ctx is done
// or standard input is exhausted.
func (a *app) Run(ctx context.Context) error {
	if len(a.transports) == 0 && a.cfg.Metrics.Addr == "" {
		return errors.New("nothing to serve: enable stdin, serial, MQTT or metrics")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	for _, t := range a.transports {
		g.Go(func() error {
			return a.console.Serve(ctx, t)
		})
	}

	if a.stdin != nil {
		g.Go(func() error {
			select {
			case <-a.stdin.Done():
				a.log.Info("standard input closed, shutting down")
				cancel()
			case <-ctx.Done():
			}
			return nil
		})
	}

	if a.cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              a.cfg.Metrics.Addr,
			Handler:           a.metricsHandler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			a.log.Info("serving metrics", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

// metricsHandler serves the store counters and size gauges alongside the
// standard Go runtime collectors.
func (a *app) metricsHandler() http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		stats.NewCollector(stats.CollectorConfig{
			Namespace: a.cfg.Metrics.Namespace,
			Counters:  a.counters,
			Gauges: map[string]func() int{
				"conversations": a.chat.Count,
				"notes":         a.notes.Count,
				"posts":         a.wall.Count,
			},
		}),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return mux
}
