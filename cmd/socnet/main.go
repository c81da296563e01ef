// Command socnet runs the chat, notes and wall stores behind a text console
// reachable over standard input, a serial port and MQTT.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kabili207/socnet-go/config"
)

// Flag variables.
var (
	configPath  string
	logLevel    string
	logFormat   string
	serialPort  string
	baudRate    int
	mqttBroker  string
	mqttNode    string
	metricsAddr string
	noStdin     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "socnet",
	Short: "In-memory messaging, notes and wall service with a text console",
	Long: "socnet keeps conversations, notes with comments and wall posts in " +
		"memory and answers console commands read from stdin, a serial port " +
		"or an MQTT command topic. Type \"help\" for the command list.",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg, os.Stderr)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return newApp(cfg, logger).Run(ctx)
	},
}

// init is the initialization function for Cobra which defines flags.
func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "Path to a YAML config file.")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error.")
	flags.StringVar(&logFormat, "log-format", "", "Log format: text or json.")
	flags.StringVar(&serialPort, "serial", "", "Serve the console on this serial port.")
	flags.IntVar(&baudRate, "baud", 0, "Serial baud rate (default 115200).")
	flags.StringVar(&mqttBroker, "mqtt-broker", "", "Serve the console over this MQTT broker URL.")
	flags.StringVar(&mqttNode, "mqtt-node", "", "Node ID used in MQTT topics.")
	flags.StringVar(&metricsAddr, "metrics-addr", "", "Expose Prometheus metrics on this address.")
	flags.BoolVar(&noStdin, "no-stdin", false, "Do not read commands from standard input.")
}

// loadConfig merges, in increasing precedence: the config file, .env and
// SOCNET_* variables, then explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg := &config.Config{}
	if configPath != "" {
		loaded, err := config.LoadFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if flags.Changed("serial") {
		cfg.Serial.Port = serialPort
	}
	if flags.Changed("baud") {
		cfg.Serial.Baud = baudRate
	}
	if flags.Changed("mqtt-broker") {
		cfg.MQTT.Broker = mqttBroker
	}
	if flags.Changed("mqtt-node") {
		cfg.MQTT.NodeID = mqttNode
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Addr = metricsAddr
	}
	if flags.Changed("no-stdin") {
		cfg.Console.NoStdin = noStdin
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger. Logs go to w so that standard output
// stays reserved for console replies.
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}
