// Package config loads the socnet process configuration from a YAML file,
// an optional .env file and SOCNET_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SOCNET_"

const (
	defaultLogLevel    = "info"
	defaultLogFormat   = "text"
	defaultBaudRate    = 115200
	defaultTopicPrefix = "socnet"
	defaultNamespace   = "socnet"
)

// Config is the complete process configuration.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Console ConsoleConfig `yaml:"console"`
	Serial  SerialConfig  `yaml:"serial"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn or error
	Format string `yaml:"format"` // text or json
}

// ConsoleConfig controls the local console.
type ConsoleConfig struct {
	// NoStdin disables the standard input console.
	NoStdin bool `yaml:"no_stdin"`
	// Prompt is printed before each stdin line.
	Prompt string `yaml:"prompt"`
	// StartTime pins the store clock to a fixed UNIX time. Zero uses the
	// system clock.
	StartTime int64 `yaml:"start_time"`
}

// SerialConfig enables the serial console when Port is set.
type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// MQTTConfig enables the MQTT console when Broker is set.
type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TLS         bool   `yaml:"tls"`
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
	NodeID      string `yaml:"node_id"`
	QoS         int    `yaml:"qos"`
	// Events publishes store events under the node's events topic.
	Events bool `yaml:"events"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr      string `yaml:"addr"`
	Namespace string `yaml:"namespace"`
}

// LoadFile reads and parses a YAML config file. A missing file is reported
// with an error wrapping fs.ErrNotExist.
func LoadFile(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s: %w", path, err)
		}
		return nil, err
	}
	return Parse(b)
}

// Parse decodes YAML config data. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from SOCNET_* variables returned by lookup,
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	var errs []error
	num := func(name string, dst *int) {
		if v, ok := lookup(EnvPrefix + name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	flag := func(name string, dst *bool) {
		if v, ok := lookup(EnvPrefix + name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}

	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	flag("NO_STDIN", &c.Console.NoStdin)
	str("CONSOLE_PROMPT", &c.Console.Prompt)
	str("SERIAL_PORT", &c.Serial.Port)
	num("SERIAL_BAUD", &c.Serial.Baud)
	str("MQTT_BROKER", &c.MQTT.Broker)
	str("MQTT_USERNAME", &c.MQTT.Username)
	str("MQTT_PASSWORD", &c.MQTT.Password)
	flag("MQTT_TLS", &c.MQTT.TLS)
	str("MQTT_CLIENT_ID", &c.MQTT.ClientID)
	str("MQTT_TOPIC_PREFIX", &c.MQTT.TopicPrefix)
	str("MQTT_NODE_ID", &c.MQTT.NodeID)
	num("MQTT_QOS", &c.MQTT.QoS)
	flag("MQTT_EVENTS", &c.MQTT.Events)
	str("METRICS_ADDR", &c.Metrics.Addr)
	str("METRICS_NAMESPACE", &c.Metrics.Namespace)

	return errors.Join(errs...)
}

// Validate fills in defaults and rejects invalid values.
func (c *Config) Validate() error {
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	if c.Log.Format == "" {
		c.Log.Format = defaultLogFormat
	}
	c.Log.Format = strings.ToLower(c.Log.Format)
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format: unsupported format %q (want text or json)", c.Log.Format)
	}

	if c.Serial.Baud == 0 {
		c.Serial.Baud = defaultBaudRate
	}
	if c.Serial.Baud < 0 {
		return fmt.Errorf("serial.baud: must be positive, got %d", c.Serial.Baud)
	}

	if c.MQTT.TopicPrefix == "" {
		c.MQTT.TopicPrefix = defaultTopicPrefix
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt.qos: must be 0, 1 or 2, got %d", c.MQTT.QoS)
	}
	if c.MQTT.Broker != "" && c.MQTT.NodeID == "" {
		return errors.New("mqtt.node_id: required when mqtt.broker is set")
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = defaultNamespace
	}
	if c.Console.StartTime < 0 {
		return fmt.Errorf("console.start_time: must not be negative, got %d", c.Console.StartTime)
	}
	return nil
}

// SlogLevel maps Log.Level to a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
