package config

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "socnet.yaml", `
log:
  level: DEBUG
  format: json
console:
  prompt: "> "
  start_time: 1700000000
serial:
  port: /dev/ttyUSB0
mqtt:
  broker: tcp://localhost:1883
  node_id: node1
  qos: 1
  events: true
metrics:
  addr: ":9090"
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "> ", cfg.Console.Prompt)
	assert.Equal(t, int64(1700000000), cfg.Console.StartTime)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Serial.Port)
	assert.Equal(t, defaultBaudRate, cfg.Serial.Baud)
	assert.Equal(t, "node1", cfg.MQTT.NodeID)
	assert.Equal(t, defaultTopicPrefix, cfg.MQTT.TopicPrefix)
	assert.Equal(t, 1, cfg.MQTT.QoS)
	assert.True(t, cfg.MQTT.Events)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	assert.Equal(t, defaultNamespace, cfg.Metrics.Namespace)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := Parse([]byte("mqtt:\n  brokr: tcp://x\n"))
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, defaultLogLevel, cfg.Log.Level)
	assert.Equal(t, defaultLogFormat, cfg.Log.Format)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"bad level", Config{Log: LogConfig{Level: "loud"}}},
		{"bad format", Config{Log: LogConfig{Format: "xml"}}},
		{"negative baud", Config{Serial: SerialConfig{Baud: -1}}},
		{"bad qos", Config{MQTT: MQTTConfig{QoS: 3}}},
		{"broker without node", Config{MQTT: MQTTConfig{Broker: "tcp://localhost:1883"}}},
		{"negative start time", Config{Console: ConsoleConfig{StartTime: -5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := &Config{Serial: SerialConfig{Port: "/dev/ttyS0"}}
	err := cfg.ApplyEnv(envMap(map[string]string{
		"SOCNET_LOG_LEVEL":    "warn",
		"SOCNET_SERIAL_BAUD":  "9600",
		"SOCNET_MQTT_BROKER":  "tcp://broker:1883",
		"SOCNET_MQTT_NODE_ID": "n2",
		"SOCNET_MQTT_TLS":     "true",
		"SOCNET_NO_STDIN":     "1",
		"SOCNET_METRICS_ADDR": ":9100",
		"UNRELATED":           "x",
	}))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "/dev/ttyS0", cfg.Serial.Port, "unset variables keep file values")
	assert.Equal(t, 9600, cfg.Serial.Baud)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTT.Broker)
	assert.Equal(t, "n2", cfg.MQTT.NodeID)
	assert.True(t, cfg.MQTT.TLS)
	assert.True(t, cfg.Console.NoStdin)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
}

func TestApplyEnv_BadValues(t *testing.T) {
	cfg := &Config{}
	err := cfg.ApplyEnv(envMap(map[string]string{
		"SOCNET_SERIAL_BAUD": "fast",
		"SOCNET_MQTT_TLS":    "maybe",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SOCNET_SERIAL_BAUD")
	assert.Contains(t, err.Error(), "SOCNET_MQTT_TLS")
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("SOCNET_DOTENV_KEEP", "process")
	t.Cleanup(func() { os.Unsetenv("SOCNET_DOTENV_ADDED") })

	path := writeFile(t, ".env", "SOCNET_DOTENV_KEEP=file\nSOCNET_DOTENV_ADDED=file\n")
	missing := filepath.Join(t.TempDir(), ".env")

	require.NoError(t, LoadDotEnv(missing, path))
	assert.Equal(t, "process", os.Getenv("SOCNET_DOTENV_KEEP"))
	assert.Equal(t, "file", os.Getenv("SOCNET_DOTENV_ADDED"))
}
