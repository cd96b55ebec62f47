// Package config provides configuration handling for socket profiles: a
// preset of transport options plus logging, loadable from YAML or JSON
// files and environment variables, and applicable to a socket before it
// binds or connects.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/irctrakz/gosrt/pkg/core"
	"github.com/irctrakz/gosrt/pkg/logging"
	"github.com/irctrakz/gosrt/pkg/srt"
)

// Config is a complete socket profile.
type Config struct {
	// Socket contains the transport option preset.
	Socket SocketConfig `json:"socket" yaml:"socket"`

	// Logging contains the logging configuration.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// SocketConfig is the transport option preset applied to a socket before it
// binds or connects. Zero values mean "leave the engine default"; booleans
// are pointers for the same reason.
type SocketConfig struct {
	// TransType selects the live or file preset ("live" or "file").
	TransType string `json:"transType" yaml:"transType"`

	// StreamID is exchanged during the connection handshake.
	StreamID string `json:"streamId" yaml:"streamId"`

	// Passphrase enables encryption when non-empty (10 to 79 characters).
	Passphrase string `json:"passphrase" yaml:"passphrase"`

	// KeyLength is the encryption key length in bytes (0, 16, 24 or 32).
	KeyLength int `json:"keyLength" yaml:"keyLength"`

	// LatencyMS is the delivery delay in milliseconds.
	LatencyMS int `json:"latencyMs" yaml:"latencyMs"`

	// ReceiveLatencyMS overrides the receive-side delivery delay.
	ReceiveLatencyMS int `json:"receiveLatencyMs" yaml:"receiveLatencyMs"`

	// PeerLatencyMS is the minimum delay the peer must apply.
	PeerLatencyMS int `json:"peerLatencyMs" yaml:"peerLatencyMs"`

	// MSS is the maximum segment size in bytes.
	MSS int `json:"mss" yaml:"mss"`

	// FlowWindow caps unacknowledged packets in flight.
	FlowWindow int `json:"flowWindow" yaml:"flowWindow"`

	// SendBuffer and ReceiveBuffer size the transport buffers in bytes.
	SendBuffer    int `json:"sendBuffer" yaml:"sendBuffer"`
	ReceiveBuffer int `json:"receiveBuffer" yaml:"receiveBuffer"`

	// PayloadSize is the maximum message payload in bytes.
	PayloadSize int `json:"payloadSize" yaml:"payloadSize"`

	// ConnectTimeoutMS bounds the connection handshake.
	ConnectTimeoutMS int `json:"connectTimeoutMs" yaml:"connectTimeoutMs"`

	// SendTimeoutMS and ReceiveTimeoutMS bound blocking send and receive;
	// zero leaves the engine default (wait forever).
	SendTimeoutMS    int `json:"sendTimeoutMs" yaml:"sendTimeoutMs"`
	ReceiveTimeoutMS int `json:"receiveTimeoutMs" yaml:"receiveTimeoutMs"`

	// MaxBandwidth caps output in bytes per second; zero leaves the default.
	MaxBandwidth int64 `json:"maxBandwidth" yaml:"maxBandwidth"`

	// OverheadBandwidth is the retransmission allowance percent.
	OverheadBandwidth int `json:"overheadBandwidth" yaml:"overheadBandwidth"`

	// MessageAPI switches between message and byte-stream transfer.
	MessageAPI *bool `json:"messageApi" yaml:"messageApi"`

	// TooLatePacketDrop toggles dropping packets past their delivery time.
	TooLatePacketDrop *bool `json:"tooLatePacketDrop" yaml:"tooLatePacketDrop"`

	// PeriodicNAK toggles periodic loss reports.
	PeriodicNAK *bool `json:"periodicNak" yaml:"periodicNak"`

	// EnforcedEncryption requires matching passphrases on both sides.
	EnforcedEncryption *bool `json:"enforcedEncryption" yaml:"enforcedEncryption"`
}

// LoggingConfig contains configuration for logging.
type LoggingConfig struct {
	// Level is the logging level (debug, info, warn, error).
	Level string `json:"level" yaml:"level"`

	// File is the log file path.
	File string `json:"file" yaml:"file"`

	// MaxSize is the maximum size of the log file in megabytes.
	MaxSize int `json:"maxSize" yaml:"maxSize"`

	// MaxBackups is the maximum number of old log files to retain.
	MaxBackups int `json:"maxBackups" yaml:"maxBackups"`

	// MaxAge is the maximum number of days to retain old log files.
	MaxAge int `json:"maxAge" yaml:"maxAge"`
}

// DefaultConfig returns the default configuration: a live-profile socket and
// quiet logging.
func DefaultConfig() *Config {
	return &Config{
		Socket: SocketConfig{
			TransType: "live",
			LatencyMS: 120,
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
		},
	}
}

// LoadFromFile loads configuration from a file.
func LoadFromFile(path string, config *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Determine file format based on extension
	switch {
	case strings.HasSuffix(path, ".json"):
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s", path)
	}

	return nil
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv(config *Config) {
	// Socket config
	if val := os.Getenv("SRT_TRANSTYPE"); val != "" {
		config.Socket.TransType = val
	}
	if val := os.Getenv("SRT_STREAMID"); val != "" {
		config.Socket.StreamID = val
	}
	if val := os.Getenv("SRT_PASSPHRASE"); val != "" {
		config.Socket.Passphrase = val
	}
	if val := os.Getenv("SRT_KEY_LENGTH"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			config.Socket.KeyLength = n
		}
	}
	if val := os.Getenv("SRT_LATENCY_MS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			config.Socket.LatencyMS = n
		}
	}
	if val := os.Getenv("SRT_MSS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			config.Socket.MSS = n
		}
	}
	if val := os.Getenv("SRT_CONNECT_TIMEOUT_MS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			config.Socket.ConnectTimeoutMS = n
		}
	}
	if val := os.Getenv("SRT_MAX_BANDWIDTH"); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			config.Socket.MaxBandwidth = n
		}
	}

	// Logging config
	if val := os.Getenv("LOGGING_LEVEL"); val != "" {
		config.Logging.Level = val
	}
	if val := os.Getenv("LOGGING_FILE"); val != "" {
		config.Logging.File = val
	}
	if val := os.Getenv("LOGGING_MAX_SIZE"); val != "" {
		if maxSize, err := strconv.Atoi(val); err == nil {
			config.Logging.MaxSize = maxSize
		}
	}
	if val := os.Getenv("LOGGING_MAX_BACKUPS"); val != "" {
		if maxBackups, err := strconv.Atoi(val); err == nil {
			config.Logging.MaxBackups = maxBackups
		}
	}
	if val := os.Getenv("LOGGING_MAX_AGE"); val != "" {
		if maxAge, err := strconv.Atoi(val); err == nil {
			config.Logging.MaxAge = maxAge
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Socket.TransType {
	case "", "live", "file":
	default:
		return fmt.Errorf("invalid transmission type: %s", c.Socket.TransType)
	}
	switch c.Socket.KeyLength {
	case 0, 16, 24, 32:
	default:
		return fmt.Errorf("invalid key length: %d (must be 0, 16, 24 or 32)", c.Socket.KeyLength)
	}
	if p := c.Socket.Passphrase; p != "" && (len(p) < 10 || len(p) > 79) {
		return fmt.Errorf("passphrase must be 10 to 79 characters, got %d", len(p))
	}
	if len(c.Socket.StreamID) > core.MaxStringOptLen {
		return fmt.Errorf("stream id exceeds %d bytes", core.MaxStringOptLen)
	}
	if c.Socket.LatencyMS < 0 || c.Socket.ReceiveLatencyMS < 0 || c.Socket.PeerLatencyMS < 0 {
		return fmt.Errorf("latency values cannot be negative")
	}
	if c.Socket.MSS < 0 || c.Socket.MSS > 65535 {
		return fmt.Errorf("invalid MSS: %d", c.Socket.MSS)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	return nil
}

// Apply pushes the socket preset onto a socket. Call it on a freshly
// created socket, before bind or connect; the engine rejects the pre-bind
// options afterwards.
func (c *Config) Apply(s *srt.Socket) error {
	sc := &c.Socket
	if sc.TransType != "" {
		t := core.TransLive
		if sc.TransType == "file" {
			t = core.TransFile
		}
		if err := s.SetTransmissionType(t); err != nil {
			return err
		}
	}
	if sc.StreamID != "" {
		if err := s.SetStreamID(sc.StreamID); err != nil {
			return err
		}
	}
	if sc.Passphrase != "" {
		if err := s.SetPassphrase(sc.Passphrase); err != nil {
			return err
		}
	}
	if sc.KeyLength != 0 {
		if err := s.SetKeyLength(int32(sc.KeyLength)); err != nil {
			return err
		}
	}
	if sc.MSS != 0 {
		if err := s.SetMSS(int32(sc.MSS)); err != nil {
			return err
		}
	}
	if sc.FlowWindow != 0 {
		if err := s.SetFlowControlWindow(int32(sc.FlowWindow)); err != nil {
			return err
		}
	}
	if sc.SendBuffer != 0 {
		if err := s.SetSendBuffer(int32(sc.SendBuffer)); err != nil {
			return err
		}
	}
	if sc.ReceiveBuffer != 0 {
		if err := s.SetReceiveBuffer(int32(sc.ReceiveBuffer)); err != nil {
			return err
		}
	}
	if sc.PayloadSize != 0 {
		if err := s.SetPayloadSize(int32(sc.PayloadSize)); err != nil {
			return err
		}
	}
	if sc.LatencyMS != 0 {
		if err := s.SetLatency(time.Duration(sc.LatencyMS) * time.Millisecond); err != nil {
			return err
		}
	}
	if sc.ReceiveLatencyMS != 0 {
		if err := s.SetReceiveLatency(time.Duration(sc.ReceiveLatencyMS) * time.Millisecond); err != nil {
			return err
		}
	}
	if sc.PeerLatencyMS != 0 {
		if err := s.SetPeerLatency(time.Duration(sc.PeerLatencyMS) * time.Millisecond); err != nil {
			return err
		}
	}
	if sc.ConnectTimeoutMS != 0 {
		if err := s.SetConnectTimeout(time.Duration(sc.ConnectTimeoutMS) * time.Millisecond); err != nil {
			return err
		}
	}
	if sc.SendTimeoutMS != 0 {
		if err := s.SetSendTimeout(time.Duration(sc.SendTimeoutMS) * time.Millisecond); err != nil {
			return err
		}
	}
	if sc.ReceiveTimeoutMS != 0 {
		if err := s.SetReceiveTimeout(time.Duration(sc.ReceiveTimeoutMS) * time.Millisecond); err != nil {
			return err
		}
	}
	if sc.MaxBandwidth != 0 {
		if err := s.SetMaxBandwidth(sc.MaxBandwidth); err != nil {
			return err
		}
	}
	if sc.OverheadBandwidth != 0 {
		if err := s.SetOverheadBandwidth(int32(sc.OverheadBandwidth)); err != nil {
			return err
		}
	}
	if sc.MessageAPI != nil {
		if err := s.SetMessageAPI(*sc.MessageAPI); err != nil {
			return err
		}
	}
	if sc.TooLatePacketDrop != nil {
		if err := s.SetTooLatePacketDrop(*sc.TooLatePacketDrop); err != nil {
			return err
		}
	}
	if sc.PeriodicNAK != nil {
		if err := s.SetPeriodicNAK(*sc.PeriodicNAK); err != nil {
			return err
		}
	}
	if sc.EnforcedEncryption != nil {
		if err := s.SetEnforcedEncryption(*sc.EnforcedEncryption); err != nil {
			return err
		}
	}
	return nil
}

// ApplyLogging applies the logging configuration.
func (c *Config) ApplyLogging() error {
	logging.SetLevel(logging.ParseLevel(c.Logging.Level))

	if c.Logging.File != "" {
		dir := "."
		filename := c.Logging.File
		if lastSlash := strings.LastIndex(c.Logging.File, "/"); lastSlash != -1 {
			dir = c.Logging.File[:lastSlash]
			filename = c.Logging.File[lastSlash+1:]
		}
		if err := logging.EnableFileLogging(dir, filename,
			c.Logging.MaxSize, c.Logging.MaxBackups, c.Logging.MaxAge); err != nil {
			return fmt.Errorf("failed to enable file logging: %w", err)
		}
	}
	return nil
}

// SaveToFile saves the configuration to a file.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch {
	case strings.HasSuffix(path, ".json"):
		data, err = json.MarshalIndent(c, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config to JSON: %w", err)
		}
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		data, err = yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to marshal config to YAML: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s", path)
	}

	if lastSlash := strings.LastIndex(path, "/"); lastSlash != -1 {
		if err := os.MkdirAll(path[:lastSlash], 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
