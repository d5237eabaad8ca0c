package cliconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mansidodiya01/babymonitorwithlora/pkg/frame"
)

// EnvPrefix prefixes every environment variable read by ApplyEnvConfig.
const EnvPrefix = "LORABRIDGE_"

// Defaults for the LoRa module. The dwell periods space frames on a link
// with no flow control.
const (
	DefaultBaud          = 115200
	DefaultReadTimeout   = 100 * time.Millisecond
	DefaultSettleDelay   = 2 * time.Second
	DefaultRowDwell      = 2 * time.Second
	DefaultControlDwell  = 1 * time.Second
	DefaultNameDwell     = 4 * time.Second
	DefaultChunkDwell    = 3 * time.Second
	DefaultNameTimeout   = 3 * time.Second
	DefaultWatchDebounce = 500 * time.Millisecond
)

// Role selects which side of the link a Config is validated for.
type Role string

const (
	RoleSend    Role = "send"
	RoleReceive Role = "receive"
)

// Config holds CLI configuration for lorabridge.
type Config struct {
	Port        string
	Baud        int
	ReadTimeout time.Duration

	// Sending side
	MetadataLedger string
	ImageDir       string
	SentLedger     string

	// Receiving side
	ReceivedLedger   string
	ReceivedImageDir string

	SettleDelay  time.Duration
	RowDwell     time.Duration
	ControlDwell time.Duration
	NameDwell    time.Duration
	ChunkDwell   time.Duration
	ChunkSize    int
	NameTimeout  time.Duration

	Watch         bool
	WatchDebounce time.Duration

	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Baud:             DefaultBaud,
		ReadTimeout:      DefaultReadTimeout,
		MetadataLedger:   "baby_monitoring_log.csv",
		ImageDir:         "images/cropped",
		SentLedger:       "sent_images.txt",
		ReceivedLedger:   "received_data.csv",
		ReceivedImageDir: "received_images",
		SettleDelay:      DefaultSettleDelay,
		RowDwell:         DefaultRowDwell,
		ControlDwell:     DefaultControlDwell,
		NameDwell:        DefaultNameDwell,
		ChunkDwell:       DefaultChunkDwell,
		ChunkSize:        frame.ChunkSize,
		NameTimeout:      DefaultNameTimeout,
		WatchDebounce:    DefaultWatchDebounce,
		LogLevel:         "info",
	}
}

// Validate checks the configuration for the given role and sets derived
// defaults.
func (c *Config) Validate(role Role) error {
	c.Port = strings.TrimSpace(c.Port)
	if c.Port == "" {
		return fmt.Errorf("port is required (serial device, tcp://host:port or ws://host/path)")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("baud must be positive")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}

	switch role {
	case RoleSend:
		if c.MetadataLedger == "" {
			return fmt.Errorf("metadata-ledger is required")
		}
		if c.ImageDir == "" {
			return fmt.Errorf("image-dir is required")
		}
		if c.SentLedger == "" {
			return fmt.Errorf("sent-ledger is required")
		}
		if c.ChunkSize <= 0 || c.ChunkSize > frame.ChunkSize {
			return fmt.Errorf("chunk size must be between 1 and %d", frame.ChunkSize)
		}
		for name, d := range map[string]time.Duration{
			"settle delay":  c.SettleDelay,
			"row dwell":     c.RowDwell,
			"control dwell": c.ControlDwell,
			"name dwell":    c.NameDwell,
			"chunk dwell":   c.ChunkDwell,
		} {
			if d < 0 {
				return fmt.Errorf("%s must not be negative", name)
			}
		}
		if c.Watch && c.WatchDebounce <= 0 {
			c.WatchDebounce = DefaultWatchDebounce
		}
	case RoleReceive:
		if c.ReceivedLedger == "" {
			return fmt.Errorf("received-ledger is required")
		}
		if c.ReceivedImageDir == "" {
			return fmt.Errorf("received-image-dir is required")
		}
		if c.NameTimeout <= 0 {
			return fmt.Errorf("name timeout must be positive")
		}
	default:
		return fmt.Errorf("unknown role %q", role)
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
// "0s" is accepted so dwell periods can be disabled.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
