package cliconfig

import (
	"os"
	"time"
)

// ApplyEnvConfig applies configuration from environment variables (LORABRIDGE_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)
	env := func(key string) string { return os.Getenv(EnvPrefix + key) }

	s.setString("port", env("PORT"), &cfg.Port)
	s.setString("metadata-ledger", env("METADATA_LEDGER"), &cfg.MetadataLedger)
	s.setString("image-dir", env("IMAGE_DIR"), &cfg.ImageDir)
	s.setString("sent-ledger", env("SENT_LEDGER"), &cfg.SentLedger)
	s.setString("received-ledger", env("RECEIVED_LEDGER"), &cfg.ReceivedLedger)
	s.setString("received-image-dir", env("RECEIVED_IMAGE_DIR"), &cfg.ReceivedImageDir)
	s.setString("log-level", env("LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("baud", env("BAUD"), &cfg.Baud); err != nil {
		return err
	}
	if err := s.setIntFromString("chunk-size", env("CHUNK_SIZE"), &cfg.ChunkSize); err != nil {
		return err
	}

	durations := []struct {
		flag string
		key  string
		dst  *time.Duration
	}{
		{"read-timeout", "READ_TIMEOUT", &cfg.ReadTimeout},
		{"settle-delay", "SETTLE_DELAY", &cfg.SettleDelay},
		{"row-dwell", "ROW_DWELL", &cfg.RowDwell},
		{"control-dwell", "CONTROL_DWELL", &cfg.ControlDwell},
		{"name-dwell", "NAME_DWELL", &cfg.NameDwell},
		{"chunk-dwell", "CHUNK_DWELL", &cfg.ChunkDwell},
		{"name-timeout", "NAME_TIMEOUT", &cfg.NameTimeout},
		{"watch-debounce", "WATCH_DEBOUNCE", &cfg.WatchDebounce},
	}
	for _, d := range durations {
		if err := s.setDuration(d.flag, env(d.key), d.dst); err != nil {
			return err
		}
	}

	s.setBoolFromString("watch", env("WATCH"), &cfg.Watch)
	return nil
}
