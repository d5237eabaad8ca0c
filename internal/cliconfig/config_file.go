package cliconfig

import (
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Port             string `toml:"port"`
	Baud             int    `toml:"baud"`
	ReadTimeout      string `toml:"read_timeout"`
	MetadataLedger   string `toml:"metadata_ledger"`
	ImageDir         string `toml:"image_dir"`
	SentLedger       string `toml:"sent_ledger"`
	ReceivedLedger   string `toml:"received_ledger"`
	ReceivedImageDir string `toml:"received_image_dir"`
	SettleDelay      string `toml:"settle_delay"`
	RowDwell         string `toml:"row_dwell"`
	ControlDwell     string `toml:"control_dwell"`
	NameDwell        string `toml:"name_dwell"`
	ChunkDwell       string `toml:"chunk_dwell"`
	ChunkSize        int    `toml:"chunk_size"`
	NameTimeout      string `toml:"name_timeout"`
	Watch            *bool  `toml:"watch"`
	WatchDebounce    string `toml:"watch_debounce"`
	LogLevel         string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.lorabridge/config.toml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".lorabridge", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("port", fc.Port, &cfg.Port)
	s.setString("metadata-ledger", fc.MetadataLedger, &cfg.MetadataLedger)
	s.setString("image-dir", fc.ImageDir, &cfg.ImageDir)
	s.setString("sent-ledger", fc.SentLedger, &cfg.SentLedger)
	s.setString("received-ledger", fc.ReceivedLedger, &cfg.ReceivedLedger)
	s.setString("received-image-dir", fc.ReceivedImageDir, &cfg.ReceivedImageDir)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setInt("baud", fc.Baud, &cfg.Baud)
	s.setInt("chunk-size", fc.ChunkSize, &cfg.ChunkSize)

	durations := []struct {
		flag  string
		value string
		dst   *time.Duration
	}{
		{"read-timeout", fc.ReadTimeout, &cfg.ReadTimeout},
		{"settle-delay", fc.SettleDelay, &cfg.SettleDelay},
		{"row-dwell", fc.RowDwell, &cfg.RowDwell},
		{"control-dwell", fc.ControlDwell, &cfg.ControlDwell},
		{"name-dwell", fc.NameDwell, &cfg.NameDwell},
		{"chunk-dwell", fc.ChunkDwell, &cfg.ChunkDwell},
		{"name-timeout", fc.NameTimeout, &cfg.NameTimeout},
		{"watch-debounce", fc.WatchDebounce, &cfg.WatchDebounce},
	}
	for _, d := range durations {
		if err := s.setDuration(d.flag, d.value, d.dst); err != nil {
			return err
		}
	}

	s.setBool("watch", fc.Watch, &cfg.Watch)
	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
