package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"LORABRIDGE_PORT":               "/dev/ttyACM0",
				"LORABRIDGE_BAUD":               "9600",
				"LORABRIDGE_READ_TIMEOUT":       "50ms",
				"LORABRIDGE_METADATA_LEDGER":    "log.csv",
				"LORABRIDGE_IMAGE_DIR":          "crops",
				"LORABRIDGE_SENT_LEDGER":        "sent.txt",
				"LORABRIDGE_RECEIVED_LEDGER":    "rows.csv",
				"LORABRIDGE_RECEIVED_IMAGE_DIR": "rx",
				"LORABRIDGE_SETTLE_DELAY":       "0s",
				"LORABRIDGE_ROW_DWELL":          "1s",
				"LORABRIDGE_CONTROL_DWELL":      "1s",
				"LORABRIDGE_NAME_DWELL":         "2s",
				"LORABRIDGE_CHUNK_DWELL":        "1500ms",
				"LORABRIDGE_CHUNK_SIZE":         "100",
				"LORABRIDGE_NAME_TIMEOUT":       "5s",
				"LORABRIDGE_WATCH":              "1",
				"LORABRIDGE_WATCH_DEBOUNCE":     "2s",
				"LORABRIDGE_LOG_LEVEL":          "warn",
			},
			changed: map[string]bool{},
			initial: Config{SettleDelay: time.Second},
			expected: Config{
				Port:             "/dev/ttyACM0",
				Baud:             9600,
				ReadTimeout:      50 * time.Millisecond,
				MetadataLedger:   "log.csv",
				ImageDir:         "crops",
				SentLedger:       "sent.txt",
				ReceivedLedger:   "rows.csv",
				ReceivedImageDir: "rx",
				SettleDelay:      0,
				RowDwell:         time.Second,
				ControlDwell:     time.Second,
				NameDwell:        2 * time.Second,
				ChunkDwell:       1500 * time.Millisecond,
				ChunkSize:        100,
				NameTimeout:      5 * time.Second,
				Watch:            true,
				WatchDebounce:    2 * time.Second,
				LogLevel:         "warn",
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"LORABRIDGE_PORT":      "/dev/ttyS1",
				"LORABRIDGE_LOG_LEVEL": "debug",
			},
			changed:  map[string]bool{"port": true},
			initial:  Config{Port: "/dev/ttyUSB0"},
			expected: Config{Port: "/dev/ttyUSB0", LogLevel: "debug"},
		},
		{
			name:    "returns error for invalid duration",
			envVars: map[string]string{"LORABRIDGE_NAME_TIMEOUT": "not-a-duration"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid int",
			envVars: map[string]string{"LORABRIDGE_BAUD": "fast"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:     "handles bool 'false' as false",
			envVars:  map[string]string{"LORABRIDGE_WATCH": "false"},
			changed:  map[string]bool{},
			initial:  Config{Watch: true},
			expected: Config{Watch: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyEnvConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnvConfig() unexpected error: %v", err)
			}
			if cfg != tt.expected {
				t.Errorf("ApplyEnvConfig() =\n%+v\nwant\n%+v", cfg, tt.expected)
			}
		})
	}
}

// Integration test: precedence order (CLI > Env > File > defaults)
func TestConfigPrecedence(t *testing.T) {
	fileConf := FileConfig{
		Port:       "/dev/file",
		Baud:       9600,
		ChunkDwell: "10s",
	}

	t.Setenv("LORABRIDGE_PORT", "/dev/env")
	t.Setenv("LORABRIDGE_BAUD", "57600")

	changed := map[string]bool{"port": true}
	cfg := DefaultConfig()
	cfg.Port = "/dev/cli"

	if err := ApplyFileConfig(&cfg, fileConf, changed); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig failed: %v", err)
	}

	if cfg.Port != "/dev/cli" {
		t.Errorf("Port = %v, want /dev/cli (CLI should win)", cfg.Port)
	}
	if cfg.Baud != 57600 {
		t.Errorf("Baud = %v, want 57600 (env should override file)", cfg.Baud)
	}
	if cfg.ChunkDwell != 10*time.Second {
		t.Errorf("ChunkDwell = %v, want 10s (file should set)", cfg.ChunkDwell)
	}
	if cfg.NameTimeout != 3*time.Second {
		t.Errorf("NameTimeout = %v, want 3s (default)", cfg.NameTimeout)
	}
}
