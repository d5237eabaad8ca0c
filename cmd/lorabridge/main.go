package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	lorabridge "github.com/mansidodiya01/babymonitorwithlora"
	"github.com/mansidodiya01/babymonitorwithlora/internal/cliconfig"
	"github.com/mansidodiya01/babymonitorwithlora/pkg/log"
)

const longHelp = `
Relay baby-monitor events over a LoRa serial link.

The sender replays the monitor's metadata ledger and any cropped images not
yet delivered. The receiver rebuilds the rows and images on the other end.
Configure via file ($HOME/.lorabridge/config.toml), LORABRIDGE_* environment
variables, or flags. Flags win over the environment, which wins over the file.
`

var exampleUsage = strings.TrimSpace(`
  lorabridge send --port /dev/ttyUSB0
  lorabridge send --port /dev/ttyUSB0 --watch
  lorabridge receive --port /dev/cu.usbserial-140 --received-image-dir ./received_images
  lorabridge receive --port tcp://gateway.local:4000
  lorabridge receive --port ws://gateway.local:8080/radio
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:           "lorabridge",
		Short:         "Relay baby-monitor events over a LoRa serial link",
		Long:          strings.TrimSpace(longHelp),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.lorabridge/config.toml)")
	pf.StringVar(&cfg.Port, "port", cfg.Port, "serial device (e.g. /dev/ttyUSB0), tcp://host:port or ws://host/path")
	pf.IntVar(&cfg.Baud, "baud", cfg.Baud, "serial baud rate")
	pf.DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "link read poll interval")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error, disabled)")

	send := &cobra.Command{
		Use:   "send",
		Short: "Send metadata rows and undelivered images",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := loadConfig(cmd, &cfg, cfgPath)
			if err != nil {
				return err
			}
			return lorabridge.RunSender(cmd.Context(), cfg, lorabridge.WithLogger(log.NewZerologAdapterWithLogger(logger)))
		},
	}
	sf := send.Flags()
	sf.StringVar(&cfg.MetadataLedger, "metadata-ledger", cfg.MetadataLedger, "metadata CSV written by the monitor")
	sf.StringVar(&cfg.ImageDir, "image-dir", cfg.ImageDir, "directory holding cropped images")
	sf.StringVar(&cfg.SentLedger, "sent-ledger", cfg.SentLedger, "file recording images already delivered")
	sf.DurationVar(&cfg.SettleDelay, "settle-delay", cfg.SettleDelay, "wait after opening the link before the first frame")
	sf.DurationVar(&cfg.RowDwell, "row-dwell", cfg.RowDwell, "pause after each metadata row")
	sf.DurationVar(&cfg.ControlDwell, "control-dwell", cfg.ControlDwell, "pause after the image_name token")
	sf.DurationVar(&cfg.NameDwell, "name-dwell", cfg.NameDwell, "pause after the image filename")
	sf.DurationVar(&cfg.ChunkDwell, "chunk-dwell", cfg.ChunkDwell, "pause between image chunks")
	sf.IntVar(&cfg.ChunkSize, "chunk-size", cfg.ChunkSize, "base64 characters per image chunk (max 198)")
	sf.BoolVar(&cfg.Watch, "watch", cfg.Watch, "keep running and resend when the metadata ledger changes")
	sf.DurationVar(&cfg.WatchDebounce, "watch-debounce", cfg.WatchDebounce, "collapse ledger changes within this window")

	receive := &cobra.Command{
		Use:   "receive",
		Short: "Receive metadata rows and images",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := loadConfig(cmd, &cfg, cfgPath)
			if err != nil {
				return err
			}
			return lorabridge.RunReceiver(cmd.Context(), cfg, lorabridge.WithLogger(log.NewZerologAdapterWithLogger(logger)))
		},
	}
	rf := receive.Flags()
	rf.StringVar(&cfg.ReceivedLedger, "received-ledger", cfg.ReceivedLedger, "file receiving metadata rows")
	rf.StringVar(&cfg.ReceivedImageDir, "received-image-dir", cfg.ReceivedImageDir, "directory receiving images")
	rf.DurationVar(&cfg.NameTimeout, "name-timeout", cfg.NameTimeout, "wait for a filename after image_name")

	root.AddCommand(send, receive)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()

	if err != nil && !errors.Is(err, context.Canceled) {
		l := cliconfig.Logger(cfg.LogLevel)
		l.Error().Err(err).Msg("lorabridge")
		os.Exit(1)
	}
}

// loadConfig layers the config file and environment under the flags that
// were set explicitly, then returns the CLI logger.
func loadConfig(cmd *cobra.Command, cfg *cliconfig.Config, cfgPath string) (zerolog.Logger, error) {
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return zerolog.Logger{}, fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return zerolog.Logger{}, err
		}
	} else if cfgPath != "" {
		return zerolog.Logger{}, fmt.Errorf("config file %s not found", cfgPath)
	}

	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return zerolog.Logger{}, err
	}

	logger := cliconfig.Logger(cfg.LogLevel)
	logger.Info().Str("command", cmd.Name()).Interface("config", cfg).Msg("configuration")
	return logger, nil
}
