// Package lorabridge moves baby-monitor events over a LoRa serial link.
//
// A sender replays the metadata ledger written by the monitor, one frame per
// row, and follows each row with its cropped image when that image has not
// been delivered before. A receiver on the other end of the link rebuilds
// the ledger rows and the images.
//
// Example usage:
//
//	cfg := lorabridge.DefaultConfig()
//	cfg.Port = "/dev/ttyUSB0"
//	if err := lorabridge.RunSender(ctx, cfg, lorabridge.WithLogger(logger)); err != nil {
//	    log.Fatal(err)
//	}
package lorabridge

import (
	"context"
	"fmt"

	"github.com/mansidodiya01/babymonitorwithlora/internal/adapters/fs"
	"github.com/mansidodiya01/babymonitorwithlora/internal/adapters/link"
	"github.com/mansidodiya01/babymonitorwithlora/internal/app"
	"github.com/mansidodiya01/babymonitorwithlora/internal/cliconfig"
	"github.com/mansidodiya01/babymonitorwithlora/internal/ports"
	"github.com/mansidodiya01/babymonitorwithlora/pkg/log"
)

// Config holds the configuration for both ends of the link.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = cliconfig.Config

// Link is an opened byte stream to the radio modem.
type Link = ports.Link

// SendEventHandler observes sender progress.
type SendEventHandler = app.SendEventHandler

// ReceiverStats counts what a receive session has seen.
type ReceiverStats = app.ReceiverStats

// DefaultConfig returns a Config with sensible default values.
// At minimum, Port must be set before running.
func DefaultConfig() Config {
	return cliconfig.DefaultConfig()
}

// Option configures optional behavior of RunSender and RunReceiver.
type Option func(*options)

type options struct {
	logger  log.Logger
	handler SendEventHandler
	link    Link
	onStats func(ReceiverStats)
}

// WithLogger sets a logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSendEventHandler sets a handler for sender events.
// Events are called synchronously from the sending goroutine.
func WithSendEventHandler(h SendEventHandler) Option {
	return func(o *options) {
		o.handler = h
	}
}

// WithLink uses an already opened link instead of opening cfg.Port.
// The link is closed when the run returns.
func WithLink(l Link) Option {
	return func(o *options) {
		o.link = l
	}
}

// WithReceiverStats registers a callback that receives the session
// counters once RunReceiver finishes.
func WithReceiverStats(fn func(ReceiverStats)) Option {
	return func(o *options) {
		o.onStats = fn
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: log.NoopLogger{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) openLink(cfg Config) (Link, error) {
	if o.link != nil {
		return o.link, nil
	}
	return link.Open(link.Options{
		Target:       cfg.Port,
		BaudRate:     cfg.Baud,
		PollInterval: cfg.ReadTimeout,
	})
}

// RunSender sends the metadata ledger and any undelivered images.
// With cfg.Watch it keeps running and sends again whenever the ledger file
// changes. It returns ctx.Err() when canceled.
func RunSender(ctx context.Context, cfg Config, opts ...Option) error {
	o := buildOptions(opts)
	if err := cfg.Validate(cliconfig.RoleSend); err != nil {
		return err
	}

	sent, err := fs.OpenSentLedger(cfg.SentLedger)
	if err != nil {
		return fmt.Errorf("open sent ledger: %w", err)
	}

	l, err := o.openLink(cfg)
	if err != nil {
		return err
	}
	defer l.Close()
	o.logger.Info("link opened", log.String("port", cfg.Port), log.Int("baud", cfg.Baud))

	sender := app.NewSender(
		app.SenderConfig{
			SettleDelay:  cfg.SettleDelay,
			RowDwell:     cfg.RowDwell,
			ControlDwell: cfg.ControlDwell,
			NameDwell:    cfg.NameDwell,
			ChunkDwell:   cfg.ChunkDwell,
			ChunkSize:    cfg.ChunkSize,
		},
		l,
		fs.NewMetadataLedger(cfg.MetadataLedger, o.logger),
		fs.NewImageDir(cfg.ImageDir),
		sent,
		o.logger,
		o.handler,
	)

	if !cfg.Watch {
		return sender.Run(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watcher := fs.NewFileWatcher(cfg.MetadataLedger, cfg.WatchDebounce, o.logger)
	watchErr := make(chan error, 1)
	go func() {
		defer close(watchErr)
		if err := watcher.Run(ctx); err != nil {
			watchErr <- err
			cancel()
		}
	}()

	err = sender.Follow(ctx, watcher.Changes())
	cancel()
	if werr := <-watchErr; werr != nil {
		return fmt.Errorf("watch metadata ledger: %w", werr)
	}
	return err
}

// RunReceiver reassembles rows and images until the link ends or ctx is
// canceled. The last image in flight is committed before it returns.
func RunReceiver(ctx context.Context, cfg Config, opts ...Option) error {
	o := buildOptions(opts)
	if err := cfg.Validate(cliconfig.RoleReceive); err != nil {
		return err
	}

	l, err := o.openLink(cfg)
	if err != nil {
		return err
	}
	defer l.Close()
	o.logger.Info("link opened", log.String("port", cfg.Port), log.Int("baud", cfg.Baud))

	receiver := app.NewReceiver(
		app.ReceiverConfig{NameTimeout: cfg.NameTimeout},
		l,
		fs.NewRowFile(cfg.ReceivedLedger),
		fs.NewImageDir(cfg.ReceivedImageDir),
		o.logger,
	)
	err = receiver.Run(ctx)
	if o.onStats != nil {
		o.onStats(receiver.Stats())
	}
	return err
}
