package app

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/mansidodiya01/babymonitorwithlora/internal/domain"
	"github.com/mansidodiya01/babymonitorwithlora/internal/ports"
	"github.com/mansidodiya01/babymonitorwithlora/pkg/frame"
	"github.com/mansidodiya01/babymonitorwithlora/pkg/log"
)

// Default sender timing. The radio has no flow control, so frames are
// spaced by fixed dwell periods.
const (
	DefaultSettleDelay  = 2 * time.Second
	DefaultRowDwell     = 2 * time.Second
	DefaultControlDwell = 1 * time.Second
	DefaultNameDwell    = 4 * time.Second
	DefaultChunkDwell   = 3 * time.Second
)

// Skip reasons reported to SendEventHandler.OnImageSkipped.
const (
	SkipNoImage     = "no_image"
	SkipAlreadySent = "already_sent"
	SkipMissing     = "missing"
)

// SenderConfig contains configuration for the sender.
type SenderConfig struct {
	SettleDelay  time.Duration
	RowDwell     time.Duration
	ControlDwell time.Duration
	NameDwell    time.Duration
	ChunkDwell   time.Duration
	ChunkSize    int
}

// DefaultSenderConfig returns the timing used on real hardware.
func DefaultSenderConfig() SenderConfig {
	return SenderConfig{
		SettleDelay:  DefaultSettleDelay,
		RowDwell:     DefaultRowDwell,
		ControlDwell: DefaultControlDwell,
		NameDwell:    DefaultNameDwell,
		ChunkDwell:   DefaultChunkDwell,
		ChunkSize:    frame.ChunkSize,
	}
}

// SendEventHandler observes sender progress. All methods are called from
// the sender goroutine.
type SendEventHandler interface {
	OnRowSent(row domain.MetadataRow)
	OnImageSent(name string, chunks int)
	OnImageSkipped(name, reason string)
}

// Sender replays the metadata ledger over the link, followed by any image
// not yet recorded in the sent ledger.
type Sender struct {
	config  SenderConfig
	link    ports.Link
	rows    ports.MetadataSource
	images  ports.ImageSource
	sent    ports.SentLedger
	logger  log.Logger
	handler SendEventHandler
}

// NewSender creates a sender with the given dependencies. handler may be nil.
func NewSender(
	config SenderConfig,
	link ports.Link,
	rows ports.MetadataSource,
	images ports.ImageSource,
	sent ports.SentLedger,
	logger log.Logger,
	handler SendEventHandler,
) *Sender {
	if config.ChunkSize <= 0 || config.ChunkSize > frame.ChunkSize {
		config.ChunkSize = frame.ChunkSize
	}
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Sender{
		config:  config,
		link:    link,
		rows:    rows,
		images:  images,
		sent:    sent,
		logger:  logger,
		handler: handler,
	}
}

// Run waits for the radio to settle and performs a single pass over the
// ledger. It returns ctx.Err() when canceled and a *domain.LinkError when
// the link fails.
func (s *Sender) Run(ctx context.Context) error {
	if err := dwell(ctx, s.config.SettleDelay); err != nil {
		return err
	}
	return s.Pass(ctx)
}

// Follow runs a first pass, then another full pass each time changes
// delivers a signal, until ctx is canceled or the link fails.
func (s *Sender) Follow(ctx context.Context, changes <-chan struct{}) error {
	if err := s.Run(ctx); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			s.logger.Debug("metadata ledger changed, starting new pass")
			if err := s.Pass(ctx); err != nil {
				return err
			}
		}
	}
}

// Pass sends every ledger row, oldest first.
func (s *Sender) Pass(ctx context.Context) error {
	rows, err := s.rows.Rows(ctx)
	if err != nil {
		return fmt.Errorf("read metadata ledger: %w", err)
	}
	if len(rows) == 0 {
		s.logger.Info("no metadata rows to send")
		return nil
	}

	start := time.Now()
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.sendRow(ctx, row); err != nil {
			return err
		}
	}
	s.logger.Info("finished sending metadata rows",
		log.Int("rows", len(rows)),
		log.Duration("duration", time.Since(start)),
	)
	return nil
}

func (s *Sender) sendRow(ctx context.Context, row domain.MetadataRow) error {
	payload := domain.MetadataFrame(row)
	if frame.ContainsSentinel(payload) {
		s.logger.Warn("metadata row contains the frame sentinel and will desynchronize the receiver",
			log.String("timestamp", row.Timestamp))
	}
	if err := s.write(payload); err != nil {
		return err
	}
	s.logger.Info("sent metadata row", log.String("row", payload))
	if s.handler != nil {
		s.handler.OnRowSent(row)
	}
	if err := dwell(ctx, s.config.RowDwell); err != nil {
		return err
	}

	name := row.ImageRef
	switch {
	case !row.HasImage():
		s.skip(name, SkipNoImage)
		return nil
	case s.sent.Contains(name):
		s.skip(name, SkipAlreadySent)
		return nil
	case !s.images.Exists(name):
		s.logger.Warn("image not found, sending metadata only",
			log.String("image", name), log.Err(domain.ErrMissingImage))
		s.skip(name, SkipMissing)
		return nil
	}
	return s.sendImage(ctx, name)
}

func (s *Sender) sendImage(ctx context.Context, name string) error {
	data, err := s.images.Read(name)
	if err != nil {
		s.logger.Warn("image unreadable, sending metadata only",
			log.String("image", name), log.Err(err))
		s.skip(name, SkipMissing)
		return nil
	}

	if err := s.write(domain.ImageNameToken); err != nil {
		return err
	}
	if err := dwell(ctx, s.config.ControlDwell); err != nil {
		return err
	}
	if err := s.write(name); err != nil {
		return err
	}
	s.logger.Info("sent image name", log.String("image", name))
	if err := dwell(ctx, s.config.NameDwell); err != nil {
		return err
	}

	chunks := frame.Chunks(base64.StdEncoding.EncodeToString(data), s.config.ChunkSize)
	for i, chunk := range chunks {
		if i > 0 {
			if err := dwell(ctx, s.config.ChunkDwell); err != nil {
				return err
			}
		}
		if err := s.write(chunk); err != nil {
			return err
		}
		s.logger.Debug("sent chunk",
			log.String("image", name),
			log.Int("chunk", i+1),
			log.Int("of", len(chunks)),
		)
	}

	// The ledger entry is written only once the last chunk is on the wire.
	if err := s.sent.Add(name); err != nil {
		s.logger.Error("failed to record sent image", log.String("image", name), log.Err(err))
	} else {
		s.logger.Info("marked image as sent", log.String("image", name), log.Int("chunks", len(chunks)))
	}
	if s.handler != nil {
		s.handler.OnImageSent(name, len(chunks))
	}
	return dwell(ctx, s.config.ChunkDwell)
}

// write emits one frame with a single Write call.
func (s *Sender) write(payload string) error {
	if _, err := s.link.Write(frame.Encode(payload)); err != nil {
		if !errors.Is(err, domain.ErrLink) {
			err = &domain.LinkError{Op: "write", Target: "link", Err: err}
		}
		return fmt.Errorf("send frame: %w", err)
	}
	return nil
}

func (s *Sender) skip(name, reason string) {
	s.logger.Info("skipping image transmission", log.String("image", name), log.String("reason", reason))
	if s.handler != nil {
		s.handler.OnImageSkipped(name, reason)
	}
}

// dwell sleeps for d or until ctx is done.
func dwell(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
