package app

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mansidodiya01/babymonitorwithlora/internal/domain"
	"github.com/mansidodiya01/babymonitorwithlora/internal/ports"
	"github.com/mansidodiya01/babymonitorwithlora/pkg/frame"
	"github.com/mansidodiya01/babymonitorwithlora/pkg/log"
)

// DefaultNameTimeout bounds the wait for a filename after an image_name token.
const DefaultNameTimeout = 3 * time.Second

const readBufferSize = 4096

// ReceiverConfig contains configuration for the receiver.
type ReceiverConfig struct {
	NameTimeout time.Duration
}

// ReceiverStats counts what a receive session has seen.
type ReceiverStats struct {
	Frames         int
	Rows           int
	Images         int
	DecodeFailures int
	NameTimeouts   int
	StoreFailures  int
}

// Receiver reassembles metadata rows and images from the link.
//
// At most one image is in flight: starting a new image always commits the
// previous one first.
type Receiver struct {
	config  ReceiverConfig
	link    ports.Link
	rows    ports.RowSink
	images  ports.ImageStore
	logger  log.Logger
	session string

	decoder *frame.Decoder
	queue   []string
	readBuf []byte
	readErr error

	name string
	acc  strings.Builder

	mu    sync.Mutex
	stats ReceiverStats
}

// NewReceiver creates a receiver with the given dependencies.
func NewReceiver(
	config ReceiverConfig,
	link ports.Link,
	rows ports.RowSink,
	images ports.ImageStore,
	logger log.Logger,
) *Receiver {
	if config.NameTimeout <= 0 {
		config.NameTimeout = DefaultNameTimeout
	}
	if logger == nil {
		logger = log.NoopLogger{}
	}
	session := uuid.NewString()
	return &Receiver{
		config:  config,
		link:    link,
		rows:    rows,
		images:  images,
		logger:  logger.With(log.String("session", session)),
		session: session,
		decoder: frame.NewDecoder(),
		readBuf: make([]byte, readBufferSize),
	}
}

// Session returns the session identifier attached to every log line.
func (r *Receiver) Session() string { return r.session }

// Stats returns a snapshot of the session counters.
func (r *Receiver) Stats() ReceiverStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Run processes frames until the stream ends, ctx is canceled or the link
// fails. Exactly one final commit runs before Run returns. End of stream
// returns nil; cancellation returns ctx.Err().
func (r *Receiver) Run(ctx context.Context) error {
	r.logger.Info("waiting for incoming frames")
	defer func() {
		r.flush()
		st := r.Stats()
		r.logger.Info("receive session ended",
			log.Int("frames", st.Frames),
			log.Int("rows", st.Rows),
			log.Int("images", st.Images),
			log.Int("decode_failures", st.DecodeFailures),
			log.Int("name_timeouts", st.NameTimeouts),
		)
	}()

	for {
		f, _, err := r.next(ctx, time.Time{})
		if err == nil {
			err = r.handle(ctx, f)
		}
		switch {
		case err == nil:
			continue
		case errors.Is(err, io.EOF):
			return nil
		case ctx.Err() != nil && errors.Is(err, ctx.Err()):
			return err
		default:
			r.logger.Error("link read failed", log.Err(err))
			return fmt.Errorf("receive: %w", err)
		}
	}
}

func (r *Receiver) handle(ctx context.Context, f string) error {
	r.count(func(s *ReceiverStats) { s.Frames++ })

	switch domain.Classify(f) {
	case domain.KindImageToken:
		r.flush()
		r.name = ""
		name, ok, err := r.next(ctx, time.Now().Add(r.config.NameTimeout))
		if err != nil {
			return err
		}
		if !ok {
			r.logger.Warn("no image name received, skipping image", log.Err(domain.ErrNameTimeout))
			r.count(func(s *ReceiverStats) { s.NameTimeouts++ })
			return nil
		}
		r.count(func(s *ReceiverStats) { s.Frames++ })
		r.name = name
		r.logger.Info("receiving image", log.String("image", name))

	case domain.KindMetadata:
		row := strings.TrimPrefix(f, domain.MetadataPrefix)
		if err := r.rows.Append(row); err != nil {
			r.logger.Error("failed to save metadata row", log.String("row", row), log.Err(err))
			return nil
		}
		r.count(func(s *ReceiverStats) { s.Rows++ })
		r.logger.Info("metadata row saved", log.String("row", row))

	case domain.KindImageName:
		r.flush()
		r.name = f
		r.logger.Info("receiving image", log.String("image", f))

	default:
		r.acc.WriteString(f)
	}
	return nil
}

// flush commits the accumulated image when both a name and data are
// present. Without a name the data is kept until one arrives.
func (r *Receiver) flush() {
	if r.name == "" || r.acc.Len() == 0 {
		return
	}
	text := r.acc.String()
	r.acc.Reset()

	data, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		r.logger.Warn("discarding image",
			log.String("image", r.name),
			log.Err(fmt.Errorf("%w: %v", domain.ErrDecode, err)))
		r.count(func(s *ReceiverStats) { s.DecodeFailures++ })
		return
	}
	if err := r.images.Put(r.name, data); err != nil {
		r.logger.Error("failed to save image", log.String("image", r.name), log.Err(err))
		r.count(func(s *ReceiverStats) { s.StoreFailures++ })
		return
	}
	r.count(func(s *ReceiverStats) { s.Images++ })
	r.logger.Info("image saved", log.String("image", r.name), log.Int("bytes", len(data)))
}

// next returns the oldest queued frame, reading from the link until one is
// available. With a non-zero deadline it returns ok=false once the deadline
// passes without a frame.
func (r *Receiver) next(ctx context.Context, deadline time.Time) (f string, ok bool, err error) {
	for len(r.queue) == 0 {
		if r.readErr != nil {
			return "", false, r.readErr
		}
		if err := ctx.Err(); err != nil {
			return "", false, err
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return "", false, nil
		}

		n, err := r.link.Read(r.readBuf)
		if n > 0 {
			r.decoder.Feed(r.readBuf[:n])
			r.queue = append(r.queue, r.decoder.Drain()...)
		}
		if err != nil {
			r.readErr = err
		}
	}
	f, r.queue = r.queue[0], r.queue[1:]
	return f, true, nil
}

func (r *Receiver) count(fn func(*ReceiverStats)) {
	r.mu.Lock()
	fn(&r.stats)
	r.mu.Unlock()
}
