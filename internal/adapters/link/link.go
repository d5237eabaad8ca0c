// Package link opens the byte stream to the radio modem: a local serial
// device, a TCP socket for serial-over-network gateways, or a websocket.
package link

import (
	"strings"
	"time"

	"github.com/mansidodiya01/babymonitorwithlora/internal/ports"
)

// Target schemes selecting a network gateway instead of a serial device.
const (
	TCPScheme       = "tcp://"
	WebSocketScheme = "ws://"
	SecureWSScheme  = "wss://"
)

// Options configures Open.
type Options struct {
	// Target is a serial device path (/dev/ttyUSB0, COM3), tcp://host:port
	// or a ws:// / wss:// URL.
	Target string

	// BaudRate applies to serial devices only.
	BaudRate int

	// PollInterval bounds each Read; an idle link returns (0, nil) after it.
	PollInterval time.Duration

	// DialTimeout applies to network targets only.
	DialTimeout time.Duration
}

// Open opens the link described by opts. Failures are *domain.LinkError.
func Open(opts Options) (ports.Link, error) {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 100 * time.Millisecond
	}

	var (
		l   ports.Link
		err error
	)
	switch {
	case strings.HasPrefix(opts.Target, TCPScheme):
		l, err = DialTCP(strings.TrimPrefix(opts.Target, TCPScheme), opts.DialTimeout, opts.PollInterval)
	case strings.HasPrefix(opts.Target, WebSocketScheme), strings.HasPrefix(opts.Target, SecureWSScheme):
		l, err = DialWebSocket(opts.Target, opts.DialTimeout, opts.PollInterval)
	default:
		l, err = OpenSerial(opts.Target, opts.BaudRate, opts.PollInterval)
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}
