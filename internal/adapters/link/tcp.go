package link

import (
	"errors"
	"io"
	"net"
	"os"
	"time"

	"github.com/mansidodiya01/babymonitorwithlora/internal/domain"
)

// TCP is a Link over a TCP connection to a serial gateway.
type TCP struct {
	conn net.Conn
	addr string
	poll time.Duration
}

// DialTCP connects to addr.
func DialTCP(addr string, timeout, poll time.Duration) (*TCP, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, &domain.LinkError{Op: "open", Target: addr, Err: err}
	}
	return NewTCP(conn, addr, poll), nil
}

// NewTCP wraps an established connection.
func NewTCP(conn net.Conn, addr string, poll time.Duration) *TCP {
	return &TCP{conn: conn, addr: addr, poll: poll}
}

// Read returns (0, nil) when nothing arrived within the poll interval and
// io.EOF once the peer closes the connection.
func (t *TCP) Read(p []byte) (int, error) {
	if err := t.conn.SetReadDeadline(time.Now().Add(t.poll)); err != nil {
		return 0, &domain.LinkError{Op: "read", Target: t.addr, Err: err}
	}
	n, err := t.conn.Read(p)
	switch {
	case err == nil:
		return n, nil
	case errors.Is(err, io.EOF):
		return n, io.EOF
	case errors.Is(err, os.ErrDeadlineExceeded):
		return n, nil
	default:
		return n, &domain.LinkError{Op: "read", Target: t.addr, Err: err}
	}
}

// Write writes all of p; net.Conn already loops on short writes.
func (t *TCP) Write(p []byte) (int, error) {
	n, err := t.conn.Write(p)
	if err != nil {
		return n, &domain.LinkError{Op: "write", Target: t.addr, Err: err}
	}
	return n, nil
}

// Close closes the connection.
func (t *TCP) Close() error {
	return t.conn.Close()
}
