package link

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mansidodiya01/babymonitorwithlora/internal/domain"
)

// WebSocket is a Link over a websocket to a radio gateway. Each Write is
// sent as one binary message; incoming messages are read as a byte stream.
type WebSocket struct {
	conn *websocket.Conn
	url  string
	poll time.Duration

	msgs    chan []byte // closed by pump after err is set
	err     error
	done    chan struct{}
	pending []byte

	writeMu   sync.Mutex
	closeOnce sync.Once
}

// DialWebSocket connects to a ws:// or wss:// URL.
func DialWebSocket(url string, timeout, poll time.Duration) (*WebSocket, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	dialer := websocket.Dialer{HandshakeTimeout: timeout}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, &domain.LinkError{Op: "open", Target: url, Err: err}
	}
	return NewWebSocket(conn, url, poll), nil
}

// NewWebSocket wraps an established connection and starts its reader.
func NewWebSocket(conn *websocket.Conn, url string, poll time.Duration) *WebSocket {
	w := &WebSocket{
		conn: conn,
		url:  url,
		poll: poll,
		msgs: make(chan []byte, 16),
		done: make(chan struct{}),
	}
	go w.pump()
	return w
}

// pump owns conn reads. A read deadline would corrupt the connection, so
// polling happens on the channel instead. Messages received before the
// socket failed stay queued ahead of the error.
func (w *WebSocket) pump() {
	defer close(w.msgs)
	for {
		_, data, err := w.conn.ReadMessage()
		if err != nil {
			w.err = err
			return
		}
		select {
		case w.msgs <- data:
		case <-w.done:
			w.err = errClosed
			return
		}
	}
}

// Read returns (0, nil) when no message arrived within the poll interval
// and io.EOF once the gateway closes the socket normally.
func (w *WebSocket) Read(p []byte) (int, error) {
	if len(w.pending) == 0 {
		timer := time.NewTimer(w.poll)
		defer timer.Stop()
		select {
		case data, ok := <-w.msgs:
			if !ok {
				if websocket.IsCloseError(w.err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return 0, io.EOF
				}
				return 0, &domain.LinkError{Op: "read", Target: w.url, Err: w.err}
			}
			w.pending = data
		case <-timer.C:
			return 0, nil
		}
	}
	n := copy(p, w.pending)
	w.pending = w.pending[n:]
	return n, nil
}

// Write sends p as a single binary message.
func (w *WebSocket) Write(p []byte) (int, error) {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	if err := w.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, &domain.LinkError{Op: "write", Target: w.url, Err: err}
	}
	return len(p), nil
}

// Close sends a close message and releases the connection.
func (w *WebSocket) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		w.writeMu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = w.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		w.writeMu.Unlock()
		err = w.conn.Close()
		if errors.Is(err, websocket.ErrCloseSent) {
			err = nil
		}
	})
	return err
}

var errClosed = errors.New("websocket link closed")
