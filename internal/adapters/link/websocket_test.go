package link

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mansidodiya01/babymonitorwithlora/internal/domain"
)

// gateway echoes every message back. "bye" closes the socket; "burst"
// answers with ten frames and then closes.
func gateway(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			mt, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if string(data) == "burst.?" {
				for i := 0; i < 10; i++ {
					if err := conn.WriteMessage(websocket.BinaryMessage, []byte("QUJD.?")); err != nil {
						return
					}
				}
			}
			if string(data) == "bye.?" || string(data) == "burst.?" {
				msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
				conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
				return
			}
			if err := conn.WriteMessage(mt, data); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func readUntil(t *testing.T, l io.Reader, want int) ([]byte, error) {
	t.Helper()
	var got []byte
	buf := make([]byte, 4)
	deadline := time.Now().Add(2 * time.Second)
	for len(got) < want && time.Now().Before(deadline) {
		n, err := l.Read(buf)
		got = append(got, buf[:n]...)
		if err != nil {
			return got, err
		}
	}
	return got, nil
}

func TestWebSocket_EchoAcrossSmallReads(t *testing.T) {
	srv := gateway(t)
	url := WebSocketScheme + strings.TrimPrefix(srv.URL, "http://")

	l, err := Open(Options{Target: url, PollInterval: 20 * time.Millisecond})
	require.NoError(t, err)
	defer l.Close()

	_, err = l.Write([]byte("image_name.?"))
	require.NoError(t, err)

	got, err := readUntil(t, l, 12)
	require.NoError(t, err)
	assert.Equal(t, "image_name.?", string(got))
}

func TestWebSocket_IdleAndClose(t *testing.T) {
	srv := gateway(t)
	url := WebSocketScheme + strings.TrimPrefix(srv.URL, "http://")

	l, err := DialWebSocket(url, time.Second, 10*time.Millisecond)
	require.NoError(t, err)
	defer l.Close()

	n, err := l.Read(make([]byte, 8))
	assert.NoError(t, err)
	assert.Zero(t, n)

	_, err = l.Write([]byte("bye.?"))
	require.NoError(t, err)

	_, err = readUntil(t, l, 1)
	assert.ErrorIs(t, err, io.EOF)
}

func TestWebSocket_FramesBeforeCloseAreDelivered(t *testing.T) {
	srv := gateway(t)
	url := WebSocketScheme + strings.TrimPrefix(srv.URL, "http://")

	for trial := 0; trial < 20; trial++ {
		l, err := DialWebSocket(url, time.Second, 10*time.Millisecond)
		require.NoError(t, err)

		_, err = l.Write([]byte("burst.?"))
		require.NoError(t, err)
		// let the frames and the close arrive together
		time.Sleep(50 * time.Millisecond)

		var got []byte
		buf := make([]byte, 4)
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			n, err := l.Read(buf)
			got = append(got, buf[:n]...)
			if err != nil {
				assert.ErrorIs(t, err, io.EOF)
				break
			}
		}
		assert.Equal(t, strings.Repeat("QUJD.?", 10), string(got), "trial %d", trial)
		l.Close()
	}
}

func TestWebSocket_DialFailure(t *testing.T) {
	_, err := Open(Options{Target: "ws://127.0.0.1:1/radio", DialTimeout: 200 * time.Millisecond})
	assert.ErrorIs(t, err, domain.ErrLink)
}
