package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/mansidodiya01/babymonitorwithlora/internal/domain"
	"github.com/mansidodiya01/babymonitorwithlora/pkg/frame"
)

// readStep is one scripted Read result. A step with pause returns no data
// once the pause has elapsed.
type readStep struct {
	data  []byte
	pause time.Duration
	err   error
}

// fakeLink replays scripted reads and records every Write call.
type fakeLink struct {
	mu       sync.Mutex
	steps    []readStep
	holdOpen bool // idle instead of io.EOF when the script is exhausted
	writes   [][]byte
	writeErr error
	onWrite  func(n int)
	closed   bool
}

func (l *fakeLink) Read(p []byte) (int, error) {
	l.mu.Lock()
	if len(l.steps) == 0 {
		hold := l.holdOpen
		l.mu.Unlock()
		if hold {
			time.Sleep(time.Millisecond)
			return 0, nil
		}
		return 0, io.EOF
	}
	st := l.steps[0]
	if len(st.data) > len(p) {
		l.steps[0].data = st.data[len(p):]
		l.mu.Unlock()
		return copy(p, st.data), nil
	}
	l.steps = l.steps[1:]
	l.mu.Unlock()

	if st.pause > 0 {
		time.Sleep(st.pause)
	}
	return copy(p, st.data), st.err
}

func (l *fakeLink) Write(p []byte) (int, error) {
	l.mu.Lock()
	if l.writeErr != nil {
		err := l.writeErr
		l.mu.Unlock()
		return 0, err
	}
	l.writes = append(l.writes, append([]byte(nil), p...))
	n := len(l.writes)
	hook := l.onWrite
	l.mu.Unlock()
	if hook != nil {
		hook(n)
	}
	return len(p), nil
}

func (l *fakeLink) Close() error {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	return nil
}

// frames returns the payloads of every write, asserting one frame per write.
func (l *fakeLink) frames() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.writes))
	for _, w := range l.writes {
		f, rest, ok := frame.Split(w)
		if !ok || len(rest) != 0 {
			panic("write did not carry exactly one frame: " + string(w))
		}
		out = append(out, f)
	}
	return out
}

func (l *fakeLink) wire() []byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	return bytes.Join(l.writes, nil)
}

// wireLink returns a link that delivers frames as a single read.
func wireLink(frames ...string) *fakeLink {
	var buf bytes.Buffer
	for _, f := range frames {
		buf.Write(frame.Encode(f))
	}
	return &fakeLink{steps: []readStep{{data: buf.Bytes()}}}
}

type memSource struct {
	rows []domain.MetadataRow
	err  error
}

func (m *memSource) Rows(context.Context) ([]domain.MetadataRow, error) {
	return m.rows, m.err
}

type memLedger struct {
	names []string
}

func (m *memLedger) Contains(name string) bool {
	for _, n := range m.names {
		if n == name {
			return true
		}
	}
	return false
}

func (m *memLedger) Add(name string) error {
	m.names = append(m.names, name)
	return nil
}

type memImages struct {
	files map[string][]byte
	puts  []string
}

func newMemImages() *memImages {
	return &memImages{files: make(map[string][]byte)}
}

func (m *memImages) Exists(name string) bool {
	_, ok := m.files[name]
	return ok
}

func (m *memImages) Read(name string) ([]byte, error) {
	data, ok := m.files[name]
	if !ok {
		return nil, domain.ErrMissingImage
	}
	return data, nil
}

func (m *memImages) Put(name string, data []byte) error {
	if name == "" {
		return domain.ErrInvalidImageName
	}
	m.files[name] = append([]byte(nil), data...)
	m.puts = append(m.puts, name)
	return nil
}

type memRows struct {
	rows []string
}

func (m *memRows) Append(row string) error {
	m.rows = append(m.rows, row)
	return nil
}

type recordingHandler struct {
	rows    int
	sent    []string
	skipped map[string]string
}

func (h *recordingHandler) OnRowSent(domain.MetadataRow) { h.rows++ }

func (h *recordingHandler) OnImageSent(name string, _ int) { h.sent = append(h.sent, name) }

func (h *recordingHandler) OnImageSkipped(name, reason string) {
	if h.skipped == nil {
		h.skipped = make(map[string]string)
	}
	h.skipped[name] = reason
}

var errBrokenPipe = errors.New("broken pipe")
