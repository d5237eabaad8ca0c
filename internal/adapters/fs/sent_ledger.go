package fs

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// SentLedger implements ports.SentLedger with a text file holding one image
// name per line. The file is only ever appended to.
type SentLedger struct {
	path string

	mu   sync.RWMutex
	sent map[string]struct{}
}

// OpenSentLedger loads every name recorded at path. A missing file is an
// empty ledger; it is created on the first Add.
func OpenSentLedger(path string) (*SentLedger, error) {
	l := &SentLedger{path: path, sent: make(map[string]struct{})}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return l, nil
		}
		return nil, fmt.Errorf("open sent ledger: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if name := strings.TrimSpace(sc.Text()); name != "" {
			l.sent[name] = struct{}{}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read sent ledger: %w", err)
	}
	return l, nil
}

// Contains reports whether name was recorded.
func (l *SentLedger) Contains(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.sent[name]
	return ok
}

// Add appends name to the file, syncs it, then records it in memory.
func (l *SentLedger) Add(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("sent ledger dir: %w", err)
		}
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open sent ledger: %w", err)
	}
	if _, err := f.WriteString(name + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("append sent ledger: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync sent ledger: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	l.sent[name] = struct{}{}
	return nil
}

// Len returns the number of recorded names.
func (l *SentLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.sent)
}

// Path returns the ledger file path.
func (l *SentLedger) Path() string {
	return l.path
}
