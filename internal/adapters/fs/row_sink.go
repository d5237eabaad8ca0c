package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// RowFile implements ports.RowSink by appending raw lines to a file.
// Rows are written exactly as received; nothing is quoted or deduplicated.
type RowFile struct {
	path string
	mu   sync.Mutex
}

// NewRowFile creates a sink appending to path.
func NewRowFile(path string) *RowFile {
	return &RowFile{path: path}
}

// Append writes row followed by a newline.
func (r *RowFile) Append(row string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("received ledger dir: %w", err)
		}
	}
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open received ledger: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(row + "\n"); err != nil {
		return fmt.Errorf("append received ledger: %w", err)
	}
	return nil
}

// Path returns the ledger file path.
func (r *RowFile) Path() string {
	return r.path
}
