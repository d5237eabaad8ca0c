package fs

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/mansidodiya01/babymonitorwithlora/internal/domain"
	"github.com/mansidodiya01/babymonitorwithlora/pkg/log"
)

// MetadataLedger implements ports.MetadataSource over the CSV ledger
// written by the capture pipeline. The first record is a header.
type MetadataLedger struct {
	path   string
	logger log.Logger
}

// NewMetadataLedger creates a reader for the ledger at path.
func NewMetadataLedger(path string, logger log.Logger) *MetadataLedger {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &MetadataLedger{path: path, logger: logger}
}

// Rows reads the whole ledger. Rows without exactly four fields are
// skipped with a warning rather than aborting the pass.
func (m *MetadataLedger) Rows(ctx context.Context) ([]domain.MetadataRow, error) {
	f, err := os.Open(m.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.logger.Warn("metadata ledger not found", log.String("path", m.path))
			return nil, nil
		}
		return nil, fmt.Errorf("open metadata ledger: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows []domain.MetadataRow
	line := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read metadata ledger: %w", err)
		}
		line++
		if line == 1 {
			continue
		}
		row, err := domain.ParseMetadataRow(rec)
		if err != nil {
			m.logger.Warn("skipping metadata row", log.Int("line", line), log.Err(err))
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Path returns the ledger file path.
func (m *MetadataLedger) Path() string {
	return m.path
}

// AppendMetadataRow appends row to the ledger at path, writing the header
// first when the file is new. It is the writer side used by the capture
// pipeline and by tests.
func AppendMetadataRow(path string, row domain.MetadataRow) error {
	_, statErr := os.Stat(path)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if errors.Is(statErr, fs.ErrNotExist) {
		if err := w.Write(domain.MetadataHeader); err != nil {
			return err
		}
	}
	if err := w.Write(row.Fields()); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
