package ports

import (
	"context"

	"github.com/mansidodiya01/babymonitorwithlora/internal/domain"
)

// MetadataSource reads the upstream metadata ledger.
type MetadataSource interface {
	// Rows returns every data row, oldest first, header excluded.
	// A missing ledger yields no rows and no error.
	Rows(ctx context.Context) ([]domain.MetadataRow, error)
}

// SentLedger is the persisted set of images already transmitted in full.
// Implementations load the whole set when constructed.
type SentLedger interface {
	Contains(name string) bool

	// Add records name durably. Callers invoke it only after the last
	// chunk of the image has been written to the link.
	Add(name string) error
}

// RowSink appends received metadata rows verbatim.
type RowSink interface {
	Append(row string) error
}
