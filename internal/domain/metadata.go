package domain

import (
	"fmt"
	"strings"
)

// NoImage is the image reference written upstream when nothing was cropped.
const NoImage = "None"

// MetadataFields is the column count of the metadata ledger.
const MetadataFields = 4

// MetadataHeader is the header row of the upstream metadata ledger.
var MetadataHeader = []string{"Timestamp", "Baby Crying Status", "Baby Detection Status", "Cropped Image"}

// MetadataRow is one event from the metadata ledger.
type MetadataRow struct {
	Timestamp       string // 2006-01-02_150405
	CryingStatus    string
	DetectionStatus string
	ImageRef        string // image filename or NoImage
}

// ParseMetadataRow builds a row from ledger fields.
func ParseMetadataRow(fields []string) (MetadataRow, error) {
	if len(fields) != MetadataFields {
		return MetadataRow{}, fmt.Errorf("%w: got %d fields, want %d", ErrMalformedRow, len(fields), MetadataFields)
	}
	return MetadataRow{
		Timestamp:       fields[0],
		CryingStatus:    fields[1],
		DetectionStatus: fields[2],
		ImageRef:        fields[3],
	}, nil
}

// Fields returns the row in ledger column order.
func (r MetadataRow) Fields() []string {
	return []string{r.Timestamp, r.CryingStatus, r.DetectionStatus, r.ImageRef}
}

// HasImage reports whether the row references an image at all.
// "none" is matched case-insensitively.
func (r MetadataRow) HasImage() bool {
	return !strings.EqualFold(strings.TrimSpace(r.ImageRef), NoImage)
}

// ImageRecord is a named snapshot.
type ImageRecord struct {
	Name string
	Data []byte
}
