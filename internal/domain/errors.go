package domain

import (
	"errors"
	"fmt"
)

// Errors are checked with errors.Is. Only link failures are fatal; the
// others are logged and the session continues.
var (
	// ErrLink marks a link that cannot be opened, read or written.
	ErrLink = errors.New("lorabridge: link failure")

	// ErrDecode marks accumulated image text that is not valid base64.
	ErrDecode = errors.New("lorabridge: malformed image data")

	// ErrMissingImage marks a referenced image absent from the image store.
	ErrMissingImage = errors.New("lorabridge: image not found")

	// ErrNameTimeout marks an image_name token not followed by a filename in time.
	ErrNameTimeout = errors.New("lorabridge: no image name received")

	// ErrMalformedRow marks a source ledger row without exactly four fields.
	ErrMalformedRow = errors.New("lorabridge: malformed metadata row")

	// ErrInvalidImageName marks a filename that would escape the image store.
	ErrInvalidImageName = errors.New("lorabridge: invalid image name")
)

// LinkError describes a failed operation on the physical link.
type LinkError struct {
	Op     string // "open", "read", "write"
	Target string // port path or address
	Err    error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("link %s %s: %v", e.Op, e.Target, e.Err)
}

func (e *LinkError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrLink) match any LinkError.
func (e *LinkError) Is(target error) bool { return target == ErrLink }
