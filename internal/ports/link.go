package ports

import "io"

// Link is an opened byte stream to the radio modem.
//
// Read returns after at most the adapter's poll interval. A zero-byte read
// with a nil error means nothing is available yet; io.EOF means the stream
// has ended. Write must transmit the whole slice or fail.
type Link interface {
	io.Reader
	io.Writer
	io.Closer
}
