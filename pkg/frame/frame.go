// Package frame implements the delimiter-framed text channel carried over
// the radio link.
//
// Every frame is a text payload followed by the two-byte [Sentinel]. There is
// no length prefix, escaping or checksum: payloads must never contain the
// sentinel. Metadata rows, filenames and base64 chunks satisfy this because
// none of them can contain the sequence ".?".
package frame

import (
	"bytes"
	"strings"
)

const (
	// Sentinel terminates every frame on the wire.
	Sentinel = ".?"

	// ChunkSize is the maximum payload length of an image data frame,
	// not counting the sentinel.
	ChunkSize = 198
)

var sentinel = []byte(Sentinel)

// Encode returns the wire bytes for payload.
func Encode(payload string) []byte {
	out := make([]byte, 0, len(payload)+len(sentinel))
	out = append(out, payload...)
	return append(out, sentinel...)
}

// ContainsSentinel reports whether payload would break framing if sent.
func ContainsSentinel(payload string) bool {
	return strings.Contains(payload, Sentinel)
}

// Split extracts the first complete frame from buf. The frame text is
// trimmed of surrounding whitespace. When buf holds no sentinel, ok is false
// and rest is buf unchanged.
func Split(buf []byte) (frame string, rest []byte, ok bool) {
	i := bytes.Index(buf, sentinel)
	if i < 0 {
		return "", buf, false
	}
	return strings.TrimSpace(string(buf[:i])), buf[i+len(sentinel):], true
}

// Chunks splits s into consecutive pieces of at most size bytes. No piece
// is empty; an empty s yields no chunks.
func Chunks(s string, size int) []string {
	if size <= 0 {
		size = ChunkSize
	}
	if s == "" {
		return nil
	}
	out := make([]string, 0, (len(s)+size-1)/size)
	for i := 0; i < len(s); i += size {
		end := i + size
		if end > len(s) {
			end = len(s)
		}
		out = append(out, s[i:end])
	}
	return out
}
