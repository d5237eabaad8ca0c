package frame

// Decoder accumulates raw link bytes and yields complete frames.
//
// Callers must Drain after every Feed: a single physical read can carry
// several finished frames, and leaving any of them in the buffer shifts
// every later message boundary.
type Decoder struct {
	buf []byte
}

// NewDecoder creates an empty decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends bytes read from the link.
func (d *Decoder) Feed(p []byte) {
	d.buf = append(d.buf, p...)
}

// Drain removes and returns every complete frame currently buffered, in
// arrival order. Bytes after the last sentinel stay buffered.
func (d *Decoder) Drain() []string {
	var frames []string
	for {
		f, rest, ok := Split(d.buf)
		if !ok {
			break
		}
		frames = append(frames, f)
		d.buf = rest
	}
	if len(d.buf) == 0 {
		d.buf = nil
	} else if len(frames) > 0 {
		// compact so the backing array does not grow without bound
		d.buf = append([]byte(nil), d.buf...)
	}
	return frames
}

// Buffered returns the number of bytes waiting for a sentinel.
func (d *Decoder) Buffered() int {
	return len(d.buf)
}
