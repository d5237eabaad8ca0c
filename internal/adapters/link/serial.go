package link

import (
	"time"

	"go.bug.st/serial"

	"github.com/mansidodiya01/babymonitorwithlora/internal/domain"
)

// Serial is a Link over a local serial device.
type Serial struct {
	port serial.Port
	name string
}

// OpenSerial opens device at baud with 8N1 framing. Reads time out after
// poll so callers can observe cancellation between reads.
func OpenSerial(device string, baud int, poll time.Duration) (*Serial, error) {
	p, err := serial.Open(device, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, &domain.LinkError{Op: "open", Target: device, Err: err}
	}
	if err := p.SetReadTimeout(poll); err != nil {
		p.Close()
		return nil, &domain.LinkError{Op: "open", Target: device, Err: err}
	}
	return &Serial{port: p, name: device}, nil
}

// Read returns (0, nil) when nothing arrived within the poll interval.
func (s *Serial) Read(p []byte) (int, error) {
	n, err := s.port.Read(p)
	if err != nil {
		return n, &domain.LinkError{Op: "read", Target: s.name, Err: err}
	}
	return n, nil
}

// Write writes all of p.
func (s *Serial) Write(p []byte) (int, error) {
	written := 0
	for written < len(p) {
		n, err := s.port.Write(p[written:])
		written += n
		if err != nil {
			return written, &domain.LinkError{Op: "write", Target: s.name, Err: err}
		}
	}
	return written, nil
}

// Close releases the device.
func (s *Serial) Close() error {
	return s.port.Close()
}
