// Package log provides the structured logging abstraction used by the
// sender and receiver.
//
// The application layer only sees the [Logger] interface. The CLI wires a
// zerolog-backed implementation; tests use [NewNoopLogger].
//
//	logger := log.NewZerologAdapter(log.ParseLevel("debug"))
//	logger.Info("link opened", log.String("port", "/dev/ttyUSB0"))
//
// Fields attached with [Logger.With] are repeated on every subsequent
// message, which is how a receive session tags its lines with a session id.
package log
