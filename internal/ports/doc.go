// Package ports defines the interfaces that connect the sender and receiver
// state machines to infrastructure adapters.
//
// # Port Interfaces
//
//   - [Link]: the half-duplex byte stream to the radio modem
//   - [MetadataSource]: reads the upstream metadata ledger
//   - [SentLedger]: remembers which images were fully transmitted
//   - [ImageSource]: reads images to send
//   - [RowSink]: appends received metadata rows
//   - [ImageStore]: persists reassembled images
//
// The application layer (internal/app) depends only on these interfaces.
// Adapters (internal/adapters) implement them with a serial port, a network
// gateway, or files on disk. Tests use in-memory fakes.
package ports
