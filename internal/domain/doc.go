// Package domain contains the entities, protocol tokens and error taxonomy
// shared by the sender and receiver.
//
// It has no infrastructure dependencies: no link, file system or logging.
//
// # Entities
//
//   - [MetadataRow]: one event row from the metadata ledger
//   - [ImageRecord]: a named snapshot and its bytes
//
// # Frame kinds
//
// Frames carry no type tag. [Classify] sniffs the text the same way on
// every receiver so that old senders keep working.
package domain
