// Package internal contains helpers that are intentionally private to goSession:
// session token generation and the public-to-private id derivation.
//
// # What this package must NOT do
//
//   - Talk to Redis or know about storage keys and namespaces.
//   - Export types that appear in the public goSession API.
//   - Be imported by any package outside the goSession module.
package internal
