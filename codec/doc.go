// Package codec serializes session data into the opaque blobs stored in Redis.
//
// # Format
//
// A blob is a one-byte format version followed by the payload. Version 1 is a
// JSON object. Bare JSON objects without a version byte are accepted on decode
// so entries written by other clients remain readable; they are re-encoded
// with the current version on the next write.
//
// # What this package must NOT do
//
//   - Talk to Redis or know about session identifiers.
//   - Accept top-level values other than objects: session data is always a map.
package codec
