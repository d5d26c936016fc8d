// Package goSession persists web session state in Redis for a session
// middleware running in many goroutines and many processes at once.
//
// A [Store] hands out session identifiers that are unique across every
// process sharing the Redis instance, loads and saves session [Data], and
// keeps concurrent writers to one session from erasing each other's updates.
//
// # Identifiers
//
// [SimpleID] uses the token the client holds as the storage key. [SecureID]
// stores the session under a one-way hash of that token, so the key in Redis
// is never something a client can present. Sessions written before the secure
// scheme was enabled are still found under their public key.
//
// # Writes
//
// [Store.WriteSession] overwrites. [Store.TransactionalWriteSession] merges the
// caller's data into the stored value under WATCH/MULTI/EXEC and retries when
// another writer commits first. [Store.CommitSession] picks one according to
// Config.Threadsafe.
//
// # Failure handling
//
// Every Redis interaction of a find, write or delete runs through [WithLock].
// When Redis refuses the connection the operation returns a safe default and
// a nil error so the request continues with a transient, unpersisted session.
// All other errors are returned.
//
// # What this package must NOT do
//
//   - Transmit or log the private half of a SecureID.
//   - Persist an empty session.
//   - Close the Redis client it was given.
package goSession
