package goSession

import "github.com/MrEthical07/goSession/internal"

// Identifier names one session. Implementations are SimpleID and SecureID.
//
// PublicID is the only value that may leave the server. StorageKey is where
// writes go. LookupKeys lists the keys a reader consults, in order, and
// DeleteKeys every key the session may occupy. All keys are un-namespaced;
// the Store adds its namespace.
type Identifier interface {
	PublicID() string
	StorageKey() string
	LookupKeys() []string
	DeleteKeys() []string
	String() string
}

// SimpleID is a single opaque token that is both the public id and the storage key.
type SimpleID string

func (id SimpleID) PublicID() string     { return string(id) }
func (id SimpleID) StorageKey() string   { return string(id) }
func (id SimpleID) LookupKeys() []string { return []string{string(id)} }
func (id SimpleID) DeleteKeys() []string { return []string{string(id)} }
func (id SimpleID) String() string       { return string(id) }

// SecureID pairs the client-facing Public id with the Private storage key.
//
// Private is derived from Public with a one-way hash, so holding a storage key
// does not let anyone present the session, and a client can only ever present
// Public. Sessions written before the secure scheme was enabled live under
// Public; LookupKeys falls back to that legacy entry.
type SecureID struct {
	Public  string
	Private string
}

// NewSecureID derives the full identifier from a public id.
func NewSecureID(public string) SecureID {
	return SecureID{Public: public, Private: internal.PrivateID(public)}
}

func (id SecureID) PublicID() string   { return id.Public }
func (id SecureID) StorageKey() string { return id.Private }

func (id SecureID) LookupKeys() []string {
	return []string{id.Private, id.Public}
}

func (id SecureID) DeleteKeys() []string {
	return []string{id.Public, id.Private}
}

// String returns the public id. The private id is never rendered.
func (id SecureID) String() string { return id.Public }

// IDScheme selects the Identifier variant a Store mints and parses.
type IDScheme string

const (
	// SchemeSimple stores sessions under the id the client holds.
	SchemeSimple IDScheme = "simple"
	// SchemeSecure stores sessions under a hash of the id the client holds.
	SchemeSecure IDScheme = "secure"
)

func (s IDScheme) valid() bool {
	return s == SchemeSimple || s == SchemeSecure
}

func (s IDScheme) identifier(public string) Identifier {
	if s == SchemeSimple {
		return SimpleID(public)
	}
	return NewSecureID(public)
}

// IDFormat selects how fresh public ids are rendered.
type IDFormat string

const (
	// FormatHex renders 16 random bytes as 32 hex characters.
	FormatHex IDFormat = "hex"
	// FormatUUID renders a random version 4 UUID.
	FormatUUID IDFormat = "uuid"
)

func (f IDFormat) valid() bool {
	return f == FormatHex || f == FormatUUID
}

// IDGenerator returns a fresh, cryptographically random public id.
type IDGenerator func() (string, error)

func (f IDFormat) generator() IDGenerator {
	if f == FormatUUID {
		return internal.NewUUIDToken
	}
	return internal.NewHexToken
}
