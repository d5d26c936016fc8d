package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// FormatVersionCurrent is written as the first byte of every encoded blob.
	FormatVersionCurrent byte = 1
)

var (
	// ErrUnsupportedVersion is returned for blobs with an unknown version byte.
	ErrUnsupportedVersion = errors.New("unsupported session format version")
	// ErrMalformed is returned for blobs that cannot be decoded.
	ErrMalformed = errors.New("malformed session blob")
	// ErrTooLarge is returned when an encoded blob exceeds the configured limit.
	ErrTooLarge = errors.New("session data too large")
)

// Codec turns session data into bytes and back.
type Codec interface {
	Encode(data map[string]any) ([]byte, error)
	Decode(blob []byte) (map[string]any, error)
}

// JSON is the default Codec. MaxSize bounds the encoded blob, zero means no limit.
type JSON struct {
	MaxSize int
}

// Encode writes the version byte followed by the JSON object.
func (c JSON) Encode(data map[string]any) ([]byte, error) {
	if data == nil {
		data = map[string]any{}
	}

	var buf bytes.Buffer
	buf.WriteByte(FormatVersionCurrent)

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return nil, fmt.Errorf("encode session data: %w", err)
	}

	out := bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})
	if c.MaxSize > 0 && len(out) > c.MaxSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, len(out), c.MaxSize)
	}
	return out, nil
}

// Decode accepts current-version blobs and bare JSON objects.
func (c JSON) Decode(blob []byte) (map[string]any, error) {
	if len(blob) == 0 {
		return nil, fmt.Errorf("%w: empty blob", ErrMalformed)
	}

	payload := blob
	switch version := blob[0]; {
	case version == FormatVersionCurrent:
		payload = blob[1:]
	case isJSONObjectStart(blob):
		// legacy, unversioned
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	out := map[string]any{}
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if out == nil {
		// "null" decodes into a nil map
		return nil, fmt.Errorf("%w: null payload", ErrMalformed)
	}
	return out, nil
}

func isJSONObjectStart(b []byte) bool {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}
