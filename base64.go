package toolpipe

import (
	"encoding/base64"
	"fmt"
)

// Binary arguments cross the JSON argument boundary as RFC 4648 standard
// alphabet, padded base64. These helpers are the single encode/decode path
// so the full 0-255 byte range round-trips exactly.

// EncodeBase64 encodes raw bytes for transport over a text channel.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeBase64 decodes a base64 argument value. Malformed input (non-alphabet
// characters, bad padding) fails with an error wrapping ErrInvalidBase64
// rather than silently truncating.
func DecodeBase64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBase64, err)
	}
	return data, nil
}
