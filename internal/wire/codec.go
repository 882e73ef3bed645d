// Package wire converts binary sync payloads to and from the text-safe form
// exchanged at the boundary. Encode and Decode are exact inverses for every
// byte sequence.
package wire

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrMalformedText signals boundary text that is not valid encoded payload.
var ErrMalformedText = errors.New("wire: malformed base64 text")

// Encode renders raw bytes as text safe to cross the boundary.
func Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Decode parses text produced by Encode back into raw bytes.
func Decode(text string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedText, err)
	}
	return data, nil
}
