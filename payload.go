package placeicon

import (
	"bytes"
	"encoding/base64"
)

// 1x1 RGBA PNG written for every size until real artwork replaces it.
const payloadBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg=="

var payload = mustDecodePayload()

func mustDecodePayload() []byte {
	b, err := base64.StdEncoding.DecodeString(payloadBase64)
	if err != nil {
		panic(err)
	}
	return b
}

// Payload returns a copy of the placeholder PNG bytes.
func Payload() []byte {
	return bytes.Clone(payload)
}

// IsPayload reports whether b is byte-for-byte the placeholder.
func IsPayload(b []byte) bool {
	return bytes.Equal(b, payload)
}
