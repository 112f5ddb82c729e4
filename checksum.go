package mango

import (
	"crypto/sha256"
	"encoding/hex"
)

// ChecksumSize is the length of a checksum string in hex characters.
const ChecksumSize = sha256.Size * 2

// Checksum returns the lowercase hex SHA-256 of data. It is the
// checksum stored for every image.
//
// The checksum covers whatever bytes are at rest: plaintext, compressed
// or ciphertext. It detects corruption of those bytes, but it is not an
// authenticity signal and does not record which transform state it was
// computed under.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
