package mango

import (
	"crypto/cipher"
	"slices"

	"github.com/samber/lo"
)

type compressionCodec struct {
	compress func(in []byte) ([]byte, error)
	// decompress must fail rather than produce more than max bytes.
	decompress func(in []byte, max uint64) ([]byte, error)
}

type encryptionCodec struct {
	keySize int
	ivSize  int
	newAEAD func(key []byte) (cipher.AEAD, error)
}

// The tables are filled from init functions only and never written
// afterwards, so lookups need no locking.
var (
	compressionCodecs = map[Compression]compressionCodec{}
	encryptionCodecs  = map[Encryption]encryptionCodec{}
)

func registerCompression(c Compression, codec compressionCodec) {
	compressionCodecs[c] = codec
}

func registerEncryption(e Encryption, codec encryptionCodec) {
	encryptionCodecs[e] = codec
}

// AlgorithmSupported reports whether the named algorithm of the given
// kind was compiled into this build.
func AlgorithmSupported(kind AlgorithmKind, name string) bool {
	switch kind {
	case KindCompression:
		return CompressionSupported(name)
	case KindEncryption:
		return EncryptionSupported(name)
	default:
		return false
	}
}

func CompressionSupported(name string) bool {
	_, ok := lookupCompression(Compression(name))
	return ok
}

func EncryptionSupported(name string) bool {
	_, ok := lookupEncryption(Encryption(name))
	return ok
}

// SupportedCompressions lists the compiled-in compression algorithms.
func SupportedCompressions() []Compression {
	names := lo.Keys(compressionCodecs)
	slices.Sort(names)
	return names
}

// SupportedEncryptions lists the compiled-in encryption algorithms.
func SupportedEncryptions() []Encryption {
	names := lo.Keys(encryptionCodecs)
	slices.Sort(names)
	return names
}

func lookupCompression(c Compression) (compressionCodec, bool) {
	if c == CompressionNone {
		return compressionCodec{}, false
	}
	codec, ok := compressionCodecs[c]
	return codec, ok
}

func lookupEncryption(e Encryption) (encryptionCodec, bool) {
	if e == EncryptionNone {
		return encryptionCodec{}, false
	}
	codec, ok := encryptionCodecs[e]
	return codec, ok
}
