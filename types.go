package mango

import "fmt"

// Extension is the file extension shared by all three encodings.
const Extension = ".mango"

// Compression names a compression algorithm. The zero value means the
// payload is not compressed.
type Compression string

const (
	CompressionNone   Compression = ""
	CompressionGZIP   Compression = "GZIP"
	CompressionZSTD   Compression = "ZSTD"
	CompressionLZ4    Compression = "LZ4"
	CompressionBrotli Compression = "BROTLI"
	CompressionLZSS   Compression = "LZSS"
)

func (c Compression) String() string {
	if c == CompressionNone {
		return "NONE"
	}
	return string(c)
}

// Encryption names an encryption algorithm. The zero value means the
// payload is not encrypted.
type Encryption string

const (
	EncryptionNone    Encryption = ""
	EncryptionAES128  Encryption = "AES128"
	EncryptionAES256  Encryption = "AES256"
	EncryptionXChaCha Encryption = "XCHACHA20"
)

func (e Encryption) String() string {
	if e == EncryptionNone {
		return "NONE"
	}
	return string(e)
}

// AlgorithmKind selects which half of the registry a probe queries.
type AlgorithmKind uint8

const (
	KindCompression AlgorithmKind = iota + 1
	KindEncryption
)

func (k AlgorithmKind) String() string {
	switch k {
	case KindCompression:
		return "compression"
	case KindEncryption:
		return "encryption"
	default:
		return fmt.Sprintf("AlgorithmKind(%d)", uint8(k))
	}
}

// Format is one of the interchangeable on-disk encodings.
type Format uint8

const (
	// FormatBSON is the self-describing binary map encoding (default).
	FormatBSON Format = iota + 1
	// FormatCBOR is the compact binary object encoding.
	FormatCBOR
	// FormatJSON is the textual encoding. Byte payloads are base64.
	FormatJSON
)

// DefaultFormat is used by Save and Encode when no format is given.
const DefaultFormat = FormatBSON

// detectionOrder is the fixed order Open tries encodings in.
var detectionOrder = []Format{FormatBSON, FormatCBOR, FormatJSON}

func (f Format) String() string {
	switch f {
	case FormatBSON:
		return "bson"
	case FormatCBOR:
		return "cbor"
	case FormatJSON:
		return "json"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

func (f Format) valid() bool {
	return f == FormatBSON || f == FormatCBOR || f == FormatJSON
}

// ParseFormat maps "bson", "cbor" or "json" to a Format.
func ParseFormat(s string) (Format, error) {
	for _, f := range detectionOrder {
		if f.String() == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown format %q", ErrInvalidInput, s)
}

// Language is a recognized content language code.
type Language string

const (
	LanguageEN Language = "EN"
	LanguageJP Language = "JP"
	LanguageDE Language = "DE"
	LanguageFR Language = "FR"
	LanguageIT Language = "IT"
	LanguageCN Language = "CN"
	LanguageES Language = "ES"
)

var languages = []Language{
	LanguageEN, LanguageJP, LanguageDE, LanguageFR,
	LanguageIT, LanguageCN, LanguageES,
}

// Valid reports whether l is one of the recognized codes.
func (l Language) Valid() bool {
	for _, known := range languages {
		if l == known {
			return true
		}
	}
	return false
}

// ParseLanguage validates s against the recognized language codes.
func ParseLanguage(s string) (Language, error) {
	l := Language(s)
	if !l.Valid() {
		return "", fmt.Errorf("%w: unknown language %q", ErrValidation, s)
	}
	return l, nil
}
