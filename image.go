package mango

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
)

// encryptionState is set exactly when a payload is encrypted, so an
// algorithm without its IV cannot be represented.
type encryptionState struct {
	alg Encryption
	iv  []byte
}

// ImageMetadata describes the state and provenance of an image payload.
// It is read-only outside this package; transforms keep it in step with
// the payload.
type ImageMetadata struct {
	compression Compression
	encryption  *encryptionState
	checksum    string
	mime        *string
	filename    *string
}

// Compression returns the algorithm the payload is compressed with, or
// CompressionNone.
func (m ImageMetadata) Compression() Compression { return m.compression }

// Compressed reports whether the payload is compressed.
func (m ImageMetadata) Compressed() bool { return m.compression != CompressionNone }

// Encryption returns the algorithm the payload is encrypted with, or
// EncryptionNone.
func (m ImageMetadata) Encryption() Encryption {
	if m.encryption == nil {
		return EncryptionNone
	}
	return m.encryption.alg
}

// Encrypted reports whether the payload is encrypted.
func (m ImageMetadata) Encrypted() bool { return m.encryption != nil }

// Checksum returns the hex SHA-256 of the payload as currently stored.
func (m ImageMetadata) Checksum() string { return m.checksum }

func (m ImageMetadata) MIME() (string, bool) { return deref(m.mime) }

func (m ImageMetadata) Filename() (string, bool) { return deref(m.filename) }

// IV returns a copy of the initialization vector, or nil when the
// payload is not encrypted.
func (m ImageMetadata) IV() []byte {
	if m.encryption == nil {
		return nil
	}
	return bytes.Clone(m.encryption.iv)
}

func (m ImageMetadata) IVLength() int {
	if m.encryption == nil {
		return 0
	}
	return len(m.encryption.iv)
}

// Image is one stored picture: a payload plus its metadata. The payload
// is whatever is at rest, so it may be compressed, encrypted or both.
//
// Transforms are all-or-nothing. A failed call leaves the image exactly
// as it was.
type Image struct {
	data []byte
	meta ImageMetadata
}

// NewImage builds an image from in-memory data. The data is copied. The
// MIME type is sniffed from the content, falling back to the extension
// of filename. An empty filename leaves it unset.
func NewImage(data []byte, filename string) *Image {
	data = bytes.Clone(data)
	if data == nil {
		data = []byte{}
	}
	img := &Image{data: data}
	img.meta.checksum = Checksum(data)
	img.meta.mime = ptr(detectMIME(data, filename))
	if filename != "" {
		img.meta.filename = ptr(filename)
	}
	return img
}

// ImageFromPath reads an image file from disk. Only content recognized
// as an image is accepted; anything else fails with ErrInvalidInput.
func ImageFromPath(path string) (*Image, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty image path", ErrInvalidInput)
	}
	st, err := os.Stat(path)
	if err != nil {
		return nil, fsError(ErrRead, err)
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidInput, path)
	}
	if max := DefaultLimits().MaxImageSize; uint64(st.Size()) > max {
		return nil, fmt.Errorf("%w: %s is %d bytes, max %d", ErrLimitExceeded, path, st.Size(), max)
	}
	data, err := readFile(path)
	if err != nil {
		return nil, fsError(ErrRead, err)
	}
	name := filepath.Base(path)
	img := NewImage(data, name)
	if m, _ := img.meta.MIME(); !isImageMIME(m) {
		return nil, fmt.Errorf("%w: %s is %s, not an image", ErrInvalidInput, name, m)
	}
	return img, nil
}

// Metadata returns a snapshot of the image metadata.
func (img *Image) Metadata() ImageMetadata { return img.meta }

// Data returns a copy of the payload as stored.
func (img *Image) Data() []byte { return bytes.Clone(img.data) }

// Base64Data returns the payload in standard base64. It is meant for
// debugging and interop; the codecs never use it.
func (img *Image) Base64Data() string {
	return base64.StdEncoding.EncodeToString(img.data)
}

// Clone returns a deep copy of img.
func (img *Image) Clone() *Image {
	c := &Image{data: bytes.Clone(img.data), meta: img.meta}
	if c.data == nil {
		c.data = []byte{}
	}
	if img.meta.encryption != nil {
		c.meta.encryption = &encryptionState{alg: img.meta.encryption.alg, iv: bytes.Clone(img.meta.encryption.iv)}
	}
	c.meta.mime = clonePtr(img.meta.mime)
	c.meta.filename = clonePtr(img.meta.filename)
	return c
}

// Equal reports whether both images carry the same payload and metadata.
func (img *Image) Equal(other *Image) bool {
	if img == nil || other == nil {
		return img == other
	}
	a, b := img.meta, other.meta
	return bytes.Equal(img.data, other.data) &&
		a.compression == b.compression &&
		a.Encryption() == b.Encryption() &&
		bytes.Equal(a.IV(), b.IV()) &&
		a.checksum == b.checksum &&
		ptrEqual(a.mime, b.mime) &&
		ptrEqual(a.filename, b.filename)
}

// SaveRaw writes the payload, as stored, to path. The write is atomic.
func (img *Image) SaveRaw(path string) error {
	if img == nil || path == "" {
		return fmt.Errorf("%w: nil image or empty path", ErrInvalidInput)
	}
	return writeFileAtomic(path, img.data, 0o644, discardLogger)
}

// Compress compresses the payload with alg and records it. The checksum
// is recomputed over the compressed bytes.
//
// It fails with ErrAlreadyCompressed if the image is already compressed
// and ErrUnsupportedAlgorithm if alg is not compiled in.
func (img *Image) Compress(alg Compression) error {
	if img == nil {
		return errNilImage
	}
	if img.meta.Compressed() {
		return ErrAlreadyCompressed
	}
	codec, ok := lookupCompression(alg)
	if !ok {
		return fmt.Errorf("%w: compression %q", ErrUnsupportedAlgorithm, string(alg))
	}
	out, err := codec.compress(img.data)
	if err != nil {
		return fmt.Errorf("%w: %s compress: %w", ErrTransform, alg, err)
	}
	img.setData(out)
	img.meta.compression = alg
	return nil
}

// Uncompress restores the payload compressed by Compress. Output larger
// than DefaultLimits().MaxImageSize is rejected.
func (img *Image) Uncompress() error {
	if img == nil {
		return errNilImage
	}
	if !img.meta.Compressed() {
		return ErrNotCompressed
	}
	alg := img.meta.compression
	codec, ok := lookupCompression(alg)
	if !ok {
		return fmt.Errorf("%w: compression %q", ErrUnsupportedAlgorithm, string(alg))
	}
	out, err := codec.decompress(img.data, DefaultLimits().MaxImageSize)
	if err != nil {
		return fmt.Errorf("%w: %s decompress: %w", ErrTransform, alg, err)
	}
	img.setData(out)
	img.meta.compression = CompressionNone
	return nil
}

// Encrypt encrypts the payload with alg under a key derived from
// password and a fresh random IV. The checksum is recomputed over the
// ciphertext.
func (img *Image) Encrypt(alg Encryption, password string) error {
	if img == nil {
		return errNilImage
	}
	if img.meta.Encrypted() {
		return ErrAlreadyEncrypted
	}
	codec, ok := lookupEncryption(alg)
	if !ok {
		return fmt.Errorf("%w: encryption %q", ErrUnsupportedAlgorithm, string(alg))
	}
	ciphertext, iv, err := sealPayload(alg, codec, password, img.data)
	if err != nil {
		return fmt.Errorf("%w: %s encrypt: %w", ErrTransform, alg, err)
	}
	img.setData(ciphertext)
	img.meta.encryption = &encryptionState{alg: alg, iv: iv}
	return nil
}

// Decrypt reverses Encrypt. A wrong password fails with
// ErrDecryptionFailed and leaves the image untouched.
func (img *Image) Decrypt(password string) error {
	if img == nil {
		return errNilImage
	}
	if !img.meta.Encrypted() {
		return ErrNotEncrypted
	}
	st := img.meta.encryption
	codec, ok := lookupEncryption(st.alg)
	if !ok {
		return fmt.Errorf("%w: encryption %q", ErrUnsupportedAlgorithm, string(st.alg))
	}
	plaintext, err := openPayload(st.alg, codec, password, st.iv, img.data)
	if err != nil {
		return err
	}
	img.setData(plaintext)
	img.meta.encryption = nil
	return nil
}

var errNilImage = fmt.Errorf("%w: nil image", ErrInvalidInput)

func (img *Image) setData(data []byte) {
	if data == nil {
		data = []byte{}
	}
	img.data = data
	img.meta.checksum = Checksum(data)
}

func ptr[T any](v T) *T { return &v }

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	return ptr(*p)
}

func ptrEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
