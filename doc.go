// Package mango implements the Mango (.mango) image container format.
//
// A Mango file bundles an ordered list of images with bibliographic
// metadata (title, author, publisher, source, translation, language,
// volume, chapter and year, each independently optional). Each image
// carries its payload plus per-image metadata: compression and
// encryption state, a checksum, MIME type, original filename and, for
// encrypted images, the IV.
//
// # Encodings
//
// The same logical document can be stored in three encodings, all
// using the .mango extension:
//   - BSON, the default
//   - CBOR, using Core Deterministic Encoding
//   - JSON, with byte payloads as base64 strings
//
// [Open] does not look at the extension. It tries BSON, then CBOR, then
// JSON, and returns the first one that yields a schema-valid document.
// [OpenFormat] also reports which encoding matched.
//
// # Basic Usage
//
//	f := mango.NewFile()
//	f.Metadata().SetTitle(lo.ToPtr("Volume 1"))
//	if err := f.AddImageByPath("page01.jpg"); err != nil {
//		return err
//	}
//	img, _ := f.Image(0)
//	if err := img.Compress(mango.CompressionZSTD); err != nil {
//		return err
//	}
//	err := f.Save("volume1") // writes volume1.mango
//
// To read it back:
//
//	f, err := mango.Open("volume1.mango")
//
// Images come back exactly as stored. Call Uncompress or Decrypt to
// recover the original bytes.
//
// # Transforms
//
// Compression and encryption are independent per-image state machines.
// Compressing a compressed image fails with [ErrAlreadyCompressed], and
// likewise for the other wrong-state transitions. Every failed transform
// leaves the image unchanged.
//
// The format does not record the order in which the two transforms were
// applied. Reverse them in the opposite order: an image encrypted and
// then compressed must be uncompressed before it can be decrypted, and
// decrypting it first fails with [ErrDecryptionFailed].
//
// Encryption uses AES-GCM (AES128, AES256) or XChaCha20-Poly1305
// (XCHACHA20) with a key derived from the password by Argon2id, salted
// with the per-image IV. A wrong password is reported as
// [ErrDecryptionFailed].
//
// # Checksums
//
// Every image checksum is the SHA-256 of the payload as currently
// stored, recomputed on every transform. It detects corruption of the
// stored bytes. It is not an authenticity check: a crafted file can
// pair a payload with the wrong transform metadata and a matching
// checksum, so only trust the checksum together with metadata you trust.
//
// # Concurrency
//
// Operations are synchronous. Distinct File values share no state and
// may be used from different goroutines. A single File, and the images
// it owns, must not be mutated concurrently. Save writes to a temporary
// file and renames it, so readers never see a partly written container.
//
// # Errors
//
// Every failure wraps one of the sentinel errors in this package, so
// callers can branch with errors.Is. [CodeOf] maps an error onto a
// stable [ErrorCode].
package mango
