package mango

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "checksum", func(fl validator.FieldLevel) bool {
		return isChecksum(fl.Field().String())
	})
	mustRegister(v, "language", func(fl validator.FieldLevel) bool {
		return Language(fl.Field().String()).Valid()
	})
	mustRegister(v, "compression", func(fl validator.FieldLevel) bool {
		return knownCompression(Compression(fl.Field().String()))
	})
	mustRegister(v, "encryption", func(fl validator.FieldLevel) bool {
		return knownEncryption(Encryption(fl.Field().String()))
	})
	v.RegisterStructValidation(imageMetadataLevel, wireImageMetadata{})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// imageMetadataLevel enforces that an IV is present exactly when the
// payload is encrypted, and that it has the algorithm's length.
func imageMetadataLevel(sl validator.StructLevel) {
	m := sl.Current().Interface().(wireImageMetadata)
	switch {
	case m.Encryption == nil && m.IV != nil:
		sl.ReportError(m.IV, "iv", "IV", "excluded_without", "encryption")
	case m.Encryption != nil && m.IV == nil:
		sl.ReportError(m.IV, "iv", "IV", "required_with", "encryption")
	case m.Encryption != nil:
		if codec, ok := lookupEncryption(Encryption(*m.Encryption)); ok && len(m.IV) != codec.ivSize {
			sl.ReportError(m.IV, "iv", "IV", "len", fmt.Sprint(codec.ivSize))
		}
	}
}

func isChecksum(s string) bool {
	if len(s) != ChecksumSize {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// Algorithm names are checked against the full set the format defines,
// not the compiled-in set: a file using a codec this build lacks is
// still well formed, it just cannot be transformed here.
func knownCompression(c Compression) bool {
	switch c {
	case CompressionGZIP, CompressionZSTD, CompressionLZ4, CompressionBrotli, CompressionLZSS:
		return true
	}
	return false
}

func knownEncryption(e Encryption) bool {
	switch e {
	case EncryptionAES128, EncryptionAES256, EncryptionXChaCha:
		return true
	}
	return false
}

// validateWire checks a decoded tree before it becomes a File.
func validateWire(w *wireFile, limits Limits, verifyChecksums bool) error {
	if w == nil {
		return fmt.Errorf("%w: empty document", ErrValidation)
	}
	if err := validate.Struct(w); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if len(w.Images) > limits.MaxImages {
		return fmt.Errorf("%w: %d images, max %d", ErrLimitExceeded, len(w.Images), limits.MaxImages)
	}
	for i, img := range w.Images {
		if uint64(len(img.Payload)) > limits.MaxImageSize {
			return fmt.Errorf("%w: image %d is %d bytes, max %d", ErrLimitExceeded, i, len(img.Payload), limits.MaxImageSize)
		}
		if verifyChecksums && Checksum(img.Payload) != img.Metadata.Checksum {
			return fmt.Errorf("%w: image %d checksum mismatch", ErrValidation, i)
		}
	}
	return nil
}
