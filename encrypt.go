package mango

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Argon2id parameters for deriving a cipher key from a password. The IV
// doubles as the salt, so every encryption derives a fresh key.
const (
	kdfTime    = 2
	kdfMemory  = 19 * 1024 // KiB
	kdfThreads = 1
)

// aesNonceSize is the GCM nonce length used for AES. A 16-byte nonce
// keeps the IV long enough to serve as an Argon2 salt.
const aesNonceSize = 16

// Function variables for testing injection.
var (
	randReader io.Reader = rand.Reader
	deriveKey            = func(password string, salt []byte, size int) []byte {
		return argon2.IDKey([]byte(password), salt, kdfTime, kdfMemory, kdfThreads, uint32(size))
	}
)

func init() {
	registerEncryption(EncryptionAES128, encryptionCodec{keySize: 16, ivSize: aesNonceSize, newAEAD: newAESGCM})
	registerEncryption(EncryptionAES256, encryptionCodec{keySize: 32, ivSize: aesNonceSize, newAEAD: newAESGCM})
	registerEncryption(EncryptionXChaCha, encryptionCodec{
		keySize: chacha20poly1305.KeySize,
		ivSize:  chacha20poly1305.NonceSizeX,
		newAEAD: chacha20poly1305.NewX,
	})
}

func newAESGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, aesNonceSize)
}

// additionalData binds the ciphertext to its algorithm name, so a
// payload relabelled with another algorithm fails authentication.
func additionalData(alg Encryption) []byte {
	return []byte("mango/" + string(alg))
}

// sealPayload encrypts plaintext under a fresh IV and returns the
// ciphertext and that IV.
func sealPayload(alg Encryption, codec encryptionCodec, password string, plaintext []byte) (ciphertext, iv []byte, err error) {
	iv = make([]byte, codec.ivSize)
	if _, err := io.ReadFull(randReader, iv); err != nil {
		return nil, nil, fmt.Errorf("generating iv: %w", err)
	}
	aead, err := codec.newAEAD(deriveKey(password, iv, codec.keySize))
	if err != nil {
		return nil, nil, err
	}
	return aead.Seal(nil, iv, plaintext, additionalData(alg)), iv, nil
}

// openPayload decrypts ciphertext. Authentication failures are reported
// as ErrDecryptionFailed; anything else is a transform error.
func openPayload(alg Encryption, codec encryptionCodec, password string, iv, ciphertext []byte) ([]byte, error) {
	if len(iv) != codec.ivSize {
		return nil, fmt.Errorf("%w: %s needs a %d-byte iv, have %d", ErrTransform, alg, codec.ivSize, len(iv))
	}
	aead, err := codec.newAEAD(deriveKey(password, iv, codec.keySize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransform, err)
	}
	plaintext, err := aead.Open(nil, iv, ciphertext, additionalData(alg))
	if err != nil {
		return nil, fmt.Errorf("%w: wrong password or corrupted payload", ErrDecryptionFailed)
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}
