package mango

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput         = errors.New("mango: invalid input")
	ErrUnsupportedAlgorithm = errors.New("mango: unsupported algorithm")
	ErrTransform            = errors.New("mango: transform failed")
	ErrWrongState           = errors.New("mango: wrong transform state")
	ErrDecryptionFailed     = errors.New("mango: decryption failed")
	ErrRead                 = errors.New("mango: read error")
	ErrWrite                = errors.New("mango: write error")
	ErrPermission           = errors.New("mango: permission denied")
	ErrEncode               = errors.New("mango: encode error")
	ErrDecode               = errors.New("mango: decode error")
	ErrValidation           = errors.New("mango: validation failed")
	ErrLimitExceeded        = errors.New("mango: limit exceeded")
)

// State errors. Each one also matches ErrWrongState.
var (
	ErrNotCompressed     = fmt.Errorf("%w: image is not compressed", ErrWrongState)
	ErrAlreadyCompressed = fmt.Errorf("%w: image is already compressed", ErrWrongState)
	ErrNotEncrypted      = fmt.Errorf("%w: image is not encrypted", ErrWrongState)
	ErrAlreadyEncrypted  = fmt.Errorf("%w: image is already encrypted", ErrWrongState)
)

// ErrorCode is a stable integer form of the error taxonomy.
type ErrorCode int

const (
	CodeOK ErrorCode = iota
	CodeInvalidInput
	CodeUnsupportedAlgorithm
	CodeTransform
	CodeNotCompressed
	CodeAlreadyCompressed
	CodeNotEncrypted
	CodeAlreadyEncrypted
	CodeDecryptionFailed
	CodeRead
	CodeWrite
	CodePermission
	CodeEncode
	CodeDecode
	CodeValidation
	CodeLimitExceeded
	CodeUnknown ErrorCode = -1
)

var codeTable = []struct {
	err  error
	code ErrorCode
}{
	// Order matters: Open wraps ErrLimitExceeded inside ErrDecode.
	{ErrNotCompressed, CodeNotCompressed},
	{ErrAlreadyCompressed, CodeAlreadyCompressed},
	{ErrNotEncrypted, CodeNotEncrypted},
	{ErrAlreadyEncrypted, CodeAlreadyEncrypted},
	{ErrInvalidInput, CodeInvalidInput},
	{ErrUnsupportedAlgorithm, CodeUnsupportedAlgorithm},
	{ErrDecryptionFailed, CodeDecryptionFailed},
	{ErrTransform, CodeTransform},
	{ErrPermission, CodePermission},
	{ErrRead, CodeRead},
	{ErrWrite, CodeWrite},
	{ErrEncode, CodeEncode},
	{ErrLimitExceeded, CodeLimitExceeded},
	{ErrDecode, CodeDecode},
	{ErrValidation, CodeValidation},
}

// CodeOf maps err onto the taxonomy. A nil error is CodeOK; errors that
// did not originate in this package are CodeUnknown.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	for _, e := range codeTable {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return CodeUnknown
}

func (c ErrorCode) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeInvalidInput:
		return "invalid input"
	case CodeUnsupportedAlgorithm:
		return "unsupported algorithm"
	case CodeTransform:
		return "transform error"
	case CodeNotCompressed:
		return "not compressed"
	case CodeAlreadyCompressed:
		return "already compressed"
	case CodeNotEncrypted:
		return "not encrypted"
	case CodeAlreadyEncrypted:
		return "already encrypted"
	case CodeDecryptionFailed:
		return "decryption failed"
	case CodeRead:
		return "read error"
	case CodeWrite:
		return "write error"
	case CodePermission:
		return "permission denied"
	case CodeEncode:
		return "encode error"
	case CodeDecode:
		return "decode error"
	case CodeValidation:
		return "validation failed"
	case CodeLimitExceeded:
		return "limit exceeded"
	default:
		return "unknown"
	}
}
