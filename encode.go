package mango

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// cborEncMode uses Core Deterministic Encoding, so the same File always
// produces the same bytes.
var cborEncMode cbor.EncMode

func init() {
	var err error
	cborEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("mango: CBOR encoder initialization failed: " + err.Error())
	}
}

// Function variables for testing injection.
var (
	marshalBSON = func(v any) ([]byte, error) { return bson.Marshal(v) }
	marshalCBOR = func(v any) ([]byte, error) { return cborEncMode.Marshal(v) }
	marshalJSON = func(v any) ([]byte, error) { return json.Marshal(v) }
)

// Marshal serializes f in the given format.
//
// The binary formats omit unset optional fields. The JSON format writes
// them as null and carries byte payloads and IVs as base64 strings.
func Marshal(f *File, format Format) ([]byte, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: file is nil", ErrInvalidInput)
	}
	w := toWire(f)
	var (
		b   []byte
		err error
	)
	switch format {
	case FormatBSON:
		b, err = marshalBSON(w)
	case FormatCBOR:
		b, err = marshalCBOR(w)
	case FormatJSON:
		b, err = marshalJSON(w)
	default:
		return nil, fmt.Errorf("%w: unknown format %s", ErrInvalidInput, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrEncode, format, err)
	}
	return b, nil
}

// Encode writes f to w. The format defaults to DefaultFormat and can be
// chosen with WithFormat.
//
// Encode returns ErrInvalidInput for a nil file or unknown format,
// ErrEncode if serialization fails and ErrWrite if w fails.
func Encode(w io.Writer, f *File, opts ...WriteOption) error {
	cfg := newWriteConfig(opts)
	if w == nil {
		return fmt.Errorf("%w: writer is nil", ErrInvalidInput)
	}
	b, err := Marshal(f, cfg.format)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	cfg.logger.Debug("encoded mango file", "format", cfg.format, "images", f.Len(), "bytes", len(b))
	return nil
}
