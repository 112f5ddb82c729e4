package mango

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/tidwall/jsonc"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// cborDecMode rejects duplicate keys and unknown fields, so that only
// documents of this schema decode.
var cborDecMode cbor.DecMode

func init() {
	var err error
	cborDecMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic("mango: CBOR decoder initialization failed: " + err.Error())
	}
}

// Function variables for testing injection.
var (
	unmarshalBSON = func(data []byte, v any) error { return bson.Unmarshal(data, v) }
	unmarshalCBOR = func(data []byte, v any) error { return cborDecMode.Unmarshal(data, v) }
	unmarshalJSON = unmarshalStrictJSON
)

// Decode reads a Mango file from r and returns it with the format it was
// stored in.
//
// Formats are tried in a fixed order: BSON, then CBOR, then JSON. The
// first one that yields a schema-valid document wins. A document is
// schema-valid when it carries both metadata and images, every image
// carries a well-formed checksum, algorithm and language names are
// known, and an IV is present exactly when the image is encrypted.
//
// By default, Decode will:
//   - Use safe default size limits (see [DefaultLimits])
//   - Verify every image checksum against its payload
//
// Decode returns ErrDecode if no format matches. Exceeding a limit also
// matches ErrLimitExceeded. Transforms are never reversed: images come
// back compressed or encrypted exactly as they were stored.
func Decode(r io.Reader, opts ...ReadOption) (*File, Format, error) {
	cfg := newReadConfig(opts)
	if r == nil {
		return nil, 0, fmt.Errorf("%w: reader is nil", ErrInvalidInput)
	}
	data, err := readBounded(r, cfg.limits.MaxFileSize, "container")
	if err != nil {
		if errors.Is(err, ErrLimitExceeded) {
			return nil, 0, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		return nil, 0, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return decodeBytes(data, cfg)
}

// Unmarshal decodes data that is known to be in the given format.
func Unmarshal(data []byte, format Format, opts ...ReadOption) (*File, error) {
	cfg := newReadConfig(opts)
	if !format.valid() {
		return nil, fmt.Errorf("%w: unknown format %s", ErrInvalidInput, format)
	}
	f, err := decodeAs(data, format, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, format, err)
	}
	return f, nil
}

func decodeBytes(data []byte, cfg readConfig) (*File, Format, error) {
	if uint64(len(data)) > cfg.limits.MaxFileSize {
		return nil, 0, fmt.Errorf("%w: %w: %d bytes, max %d", ErrDecode, ErrLimitExceeded, len(data), cfg.limits.MaxFileSize)
	}
	var errs []error
	for _, format := range cfg.formats {
		if !format.valid() {
			continue
		}
		f, err := decodeAs(data, format, cfg)
		if err == nil {
			cfg.logger.Debug("decoded mango file", "format", format, "images", f.Len())
			return f, format, nil
		}
		cfg.logger.Debug("decode attempt failed", "format", format, "err", err)
		errs = append(errs, fmt.Errorf("%s: %w", format, err))
	}
	if len(errs) == 0 {
		return nil, 0, fmt.Errorf("%w: no formats to try", ErrDecode)
	}
	return nil, 0, fmt.Errorf("%w: no encoding matched: %w", ErrDecode, errors.Join(errs...))
}

// decodeAs parses data in one format and validates the result. It never
// returns a partially populated File.
func decodeAs(data []byte, format Format, cfg readConfig) (*File, error) {
	if len(data) == 0 {
		return nil, errors.New("empty input")
	}
	var w wireFile
	var err error
	switch format {
	case FormatBSON:
		err = unmarshalBSON(data, &w)
	case FormatCBOR:
		err = unmarshalCBOR(data, &w)
	case FormatJSON:
		err = unmarshalJSON(data, &w)
	default:
		return nil, fmt.Errorf("unknown format %s", format)
	}
	if err != nil {
		return nil, err
	}
	if err := validateWire(&w, cfg.limits, cfg.verifyChecksums); err != nil {
		return nil, err
	}
	return fromWire(&w), nil
}

// unmarshalStrictJSON accepts comments and trailing commas, but rejects
// unknown fields and anything after the top-level value.
func unmarshalStrictJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("trailing data after JSON document")
	}
	return nil
}
