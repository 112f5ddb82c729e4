package mango

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/woozymasta/lzss"
)

// Function variables for testing injection.
var (
	newGzipWriter = func(w io.Writer) (*gzip.Writer, error) { return gzip.NewWriterLevel(w, gzip.BestCompression) }
	newZstdWriter = func() (*zstd.Encoder, error) { return zstd.NewWriter(nil) }
	newZstdReader = func(max uint64) (*zstd.Decoder, error) {
		return zstd.NewReader(nil, zstd.WithDecoderMaxMemory(max))
	}
	readAll      = io.ReadAll
	gzipClose    = func(w *gzip.Writer) error { return w.Close() }
	lz4Close     = func(w *lz4.Writer) error { return w.Close() }
	lzssCompress = func(in []byte) ([]byte, error) { return lzss.Compress(in, lzss.DefaultCompressOptions()) }
)

func init() {
	registerCompression(CompressionGZIP, compressionCodec{compress: gzipCompress, decompress: gzipDecompress})
	registerCompression(CompressionZSTD, compressionCodec{compress: zstdCompress, decompress: zstdDecompress})
	registerCompression(CompressionLZ4, compressionCodec{compress: lz4Compress, decompress: lz4Decompress})
	registerCompression(CompressionLZSS, compressionCodec{compress: lzssEnvelope, decompress: lzssOpen})
}

// readBounded reads r fully, failing once more than max bytes come out.
func readBounded(r io.Reader, max uint64, algo string) ([]byte, error) {
	limit := int64(math.MaxInt64)
	if max < math.MaxInt64 {
		limit = int64(max) + 1
	}
	b, err := readAll(io.LimitReader(r, limit))
	if err != nil {
		return nil, err
	}
	if uint64(len(b)) > max {
		return nil, fmt.Errorf("%w: %s expanded beyond %d bytes", ErrLimitExceeded, algo, max)
	}
	return b, nil
}

// gzipCompress compresses in using gzip at best compression.
func gzipCompress(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := newGzipWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(in); err != nil {
		_ = gzipClose(zw)
		return nil, err
	}
	if err := gzipClose(zw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gzipDecompress(in []byte, max uint64) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(in))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return readBounded(zr, max, "gzip")
}

// zstdCompress compresses in using the Zstandard algorithm.
func zstdCompress(in []byte) ([]byte, error) {
	enc, err := newZstdWriter()
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(in, nil), nil
}

// zstdDecompress decompresses Zstandard-compressed data.
// It rejects output that exceeds max bytes.
func zstdDecompress(in []byte, max uint64) ([]byte, error) {
	dec, err := newZstdReader(max)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	out, err := dec.DecodeAll(in, nil)
	if errors.Is(err, zstd.ErrDecoderSizeExceeded) || errors.Is(err, zstd.ErrWindowSizeExceeded) {
		return nil, fmt.Errorf("%w: zstd expanded beyond %d bytes", ErrLimitExceeded, max)
	}
	if err != nil {
		return nil, err
	}
	if uint64(len(out)) > max {
		return nil, fmt.Errorf("%w: zstd expanded beyond %d bytes", ErrLimitExceeded, max)
	}
	return out, nil
}

// lz4Compress compresses in using the LZ4 frame format.
func lz4Compress(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := lz4CompressTo(&buf, in); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// lz4CompressTo writes LZ4-compressed data to w.
func lz4CompressTo(w io.Writer, in []byte) error {
	zw := lz4.NewWriter(w)
	if _, err := zw.Write(in); err != nil {
		_ = lz4Close(zw)
		return err
	}
	return lz4Close(zw)
}

func lz4Decompress(in []byte, max uint64) ([]byte, error) {
	return readBounded(lz4.NewReader(bytes.NewReader(in)), max, "lz4")
}

// LZSS streams carry no length of their own, so the payload is
// prefixed with the 8-byte little-endian uncompressed length.
const lzssPrefixLen = 8

func lzssEnvelope(in []byte) ([]byte, error) {
	if len(in) == 0 {
		return make([]byte, lzssPrefixLen), nil
	}
	compressed, err := lzssCompress(in)
	if err != nil {
		return nil, err
	}
	out := make([]byte, lzssPrefixLen, lzssPrefixLen+len(compressed))
	binary.LittleEndian.PutUint64(out, uint64(len(in)))
	return append(out, compressed...), nil
}

func lzssOpen(in []byte, max uint64) ([]byte, error) {
	if len(in) < lzssPrefixLen {
		return nil, fmt.Errorf("%w: lzss payload too short for length prefix", ErrTransform)
	}
	n := binary.LittleEndian.Uint64(in[:lzssPrefixLen])
	if n > max || n > math.MaxInt32 {
		return nil, fmt.Errorf("%w: lzss length %d exceeds %d bytes", ErrLimitExceeded, n, max)
	}
	if n == 0 {
		return []byte{}, nil
	}
	var out bytes.Buffer
	out.Grow(int(n))
	if _, err := lzss.DecompressToWriter(&out, bytes.NewReader(in[lzssPrefixLen:]), int(n), nil); err != nil {
		return nil, err
	}
	if uint64(out.Len()) != n {
		return nil, fmt.Errorf("%w: lzss produced %d bytes, expected %d", ErrTransform, out.Len(), n)
	}
	return out.Bytes(), nil
}
