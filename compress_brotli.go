//go:build !mango_nobrotli

package mango

import (
	"bytes"
	"io"

	"github.com/andybalholm/brotli"
)

// Function variables for testing injection.
var (
	brotliClose = func(w *brotli.Writer) error { return w.Close() }
	brotliWrite = func(w *brotli.Writer, p []byte) (int, error) { return w.Write(p) }
)

func init() {
	registerCompression(CompressionBrotli, compressionCodec{compress: brotliCompress, decompress: brotliDecompress})
}

// brotliCompress compresses in using the Brotli algorithm.
func brotliCompress(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := brotliCompressTo(&buf, in); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// brotliCompressTo writes Brotli-compressed data to w.
func brotliCompressTo(w io.Writer, in []byte) error {
	bw := brotli.NewWriter(w)
	if _, err := brotliWrite(bw, in); err != nil {
		_ = brotliClose(bw)
		return err
	}
	return brotliClose(bw)
}

// brotliDecompress decompresses Brotli-compressed data, bounded by max.
func brotliDecompress(in []byte, max uint64) ([]byte, error) {
	return readBounded(brotli.NewReader(bytes.NewReader(in)), max, "brotli")
}
