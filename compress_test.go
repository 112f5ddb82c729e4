package mango

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v4"
)

func TestCompressUncompress_InverseLaw(t *testing.T) {
	payloads := map[string][]byte{
		"empty":    {},
		"jpeg":     jpegBytes,
		"repeated": bytes.Repeat([]byte{0xAB}, 100_000),
		"binary":   {0x00, 0xFF, 0x10, 0x80, 0x7F},
	}
	for _, alg := range SupportedCompressions() {
		for name, p := range payloads {
			t.Run(string(alg)+"/"+name, func(t *testing.T) {
				img := NewImage(p, "x.bin")
				if err := img.Compress(alg); err != nil {
					t.Fatal(err)
				}
				if img.Metadata().Compression() != alg {
					t.Fatalf("compression = %s", img.Metadata().Compression())
				}
				if img.Metadata().Checksum() != Checksum(img.Data()) {
					t.Fatal("checksum must cover the compressed bytes")
				}
				if err := img.Uncompress(); err != nil {
					t.Fatal(err)
				}
				if !bytes.Equal(img.Data(), p) {
					t.Fatal("payload mismatch")
				}
				if img.Metadata().Compressed() || img.Metadata().Checksum() != Checksum(p) {
					t.Fatal("metadata not restored")
				}
			})
		}
	}
}

func TestCompress_AlreadyCompressedLeavesImageUnchanged(t *testing.T) {
	img := NewImage(jpegBytes, "a.jpg")
	if err := img.Compress(CompressionLZ4); err != nil {
		t.Fatal(err)
	}
	before := img.Clone()
	err := img.Compress(CompressionGZIP)
	if !errors.Is(err, ErrAlreadyCompressed) || !errors.Is(err, ErrWrongState) {
		t.Fatalf("expected ErrAlreadyCompressed, got %v", err)
	}
	if CodeOf(err) != CodeAlreadyCompressed {
		t.Fatalf("code = %s", CodeOf(err))
	}
	if !img.Equal(before) {
		t.Fatal("failed compress mutated the image")
	}
}

func TestUncompress_NotCompressed(t *testing.T) {
	img := NewImage(jpegBytes, "a.jpg")
	if err := img.Uncompress(); !errors.Is(err, ErrNotCompressed) {
		t.Fatalf("expected ErrNotCompressed, got %v", err)
	}
}

func TestCompress_Unsupported(t *testing.T) {
	img := NewImage(jpegBytes, "a.jpg")
	before := img.Clone()
	for _, alg := range []Compression{CompressionNone, "ZIP", "gzip"} {
		if err := img.Compress(alg); !errors.Is(err, ErrUnsupportedAlgorithm) {
			t.Fatalf("%q: expected ErrUnsupportedAlgorithm, got %v", alg, err)
		}
	}
	if !img.Equal(before) {
		t.Fatal("image mutated")
	}
}

func TestUncompress_CorruptPayloadIsTransformError(t *testing.T) {
	img := NewImage(jpegBytes, "a.jpg")
	img.meta.compression = CompressionGZIP // payload is not actually gzip
	before := img.Clone()
	if err := img.Uncompress(); !errors.Is(err, ErrTransform) {
		t.Fatalf("expected ErrTransform, got %v", err)
	}
	if !img.Equal(before) {
		t.Fatal("image mutated")
	}
}

func TestRegistry_Probes(t *testing.T) {
	for _, name := range []string{"GZIP", "ZSTD", "LZ4", "LZSS"} {
		if !CompressionSupported(name) || !AlgorithmSupported(KindCompression, name) {
			t.Fatalf("%s should be supported", name)
		}
	}
	for _, name := range []string{"AES128", "AES256", "XCHACHA20"} {
		if !EncryptionSupported(name) || !AlgorithmSupported(KindEncryption, name) {
			t.Fatalf("%s should be supported", name)
		}
	}
	for _, name := range []string{"", "NONE", "gzip", "DES"} {
		if CompressionSupported(name) || EncryptionSupported(name) {
			t.Fatalf("%q should not be supported", name)
		}
	}
	if AlgorithmSupported(KindEncryption, "GZIP") || AlgorithmSupported(AlgorithmKind(0), "GZIP") {
		t.Fatal("kind must select the table")
	}
	names := SupportedCompressions()
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("not sorted: %v", names)
		}
	}
}

func TestReadBounded(t *testing.T) {
	if _, err := readBounded(strings.NewReader("12345"), 4, "test"); !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
	b, err := readBounded(strings.NewReader("1234"), 4, "test")
	if err != nil || string(b) != "1234" {
		t.Fatalf("got %q, %v", b, err)
	}
}

func TestDecompress_Limits(t *testing.T) {
	big := bytes.Repeat([]byte("a"), 4096)
	for _, alg := range SupportedCompressions() {
		codec, _ := lookupCompression(alg)
		packed, err := codec.compress(big)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := codec.decompress(packed, 100); !errors.Is(err, ErrLimitExceeded) {
			t.Fatalf("%s: expected ErrLimitExceeded, got %v", alg, err)
		}
		out, err := codec.decompress(packed, uint64(len(big)))
		if err != nil || !bytes.Equal(out, big) {
			t.Fatalf("%s: exact limit must pass: %v", alg, err)
		}
	}
}

func TestLZSS_Envelope(t *testing.T) {
	if _, err := lzssOpen([]byte{1, 2, 3}, 100); !errors.Is(err, ErrTransform) {
		t.Fatalf("short payload: %v", err)
	}
	env, err := lzssEnvelope([]byte("hello hello hello"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := lzssOpen(env, 5); !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("declared length over max: %v", err)
	}
}

func TestCompressHelpers_ErrorPaths(t *testing.T) {
	origGzip := newGzipWriter
	newGzipWriter = func(io.Writer) (*gzip.Writer, error) { return nil, io.ErrClosedPipe }
	if _, err := gzipCompress([]byte("x")); err == nil {
		newGzipWriter = origGzip
		t.Fatal("expected error")
	}
	newGzipWriter = origGzip

	origGzipClose := gzipClose
	gzipClose = func(*gzip.Writer) error { return io.ErrClosedPipe }
	if _, err := gzipCompress([]byte("x")); err == nil {
		gzipClose = origGzipClose
		t.Fatal("expected error")
	}
	gzipClose = origGzipClose

	if err := lz4CompressTo(failingWriter{}, []byte("x")); err == nil {
		t.Fatal("expected error")
	}
	origLZ4Close := lz4Close
	lz4Close = func(*lz4.Writer) error { return io.ErrClosedPipe }
	if _, err := lz4Compress([]byte("x")); err == nil {
		lz4Close = origLZ4Close
		t.Fatal("expected error")
	}
	lz4Close = origLZ4Close

	origLZSS := lzssCompress
	lzssCompress = func([]byte) ([]byte, error) { return nil, io.ErrClosedPipe }
	img := NewImage(jpegBytes, "a.jpg")
	if err := img.Compress(CompressionLZSS); !errors.Is(err, ErrTransform) {
		lzssCompress = origLZSS
		t.Fatalf("expected ErrTransform, got %v", err)
	}
	lzssCompress = origLZSS
	if img.Metadata().Compressed() {
		t.Fatal("failed compress mutated the image")
	}

	origReadAll := readAll
	readAll = func(io.Reader) ([]byte, error) { return nil, io.ErrUnexpectedEOF }
	if _, err := lz4Decompress([]byte("x"), 10); err == nil {
		readAll = origReadAll
		t.Fatal("expected error")
	}
	readAll = origReadAll

	if _, err := gzipDecompress([]byte("not gzip"), 10); err == nil {
		t.Fatal("expected error")
	}
	if _, err := zstdDecompress([]byte("not zstd"), 10); err == nil {
		t.Fatal("expected error")
	}
}
