package mango

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/woozymasta/pathrules"
)

// DefaultCBZRules selects the image entries ImportCBZ keeps when no
// rules are given.
var DefaultCBZRules = []pathrules.Rule{
	{Action: pathrules.ActionInclude, Pattern: "*.jpg"},
	{Action: pathrules.ActionInclude, Pattern: "*.jpeg"},
	{Action: pathrules.ActionInclude, Pattern: "*.png"},
	{Action: pathrules.ActionInclude, Pattern: "*.gif"},
	{Action: pathrules.ActionInclude, Pattern: "*.webp"},
}

// CBZOptions controls ImportCBZ.
type CBZOptions struct {
	// Rules select which archive entries become images. Entries that no
	// rule includes are skipped. Nil means DefaultCBZRules.
	Rules []pathrules.Rule
	// Compression, when set, is applied to every imported image.
	Compression Compression
	// Limits bound the archive. Zero fields take DefaultLimits.
	Limits Limits
}

// ImportCBZ builds a File from a CBZ (zip of images) archive. Entries
// are filtered by opts.Rules and added in natural name order, so
// "page2.jpg" comes before "page10.jpg".
func ImportCBZ(r io.ReaderAt, size int64, opts CBZOptions) (*File, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: reader is nil", ErrInvalidInput)
	}
	limits := opts.Limits.withDefaults()
	rules := opts.Rules
	if rules == nil {
		rules = DefaultCBZRules
	}
	matcher, err := pathrules.NewMatcher(rules, pathrules.MatcherOptions{
		CaseInsensitive: true,
		DefaultAction:   pathrules.ActionExclude,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: cbz rules: %w", ErrInvalidInput, err)
	}
	zr, err := zip.NewReader(r, size)
	if errors.Is(err, zip.ErrInsecurePath) {
		return nil, fmt.Errorf("%w: cbz: %w", ErrInvalidInput, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: cbz: %w", ErrDecode, err)
	}

	var entries []*zip.File
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		name, err := cleanEntryName(zf.Name)
		if err != nil {
			return nil, err
		}
		if !matcher.Included(name, false) {
			continue
		}
		entries = append(entries, zf)
	}
	if len(entries) > limits.MaxImages {
		return nil, fmt.Errorf("%w: %d images, max %d", ErrLimitExceeded, len(entries), limits.MaxImages)
	}
	slices.SortStableFunc(entries, func(a, b *zip.File) int {
		return naturalCompare(a.Name, b.Name)
	})

	f := NewFile()
	for _, zf := range entries {
		data, err := readZipEntry(zf, limits.MaxImageSize)
		if err != nil {
			return nil, err
		}
		img := NewImage(data, path.Base(zf.Name))
		if opts.Compression != CompressionNone {
			if err := img.Compress(opts.Compression); err != nil {
				return nil, err
			}
		}
		f.images = append(f.images, img)
	}
	return f, nil
}

// ExportCBZ writes the images of f to w as a CBZ archive, one entry per
// image in order. Every image must be plain: compressed or encrypted
// payloads are not pictures and fail with ErrWrongState.
func ExportCBZ(w io.Writer, f *File) error {
	if w == nil || f == nil {
		return fmt.Errorf("%w: nil writer or file", ErrInvalidInput)
	}
	for i, img := range f.images {
		if img.meta.Compressed() || img.meta.Encrypted() {
			return fmt.Errorf("%w: image %d must be uncompressed and decrypted for export", ErrWrongState, i)
		}
	}
	zw := zip.NewWriter(w)
	width := len(fmt.Sprint(len(f.images)))
	for i, img := range f.images {
		name, _ := img.meta.Filename()
		hdr := &zip.FileHeader{
			Name: fmt.Sprintf("%0*d_%s", width, i+1, exportBaseName(name, i)),
			// Images are already compressed formats.
			Method: zip.Store,
		}
		ew, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
		if _, err := ew.Write(img.data); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

func exportBaseName(name string, i int) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return fmt.Sprintf("image%d", i+1)
	}
	return name
}

func cleanEntryName(name string) (string, error) {
	n := strings.ReplaceAll(name, "\\", "/")
	if strings.HasPrefix(n, "/") || strings.Contains(n, "\x00") {
		return "", fmt.Errorf("%w: cbz entry %q has an unsafe name", ErrInvalidInput, name)
	}
	for _, seg := range strings.Split(n, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: cbz entry %q has an unsafe name", ErrInvalidInput, name)
		}
	}
	return path.Clean(n), nil
}

func readZipEntry(zf *zip.File, max uint64) ([]byte, error) {
	if zf.UncompressedSize64 > max {
		return nil, fmt.Errorf("%w: %s is %d bytes, max %d", ErrLimitExceeded, zf.Name, zf.UncompressedSize64, max)
	}
	rc, err := zf.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, zf.Name, err)
	}
	defer rc.Close()
	data, err := readBounded(rc, max, zf.Name)
	if err != nil {
		if CodeOf(err) == CodeLimitExceeded {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, zf.Name, err)
	}
	return data, nil
}

// naturalCompare orders strings so that runs of digits compare by
// numeric value.
func naturalCompare(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)
	for a != "" && b != "" {
		if isDigit(a[0]) && isDigit(b[0]) {
			da, ra := splitDigits(a)
			db, rb := splitDigits(b)
			ta, tb := strings.TrimLeft(da, "0"), strings.TrimLeft(db, "0")
			if len(ta) != len(tb) {
				return len(ta) - len(tb)
			}
			if c := strings.Compare(ta, tb); c != 0 {
				return c
			}
			if len(da) != len(db) {
				return len(da) - len(db)
			}
			a, b = ra, rb
			continue
		}
		if a[0] != b[0] {
			return int(a[0]) - int(b[0])
		}
		a, b = a[1:], b[1:]
	}
	return len(a) - len(b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func splitDigits(s string) (digits, rest string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[:i], s[i:]
}
