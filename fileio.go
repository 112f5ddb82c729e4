package mango

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Function variables for testing injection.
var (
	readFile   = os.ReadFile
	createTemp = os.CreateTemp
	rename     = os.Rename
	syncFile   = func(f *os.File) error { return f.Sync() }
)

// ContainerPath returns path with the .mango extension appended if it
// does not already end in it.
func ContainerPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), Extension) {
		return path
	}
	return path + Extension
}

// Save writes f to path atomically. The .mango extension is appended
// when missing; use ContainerPath to learn the final name. The format
// defaults to DefaultFormat and can be chosen with WithFormat.
//
// A reader never observes a partly written file: the data goes to a
// temporary file in the same directory, is synced, and is then renamed
// over the target. The rename replaces the directory entry, so an
// existing target is overwritten even when the file itself is
// read-only; only the directory's permissions are checked.
//
// Save returns ErrInvalidInput for a nil file or empty path, ErrEncode
// if serialization fails, ErrPermission if the directory or target is
// not writable, and ErrWrite for other I/O failures.
func (f *File) Save(path string, opts ...WriteOption) error {
	cfg := newWriteConfig(opts)
	if f == nil {
		return fmt.Errorf("%w: file is nil", ErrInvalidInput)
	}
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidInput)
	}
	b, err := Marshal(f, cfg.format)
	if err != nil {
		return err
	}
	target := ContainerPath(path)
	if err := writeFileAtomic(target, b, cfg.mode, cfg.logger); err != nil {
		return err
	}
	cfg.logger.Debug("saved mango file", "path", target, "format", cfg.format, "images", f.Len(), "bytes", len(b))
	return nil
}

func (f *File) SaveBSON(path string) error { return f.Save(path, WithFormat(FormatBSON)) }
func (f *File) SaveCBOR(path string) error { return f.Save(path, WithFormat(FormatCBOR)) }
func (f *File) SaveJSON(path string) error { return f.Save(path, WithFormat(FormatJSON)) }

// Open reads and decodes the Mango file at path. See OpenFormat.
func Open(path string, opts ...ReadOption) (*File, error) {
	f, _, err := OpenFormat(path, opts...)
	return f, err
}

// OpenFormat reads the Mango file at path and reports which format it
// was stored in. The extension plays no part in detection; formats are
// tried in the order documented on Decode.
//
// A missing or unreadable file fails with ErrRead or ErrPermission.
// Bytes that no format accepts fail with ErrDecode.
func OpenFormat(path string, opts ...ReadOption) (*File, Format, error) {
	cfg := newReadConfig(opts)
	if path == "" {
		return nil, 0, fmt.Errorf("%w: empty path", ErrInvalidInput)
	}
	st, err := os.Stat(path)
	if err != nil {
		return nil, 0, fsError(ErrRead, err)
	}
	if st.IsDir() {
		return nil, 0, fmt.Errorf("%w: %s is a directory", ErrInvalidInput, path)
	}
	if uint64(st.Size()) > cfg.limits.MaxFileSize {
		return nil, 0, fmt.Errorf("%w: %w: %s is %d bytes, max %d", ErrDecode, ErrLimitExceeded, path, st.Size(), cfg.limits.MaxFileSize)
	}
	data, err := readFile(path)
	if err != nil {
		return nil, 0, fsError(ErrRead, err)
	}
	cfg.logger.Debug("opening mango file", "path", path, "bytes", len(data))
	return decodeBytes(data, cfg)
}

// writeFileAtomic writes data to a temporary file next to path and
// renames it into place. The temporary file is removed on failure.
func writeFileAtomic(path string, data []byte, mode fs.FileMode, logger *slog.Logger) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := createTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fsError(ErrWrite, err)
	}
	tmpPath := tmp.Name()
	logger.Debug("writing temp file", "path", tmpPath)

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fsError(ErrWrite, err)
	}
	if err := syncFile(tmp); err != nil {
		_ = tmp.Close()
		return fsError(ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fsError(ErrWrite, err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fsError(ErrWrite, err)
	}
	if err := rename(tmpPath, path); err != nil {
		return fsError(ErrWrite, err)
	}
	success = true
	return nil
}

// fsError classifies a filesystem error: permission problems become
// ErrPermission, everything else becomes kind.
func fsError(kind, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermission, err)
	}
	return fmt.Errorf("%w: %w", kind, err)
}
