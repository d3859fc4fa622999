package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const filePerm = 0o644

// ReadFile loads and decodes the inventory file at path. A missing file is
// not an error: it returns found == false and a nil image.
func ReadFile(path string) (img *Image, found bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}

	img, err = Decode(data)
	if err != nil {
		return nil, true, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, true, nil
}

// WriteFile encodes img and atomically replaces the file at path.
//
// The image goes to a temporary file in the same directory, which is
// flushed to disk before it is renamed over path. When backup is not empty
// and path already exists, the previous content is first copied to backup.
// On any failure the temporary file is removed and path is left as it was.
func WriteFile(path, backup string, img *Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp := tempName(path)
	if err := writeSynced(tmp, func(w io.Writer) error {
		return Encode(w, img)
	}); err != nil {
		return err
	}

	if backup != "" {
		if err := copyFile(path, backup); err != nil && !errors.Is(err, fs.ErrNotExist) {
			_ = os.Remove(tmp)
			return fmt.Errorf("backup %s: %w", path, err)
		}
	}

	// Atomic rename temp -> final
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename temp to %s: %w", path, err)
	}
	return nil
}

// copyFile replaces dst with a copy of src using the same temp-and-rename
// discipline as WriteFile.
func copyFile(src, dst string) error {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sf.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	tmp := tempName(dst)
	if err := writeSynced(tmp, func(w io.Writer) error {
		_, err := io.Copy(w, sf)
		return err
	}); err != nil {
		return err
	}

	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename temp to %s: %w", dst, err)
	}
	return nil
}

// writeSynced creates name, fills it through fill and flushes it to disk.
// The file is removed again if any step fails.
func writeSynced(name string, fill func(io.Writer) error) error {
	f, err := os.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	fail := func(err error) error {
		_ = f.Close()
		_ = os.Remove(name)
		return err
	}

	w := bufio.NewWriter(f)
	if err := fill(w); err != nil {
		return fail(fmt.Errorf("write temp file: %w", err))
	}
	if err := w.Flush(); err != nil {
		return fail(fmt.Errorf("flush temp file: %w", err))
	}
	if err := f.Sync(); err != nil {
		return fail(fmt.Errorf("sync temp file: %w", err))
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("close temp file: %w", err)
	}
	return nil
}

func tempName(path string) string {
	return path + ".tmp-" + uuid.NewString()
}
