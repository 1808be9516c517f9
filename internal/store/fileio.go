package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	filePerm = 0o600
	dirPerm  = 0o750
)

// encodeJSON renders v with four-space indentation and a trailing newline
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place, so readers see either the old file or the new one.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}

// writeJSON encodes v and writes it atomically
func writeJSON(path string, v any) error {
	data, err := encodeJSON(v)
	if err != nil {
		return newFileError(ErrTypeWrite, "encode", path, err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return newFileError(ErrTypeWrite, "write", path, err)
	}
	return nil
}

// readJSON decodes path into v. Numbers decode as json.Number.
// A missing file returns an error satisfying os.IsNotExist through Unwrap.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path) //nolint:gosec // Paths come from configuration
	if err != nil {
		return newFileError(ErrTypeRead, "read", path, err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return newFileError(ErrTypeDecode, "decode", path, err)
	}
	return nil
}
