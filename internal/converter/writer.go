package converter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nconklindev/excipients/internal/logging"
)

// EnsureOutputDir creates dir and its parents if they do not exist.
func EnsureOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &WriteError{Path: dir, Err: err}
	}
	return nil
}

// EncodeJSON renders v as indented UTF-8 JSON. Non-ASCII text and HTML
// characters are written as-is.
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSONFile encodes v and replaces path with the result. The content is
// written to a temporary file next to path and renamed over it, so path ends
// up either untouched or complete.
func WriteJSONFile(path string, v any) error {
	data, err := EncodeJSON(v)
	if err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("encode: %w", err)}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	tmpName := tmp.Name()
	defer func() {
		// Leftover only when something failed before the rename.
		if _, err := os.Stat(tmpName); err == nil {
			if err := os.Remove(tmpName); err != nil {
				logging.Warn("Failed to remove temporary file", "file", tmpName, "error", err)
			}
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &WriteError{Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &WriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	logging.Debug("Wrote JSON file", "file", path, "bytes", len(data))
	return nil
}

// VerifyRecordCount parses the JSON array at path and checks that it holds
// want elements.
func VerifyRecordCount(path string, want int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("verify: %w", err)}
	}

	var decoded []json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("verify: %w", err)}
	}
	if len(decoded) != want {
		return &WriteError{Path: path, Err: fmt.Errorf("verify: file holds %d records, expected %d", len(decoded), want)}
	}
	return nil
}
