// Package filex holds filesystem helpers for the on-device data directory.
package filex

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// EnsureDir creates dir (and parents) with owner-only permissions if it
// does not exist and returns its absolute path. A relative dir is resolved
// against the current working directory.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}

// LoadOrCreateKey reads a hex encoded key from path. When the file does not
// exist a new random key of size bytes is generated and written with 0600
// permissions.
func LoadOrCreateKey(path string, size int) ([]byte, error) {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		key, err := hex.DecodeString(strings.TrimSpace(string(data)))
		if err != nil {
			return nil, fmt.Errorf("decode key %s: %w", path, err)
		}
		if len(key) != size {
			return nil, fmt.Errorf("key %s: want %d bytes, got %d", path, size, len(key))
		}
		return key, nil

	case errors.Is(err, fs.ErrNotExist):
		if _, err := EnsureDir(filepath.Dir(path)); err != nil {
			return nil, err
		}
		key := common.GenerateRandByteArray(size)
		if err := os.WriteFile(path, []byte(hex.EncodeToString(key)), 0o600); err != nil {
			return nil, fmt.Errorf("write key %s: %w", path, err)
		}
		return key, nil

	default:
		return nil, fmt.Errorf("read key %s: %w", path, err)
	}
}
