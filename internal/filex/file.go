// Package filex holds small filesystem helpers on top of afero.
package filex

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// EnsureDir creates dir on fs if needed and returns its absolute form.
// Relative paths are resolved against the working directory.
func EnsureDir(fs afero.Fs, dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}

	if err := fs.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// WriteAtomic writes data to name through a temporary sibling file and a
// rename, so readers never observe a partially written file.
func WriteAtomic(fs afero.Fs, name string, data []byte) error {
	if err := fs.MkdirAll(filepath.Dir(name), 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(name), err)
	}

	tmp := name + ".part"
	if err := afero.WriteFile(fs, tmp, data, 0o660); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := fs.Rename(tmp, name); err != nil {
		_ = fs.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
