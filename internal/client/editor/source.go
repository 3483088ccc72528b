package editor

import (
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"sort"

	"github.com/robertvg253/arrankar-vehiculos-app/internal/gallery"
	"github.com/spf13/afero"
)

// FileBinary is a gallery.Binary backed by a file on an afero filesystem.
type FileBinary struct {
	fs   afero.Fs
	path string
}

func NewFileBinary(fs afero.Fs, path string) *FileBinary {
	return &FileBinary{fs: fs, path: path}
}

func (f *FileBinary) Name() string { return filepath.Base(f.path) }
func (f *FileBinary) Path() string { return f.path }

// MimeHint is derived from the file extension only.
func (f *FileBinary) MimeHint() string {
	return mime.TypeByExtension(filepath.Ext(f.path))
}

func (f *FileBinary) Open() (io.ReadCloser, error) {
	return f.fs.Open(f.path)
}

// SelectFiles expands the given paths or glob patterns into binaries, in
// pattern order and sorted within each pattern. Directories are skipped.
func SelectFiles(fs afero.Fs, patterns ...string) ([]gallery.Binary, error) {
	var out []gallery.Binary
	for _, pattern := range patterns {
		matches, err := afero.Glob(fs, pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", pattern)
		}
		sort.Strings(matches)
		for _, m := range matches {
			info, err := fs.Stat(m)
			if err != nil {
				return nil, fmt.Errorf("stat %s: %w", m, err)
			}
			if info.IsDir() {
				continue
			}
			out = append(out, NewFileBinary(fs, m))
		}
	}
	return out, nil
}
