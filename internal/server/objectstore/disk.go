package objectstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/robertvg253/arrankar-vehiculos-app/internal/filex"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/gallery"
	"github.com/spf13/afero"
)

// DiskStore keeps objects as files below a root directory. It is meant for
// development and single-node deployments; Handler serves the files back.
type DiskStore struct {
	fs        afero.Fs
	root      string
	publicURL string
}

func NewDiskStore(fs afero.Fs, root, publicURL string) (*DiskStore, error) {
	dir, err := filex.EnsureDir(fs, root)
	if err != nil {
		return nil, err
	}
	return &DiskStore{fs: fs, root: dir, publicURL: publicURL}, nil
}

func (d *DiskStore) Put(ctx context.Context, path string, b gallery.Binary) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := readBinary(b)
	if err != nil {
		return "", err
	}
	if err := filex.WriteAtomic(d.fs, d.fullPath(path), data); err != nil {
		return "", err
	}
	return d.URL(path), nil
}

// Remove deletes the file at path. A missing file is not an error.
func (d *DiskStore) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.fs.Remove(d.fullPath(path)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

func (d *DiskStore) URL(path string) string {
	return joinURL(d.publicURL, path)
}

// Handler serves stored objects read-only, relative to the root.
func (d *DiskStore) Handler() http.Handler {
	ro := afero.NewReadOnlyFs(afero.NewBasePathFs(d.fs, d.root))
	return http.FileServer(afero.NewHttpFs(ro).Dir("/"))
}

func (d *DiskStore) fullPath(path string) string {
	return filepath.Join(d.root, filepath.FromSlash(filepath.Clean("/"+path)))
}
