package editor

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/gallery"
	"github.com/spf13/afero"
)

// Previewer creates local, revocable preview URIs for binaries.
type Previewer interface {
	CreatePreviewURI(b gallery.Binary) (string, error)
	RevokePreviewURI(uri string)
}

// Preview is a preview URI that may still be resolving. Release may be called
// at any time, including before the URI is known; the underlying resource is
// revoked exactly once, as soon as both the URI is known and release was
// requested.
type Preview struct {
	done chan struct{}

	mu       sync.Mutex
	uri      string
	err      error
	released bool

	revokeOnce sync.Once
	revoke     func(string)
}

func startPreview(p Previewer, b gallery.Binary) *Preview {
	pv := &Preview{done: make(chan struct{}), revoke: p.RevokePreviewURI}

	go func() {
		uri, err := p.CreatePreviewURI(b)

		pv.mu.Lock()
		pv.uri, pv.err = uri, err
		close(pv.done)
		release := pv.released
		pv.mu.Unlock()

		if release {
			pv.doRevoke()
		}
	}()

	return pv
}

// URI returns the preview URI if it has resolved successfully.
func (p *Preview) URI() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.resolvedLocked() || p.err != nil {
		return "", false
	}
	return p.uri, true
}

// Wait blocks until the preview resolves or ctx is done.
func (p *Preview) Wait(ctx context.Context) (string, error) {
	select {
	case <-p.done:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.uri, p.err
}

// Release requests revocation of the preview. It is idempotent.
func (p *Preview) Release() {
	p.mu.Lock()
	if p.released {
		p.mu.Unlock()
		return
	}
	p.released = true
	resolved := p.resolvedLocked()
	p.mu.Unlock()

	if resolved {
		p.doRevoke()
	}
}

func (p *Preview) resolvedLocked() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *Preview) doRevoke() {
	p.revokeOnce.Do(func() {
		if p.err == nil && p.uri != "" {
			p.revoke(p.uri)
		}
	})
}

// TempPreviewer materializes previews as files under a scratch directory and
// hands out file:// URIs that an image viewer can open.
type TempPreviewer struct {
	fs  afero.Fs
	dir string
}

func NewTempPreviewer(fs afero.Fs, dir string) *TempPreviewer {
	return &TempPreviewer{fs: fs, dir: dir}
}

func (t *TempPreviewer) CreatePreviewURI(b gallery.Binary) (string, error) {
	src, err := b.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", b.Name(), err)
	}
	defer src.Close()

	name := path.Join(t.dir, ulid.Make().String()+"-"+path.Base(b.Name()))
	dst, err := t.fs.Create(name)
	if err != nil {
		return "", fmt.Errorf("create preview: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = t.fs.Remove(name)
		return "", fmt.Errorf("write preview: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close preview: %w", err)
	}

	return (&url.URL{Scheme: "file", Path: name}).String(), nil
}

func (t *TempPreviewer) RevokePreviewURI(uri string) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return
	}
	_ = t.fs.Remove(u.Path)
}

type noopPreviewer struct{}

func (noopPreviewer) CreatePreviewURI(gallery.Binary) (string, error) { return "", nil }
func (noopPreviewer) RevokePreviewURI(string)                         {}
