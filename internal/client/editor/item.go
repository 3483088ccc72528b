package editor

import "github.com/robertvg253/arrankar-vehiculos-app/internal/gallery"

// MediaItem is one photo of the gallery being edited. It is a closed union of
// *NewItem and *ExistingItem; code that needs origin-specific data switches on
// the concrete type.
type MediaItem interface {
	// ID is the identity used by Remove, Reorder and SetFeatured.
	ID() string
	Featured() bool
	Origin() gallery.Origin

	setFeatured(bool)
	clone() MediaItem
}

// NewItem is a local file that has not been uploaded yet.
type NewItem struct {
	LocalID    string
	Binary     gallery.Binary
	Preview    *Preview
	IsFeatured bool
}

func (i *NewItem) ID() string             { return i.LocalID }
func (i *NewItem) Featured() bool         { return i.IsFeatured }
func (i *NewItem) Origin() gallery.Origin { return gallery.OriginNew }
func (i *NewItem) setFeatured(f bool)     { i.IsFeatured = f }
func (i *NewItem) clone() MediaItem       { c := *i; return &c }

// ExistingItem is an image already persisted in both backing stores.
type ExistingItem struct {
	PersistedID string
	StorageKey  string
	RemoteURI   string
	IsFeatured  bool
}

func (i *ExistingItem) ID() string             { return i.PersistedID }
func (i *ExistingItem) Featured() bool         { return i.IsFeatured }
func (i *ExistingItem) Origin() gallery.Origin { return gallery.OriginExisting }
func (i *ExistingItem) setFeatured(f bool)     { i.IsFeatured = f }
func (i *ExistingItem) clone() MediaItem       { c := *i; return &c }
