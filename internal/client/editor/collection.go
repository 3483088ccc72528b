// Package editor implements the client side of gallery editing: an ordered
// collection of new and existing photos that keeps exactly one photo featured,
// the extraction of a change-set from it, and the editing session lifecycle.
//
// A Collection is owned by a single goroutine (the UI loop). Previews resolve
// on their own goroutines and are internally synchronized.
package editor

import (
	"slices"
	"sort"

	"github.com/oklog/ulid/v2"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/gallery"
)

// Collection is the ordered, mutable set of media items being edited.
// Unknown identities passed to any mutation are ignored.
type Collection struct {
	items     []MediaItem
	deletions []gallery.PendingDeletion
	seeded    bool

	previewer Previewer
	newID     func() string
}

// Option configures a Collection.
type Option func(*Collection)

// WithPreviewer sets the service used to create previews for added files.
func WithPreviewer(p Previewer) Option {
	return func(c *Collection) { c.previewer = p }
}

// WithIDGenerator overrides how local ids are minted (ULIDs by default).
func WithIDGenerator(fn func() string) Option {
	return func(c *Collection) { c.newID = fn }
}

func NewCollection(opts ...Option) *Collection {
	c := &Collection{
		previewer: noopPreviewer{},
		newID:     func() string { return ulid.Make().String() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Seed loads persisted images sorted by their order index. Only the first
// call in the lifetime of the collection has an effect; it reports whether
// it did.
func (c *Collection) Seed(snapshots []gallery.Snapshot) bool {
	if c.seeded {
		return false
	}
	c.seeded = true

	sorted := slices.Clone(snapshots)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].OrderIndex < sorted[j].OrderIndex })

	existing := make([]MediaItem, 0, len(sorted)+len(c.items))
	for _, s := range sorted {
		existing = append(existing, &ExistingItem{
			PersistedID: s.ID,
			StorageKey:  s.StorageKey,
			RemoteURI:   s.URL,
			IsFeatured:  s.IsFeatured,
		})
	}
	c.items = append(existing, c.items...)
	c.normalizeFeatured()
	return true
}

// AddFiles appends one new item per binary and returns their local ids. When
// nothing was featured before the call, the first added item becomes featured.
func (c *Collection) AddFiles(binaries []gallery.Binary) []string {
	if len(binaries) == 0 {
		return nil
	}
	_, hadFeatured := c.featuredIndex()

	ids := make([]string, 0, len(binaries))
	for i, b := range binaries {
		item := &NewItem{
			LocalID:    c.newID(),
			Binary:     b,
			Preview:    startPreview(c.previewer, b),
			IsFeatured: !hadFeatured && i == 0,
		}
		c.items = append(c.items, item)
		ids = append(ids, item.LocalID)
	}
	return ids
}

// Remove drops the item with the given id. New items release their preview;
// existing items are recorded as pending deletions. If the removed item was
// featured, the new first item is promoted.
func (c *Collection) Remove(id string) {
	idx := c.indexOf(id)
	if idx < 0 {
		return
	}
	removed := c.items[idx]

	switch item := removed.(type) {
	case *NewItem:
		if item.Preview != nil {
			item.Preview.Release()
		}
	case *ExistingItem:
		c.deletions = append(c.deletions, gallery.PendingDeletion{
			PersistedID: item.PersistedID,
			StorageKey:  item.StorageKey,
		})
	}

	c.items = slices.Delete(c.items, idx, idx+1)
	if removed.Featured() && len(c.items) > 0 {
		c.items[0].setFeatured(true)
	}
}

// Reorder moves the item to position toIndex (0-based, clamped to the valid
// range), shifting the items in between.
func (c *Collection) Reorder(id string, toIndex int) {
	from := c.indexOf(id)
	if from < 0 {
		return
	}
	to := max(0, min(toIndex, len(c.items)-1))
	if from == to {
		return
	}
	item := c.items[from]
	c.items = slices.Delete(c.items, from, from+1)
	c.items = slices.Insert(c.items, to, item)
}

// MoveOver moves the active item to the position currently held by the item
// it was dropped over.
func (c *Collection) MoveOver(activeID, overID string) {
	to := c.indexOf(overID)
	if to < 0 {
		return
	}
	c.Reorder(activeID, to)
}

// SetFeatured makes the given item the only featured one.
func (c *Collection) SetFeatured(id string) {
	idx := c.indexOf(id)
	if idx < 0 {
		return
	}
	for i, item := range c.items {
		item.setFeatured(i == idx)
	}
}

// Items returns copies of the items in display order.
func (c *Collection) Items() []MediaItem {
	out := make([]MediaItem, len(c.items))
	for i, item := range c.items {
		out[i] = item.clone()
	}
	return out
}

func (c *Collection) Len() int { return len(c.items) }

// Get returns a copy of the item with the given id.
func (c *Collection) Get(id string) (MediaItem, bool) {
	idx := c.indexOf(id)
	if idx < 0 {
		return nil, false
	}
	return c.items[idx].clone(), true
}

// Featured returns a copy of the featured item, if any.
func (c *Collection) Featured() (MediaItem, bool) {
	idx, ok := c.featuredIndex()
	if !ok {
		return nil, false
	}
	return c.items[idx].clone(), true
}

// PendingDeletions returns the existing items removed so far.
func (c *Collection) PendingDeletions() []gallery.PendingDeletion {
	return slices.Clone(c.deletions)
}

// ChangeSet extracts the change-set of the current state.
func (c *Collection) ChangeSet() gallery.ChangeSet {
	return Extract(c.items, c.deletions)
}

// Discard releases every outstanding preview. The collection keeps its items.
func (c *Collection) Discard() {
	for _, item := range c.items {
		if n, ok := item.(*NewItem); ok && n.Preview != nil {
			n.Preview.Release()
		}
	}
}

// indexOf resolves an id to its first position, or -1.
func (c *Collection) indexOf(id string) int {
	return slices.IndexFunc(c.items, func(item MediaItem) bool { return item.ID() == id })
}

func (c *Collection) featuredIndex() (int, bool) {
	idx := slices.IndexFunc(c.items, func(item MediaItem) bool { return item.Featured() })
	return idx, idx >= 0
}

// normalizeFeatured keeps only the first featured item and promotes the first
// item when none is featured.
func (c *Collection) normalizeFeatured() {
	if len(c.items) == 0 {
		return
	}
	idx, ok := c.featuredIndex()
	if !ok {
		idx = 0
	}
	for i, item := range c.items {
		item.setFeatured(i == idx)
	}
}
