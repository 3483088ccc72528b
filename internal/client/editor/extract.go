package editor

import "github.com/robertvg253/arrankar-vehiculos-app/internal/gallery"

// Extract derives the change-set for items in their final order and the
// existing items removed from them. It depends on nothing but its inputs.
func Extract(items []MediaItem, deletions []gallery.PendingDeletion) gallery.ChangeSet {
	cs := gallery.ChangeSet{
		Metadata:  make([]gallery.Entry, 0, len(items)),
		Payloads:  make(map[string]gallery.Binary),
		Deletions: append(make([]gallery.PendingDeletion, 0, len(deletions)), deletions...),
	}

	for i, it := range items {
		switch item := it.(type) {
		case *NewItem:
			cs.Metadata = append(cs.Metadata, gallery.Entry{
				Origin:     gallery.OriginNew,
				LocalID:    item.LocalID,
				OrderIndex: i + 1,
				IsFeatured: item.IsFeatured,
			})
			cs.Payloads[item.LocalID] = item.Binary
		case *ExistingItem:
			cs.Metadata = append(cs.Metadata, gallery.Entry{
				Origin:      gallery.OriginExisting,
				PersistedID: item.PersistedID,
				StorageKey:  item.StorageKey,
				URL:         item.RemoteURI,
				OrderIndex:  i + 1,
				IsFeatured:  item.IsFeatured,
			})
		}
	}
	return cs
}
