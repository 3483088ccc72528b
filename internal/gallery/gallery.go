// Package gallery holds the wire model shared by the gallery editor and the
// reconciliation server: change-set entries, pending deletions, seed snapshots
// and the storage path that joins object-store keys to relational rows.
package gallery

import "io"

// Origin tells whether a change-set entry refers to a binary that still has
// to be uploaded or to an already persisted image row.
type Origin string

const (
	OriginNew      Origin = "new"
	OriginExisting Origin = "existing"
)

// Binary is an in-memory or on-disk file travelling with a new media item.
type Binary interface {
	Name() string
	MimeHint() string
	Open() (io.ReadCloser, error)
}

// Entry is one element of ChangeSet.Metadata. Origin-specific fields:
//   - new:      LocalID
//   - existing: PersistedID, StorageKey, URL
type Entry struct {
	Origin      Origin `json:"origin"`
	LocalID     string `json:"localId,omitempty"`
	PersistedID string `json:"id,omitempty"`
	StorageKey  string `json:"storageKey,omitempty"`
	URL         string `json:"url,omitempty"`
	OrderIndex  int    `json:"orderIndex"`
	IsFeatured  bool   `json:"isFeatured"`
}

// Identity returns the id used to address the entry: the local id for new
// entries, the row id for existing ones.
func (e Entry) Identity() string {
	switch e.Origin {
	case OriginNew:
		return e.LocalID
	case OriginExisting:
		return e.PersistedID
	}
	return ""
}

// PendingDeletion is recorded when an existing item leaves the collection.
type PendingDeletion struct {
	PersistedID string `json:"id"`
	StorageKey  string `json:"storageKey"`
}

// ChangeSet describes everything the server must do to bring the backing
// stores in line with the edited collection.
type ChangeSet struct {
	Metadata  []Entry
	Payloads  map[string]Binary
	Deletions []PendingDeletion
}

// Featured returns the first featured entry, if any.
func (cs ChangeSet) Featured() (Entry, bool) {
	for _, e := range cs.Metadata {
		if e.IsFeatured {
			return e, true
		}
	}
	return Entry{}, false
}

// Empty reports whether applying the change-set would touch nothing.
func (cs ChangeSet) Empty() bool {
	return len(cs.Metadata) == 0 && len(cs.Deletions) == 0
}

// Snapshot is a persisted image as served to the editor for seeding.
type Snapshot struct {
	ID         string `json:"id"`
	StorageKey string `json:"storageKey"`
	URL        string `json:"url"`
	OrderIndex int    `json:"orderIndex"`
	IsFeatured bool   `json:"isFeatured"`
}
