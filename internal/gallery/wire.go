package gallery

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/robertvg253/arrankar-vehiculos-app/internal/common"
)

// Multipart field names of a gallery submission.
const (
	FieldMetadata      = "orderedMetadata"
	FieldDeletions     = "deletions"
	PayloadFieldPrefix = "binary_"
)

// Vehicle form fields sent alongside the gallery parts.
const (
	FieldMake        = "make"
	FieldModel       = "model"
	FieldYear        = "year"
	FieldPrice       = "price"
	FieldMileage     = "mileage"
	FieldDescription = "description"
)

// PayloadField is the multipart field name carrying the binary of a new item.
func PayloadField(localID string) string {
	return PayloadFieldPrefix + localID
}

// LocalIDFromField extracts the local id from a payload field name.
func LocalIDFromField(name string) (string, bool) {
	id, ok := strings.CutPrefix(name, PayloadFieldPrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// EncodeMetadata serializes the ordered metadata. A nil slice is encoded as
// an empty array.
func EncodeMetadata(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	return json.Marshal(entries)
}

// DecodeMetadata parses the orderedMetadata part. Empty input means no entries.
func DecodeMetadata(data []byte) ([]Entry, error) {
	var entries []Entry
	if len(strings.TrimSpace(string(data))) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrMalformedChangeSet, FieldMetadata, err)
	}
	return entries, nil
}

// EncodeDeletions serializes the pending deletions.
func EncodeDeletions(deletions []PendingDeletion) ([]byte, error) {
	if deletions == nil {
		deletions = []PendingDeletion{}
	}
	return json.Marshal(deletions)
}

// DecodeDeletions parses the deletions part. Empty input means no deletions.
func DecodeDeletions(data []byte) ([]PendingDeletion, error) {
	var deletions []PendingDeletion
	if len(strings.TrimSpace(string(data))) == 0 {
		return deletions, nil
	}
	if err := json.Unmarshal(data, &deletions); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrMalformedChangeSet, FieldDeletions, err)
	}
	return deletions, nil
}

// Validate checks the structural consistency of a decoded change-set:
// known origins, required origin-specific fields, unique identities, order
// indexes running 1..n in metadata order, at most one featured entry, a
// payload for every new entry and no payload without an entry. A deletion may
// not name a storage key that a kept or new entry uses. Errors wrap
// common.ErrMalformedChangeSet.
func (cs ChangeSet) Validate() error {
	seen := make(map[string]struct{}, len(cs.Metadata))
	keys := make(map[string]struct{}, len(cs.Metadata))
	featured := 0

	for i, e := range cs.Metadata {
		switch e.Origin {
		case OriginNew:
			if e.LocalID == "" {
				return malformed("entry %d: new entry without localId", i)
			}
			if !validKey(e.LocalID) {
				return malformed("entry %d: localId %q is not a valid storage key", i, e.LocalID)
			}
			if _, ok := cs.Payloads[e.LocalID]; !ok {
				return malformed("entry %d: no binary for localId %q", i, e.LocalID)
			}
			keys[e.LocalID] = struct{}{}
		case OriginExisting:
			if e.PersistedID == "" {
				return malformed("entry %d: existing entry without id", i)
			}
			if e.StorageKey != "" {
				keys[e.StorageKey] = struct{}{}
			}
		default:
			return malformed("entry %d: unknown origin %q", i, e.Origin)
		}

		id := string(e.Origin) + ":" + e.Identity()
		if _, dup := seen[id]; dup {
			return malformed("entry %d: duplicate identity %q", i, e.Identity())
		}
		seen[id] = struct{}{}

		if e.OrderIndex != i+1 {
			return malformed("entry %d: orderIndex must be %d, got %d", i, i+1, e.OrderIndex)
		}
		if e.IsFeatured {
			featured++
		}
	}
	if featured > 1 {
		return malformed("%d entries are featured", featured)
	}

	for localID := range cs.Payloads {
		if _, ok := seen[string(OriginNew)+":"+localID]; !ok {
			return malformed("binary %q has no metadata entry", localID)
		}
	}

	for i, d := range cs.Deletions {
		if d.PersistedID == "" || d.StorageKey == "" {
			return malformed("deletion %d: id and storageKey are required", i)
		}
		if !validKey(d.StorageKey) {
			return malformed("deletion %d: storageKey %q is not a valid storage key", i, d.StorageKey)
		}
		if _, kept := seen[string(OriginExisting)+":"+d.PersistedID]; kept {
			return malformed("deletion %d: %q is both kept and deleted", i, d.PersistedID)
		}
		if _, used := keys[d.StorageKey]; used {
			return malformed("deletion %d: storageKey %q belongs to a kept entry", i, d.StorageKey)
		}
	}
	return nil
}

// validKey reports whether k can be used as the last segment of a storage
// path without escaping the parent's prefix.
func validKey(k string) bool {
	return k != "" && k != "." && k != ".." && !strings.ContainsAny(k, "/\\")
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrMalformedChangeSet, fmt.Sprintf(format, args...))
}
