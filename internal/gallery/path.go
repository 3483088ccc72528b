package gallery

import "strings"

const storagePrefix = "vehicles"

// StoragePath is the object-store path of an image. It is the only place the
// path layout is defined; client-assigned keys and server-side paths must both
// go through it.
func StoragePath(parentID, storageKey string) string {
	return storagePrefix + "/" + parentID + "/" + storageKey
}

// SplitStoragePath is the inverse of StoragePath.
func SplitStoragePath(path string) (parentID, storageKey string, ok bool) {
	rest, found := strings.CutPrefix(path, storagePrefix+"/")
	if !found {
		return "", "", false
	}
	parentID, storageKey, found = strings.Cut(rest, "/")
	if !found || parentID == "" || storageKey == "" {
		return "", "", false
	}
	return parentID, storageKey, true
}
