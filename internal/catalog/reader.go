package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"waifud/internal/models"
	"waifud/internal/structures"
)

var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".bmp":  {},
	".webp": {},
}

// Reader lists the item store. It is stateless and re-reads the directory on
// every call: the catalog order it returns fixes each item's grid position, so
// callers must take one listing per build and never mix two.
type Reader struct {
	dir string
}

func NewReader(conf *structures.Config) *Reader {
	return &Reader{dir: conf.Store.ImageDir}
}

// List returns the sorted item keys present in the store. A missing directory
// yields an empty listing, not an error.
func (r *Reader) List() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s", models.ErrStoreUnavailable, err)
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := imageExtensions[ext]; ok {
			keys = append(keys, entry.Name())
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Path returns the absolute location of an item key inside the store.
func (r *Reader) Path(key string) string {
	return filepath.Join(r.dir, key)
}

// Has reports whether the item exists locally.
func (r *Reader) Has(key string) bool {
	info, err := os.Stat(r.Path(key))
	return err == nil && !info.IsDir()
}
