package store

import (
	"fmt"

	"inventory-manager/internal/collection"
	"inventory-manager/internal/domain"
	"inventory-manager/internal/storage"
)

// Load replaces the tree with the content of the file at path. A missing
// file resets the store to empty. On any error the store is unchanged.
func (s *DataStore) Load(path string) error {
	img, found, err := storage.ReadFile(path)
	if err != nil {
		return err
	}

	if !found {
		s.swap(New())
		return nil
	}

	next, err := fromImage(img)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	s.swap(next)
	s.lastSaved = now()
	return nil
}

// Save writes the tree to path, keeping the previous file at backupPath.
// The modified flag is cleared only once the new file is in place.
func (s *DataStore) Save(path, backupPath string) error {
	img := &storage.Image{
		NextCategoryID: s.nextCategoryID,
		NextSubgroupID: s.nextSubgroupID,
		NextProductID:  s.nextProductID,
		Categories:     s.categories.All(),
	}
	if err := storage.WriteFile(path, backupPath, img); err != nil {
		return err
	}

	s.modified = false
	s.lastSaved = now()
	return nil
}

// swap releases the current tree and takes over the tree of next.
func (s *DataStore) swap(next *DataStore) {
	s.categories.Clear()
	s.categories = next.categories
	s.nextCategoryID = next.nextCategoryID
	s.nextSubgroupID = next.nextSubgroupID
	s.nextProductID = next.nextProductID
	s.modified = false
	s.lastSaved = next.lastSaved
}

// fromImage builds a store from a decoded file, checking the rules the
// codec cannot see: ids are unique per type across the whole tree and every
// counter is above the ids already issued. Names are taken as stored, so
// files with repeated names still load.
func fromImage(img *storage.Image) (*DataStore, error) {
	next := &DataStore{
		categories:     domain.NewCategoryCollection(max(len(img.Categories), collection.DefaultCapacity)),
		nextCategoryID: 1,
		nextSubgroupID: 1,
		nextProductID:  1,
	}

	for _, c := range img.Categories {
		if err := next.insertCategory(c, true); err != nil {
			return nil, fmt.Errorf("%w: %v", storage.ErrCorrupt, err)
		}
	}

	switch {
	case img.NextCategoryID < next.nextCategoryID:
		return nil, fmt.Errorf("%w: next category id %d is already in use", storage.ErrCorrupt, img.NextCategoryID)
	case img.NextSubgroupID < next.nextSubgroupID:
		return nil, fmt.Errorf("%w: next subgroup id %d is already in use", storage.ErrCorrupt, img.NextSubgroupID)
	case img.NextProductID < next.nextProductID:
		return nil, fmt.Errorf("%w: next product id %d is already in use", storage.ErrCorrupt, img.NextProductID)
	}

	next.nextCategoryID = img.NextCategoryID
	next.nextSubgroupID = img.NextSubgroupID
	next.nextProductID = img.NextProductID
	next.modified = false
	return next, nil
}
