// Package store holds the in-memory inventory tree and its id counters.
//
// A DataStore owns every category, subgroup and product reachable from it.
// Ids are unique per entity type across the whole store and are never
// reused by the same instance. All mutations go through the store so that
// the counters and the modified flag stay correct. A DataStore is not safe
// for concurrent use.
package store

import (
	"errors"
	"fmt"
	"math"
	"time"

	"inventory-manager/internal/collection"
	"inventory-manager/internal/domain"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrSubgroupNotFound = errors.New("subgroup not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateID      = errors.New("id is already in use")
	ErrIDReused         = fmt.Errorf("%w: it was issued before", ErrDuplicateID)
	ErrIDExhausted      = errors.New("no more ids available")
)

// DataStore is the root of the inventory tree.
type DataStore struct {
	categories     *collection.Collection[*domain.Category]
	nextCategoryID int32
	nextSubgroupID int32
	nextProductID  int32
	modified       bool
	lastSaved      time.Time
}

// ProductInput carries the caller-supplied fields of a new product.
type ProductInput struct {
	Code        string
	Name        string
	Description string
	Price       float32
	Quantity    int32
}

var now = time.Now

// New creates an empty store with every counter at 1.
func New() *DataStore {
	return &DataStore{
		categories:     domain.NewCategoryCollection(collection.DefaultCapacity),
		nextCategoryID: 1,
		nextSubgroupID: 1,
		nextProductID:  1,
	}
}

// Categories returns the categories in slot order. The slice is detached
// but the categories are live.
func (s *DataStore) Categories() []*domain.Category {
	return s.categories.All()
}

// CategoryCount returns the number of categories.
func (s *DataStore) CategoryCount() int {
	return s.categories.Len()
}

// IsModified reports whether the tree changed since the last load or save.
func (s *DataStore) IsModified() bool {
	return s.modified
}

// LastSaved returns the time of the last successful load or save. The zero
// time means never.
func (s *DataStore) LastSaved() time.Time {
	return s.lastSaved
}

func (s *DataStore) NextCategoryID() int32 { return s.nextCategoryID }
func (s *DataStore) NextSubgroupID() int32 { return s.nextSubgroupID }
func (s *DataStore) NextProductID() int32  { return s.nextProductID }

// FindCategory returns the category with the given id.
func (s *DataStore) FindCategory(id int32) (*domain.Category, error) {
	c, ok := s.categories.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrCategoryNotFound, id)
	}
	return c, nil
}

// FindSubgroup searches every category for the subgroup.
func (s *DataStore) FindSubgroup(id int32) (*domain.Subgroup, error) {
	sub, _, err := s.locateSubgroup(id)
	return sub, err
}

// FindProduct searches every subgroup for the product.
func (s *DataStore) FindProduct(id int32) (*domain.Product, error) {
	p, _, err := s.locateProduct(id)
	return p, err
}

// ProductsInCategory lists the products of every subgroup of a category.
func (s *DataStore) ProductsInCategory(categoryID int32) ([]*domain.Product, error) {
	c, err := s.FindCategory(categoryID)
	if err != nil {
		return nil, err
	}

	products := make([]*domain.Product, 0, c.TotalProducts())
	c.Subgroups.Each(func(sub *domain.Subgroup) bool {
		products = append(products, sub.Products.All()...)
		return true
	})
	return products, nil
}

// AddCategory inserts a category, together with any subgroups and products
// it already holds. Ids below the counters were issued before and are
// rejected with ErrIDReused.
func (s *DataStore) AddCategory(c *domain.Category) error {
	return s.insertCategory(c, false)
}

// insertCategory adds c and its subtree. A restored category comes from a
// data file: its ids may sit below the counters and names are not checked.
func (s *DataStore) insertCategory(c *domain.Category, restore bool) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if s.categories.Exists(c.ID) {
		return fmt.Errorf("%w: category %d", ErrDuplicateID, c.ID)
	}
	if err := s.checkCategoryIDs(c); err != nil {
		return err
	}

	insert := s.categories.Add
	if restore {
		insert = s.categories.Restore
	} else if err := s.checkCategoryIssued(c); err != nil {
		return err
	}
	if err := insert(c); err != nil {
		return err
	}

	s.advanceCategory(c)
	s.modified = true
	return nil
}

// RemoveCategory deletes a category and everything below it.
func (s *DataStore) RemoveCategory(id int32) error {
	if err := s.categories.Remove(id); err != nil {
		return fmt.Errorf("%w: %d", ErrCategoryNotFound, id)
	}
	s.modified = true
	return nil
}

// AddSubgroup inserts a subgroup, with any products it holds, into a
// category.
func (s *DataStore) AddSubgroup(categoryID int32, sub *domain.Subgroup) error {
	if err := sub.Validate(); err != nil {
		return err
	}
	c, err := s.FindCategory(categoryID)
	if err != nil {
		return err
	}
	if err := s.checkSubgroupIDs(sub); err != nil {
		return err
	}
	if err := s.checkSubgroupIssued(sub); err != nil {
		return err
	}

	if err := c.AddSubgroup(sub); err != nil {
		return err
	}

	s.advanceSubgroup(sub)
	s.modified = true
	return nil
}

// RemoveSubgroup deletes a subgroup and its products.
func (s *DataStore) RemoveSubgroup(id int32) error {
	_, parent, err := s.locateSubgroup(id)
	if err != nil {
		return err
	}
	if err := parent.RemoveSubgroup(id); err != nil {
		return err
	}
	s.modified = true
	return nil
}

// AddProduct inserts a product into a subgroup. The product id must not be
// used anywhere in the store, nor have been issued before.
func (s *DataStore) AddProduct(subgroupID int32, p *domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	sub, err := s.FindSubgroup(subgroupID)
	if err != nil {
		return err
	}
	if err := s.checkProductID(p.ID); err != nil {
		return err
	}
	if err := s.checkProductIssued(p.ID); err != nil {
		return err
	}

	if err := sub.AddProduct(p); err != nil {
		return err
	}

	s.nextProductID = advance(s.nextProductID, p.ID)
	s.modified = true
	return nil
}

// RemoveProduct deletes a product.
func (s *DataStore) RemoveProduct(id int32) error {
	_, parent, err := s.locateProduct(id)
	if err != nil {
		return err
	}
	if err := parent.RemoveProduct(id); err != nil {
		return err
	}
	s.modified = true
	return nil
}

// CreateCategory builds a category with the next free id and adds it.
func (s *DataStore) CreateCategory(name, description string) (*domain.Category, error) {
	c, err := domain.NewCategory(s.nextCategoryID, name, description)
	if err != nil {
		return nil, err
	}
	if err := s.AddCategory(c); err != nil {
		return nil, err
	}
	return c, nil
}

// CreateSubgroup builds a subgroup with the next free id and adds it to a
// category.
func (s *DataStore) CreateSubgroup(categoryID int32, name, description string) (*domain.Subgroup, error) {
	if _, err := s.FindCategory(categoryID); err != nil {
		return nil, err
	}

	sub, err := domain.NewSubgroup(s.nextSubgroupID, categoryID, name, description)
	if err != nil {
		return nil, err
	}
	if err := s.AddSubgroup(categoryID, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// CreateProduct builds a product with the next free id and adds it to a
// subgroup.
func (s *DataStore) CreateProduct(subgroupID int32, in ProductInput) (*domain.Product, error) {
	if _, err := s.FindSubgroup(subgroupID); err != nil {
		return nil, err
	}

	p, err := domain.NewProduct(s.nextProductID, subgroupID, in.Code, in.Name, in.Description, in.Price, in.Quantity)
	if err != nil {
		return nil, err
	}
	if err := s.AddProduct(subgroupID, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateCategory applies patch to a category. A new name must not match
// another category ignoring case.
func (s *DataStore) UpdateCategory(id int32, patch domain.GroupPatch) (*domain.Category, error) {
	c, err := s.FindCategory(id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		for _, other := range s.categories.All() {
			if other.ID != id && domain.SameName(other.Name, *patch.Name) {
				return nil, fmt.Errorf("%w: category %q", domain.ErrDuplicateName, *patch.Name)
			}
		}
	}

	if err := c.Apply(patch); err != nil {
		return nil, err
	}
	s.modified = true
	return c, nil
}

// UpdateSubgroup applies patch to a subgroup. A new name must not match a
// sibling subgroup ignoring case.
func (s *DataStore) UpdateSubgroup(id int32, patch domain.GroupPatch) (*domain.Subgroup, error) {
	sub, parent, err := s.locateSubgroup(id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		if other, ok := parent.FindSubgroupByName(*patch.Name); ok && other.ID != id {
			return nil, fmt.Errorf("%w: subgroup %q", domain.ErrDuplicateName, *patch.Name)
		}
	}

	if err := sub.Apply(patch); err != nil {
		return nil, err
	}
	s.modified = true
	return sub, nil
}

// UpdateProduct applies patch to a product.
func (s *DataStore) UpdateProduct(id int32, patch domain.ProductPatch) (*domain.Product, error) {
	p, err := s.FindProduct(id)
	if err != nil {
		return nil, err
	}
	if err := p.Apply(patch); err != nil {
		return nil, err
	}
	s.modified = true
	return p, nil
}

// ReplaceProduct overwrites every caller-supplied field of a product in
// one step. Id, owner and creation time are kept. Pointers to the old
// product are stale afterwards.
func (s *DataStore) ReplaceProduct(id int32, in ProductInput) (*domain.Product, error) {
	current, sub, err := s.locateProduct(id)
	if err != nil {
		return nil, err
	}

	p, err := domain.NewProduct(id, sub.ID, in.Code, in.Name, in.Description, in.Price, in.Quantity)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = current.CreatedAt

	if err := sub.ReplaceProduct(p); err != nil {
		return nil, err
	}
	s.modified = true
	return p, nil
}

// Close releases the whole tree. The store is empty afterwards.
func (s *DataStore) Close() {
	s.categories.Clear()
	s.modified = false
}

func (s *DataStore) locateSubgroup(id int32) (*domain.Subgroup, *domain.Category, error) {
	for _, c := range s.categories.All() {
		if sub, ok := c.FindSubgroup(id); ok {
			return sub, c, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %d", ErrSubgroupNotFound, id)
}

func (s *DataStore) locateProduct(id int32) (*domain.Product, *domain.Subgroup, error) {
	for _, c := range s.categories.All() {
		for _, sub := range c.Subgroups.All() {
			if p, ok := sub.FindProduct(id); ok {
				return p, sub, nil
			}
		}
	}
	return nil, nil, fmt.Errorf("%w: %d", ErrProductNotFound, id)
}

func (s *DataStore) checkCategoryIDs(c *domain.Category) error {
	if c.ID == math.MaxInt32 {
		return fmt.Errorf("%w: category %d", ErrIDExhausted, c.ID)
	}
	seen := make(map[int32]struct{})
	for _, sub := range c.Subgroups.All() {
		if err := s.checkSubgroupIDs(sub); err != nil {
			return err
		}
		for _, p := range sub.Products.All() {
			if _, dup := seen[p.ID]; dup {
				return fmt.Errorf("%w: product %d", ErrDuplicateID, p.ID)
			}
			seen[p.ID] = struct{}{}
		}
	}
	return nil
}

func (s *DataStore) checkSubgroupIDs(sub *domain.Subgroup) error {
	if sub.ID == math.MaxInt32 {
		return fmt.Errorf("%w: subgroup %d", ErrIDExhausted, sub.ID)
	}
	if _, _, err := s.locateSubgroup(sub.ID); err == nil {
		return fmt.Errorf("%w: subgroup %d", ErrDuplicateID, sub.ID)
	}
	for _, p := range sub.Products.All() {
		if err := s.checkProductID(p.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *DataStore) checkProductID(id int32) error {
	if id == math.MaxInt32 {
		return fmt.Errorf("%w: product %d", ErrIDExhausted, id)
	}
	if s.productExists(id) {
		return fmt.Errorf("%w: product %d", ErrDuplicateID, id)
	}
	return nil
}

func (s *DataStore) productExists(id int32) bool {
	found := false
	s.categories.Each(func(c *domain.Category) bool {
		c.Subgroups.Each(func(sub *domain.Subgroup) bool {
			found = sub.ProductExists(id)
			return !found
		})
		return !found
	})
	return found
}

// checkCategoryIssued rejects a category, or anything below it, carrying an
// id the counters have already handed out.
func (s *DataStore) checkCategoryIssued(c *domain.Category) error {
	if c.ID < s.nextCategoryID {
		return fmt.Errorf("%w: category %d", ErrIDReused, c.ID)
	}
	for _, sub := range c.Subgroups.All() {
		if err := s.checkSubgroupIssued(sub); err != nil {
			return err
		}
	}
	return nil
}

func (s *DataStore) checkSubgroupIssued(sub *domain.Subgroup) error {
	if sub.ID < s.nextSubgroupID {
		return fmt.Errorf("%w: subgroup %d", ErrIDReused, sub.ID)
	}
	for _, p := range sub.Products.All() {
		if err := s.checkProductIssued(p.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *DataStore) checkProductIssued(id int32) error {
	if id < s.nextProductID {
		return fmt.Errorf("%w: product %d", ErrIDReused, id)
	}
	return nil
}

func (s *DataStore) advanceCategory(c *domain.Category) {
	s.nextCategoryID = advance(s.nextCategoryID, c.ID)
	c.Subgroups.Each(func(sub *domain.Subgroup) bool {
		s.advanceSubgroup(sub)
		return true
	})
}

func (s *DataStore) advanceSubgroup(sub *domain.Subgroup) {
	s.nextSubgroupID = advance(s.nextSubgroupID, sub.ID)
	sub.Products.Each(func(p *domain.Product) bool {
		s.nextProductID = advance(s.nextProductID, p.ID)
		return true
	})
}

// advance returns the counter value after id has been taken. id is below
// math.MaxInt32, which the add paths check first.
func advance(next, id int32) int32 {
	return max(next, id+1)
}
