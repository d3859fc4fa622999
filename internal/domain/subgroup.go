package domain

import (
	"fmt"

	"inventory-manager/internal/collection"
)

// Subgroup groups products inside a category
type Subgroup struct {
	ID          int32                            `json:"id" validate:"gt=0"`
	CategoryID  int32                            `json:"category_id" validate:"gt=0"`
	Name        string                           `json:"name" validate:"notblank"`
	Description string                           `json:"description"`
	Products    *collection.Collection[*Product] `json:"products" validate:"-"`
}

// GroupPatch lists the name and description changes for a subgroup or
// category. Nil fields are left alone.
type GroupPatch struct {
	Name        *string
	Description *string
}

// IsEmpty reports whether the patch changes nothing.
func (patch GroupPatch) IsEmpty() bool {
	return patch.Name == nil && patch.Description == nil
}

// NewProductCollection creates the product array of a subgroup sized for
// at least capacity products.
func NewProductCollection(capacity int) *collection.Collection[*Product] {
	return collection.New(collection.WithCapacity[*Product](capacity))
}

// NewSubgroup creates a validated, empty subgroup.
func NewSubgroup(id, categoryID int32, name, description string) (*Subgroup, error) {
	subgroup := &Subgroup{
		ID:          id,
		CategoryID:  categoryID,
		Name:        clip(name, MaxGroupNameLen),
		Description: clip(description, MaxGroupDescriptionLen),
		Products:    NewProductCollection(collection.DefaultCapacity),
	}

	if err := subgroup.Validate(); err != nil {
		return nil, err
	}
	return subgroup, nil
}

// Key returns the subgroup id.
func (s *Subgroup) Key() int32 {
	return s.ID
}

// Validate checks the subgroup invariants.
func (s *Subgroup) Validate() error {
	if s == nil {
		return ErrNilEntity
	}
	if err := validateStruct(s); err != nil {
		return err
	}
	if s.Products == nil {
		return ErrMissingChildren
	}
	return nil
}

// AddProduct appends a product whose back-reference points at s.
func (s *Subgroup) AddProduct(product *Product) error {
	if product != nil && product.SubgroupID != s.ID {
		return fmt.Errorf("%w: product %d names subgroup %d, not %d",
			ErrOwnerMismatch, product.ID, product.SubgroupID, s.ID)
	}
	return s.Products.Add(product)
}

// RemoveProduct deletes the product with the given id.
func (s *Subgroup) RemoveProduct(productID int32) error {
	return s.Products.Remove(productID)
}

// FindProduct returns the product with the given id.
func (s *Subgroup) FindProduct(productID int32) (*Product, bool) {
	return s.Products.Find(productID)
}

// ProductExists reports whether a product with the given id is present.
func (s *Subgroup) ProductExists(productID int32) bool {
	return s.Products.Exists(productID)
}

// ReplaceProduct overwrites the stored product that has the same id.
func (s *Subgroup) ReplaceProduct(product *Product) error {
	if product != nil && product.SubgroupID != s.ID {
		return fmt.Errorf("%w: product %d names subgroup %d, not %d",
			ErrOwnerMismatch, product.ID, product.SubgroupID, s.ID)
	}
	return s.Products.Replace(product)
}

// ProductCount returns the number of products.
func (s *Subgroup) ProductCount() int {
	return s.Products.Len()
}

// TotalValue sums price times quantity over all products.
func (s *Subgroup) TotalValue() float64 {
	var total float64
	for _, p := range s.Products.All() {
		total += p.Value()
	}
	return total
}

// TotalQuantity sums the product quantities.
func (s *Subgroup) TotalQuantity() int64 {
	var total int64
	for _, p := range s.Products.All() {
		total += int64(p.Quantity)
	}
	return total
}

// UpdateName renames the subgroup. Sibling uniqueness is the owner's job.
func (s *Subgroup) UpdateName(name string) error {
	name = clip(name, MaxGroupNameLen)
	if name == "" {
		return ErrEmptyName
	}
	s.Name = name
	return nil
}

// UpdateDescription replaces the description. Empty is allowed.
func (s *Subgroup) UpdateDescription(description string) error {
	s.Description = clip(description, MaxGroupDescriptionLen)
	return nil
}

// Apply changes every field set in patch, or none of them.
func (s *Subgroup) Apply(patch GroupPatch) error {
	if patch.Name != nil {
		if err := s.UpdateName(*patch.Name); err != nil {
			return err
		}
	}
	if patch.Description != nil {
		return s.UpdateDescription(*patch.Description)
	}
	return nil
}

// release drops every product.
func (s *Subgroup) release() {
	if s.Products != nil {
		s.Products.Clear()
	}
}

// subgroupNameConflict enforces case-insensitive name uniqueness within a
// category.
func subgroupNameConflict(existing, candidate *Subgroup) error {
	if SameName(existing.Name, candidate.Name) {
		return fmt.Errorf("%w: subgroup %q", ErrDuplicateName, candidate.Name)
	}
	return nil
}
