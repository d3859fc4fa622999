package domain

import (
	"fmt"

	"inventory-manager/internal/collection"
)

// Category represents the top level of the inventory tree
type Category struct {
	ID          int32                             `json:"id" validate:"gt=0"`
	Name        string                            `json:"name" validate:"notblank"`
	Description string                            `json:"description"`
	Subgroups   *collection.Collection[*Subgroup] `json:"subgroups" validate:"-"`
}

// NewSubgroupCollection creates the subgroup array of a category. Names
// are unique within it ignoring case, and removing a subgroup releases its
// products.
func NewSubgroupCollection(capacity int) *collection.Collection[*Subgroup] {
	return collection.New(
		collection.WithCapacity[*Subgroup](capacity),
		collection.WithConflict(subgroupNameConflict),
		collection.WithRelease(func(s *Subgroup) { s.release() }),
	)
}

// NewCategoryCollection creates the root array of categories. Names are
// unique ignoring case, and removing a category releases its whole subtree.
func NewCategoryCollection(capacity int) *collection.Collection[*Category] {
	return collection.New(
		collection.WithCapacity[*Category](capacity),
		collection.WithConflict(categoryNameConflict),
		collection.WithRelease(func(c *Category) { c.release() }),
	)
}

// NewCategory creates a validated, empty category.
func NewCategory(id int32, name, description string) (*Category, error) {
	category := &Category{
		ID:          id,
		Name:        clip(name, MaxGroupNameLen),
		Description: clip(description, MaxGroupDescriptionLen),
		Subgroups:   NewSubgroupCollection(collection.DefaultCapacity),
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}
	return category, nil
}

// Key returns the category id.
func (c *Category) Key() int32 {
	return c.ID
}

// Validate checks the category invariants.
func (c *Category) Validate() error {
	if c == nil {
		return ErrNilEntity
	}
	if err := validateStruct(c); err != nil {
		return err
	}
	if c.Subgroups == nil {
		return ErrMissingChildren
	}
	return nil
}

// AddSubgroup appends a subgroup whose back-reference points at c.
func (c *Category) AddSubgroup(subgroup *Subgroup) error {
	if err := c.owns(subgroup); err != nil {
		return err
	}
	return c.Subgroups.Add(subgroup)
}

// RestoreSubgroup appends a subgroup read back from a data file. Names
// written by older versions may repeat, so only ids are checked.
func (c *Category) RestoreSubgroup(subgroup *Subgroup) error {
	if err := c.owns(subgroup); err != nil {
		return err
	}
	return c.Subgroups.Restore(subgroup)
}

// RemoveSubgroup deletes the subgroup and all of its products.
func (c *Category) RemoveSubgroup(subgroupID int32) error {
	return c.Subgroups.Remove(subgroupID)
}

// FindSubgroup returns the subgroup with the given id.
func (c *Category) FindSubgroup(subgroupID int32) (*Subgroup, bool) {
	return c.Subgroups.Find(subgroupID)
}

// FindSubgroupByName returns the subgroup with the given name, ignoring case.
func (c *Category) FindSubgroupByName(name string) (*Subgroup, bool) {
	for _, s := range c.Subgroups.All() {
		if SameName(s.Name, name) {
			return s, true
		}
	}
	return nil, false
}

// FindProduct searches every subgroup of c for the product.
func (c *Category) FindProduct(productID int32) (*Product, bool) {
	for _, s := range c.Subgroups.All() {
		if p, ok := s.FindProduct(productID); ok {
			return p, true
		}
	}
	return nil, false
}

// SubgroupCount returns the number of subgroups.
func (c *Category) SubgroupCount() int {
	return c.Subgroups.Len()
}

// TotalProducts counts products across all subgroups.
func (c *Category) TotalProducts() int {
	total := 0
	for _, s := range c.Subgroups.All() {
		total += s.ProductCount()
	}
	return total
}

// TotalQuantity sums product quantities across all subgroups.
func (c *Category) TotalQuantity() int64 {
	var total int64
	for _, s := range c.Subgroups.All() {
		total += s.TotalQuantity()
	}
	return total
}

// TotalValue sums price times quantity across all subgroups.
func (c *Category) TotalValue() float64 {
	var total float64
	for _, s := range c.Subgroups.All() {
		total += s.TotalValue()
	}
	return total
}

// UpdateName renames the category. Sibling uniqueness is the owner's job.
func (c *Category) UpdateName(name string) error {
	name = clip(name, MaxGroupNameLen)
	if name == "" {
		return ErrEmptyName
	}
	c.Name = name
	return nil
}

// UpdateDescription replaces the description. Empty is allowed.
func (c *Category) UpdateDescription(description string) error {
	c.Description = clip(description, MaxGroupDescriptionLen)
	return nil
}

// Apply changes every field set in patch, or none of them.
func (c *Category) Apply(patch GroupPatch) error {
	if patch.Name != nil {
		if err := c.UpdateName(*patch.Name); err != nil {
			return err
		}
	}
	if patch.Description != nil {
		return c.UpdateDescription(*patch.Description)
	}
	return nil
}

// release drops every subgroup, which in turn drops their products.
func (c *Category) release() {
	if c.Subgroups != nil {
		c.Subgroups.Clear()
	}
}

func categoryNameConflict(existing, candidate *Category) error {
	if SameName(existing.Name, candidate.Name) {
		return fmt.Errorf("%w: category %q", ErrDuplicateName, candidate.Name)
	}
	return nil
}

func (c *Category) owns(subgroup *Subgroup) error {
	if subgroup != nil && subgroup.CategoryID != c.ID {
		return fmt.Errorf("%w: subgroup %d names category %d, not %d",
			ErrOwnerMismatch, subgroup.ID, subgroup.CategoryID, c.ID)
	}
	return nil
}
