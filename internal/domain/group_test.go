package domain

import (
	"testing"

	"inventory-manager/internal/collection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustProduct(t *testing.T, id, subgroupID int32, name string, price float32, quantity int32) *Product {
	t.Helper()
	p, err := NewProduct(id, subgroupID, "", name, "", price, quantity)
	require.NoError(t, err)
	return p
}

func TestNewSubgroup(t *testing.T) {
	s, err := NewSubgroup(1, 1, "  Laptops ", "")
	require.NoError(t, err)
	assert.Equal(t, "Laptops", s.Name)
	assert.Equal(t, 0, s.ProductCount())
	assert.Equal(t, collection.DefaultCapacity, s.Products.Cap())

	_, err = NewSubgroup(1, 0, "Laptops", "")
	assert.ErrorIs(t, err, ErrInvalidOwner)
	_, err = NewSubgroup(0, 1, "Laptops", "")
	assert.ErrorIs(t, err, ErrInvalidID)
	_, err = NewSubgroup(1, 1, " ", "")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestSubgroup_AddProductChecksOwner(t *testing.T) {
	s, err := NewSubgroup(1, 1, "Laptops", "")
	require.NoError(t, err)

	err = s.AddProduct(mustProduct(t, 1, 2, "X1", 1, 1))
	assert.ErrorIs(t, err, ErrOwnerMismatch)
	assert.Equal(t, 0, s.ProductCount())

	require.NoError(t, s.AddProduct(mustProduct(t, 1, 1, "X1", 1, 1)))
	err = s.AddProduct(mustProduct(t, 1, 1, "X1 again", 1, 1))
	assert.ErrorIs(t, err, collection.ErrDuplicateKey)
	assert.Equal(t, 1, s.ProductCount())
}

func TestSubgroup_Totals(t *testing.T) {
	s, err := NewSubgroup(1, 1, "Laptops", "")
	require.NoError(t, err)
	require.NoError(t, s.AddProduct(mustProduct(t, 1, 1, "X1", 999, 3)))
	require.NoError(t, s.AddProduct(mustProduct(t, 2, 1, "T14", 500, 2)))

	assert.Equal(t, 3997.0, s.TotalValue())
	assert.Equal(t, int64(5), s.TotalQuantity())
}

func TestSubgroup_ReplaceProduct(t *testing.T) {
	s, err := NewSubgroup(1, 1, "Laptops", "")
	require.NoError(t, err)
	require.NoError(t, s.AddProduct(mustProduct(t, 1, 1, "X1", 999, 3)))

	require.NoError(t, s.ReplaceProduct(mustProduct(t, 1, 1, "X1 Carbon", 1200, 1)))
	p, ok := s.FindProduct(1)
	require.True(t, ok)
	assert.Equal(t, "X1 Carbon", p.Name)

	err = s.ReplaceProduct(mustProduct(t, 9, 1, "ghost", 1, 1))
	assert.ErrorIs(t, err, collection.ErrNotFound)
	assert.False(t, s.ProductExists(9))

	err = s.ReplaceProduct(mustProduct(t, 1, 2, "moved", 1, 1))
	assert.ErrorIs(t, err, ErrOwnerMismatch)
	assert.True(t, s.ProductExists(1))
}

func TestSubgroup_Apply(t *testing.T) {
	s, err := NewSubgroup(1, 1, "Laptops", "old")
	require.NoError(t, err)

	blank := "  "
	desc := "new"
	assert.ErrorIs(t, s.Apply(GroupPatch{Name: &blank, Description: &desc}), ErrEmptyName)
	assert.Equal(t, "old", s.Description)

	require.NoError(t, s.Apply(GroupPatch{Description: &desc}))
	assert.Equal(t, "Laptops", s.Name)
	assert.Equal(t, "new", s.Description)
	assert.True(t, GroupPatch{}.IsEmpty())
}

func TestCategory_SubgroupNamesUniqueIgnoringCase(t *testing.T) {
	c, err := NewCategory(1, "Electronics", "")
	require.NoError(t, err)

	first, err := NewSubgroup(1, 1, "Laptops", "")
	require.NoError(t, err)
	require.NoError(t, c.AddSubgroup(first))

	dup, err := NewSubgroup(2, 1, "LAPTOPS", "")
	require.NoError(t, err)
	assert.ErrorIs(t, c.AddSubgroup(dup), ErrDuplicateName)
	assert.Equal(t, 1, c.SubgroupCount())

	found, ok := c.FindSubgroupByName("laptops")
	require.True(t, ok)
	assert.Same(t, first, found)
}

func TestCategory_RestoreSubgroupAllowsRepeatedNames(t *testing.T) {
	c, err := NewCategory(1, "Food", "")
	require.NoError(t, err)

	first, err := NewSubgroup(1, 1, "Fruit", "")
	require.NoError(t, err)
	second, err := NewSubgroup(2, 1, "FRUIT", "")
	require.NoError(t, err)
	require.NoError(t, c.RestoreSubgroup(first))
	require.NoError(t, c.RestoreSubgroup(second))
	assert.Equal(t, 2, c.SubgroupCount())

	again, err := NewSubgroup(1, 1, "Veg", "")
	require.NoError(t, err)
	assert.ErrorIs(t, c.RestoreSubgroup(again), collection.ErrDuplicateKey)

	foreign, err := NewSubgroup(3, 9, "Veg", "")
	require.NoError(t, err)
	assert.ErrorIs(t, c.RestoreSubgroup(foreign), ErrOwnerMismatch)
}

func TestCategory_AddSubgroupChecksOwner(t *testing.T) {
	c, err := NewCategory(1, "Electronics", "")
	require.NoError(t, err)
	s, err := NewSubgroup(1, 7, "Laptops", "")
	require.NoError(t, err)

	assert.ErrorIs(t, c.AddSubgroup(s), ErrOwnerMismatch)
}

func TestCategory_RemoveSubgroupReleasesProducts(t *testing.T) {
	c, err := NewCategory(1, "Electronics", "")
	require.NoError(t, err)
	s, err := NewSubgroup(1, 1, "Laptops", "")
	require.NoError(t, err)
	require.NoError(t, c.AddSubgroup(s))
	require.NoError(t, s.AddProduct(mustProduct(t, 1, 1, "X1", 999, 3)))
	require.NoError(t, s.AddProduct(mustProduct(t, 2, 1, "T14", 500, 2)))

	assert.Equal(t, 2, c.TotalProducts())
	assert.Equal(t, 3997.0, c.TotalValue())
	assert.Equal(t, int64(5), c.TotalQuantity())

	require.NoError(t, c.RemoveSubgroup(1))
	assert.Equal(t, 0, c.SubgroupCount())
	assert.Equal(t, 0, s.ProductCount())
	_, ok := c.FindProduct(1)
	assert.False(t, ok)
}

func TestCategoryCollection_ReleasesWholeSubtree(t *testing.T) {
	categories := NewCategoryCollection(collection.DefaultCapacity)
	c, err := NewCategory(1, "Electronics", "")
	require.NoError(t, err)
	require.NoError(t, categories.Add(c))

	s, err := NewSubgroup(1, 1, "Laptops", "")
	require.NoError(t, err)
	require.NoError(t, c.AddSubgroup(s))
	require.NoError(t, s.AddProduct(mustProduct(t, 1, 1, "X1", 999, 3)))

	other, err := NewCategory(2, "electronics", "")
	require.NoError(t, err)
	assert.ErrorIs(t, categories.Add(other), ErrDuplicateName)

	require.NoError(t, categories.Remove(1))
	assert.Equal(t, 0, c.SubgroupCount())
	assert.Equal(t, 0, s.ProductCount())
}

func TestCategory_Apply(t *testing.T) {
	c, err := NewCategory(1, "Electronics", "")
	require.NoError(t, err)

	name := "Computers"
	require.NoError(t, c.Apply(GroupPatch{Name: &name}))
	assert.Equal(t, "Computers", c.Name)

	assert.ErrorIs(t, c.UpdateName(""), ErrEmptyName)
	assert.Equal(t, "Computers", c.Name)
}
