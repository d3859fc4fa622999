package query

import (
	"math"
	"testing"

	"inventory-manager/internal/store"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStore(t *testing.T) *store.DataStore {
	t.Helper()
	s := store.New()

	electronics, err := s.CreateCategory("Electronics", "")
	require.NoError(t, err)
	laptops, err := s.CreateSubgroup(electronics.ID, "Laptops", "")
	require.NoError(t, err)
	phones, err := s.CreateSubgroup(electronics.ID, "Phones", "")
	require.NoError(t, err)

	garden, err := s.CreateCategory("Garden", "")
	require.NoError(t, err)
	tools, err := s.CreateSubgroup(garden.ID, "Tools", "")
	require.NoError(t, err)

	for _, in := range []struct {
		subgroup int32
		input    store.ProductInput
	}{
		{laptops.ID, store.ProductInput{Name: "ThinkPad X1", Price: 999, Quantity: 3}},
		{laptops.ID, store.ProductInput{Name: "MacBook Air", Price: 1199, Quantity: 0}},
		{phones.ID, store.ProductInput{Name: "Pixel 8", Price: 699, Quantity: 10}},
		{tools.ID, store.ProductInput{Name: "Garden Pad", Price: 15.5, Quantity: 40}},
	} {
		_, err := s.CreateProduct(in.subgroup, in.input)
		require.NoError(t, err)
	}
	return s
}

func names(r SearchResult) []string {
	out := make([]string, 0, r.Count())
	for _, p := range r.Products {
		out = append(out, p.Name)
	}
	return out
}

func TestSearchByName(t *testing.T) {
	s := sampleStore(t)

	assert.ElementsMatch(t, []string{"ThinkPad X1", "Garden Pad"}, names(SearchByName(s, "PAD")))
	assert.Equal(t, 4, SearchByName(s, "").Count())
	assert.Equal(t, 0, SearchByName(s, "toaster").Count())
}

func TestSearchByName_ResultIsDetached(t *testing.T) {
	s := sampleStore(t)

	result := SearchByName(s, "Pixel")
	require.Equal(t, 1, result.Count())
	result.Products[0].Name = "changed"

	p, err := s.FindProduct(result.Products[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Pixel 8", p.Name)
}

func TestSearchInCategory(t *testing.T) {
	s := sampleStore(t)

	result, err := SearchInCategory(s, 2, "pad")
	require.NoError(t, err)
	assert.Equal(t, []string{"Garden Pad"}, names(result))

	_, err = SearchInCategory(s, 9, "")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestSearchByPriceRange(t *testing.T) {
	s := sampleStore(t)

	result, err := SearchByPriceRange(s, 699, 999)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ThinkPad X1", "Pixel 8"}, names(result))

	result, err = SearchByPriceRange(s, 500, 100)
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Equal(t, 0, result.Count())

	_, err = SearchByPriceRange(s, float32(math.NaN()), 100)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestSearchByQuantityRange(t *testing.T) {
	s := sampleStore(t)

	result, err := SearchByQuantityRange(s, 0, 3)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ThinkPad X1", "MacBook Air"}, names(result))

	_, err = SearchByQuantityRange(s, 5, 4)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestGetStatistics(t *testing.T) {
	stats := GetStatistics(sampleStore(t))

	assert.Equal(t, 2, stats.TotalCategories)
	assert.Equal(t, 3, stats.TotalSubgroups)
	assert.Equal(t, 4, stats.TotalProducts)
	assert.Equal(t, int64(53), stats.TotalQuantity)
	assert.InDelta(t, 999*3+699*10+15.5*40, stats.TotalValue, 1e-6)
	assert.InDelta(t, (999+1199+699+15.5)/4, stats.AveragePrice, 1e-6)
}

func TestGetStatistics_ElectronicsScenario(t *testing.T) {
	s := store.New()
	c, err := s.CreateCategory("Electronics", "")
	require.NoError(t, err)
	sub, err := s.CreateSubgroup(c.ID, "Laptops", "")
	require.NoError(t, err)
	_, err = s.CreateProduct(sub.ID, store.ProductInput{Name: "X1", Price: 999, Quantity: 3})
	require.NoError(t, err)

	stats := GetStatistics(s)
	assert.Equal(t, Statistics{
		TotalCategories: 1,
		TotalSubgroups:  1,
		TotalProducts:   1,
		TotalQuantity:   3,
		TotalValue:      2997,
		AveragePrice:    999,
	}, stats)
}

func TestGetStatistics_Empty(t *testing.T) {
	assert.Equal(t, Statistics{}, GetStatistics(store.New()))
}

// Feature: inventory-manager, Property 4: Range search returns exactly the products in range
func TestProperty_QuantityRangeMatchesFilter(t *testing.T) {
	s := store.New()
	c, err := s.CreateCategory("c", "")
	require.NoError(t, err)
	sub, err := s.CreateSubgroup(c.ID, "s", "")
	require.NoError(t, err)
	for q := int32(0); q < 50; q++ {
		_, err := s.CreateProduct(sub.ID, store.ProductInput{Name: "p", Price: 1, Quantity: q})
		require.NoError(t, err)
	}

	properties := gopter.NewProperties(nil)

	properties.Property("every match is in range and every in-range product matches", prop.ForAll(
		func(low, high int32) bool {
			result, err := SearchByQuantityRange(s, low, high)
			if low > high {
				return err != nil && result.Count() == 0
			}
			if err != nil {
				return false
			}
			for _, p := range result.Products {
				if p.Quantity < low || p.Quantity > high {
					return false
				}
			}
			want := 0
			for q := int32(0); q < 50; q++ {
				if q >= low && q <= high {
					want++
				}
			}
			return result.Count() == want
		},
		gen.Int32Range(-10, 60),
		gen.Int32Range(-10, 60),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
