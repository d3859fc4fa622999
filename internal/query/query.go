// Package query implements read-only searches and statistics over an
// inventory tree. Every search is a linear scan in tree order.
package query

import (
	"errors"
	"fmt"

	"inventory-manager/internal/domain"
)

var (
	ErrInvalidRange     = errors.New("minimum is greater than maximum")
	ErrCategoryNotFound = errors.New("category not found")
)

// Tree is the read view a query needs.
type Tree interface {
	Categories() []*domain.Category
}

// SearchResult holds detached copies of the matching products.
type SearchResult struct {
	Products []domain.Product `json:"products"`
}

// Count returns the number of matches.
func (r SearchResult) Count() int {
	return len(r.Products)
}

// Statistics summarises the whole tree.
type Statistics struct {
	TotalCategories int     `json:"total_categories"`
	TotalSubgroups  int     `json:"total_subgroups"`
	TotalProducts   int     `json:"total_products"`
	TotalQuantity   int64   `json:"total_quantity"`
	TotalValue      float64 `json:"total_value"`
	AveragePrice    float64 `json:"average_price"`
}

// SearchByName matches products whose name contains substr, ignoring case.
// An empty substr matches every product.
func SearchByName(tree Tree, substr string) SearchResult {
	return collect(tree.Categories(), func(p *domain.Product) bool {
		return domain.ContainsFold(p.Name, substr)
	})
}

// SearchInCategory runs SearchByName within one category.
func SearchInCategory(tree Tree, categoryID int32, substr string) (SearchResult, error) {
	for _, c := range tree.Categories() {
		if c.ID == categoryID {
			return collect([]*domain.Category{c}, func(p *domain.Product) bool {
				return domain.ContainsFold(p.Name, substr)
			}), nil
		}
	}
	return SearchResult{}, fmt.Errorf("%w: %d", ErrCategoryNotFound, categoryID)
}

// SearchByPriceRange matches products priced within [low, high].
func SearchByPriceRange(tree Tree, low, high float32) (SearchResult, error) {
	// Negated so that a NaN bound is rejected as well
	if !(low <= high) {
		return SearchResult{}, fmt.Errorf("%w: %g > %g", ErrInvalidRange, low, high)
	}
	return collect(tree.Categories(), func(p *domain.Product) bool {
		return p.Price >= low && p.Price <= high
	}), nil
}

// SearchByQuantityRange matches products whose quantity is within [low, high].
func SearchByQuantityRange(tree Tree, low, high int32) (SearchResult, error) {
	if low > high {
		return SearchResult{}, fmt.Errorf("%w: %d > %d", ErrInvalidRange, low, high)
	}
	return collect(tree.Categories(), func(p *domain.Product) bool {
		return p.Quantity >= low && p.Quantity <= high
	}), nil
}

// GetStatistics counts entities and sums quantity and value over the tree.
func GetStatistics(tree Tree) Statistics {
	var stats Statistics
	var priceSum float64

	for _, c := range tree.Categories() {
		stats.TotalCategories++
		for _, s := range c.Subgroups.All() {
			stats.TotalSubgroups++
			for _, p := range s.Products.All() {
				stats.TotalProducts++
				stats.TotalQuantity += int64(p.Quantity)
				stats.TotalValue += p.Value()
				priceSum += float64(p.Price)
			}
		}
	}

	if stats.TotalProducts > 0 {
		stats.AveragePrice = priceSum / float64(stats.TotalProducts)
	}
	return stats
}

// collect copies the products accepted by match. The first pass counts so
// the result is allocated once at its exact size.
func collect(categories []*domain.Category, match func(*domain.Product) bool) SearchResult {
	count := 0
	walk(categories, func(p *domain.Product) {
		if match(p) {
			count++
		}
	})

	products := make([]domain.Product, 0, count)
	walk(categories, func(p *domain.Product) {
		if match(p) {
			products = append(products, *p)
		}
	})
	return SearchResult{Products: products}
}

func walk(categories []*domain.Category, fn func(*domain.Product)) {
	for _, c := range categories {
		c.Subgroups.Each(func(s *domain.Subgroup) bool {
			s.Products.Each(func(p *domain.Product) bool {
				fn(p)
				return true
			})
			return true
		})
	}
}
