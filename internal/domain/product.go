package domain

import (
	"math"
	"time"
)

// Product represents a stock item owned by a subgroup
type Product struct {
	ID          int32     `json:"id" validate:"gt=0"`
	SubgroupID  int32     `json:"subgroup_id" validate:"gt=0"`
	Code        string    `json:"code"`
	Name        string    `json:"name" validate:"notblank"`
	Description string    `json:"description"`
	Price       float32   `json:"price" validate:"finite,gte=0"`
	Quantity    int32     `json:"quantity" validate:"gte=0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductPatch lists the product fields to change. Nil fields are left alone.
type ProductPatch struct {
	Code        *string
	Name        *string
	Description *string
	Price       *float32
	Quantity    *int32
}

// NewProduct creates a validated product. Text fields are trimmed and
// truncated to their bounds.
func NewProduct(id, subgroupID int32, code, name, description string, price float32, quantity int32) (*Product, error) {
	ts := now()
	product := &Product{
		ID:          id,
		SubgroupID:  subgroupID,
		Code:        clip(code, MaxCodeLen),
		Name:        clip(name, MaxProductNameLen),
		Description: clip(description, MaxProductDescriptionLen),
		Price:       price,
		Quantity:    quantity,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// Key returns the product id.
func (p *Product) Key() int32 {
	return p.ID
}

// Validate checks the product invariants.
func (p *Product) Validate() error {
	if p == nil {
		return ErrNilEntity
	}
	return validateStruct(p)
}

// Value returns price multiplied by quantity.
func (p *Product) Value() float64 {
	return float64(p.Price) * float64(p.Quantity)
}

// UpdateCode replaces the product code. An empty code is rejected.
func (p *Product) UpdateCode(code string) error {
	code = clip(code, MaxCodeLen)
	if code == "" {
		return ErrEmptyCode
	}
	p.Code = code
	p.touch()
	return nil
}

// UpdateName replaces the product name.
func (p *Product) UpdateName(name string) error {
	name = clip(name, MaxProductNameLen)
	if name == "" {
		return ErrEmptyName
	}
	p.Name = name
	p.touch()
	return nil
}

// UpdateDescription replaces the product description. Empty is allowed.
func (p *Product) UpdateDescription(description string) error {
	p.Description = clip(description, MaxProductDescriptionLen)
	p.touch()
	return nil
}

// UpdatePrice sets a new finite, non-negative price.
func (p *Product) UpdatePrice(price float32) error {
	// Written as a negation so NaN is rejected too
	if !(price >= 0) || math.IsInf(float64(price), 1) {
		return ErrNegativePrice
	}
	p.Price = price
	p.touch()
	return nil
}

// UpdateQuantity sets a new non-negative quantity.
func (p *Product) UpdateQuantity(quantity int32) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	p.Quantity = quantity
	p.touch()
	return nil
}

// Apply changes every field set in patch, or none of them if any value
// is rejected.
func (p *Product) Apply(patch ProductPatch) error {
	next := *p

	if patch.Code != nil {
		if err := next.UpdateCode(*patch.Code); err != nil {
			return err
		}
	}
	if patch.Name != nil {
		if err := next.UpdateName(*patch.Name); err != nil {
			return err
		}
	}
	if patch.Description != nil {
		if err := next.UpdateDescription(*patch.Description); err != nil {
			return err
		}
	}
	if patch.Price != nil {
		if err := next.UpdatePrice(*patch.Price); err != nil {
			return err
		}
	}
	if patch.Quantity != nil {
		if err := next.UpdateQuantity(*patch.Quantity); err != nil {
			return err
		}
	}

	*p = next
	return nil
}

// IsEmpty reports whether the patch changes nothing.
func (patch ProductPatch) IsEmpty() bool {
	return patch.Code == nil && patch.Name == nil && patch.Description == nil &&
		patch.Price == nil && patch.Quantity == nil
}

func (p *Product) touch() {
	p.UpdatedAt = now()
}
