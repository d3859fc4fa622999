// Package collection provides the growable, id-keyed array used at every
// level of the inventory tree.
//
// A Collection keeps its live items in a contiguous slice whose capacity
// doubles when full. Removal uses swap-and-pop: the last live item is moved
// into the vacated slot, so insertion order is not preserved once an item
// has been removed. Callers must not rely on positions across a Remove.
//
// Slots hold pointers. A pointer returned by Find keeps referring to the
// same entity after the collection grows or reorders; an entity that has
// been removed is released (its owned children are cleared) and must not be
// used afterwards.
package collection

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultCapacity is the number of slots allocated for a new collection.
const DefaultCapacity = 10

var (
	ErrNotFound     = errors.New("item not found")
	ErrDuplicateKey = errors.New("item with this id already exists")
)

// Entity is a record that can be stored in a Collection.
type Entity interface {
	Key() int32
	Validate() error
}

// Collection is a capacity-doubling array of entities keyed by id.
type Collection[T Entity] struct {
	items    []T
	conflict func(existing, candidate T) error
	release  func(T)
}

// Option configures a Collection.
type Option[T Entity] func(*Collection[T])

// WithConflict installs an extra uniqueness rule checked against every
// live item on Add and Replace.
func WithConflict[T Entity](fn func(existing, candidate T) error) Option[T] {
	return func(c *Collection[T]) {
		c.conflict = fn
	}
}

// WithRelease installs the hook run on an item when it leaves the
// collection through Remove or Clear.
func WithRelease[T Entity](fn func(T)) Option[T] {
	return func(c *Collection[T]) {
		c.release = fn
	}
}

// WithCapacity sizes the backing array for at least n items.
func WithCapacity[T Entity](n int) Option[T] {
	return func(c *Collection[T]) {
		if n > cap(c.items) {
			c.items = make([]T, 0, n)
		}
	}
}

// New creates an empty collection with DefaultCapacity slots.
func New[T Entity](opts ...Option[T]) *Collection[T] {
	c := &Collection[T]{
		items: make([]T, 0, DefaultCapacity),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Len returns the number of live items.
func (c *Collection[T]) Len() int {
	return len(c.items)
}

// Cap returns the number of allocated slots.
func (c *Collection[T]) Cap() int {
	return cap(c.items)
}

// Add validates item and appends it. The collection is unchanged when
// the item is rejected.
func (c *Collection[T]) Add(item T) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if err := c.checkUnique(item, -1); err != nil {
		return err
	}

	c.push(item)
	return nil
}

// Restore appends an item read back from storage. Validity and key
// uniqueness are checked, the WithConflict rule is not.
func (c *Collection[T]) Restore(item T) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if c.Exists(item.Key()) {
		return fmt.Errorf("%w: %d", ErrDuplicateKey, item.Key())
	}

	c.push(item)
	return nil
}

// Replace swaps the live item that has the same key as item for item.
func (c *Collection[T]) Replace(item T) error {
	if err := item.Validate(); err != nil {
		return err
	}

	index := c.IndexOf(item.Key())
	if index < 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, item.Key())
	}
	if err := c.checkUnique(item, index); err != nil {
		return err
	}

	c.items[index] = item
	return nil
}

// Remove deletes the item with the given key using swap-and-pop.
func (c *Collection[T]) Remove(key int32) error {
	index := c.IndexOf(key)
	if index < 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, key)
	}

	// Release owned children before the slot is overwritten
	if c.release != nil {
		c.release(c.items[index])
	}

	last := len(c.items) - 1
	if index < last {
		c.items[index] = c.items[last]
	}

	var zero T
	c.items[last] = zero
	c.items = c.items[:last]
	return nil
}

// Find returns the live item with the given key.
func (c *Collection[T]) Find(key int32) (T, bool) {
	if index := c.IndexOf(key); index >= 0 {
		return c.items[index], true
	}
	var zero T
	return zero, false
}

// Exists reports whether an item with the given key is present.
func (c *Collection[T]) Exists(key int32) bool {
	return c.IndexOf(key) >= 0
}

// IndexOf returns the slot of the item with the given key, or -1.
func (c *Collection[T]) IndexOf(key int32) int {
	for i, item := range c.items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}

// At returns the item in slot i. It panics when i is out of range.
func (c *Collection[T]) At(i int) T {
	return c.items[i]
}

// All returns a detached copy of the live items.
func (c *Collection[T]) All() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Each calls fn for every live item in slot order until fn returns false.
// fn must not add or remove items.
func (c *Collection[T]) Each(fn func(T) bool) {
	for _, item := range c.items {
		if !fn(item) {
			return
		}
	}
}

// Clear releases every item and empties the collection. The backing
// array is kept.
func (c *Collection[T]) Clear() {
	var zero T
	for i, item := range c.items {
		if c.release != nil {
			c.release(item)
		}
		c.items[i] = zero
	}
	c.items = c.items[:0]
}

// MarshalJSON encodes the live items as a JSON array.
func (c *Collection[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.items)
}

func (c *Collection[T]) checkUnique(item T, skip int) error {
	for i, existing := range c.items {
		if i == skip {
			continue
		}
		if existing.Key() == item.Key() {
			return fmt.Errorf("%w: %d", ErrDuplicateKey, item.Key())
		}
		if c.conflict != nil {
			if err := c.conflict(existing, item); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Collection[T]) push(item T) {
	if len(c.items) == cap(c.items) {
		c.grow()
	}
	c.items = append(c.items, item)
}

func (c *Collection[T]) grow() {
	newCap := cap(c.items) * 2
	if newCap == 0 {
		newCap = DefaultCapacity
	}

	grown := make([]T, len(c.items), newCap)
	copy(grown, c.items)
	c.items = grown
}
