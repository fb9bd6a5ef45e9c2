package store

import (
	"errors"
	"fmt"
)

// ErrProductNotFound is returned when a product lookup by id finds nothing.
var ErrProductNotFound = errors.New("product not found")

// ErrCategoryNotFound is returned when a category lookup by id finds nothing.
var ErrCategoryNotFound = errors.New("category not found")

// ErrDuplicateProduct is returned when a write would violate the
// (normalized name, normalized brand) uniqueness invariant.
var ErrDuplicateProduct = errors.New("a product with this name and brand already exists")

// ErrDuplicateCategory is returned when a write would violate the
// case-insensitive category name uniqueness invariant.
var ErrDuplicateCategory = errors.New("a category with this name already exists")

// CategoryInUseError refuses deletion of a category that still has
// products linked to it. Products carries the blocking count so the caller
// can tell the user how many links must be removed first.
type CategoryInUseError struct {
	Name     string
	Products int64
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("category %q still has %d linked product(s)", e.Name, e.Products)
}
