package ixa

import "fmt"

// anyColumn is the type-erased face of one property's value column.
// Presence is tracked by the owning store's masks, not here.
type anyColumn interface {
	load(row int) any
	store(row int, value any) error
	clear(row int)
	typeName() string
}

type column[T any] struct {
	name   string
	values []T
}

func (c *column[T]) load(row int) any {
	if row < len(c.values) {
		return c.values[row]
	}
	var zero T
	return zero
}

func (c *column[T]) store(row int, value any) error {
	tv, ok := value.(T)
	if !ok {
		var zero T
		return TypeMismatchError{Property: c.name, Expected: typeNameOf(zero), Actual: typeNameOf(value)}
	}
	if row >= len(c.values) {
		// Grow by doubling or reaching the row, whichever is larger
		newCap := max(row+1, 2*cap(c.values))
		grown := make([]T, row+1, newCap)
		copy(grown, c.values)
		c.values = grown
	}
	c.values[row] = tv
	return nil
}

func (c *column[T]) clear(row int) {
	if row < len(c.values) {
		var zero T
		c.values[row] = zero
	}
}

func (c *column[T]) typeName() string {
	var zero T
	return typeNameOf(zero)
}

func typeNameOf(v any) string {
	return fmt.Sprintf("%T", v)
}
