package ixa

import (
	"reflect"

	"github.com/TheBitDrifter/table"
)

type factory struct{}

var Factory factory

func (f factory) NewRegistry() *Registry {
	return newRegistry()
}

func (f factory) NewContext(registry *Registry, opts ...ContextOption) (*Context, error) {
	return newContext(registry, opts...)
}

func (f factory) NewCursor(ctx *Context, clauses ...Clause) *Cursor {
	return newCursor(ctx, clauses)
}

// FactoryNewProperty mints the handle for a simple property of type T.
// Handles are created once and shared; a second handle for the same T
// carries a distinct identity and is rejected at registration.
func FactoryNewProperty[T any]() SimpleProperty[T] {
	iden := table.FactoryNewElementType[T]()
	return SimpleProperty[T]{
		ElementType: iden,
		name:        propertyName[T](),
	}
}

// FactoryNewDerivedProperty mints the handle for a derived property of type
// T. The computation function is invoked on cache misses with the declared
// dependencies already resolved where they are derived themselves; it reads
// dependency values through their handles and decides how to treat missing
// inputs. Dependencies must be registered before this handle is.
func FactoryNewDerivedProperty[T any](compute func(*Context, EntityID) (T, error), deps ...Property) DerivedProperty[T] {
	iden := table.FactoryNewElementType[T]()
	return DerivedProperty[T]{
		ElementType: iden,
		name:        propertyName[T](),
		deps:        deps,
		compute:     compute,
	}
}

// FactoryNewGlobalProperty mints the handle for a Context-global property
// of type T.
func FactoryNewGlobalProperty[T any]() GlobalProperty[T] {
	iden := table.FactoryNewElementType[T]()
	return GlobalProperty[T]{
		ElementType: iden,
		name:        propertyName[T](),
	}
}

func propertyName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
