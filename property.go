package ixa

import (
	"errors"

	"github.com/TheBitDrifter/table"
)

// SimpleProperty is the typed handle for an explicitly assigned property.
// It extends the base Property identity with typed read/write access
// against a Context.
type SimpleProperty[T any] struct {
	table.ElementType
	name     string
	required bool
}

// Required marks the property as mandatory at entity creation: every call
// to Context.CreateEntity must include an initial value for it. The
// returned handle carries the same identity.
func (p SimpleProperty[T]) Required() SimpleProperty[T] {
	p.required = true
	return p
}

// Init pairs the property with an initial value for entity creation.
func (p SimpleProperty[T]) Init(value T) InitialValue {
	return InitialValue{prop: p, value: value}
}

// Get returns the entity's value and whether one has been assigned.
// An unassigned property reports false, never a zero value in disguise.
func (p SimpleProperty[T]) Get(ctx *Context, entity EntityID) (T, bool, error) {
	var zero T
	id, err := ctx.registry.idFor(p)
	if err != nil {
		return zero, false, err
	}
	if !ctx.entities.exists(entity) {
		return zero, false, NoSuchEntityError{Entity: entity}
	}
	return loadTyped[T](ctx.store, int(entity), id, p.name)
}

// Value returns the entity's value, or a MissingInputError if the property
// is unset. Derived computation functions use it to surface missing
// dependencies.
func (p SimpleProperty[T]) Value(ctx *Context, entity EntityID) (T, error) {
	v, ok, err := p.Get(ctx, entity)
	if err != nil {
		return v, err
	}
	if !ok {
		return v, MissingInputError{Property: p.name}
	}
	return v, nil
}

// GetOrDefault returns the entity's value, or def when the property is
// unset.
func (p SimpleProperty[T]) GetOrDefault(ctx *Context, entity EntityID, def T) (T, error) {
	v, ok, err := p.Get(ctx, entity)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

// Set assigns the entity's value, overwriting any previous one. Cached
// values of derived properties depending on p are dropped for this entity.
func (p SimpleProperty[T]) Set(ctx *Context, entity EntityID, value T) error {
	return ctx.setEntityProperty(p, entity, value)
}

func (p SimpleProperty[T]) elementType() table.ElementType { return p.ElementType }

func (p SimpleProperty[T]) describe() PropertyInfo {
	return PropertyInfo{Name: p.name, Kind: KindSimple, Required: p.required}
}

func (p SimpleProperty[T]) depHandles() []Property { return nil }

func (p SimpleProperty[T]) makeColumn() anyColumn { return &column[T]{name: p.name} }

func (p SimpleProperty[T]) boxedCompute() func(*Context, EntityID) (any, error) { return nil }

func (p SimpleProperty[T]) valueOf(ctx *Context, entity EntityID) (T, bool, error) {
	return p.Get(ctx, entity)
}

// DerivedProperty is the typed handle for a property computed on demand
// from a declared set of dependencies. Values are cached per entity on
// first resolution and invalidated when a dependency is rewritten.
type DerivedProperty[T any] struct {
	table.ElementType
	name    string
	deps    []Property
	compute func(*Context, EntityID) (T, error)
}

// Resolve returns the entity's value, computing and caching it on a miss.
// A cache hit never re-invokes the computation function. Unset simple
// dependencies surface as a MissingInputError from the computation.
func (p DerivedProperty[T]) Resolve(ctx *Context, entity EntityID) (T, error) {
	var zero T
	id, err := ctx.registry.idFor(p)
	if err != nil {
		return zero, err
	}
	if !ctx.entities.exists(entity) {
		return zero, NoSuchEntityError{Entity: entity}
	}
	if v, ok, err := loadTyped[T](ctx.store, int(entity), id, p.name); err != nil || ok {
		return v, err
	}
	boxed, err := resolveBoxed(ctx, entity, id)
	if err != nil {
		return zero, err
	}
	v, ok := boxed.(T)
	if !ok {
		return zero, TypeMismatchError{Property: p.name, Expected: typeNameOf(boxed), Actual: typeNameOf(zero)}
	}
	return v, nil
}

func (p DerivedProperty[T]) elementType() table.ElementType { return p.ElementType }

func (p DerivedProperty[T]) describe() PropertyInfo {
	return PropertyInfo{Name: p.name, Kind: KindDerived}
}

func (p DerivedProperty[T]) depHandles() []Property { return p.deps }

func (p DerivedProperty[T]) makeColumn() anyColumn { return &column[T]{name: p.name} }

func (p DerivedProperty[T]) boxedCompute() func(*Context, EntityID) (any, error) {
	return func(ctx *Context, entity EntityID) (any, error) {
		return p.compute(ctx, entity)
	}
}

func (p DerivedProperty[T]) valueOf(ctx *Context, entity EntityID) (T, bool, error) {
	v, err := p.Resolve(ctx, entity)
	if err != nil {
		var missing MissingInputError
		if errors.As(err, &missing) {
			var zero T
			return zero, false, nil
		}
		var zero T
		return zero, false, err
	}
	return v, true, nil
}

// GlobalProperty is the typed handle for a property owned by the Context
// itself rather than by any entity. Storage shape matches an entity slot;
// only the addressing differs.
type GlobalProperty[T any] struct {
	table.ElementType
	name string
}

// Get returns the Context-global value and whether one has been assigned.
func (p GlobalProperty[T]) Get(ctx *Context) (T, bool, error) {
	var zero T
	id, err := ctx.registry.idFor(p)
	if err != nil {
		return zero, false, err
	}
	return loadTyped[T](ctx.globals, 0, id, p.name)
}

// Value returns the Context-global value, or a MissingInputError if unset.
func (p GlobalProperty[T]) Value(ctx *Context) (T, error) {
	v, ok, err := p.Get(ctx)
	if err != nil {
		return v, err
	}
	if !ok {
		return v, MissingInputError{Property: p.name}
	}
	return v, nil
}

// GetOrDefault returns the Context-global value, or def when unset.
func (p GlobalProperty[T]) GetOrDefault(ctx *Context, def T) (T, error) {
	v, ok, err := p.Get(ctx)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

// Set assigns the Context-global value. Entity-cached values of derived
// properties depending on p are dropped for every entity.
func (p GlobalProperty[T]) Set(ctx *Context, value T) error {
	return ctx.setGlobalProperty(p, value)
}

func (p GlobalProperty[T]) elementType() table.ElementType { return p.ElementType }

func (p GlobalProperty[T]) describe() PropertyInfo {
	return PropertyInfo{Name: p.name, Kind: KindGlobal}
}

func (p GlobalProperty[T]) depHandles() []Property { return nil }

func (p GlobalProperty[T]) makeColumn() anyColumn { return &column[T]{name: p.name} }

func (p GlobalProperty[T]) boxedCompute() func(*Context, EntityID) (any, error) { return nil }
