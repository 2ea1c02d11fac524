package ixa

import (
	"github.com/TheBitDrifter/table"
)

// EntityID identifies an entity within a Context. IDs are issued
// monotonically from zero and are never reused.
type EntityID int

// Property represents a typed attribute attachable to entities or to the
// Context itself. Properties are used to build queries over the entity
// population.
type Property interface {
	table.ElementType
}

// TypedProperty is a property whose value can be read as a T for a given
// entity. Both simple and derived property handles satisfy it; global
// handles do not, since their value is not addressed by entity.
type TypedProperty[T any] interface {
	Property
	valueOf(ctx *Context, entity EntityID) (T, bool, error)
}

// Query is a self-executing query shape. The built-in shapes (Filter,
// Count, Project, Project2) each expose an Execute method producing their
// own result kind; Matches is the capability they share.
type Query interface {
	Matches(ctx *Context, entity EntityID) (bool, error)
}

// InitialValue pairs a property with the value it takes when an entity is
// created. Built via SimpleProperty.Init.
type InitialValue struct {
	prop  Property
	value any
}

// PropertyKind classifies a registered property.
type PropertyKind uint8

const (
	KindSimple PropertyKind = iota
	KindDerived
	KindGlobal
)

func (k PropertyKind) String() string {
	switch k {
	case KindSimple:
		return "simple"
	case KindDerived:
		return "derived"
	case KindGlobal:
		return "global"
	}
	return "unknown"
}

// PropertyInfo is the registry's metadata record for one property type.
type PropertyInfo struct {
	ID       uint32
	Name     string
	Kind     PropertyKind
	Required bool
}

// Warning: internal dependencies abound!
type Cursor struct {
	// The clauses to filter entities
	clauses []Clause

	// The context to iterate over
	ctx *Context

	// Current iteration state
	candidates []EntityID
	pos        int
	current    EntityID

	// Initialization state
	initialized bool
	err         error
}

// propertyInternal is the sealed capability every handle produced by this
// package implements. Registration and storage go through it.
type propertyInternal interface {
	Property
	elementType() table.ElementType
	describe() PropertyInfo
	depHandles() []Property
	makeColumn() anyColumn
	boxedCompute() func(*Context, EntityID) (any, error)
}
