package ixa

import (
	"go.uber.org/zap"
)

type clauseKind uint8

const (
	clauseHas clauseKind = iota
	clauseEquals
	clausePredicate
)

// Clause is one property constraint within a query.
type Clause struct {
	prop  Property
	kind  clauseKind
	hash  uint64
	match func(*Context, EntityID) (bool, error)
}

// Has matches entities currently holding a value for the property. For a
// derived property that means a cached value; Has alone does not trigger
// resolution.
func Has(p Property) Clause {
	return Clause{
		prop: p,
		kind: clauseHas,
		match: func(ctx *Context, entity EntityID) (bool, error) {
			id, err := ctx.registry.idFor(p)
			if err != nil {
				return false, err
			}
			return ctx.store.has(int(entity), id), nil
		},
	}
}

// Where matches entities whose value for p equals v. Derived properties
// resolve lazily; an entity whose value is unset or uncomputable is
// excluded, never an error.
func Where[T comparable, P TypedProperty[T]](p P, v T) Clause {
	return Clause{
		prop: p,
		kind: clauseEquals,
		hash: hashValue(v),
		match: func(ctx *Context, entity EntityID) (bool, error) {
			got, ok, err := p.valueOf(ctx, entity)
			if err != nil || !ok {
				return false, err
			}
			return got == v, nil
		},
	}
}

// WhereFn matches entities whose value for p satisfies fn. Predicate
// clauses never consult value indexes.
func WhereFn[T any, P TypedProperty[T]](p P, fn func(T) bool) Clause {
	return Clause{
		prop: p,
		kind: clausePredicate,
		match: func(ctx *Context, entity EntityID) (bool, error) {
			got, ok, err := p.valueOf(ctx, entity)
			if err != nil || !ok {
				return false, err
			}
			return fn(got), nil
		},
	}
}

// Filter is the query shape returning matching entity ids in creation
// order. Execution is eager and reflects the store at the moment of the
// call; a query over zero entities returns an empty result.
type Filter struct {
	Clauses []Clause
}

func (q Filter) Matches(ctx *Context, entity EntityID) (bool, error) {
	return matchClauses(ctx, entity, q.Clauses)
}

func (q Filter) Execute(ctx *Context) ([]EntityID, error) {
	cursor := newCursor(ctx, q.Clauses)
	var matched []EntityID
	for cursor.Next() {
		matched = append(matched, cursor.Entity())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	ctx.log.Debug("filter query", zap.Int("matched", len(matched)))
	return matched, nil
}

// Count reports how many entities match, without allocating the id list.
type Count struct {
	Clauses []Clause
}

func (q Count) Matches(ctx *Context, entity EntityID) (bool, error) {
	return matchClauses(ctx, entity, q.Clauses)
}

func (q Count) Execute(ctx *Context) (int, error) {
	cursor := newCursor(ctx, q.Clauses)
	n := 0
	for cursor.Next() {
		n++
	}
	if err := cursor.Err(); err != nil {
		return 0, err
	}
	ctx.log.Debug("count query", zap.Int("matched", n))
	return n, nil
}

// Projected pairs a matching entity with one projected value.
type Projected[T any] struct {
	Entity EntityID
	Value  T
}

// Project maps each matching entity to the value of one property,
// resolving derived properties as needed. An entity missing the projected
// property is excluded from the result.
type Project[T any] struct {
	From    TypedProperty[T]
	Clauses []Clause
}

func (q Project[T]) Matches(ctx *Context, entity EntityID) (bool, error) {
	return matchClauses(ctx, entity, q.Clauses)
}

func (q Project[T]) Execute(ctx *Context) ([]Projected[T], error) {
	cursor := newCursor(ctx, q.Clauses)
	var out []Projected[T]
	for cursor.Next() {
		entity := cursor.Entity()
		v, ok, err := q.From.valueOf(ctx, entity)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out = append(out, Projected[T]{Entity: entity, Value: v})
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	ctx.log.Debug("project query", zap.Int("matched", len(out)))
	return out, nil
}

// Projected2 pairs a matching entity with two projected values.
type Projected2[A, B any] struct {
	Entity EntityID
	First  A
	Second B
}

// Project2 is Project over a pair of properties.
type Project2[A, B any] struct {
	First   TypedProperty[A]
	Second  TypedProperty[B]
	Clauses []Clause
}

func (q Project2[A, B]) Matches(ctx *Context, entity EntityID) (bool, error) {
	return matchClauses(ctx, entity, q.Clauses)
}

func (q Project2[A, B]) Execute(ctx *Context) ([]Projected2[A, B], error) {
	cursor := newCursor(ctx, q.Clauses)
	var out []Projected2[A, B]
	for cursor.Next() {
		entity := cursor.Entity()
		a, ok, err := q.First.valueOf(ctx, entity)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		b, ok, err := q.Second.valueOf(ctx, entity)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out = append(out, Projected2[A, B]{Entity: entity, First: a, Second: b})
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// MatchEntity reports whether a single entity satisfies all clauses.
func MatchEntity(ctx *Context, entity EntityID, clauses ...Clause) (bool, error) {
	if !ctx.entities.exists(entity) {
		return false, NoSuchEntityError{Entity: entity}
	}
	return matchClauses(ctx, entity, clauses)
}

func matchClauses(ctx *Context, entity EntityID, clauses []Clause) (bool, error) {
	for _, clause := range clauses {
		ok, err := clause.match(ctx, entity)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}
