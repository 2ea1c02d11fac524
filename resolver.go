package ixa

import "errors"

type resolveKey struct {
	entity EntityID
	id     uint32
}

// resolveBoxed runs the derived-resolution protocol for one (entity,
// property) slot: return the cached value on a hit; otherwise warm the
// derived dependencies, invoke the computation function, then cache and
// index the result. The resolver never substitutes a value for an unset
// dependency; the computation sees the miss and decides.
func resolveBoxed(ctx *Context, entity EntityID, id uint32) (any, error) {
	rec := ctx.registry.records[id]
	row := int(entity)
	if v, ok := ctx.store.getBoxed(row, id); ok {
		return v, nil
	}

	key := resolveKey{entity: entity, id: id}
	if _, active := ctx.resolving[key]; active {
		// Registration rejects cycles, so meeting one here means the
		// registry is corrupt and recursing would never terminate.
		panic(DependencyCycleError{Property: rec.info.Name})
	}
	ctx.resolving[key] = struct{}{}
	defer delete(ctx.resolving, key)

	for _, depID := range rec.deps {
		depRec := ctx.registry.records[depID]
		if depRec.info.Kind != KindDerived || ctx.store.has(row, depID) {
			continue
		}
		if _, err := resolveBoxed(ctx, entity, depID); err != nil {
			var missing MissingInputError
			if !errors.As(err, &missing) {
				return nil, err
			}
		}
	}

	value, err := rec.compute(ctx, entity)
	if err != nil {
		return nil, err
	}
	if err := ctx.store.setBoxed(row, id, value); err != nil {
		return nil, err
	}
	ctx.indexes.note(id, entity, value)
	return value, nil
}
