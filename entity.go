package ixa

import (
	"iter"

	"go.uber.org/zap"
)

// entityTable owns entity identifiers. Ids are issued monotonically and
// never recycled; slots live until the Context is dropped.
type entityTable struct {
	count int
}

func (t *entityTable) add() EntityID {
	id := EntityID(t.count)
	t.count++
	return id
}

func (t *entityTable) exists(id EntityID) bool {
	return id >= 0 && int(id) < t.count
}

// ids yields entity identifiers in creation order. The sequence snapshots
// the count when built, so entities created mid-iteration are not visited.
// It is finite and restartable.
func (t *entityTable) ids() iter.Seq[EntityID] {
	count := t.count
	return func(yield func(EntityID) bool) {
		for i := 0; i < count; i++ {
			if !yield(EntityID(i)) {
				return
			}
		}
	}
}

// CreateEntity allocates a fresh entity and assigns the given initial
// values. Every property marked Required must appear in the list. Initial
// assignment does not fire OnPropertySet events.
func (ctx *Context) CreateEntity(inits ...InitialValue) (EntityID, error) {
	ids, err := ctx.CreateEntities(1, inits...)
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

// CreateEntities allocates n entities sharing the same initial values.
func (ctx *Context) CreateEntities(n int, inits ...InitialValue) ([]EntityID, error) {
	if err := ctx.checkInitialValues(inits); err != nil {
		return nil, err
	}

	created := make([]EntityID, 0, n)
	ctx.initializing = true
	for i := 0; i < n; i++ {
		entity := ctx.entities.add()
		ctx.store.addRow()
		for _, init := range inits {
			if err := ctx.setEntityProperty(init.prop, entity, init.value); err != nil {
				ctx.initializing = false
				return nil, err
			}
		}
		created = append(created, entity)
	}
	ctx.initializing = false

	if Config.storeEvents.OnEntityCreated != nil {
		for _, entity := range created {
			Config.storeEvents.OnEntityCreated(ctx, entity)
		}
	}
	ctx.log.Debug("created entities", zap.Int("count", n), zap.Int("population", ctx.entities.count))
	return created, nil
}

// checkInitialValues verifies every listed property is registered,
// writable, and paired with a value of its column type, and that no
// required property is absent from the list. Validating up front keeps a
// batch all-or-nothing: no entity is allocated on a bad list.
func (ctx *Context) checkInitialValues(inits []InitialValue) error {
	given := make(map[uint32]struct{}, len(inits))
	for _, init := range inits {
		id, err := ctx.registry.idFor(init.prop)
		if err != nil {
			return err
		}
		rec := ctx.registry.records[id]
		if rec.info.Kind == KindDerived {
			return DerivedWriteError{Property: rec.info.Name}
		}
		if err := rec.makeColumn().store(0, init.value); err != nil {
			return err
		}
		given[id] = struct{}{}
	}
	for _, rec := range ctx.registry.records {
		if rec == nil || !rec.info.Required {
			continue
		}
		if _, ok := given[rec.info.ID]; !ok {
			return MissingRequiredError{Property: rec.info.Name}
		}
	}
	return nil
}
