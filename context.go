package ixa

import (
	"iter"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Context is the top-level owner of one simulation run's state: the entity
// population, every entity's property slots, and the Context-global slot.
// A Context is intended for a single simulation-logic caller at a time; no
// operation suspends or takes a lock.
type Context struct {
	id       uuid.UUID
	log      *zap.Logger
	registry *Registry
	entities *entityTable
	store    *propertyStore // rows addressed by entity id
	globals  *propertyStore // single row owned by the Context
	indexes  *indexSet

	resolving    map[resolveKey]struct{}
	initializing bool
}

type ContextOption func(*Context)

// WithLogger attaches a structured logger. Debug-level events cover
// sealing, entity creation, and query execution; the default is a nop
// logger.
func WithLogger(l *zap.Logger) ContextOption {
	return func(ctx *Context) { ctx.log = l }
}

func newContext(registry *Registry, opts ...ContextOption) (*Context, error) {
	if err := registry.Seal(); err != nil {
		return nil, err
	}
	ctx := &Context{
		id:        uuid.New(),
		log:       zap.NewNop(),
		registry:  registry,
		entities:  &entityTable{},
		resolving: make(map[resolveKey]struct{}),
	}
	ctx.store = newPropertyStore(registry, 0)
	ctx.globals = newPropertyStore(registry, 1)
	ctx.indexes = newIndexSet()
	for _, opt := range opts {
		opt(ctx)
	}
	ctx.log = ctx.log.With(zap.String("context_id", ctx.id.String()))
	ctx.log.Debug("context ready", zap.Int("properties", len(registry.byType)))
	return ctx, nil
}

// ID is the Context's instance identifier, carried on its log entries.
func (ctx *Context) ID() uuid.UUID {
	return ctx.id
}

func (ctx *Context) Registry() *Registry {
	return ctx.registry
}

func (ctx *Context) Exists(entity EntityID) bool {
	return ctx.entities.exists(entity)
}

func (ctx *Context) EntityCount() int {
	return ctx.entities.count
}

// Entities yields every entity id in creation order. The sequence is
// finite and restartable; see entityTable.ids for mid-iteration creation.
func (ctx *Context) Entities() iter.Seq[EntityID] {
	return ctx.entities.ids()
}

// PropertiesOf yields metadata for every property currently holding a
// value for the entity, in id order. Derived properties appear only once
// cached.
func (ctx *Context) PropertiesOf(entity EntityID) iter.Seq[PropertyInfo] {
	return func(yield func(PropertyInfo) bool) {
		if !ctx.entities.exists(entity) {
			return
		}
		for _, rec := range ctx.registry.records {
			if rec == nil || !ctx.store.has(int(entity), rec.info.ID) {
				continue
			}
			if !yield(rec.info) {
				return
			}
		}
	}
}

func (ctx *Context) setEntityProperty(p Property, entity EntityID, value any) error {
	id, err := ctx.registry.idFor(p)
	if err != nil {
		return err
	}
	rec := ctx.registry.records[id]
	if rec.info.Kind == KindDerived {
		return DerivedWriteError{Property: rec.info.Name}
	}
	if !ctx.entities.exists(entity) {
		return NoSuchEntityError{Entity: entity}
	}

	row := int(entity)
	ctx.indexes.forget(ctx, id, entity)
	if err := ctx.store.setBoxed(row, id, value); err != nil {
		return err
	}
	ctx.indexes.note(id, entity, value)
	ctx.invalidateDependents(rec, row)

	if !ctx.initializing && Config.storeEvents.OnPropertySet != nil {
		Config.storeEvents.OnPropertySet(ctx, entity, rec.info)
	}
	return nil
}

func (ctx *Context) setGlobalProperty(p Property, value any) error {
	id, err := ctx.registry.idFor(p)
	if err != nil {
		return err
	}
	rec := ctx.registry.records[id]
	if rec.info.Kind == KindDerived {
		return DerivedWriteError{Property: rec.info.Name}
	}
	if err := ctx.globals.setBoxed(0, id, value); err != nil {
		return err
	}
	// A global rewrite stales dependent derived caches for every entity.
	for row := 0; row < ctx.entities.count; row++ {
		ctx.invalidateDependents(rec, row)
	}
	return nil
}

// invalidateDependents drops the cached values of every derived property
// that transitively depends on rec, for one owner row. Indexed dependents
// get the row marked dirty whether or not a value was cached, so rows the
// index skipped for missing inputs are revisited once inputs arrive.
func (ctx *Context) invalidateDependents(rec *propertyRecord, row int) {
	for _, depID := range rec.dependents {
		ctx.indexes.markDirty(depID, row)
		if ctx.store.has(row, depID) {
			ctx.indexes.forget(ctx, depID, EntityID(row))
			ctx.store.clearSlot(row, depID)
		}
	}
}
