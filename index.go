package ixa

import (
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// IndexProperty enables a value index for the property: a map from hashed
// value to the set of entities currently holding it, consulted by equality
// clauses. Population is lazy; a watermark tracks how far the entity table
// has been indexed and query setup catches up. Indexing twice is a no-op.
// Global properties cannot be indexed.
func IndexProperty(ctx *Context, p Property) error {
	id, err := ctx.registry.idFor(p)
	if err != nil {
		return err
	}
	rec := ctx.registry.records[id]
	if rec.info.Kind == KindGlobal {
		return fmt.Errorf("cannot index global property %s", rec.info.Name)
	}
	if _, exists := ctx.indexes.byProperty[id]; !exists {
		ctx.indexes.byProperty[id] = &valueIndex{
			lookup: make(map[uint64]map[EntityID]struct{}),
			dirty:  make(map[int]struct{}),
		}
	}
	return nil
}

type indexSet struct {
	byProperty map[uint32]*valueIndex
}

// valueIndex rows below the watermark have been swept once; dirty holds
// the ones that need another look because a dependency write invalidated
// or newly enabled their derived value.
type valueIndex struct {
	lookup    map[uint64]map[EntityID]struct{}
	watermark int
	dirty     map[int]struct{}
}

func newIndexSet() *indexSet {
	return &indexSet{byProperty: make(map[uint32]*valueIndex)}
}

func (s *indexSet) index(id uint32) *valueIndex {
	return s.byProperty[id]
}

// note records the entity under the value just stored for it. No-op when
// the property is unindexed.
func (s *indexSet) note(id uint32, entity EntityID, value any) {
	vi := s.byProperty[id]
	if vi == nil {
		return
	}
	h := hashValue(value)
	set := vi.lookup[h]
	if set == nil {
		set = make(map[EntityID]struct{})
		vi.lookup[h] = set
	}
	set[entity] = struct{}{}
}

// forget removes the entity's entry for its current stored value, ahead of
// an overwrite or a cache invalidation.
func (s *indexSet) forget(ctx *Context, id uint32, entity EntityID) {
	vi := s.byProperty[id]
	if vi == nil {
		return
	}
	old, ok := ctx.store.getBoxed(int(entity), id)
	if !ok {
		return
	}
	h := hashValue(old)
	if set := vi.lookup[h]; set != nil {
		delete(set, entity)
		if len(set) == 0 {
			delete(vi.lookup, h)
		}
	}
}

// markDirty queues an already-swept row for re-resolution at the next
// refresh. Rows at or above the watermark are covered by the sweep itself.
func (s *indexSet) markDirty(id uint32, row int) {
	vi := s.byProperty[id]
	if vi == nil {
		return
	}
	if row < vi.watermark {
		vi.dirty[row] = struct{}{}
	}
}

// refresh indexes entities created since the last refresh, then revisits
// dirty rows. Derived properties resolve on the way; an entity whose
// inputs are missing stays unindexed until a dependency write marks its
// row dirty again.
func (s *indexSet) refresh(ctx *Context, id uint32) error {
	vi := s.byProperty[id]
	if vi == nil {
		return nil
	}
	count := ctx.entities.count
	for row := vi.watermark; row < count; row++ {
		if err := s.refreshRow(ctx, id, row); err != nil {
			return err
		}
	}
	vi.watermark = count
	for row := range vi.dirty {
		if err := s.refreshRow(ctx, id, row); err != nil {
			return err
		}
		delete(vi.dirty, row)
	}
	return nil
}

func (s *indexSet) refreshRow(ctx *Context, id uint32, row int) error {
	value, ok := ctx.store.getBoxed(row, id)
	if !ok && ctx.registry.records[id].info.Kind == KindDerived {
		v, err := resolveBoxed(ctx, EntityID(row), id)
		if err != nil {
			var missing MissingInputError
			if errors.As(err, &missing) {
				return nil
			}
			return err
		}
		value, ok = v, true
	}
	if ok {
		s.note(id, EntityID(row), value)
	}
	return nil
}

// hashValue keys index entries by the value's printed form. Collisions are
// tolerated: candidates drawn from an index are verified against the
// actual value.
func hashValue(v any) uint64 {
	return xxhash.Sum64String(fmt.Sprintf("%#v", v))
}
