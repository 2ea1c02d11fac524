package ixa

import (
	"iter"
	"slices"

	"github.com/TheBitDrifter/table"
)

type propertyRecord struct {
	info       PropertyInfo
	iden       table.ElementType
	deps       []uint32
	dependents []uint32 // transitive, filled at Seal
	makeColumn func() anyColumn
	compute    func(*Context, EntityID) (any, error)
}

// Registry maps property types to stable dense identifiers and their
// metadata. Identifier assignment is delegated to a table.Schema, so ids
// double as mask bits and column indices. The lifecycle is write-once:
// register everything during start-up, then Seal freezes the registry and
// validates the dependency graph. A sealed registry is safe for any number
// of concurrent readers.
type Registry struct {
	schema  table.Schema
	records []*propertyRecord
	byType  map[table.ElementType]uint32
	byName  map[string]uint32
	graph   depGraph
	sealed  bool
}

func newRegistry() *Registry {
	return &Registry{
		schema: table.Factory.NewSchema(),
		byType: make(map[table.ElementType]uint32),
		byName: make(map[string]uint32),
	}
}

// Register records the given property handles. Registration is idempotent
// per handle; a handle whose type is already registered with different
// metadata is rejected. Dependencies of a derived property must already be
// registered, and a dependency set that would close a cycle is rejected
// here, before any entity can use the property.
func (r *Registry) Register(props ...Property) error {
	for _, p := range props {
		if err := r.registerOne(p); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) registerOne(p Property) error {
	internal, ok := p.(propertyInternal)
	if !ok {
		return ConflictingRegistrationError{Name: typeNameOf(p)}
	}
	info := internal.describe()
	if r.sealed {
		return SealedRegistryError{Property: info.Name}
	}

	iden := internal.elementType()
	if id, exists := r.byType[iden]; exists {
		existing := r.records[id].info
		if existing.Name == info.Name && existing.Kind == info.Kind && existing.Required == info.Required {
			return nil
		}
		return ConflictingRegistrationError{Name: info.Name}
	}
	if _, taken := r.byName[info.Name]; taken {
		return ConflictingRegistrationError{Name: info.Name}
	}
	if uint32(len(r.byType)) >= maskCapacity {
		return PropertyLimitError{Property: info.Name, Limit: maskCapacity}
	}

	var deps []uint32
	if info.Kind == KindDerived {
		for _, dep := range internal.depHandles() {
			if depInternal, ok := dep.(propertyInternal); ok && depInternal.elementType() == iden {
				return DependencyCycleError{Property: info.Name}
			}
			depID, err := r.idFor(dep)
			if err != nil {
				return err
			}
			if !slices.Contains(deps, depID) {
				deps = append(deps, depID)
			}
		}
	}

	r.schema.Register(iden)
	id := r.schema.RowIndexFor(iden)
	for uint32(len(r.records)) <= id {
		r.records = append(r.records, nil)
		r.graph.addNode()
	}

	if info.Kind == KindDerived && r.graph.wouldCycle(id, deps) {
		return DependencyCycleError{Property: info.Name}
	}
	r.graph.setDeps(id, deps)

	info.ID = id
	r.records[id] = &propertyRecord{
		info:       info,
		iden:       iden,
		deps:       deps,
		makeColumn: internal.makeColumn,
		compute:    internal.boxedCompute(),
	}
	r.byType[iden] = id
	r.byName[info.Name] = id
	return nil
}

// Seal freezes the registry. Further registration fails, the dependency
// graph is validated whole, and the transitive dependents of every
// property are precomputed for cache invalidation. Sealing twice is a
// no-op.
func (r *Registry) Seal() error {
	if r.sealed {
		return nil
	}
	if bad, found := r.graph.validate(); found {
		name := ""
		if rec := r.records[bad]; rec != nil {
			name = rec.info.Name
		}
		return DependencyCycleError{Property: name}
	}
	closure := r.graph.dependentsClosure()
	for id, rec := range r.records {
		if rec != nil {
			rec.dependents = closure[id]
		}
	}
	r.sealed = true
	return nil
}

func (r *Registry) Sealed() bool {
	return r.sealed
}

// PropertyByID is the identifier-directed lookup, for callers iterating
// properties generically.
func (r *Registry) PropertyByID(id uint32) (PropertyInfo, bool) {
	if rec := r.record(id); rec != nil {
		return rec.info, true
	}
	return PropertyInfo{}, false
}

func (r *Registry) PropertyByName(name string) (PropertyInfo, bool) {
	id, ok := r.byName[name]
	if !ok {
		return PropertyInfo{}, false
	}
	return r.records[id].info, true
}

// Properties yields metadata for every registered property in id order.
func (r *Registry) Properties() iter.Seq[PropertyInfo] {
	return func(yield func(PropertyInfo) bool) {
		for _, rec := range r.records {
			if rec == nil {
				continue
			}
			if !yield(rec.info) {
				return
			}
		}
	}
}

// Dependencies returns the declared dependency ids of a derived property,
// or an empty set for simple and global properties.
func (r *Registry) Dependencies(id uint32) []uint32 {
	rec := r.record(id)
	if rec == nil {
		return nil
	}
	return slices.Clone(rec.deps)
}

func (r *Registry) idFor(p Property) (uint32, error) {
	internal, ok := p.(propertyInternal)
	if !ok {
		return 0, UnregisteredPropertyError{Name: typeNameOf(p)}
	}
	id, exists := r.byType[internal.elementType()]
	if !exists {
		return 0, UnregisteredPropertyError{Name: internal.describe().Name}
	}
	return id, nil
}

func (r *Registry) record(id uint32) *propertyRecord {
	if id >= uint32(len(r.records)) {
		return nil
	}
	return r.records[id]
}
