package ixa

import (
	"reflect"

	"github.com/TheBitDrifter/mask"
)

// maskCapacity is how many distinct property ids the mask build in use can
// track. The mask package sizes Mask by build tag; registration enforces
// this bound so Mark never indexes past it.
var maskCapacity = uint32(reflect.TypeOf(mask.Mask{}).Size() * 8)

// propertyStore holds one sparse column per registered property plus one
// presence mask per owner row. The entity store has a row per entity; the
// global store has a single row owned by the Context. At most one value
// exists per (row, property) pair.
type propertyStore struct {
	registry *Registry
	columns  []anyColumn
	masks    []mask.Mask
	rows     int
}

func newPropertyStore(registry *Registry, rows int) *propertyStore {
	return &propertyStore{
		registry: registry,
		columns:  make([]anyColumn, len(registry.records)),
		masks:    make([]mask.Mask, rows),
		rows:     rows,
	}
}

func (s *propertyStore) addRow() int {
	row := s.rows
	if row >= len(s.masks) {
		newCap := max(row+1, 2*cap(s.masks))
		grown := make([]mask.Mask, row+1, newCap)
		copy(grown, s.masks)
		s.masks = grown
	}
	s.rows++
	return row
}

func (s *propertyStore) has(row int, id uint32) bool {
	if row >= s.rows {
		return false
	}
	return maskHasBit(s.masks[row], id)
}

func (s *propertyStore) getBoxed(row int, id uint32) (any, bool) {
	if !s.has(row, id) {
		return nil, false
	}
	return s.columns[id].load(row), true
}

func (s *propertyStore) setBoxed(row int, id uint32, value any) error {
	col := s.columns[id]
	if col == nil {
		col = s.registry.records[id].makeColumn()
		s.columns[id] = col
	}
	if err := col.store(row, value); err != nil {
		return err
	}
	s.masks[row].Mark(id)
	return nil
}

func (s *propertyStore) clearSlot(row int, id uint32) {
	if !s.has(row, id) {
		return
	}
	s.masks[row].Unmark(id)
	s.columns[id].clear(row)
}

// loadTyped is the typed read fast path: a checked downcast of the column
// itself rather than of a boxed value.
func loadTyped[T any](s *propertyStore, row int, id uint32, name string) (T, bool, error) {
	var zero T
	if !s.has(row, id) {
		return zero, false, nil
	}
	col, ok := s.columns[id].(*column[T])
	if !ok {
		return zero, false, TypeMismatchError{Property: name, Expected: s.columns[id].typeName(), Actual: typeNameOf(zero)}
	}
	return col.values[row], true, nil
}

func maskHasBit(m mask.Mask, bit uint32) bool {
	var probe mask.Mask
	probe.Mark(bit)
	return m.ContainsAll(probe)
}
