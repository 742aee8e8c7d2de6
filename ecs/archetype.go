package ecs

import (
	"hash/fnv"
	"reflect"
	"slices"
	"sort"
	"unsafe"
)

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

// Archetype is the table of every entity sharing one exact set of component
// types. Rows keep spawn order; deleted rows stay in place as tombstones until
// Compact runs.
type Archetype struct {
	id       uint32
	types    []reflect.Type
	storages []componentStorage
	ids      []EntityId
	alive    []bool
	dead     int
}

// NewArchetype creates a new archetype with the given ID and sorted component types
func NewArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:       id,
		types:    types,
		storages: make([]componentStorage, len(types)),
	}

	for idx, typ := range types {
		factory := registry.getFactory(typ)
		if factory == nil {
			panic("component type " + typ.String() + " not registered")
		}
		a.storages[idx] = factory()
	}

	return a
}

// spawn appends a row holding the given components (already sorted to match
// a.types) and returns its row index.
func (a *Archetype) spawn(id EntityId, components []any) int {
	for idx, comp := range components {
		a.storages[idx].Append(comp)
	}
	a.ids = append(a.ids, id)
	a.alive = append(a.alive, true)
	return len(a.ids) - 1
}

// kill tombstones a row. It reports false if the row was already dead.
func (a *Archetype) kill(row int) bool {
	if row < 0 || row >= len(a.alive) || !a.alive[row] {
		return false
	}
	a.alive[row] = false
	a.dead++
	return true
}

// compact removes tombstoned rows and calls moved for every survivor whose
// row index changed.
func (a *Archetype) compact(moved func(id EntityId, row int)) {
	if a.dead == 0 {
		return
	}

	for _, storage := range a.storages {
		storage.Compact(a.alive)
	}

	write := 0
	for read, id := range a.ids {
		if !a.alive[read] {
			continue
		}
		if write != read {
			a.ids[write] = id
			moved(id, write)
		}
		write++
	}

	a.ids = a.ids[:write]
	a.alive = a.alive[:write]
	for i := range a.alive {
		a.alive[i] = true
	}
	a.dead = 0
}

func (a *Archetype) reset() {
	for _, storage := range a.storages {
		storage.Reset()
	}
	a.ids = a.ids[:0]
	a.alive = a.alive[:0]
	a.dead = 0
}

func (a *Archetype) storageIndex(compType reflect.Type) int {
	for i, typ := range a.types {
		if typ == compType {
			return i
		}
	}
	return -1
}

// GetComponent returns a pointer to the component of the given type at row,
// or nil if this archetype has no such component.
func (a *Archetype) GetComponent(row int, compType reflect.Type) any {
	idx := a.storageIndex(compType)
	if idx == -1 {
		return nil
	}
	return a.storages[idx].Get(row)
}

func (a *Archetype) pointer(storageIdx, row int) unsafe.Pointer {
	return a.storages[storageIdx].Pointer(row)
}

// HasComponent checks if this archetype has the given component type
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return slices.Contains(a.types, compType)
}

// ID returns the archetype's unique identifier
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types for this archetype
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities.
func (a *Archetype) Len() int {
	return len(a.ids) - a.dead
}

// Iter yields live entity ids in spawn order. Rows appended while iterating
// are not visited.
func (a *Archetype) Iter() func(yield func(EntityId) bool) {
	return func(yield func(EntityId) bool) {
		n := len(a.ids)
		for row := 0; row < n; row++ {
			if !a.alive[row] {
				continue
			}
			if !yield(a.ids[row]) {
				return
			}
		}
	}
}

// extractComponentTypes returns the component types of components sorted by
// name, plus the permutation that sorts the components themselves.
func extractComponentTypes(components []any) ([]reflect.Type, []int) {
	types := make([]reflect.Type, len(components))
	for i, comp := range components {
		compType := reflect.TypeOf(comp)
		if compType == nil {
			panic("components cannot be nil")
		}

		if compType.Kind() == reflect.Ptr {
			compType = compType.Elem()
		}

		// Components can be structs or primitives, not reference kinds.
		switch compType.Kind() {
		case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func:
			panic("components cannot be pointers, maps, channels, or functions")
		}

		types[i] = compType
	}

	order := make([]int, len(types))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return types[order[i]].String() < types[order[j]].String()
	})

	sorted := make([]reflect.Type, len(types))
	for i, idx := range order {
		sorted[i] = types[idx]
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			panic("duplicate component type " + sorted[i].String())
		}
	}
	return sorted, order
}

// hashTypes derives an archetype id from a sorted type list.
func hashTypes(types []reflect.Type) uint32 {
	h := fnv.New32a()
	for _, t := range types {
		h.Write([]byte(t.PkgPath()))
		h.Write([]byte{'.'})
		h.Write([]byte(t.String()))
		h.Write([]byte{0})
	}
	return h.Sum32()
}
