package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

var entityIdType = reflect.TypeFor[EntityId]()

// View represents a query for entities with a specific combination of components
// The type T should be a struct with embedded pointer fields for each component type
// Named fields can be marked as optional using the `ecs:"optional"` struct tag
// A field of type EntityId receives the id of the entity being visited
type View[T any] struct {
	storage     *Storage
	types       []reflect.Type
	optional    []bool
	fieldOffset []uintptr
	idOffset    uintptr
	hasId       bool
}

type viewPlan struct {
	archetype      *Archetype
	storageIndices []int
}

// NewView creates a new view for the given struct type
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{storage: storage}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if field.Type == entityIdType {
			v.idOffset = field.Offset
			v.hasId = true
			continue
		}

		if field.Type.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types or EntityId")
		}

		// Embedded fields are always required
		isOptional := false
		if !field.Anonymous {
			if tag := field.Tag.Get("ecs"); tag != "" {
				if tag != "optional" {
					panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
				}
				isOptional = true
			}
		}

		v.types = append(v.types, field.Type.Elem())
		v.optional = append(v.optional, isOptional)
		v.fieldOffset = append(v.fieldOffset, field.Offset)
	}

	return v
}

// matchesArchetype checks if an archetype contains all the required component types for this view
func (v *View[T]) matchesArchetype(archetype *Archetype) bool {
	for i, requiredType := range v.types {
		if v.optional[i] {
			continue
		}
		if !archetype.HasComponent(requiredType) {
			return false
		}
	}
	return true
}

func (v *View[T]) plan(archetype *Archetype) viewPlan {
	indices := make([]int, len(v.types))
	for i, componentType := range v.types {
		indices[i] = archetype.storageIndex(componentType)
	}
	return viewPlan{archetype: archetype, storageIndices: indices}
}

func (v *View[T]) populate(resultPtr unsafe.Pointer, p viewPlan, row int) {
	if v.hasId {
		*(*EntityId)(unsafe.Add(resultPtr, v.idOffset)) = p.archetype.ids[row]
	}
	for i, storageIdx := range p.storageIndices {
		fieldPtr := (*unsafe.Pointer)(unsafe.Add(resultPtr, v.fieldOffset[i]))
		if storageIdx == -1 {
			*fieldPtr = nil
			continue
		}
		*fieldPtr = p.archetype.pointer(storageIdx, row)
	}
}

// Get returns a populated view struct for the given entity, or nil if the entity
// doesn't have all the required components or is no longer alive
func (v *View[T]) Get(id EntityId) *T {
	loc, ok := v.storage.locations.Get(id)
	if !ok {
		return nil
	}
	archetype := v.storage.archetypes[loc.archetype]
	if !v.matchesArchetype(archetype) {
		return nil
	}

	var result T
	v.populate(unsafe.Pointer(&result), v.plan(archetype), int(loc.row))
	return &result
}

// Iter yields every live matching entity. Archetypes are visited in creation
// order and rows in spawn order. Entities deleted during iteration are skipped
// once reached; entities spawned during iteration are not visited.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for _, archetype := range v.storage.order {
			if !v.matchesArchetype(archetype) {
				continue
			}

			p := v.plan(archetype)
			n := len(archetype.ids)

			var result T
			resultPtr := unsafe.Pointer(&result)
			for row := 0; row < n; row++ {
				if !archetype.alive[row] {
					continue
				}
				v.populate(resultPtr, p, row)
				if !yield(archetype.ids[row], result) {
					return
				}
			}
		}
	}
}

// Values returns an iterator over just the view structs (without entity IDs)
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Count returns the number of live entities the view matches.
func (v *View[T]) Count() int {
	count := 0
	for _, archetype := range v.storage.order {
		if v.matchesArchetype(archetype) {
			count += archetype.Len()
		}
	}
	return count
}
