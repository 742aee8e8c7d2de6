package ecs

import (
	"reflect"
	"sort"

	"github.com/kamstrup/intmap"
)

// Storage is the main ECS storage interface
type Storage struct {
	registry   *ComponentRegistry
	archetypes map[uint32]*Archetype
	// order holds archetypes in creation order so iteration is deterministic
	order      []*Archetype
	locations  *intmap.Map[EntityId, location]
	nextId     EntityId
	singletons map[reflect.Type]any
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		registry:   registry,
		archetypes: make(map[uint32]*Archetype),
		locations:  intmap.New[EntityId, location](256),
		singletons: make(map[reflect.Type]any),
	}
}

func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	id := hashTypes(types)
	archetype, ok := s.archetypes[id]
	if !ok {
		archetype = NewArchetype(id, types, s.registry)
		s.archetypes[id] = archetype
		s.order = append(s.order, archetype)
	}
	return archetype
}

// GetArchetype returns the archetype holding exactly the given component set, if one exists
func (s *Storage) GetArchetype(components ...any) *Archetype {
	types, _ := extractComponentTypes(components)
	return s.archetypes[hashTypes(types)]
}

// GetArchetypeByTypes returns an archetype storage (if one exists) based on reflect.Type
func (s *Storage) GetArchetypeByTypes(types []reflect.Type) *Archetype {
	sorted := append([]reflect.Type(nil), types...)
	sort.Sort(byTypeName(sorted))
	return s.archetypes[hashTypes(sorted)]
}

// Archetypes returns every archetype in creation order.
func (s *Storage) Archetypes() []*Archetype {
	return s.order
}

// Spawn creates a new entity with the provided components. Components may be
// passed by value or by pointer; they are always copied into storage.
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	types, order := extractComponentTypes(components)
	sorted := make([]any, len(components))
	for i, idx := range order {
		sorted[i] = components[idx]
	}

	archetype := s.archetypeFor(types)

	s.nextId++
	id := s.nextId
	row := archetype.spawn(id, sorted)
	s.locations.Put(id, location{archetype: archetype.id, row: int32(row)})
	return id
}

// Delete removes the entity. The row is tombstoned immediately, so live
// iterators skip it, and reclaimed on the next Compact. Deleting an unknown or
// already deleted entity is a no-op.
func (s *Storage) Delete(id EntityId) bool {
	loc, ok := s.locations.Get(id)
	if !ok {
		return false
	}
	s.locations.Del(id)
	return s.archetypes[loc.archetype].kill(int(loc.row))
}

// Alive reports whether the entity exists and has not been deleted.
func (s *Storage) Alive(id EntityId) bool {
	_, ok := s.locations.Get(id)
	return ok
}

// ArchetypeOf returns the archetype holding a live entity, or nil.
func (s *Storage) ArchetypeOf(id EntityId) *Archetype {
	loc, ok := s.locations.Get(id)
	if !ok {
		return nil
	}
	return s.archetypes[loc.archetype]
}

// Compact reclaims tombstoned rows in every archetype, preserving order.
func (s *Storage) Compact() {
	for _, archetype := range s.order {
		archetypeId := archetype.id
		archetype.compact(func(id EntityId, row int) {
			s.locations.Put(id, location{archetype: archetypeId, row: int32(row)})
		})
	}
}

// Clear deletes every entity. Singletons and archetype tables survive.
func (s *Storage) Clear() {
	for _, archetype := range s.order {
		archetype.reset()
	}
	s.locations.Clear()
}

// GetComponent returns the component for the given entity ID and component type
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	loc, ok := s.locations.Get(id)
	if !ok {
		return nil
	}
	return s.archetypes[loc.archetype].GetComponent(int(loc.row), compType)
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	loc, ok := s.locations.Get(id)
	if !ok {
		return false
	}
	return s.archetypes[loc.archetype].HasComponent(compType)
}

// AddSingleton stores value as the singleton for its type, replacing any previous one.
func (s *Storage) AddSingleton(value any) {
	t := reflect.TypeOf(value)
	ptr := reflect.New(t)
	ptr.Elem().Set(reflect.ValueOf(value))
	s.singletons[t] = ptr.Interface()
}

// ReadSingleton points *dst at the singleton of type T. It returns false if
// no such singleton exists.
func (s *Storage) ReadSingleton(dst any) bool {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Ptr {
		panic("ReadSingleton expects a pointer to a pointer")
	}
	ptr, ok := s.singletons[v.Elem().Type().Elem()]
	if !ok {
		return false
	}
	v.Elem().Set(reflect.ValueOf(ptr))
	return true
}

func (s *Storage) singleton(t reflect.Type) any {
	return s.singletons[t]
}

// ComponentReader is implemented by anything that can look up components by entity.
type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns a typed pointer to the entity's component, or nil.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp := reader.GetComponent(entityId, reflect.TypeFor[T]())
	if comp == nil {
		return nil
	}
	return comp.(*T)
}
