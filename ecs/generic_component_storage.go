package ecs

import (
	"reflect"
	"unsafe"
)

// ComponentRegistry manages component type registration for an ECS instance.
// Each Storage instance has its own ComponentRegistry, allowing multiple
// independent ECS systems to coexist without interference.
type ComponentRegistry struct {
	factories map[reflect.Type]func() componentStorage
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() componentStorage),
	}
}

// RegisterComponent registers a new component type with the given registry.
// This must be called for each component type before it can be spawned.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	r.factories[t] = func() componentStorage {
		return &genericComponentStorage[T]{}
	}
}

func (r *ComponentRegistry) getFactory(t reflect.Type) func() componentStorage {
	return r.factories[t]
}

// componentStorage is a type-erased column of one component type.
type componentStorage interface {
	Append(item any)
	Pointer(row int) unsafe.Pointer
	Get(row int) any
	Compact(alive []bool)
	Reset()
}

const genericBlockSize = 64

// genericComponentStorage stores components of type T densely in fixed-size
// blocks. Appending never moves existing components, so pointers handed out
// during a pass stay valid until the next Compact.
type genericComponentStorage[T any] struct {
	blocks []*[genericBlockSize]T
	length int
}

func (cs *genericComponentStorage[T]) Append(item any) {
	var value T
	switch v := item.(type) {
	case T:
		value = v
	case *T:
		value = *v
	default:
		panic("component type mismatch: got " + reflect.TypeOf(item).String())
	}

	blockIdx := cs.length / genericBlockSize
	if blockIdx >= len(cs.blocks) {
		cs.blocks = append(cs.blocks, new([genericBlockSize]T))
	}
	cs.blocks[blockIdx][cs.length%genericBlockSize] = value
	cs.length++
}

func (cs *genericComponentStorage[T]) at(row int) *T {
	return &cs.blocks[row/genericBlockSize][row%genericBlockSize]
}

func (cs *genericComponentStorage[T]) Pointer(row int) unsafe.Pointer {
	if row < 0 || row >= cs.length {
		return nil
	}
	return unsafe.Pointer(cs.at(row))
}

func (cs *genericComponentStorage[T]) Get(row int) any {
	if row < 0 || row >= cs.length {
		return nil
	}
	return cs.at(row)
}

// Compact drops every row whose alive flag is false, keeping survivors in
// their original relative order.
func (cs *genericComponentStorage[T]) Compact(alive []bool) {
	var zero T
	write := 0
	for read := 0; read < cs.length; read++ {
		if !alive[read] {
			continue
		}
		if write != read {
			*cs.at(write) = *cs.at(read)
		}
		write++
	}
	for i := write; i < cs.length; i++ {
		*cs.at(i) = zero
	}
	cs.length = write

	used := (write + genericBlockSize - 1) / genericBlockSize
	for i := used; i < len(cs.blocks); i++ {
		cs.blocks[i] = nil
	}
	cs.blocks = cs.blocks[:used]
}

func (cs *genericComponentStorage[T]) Reset() {
	cs.blocks = nil
	cs.length = 0
}
