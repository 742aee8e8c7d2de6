package ecs

// EntityId identifies an entity for its whole lifetime. Ids are handed out
// sequentially by a Storage and never reused; zero is never a valid id.
type EntityId uint64

// location is where an entity's components currently live
type location struct {
	archetype uint32
	row       int32
}
