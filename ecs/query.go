package ecs

import "iter"

// Query is a View declared as a System field. The Scheduler binds it to its
// storage on registration, so systems never construct views themselves.
//
// Iteration is live: deletes issued during a pass are observed immediately,
// spawns only after the rows are appended.
type Query[T any] struct {
	view *View[T]
}

// NewQuery creates a Query bound to storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init binds the query to a storage. Called by the Scheduler during system registration.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
}

func (q *Query[T]) mustView() *View[T] {
	if q.view == nil {
		panic("Query used before Init; register the system with a Scheduler")
	}
	return q.view
}

// Iter returns an iterator over entity IDs and component data.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	return q.mustView().Iter()
}

// Values returns an iterator over component data only.
func (q *Query[T]) Values() iter.Seq[T] {
	return q.mustView().Values()
}

// Get returns the component data for a single entity, or nil.
func (q *Query[T]) Get(id EntityId) *T {
	return q.mustView().Get(id)
}

// Count returns the number of live matching entities.
func (q *Query[T]) Count() int {
	return q.mustView().Count()
}

// First returns the first matching entity in iteration order.
func (q *Query[T]) First() (EntityId, T, bool) {
	for id, item := range q.mustView().Iter() {
		return id, item, true
	}
	var zero T
	return 0, zero, false
}
