package projection

import "time"

// Metadata captures persistence timestamps shared by read models.
type Metadata struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Projection pairs a stored entity with its persistence metadata.
type Projection[T any] struct {
	Entity   T
	Metadata Metadata
}

// New stamps an entity that was stored once and never updated.
func New[T any](entity T, createdAt time.Time) Projection[T] {
	return Projection[T]{Entity: entity, Metadata: Metadata{CreatedAt: createdAt, UpdatedAt: createdAt}}
}

// Map converts the entity and keeps the metadata untouched.
func Map[T, U any](p Projection[T], fn func(T) U) Projection[U] {
	return Projection[U]{Entity: fn(p.Entity), Metadata: p.Metadata}
}
