package models

import (
	"time"
)

// Model is a record kept in the history database.
type Model interface {
	ID() string
	CreatedAt() time.Time
	// Validate reports whether the record may be stored.
	Validate() error
}

// Repository stores one kind of [Model].
//
// List criteria are repository specific; every repository understands
// "limit" (int, 0 for no limit).
type Repository[T Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	Delete(id string) error
	List(criteria map[string]any) ([]T, error)
	Clear() (int64, error)
}
