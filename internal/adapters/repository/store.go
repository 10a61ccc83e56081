// Package repository holds the append-only event list.
package repository

import (
	"context"

	"github.com/okian/eywa/internal/domain/model"
)

// Store provides append and read access to the event list.
// Events are never updated or removed.
type Store interface {
	// Append validates e and adds it at the end. Ids must increase.
	Append(ctx context.Context, e model.Event) error
	// List returns a copy of all events in append order.
	List(ctx context.Context) []model.Event
	// Get returns the event with the given id or ErrNotFound.
	Get(ctx context.Context, id int) (model.Event, error)
	// Count returns the number of stored events.
	Count(ctx context.Context) int
}
