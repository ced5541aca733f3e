// Package store persists investor interest. The store is append-only by
// contract; implementations expose no delete or update.
package store

import (
	"context"

	"innoport/internal/interest/models"
)

type Store interface {
	Append(ctx context.Context, interest models.Interest) error
	ListByTarget(ctx context.Context, target models.Target) ([]models.Interest, error)
	Total(ctx context.Context) (float64, error)
}
