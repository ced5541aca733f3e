// Package store persists registered startups.
package store

import (
	"context"

	"innoport/internal/startup/models"
	id "innoport/pkg/domain"
	dErrors "innoport/pkg/domain-errors"
)

var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "startup not found")

type Store interface {
	Save(ctx context.Context, startup models.Startup) error
	FindByID(ctx context.Context, startupID id.StartupID) (models.Startup, error)
	List(ctx context.Context, filter models.ListFilter) ([]models.Startup, error)
	Count(ctx context.Context) (int, error)
}
