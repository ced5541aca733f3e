// Package store persists collaboration requests.
package store

import (
	"context"

	"innoport/internal/collab/models"
	id "innoport/pkg/domain"
	dErrors "innoport/pkg/domain-errors"
)

var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "collaboration request not found")

type Store interface {
	Save(ctx context.Context, collab models.Collaboration) error
	FindByID(ctx context.Context, collabID id.CollabID) (models.Collaboration, error)
	List(ctx context.Context, filter models.ListFilter) ([]models.Collaboration, error)
	Count(ctx context.Context) (int, error)
}
