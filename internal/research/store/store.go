// Package store persists research projects, with in-memory and PostgreSQL
// implementations side by side.
package store

import (
	"context"

	"innoport/internal/research/models"
	id "innoport/pkg/domain"
	dErrors "innoport/pkg/domain-errors"
)

// ErrNotFound keeps storage-specific 404s consistent across implementations.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "project not found")

// Store persists research projects. Writes are last-write-wins; the backend
// imposes no optimistic locking.
type Store interface {
	Save(ctx context.Context, project models.Project) error
	FindByID(ctx context.Context, projectID id.ProjectID) (models.Project, error)
	List(ctx context.Context, filter models.ListFilter) ([]models.Project, error)
	Count(ctx context.Context) (int, error)
}
