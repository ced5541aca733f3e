// Package store persists patent filings, with in-memory and PostgreSQL
// implementations side by side.
package store

import (
	"context"

	"innoport/internal/patent/models"
	id "innoport/pkg/domain"
	dErrors "innoport/pkg/domain-errors"
)

var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "patent not found")

// Store persists patent filings.
type Store interface {
	Save(ctx context.Context, patent models.Patent) error
	FindByID(ctx context.Context, patentID id.PatentID) (models.Patent, error)
	List(ctx context.Context, filter models.ListFilter) ([]models.Patent, error)
	Count(ctx context.Context) (int, error)
}
