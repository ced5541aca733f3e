// Package store defines persistence interfaces for identity records, with
// in-memory and PostgreSQL implementations side by side.
package store

import (
	"context"

	"innoport/internal/identity/models"
	id "innoport/pkg/domain"
	dErrors "innoport/pkg/domain-errors"
)

// ErrNotFound keeps storage-specific 404s consistent across implementations.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "record not found")

// Atomic runs fn so that every store write inside it commits or rolls back
// as one unit. The postgres implementation opens a transaction and threads
// it through the context; the in-memory stores run fn directly.
type Atomic interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// PassthroughAtomic runs fn without transactional guarantees. Used with the
// in-memory stores, whose writes cannot partially fail.
type PassthroughAtomic struct{}

func (PassthroughAtomic) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// UserStore persists identities.
type UserStore interface {
	Save(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, userID id.UserID) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// ProfileStore persists the one-to-one profile rows.
type ProfileStore interface {
	Save(ctx context.Context, profile models.Profile) error
	FindByUser(ctx context.Context, userID id.UserID) (models.Profile, error)
}

// RoleStore persists the one-to-one role assignment rows. Assignments are
// written once at sign-up; there is no update operation.
type RoleStore interface {
	Assign(ctx context.Context, assignment models.RoleAssignment) error
	FindByUser(ctx context.Context, userID id.UserID) (models.RoleAssignment, error)
}
