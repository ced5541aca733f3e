package authz

import (
	"context"
	"log/slog"

	"innoport/internal/identity/models"
	id "innoport/pkg/domain"
	dErrors "innoport/pkg/domain-errors"
)

// RoleLookup is the slice of the identity role store the resolver needs.
type RoleLookup interface {
	FindByUser(ctx context.Context, userID id.UserID) (models.RoleAssignment, error)
}

// Resolver maps an identity to its single role. Lookups fail soft: errors
// are logged and reported as "no role yet", so a transient store failure
// reads as an unresolved role rather than a denial.
type Resolver struct {
	roles  RoleLookup
	logger *slog.Logger
}

func NewResolver(roles RoleLookup, logger *slog.Logger) *Resolver {
	return &Resolver{roles: roles, logger: logger}
}

// Resolve returns the user's role. ok is false when the role is not (yet)
// known — missing row or lookup failure — and the caller must treat that as
// "still loading", never as "forbidden".
func (r *Resolver) Resolve(ctx context.Context, userID id.UserID) (id.Role, bool) {
	if userID.IsZero() {
		return "", false
	}
	assignment, err := r.roles.FindByUser(ctx, userID)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) && r.logger != nil {
			r.logger.WarnContext(ctx, "role lookup failed",
				"user_id", userID.String(),
				"error", err,
			)
		}
		return "", false
	}
	return assignment.Role, true
}
