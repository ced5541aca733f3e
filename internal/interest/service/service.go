// Package service implements investor interest. Interest in a startup is
// gated on admin verification of that startup.
package service

import (
	"context"
	"errors"
	"log/slog"

	"innoport/internal/interest/models"
	"innoport/internal/interest/store"
	startupmodels "innoport/internal/startup/models"
	id "innoport/pkg/domain"
	dErrors "innoport/pkg/domain-errors"
	audit "innoport/pkg/platform/audit"
	auditpub "innoport/pkg/platform/audit/publisher"
	"innoport/pkg/requestcontext"
)

// RoleResolver reports the caller's role; ok=false means not yet known.
type RoleResolver interface {
	Resolve(ctx context.Context, userID id.UserID) (id.Role, bool)
}

// StartupSource answers verification lookups when interest targets a startup.
type StartupSource interface {
	FindByID(ctx context.Context, startupID id.StartupID) (startupmodels.Startup, error)
}

type Service struct {
	interest store.Store
	startups StartupSource
	roles    RoleResolver
	auditor  *auditpub.Publisher
	logger   *slog.Logger
}

func New(interest store.Store, startups StartupSource, roles RoleResolver, auditor *auditpub.Publisher, logger *slog.Logger) (*Service, error) {
	if interest == nil {
		return nil, errors.New("interest store is required")
	}
	if startups == nil {
		return nil, errors.New("startup source is required")
	}
	if roles == nil {
		return nil, errors.New("role resolver is required")
	}
	return &Service{interest: interest, startups: startups, roles: roles, auditor: auditor, logger: logger}, nil
}

// Express records interest in a target. Investor only. When the target is a
// startup it must be verified first; unverified targets read as forbidden so
// the response does not leak whether the record exists pending review.
func (s *Service) Express(ctx context.Context, caller id.UserID, target models.Target, req *models.ExpressRequest) (*models.Interest, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if caller.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	role, ok := s.roles.Resolve(ctx, caller)
	if !ok || role != id.RoleInvestor {
		return nil, dErrors.New(dErrors.CodeForbidden, "only investors express interest")
	}

	if target.Type == models.TargetStartup {
		startupID, err := id.ParseStartupID(target.ID)
		if err != nil {
			return nil, err
		}
		startup, err := s.startups.FindByID(ctx, startupID)
		if err != nil {
			return nil, err
		}
		if !startup.IsVerified {
			return nil, dErrors.New(dErrors.CodeForbidden, "startup is not verified")
		}
	}

	record := models.Interest{
		ID:         id.NewInterestID(),
		InvestorID: caller,
		TargetType: target.Type,
		TargetID:   target.ID,
		Amount:     req.ParsedAmount(),
		Message:    req.Message,
		CreatedAt:  requestcontext.Now(ctx),
	}
	if err := s.interest.Append(ctx, record); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "append interest", err)
	}

	s.audit(ctx, audit.Event{
		UserID:  caller,
		Subject: record.TargetID,
		Action:  string(audit.EventInterestExpressed),
	})
	return &record, nil
}

// List returns interest expressed in one target, newest first.
func (s *Service) List(ctx context.Context, target models.Target) ([]models.Interest, error) {
	records, err := s.interest.ListByTarget(ctx, target)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list interest", err)
	}
	return records, nil
}

// Total sums every recorded amount, for the analytics overview.
func (s *Service) Total(ctx context.Context) (float64, error) {
	total, err := s.interest.Total(ctx)
	if err != nil {
		return 0, dErrors.Wrap(dErrors.CodeInternal, "total interest", err)
	}
	return total, nil
}

func (s *Service) audit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	if err := s.auditor.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", event.Action,
			"error", err,
		)
	}
}
