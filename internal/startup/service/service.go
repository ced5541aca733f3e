// Package service implements startup registration and admin verification.
package service

import (
	"context"
	"errors"
	"log/slog"

	"innoport/internal/startup/models"
	"innoport/internal/startup/store"
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

type Service struct {
	startups store.Store
	roles    RoleResolver
	auditor  *auditpub.Publisher
	logger   *slog.Logger
}

func New(startups store.Store, roles RoleResolver, auditor *auditpub.Publisher, logger *slog.Logger) (*Service, error) {
	if startups == nil {
		return nil, errors.New("startup store is required")
	}
	if roles == nil {
		return nil, errors.New("role resolver is required")
	}
	return &Service{startups: startups, roles: roles, auditor: auditor, logger: logger}, nil
}

func (s *Service) requireRole(ctx context.Context, userID id.UserID, allowed ...id.Role) (id.Role, error) {
	if userID.IsZero() {
		return "", dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	role, ok := s.roles.Resolve(ctx, userID)
	if !ok {
		return "", dErrors.New(dErrors.CodeForbidden, "role not assigned")
	}
	for _, a := range allowed {
		if role == a {
			return role, nil
		}
	}
	return "", dErrors.New(dErrors.CodeForbidden, "operation not permitted for role")
}

// Create registers a company. Only the startup role registers; verification
// always starts false no matter what the form carried.
func (s *Service) Create(ctx context.Context, caller id.UserID, req *models.CreateRequest) (*models.Startup, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.requireRole(ctx, caller, id.RoleStartup); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	startup := models.Startup{
		ID:              id.NewStartupID(),
		CompanyName:     req.CompanyName,
		FounderName:     req.FounderName,
		Sector:          req.Sector,
		Stage:           models.Stage(req.Stage),
		Description:     req.Description,
		FundingReceived: req.ParsedFundingReceived(),
		RecognitionID:   req.RecognitionID,
		LogoURL:         req.LogoURL,
		DocumentPath:    req.DocumentPath,
		IsVerified:      false,
		CreatedBy:       caller,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.startups.Save(ctx, startup); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "save startup", err)
	}

	s.audit(ctx, audit.Event{
		UserID:  caller,
		Subject: startup.ID.String(),
		Action:  string(audit.EventStartupRegistered),
	})
	return &startup, nil
}

// Verify marks a startup as verified. Admin only and one-way; verifying an
// already verified startup succeeds without a second audit entry.
func (s *Service) Verify(ctx context.Context, caller id.UserID, startupID id.StartupID) (*models.Startup, error) {
	if _, err := s.requireRole(ctx, caller, id.RoleAdmin); err != nil {
		return nil, err
	}

	startup, err := s.startups.FindByID(ctx, startupID)
	if err != nil {
		return nil, err
	}
	if startup.IsVerified {
		return &startup, nil
	}

	startup.IsVerified = true
	startup.UpdatedAt = requestcontext.Now(ctx)
	if err := s.startups.Save(ctx, startup); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "save verification", err)
	}

	s.audit(ctx, audit.Event{
		UserID:  startup.CreatedBy,
		ActorID: caller.String(),
		Subject: startup.ID.String(),
		Action:  string(audit.EventStartupVerified),
	})
	return &startup, nil
}

// List returns startups matching the filter, newest first.
func (s *Service) List(ctx context.Context, caller id.UserID, filter models.ListFilter) ([]models.Startup, error) {
	filter.Caller = caller
	startups, err := s.startups.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list startups", err)
	}
	return startups, nil
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
