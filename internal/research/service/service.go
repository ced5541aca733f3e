// Package service implements the research project lifecycle: submission by
// researchers and review decisions by admins.
package service

import (
	"context"
	"errors"
	"log/slog"

	"innoport/internal/research/models"
	"innoport/internal/research/store"
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
	projects store.Store
	roles    RoleResolver
	auditor  *auditpub.Publisher
	logger   *slog.Logger
}

func New(projects store.Store, roles RoleResolver, auditor *auditpub.Publisher, logger *slog.Logger) (*Service, error) {
	if projects == nil {
		return nil, errors.New("project store is required")
	}
	if roles == nil {
		return nil, errors.New("role resolver is required")
	}
	return &Service{projects: projects, roles: roles, auditor: auditor, logger: logger}, nil
}

// requireRole rejects callers whose resolved role is not in the allowed set.
// An unresolved role cannot authorize a mutation, so it reads as forbidden
// here — unlike the route guard's hold, a write has no "retry shortly".
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

// Create submits a new project. Only researchers submit; the record always
// starts in submitted with no approver.
func (s *Service) Create(ctx context.Context, caller id.UserID, req *models.CreateRequest) (*models.Project, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.requireRole(ctx, caller, id.RoleResearcher); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	project := models.Project{
		ID:                    id.NewProjectID(),
		Title:                 req.Title,
		Abstract:              req.Abstract,
		Institution:           req.Institution,
		PrincipalInvestigator: req.PrincipalInvestigator,
		FundingAmount:         req.ParsedFundingAmount(),
		DurationMonths:        req.ParsedDurationMonths(),
		DocumentPath:          req.DocumentPath,
		Status:                models.StatusSubmitted,
		CreatedBy:             caller,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := s.projects.Save(ctx, project); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "save project", err)
	}

	s.audit(ctx, audit.Event{
		UserID:  caller,
		Subject: project.ID.String(),
		Action:  string(audit.EventProjectSubmitted),
	})
	return &project, nil
}

// Decide moves a project through review. Admin only; the transition graph is
// enforced so a decided project never reverts.
func (s *Service) Decide(ctx context.Context, caller id.UserID, projectID id.ProjectID, req *models.DecisionRequest) (*models.Project, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.requireRole(ctx, caller, id.RoleAdmin); err != nil {
		return nil, err
	}

	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	newStatus := models.Status(req.Status)
	if !models.CanTransition(project.Status, newStatus) {
		return nil, dErrors.New(dErrors.CodeConflict,
			"cannot move project from "+string(project.Status)+" to "+string(newStatus))
	}

	project.Status = newStatus
	project.ReviewComment = req.Comment
	project.UpdatedAt = requestcontext.Now(ctx)
	if newStatus == models.StatusApproved || newStatus == models.StatusRejected {
		approver := caller
		project.ApprovedBy = &approver
	}
	if err := s.projects.Save(ctx, project); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "save decision", err)
	}

	s.audit(ctx, audit.Event{
		UserID:   project.CreatedBy,
		ActorID:  caller.String(),
		Subject:  project.ID.String(),
		Action:   string(audit.EventProjectDecided),
		Decision: string(newStatus),
		Reason:   req.Comment,
	})
	return &project, nil
}

// List returns projects matching the filter, newest first.
func (s *Service) List(ctx context.Context, caller id.UserID, filter models.ListFilter) ([]models.Project, error) {
	filter.Caller = caller
	projects, err := s.projects.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list projects", err)
	}
	return projects, nil
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
