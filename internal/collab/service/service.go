// Package service implements collaboration requests: researchers ask the
// owner of an approved project to collaborate, and only the owner answers.
package service

import (
	"context"
	"errors"
	"log/slog"

	"innoport/internal/collab/models"
	"innoport/internal/collab/store"
	researchmodels "innoport/internal/research/models"
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

// ProjectSource answers project lookups when a request is created.
type ProjectSource interface {
	FindByID(ctx context.Context, projectID id.ProjectID) (researchmodels.Project, error)
}

type Service struct {
	collabs  store.Store
	projects ProjectSource
	roles    RoleResolver
	auditor  *auditpub.Publisher
	logger   *slog.Logger
}

func New(collabs store.Store, projects ProjectSource, roles RoleResolver, auditor *auditpub.Publisher, logger *slog.Logger) (*Service, error) {
	if collabs == nil {
		return nil, errors.New("collaboration store is required")
	}
	if projects == nil {
		return nil, errors.New("project source is required")
	}
	if roles == nil {
		return nil, errors.New("role resolver is required")
	}
	return &Service{collabs: collabs, projects: projects, roles: roles, auditor: auditor, logger: logger}, nil
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

// Create opens a pending request addressed to the project owner. Only
// researchers request, only approved projects qualify, and a researcher
// cannot request collaboration on their own project.
func (s *Service) Create(ctx context.Context, caller id.UserID, req *models.CreateRequest) (*models.Collaboration, error) {
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

	project, err := s.projects.FindByID(ctx, req.ParsedProjectID())
	if err != nil {
		return nil, err
	}
	if project.Status != researchmodels.StatusApproved {
		return nil, dErrors.New(dErrors.CodeConflict, "project is not approved for collaboration")
	}
	if project.CreatedBy == caller {
		return nil, dErrors.New(dErrors.CodeConflict, "cannot request collaboration on your own project")
	}

	now := requestcontext.Now(ctx)
	collab := models.Collaboration{
		ID:          id.NewCollabID(),
		ProjectID:   project.ID,
		RequesterID: caller,
		ReceiverID:  project.CreatedBy,
		Message:     req.Message,
		Status:      models.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.collabs.Save(ctx, collab); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "save collaboration", err)
	}

	s.audit(ctx, audit.Event{
		UserID:  caller,
		Subject: collab.ID.String(),
		Action:  string(audit.EventCollabRequested),
	})
	return &collab, nil
}

// Respond answers a pending request. Only the receiver responds, and only
// once; a decided request is terminal.
func (s *Service) Respond(ctx context.Context, caller id.UserID, collabID id.CollabID, req *models.RespondRequest) (*models.Collaboration, error) {
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

	collab, err := s.collabs.FindByID(ctx, collabID)
	if err != nil {
		return nil, err
	}
	if collab.ReceiverID != caller {
		return nil, dErrors.New(dErrors.CodeForbidden, "only the receiver responds to a request")
	}
	if collab.Status != models.StatusPending {
		return nil, dErrors.New(dErrors.CodeConflict, "request has already been decided")
	}

	collab.Status = models.Status(req.Status)
	collab.UpdatedAt = requestcontext.Now(ctx)
	if err := s.collabs.Save(ctx, collab); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "save response", err)
	}

	s.audit(ctx, audit.Event{
		UserID:   collab.RequesterID,
		ActorID:  caller.String(),
		Subject:  collab.ID.String(),
		Action:   string(audit.EventCollabResponded),
		Decision: string(collab.Status),
	})
	return &collab, nil
}

// List returns one side of the caller's requests, newest first.
func (s *Service) List(ctx context.Context, caller id.UserID, side models.Side) ([]models.Collaboration, error) {
	if caller.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	collabs, err := s.collabs.List(ctx, models.ListFilter{Side: side, Caller: caller})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list collaborations", err)
	}
	return collabs, nil
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
