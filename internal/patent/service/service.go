// Package service implements the patent filing lifecycle.
package service

import (
	"context"
	"errors"
	"log/slog"

	"innoport/internal/patent/models"
	"innoport/internal/patent/store"
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
	patents store.Store
	roles   RoleResolver
	auditor *auditpub.Publisher
	logger  *slog.Logger
}

func New(patents store.Store, roles RoleResolver, auditor *auditpub.Publisher, logger *slog.Logger) (*Service, error) {
	if patents == nil {
		return nil, errors.New("patent store is required")
	}
	if roles == nil {
		return nil, errors.New("role resolver is required")
	}
	return &Service{patents: patents, roles: roles, auditor: auditor, logger: logger}, nil
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

// Create files a new patent. Researchers file; the record always starts in
// filed regardless of what the form carries.
func (s *Service) Create(ctx context.Context, caller id.UserID, req *models.CreateRequest) (*models.Patent, error) {
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
	patent := models.Patent{
		ID:                id.NewPatentID(),
		Title:             req.Title,
		Inventor:          req.Inventor,
		Institution:       req.Institution,
		Description:       req.Description,
		ApplicationNumber: req.ApplicationNumber,
		FiledDate:         req.ParsedFiledDate(),
		DocumentPath:      req.DocumentPath,
		Status:            models.StatusFiled,
		CreatedBy:         caller,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.patents.Save(ctx, patent); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "save patent", err)
	}

	s.audit(ctx, audit.Event{
		UserID:  caller,
		Subject: patent.ID.String(),
		Action:  string(audit.EventPatentFiled),
	})
	return &patent, nil
}

// SetStatus advances a filing through review. Admin only; the transition
// graph is enforced so a decided filing never reopens.
func (s *Service) SetStatus(ctx context.Context, caller id.UserID, patentID id.PatentID, req *models.StatusRequest) (*models.Patent, error) {
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

	patent, err := s.patents.FindByID(ctx, patentID)
	if err != nil {
		return nil, err
	}

	newStatus := models.Status(req.Status)
	if !models.CanTransition(patent.Status, newStatus) {
		return nil, dErrors.New(dErrors.CodeConflict,
			"cannot move filing from "+string(patent.Status)+" to "+string(newStatus))
	}

	patent.Status = newStatus
	patent.UpdatedAt = requestcontext.Now(ctx)
	if err := s.patents.Save(ctx, patent); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "save status change", err)
	}

	s.audit(ctx, audit.Event{
		UserID:   patent.CreatedBy,
		ActorID:  caller.String(),
		Subject:  patent.ID.String(),
		Action:   string(audit.EventPatentStatusChanged),
		Decision: string(newStatus),
	})
	return &patent, nil
}

// List returns filings matching the filter, newest first.
func (s *Service) List(ctx context.Context, caller id.UserID, filter models.ListFilter) ([]models.Patent, error) {
	filter.Caller = caller
	patents, err := s.patents.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list patents", err)
	}
	return patents, nil
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
