// Package models defines patent filings and their lifecycle.
package models

import (
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	id "innoport/pkg/domain"
	dErrors "innoport/pkg/domain-errors"
)

// Status is the patent lifecycle state.
type Status string

const (
	StatusFiled       Status = "filed"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
)

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusFiled, StatusUnderReview, StatusApproved, StatusRejected:
		return Status(raw), nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown patent status")
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransition enforces an ordered review graph. Earlier versions of the
// portal let an admin set any status from any status; the graph now mirrors
// research projects so a decided filing cannot silently reopen.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusFiled:
		return to == StatusUnderReview || to == StatusApproved || to == StatusRejected
	case StatusUnderReview:
		return to == StatusApproved || to == StatusRejected
	}
	return false
}

// Patent is a patent filing record.
type Patent struct {
	ID                id.PatentID
	Title             string
	Inventor          string
	Institution       string
	Description       string
	ApplicationNumber string
	FiledDate         time.Time
	DocumentPath      string
	Status            Status
	CreatedBy         id.UserID
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CreateRequest carries the filing form.
type CreateRequest struct {
	Title             string `json:"title"`
	Inventor          string `json:"inventor"`
	Institution       string `json:"institution"`
	Description       string `json:"description,omitempty"`
	ApplicationNumber string `json:"application_number,omitempty"`
	FiledDate         string `json:"filed_date"`
	DocumentPath      string `json:"document_path,omitempty"`

	filedDate time.Time
}

func (r *CreateRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Inventor = strings.TrimSpace(r.Inventor)
	r.Institution = strings.TrimSpace(r.Institution)
	r.Description = strings.TrimSpace(r.Description)
	r.ApplicationNumber = strings.TrimSpace(r.ApplicationNumber)
	r.FiledDate = strings.TrimSpace(r.FiledDate)
}

func (r *CreateRequest) Validate() error {
	if !govalidator.StringLength(r.Title, "1", "300") {
		return dErrors.New(dErrors.CodeInvalidInput, "title is required")
	}
	if r.Inventor == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "inventor is required")
	}
	if r.Institution == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "institution is required")
	}
	if r.FiledDate == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "filed_date is required")
	}
	parsed, err := time.Parse("2006-01-02", r.FiledDate)
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "filed_date must be YYYY-MM-DD")
	}
	r.filedDate = parsed
	return nil
}

// ParsedFiledDate returns the filing date after Validate.
func (r *CreateRequest) ParsedFiledDate() time.Time { return r.filedDate }

// StatusRequest carries an admin's status change.
type StatusRequest struct {
	Status string `json:"status"`
}

func (r *StatusRequest) Normalize() {
	r.Status = strings.TrimSpace(r.Status)
}

func (r *StatusRequest) Validate() error {
	if _, err := ParseStatus(r.Status); err != nil {
		return err
	}
	if Status(r.Status) == StatusFiled {
		return dErrors.New(dErrors.CodeInvalidInput, "a filing cannot return to filed")
	}
	return nil
}

// ListFilter narrows a listing by status and ownership.
type ListFilter struct {
	Status *Status
	Mine   bool
	Caller id.UserID
}
