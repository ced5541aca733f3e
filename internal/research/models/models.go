// Package models defines research project records and their lifecycle.
package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	id "innoport/pkg/domain"
	dErrors "innoport/pkg/domain-errors"
)

// Status is the research project lifecycle state.
type Status string

const (
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
)

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusSubmitted, StatusUnderReview, StatusApproved, StatusRejected:
		return Status(raw), nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown project status")
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransition encodes the lifecycle graph. Approved and rejected are
// terminal; nothing ever returns to submitted.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusSubmitted:
		return to == StatusUnderReview || to == StatusApproved || to == StatusRejected
	case StatusUnderReview:
		return to == StatusApproved || to == StatusRejected
	}
	return false
}

// Project is a research project record.
type Project struct {
	ID                    id.ProjectID
	Title                 string
	Abstract              string
	Institution           string
	PrincipalInvestigator string
	FundingAmount         *float64
	DurationMonths        *int
	DocumentPath          string
	Status                Status
	ReviewComment         string
	ApprovedBy            *id.UserID
	CreatedBy             id.UserID
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// CreateRequest carries the submission form. Numeric fields arrive as
// strings, form-style, and are parsed during validation so bad input never
// reaches a store.
type CreateRequest struct {
	Title                 string `json:"title"`
	Abstract              string `json:"abstract"`
	Institution           string `json:"institution"`
	PrincipalInvestigator string `json:"principal_investigator"`
	FundingAmount         string `json:"funding_amount,omitempty"`
	DurationMonths        string `json:"duration_months,omitempty"`
	DocumentPath          string `json:"document_path,omitempty"`

	fundingAmount  *float64
	durationMonths *int
}

func (r *CreateRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Abstract = strings.TrimSpace(r.Abstract)
	r.Institution = strings.TrimSpace(r.Institution)
	r.PrincipalInvestigator = strings.TrimSpace(r.PrincipalInvestigator)
	r.FundingAmount = strings.TrimSpace(r.FundingAmount)
	r.DurationMonths = strings.TrimSpace(r.DurationMonths)
}

func (r *CreateRequest) Validate() error {
	if !govalidator.StringLength(r.Title, "1", "300") {
		return dErrors.New(dErrors.CodeInvalidInput, "title is required")
	}
	if r.Abstract == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "abstract is required")
	}
	if r.Institution == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "institution is required")
	}
	if r.PrincipalInvestigator == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "principal investigator is required")
	}
	if r.FundingAmount != "" {
		amount, err := strconv.ParseFloat(r.FundingAmount, 64)
		if err != nil || amount < 0 {
			return dErrors.New(dErrors.CodeInvalidInput, "funding_amount must be a non-negative number")
		}
		r.fundingAmount = &amount
	}
	if r.DurationMonths != "" {
		months, err := strconv.Atoi(r.DurationMonths)
		if err != nil || months <= 0 {
			return dErrors.New(dErrors.CodeInvalidInput, "duration_months must be a positive integer")
		}
		r.durationMonths = &months
	}
	return nil
}

// ParsedFundingAmount returns the numeric funding amount after Validate.
func (r *CreateRequest) ParsedFundingAmount() *float64 { return r.fundingAmount }

// ParsedDurationMonths returns the numeric duration after Validate.
func (r *CreateRequest) ParsedDurationMonths() *int { return r.durationMonths }

// DecisionRequest carries an admin's review decision.
type DecisionRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment,omitempty"`
}

func (r *DecisionRequest) Normalize() {
	r.Status = strings.TrimSpace(r.Status)
	r.Comment = strings.TrimSpace(r.Comment)
}

func (r *DecisionRequest) Validate() error {
	switch Status(r.Status) {
	case StatusUnderReview, StatusApproved, StatusRejected:
		return nil
	}
	return dErrors.New(dErrors.CodeInvalidInput, "decision status must be under_review, approved, or rejected")
}

// ListFilter narrows a listing by status and ownership.
type ListFilter struct {
	Status *Status
	// Mine limits results to records created by the caller.
	Mine bool
	// Caller is filled by the handler from the request context.
	Caller id.UserID
}
