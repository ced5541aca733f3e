// Package models defines registered startups and their verification state.
package models

import (
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	id "innoport/pkg/domain"
	dErrors "innoport/pkg/domain-errors"
)

// Stage is the startup growth stage.
type Stage string

const (
	StageIdeation  Stage = "ideation"
	StagePrototype Stage = "prototype"
	StageMVP       Stage = "mvp"
	StageGrowth    Stage = "growth"
	StageScaling   Stage = "scaling"
)

// ParseStage validates a raw stage string.
func ParseStage(raw string) (Stage, error) {
	switch Stage(raw) {
	case StageIdeation, StagePrototype, StageMVP, StageGrowth, StageScaling:
		return Stage(raw), nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown startup stage")
}

// Startup is a registered company record.
type Startup struct {
	ID              id.StartupID
	CompanyName     string
	FounderName     string
	Sector          string
	Stage           Stage
	Description     string
	FundingReceived *float64
	RecognitionID   string
	LogoURL         string
	DocumentPath    string
	IsVerified      bool
	CreatedBy       id.UserID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateRequest carries the registration form. Numeric fields arrive as
// strings from the form layer and are parsed during validation.
type CreateRequest struct {
	CompanyName     string `json:"company_name"`
	FounderName     string `json:"founder_name"`
	Sector          string `json:"sector"`
	Stage           string `json:"stage"`
	Description     string `json:"description,omitempty"`
	FundingReceived string `json:"funding_received,omitempty"`
	RecognitionID   string `json:"recognition_id,omitempty"`
	LogoURL         string `json:"logo_url,omitempty"`
	DocumentPath    string `json:"document_path,omitempty"`

	fundingReceived *float64
}

func (r *CreateRequest) Normalize() {
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.FounderName = strings.TrimSpace(r.FounderName)
	r.Sector = strings.TrimSpace(r.Sector)
	r.Stage = strings.TrimSpace(r.Stage)
	r.Description = strings.TrimSpace(r.Description)
	r.FundingReceived = strings.TrimSpace(r.FundingReceived)
	r.RecognitionID = strings.TrimSpace(r.RecognitionID)
	r.LogoURL = strings.TrimSpace(r.LogoURL)
}

func (r *CreateRequest) Validate() error {
	if !govalidator.StringLength(r.CompanyName, "1", "200") {
		return dErrors.New(dErrors.CodeInvalidInput, "company_name is required")
	}
	if r.FounderName == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "founder_name is required")
	}
	if r.Sector == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "sector is required")
	}
	if _, err := ParseStage(r.Stage); err != nil {
		return err
	}
	if r.FundingReceived != "" {
		f, err := govalidator.ToFloat(r.FundingReceived)
		if err != nil || f < 0 {
			return dErrors.New(dErrors.CodeInvalidInput, "funding_received must be a non-negative number")
		}
		r.fundingReceived = &f
	}
	if r.LogoURL != "" && !govalidator.IsURL(r.LogoURL) {
		return dErrors.New(dErrors.CodeInvalidInput, "logo_url must be a valid URL")
	}
	return nil
}

// ParsedFundingReceived returns the funding amount after Validate, nil when
// the form left it blank.
func (r *CreateRequest) ParsedFundingReceived() *float64 { return r.fundingReceived }

// ListFilter narrows a listing by verification state and ownership.
type ListFilter struct {
	Verified *bool
	Mine     bool
	Caller   id.UserID
}
