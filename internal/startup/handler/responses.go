package handler

import (
	"time"

	"innoport/internal/startup/models"
)

// StartupResponse is the wire shape for a registered startup.
type StartupResponse struct {
	ID              string    `json:"id"`
	CompanyName     string    `json:"company_name"`
	FounderName     string    `json:"founder_name"`
	Sector          string    `json:"sector"`
	Stage           string    `json:"stage"`
	Description     string    `json:"description,omitempty"`
	FundingReceived *float64  `json:"funding_received,omitempty"`
	RecognitionID   string    `json:"recognition_id,omitempty"`
	LogoURL         string    `json:"logo_url,omitempty"`
	DocumentPath    string    `json:"document_path,omitempty"`
	IsVerified      bool      `json:"is_verified"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func FromStartup(s models.Startup) StartupResponse {
	return StartupResponse{
		ID:              s.ID.String(),
		CompanyName:     s.CompanyName,
		FounderName:     s.FounderName,
		Sector:          s.Sector,
		Stage:           string(s.Stage),
		Description:     s.Description,
		FundingReceived: s.FundingReceived,
		RecognitionID:   s.RecognitionID,
		LogoURL:         s.LogoURL,
		DocumentPath:    s.DocumentPath,
		IsVerified:      s.IsVerified,
		CreatedBy:       s.CreatedBy.String(),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
