package handler

import (
	"time"

	"innoport/internal/research/models"
)

// ProjectResponse is the wire shape for a research project.
type ProjectResponse struct {
	ID                    string   `json:"id"`
	Title                 string   `json:"title"`
	Abstract              string   `json:"abstract"`
	Institution           string   `json:"institution"`
	PrincipalInvestigator string   `json:"principal_investigator"`
	FundingAmount         *float64 `json:"funding_amount,omitempty"`
	DurationMonths        *int     `json:"duration_months,omitempty"`
	DocumentPath          string   `json:"document_path,omitempty"`
	Status                string   `json:"status"`
	ReviewComment         string   `json:"review_comment,omitempty"`
	ApprovedBy            string   `json:"approved_by,omitempty"`
	CreatedBy             string   `json:"created_by"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// FromProject converts a domain record into the wire shape.
func FromProject(p models.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:                    p.ID.String(),
		Title:                 p.Title,
		Abstract:              p.Abstract,
		Institution:           p.Institution,
		PrincipalInvestigator: p.PrincipalInvestigator,
		FundingAmount:         p.FundingAmount,
		DurationMonths:        p.DurationMonths,
		DocumentPath:          p.DocumentPath,
		Status:                string(p.Status),
		ReviewComment:         p.ReviewComment,
		CreatedBy:             p.CreatedBy.String(),
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
	if p.ApprovedBy != nil {
		resp.ApprovedBy = p.ApprovedBy.String()
	}
	return resp
}
