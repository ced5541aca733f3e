package handler

import (
	"time"

	"innoport/internal/patent/models"
)

// PatentResponse is the wire shape for a patent filing.
type PatentResponse struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Inventor          string    `json:"inventor"`
	Institution       string    `json:"institution"`
	Description       string    `json:"description,omitempty"`
	ApplicationNumber string    `json:"application_number,omitempty"`
	FiledDate         string    `json:"filed_date"`
	DocumentPath      string    `json:"document_path,omitempty"`
	Status            string    `json:"status"`
	CreatedBy         string    `json:"created_by"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func FromPatent(p models.Patent) PatentResponse {
	return PatentResponse{
		ID:                p.ID.String(),
		Title:             p.Title,
		Inventor:          p.Inventor,
		Institution:       p.Institution,
		Description:       p.Description,
		ApplicationNumber: p.ApplicationNumber,
		FiledDate:         p.FiledDate.Format("2006-01-02"),
		DocumentPath:      p.DocumentPath,
		Status:            string(p.Status),
		CreatedBy:         p.CreatedBy.String(),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
