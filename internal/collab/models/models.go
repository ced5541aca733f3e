// Package models defines collaboration requests between researchers and the
// owners of approved projects.
package models

import (
	"strings"
	"time"

	id "innoport/pkg/domain"
	dErrors "innoport/pkg/domain-errors"
)

// Status is the collaboration request state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// ParseResponse validates a response status; only the two terminal states
// are valid responses.
func ParseResponse(raw string) (Status, error) {
	switch Status(raw) {
	case StatusAccepted, StatusRejected:
		return Status(raw), nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "response must be accepted or rejected")
}

// Collaboration is one request to collaborate on a project.
type Collaboration struct {
	ID          id.CollabID
	ProjectID   id.ProjectID
	RequesterID id.UserID
	ReceiverID  id.UserID
	Message     string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateRequest carries the collaboration form.
type CreateRequest struct {
	ProjectID string `json:"project_id"`
	Message   string `json:"message,omitempty"`

	projectID id.ProjectID
}

func (r *CreateRequest) Normalize() {
	r.ProjectID = strings.TrimSpace(r.ProjectID)
	r.Message = strings.TrimSpace(r.Message)
}

func (r *CreateRequest) Validate() error {
	projectID, err := id.ParseProjectID(r.ProjectID)
	if err != nil {
		return err
	}
	r.projectID = projectID
	if len(r.Message) > 2000 {
		return dErrors.New(dErrors.CodeInvalidInput, "message is too long")
	}
	return nil
}

// ParsedProjectID returns the project id after Validate.
func (r *CreateRequest) ParsedProjectID() id.ProjectID { return r.projectID }

// RespondRequest carries the receiver's answer.
type RespondRequest struct {
	Status string `json:"status"`
}

func (r *RespondRequest) Normalize() {
	r.Status = strings.TrimSpace(r.Status)
}

func (r *RespondRequest) Validate() error {
	_, err := ParseResponse(r.Status)
	return err
}

// Side selects which half of a user's requests to list.
type Side string

const (
	SideSent     Side = "sent"
	SideReceived Side = "received"
)

// ListFilter narrows a listing to one side of the caller's requests.
type ListFilter struct {
	Side   Side
	Caller id.UserID
}
