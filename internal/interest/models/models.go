// Package models defines investor interest records. Interest is append-only:
// there is no update or withdrawal operation.
package models

import (
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	id "innoport/pkg/domain"
	dErrors "innoport/pkg/domain-errors"
)

// TargetType names what an investor expressed interest in.
type TargetType string

const (
	TargetStartup         TargetType = "startup"
	TargetResearchProject TargetType = "research_project"
)

// ParseTargetType validates a raw target type.
func ParseTargetType(raw string) (TargetType, error) {
	switch TargetType(raw) {
	case TargetStartup, TargetResearchProject:
		return TargetType(raw), nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown interest target type")
}

// Interest is one expression of investor interest.
type Interest struct {
	ID         id.InterestID
	InvestorID id.UserID
	TargetType TargetType
	TargetID   string
	Amount     *float64
	Message    string
	CreatedAt  time.Time
}

// ExpressRequest carries the interest form. The amount arrives as a string
// and is parsed during validation.
type ExpressRequest struct {
	Amount  string `json:"amount,omitempty"`
	Message string `json:"message,omitempty"`

	amount *float64
}

func (r *ExpressRequest) Normalize() {
	r.Amount = strings.TrimSpace(r.Amount)
	r.Message = strings.TrimSpace(r.Message)
}

func (r *ExpressRequest) Validate() error {
	if r.Amount != "" {
		f, err := govalidator.ToFloat(r.Amount)
		if err != nil || f <= 0 {
			return dErrors.New(dErrors.CodeInvalidInput, "amount must be a positive number")
		}
		r.amount = &f
	}
	if len(r.Message) > 2000 {
		return dErrors.New(dErrors.CodeInvalidInput, "message is too long")
	}
	return nil
}

// ParsedAmount returns the amount after Validate, nil when blank.
func (r *ExpressRequest) ParsedAmount() *float64 { return r.amount }

// Target identifies what to list interest for.
type Target struct {
	Type TargetType
	ID   string
}
