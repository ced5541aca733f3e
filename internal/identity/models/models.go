// Package models defines the identity records tracked by the portal.
// Storage of the actual rows lives behind the store interfaces.
package models

import (
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	id "innoport/pkg/domain"
	dErrors "innoport/pkg/domain-errors"
	"innoport/pkg/email"
)

// User captures the primary identity. Created at sign-up, immutable
// afterwards except for credential changes, which are out of scope here.
type User struct {
	ID           id.UserID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Profile is one-to-one with User and holds display data. Mutated by the
// owning user only.
type Profile struct {
	UserID               id.UserID
	Name                 string
	Email                string
	InstitutionOrStartup string
	Phone                string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// RoleAssignment binds a user to exactly one role. Set once at sign-up and
// treated as immutable; no role-change flow exists.
type RoleAssignment struct {
	UserID    id.UserID
	Role      id.Role
	CreatedAt time.Time
}

// Session models an authenticated session.
type Session struct {
	ID        id.SessionID
	UserID    id.UserID
	Role      id.Role
	JTI       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// SignUpRequest carries the sign-up form.
type SignUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Institution string `json:"institution,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

func (r *SignUpRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		// Forms may leave the name blank; fall back to a name derived from
		// the email's local part so the profile is never anonymous.
		r.Name = email.DeriveDisplayName(r.Email)
	}
	r.Role = strings.TrimSpace(r.Role)
	r.Institution = strings.TrimSpace(r.Institution)
	r.Phone = strings.TrimSpace(r.Phone)
}

func (r *SignUpRequest) Validate() error {
	if !govalidator.IsEmail(r.Email) || !govalidator.StringLength(r.Email, "3", "255") {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid email")
	}
	if len(r.Password) < 8 {
		return dErrors.New(dErrors.CodeInvalidInput, "password must be at least 8 characters")
	}
	if !govalidator.StringLength(r.Name, "1", "200") {
		return dErrors.New(dErrors.CodeInvalidInput, "name is required")
	}
	if _, err := id.ParseRole(r.Role); err != nil {
		return err
	}
	return nil
}

// SignInRequest carries the sign-in form.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *SignInRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *SignInRequest) Validate() error {
	if !govalidator.IsEmail(r.Email) {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid email")
	}
	if r.Password == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "password is required")
	}
	return nil
}

// SignInResult returns the issued token alongside the session.
type SignInResult struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	ExpiresIn   int     `json:"expires_in"`
	UserID      string  `json:"user_id"`
	Role        id.Role `json:"role"`
	SessionID   string  `json:"session_id"`
}
