// Package domain holds typed identifiers and closed enums shared across
// feature packages. Wrapping uuid.UUID in distinct types lets the compiler
// catch a project id being passed where a user id belongs.
package domain

import (
	"github.com/google/uuid"

	dErrors "innoport/pkg/domain-errors"
)

type (
	// UserID identifies an authenticated principal.
	UserID uuid.UUID
	// SessionID identifies an auth session.
	SessionID uuid.UUID
	// ProjectID identifies a research project.
	ProjectID uuid.UUID
	// PatentID identifies a patent filing.
	PatentID uuid.UUID
	// StartupID identifies a registered startup.
	StartupID uuid.UUID
	// CollabID identifies a collaboration request.
	CollabID uuid.UUID
	// InterestID identifies an investor interest record.
	InterestID uuid.UUID
)

func (id UserID) String() string     { return uuid.UUID(id).String() }
func (id SessionID) String() string  { return uuid.UUID(id).String() }
func (id ProjectID) String() string  { return uuid.UUID(id).String() }
func (id PatentID) String() string   { return uuid.UUID(id).String() }
func (id StartupID) String() string  { return uuid.UUID(id).String() }
func (id CollabID) String() string   { return uuid.UUID(id).String() }
func (id InterestID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsZero() bool    { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

// NewUserID mints a random user id.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewSessionID mints a random session id.
func NewSessionID() SessionID { return SessionID(uuid.New()) }

// NewProjectID mints a random project id.
func NewProjectID() ProjectID { return ProjectID(uuid.New()) }

// NewPatentID mints a random patent id.
func NewPatentID() PatentID { return PatentID(uuid.New()) }

// NewStartupID mints a random startup id.
func NewStartupID() StartupID { return StartupID(uuid.New()) }

// NewCollabID mints a random collaboration request id.
func NewCollabID() CollabID { return CollabID(uuid.New()) }

// NewInterestID mints a random interest id.
func NewInterestID() InterestID { return InterestID(uuid.New()) }

// parseUUID enforces the shared invariant: ids arriving at trust boundaries
// must be valid, non-empty, non-nil UUIDs.
func parseUUID(raw, what string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" is required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(dErrors.CodeInvalidInput, "invalid "+what, err)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" must not be nil")
	}
	return parsed, nil
}

// ParseUserID validates and converts a raw string into a UserID.
func ParseUserID(raw string) (UserID, error) {
	u, err := parseUUID(raw, "user id")
	return UserID(u), err
}

// ParseSessionID validates and converts a raw string into a SessionID.
func ParseSessionID(raw string) (SessionID, error) {
	u, err := parseUUID(raw, "session id")
	return SessionID(u), err
}

// ParseProjectID validates and converts a raw string into a ProjectID.
func ParseProjectID(raw string) (ProjectID, error) {
	u, err := parseUUID(raw, "project id")
	return ProjectID(u), err
}

// ParsePatentID validates and converts a raw string into a PatentID.
func ParsePatentID(raw string) (PatentID, error) {
	u, err := parseUUID(raw, "patent id")
	return PatentID(u), err
}

// ParseStartupID validates and converts a raw string into a StartupID.
func ParseStartupID(raw string) (StartupID, error) {
	u, err := parseUUID(raw, "startup id")
	return StartupID(u), err
}

// ParseCollabID validates and converts a raw string into a CollabID.
func ParseCollabID(raw string) (CollabID, error) {
	u, err := parseUUID(raw, "collaboration id")
	return CollabID(u), err
}

// ParseInterestID validates and converts a raw string into an InterestID.
func ParseInterestID(raw string) (InterestID, error) {
	u, err := parseUUID(raw, "interest id")
	return InterestID(u), err
}
