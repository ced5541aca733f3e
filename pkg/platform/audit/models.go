// Package audit captures key portal actions for later review. Events are
// emitted from domain services and fanned out to a store by the publisher,
// keeping the write path off the request's critical path when buffered.
package audit

import (
	"context"
	"time"

	id "innoport/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose. Categories
// drive retention: compliance events outlive operational ones.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance:
	// account creation, approval decisions, startup verification.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to security monitoring:
	// sign-in failures, sign-outs, guard denials.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine events useful for debugging.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	UserID    id.UserID
	Subject   string // entity acted on, e.g. a project id
	Action    string
	Decision  string // approved/rejected/accepted... when applicable
	Reason    string // review comment or denial reason
	RequestID string
	// ActorID tracks who performed the action when different from UserID,
	// e.g. an admin deciding another researcher's project.
	ActorID string
	// ClientIP and UserAgent are filled by the publisher from request
	// context when the middleware captured them.
	ClientIP  string
	UserAgent string
}

// AuditEvent names every action the portal records.
type AuditEvent string

const (
	// Identity events
	EventUserSignedUp  AuditEvent = "user_signed_up"
	EventUserSignedIn  AuditEvent = "user_signed_in"
	EventUserSignedOut AuditEvent = "user_signed_out"
	EventSignInFailed  AuditEvent = "sign_in_failed"

	// Research project events
	EventProjectSubmitted AuditEvent = "project_submitted"
	EventProjectDecided   AuditEvent = "project_decided"

	// Patent events
	EventPatentFiled         AuditEvent = "patent_filed"
	EventPatentStatusChanged AuditEvent = "patent_status_changed"

	// Startup events
	EventStartupRegistered AuditEvent = "startup_registered"
	EventStartupVerified   AuditEvent = "startup_verified"

	// Collaboration events
	EventCollabRequested AuditEvent = "collab_requested"
	EventCollabResponded AuditEvent = "collab_responded"

	// Investor events
	EventInterestExpressed AuditEvent = "interest_expressed"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventUserSignedUp:        CategoryCompliance,
	EventUserSignedIn:        CategorySecurity,
	EventUserSignedOut:       CategorySecurity,
	EventSignInFailed:        CategorySecurity,
	EventProjectSubmitted:    CategoryOperations,
	EventProjectDecided:      CategoryCompliance,
	EventPatentFiled:         CategoryOperations,
	EventPatentStatusChanged: CategoryCompliance,
	EventStartupRegistered:   CategoryOperations,
	EventStartupVerified:     CategoryCompliance,
	EventCollabRequested:     CategoryOperations,
	EventCollabResponded:     CategoryOperations,
	EventInterestExpressed:   CategoryCompliance,
}

// Category derives the retention category for an action. Unknown actions are
// treated as operational.
func (e AuditEvent) Category() EventCategory {
	if c, ok := eventCategories[e]; ok {
		return c
	}
	return CategoryOperations
}

// Store persists audit events. Implementations must be safe for concurrent
// use; the async publisher appends from a background goroutine.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}
