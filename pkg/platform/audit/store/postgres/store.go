package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "innoport/pkg/domain"
	audit "innoport/pkg/platform/audit"
)

// Store implements audit.Store on PostgreSQL. Rows are append-only; nothing
// in the portal updates or deletes an audit row.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	category := event.Category
	if category == "" {
		category = audit.AuditEvent(event.Action).Category()
	}

	var userID any
	if !event.UserID.IsZero() {
		userID = event.UserID.String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, category, occurred_at, user_id, subject, action, decision, reason, request_id, actor_id, client_ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		uuid.NewString(), string(category), ts, userID,
		event.Subject, event.Action, event.Decision, event.Reason,
		event.RequestID, event.ActorID, event.ClientIP, event.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *Store) ListByUser(ctx context.Context, userID id.UserID) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, occurred_at, subject, action, decision, reason, request_id, actor_id, client_ip, user_agent
		FROM audit_events
		WHERE user_id = $1
		ORDER BY occurred_at`,
		userID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		event := audit.Event{UserID: userID}
		var category string
		if err := rows.Scan(&category, &event.Timestamp, &event.Subject, &event.Action,
			&event.Decision, &event.Reason, &event.RequestID, &event.ActorID,
			&event.ClientIP, &event.UserAgent); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Category = audit.EventCategory(category)
		events = append(events, event)
	}
	return events, rows.Err()
}
