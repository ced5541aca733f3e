package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"innoport/internal/collab/models"
	id "innoport/pkg/domain"
)

// PostgresStore persists collaboration requests in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const collabColumns = `id, project_id, requester_id, receiver_id, message,
	status, created_at, updated_at`

func (s *PostgresStore) Save(ctx context.Context, collab models.Collaboration) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collaborations
			(id, project_id, requester_id, receiver_id, message, status,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET status = $6, updated_at = $8`,
		collab.ID.String(), collab.ProjectID.String(),
		collab.RequesterID.String(), collab.ReceiverID.String(),
		collab.Message, string(collab.Status),
		collab.CreatedAt, collab.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save collaboration: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, collabID id.CollabID) (models.Collaboration, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+collabColumns+` FROM collaborations WHERE id = $1`,
		collabID.String(),
	)
	collab, err := scanCollab(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Collaboration{}, ErrNotFound
	}
	if err != nil {
		return models.Collaboration{}, fmt.Errorf("find collaboration: %w", err)
	}
	return collab, nil
}

func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter) ([]models.Collaboration, error) {
	query := `SELECT ` + collabColumns + ` FROM collaborations`
	var args []any
	switch filter.Side {
	case models.SideSent:
		args = append(args, filter.Caller.String())
		query += " WHERE requester_id = $1"
	case models.SideReceived:
		args = append(args, filter.Caller.String())
		query += " WHERE receiver_id = $1"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list collaborations: %w", err)
	}
	defer rows.Close()

	var collabs []models.Collaboration
	for rows.Next() {
		collab, err := scanCollab(rows)
		if err != nil {
			return nil, fmt.Errorf("scan collaboration: %w", err)
		}
		collabs = append(collabs, collab)
	}
	return collabs, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM collaborations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count collaborations: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCollab(row rowScanner) (models.Collaboration, error) {
	var collab models.Collaboration
	var rawID, rawProject, rawRequester, rawReceiver, status string

	err := row.Scan(&rawID, &rawProject, &rawRequester, &rawReceiver,
		&collab.Message, &status, &collab.CreatedAt, &collab.UpdatedAt)
	if err != nil {
		return models.Collaboration{}, err
	}

	collabID, err := id.ParseCollabID(rawID)
	if err != nil {
		return models.Collaboration{}, fmt.Errorf("corrupt collaboration id: %w", err)
	}
	collab.ID = collabID
	projectID, err := id.ParseProjectID(rawProject)
	if err != nil {
		return models.Collaboration{}, fmt.Errorf("corrupt project_id: %w", err)
	}
	collab.ProjectID = projectID
	requesterID, err := id.ParseUserID(rawRequester)
	if err != nil {
		return models.Collaboration{}, fmt.Errorf("corrupt requester_id: %w", err)
	}
	collab.RequesterID = requesterID
	receiverID, err := id.ParseUserID(rawReceiver)
	if err != nil {
		return models.Collaboration{}, fmt.Errorf("corrupt receiver_id: %w", err)
	}
	collab.ReceiverID = receiverID
	collab.Status = models.Status(status)
	return collab, nil
}
