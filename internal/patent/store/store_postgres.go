package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"innoport/internal/patent/models"
	id "innoport/pkg/domain"
)

// PostgresStore persists patent filings in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const patentColumns = `id, title, inventor, institution, description,
	application_number, filed_date, document_path, status,
	created_by, created_at, updated_at`

func (s *PostgresStore) Save(ctx context.Context, patent models.Patent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO patents
			(id, title, inventor, institution, description, application_number,
			 filed_date, document_path, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET status = $9, updated_at = $12`,
		patent.ID.String(), patent.Title, patent.Inventor, patent.Institution,
		patent.Description, patent.ApplicationNumber, patent.FiledDate,
		patent.DocumentPath, string(patent.Status), patent.CreatedBy.String(),
		patent.CreatedAt, patent.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save patent: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, patentID id.PatentID) (models.Patent, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+patentColumns+` FROM patents WHERE id = $1`,
		patentID.String(),
	)
	patent, err := scanPatent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Patent{}, ErrNotFound
	}
	if err != nil {
		return models.Patent{}, fmt.Errorf("find patent: %w", err)
	}
	return patent, nil
}

func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter) ([]models.Patent, error) {
	query := `SELECT ` + patentColumns + ` FROM patents`
	var conds []string
	var args []any
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Mine {
		args = append(args, filter.Caller.String())
		conds = append(conds, fmt.Sprintf("created_by = $%d", len(args)))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list patents: %w", err)
	}
	defer rows.Close()

	var patents []models.Patent
	for rows.Next() {
		patent, err := scanPatent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan patent: %w", err)
		}
		patents = append(patents, patent)
	}
	return patents, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM patents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count patents: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatent(row rowScanner) (models.Patent, error) {
	var patent models.Patent
	var rawID, rawCreatedBy, status string

	err := row.Scan(&rawID, &patent.Title, &patent.Inventor, &patent.Institution,
		&patent.Description, &patent.ApplicationNumber, &patent.FiledDate,
		&patent.DocumentPath, &status, &rawCreatedBy, &patent.CreatedAt, &patent.UpdatedAt)
	if err != nil {
		return models.Patent{}, err
	}

	patentID, err := id.ParsePatentID(rawID)
	if err != nil {
		return models.Patent{}, fmt.Errorf("corrupt patent id: %w", err)
	}
	patent.ID = patentID
	createdBy, err := id.ParseUserID(rawCreatedBy)
	if err != nil {
		return models.Patent{}, fmt.Errorf("corrupt created_by: %w", err)
	}
	patent.CreatedBy = createdBy
	patent.Status = models.Status(status)
	return patent, nil
}
