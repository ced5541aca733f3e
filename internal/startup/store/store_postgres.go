package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"innoport/internal/startup/models"
	id "innoport/pkg/domain"
)

// PostgresStore persists startups in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const startupColumns = `id, company_name, founder_name, sector, stage,
	description, funding_received, recognition_id, logo_url, document_path,
	is_verified, created_by, created_at, updated_at`

func (s *PostgresStore) Save(ctx context.Context, startup models.Startup) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO startups
			(id, company_name, founder_name, sector, stage, description,
			 funding_received, recognition_id, logo_url, document_path,
			 is_verified, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET is_verified = $11, updated_at = $14`,
		startup.ID.String(), startup.CompanyName, startup.FounderName,
		startup.Sector, string(startup.Stage), startup.Description,
		startup.FundingReceived, startup.RecognitionID, startup.LogoURL,
		startup.DocumentPath, startup.IsVerified, startup.CreatedBy.String(),
		startup.CreatedAt, startup.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save startup: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, startupID id.StartupID) (models.Startup, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+startupColumns+` FROM startups WHERE id = $1`,
		startupID.String(),
	)
	startup, err := scanStartup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Startup{}, ErrNotFound
	}
	if err != nil {
		return models.Startup{}, fmt.Errorf("find startup: %w", err)
	}
	return startup, nil
}

func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter) ([]models.Startup, error) {
	query := `SELECT ` + startupColumns + ` FROM startups`
	var conds []string
	var args []any
	if filter.Verified != nil {
		args = append(args, *filter.Verified)
		conds = append(conds, fmt.Sprintf("is_verified = $%d", len(args)))
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
		return nil, fmt.Errorf("list startups: %w", err)
	}
	defer rows.Close()

	var startups []models.Startup
	for rows.Next() {
		startup, err := scanStartup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan startup: %w", err)
		}
		startups = append(startups, startup)
	}
	return startups, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM startups`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count startups: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStartup(row rowScanner) (models.Startup, error) {
	var startup models.Startup
	var rawID, rawCreatedBy, stage string
	var funding sql.NullFloat64

	err := row.Scan(&rawID, &startup.CompanyName, &startup.FounderName,
		&startup.Sector, &stage, &startup.Description, &funding,
		&startup.RecognitionID, &startup.LogoURL, &startup.DocumentPath,
		&startup.IsVerified, &rawCreatedBy, &startup.CreatedAt, &startup.UpdatedAt)
	if err != nil {
		return models.Startup{}, err
	}

	startupID, err := id.ParseStartupID(rawID)
	if err != nil {
		return models.Startup{}, fmt.Errorf("corrupt startup id: %w", err)
	}
	startup.ID = startupID
	createdBy, err := id.ParseUserID(rawCreatedBy)
	if err != nil {
		return models.Startup{}, fmt.Errorf("corrupt created_by: %w", err)
	}
	startup.CreatedBy = createdBy
	startup.Stage = models.Stage(stage)
	if funding.Valid {
		startup.FundingReceived = &funding.Float64
	}
	return startup, nil
}
