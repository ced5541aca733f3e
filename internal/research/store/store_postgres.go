package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"innoport/internal/research/models"
	id "innoport/pkg/domain"
)

// PostgresStore persists research projects in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, project models.Project) error {
	var approvedBy any
	if project.ApprovedBy != nil {
		approvedBy = project.ApprovedBy.String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO research_projects
			(id, title, abstract, institution, principal_investigator,
			 funding_amount, duration_months, document_path, status,
			 review_comment, approved_by, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE
		SET status = $9, review_comment = $10, approved_by = $11, updated_at = $14`,
		project.ID.String(), project.Title, project.Abstract, project.Institution,
		project.PrincipalInvestigator, project.FundingAmount, project.DurationMonths,
		project.DocumentPath, string(project.Status), project.ReviewComment,
		approvedBy, project.CreatedBy.String(), project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	return nil
}

const projectColumns = `id, title, abstract, institution, principal_investigator,
	funding_amount, duration_months, document_path, status,
	review_comment, approved_by, created_by, created_at, updated_at`

func (s *PostgresStore) FindByID(ctx context.Context, projectID id.ProjectID) (models.Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM research_projects WHERE id = $1`,
		projectID.String(),
	)
	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, ErrNotFound
	}
	if err != nil {
		return models.Project{}, fmt.Errorf("find project: %w", err)
	}
	return project, nil
}

func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM research_projects`
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
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM research_projects`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (models.Project, error) {
	var project models.Project
	var rawID, rawCreatedBy, status string
	var approvedBy sql.NullString
	var fundingAmount sql.NullFloat64
	var durationMonths sql.NullInt64

	err := row.Scan(&rawID, &project.Title, &project.Abstract, &project.Institution,
		&project.PrincipalInvestigator, &fundingAmount, &durationMonths,
		&project.DocumentPath, &status, &project.ReviewComment,
		&approvedBy, &rawCreatedBy, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return models.Project{}, err
	}

	projectID, err := id.ParseProjectID(rawID)
	if err != nil {
		return models.Project{}, fmt.Errorf("corrupt project id: %w", err)
	}
	project.ID = projectID
	createdBy, err := id.ParseUserID(rawCreatedBy)
	if err != nil {
		return models.Project{}, fmt.Errorf("corrupt created_by: %w", err)
	}
	project.CreatedBy = createdBy
	project.Status = models.Status(status)

	if fundingAmount.Valid {
		project.FundingAmount = &fundingAmount.Float64
	}
	if durationMonths.Valid {
		months := int(durationMonths.Int64)
		project.DurationMonths = &months
	}
	if approvedBy.Valid {
		approver, err := id.ParseUserID(approvedBy.String)
		if err != nil {
			return models.Project{}, fmt.Errorf("corrupt approved_by: %w", err)
		}
		project.ApprovedBy = &approver
	}
	return project, nil
}
