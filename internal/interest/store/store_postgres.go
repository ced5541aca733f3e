package store

import (
	"context"
	"database/sql"
	"fmt"

	"innoport/internal/interest/models"
	id "innoport/pkg/domain"
)

// PostgresStore persists investor interest in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, interest models.Interest) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO investor_interest
			(id, investor_id, target_type, target_id, amount, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		interest.ID.String(), interest.InvestorID.String(),
		string(interest.TargetType), interest.TargetID,
		interest.Amount, interest.Message, interest.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append interest: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByTarget(ctx context.Context, target models.Target) ([]models.Interest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, investor_id, target_type, target_id, amount, message, created_at
		FROM investor_interest
		WHERE target_type = $1 AND target_id = $2
		ORDER BY created_at DESC`,
		string(target.Type), target.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("list interest: %w", err)
	}
	defer rows.Close()

	var records []models.Interest
	for rows.Next() {
		var record models.Interest
		var rawID, rawInvestor, targetType string
		var amount sql.NullFloat64
		if err := rows.Scan(&rawID, &rawInvestor, &targetType, &record.TargetID,
			&amount, &record.Message, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan interest: %w", err)
		}
		interestID, err := id.ParseInterestID(rawID)
		if err != nil {
			return nil, fmt.Errorf("corrupt interest id: %w", err)
		}
		record.ID = interestID
		investorID, err := id.ParseUserID(rawInvestor)
		if err != nil {
			return nil, fmt.Errorf("corrupt investor_id: %w", err)
		}
		record.InvestorID = investorID
		record.TargetType = models.TargetType(targetType)
		if amount.Valid {
			record.Amount = &amount.Float64
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (s *PostgresStore) Total(ctx context.Context) (float64, error) {
	var total float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM investor_interest`,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total interest: %w", err)
	}
	return total, nil
}
