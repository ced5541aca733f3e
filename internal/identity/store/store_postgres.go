package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"innoport/internal/identity/models"
	id "innoport/pkg/domain"
	"innoport/pkg/platform/tx"
)

// executor is the slice of *sql.DB and *sql.Tx the stores use, so writes
// join an enclosing transaction when one rides the context.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func exec(ctx context.Context, db *sql.DB) executor {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return db
}

// PostgresAtomic implements Atomic over a database transaction. Every store
// call inside Run sees the transaction through the context.
type PostgresAtomic struct {
	db *sql.DB
}

func NewPostgresAtomic(db *sql.DB) *PostgresAtomic {
	return &PostgresAtomic{db: db}
}

func (a *PostgresAtomic) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	t, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx.WithTx(ctx, t)); err != nil {
		_ = t.Rollback()
		return err
	}
	if err := t.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// PostgresUserStore persists identities in PostgreSQL.
type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) Save(ctx context.Context, user models.User) error {
	_, err := exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET email = $2, password_hash = $3`,
		user.ID.String(), user.Email, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) FindByID(ctx context.Context, userID id.UserID) (models.User, error) {
	return s.findUser(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE id = $1`, userID.String())
}

func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findUser(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE email = $1`, email)
}

func (s *PostgresUserStore) findUser(ctx context.Context, query string, arg any) (models.User, error) {
	var user models.User
	var rawID string
	err := exec(ctx, s.db).QueryRowContext(ctx, query, arg).Scan(&rawID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	user.ID, err = id.ParseUserID(rawID)
	if err != nil {
		return models.User{}, fmt.Errorf("corrupt user id: %w", err)
	}
	return user, nil
}

// PostgresProfileStore persists profiles in PostgreSQL.
type PostgresProfileStore struct {
	db *sql.DB
}

func NewPostgresProfileStore(db *sql.DB) *PostgresProfileStore {
	return &PostgresProfileStore{db: db}
}

func (s *PostgresProfileStore) Save(ctx context.Context, profile models.Profile) error {
	_, err := exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO profiles (user_id, name, email, institution_or_startup, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET name = $2, email = $3, institution_or_startup = $4, phone = $5, updated_at = $7`,
		profile.UserID.String(), profile.Name, profile.Email,
		profile.InstitutionOrStartup, profile.Phone, profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *PostgresProfileStore) FindByUser(ctx context.Context, userID id.UserID) (models.Profile, error) {
	profile := models.Profile{UserID: userID}
	err := exec(ctx, s.db).QueryRowContext(ctx, `
		SELECT name, email, institution_or_startup, phone, created_at, updated_at
		FROM profiles WHERE user_id = $1`,
		userID.String(),
	).Scan(&profile.Name, &profile.Email, &profile.InstitutionOrStartup,
		&profile.Phone, &profile.CreatedAt, &profile.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, ErrNotFound
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("find profile: %w", err)
	}
	return profile, nil
}

// PostgresRoleStore persists role assignments in PostgreSQL.
type PostgresRoleStore struct {
	db *sql.DB
}

func NewPostgresRoleStore(db *sql.DB) *PostgresRoleStore {
	return &PostgresRoleStore{db: db}
}

func (s *PostgresRoleStore) Assign(ctx context.Context, assignment models.RoleAssignment) error {
	// DO NOTHING on conflict: role assignments are immutable once written.
	_, err := exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING`,
		assignment.UserID.String(), string(assignment.Role), assignment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	return nil
}

func (s *PostgresRoleStore) FindByUser(ctx context.Context, userID id.UserID) (models.RoleAssignment, error) {
	assignment := models.RoleAssignment{UserID: userID}
	var rawRole string
	err := exec(ctx, s.db).QueryRowContext(ctx, `
		SELECT role, created_at FROM user_roles WHERE user_id = $1`,
		userID.String(),
	).Scan(&rawRole, &assignment.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RoleAssignment{}, ErrNotFound
	}
	if err != nil {
		return models.RoleAssignment{}, fmt.Errorf("find role: %w", err)
	}
	role, err := id.ParseRole(rawRole)
	if err != nil {
		return models.RoleAssignment{}, fmt.Errorf("corrupt role row: %w", err)
	}
	assignment.Role = role
	return assignment, nil
}
