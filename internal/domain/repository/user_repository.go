package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inventory_api/internal/common"
	"inventory_api/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

// Create inserts the user. The users_email_key constraint is what guarantees
// email uniqueness; a violation is reported as common.ErrConflict.
func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, name, email, hashed_password)
	          VALUES ($1, $2, $3, $4)
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, user.ID, user.Name, user.Email, user.HashedPassword).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return fmt.Errorf("user with given email already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT id, name, email, hashed_password, created_at, updated_at
	          FROM users WHERE email = $1`
	return r.findOne(ctx, "FindByEmail", query, email)
}

func (r *pgUserRepository) findOne(ctx context.Context, op, query string, arg any) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.Email, &user.HashedPassword, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.%s: %w", op, err)
	}
	return user, nil
}
