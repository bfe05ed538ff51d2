package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/studymind/studymind/internal/logger"
	"github.com/studymind/studymind/internal/models"
	"github.com/studymind/studymind/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")

	var u models.User
	err := r.db.QueryRowContext(ctx, `SELECT id, username, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Username, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("user not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")

	rows, err := r.db.QueryContext(ctx, `SELECT id, username, created_at FROM users ORDER BY username ASC`)
	if err != nil {
		log.Error("failed to list users: %v", err)
		return nil, err
	}
	defer rows.Close()
	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.CreatedAt); err != nil {
			log.Error("failed to scan user row: %v", err)
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) Upsert(ctx context.Context, username string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("upserting user: username=%s", username)

	_, err := r.db.ExecContext(ctx, `INSERT INTO users (username) VALUES (?) ON CONFLICT(username) DO NOTHING`, username)
	if err != nil {
		log.Error("failed to upsert user: %v", err)
		return nil, err
	}
	var u models.User
	err = r.db.QueryRowContext(ctx, `SELECT id, username, created_at FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.CreatedAt)
	if err != nil {
		log.Error("failed to load upserted user: %v", err)
		return nil, err
	}
	return &u, nil
}
