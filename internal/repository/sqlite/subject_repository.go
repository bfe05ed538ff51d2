package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/studymind/studymind/internal/logger"
	"github.com/studymind/studymind/internal/models"
	"github.com/studymind/studymind/internal/repository"
)

type subjectRepository struct {
	db *sql.DB
}

// NewSubjectRepository creates a new SubjectRepository implementation
func NewSubjectRepository(db *sql.DB) repository.SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) Get(ctx context.Context, id int64) (*models.Subject, error) {
	log := logger.FromContext(ctx).WithPrefix("subject_repo")

	var s models.Subject
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM subjects WHERE id = ?`, id).Scan(&s.ID, &s.Name)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("subject not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get subject: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *subjectRepository) List(ctx context.Context) ([]models.Subject, error) {
	log := logger.FromContext(ctx).WithPrefix("subject_repo")

	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM subjects ORDER BY name ASC`)
	if err != nil {
		log.Error("failed to list subjects: %v", err)
		return nil, err
	}
	defer rows.Close()
	var subjects []models.Subject
	for rows.Next() {
		var s models.Subject
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			log.Error("failed to scan subject row: %v", err)
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

func (r *subjectRepository) Upsert(ctx context.Context, name string) (*models.Subject, error) {
	log := logger.FromContext(ctx).WithPrefix("subject_repo")
	log.Debug("upserting subject: name=%s", name)

	_, err := r.db.ExecContext(ctx, `INSERT INTO subjects (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name)
	if err != nil {
		log.Error("failed to upsert subject: %v", err)
		return nil, err
	}
	var s models.Subject
	err = r.db.QueryRowContext(ctx, `SELECT id, name FROM subjects WHERE name = ?`, name).Scan(&s.ID, &s.Name)
	if err != nil {
		log.Error("failed to load upserted subject: %v", err)
		return nil, err
	}
	return &s, nil
}
