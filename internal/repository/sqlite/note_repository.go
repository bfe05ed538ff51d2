package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/studymind/studymind/internal/logger"
	"github.com/studymind/studymind/internal/models"
	"github.com/studymind/studymind/internal/repository"
)

type noteRepository struct {
	db *sql.DB
}

// NewNoteRepository creates a new NoteRepository implementation
func NewNoteRepository(db *sql.DB) repository.NoteRepository {
	return &noteRepository{db: db}
}

func scanNote(row interface{ Scan(...any) error }) (*models.Note, error) {
	var n models.Note
	var subjectID sql.NullInt64
	var tags string
	var embedding sql.NullString
	var nextReview sql.NullTime
	err := row.Scan(&n.ID, &n.UserID, &subjectID, &n.Title, &n.Content, &n.YearLevel,
		&n.Summary, &tags, &embedding, &nextReview, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if subjectID.Valid {
		n.SubjectID = subjectID.Int64
	}
	n.Tags = jsonDecodeStrings(tags)
	n.Embedding = jsonDecodeFloat32s(embedding)
	if nextReview.Valid {
		t := nextReview.Time
		n.NextReviewAt = &t
	}
	return &n, nil
}

func (r *noteRepository) Get(ctx context.Context, id int64, userID int64) (*models.Note, error) {
	log := logger.FromContext(ctx).WithPrefix("note_repo")
	log.Debug("getting note: id=%d, user_id=%d", id, userID)

	n, err := scanNote(r.db.QueryRowContext(ctx, `
SELECT id, user_id, subject_id, title, content, year_level, summary, tags, embedding, next_review_at, created_at, updated_at
FROM notes
WHERE id = ? AND user_id = ?
`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("note not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get note: %v", err)
		return nil, err
	}
	return n, nil
}

func (r *noteRepository) List(ctx context.Context, filter models.NoteFilter) ([]models.Note, error) {
	log := logger.FromContext(ctx).WithPrefix("note_repo")
	log.Debug("listing notes: user_id=%d, subject_id=%d, search=%q", filter.UserID, filter.SubjectID, filter.Search)

	query := sqlBuilder.Select(
		"id", "user_id", "subject_id", "title", "content", "year_level",
		"summary", "tags", "embedding", "next_review_at", "created_at", "updated_at",
	).From("notes")

	if filter.UserID != 0 {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.SubjectID != 0 {
		query = query.Where(squirrel.Eq{"subject_id": filter.SubjectID})
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.Like{"title": like},
			squirrel.Like{"content": like},
		})
	}

	orderBy := "updated_at"
	if filter.OrderBy == "created_at" || filter.OrderBy == "title" || filter.OrderBy == "next_review_at" {
		orderBy = filter.OrderBy
	}
	orderDir := "DESC"
	if filter.OrderDir == "ASC" {
		orderDir = "ASC"
	}
	query = query.OrderBy(orderBy + " " + orderDir)

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list notes: %v", err)
		return nil, err
	}
	defer rows.Close()
	var notes []models.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			log.Error("failed to scan note row: %v", err)
			return nil, err
		}
		notes = append(notes, *n)
	}
	log.Debug("found %d notes", len(notes))
	return notes, rows.Err()
}

func (r *noteRepository) Insert(ctx context.Context, n models.Note) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("note_repo")
	log.Debug("inserting note: user_id=%d, title=%s", n.UserID, n.Title)

	var subjectID any
	if n.SubjectID != 0 {
		subjectID = n.SubjectID
	}
	res, err := r.db.ExecContext(ctx, `
INSERT INTO notes (user_id, subject_id, title, content, year_level, summary, tags, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, n.UserID, subjectID, n.Title, n.Content, n.YearLevel, n.Summary, jsonEncode(n.Tags), time.Now())
	if err != nil {
		log.Error("failed to insert note: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get note id: %v", err)
		return 0, err
	}
	log.Debug("note inserted: id=%d", id)
	return id, nil
}

func (r *noteRepository) Update(ctx context.Context, n models.Note) error {
	log := logger.FromContext(ctx).WithPrefix("note_repo")
	log.Debug("updating note: id=%d", n.ID)

	var subjectID any
	if n.SubjectID != 0 {
		subjectID = n.SubjectID
	}
	_, err := r.db.ExecContext(ctx, `
UPDATE notes
SET subject_id = ?, title = ?, content = ?, year_level = ?, updated_at = ?
WHERE id = ? AND user_id = ?
`, subjectID, n.Title, n.Content, n.YearLevel, time.Now(), n.ID, n.UserID)
	if err != nil {
		log.Error("failed to update note: %v", err)
	}
	return err
}

func (r *noteRepository) UpdateAnalysis(ctx context.Context, id int64, summary string, tags []string, embedding []float32) error {
	log := logger.FromContext(ctx).WithPrefix("note_repo")
	log.Debug("updating note analysis: id=%d, tags=%d, embedding_dims=%d", id, len(tags), len(embedding))

	var emb any
	if len(embedding) > 0 {
		emb = jsonEncode(embedding)
	}
	_, err := r.db.ExecContext(ctx, `
UPDATE notes SET summary = ?, tags = ?, embedding = ?, updated_at = ? WHERE id = ?
`, summary, jsonEncode(tags), emb, time.Now(), id)
	if err != nil {
		log.Error("failed to update note analysis: %v", err)
	}
	return err
}

func (r *noteRepository) UpdateNextReview(ctx context.Context, id int64, due time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("note_repo")
	log.Debug("updating note next review: id=%d, due=%s", id, due.Format(time.RFC3339))

	_, err := r.db.ExecContext(ctx, `
UPDATE notes SET next_review_at = ? WHERE id = ?
`, due, id)
	if err != nil {
		log.Error("failed to update next review: %v", err)
	}
	return err
}

func (r *noteRepository) Delete(ctx context.Context, id int64, userID int64) error {
	log := logger.FromContext(ctx).WithPrefix("note_repo")
	log.Debug("deleting note: id=%d, user_id=%d", id, userID)

	_, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		log.Error("failed to delete note: %v", err)
	}
	return err
}
