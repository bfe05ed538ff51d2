package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/studymind/studymind/internal/logger"
	"github.com/studymind/studymind/internal/models"
	"github.com/studymind/studymind/internal/repository"
)

type questionRepository struct {
	db *sql.DB
}

// NewQuestionRepository creates a new QuestionRepository implementation
func NewQuestionRepository(db *sql.DB) repository.QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) InsertBatch(ctx context.Context, questions []models.Question) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")
	if len(questions) == 0 {
		return nil, nil
	}
	log.Debug("bulk inserting %d questions: note_id=%d", len(questions), questions[0].NoteID)

	ids := make([]int64, 0, len(questions))
	err := tx(ctx, r.db, func(t *sql.Tx) error {
		stmt, err := t.PrepareContext(ctx, `
INSERT INTO questions (note_id, question, hint, connects, difficulty, mastery_context, is_default)
VALUES (?, ?, ?, ?, ?, ?, ?)
`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, q := range questions {
			res, err := stmt.ExecContext(ctx, q.NoteID, q.Text, q.Hint, jsonEncode(q.Connects), q.Difficulty, q.MasteryContext, q.IsDefault)
			if err != nil {
				return err
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to insert questions: %v", err)
		return nil, err
	}
	log.Debug("inserted %d questions", len(ids))
	return ids, nil
}

func (r *questionRepository) QuestionsForNote(ctx context.Context, noteID int64) ([]models.Question, error) {
	return r.QuestionsForNotes(ctx, []int64{noteID})
}

func (r *questionRepository) QuestionsForNotes(ctx context.Context, noteIDs []int64) ([]models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")
	log.Debug("fetching questions for %d notes", len(noteIDs))
	if len(noteIDs) == 0 {
		return nil, nil
	}

	query := sqlBuilder.Select(
		"id", "note_id", "question", "hint", "connects", "difficulty", "mastery_context", "is_default", "created_at",
	).From("questions").
		Where(squirrel.Eq{"note_id": noteIDs}).
		OrderBy("note_id ASC", "id ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query questions: %v", err)
		return nil, err
	}
	defer rows.Close()
	var questions []models.Question
	for rows.Next() {
		var q models.Question
		var connects string
		if err := rows.Scan(&q.ID, &q.NoteID, &q.Text, &q.Hint, &connects, &q.Difficulty, &q.MasteryContext, &q.IsDefault, &q.CreatedAt); err != nil {
			log.Error("failed to scan question row: %v", err)
			return nil, err
		}
		q.Connects = jsonDecodeStrings(connects)
		questions = append(questions, q)
	}
	log.Debug("found %d questions", len(questions))
	return questions, rows.Err()
}
