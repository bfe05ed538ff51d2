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

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

const sessionColumns = `id, user_id, session_name, selected_notes, selected_difficulty, total_questions,
       session_status, started_at, completed_at, duration_seconds,
       questions_answered, questions_rated, easy_ratings, medium_ratings, hard_ratings`

func scanSession(row interface{ Scan(...any) error }) (*models.ReviewSession, error) {
	var s models.ReviewSession
	var selectedNotes string
	var completedAt sql.NullTime
	var duration sql.NullInt64
	err := row.Scan(&s.ID, &s.UserID, &s.SessionName, &selectedNotes, &s.SelectedDifficulty, &s.TotalQuestions,
		&s.SessionStatus, &s.StartedAt, &completedAt, &duration,
		&s.QuestionsAnswered, &s.QuestionsRated, &s.EasyRatings, &s.MediumRatings, &s.HardRatings)
	if err != nil {
		return nil, err
	}
	s.SelectedNotes = jsonDecodeInt64s(selectedNotes)
	if completedAt.Valid {
		t := completedAt.Time
		s.CompletedAt = &t
	}
	if duration.Valid {
		d := int(duration.Int64)
		s.DurationSeconds = &d
	}
	return &s, nil
}

func (r *sessionRepository) InsertSession(ctx context.Context, s models.ReviewSession) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("inserting session: user_id=%d, name=%s, total_questions=%d", s.UserID, s.SessionName, s.TotalQuestions)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO review_sessions (user_id, session_name, selected_notes, selected_difficulty, total_questions, session_status, started_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, s.UserID, s.SessionName, jsonEncode(s.SelectedNotes), s.SelectedDifficulty, s.TotalQuestions, s.SessionStatus, s.StartedAt)
	if err != nil {
		log.Error("failed to insert session: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get session id: %v", err)
		return 0, err
	}
	log.Debug("session inserted: id=%d", id)
	return id, nil
}

func (r *sessionRepository) GetSession(ctx context.Context, id int64, userID int64) (*models.ReviewSession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("getting session: id=%d, user_id=%d", id, userID)

	s, err := scanSession(r.db.QueryRowContext(ctx, `
SELECT `+sessionColumns+`
FROM review_sessions
WHERE id = ? AND user_id = ?
`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("session not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, err
	}
	return s, nil
}

func (r *sessionRepository) InProgressSession(ctx context.Context, userID int64) (*models.ReviewSession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("looking up in-progress session: user_id=%d", userID)

	s, err := scanSession(r.db.QueryRowContext(ctx, `
SELECT `+sessionColumns+`
FROM review_sessions
WHERE user_id = ? AND session_status = 'in_progress'
ORDER BY started_at DESC
LIMIT 1
`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no in-progress session for user_id=%d", userID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to query in-progress session: %v", err)
		return nil, err
	}
	log.Debug("found in-progress session: id=%d", s.ID)
	return s, nil
}

func (r *sessionRepository) ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.ReviewSession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("listing sessions: user_id=%d, status=%s", filter.UserID, filter.Status)

	query := sqlBuilder.Select(
		"id", "user_id", "session_name", "selected_notes", "selected_difficulty", "total_questions",
		"session_status", "started_at", "completed_at", "duration_seconds",
		"questions_answered", "questions_rated", "easy_ratings", "medium_ratings", "hard_ratings",
	).From("review_sessions")

	if filter.UserID != 0 {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"session_status": filter.Status})
	}

	// Safe ORDER BY with validation
	orderBy := "started_at"
	if filter.OrderBy == "completed_at" {
		orderBy = filter.OrderBy
	}
	orderDir := "DESC"
	if filter.OrderDir == "ASC" {
		orderDir = "ASC"
	}
	query = query.OrderBy(orderBy + " " + orderDir)

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
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
		log.Error("failed to list sessions: %v", err)
		return nil, err
	}
	defer rows.Close()
	var sessions []models.ReviewSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			log.Error("failed to scan session row: %v", err)
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	log.Debug("found %d sessions", len(sessions))
	return sessions, rows.Err()
}

func (r *sessionRepository) CompleteSession(ctx context.Context, id int64, result models.SessionResult) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("completing session: id=%d, answered=%d, rated=%d", id, result.QuestionsAnswered, result.QuestionsRated)

	_, err := r.db.ExecContext(ctx, `
UPDATE review_sessions
SET session_status = 'completed', completed_at = ?, duration_seconds = ?,
    questions_answered = ?, questions_rated = ?,
    easy_ratings = ?, medium_ratings = ?, hard_ratings = ?
WHERE id = ?
`, result.CompletedAt, result.DurationSeconds,
		result.QuestionsAnswered, result.QuestionsRated,
		result.Stats.Easy, result.Stats.Medium, result.Stats.Hard, id)
	if err != nil {
		log.Error("failed to complete session: %v", err)
	}
	return err
}

func (r *sessionRepository) AbandonSession(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("abandoning session: id=%d", id)

	_, err := r.db.ExecContext(ctx, `
UPDATE review_sessions
SET session_status = 'abandoned', completed_at = ?
WHERE id = ? AND session_status = 'in_progress'
`, time.Now(), id)
	if err != nil {
		log.Error("failed to abandon session: %v", err)
	}
	return err
}

func (r *sessionRepository) InsertAnswers(ctx context.Context, answers []models.ReviewAnswer) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	if len(answers) == 0 {
		return nil, nil
	}
	log.Debug("bulk inserting %d placeholder answers: session_id=%d", len(answers), answers[0].SessionID)

	ids := make([]int64, 0, len(answers))
	err := tx(ctx, r.db, func(t *sql.Tx) error {
		stmt, err := t.PrepareContext(ctx, `
INSERT INTO review_answers (session_id, question_index, user_id, note_id, note_title, question_text,
                            hint, connects, mastery_context, original_difficulty, answer_text, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, a := range answers {
			res, err := stmt.ExecContext(ctx, a.SessionID, a.QuestionIndex, a.UserID, a.NoteID, a.NoteTitle, a.QuestionText,
				a.Hint, jsonEncode(a.Connects), a.MasteryContext, a.OriginalDifficulty, a.AnswerText, time.Now())
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
		log.Error("failed to insert answers: %v", err)
		return nil, err
	}
	log.Debug("inserted %d answers", len(ids))
	return ids, nil
}

func (r *sessionRepository) AnswersForSession(ctx context.Context, sessionID int64) ([]models.ReviewAnswer, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("fetching answers: session_id=%d", sessionID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, session_id, question_index, user_id, note_id, note_title, question_text,
       hint, connects, mastery_context, original_difficulty, answer_text,
       difficulty_rating, ai_response_text, is_correct, updated_at
FROM review_answers
WHERE session_id = ?
ORDER BY question_index ASC
`, sessionID)
	if err != nil {
		log.Error("failed to query answers: %v", err)
		return nil, err
	}
	defer rows.Close()
	var answers []models.ReviewAnswer
	for rows.Next() {
		var a models.ReviewAnswer
		var connects string
		var rating, feedback sql.NullString
		var isCorrect sql.NullBool
		if err := rows.Scan(&a.ID, &a.SessionID, &a.QuestionIndex, &a.UserID, &a.NoteID, &a.NoteTitle, &a.QuestionText,
			&a.Hint, &connects, &a.MasteryContext, &a.OriginalDifficulty, &a.AnswerText,
			&rating, &feedback, &isCorrect, &a.UpdatedAt); err != nil {
			log.Error("failed to scan answer row: %v", err)
			return nil, err
		}
		a.Connects = jsonDecodeStrings(connects)
		if rating.Valid {
			v := rating.String
			a.DifficultyRating = &v
		}
		if feedback.Valid {
			v := feedback.String
			a.AIResponseText = &v
		}
		if isCorrect.Valid {
			v := isCorrect.Bool
			a.IsCorrect = &v
		}
		answers = append(answers, a)
	}
	log.Debug("found %d answers", len(answers))
	return answers, rows.Err()
}

func (r *sessionRepository) UpdateAnswerText(ctx context.Context, answerID int64, text string) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("updating answer text: id=%d, len=%d", answerID, len(text))

	_, err := r.db.ExecContext(ctx, `
UPDATE review_answers SET answer_text = ?, updated_at = ? WHERE id = ?
`, text, time.Now(), answerID)
	if err != nil {
		log.Error("failed to update answer text: %v", err)
	}
	return err
}

func (r *sessionRepository) UpdateAnswerRating(ctx context.Context, answerID int64, rating string) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("updating answer rating: id=%d, rating=%s", answerID, rating)

	_, err := r.db.ExecContext(ctx, `
UPDATE review_answers SET difficulty_rating = ?, updated_at = ? WHERE id = ?
`, rating, time.Now(), answerID)
	if err != nil {
		log.Error("failed to update answer rating: %v", err)
	}
	return err
}

func (r *sessionRepository) UpdateAnswerFeedback(ctx context.Context, answerID int64, feedback string, isCorrect *bool) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("updating answer feedback: id=%d", answerID)

	var correct sql.NullBool
	if isCorrect != nil {
		correct = sql.NullBool{Bool: *isCorrect, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `
UPDATE review_answers SET ai_response_text = ?, is_correct = ?, updated_at = ? WHERE id = ?
`, feedback, correct, time.Now(), answerID)
	if err != nil {
		log.Error("failed to update answer feedback: %v", err)
	}
	return err
}
