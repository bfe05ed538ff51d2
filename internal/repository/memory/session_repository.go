package memory

import (
	"context"
	"sort"
	"time"

	"github.com/studymind/studymind/internal/models"
)

type sessionRepo struct{ s *Store }

func (r *sessionRepo) InsertSession(_ context.Context, session models.ReviewSession) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session.ID = r.s.id()
	r.s.sessions[session.ID] = session
	return session.ID, nil
}

func (r *sessionRepo) GetSession(_ context.Context, id int64, userID int64) (*models.ReviewSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if s, ok := r.s.sessions[id]; ok && s.UserID == userID {
		return &s, nil
	}
	return nil, nil
}

func (r *sessionRepo) InProgressSession(_ context.Context, userID int64) (*models.ReviewSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var found *models.ReviewSession
	for id := range r.s.sessions {
		s := r.s.sessions[id]
		if s.UserID != userID || s.SessionStatus != models.SessionInProgress {
			continue
		}
		if found == nil || s.StartedAt.After(found.StartedAt) {
			latest := s
			found = &latest
		}
	}
	return found, nil
}

func (r *sessionRepo) ListSessions(_ context.Context, filter models.SessionFilter) ([]models.ReviewSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var sessions []models.ReviewSession
	for _, s := range r.s.sessions {
		if filter.UserID != 0 && s.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && s.SessionStatus != filter.Status {
			continue
		}
		sessions = append(sessions, s)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].StartedAt.After(sessions[j].StartedAt) })
	if filter.Limit > 0 && len(sessions) > filter.Limit {
		sessions = sessions[:filter.Limit]
	}
	return sessions, nil
}

func (r *sessionRepo) CompleteSession(_ context.Context, id int64, result models.SessionResult) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s, ok := r.s.sessions[id]
	if !ok {
		return nil
	}
	completedAt := result.CompletedAt
	duration := result.DurationSeconds
	s.SessionStatus = models.SessionCompleted
	s.CompletedAt = &completedAt
	s.DurationSeconds = &duration
	s.QuestionsAnswered = result.QuestionsAnswered
	s.QuestionsRated = result.QuestionsRated
	s.EasyRatings = result.Stats.Easy
	s.MediumRatings = result.Stats.Medium
	s.HardRatings = result.Stats.Hard
	r.s.sessions[id] = s
	return nil
}

func (r *sessionRepo) AbandonSession(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s, ok := r.s.sessions[id]
	if !ok || s.SessionStatus != models.SessionInProgress {
		return nil
	}
	now := time.Now()
	s.SessionStatus = models.SessionAbandoned
	s.CompletedAt = &now
	r.s.sessions[id] = s
	return nil
}

func (r *sessionRepo) InsertAnswers(_ context.Context, answers []models.ReviewAnswer) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make([]int64, 0, len(answers))
	for _, a := range answers {
		a.ID = r.s.id()
		a.UpdatedAt = time.Now()
		r.s.answers[a.ID] = a
		ids = append(ids, a.ID)
	}
	return ids, nil
}

func (r *sessionRepo) AnswersForSession(_ context.Context, sessionID int64) ([]models.ReviewAnswer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var answers []models.ReviewAnswer
	for _, a := range r.s.answers {
		if a.SessionID == sessionID {
			answers = append(answers, a)
		}
	}
	sort.Slice(answers, func(i, j int) bool { return answers[i].QuestionIndex < answers[j].QuestionIndex })
	return answers, nil
}

func (r *sessionRepo) UpdateAnswerText(_ context.Context, answerID int64, text string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.answers[answerID]; ok {
		a.AnswerText = text
		a.UpdatedAt = time.Now()
		r.s.answers[answerID] = a
	}
	return nil
}

func (r *sessionRepo) UpdateAnswerRating(_ context.Context, answerID int64, rating string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.answers[answerID]; ok {
		a.DifficultyRating = &rating
		a.UpdatedAt = time.Now()
		r.s.answers[answerID] = a
	}
	return nil
}

func (r *sessionRepo) UpdateAnswerFeedback(_ context.Context, answerID int64, feedback string, isCorrect *bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.answers[answerID]; ok {
		a.AIResponseText = &feedback
		a.IsCorrect = isCorrect
		a.UpdatedAt = time.Now()
		r.s.answers[answerID] = a
	}
	return nil
}
