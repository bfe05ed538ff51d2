package services

import (
	"context"
	"sync"
	"time"

	"github.com/studymind/studymind/internal/ai"
	apperrors "github.com/studymind/studymind/internal/errors"
	"github.com/studymind/studymind/internal/logger"
	"github.com/studymind/studymind/internal/models"
	"github.com/studymind/studymind/internal/repository"
	"github.com/studymind/studymind/internal/review"
)

// SessionSummary is returned when a session finishes. Persisted is false
// when the completion write failed; the session still ends locally so the
// user is never trapped in a finished review, and the divergence is logged.
type SessionSummary struct {
	Session   models.ReviewSession `json:"session"`
	Persisted bool                 `json:"persisted"`
}

// ReviewService owns the review-session lifecycle: creation, resume, retry,
// in-progress detection and completion, plus the per-question operations of
// the active session. One cohesive interface so the HTTP layer never wires
// individual callbacks.
type ReviewService interface {
	AvailableQuestions(ctx context.Context, userID int64, setup review.Setup) (int, error)
	StartSession(ctx context.Context, userID int64, setup review.Setup) (*review.View, error)
	InProgress(ctx context.Context, userID int64) (*models.ReviewSession, error)
	ResumeSession(ctx context.Context, userID int64) (*review.View, error)
	DiscardInProgress(ctx context.Context, userID int64) error
	RetrySession(ctx context.Context, userID, sessionID int64) (*review.View, error)

	ActiveView(ctx context.Context, userID int64) (*review.View, error)
	SetAnswerText(ctx context.Context, userID int64, text string) (*review.View, error)
	SaveAnswer(ctx context.Context, userID int64, force bool) (*review.View, error)
	Navigate(ctx context.Context, userID int64, direction string) (*review.View, error)
	RateAnswer(ctx context.Context, userID int64, rating string) (*review.View, error)
	RequestFeedback(ctx context.Context, userID int64) (*review.View, error)
	FinishSession(ctx context.Context, userID int64) (*SessionSummary, error)

	ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.ReviewSession, error)
	SessionDetail(ctx context.Context, userID, sessionID int64) (*models.ReviewSession, []models.ReviewAnswer, error)
}

type reviewService struct {
	sessions  repository.SessionRepository
	notes     repository.NoteRepository
	questions repository.QuestionRepository
	subjects  repository.SubjectRepository
	gateway   ai.Gateway
	selector  *review.Selector
	now       func() time.Time

	mu     sync.Mutex
	active map[int64]*review.Engine
}

// ReviewServiceOption configures a ReviewService.
type ReviewServiceOption func(*reviewService)

// WithClock overrides the service clock. Tests use a fixed clock to make
// durations and completion timestamps deterministic.
func WithClock(now func() time.Time) ReviewServiceOption {
	return func(s *reviewService) {
		s.now = now
	}
}

// WithSelector overrides the setup selector, letting tests seed the shuffle.
func WithSelector(sel *review.Selector) ReviewServiceOption {
	return func(s *reviewService) {
		s.selector = sel
	}
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	sessions repository.SessionRepository,
	notes repository.NoteRepository,
	questions repository.QuestionRepository,
	subjects repository.SubjectRepository,
	gateway ai.Gateway,
	opts ...ReviewServiceOption,
) ReviewService {
	s := &reviewService{
		sessions:  sessions,
		notes:     notes,
		questions: questions,
		subjects:  subjects,
		gateway:   gateway,
		selector:  review.NewSelector(),
		now:       time.Now,
		active:    make(map[int64]*review.Engine),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *reviewService) AvailableQuestions(ctx context.Context, userID int64, setup review.Setup) (int, error) {
	log := logger.FromContext(ctx)
	if err := setup.Validate(); err != nil {
		return 0, err
	}

	questions, err := s.questions.QuestionsForNotes(ctx, setup.NoteIDs)
	if err != nil {
		log.Error("failed to load questions for preview: %v", err)
		return 0, apperrors.NewInternalError(err)
	}
	count := len(review.FilterQuestions(questions, setup))
	log.Debug("available questions: user_id=%d, count=%d", userID, count)
	return count, nil
}

func (s *reviewService) StartSession(ctx context.Context, userID int64, setup review.Setup) (*review.View, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting session: user_id=%d, notes=%d, difficulty=%s", userID, len(setup.NoteIDs), setup.Difficulty)

	if err := setup.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureNoActiveSession(ctx, userID); err != nil {
		return nil, err
	}

	notes, err := s.loadNotes(ctx, userID, setup.NoteIDs)
	if err != nil {
		return nil, err
	}

	questions, err := s.questions.QuestionsForNotes(ctx, setup.NoteIDs)
	if err != nil {
		log.Error("failed to load questions: %v", err)
		return nil, apperrors.NewInternalError(err)
	}

	selected, err := s.selector.Build(questions, setup)
	if err != nil {
		return nil, err
	}

	var subject *models.Subject
	if len(notes) > 0 && notes[0].SubjectID != 0 {
		subject, _ = s.subjects.Get(ctx, notes[0].SubjectID)
	}

	session := models.ReviewSession{
		UserID:             userID,
		SessionName:        s.selector.SessionName(notes, subject),
		SelectedNotes:      setup.NoteIDs,
		SelectedDifficulty: setup.Difficulty,
		TotalQuestions:     len(selected),
		SessionStatus:      models.SessionInProgress,
		StartedAt:          s.now(),
	}

	titles := make(map[int64]string, len(notes))
	for _, n := range notes {
		titles[n.ID] = n.Title
	}

	answers := make([]models.ReviewAnswer, 0, len(selected))
	for i, q := range selected {
		answers = append(answers, models.ReviewAnswer{
			QuestionIndex:      i,
			UserID:             userID,
			NoteID:             q.NoteID,
			NoteTitle:          titles[q.NoteID],
			QuestionText:       q.Text,
			Hint:               q.Hint,
			Connects:           q.Connects,
			MasteryContext:     q.MasteryContext,
			OriginalDifficulty: q.Difficulty,
			AnswerText:         "",
		})
	}

	return s.createSession(ctx, session, answers)
}

// createSession inserts the session row, bulk-inserts the placeholder
// answers and registers a fresh engine. Shared by the new and retry paths.
func (s *reviewService) createSession(ctx context.Context, session models.ReviewSession, answers []models.ReviewAnswer) (*review.View, error) {
	log := logger.FromContext(ctx)

	sessionID, err := s.sessions.InsertSession(ctx, session)
	if err != nil {
		log.Error("failed to insert session: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	session.ID = sessionID
	for i := range answers {
		answers[i].SessionID = sessionID
	}

	if _, err := s.sessions.InsertAnswers(ctx, answers); err != nil {
		log.Error("failed to insert placeholder answers, abandoning session %d: %v", sessionID, err)
		if abandonErr := s.sessions.AbandonSession(ctx, sessionID); abandonErr != nil {
			log.Error("failed to abandon half-created session %d: %v", sessionID, abandonErr)
		}
		return nil, apperrors.NewInternalError(err)
	}

	stored, err := s.sessions.AnswersForSession(ctx, sessionID)
	if err != nil {
		log.Error("failed to read back answers: %v", err)
		return nil, apperrors.NewInternalError(err)
	}

	engine := review.NewEngine(s.sessions, s.gateway, session, stored)

	s.mu.Lock()
	s.active[session.UserID] = engine
	s.mu.Unlock()

	log.Info("session started: id=%d, user_id=%d, total_questions=%d", sessionID, session.UserID, session.TotalQuestions)
	view := engine.View(s.now())
	return &view, nil
}

func (s *reviewService) InProgress(ctx context.Context, userID int64) (*models.ReviewSession, error) {
	session, err := s.sessions.InProgressSession(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return session, nil
}

func (s *reviewService) ResumeSession(ctx context.Context, userID int64) (*review.View, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	if engine, ok := s.active[userID]; ok {
		s.mu.Unlock()
		view := engine.View(s.now())
		return &view, nil
	}
	s.mu.Unlock()

	session, err := s.sessions.InProgressSession(ctx, userID)
	if err != nil {
		log.Error("failed to look up in-progress session: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	if session == nil {
		return nil, apperrors.NewNotFoundError("in-progress session", userID)
	}

	answers, err := s.sessions.AnswersForSession(ctx, session.ID)
	if err != nil {
		log.Error("failed to load answers for resume: %v", err)
		return nil, apperrors.NewInternalError(err)
	}

	engine := review.NewEngine(s.sessions, s.gateway, *session, answers)

	s.mu.Lock()
	s.active[userID] = engine
	s.mu.Unlock()

	log.Info("session resumed: id=%d, user_id=%d", session.ID, userID)
	view := engine.View(s.now())
	return &view, nil
}

func (s *reviewService) DiscardInProgress(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	session, err := s.sessions.InProgressSession(ctx, userID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if session == nil {
		return nil
	}
	if err := s.sessions.AbandonSession(ctx, session.ID); err != nil {
		log.Error("failed to abandon session %d: %v", session.ID, err)
		return apperrors.NewInternalError(err)
	}

	s.mu.Lock()
	if engine, ok := s.active[userID]; ok && engine.Session().ID == session.ID {
		delete(s.active, userID)
	}
	s.mu.Unlock()

	log.Info("session discarded: id=%d, user_id=%d", session.ID, userID)
	return nil
}

// RetrySession clones a finished session's snapshotted questions into a
// brand-new session with fresh placeholder answers. The question list comes
// from the stored answer rows, not the live templates, so a retried session
// reproduces exactly what was asked even if the source notes changed since.
func (s *reviewService) RetrySession(ctx context.Context, userID, sessionID int64) (*review.View, error) {
	log := logger.FromContext(ctx)
	log.Debug("retrying session: id=%d, user_id=%d", sessionID, userID)

	if err := s.ensureNoActiveSession(ctx, userID); err != nil {
		return nil, err
	}

	original, err := s.sessions.GetSession(ctx, sessionID, userID)
	if err != nil {
		log.Error("failed to load session for retry: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	if original == nil {
		return nil, apperrors.NewNotFoundError("session", sessionID)
	}
	if original.SessionStatus == models.SessionInProgress {
		return nil, apperrors.NewConflictError("session is still in progress; resume it instead of retrying")
	}

	originalAnswers, err := s.sessions.AnswersForSession(ctx, sessionID)
	if err != nil {
		log.Error("failed to load answers for retry: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	if len(originalAnswers) == 0 {
		return nil, apperrors.NewNotFoundError("answers for session", sessionID)
	}

	session := models.ReviewSession{
		UserID:             userID,
		SessionName:        original.SessionName,
		SelectedNotes:      original.SelectedNotes,
		SelectedDifficulty: original.SelectedDifficulty,
		TotalQuestions:     len(originalAnswers),
		SessionStatus:      models.SessionInProgress,
		StartedAt:          s.now(),
	}

	answers := make([]models.ReviewAnswer, 0, len(originalAnswers))
	for _, a := range originalAnswers {
		answers = append(answers, models.ReviewAnswer{
			QuestionIndex:      a.QuestionIndex,
			UserID:             userID,
			NoteID:             a.NoteID,
			NoteTitle:          a.NoteTitle,
			QuestionText:       a.QuestionText,
			Hint:               a.Hint,
			Connects:           a.Connects,
			MasteryContext:     a.MasteryContext,
			OriginalDifficulty: a.OriginalDifficulty,
			AnswerText:         "",
		})
	}

	return s.createSession(ctx, session, answers)
}

func (s *reviewService) ensureNoActiveSession(ctx context.Context, userID int64) error {
	s.mu.Lock()
	_, hasEngine := s.active[userID]
	s.mu.Unlock()
	if hasEngine {
		return apperrors.NewConflictError("a review session is already active; finish or discard it first")
	}

	// Check-then-create: the partial unique index on review_sessions is the
	// backstop if two requests race past this check.
	existing, err := s.sessions.InProgressSession(ctx, userID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if existing != nil {
		return apperrors.NewConflictError("an in-progress session exists; resume or discard it first")
	}
	return nil
}

func (s *reviewService) engineFor(userID int64) (*review.Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	engine, ok := s.active[userID]
	if !ok {
		return nil, apperrors.NewNotFoundError("active session for user", userID)
	}
	return engine, nil
}

func (s *reviewService) ActiveView(_ context.Context, userID int64) (*review.View, error) {
	engine, err := s.engineFor(userID)
	if err != nil {
		return nil, err
	}
	view := engine.View(s.now())
	return &view, nil
}

func (s *reviewService) SetAnswerText(_ context.Context, userID int64, text string) (*review.View, error) {
	engine, err := s.engineFor(userID)
	if err != nil {
		return nil, err
	}
	engine.SetAnswerText(text)
	view := engine.View(s.now())
	return &view, nil
}

func (s *reviewService) SaveAnswer(ctx context.Context, userID int64, force bool) (*review.View, error) {
	engine, err := s.engineFor(userID)
	if err != nil {
		return nil, err
	}
	if err := engine.SaveCurrent(ctx, force); err != nil {
		return nil, err
	}
	view := engine.View(s.now())
	return &view, nil
}

func (s *reviewService) Navigate(ctx context.Context, userID int64, direction string) (*review.View, error) {
	engine, err := s.engineFor(userID)
	if err != nil {
		return nil, err
	}

	var dir int
	switch direction {
	case "next":
		dir = review.Next
	case "prev":
		dir = review.Prev
	default:
		return nil, apperrors.NewBadRequestError("direction must be next or prev")
	}

	if err := engine.Navigate(ctx, dir); err != nil {
		return nil, err
	}
	view := engine.View(s.now())
	return &view, nil
}

func (s *reviewService) RateAnswer(ctx context.Context, userID int64, rating string) (*review.View, error) {
	engine, err := s.engineFor(userID)
	if err != nil {
		return nil, err
	}
	if err := engine.Rate(ctx, rating); err != nil {
		return nil, err
	}
	view := engine.View(s.now())
	return &view, nil
}

func (s *reviewService) RequestFeedback(ctx context.Context, userID int64) (*review.View, error) {
	engine, err := s.engineFor(userID)
	if err != nil {
		return nil, err
	}
	if err := engine.RequestFeedback(ctx); err != nil {
		return nil, err
	}
	view := engine.View(s.now())
	return &view, nil
}

func (s *reviewService) FinishSession(ctx context.Context, userID int64) (*SessionSummary, error) {
	log := logger.FromContext(ctx)

	engine, err := s.engineFor(userID)
	if err != nil {
		return nil, err
	}

	// Flush the possibly-unsaved current answer so the persisted rows match
	// what is on screen before aggregates are computed.
	if err := engine.FlushCurrent(ctx); err != nil {
		log.Warn("failed to flush current answer on finish: %v", err)
	}

	now := s.now()
	result := engine.Result(now)
	session := engine.Session()

	persisted := true
	if err := s.sessions.CompleteSession(ctx, session.ID, result); err != nil {
		// The client still transitions to a completed state; the server row
		// stays in_progress. Known divergence, logged and not retried.
		log.Error("session completion write failed, server record diverges: id=%d: %v", session.ID, err)
		persisted = false
	}

	if persisted {
		s.stampNextReviews(ctx, engine, now)
	}

	s.mu.Lock()
	delete(s.active, userID)
	s.mu.Unlock()

	completedAt := result.CompletedAt
	duration := result.DurationSeconds
	session.SessionStatus = models.SessionCompleted
	session.CompletedAt = &completedAt
	session.DurationSeconds = &duration
	session.QuestionsAnswered = result.QuestionsAnswered
	session.QuestionsRated = result.QuestionsRated
	session.EasyRatings = result.Stats.Easy
	session.MediumRatings = result.Stats.Medium
	session.HardRatings = result.Stats.Hard

	log.Info("session finished: id=%d, answered=%d, rated=%d, persisted=%t",
		session.ID, result.QuestionsAnswered, result.QuestionsRated, persisted)
	return &SessionSummary{Session: session, Persisted: persisted}, nil
}

// stampNextReviews schedules each reviewed note's next review from the
// ratings its questions received. Best effort: a failed stamp never fails
// the completion.
func (s *reviewService) stampNextReviews(ctx context.Context, engine *review.Engine, now time.Time) {
	log := logger.FromContext(ctx)
	for noteID, ratings := range engine.RatingsByNote() {
		due := review.NextReviewDue(now, ratings)
		if due.IsZero() {
			continue
		}
		if err := s.notes.UpdateNextReview(ctx, noteID, due); err != nil {
			log.Warn("failed to stamp next review for note %d: %v", noteID, err)
		}
	}
}

func (s *reviewService) ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.ReviewSession, error) {
	sessions, err := s.sessions.ListSessions(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return sessions, nil
}

func (s *reviewService) SessionDetail(ctx context.Context, userID, sessionID int64) (*models.ReviewSession, []models.ReviewAnswer, error) {
	session, err := s.sessions.GetSession(ctx, sessionID, userID)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}
	if session == nil {
		return nil, nil, apperrors.NewNotFoundError("session", sessionID)
	}
	answers, err := s.sessions.AnswersForSession(ctx, sessionID)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}
	return session, answers, nil
}

func (s *reviewService) loadNotes(ctx context.Context, userID int64, noteIDs []int64) ([]models.Note, error) {
	log := logger.FromContext(ctx)
	notes := make([]models.Note, 0, len(noteIDs))
	for _, id := range noteIDs {
		note, err := s.notes.Get(ctx, id, userID)
		if err != nil {
			log.Error("failed to load note %d: %v", id, err)
			return nil, apperrors.NewInternalError(err)
		}
		if note == nil {
			return nil, apperrors.NewNotFoundError("note", id)
		}
		notes = append(notes, *note)
	}
	return notes, nil
}
