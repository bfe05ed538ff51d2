// Package memory provides map-backed repository implementations. They serve
// demo mode, where mutating operations must succeed without touching durable
// storage, and unit tests that need a repository without SQLite.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/studymind/studymind/internal/models"
	"github.com/studymind/studymind/internal/repository"
)

// Store holds all in-memory collections behind a single mutex. The review
// subsystem is single-writer per user, so one lock is enough.
type Store struct {
	mu        sync.Mutex
	nextID    int64
	users     map[int64]models.User
	subjects  map[int64]models.Subject
	notes     map[int64]models.Note
	questions map[int64]models.Question
	sessions  map[int64]models.ReviewSession
	answers   map[int64]models.ReviewAnswer
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		users:     make(map[int64]models.User),
		subjects:  make(map[int64]models.Subject),
		notes:     make(map[int64]models.Note),
		questions: make(map[int64]models.Question),
		sessions:  make(map[int64]models.ReviewSession),
		answers:   make(map[int64]models.ReviewAnswer),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// Users returns a UserRepository backed by this store.
func (s *Store) Users() repository.UserRepository { return &userRepo{s} }

// Subjects returns a SubjectRepository backed by this store.
func (s *Store) Subjects() repository.SubjectRepository { return &subjectRepo{s} }

// Notes returns a NoteRepository backed by this store.
func (s *Store) Notes() repository.NoteRepository { return &noteRepo{s} }

// Questions returns a QuestionRepository backed by this store.
func (s *Store) Questions() repository.QuestionRepository { return &questionRepo{s} }

// Sessions returns a SessionRepository backed by this store.
func (s *Store) Sessions() repository.SessionRepository { return &sessionRepo{s} }

type userRepo struct{ s *Store }

func (r *userRepo) Get(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *userRepo) List(_ context.Context) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := make([]models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (r *userRepo) Upsert(_ context.Context, username string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	u := models.User{ID: r.s.id(), Username: username, CreatedAt: time.Now()}
	r.s.users[u.ID] = u
	return &u, nil
}

type subjectRepo struct{ s *Store }

func (r *subjectRepo) Get(_ context.Context, id int64) (*models.Subject, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sub, ok := r.s.subjects[id]; ok {
		return &sub, nil
	}
	return nil, nil
}

func (r *subjectRepo) List(_ context.Context) ([]models.Subject, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	subjects := make([]models.Subject, 0, len(r.s.subjects))
	for _, sub := range r.s.subjects {
		subjects = append(subjects, sub)
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Name < subjects[j].Name })
	return subjects, nil
}

func (r *subjectRepo) Upsert(_ context.Context, name string) (*models.Subject, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sub := range r.s.subjects {
		if sub.Name == name {
			return &sub, nil
		}
	}
	sub := models.Subject{ID: r.s.id(), Name: name}
	r.s.subjects[sub.ID] = sub
	return &sub, nil
}

type noteRepo struct{ s *Store }

func (r *noteRepo) Get(_ context.Context, id int64, userID int64) (*models.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if n, ok := r.s.notes[id]; ok && n.UserID == userID {
		return &n, nil
	}
	return nil, nil
}

func (r *noteRepo) List(_ context.Context, filter models.NoteFilter) ([]models.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var notes []models.Note
	for _, n := range r.s.notes {
		if filter.UserID != 0 && n.UserID != filter.UserID {
			continue
		}
		if filter.SubjectID != 0 && n.SubjectID != filter.SubjectID {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(n.Title), strings.ToLower(filter.Search)) &&
			!strings.Contains(strings.ToLower(n.Content), strings.ToLower(filter.Search)) {
			continue
		}
		notes = append(notes, n)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].UpdatedAt.After(notes[j].UpdatedAt) })
	return notes, nil
}

func (r *noteRepo) Insert(_ context.Context, n models.Note) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n.ID = r.s.id()
	n.CreatedAt = time.Now()
	n.UpdatedAt = n.CreatedAt
	r.s.notes[n.ID] = n
	return n.ID, nil
}

func (r *noteRepo) Update(_ context.Context, n models.Note) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.notes[n.ID]
	if !ok || existing.UserID != n.UserID {
		return nil
	}
	existing.SubjectID = n.SubjectID
	existing.Title = n.Title
	existing.Content = n.Content
	existing.YearLevel = n.YearLevel
	existing.UpdatedAt = time.Now()
	r.s.notes[n.ID] = existing
	return nil
}

func (r *noteRepo) UpdateAnalysis(_ context.Context, id int64, summary string, tags []string, embedding []float32) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if n, ok := r.s.notes[id]; ok {
		n.Summary = summary
		n.Tags = tags
		n.Embedding = embedding
		n.UpdatedAt = time.Now()
		r.s.notes[id] = n
	}
	return nil
}

func (r *noteRepo) UpdateNextReview(_ context.Context, id int64, due time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if n, ok := r.s.notes[id]; ok {
		n.NextReviewAt = &due
		r.s.notes[id] = n
	}
	return nil
}

func (r *noteRepo) Delete(_ context.Context, id int64, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if n, ok := r.s.notes[id]; ok && n.UserID == userID {
		delete(r.s.notes, id)
		for qid, q := range r.s.questions {
			if q.NoteID == id {
				delete(r.s.questions, qid)
			}
		}
	}
	return nil
}

type questionRepo struct{ s *Store }

func (r *questionRepo) InsertBatch(_ context.Context, questions []models.Question) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make([]int64, 0, len(questions))
	for _, q := range questions {
		q.ID = r.s.id()
		q.CreatedAt = time.Now()
		r.s.questions[q.ID] = q
		ids = append(ids, q.ID)
	}
	return ids, nil
}

func (r *questionRepo) QuestionsForNote(ctx context.Context, noteID int64) ([]models.Question, error) {
	return r.QuestionsForNotes(ctx, []int64{noteID})
}

func (r *questionRepo) QuestionsForNotes(_ context.Context, noteIDs []int64) ([]models.Question, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wanted := make(map[int64]bool, len(noteIDs))
	for _, id := range noteIDs {
		wanted[id] = true
	}
	var questions []models.Question
	for _, q := range r.s.questions {
		if wanted[q.NoteID] {
			questions = append(questions, q)
		}
	}
	sort.Slice(questions, func(i, j int) bool {
		if questions[i].NoteID != questions[j].NoteID {
			return questions[i].NoteID < questions[j].NoteID
		}
		return questions[i].ID < questions[j].ID
	})
	return questions, nil
}
