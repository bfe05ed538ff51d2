package jobs

import (
	"github.com/studymind/studymind/internal/ai"
	"github.com/studymind/studymind/internal/repository"
	"github.com/studymind/studymind/internal/worker"
)

// WorkerQueue implements JobQueue using the shared AI worker pool
type WorkerQueue struct {
	pool         *worker.Pool
	gateway      ai.Gateway
	noteRepo     repository.NoteRepository
	questionRepo repository.QuestionRepository
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(
	pool *worker.Pool,
	gateway ai.Gateway,
	noteRepo repository.NoteRepository,
	questionRepo repository.QuestionRepository,
) JobQueue {
	return &WorkerQueue{
		pool:         pool,
		gateway:      gateway,
		noteRepo:     noteRepo,
		questionRepo: questionRepo,
	}
}

func (q *WorkerQueue) EnqueueQuestionGeneration(noteID, userID int64, opts ai.QuestionOptions, markDefault bool) error {
	return q.pool.Submit(&worker.GenerateQuestionsJob{
		Gateway:      q.gateway,
		NoteRepo:     q.noteRepo,
		QuestionRepo: q.questionRepo,
		NoteID:       noteID,
		UserID:       userID,
		Options:      opts,
		MarkDefault:  markDefault,
	})
}

func (q *WorkerQueue) EnqueueNoteAnalysis(noteID, userID int64) error {
	return q.pool.Submit(&worker.AnalyzeNoteJob{
		Gateway:  q.gateway,
		NoteRepo: q.noteRepo,
		NoteID:   noteID,
		UserID:   userID,
	})
}
