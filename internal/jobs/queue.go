package jobs

import "github.com/studymind/studymind/internal/ai"

// JobQueue provides an abstraction for enqueueing background AI work
type JobQueue interface {
	EnqueueQuestionGeneration(noteID, userID int64, opts ai.QuestionOptions, markDefault bool) error
	EnqueueNoteAnalysis(noteID, userID int64) error
}
