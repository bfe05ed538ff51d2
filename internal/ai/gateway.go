// Package ai wraps the generative-AI endpoints behind a gateway interface.
// The review core treats these as opaque request/response functions; prompt
// content and model internals stay inside this package.
package ai

import (
	"context"

	"github.com/studymind/studymind/internal/models"
)

// Analysis is the structured result of analyzing a note's content.
type Analysis struct {
	Tags          []string       `json:"tags"`
	Summary       string         `json:"summary"`
	Concepts      []string       `json:"concepts"`
	Relationships []Relationship `json:"relationships"`
}

// Relationship links two extracted concepts.
type Relationship struct {
	From string `json:"from"`
	To   string `json:"to"`
	Kind string `json:"kind"`
}

// GeneratedQuestion is one question produced by the generation endpoint.
type GeneratedQuestion struct {
	Text           string   `json:"question"`
	Hint           string   `json:"hint"`
	Connects       []string `json:"connects"`
	Difficulty     string   `json:"difficulty"`
	MasteryContext string   `json:"mastery_context"`
}

// AnswerReview is the AI's verdict on a user's answer. IsCorrect is
// tri-state: nil when the model could not decide.
type AnswerReview struct {
	Feedback  string `json:"feedback"`
	IsCorrect *bool  `json:"is_correct"`
}

// QuestionOptions narrow question generation.
type QuestionOptions struct {
	Difficulty string // easy, medium, hard or all
	Count      int
}

// Gateway is the AI surface consumed by the rest of the application.
type Gateway interface {
	// GenerateEmbedding produces a vector for the given text.
	GenerateEmbedding(ctx context.Context, text, title string) ([]float32, error)

	// AnalyzeContent extracts tags, a summary and concept relationships.
	AnalyzeContent(ctx context.Context, text, title string) (*Analysis, error)

	// GenerateQuestions produces question templates for a note.
	GenerateQuestions(ctx context.Context, note models.Note, opts QuestionOptions) ([]GeneratedQuestion, error)

	// ReviewAnswer judges a saved answer against its question.
	ReviewAnswer(ctx context.Context, question, answer string, noteID int64) (*AnswerReview, error)
}
