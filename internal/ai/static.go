package ai

import (
	"context"
	"fmt"

	"github.com/studymind/studymind/internal/models"
)

// StaticGateway returns canned responses. It backs demo mode, where no
// upstream AI calls may be made, and tests that need a Gateway without a
// network.
type StaticGateway struct{}

// NewStaticGateway creates a StaticGateway.
func NewStaticGateway() *StaticGateway {
	return &StaticGateway{}
}

func (g *StaticGateway) GenerateEmbedding(_ context.Context, _, _ string) ([]float32, error) {
	return make([]float32, 8), nil
}

func (g *StaticGateway) AnalyzeContent(_ context.Context, _, title string) (*Analysis, error) {
	return &Analysis{
		Tags:     []string{"demo"},
		Summary:  fmt.Sprintf("Demo summary for %q.", title),
		Concepts: []string{"demo concept"},
	}, nil
}

func (g *StaticGateway) GenerateQuestions(_ context.Context, note models.Note, opts QuestionOptions) ([]GeneratedQuestion, error) {
	count := opts.Count
	if count <= 0 {
		count = 5
	}
	difficulty := opts.Difficulty
	if !models.ValidDifficulty(difficulty) {
		difficulty = models.DifficultyMedium
	}
	questions := make([]GeneratedQuestion, 0, count)
	for i := 0; i < count; i++ {
		questions = append(questions, GeneratedQuestion{
			Text:       fmt.Sprintf("Demo question %d about %q?", i+1, note.Title),
			Hint:       "Review the note content.",
			Difficulty: difficulty,
		})
	}
	return questions, nil
}

func (g *StaticGateway) ReviewAnswer(_ context.Context, _, answer string, _ int64) (*AnswerReview, error) {
	correct := len(answer) > 20
	return &AnswerReview{
		Feedback:  "Demo feedback: compare your answer against the note's summary.",
		IsCorrect: &correct,
	}, nil
}
