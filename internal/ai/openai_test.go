package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymind/studymind/internal/ai"
	"github.com/studymind/studymind/internal/models"
)

func TestParseAnalysis(t *testing.T) {
	content := `{
		"tags": ["biology", "cells"],
		"summary": "Covers the parts of a cell.",
		"concepts": ["mitochondria", "nucleus"],
		"relationships": [{"from": "mitochondria", "to": "ATP", "kind": "produces"}]
	}`

	analysis, err := ai.ParseAnalysis(content)
	require.NoError(t, err)
	assert.Equal(t, []string{"biology", "cells"}, analysis.Tags)
	assert.Equal(t, "Covers the parts of a cell.", analysis.Summary)
	require.Len(t, analysis.Relationships, 1)
	assert.Equal(t, "produces", analysis.Relationships[0].Kind)
}

func TestParseAnalysis_CodeFence(t *testing.T) {
	content := "```json\n{\"tags\": [\"math\"], \"summary\": \"s\"}\n```"

	analysis, err := ai.ParseAnalysis(content)
	require.NoError(t, err, "fenced JSON should still parse")
	assert.Equal(t, []string{"math"}, analysis.Tags)
}

func TestParseQuestions(t *testing.T) {
	content := `{"questions": [
		{"question": "What produces ATP?", "hint": "organelles", "difficulty": "easy"},
		{"question": "Explain osmosis.", "difficulty": "savage"},
		{"question": "   ", "difficulty": "easy"}
	]}`

	questions, err := ai.ParseQuestions(content)
	require.NoError(t, err)
	require.Len(t, questions, 2, "blank questions are dropped")
	assert.Equal(t, models.DifficultyEasy, questions[0].Difficulty)
	assert.Equal(t, models.DifficultyMedium, questions[1].Difficulty, "unknown difficulty is coerced to medium")
}

func TestParseQuestions_BadJSON(t *testing.T) {
	_, err := ai.ParseQuestions("not json at all")
	assert.Error(t, err)
}

func TestParseAnswerReview(t *testing.T) {
	review, err := ai.ParseAnswerReview(`{"feedback": "Close, but osmosis moves water.", "is_correct": false}`)
	require.NoError(t, err)
	assert.Equal(t, "Close, but osmosis moves water.", review.Feedback)
	require.NotNil(t, review.IsCorrect)
	assert.False(t, *review.IsCorrect)
}

func TestParseAnswerReview_MissingVerdict(t *testing.T) {
	review, err := ai.ParseAnswerReview(`{"feedback": "Interesting take."}`)
	require.NoError(t, err)
	assert.Nil(t, review.IsCorrect, "a missing verdict stays nil rather than defaulting to wrong")
}
