package worker

import (
	"context"
	"fmt"

	"github.com/studymind/studymind/internal/ai"
	"github.com/studymind/studymind/internal/logger"
	"github.com/studymind/studymind/internal/models"
	"github.com/studymind/studymind/internal/repository"
)

// GenerateQuestionsJob asks the AI gateway for question templates and writes
// them as rows owned by the note. The client polls for them separately.
type GenerateQuestionsJob struct {
	Gateway      ai.Gateway
	NoteRepo     repository.NoteRepository
	QuestionRepo repository.QuestionRepository
	NoteID       int64
	UserID       int64
	Options      ai.QuestionOptions
	MarkDefault  bool
}

func (j *GenerateQuestionsJob) Name() string { return "generate_questions" }

func (j *GenerateQuestionsJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("note_id", j.NoteID)

	note, err := j.NoteRepo.Get(ctx, j.NoteID, j.UserID)
	if err != nil {
		log.Error("failed to load note: %v", err)
		return err
	}
	if note == nil {
		return fmt.Errorf("note %d not found", j.NoteID)
	}

	generated, err := j.Gateway.GenerateQuestions(ctx, *note, j.Options)
	if err != nil {
		log.Error("question generation failed: %v", err)
		return err
	}
	if len(generated) == 0 {
		log.Warn("gateway returned no questions")
		return nil
	}

	questions := make([]models.Question, 0, len(generated))
	for _, g := range generated {
		questions = append(questions, models.Question{
			NoteID:         j.NoteID,
			Text:           g.Text,
			Hint:           g.Hint,
			Connects:       g.Connects,
			Difficulty:     g.Difficulty,
			MasteryContext: g.MasteryContext,
			IsDefault:      j.MarkDefault,
		})
	}
	if _, err := j.QuestionRepo.InsertBatch(ctx, questions); err != nil {
		log.Error("failed to store generated questions: %v", err)
		return err
	}
	log.Info("stored %d generated questions", len(questions))
	return nil
}

// AnalyzeNoteJob runs content analysis and embedding generation for a note
// and stores the results. Sequential glue: analyze, embed, write.
type AnalyzeNoteJob struct {
	Gateway  ai.Gateway
	NoteRepo repository.NoteRepository
	NoteID   int64
	UserID   int64
}

func (j *AnalyzeNoteJob) Name() string { return "analyze_note" }

func (j *AnalyzeNoteJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("note_id", j.NoteID)

	note, err := j.NoteRepo.Get(ctx, j.NoteID, j.UserID)
	if err != nil {
		log.Error("failed to load note: %v", err)
		return err
	}
	if note == nil {
		return fmt.Errorf("note %d not found", j.NoteID)
	}

	analysis, err := j.Gateway.AnalyzeContent(ctx, note.Content, note.Title)
	if err != nil {
		log.Error("content analysis failed: %v", err)
		return err
	}

	embedding, err := j.Gateway.GenerateEmbedding(ctx, note.Content, note.Title)
	if err != nil {
		// Analysis results are still worth keeping without a vector.
		log.Warn("embedding generation failed: %v", err)
		embedding = nil
	}

	if err := j.NoteRepo.UpdateAnalysis(ctx, j.NoteID, analysis.Summary, analysis.Tags, embedding); err != nil {
		log.Error("failed to store analysis: %v", err)
		return err
	}
	log.Info("stored analysis: tags=%d, embedding_dims=%d", len(analysis.Tags), len(embedding))
	return nil
}
