package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/studymind/studymind/internal/logger"
	"github.com/studymind/studymind/internal/models"
)

// Config holds the OpenAI-compatible endpoint settings.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	EmbeddingModel string
	MaxTokens      int
}

type openaiGateway struct {
	client         *openai.Client
	model          string
	embeddingModel string
	maxTokens      int
}

// NewOpenAIGateway creates a Gateway backed by an OpenAI-compatible API.
func NewOpenAIGateway(cfg Config) Gateway {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &openaiGateway{
		client:         openai.NewClientWithConfig(clientConfig),
		model:          cfg.Model,
		embeddingModel: cfg.EmbeddingModel,
		maxTokens:      maxTokens,
	}
}

func (g *openaiGateway) GenerateEmbedding(ctx context.Context, text, title string) ([]float32, error) {
	log := logger.FromContext(ctx).WithPrefix("ai")
	log.Debug("generating embedding: title=%s, len=%d", title, len(text))

	input := text
	if title != "" {
		input = title + "\n\n" + text
	}
	resp, err := g.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(g.embeddingModel),
		Input: []string{input},
	})
	if err != nil {
		log.Error("embedding request failed: %v", err)
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}
	return resp.Data[0].Embedding, nil
}

func (g *openaiGateway) AnalyzeContent(ctx context.Context, text, title string) (*Analysis, error) {
	log := logger.FromContext(ctx).WithPrefix("ai")
	log.Debug("analyzing content: title=%s, len=%d", title, len(text))

	content, err := g.chatJSON(ctx, analyzeSystemPrompt, fmt.Sprintf("Title: %s\n\n%s", title, text))
	if err != nil {
		log.Error("analyze request failed: %v", err)
		return nil, err
	}
	return ParseAnalysis(content)
}

func (g *openaiGateway) GenerateQuestions(ctx context.Context, note models.Note, opts QuestionOptions) ([]GeneratedQuestion, error) {
	log := logger.FromContext(ctx).WithPrefix("ai")
	log.Debug("generating questions: note_id=%d, difficulty=%s, count=%d", note.ID, opts.Difficulty, opts.Count)

	count := opts.Count
	if count <= 0 {
		count = 5
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate %d questions", count)
	if opts.Difficulty != "" && opts.Difficulty != models.DifficultyAll {
		fmt.Fprintf(&sb, " of %s difficulty", opts.Difficulty)
	}
	fmt.Fprintf(&sb, ".\n\nTitle: %s\n\n%s", note.Title, note.Content)

	content, err := g.chatJSON(ctx, generateSystemPrompt, sb.String())
	if err != nil {
		log.Error("question generation failed: %v", err)
		return nil, err
	}
	return ParseQuestions(content)
}

func (g *openaiGateway) ReviewAnswer(ctx context.Context, question, answer string, noteID int64) (*AnswerReview, error) {
	log := logger.FromContext(ctx).WithPrefix("ai")
	log.Debug("reviewing answer: note_id=%d, answer_len=%d", noteID, len(answer))

	prompt := fmt.Sprintf("Question: %s\n\nStudent answer: %s", question, answer)
	content, err := g.chatJSON(ctx, reviewSystemPrompt, prompt)
	if err != nil {
		log.Error("answer review failed: %v", err)
		return nil, err
	}
	return ParseAnswerReview(content)
}

func (g *openaiGateway) chatJSON(ctx context.Context, system, user string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

// ParseAnalysis decodes an analyze-content response body.
func ParseAnalysis(content string) (*Analysis, error) {
	var a Analysis
	if err := json.Unmarshal([]byte(stripFences(content)), &a); err != nil {
		return nil, fmt.Errorf("decode analysis response: %w", err)
	}
	return &a, nil
}

// ParseQuestions decodes a question-generation response body. Questions with
// an unknown difficulty are coerced to medium rather than dropped.
func ParseQuestions(content string) ([]GeneratedQuestion, error) {
	var payload struct {
		Questions []GeneratedQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(stripFences(content)), &payload); err != nil {
		return nil, fmt.Errorf("decode questions response: %w", err)
	}
	out := payload.Questions[:0]
	for _, q := range payload.Questions {
		if strings.TrimSpace(q.Text) == "" {
			continue
		}
		if !models.ValidDifficulty(q.Difficulty) {
			q.Difficulty = models.DifficultyMedium
		}
		out = append(out, q)
	}
	return out, nil
}

// ParseAnswerReview decodes an answer-review response body.
func ParseAnswerReview(content string) (*AnswerReview, error) {
	var r AnswerReview
	if err := json.Unmarshal([]byte(stripFences(content)), &r); err != nil {
		return nil, fmt.Errorf("decode review response: %w", err)
	}
	return &r, nil
}

// stripFences removes a markdown code fence some models wrap around JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
