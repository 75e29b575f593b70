package provider

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"github.com/skillforge/skillforge-backend/internal/model"
)

// openAICompatClient talks to any OpenAI-compatible chat-completions
// endpoint. All supported upstreams (OpenAI, Groq, DeepSeek, Together,
// Mistral) share this wire shape and differ only in base URL and model.
type openAICompatClient struct {
	name   string
	model  string
	client *openai.Client
}

func newOpenAICompatClient(name, apiKey, baseURL, modelName string, timeout time.Duration) *openAICompatClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &openAICompatClient{
		name:   name,
		model:  modelName,
		client: openai.NewClientWithConfig(cfg),
	}
}

func (c *openAICompatClient) Name() string {
	return c.name
}

// complete issues a single chat-completion call. No retries: a failure here
// is the orchestrator's signal to move to the next provider.
func (c *openAICompatClient) complete(ctx context.Context, op, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.7,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", &CallError{Provider: c.name, Op: op, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &CallError{Provider: c.name, Op: op, Err: errors.New("empty choices in response")}
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *openAICompatClient) GenerateQuestions(ctx context.Context, skill string, level model.Level, count int) (*QuestionSet, error) {
	content, err := c.complete(ctx, "generate_questions", generateSystemPrompt, buildGeneratePrompt(skill, level, count))
	if err != nil {
		return nil, err
	}

	questions, err := parseQuestionPayload(content, skill, level)
	if err != nil {
		return nil, &CallError{Provider: c.name, Op: "generate_questions", Err: err}
	}

	now := time.Now().UTC()
	for i := range questions {
		questions[i].CreatedAt = now
	}

	return &QuestionSet{
		BatchID:   uuid.New().String(),
		Provider:  c.name,
		CreatedAt: now,
		Questions: questions,
	}, nil
}

func (c *openAICompatClient) AnalyzePerformance(ctx context.Context, data *model.PerformanceData) (*model.Analysis, error) {
	content, err := c.complete(ctx, "analyze_performance", analyzeSystemPrompt, buildAnalyzePrompt(data))
	if err != nil {
		return nil, err
	}

	analysis, err := parseAnalysisPayload(content)
	if err != nil {
		return nil, &CallError{Provider: c.name, Op: "analyze_performance", Err: err}
	}
	return analysis, nil
}
