package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai"

	"github.com/KasperFyhn/ulgis/internal/logger"
)

type openAIGenerator struct {
	log    *logger.Logger
	client *openai.Client
}

// NewOpenAIGenerator builds a generator against the OpenAI chat completion
// API, or any compatible endpoint via OPENAI_BASE_URL.
func NewOpenAIGenerator(log *logger.Logger) (Generator, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing OPENAI_API_KEY", ErrNotConfigured)
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.BaseURL = baseURL
	}

	return &openAIGenerator{
		log:    log.With("service", "OpenAIGenerator"),
		client: openai.NewClientWithConfig(config),
	}, nil
}

func (g *openAIGenerator) request(prompt string, settings Settings) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:            settings.Model,
		Temperature:      float32(settings.Temperature),
		FrequencyPenalty: float32(settings.FrequencyPenalty),
		MaxTokens:        maxCompletionTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
}

func (g *openAIGenerator) Generate(ctx context.Context, prompt string, settings Settings) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, g.request(prompt, settings))
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: empty response")
	}
	g.log.Debug("completion finished",
		"model", settings.Model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)
	return resp.Choices[0].Message.Content, nil
}

func (g *openAIGenerator) GenerateStream(ctx context.Context, prompt string, settings Settings) (Stream, error) {
	req := g.request(prompt, settings)
	req.Stream = true
	stream, err := g.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai stream: %w", err)
	}
	return &openAIStream{inner: stream}, nil
}

type openAIStream struct {
	inner *openai.ChatCompletionStream
}

func (s *openAIStream) Recv() (string, error) {
	for {
		resp, err := s.inner.Recv()
		if err != nil {
			// io.EOF passes through untouched as the terminal marker.
			return "", err
		}
		if len(resp.Choices) == 0 {
			continue
		}
		return resp.Choices[0].Delta.Content, nil
	}
}

func (s *openAIStream) Close() error {
	return s.inner.Close()
}
