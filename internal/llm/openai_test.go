package llm

import (
	"testing"

	"github.com/sashabaranov/go-openai"
)

func TestRequestMapping(t *testing.T) {
	g := &openAIGenerator{}
	req := g.request("List three learning goals.", Settings{
		Model:            "gpt-4o",
		Temperature:      0.7,
		FrequencyPenalty: 0.2,
	})

	if req.Model != "gpt-4o" {
		t.Fatalf("model = %q, want gpt-4o", req.Model)
	}
	if req.Temperature != 0.7 || req.FrequencyPenalty != 0.2 {
		t.Fatalf("sampling knobs lost: %+v", req)
	}
	if req.MaxTokens != maxCompletionTokens {
		t.Fatalf("max tokens = %d, want %d", req.MaxTokens, maxCompletionTokens)
	}
	if len(req.Messages) != 2 {
		t.Fatalf("got %d messages, want system + user", len(req.Messages))
	}
	if req.Messages[0].Role != openai.ChatMessageRoleSystem || req.Messages[0].Content != systemPrompt {
		t.Fatalf("system message wrong: %+v", req.Messages[0])
	}
	if req.Messages[1].Role != openai.ChatMessageRoleUser || req.Messages[1].Content != "List three learning goals." {
		t.Fatalf("user message wrong: %+v", req.Messages[1])
	}
}

func TestNewOpenAIGenerator_RequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewOpenAIGenerator(nil); err == nil {
		t.Fatal("expected an error without OPENAI_API_KEY")
	}
}
