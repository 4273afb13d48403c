package llm

import (
	"context"
	"errors"
)

// systemPrompt frames every generation request regardless of model.
const systemPrompt = "You are an educational expert."

// maxCompletionTokens is a failsafe so a runaway generation cannot stream
// forever.
const maxCompletionTokens = 2000

// ErrNotConfigured is returned by the constructor when the provider
// credentials are missing.
var ErrNotConfigured = errors.New("llm: provider not configured")

// Settings are the per-request model knobs. They come from validated ample
// options or from the server defaults on the lower ui levels.
type Settings struct {
	Model            string
	Temperature      float64
	FrequencyPenalty float64
}

// Stream yields a completion chunk by chunk. Recv returns io.EOF when the
// model is done; Close releases the underlying connection and is safe to call
// after an error.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// Generator produces completions for compiled prompts.
type Generator interface {
	Generate(ctx context.Context, prompt string, settings Settings) (string, error)
	GenerateStream(ctx context.Context, prompt string, settings Settings) (Stream, error)
}
