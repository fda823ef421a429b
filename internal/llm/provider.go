package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// Client is the narrow surface the pipeline needs from a chat model. Any
// OpenAI-compatible server (llama.cpp, vLLM, Ollama, the real thing) can sit
// behind it, and tests substitute fakes.
type Client interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ModelLister is an optional capability used for the startup preflight.
// Callers detect it with a type assertion.
type ModelLister interface {
	ListModels(ctx context.Context) (openai.ModelsList, error)
}

// OpenAIProvider adapts *openai.Client to Client and ModelLister.
type OpenAIProvider struct {
	Inner *openai.Client
}

func (p *OpenAIProvider) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return p.Inner.CreateChatCompletion(ctx, request)
}

func (p *OpenAIProvider) ListModels(ctx context.Context) (openai.ModelsList, error) {
	return p.Inner.ListModels(ctx)
}
