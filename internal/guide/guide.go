package guide

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/voyhq/wanderguide/internal/llm"
	"github.com/voyhq/wanderguide/internal/render"
	"github.com/voyhq/wanderguide/internal/scrape"
)

// RequiredKeys are the five sections a guide response must carry. Values are
// contractually plain strings; their types are deliberately not checked here
// because the renderer handles shape violations.
var RequiredKeys = []string{"overview", "attractions", "transportation", "food_and_dining", "tips"}

// ErrBadResponse indicates the model reply was not a usable guide: malformed
// JSON, no choices, or a required key missing.
var ErrBadResponse = errors.New("unusable model response")

const systemMessage = "You are a travel writer. Respond with strict JSON only, no narration. " +
	"The JSON schema is {\"overview\": string, \"attractions\": string, \"transportation\": string, " +
	"\"food_and_dining\": string, \"tips\": string}. Every value MUST be a plain string, never a " +
	"list or object. Base the guide only on the provided page text."

// Guide is the decoded model response keyed by section name.
type Guide struct {
	Sections map[string]render.Value
}

// Generator turns scraped destination text into a Guide with one chat call.
type Generator struct {
	Client llm.Client
	Model  string
	// Temperature for sampling. Zero means default (0.7).
	Temperature float32
	Verbose     bool
}

// Generate builds the prompt from the scraped buckets, requests a JSON-object
// completion, and validates key presence. The call is synchronous; a failed
// call or bad payload halts the pipeline.
func (g *Generator) Generate(ctx context.Context, destination string, info scrape.Info) (Guide, error) {
	if g.Client == nil || strings.TrimSpace(g.Model) == "" {
		return Guide{}, errors.New("generator not configured")
	}
	user := buildUserMessage(destination, info)
	if g.Verbose {
		// Prompt skeleton only; the scraped text can be large.
		log.Debug().Str("stage", "guide").Str("model", g.Model).Int("system_len", len(systemMessage)).Int("user_len", len(user)).Msg("guide prompt")
	}

	temp := g.Temperature
	if temp == 0 {
		temp = 0.7
	}
	resp, err := g.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
		Temperature:    temp,
		N:              1,
	})
	if err != nil {
		return Guide{}, fmt.Errorf("guide call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Guide{}, fmt.Errorf("%w: no choices", ErrBadResponse)
	}
	raw := strings.TrimSpace(resp.Choices[0].Message.Content)

	sections := map[string]render.Value{}
	if err := json.Unmarshal([]byte(raw), &sections); err != nil {
		return Guide{}, fmt.Errorf("%w: parse guide json: %v", ErrBadResponse, err)
	}
	for _, key := range RequiredKeys {
		if _, ok := sections[key]; !ok {
			return Guide{}, fmt.Errorf("%w: missing key %q", ErrBadResponse, key)
		}
	}
	return Guide{Sections: sections}, nil
}

func buildUserMessage(destination string, info scrape.Info) string {
	var sb strings.Builder
	sb.WriteString("Write a travel guide for ")
	sb.WriteString(destination)
	sb.WriteString(" from the following page text.\n\n")
	sb.WriteString(info.PromptText())
	sb.WriteString("\n\nOutput only the JSON object.")
	return sb.String()
}

// ListModels is a best-effort preflight against the serving endpoint. It is
// advisory only; callers warn and continue on failure.
func ListModels(ctx context.Context, c llm.Client) ([]string, error) {
	lister, ok := c.(llm.ModelLister)
	if !ok {
		return nil, errors.New("provider cannot list models")
	}
	res, err := lister.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(res.Models))
	for _, m := range res.Models {
		ids = append(ids, m.ID)
	}
	return ids, nil
}
