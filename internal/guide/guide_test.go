package guide

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/voyhq/wanderguide/internal/render"
	"github.com/voyhq/wanderguide/internal/scrape"
)

// fakeClient returns a fixed completion and records the request.
type fakeClient struct {
	content string
	err     error
	lastReq openai.ChatCompletionRequest
}

func (f *fakeClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: f.content}},
		},
	}, nil
}

var sampleInfo = scrape.Info{
	Overview:       "A city.",
	Attractions:    "A tower.",
	Transportation: "A metro.",
	Food:           "Cafes.",
	Tips:           "Be safe.",
}

const goodJSON = `{"overview":"X is great.","attractions":"1. Tower","transportation":"Metro","food_and_dining":"Cafes","tips":"Be safe"}`

func TestGenerate_ParsesAllFiveKeys(t *testing.T) {
	fc := &fakeClient{content: goodJSON}
	g := &Generator{Client: fc, Model: "test-model"}
	out, err := g.Generate(context.Background(), "X", sampleInfo)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(out.Sections) != 5 {
		t.Fatalf("expected 5 sections, got %d", len(out.Sections))
	}
	v, ok := out.Sections["food_and_dining"]
	if !ok || v.Kind != render.KindText || v.Text != "Cafes" {
		t.Fatalf("food_and_dining = %+v", v)
	}
}

func TestGenerate_RequestShape(t *testing.T) {
	fc := &fakeClient{content: goodJSON}
	g := &Generator{Client: fc, Model: "test-model"}
	if _, err := g.Generate(context.Background(), "Porto", sampleInfo); err != nil {
		t.Fatalf("generate: %v", err)
	}
	req := fc.lastReq
	if req.Model != "test-model" {
		t.Fatalf("model = %q", req.Model)
	}
	if req.ResponseFormat == nil || req.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
		t.Fatalf("expected JSON object response format, got %+v", req.ResponseFormat)
	}
	if req.Temperature != 0.7 {
		t.Fatalf("temperature = %v", req.Temperature)
	}
	if len(req.Messages) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(req.Messages))
	}
	sys := req.Messages[0].Content
	for _, key := range RequiredKeys {
		if !strings.Contains(sys, key) {
			t.Fatalf("system message missing key %q", key)
		}
	}
	user := req.Messages[1].Content
	if !strings.Contains(user, "Porto") {
		t.Fatalf("user message missing destination:\n%s", user)
	}
	for _, chunk := range []string{"A city.", "A tower.", "A metro.", "Cafes.", "Be safe."} {
		if !strings.Contains(user, chunk) {
			t.Fatalf("user message missing scraped text %q", chunk)
		}
	}
}

func TestGenerate_CustomTemperature(t *testing.T) {
	fc := &fakeClient{content: goodJSON}
	g := &Generator{Client: fc, Model: "m", Temperature: 0.2}
	if _, err := g.Generate(context.Background(), "X", sampleInfo); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if fc.lastReq.Temperature != 0.2 {
		t.Fatalf("temperature = %v", fc.lastReq.Temperature)
	}
}

func TestGenerate_NestedValuesSurvive(t *testing.T) {
	fc := &fakeClient{content: `{"overview":"ok","attractions":[{"name":"Tower","description":"Tall"}],"transportation":"m","food_and_dining":"f","tips":"t"}`}
	g := &Generator{Client: fc, Model: "m"}
	out, err := g.Generate(context.Background(), "X", sampleInfo)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out.Sections["attractions"].Kind != render.KindList {
		t.Fatalf("attractions kind = %v", out.Sections["attractions"].Kind)
	}
}

func TestGenerate_MalformedJSONIsBadResponse(t *testing.T) {
	fc := &fakeClient{content: "Sure! Here is your guide: {..."}
	g := &Generator{Client: fc, Model: "m"}
	_, err := g.Generate(context.Background(), "X", sampleInfo)
	if !errors.Is(err, ErrBadResponse) {
		t.Fatalf("expected ErrBadResponse, got %v", err)
	}
}

func TestGenerate_MissingKeyIsBadResponse(t *testing.T) {
	fc := &fakeClient{content: `{"overview":"o","attractions":"a","transportation":"t","tips":"p"}`}
	g := &Generator{Client: fc, Model: "m"}
	_, err := g.Generate(context.Background(), "X", sampleInfo)
	if !errors.Is(err, ErrBadResponse) {
		t.Fatalf("expected ErrBadResponse, got %v", err)
	}
	if !strings.Contains(err.Error(), "food_and_dining") {
		t.Fatalf("error should name the missing key: %v", err)
	}
}

func TestGenerate_CallErrorIsNotBadResponse(t *testing.T) {
	fc := &fakeClient{err: errors.New("connection refused")}
	g := &Generator{Client: fc, Model: "m"}
	_, err := g.Generate(context.Background(), "X", sampleInfo)
	if err == nil || errors.Is(err, ErrBadResponse) {
		t.Fatalf("transport errors should not look like bad payloads: %v", err)
	}
}

func TestGenerate_NotConfigured(t *testing.T) {
	g := &Generator{}
	if _, err := g.Generate(context.Background(), "X", sampleInfo); err == nil {
		t.Fatalf("expected configuration error")
	}
}
