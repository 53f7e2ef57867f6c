package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"google.golang.org/genai"
)

// mockChatService implements ChatService for testing
type mockChatService struct {
	response  *openai.ChatCompletion
	err       error
	callCount int
	lastModel openai.ChatModel
}

func (m *mockChatService) New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	m.callCount++
	m.lastModel = params.Model.Value
	return m.response, m.err
}

func TestOpenAI_Generate(t *testing.T) {
	mock := &mockChatService{
		response: &openai.ChatCompletion{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "hello"}},
			},
		},
	}
	client := &OpenAI{chat: mock, model: openai.ChatModelGPT4oMini}

	got, err := client.Generate(context.Background(), "say hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Errorf("Generate() = %q, want hello", got)
	}
	if mock.callCount != 1 || mock.lastModel != openai.ChatModelGPT4oMini {
		t.Errorf("calls=%d model=%q", mock.callCount, mock.lastModel)
	}
	if client.ModelName() != string(openai.ChatModelGPT4oMini) {
		t.Errorf("ModelName() = %q", client.ModelName())
	}
}

func TestOpenAI_Errors(t *testing.T) {
	apiErr := errors.New("api error")
	tests := []struct {
		name string
		mock *mockChatService
	}{
		{"api error", &mockChatService{err: apiErr}},
		{"no choices", &mockChatService{response: &openai.ChatCompletion{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &OpenAI{chat: tt.mock, model: openai.ChatModelGPT4oMini}
			if _, err := client.Generate(context.Background(), "x"); err == nil {
				t.Error("expected error")
			}
		})
	}

	client := &OpenAI{chat: &mockChatService{err: apiErr}, model: openai.ChatModelGPT4oMini}
	if _, err := client.Generate(context.Background(), "x"); !errors.Is(err, apiErr) {
		t.Errorf("error should wrap the API error, got %v", err)
	}
}

func TestOpenAI_ContextCancelled(t *testing.T) {
	mock := &mockChatService{}
	client := &OpenAI{chat: mock, model: openai.ChatModelGPT4oMini}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Generate(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("Generate() error = %v, want context.Canceled", err)
	}
	if mock.callCount != 0 {
		t.Error("no call should reach the API after cancellation")
	}
}

// mockModelsService implements ModelsService for testing
type mockModelsService struct {
	response  *genai.GenerateContentResponse
	err       error
	lastModel string
}

func (m *mockModelsService) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.lastModel = model
	return m.response, m.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: text}}}},
		},
	}
}

func TestGemini_Generate(t *testing.T) {
	mock := &mockModelsService{response: textResponse("namaste")}
	g := &Gemini{models: mock, model: "gemini-1.5-flash"}

	got, err := g.Generate(context.Background(), "greet")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "namaste" || mock.lastModel != "gemini-1.5-flash" {
		t.Errorf("Generate() = %q via %q", got, mock.lastModel)
	}
}

func TestGemini_Errors(t *testing.T) {
	tests := []struct {
		name string
		mock *mockModelsService
	}{
		{"api error", &mockModelsService{err: errors.New("boom")}},
		{"empty response", &mockModelsService{response: &genai.GenerateContentResponse{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Gemini{models: tt.mock, model: "gemini-1.5-flash"}
			if _, err := g.Generate(context.Background(), "x"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNewGemini_RequiresKey(t *testing.T) {
	if _, err := NewGemini(context.Background(), "", ""); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestNoop(t *testing.T) {
	if _, err := (Noop{}).Generate(context.Background(), "x"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Generate() error = %v, want ErrNotConfigured", err)
	}
}

func TestNewOpenAI_DefaultModel(t *testing.T) {
	if got := NewOpenAI("sk-test", "").ModelName(); got != DefaultOpenAIModel {
		t.Errorf("ModelName() = %q, want %q", got, DefaultOpenAIModel)
	}
	if got := NewOpenAI("sk-test", "gpt-4o").ModelName(); got != "gpt-4o" {
		t.Errorf("ModelName() = %q, want gpt-4o", got)
	}
}
