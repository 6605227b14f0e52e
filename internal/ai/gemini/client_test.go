package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeCaller struct {
	mu      sync.Mutex
	queue   []fakeResponse
	calls   int
	prompts []string
}

func (f *fakeCaller) GenerateContent(_ context.Context, _ string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	for _, content := range contents {
		for _, part := range content.Parts {
			f.prompts = append(f.prompts, part.Text)
		}
	}

	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := f.queue[0]
	f.queue = f.queue[1:]
	return res.resp, res.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func stubBackoff(t *testing.T) {
	t.Helper()
	original := backoff
	backoff = func(context.Context, int) error { return nil }
	t.Cleanup(func() { backoff = original })
}

func TestGeneratorRetriesOnTemporaryError(t *testing.T) {
	stubBackoff(t)

	caller := &fakeCaller{queue: []fakeResponse{
		{err: genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}},
		{resp: textResponse("retry ok")},
	}}

	g := &Generator{
		models:     caller,
		model:      "gemini-2.0-flash",
		maxRetries: 2,
		logger:     zap.NewNop(),
	}

	output, err := g.GenerateContent(context.Background(), "message")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if output != "retry ok" {
		t.Fatalf("unexpected output: %q", output)
	}

	if caller.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", caller.calls)
	}

	if len(caller.prompts) == 0 || caller.prompts[0] != "message" {
		t.Fatalf("unexpected prompts: %v", caller.prompts)
	}
}

func TestGeneratorStopsAfterRetriesExhausted(t *testing.T) {
	stubBackoff(t)

	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	caller := &fakeCaller{queue: []fakeResponse{{err: tempErr}, {err: tempErr}}}

	g := &Generator{
		models:     caller,
		model:      "gemini-2.0-flash",
		maxRetries: 2,
		logger:     zap.NewNop(),
	}

	if _, err := g.GenerateContent(context.Background(), "msg"); err == nil {
		t.Fatal("expected error after retries exhausted")
	}

	if caller.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", caller.calls)
	}
}

func TestGeneratorDoesNotRetryClientErrors(t *testing.T) {
	stubBackoff(t)

	caller := &fakeCaller{queue: []fakeResponse{
		{err: genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"}},
		{resp: textResponse("should not be reached")},
	}}

	g := &Generator{
		models:     caller,
		model:      "gemini-2.0-flash",
		maxRetries: 3,
		logger:     zap.NewNop(),
	}

	if _, err := g.GenerateContent(context.Background(), "msg"); err == nil {
		t.Fatal("expected error")
	}

	if caller.calls != 1 {
		t.Fatalf("expected single call, got %d", caller.calls)
	}
}

func TestGeneratorRejectsEmptyResponse(t *testing.T) {
	caller := &fakeCaller{queue: []fakeResponse{{resp: &genai.GenerateContentResponse{}}}}

	g := &Generator{
		models:     caller,
		model:      "gemini-2.0-flash",
		maxRetries: 1,
		logger:     zap.NewNop(),
	}

	if _, err := g.GenerateContent(context.Background(), "msg"); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestGeneratorRejectsEmptyPrompt(t *testing.T) {
	g := &Generator{
		models:     &fakeCaller{},
		model:      "gemini-2.0-flash",
		maxRetries: 1,
		logger:     zap.NewNop(),
	}

	if _, err := g.GenerateContent(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty prompt")
	}
}
