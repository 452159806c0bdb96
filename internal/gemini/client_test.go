package gemini

import (
	"errors"
	"testing"

	"google.golang.org/genai"

	"github.com/shashuec/storecalendar-go/internal/config"
	"github.com/shashuec/storecalendar-go/internal/metrics"
)

func testClient(t *testing.T, keys []string) *Client {
	t.Helper()
	cfg := &config.Config{
		Gemini: config.GeminiConfig{
			APIKeys:         keys,
			CaptionModel:    "gemini-2.5-flash",
			ClassifyModel:   "gemini-2.5-flash-lite",
			Temperature:     0.8,
			MaxOutputTokens: 1024,
			TimeoutSeconds:  30,
		},
	}
	client, err := NewClient(cfg, metrics.NewStore(), nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestResolveModel(t *testing.T) {
	client := testClient(t, []string{"key"})

	model, err := client.resolveModel("", "caption")
	if err != nil || model != "gemini-2.5-flash" {
		t.Fatalf("caption model = %q, err %v", model, err)
	}
	model, err = client.resolveModel("", "classify")
	if err != nil || model != "gemini-2.5-flash-lite" {
		t.Fatalf("classify model = %q, err %v", model, err)
	}
	model, err = client.resolveModel("gemini-override", "caption")
	if err != nil || model != "gemini-override" {
		t.Fatalf("override model = %q, err %v", model, err)
	}

	empty := testClient(t, []string{"key"})
	empty.cfg.Gemini.CaptionModel = ""
	empty.cfg.Gemini.ClassifyModel = ""
	if _, err := empty.resolveModel("", "caption"); !errors.Is(err, ErrInvalidModel) {
		t.Fatalf("expected ErrInvalidModel, got %v", err)
	}
}

func TestSelectClientWithoutKeys(t *testing.T) {
	client := testClient(t, nil)
	if _, err := client.selectClient(t.Context()); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestBuildContents(t *testing.T) {
	contents := buildContents("prompt")
	if len(contents) != 1 {
		t.Fatalf("expected 1 content, got %d", len(contents))
	}
	if contents[0].Role != string(genai.RoleUser) {
		t.Fatalf("expected user role, got %s", contents[0].Role)
	}
	if contents[0].Parts[0].Text != "prompt" {
		t.Fatalf("expected prompt text, got %s", contents[0].Parts[0].Text)
	}
}

func TestBuildGenerateConfig(t *testing.T) {
	client := testClient(t, []string{"key"})

	cfg := client.buildGenerateConfig("system")
	if cfg.SystemInstruction == nil || cfg.SystemInstruction.Parts[0].Text != "system" {
		t.Fatalf("system instruction not set")
	}
	if cfg.MaxOutputTokens != 1024 {
		t.Fatalf("max output tokens = %d", cfg.MaxOutputTokens)
	}

	cfg = client.buildGenerateConfig("")
	if cfg.SystemInstruction != nil {
		t.Fatalf("empty system prompt should leave instruction nil")
	}
}

func TestExtractUsage(t *testing.T) {
	if got := extractUsage(nil); got.TotalTokens != 0 {
		t.Fatalf("nil response usage = %+v", got)
	}

	response := &genai.GenerateContentResponse{
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     100,
			CandidatesTokenCount: 40,
			TotalTokenCount:      140,
		},
	}
	got := extractUsage(response)
	if got.InputTokens != 100 || got.OutputTokens != 40 || got.TotalTokens != 140 {
		t.Fatalf("usage = %+v", got)
	}
}
