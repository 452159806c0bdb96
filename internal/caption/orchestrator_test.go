package caption

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/shashuec/storecalendar-go/internal/calendar"
	"github.com/shashuec/storecalendar-go/internal/config"
	"github.com/shashuec/storecalendar-go/internal/domain"
	"github.com/shashuec/storecalendar-go/internal/gemini"
	"github.com/shashuec/storecalendar-go/internal/llm"
)

type fakeGenerator struct {
	failPrompts string
}

func (f *fakeGenerator) Generate(_ context.Context, req gemini.Request) (llm.TextResult, string, error) {
	if f.failPrompts != "" && strings.Contains(req.Prompt, f.failPrompts) {
		return llm.TextResult{}, "fake-model", errors.New("upstream unavailable")
	}
	return llm.TextResult{Text: "generated: " + firstLine(req.Prompt)}, "fake-model", nil
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

func testOrchestrator(t *testing.T, generator gemini.Generator) *Orchestrator {
	t.Helper()
	prompts, err := NewPrompts()
	if err != nil {
		t.Fatalf("NewPrompts: %v", err)
	}
	cfg := &config.Config{
		Gemini: config.GeminiConfig{
			MaxConcurrency: 4,
			TimeoutSeconds: 5,
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	return NewOrchestrator(generator, prompts, cfg, logger)
}

func TestGenerateFillsAllStyles(t *testing.T) {
	orchestrator := testOrchestrator(t, &fakeGenerator{})
	items := []domain.Product{
		{ID: "a", Name: "Rose Serum", Price: "$29.00"},
		{ID: "b", Name: "Clay Mask"},
	}

	captions := orchestrator.Generate(context.Background(), items, "casual", domain.CategoryBeauty)
	if len(captions) != len(items)*calendar.PostsPerWeek {
		t.Fatalf("expected %d captions, got %d", len(items)*calendar.PostsPerWeek, len(captions))
	}
	for _, item := range items {
		for _, style := range calendar.AllStyles() {
			if captions[calendar.CaptionKey{ProductID: item.ID, Style: style}] == "" {
				t.Fatalf("missing caption for (%s, %s)", item.ID, style)
			}
		}
	}
}

func TestGenerateLeavesFailedEntriesAbsent(t *testing.T) {
	// Rose Serum 상품 프롬프트만 실패시킨다.
	orchestrator := testOrchestrator(t, &fakeGenerator{failPrompts: "Rose Serum"})
	items := []domain.Product{
		{ID: "a", Name: "Rose Serum"},
		{ID: "b", Name: "Clay Mask"},
	}

	captions := orchestrator.Generate(context.Background(), items, "casual", domain.CategoryBeauty)
	if len(captions) != calendar.PostsPerWeek {
		t.Fatalf("expected %d captions for the surviving item, got %d", calendar.PostsPerWeek, len(captions))
	}
	for _, style := range calendar.AllStyles() {
		if _, ok := captions[calendar.CaptionKey{ProductID: "a", Style: style}]; ok {
			t.Fatalf("failed item should have no entry for style %s", style)
		}
	}
}

func TestPromptsFormatting(t *testing.T) {
	prompts, err := NewPrompts()
	if err != nil {
		t.Fatalf("NewPrompts: %v", err)
	}

	system, err := prompts.System("playful", domain.CategoryJewelry)
	if err != nil {
		t.Fatalf("System: %v", err)
	}
	if !strings.Contains(system, "playful") || !strings.Contains(system, "jewelry") {
		t.Fatalf("system prompt not filled: %q", system)
	}

	user, err := prompts.User(calendar.StyleShowcase, domain.Product{Name: "Gold Ring", Price: "$120.00"})
	if err != nil {
		t.Fatalf("User: %v", err)
	}
	if !strings.Contains(user, "Gold Ring") || !strings.Contains(user, "$120.00") {
		t.Fatalf("user prompt not filled: %q", user)
	}

	noPrice, err := prompts.User(calendar.StyleHowTo, domain.Product{Name: "Bridal Makeup"})
	if err != nil {
		t.Fatalf("User: %v", err)
	}
	if !strings.Contains(noPrice, "not listed") {
		t.Fatalf("missing price placeholder not substituted: %q", noPrice)
	}

	if _, err := prompts.User(calendar.CaptionStyle("bogus"), domain.Product{Name: "X"}); err == nil {
		t.Fatalf("unknown style should error")
	}
}
