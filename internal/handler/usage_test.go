package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shashuec/storecalendar-go/internal/config"
	"github.com/shashuec/storecalendar-go/internal/llm"
	"github.com/shashuec/storecalendar-go/internal/metrics"
	"github.com/shashuec/storecalendar-go/internal/usage"
)

type fakeUsageSource struct {
	daily    *usage.DailyUsage
	recent   []usage.DailyUsage
	lastDays int
	err      error
}

func (f *fakeUsageSource) GetDailyUsage(context.Context, time.Time) (*usage.DailyUsage, error) {
	return f.daily, f.err
}

func (f *fakeUsageSource) GetRecentUsage(_ context.Context, days int) ([]usage.DailyUsage, error) {
	f.lastDays = days
	return f.recent, f.err
}

func usageRouter(source UsageSource, metricsStore *metrics.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	cfg := &config.Config{Gemini: config.GeminiConfig{CaptionModel: "gemini-2.5-flash"}}
	router := gin.New()
	NewUsageHandler(cfg, source, metricsStore, logger).RegisterRoutes(router)
	return router
}

func getJSON(t *testing.T, router *gin.Engine, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if out != nil && resp.Code == http.StatusOK {
		if err := json.Unmarshal(resp.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s response: %v", path, err)
		}
	}
	return resp
}

func TestUsageDaily(t *testing.T) {
	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	source := &fakeUsageSource{daily: &usage.DailyUsage{
		UsageDate:    day,
		InputTokens:  120,
		OutputTokens: 30,
		RequestCount: 4,
	}}
	router := usageRouter(source, metrics.NewStore())

	var body DailyUsageResponse
	resp := getJSON(t, router, "/api/usage/daily", &body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected ok, got %d", resp.Code)
	}
	if body.UsageDate != "2026-08-29" || body.TotalTokens != 150 || body.RequestCount != 4 {
		t.Fatalf("unexpected daily response: %+v", body)
	}
	if body.Model != "gemini-2.5-flash" {
		t.Fatalf("unexpected model: %s", body.Model)
	}
}

func TestUsageDailyWithoutRows(t *testing.T) {
	router := usageRouter(&fakeUsageSource{}, metrics.NewStore())

	var body DailyUsageResponse
	resp := getJSON(t, router, "/api/usage/daily", &body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected ok, got %d", resp.Code)
	}
	if body.TotalTokens != 0 || body.UsageDate == "" {
		t.Fatalf("expected zeroed response with today's date: %+v", body)
	}
}

func TestUsageRecent(t *testing.T) {
	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	source := &fakeUsageSource{recent: []usage.DailyUsage{
		{UsageDate: day, InputTokens: 100, OutputTokens: 20, RequestCount: 2},
		{UsageDate: day.AddDate(0, 0, -1), InputTokens: 50, OutputTokens: 10, RequestCount: 1},
	}}
	router := usageRouter(source, metrics.NewStore())

	var body UsageListResponse
	resp := getJSON(t, router, "/api/usage/recent?days=2", &body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected ok, got %d", resp.Code)
	}
	if source.lastDays != 2 {
		t.Fatalf("days = %d, want 2", source.lastDays)
	}
	if len(body.Usages) != 2 || body.TotalTokens != 180 || body.TotalRequestCount != 3 {
		t.Fatalf("unexpected list response: %+v", body)
	}
}

func TestUsageRecentRejectsBadDays(t *testing.T) {
	router := usageRouter(&fakeUsageSource{}, metrics.NewStore())

	for _, query := range []string{"days=0", "days=366", "days=abc"} {
		resp := getJSON(t, router, "/api/usage/recent?"+query, nil)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("query %s: expected 400, got %d", query, resp.Code)
		}
	}
}

func TestUsageRecentPropagatesError(t *testing.T) {
	router := usageRouter(&fakeUsageSource{err: errors.New("db down")}, metrics.NewStore())

	resp := getJSON(t, router, "/api/usage/recent", nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

func TestUsageStats(t *testing.T) {
	metricsStore := metrics.NewStore()
	metricsStore.RecordSuccess(20*time.Millisecond, llm.Usage{InputTokens: 200, OutputTokens: 80, TotalTokens: 280})
	metricsStore.RecordError(5 * time.Millisecond)
	router := usageRouter(&fakeUsageSource{}, metricsStore)

	var body usageStatsResponse
	resp := getJSON(t, router, "/api/usage/stats", &body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected ok, got %d", resp.Code)
	}
	if body.InputTokens != 200 || body.OutputTokens != 80 || body.TotalTokens != 280 {
		t.Fatalf("unexpected totals: %+v", body)
	}
	if body.LLM["total_calls"] != 2 || body.LLM["total_errors"] != 1 {
		t.Fatalf("unexpected snapshot: %#v", body.LLM)
	}
}
