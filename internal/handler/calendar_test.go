package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shashuec/storecalendar-go/internal/calendar"
	"github.com/shashuec/storecalendar-go/internal/config"
	"github.com/shashuec/storecalendar-go/internal/domain"
	"github.com/shashuec/storecalendar-go/internal/holiday"
	"github.com/shashuec/storecalendar-go/internal/scrape"
	"github.com/shashuec/storecalendar-go/internal/store"
)

func newTestHolidays(t *testing.T) *holiday.Calendar {
	t.Helper()
	holidays, err := holiday.NewCalendar()
	if err != nil {
		t.Fatalf("NewCalendar: %v", err)
	}
	return holidays
}

type fakeScraper struct {
	result scrape.Result
	err    error
}

func (f *fakeScraper) Scrape(context.Context, string) (scrape.Result, error) {
	return f.result, f.err
}

type fakeCaptioner struct {
	captions calendar.CaptionMap
}

func (f *fakeCaptioner) Generate(context.Context, []domain.Product, string, domain.BusinessCategory) calendar.CaptionMap {
	if f.captions == nil {
		return calendar.CaptionMap{}
	}
	return f.captions
}

type fakeStore struct {
	calendars   map[int64]calendar.WeeklyCalendar
	tokens      map[string]int64
	nextID      int64
	genCount    int64
	genLimitHit bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		calendars: make(map[int64]calendar.WeeklyCalendar),
		tokens:    make(map[string]int64),
	}
}

func (f *fakeStore) SaveStore(context.Context, domain.StoreProfile, time.Time) error {
	return nil
}

func (f *fakeStore) SaveCalendar(_ context.Context, _ string, cal calendar.WeeklyCalendar) (int64, error) {
	f.nextID++
	f.calendars[f.nextID] = cal
	return f.nextID, nil
}

func (f *fakeStore) GetCalendar(_ context.Context, id int64) (calendar.WeeklyCalendar, error) {
	cal, ok := f.calendars[id]
	if !ok {
		return calendar.WeeklyCalendar{}, store.ErrCalendarNotFound
	}
	return cal, nil
}

func (f *fakeStore) CreateShareToken(_ context.Context, calendarID int64) (string, error) {
	if _, ok := f.calendars[calendarID]; !ok {
		return "", store.ErrCalendarNotFound
	}
	token := "tok-fixed"
	f.tokens[token] = calendarID
	return token, nil
}

func (f *fakeStore) GetCalendarByToken(_ context.Context, token string) (calendar.WeeklyCalendar, error) {
	id, ok := f.tokens[token]
	if !ok {
		return calendar.WeeklyCalendar{}, store.ErrShareNotFound
	}
	return f.calendars[id], nil
}

func (f *fakeStore) AllowGeneration(context.Context, string, time.Time, int64) (bool, int64, error) {
	f.genCount++
	if f.genLimitHit {
		return false, f.genCount, nil
	}
	return true, f.genCount, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Generation: config.GenerationConfig{
			HourlyLimit: 10,
			MinProducts: 1,
			MaxProducts: 10,
		},
	}
}

func sampleScrapeResult() scrape.Result {
	return scrape.Result{
		Store: domain.StoreProfile{
			URL:      "https://examplestore.com",
			Name:     "Examplestore",
			Platform: domain.PlatformShopify,
			Category: domain.CategoryBeauty,
			Products: []domain.Product{
				{ID: "a", Name: "Rose Serum", Price: "$29.00"},
				{ID: "b", Name: "Clay Mask", Price: "$19.00"},
			},
		},
		ScrapedAt: time.Now(),
	}
}

func testRouter(t *testing.T, scraper Scraper, repo *fakeStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	holidays := newTestHolidays(t)
	assembler := calendar.NewAssembler(holidays)

	calendarHandler := NewCalendarHandler(testConfig(), scraper, &fakeCaptioner{}, assembler, repo, logger)
	shareHandler, err := NewShareHandler(repo, logger)
	if err != nil {
		t.Fatalf("NewShareHandler: %v", err)
	}

	router := gin.New()
	calendarHandler.RegisterRoutes(router)
	shareHandler.RegisterRoutes(router)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestGenerateCalendar(t *testing.T) {
	repo := newFakeStore()
	router := testRouter(t, &fakeScraper{result: sampleScrapeResult()}, repo)

	resp := postJSON(router, "/api/calendar/generate",
		`{"url":"https://examplestore.com","country":"US","week_number":1,"options":{"skip_captions":true}}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected ok, got %d: %s", resp.Code, resp.Body.String())
	}

	var body generateResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.CalendarID != 1 {
		t.Fatalf("calendar id = %d", body.CalendarID)
	}
	if len(body.Calendar.Posts) != calendar.PostsPerWeek {
		t.Fatalf("expected %d posts, got %d", calendar.PostsPerWeek, len(body.Calendar.Posts))
	}
	for _, post := range body.Calendar.Posts {
		if post.CaptionText == "" {
			t.Fatalf("post %d has empty caption", post.ID)
		}
	}
}

func TestGenerateRejectsUnknownCountry(t *testing.T) {
	router := testRouter(t, &fakeScraper{result: sampleScrapeResult()}, newFakeStore())

	resp := postJSON(router, "/api/calendar/generate",
		`{"url":"https://examplestore.com","country":"FR"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestGenerateRejectsEmptySelection(t *testing.T) {
	result := sampleScrapeResult()
	router := testRouter(t, &fakeScraper{result: result}, newFakeStore())

	resp := postJSON(router, "/api/calendar/generate",
		`{"url":"https://examplestore.com","selected_product_ids":["missing-id"]}`)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestGenerateHourlyLimit(t *testing.T) {
	repo := newFakeStore()
	repo.genLimitHit = true
	router := testRouter(t, &fakeScraper{result: sampleScrapeResult()}, repo)

	resp := postJSON(router, "/api/calendar/generate", `{"url":"https://examplestore.com"}`)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
}

func TestGetCalendarNotFound(t *testing.T) {
	router := testRouter(t, &fakeScraper{result: sampleScrapeResult()}, newFakeStore())

	req := httptest.NewRequest(http.MethodGet, "/api/calendar/99", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	bad := httptest.NewRequest(http.MethodGet, "/api/calendar/abc", nil)
	badResp := httptest.NewRecorder()
	router.ServeHTTP(badResp, bad)
	if badResp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric id, got %d", badResp.Code)
	}
}

func TestExportCSV(t *testing.T) {
	repo := newFakeStore()
	router := testRouter(t, &fakeScraper{result: sampleScrapeResult()}, repo)

	generate := postJSON(router, "/api/calendar/generate",
		`{"url":"https://examplestore.com","options":{"skip_captions":true}}`)
	if generate.Code != http.StatusOK {
		t.Fatalf("generate failed: %d", generate.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/calendar/1/csv", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected ok, got %d", resp.Code)
	}
	if !strings.HasPrefix(resp.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("content type = %q", resp.Header().Get("Content-Type"))
	}
	if !strings.Contains(resp.Header().Get("Content-Disposition"), "attachment") {
		t.Fatalf("missing attachment disposition")
	}
	lines := strings.Split(strings.TrimSpace(resp.Body.String()), "\n")
	if len(lines) != calendar.PostsPerWeek+1 {
		t.Fatalf("expected header + %d rows, got %d", calendar.PostsPerWeek, len(lines))
	}
}

func TestShareFlow(t *testing.T) {
	repo := newFakeStore()
	router := testRouter(t, &fakeScraper{result: sampleScrapeResult()}, repo)

	generate := postJSON(router, "/api/calendar/generate",
		`{"url":"https://examplestore.com","options":{"skip_captions":true}}`)
	if generate.Code != http.StatusOK {
		t.Fatalf("generate failed: %d", generate.Code)
	}

	share := postJSON(router, "/api/calendar/1/share", "")
	if share.Code != http.StatusOK {
		t.Fatalf("share failed: %d: %s", share.Code, share.Body.String())
	}
	var body shareResponse
	if err := json.Unmarshal(share.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode share response: %v", err)
	}
	if body.ShareURL != "/s/"+body.Token {
		t.Fatalf("share url = %q, token = %q", body.ShareURL, body.Token)
	}

	view := httptest.NewRequest(http.MethodGet, body.ShareURL, nil)
	viewResp := httptest.NewRecorder()
	router.ServeHTTP(viewResp, view)
	if viewResp.Code != http.StatusOK {
		t.Fatalf("share view failed: %d", viewResp.Code)
	}
	if !strings.Contains(viewResp.Body.String(), "Weekly Content Calendar") {
		t.Fatalf("share view missing heading")
	}
	if !strings.Contains(viewResp.Body.String(), "Rose Serum") {
		t.Fatalf("share view missing product name")
	}

	missing := httptest.NewRequest(http.MethodGet, "/s/unknown", nil)
	missingResp := httptest.NewRecorder()
	router.ServeHTTP(missingResp, missing)
	if missingResp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown token, got %d", missingResp.Code)
	}
}
