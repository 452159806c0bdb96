package handler

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shashuec/storecalendar-go/internal/calendar"
	"github.com/shashuec/storecalendar-go/internal/config"
	"github.com/shashuec/storecalendar-go/internal/domain"
	"github.com/shashuec/storecalendar-go/internal/handler/shared"
	"github.com/shashuec/storecalendar-go/internal/httperror"
	"github.com/shashuec/storecalendar-go/internal/metrics"
	"github.com/shashuec/storecalendar-go/internal/middleware"
)

// Captioner 는 캡션 생성 인터페이스다.
type Captioner interface {
	Generate(ctx context.Context, items []domain.Product, tone string, category domain.BusinessCategory) calendar.CaptionMap
}

// CalendarStore 는 캘린더 영속화 인터페이스다.
type CalendarStore interface {
	SaveStore(ctx context.Context, profile domain.StoreProfile, scrapedAt time.Time) error
	SaveCalendar(ctx context.Context, shopDomain string, cal calendar.WeeklyCalendar) (int64, error)
	GetCalendar(ctx context.Context, id int64) (calendar.WeeklyCalendar, error)
	CreateShareToken(ctx context.Context, calendarID int64) (string, error)
	GetCalendarByToken(ctx context.Context, token string) (calendar.WeeklyCalendar, error)
	AllowGeneration(ctx context.Context, key string, now time.Time, limit int64) (bool, int64, error)
}

// CalendarHandler 는 주간 캘린더 생성/조회/내보내기 API 를 담당한다.
type CalendarHandler struct {
	cfg       *config.Config
	scraper   Scraper
	captioner Captioner
	assembler *calendar.Assembler
	repo      CalendarStore
	logger    *slog.Logger
}

// NewCalendarHandler 는 캘린더 핸들러를 생성한다.
func NewCalendarHandler(
	cfg *config.Config,
	scraper Scraper,
	captioner Captioner,
	assembler *calendar.Assembler,
	repo CalendarStore,
	logger *slog.Logger,
) *CalendarHandler {
	return &CalendarHandler{
		cfg:       cfg,
		scraper:   scraper,
		captioner: captioner,
		assembler: assembler,
		repo:      repo,
		logger:    logger,
	}
}

// RegisterRoutes 는 캘린더 라우트를 등록한다.
func (h *CalendarHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/calendar/generate", h.generate)
	router.GET("/api/calendar/:id", h.get)
	router.GET("/api/calendar/:id/csv", h.exportCSV)
}

type generateRequest struct {
	URL                string         `json:"url" binding:"required"`
	Country            string         `json:"country"`
	BrandTone          string         `json:"brand_tone"`
	WeekNumber         int            `json:"week_number"`
	SelectedProductIDs []string       `json:"selected_product_ids"`
	Options            map[string]any `json:"options"`
}

type generateOptions struct {
	SkipCaptions bool `json:"skip_captions"`
	ProductLimit int  `json:"product_limit"`
}

type generateResponse struct {
	CalendarID int64                   `json:"calendar_id"`
	Calendar   calendar.WeeklyCalendar `json:"calendar"`
}

func (h *CalendarHandler) generate(c *gin.Context) {
	var req generateRequest
	if !bindJSON(c, &req) {
		return
	}

	var opts generateOptions
	if req.Options != nil {
		if err := shared.Decode(req.Options, &opts); err != nil {
			writeError(c, httperror.NewInvalidInput(err.Error()))
			return
		}
	}

	country := req.Country
	if country == "" {
		country = "US"
	}
	if !config.IsSupportedCountry(country) {
		writeError(c, httperror.NewInvalidInput(fmt.Sprintf("unsupported country: %s", req.Country)))
		return
	}
	weekNumber := req.WeekNumber
	if weekNumber == 0 {
		weekNumber = 1
	}
	if weekNumber != 1 && weekNumber != 2 {
		writeError(c, httperror.NewInvalidInput("week_number must be 1 or 2"))
		return
	}
	tone := req.BrandTone
	if tone == "" {
		tone = "casual"
	}

	ctx := c.Request.Context()
	result, err := h.scraper.Scrape(ctx, req.URL)
	if err != nil {
		writeError(c, err)
		return
	}

	items := selectItems(result.Store.Products, req.SelectedProductIDs, h.itemLimit(opts.ProductLimit))
	if len(items) < h.cfg.Generation.MinProducts {
		writeError(c, httperror.NewEmptySelection(h.cfg.Generation.MinProducts))
		return
	}

	limitKey := "generate:" + domain.NormalizeShopDomain(result.Store.URL)
	allowed, count, err := h.repo.AllowGeneration(ctx, limitKey, time.Now(), int64(h.cfg.Generation.HourlyLimit))
	if err != nil {
		writeError(c, err)
		return
	}
	if !allowed {
		h.logger.Warn("generation_limit_hit",
			slog.String("key", limitKey),
			slog.Int64("count", count))
		writeError(c, httperror.NewGenerationLimitExceeded(h.cfg.Generation.HourlyLimit))
		return
	}

	captions := calendar.CaptionMap{}
	if !opts.SkipCaptions {
		captions = h.captioner.Generate(ctx, items, tone, result.Store.Category)
	}

	cal, err := h.assembler.Generate(calendar.Params{
		Items:       items,
		Country:     country,
		BrandTone:   tone,
		WeekNumber:  weekNumber,
		Captions:    captions,
		ProductType: string(result.Store.Category),
		Now:         time.Now(),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	shopDomain := domain.NormalizeShopDomain(result.Store.URL)
	calendarID, err := h.repo.SaveCalendar(ctx, shopDomain, cal)
	if err != nil {
		writeError(c, err)
		return
	}

	metrics.CalendarsGenerated.Inc()
	h.logger.Info("calendar_generated",
		slog.String("request_id", middleware.GetRequestID(c)),
		slog.Int64("calendar_id", calendarID),
		slog.String("shop", shopDomain),
		slog.Int("week", weekNumber),
		slog.Int("items", len(items)),
		slog.Int("captions", len(captions)))

	c.JSON(http.StatusOK, generateResponse{CalendarID: calendarID, Calendar: cal})
}

func (h *CalendarHandler) get(c *gin.Context) {
	id, ok := parseCalendarID(c)
	if !ok {
		return
	}
	cal, err := h.repo.GetCalendar(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cal)
}

func (h *CalendarHandler) exportCSV(c *gin.Context) {
	id, ok := parseCalendarID(c)
	if !ok {
		return
	}
	cal, err := h.repo.GetCalendar(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := calendar.WriteCSV(&buf, cal); err != nil {
		writeError(c, err)
		return
	}

	filename := fmt.Sprintf("calendar-%d-%s.csv", id, cal.StartDate)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *CalendarHandler) itemLimit(requested int) int {
	limit := h.cfg.Generation.MaxProducts
	if requested > 0 && requested < limit {
		limit = requested
	}
	return limit
}

func parseCalendarID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, httperror.NewInvalidInput("calendar id must be a positive integer"))
		return 0, false
	}
	return id, true
}

// selectItems 는 선택 ID 목록(있으면 그 순서대로)과 상한으로 대상 상품을 고른다.
func selectItems(products []domain.Product, selectedIDs []string, limit int) []domain.Product {
	if limit <= 0 {
		limit = len(products)
	}

	if len(selectedIDs) == 0 {
		if len(products) > limit {
			return products[:limit]
		}
		return products
	}

	byID := make(map[string]domain.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	items := make([]domain.Product, 0, len(selectedIDs))
	for _, id := range selectedIDs {
		if product, ok := byID[id]; ok {
			items = append(items, product)
			if len(items) >= limit {
				break
			}
		}
	}
	return items
}
