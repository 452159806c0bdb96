package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shashuec/storecalendar-go/internal/domain"
	"github.com/shashuec/storecalendar-go/internal/scrape"
)

// Scraper 는 스크랩 서비스 인터페이스다. 테스트에서 mock 구현을 주입한다.
type Scraper interface {
	Scrape(ctx context.Context, rawURL string) (scrape.Result, error)
}

// ScrapeHandler 는 스토어 스크랩 API 를 담당한다.
type ScrapeHandler struct {
	scraper Scraper
	stores  StoreSaver
	logger  *slog.Logger
}

// StoreSaver 는 스크랩 결과 영속화 인터페이스다.
type StoreSaver interface {
	SaveStore(ctx context.Context, profile domain.StoreProfile, scrapedAt time.Time) error
}

// NewScrapeHandler 는 스크랩 핸들러를 생성한다.
func NewScrapeHandler(scraper Scraper, stores StoreSaver, logger *slog.Logger) *ScrapeHandler {
	return &ScrapeHandler{scraper: scraper, stores: stores, logger: logger}
}

// RegisterRoutes 는 스크랩 라우트를 등록한다.
func (h *ScrapeHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/scrape", h.scrape)
}

type scrapeRequest struct {
	URL string `json:"url" binding:"required"`
}

type scrapeResponse struct {
	Store     domain.StoreProfile `json:"store"`
	ScrapedAt time.Time           `json:"scraped_at"`
}

func (h *ScrapeHandler) scrape(c *gin.Context) {
	var req scrapeRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.scraper.Scrape(c.Request.Context(), req.URL)
	if err != nil {
		writeError(c, err)
		return
	}

	if h.stores != nil {
		if err := h.stores.SaveStore(c.Request.Context(), result.Store, result.ScrapedAt); err != nil {
			// 스크랩 자체는 성공했으므로 저장 실패는 응답을 막지 않는다.
			h.logger.Warn("store_save_failed", slog.String("url", req.URL), slog.Any("error", err))
		}
	}

	c.JSON(http.StatusOK, scrapeResponse{Store: result.Store, ScrapedAt: result.ScrapedAt})
}
