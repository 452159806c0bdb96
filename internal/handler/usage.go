package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shashuec/storecalendar-go/internal/config"
	"github.com/shashuec/storecalendar-go/internal/httperror"
	"github.com/shashuec/storecalendar-go/internal/metrics"
	"github.com/shashuec/storecalendar-go/internal/usage"
)

// UsageSource 는 토큰 사용량 조회 인터페이스다.
type UsageSource interface {
	GetDailyUsage(ctx context.Context, usageDate time.Time) (*usage.DailyUsage, error)
	GetRecentUsage(ctx context.Context, days int) ([]usage.DailyUsage, error)
}

// UsageHandler 는 캡션 생성에 쓴 토큰 사용량 API 를 담당한다.
type UsageHandler struct {
	cfg     *config.Config
	repo    UsageSource
	metrics *metrics.Store
	logger  *slog.Logger
}

// NewUsageHandler 는 사용량 핸들러를 생성한다.
func NewUsageHandler(cfg *config.Config, repo UsageSource, metricsStore *metrics.Store, logger *slog.Logger) *UsageHandler {
	return &UsageHandler{
		cfg:     cfg,
		repo:    repo,
		metrics: metricsStore,
		logger:  logger,
	}
}

// RegisterRoutes 는 사용량 라우트를 등록한다.
func (h *UsageHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/usage")
	group.GET("/daily", h.handleDaily)
	group.GET("/recent", h.handleRecent)
	group.GET("/stats", h.handleStats)
}

// DailyUsageResponse 는 일자별 사용량 응답이다.
type DailyUsageResponse struct {
	UsageDate    string `json:"usage_date"`
	InputTokens  int64  `json:"input_tokens"`
	OutputTokens int64  `json:"output_tokens"`
	TotalTokens  int64  `json:"total_tokens"`
	RequestCount int64  `json:"request_count"`
	Model        string `json:"model"`
}

// UsageListResponse 는 사용량 목록 응답이다.
type UsageListResponse struct {
	Usages            []DailyUsageResponse `json:"usages"`
	TotalInputTokens  int64                `json:"total_input_tokens"`
	TotalOutputTokens int64                `json:"total_output_tokens"`
	TotalTokens       int64                `json:"total_tokens"`
	TotalRequestCount int64                `json:"total_request_count"`
	Model             string               `json:"model"`
}

type usageStatsResponse struct {
	LLM          map[string]float64 `json:"llm"`
	InputTokens  int                `json:"input_tokens"`
	OutputTokens int                `json:"output_tokens"`
	TotalTokens  int                `json:"total_tokens"`
	Model        string             `json:"model"`
}

func (h *UsageHandler) handleDaily(c *gin.Context) {
	row, err := h.repo.GetDailyUsage(c.Request.Context(), time.Time{})
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.buildDailyResponse(row))
}

func (h *UsageHandler) handleRecent(c *gin.Context) {
	days, ok := parseDays(c, 7)
	if !ok {
		return
	}

	usages, err := h.repo.GetRecentUsage(c.Request.Context(), days)
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.buildUsageListResponse(usages))
}

// handleStats 는 프로세스 시작 이후의 인메모리 LLM 호출 통계를 반환한다.
func (h *UsageHandler) handleStats(c *gin.Context) {
	totals := h.metrics.UsageTotals()
	c.JSON(http.StatusOK, usageStatsResponse{
		LLM:          h.metrics.Snapshot(),
		InputTokens:  totals.InputTokens,
		OutputTokens: totals.OutputTokens,
		TotalTokens:  totals.TotalTokens,
		Model:        h.cfg.Gemini.CaptionModel,
	})
}

func (h *UsageHandler) buildDailyResponse(row *usage.DailyUsage) DailyUsageResponse {
	if row == nil {
		return DailyUsageResponse{
			UsageDate: time.Now().UTC().Format("2006-01-02"),
			Model:     h.cfg.Gemini.CaptionModel,
		}
	}
	return DailyUsageResponse{
		UsageDate:    row.UsageDate.Format("2006-01-02"),
		InputTokens:  row.InputTokens,
		OutputTokens: row.OutputTokens,
		TotalTokens:  row.TotalTokens(),
		RequestCount: row.RequestCount,
		Model:        h.cfg.Gemini.CaptionModel,
	}
}

func (h *UsageHandler) buildUsageListResponse(usages []usage.DailyUsage) UsageListResponse {
	resp := UsageListResponse{
		Usages: make([]DailyUsageResponse, 0, len(usages)),
		Model:  h.cfg.Gemini.CaptionModel,
	}
	for _, row := range usages {
		resp.Usages = append(resp.Usages, DailyUsageResponse{
			UsageDate:    row.UsageDate.Format("2006-01-02"),
			InputTokens:  row.InputTokens,
			OutputTokens: row.OutputTokens,
			TotalTokens:  row.TotalTokens(),
			RequestCount: row.RequestCount,
			Model:        h.cfg.Gemini.CaptionModel,
		})
		resp.TotalInputTokens += row.InputTokens
		resp.TotalOutputTokens += row.OutputTokens
		resp.TotalTokens += row.TotalTokens()
		resp.TotalRequestCount += row.RequestCount
	}
	return resp
}

func parseDays(c *gin.Context, fallback int) (int, bool) {
	raw := c.Query("days")
	if raw == "" {
		return fallback, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > 365 {
		writeError(c, httperror.NewInvalidInput("days must be between 1 and 365"))
		return 0, false
	}
	return days, true
}

func (h *UsageHandler) logError(err error) {
	if err == nil {
		return
	}
	h.logger.Warn("usage_query_failed", "err", err)
}
