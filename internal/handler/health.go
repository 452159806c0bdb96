package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shashuec/storecalendar-go/internal/config"
	"github.com/shashuec/storecalendar-go/internal/health"
	"github.com/shashuec/storecalendar-go/internal/store"
)

// ModelConfigResponse: 모델 설정 응답입니다.
type ModelConfigResponse struct {
	CaptionModel   string   `json:"caption_model"`
	ClassifyModel  string   `json:"classify_model"`
	Temperature    float64  `json:"temperature"`
	TimeoutSeconds int      `json:"timeout_seconds"`
	MaxRetries     int      `json:"max_retries"`
	Countries      []string `json:"countries"`
	HTTP2Enabled   bool     `json:"http2_enabled"`
}

// RegisterHealthRoutes: 상태 확인 라우트를 등록합니다.
func RegisterHealthRoutes(router *gin.Engine, cfg *config.Config, pg *store.Postgres) {
	router.GET("/health", func(c *gin.Context) {
		// Liveness: 외부 의존성(DB) 상태로 인해 다운 판정되지 않도록 shallow로 유지합니다.
		payload := health.Collect(c.Request.Context(), cfg, pg, false)
		c.JSON(http.StatusOK, payload)
	})

	router.GET("/health/ready", func(c *gin.Context) {
		payload := health.Collect(c.Request.Context(), cfg, pg, true)
		status := http.StatusOK
		if payload.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, payload)
	})

	// Prometheus 메트릭 (장기 히스토리 분석용)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/health/models", func(c *gin.Context) {
		classifyModel := cfg.Gemini.ClassifyModel
		if classifyModel == "" {
			classifyModel = cfg.Gemini.CaptionModel
		}
		c.JSON(http.StatusOK, ModelConfigResponse{
			CaptionModel:   cfg.Gemini.CaptionModel,
			ClassifyModel:  classifyModel,
			Temperature:    cfg.Gemini.Temperature,
			TimeoutSeconds: cfg.Gemini.TimeoutSeconds,
			MaxRetries:     cfg.Gemini.MaxRetries,
			Countries:      config.SupportedCountries(),
			HTTP2Enabled:   cfg.HTTP.HTTP2Enabled,
		})
	})
}
