package handler

import (
	"log/slog"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/shashuec/storecalendar-go/internal/config"
	"github.com/shashuec/storecalendar-go/internal/middleware"
	"github.com/shashuec/storecalendar-go/internal/store"
)

// NewRouter 는 HTTP 라우터를 구성한다.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	pg *store.Postgres,
	scrapeHandler *ScrapeHandler,
	calendarHandler *CalendarHandler,
	shareHandler *ShareHandler,
	usageHandler *UsageHandler,
) *gin.Engine {
	setGinMode(cfg.Logging.Level)

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		gin.Recovery(),
		corsMiddleware(cfg),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.APIKeyAuth(cfg),
		middleware.RateLimit(cfg),
	)

	RegisterHealthRoutes(router, cfg, pg)
	scrapeHandler.RegisterRoutes(router)
	calendarHandler.RegisterRoutes(router)
	shareHandler.RegisterRoutes(router)
	usageHandler.RegisterRoutes(router)

	return router
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsCfg := cors.DefaultConfig()
	if len(cfg.HTTP.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "X-API-Key", "Authorization", middleware.RequestIDHeader)
	return cors.New(corsCfg)
}

func setGinMode(level string) {
	if strings.EqualFold(strings.TrimSpace(level), "debug") {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}
