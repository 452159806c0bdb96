package di

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/shashuec/storecalendar-go/internal/cache"
	"github.com/shashuec/storecalendar-go/internal/calendar"
	"github.com/shashuec/storecalendar-go/internal/caption"
	"github.com/shashuec/storecalendar-go/internal/config"
	"github.com/shashuec/storecalendar-go/internal/gemini"
	"github.com/shashuec/storecalendar-go/internal/handler"
	"github.com/shashuec/storecalendar-go/internal/holiday"
	"github.com/shashuec/storecalendar-go/internal/metrics"
	"github.com/shashuec/storecalendar-go/internal/scrape"
	"github.com/shashuec/storecalendar-go/internal/server"
	"github.com/shashuec/storecalendar-go/internal/store"
	"github.com/shashuec/storecalendar-go/internal/usage"
)

// InitializeApp 은 애플리케이션 의존성을 초기화하고 App 인스턴스를 반환한다.
func InitializeApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	metricsStore := metrics.NewStore()

	pg := store.NewPostgres(cfg, logger)
	repo := store.NewRepository(pg, logger)
	usageRepository := usage.NewRepository(pg)
	usageRecorder := usage.NewRecorder(usageRepository, logger)

	geminiClient, err := gemini.NewClient(cfg, metricsStore, usageRecorder)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	prompts, err := caption.NewPrompts()
	if err != nil {
		return nil, fmt.Errorf("caption prompts: %w", err)
	}
	captioner := caption.NewOrchestrator(geminiClient, prompts, cfg, logger)

	holidays, err := holiday.NewCalendar()
	if err != nil {
		return nil, fmt.Errorf("holiday calendar: %w", err)
	}
	assembler := calendar.NewAssembler(holidays)

	scrapeTTL := time.Duration(cfg.Scraper.CacheTTLHours) * time.Hour
	var valkeyClient valkey.Client
	var resultCache scrape.ResultCache
	if cfg.Cache.Enabled {
		valkeyClient, err = cache.NewValkeyClient(cfg.Cache.URL)
		if err != nil {
			return nil, fmt.Errorf("valkey client: %w", err)
		}
		resultCache = scrape.NewValkeyCache(valkeyClient, scrapeTTL, logger)
	} else {
		resultCache = scrape.NewMemoryCache(scrapeTTL)
	}

	scraper := scrape.NewService(
		cfg.Scraper,
		scrape.NewShopifyClient(cfg.Scraper, logger),
		scrape.NewServiceScraper(cfg.Scraper, logger),
		scrape.NewClassifier(),
		resultCache,
		logger,
	)

	scrapeHandler := handler.NewScrapeHandler(scraper, repo, logger)
	calendarHandler := handler.NewCalendarHandler(cfg, scraper, captioner, assembler, repo, logger)
	shareHandler, err := handler.NewShareHandler(repo, logger)
	if err != nil {
		return nil, fmt.Errorf("share handler: %w", err)
	}
	usageHandler := handler.NewUsageHandler(cfg, usageRepository, metricsStore, logger)

	router := handler.NewRouter(cfg, logger, pg, scrapeHandler, calendarHandler, shareHandler, usageHandler)
	srv := server.NewHTTPServer(cfg, router)

	return &App{
		Server:   srv,
		Logger:   logger,
		Config:   cfg,
		Postgres: pg,
		Valkey:   valkeyClient,
	}, nil
}
