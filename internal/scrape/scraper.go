package scrape

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/shashuec/storecalendar-go/internal/config"
	"github.com/shashuec/storecalendar-go/internal/domain"
	"github.com/shashuec/storecalendar-go/internal/metrics"
)

// Result 는 캐시/응답에 실리는 스크랩 결과다.
type Result struct {
	Store     domain.StoreProfile `json:"store"`
	ScrapedAt time.Time           `json:"scraped_at"`
}

// Service 는 스토어 스크랩 파이프라인이다. Shopify 경로를 먼저 시도하고
// 실패하면 서비스 업체 페이지 휴리스틱으로 폴백한다. 결과는 TTL 캐시에 둔다.
type Service struct {
	shopify     *ShopifyClient
	servicePage *ServiceScraper
	classifier  Classifier
	cache       ResultCache
	ttl         time.Duration
	logger      *slog.Logger
}

// NewService 는 스크랩 서비스를 생성한다.
func NewService(cfg config.ScraperConfig, shopify *ShopifyClient, servicePage *ServiceScraper, classifier Classifier, cache ResultCache, logger *slog.Logger) *Service {
	return &Service{
		shopify:     shopify,
		servicePage: servicePage,
		classifier:  classifier,
		cache:       cache,
		ttl:         time.Duration(cfg.CacheTTLHours) * time.Hour,
		logger:      logger,
	}
}

// Scrape 는 URL 하나를 스크랩해 스토어 프로필을 만든다.
func (s *Service) Scrape(ctx context.Context, rawURL string) (Result, error) {
	key, err := normalizeTarget(rawURL)
	if err != nil {
		return Result{}, err
	}

	now := time.Now()
	if entry, ok := s.cache.Get(ctx, key); ok && !IsStale(entry, now, s.ttl) {
		metrics.ScrapeRequests.WithLabelValues("cache_hit").Inc()
		s.logger.Debug("scrape_cache_hit", slog.String("shop", key))
		return entry.Value, nil
	}

	result, err := s.scrapeFresh(ctx, key)
	if err != nil {
		metrics.ScrapeRequests.WithLabelValues("error").Inc()
		return Result{}, err
	}

	s.cache.Set(ctx, key, Entry{Key: key, Value: result, FetchedAt: now})
	metrics.ScrapeRequests.WithLabelValues("success").Inc()
	s.logger.Info("scrape_completed",
		slog.String("shop", key),
		slog.String("platform", string(result.Store.Platform)),
		slog.String("category", string(result.Store.Category)),
		slog.Int("products", len(result.Store.Products)))
	return result, nil
}

func (s *Service) scrapeFresh(ctx context.Context, key string) (Result, error) {
	products, shopifyErr := s.shopify.FetchProducts(ctx, key)
	if shopifyErr == nil {
		if len(products) == 0 {
			return Result{}, ErrNoProducts
		}
		return s.buildResult(key, defaultStoreName(key), domain.PlatformShopify, products, productCorpus(products)), nil
	}

	var fetchErr *FetchError
	if !errors.As(shopifyErr, &fetchErr) {
		return Result{}, shopifyErr
	}
	s.logger.Debug("shopify_path_failed", slog.String("shop", key), slog.Any("error", shopifyErr))

	page, serviceErr := s.servicePage.Fetch(ctx, "https://"+key+"/")
	if serviceErr != nil {
		return Result{}, serviceErr
	}
	if len(page.Services) == 0 {
		return Result{}, ErrNoProducts
	}

	name := page.BusinessName
	if name == "" {
		name = defaultStoreName(key)
	}
	return s.buildResult(key, name, domain.PlatformService, page.Services, page.Text), nil
}

func (s *Service) buildResult(key, name string, platform domain.Platform, products []domain.Product, corpus string) Result {
	return Result{
		Store: domain.StoreProfile{
			URL:      "https://" + key,
			Name:     name,
			Platform: platform,
			Category: s.classifier.Classify(corpus),
			Products: products,
		},
		ScrapedAt: time.Now(),
	}
}

// normalizeTarget 는 입력 URL 을 도메인 키로 정규화한다. 호스트가 없으면 거부.
func normalizeTarget(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", ErrUnsupportedURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" {
		return "", ErrUnsupportedURL
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", ErrUnsupportedURL
	}
	key := domain.NormalizeShopDomain(parsed.Host)
	if !strings.Contains(key, ".") {
		return "", ErrUnsupportedURL
	}
	return key, nil
}

func defaultStoreName(key string) string {
	label := key
	if idx := strings.IndexByte(label, '.'); idx > 0 {
		label = label[:idx]
	}
	if label == "" {
		return key
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

func productCorpus(products []domain.Product) string {
	var b strings.Builder
	for _, product := range products {
		b.WriteString(product.Name)
		b.WriteByte(' ')
		b.WriteString(product.Description)
		b.WriteByte(' ')
	}
	return b.String()
}
