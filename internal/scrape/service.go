package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/shashuec/storecalendar-go/internal/config"
	"github.com/shashuec/storecalendar-go/internal/domain"
)

// ServiceScraper 는 일반 서비스 업체 홈페이지에서 업체명/서비스 목록/본문 텍스트를
// 휴리스틱으로 추출한다. 베스트 에포트이며 결과가 비어 있을 수 있다.
type ServiceScraper struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	userAgent   string
	maxServices int
	logger      *slog.Logger
}

// NewServiceScraper 는 서비스 사이트 스크래퍼를 생성한다.
func NewServiceScraper(cfg config.ScraperConfig, logger *slog.Logger) *ServiceScraper {
	return &ServiceScraper{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		limiter:     rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		userAgent:   cfg.UserAgent,
		maxServices: cfg.MaxProducts,
		logger:      logger,
	}
}

// ServicePage 는 서비스 사이트 추출 결과다.
type ServicePage struct {
	BusinessName string
	Services     []domain.Product
	Text         string
}

var priceSnippet = regexp.MustCompile(`[$£₹]\s?\d[\d,.]*`)

// 메뉴/푸터 링크 등 서비스 목록이 아닌 상투적 텍스트.
var boilerplateWords = map[string]bool{
	"home": true, "about": true, "about us": true, "contact": true,
	"contact us": true, "blog": true, "faq": true, "privacy policy": true,
	"terms": true, "login": true, "sign up": true, "menu": true,
	"gallery": true, "reviews": true, "book now": true,
}

// Fetch 는 페이지를 내려받아 업체명과 서비스 후보를 추출한다.
func (s *ServiceScraper) Fetch(ctx context.Context, pageURL string) (ServicePage, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return ServicePage{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return ServicePage{}, fmt.Errorf("failed to create page request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return ServicePage{}, &FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ServicePage{}, &FetchError{URL: pageURL, Status: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ServicePage{}, &FetchError{URL: pageURL, Err: fmt.Errorf("parse page: %w", err)}
	}

	page := ServicePage{
		BusinessName: s.extractBusinessName(doc),
		Services:     s.extractServices(doc),
		Text:         collectText(doc),
	}
	s.logger.Debug("service_page_scraped",
		slog.String("url", pageURL),
		slog.String("business", page.BusinessName),
		slog.Int("services", len(page.Services)))
	return page, nil
}

func (s *ServiceScraper) extractBusinessName(doc *goquery.Document) string {
	if name, ok := doc.Find(`meta[property="og:site_name"]`).Attr("content"); ok && strings.TrimSpace(name) != "" {
		return strings.TrimSpace(name)
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	// "이름 | 슬로건" 형태의 타이틀에서 이름만 남긴다.
	for _, sep := range []string{" | ", " - ", " – "} {
		if idx := strings.Index(title, sep); idx > 0 {
			title = title[:idx]
			break
		}
	}
	return title
}

func (s *ServiceScraper) extractServices(doc *goquery.Document) []domain.Product {
	seen := make(map[string]bool)
	services := make([]domain.Product, 0, s.maxServices)

	doc.Find("h2, h3, li").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.Join(strings.Fields(sel.Text()), " ")
		if len(text) < 3 || len(text) > 80 {
			return true
		}
		key := strings.ToLower(text)
		if seen[key] || boilerplateWords[key] {
			return true
		}
		seen[key] = true

		service := domain.Product{
			ID:   fmt.Sprintf("svc-%d", len(services)+1),
			Name: text,
		}
		if price := priceSnippet.FindString(text); price != "" {
			service.Price = price
			service.Name = strings.TrimSpace(strings.TrimSuffix(text, price))
		}
		if service.Name == "" {
			return true
		}
		services = append(services, service)
		return len(services) < s.maxServices
	})
	return services
}

const maxCorpusLen = 4000

// collectText 는 분류기 입력용 본문 텍스트를 모은다.
func collectText(doc *goquery.Document) string {
	var parts []string
	doc.Find("h1, h2, h3, p, li").Each(func(_ int, sel *goquery.Selection) {
		text := strings.Join(strings.Fields(sel.Text()), " ")
		if text != "" {
			parts = append(parts, text)
		}
	})
	return truncateText(strings.Join(parts, " "), maxCorpusLen)
}

// truncateText 는 최대 바이트 길이로 자르되 멀티바이트 룬 경계를 보존한다.
func truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
