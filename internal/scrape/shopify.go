package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/shashuec/storecalendar-go/internal/config"
	"github.com/shashuec/storecalendar-go/internal/domain"
)

// shopifyProduct 는 Shopify products.json 의 상품 항목이다.
type shopifyProduct struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Handle   string `json:"handle"`
	BodyHTML string `json:"body_html"`
	Images   []struct {
		Src string `json:"src"`
	} `json:"images"`
	Variants []struct {
		Price string `json:"price"`
	} `json:"variants"`
}

type shopifyPayload struct {
	Products []shopifyProduct `json:"products"`
}

// ShopifyClient 는 공개 products.json 엔드포인트로 상품 목록을 가져온다.
type ShopifyClient struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	userAgent   string
	maxProducts int
	logger      *slog.Logger
}

// NewShopifyClient 는 Shopify 스크랩 클라이언트를 생성한다.
func NewShopifyClient(cfg config.ScraperConfig, logger *slog.Logger) *ShopifyClient {
	return &ShopifyClient{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		limiter:     rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		userAgent:   cfg.UserAgent,
		maxProducts: cfg.MaxProducts,
		logger:      logger,
	}
}

// FetchProducts 는 스토어 도메인의 상품 목록을 가져온다. 비 Shopify 사이트면
// 상태 코드가 담긴 *FetchError 를 반환하므로 호출자가 서비스 경로로 폴백할 수 있다.
func (c *ShopifyClient) FetchProducts(ctx context.Context, shopDomain string) ([]domain.Product, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("https://%s/products.json?limit=250", shopDomain)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create products request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: endpoint, Status: resp.StatusCode}
	}

	var payload shopifyPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &FetchError{URL: endpoint, Err: fmt.Errorf("decode products payload: %w", err)}
	}

	products := mapShopifyProducts(shopDomain, payload, c.maxProducts)
	c.logger.Debug("shopify_products_fetched",
		slog.String("shop", shopDomain),
		slog.Int("count", len(products)))
	return products, nil
}

// mapShopifyProducts 는 products.json 페이로드를 도메인 상품으로 변환한다.
func mapShopifyProducts(shopDomain string, payload shopifyPayload, maxProducts int) []domain.Product {
	products := make([]domain.Product, 0, len(payload.Products))
	for _, item := range payload.Products {
		if len(products) >= maxProducts {
			break
		}
		product := domain.Product{
			ID:          strconv.FormatInt(item.ID, 10),
			Name:        strings.TrimSpace(item.Title),
			Description: stripHTML(item.BodyHTML),
			URL:         fmt.Sprintf("https://%s/products/%s", shopDomain, item.Handle),
		}
		if product.Name == "" {
			continue
		}
		if len(item.Variants) > 0 && item.Variants[0].Price != "" {
			product.Price = "$" + item.Variants[0].Price
		}
		if len(item.Images) > 0 {
			product.ImageURL = item.Images[0].Src
		}
		products = append(products, product)
	}
	return products
}

const maxDescriptionLen = 300

// stripHTML 는 상품 설명 HTML 을 일반 텍스트로 줄인다.
func stripHTML(raw string) string {
	if raw == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return ""
	}
	text := strings.Join(strings.Fields(doc.Text()), " ")
	return truncateText(text, maxDescriptionLen)
}
