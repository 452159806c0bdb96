package domain

import "strings"

// Product 는 스크랩된 상품(또는 서비스 항목)이다.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	URL         string `json:"url,omitempty"`
}

// BusinessCategory 는 휴리스틱 분류 결과 카테고리다.
type BusinessCategory string

const (
	CategoryFashion     BusinessCategory = "fashion"
	CategoryBeauty      BusinessCategory = "beauty"
	CategoryJewelry     BusinessCategory = "jewelry"
	CategoryHome        BusinessCategory = "home"
	CategoryElectronics BusinessCategory = "electronics"
	CategoryFood        BusinessCategory = "food"
	CategoryFitness     BusinessCategory = "fitness"
	CategoryServices    BusinessCategory = "services"
	CategoryGeneral     BusinessCategory = "general"
)

// StoreProfile 는 스크랩 결과로 만든 스토어 프로필이다.
type StoreProfile struct {
	URL      string           `json:"url"`
	Name     string           `json:"name"`
	Platform Platform         `json:"platform"`
	Category BusinessCategory `json:"category"`
	Products []Product        `json:"products"`
}

// Platform 는 스크랩 대상 사이트 유형이다.
type Platform string

const (
	PlatformShopify Platform = "shopify"
	PlatformService Platform = "service"
)

// NormalizeShopDomain 는 스토어 URL 을 도메인 키로 정규화한다.
func NormalizeShopDomain(raw string) string {
	value := strings.TrimSpace(strings.ToLower(raw))
	value = strings.TrimPrefix(value, "https://")
	value = strings.TrimPrefix(value, "http://")
	value = strings.TrimPrefix(value, "www.")
	if idx := strings.IndexByte(value, '/'); idx >= 0 {
		value = value[:idx]
	}
	return value
}
