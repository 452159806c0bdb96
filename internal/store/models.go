package store

import (
	"time"

	"gorm.io/datatypes"
)

// StoreRecord 는 스크랩된 스토어 프로필 행이다.
type StoreRecord struct {
	ID         int64          `gorm:"column:id;primaryKey"`
	ShopDomain string         `gorm:"column:shop_domain"`
	Name       string         `gorm:"column:name"`
	Platform   string         `gorm:"column:platform"`
	Category   string         `gorm:"column:category"`
	Products   datatypes.JSON `gorm:"column:products"`
	ScrapedAt  time.Time      `gorm:"column:scraped_at"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
}

func (StoreRecord) TableName() string {
	return "stores"
}

// CalendarRecord 는 조립된 주간 캘린더 행이다. 전체 구조는 payload JSON 에 싣고
// 행 단위 조회용으로 calendar_posts 에도 분해해 둔다.
type CalendarRecord struct {
	ID         int64          `gorm:"column:id;primaryKey"`
	ShopDomain string         `gorm:"column:shop_domain"`
	WeekNumber int            `gorm:"column:week_number"`
	Country    string         `gorm:"column:country"`
	BrandTone  string         `gorm:"column:brand_tone"`
	StartDate  time.Time      `gorm:"column:start_date;type:date"`
	EndDate    time.Time      `gorm:"column:end_date;type:date"`
	Payload    datatypes.JSON `gorm:"column:payload"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
}

func (CalendarRecord) TableName() string {
	return "calendars"
}

// PostRecord 는 캘린더 1일치 분해 행이다.
type PostRecord struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	CalendarID  int64     `gorm:"column:calendar_id"`
	DayIndex    int       `gorm:"column:day_index"`
	DayName     string    `gorm:"column:day_name"`
	PostDate    time.Time `gorm:"column:post_date;type:date"`
	PostType    string    `gorm:"column:post_type"`
	CaptionText string    `gorm:"column:caption_text"`
	ProductName string    `gorm:"column:product_name"`
	HolidayName string    `gorm:"column:holiday_name"`
}

func (PostRecord) TableName() string {
	return "calendar_posts"
}

// ShareTokenRecord 는 공개 공유 링크 토큰 행이다.
type ShareTokenRecord struct {
	Token      string    `gorm:"column:token;primaryKey"`
	CalendarID int64     `gorm:"column:calendar_id"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (ShareTokenRecord) TableName() string {
	return "share_tokens"
}

// RateLimitRecord 는 (키, 시간 윈도우)별 요청 카운터 행이다.
type RateLimitRecord struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	LimitKey     string    `gorm:"column:limit_key"`
	WindowStart  time.Time `gorm:"column:window_start"`
	RequestCount int64     `gorm:"column:request_count"`
}

func (RateLimitRecord) TableName() string {
	return "rate_limits"
}

// TokenUsageRecord 는 일자별 토큰 사용량 집계 행이다.
type TokenUsageRecord struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	UsageDate    time.Time `gorm:"column:usage_date;type:date"`
	InputTokens  int64     `gorm:"column:input_tokens"`
	OutputTokens int64     `gorm:"column:output_tokens"`
	RequestCount int64     `gorm:"column:request_count"`
	Version      int64     `gorm:"column:version"`
}

func (TokenUsageRecord) TableName() string {
	return "token_usage"
}
