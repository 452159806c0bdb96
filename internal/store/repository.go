package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	json "github.com/goccy/go-json"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashuec/storecalendar-go/internal/calendar"
	"github.com/shashuec/storecalendar-go/internal/domain"
)

var (
	// ErrCalendarNotFound 는 캘린더 ID 조회 실패 시 반환된다.
	ErrCalendarNotFound = errors.New("store: calendar not found")
	// ErrShareNotFound 는 공유 토큰 조회 실패 시 반환된다.
	ErrShareNotFound = errors.New("store: share token not found")
)

// Repository 는 스토어/캘린더/공유/쿼터 영속화를 담당한다.
type Repository struct {
	pg     *Postgres
	logger *slog.Logger
}

// NewRepository 는 저장소를 생성한다.
func NewRepository(pg *Postgres, logger *slog.Logger) *Repository {
	return &Repository{pg: pg, logger: logger}
}

// SaveStore 는 스크랩 결과를 shop_domain 기준으로 upsert 한다.
func (r *Repository) SaveStore(ctx context.Context, profile domain.StoreProfile, scrapedAt time.Time) error {
	db, err := r.pg.Gorm(ctx)
	if err != nil {
		return err
	}

	products, err := json.Marshal(profile.Products)
	if err != nil {
		return fmt.Errorf("encode products: %w", err)
	}

	row := StoreRecord{
		ShopDomain: domain.NormalizeShopDomain(profile.URL),
		Name:       profile.Name,
		Platform:   string(profile.Platform),
		Category:   string(profile.Category),
		Products:   products,
		ScrapedAt:  scrapedAt,
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "shop_domain"}},
		DoUpdates: clause.Assignments(map[string]any{
			"name":       row.Name,
			"platform":   row.Platform,
			"category":   row.Category,
			"products":   row.Products,
			"scraped_at": row.ScrapedAt,
			"updated_at": gorm.Expr("NOW()"),
		}),
	}).Create(&row).Error
}

// SaveCalendar 는 캘린더 전체 JSON 과 포스트 분해 행을 한 트랜잭션으로 저장한다.
func (r *Repository) SaveCalendar(ctx context.Context, shopDomain string, cal calendar.WeeklyCalendar) (int64, error) {
	db, err := r.pg.Gorm(ctx)
	if err != nil {
		return 0, err
	}

	payload, err := json.Marshal(cal)
	if err != nil {
		return 0, fmt.Errorf("encode calendar: %w", err)
	}
	startDate, err := time.Parse("2006-01-02", cal.StartDate)
	if err != nil {
		return 0, fmt.Errorf("parse start date: %w", err)
	}
	endDate, err := time.Parse("2006-01-02", cal.EndDate)
	if err != nil {
		return 0, fmt.Errorf("parse end date: %w", err)
	}

	record := CalendarRecord{
		ShopDomain: shopDomain,
		WeekNumber: cal.WeekNumber,
		Country:    cal.Country,
		BrandTone:  cal.BrandTone,
		StartDate:  startDate,
		EndDate:    endDate,
		Payload:    payload,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		for i, post := range cal.Posts {
			postDate, err := time.Parse("2006-01-02", post.Date)
			if err != nil {
				return fmt.Errorf("parse post date: %w", err)
			}
			holidayName := ""
			if post.Holiday != nil {
				holidayName = post.Holiday.Name
			}
			row := PostRecord{
				CalendarID:  record.ID,
				DayIndex:    i,
				DayName:     post.Day,
				PostDate:    postDate,
				PostType:    string(post.PostType),
				CaptionText: post.CaptionText,
				ProductName: post.Product.Name,
				HolidayName: holidayName,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if r.logger != nil {
		r.logger.Info("calendar_saved",
			slog.Int64("calendar_id", record.ID),
			slog.String("shop", shopDomain),
			slog.Int("week", cal.WeekNumber))
	}
	return record.ID, nil
}

// GetCalendar 는 ID 로 캘린더를 조회한다.
func (r *Repository) GetCalendar(ctx context.Context, id int64) (calendar.WeeklyCalendar, error) {
	db, err := r.pg.Gorm(ctx)
	if err != nil {
		return calendar.WeeklyCalendar{}, err
	}

	var record CalendarRecord
	result := db.WithContext(ctx).Where("id = ?", id).First(&record)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return calendar.WeeklyCalendar{}, ErrCalendarNotFound
	}
	if result.Error != nil {
		return calendar.WeeklyCalendar{}, result.Error
	}
	return decodeCalendar(record.Payload)
}

// CreateShareToken 은 캘린더의 공개 공유 토큰을 발급한다.
func (r *Repository) CreateShareToken(ctx context.Context, calendarID int64) (string, error) {
	db, err := r.pg.Gorm(ctx)
	if err != nil {
		return "", err
	}

	var count int64
	if err := db.WithContext(ctx).Model(&CalendarRecord{}).Where("id = ?", calendarID).Count(&count).Error; err != nil {
		return "", err
	}
	if count == 0 {
		return "", ErrCalendarNotFound
	}

	token, err := mintToken()
	if err != nil {
		return "", err
	}
	row := ShareTokenRecord{Token: token, CalendarID: calendarID}
	if err := db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", err
	}
	return token, nil
}

// GetCalendarByToken 은 공유 토큰으로 캘린더를 조회한다.
func (r *Repository) GetCalendarByToken(ctx context.Context, token string) (calendar.WeeklyCalendar, error) {
	db, err := r.pg.Gorm(ctx)
	if err != nil {
		return calendar.WeeklyCalendar{}, err
	}

	var share ShareTokenRecord
	result := db.WithContext(ctx).Where("token = ?", token).First(&share)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return calendar.WeeklyCalendar{}, ErrShareNotFound
	}
	if result.Error != nil {
		return calendar.WeeklyCalendar{}, result.Error
	}

	cal, err := r.GetCalendar(ctx, share.CalendarID)
	if errors.Is(err, ErrCalendarNotFound) {
		return calendar.WeeklyCalendar{}, ErrShareNotFound
	}
	return cal, err
}

// AllowGeneration 은 (키, 현재 시간 윈도우) 카운터를 원자적으로 올리고
// 한도 이내인지 반환한다. 윈도우는 정시 단위다.
func (r *Repository) AllowGeneration(ctx context.Context, key string, now time.Time, limit int64) (bool, int64, error) {
	db, err := r.pg.Gorm(ctx)
	if err != nil {
		return false, 0, err
	}

	window := now.UTC().Truncate(time.Hour)
	row := RateLimitRecord{LimitKey: key, WindowStart: window, RequestCount: 1}
	err = db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "limit_key"}, {Name: "window_start"}},
		DoUpdates: clause.Assignments(map[string]any{
			"request_count": gorm.Expr("rate_limits.request_count + 1"),
		}),
	}).Create(&row).Error
	if err != nil {
		return false, 0, err
	}

	var current RateLimitRecord
	if err := db.WithContext(ctx).
		Where("limit_key = ? AND window_start = ?", key, window).
		First(&current).Error; err != nil {
		return false, 0, err
	}
	return current.RequestCount <= limit, current.RequestCount, nil
}

func decodeCalendar(payload []byte) (calendar.WeeklyCalendar, error) {
	var cal calendar.WeeklyCalendar
	if err := json.Unmarshal(payload, &cal); err != nil {
		return calendar.WeeklyCalendar{}, fmt.Errorf("decode calendar payload: %w", err)
	}
	return cal, nil
}

func mintToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("mint share token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
