package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/lib/pq" // PostgreSQL 드라이버 등록
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shashuec/storecalendar-go/internal/config"
)

// Postgres 는 PostgreSQL 연결과 GORM 인스턴스를 관리한다. 첫 사용 시점에
// 지연 연결하므로 DB 가 내려가 있어도 프로세스 기동은 막지 않는다.
type Postgres struct {
	cfg    *config.Config
	logger *slog.Logger
	mu     sync.Mutex
	db     *gorm.DB
	sqlDB  *sql.DB
}

// NewPostgres 는 Postgres 핸들을 생성한다. 실제 연결은 지연된다.
func NewPostgres(cfg *config.Config, logger *slog.Logger) *Postgres {
	return &Postgres{cfg: cfg, logger: logger}
}

// Gorm 은 GORM 핸들을 반환한다. 최초 호출에서 연결과 스키마 준비를 수행한다.
func (p *Postgres) Gorm(ctx context.Context) (*gorm.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db != nil {
		return p.db, nil
	}
	if p.cfg == nil {
		return nil, errors.New("database config is nil")
	}

	sqlDB, err := sql.Open("postgres", p.cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB.SetMaxIdleConns(p.cfg.Database.MinPool)
	sqlDB.SetMaxOpenConns(p.cfg.Database.MaxPool)
	if p.cfg.Database.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(p.cfg.Database.ConnMaxLifetimeMinutes) * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("initialize gorm: %w", err)
	}

	if err := ensureSchema(db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("prepare schema: %w", err)
	}

	if p.logger != nil {
		p.logger.Info("postgres_connected",
			slog.String("host", p.cfg.Database.Host),
			slog.String("database", p.cfg.Database.Name))
	}

	p.db = db
	p.sqlDB = sqlDB
	return db, nil
}

// Ping 은 헬스 체크용 연결 확인이다. 아직 연결 전이면 연결을 시도한다.
func (p *Postgres) Ping(ctx context.Context) error {
	if _, err := p.Gorm(ctx); err != nil {
		return err
	}
	p.mu.Lock()
	sqlDB := p.sqlDB
	p.mu.Unlock()
	if sqlDB == nil {
		return errors.New("postgres not connected")
	}
	return sqlDB.PingContext(ctx)
}

// Close 는 연결을 종료한다.
func (p *Postgres) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sqlDB == nil {
		return
	}
	_ = p.sqlDB.Close()
	p.sqlDB = nil
	p.db = nil
}

// ensureSchema: AutoMigrate 대신 raw SQL 로 테이블을 만든다 (lib/pq 호환성).
func ensureSchema(db *gorm.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS stores (
			id BIGSERIAL PRIMARY KEY,
			shop_domain TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			platform TEXT NOT NULL,
			category TEXT NOT NULL,
			products JSONB NOT NULL DEFAULT '[]',
			scraped_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS calendars (
			id BIGSERIAL PRIMARY KEY,
			shop_domain TEXT NOT NULL,
			week_number INT NOT NULL,
			country TEXT NOT NULL,
			brand_tone TEXT NOT NULL,
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			payload JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS calendar_posts (
			id BIGSERIAL PRIMARY KEY,
			calendar_id BIGINT NOT NULL REFERENCES calendars(id) ON DELETE CASCADE,
			day_index INT NOT NULL,
			day_name TEXT NOT NULL,
			post_date DATE NOT NULL,
			post_type TEXT NOT NULL,
			caption_text TEXT NOT NULL,
			product_name TEXT NOT NULL,
			holiday_name TEXT,
			UNIQUE (calendar_id, day_index)
		)`,
		`CREATE TABLE IF NOT EXISTS share_tokens (
			token TEXT PRIMARY KEY,
			calendar_id BIGINT NOT NULL REFERENCES calendars(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS rate_limits (
			id BIGSERIAL PRIMARY KEY,
			limit_key TEXT NOT NULL,
			window_start TIMESTAMPTZ NOT NULL,
			request_count BIGINT NOT NULL DEFAULT 0,
			UNIQUE (limit_key, window_start)
		)`,
		`CREATE TABLE IF NOT EXISTS token_usage (
			id BIGSERIAL PRIMARY KEY,
			usage_date DATE NOT NULL UNIQUE,
			input_tokens BIGINT NOT NULL DEFAULT 0,
			output_tokens BIGINT NOT NULL DEFAULT 0,
			request_count BIGINT NOT NULL DEFAULT 0,
			version BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_calendars_shop_domain ON calendars (shop_domain)`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
