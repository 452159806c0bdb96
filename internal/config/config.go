package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

var (
	configOnce  sync.Once
	configValue *Config
)

// supportedCountries 는 휴일 테이블이 준비된 국가 코드 목록이다.
var supportedCountries = []string{"US", "UK", "IN"}

// GeminiConfig 는 Gemini 모델 설정이다.
type GeminiConfig struct {
	APIKeys         []string
	CaptionModel    string
	ClassifyModel   string
	Temperature     float64
	MaxOutputTokens int
	MaxRetries      int
	TimeoutSeconds  int
	MaxConcurrency  int
}

// PrimaryKey 는 기본 API 키를 반환한다.
func (g GeminiConfig) PrimaryKey() string {
	if len(g.APIKeys) == 0 {
		return ""
	}
	return g.APIKeys[0]
}

// ModelForTask 는 작업 유형별 모델을 반환한다.
func (g GeminiConfig) ModelForTask(task string) string {
	if task == "classify" && g.ClassifyModel != "" {
		return g.ClassifyModel
	}
	return g.CaptionModel
}

// ScraperConfig 는 스토어 스크래핑 설정이다.
type ScraperConfig struct {
	TimeoutSeconds    int
	UserAgent         string
	MaxProducts       int
	RequestsPerSecond float64
	CacheTTLHours     int
}

// CacheConfig 는 스크랩 캐시(Valkey) 연결 설정이다.
type CacheConfig struct {
	URL     string
	Enabled bool
}

// LoggingConfig 는 로깅 설정이다.
type LoggingConfig struct {
	Level      string
	LogDir     string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// HTTPConfig 는 HTTP 서버 설정이다.
type HTTPConfig struct {
	Host         string
	Port         int
	HTTP2Enabled bool
	CORSOrigins  []string
}

// HTTPAuthConfig 는 API 키 인증 설정이다.
type HTTPAuthConfig struct {
	APIKey string
}

// HTTPRateLimitConfig 는 요청 제한 설정이다.
type HTTPRateLimitConfig struct {
	RequestsPerMinute int
	CacheSize         int
	CacheTTLSeconds   int
}

// GenerationConfig 는 캘린더 생성 정책 설정이다.
type GenerationConfig struct {
	HourlyLimit int
	MinProducts int
	MaxProducts int
}

// DatabaseConfig 는 DB 연결 설정이다.
type DatabaseConfig struct {
	Host                   string
	Port                   int
	Name                   string
	User                   string
	Password               string
	MinPool                int
	MaxPool                int
	ConnMaxLifetimeMinutes int
}

// DSN 은 DB 접속 문자열을 반환한다.
func (d DatabaseConfig) DSN() string {
	host := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	u := &url.URL{
		Scheme:   "postgresql",
		Host:     host,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	if d.Password == "" {
		u.User = url.User(d.User)
	} else {
		u.User = url.UserPassword(d.User, d.Password)
	}
	return u.String()
}

// Config 는 애플리케이션 전체 설정이다.
type Config struct {
	Gemini        GeminiConfig
	Scraper       ScraperConfig
	Cache         CacheConfig
	Logging       LoggingConfig
	HTTP          HTTPConfig
	HTTPAuth      HTTPAuthConfig
	HTTPRateLimit HTTPRateLimitConfig
	Generation    GenerationConfig
	Database      DatabaseConfig
}

// Load 는 환경 변수 기반 설정을 로드한다.
func Load() *Config {
	configOnce.Do(func() {
		_ = godotenv.Load()
		configValue = buildConfig()
	})
	return configValue
}

// ProvideConfig 는 설정을 로드하고 검증한다.
func ProvideConfig() (*Config, error) {
	cfg := Load()
	if cfg == nil {
		return nil, errors.New("config not initialized")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 는 설정 유효성을 검사한다.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Gemini.CaptionModel == "" {
		return errors.New("gemini caption model is empty")
	}
	if c.Generation.MinProducts < 1 {
		return fmt.Errorf("generation min products must be >= 1: got %d", c.Generation.MinProducts)
	}
	if c.Generation.MaxProducts < c.Generation.MinProducts {
		return fmt.Errorf(
			"generation max products must be >= min: min=%d max=%d",
			c.Generation.MinProducts,
			c.Generation.MaxProducts,
		)
	}
	return nil
}

// SupportedCountries 는 지원 국가 코드 목록을 반환한다.
func SupportedCountries() []string {
	return supportedCountries
}

// IsSupportedCountry 는 지원 국가 여부를 반환한다.
func IsSupportedCountry(code string) bool {
	for _, country := range supportedCountries {
		if strings.EqualFold(country, code) {
			return true
		}
	}
	return false
}

// LogEnvStatus 는 환경 설정 상태를 로그로 남긴다.
func LogEnvStatus(cfg *Config, logger *slog.Logger) {
	if logger == nil || cfg == nil {
		return
	}

	envFilePresent := fileExists(".env")
	primaryKey := maskSecret(cfg.Gemini.PrimaryKey())
	logger.Debug(
		"env_status",
		"env_file", envFilePresent,
		"gemini_keys", len(cfg.Gemini.APIKeys),
		"primary_key", primaryKey,
		"caption_model", cfg.Gemini.CaptionModel,
		"timeout", cfg.Gemini.TimeoutSeconds,
		"cache_url", cfg.Cache.URL,
		"db_host", cfg.Database.Host,
		"db_name", cfg.Database.Name,
		"hourly_limit", cfg.Generation.HourlyLimit,
	)

	if len(cfg.Gemini.APIKeys) == 0 {
		logger.Error("env_missing_google_api_key")
	}
}

func buildConfig() *Config {
	return &Config{
		Gemini: GeminiConfig{
			APIKeys:         parseAPIKeys(),
			CaptionModel:    getEnvString("GEMINI_MODEL", "gemini-2.5-flash"),
			ClassifyModel:   getEnvString("GEMINI_CLASSIFY_MODEL", ""),
			Temperature:     getEnvFloat("GEMINI_TEMPERATURE", 0.7),
			MaxOutputTokens: getEnvInt("GEMINI_MAX_TOKENS", 2048),
			MaxRetries:      max(1, getEnvInt("GEMINI_MAX_RETRIES", 3)),
			TimeoutSeconds:  getEnvInt("GEMINI_TIMEOUT", 30),
			MaxConcurrency:  max(1, getEnvInt("GEMINI_MAX_CONCURRENCY", 4)),
		},
		Scraper: ScraperConfig{
			TimeoutSeconds:    getEnvInt("SCRAPER_TIMEOUT", 15),
			UserAgent:         getEnvString("SCRAPER_USER_AGENT", "Mozilla/5.0 (compatible; StoreCalendarBot/1.0)"),
			MaxProducts:       max(1, getEnvInt("SCRAPER_MAX_PRODUCTS", 50)),
			RequestsPerSecond: getEnvFloat("SCRAPER_RPS", 2),
			CacheTTLHours:     max(1, getEnvInt("SCRAPER_CACHE_TTL_HOURS", 6)),
		},
		Cache: CacheConfig{
			URL:     getEnvString("CACHE_URL", "redis://localhost:6379"),
			Enabled: getEnvBool("CACHE_ENABLED", false),
		},
		Logging: LoggingConfig{
			Level:      getEnvString("LOG_LEVEL", "info"),
			LogDir:     getEnvString("LOG_DIR", ""),
			MaxSizeMB:  getEnvInt("LOG_FILE_MAX_SIZE_MB", 1),
			MaxBackups: getEnvInt("LOG_FILE_MAX_BACKUPS", 30),
			MaxAgeDays: getEnvInt("LOG_FILE_MAX_AGE_DAYS", 7),
			Compress:   getEnvBool("LOG_FILE_COMPRESS", true),
		},
		HTTP: HTTPConfig{
			Host:         getEnvString("HTTP_HOST", "127.0.0.1"),
			Port:         getEnvInt("HTTP_PORT", 40610),
			HTTP2Enabled: getEnvBool("HTTP2_ENABLED", true),
			CORSOrigins:  splitList(os.Getenv("HTTP_CORS_ORIGINS")),
		},
		HTTPAuth: HTTPAuthConfig{
			APIKey: getEnvString("HTTP_API_KEY", ""),
		},
		HTTPRateLimit: HTTPRateLimitConfig{
			RequestsPerMinute: getEnvNonNegativeInt("HTTP_RATE_LIMIT_RPM", 0),
			CacheSize:         max(1, getEnvNonNegativeInt("HTTP_RATE_LIMIT_CACHE_SIZE", 10000)),
			CacheTTLSeconds:   max(1, getEnvNonNegativeInt("HTTP_RATE_LIMIT_CACHE_TTL_SECONDS", 120)),
		},
		Generation: GenerationConfig{
			HourlyLimit: getEnvNonNegativeInt("GENERATION_HOURLY_LIMIT", 10),
			MinProducts: max(1, getEnvInt("GENERATION_MIN_PRODUCTS", 1)),
			MaxProducts: max(1, getEnvInt("GENERATION_MAX_PRODUCTS", 10)),
		},
		Database: DatabaseConfig{
			Host:                   getEnvString("DB_HOST", "localhost"),
			Port:                   getEnvInt("DB_PORT", 5432),
			Name:                   getEnvString("DB_NAME", "storecalendar"),
			User:                   getEnvString("DB_USER", "storecalendar"),
			Password:               getEnvString("DB_PASSWORD", ""),
			MinPool:                getEnvInt("DB_MIN_POOL", 1),
			MaxPool:                getEnvInt("DB_MAX_POOL", 5),
			ConnMaxLifetimeMinutes: getEnvNonNegativeInt("DB_CONN_MAX_LIFETIME_MINUTES", 30),
		},
	}
}

func parseAPIKeys() []string {
	keysValue := strings.TrimSpace(os.Getenv("GOOGLE_API_KEYS"))
	if keysValue != "" {
		return splitList(keysValue)
	}
	key := strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
	if key == "" {
		return nil
	}
	return []string{key}
}

func splitList(value string) []string {
	items := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func getEnvString(key string, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func getEnvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getEnvNonNegativeInt(key string, def int) int {
	value := getEnvInt(key, def)
	if value < 0 {
		return 0
	}
	return value
}

func getEnvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getEnvBool(key string, def bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	value = strings.ToLower(value)
	return value == "true" || value == "1" || value == "yes" || value == "y"
}

func maskSecret(value string) string {
	if value == "" {
		return "<missing>"
	}
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return value[:2] + "***" + value[len(value)-2:]
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
