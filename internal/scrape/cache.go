package scrape

import (
	"context"
	"log/slog"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valkey-io/valkey-go"

	"github.com/shashuec/storecalendar-go/internal/cache"
)

// Entry 는 스크랩 결과 캐시 항목이다. FetchedAt 기준으로 신선도를 판정한다.
type Entry struct {
	Key       string    `json:"key"`
	Value     Result    `json:"value"`
	FetchedAt time.Time `json:"fetched_at"`
}

// IsStale 는 항목이 TTL 을 넘겼는지 판정하는 순수 함수다.
func IsStale(entry Entry, now time.Time, ttl time.Duration) bool {
	return now.Sub(entry.FetchedAt) >= ttl
}

// ResultCache 는 스크랩 결과 저장소다. 메모리/Valkey 두 구현이 있다.
type ResultCache interface {
	Get(ctx context.Context, key string) (Entry, bool)
	Set(ctx context.Context, key string, entry Entry)
}

const memoryCacheSize = 512

// memoryCache 는 단일 프로세스용 LRU 캐시 구현이다.
type memoryCache struct {
	entries *cache.TTLCache[string, Entry]
}

// NewMemoryCache 는 인메모리 결과 캐시를 생성한다.
func NewMemoryCache(ttl time.Duration) ResultCache {
	return &memoryCache{entries: cache.NewTTLCache[string, Entry](memoryCacheSize, ttl)}
}

func (m *memoryCache) Get(_ context.Context, key string) (Entry, bool) {
	return m.entries.Get(key)
}

func (m *memoryCache) Set(_ context.Context, key string, entry Entry) {
	m.entries.Set(key, entry)
}

// valkeyCache 는 프로세스 재시작에도 살아남는 공유 캐시 구현이다.
type valkeyCache struct {
	client valkey.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewValkeyCache 는 Valkey 기반 결과 캐시를 생성한다.
func NewValkeyCache(client valkey.Client, ttl time.Duration, logger *slog.Logger) ResultCache {
	return &valkeyCache{client: client, ttl: ttl, logger: logger}
}

func valkeyKey(key string) string {
	return "scrape:result:" + key
}

func (v *valkeyCache) Get(ctx context.Context, key string) (Entry, bool) {
	raw, err := v.client.Do(ctx, v.client.B().Get().Key(valkeyKey(key)).Build()).AsBytes()
	if err != nil {
		if !valkey.IsValkeyNil(err) {
			v.logger.Warn("scrape_cache_get_failed", slog.String("key", key), slog.Any("error", err))
		}
		return Entry{}, false
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		v.logger.Warn("scrape_cache_decode_failed", slog.String("key", key), slog.Any("error", err))
		return Entry{}, false
	}
	return entry, true
}

func (v *valkeyCache) Set(ctx context.Context, key string, entry Entry) {
	raw, err := json.Marshal(entry)
	if err != nil {
		v.logger.Warn("scrape_cache_encode_failed", slog.String("key", key), slog.Any("error", err))
		return
	}
	cmd := v.client.B().Set().Key(valkeyKey(key)).Value(string(raw)).Ex(v.ttl).Build()
	if err := v.client.Do(ctx, cmd).Error(); err != nil {
		v.logger.Warn("scrape_cache_set_failed", slog.String("key", key), slog.Any("error", err))
	}
}
