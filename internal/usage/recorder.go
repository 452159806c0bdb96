package usage

import (
	"context"
	"log/slog"
	"time"
)

// Recorder 는 요청별 토큰 사용량을 DB 에 적재한다. 저장 실패는 경고 로그로만
// 남기고 호출 경로를 막지 않는다.
type Recorder struct {
	repo   *Repository
	logger *slog.Logger
}

// NewRecorder 는 사용량 기록기를 생성한다.
func NewRecorder(repo *Repository, logger *slog.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

// Record 는 1회 요청의 토큰 사용량을 기록한다.
func (r *Recorder) Record(ctx context.Context, inputTokens, outputTokens int64) {
	if r == nil || r.repo == nil {
		return
	}
	if inputTokens <= 0 && outputTokens <= 0 {
		return
	}
	if err := r.repo.RecordUsage(ctx, inputTokens, outputTokens, 1, time.Time{}); err != nil {
		if r.logger != nil {
			r.logger.Warn("usage_db_save_failed", "err", err)
		}
	}
}
