package caption

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shashuec/storecalendar-go/internal/calendar"
	"github.com/shashuec/storecalendar-go/internal/config"
	"github.com/shashuec/storecalendar-go/internal/domain"
	"github.com/shashuec/storecalendar-go/internal/gemini"
)

// Orchestrator 는 (상품 × 스타일) 캡션을 병렬 생성해 CaptionMap 을 채운다.
// 개별 호출 실패는 맵에 항목을 남기지 않는 것으로 끝난다. 조립 단계의 폴백
// 템플릿이 빈 자리를 메우므로 여기서는 에러를 전파하지 않는다.
type Orchestrator struct {
	generator gemini.Generator
	prompts   *Prompts
	cfg       *config.Config
	logger    *slog.Logger
}

// NewOrchestrator 는 캡션 오케스트레이터를 생성한다.
func NewOrchestrator(generator gemini.Generator, prompts *Prompts, cfg *config.Config, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		generator: generator,
		prompts:   prompts,
		cfg:       cfg,
		logger:    logger,
	}
}

// Generate 는 선택된 상품 전부에 대해 7개 스타일 캡션을 생성한다.
func (o *Orchestrator) Generate(ctx context.Context, items []domain.Product, tone string, category domain.BusinessCategory) calendar.CaptionMap {
	system, err := o.prompts.System(tone, category)
	if err != nil {
		o.logger.Warn("caption_system_prompt_failed", slog.Any("error", err))
		return calendar.CaptionMap{}
	}

	var mu sync.Mutex
	captions := make(calendar.CaptionMap, len(items)*calendar.PostsPerWeek)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(1, o.cfg.Gemini.MaxConcurrency))

	start := time.Now()
	for _, item := range items {
		for _, style := range calendar.AllStyles() {
			group.Go(func() error {
				text, ok := o.generateOne(groupCtx, system, item, style)
				if !ok {
					return nil
				}
				mu.Lock()
				captions[calendar.CaptionKey{ProductID: item.ID, Style: style}] = text
				mu.Unlock()
				return nil
			})
		}
	}
	_ = group.Wait()

	o.logger.Info("captions_generated",
		slog.Int("items", len(items)),
		slog.Int("captions", len(captions)),
		slog.Int("requested", len(items)*calendar.PostsPerWeek),
		slog.Duration("elapsed", time.Since(start)))
	return captions
}

func (o *Orchestrator) generateOne(ctx context.Context, system string, item domain.Product, style calendar.CaptionStyle) (string, bool) {
	user, err := o.prompts.User(style, item)
	if err != nil {
		o.logger.Warn("caption_prompt_failed",
			slog.String("product", item.ID),
			slog.String("style", string(style)),
			slog.Any("error", err))
		return "", false
	}

	callCtx, cancel := context.WithTimeout(ctx, time.Duration(o.cfg.Gemini.TimeoutSeconds)*time.Second)
	defer cancel()

	result, model, err := o.generator.Generate(callCtx, gemini.Request{
		Prompt:       user,
		SystemPrompt: system,
		Task:         "caption",
	})
	if err != nil {
		o.logger.Warn("caption_generate_failed",
			slog.String("product", item.ID),
			slog.String("style", string(style)),
			slog.String("model", model),
			slog.Any("error", err))
		return "", false
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		return "", false
	}
	return text, true
}
