package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus 카운터 (장기 히스토리 분석용, /metrics 로 노출)
var (
	geminiRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storecalendar",
		Name:      "gemini_requests_total",
		Help:      "Gemini API requests by outcome.",
	}, []string{"outcome"})

	// ScrapeRequests 는 스토어 스크랩 요청 수를 기록한다.
	ScrapeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storecalendar",
		Name:      "scrape_requests_total",
		Help:      "Store scrape attempts by outcome.",
	}, []string{"outcome"})

	// CalendarsGenerated 는 생성된 주간 캘린더 수를 기록한다.
	CalendarsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storecalendar",
		Name:      "calendars_generated_total",
		Help:      "Weekly calendars generated.",
	})

	// CaptionFallbacks 는 LLM 캡션 부재로 폴백 템플릿이 쓰인 횟수를 기록한다.
	CaptionFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storecalendar",
		Name:      "caption_fallbacks_total",
		Help:      "Calendar posts filled from fallback templates.",
	})
)
