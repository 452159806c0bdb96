package health

import (
	"context"
	"time"

	"github.com/shashuec/storecalendar-go/internal/config"
	"github.com/shashuec/storecalendar-go/internal/store"
)

var startTime = time.Now()

// Component 는 상태 구성 요소다.
type Component struct {
	Status string         `json:"status"`
	Detail map[string]any `json:"detail"`
}

// Response 는 상태 응답 본문이다.
type Response struct {
	Status     string               `json:"status"`
	Components map[string]Component `json:"components"`
}

// Collect 는 헬스 상태를 수집한다. deepChecks 가 켜지면 DB 연결까지 확인한다.
func Collect(ctx context.Context, cfg *config.Config, pg *store.Postgres, deepChecks bool) Response {
	components := make(map[string]Component)

	components["app"] = buildAppStatus()
	components["gemini"] = buildGeminiStatus(cfg)
	components["database"] = buildDatabaseStatus(ctx, cfg, pg, deepChecks)

	overall := "ok"
	for _, component := range components {
		if component.Status != "ok" {
			overall = "degraded"
			break
		}
	}

	return Response{
		Status:     overall,
		Components: components,
	}
}

func buildAppStatus() Component {
	return Component{
		Status: "ok",
		Detail: map[string]any{
			"uptime_seconds": int(time.Since(startTime).Seconds()),
		},
	}
}

func buildGeminiStatus(cfg *config.Config) Component {
	apiKeyPresent := false
	captionModel := ""
	timeoutSeconds := 0
	maxRetries := 0

	if cfg != nil {
		apiKeyPresent = cfg.Gemini.PrimaryKey() != ""
		captionModel = cfg.Gemini.CaptionModel
		timeoutSeconds = cfg.Gemini.TimeoutSeconds
		maxRetries = cfg.Gemini.MaxRetries
	}
	status := "ok"
	if !apiKeyPresent {
		status = "degraded"
	}

	return Component{
		Status: status,
		Detail: map[string]any{
			"api_key_present": apiKeyPresent,
			"caption_model":   captionModel,
			"timeout_seconds": timeoutSeconds,
			"max_retries":     maxRetries,
		},
	}
}

func buildDatabaseStatus(ctx context.Context, cfg *config.Config, pg *store.Postgres, deepChecks bool) Component {
	host := ""
	name := ""
	if cfg != nil {
		host = cfg.Database.Host
		name = cfg.Database.Name
	}

	detail := map[string]any{
		"host": host,
		"name": name,
	}

	if pg == nil || !deepChecks {
		detail["checked"] = false
		return Component{Status: "ok", Detail: detail}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	checkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	detail["checked"] = true
	if err := pg.Ping(checkCtx); err != nil {
		detail["error"] = err.Error()
		return Component{Status: "degraded", Detail: detail}
	}
	return Component{Status: "ok", Detail: detail}
}
