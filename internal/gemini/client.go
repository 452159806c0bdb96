package gemini

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/genai"

	"github.com/shashuec/storecalendar-go/internal/config"
	"github.com/shashuec/storecalendar-go/internal/llm"
	"github.com/shashuec/storecalendar-go/internal/metrics"
	"github.com/shashuec/storecalendar-go/internal/usage"
)

var (
	// ErrMissingAPIKey 는 Gemini API 키가 없을 때 반환된다.
	ErrMissingAPIKey = errors.New("missing gemini api key")
	// ErrInvalidModel 는 모델을 결정할 수 없을 때 반환된다.
	ErrInvalidModel = errors.New("invalid model")
)

// Request 는 Gemini 요청 데이터다.
type Request struct {
	Prompt       string
	SystemPrompt string
	Model        string
	Task         string
}

// Client 는 Gemini 호출을 담당한다. API 키를 라운드 로빈으로 돌려 쓴다.
type Client struct {
	cfg           *config.Config
	metrics       *metrics.Store
	usageRecorder *usage.Recorder
	mu            sync.Mutex
	clients       map[string]*genai.Client
	apiKeys       []string
	apiKeyIdx     int
}

// NewClient 는 Gemini 클라이언트를 생성한다.
func NewClient(cfg *config.Config, metricsStore *metrics.Store, usageRecorder *usage.Recorder) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if metricsStore == nil {
		return nil, errors.New("metrics store is nil")
	}
	return &Client{
		cfg:           cfg,
		metrics:       metricsStore,
		usageRecorder: usageRecorder,
		clients:       make(map[string]*genai.Client),
		apiKeys:       cfg.Gemini.APIKeys,
	}, nil
}

// Generate 는 텍스트 생성 요청을 수행하고 응답과 사용 모델명을 반환한다.
// 일시적 실패는 지수 백오프로 재시도한다.
func (c *Client) Generate(ctx context.Context, req Request) (llm.TextResult, string, error) {
	start := time.Now()
	response, model, err := c.generateWithRetry(ctx, req)
	if err != nil {
		c.metrics.RecordError(time.Since(start))
		return llm.TextResult{}, model, err
	}

	tokenUsage := extractUsage(response)
	c.metrics.RecordSuccess(time.Since(start), tokenUsage)
	c.recordUsage(ctx, tokenUsage)
	return llm.TextResult{Text: response.Text(), Usage: tokenUsage}, model, nil
}

func (c *Client) recordUsage(ctx context.Context, tokenUsage llm.Usage) {
	if c.usageRecorder == nil {
		return
	}
	c.usageRecorder.Record(ctx, int64(tokenUsage.InputTokens), int64(tokenUsage.OutputTokens))
}

func (c *Client) generateWithRetry(ctx context.Context, req Request) (*genai.GenerateContentResponse, string, error) {
	model, err := c.resolveModel(req.Model, req.Task)
	if err != nil {
		return nil, model, err
	}

	var response *genai.GenerateContentResponse
	operation := func() error {
		client, err := c.selectClient(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := client.Models.GenerateContent(ctx, model, buildContents(req.Prompt), c.buildGenerateConfig(req.SystemPrompt))
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("generate content: %w", err)
		}
		response = resp
		return nil
	}

	retryBackoff := backoff.NewExponentialBackOff()
	retryBackoff.InitialInterval = 500 * time.Millisecond
	retryBackoff.MaxInterval = 5 * time.Second
	retryBackoff.Multiplier = 2.0
	retryBackoff.RandomizationFactor = 0.2
	retryBackoff.MaxElapsedTime = 0

	maxRetries := uint64(0)
	if c.cfg.Gemini.MaxRetries > 0 {
		maxRetries = uint64(c.cfg.Gemini.MaxRetries)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(retryBackoff, maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, model, err
	}
	return response, model, nil
}

func (c *Client) selectClient(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.apiKeys) == 0 {
		return nil, ErrMissingAPIKey
	}

	key := c.apiKeys[c.apiKeyIdx%len(c.apiKeys)]
	c.apiKeyIdx++
	if client, ok := c.clients[key]; ok {
		return client, nil
	}

	timeout := time.Duration(c.cfg.Gemini.TimeoutSeconds) * time.Second
	client, err := genai.NewClient(context.WithoutCancel(ctx), &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			Timeout: genai.Ptr(timeout),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	c.clients[key] = client
	return client, nil
}

func (c *Client) resolveModel(modelOverride string, task string) (string, error) {
	model := modelOverride
	if model == "" {
		model = c.cfg.Gemini.ModelForTask(task)
	}
	if model == "" {
		return "", ErrInvalidModel
	}
	return model, nil
}

func (c *Client) buildGenerateConfig(systemPrompt string) *genai.GenerateContentConfig {
	generateConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(c.cfg.Gemini.Temperature)),
		MaxOutputTokens: int32(c.cfg.Gemini.MaxOutputTokens),
	}
	if systemPrompt != "" {
		generateConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	return generateConfig
}

func buildContents(prompt string) []*genai.Content {
	return []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
}

func extractUsage(response *genai.GenerateContentResponse) llm.Usage {
	if response == nil || response.UsageMetadata == nil {
		return llm.Usage{}
	}
	meta := response.UsageMetadata
	return llm.Usage{
		InputTokens:  int(meta.PromptTokenCount),
		OutputTokens: int(meta.CandidatesTokenCount),
		TotalTokens:  int(meta.TotalTokenCount),
	}
}
