package caption

import (
	"embed"
	"fmt"

	"github.com/shashuec/storecalendar-go/internal/calendar"
	"github.com/shashuec/storecalendar-go/internal/domain"
	"github.com/shashuec/storecalendar-go/internal/prompt"
)

//go:embed prompts/*.yml
var promptsFS embed.FS

// Prompts 는 캡션 생성 프롬프트 모음이다.
type Prompts struct {
	prompts map[string]string
}

// NewPrompts 는 내장 프롬프트 디렉터리를 로드한다. 파일명이 프롬프트 팩 이름이 된다.
func NewPrompts() (*Prompts, error) {
	packs, err := prompt.LoadYAMLDir(promptsFS, "prompts")
	if err != nil {
		return nil, fmt.Errorf("load caption prompts: %w", err)
	}
	mapping, ok := packs["caption"]
	if !ok {
		return nil, fmt.Errorf("caption prompt pack missing")
	}
	return &Prompts{prompts: mapping}, nil
}

// System 은 톤/업종이 채워진 시스템 프롬프트를 반환한다.
func (p *Prompts) System(tone string, category domain.BusinessCategory) (string, error) {
	template, ok := p.prompts["system"]
	if !ok {
		return "", fmt.Errorf("caption prompt missing field: system")
	}
	return prompt.FormatTemplate(template, map[string]string{
		"tone":     tone,
		"category": string(category),
	})
}

// User 는 스타일별 사용자 프롬프트를 상품 정보로 채워 반환한다.
func (p *Prompts) User(style calendar.CaptionStyle, product domain.Product) (string, error) {
	template, ok := p.prompts[string(style)]
	if !ok {
		return "", fmt.Errorf("caption prompt missing field: %s", style)
	}
	price := product.Price
	if price == "" {
		price = "not listed"
	}
	description := product.Description
	if description == "" {
		description = "(no description)"
	}
	return prompt.FormatTemplate(template, map[string]string{
		"name":        product.Name,
		"description": description,
		"price":       price,
	})
}
