package calendar

import (
	"strings"

	"github.com/shashuec/storecalendar-go/internal/domain"
	"github.com/shashuec/storecalendar-go/internal/holiday"
	"github.com/shashuec/storecalendar-go/internal/metrics"
	"github.com/shashuec/storecalendar-go/internal/prompt"
)

// holidayRelevanceFloor 는 휴일 문구를 섞는 최소 관련도 점수다.
const holidayRelevanceFloor = 6

// fallbackTemplates 는 캡션이 비었을 때 쓰는 포스트 타입별 템플릿이다. 항상 비어 있지 않은 텍스트를 만든다.
var fallbackTemplates = map[PostType]string{
	PostTypeShowcase:        "Check out {name} for {price}! A customer favorite you need to see. ✨",
	PostTypeBenefits:        "Why choose {name}? Quality you can feel, at {price}. Your daily routine deserves an upgrade.",
	PostTypeSocialProof:     "Our customers can't stop talking about {name}. See what the hype is about for {price}!",
	PostTypeHowTo:           "New to {name}? Here's how to get the most out of it. Yours for {price}.",
	PostTypeBehindScenes:    "A peek behind the scenes at how we make {name}. Crafted with care, priced at {price}.",
	PostTypeProblemSolution: "Tired of settling? {name} solves it for {price}. Problem, meet solution.",
	PostTypeCallToAction:    "Don't wait! Grab {name} today for {price}. Limited stock, link in bio. 🛒",
}

// fallbackTemplatesNoPrice 는 가격이 없는 상품/서비스용 변형이다.
var fallbackTemplatesNoPrice = map[PostType]string{
	PostTypeShowcase:        "Check out {name}! A customer favorite you need to see. ✨",
	PostTypeBenefits:        "Why choose {name}? Quality you can feel. Your daily routine deserves an upgrade.",
	PostTypeSocialProof:     "Our customers can't stop talking about {name}. See what the hype is about!",
	PostTypeHowTo:           "New to {name}? Here's how to get the most out of it.",
	PostTypeBehindScenes:    "A peek behind the scenes at how we make {name}. Crafted with care.",
	PostTypeProblemSolution: "Tired of settling? {name} solves it. Problem, meet solution.",
	PostTypeCallToAction:    "Don't wait! Book {name} today. Link in bio. 🛒",
}

// holidayPhrases 는 휴일 타입별 삽입 문구다.
var holidayPhrases = map[holiday.Type]string{
	holiday.TypeGiftGiving:    "Perfect {holiday} gift idea!",
	holiday.TypeShopping:      "{holiday} deals you don't want to miss!",
	holiday.TypeCelebration:   "Celebrate {holiday} with us!",
	holiday.TypeSeasonal:      "Get ready for {holiday}!",
	holiday.TypeFestival:      "Wishing you a joyful {holiday}!",
	holiday.TypePatriotic:     "Happy {holiday}!",
	holiday.TypeEnvironmental: "This {holiday}, choose consciously.",
}

// FallbackCaption 은 (포스트 타입, 상품)으로 결정적 캡션을 합성한다. 실패하지 않는다.
func FallbackCaption(postType PostType, item domain.Product) string {
	table := fallbackTemplates
	if strings.TrimSpace(item.Price) == "" {
		table = fallbackTemplatesNoPrice
	}
	template, ok := table[postType]
	if !ok {
		template = "Discover {name} today!"
	}
	text, err := prompt.FormatTemplate(template, map[string]string{
		"name":  item.Name,
		"price": item.Price,
	})
	if err != nil {
		return item.Name
	}
	return text
}

// InjectHolidayPhrase 는 캡션에 휴일 문구를 덧붙인다. 캡션이 이미 휴일 이름을
// 포함하면(대소문자 무시 부분 일치) 그대로 반환하므로 재호출해도 중복되지 않는다.
func InjectHolidayPhrase(caption string, h holiday.Holiday) string {
	if strings.Contains(strings.ToLower(caption), strings.ToLower(h.Name)) {
		return caption
	}
	template, ok := holidayPhrases[h.Type]
	if !ok {
		template = "Happy {holiday}!"
	}
	phrase, err := prompt.FormatTemplate(template, map[string]string{"holiday": h.Name})
	if err != nil {
		return caption
	}
	return caption + " " + phrase
}

// resolveCaption 은 한 날짜 슬롯의 캡션과 대상 상품을 결정한다. items 는 비어 있지 않아야 한다.
func resolveCaption(items []domain.Product, offset int, postType PostType, captions CaptionMap, h *holiday.Holiday, productType string) (string, domain.Product) {
	item := items[offset%len(items)]

	text := ""
	if style, ok := StyleFor(postType); ok {
		text = captions[CaptionKey{ProductID: item.ID, Style: style}]
	}
	if text == "" {
		text = FallbackCaption(postType, item)
		metrics.CaptionFallbacks.Inc()
	}

	if h != nil && holiday.RelevanceScore(*h, productType) >= holidayRelevanceFloor {
		text = InjectHolidayPhrase(text, *h)
	}
	return text, item
}
