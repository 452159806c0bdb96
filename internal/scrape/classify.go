package scrape

import (
	"strings"

	"github.com/shashuec/storecalendar-go/internal/domain"
)

// Classifier 는 스크랩 텍스트에서 업종 카테고리를 추정한다. 휴리스틱 구현을
// 나중에 모델 기반으로 바꿀 수 있도록 좁은 인터페이스로 둔다.
type Classifier interface {
	Classify(text string) domain.BusinessCategory
}

// categoryKeywords 는 키워드 출현 빈도 채점용 테이블이다.
var categoryKeywords = map[domain.BusinessCategory][]string{
	domain.CategoryFashion: {
		"fashion", "clothing", "apparel", "dress", "shirt", "denim", "wardrobe", "outfit", "wear",
	},
	domain.CategoryBeauty: {
		"beauty", "skincare", "makeup", "serum", "cosmetic", "salon", "facial", "spa", "hair",
	},
	domain.CategoryJewelry: {
		"jewelry", "jewellery", "necklace", "ring", "bracelet", "earring", "gold", "silver", "gemstone",
	},
	domain.CategoryHome: {
		"furniture", "decor", "candle", "interior", "bedding", "kitchenware", "rug", "lamp",
	},
	domain.CategoryElectronics: {
		"electronics", "gadget", "headphone", "charger", "laptop", "camera", "smart", "wireless",
	},
	domain.CategoryFood: {
		"food", "coffee", "tea", "snack", "bakery", "chocolate", "organic", "recipe", "restaurant",
	},
	domain.CategoryFitness: {
		"fitness", "gym", "yoga", "workout", "protein", "training", "wellness", "athletic",
	},
	domain.CategoryServices: {
		"service", "booking", "appointment", "consultation", "repair", "cleaning", "photography", "plumbing", "catering",
	},
}

type keywordClassifier struct{}

// NewClassifier 는 키워드 채점 분류기를 생성한다.
func NewClassifier() Classifier {
	return keywordClassifier{}
}

// Classify 는 키워드 출현 횟수가 가장 높은 카테고리를 고른다. 단서가 없으면 general.
func (keywordClassifier) Classify(text string) domain.BusinessCategory {
	lowered := strings.ToLower(text)

	best := domain.CategoryGeneral
	bestScore := 0
	// 동률일 때 결과가 흔들리지 않게 고정 순서로 순회한다.
	for _, category := range []domain.BusinessCategory{
		domain.CategoryFashion,
		domain.CategoryBeauty,
		domain.CategoryJewelry,
		domain.CategoryHome,
		domain.CategoryElectronics,
		domain.CategoryFood,
		domain.CategoryFitness,
		domain.CategoryServices,
	} {
		score := 0
		for _, keyword := range categoryKeywords[category] {
			score += strings.Count(lowered, keyword)
		}
		if score > bestScore {
			best = category
			bestScore = score
		}
	}
	return best
}
