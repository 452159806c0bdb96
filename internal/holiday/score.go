package holiday

import (
	"strings"

	"github.com/shashuec/storecalendar-go/internal/domain"
)

const maxScore = 10

// baseScores 는 휴일 유형별 기본 관련도 점수다.
var baseScores = map[Type]int{
	TypeGiftGiving:    10,
	TypeShopping:      10,
	TypeCelebration:   8,
	TypeSeasonal:      7,
	TypeFestival:      6,
	TypePatriotic:     5,
	TypeEnvironmental: 4,
}

// affinityBoosts 는 상품 카테고리와 휴일 유형의 궁합 보정치다.
var affinityBoosts = map[Type]map[domain.BusinessCategory]int{
	TypeGiftGiving: {
		domain.CategoryJewelry: 2,
		domain.CategoryBeauty:  2,
		domain.CategoryFashion: 1,
	},
	TypeShopping: {
		domain.CategoryElectronics: 2,
		domain.CategoryFashion:     1,
		domain.CategoryHome:        1,
	},
	TypeSeasonal: {
		domain.CategoryFashion: 2,
		domain.CategoryHome:    1,
	},
	TypeCelebration: {
		domain.CategoryFood: 2,
	},
	TypeEnvironmental: {
		domain.CategoryHome:    1,
		domain.CategoryFitness: 1,
	},
}

// RelevanceScore 는 휴일 관련도를 0..10 으로 평가한다.
// 알 수 없는 유형은 3점, 상품 카테고리 궁합은 +1/+2 보정 후 10점에서 캡한다.
func RelevanceScore(h Holiday, productType string) int {
	score, ok := baseScores[h.Type]
	if !ok {
		score = 3
	}

	if productType != "" {
		category := domain.BusinessCategory(strings.ToLower(strings.TrimSpace(productType)))
		if boosts, ok := affinityBoosts[h.Type]; ok {
			score += boosts[category]
		}
	}

	if score > maxScore {
		score = maxScore
	}
	return score
}
