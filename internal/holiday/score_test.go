package holiday

import (
	"testing"
	"time"
)

func TestRelevanceScoreBase(t *testing.T) {
	cases := map[Type]int{
		TypeGiftGiving:    10,
		TypeShopping:      10,
		TypeCelebration:   8,
		TypeSeasonal:      7,
		TypeFestival:      6,
		TypePatriotic:     5,
		TypeEnvironmental: 4,
		Type("mystery"):   3,
	}
	for holidayType, expected := range cases {
		h := Holiday{Date: time.Now(), Name: "x", Type: holidayType}
		if score := RelevanceScore(h, ""); score != expected {
			t.Fatalf("RelevanceScore(%s) = %d, expected %d", holidayType, score, expected)
		}
	}
}

func TestRelevanceScoreAffinityBoost(t *testing.T) {
	h := Holiday{Name: "Labor Day", Type: TypeSeasonal}
	if score := RelevanceScore(h, "fashion"); score != 9 {
		t.Fatalf("expected seasonal+fashion = 9, got %d", score)
	}
	if score := RelevanceScore(h, "electronics"); score != 7 {
		t.Fatalf("expected no boost for electronics, got %d", score)
	}
}

func TestRelevanceScoreCappedAtTen(t *testing.T) {
	h := Holiday{Name: "Valentine's Day", Type: TypeGiftGiving}
	if score := RelevanceScore(h, "jewelry"); score != 10 {
		t.Fatalf("expected cap at 10, got %d", score)
	}
}

func TestRelevanceScoreAlwaysInRange(t *testing.T) {
	types := []Type{
		TypeGiftGiving, TypeShopping, TypeCelebration, TypeSeasonal,
		TypeFestival, TypePatriotic, TypeEnvironmental, Type("unknown"),
	}
	products := []string{"", "fashion", "jewelry", "electronics", "food", "ziggurat"}
	for _, holidayType := range types {
		for _, product := range products {
			score := RelevanceScore(Holiday{Type: holidayType}, product)
			if score < 0 || score > 10 {
				t.Fatalf("score out of range for %s/%s: %d", holidayType, product, score)
			}
		}
	}
}
