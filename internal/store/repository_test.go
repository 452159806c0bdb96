package store

import (
	"testing"

	json "github.com/goccy/go-json"

	"github.com/shashuec/storecalendar-go/internal/calendar"
	"github.com/shashuec/storecalendar-go/internal/domain"
)

func TestDecodeCalendarRoundTrip(t *testing.T) {
	cal := calendar.WeeklyCalendar{
		WeekNumber: 1,
		StartDate:  "2025-08-04",
		EndDate:    "2025-08-10",
		Country:    "US",
		BrandTone:  "playful",
		SelectedProducts: []domain.Product{
			{ID: "a", Name: "Rose Serum", Price: "$29.00"},
		},
		Posts: []calendar.Post{
			{
				ID:          1,
				Day:         "Monday",
				Date:        "2025-08-04",
				PostType:    calendar.PostTypeShowcase,
				CaptionText: "Check out Rose Serum!",
				Product:     domain.Product{ID: "a", Name: "Rose Serum"},
			},
		},
	}

	payload, err := json.Marshal(cal)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := decodeCalendar(payload)
	if err != nil {
		t.Fatalf("decodeCalendar: %v", err)
	}
	if decoded.WeekNumber != 1 || decoded.StartDate != "2025-08-04" || len(decoded.Posts) != 1 {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
	if decoded.Posts[0].PostType != calendar.PostTypeShowcase {
		t.Fatalf("post type lost: %q", decoded.Posts[0].PostType)
	}
}

func TestDecodeCalendarRejectsGarbage(t *testing.T) {
	if _, err := decodeCalendar([]byte("not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestMintToken(t *testing.T) {
	first, err := mintToken()
	if err != nil {
		t.Fatalf("mintToken: %v", err)
	}
	if len(first) != 32 {
		t.Fatalf("token length = %d, want 32 hex chars", len(first))
	}
	second, err := mintToken()
	if err != nil {
		t.Fatalf("mintToken: %v", err)
	}
	if first == second {
		t.Fatalf("tokens should not repeat")
	}
}
