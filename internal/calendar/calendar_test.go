package calendar

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shashuec/storecalendar-go/internal/domain"
	"github.com/shashuec/storecalendar-go/internal/holiday"
)

func sampleItems() []domain.Product {
	return []domain.Product{
		{ID: "a", Name: "Rose Serum", Price: "$29.00"},
		{ID: "b", Name: "Clay Mask", Price: "$19.00"},
		{ID: "c", Name: "Night Cream", Price: "$35.00"},
	}
}

func TestStyleBijection(t *testing.T) {
	seen := make(map[CaptionStyle]bool)
	for _, postType := range AllPostTypes() {
		style, ok := StyleFor(postType)
		if !ok {
			t.Fatalf("no style for post type %q", postType)
		}
		if seen[style] {
			t.Fatalf("style %q mapped twice", style)
		}
		seen[style] = true

		back, ok := PostTypeFor(style)
		if !ok || back != postType {
			t.Fatalf("round trip for %q: got %q ok=%v", postType, back, ok)
		}
	}
	if len(seen) != PostsPerWeek {
		t.Fatalf("expected %d styles, got %d", PostsPerWeek, len(seen))
	}
}

func TestPostTypeRotation(t *testing.T) {
	valid := make(map[PostType]bool)
	for _, postType := range AllPostTypes() {
		valid[postType] = true
	}

	week1 := PostTypeRotation(1)
	week2 := PostTypeRotation(2)
	for i := 0; i < PostsPerWeek; i++ {
		if !valid[week1[i]] {
			t.Fatalf("week1[%d] = %q not a known post type", i, week1[i])
		}
		if !valid[week2[i]] {
			t.Fatalf("week2[%d] = %q not a known post type", i, week2[i])
		}
	}
	if week1 == week2 {
		t.Fatalf("week 1 and week 2 rotations must differ")
	}
	if PostTypeRotation(99) != week1 {
		t.Fatalf("unknown week number should fall back to week 1")
	}
}

func TestGenerateCyclesItems(t *testing.T) {
	items := sampleItems()
	asm := NewAssembler(nil)

	cal, err := asm.Generate(Params{
		Items:      items,
		Country:    "US",
		BrandTone:  "casual",
		WeekNumber: 1,
		Captions:   CaptionMap{},
		Now:        time.Date(2025, 8, 4, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(cal.Posts) != PostsPerWeek {
		t.Fatalf("expected %d posts, got %d", PostsPerWeek, len(cal.Posts))
	}
	for i, post := range cal.Posts {
		want := items[i%len(items)]
		if post.Product.ID != want.ID {
			t.Fatalf("posts[%d].Product.ID = %q, want %q", i, post.Product.ID, want.ID)
		}
		if post.CaptionText == "" {
			t.Fatalf("posts[%d] has empty caption", i)
		}
		if !strings.Contains(post.CaptionText, want.Name) {
			t.Fatalf("posts[%d] caption %q does not mention %q", i, post.CaptionText, want.Name)
		}
	}
	if cal.Posts[0].Product.ID != "a" || cal.Posts[3].Product.ID != "a" {
		t.Fatalf("round robin broke: posts[0]=%q posts[3]=%q", cal.Posts[0].Product.ID, cal.Posts[3].Product.ID)
	}
	if cal.StartDate != "2025-08-04" || cal.EndDate != "2025-08-10" {
		t.Fatalf("date span %s..%s", cal.StartDate, cal.EndDate)
	}
}

func TestGenerateConsecutiveDates(t *testing.T) {
	asm := NewAssembler(nil)
	now := time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC)

	cal, err := asm.Generate(Params{Items: sampleItems(), WeekNumber: 2, Now: now})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for i, post := range cal.Posts {
		want := now.AddDate(0, 0, i)
		if post.Date != want.Format("2006-01-02") {
			t.Fatalf("posts[%d].Date = %q, want %q", i, post.Date, want.Format("2006-01-02"))
		}
		if post.Day != want.Weekday().String() {
			t.Fatalf("posts[%d].Day = %q, want %q", i, post.Day, want.Weekday().String())
		}
	}
}

func TestGenerateEmptyItems(t *testing.T) {
	asm := NewAssembler(nil)
	if _, err := asm.Generate(Params{Now: time.Now()}); err != ErrNoItems {
		t.Fatalf("expected ErrNoItems, got %v", err)
	}
}

func TestGenerateUsesProvidedCaptions(t *testing.T) {
	items := sampleItems()
	style, _ := StyleFor(PostTypeRotation(1)[0])
	captions := CaptionMap{
		{ProductID: "a", Style: style}: "Hand written launch caption for Rose Serum",
	}

	cal, err := NewAssembler(nil).Generate(Params{
		Items:      items,
		WeekNumber: 1,
		Captions:   captions,
		Now:        time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if cal.Posts[0].CaptionText != "Hand written launch caption for Rose Serum" {
		t.Fatalf("caption map entry not used verbatim: %q", cal.Posts[0].CaptionText)
	}
}

func TestGenerateHolidayFallbackMentionsHolidayOnce(t *testing.T) {
	holidays, err := holiday.NewCalendar()
	if err != nil {
		t.Fatalf("NewCalendar: %v", err)
	}
	asm := NewAssembler(holidays)

	// 2025-11-25 시작이면 오프셋 2가 추수감사절(celebration, 점수 8)이다.
	cal, err := asm.Generate(Params{
		Items:      sampleItems(),
		Country:    "US",
		WeekNumber: 1,
		Captions:   CaptionMap{},
		Now:        time.Date(2025, 11, 25, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	post := cal.Posts[2]
	if post.Holiday == nil || post.Holiday.Name != "Thanksgiving" {
		t.Fatalf("posts[2] holiday = %+v, want Thanksgiving", post.Holiday)
	}
	if got := strings.Count(strings.ToLower(post.CaptionText), "thanksgiving"); got != 1 {
		t.Fatalf("caption %q mentions the holiday %d times, want 1", post.CaptionText, got)
	}
}

func TestInjectHolidayPhraseIdempotent(t *testing.T) {
	h := holiday.Holiday{Name: "Diwali", Type: holiday.TypeFestival}

	once := InjectHolidayPhrase("Glow brighter this season.", h)
	if !strings.Contains(once, "Diwali") {
		t.Fatalf("phrase not injected: %q", once)
	}
	twice := InjectHolidayPhrase(once, h)
	if twice != once {
		t.Fatalf("second injection changed the caption: %q", twice)
	}
	preMentioned := InjectHolidayPhrase("Our DIWALI sale is live!", h)
	if got := strings.Count(strings.ToLower(preMentioned), "diwali"); got != 1 {
		t.Fatalf("case-insensitive dedup failed: %q", preMentioned)
	}
}

func TestFallbackCaptionWithoutPrice(t *testing.T) {
	item := domain.Product{ID: "s1", Name: "Bridal Makeup"}
	for _, postType := range AllPostTypes() {
		text := FallbackCaption(postType, item)
		if text == "" {
			t.Fatalf("empty fallback for %q", postType)
		}
		if !strings.Contains(text, "Bridal Makeup") {
			t.Fatalf("fallback for %q does not mention the item: %q", postType, text)
		}
		if strings.Contains(text, "{price}") || strings.Contains(text, "for !") {
			t.Fatalf("price leaked into no-price fallback for %q: %q", postType, text)
		}
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	asm := NewAssembler(nil)
	cal, err := asm.Generate(Params{
		Items:      sampleItems(),
		Country:    "UK",
		WeekNumber: 1,
		Now:        time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, cal); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse exported CSV: %v", err)
	}
	if len(records) != PostsPerWeek+1 {
		t.Fatalf("expected header + %d rows, got %d", PostsPerWeek, len(records))
	}
	for i, post := range cal.Posts {
		row := records[i+1]
		if row[0] != post.Day || row[1] != post.Date || row[2] != string(post.PostType) || row[4] != post.Product.Name {
			t.Fatalf("row %d = %v does not match post %+v", i, row, post)
		}
		if row[7] != OptimalTime(post.PostType) {
			t.Fatalf("row %d optimal time = %q", i, row[7])
		}
	}
}
