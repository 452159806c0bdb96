package calendar

import (
	"errors"
	"time"

	"github.com/shashuec/storecalendar-go/internal/domain"
	"github.com/shashuec/storecalendar-go/internal/holiday"
)

// ErrNoItems 는 빈 상품 목록으로 조립을 시도했을 때 반환된다.
var ErrNoItems = errors.New("calendar: item list is empty")

const isoDate = "2006-01-02"

// Assembler 는 휴일 테이블을 들고 주간 캘린더를 조립한다. 상태는 읽기 전용이라 동시 호출에 안전하다.
type Assembler struct {
	holidays *holiday.Calendar
}

// NewAssembler 는 캘린더 조립기를 생성한다.
func NewAssembler(holidays *holiday.Calendar) *Assembler {
	return &Assembler{holidays: holidays}
}

// Params 는 주간 캘린더 조립 입력이다. Captions 는 부분적으로 비어 있어도 된다.
type Params struct {
	Items       []domain.Product
	Country     string
	BrandTone   string
	WeekNumber  int
	Captions    CaptionMap
	ProductType string
	Now         time.Time
}

// Generate 는 Now 부터 연속 7일의 캘린더를 조립한다. 네트워크나 저장소를 건드리지 않는다.
func (a *Assembler) Generate(params Params) (WeeklyCalendar, error) {
	if len(params.Items) == 0 {
		return WeeklyCalendar{}, ErrNoItems
	}

	rotation := PostTypeRotation(params.WeekNumber)
	start := params.Now
	posts := make([]Post, 0, PostsPerWeek)

	for offset := 0; offset < PostsPerWeek; offset++ {
		date := start.AddDate(0, 0, offset)
		postType := rotation[offset]

		var holidayContext *holiday.Holiday
		if a.holidays != nil {
			if h, ok := a.holidays.On(params.Country, date); ok {
				holidayContext = &h
			}
		}

		text, item := resolveCaption(params.Items, offset, postType, params.Captions, holidayContext, params.ProductType)
		posts = append(posts, Post{
			ID:          offset + 1,
			Day:         date.Weekday().String(),
			Date:        date.Format(isoDate),
			PostType:    postType,
			CaptionText: text,
			Product:     item,
			Holiday:     holidayContext,
		})
	}

	return WeeklyCalendar{
		WeekNumber:       params.WeekNumber,
		StartDate:        posts[0].Date,
		EndDate:          posts[PostsPerWeek-1].Date,
		Country:          params.Country,
		BrandTone:        params.BrandTone,
		SelectedProducts: params.Items,
		Posts:            posts,
	}, nil
}
