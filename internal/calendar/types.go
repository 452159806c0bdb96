package calendar

import (
	"github.com/shashuec/storecalendar-go/internal/domain"
	"github.com/shashuec/storecalendar-go/internal/holiday"
)

// PostsPerWeek 는 주간 캘린더의 고정 포스트 수다.
const PostsPerWeek = 7

// PostType 는 포스트 아키타입 라벨이다.
type PostType string

const (
	PostTypeShowcase        PostType = "Product Showcase"
	PostTypeBenefits        PostType = "Benefits-Focused"
	PostTypeSocialProof     PostType = "Social Proof"
	PostTypeHowTo           PostType = "How-To"
	PostTypeBehindScenes    PostType = "Behind-the-Scenes"
	PostTypeProblemSolution PostType = "Problem-Solution"
	PostTypeCallToAction    PostType = "Call-to-Action"
)

// CaptionStyle 는 캡션 생성 스타일 식별자다.
type CaptionStyle string

const (
	StyleShowcase        CaptionStyle = "product_showcase"
	StyleBenefits        CaptionStyle = "benefits_focused"
	StyleSocialProof     CaptionStyle = "social_proof"
	StyleHowTo           CaptionStyle = "how_to"
	StyleBehindScenes    CaptionStyle = "behind_the_scenes"
	StyleProblemSolution CaptionStyle = "problem_solution"
	StyleCallToAction    CaptionStyle = "call_to_action"
)

// styleByPostType 는 포스트 타입과 캡션 스타일의 고정 1:1 매핑이다.
var styleByPostType = map[PostType]CaptionStyle{
	PostTypeShowcase:        StyleShowcase,
	PostTypeBenefits:        StyleBenefits,
	PostTypeSocialProof:     StyleSocialProof,
	PostTypeHowTo:           StyleHowTo,
	PostTypeBehindScenes:    StyleBehindScenes,
	PostTypeProblemSolution: StyleProblemSolution,
	PostTypeCallToAction:    StyleCallToAction,
}

var postTypeByStyle = invertStyleMapping()

func invertStyleMapping() map[CaptionStyle]PostType {
	inverted := make(map[CaptionStyle]PostType, len(styleByPostType))
	for postType, style := range styleByPostType {
		inverted[style] = postType
	}
	return inverted
}

// StyleFor 는 포스트 타입의 캡션 스타일을 반환한다.
func StyleFor(postType PostType) (CaptionStyle, bool) {
	style, ok := styleByPostType[postType]
	return style, ok
}

// PostTypeFor 는 캡션 스타일의 포스트 타입을 반환한다.
func PostTypeFor(style CaptionStyle) (PostType, bool) {
	postType, ok := postTypeByStyle[style]
	return postType, ok
}

// AllPostTypes 는 고정 순서의 포스트 타입 목록을 반환한다.
func AllPostTypes() []PostType {
	return []PostType{
		PostTypeShowcase,
		PostTypeBenefits,
		PostTypeSocialProof,
		PostTypeHowTo,
		PostTypeBehindScenes,
		PostTypeProblemSolution,
		PostTypeCallToAction,
	}
}

// AllStyles 는 고정 순서의 캡션 스타일 목록을 반환한다.
func AllStyles() []CaptionStyle {
	styles := make([]CaptionStyle, 0, PostsPerWeek)
	for _, postType := range AllPostTypes() {
		styles = append(styles, styleByPostType[postType])
	}
	return styles
}

// optimalTimes 는 포스트 타입별 권장 게시 시각이다.
var optimalTimes = map[PostType]string{
	PostTypeShowcase:        "10:00 AM",
	PostTypeBenefits:        "12:00 PM",
	PostTypeSocialProof:     "6:00 PM",
	PostTypeHowTo:           "2:00 PM",
	PostTypeBehindScenes:    "9:00 AM",
	PostTypeProblemSolution: "1:00 PM",
	PostTypeCallToAction:    "7:00 PM",
}

// OptimalTime 는 포스트 타입의 권장 게시 시각을 반환한다.
func OptimalTime(postType PostType) string {
	if value, ok := optimalTimes[postType]; ok {
		return value
	}
	return "12:00 PM"
}

// CaptionKey 는 (상품, 스타일) 캡션 조회 키다.
type CaptionKey struct {
	ProductID string
	Style     CaptionStyle
}

// CaptionMap 는 외부 LLM 협력자가 채운 캡션 테이블이다. 부분적으로 비어 있을 수 있다.
type CaptionMap map[CaptionKey]string

// Post 는 하루치 캘린더 항목이다. 생성 이후 불변.
type Post struct {
	ID          int              `json:"id"`
	Day         string           `json:"day"`
	Date        string           `json:"date"`
	PostType    PostType         `json:"post_type"`
	CaptionText string           `json:"caption_text"`
	Product     domain.Product   `json:"product_featured"`
	Holiday     *holiday.Holiday `json:"holiday_context,omitempty"`
}

// WeeklyCalendar 는 조립 완료된 7일 캘린더다.
type WeeklyCalendar struct {
	WeekNumber       int              `json:"week_number"`
	StartDate        string           `json:"start_date"`
	EndDate          string           `json:"end_date"`
	Country          string           `json:"country"`
	BrandTone        string           `json:"brand_tone"`
	SelectedProducts []domain.Product `json:"selected_products"`
	Posts            []Post           `json:"posts"`
}
