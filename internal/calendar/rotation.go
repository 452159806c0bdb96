package calendar

// week1Rotation 는 1주차(런칭) 로테이션이다. 쇼케이스로 시작해 CTA 로 닫는다.
var week1Rotation = [PostsPerWeek]PostType{
	PostTypeShowcase,
	PostTypeBenefits,
	PostTypeSocialProof,
	PostTypeHowTo,
	PostTypeBehindScenes,
	PostTypeProblemSolution,
	PostTypeCallToAction,
}

// week2Rotation 는 2주차(라이프스타일) 로테이션이다. 스토리 중심으로 재배열한다.
var week2Rotation = [PostsPerWeek]PostType{
	PostTypeBehindScenes,
	PostTypeHowTo,
	PostTypeShowcase,
	PostTypeProblemSolution,
	PostTypeSocialProof,
	PostTypeCallToAction,
	PostTypeBenefits,
}

// PostTypeRotation 는 주차별 7일 포스트 타입 순서를 반환한다. 2주차 외에는 1주차 테이블.
func PostTypeRotation(weekNumber int) [PostsPerWeek]PostType {
	if weekNumber == 2 {
		return week2Rotation
	}
	return week1Rotation
}
