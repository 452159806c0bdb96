package gemini

import (
	"context"

	"github.com/shashuec/storecalendar-go/internal/llm"
)

// Generator 는 텍스트 생성 클라이언트 인터페이스다.
// 테스트에서 mock 구현을 주입할 수 있도록 한다.
type Generator interface {
	Generate(ctx context.Context, req Request) (llm.TextResult, string, error)
}

// Client 가 Generator 인터페이스를 구현하는지 컴파일 타임 확인
var _ Generator = (*Client)(nil)
