package scrape

import (
	"errors"
	"fmt"
)

// ErrUnsupportedURL 는 스킴/호스트를 해석할 수 없는 입력 URL 에 반환된다.
var ErrUnsupportedURL = errors.New("scrape: unsupported store URL")

// ErrNoProducts 는 스크랩은 성공했지만 쓸 만한 상품/서비스가 없을 때 반환된다.
var ErrNoProducts = errors.New("scrape: no products found")

// FetchError 는 대상 사이트 HTTP 요청 실패를 감싼다.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("scrape: fetch %s failed with status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("scrape: fetch %s failed: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
