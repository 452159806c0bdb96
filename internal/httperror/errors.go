package httperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/shashuec/storecalendar-go/internal/gemini"
	"github.com/shashuec/storecalendar-go/internal/scrape"
	"github.com/shashuec/storecalendar-go/internal/store"
)

// ErrorCode 는 API 오류 코드다.
type ErrorCode string

const (
	// ErrorCodeInternal 는 내부 오류 코드다.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrorCodeValidation 는 검증 오류 코드다.
	ErrorCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrorCodeUnauthorized 는 인증 오류 코드다.
	ErrorCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrorCodeHTTPRateLimit 는 요청 제한 오류 코드다.
	ErrorCodeHTTPRateLimit ErrorCode = "HTTP_RATE_LIMIT"
	// ErrorCodeGenerationLimit 는 시간당 생성 제한 초과 코드다.
	ErrorCodeGenerationLimit ErrorCode = "GENERATION_LIMIT_EXCEEDED"
	// ErrorCodeLLM 는 LLM 오류 코드다.
	ErrorCodeLLM ErrorCode = "LLM_ERROR"
	// ErrorCodeLLMTimeout 는 LLM 타임아웃 코드다.
	ErrorCodeLLMTimeout ErrorCode = "LLM_TIMEOUT"
	// ErrorCodeScrape 는 스크랩 오류 코드다.
	ErrorCodeScrape ErrorCode = "SCRAPE_ERROR"
	// ErrorCodeScrapeNoProducts 는 스크랩 결과 상품 없음 코드다.
	ErrorCodeScrapeNoProducts ErrorCode = "SCRAPE_NO_PRODUCTS"
	// ErrorCodeUnsupportedURL 는 지원하지 않는 스토어 URL 코드다.
	ErrorCodeUnsupportedURL ErrorCode = "UNSUPPORTED_URL"
	// ErrorCodeCalendarNotFound 는 캘린더 미존재 코드다.
	ErrorCodeCalendarNotFound ErrorCode = "CALENDAR_NOT_FOUND"
	// ErrorCodeShareNotFound 는 공유 링크 미존재 코드다.
	ErrorCodeShareNotFound ErrorCode = "SHARE_NOT_FOUND"
	// ErrorCodeEmptySelection 는 상품 선택 누락 코드다.
	ErrorCodeEmptySelection ErrorCode = "EMPTY_SELECTION"
	// ErrorCodeInvalidInput 는 입력 오류 코드다.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrorCodeMissingField 는 필드 누락 코드다.
	ErrorCodeMissingField ErrorCode = "MISSING_FIELD"
)

// ErrorResponse 는 API 오류 응답 본문이다.
type ErrorResponse struct {
	ErrorCode string         `json:"error_code"`
	ErrorType string         `json:"error_type"`
	Message   string         `json:"message"`
	RequestID *string        `json:"request_id"`
	Details   map[string]any `json:"details"`
}

// Error 는 내부 표준 오류 타입이다.
type Error struct {
	Code    ErrorCode
	Status  int
	Type    string
	Message string
	Details map[string]any
}

// Error 는 오류 메시지를 반환한다.
func (e *Error) Error() string {
	return e.Message
}

// Response 는 오류를 HTTP 응답으로 변환한다.
func Response(err error, requestID string) (int, ErrorResponse) {
	apiErr := FromError(err)
	if apiErr == nil {
		apiErr = NewInternalError("unknown error")
	}

	var requestIDPtr *string
	if requestID != "" {
		requestIDPtr = &requestID
	}

	return apiErr.Status, ErrorResponse{
		ErrorCode: string(apiErr.Code),
		ErrorType: apiErr.Type,
		Message:   apiErr.Message,
		RequestID: requestIDPtr,
		Details:   apiErr.Details,
	}
}

// FromError 는 오류를 내부 오류 타입으로 변환한다.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if errors.Is(err, scrape.ErrUnsupportedURL) {
		return NewUnsupportedURL(err.Error())
	}

	if errors.Is(err, scrape.ErrNoProducts) {
		return NewScrapeNoProducts()
	}

	var scrapeErr *scrape.FetchError
	if errors.As(err, &scrapeErr) {
		return NewScrapeError(scrapeErr.Error())
	}

	if errors.Is(err, store.ErrCalendarNotFound) {
		return NewCalendarNotFound()
	}

	if errors.Is(err, store.ErrShareNotFound) {
		return NewShareNotFound()
	}

	if errors.Is(err, gemini.ErrMissingAPIKey) {
		return NewLLMError("Missing Gemini API key", http.StatusServiceUnavailable)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewLLMTimeoutError("LLM request timed out")
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return NewValidationError(err)
	}

	return NewInternalError(err.Error())
}

// NewInternalError 는 내부 오류를 생성한다.
func NewInternalError(message string) *Error {
	return &Error{
		Code:    ErrorCodeInternal,
		Status:  http.StatusInternalServerError,
		Type:    "InternalError",
		Message: message,
		Details: nil,
	}
}

// NewValidationError 는 검증 오류를 생성한다.
func NewValidationError(err error) *Error {
	return &Error{
		Code:    ErrorCodeValidation,
		Status:  http.StatusUnprocessableEntity,
		Type:    "ValidationError",
		Message: "Input validation failed",
		Details: validationDetails(err),
	}
}

// NewMissingField 는 누락 필드 오류를 생성한다.
func NewMissingField(field string) *Error {
	return &Error{
		Code:    ErrorCodeMissingField,
		Status:  http.StatusBadRequest,
		Type:    "MissingFieldError",
		Message: fmt.Sprintf("Field '%s' required", field),
		Details: map[string]any{"field": field},
	}
}

// NewInvalidInput 는 입력 오류를 생성한다.
func NewInvalidInput(message string) *Error {
	return &Error{
		Code:    ErrorCodeInvalidInput,
		Status:  http.StatusBadRequest,
		Type:    "InvalidInputError",
		Message: message,
		Details: nil,
	}
}

// NewEmptySelection 는 상품 선택 누락 오류를 생성한다.
func NewEmptySelection(minProducts int) *Error {
	return &Error{
		Code:    ErrorCodeEmptySelection,
		Status:  http.StatusUnprocessableEntity,
		Type:    "EmptySelectionError",
		Message: fmt.Sprintf("Select at least %d product(s) before generating a calendar", minProducts),
		Details: map[string]any{"min_products": minProducts},
	}
}

// NewUnauthorized 는 인증 오류를 생성한다.
func NewUnauthorized(details map[string]any) *Error {
	return &Error{
		Code:    ErrorCodeUnauthorized,
		Status:  http.StatusUnauthorized,
		Type:    "UnauthorizedError",
		Message: "Invalid API key",
		Details: details,
	}
}

// NewRateLimitExceeded 는 요청 제한 오류를 생성한다.
func NewRateLimitExceeded(details map[string]any) *Error {
	return &Error{
		Code:    ErrorCodeHTTPRateLimit,
		Status:  http.StatusTooManyRequests,
		Type:    "HTTPRateLimitExceededError",
		Message: "Rate limit exceeded",
		Details: details,
	}
}

// NewGenerationLimitExceeded 는 시간당 생성 제한 오류를 생성한다.
func NewGenerationLimitExceeded(limit int) *Error {
	return &Error{
		Code:    ErrorCodeGenerationLimit,
		Status:  http.StatusTooManyRequests,
		Type:    "GenerationLimitExceededError",
		Message: fmt.Sprintf("Hourly generation limit of %d reached, try again later", limit),
		Details: map[string]any{"hourly_limit": limit},
	}
}

// NewScrapeError 는 스크랩 오류를 생성한다.
func NewScrapeError(message string) *Error {
	return &Error{
		Code:    ErrorCodeScrape,
		Status:  http.StatusBadGateway,
		Type:    "ScrapeError",
		Message: message,
		Details: nil,
	}
}

// NewScrapeNoProducts 는 상품 없음 오류를 생성한다.
func NewScrapeNoProducts() *Error {
	return &Error{
		Code:    ErrorCodeScrapeNoProducts,
		Status:  http.StatusUnprocessableEntity,
		Type:    "ScrapeNoProductsError",
		Message: "No products found at the given store URL",
		Details: nil,
	}
}

// NewUnsupportedURL 는 지원하지 않는 URL 오류를 생성한다.
func NewUnsupportedURL(message string) *Error {
	return &Error{
		Code:    ErrorCodeUnsupportedURL,
		Status:  http.StatusBadRequest,
		Type:    "UnsupportedURLError",
		Message: message,
		Details: nil,
	}
}

// NewCalendarNotFound 는 캘린더 미존재 오류를 생성한다.
func NewCalendarNotFound() *Error {
	return &Error{
		Code:    ErrorCodeCalendarNotFound,
		Status:  http.StatusNotFound,
		Type:    "CalendarNotFoundError",
		Message: "Calendar not found",
		Details: nil,
	}
}

// NewShareNotFound 는 공유 링크 미존재 오류를 생성한다.
func NewShareNotFound() *Error {
	return &Error{
		Code:    ErrorCodeShareNotFound,
		Status:  http.StatusNotFound,
		Type:    "ShareNotFoundError",
		Message: "Share link not found",
		Details: nil,
	}
}

// NewLLMTimeoutError 는 LLM 타임아웃 오류를 생성한다.
func NewLLMTimeoutError(message string) *Error {
	return &Error{
		Code:    ErrorCodeLLMTimeout,
		Status:  http.StatusGatewayTimeout,
		Type:    "LLMTimeoutError",
		Message: message,
		Details: nil,
	}
}

// NewLLMError 는 LLM 오류를 생성한다.
func NewLLMError(message string, status int) *Error {
	return &Error{
		Code:    ErrorCodeLLM,
		Status:  status,
		Type:    "LLMError",
		Message: message,
		Details: nil,
	}
}

// FieldError 는 필드 오류 상세 정보다.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value"`
}

func validationDetails(err error) map[string]any {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]FieldError, 0, len(validationErrors))
		for _, validationErr := range validationErrors {
			fields = append(fields, FieldError{
				Field:   validationErr.Field(),
				Message: validationErr.Error(),
				Value:   validationErr.Value(),
			})
		}
		return map[string]any{"errors": fields}
	}

	return map[string]any{
		"errors": []FieldError{
			{
				Field:   "body",
				Message: err.Error(),
				Value:   nil,
			},
		},
	}
}
