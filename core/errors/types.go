// ABOUTME: Custom error types for the core business logic
// ABOUTME: Classifies pipeline failures so callers can decide on retry and user messaging

package errors

import (
	"errors"
	"fmt"
)

// Fallback messages shown to users when an error carries no better text.
const (
	MsgNetworkError  = "网络连接失败，请检查网络设置"
	MsgAPIError      = "API请求失败，请稍后重试"
	MsgNoData        = "暂无数据"
	MsgLoadMoreError = "加载更多失败"
	MsgSearchError   = "搜索失败，请重试"
	MsgTimeout       = "请求超时，请检查网络连接"
	MsgDetailError   = "获取新闻详情失败"
)

// statusMessages maps provider HTTP status codes to human-readable text
var statusMessages = map[int]string{
	400: "请求参数错误",
	401: "API密钥无效",
	403: "访问被拒绝",
	404: "接口不存在",
	429: "请求过于频繁，请稍后重试",
	500: "服务器内部错误",
}

// StatusMessage returns the message for an HTTP status code
func StatusMessage(code int) string {
	if msg, ok := statusMessages[code]; ok {
		return msg
	}
	return fmt.Sprintf("服务器错误 (%d)", code)
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ExternalAPIError represents an error reported inside a provider payload
// (a 2xx response whose envelope carries a non-zero error code)
type ExternalAPIError struct {
	StatusCode int
	Message    string
	API        string
}

// Error implements the error interface
func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("external API error from %s: %d - %s", e.API, e.StatusCode, e.Message)
}

// HTTPStatusError is a transport response with a non-2xx status
type HTTPStatusError struct {
	StatusCode int
	Message    string
	URL        string
}

// Error implements the error interface
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("http status %d: %s", e.StatusCode, e.Message)
}

// NewHTTPStatusError builds an HTTPStatusError using the status message table
func NewHTTPStatusError(statusCode int, url string) *HTTPStatusError {
	return &HTTPStatusError{
		StatusCode: statusCode,
		Message:    StatusMessage(statusCode),
		URL:        url,
	}
}

// NetworkError means the request never produced a response
type NetworkError struct {
	URL string
	Err error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error for %s: %v", e.URL, e.Err)
}

// Unwrap returns the transport error
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// TimeoutError means the per-request deadline elapsed
type TimeoutError struct {
	URL string
	Err error
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request to %s timed out: %v", e.URL, e.Err)
}

// Unwrap returns the transport error
func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// CancelledError means the caller's context was cancelled
type CancelledError struct {
	Err error
}

// Error implements the error interface
func (e *CancelledError) Error() string {
	return fmt.Sprintf("request cancelled: %v", e.Err)
}

// Unwrap returns the context error
func (e *CancelledError) Unwrap() error {
	return e.Err
}

// NoDataError means the provider answered with an empty or malformed payload
type NoDataError struct {
	Reason string
}

// Error implements the error interface
func (e *NoDataError) Error() string {
	if e.Reason == "" {
		return MsgNoData
	}
	return fmt.Sprintf("%s: %s", MsgNoData, e.Reason)
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsExternalAPI checks if an error is an ExternalAPIError
func IsExternalAPI(err error) bool {
	var apiErr *ExternalAPIError
	return errors.As(err, &apiErr)
}

// IsHTTPStatus checks if an error is an HTTPStatusError
func IsHTTPStatus(err error) bool {
	var statusErr *HTTPStatusError
	return errors.As(err, &statusErr)
}

// IsNetwork checks if an error is a NetworkError
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsTimeout checks if an error is a TimeoutError
func IsTimeout(err error) bool {
	var timeoutErr *TimeoutError
	return errors.As(err, &timeoutErr)
}

// IsCancelled checks if an error is a CancelledError
func IsCancelled(err error) bool {
	var cancelledErr *CancelledError
	return errors.As(err, &cancelledErr)
}

// IsNoData checks if an error is a NoDataError
func IsNoData(err error) bool {
	var noDataErr *NoDataError
	return errors.As(err, &noDataErr)
}

// StatusCode extracts the HTTP or provider status code carried by err, or 0
func StatusCode(err error) int {
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	var apiErr *ExternalAPIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsTerminal reports whether retrying err can never succeed.
// Credential and authorization failures, validation failures and
// cancellation are terminal.
func IsTerminal(err error) bool {
	if err == nil {
		return false
	}
	switch StatusCode(err) {
	case 401, 403:
		return true
	}
	return IsValidation(err) || IsCancelled(err)
}

// IsRetryable is the complement of IsTerminal for non-nil errors
func IsRetryable(err error) bool {
	return err != nil && !IsTerminal(err)
}

// UserMessage picks the text a collaborator should show for err
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.Message
	}
	var apiErr *ExternalAPIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	switch {
	case IsTimeout(err):
		return MsgTimeout
	case IsNetwork(err):
		return MsgNetworkError
	case IsNoData(err):
		return MsgNoData
	}
	if fallback != "" {
		return fallback
	}
	return MsgAPIError
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
