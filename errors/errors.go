package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// AppError is the custom error type surfaced at the API boundary.
type AppError struct {
	Raw      error
	HTTPCode int
	Code     ErrorCode
	Message  string
	Details  map[string]string
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is / errors.As.
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// FormatError reports unusable ingest input: empty text or text with no
// extractable utterances after normalization. It is fatal to the ingest call.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("transcript format error: %s", e.Reason)
}

// NewFormatError creates a FormatError with the given reason.
func NewFormatError(reason string) *FormatError {
	return &FormatError{Reason: reason}
}

// SchemaValidationError reports a stage whose output never satisfied its
// schema within the self-correction retry budget. It is recorded on the
// StageResult and never aborts sibling stages.
type SchemaValidationError struct {
	Stage    string
	Attempts int
	Raw      error
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("stage %s output failed schema validation after %d attempts: %v", e.Stage, e.Attempts, e.Raw)
}

func (e *SchemaValidationError) Unwrap() error {
	return e.Raw
}

// ServiceKind classifies upstream service failures.
type ServiceKind int

const (
	ServiceKindRateLimit ServiceKind = iota
	ServiceKindServerError
	ServiceKindInvalidRequest
)

func (k ServiceKind) String() string {
	switch k {
	case ServiceKindRateLimit:
		return "rate_limit"
	case ServiceKindServerError:
		return "server_error"
	case ServiceKindInvalidRequest:
		return "invalid_request"
	default:
		return "unknown"
	}
}

// ServiceError reports an upstream completion/embedding failure after the
// retry policy is exhausted. Fatal to the specific operation, never to
// unrelated concurrent operations.
type ServiceError struct {
	Service string
	Kind    ServiceKind
	Raw     error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service %s: %v", e.Service, e.Kind, e.Raw)
}

func (e *ServiceError) Unwrap() error {
	return e.Raw
}

// NewServiceError creates a ServiceError for the named upstream service.
func NewServiceError(service string, kind ServiceKind, raw error) *ServiceError {
	return &ServiceError{Service: service, Kind: kind, Raw: raw}
}

// Sentinel errors
var (
	// ErrTimeout indicates a deadline expired. For analysis runs the
	// already-merged stage results are preserved; for Q&A the caller
	// receives this instead of a fabricated answer.
	ErrTimeout = stderrors.New("operation deadline exceeded")

	// ErrMeetingNotFound indicates no record exists for the meeting id.
	ErrMeetingNotFound = stderrors.New("meeting not found")

	// ErrAnalysisNotFound indicates no stored analysis for the meeting id.
	ErrAnalysisNotFound = stderrors.New("analysis not found")

	// ErrInvalidChunking indicates a window/overlap configuration where
	// the overlap does not fit inside the window.
	ErrInvalidChunking = stderrors.New("chunk overlap must be smaller than window")
)

// IsRetryable reports whether an upstream failure is transient and worth
// retrying: rate limits and server-side errors are, schema/validation and
// malformed-request failures are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var svcErr *ServiceError
	if stderrors.As(err, &svcErr) {
		return svcErr.Kind == ServiceKindRateLimit || svcErr.Kind == ServiceKindServerError
	}

	var schemaErr *SchemaValidationError
	if stderrors.As(err, &schemaErr) {
		return false
	}
	var fmtErr *FormatError
	if stderrors.As(err, &fmtErr) {
		return false
	}

	errStr := strings.ToLower(err.Error())

	// Network errors
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "network unreachable") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// API rate limiting
	if strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "429") {
		return true
	}

	// Server errors (5xx)
	if strings.Contains(errStr, "status 5") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "bad gateway") {
		return true
	}

	return false
}

// ClassifyServiceFailure maps a raw client error to a ServiceKind using the
// same string heuristics IsRetryable applies.
func ClassifyServiceFailure(err error) ServiceKind {
	if err == nil {
		return ServiceKindServerError
	}
	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "429") {
		return ServiceKindRateLimit
	}
	if strings.Contains(errStr, "400") ||
		strings.Contains(errStr, "401") ||
		strings.Contains(errStr, "403") ||
		strings.Contains(errStr, "404") ||
		strings.Contains(errStr, "invalid") ||
		strings.Contains(errStr, "bad request") {
		return ServiceKindInvalidRequest
	}
	return ServiceKindServerError
}

// General Errors

func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  message,
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

// Ingest / transcript errors

func ErrBadTranscript(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_TRANSCRIPT_FORMAT,
		Message:  "Transcript is empty or unparseable",
	}
}

func ErrIndexingFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_INDEXING_FAILED,
		Message:  "Failed to index transcript",
	}
}

// Analysis / Q&A errors

func ErrAnalysisFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_ANALYSIS_FAILED,
		Message:  "Meeting analysis failed",
	}
}

func ErrQuestionFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_QA_FAILED,
		Message:  "Failed to answer question",
	}
}

func ErrDeadlineExceeded() AppError {
	return AppError{
		Raw:      ErrTimeout,
		HTTPCode: http.StatusGatewayTimeout,
		Code:     ErrorCode_TIMEOUT,
		Message:  "Operation deadline exceeded",
	}
}

func ErrTranscriptionFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_TRANSCRIPTION_FAILED,
		Message:  "Audio transcription failed",
	}
}
