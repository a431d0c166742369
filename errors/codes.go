package errors

// ErrorCode identifies an error category in API responses.
type ErrorCode int

const (
	ErrorCode_INTERNAL ErrorCode = iota
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_NOT_FOUND
	ErrorCode_TRANSCRIPT_FORMAT
	ErrorCode_INDEXING_FAILED
	ErrorCode_ANALYSIS_FAILED
	ErrorCode_QA_FAILED
	ErrorCode_TIMEOUT
	ErrorCode_TRANSCRIPTION_FAILED
)

// String returns the wire representation of the code.
func (c ErrorCode) String() string {
	switch c {
	case ErrorCode_INTERNAL:
		return "INTERNAL"
	case ErrorCode_INVALID_ARGUMENT:
		return "INVALID_ARGUMENT"
	case ErrorCode_NOT_FOUND:
		return "NOT_FOUND"
	case ErrorCode_TRANSCRIPT_FORMAT:
		return "TRANSCRIPT_FORMAT"
	case ErrorCode_INDEXING_FAILED:
		return "INDEXING_FAILED"
	case ErrorCode_ANALYSIS_FAILED:
		return "ANALYSIS_FAILED"
	case ErrorCode_QA_FAILED:
		return "QA_FAILED"
	case ErrorCode_TIMEOUT:
		return "TIMEOUT"
	case ErrorCode_TRANSCRIPTION_FAILED:
		return "TRANSCRIPTION_FAILED"
	default:
		return "UNKNOWN"
	}
}
