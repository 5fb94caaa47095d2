package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeNotImplemented     ErrorCode = "COMMON_015"
)

// Notification Module Error Codes
const (
	ErrCodeNotificationNotFound   ErrorCode = "NTF_001"
	ErrCodeNotificationDownloaded ErrorCode = "NTF_002"
	ErrCodeNotificationExpired    ErrorCode = "NTF_003"
)

// Task Module Error Codes
const (
	ErrCodeTaskNotFound         ErrorCode = "TSK_001"
	ErrCodeTaskAlreadyCompleted ErrorCode = "TSK_002"
	ErrCodeTemplateInvalid      ErrorCode = "TSK_003"
	ErrCodeTaskBatchFailed      ErrorCode = "TSK_004"
	ErrCodeLawyerNotFound       ErrorCode = "TSK_005"
)

// Alert Module Error Codes
const (
	ErrCodeAlertDeliveryFailed ErrorCode = "ALR_001"
	ErrCodeAlertStateError     ErrorCode = "ALR_002"
	ErrCodeAlertEventError     ErrorCode = "ALR_003"
)

// Aliases used throughout the codebase
const (
	CodeInternal       = ErrCodeInternal
	CodeInvalidParam   = ErrCodeBadRequest
	CodeUnauthorized   = ErrCodeUnauthorized
	CodeForbidden      = ErrCodeForbidden
	CodeNotFound       = ErrCodeNotFound
	CodeConflict       = ErrCodeConflict
	CodeRateLimit      = ErrCodeTooManyRequests
	CodeNotImplemented = ErrCodeNotImplemented
	CodeOK             = ErrorCode("OK")
	CodeUnknown        = ErrorCode("UNKNOWN")

	// Domain specific aliases
	CodeNotificationNotFound = ErrCodeNotificationNotFound
	CodeTaskNotFound         = ErrCodeTaskNotFound
	CodeLawyerNotFound       = ErrCodeLawyerNotFound
	CodeTemplateInvalid      = ErrCodeTemplateInvalid
)

// Infrastructure Error Codes
const (
	CodeDBConnectionError = ErrCodeDatabaseError
	CodeDatabaseError     = ErrCodeDatabaseError
	CodeDBQueryError      = ErrCodeDatabaseError
	CodeCacheError        = ErrCodeCacheError
	CodeMessageQueueError = ErrCodeAlertEventError
	CodeMailError         = ErrCodeAlertDeliveryFailed
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeNotificationNotFound:   http.StatusNotFound,
	ErrCodeNotificationDownloaded: http.StatusConflict,
	ErrCodeNotificationExpired:    http.StatusConflict,

	ErrCodeTaskNotFound:         http.StatusNotFound,
	ErrCodeTaskAlreadyCompleted: http.StatusConflict,
	ErrCodeTemplateInvalid:      http.StatusUnprocessableEntity,
	ErrCodeTaskBatchFailed:      http.StatusInternalServerError,
	ErrCodeLawyerNotFound:       http.StatusNotFound,

	ErrCodeAlertDeliveryFailed: http.StatusInternalServerError,
	ErrCodeAlertStateError:     http.StatusInternalServerError,
	ErrCodeAlertEventError:     http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeNotificationNotFound:   "notification not found",
	ErrCodeNotificationDownloaded: "notification already downloaded",
	ErrCodeNotificationExpired:    "notification acceptance window expired",

	ErrCodeTaskNotFound:         "task not found",
	ErrCodeTaskAlreadyCompleted: "task already completed",
	ErrCodeTemplateInvalid:      "invalid task template",
	ErrCodeTaskBatchFailed:      "task batch creation failed",
	ErrCodeLawyerNotFound:       "lawyer not found",

	ErrCodeAlertDeliveryFailed: "failed to deliver alert",
	ErrCodeAlertStateError:     "alert state store error",
	ErrCodeAlertEventError:     "failed to publish alert event",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
