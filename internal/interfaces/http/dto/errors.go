package dto

import "net/http"

// API error codes carried in the response envelope. Domain errors are mapped
// onto them by NormalizeErrorCode.
const (
	ErrCodeInternal   = "ERR_INTERNAL"
	ErrCodeValidation = "ERR_VALIDATION"
	ErrCodeBadRequest = "ERR_BAD_REQUEST"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeNoChange            = "ERR_NO_CHANGE"

	ErrCodeInvalidInput      = "ERR_INVALID_INPUT"
	ErrCodeDependencyMissing = "ERR_DEPENDENCY_MISSING"

	// Stock and state rules; these are 422 so clients can tell a rejected
	// business rule apart from a malformed request
	ErrCodeInvalidState         = "ERR_INVALID_STATE"
	ErrCodeInsufficientStock    = "ERR_INSUFFICIENT_STOCK"
	ErrCodeConsistencyViolation = "ERR_CONSISTENCY_VIOLATION"

	// ErrCodeServiceUnavailable is returned when the notification hub is full
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"
)

type codeInfo struct {
	status int
	domain []string
}

var codes = map[string]codeInfo{
	ErrCodeInternal:             {http.StatusInternalServerError, nil},
	ErrCodeValidation:           {http.StatusBadRequest, nil},
	ErrCodeBadRequest:           {http.StatusBadRequest, nil},
	ErrCodeUnauthorized:         {http.StatusUnauthorized, []string{"UNAUTHORIZED"}},
	ErrCodeTokenExpired:         {http.StatusUnauthorized, nil},
	ErrCodeNotFound:             {http.StatusNotFound, []string{"NOT_FOUND"}},
	ErrCodeAlreadyExists:        {http.StatusConflict, []string{"ALREADY_EXISTS"}},
	ErrCodeConcurrencyConflict:  {http.StatusConflict, []string{"CONCURRENCY_CONFLICT", "OPTIMISTIC_LOCK_FAILED"}},
	ErrCodeNoChange:             {http.StatusConflict, []string{"NO_CHANGE"}},
	ErrCodeInvalidInput:         {http.StatusBadRequest, []string{"INVALID_INPUT"}},
	ErrCodeDependencyMissing:    {http.StatusBadRequest, []string{"DEPENDENCY_MISSING"}},
	ErrCodeInvalidState:         {http.StatusUnprocessableEntity, []string{"INVALID_STATE"}},
	ErrCodeInsufficientStock:    {http.StatusUnprocessableEntity, []string{"INSUFFICIENT_STOCK"}},
	ErrCodeConsistencyViolation: {http.StatusUnprocessableEntity, []string{"CONSISTENCY_VIOLATION"}},
	ErrCodeServiceUnavailable:   {http.StatusServiceUnavailable, nil},
}

var fromDomain = func() map[string]string {
	m := make(map[string]string)
	for api, info := range codes {
		for _, d := range info.domain {
			m[d] = api
		}
	}
	return m
}()

// GetHTTPStatus returns the HTTP status for an API error code, 500 when unknown
func GetHTTPStatus(code string) int {
	if info, ok := codes[code]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode converts a domain error code to its API code. API codes
// and unknown codes pass through unchanged.
func NormalizeErrorCode(code string) string {
	if api, ok := fromDomain[code]; ok {
		return api
	}
	return code
}
