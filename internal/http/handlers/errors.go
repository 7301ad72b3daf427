// Stable machine-readable error codes carried in ErrorResponse.Code. Handlers
// pick the most specific code and pass it to fail() together with the HTTP
// status; clients branch on the code, not the message.

package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// business-logic failures that a status alone cannot convey
	ErrCodeCreateFailed     = "create_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeTrainFailed      = "train_failed"
	ErrCodeGenerateFailed   = "generate_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
