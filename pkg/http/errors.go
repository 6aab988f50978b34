package http

import (
	"encoding/json"
	"net/http"
)

// Stable machine-readable error codes returned in the errorCode field.
const (
	CodeAuthMissing      = "AUTH_MISSING"
	CodeAuthInvalid      = "AUTH_INVALID"
	CodeRoleCheckFailed  = "ROLE_CHECK_FAILED"
	CodeForbidden        = "FORBIDDEN"
	CodeInvalidJSON      = "INVALID_JSON"
	CodeInvalidAction    = "INVALID_ACTION"
	CodeUnknownAction    = "UNKNOWN_ACTION"
	CodeValidationError  = "VALIDATION_ERROR"
	CodeAlreadySuspended = "ALREADY_SUSPENDED"
	CodeSelfSuspension   = "SELF_SUSPENSION"
	CodeStatusTerminal   = "STATUS_TERMINAL"
	CodeSuspendFailed    = "SUSPEND_FAILED"
	CodeUnsuspendFailed  = "UNSUSPEND_FAILED"
	CodeUpdateFailed     = "UPDATE_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeRateLimited      = "RATE_LIMITED"
	CodeInternalError    = "INTERNAL_ERROR"
)

// ErrorResponse is the uniform failure envelope.
type ErrorResponse struct {
	Success   bool                   `json:"success"`
	Error     string                 `json:"error"`     // Human-readable message
	ErrorCode string                 `json:"errorCode"` // Stable machine-readable code
	Details   map[string]interface{} `json:"details,omitempty"`
}

// WriteError writes a JSON error envelope with the given status code
func WriteError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	WriteErrorWithDetails(w, statusCode, errorCode, message, nil)
}

// WriteErrorWithDetails writes a JSON error envelope with additional details
func WriteErrorWithDetails(w http.ResponseWriter, statusCode int, errorCode, message string, details map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := ErrorResponse{
		Success:   false,
		Error:     message,
		ErrorCode: errorCode,
		Details:   details,
	}

	// Log encoding errors but don't expose them to client
	_ = json.NewEncoder(w).Encode(resp)
}

// Common error writers for consistency
func WriteUnauthorized(w http.ResponseWriter, errorCode, message string) {
	WriteError(w, http.StatusUnauthorized, errorCode, message)
}

func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, CodeForbidden, message)
}

func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, CodeNotFound, message)
}

func WriteInternalError(w http.ResponseWriter, errorCode, message string) {
	WriteError(w, http.StatusInternalServerError, errorCode, message)
}
