// Package respond writes JSON responses and maps the closed error
// taxonomy onto HTTP statuses. Every handler goes through this package
// so error bodies never drift between features.
//
// Denied actions surface the engine's reason verbatim; internal failures
// surface only the INTERNAL code, with detail going to the log.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/bughive/bughive/internal/domain/authz"
	"go.uber.org/zap"
)

// Error codes form a closed set shared with API clients.
const (
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeNotFound        = "NOT_FOUND"
	CodeAlreadyExists   = "ALREADY_EXISTS"
	CodeSessionConflict = "SESSION_CONFLICT"
	CodeInternal        = "INTERNAL"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// NoContent writes a bodyless 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes a taxonomy error with an explicit status.
func Error(w http.ResponseWriter, status int, code, msg string) {
	JSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

// InvalidInput writes a 400 INVALID_INPUT error.
func InvalidInput(w http.ResponseWriter, msg string) {
	Error(w, http.StatusBadRequest, CodeInvalidInput, msg)
}

// Unauthorized writes a 403 UNAUTHORIZED error.
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, CodeUnauthorized, "you do not have permission to perform this action")
}

// NotSignedIn writes a 401 UNAUTHORIZED error for unauthenticated
// requests.
func NotSignedIn(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, CodeUnauthorized, "sign in required")
}

// NotFound writes a 404 NOT_FOUND error. Also used for denied views
// (least disclosure: a resource the principal cannot see does not
// exist for them).
func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, CodeNotFound, "not found")
}

// AlreadyExists writes a 409 ALREADY_EXISTS error.
func AlreadyExists(w http.ResponseWriter, msg string) {
	Error(w, http.StatusConflict, CodeAlreadyExists, msg)
}

// SessionConflict writes a 409 SESSION_CONFLICT error.
func SessionConflict(w http.ResponseWriter, msg string) {
	Error(w, http.StatusConflict, CodeSessionConflict, msg)
}

// Internal logs err with context and writes a 500 INTERNAL error
// without detail.
func Internal(w http.ResponseWriter, log *zap.Logger, msg string, err error) {
	log.Error(msg, zap.Error(err))
	Error(w, http.StatusInternalServerError, CodeInternal, "an internal error occurred")
}

// Denied maps an engine DENY decision to a mutation response:
// UNAUTHORIZED to 403, INVALID_INPUT to 400.
func Denied(w http.ResponseWriter, d authz.Decision) {
	switch d.Reason {
	case authz.ReasonInvalidInput:
		InvalidInput(w, "malformed authorization input")
	default:
		Unauthorized(w)
	}
}

// DeniedHidden maps an engine DENY decision to a view response. Denied
// views read as 404 so the existence of the resource is not disclosed.
func DeniedHidden(w http.ResponseWriter, d authz.Decision) {
	if d.Reason == authz.ReasonInvalidInput {
		InvalidInput(w, "malformed authorization input")
		return
	}
	NotFound(w)
}
