package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"bakery-api/internal/apperror"

	"go.uber.org/zap"
)

// ValidationError represents a field validation error
type ValidationError = apperror.FieldError

// SuccessResponse is the envelope of every successful response
type SuccessResponse struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

// ErrorResponse is the envelope of every failed response
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Errors    []ValidationError `json:"errors,omitempty"`
	Timestamp string            `json:"timestamp"`
}

// Codes for failures raised by the HTTP layer itself rather than a service.
const (
	CodeForbidden   = "FORBIDDEN"
	CodeRateLimited = "RATE_LIMITED"
	CodeNotFound    = "NOT_FOUND"
	CodeNotAllowed  = "METHOD_NOT_ALLOWED"
)

// RespondWithJSON sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// RespondWithData wraps data in the success envelope
func RespondWithData(w http.ResponseWriter, statusCode int, message string, data any) {
	RespondWithJSON(w, statusCode, SuccessResponse{Message: message, Data: data})
}

// RespondWithError sends a structured error response
func RespondWithError(w http.ResponseWriter, statusCode int, code, message string) {
	respondWithErrorDetails(w, statusCode, code, message, nil)
}

func respondWithErrorDetails(w http.ResponseWriter, statusCode int, code, message string, errors []ValidationError) {
	RespondWithJSON(w, statusCode, ErrorResponse{
		Code:      code,
		Message:   message,
		Errors:    errors,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// RespondWithValidationErrors sends validation error response
func RespondWithValidationErrors(w http.ResponseWriter, errors []ValidationError) {
	respondWithErrorDetails(w, http.StatusBadRequest, apperror.KindValidation.Code(), "validation failed", errors)
}

// RespondWithAppError writes err using the status and code of its kind.
// Server-side failures are logged with their cause; the client only ever
// sees the generic message.
func RespondWithAppError(w http.ResponseWriter, logger *zap.Logger, err error) {
	appErr := apperror.From(err)
	status := appErr.Kind.HTTPStatus()

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.Error(err))
	} else {
		logger.Debug("Request rejected",
			zap.String("code", appErr.Kind.Code()),
			zap.String("message", appErr.Message),
		)
	}

	respondWithErrorDetails(w, status, appErr.Kind.Code(), appErr.Message, appErr.Fields)
}

// ErrorHandlingMiddleware catches panics and converts them to 500 errors
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					logger.Error("Panic recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)

					RespondWithError(w, http.StatusInternalServerError, apperror.KindInternal.Code(), "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// NotFoundHandler answers unknown routes with the error envelope
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	RespondWithError(w, http.StatusNotFound, CodeNotFound, "route not found")
}

// MethodNotAllowedHandler answers known routes called with the wrong verb
func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	RespondWithError(w, http.StatusMethodNotAllowed, CodeNotAllowed, "method not allowed")
}
