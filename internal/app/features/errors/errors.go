// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/donorhub/internal/app/system/apiresp"
	"github.com/dalemusser/donorhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// DefaultMessage is shown to clients for unexpected failures.
const DefaultMessage = "Something went wrong. Please try again."

// ErrorLogger logs server-side failures with request context and answers
// with the opaque internal_error envelope. Only the caller's message
// reaches the client.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// LogServerError logs err under msg and writes a 500. userMsg may be empty.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if id := middleware.GetReqID(r.Context()); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if u, ok := auth.CurrentUser(r); ok {
		fields = append(fields, zap.String("user_id", u.ID))
	}
	e.Log.Error(msg, fields...)

	if userMsg == "" {
		userMsg = DefaultMessage
	}
	apiresp.Fail(w, http.StatusInternalServerError, apiresp.CodeInternal, userMsg)
}

// NotFound answers unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	apiresp.Fail(w, http.StatusNotFound, apiresp.CodeNotFound, "Route not found.")
}

// MethodNotAllowed answers a known path with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	apiresp.Fail(w, http.StatusMethodNotAllowed, apiresp.CodeNotFound, "Method not allowed.")
}
