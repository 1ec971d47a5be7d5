package errors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// ErrorResponse represents the API error response format
type ErrorResponse struct {
	Error     bool                   `json:"error"`
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Code      string                 `json:"code,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// ErrorHandler handles errors and sends appropriate HTTP responses
type ErrorHandler struct {
	logger        *zap.Logger
	debug         bool
	defaultStatus int
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger, debug bool) *ErrorHandler {
	return &ErrorHandler{
		logger:        logger,
		debug:         debug,
		defaultStatus: http.StatusInternalServerError,
	}
}

// Handle processes an error and sends an HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	requestID := r.Header.Get("X-Request-ID")

	var status int
	var response ErrorResponse

	if appErr := GetAppError(err); appErr != nil {
		status = appErr.HTTPStatus
		if status == 0 {
			status = h.defaultStatus
		}

		response = ErrorResponse{
			Error:     true,
			Type:      string(appErr.Type),
			Message:   appErr.Message,
			Code:      appErr.Code,
			Details:   appErr.Details,
			RequestID: requestID,
		}

		h.logError(r, appErr, status)

		if h.debug && appErr.StackTrace != "" {
			if response.Details == nil {
				response.Details = make(map[string]interface{})
			}
			response.Details["stack_trace"] = appErr.StackTrace
		}
	} else {
		status = h.defaultStatus
		response = ErrorResponse{
			Error:     true,
			Type:      string(ErrorTypeInternal),
			Message:   "An internal error occurred",
			RequestID: requestID,
		}

		h.logger.Error("Unhandled error",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestID),
			zap.Int("status", status),
		)

		if h.debug {
			response.Message = err.Error()
		}
	}

	h.sendJSON(w, status, response)
}

func (h *ErrorHandler) logError(r *http.Request, err *AppError, status int) {
	fields := []zap.Field{
		zap.String("error_type", string(err.Type)),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("request_id", r.Header.Get("X-Request-ID")),
	}

	if err.Code != "" {
		fields = append(fields, zap.String("error_code", err.Code))
	}
	if err.Cause != nil {
		fields = append(fields, zap.Error(err.Cause))
	}

	switch {
	case status >= 500:
		h.logger.Error(err.Message, fields...)
	case status >= 400:
		h.logger.Warn(err.Message, fields...)
	default:
		h.logger.Info(err.Message, fields...)
	}
}

func (h *ErrorHandler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode error response", zap.Error(err))
	}
}

// Middleware returns an HTTP middleware that turns panics into error responses
func (h *ErrorHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.Handle(w, r, NewInternalError(fmt.Sprintf("panic: %v", rec)))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
