package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAppError_Classification(t *testing.T) {
	t.Run("Should find AppError through wrapping", func(t *testing.T) {
		err := fmt.Errorf("resolver: %w", NewNotFoundError("vertex"))

		assert.True(t, IsAppError(err))
		assert.True(t, IsNotFound(err))
		assert.False(t, IsValidation(err))
		assert.Equal(t, "vertex not found", GetAppError(err).Message)
	})

	t.Run("Should wrap plain errors as internal", func(t *testing.T) {
		err := Wrap(fmt.Errorf("boom"), "listing vertices")

		appErr := GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, ErrorTypeInternal, appErr.Type)
		assert.Contains(t, appErr.Error(), "boom")
	})

	t.Run("Should prefix message of existing AppError", func(t *testing.T) {
		err := Wrapf(NewValidationError("label is required"), "vertex %s", "v1")

		assert.Equal(t, "vertex v1: label is required", GetAppError(err).Message)
	})

	t.Run("Should return nil when wrapping nil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, "anything"))
	})
}

func TestErrorHandler_Handle(t *testing.T) {
	handler := NewErrorHandler(zap.NewNop(), false)

	t.Run("Should use the AppError status", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/vertices/x", nil)
		req.Header.Set("X-Request-ID", "req-1")
		w := httptest.NewRecorder()

		handler.Handle(w, req, NewNotFoundError("vertex"))

		assert.Equal(t, http.StatusNotFound, w.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "NOT_FOUND", body.Type)
		assert.Equal(t, "req-1", body.RequestID)
	})

	t.Run("Should hide generic error text outside debug mode", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		handler.Handle(w, req, fmt.Errorf("secret detail"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "secret detail")
	})

	t.Run("Should recover panics in middleware", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		handler.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("test panic")
		})).ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "error")
	})
}
