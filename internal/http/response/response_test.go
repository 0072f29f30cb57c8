package response

import (
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/bookhiveapp/bookhive-server/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var result Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	return result
}

func TestJSON_SuccessFlagFollowsStatus(t *testing.T) {
	tests := []struct {
		status          int
		expectedSuccess bool
	}{
		{http.StatusOK, true},
		{http.StatusCreated, true},
		{http.StatusNoContent, true},
		{399, true},
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
		{http.StatusNotFound, false},
		{http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			w := httptest.NewRecorder()
			JSON(w, tt.status, map[string]string{"key": "value"}, testLogger())

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.expectedSuccess, decodeEnvelope(t, w).Success)
		})
	}
}

func TestJSON_NilLoggerIsSafe(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, map[string]string{"message": "test"}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeEnvelope(t, w).Success)
}

func TestSuccessAndCreated(t *testing.T) {
	w := httptest.NewRecorder()
	Success(w, map[string]any{"id": "123"}, testLogger())
	assert.Equal(t, http.StatusOK, w.Code)

	result := decodeEnvelope(t, w)
	assert.True(t, result.Success)
	dataMap, ok := result.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "123", dataMap["id"])

	w = httptest.NewRecorder()
	Created(w, map[string]string{"id": "new-id"}, testLogger())
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeEnvelope(t, w).Success)
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	NoContent(w)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name   string
		write  func(w http.ResponseWriter)
		status int
	}{
		{"bad request", func(w http.ResponseWriter) { BadRequest(w, "boom", testLogger()) }, http.StatusBadRequest},
		{"unauthorized", func(w http.ResponseWriter) { Unauthorized(w, "boom", testLogger()) }, http.StatusUnauthorized},
		{"forbidden", func(w http.ResponseWriter) { Forbidden(w, "boom", testLogger()) }, http.StatusForbidden},
		{"not found", func(w http.ResponseWriter) { NotFound(w, "boom", testLogger()) }, http.StatusNotFound},
		{"internal", func(w http.ResponseWriter) { InternalError(w, "boom", testLogger()) }, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)

			assert.Equal(t, tt.status, w.Code)
			result := decodeEnvelope(t, w)
			assert.False(t, result.Success)
			assert.Equal(t, "boom", result.Error)
		})
	}
}

func TestHandleError_MapsDomainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"not found", apperrors.NotFound("Book not found"), http.StatusNotFound, "Book not found"},
		{"forbidden", apperrors.Forbidden("Unauthorized to edit this book"), http.StatusForbidden, "Unauthorized to edit this book"},
		{"validation", apperrors.Validation("No changes to update"), http.StatusBadRequest, "No changes to update"},
		{"unauthenticated", apperrors.ErrUnauthenticated, http.StatusUnauthorized, "User not authenticated"},
		{"unknown", fmt.Errorf("disk on fire"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleError(w, tt.err, testLogger())

			assert.Equal(t, tt.wantStatus, w.Code)
			result := decodeEnvelope(t, w)
			assert.False(t, result.Success)
			assert.Equal(t, tt.wantError, result.Error)
		})
	}
}

func TestEnvelope_OmitEmpty(t *testing.T) {
	data, err := json.Marshal(Envelope{Success: true, Data: "test"})
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"data\":\"test\"")
	assert.NotContains(t, string(data), "\"error\":")

	data, err = json.Marshal(Envelope{Success: false, Error: "something failed"})
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"error\":\"something failed\"")
	assert.NotContains(t, string(data), "\"data\":")
}
