package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeValidation, http.StatusBadRequest},
		{"INVALID_INPUT", http.StatusBadRequest},
		{"INVALID_ITEM", http.StatusBadRequest},
		{"ERR_IMPORT_MISSING_HEADER", http.StatusBadRequest},
		{"ERR_IMPORT_FILE_TOO_LARGE", http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{"BRANDING_NOT_ALLOWED", http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{"DUPLICATE_STANDARD_INVOICE", http.StatusConflict},
		{"DUPLICATE_BALANCE_INVOICE", http.StatusConflict},
		{"ALREADY_EXISTS", http.StatusConflict},
		{"NO_BALANCE_REMAINING", http.StatusUnprocessableEntity},
		{"IMMUTABLE", http.StatusUnprocessableEntity},
		{"INVALID_STATE", http.StatusUnprocessableEntity},
		{ErrCodeBodyTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError("IMMUTABLE"))
	assert.True(t, IsClientError("ERR_IMPORT_EMPTY_FILE"))
	assert.False(t, IsClientError("SAVE_FAILED"))
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a"}, 21, 1, 20)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.TotalPages)

	resp = NewSuccessResponseWithMeta(nil, 0, 1, 0)
	assert.Equal(t, 0, resp.Meta.TotalPages)
}

func TestNewValidationErrorResponse_JSON(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "client_name", Message: "This field is required"},
	})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, false, decoded["success"])
	errInfo := decoded["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_ERROR", errInfo["code"])
	assert.Equal(t, "req-1", errInfo["request_id"])
	details := errInfo["details"].([]any)
	require.Len(t, details, 1)
	assert.Equal(t, "client_name", details[0].(map[string]any)["field"])
}

func TestNewErrorResponse_OmitsEmptyFields(t *testing.T) {
	raw, err := json.Marshal(NewErrorResponse("NOT_FOUND", "Quote not found"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":{"code":"NOT_FOUND","message":"Quote not found"}}`, string(raw))
}
