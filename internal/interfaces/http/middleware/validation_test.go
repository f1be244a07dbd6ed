package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/quotevoice/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLine struct {
	Description string `json:"description" binding:"required,max=10"`
}

type testQuote struct {
	ClientName  string     `json:"client_name" binding:"required"`
	ClientEmail string     `json:"client_email" binding:"omitempty,email"`
	Status      string     `json:"status" binding:"omitempty,oneof=draft sent"`
	Items       []testLine `json:"items" binding:"max=2,dive"`
}

func validationRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.POST("/quotes", func(c *gin.Context) {
		var req testQuote
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	return router
}

func postJSON(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleValidationError_FieldDetails(t *testing.T) {
	w := postJSON(validationRouter(), `{"client_email":"nope","status":"paid","items":[{"description":""}]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

	messages := map[string]string{}
	for _, d := range resp.Error.Details {
		messages[d.Field] = d.Message
	}
	assert.Equal(t, "This field is required", messages["client_name"])
	assert.Equal(t, "Invalid email format", messages["client_email"])
	assert.Equal(t, "Must be one of: draft sent", messages["status"])
	assert.Equal(t, "This field is required", messages["items[0].description"])
}

func TestHandleValidationError_InvalidJSON(t *testing.T) {
	w := postJSON(validationRouter(), `{"client_name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeInvalidJSON)
}

func TestHandleValidationError_WrongType(t *testing.T) {
	w := postJSON(validationRouter(), `{"client_name": 12}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeInvalidJSON)
}

func TestHandleValidationError_Valid(t *testing.T) {
	w := postJSON(validationRouter(), `{"client_name":"Jansen BV","items":[{"description":"Tegels"}]}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleValidationError_SliceMax(t *testing.T) {
	w := postJSON(validationRouter(), `{"client_name":"x","items":[{"description":"a"},{"description":"b"},{"description":"c"}]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Must contain at most 2 items")
}
