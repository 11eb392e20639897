package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uaifood/internal/api/response"
	"uaifood/internal/domain"
	apperror "uaifood/internal/errors"
	"uaifood/internal/pkg/logger"
)

func TestHandle_Success(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)

	response.Handle(rec, req, logger.NewNopLogger(), map[string]string{"ok": "sim"}, nil, http.StatusCreated)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":"sim"}`, rec.Body.String())
}

func TestHandle_NoContent(t *testing.T) {
	rec := httptest.NewRecorder()

	response.Handle(rec, httptest.NewRequest(http.MethodDelete, "/x", nil), nil, nil, nil, http.StatusNoContent)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestError_ValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := apperror.NewFieldValidationError("Dados inválidos.", map[string]string{"items": "campo obrigatório"})

	response.Error(rec, httptest.NewRequest(http.MethodPost, "/orders", nil), logger.NewNopLogger(), err)

	var body domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", body.Category)
	assert.Equal(t, "campo obrigatório", body.Details["items"])
}

func TestError_InternalDoesNotLeakCause(t *testing.T) {
	rec := httptest.NewRecorder()
	err := apperror.NewDBError("Falha ao criar pedido", errors.New("pq: password authentication failed"))

	response.Error(rec, httptest.NewRequest(http.MethodPost, "/orders", nil), logger.NewNopLogger(), err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password authentication")
}
