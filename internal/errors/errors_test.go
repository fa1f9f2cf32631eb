package errors

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	err := New(http.StatusNotFound, "NOT_FOUND", "Resource not found")

	assert.Equal(t, "Resource not found", err.Error())
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "NOT_FOUND", err.ErrorCode)
	assert.Nil(t, err.Details)
}

func TestNewWithDetails(t *testing.T) {
	err := NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "bad input", map[string]string{"field": "supplier"})

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	require.NotNil(t, err.Details)
}

func TestSupplierNotFoundError(t *testing.T) {
	err := SupplierNotFoundError("GLOBEX")

	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "SUPPLIER_NOT_FOUND", err.ErrorCode)
	assert.Contains(t, err.Message, `"GLOBEX"`)
	assert.Equal(t, "GLOBEX", err.Details)
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("threshold", "must be between 0 and 100")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	detail, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "threshold", detail.Field)
}

func TestProblemDetailsMarshalJSON(t *testing.T) {
	problem := NewProblemDetails(
		http.StatusNotFound,
		TypeSupplierNotFound,
		"Supplier Not Found",
		"no records match supplier",
		"/api/promos/globex",
	).WithExtension("trace_id", "abc-123")

	raw, err := json.Marshal(problem)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, TypeSupplierNotFound, decoded["type"])
	assert.Equal(t, "Supplier Not Found", decoded["title"])
	assert.Equal(t, float64(http.StatusNotFound), decoded["status"])
	assert.Equal(t, "no records match supplier", decoded["detail"])
	assert.Equal(t, "/api/promos/globex", decoded["instance"])
	assert.Equal(t, "abc-123", decoded["trace_id"])
}

func TestProblemDetailsOmitsEmptyFields(t *testing.T) {
	problem := NewProblemDetails(http.StatusInternalServerError, TypeInternal, "Internal Server Error", "", "")

	raw, err := json.Marshal(problem)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	_, hasDetail := decoded["detail"]
	assert.False(t, hasDetail)
	_, hasInstance := decoded["instance"]
	assert.False(t, hasInstance)
}
