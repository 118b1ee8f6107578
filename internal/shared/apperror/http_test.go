package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTTPMapsAppError(t *testing.T) {
	err := New(CodeConflict, "already exists", http.StatusConflict)

	httpErr := ToHTTP(err)

	assert.Equal(t, http.StatusConflict, httpErr.Status)
	assert.Equal(t, CodeConflict, httpErr.Code)
	assert.Equal(t, "already exists", httpErr.Message)
	assert.Empty(t, httpErr.Details)
}

func TestToHTTPUnknownErrorBecomesOpaque500(t *testing.T) {
	httpErr := ToHTTP(errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, CodeInternalError, httpErr.Code)
	assert.NotContains(t, httpErr.Message, "connection refused")
}

func TestToHTTPExposesDetailOnlyForServerErrors(t *testing.T) {
	clientErr := Wrap(errors.New("secret detail"), CodeInvalidInput, "bad input", http.StatusBadRequest)
	assert.Empty(t, ToHTTP(clientErr).Details)

	serverErr := Wrap(errors.New("disk full"), CodeInternalError, "storage failed", http.StatusInternalServerError)
	assert.Equal(t, "disk full", ToHTTP(serverErr).Details)
}

func TestToHTTPUnwrapsNestedAppError(t *testing.T) {
	inner := New(CodeNotFound, "missing", http.StatusNotFound)
	wrapped := errors.Join(errors.New("context"), inner)

	httpErr := ToHTTP(wrapped)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}
