package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrTimeout, http.StatusServiceUnavailable},
		{ErrCorpusLoad, http.StatusServiceUnavailable},
		{errors.New("unclassified failure"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", ErrInvalidInput), http.StatusBadRequest},
		{New(ErrCorpusLoad, http.StatusServiceUnavailable, "corpus missing"), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatusCode(tt.err), "error: %v", tt.err)
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	appErr := New(ErrInvalidInput, http.StatusBadRequest, "page out of range")
	assert.ErrorIs(t, appErr, ErrInvalidInput)
	assert.Contains(t, appErr.Error(), "page out of range")
}
