package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFromError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ErrNotFound, http.StatusNotFound},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrBadRequest, http.StatusBadRequest},
		{ErrValidation, http.StatusBadRequest},
		{ErrUnsupportedLanguage, http.StatusBadRequest},
		{ErrConflict, http.StatusConflict},
		{ErrBatchInFlight, http.StatusTooManyRequests},
		{ErrCooldownActive, http.StatusTooManyRequests},
		{errors.New("anything else"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatusFromError(tc.err), "error: %v", tc.err)
	}
}

func TestHTTPStatusFromWrappedError(t *testing.T) {
	err := fmt.Errorf("problem 42: %w", ErrNotFound)
	assert.Equal(t, http.StatusNotFound, HTTPStatusFromError(err))

	err = fmt.Errorf("slot taken: %w", ErrBatchInFlight)
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatusFromError(err))
}
