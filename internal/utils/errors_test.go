package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code     Code
		expected int
	}{
		{CodeInvalidArgument, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeTooLarge, http.StatusRequestEntityTooLarge},
		{CodeUnavailable, http.StatusServiceUnavailable},
		{CodeTimeout, http.StatusGatewayTimeout},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := E(tt.code, "Op", "msg", nil)
			assert.Equal(t, tt.expected, HTTPStatus(err))
		})
	}
}

func TestHTTPStatusFallbacks(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrNotFound))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(fmt.Errorf("repo: %w", ErrNotFound)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestIsCodeUnwraps(t *testing.T) {
	inner := E(CodeNotFound, "Repo.Get", "not found", nil)
	wrapped := fmt.Errorf("service: %w", inner)

	assert.True(t, IsCode(wrapped, CodeNotFound))
	assert.False(t, IsCode(wrapped, CodeConflict))
	assert.False(t, IsCode(errors.New("plain"), CodeNotFound))
}

func TestAppErrorMessage(t *testing.T) {
	err := E(CodeInternal, "EmployeeService.Create", "failed to create employee", errors.New("duplicate key"))
	assert.Equal(t, "EmployeeService.Create: failed to create employee: duplicate key", err.Error())

	var ae *AppError
	assert.True(t, errors.As(err, &ae))
	assert.Equal(t, "duplicate key", ae.Unwrap().Error())
}
