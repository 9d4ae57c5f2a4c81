package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{&common.ValidationError{Field: "email", Message: "bad"}, http.StatusBadRequest, "VALIDATION_FAILED"},
		{&common.ConflictError{Message: "dup"}, http.StatusBadRequest, "CONFLICT"},
		{common.NewAuthError(common.AuthMissingCredential), http.StatusUnauthorized, "NO_TOKEN"},
		{common.NewAuthError(common.AuthExpired), http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{common.NewAuthError(common.AuthInvalid), http.StatusUnauthorized, "INVALID_TOKEN"},
		{common.NewAuthError(common.AuthInvalidCredentials), http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{common.NewAuthError(common.AuthInternal), http.StatusInternalServerError, "AUTH_FAILED"},
		{fmt.Errorf("wrapped: %w", &common.NotFoundError{Resource: "account"}), http.StatusNotFound, "NOT_FOUND"},
		{&common.AuthorizationError{}, http.StatusForbidden, "FORBIDDEN"},
		{common.ErrorInternal, http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		status, code, _ := statusFor(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.code, code, tt.err.Error())
	}
}

func TestStatusFor_NoLeak(t *testing.T) {
	_, _, msg := statusFor(errors.New("pq: password authentication failed for user admin"))
	assert.Equal(t, "internal server error", msg)
}
