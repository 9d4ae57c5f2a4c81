package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// statusFor maps a domain error to an HTTP status, a machine-readable code
// and a message that is safe to show. Unknown errors never leak detail.
func statusFor(err error) (int, string, string) {
	var (
		ve  *common.ValidationError
		ce  *common.ConflictError
		ae  *common.AuthError
		ne  *common.NotFoundError
		aze *common.AuthorizationError
	)

	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, "VALIDATION_FAILED", ve.Error()
	case errors.As(err, &ce):
		return http.StatusBadRequest, "CONFLICT", ce.Error()
	case errors.As(err, &ae):
		switch ae.Kind {
		case common.AuthInternal:
			return http.StatusInternalServerError, "AUTH_FAILED", ae.Error()
		case common.AuthExpired:
			return http.StatusUnauthorized, "TOKEN_EXPIRED", ae.Error()
		case common.AuthMissingCredential:
			return http.StatusUnauthorized, "NO_TOKEN", ae.Error()
		case common.AuthInvalidCredentials:
			return http.StatusUnauthorized, "INVALID_CREDENTIALS", ae.Error()
		default:
			return http.StatusUnauthorized, "INVALID_TOKEN", ae.Error()
		}
	case errors.As(err, &ne):
		return http.StatusNotFound, "NOT_FOUND", ne.Error()
	case errors.As(err, &aze):
		return http.StatusForbidden, "FORBIDDEN", aze.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL", "internal server error"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, code, msg := statusFor(err)
	writeFailure(w, status, code, msg)
}
