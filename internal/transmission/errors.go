package transmission

import (
	"errors"

	"github.com/Keeper-Security/secrets-manager-sub004/models"
)

var (
	errEmptyToken   = errors.New("empty one-time token")
	errNoHostname   = errors.New("no hostname: token has no region and no hostname was configured")
	errNoCache      = errors.New("no cached exchange available")
	errNoCredential = errors.New("storage holds no bound credential and no token was provided")
)

// resultCodeKinds maps server result codes onto the sentinel error kinds of
// the taxonomy. Codes without an entry surface as a generic
// [models.ServerError].
var resultCodeKinds = map[string]error{
	"bad_request":       models.ErrBadRequest,
	"invalid_client_id": models.ErrInvalidClient,
	"invalid_client":    models.ErrInvalidClient,
	"signature":         models.ErrSignatureInvalid,
	"invalid_signature": models.ErrSignatureInvalid,
	"invalid_token":     models.ErrSignatureInvalid,
	"uid_not_found":     models.ErrUIDNotFound,
	"record_not_found":  models.ErrUIDNotFound,
	"access_denied":     models.ErrAccessDenied,
	"forbidden":         models.ErrAccessDenied,
	"throttled":         models.ErrThrottled,
}

// mapServerError turns a structured non-2xx body into a typed error.
func mapServerError(statusCode int, resp *models.ServerErrorResponse) *models.ServerError {
	code := resp.Code()
	return &models.ServerError{
		StatusCode: statusCode,
		ResultCode: code,
		Message:    resp.Message,
		Kind:       resultCodeKinds[code],
	}
}
