package errs

import (
	"errors"
	"net/http"
)

var (
	ErrInternalServer       = errors.New("Internal server error")
	ErrClient               = errors.New("Bad request")
	ErrNotLoggedIn          = errors.New("Unauthorized access")
	ErrUnauthorized         = errors.New("Forbidden access")
	ErrNotFound             = errors.New("Resource not found")
	ErrPaymentNotConfirmed  = errors.New("Payment has not been confirmed by the gateway")
	ErrInvalidBreakdown     = errors.New("Commission breakdown does not sum to the order total")
	ErrGatewayDeclined      = errors.New("The payment was declined by the gateway")
	ErrGatewayUnavailable   = errors.New("The payment gateway could not be reached")
	ErrFileTooLarge         = errors.New("Uploaded file exceeds the size limit")
	ErrUnsupportedFileType  = errors.New("Uploaded file type is not supported")
	ErrProofFilesRequired   = errors.New("At least one proof file is required")
	ErrInstrumentNotFound   = errors.New("Payment instrument not found")
	ErrInstrumentNotOwned   = errors.New("Payment instrument belongs to another customer")
	ErrInstrumentInactive   = errors.New("Payment instrument has been removed")
	ErrInvalidPaymentMethod = errors.New("Unknown payment method")
)

var errorMap = map[error]int{
	ErrInternalServer:       http.StatusInternalServerError,
	ErrClient:               http.StatusBadRequest,
	ErrNotLoggedIn:          http.StatusUnauthorized,
	ErrUnauthorized:         http.StatusForbidden,
	ErrNotFound:             http.StatusNotFound,
	ErrPaymentNotConfirmed:  http.StatusPaymentRequired,
	ErrInvalidBreakdown:     http.StatusUnprocessableEntity,
	ErrGatewayDeclined:      http.StatusPaymentRequired,
	ErrGatewayUnavailable:   http.StatusBadGateway,
	ErrFileTooLarge:         http.StatusRequestEntityTooLarge,
	ErrUnsupportedFileType:  http.StatusBadRequest,
	ErrProofFilesRequired:   http.StatusBadRequest,
	ErrInstrumentNotFound:   http.StatusNotFound,
	ErrInstrumentNotOwned:   http.StatusForbidden,
	ErrInstrumentInactive:   http.StatusGone,
	ErrInvalidPaymentMethod: http.StatusBadRequest,
}

// Clients branch on these codes, never on message text.
var reasonMap = map[error]string{
	ErrInternalServer:       "internal_error",
	ErrClient:               "bad_request",
	ErrNotLoggedIn:          "not_logged_in",
	ErrUnauthorized:         "forbidden",
	ErrNotFound:             "not_found",
	ErrPaymentNotConfirmed:  "payment_not_confirmed",
	ErrInvalidBreakdown:     "invalid_breakdown",
	ErrGatewayDeclined:      "gateway_declined",
	ErrGatewayUnavailable:   "gateway_unavailable",
	ErrFileTooLarge:         "file_too_large",
	ErrUnsupportedFileType:  "unsupported_file_type",
	ErrProofFilesRequired:   "proof_files_required",
	ErrInstrumentNotFound:   "instrument_not_found",
	ErrInstrumentNotOwned:   "instrument_not_owned",
	ErrInstrumentInactive:   "instrument_inactive",
	ErrInvalidPaymentMethod: "invalid_payment_method",
}

func GetErrorStatusCode(err error) int {
	statusCode, ok := errorMap[err]
	if !ok {
		return http.StatusInternalServerError
	}
	return statusCode
}

func GetErrorReasonCode(err error) string {
	reason, ok := reasonMap[err]
	if !ok {
		return "internal_error"
	}
	return reason
}
