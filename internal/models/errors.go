package models

import "errors"

var (
	ErrNotFound       = errors.New("subscription not found")
	ErrDeviceNotFound = errors.New("device not found")
)

// CAMARA machine-readable error codes returned by the API layer.
const (
	CodeInvalidProtocol        = "INVALID_PROTOCOL"
	CodeMissingIdentifier      = "MISSING_IDENTIFIER"
	CodeAreaNotCovered         = "GEOFENCING_SUBSCRIPTIONS.AREA_NOT_COVERED"
	CodeMultiEventNotSupported = "MULTIEVENT_SUBSCRIPTION_NOT_SUPPORTED"
	CodeInvalidArea            = "GEOFENCING_SUBSCRIPTIONS.INVALID_AREA"

	CodeVerificationAreaNotCovered = "LOCATION_VERIFICATION.AREA_NOT_COVERED"
	CodeVerificationInvalidArea    = "LOCATION_VERIFICATION.INVALID_AREA"
	CodeIdentifierNotFound         = "IDENTIFIER_NOT_FOUND"

	CodeRetrievalDeviceNotFound = "LOCATION_RETRIEVAL.DEVICE_NOT_FOUND"
	CodeUnableToFulfillMaxAge   = "LOCATION_RETRIEVAL.UNABLE_TO_FULFILL_MAX_AGE"
	CodeUnableToFulfillSurface  = "LOCATION_RETRIEVAL.UNABLE_TO_FULFILL_MAX_SURFACE"
)

// ServiceError carries the HTTP status and CAMARA error code for a failed
// operation, and doubles as the JSON error body.
type ServiceError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ServiceError) Error() string {
	return e.Code + ": " + e.Message
}

func NewServiceError(status int, code, message string) *ServiceError {
	return &ServiceError{Status: status, Code: code, Message: message}
}
