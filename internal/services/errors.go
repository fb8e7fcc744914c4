package services

import (
	"errors"
	"net/http"

	goa "goa.design/goa/v3/pkg"

	apperrors "creatorsite/pkg/errors"
)

// Error names used on the wire.
const (
	ErrNameBadRequest    = "bad_request"
	ErrNameInvalidStatus = "invalid_status"
	ErrNameNotFound      = "not_found"
	ErrNameUnauthorized  = "unauthorized"
	ErrNamePersistence   = "persistence_error"
	ErrNameInternal      = "internal_error"
)

// ErrorResult is the JSON body written for every failed request.
type ErrorResult struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Fault   bool   `json:"fault"`
}

// StatusCode implements goahttp.Statuser.
func (e *ErrorResult) StatusCode() int {
	switch e.Name {
	case ErrNameBadRequest, ErrNameInvalidStatus:
		return http.StatusBadRequest
	case ErrNameNotFound:
		return http.StatusNotFound
	case ErrNameUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// MakeServiceError converts any error into a goa ServiceError. Application
// errors keep their message; anything else becomes an opaque internal fault.
func MakeServiceError(err error) *goa.ServiceError {
	var svcErr *goa.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return goa.NewServiceError(errors.New("internal server error"), ErrNameInternal, false, false, true)
	}

	msg := errors.New(appErr.Message)
	switch appErr.Code {
	case apperrors.ErrCodeValidation:
		return goa.NewServiceError(msg, ErrNameBadRequest, false, false, false)
	case apperrors.ErrCodeInvalidStatus:
		return goa.NewServiceError(msg, ErrNameInvalidStatus, false, false, false)
	case apperrors.ErrCodeNotFound:
		return goa.NewServiceError(msg, ErrNameNotFound, false, false, false)
	case apperrors.ErrCodeUnauthorized:
		return goa.NewServiceError(msg, ErrNameUnauthorized, false, false, false)
	case apperrors.ErrCodePersistence:
		return goa.NewServiceError(errors.New("storage unavailable"), ErrNamePersistence, false, false, true)
	default:
		return goa.NewServiceError(errors.New("internal server error"), ErrNameInternal, false, false, true)
	}
}

// MakeErrorResult builds the response body for err.
func MakeErrorResult(err error) *ErrorResult {
	svcErr := MakeServiceError(err)
	res := &ErrorResult{
		Name:    svcErr.Name,
		ID:      svcErr.ID,
		Message: svcErr.Message,
		Fault:   svcErr.Fault,
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && !res.Fault {
		res.Field = appErr.Field
	}
	return res
}

// Unauthorized creates the error returned for any failed authentication.
func Unauthorized(message string) error {
	return apperrors.New(apperrors.ErrCodeUnauthorized, message)
}
