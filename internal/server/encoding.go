package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	goahttp "goa.design/goa/v3/http"
	"go.uber.org/zap"

	"creatorsite/internal/services"
	apperrors "creatorsite/pkg/errors"
)

const maxBodyBytes = 1 << 20

// decode reads the JSON request body into v. An empty body leaves v as is
// unless required is set.
func decode(r *http.Request, v any, required bool) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	err := goahttp.RequestDecoder(r).Decode(v)
	if errors.Is(err, io.EOF) {
		if required {
			return apperrors.Validation("body", "request body is required")
		}
		return nil
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperrors.Validation("body", "request body is too large")
		}
		return &apperrors.AppError{
			Code:    apperrors.ErrCodeValidation,
			Message: "request body is not valid JSON",
			Field:   "body",
			Err:     err,
		}
	}
	return nil
}

// encode writes v as the response body with the given status.
func encode(ctx context.Context, w http.ResponseWriter, status int, v any) error {
	enc := goahttp.ResponseEncoder(ctx, w)
	w.WriteHeader(status)
	return enc.Encode(v)
}

// errorHandler writes err using the shared error body and logs server-side
// faults.
func errorHandler(logger *zap.Logger) func(context.Context, http.ResponseWriter, error) {
	return func(ctx context.Context, w http.ResponseWriter, err error) {
		res := services.MakeErrorResult(err)
		if res.Fault {
			logger.Error("Request failed", zap.String("error_id", res.ID), zap.Error(err))
		} else {
			logger.Debug("Request rejected", zap.String("error", res.Name), zap.String("message", res.Message))
		}
		if encErr := encode(ctx, w, res.StatusCode(), res); encErr != nil {
			logger.Error("Failed to encode error response", zap.Error(encErr))
		}
	}
}
