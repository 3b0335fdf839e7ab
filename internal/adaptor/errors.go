package adaptor

import (
	"errors"
	"net/http"

	"backoffice/internal/usecase"
	"backoffice/pkg/utils"

	"go.uber.org/zap"
)

// requestError is a body or path that could not be read at all.
type requestError struct {
	message string
	err     error
}

func (e *requestError) Error() string {
	if e.err == nil {
		return e.message
	}
	return e.message + ": " + e.err.Error()
}

func (e *requestError) Unwrap() error { return e.err }

func badRequest(message string, err error) error {
	return &requestError{message: message, err: err}
}

// handleServiceError maps workflow errors onto the response envelope.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var (
		validationErr *usecase.ValidationError
		storageErr    *usecase.StorageError
		reqErr        *requestError
		tooLarge      *http.MaxBytesError
	)

	switch {
	case errors.As(err, &validationErr):
		log.Warn(operation+" validation failed",
			zap.Any("errors", validationErr.Fields),
			zap.String("operation", operation))
		utils.ResponseUnprocessable(w, "Validation failed", validationErr.Fields)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, "Resource not found")

	case errors.As(err, &tooLarge):
		log.Warn(operation+" failed - body too large",
			zap.Int64("limit", tooLarge.Limit),
			zap.String("operation", operation))
		utils.ResponseTooLarge(w, "Request body too large")

	case errors.As(err, &reqErr):
		log.Warn("Invalid input for "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, reqErr.message, nil)

	case errors.As(err, &storageErr):
		log.Error(operation+" failed - storage unavailable",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadGateway(w, "File storage unavailable")

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
