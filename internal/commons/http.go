package commons

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"shopledger/internal/dto"
	apperrors "shopledger/internal/errors"
)

const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeDeadlock          = "DEADLOCK"
	CodeInternal          = "INTERNAL_ERROR"
)

func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// WriteError maps application errors to a status code and the shared error
// body. Unknown errors are logged and hidden behind a generic message.
func WriteError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	status, code, message := http.StatusInternalServerError, CodeInternal, "an unexpected error occurred"
	var details []apperrors.ValidationDetail

	if ve, ok := apperrors.IsValidationError(err); ok {
		status, code, message, details = http.StatusBadRequest, CodeValidation, ve.Message, ve.Details
	} else if se, ok := apperrors.IsInsufficientStockError(err); ok {
		status, code, message = http.StatusBadRequest, CodeInsufficientStock, se.Error()
	} else if nf, ok := apperrors.IsNotFoundError(err); ok {
		status, code, message = http.StatusNotFound, CodeNotFound, nf.Error()
	} else if de, ok := apperrors.IsDeadlockError(err); ok {
		status, code, message = http.StatusConflict, CodeDeadlock, de.Message
	} else if ce, ok := apperrors.IsConflictError(err); ok {
		status, code, message = http.StatusConflict, CodeConflict, ce.Error()
	} else {
		logger.Error("unexpected error", zap.String("traceId", traceID), zap.Error(err))
	}

	if status < http.StatusInternalServerError {
		logger.Warn("request failed", zap.String("traceId", traceID), zap.String("code", code), zap.String("error", message))
	}

	WriteJSON(w, status, dto.ErrorResponse{
		Error:     message,
		Code:      code,
		TraceID:   traceID,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}, logger)
}

// DecodeJSON reads the request body into dst, reporting malformed JSON and
// bodies over the request size limit as validation errors.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return apperrors.NewValidationError("request body too large", apperrors.ValidationDetail{
				Field:   "body",
				Message: fmt.Sprintf("request body must be at most %d bytes", tooLarge.Limit),
			})
		}
		return apperrors.NewValidationError("invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
	}
	return nil
}
