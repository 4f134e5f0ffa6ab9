package dto

import (
	"time"

	apperrors "shopledger/internal/errors"
)

type ErrorResponse struct {
	Error     string                       `json:"error"`
	Code      string                       `json:"code"`
	TraceID   string                       `json:"traceId"`
	Details   []apperrors.ValidationDetail `json:"details,omitempty"`
	Timestamp time.Time                    `json:"timestamp"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}
