package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "sale not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("test not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
	assert.Equal(t, "test not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestNotFoundError_IsNotFoundError_Wrapped(t *testing.T) {
	err := fmt.Errorf("loading sale: %w", NewNotFoundError("Sale not found: abc"))

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "Sale not found: abc", notFoundErr.Message)
}

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "name", Message: "required field"},
		{Field: "categoryId", Message: "required field"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)
}

func TestInsufficientStockError_Message(t *testing.T) {
	err := NewInsufficientStockError("p-1", "Sample Paint 1L", 3, 5)

	assert.Equal(t, "Insufficient stock for Sample Paint 1L. Available: 3", err.Error())
	assert.Equal(t, 5, err.Requested)

	ise, ok := IsInsufficientStockError(fmt.Errorf("committing sale: %w", err))
	assert.True(t, ok)
	assert.Equal(t, "p-1", ise.ProductID)

	_, ok = IsValidationError(err)
	assert.False(t, ok)
}

func TestConflictError_IsConflictError(t *testing.T) {
	err := NewConflictError("category already exists")

	ce, ok := IsConflictError(err)
	assert.True(t, ok)
	assert.Equal(t, "category already exists", ce.Error())

	_, ok = IsConflictError(errors.New("plain"))
	assert.False(t, ok)
}

func TestDeadlockError_Unwrap(t *testing.T) {
	cause := errors.New("Error 1213: Deadlock found")
	err := NewDeadlockError("concurrent update, retry the request", cause)

	de, ok := IsDeadlockError(err)
	assert.True(t, ok)
	assert.Equal(t, "concurrent update, retry the request", de.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestInternalError_Creation(t *testing.T) {
	cause := errors.New("database error")
	err := NewInternalError("failed to query database", cause)

	assert.NotNil(t, err)
	assert.Equal(t, "failed to query database", err.Message)
	assert.Equal(t, cause, err.Cause)
	assert.Contains(t, err.Error(), "failed to query database")
	assert.Contains(t, err.Error(), "database error")
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewInternalError("wrapper", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestInternalError_NilCause(t *testing.T) {
	err := NewInternalError("no cause", nil)

	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}
