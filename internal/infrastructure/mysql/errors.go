package mysql

import (
	"errors"

	"github.com/go-sql-driver/mysql"

	apperrors "shopledger/internal/errors"
)

const (
	errDuplicateEntry  = 1062
	errLockWaitTimeout = 1205
	errDeadlock        = 1213
)

func IsDuplicateEntry(err error) bool {
	return hasErrorNumber(err, errDuplicateEntry)
}

func IsDeadlock(err error) bool {
	return hasErrorNumber(err, errDeadlock) || hasErrorNumber(err, errLockWaitTimeout)
}

// ClassifyError turns lock conflicts into a DeadlockError so callers can
// answer 409 instead of 500. Other errors pass through unchanged.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.IsDeadlockError(err); ok {
		return err
	}
	if IsDeadlock(err) {
		return apperrors.NewDeadlockError("transaction conflicted with a concurrent request, please retry", err)
	}
	return err
}

func hasErrorNumber(err error, number uint16) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == number
	}
	return false
}
