package db

import (
	"errors"

	"homestash/internal/domain/fault"
)

const maxTxAttempts = 3

// RunSerializable executes fn, retrying when postgres aborts the
// transaction with a serialization failure (40001) or deadlock (40P01).
func RunSerializable(fn func() error) error {
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = fn()
		if err == nil || !isRetryable(err) {
			return err
		}
	}
	return fault.Conflict("transaction", "", err)
}

func isRetryable(err error) bool {
	var coded interface{ SQLState() string }
	if !errors.As(err, &coded) {
		return false
	}
	state := coded.SQLState()
	return state == "40001" || state == "40P01"
}
