package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrUniqueViolation reports an insert that collided with a unique constraint.
var ErrUniqueViolation = errors.New("unique constraint violation")

// ErrConditionFailed reports a conditional write whose guard did not hold.
var ErrConditionFailed = errors.New("write condition not met")

const pqUniqueViolation = "23505"

func mapWriteError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return ErrUniqueViolation
	}
	return err
}
